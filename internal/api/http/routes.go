package http

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes for the production service
func SetupRoutes(router *gin.Engine, handlers *Handlers) {
	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		orders := v1.Group("/work-orders")
		{
			orders.POST("", handlers.CreateWorkOrder)
			orders.GET("/queue/:role", handlers.MyWorkOrders)
			orders.GET("/:orderId", handlers.GetWorkOrder)
			orders.PUT("/:orderId", handlers.UpdateWorkOrder)
			orders.POST("/:orderId/requisition", handlers.SubmitRequisition)
			orders.POST("/:orderId/requisition/approve", handlers.ApproveRequisition)
			orders.POST("/:orderId/trimming", handlers.SubmitTrimming)
			orders.POST("/:orderId/trimming/qe", handlers.ConfirmTrimmingQE)
			orders.POST("/:orderId/sawing", handlers.SubmitSawing)
			orders.POST("/:orderId/sawing/split", handlers.SplitIntoBundles)
			orders.POST("/:orderId/filling", handlers.SubmitFilling)
			orders.POST("/:orderId/filling/qe", handlers.ConfirmFillingQE)
			orders.POST("/:orderId/filling/over", handlers.ConfirmFillingOver)
			orders.POST("/:orderId/polishing/qe", handlers.ConfirmPolishingQE)
			orders.POST("/:orderId/polishing/bundle-grade", handlers.ConfirmBundleGradeQE)
			orders.POST("/:orderId/polishing/over", handlers.ConfirmPolishingOver)
			orders.POST("/:orderId/polishing/complete", handlers.ConfirmPolishing)
			orders.POST("/:orderId/cancel", handlers.CancelWorkOrder)
			orders.POST("/:orderId/discard-block", handlers.DiscardBlock)
			orders.POST("/:orderId/rework/bundle", handlers.ReworkBundleToFilling)
			orders.POST("/:orderId/rework/slab", handlers.ReworkSlabToFilling)
		}

		imports := v1.Group("/imports")
		{
			imports.POST("/stock-bundles", handlers.ImportStockBundles)
			imports.POST("/polishing-data", handlers.ImportPolishingData)
		}
	}
}
