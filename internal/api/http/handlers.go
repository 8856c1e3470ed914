package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smt-platform/production-service/internal/application"
	"github.com/smt-platform/production-service/internal/domain"
	apperrors "github.com/smt-platform/production-service/pkg/errors"
)

// Handlers holds the HTTP handlers for the production service
type Handlers struct {
	production *application.ProductionService
	imports    *application.ImportService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(production *application.ProductionService, imports *application.ImportService) *Handlers {
	return &Handlers{production: production, imports: imports}
}

// respondError maps a domain error kind to an HTTP response.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	switch domain.KindOf(err) {
	case domain.KindValidation:
		appErr = apperrors.ErrValidation(err.Error())
	case domain.KindNotFound:
		appErr = apperrors.NewAppError(apperrors.CodeNotFound, err.Error(), http.StatusNotFound)
	case domain.KindStateConflict:
		appErr = apperrors.ErrConflict(err.Error())
	case domain.KindInconsistency:
		appErr = apperrors.NewAppError(apperrors.CodeInternalError, err.Error(), http.StatusInternalServerError)
	default:
		appErr = apperrors.FromError(err)
	}
	c.JSON(appErr.HTTPStatus, gin.H{"error": appErr})
}

func respond(c *gin.Context, status int, dto *application.WorkOrderDTO, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, dto)
}

// CreateWorkOrderRequest is the request body for creating a work order
type CreateWorkOrderRequest struct {
	OrderType         string    `json:"orderType" binding:"required"`
	ProductCategoryID string    `json:"productCategoryId" binding:"required"`
	Thickness         float64   `json:"thickness" binding:"required,gt=0"`
	Priority          string    `json:"priority" binding:"required"`
	DeliveryDate      time.Time `json:"deliveryDate" binding:"required"`
	SkipFilling       bool      `json:"skipFilling"`
	Notes             string    `json:"notes"`
}

// CreateWorkOrder handles POST /api/v1/work-orders
func (h *Handlers) CreateWorkOrder(c *gin.Context) {
	var req CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.CreateWorkOrder(c.Request.Context(), application.CreateWorkOrderCommand{
		OrderType:         domain.WorkOrderType(req.OrderType),
		ProductCategoryID: req.ProductCategoryID,
		Thickness:         req.Thickness,
		Priority:          req.Priority,
		DeliveryDate:      req.DeliveryDate,
		SkipFilling:       req.SkipFilling,
		Notes:             req.Notes,
	})
	respond(c, http.StatusCreated, dto, err)
}

// UpdateWorkOrderRequest is the request body for updating a work order
type UpdateWorkOrderRequest struct {
	OrderType    string    `json:"orderType" binding:"required"`
	Priority     string    `json:"priority" binding:"required"`
	DeliveryDate time.Time `json:"deliveryDate" binding:"required"`
	Notes        string    `json:"notes"`
}

// UpdateWorkOrder handles PUT /api/v1/work-orders/:orderId
func (h *Handlers) UpdateWorkOrder(c *gin.Context) {
	var req UpdateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.UpdateWorkOrder(c.Request.Context(), application.UpdateWorkOrderCommand{
		OrderID:      c.Param("orderId"),
		OrderType:    domain.WorkOrderType(req.OrderType),
		Priority:     req.Priority,
		DeliveryDate: req.DeliveryDate,
		Notes:        req.Notes,
	})
	respond(c, http.StatusOK, dto, err)
}

// GetWorkOrder handles GET /api/v1/work-orders/:orderId
func (h *Handlers) GetWorkOrder(c *gin.Context) {
	dto, err := h.production.GetWorkOrder(c.Request.Context(), application.GetWorkOrderQuery{
		OrderID: c.Param("orderId"),
	})
	respond(c, http.StatusOK, dto, err)
}

// MyWorkOrders handles GET /api/v1/work-orders/queue/:role
func (h *Handlers) MyWorkOrders(c *gin.Context) {
	dtos, err := h.production.MyWorkOrders(c.Request.Context(), application.MyWorkOrdersQuery{
		Role: c.Param("role"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos)
}

// SubmitRequisitionRequest is the request body for submitting a requisition
type SubmitRequisitionRequest struct {
	BlockNumber string `json:"blockNumber"`
	BundleID    string `json:"bundleId"`
	Operator    string `json:"operator" binding:"required"`
}

// SubmitRequisition handles POST /api/v1/work-orders/:orderId/requisition
func (h *Handlers) SubmitRequisition(c *gin.Context) {
	var req SubmitRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.SubmitRequisition(c.Request.Context(), application.SubmitRequisitionCommand{
		OrderID:     c.Param("orderId"),
		BlockNumber: req.BlockNumber,
		BundleID:    req.BundleID,
		Operator:    req.Operator,
	})
	respond(c, http.StatusOK, dto, err)
}

// OperatorRequest is the request body for operations needing only an operator
type OperatorRequest struct {
	Operator string `json:"operator" binding:"required"`
}

// ApproveRequisition handles POST /api/v1/work-orders/:orderId/requisition/approve
func (h *Handlers) ApproveRequisition(c *gin.Context) {
	var req OperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.ApproveRequisition(c.Request.Context(), application.ApproveRequisitionCommand{
		OrderID:  c.Param("orderId"),
		Operator: req.Operator,
	})
	respond(c, http.StatusOK, dto, err)
}

// StageReportRequest is the request body for a pipeline stage record
type StageReportRequest struct {
	Details   string    `json:"details"`
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
	Operator  string    `json:"operator" binding:"required"`
}

func (r StageReportRequest) toCommand(orderID string) application.StageReportCommand {
	return application.StageReportCommand{
		OrderID:   orderID,
		Details:   r.Details,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Operator:  r.Operator,
	}
}

// SubmitTrimmingRequest is the request body for the trimming stage
type SubmitTrimmingRequest struct {
	StageReportRequest
	Length float64 `json:"length" binding:"required,gt=0"`
	Width  float64 `json:"width" binding:"required,gt=0"`
	Height float64 `json:"height" binding:"required,gt=0"`
}

// SubmitTrimming handles POST /api/v1/work-orders/:orderId/trimming
func (h *Handlers) SubmitTrimming(c *gin.Context) {
	var req SubmitTrimmingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.SubmitTrimming(c.Request.Context(), application.SubmitTrimmingCommand{
		StageReportCommand: req.StageReportRequest.toCommand(c.Param("orderId")),
		Length:             req.Length,
		Width:              req.Width,
		Height:             req.Height,
	})
	respond(c, http.StatusOK, dto, err)
}

// TrimmingQERequest is the request body for the trimming quality check
type TrimmingQERequest struct {
	Length    float64 `json:"length" binding:"required,gt=0"`
	Width     float64 `json:"width" binding:"required,gt=0"`
	Height    float64 `json:"height" binding:"required,gt=0"`
	Inspector string  `json:"inspector" binding:"required"`
}

// ConfirmTrimmingQE handles POST /api/v1/work-orders/:orderId/trimming/qe
func (h *Handlers) ConfirmTrimmingQE(c *gin.Context) {
	var req TrimmingQERequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.ConfirmTrimmingQE(c.Request.Context(), application.ConfirmTrimmingQECommand{
		OrderID:   c.Param("orderId"),
		Length:    req.Length,
		Width:     req.Width,
		Height:    req.Height,
		Inspector: req.Inspector,
	})
	respond(c, http.StatusOK, dto, err)
}

// SubmitSawing handles POST /api/v1/work-orders/:orderId/sawing
func (h *Handlers) SubmitSawing(c *gin.Context) {
	var req StageReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.SubmitSawing(c.Request.Context(), req.toCommand(c.Param("orderId")))
	respond(c, http.StatusOK, dto, err)
}

// SplitSlabRequest is one sawn slab in a split submission
type SplitSlabRequest struct {
	SequenceNumber  int     `json:"sequenceNumber" binding:"required,gt=0"`
	Length          float64 `json:"length" binding:"required,gt=0"`
	Width           float64 `json:"width" binding:"required,gt=0"`
	DeductedLength  float64 `json:"deductedLength"`
	DeductedWidth   float64 `json:"deductedWidth"`
	Discarded       bool    `json:"discarded"`
	DiscardedReason string  `json:"discardedReason"`
	Note            string  `json:"note"`
}

// SplitBundleRequest is one bundle in a split submission
type SplitBundleRequest struct {
	BundleNo int                `json:"bundleNo" binding:"required,gt=0"`
	GradeID  string             `json:"gradeId" binding:"required"`
	Slabs    []SplitSlabRequest `json:"slabs" binding:"required,min=1"`
}

// SplitIntoBundlesRequest is the request body for the sawing QE split
type SplitIntoBundlesRequest struct {
	TotalSlabCount   int                  `json:"totalSlabCount" binding:"required,gt=0"`
	TotalBundleCount int                  `json:"totalBundleCount" binding:"required,gt=0"`
	Thickness        float64              `json:"thickness" binding:"required,gt=0"`
	Bundles          []SplitBundleRequest `json:"bundles" binding:"required,min=1"`
	Inspector        string               `json:"inspector" binding:"required"`
}

// SplitIntoBundles handles POST /api/v1/work-orders/:orderId/sawing/split
func (h *Handlers) SplitIntoBundles(c *gin.Context) {
	var req SplitIntoBundlesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.SplitIntoBundlesCommand{
		OrderID:          c.Param("orderId"),
		TotalSlabCount:   req.TotalSlabCount,
		TotalBundleCount: req.TotalBundleCount,
		Thickness:        req.Thickness,
		Inspector:        req.Inspector,
	}
	for _, b := range req.Bundles {
		bundle := application.SplitBundleCommand{
			BundleNo: b.BundleNo,
			GradeID:  b.GradeID,
		}
		for _, s := range b.Slabs {
			bundle.Slabs = append(bundle.Slabs, application.SplitSlabCommand{
				SequenceNumber:  s.SequenceNumber,
				Length:          s.Length,
				Width:           s.Width,
				DeductedLength:  s.DeductedLength,
				DeductedWidth:   s.DeductedWidth,
				Discarded:       s.Discarded,
				DiscardedReason: s.DiscardedReason,
				Note:            s.Note,
			})
		}
		cmd.Bundles = append(cmd.Bundles, bundle)
	}

	dto, err := h.production.SplitIntoBundles(c.Request.Context(), cmd)
	respond(c, http.StatusOK, dto, err)
}

// SubmitFilling handles POST /api/v1/work-orders/:orderId/filling
func (h *Handlers) SubmitFilling(c *gin.Context) {
	var req StageReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.SubmitFilling(c.Request.Context(), req.toCommand(c.Param("orderId")))
	respond(c, http.StatusOK, dto, err)
}

// SlabQERequest is the request body for a per-slab quality check
type SlabQERequest struct {
	SlabID          string  `json:"slabId" binding:"required"`
	Length          float64 `json:"length" binding:"required,gt=0"`
	Width           float64 `json:"width" binding:"required,gt=0"`
	DeductedLength  float64 `json:"deductedLength"`
	DeductedWidth   float64 `json:"deductedWidth"`
	Discarded       bool    `json:"discarded"`
	DiscardedReason string  `json:"discardedReason"`
	Note            string  `json:"note"`
	Inspector       string  `json:"inspector" binding:"required"`
}

func (r SlabQERequest) toCommand(orderID string) application.SlabQECommand {
	return application.SlabQECommand{
		OrderID:         orderID,
		SlabID:          r.SlabID,
		Length:          r.Length,
		Width:           r.Width,
		DeductedLength:  r.DeductedLength,
		DeductedWidth:   r.DeductedWidth,
		Discarded:       r.Discarded,
		DiscardedReason: r.DiscardedReason,
		Note:            r.Note,
		Inspector:       r.Inspector,
	}
}

// ConfirmFillingQE handles POST /api/v1/work-orders/:orderId/filling/qe
func (h *Handlers) ConfirmFillingQE(c *gin.Context) {
	var req SlabQERequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.ConfirmFillingQE(c.Request.Context(), req.toCommand(c.Param("orderId")))
	respond(c, http.StatusOK, dto, err)
}

// InspectorRequest is the request body for operations needing only an inspector
type InspectorRequest struct {
	Inspector string `json:"inspector" binding:"required"`
}

// ConfirmFillingOver handles POST /api/v1/work-orders/:orderId/filling/over
func (h *Handlers) ConfirmFillingOver(c *gin.Context) {
	var req InspectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.ConfirmFillingOver(c.Request.Context(), application.FillingOverCommand{
		OrderID:   c.Param("orderId"),
		Inspector: req.Inspector,
	})
	respond(c, http.StatusOK, dto, err)
}

// ConfirmPolishingQE handles POST /api/v1/work-orders/:orderId/polishing/qe
func (h *Handlers) ConfirmPolishingQE(c *gin.Context) {
	var req SlabQERequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.ConfirmPolishingQE(c.Request.Context(), req.toCommand(c.Param("orderId")))
	respond(c, http.StatusOK, dto, err)
}

// BundleGradeQERequest is the request body for grading a bundle
type BundleGradeQERequest struct {
	BundleID  string `json:"bundleId" binding:"required"`
	GradeID   string `json:"gradeId" binding:"required"`
	Inspector string `json:"inspector" binding:"required"`
}

// ConfirmBundleGradeQE handles POST /api/v1/work-orders/:orderId/polishing/bundle-grade
func (h *Handlers) ConfirmBundleGradeQE(c *gin.Context) {
	var req BundleGradeQERequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.ConfirmBundleGradeQE(c.Request.Context(), application.BundleGradeQECommand{
		OrderID:   c.Param("orderId"),
		BundleID:  req.BundleID,
		GradeID:   req.GradeID,
		Inspector: req.Inspector,
	})
	respond(c, http.StatusOK, dto, err)
}

// ConfirmPolishingOver handles POST /api/v1/work-orders/:orderId/polishing/over
func (h *Handlers) ConfirmPolishingOver(c *gin.Context) {
	var req InspectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.ConfirmPolishingOver(c.Request.Context(), application.PolishingOverCommand{
		OrderID:   c.Param("orderId"),
		Inspector: req.Inspector,
	})
	respond(c, http.StatusOK, dto, err)
}

// ConfirmPolishing handles POST /api/v1/work-orders/:orderId/polishing/complete
func (h *Handlers) ConfirmPolishing(c *gin.Context) {
	var req StageReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.ConfirmPolishing(c.Request.Context(), req.toCommand(c.Param("orderId")))
	respond(c, http.StatusOK, dto, err)
}

// ReasonRequest is the request body for cancel and discard operations
type ReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelWorkOrder handles POST /api/v1/work-orders/:orderId/cancel
func (h *Handlers) CancelWorkOrder(c *gin.Context) {
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.CancelWorkOrder(c.Request.Context(), application.CancelWorkOrderCommand{
		OrderID: c.Param("orderId"),
		Reason:  req.Reason,
	})
	respond(c, http.StatusOK, dto, err)
}

// DiscardBlock handles POST /api/v1/work-orders/:orderId/discard-block
func (h *Handlers) DiscardBlock(c *gin.Context) {
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.DiscardBlock(c.Request.Context(), application.DiscardBlockCommand{
		OrderID: c.Param("orderId"),
		Reason:  req.Reason,
	})
	respond(c, http.StatusOK, dto, err)
}

// ReworkBundleRequest is the request body for sending a bundle back to filling
type ReworkBundleRequest struct {
	BundleID string `json:"bundleId" binding:"required"`
}

// ReworkBundleToFilling handles POST /api/v1/work-orders/:orderId/rework/bundle
func (h *Handlers) ReworkBundleToFilling(c *gin.Context) {
	var req ReworkBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.ReworkBundleToFilling(c.Request.Context(), application.ReworkBundleCommand{
		OrderID:  c.Param("orderId"),
		BundleID: req.BundleID,
	})
	respond(c, http.StatusOK, dto, err)
}

// ReworkSlabRequest is the request body for sending a slab back to filling
type ReworkSlabRequest struct {
	SlabID string `json:"slabId" binding:"required"`
}

// ReworkSlabToFilling handles POST /api/v1/work-orders/:orderId/rework/slab
func (h *Handlers) ReworkSlabToFilling(c *gin.Context) {
	var req ReworkSlabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := h.production.ReworkSlabToFilling(c.Request.Context(), application.ReworkSlabCommand{
		OrderID: c.Param("orderId"),
		SlabID:  req.SlabID,
	})
	respond(c, http.StatusOK, dto, err)
}

// StockBundleRowRequest is one manifest row of a stock-admission import
type StockBundleRowRequest struct {
	BlockNumber      string  `json:"blockNumber" binding:"required"`
	BundleNo         int     `json:"bundleNo" binding:"required,gt=0"`
	TotalBundleCount int     `json:"totalBundleCount" binding:"required,gt=0"`
	TotalSlabCount   int     `json:"totalSlabCount" binding:"required,gt=0"`
	Length           float64 `json:"length" binding:"required,gt=0"`
	Width            float64 `json:"width" binding:"required,gt=0"`
	Thickness        float64 `json:"thickness" binding:"required,gt=0"`
	Area             float64 `json:"area" binding:"required,gt=0"`
	CategoryName     string  `json:"categoryName" binding:"required"`
	GradeName        string  `json:"gradeName" binding:"required"`
}

// ImportStockBundlesRequest is the request body for a stock-admission import
type ImportStockBundlesRequest struct {
	Rows     []StockBundleRowRequest `json:"rows" binding:"required,min=1"`
	Operator string                  `json:"operator" binding:"required"`
}

// ImportStockBundles handles POST /api/v1/imports/stock-bundles
func (h *Handlers) ImportStockBundles(c *gin.Context) {
	var req ImportStockBundlesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.ImportStockBundlesCommand{Operator: req.Operator}
	for _, r := range req.Rows {
		cmd.Rows = append(cmd.Rows, application.StockBundleRow{
			BlockNumber:      r.BlockNumber,
			BundleNo:         r.BundleNo,
			TotalBundleCount: r.TotalBundleCount,
			TotalSlabCount:   r.TotalSlabCount,
			Length:           r.Length,
			Width:            r.Width,
			Thickness:        r.Thickness,
			Area:             r.Area,
			CategoryName:     r.CategoryName,
			GradeName:        r.GradeName,
		})
	}

	report, err := h.imports.ImportStockBundles(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// PolishingSlabRowRequest is one slab of a polishing-data manifest
type PolishingSlabRowRequest struct {
	SequenceNumber int     `json:"sequenceNumber" binding:"required,gt=0"`
	Length         float64 `json:"length" binding:"required,gt=0"`
	Width          float64 `json:"width" binding:"required,gt=0"`
	DeductedLength float64 `json:"deductedLength"`
	DeductedWidth  float64 `json:"deductedWidth"`
}

// PolishingBundleRowRequest is one bundle of a polishing-data manifest
type PolishingBundleRowRequest struct {
	BlockNumber    string                    `json:"blockNumber" binding:"required"`
	BundleNo       int                       `json:"bundleNo" binding:"required,gt=0"`
	Thickness      float64                   `json:"thickness" binding:"required,gt=0"`
	GradeName      string                    `json:"gradeName" binding:"required"`
	TotalSlabCount int                       `json:"totalSlabCount" binding:"required,gt=0"`
	Slabs          []PolishingSlabRowRequest `json:"slabs" binding:"required,min=1"`
}

// ImportPolishingDataRequest is the request body for a polishing-data import
type ImportPolishingDataRequest struct {
	Bundles  []PolishingBundleRowRequest `json:"bundles" binding:"required,min=1"`
	Operator string                      `json:"operator" binding:"required"`
}

// ImportPolishingData handles POST /api/v1/imports/polishing-data
func (h *Handlers) ImportPolishingData(c *gin.Context) {
	var req ImportPolishingDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.ImportPolishingDataCommand{Operator: req.Operator}
	for _, b := range req.Bundles {
		row := application.PolishingBundleRow{
			BlockNumber:    b.BlockNumber,
			BundleNo:       b.BundleNo,
			Thickness:      b.Thickness,
			GradeName:      b.GradeName,
			TotalSlabCount: b.TotalSlabCount,
		}
		for _, s := range b.Slabs {
			row.Slabs = append(row.Slabs, application.PolishingSlabRow{
				SequenceNumber: s.SequenceNumber,
				Length:         s.Length,
				Width:          s.Width,
				DeductedLength: s.DeductedLength,
				DeductedWidth:  s.DeductedWidth,
			})
		}
		cmd.Bundles = append(cmd.Bundles, row)
	}

	report, err := h.imports.ImportPolishingData(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
