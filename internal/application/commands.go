package application

import (
	"time"

	"github.com/smt-platform/production-service/internal/domain"
)

// CreateWorkOrderCommand creates a new production work order
type CreateWorkOrderCommand struct {
	OrderType         domain.WorkOrderType
	ProductCategoryID string
	Thickness         float64
	Priority          string
	DeliveryDate      time.Time
	SkipFilling       bool
	Notes             string
}

// UpdateWorkOrderCommand revises the plan fields of an existing order
type UpdateWorkOrderCommand struct {
	OrderID      string
	OrderType    domain.WorkOrderType
	Priority     string
	DeliveryDate time.Time
	Notes        string
}

// SubmitRequisitionCommand reserves a block or a stock bundle for an order
type SubmitRequisitionCommand struct {
	OrderID     string
	BlockNumber string
	BundleID    string
	Operator    string
}

// ApproveRequisitionCommand approves the pending material requisition
type ApproveRequisitionCommand struct {
	OrderID  string
	Operator string
}

// StageReportCommand carries the record of one pipeline stage
type StageReportCommand struct {
	OrderID   string
	Details   string
	StartTime time.Time
	EndTime   time.Time
	Operator  string
}

// SubmitTrimmingCommand records the trimming stage with the trimmed block dimensions
type SubmitTrimmingCommand struct {
	StageReportCommand
	Length float64
	Width  float64
	Height float64
}

// ConfirmTrimmingQECommand confirms the trimmed dimensions
type ConfirmTrimmingQECommand struct {
	OrderID   string
	Length    float64
	Width     float64
	Height    float64
	Inspector string
}

// SplitSlabCommand describes one sawn slab within a split submission
type SplitSlabCommand struct {
	SequenceNumber  int
	Length          float64
	Width           float64
	DeductedLength  float64
	DeductedWidth   float64
	Discarded       bool
	DiscardedReason string
	Note            string
}

// SplitBundleCommand describes one bundle within a split submission
type SplitBundleCommand struct {
	BundleNo int
	GradeID  string
	Slabs    []SplitSlabCommand
}

// SplitIntoBundlesCommand partitions the sawn block into bundles of slabs
type SplitIntoBundlesCommand struct {
	OrderID          string
	TotalSlabCount   int
	TotalBundleCount int
	Thickness        float64
	Bundles          []SplitBundleCommand
	Inspector        string
}

// SlabQECommand records the quality check of one slab
type SlabQECommand struct {
	OrderID         string
	SlabID          string
	Length          float64
	Width           float64
	DeductedLength  float64
	DeductedWidth   float64
	Discarded       bool
	DiscardedReason string
	Note            string
	Inspector       string
}

// FillingOverCommand closes the filling stage
type FillingOverCommand struct {
	OrderID   string
	Inspector string
}

// BundleGradeQECommand grades one bundle after polishing
type BundleGradeQECommand struct {
	OrderID   string
	BundleID  string
	GradeID   string
	Inspector string
}

// PolishingOverCommand closes the polishing QE stage
type PolishingOverCommand struct {
	OrderID   string
	Inspector string
}

// CancelWorkOrderCommand cancels an order that has not started cutting
type CancelWorkOrderCommand struct {
	OrderID string
	Reason  string
}

// DiscardBlockCommand scraps the block mid-pipeline
type DiscardBlockCommand struct {
	OrderID string
	Reason  string
}

// ReworkBundleCommand sends a bundle back to the filling stage
type ReworkBundleCommand struct {
	OrderID  string
	BundleID string
}

// ReworkSlabCommand sends a single slab back to the filling stage
type ReworkSlabCommand struct {
	OrderID string
	SlabID  string
}

// GetWorkOrderQuery retrieves a work order by ID
type GetWorkOrderQuery struct {
	OrderID string
}

// MyWorkOrdersQuery lists the orders actionable by a production role
type MyWorkOrdersQuery struct {
	Role string
}

// StockBundleRow is one manifest row of a stock-admission import
type StockBundleRow struct {
	BlockNumber      string
	BundleNo         int
	TotalBundleCount int
	TotalSlabCount   int
	Length           float64
	Width            float64
	Thickness        float64
	Area             float64
	CategoryName     string
	GradeName        string
}

// ImportStockBundlesCommand reconciles stocked bundles from a manifest
type ImportStockBundlesCommand struct {
	Rows     []StockBundleRow
	Operator string
}

// PolishingSlabRow is one slab of a polishing-data manifest
type PolishingSlabRow struct {
	SequenceNumber int
	Length         float64
	Width          float64
	DeductedLength float64
	DeductedWidth  float64
}

// PolishingBundleRow is one bundle of a polishing-data manifest
type PolishingBundleRow struct {
	BlockNumber    string
	BundleNo       int
	Thickness      float64
	GradeName      string
	TotalSlabCount int
	Slabs          []PolishingSlabRow
}

// ImportPolishingDataCommand reconciles polishing measurements from a manifest
type ImportPolishingDataCommand struct {
	Bundles  []PolishingBundleRow
	Operator string
}
