package application

import "time"

// WorkOrderDTO represents a work order in responses
type WorkOrderDTO struct {
	OrderID            string `json:"orderId"`
	OrderNumber        string `json:"orderNumber"`
	OrderType          string `json:"orderType"`
	ManufacturingState string `json:"manufacturingState"`
	Priority           string `json:"priority"`
	DeliveryDate       time.Time `json:"deliveryDate"`
	Notes              string `json:"notes,omitempty"`
	ProductCategoryID  string `json:"productCategoryId"`
	Thickness          float64 `json:"thickness"`
	SkipFilling        bool   `json:"skipFilling"`
	BlockDiscarded     bool   `json:"blockDiscarded"`
	CancelReason       string `json:"cancelReason,omitempty"`

	TrimmingOperator  string `json:"trimmingOperator,omitempty"`
	TrimmingQE        string `json:"trimmingQe,omitempty"`
	SawingOperator    string `json:"sawingOperator,omitempty"`
	SawingQE          string `json:"sawingQe,omitempty"`
	FillingOperator   string `json:"fillingOperator,omitempty"`
	FillingQE         string `json:"fillingQe,omitempty"`
	PolishingOperator string `json:"polishingOperator,omitempty"`
	PolishingQE       string `json:"polishingQe,omitempty"`

	AreaAfterSawing    *float64 `json:"areaAfterSawing,omitempty"`
	AreaAfterFilling   *float64 `json:"areaAfterFilling,omitempty"`
	AreaAfterPolishing *float64 `json:"areaAfterPolishing,omitempty"`

	BlockOutturnPercentage        *float64 `json:"blockOutturnPercentage,omitempty"`
	RawSlabOutturnPercentage      *float64 `json:"rawSlabOutturnPercentage,omitempty"`
	PolishedSlabOutturnPercentage *float64 `json:"polishedSlabOutturnPercentage,omitempty"`

	Block *BlockDTO `json:"block,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BlockDTO represents a raw block and its bundles in responses
type BlockDTO struct {
	BlockID     string `json:"blockId"`
	BlockNumber string `json:"blockNumber"`
	CategoryID  string `json:"categoryId"`
	Status      string `json:"status"`

	QuarryReportedLength float64 `json:"quarryReportedLength"`
	QuarryReportedWidth  float64 `json:"quarryReportedWidth"`
	QuarryReportedHeight float64 `json:"quarryReportedHeight"`

	TrimmedLength *float64 `json:"trimmedLength,omitempty"`
	TrimmedWidth  *float64 `json:"trimmedWidth,omitempty"`
	TrimmedHeight *float64 `json:"trimmedHeight,omitempty"`

	TotalSlabCount  int    `json:"totalSlabCount"`
	DiscardedReason string `json:"discardedReason,omitempty"`

	Bundles []BundleDTO `json:"bundles"`
}

// BundleDTO represents a bundle of slabs in responses
type BundleDTO struct {
	BundleID           string  `json:"bundleId"`
	BlockNumber        string  `json:"blockNumber"`
	BundleNo           int     `json:"bundleNo"`
	TotalBundleCount   int     `json:"totalBundleCount"`
	TotalSlabCount     int     `json:"totalSlabCount"`
	CategoryID         string  `json:"categoryId"`
	GradeID            string  `json:"gradeId,omitempty"`
	Thickness          float64 `json:"thickness"`
	Type               string  `json:"type"`
	Status             string  `json:"status"`
	ManufacturingState string  `json:"manufacturingState"`
	Area               float64 `json:"area"`

	Slabs []SlabDTO `json:"slabs"`
}

// SlabDTO represents a single slab in responses
type SlabDTO struct {
	SlabID             string  `json:"slabId"`
	SequenceNumber     int     `json:"sequenceNumber"`
	CategoryID         string  `json:"categoryId"`
	GradeID            string  `json:"gradeId,omitempty"`
	Thickness          float64 `json:"thickness"`
	Type               string  `json:"type"`
	Status             string  `json:"status"`
	ManufacturingState string  `json:"manufacturingState"`

	LengthAfterSawing    float64  `json:"lengthAfterSawing"`
	WidthAfterSawing     float64  `json:"widthAfterSawing"`
	LengthAfterFilling   *float64 `json:"lengthAfterFilling,omitempty"`
	WidthAfterFilling    *float64 `json:"widthAfterFilling,omitempty"`
	LengthAfterPolishing *float64 `json:"lengthAfterPolishing,omitempty"`
	WidthAfterPolishing  *float64 `json:"widthAfterPolishing,omitempty"`

	DeductedLength float64 `json:"deductedLength"`
	DeductedWidth  float64 `json:"deductedWidth"`
	NetArea        float64 `json:"netArea"`

	DiscardedReason string `json:"discardedReason,omitempty"`
}

// ImportReportDTO summarizes the outcome of a manifest import. Error rows are
// skipped, warning rows are applied with caveats.
type ImportReportDTO struct {
	Infos    []string `json:"infos"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}
