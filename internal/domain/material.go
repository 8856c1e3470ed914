package domain

import (
	"time"
)

// BlockStatus represents the stock status of a raw stone block.
type BlockStatus string

const (
	BlockStatusInStock       BlockStatus = "in_stock"
	BlockStatusReserved      BlockStatus = "reserved"
	BlockStatusManufacturing BlockStatus = "manufacturing"
	BlockStatusProcessed     BlockStatus = "processed"
	BlockStatusDiscarded     BlockStatus = "discarded"
)

// MaterialStatus represents the status of a bundle or an individual slab.
type MaterialStatus string

const (
	MaterialStatusInStock       MaterialStatus = "in_stock"
	MaterialStatusManufacturing MaterialStatus = "manufacturing"
	MaterialStatusCheckedOut    MaterialStatus = "checked_out"
	MaterialStatusDiscarded     MaterialStatus = "discarded"
)

// SlabType distinguishes raw (sawn) slabs from polished ones.
type SlabType string

const (
	SlabTypeRaw      SlabType = "raw"
	SlabTypePolished SlabType = "polished"
)

// StoneCategory is a catalog entry for a stone variety. Cross-cut and
// plain-cut products of the same quarry stone are distinct categories
// sharing a base category.
type StoneCategory struct {
	ID             string `bson:"categoryId" json:"categoryId"`
	Name           string `bson:"name" json:"name"`
	BaseCategoryID string `bson:"baseCategoryId,omitempty" json:"baseCategoryId,omitempty"`
}

// StoneGrade is a catalog entry for a quality grade.
type StoneGrade struct {
	ID   string `bson:"gradeId" json:"gradeId"`
	Name string `bson:"name" json:"name"`
}

// GradeNameUnknown is the sentinel grade used when a manifest references a
// grade the catalog does not know.
const GradeNameUnknown = "Unknown"

// Block is a raw quarried stone block. Quarry-reported dimensions are
// immutable; trimmed dimensions are set once during the trimming stage.
type Block struct {
	ID          string      `bson:"blockId" json:"blockId"`
	BlockNumber string      `bson:"blockNumber" json:"blockNumber"`
	CategoryID  string      `bson:"categoryId" json:"categoryId"`
	GradeID     string      `bson:"gradeId,omitempty" json:"gradeId,omitempty"`
	Status      BlockStatus `bson:"status" json:"status"`

	QuarryReportedLength float64 `bson:"quarryReportedLength" json:"quarryReportedLength"`
	QuarryReportedWidth  float64 `bson:"quarryReportedWidth" json:"quarryReportedWidth"`
	QuarryReportedHeight float64 `bson:"quarryReportedHeight" json:"quarryReportedHeight"`

	TrimmedLength *float64 `bson:"trimmedLength,omitempty" json:"trimmedLength,omitempty"`
	TrimmedWidth  *float64 `bson:"trimmedWidth,omitempty" json:"trimmedWidth,omitempty"`
	TrimmedHeight *float64 `bson:"trimmedHeight,omitempty" json:"trimmedHeight,omitempty"`

	TotalSlabCount   int        `bson:"totalSlabCount" json:"totalSlabCount"`
	DiscardedReason  string     `bson:"discardedReason,omitempty" json:"discardedReason,omitempty"`
	StockOutOperator string     `bson:"stockOutOperator,omitempty" json:"stockOutOperator,omitempty"`
	StockOutTime     *time.Time `bson:"stockOutTime,omitempty" json:"stockOutTime,omitempty"`

	Bundles []*StoneBundle `bson:"bundles" json:"bundles"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// FindBundle returns the bundle with the given bundle number, or nil.
func (b *Block) FindBundle(bundleNo int) *StoneBundle {
	for _, sb := range b.Bundles {
		if sb.BundleNo == bundleNo {
			return sb
		}
	}
	return nil
}

// StoneBundle is a numbered batch of slabs sawn together from one block.
// TotalSlabCount and Area are derived: they are recomputed from the slab set
// whenever a slab or its discard flag changes, never edited independently.
type StoneBundle struct {
	ID                 string             `bson:"bundleId" json:"bundleId"`
	BlockNumber        string             `bson:"blockNumber" json:"blockNumber"`
	BundleNo           int                `bson:"bundleNo" json:"bundleNo"`
	TotalBundleCount   int                `bson:"totalBundleCount" json:"totalBundleCount"`
	TotalSlabCount     int                `bson:"totalSlabCount" json:"totalSlabCount"`
	CategoryID         string             `bson:"categoryId" json:"categoryId"`
	GradeID            string             `bson:"gradeId,omitempty" json:"gradeId,omitempty"`
	Thickness          float64            `bson:"thickness" json:"thickness"`
	Type               SlabType           `bson:"type" json:"type"`
	Status             MaterialStatus     `bson:"status" json:"status"`
	ManufacturingState ManufacturingState `bson:"manufacturingState" json:"manufacturingState"`
	Area               float64            `bson:"area" json:"area"`

	LengthAfterStockIn *float64 `bson:"lengthAfterStockIn,omitempty" json:"lengthAfterStockIn,omitempty"`
	WidthAfterStockIn  *float64 `bson:"widthAfterStockIn,omitempty" json:"widthAfterStockIn,omitempty"`

	// NotVerified marks a placeholder bundle admitted without manifest
	// backing; such bundles may be overwritten by a stock-admission import.
	NotVerified bool `bson:"notVerified" json:"notVerified"`

	StockInOperator string     `bson:"stockInOperator,omitempty" json:"stockInOperator,omitempty"`
	StockInTime     *time.Time `bson:"stockInTime,omitempty" json:"stockInTime,omitempty"`
	StockingAreaID  string     `bson:"stockingAreaId,omitempty" json:"stockingAreaId,omitempty"`

	Slabs []*Slab `bson:"slabs" json:"slabs"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// FindSlab returns the slab with the given sequence number, or nil.
func (sb *StoneBundle) FindSlab(sequenceNumber int) *Slab {
	for _, s := range sb.Slabs {
		if s.SequenceNumber == sequenceNumber {
			return s
		}
	}
	return nil
}

// RemoveSlab detaches the slab with the given sequence number and returns it,
// or nil if absent. Derived metrics are not recomputed here; the caller must
// call Refresh on the bundle afterwards.
func (sb *StoneBundle) RemoveSlab(sequenceNumber int) *Slab {
	for i, s := range sb.Slabs {
		if s.SequenceNumber == sequenceNumber {
			sb.Slabs = append(sb.Slabs[:i], sb.Slabs[i+1:]...)
			return s
		}
	}
	return nil
}

// Refresh recomputes the bundle's derived status, usable-slab count and area
// from its current slab set.
func (sb *StoneBundle) Refresh() {
	sb.Status = BundleStatus(sb)
	sb.TotalSlabCount = UsableSlabCount(sb)
	sb.Area = UsableArea(sb)
	sb.UpdatedAt = time.Now()
}

// Slab is one physical cut piece belonging to a bundle. Dimensions are
// recorded per stage; the deducted trim applies to the current stage's
// dimensions.
type Slab struct {
	ID                 string             `bson:"slabId" json:"slabId"`
	SequenceNumber     int                `bson:"sequenceNumber" json:"sequenceNumber"`
	CategoryID         string             `bson:"categoryId" json:"categoryId"`
	GradeID            string             `bson:"gradeId,omitempty" json:"gradeId,omitempty"`
	Thickness          float64            `bson:"thickness" json:"thickness"`
	Type               SlabType           `bson:"type" json:"type"`
	Status             MaterialStatus     `bson:"status" json:"status"`
	ManufacturingState ManufacturingState `bson:"manufacturingState" json:"manufacturingState"`

	LengthAfterSawing float64 `bson:"lengthAfterSawing" json:"lengthAfterSawing"`
	WidthAfterSawing  float64 `bson:"widthAfterSawing" json:"widthAfterSawing"`

	LengthAfterFilling *float64 `bson:"lengthAfterFilling,omitempty" json:"lengthAfterFilling,omitempty"`
	WidthAfterFilling  *float64 `bson:"widthAfterFilling,omitempty" json:"widthAfterFilling,omitempty"`

	LengthAfterPolishing *float64 `bson:"lengthAfterPolishing,omitempty" json:"lengthAfterPolishing,omitempty"`
	WidthAfterPolishing  *float64 `bson:"widthAfterPolishing,omitempty" json:"widthAfterPolishing,omitempty"`

	DeductedLength float64 `bson:"deductedLength" json:"deductedLength"`
	DeductedWidth  float64 `bson:"deductedWidth" json:"deductedWidth"`

	DiscardedReason string `bson:"discardedReason,omitempty" json:"discardedReason,omitempty"`
	SawingNote      string `bson:"sawingNote,omitempty" json:"sawingNote,omitempty"`
	FillingNote     string `bson:"fillingNote,omitempty" json:"fillingNote,omitempty"`
	PolishingNote   string `bson:"polishingNote,omitempty" json:"polishingNote,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CurrentLength returns the slab's most advanced recorded length.
func (s *Slab) CurrentLength() float64 {
	if s.LengthAfterPolishing != nil {
		return *s.LengthAfterPolishing
	}
	if s.LengthAfterFilling != nil {
		return *s.LengthAfterFilling
	}
	return s.LengthAfterSawing
}

// CurrentWidth returns the slab's most advanced recorded width.
func (s *Slab) CurrentWidth() float64 {
	if s.WidthAfterPolishing != nil {
		return *s.WidthAfterPolishing
	}
	if s.WidthAfterFilling != nil {
		return *s.WidthAfterFilling
	}
	return s.WidthAfterSawing
}

// MaterialRequisition links a work order to exactly one block (slab flows)
// or one pre-existing bundle (tile-from-stock flow). It is immutable once
// created; only the referenced materials change status afterwards.
type MaterialRequisition struct {
	ID        string    `bson:"requisitionId" json:"requisitionId"`
	BlockID   string    `bson:"blockId,omitempty" json:"blockId,omitempty"`
	BundleID  string    `bson:"bundleId,omitempty" json:"bundleId,omitempty"`
	CreatedBy string    `bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
