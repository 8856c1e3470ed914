package domain

import (
	"strconv"
	"strings"
	"time"
)

// WorkOrderType distinguishes the three production flows.
type WorkOrderType string

const (
	OrderTypeRawSlab      WorkOrderType = "raw_slab"
	OrderTypePolishedSlab WorkOrderType = "polished_slab"
	OrderTypeTile         WorkOrderType = "tile"
)

// WorkOrder is the aggregate root of the production pipeline. All state
// mutation goes through the transition operations below; the loaded block
// (or stock bundle, for the tile flow) travels with the aggregate and is
// saved in the same transaction.
type WorkOrder struct {
	ID                 string             `bson:"orderId" json:"orderId"`
	OrderNumber        string             `bson:"orderNumber" json:"orderNumber"`
	OrderType          WorkOrderType      `bson:"orderType" json:"orderType"`
	ManufacturingState ManufacturingState `bson:"manufacturingState" json:"manufacturingState"`
	Priority           string             `bson:"priority" json:"priority"`
	DeliveryDate       time.Time          `bson:"deliveryDate" json:"deliveryDate"`
	Notes              string             `bson:"notes,omitempty" json:"notes,omitempty"`

	// ProductCategoryID is the sales category of the output slabs. It may
	// differ from the block's native category (cross-cut vs plain-cut).
	ProductCategoryID string  `bson:"productCategoryId" json:"productCategoryId"`
	Thickness         float64 `bson:"thickness" json:"thickness"`

	SkipFilling    bool   `bson:"skipFilling" json:"skipFilling"`
	BlockDiscarded bool   `bson:"blockDiscarded" json:"blockDiscarded"`
	CancelReason   string `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`

	Requisition *MaterialRequisition `bson:"requisition,omitempty" json:"requisition,omitempty"`

	TrimmingDetails   string     `bson:"trimmingDetails,omitempty" json:"trimmingDetails,omitempty"`
	TrimmingStartTime *time.Time `bson:"trimmingStartTime,omitempty" json:"trimmingStartTime,omitempty"`
	TrimmingEndTime   *time.Time `bson:"trimmingEndTime,omitempty" json:"trimmingEndTime,omitempty"`
	TrimmingOperator  string     `bson:"trimmingOperator,omitempty" json:"trimmingOperator,omitempty"`
	TrimmingQE        string     `bson:"trimmingQe,omitempty" json:"trimmingQe,omitempty"`

	SawingDetails   string     `bson:"sawingDetails,omitempty" json:"sawingDetails,omitempty"`
	SawingStartTime *time.Time `bson:"sawingStartTime,omitempty" json:"sawingStartTime,omitempty"`
	SawingEndTime   *time.Time `bson:"sawingEndTime,omitempty" json:"sawingEndTime,omitempty"`
	SawingOperator  string     `bson:"sawingOperator,omitempty" json:"sawingOperator,omitempty"`
	SawingQE        string     `bson:"sawingQe,omitempty" json:"sawingQe,omitempty"`

	FillingDetails   string     `bson:"fillingDetails,omitempty" json:"fillingDetails,omitempty"`
	FillingStartTime *time.Time `bson:"fillingStartTime,omitempty" json:"fillingStartTime,omitempty"`
	FillingEndTime   *time.Time `bson:"fillingEndTime,omitempty" json:"fillingEndTime,omitempty"`
	FillingOperator  string     `bson:"fillingOperator,omitempty" json:"fillingOperator,omitempty"`
	FillingQE        string     `bson:"fillingQe,omitempty" json:"fillingQe,omitempty"`

	PolishingDetails   string     `bson:"polishingDetails,omitempty" json:"polishingDetails,omitempty"`
	PolishingStartTime *time.Time `bson:"polishingStartTime,omitempty" json:"polishingStartTime,omitempty"`
	PolishingEndTime   *time.Time `bson:"polishingEndTime,omitempty" json:"polishingEndTime,omitempty"`
	PolishingOperator  string     `bson:"polishingOperator,omitempty" json:"polishingOperator,omitempty"`
	PolishingQE        string     `bson:"polishingQe,omitempty" json:"polishingQe,omitempty"`

	AreaAfterSawing    *float64 `bson:"areaAfterSawing,omitempty" json:"areaAfterSawing,omitempty"`
	AreaAfterFilling   *float64 `bson:"areaAfterFilling,omitempty" json:"areaAfterFilling,omitempty"`
	AreaAfterPolishing *float64 `bson:"areaAfterPolishing,omitempty" json:"areaAfterPolishing,omitempty"`

	BlockOutturnPercentage        *float64 `bson:"blockOutturnPercentage,omitempty" json:"blockOutturnPercentage,omitempty"`
	RawSlabOutturnPercentage      *float64 `bson:"rawSlabOutturnPercentage,omitempty" json:"rawSlabOutturnPercentage,omitempty"`
	PolishedSlabOutturnPercentage *float64 `bson:"polishedSlabOutturnPercentage,omitempty" json:"polishedSlabOutturnPercentage,omitempty"`

	// Block is the requisitioned block with its full bundle/slab tree, loaded
	// and saved with the order as one transactional unit.
	Block *Block `bson:"-" json:"block,omitempty"`
	// StockBundle is the requisitioned bundle for the tile-from-stock flow.
	StockBundle *StoneBundle `bson:"-" json:"stockBundle,omitempty"`

	Notifications []Notification `bson:"-" json:"-"`

	Version   int64     `bson:"version" json:"version"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// StageReport carries the operator-submitted record of a pipeline stage.
type StageReport struct {
	Details   string
	StartTime time.Time
	EndTime   time.Time
}

// Dimensions is a trimmed-block measurement.
type Dimensions struct {
	Length float64
	Width  float64
	Height float64
}

// SlabQEResult is a per-slab quality-check submission for the filling or
// polishing stage.
type SlabQEResult struct {
	Length          float64
	Width           float64
	DeductedLength  float64
	DeductedWidth   float64
	Discarded       bool
	DiscardedReason string
	Note            string
}

func (d Dimensions) positive() bool {
	return d.Length > 0 && d.Width > 0 && d.Height > 0
}

func (r SlabQEResult) validate() error {
	if r.Length <= 0 || r.Width <= 0 {
		return ErrValidation("slab dimensions must be positive")
	}
	if r.DeductedLength < 0 || r.DeductedWidth < 0 || r.DeductedLength >= r.Length || r.DeductedWidth >= r.Width {
		return ErrValidation("deducted trim must be non-negative and strictly less than the dimension")
	}
	if r.Discarded && strings.TrimSpace(r.DiscardedReason) == "" {
		return ErrValidation("a discarded slab requires a discard reason")
	}
	return nil
}

// NewWorkOrder creates a work order in the NotStarted state.
func NewWorkOrder(id, orderNumber string, orderType WorkOrderType, productCategoryID string, thickness float64, priority string, deliveryDate time.Time) (*WorkOrder, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, ErrValidation("order number is required")
	}
	if strings.TrimSpace(priority) == "" {
		return nil, ErrValidation("priority is required")
	}
	if deliveryDateInPast(deliveryDate) {
		return nil, ErrValidation("delivery date must not be in the past")
	}
	now := time.Now()
	wo := &WorkOrder{
		ID:                 id,
		OrderNumber:        orderNumber,
		OrderType:          orderType,
		ManufacturingState: StateNotStarted,
		Priority:           strings.TrimSpace(priority),
		DeliveryDate:       deliveryDate,
		ProductCategoryID:  productCategoryID,
		Thickness:          thickness,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	wo.notify("New work order created",
		"Work order "+orderNumber+" has been submitted, please schedule production",
		RoleSawingManager, RoleBlockManager, RoleFillingManager, RoleSlabPolishingManager, RoleProductManager)
	return wo, nil
}

// deliveryDateInPast compares calendar days, not instants; a delivery date of
// today is still acceptable.
func deliveryDateInPast(deliveryDate time.Time) bool {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	d := deliveryDate.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Before(today)
}

// Update revises the plan fields of an order that is still in production.
// The order type may only change while the material has not entered the
// filling stage; terminal orders reject any revision.
func (wo *WorkOrder) Update(orderType WorkOrderType, priority string, deliveryDate time.Time, notes string) error {
	if err := wo.guard(OpUpdateOrder); err != nil {
		return err
	}
	if strings.TrimSpace(priority) == "" {
		return ErrValidation("priority is required")
	}
	if deliveryDateInPast(deliveryDate) {
		return ErrValidation("delivery date must not be in the past")
	}
	if orderType != wo.OrderType {
		if ReachedStage(wo.ManufacturingState, StateFillingDataSubmitted) {
			return ErrStateConflict("work order %s in state %q no longer allows changing the order type",
				wo.OrderNumber, wo.ManufacturingState)
		}
		wo.OrderType = orderType
	}
	wo.Priority = strings.TrimSpace(priority)
	wo.DeliveryDate = deliveryDate
	wo.Notes = notes
	wo.touch()
	wo.notify("Work order updated",
		"Work order "+wo.OrderNumber+" has been updated, please review and adjust the production plan",
		RoleSawingManager, RoleBlockManager, RoleFillingManager, RoleSlabPolishingManager, RoleProductManager)
	return nil
}

// block returns the requisitioned block, or an inconsistency error when the
// aggregate linkage is broken.
func (wo *WorkOrder) block() (*Block, error) {
	if wo.Requisition == nil {
		return nil, ErrInconsistency("work order %s has no material requisition", wo.OrderNumber)
	}
	if wo.Requisition.BlockID == "" || wo.Block == nil {
		return nil, ErrInconsistency("requisition of work order %s references no block", wo.OrderNumber)
	}
	return wo.Block, nil
}

func (wo *WorkOrder) touch() { wo.UpdatedAt = time.Now() }

// SubmitRequisition reserves a block (slab flows) or a stock bundle (tile
// flow) against the order. Exactly one of block/bundle must be given; a block
// must be in stock and carry the order's required category or its base
// category.
func (wo *WorkOrder) SubmitRequisition(requisitionID string, block *Block, bundle *StoneBundle, productCategory *StoneCategory, operator string) error {
	if err := wo.guard(OpSubmitRequisition); err != nil {
		return err
	}
	if (block == nil) == (bundle == nil) {
		return ErrValidation("a requisition must reference exactly one block or one bundle")
	}
	req := &MaterialRequisition{
		ID:        requisitionID,
		CreatedBy: operator,
		CreatedAt: time.Now(),
	}
	if block != nil {
		if productCategory == nil {
			return ErrNotFound("product category %q does not exist", wo.ProductCategoryID)
		}
		if block.CategoryID != productCategory.ID && block.CategoryID != productCategory.BaseCategoryID {
			return ErrValidation("block %s category does not match the order's required category", block.BlockNumber)
		}
		if block.Status != BlockStatusInStock {
			return ErrStateConflict("block %s is not in stock", block.BlockNumber)
		}
		block.Status = BlockStatusReserved
		block.UpdatedAt = time.Now()
		req.BlockID = block.ID
		wo.Block = block
	} else {
		if bundle.Status != MaterialStatusInStock {
			return ErrStateConflict("bundle %s #%d is not in stock", bundle.BlockNumber, bundle.BundleNo)
		}
		req.BundleID = bundle.ID
		wo.StockBundle = bundle
	}
	wo.Requisition = req
	wo.ManufacturingState = StateMaterialRequisitionSubmitted
	wo.touch()

	approver := RoleBlockManager
	if wo.OrderType == OrderTypeTile {
		approver = RoleProductManager
	}
	wo.notify("Material requisition awaiting approval",
		"The requisition for work order "+wo.OrderNumber+" has been submitted, please approve",
		approver)
	return nil
}

// ApproveRequisition checks out the reserved material and opens production.
// Calling it on an already approved order is a no-op success.
func (wo *WorkOrder) ApproveRequisition(operator string) error {
	if err := wo.guard(OpApproveRequisition); err != nil {
		return err
	}
	if wo.ManufacturingState == StateMaterialRequisitioned {
		return nil
	}
	if wo.Requisition == nil {
		return ErrInconsistency("work order %s has no material requisition", wo.OrderNumber)
	}
	now := time.Now()
	switch wo.OrderType {
	case OrderTypeRawSlab, OrderTypePolishedSlab:
		blk, err := wo.block()
		if err != nil {
			return err
		}
		blk.Status = BlockStatusManufacturing
		blk.StockOutOperator = operator
		blk.StockOutTime = &now
		blk.UpdatedAt = now
	case OrderTypeTile:
		if wo.Requisition.BundleID == "" || wo.StockBundle == nil {
			return ErrInconsistency("requisition of tile work order %s references no bundle", wo.OrderNumber)
		}
		wo.StockBundle.Status = MaterialStatusCheckedOut
		wo.StockBundle.UpdatedAt = now
	}
	wo.ManufacturingState = StateMaterialRequisitioned
	wo.touch()

	receiver := RoleSawingManager
	if wo.OrderType == OrderTypeTile {
		receiver = RoleTileQE
	}
	wo.notify("Material requisition approved",
		"The requisition for work order "+wo.OrderNumber+" has been approved, please collect the material",
		receiver)
	return nil
}

// SubmitTrimming records the trimming stage and writes the trimmed
// dimensions onto the block.
func (wo *WorkOrder) SubmitTrimming(report StageReport, trimmed Dimensions, operator string) error {
	if err := wo.guard(OpSubmitTrimming); err != nil {
		return err
	}
	if wo.OrderType != OrderTypeRawSlab && wo.OrderType != OrderTypePolishedSlab {
		return ErrStateConflict("order type %q does not include a trimming stage", wo.OrderType)
	}
	if !trimmed.positive() {
		return ErrValidation("trimmed dimensions must be positive")
	}
	if report.StartTime.After(report.EndTime) {
		return ErrValidation("trimming start time must not be after end time")
	}
	blk, err := wo.block()
	if err != nil {
		return err
	}
	if blk.Status != BlockStatusManufacturing {
		return ErrStateConflict("block %s status does not allow trimming", blk.BlockNumber)
	}
	blk.TrimmedLength = &trimmed.Length
	blk.TrimmedWidth = &trimmed.Width
	blk.TrimmedHeight = &trimmed.Height
	blk.UpdatedAt = time.Now()
	wo.TrimmingDetails = report.Details
	wo.TrimmingStartTime = &report.StartTime
	wo.TrimmingEndTime = &report.EndTime
	wo.TrimmingOperator = operator
	wo.ManufacturingState = StateTrimmingDataSubmitted
	wo.touch()

	wo.notify("Trimming data submitted",
		"Trimming data for work order "+wo.OrderNumber+" has been submitted, please inspect the trimmed block",
		RoleTrimmingQE)
	return nil
}

// ConfirmTrimmingQE lets the trimming inspector confirm (and possibly
// correct) the trimmed dimensions, computing the block outturn percentage.
func (wo *WorkOrder) ConfirmTrimmingQE(trimmed Dimensions, inspector string) error {
	if err := wo.guard(OpConfirmTrimmingQE); err != nil {
		return err
	}
	if !trimmed.positive() {
		return ErrValidation("trimmed dimensions must be positive")
	}
	blk, err := wo.block()
	if err != nil {
		return err
	}
	if blk.Status != BlockStatusManufacturing {
		return ErrStateConflict("block %s status does not allow trimming", blk.BlockNumber)
	}
	blk.TrimmedLength = &trimmed.Length
	blk.TrimmedWidth = &trimmed.Width
	blk.TrimmedHeight = &trimmed.Height
	blk.UpdatedAt = time.Now()

	pct := YieldPercentage(
		Volume(trimmed.Length, trimmed.Width, trimmed.Height),
		Volume(blk.QuarryReportedLength, blk.QuarryReportedWidth, blk.QuarryReportedHeight))
	wo.BlockOutturnPercentage = &pct
	wo.TrimmingQE = inspector
	wo.ManufacturingState = StateTrimmed
	wo.touch()

	wo.notify("Trimming stage finished",
		"Trimming for work order "+wo.OrderNumber+" is complete, please proceed with sawing",
		RoleSawingManager)
	return nil
}

// SubmitSawing records the sawing stage.
func (wo *WorkOrder) SubmitSawing(report StageReport, operator string) error {
	if err := wo.guard(OpSubmitSawing); err != nil {
		return err
	}
	if report.StartTime.After(report.EndTime) {
		return ErrValidation("sawing start time must not be after end time")
	}
	wo.SawingDetails = report.Details
	wo.SawingStartTime = &report.StartTime
	wo.SawingEndTime = &report.EndTime
	wo.SawingOperator = operator
	wo.ManufacturingState = StateSawingDataSubmitted
	wo.touch()

	wo.notify("Sawing data submitted",
		"Sawing data for work order "+wo.OrderNumber+" has been submitted, please inspect and split the raw slabs into bundles",
		RoleSawingQE)
	return nil
}

// SubmitFilling moves the order and its eligible bundles/slabs from Sawed to
// FillingDataSubmitted. It advances optimistically; per-slab QE confirmations
// reconcile individual slabs afterwards.
func (wo *WorkOrder) SubmitFilling(report StageReport, operator string) error {
	if err := wo.guard(OpSubmitFilling); err != nil {
		return err
	}
	if report.StartTime.After(report.EndTime) {
		return ErrValidation("filling start time must not be after end time")
	}
	blk, err := wo.block()
	if err != nil {
		return err
	}
	for _, sb := range blk.Bundles {
		if sb.Status != MaterialStatusManufacturing {
			continue
		}
		if sb.ManufacturingState != StateSawed && sb.ManufacturingState != StateFilled {
			continue
		}
		if sb.ManufacturingState == StateSawed {
			sb.ManufacturingState = StateFillingDataSubmitted
		}
		for _, s := range sb.Slabs {
			if s.Status == MaterialStatusManufacturing && s.ManufacturingState == StateSawed {
				s.ManufacturingState = StateFillingDataSubmitted
			}
		}
	}
	if wo.ManufacturingState == StateSawed {
		wo.ManufacturingState = StateFillingDataSubmitted
	}
	wo.FillingDetails = report.Details
	wo.FillingStartTime = &report.StartTime
	wo.FillingEndTime = &report.EndTime
	wo.FillingOperator = operator
	wo.touch()

	wo.notify("Filling data submitted",
		"Filling data for work order "+wo.OrderNumber+" has been submitted, please inspect the filled slabs",
		RoleFillingQE)
	return nil
}

// ConfirmFillingQE records the filling quality check of one slab, writing its
// post-filling dimensions or discarding it.
func (wo *WorkOrder) ConfirmFillingQE(slabID string, result SlabQEResult, inspector string) error {
	if err := wo.guard(OpFillingQE); err != nil {
		return err
	}
	if wo.OrderType != OrderTypePolishedSlab {
		return ErrStateConflict("order type %q does not include a filling stage", wo.OrderType)
	}
	if err := result.validate(); err != nil {
		return err
	}
	blk, err := wo.block()
	if err != nil {
		return err
	}
	sb, slab := findSlabByID(blk, slabID)
	if slab == nil {
		return ErrNotFound("slab %s does not belong to work order %s", slabID, wo.OrderNumber)
	}
	if slab.Status != MaterialStatusManufacturing && slab.Status != MaterialStatusDiscarded {
		return ErrStateConflict("slab %d status does not allow filling QE", slab.SequenceNumber)
	}
	if slab.ManufacturingState != StateFillingDataSubmitted && slab.ManufacturingState != StateFilled {
		return ErrStateConflict("slab %d manufacturing state does not allow filling QE", slab.SequenceNumber)
	}

	applyDiscard(slab, result)
	if result.Discarded {
		slab.ManufacturingState = StateFillingDataSubmitted
	} else {
		slab.ManufacturingState = StateFilled
	}
	slab.LengthAfterFilling = &result.Length
	slab.WidthAfterFilling = &result.Width
	slab.DeductedLength = result.DeductedLength
	slab.DeductedWidth = result.DeductedWidth
	slab.FillingNote = result.Note
	slab.UpdatedAt = time.Now()

	sb.Refresh()
	area := BlockManufacturingArea(blk, StateFilled)
	wo.AreaAfterFilling = &area
	wo.FillingQE = inspector
	wo.touch()
	return nil
}

// ConfirmFillingOver closes the filling stage: every slab still sitting in
// FillingDataSubmitted is promoted to Filled, seeding its post-filling
// dimensions from the post-sawing ones when no per-slab QE data was
// submitted.
func (wo *WorkOrder) ConfirmFillingOver(inspector string) error {
	if err := wo.guard(OpFillingOver); err != nil {
		return err
	}
	blk, err := wo.block()
	if err != nil {
		return err
	}
	for _, sb := range blk.Bundles {
		if sb.Status != MaterialStatusManufacturing {
			continue
		}
		if sb.ManufacturingState != StateFillingDataSubmitted && sb.ManufacturingState != StateFilled {
			continue
		}
		if sb.ManufacturingState == StateFillingDataSubmitted {
			sb.ManufacturingState = StateFilled
		}
		for _, s := range sb.Slabs {
			if s.Status != MaterialStatusManufacturing || s.ManufacturingState != StateFillingDataSubmitted {
				continue
			}
			if s.LengthAfterFilling == nil {
				l := s.LengthAfterSawing
				s.LengthAfterFilling = &l
			}
			if s.WidthAfterFilling == nil {
				w := s.WidthAfterSawing
				s.WidthAfterFilling = &w
			}
			s.ManufacturingState = StateFilled
		}
	}
	if wo.ManufacturingState == StateFillingDataSubmitted {
		wo.ManufacturingState = StateFilled
	}
	area := BlockManufacturingArea(blk, StateFilled)
	wo.AreaAfterFilling = &area
	wo.FillingQE = inspector
	wo.touch()

	wo.notify("Filling stage finished",
		"Filling for work order "+wo.OrderNumber+" is complete, please proceed with polishing",
		RolePolishingQE)
	return nil
}

// ConfirmPolishingQE records the polishing quality check of one slab.
func (wo *WorkOrder) ConfirmPolishingQE(slabID string, result SlabQEResult, inspector string) error {
	if err := wo.guard(OpPolishingQE); err != nil {
		return err
	}
	if wo.OrderType != OrderTypePolishedSlab {
		return ErrStateConflict("order type %q does not include a polishing stage", wo.OrderType)
	}
	if err := result.validate(); err != nil {
		return err
	}
	blk, err := wo.block()
	if err != nil {
		return err
	}
	sb, slab := findSlabByID(blk, slabID)
	if slab == nil {
		return ErrNotFound("slab %s does not belong to work order %s", slabID, wo.OrderNumber)
	}
	if slab.Status != MaterialStatusManufacturing && slab.Status != MaterialStatusDiscarded {
		return ErrStateConflict("slab %d status does not allow polishing QE", slab.SequenceNumber)
	}
	if slab.ManufacturingState != StateFilled && slab.ManufacturingState != StateCompleted {
		return ErrStateConflict("slab %d manufacturing state does not allow polishing QE", slab.SequenceNumber)
	}

	applyDiscard(slab, result)
	if result.Discarded {
		slab.ManufacturingState = StateFilled
	} else {
		slab.ManufacturingState = StateCompleted
	}
	slab.LengthAfterPolishing = &result.Length
	slab.WidthAfterPolishing = &result.Width
	slab.DeductedLength = result.DeductedLength
	slab.DeductedWidth = result.DeductedWidth
	slab.Type = SlabTypePolished
	slab.PolishingNote = result.Note
	slab.UpdatedAt = time.Now()

	sb.Refresh()
	area := BlockManufacturingArea(blk, StateCompleted)
	wo.AreaAfterPolishing = &area
	wo.PolishingQE = inspector
	wo.touch()
	return nil
}

// ConfirmBundleGradeQE grades one bundle after polishing. It is valid only
// when every usable slab in the bundle is Filled or Completed, and completes
// the bundle.
func (wo *WorkOrder) ConfirmBundleGradeQE(bundleID string, grade *StoneGrade, inspector string) error {
	if err := wo.guard(OpBundleGradeQE); err != nil {
		return err
	}
	if grade == nil {
		return ErrNotFound("stone grade does not exist")
	}
	blk, err := wo.block()
	if err != nil {
		return err
	}
	var sb *StoneBundle
	for _, b := range blk.Bundles {
		if b.ID == bundleID {
			sb = b
			break
		}
	}
	if sb == nil {
		return ErrNotFound("bundle %s does not belong to work order %s", bundleID, wo.OrderNumber)
	}
	if len(sb.Slabs) == 0 {
		return ErrStateConflict("bundle %s #%d has no slabs", sb.BlockNumber, sb.BundleNo)
	}
	if sb.Status != MaterialStatusManufacturing {
		return ErrStateConflict("bundle %s #%d status does not allow grading", sb.BlockNumber, sb.BundleNo)
	}
	if sb.ManufacturingState != StateFilled && sb.ManufacturingState != StateCompleted {
		return ErrStateConflict("bundle %s #%d manufacturing state does not allow grading", sb.BlockNumber, sb.BundleNo)
	}
	for _, s := range sb.Slabs {
		if s.Status == MaterialStatusDiscarded {
			continue
		}
		if s.ManufacturingState != StateFilled && s.ManufacturingState != StateCompleted {
			return ErrStateConflict("slab %d manufacturing state does not allow completing the bundle", s.SequenceNumber)
		}
	}
	for _, s := range sb.Slabs {
		if s.Status == MaterialStatusDiscarded {
			continue
		}
		s.ManufacturingState = StateCompleted
		s.GradeID = grade.ID
		s.UpdatedAt = time.Now()
	}
	sb.GradeID = grade.ID
	sb.ManufacturingState = StateCompleted
	sb.Type = SlabTypePolished
	sb.Refresh()
	wo.PolishingQE = inspector
	wo.touch()
	return nil
}

// ConfirmPolishingOver closes the polishing QE stage and computes the
// polished-slab outturn percentage.
func (wo *WorkOrder) ConfirmPolishingOver(inspector string) error {
	if err := wo.guard(OpPolishingOver); err != nil {
		return err
	}
	blk, err := wo.block()
	if err != nil {
		return err
	}
	if blk.TrimmedLength == nil || blk.TrimmedWidth == nil || blk.TrimmedHeight == nil {
		return ErrInconsistency("block %s has no trimmed dimensions", blk.BlockNumber)
	}
	wo.ManufacturingState = StatePolishingQEFinished
	wo.PolishingQE = inspector

	var polished float64
	if wo.AreaAfterPolishing != nil {
		polished = *wo.AreaAfterPolishing
	}
	pct := YieldPercentage(polished, Volume(*blk.TrimmedLength, *blk.TrimmedWidth, *blk.TrimmedHeight))
	wo.PolishedSlabOutturnPercentage = &pct
	wo.touch()

	wo.notify("Polishing QE finished",
		"Polishing QE data for work order "+wo.OrderNumber+" has been submitted, please confirm the polishing stage",
		RoleSlabPolishingManager)
	return nil
}

// ConfirmPolishing completes the work order. Every usable bundle and slab
// reachable from the order must be Completed; the block becomes Processed.
func (wo *WorkOrder) ConfirmPolishing(report StageReport, operator string) error {
	if err := wo.guard(OpPolishing); err != nil {
		return err
	}
	if report.StartTime.After(report.EndTime) {
		return ErrValidation("polishing start time must not be after end time")
	}
	blk, err := wo.block()
	if err != nil {
		return err
	}
	for _, sb := range blk.Bundles {
		if sb.Status == MaterialStatusDiscarded {
			continue
		}
		if sb.ManufacturingState != StateCompleted {
			return ErrStateConflict("bundle %s #%d is not completed", sb.BlockNumber, sb.BundleNo)
		}
		for _, s := range sb.Slabs {
			if s.Status != MaterialStatusDiscarded && s.ManufacturingState != StateCompleted {
				return ErrStateConflict("slab %d of bundle #%d is not completed", s.SequenceNumber, sb.BundleNo)
			}
		}
	}
	blk.Status = BlockStatusProcessed
	blk.UpdatedAt = time.Now()
	wo.ManufacturingState = StateCompleted
	wo.PolishingDetails = report.Details
	wo.PolishingStartTime = &report.StartTime
	wo.PolishingEndTime = &report.EndTime
	wo.PolishingOperator = operator
	wo.touch()

	wo.notify("Polished slabs ready for stock-in",
		"Production for work order "+wo.OrderNumber+" is complete, please move the polished slabs into stock",
		RoleProductManager, RolePackagingManager, RoleFactoryManager)
	return nil
}

// Cancel terminates an order that has not started cutting, releasing a
// reserved or checked-out block back to stock.
func (wo *WorkOrder) Cancel(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrValidation("a cancel reason is required")
	}
	if err := wo.guard(OpCancel); err != nil {
		return err
	}
	if wo.ManufacturingState != StateNotStarted && wo.Block != nil {
		if wo.Block.Status == BlockStatusReserved || wo.Block.Status == BlockStatusManufacturing {
			wo.Block.Status = BlockStatusInStock
			wo.Block.UpdatedAt = time.Now()
		}
	}
	wo.ManufacturingState = StateCancelled
	wo.CancelReason = reason
	wo.touch()

	wo.notify("Work order cancelled",
		"Work order "+wo.OrderNumber+" has been cancelled, please stop production",
		RoleSawingManager, RoleBlockManager, RoleFillingManager, RoleSlabPolishingManager, RoleProductManager)
	return nil
}

// DiscardBlock scraps the block mid-pipeline. The order terminates as
// Completed with BlockDiscarded set; downstream stages are never traversed.
func (wo *WorkOrder) DiscardBlock(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrValidation("a discard reason is required")
	}
	if err := wo.guard(OpDiscardBlock); err != nil {
		return err
	}
	blk, err := wo.block()
	if err != nil {
		return err
	}
	if blk.Status != BlockStatusManufacturing {
		return ErrStateConflict("block %s is not in manufacturing, cannot discard", blk.BlockNumber)
	}
	stage := "trimming"
	if wo.ManufacturingState == StateSawingDataSubmitted {
		stage = "sawing"
	}
	blk.Status = BlockStatusDiscarded
	blk.DiscardedReason = reason
	blk.UpdatedAt = time.Now()
	wo.ManufacturingState = StateCompleted
	wo.BlockDiscarded = true
	wo.touch()

	wo.notify("Block discarded",
		"Block "+blk.BlockNumber+" of work order "+wo.OrderNumber+" was discarded during the "+stage+" stage, please cancel the remaining production plan",
		RoleSawingManager, RoleFillingManager, RoleSlabPolishingManager, RoleProductManager)
	return nil
}

// ReworkBundleToFilling sends a whole bundle back from polishing QE to the
// filling stage.
func (wo *WorkOrder) ReworkBundleToFilling(bundleID string) error {
	if err := wo.guard(OpReworkToFilling); err != nil {
		return err
	}
	blk, err := wo.block()
	if err != nil {
		return err
	}
	var sb *StoneBundle
	for _, b := range blk.Bundles {
		if b.ID == bundleID {
			sb = b
			break
		}
	}
	if sb == nil {
		return ErrNotFound("bundle %s does not belong to work order %s", bundleID, wo.OrderNumber)
	}
	if UsableSlabCount(sb) == 0 {
		return ErrStateConflict("bundle %s #%d has no usable slabs", sb.BlockNumber, sb.BundleNo)
	}
	if sb.Status != MaterialStatusManufacturing || sb.ManufacturingState != StateFilled {
		return ErrStateConflict("bundle %s #%d state does not allow rework to filling", sb.BlockNumber, sb.BundleNo)
	}
	sb.ManufacturingState = StateSawed
	for _, s := range sb.Slabs {
		if s.Status == MaterialStatusManufacturing && s.ManufacturingState == StateFilled {
			s.ManufacturingState = StateSawed
		}
	}
	sb.UpdatedAt = time.Now()
	wo.touch()

	wo.notify("Bundle returned to filling",
		"Bundle "+bundleLabel(sb)+" was returned from polishing QE, please refill and resubmit filling data",
		RoleFillingManager)
	return nil
}

// ReworkSlabToFilling sends a single slab back from polishing QE to the
// filling stage; the owning bundle drops to its least advanced slab.
func (wo *WorkOrder) ReworkSlabToFilling(slabID string) error {
	if err := wo.guard(OpReworkToFilling); err != nil {
		return err
	}
	blk, err := wo.block()
	if err != nil {
		return err
	}
	sb, slab := findSlabByID(blk, slabID)
	if slab == nil {
		return ErrNotFound("slab %s does not belong to work order %s", slabID, wo.OrderNumber)
	}
	if sb.Status != MaterialStatusManufacturing || sb.ManufacturingState != StateFilled {
		return ErrStateConflict("bundle %s #%d state does not allow rework to filling", sb.BlockNumber, sb.BundleNo)
	}
	if slab.Status != MaterialStatusManufacturing || slab.ManufacturingState != StateFilled {
		return ErrStateConflict("slab %d state does not allow rework to filling", slab.SequenceNumber)
	}
	slab.ManufacturingState = StateSawed
	slab.UpdatedAt = time.Now()
	sb.ManufacturingState = MinimumSlabProgress(sb)
	sb.UpdatedAt = time.Now()
	wo.touch()

	wo.notify("Slab returned to filling",
		"Slab "+strconv.Itoa(slab.SequenceNumber)+" of bundle "+bundleLabel(sb)+" was returned from polishing QE, please refill and resubmit filling data",
		RoleFillingManager)
	return nil
}

func applyDiscard(slab *Slab, result SlabQEResult) {
	if result.Discarded {
		slab.Status = MaterialStatusDiscarded
		slab.DiscardedReason = strings.TrimSpace(result.DiscardedReason)
	} else {
		slab.Status = MaterialStatusManufacturing
		slab.DiscardedReason = ""
	}
}

func findSlabByID(b *Block, slabID string) (*StoneBundle, *Slab) {
	for _, sb := range b.Bundles {
		for _, s := range sb.Slabs {
			if s.ID == slabID {
				return sb, s
			}
		}
	}
	return nil, nil
}

func bundleLabel(sb *StoneBundle) string {
	return sb.BlockNumber + " " + strconv.Itoa(sb.TotalBundleCount) + "-" + strconv.Itoa(sb.BundleNo)
}
