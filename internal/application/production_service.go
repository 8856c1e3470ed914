package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smt-platform/production-service/internal/domain"
	"github.com/smt-platform/production-service/pkg/logging"
)

// activeStates are the states in which an order still holds its material.
var activeStates = []domain.ManufacturingState{
	domain.StateNotStarted,
	domain.StateMaterialRequisitionSubmitted,
	domain.StateMaterialRequisitioned,
	domain.StateTrimmingDataSubmitted,
	domain.StateTrimmed,
	domain.StateSawingDataSubmitted,
	domain.StateSawed,
	domain.StateFillingDataSubmitted,
	domain.StateFilled,
	domain.StatePolishingQEFinished,
}

// ProductionService handles work-order use cases
type ProductionService struct {
	orders       domain.WorkOrderRepository
	blocks       domain.BlockRepository
	stockBundles domain.StockBundleRepository
	catalog      domain.CatalogRepository
	serials      domain.SerialNumberRepository
	dispatcher   domain.NotificationDispatcher
	logger       *logging.Logger
}

// NewProductionService creates a new ProductionService
func NewProductionService(
	orders domain.WorkOrderRepository,
	blocks domain.BlockRepository,
	stockBundles domain.StockBundleRepository,
	catalog domain.CatalogRepository,
	serials domain.SerialNumberRepository,
	dispatcher domain.NotificationDispatcher,
	logger *logging.Logger,
) *ProductionService {
	return &ProductionService{
		orders:       orders,
		blocks:       blocks,
		stockBundles: stockBundles,
		catalog:      catalog,
		serials:      serials,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// orderNumberPrefix is the serial-number scope for daily order sequences.
const orderNumberPrefix = "workorder"

// CreateWorkOrder creates a new work order with a generated daily order number.
func (s *ProductionService) CreateWorkOrder(ctx context.Context, cmd CreateWorkOrderCommand) (*WorkOrderDTO, error) {
	switch cmd.OrderType {
	case domain.OrderTypeRawSlab, domain.OrderTypePolishedSlab, domain.OrderTypeTile:
	default:
		return nil, domain.ErrValidation("unknown order type %q", cmd.OrderType)
	}
	category, err := s.catalog.CategoryByID(ctx, cmd.ProductCategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product category: %w", err)
	}
	if category == nil {
		return nil, domain.ErrNotFound("stone category %q does not exist", cmd.ProductCategoryID)
	}

	day := time.Now().UTC()
	seq, err := s.serials.Next(ctx, orderNumberPrefix+":"+day.Format("20060102"))
	if err != nil {
		return nil, fmt.Errorf("failed to allocate order number: %w", err)
	}
	orderNumber := fmt.Sprintf("SMWO%s-%02d", day.Format("20060102"), seq)

	wo, err := domain.NewWorkOrder(uuid.NewString(), orderNumber, cmd.OrderType,
		cmd.ProductCategoryID, cmd.Thickness, cmd.Priority, cmd.DeliveryDate)
	if err != nil {
		return nil, err
	}
	wo.SkipFilling = cmd.SkipFilling
	wo.Notes = cmd.Notes

	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	s.logger.Info("Created work order", "orderId", wo.ID, "orderNumber", wo.OrderNumber)
	return ToWorkOrderDTO(wo), nil
}

// UpdateWorkOrder revises the plan fields of an order still in production.
func (s *ProductionService) UpdateWorkOrder(ctx context.Context, cmd UpdateWorkOrderCommand) (*WorkOrderDTO, error) {
	switch cmd.OrderType {
	case domain.OrderTypeRawSlab, domain.OrderTypePolishedSlab, domain.OrderTypeTile:
	default:
		return nil, domain.ErrValidation("unknown order type %q", cmd.OrderType)
	}
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if err := wo.Update(cmd.OrderType, cmd.Priority, cmd.DeliveryDate, cmd.Notes); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	s.logger.Info("Updated work order", "orderId", wo.ID, "orderNumber", wo.OrderNumber)
	return ToWorkOrderDTO(wo), nil
}

// GetWorkOrder retrieves a work order by ID
func (s *ProductionService) GetWorkOrder(ctx context.Context, query GetWorkOrderQuery) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, query.OrderID)
	if err != nil {
		return nil, err
	}
	return ToWorkOrderDTO(wo), nil
}

// SubmitRequisition reserves a block or a stock bundle for the order.
func (s *ProductionService) SubmitRequisition(ctx context.Context, cmd SubmitRequisitionCommand) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	var block *domain.Block
	var bundle *domain.StoneBundle
	if cmd.BlockNumber != "" {
		block, err = s.blocks.FindByNumber(ctx, cmd.BlockNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to load block: %w", err)
		}
		if block == nil {
			return nil, domain.ErrNotFound("block %s does not exist", cmd.BlockNumber)
		}
		// One active order per block.
		holder, err := s.orders.FindByBlockID(ctx, block.ID, activeStates)
		if err != nil {
			return nil, fmt.Errorf("failed to check block assignment: %w", err)
		}
		if holder != nil && holder.ID != wo.ID {
			return nil, domain.ErrStateConflict("block %s is already held by work order %s", block.BlockNumber, holder.OrderNumber)
		}
	}
	if cmd.BundleID != "" {
		bundle, err = s.stockBundles.FindByID(ctx, cmd.BundleID)
		if err != nil {
			return nil, fmt.Errorf("failed to load bundle: %w", err)
		}
		if bundle == nil {
			return nil, domain.ErrNotFound("bundle %s does not exist", cmd.BundleID)
		}
	}

	category, err := s.catalog.CategoryByID(ctx, wo.ProductCategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product category: %w", err)
	}

	if err := wo.SubmitRequisition(uuid.NewString(), block, bundle, category, cmd.Operator); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	s.logger.Info("Submitted material requisition", "orderId", wo.ID, "blockNumber", cmd.BlockNumber, "bundleId", cmd.BundleID)
	return ToWorkOrderDTO(wo), nil
}

// ApproveRequisition approves the pending requisition and checks the material out.
func (s *ProductionService) ApproveRequisition(ctx context.Context, cmd ApproveRequisitionCommand) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if err := wo.ApproveRequisition(cmd.Operator); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	return ToWorkOrderDTO(wo), nil
}

// SubmitTrimming records the trimming stage.
func (s *ProductionService) SubmitTrimming(ctx context.Context, cmd SubmitTrimmingCommand) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	report := domain.StageReport{Details: cmd.Details, StartTime: cmd.StartTime, EndTime: cmd.EndTime}
	dims := domain.Dimensions{Length: cmd.Length, Width: cmd.Width, Height: cmd.Height}
	if err := wo.SubmitTrimming(report, dims, cmd.Operator); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	return ToWorkOrderDTO(wo), nil
}

// ConfirmTrimmingQE confirms the trimmed block dimensions.
func (s *ProductionService) ConfirmTrimmingQE(ctx context.Context, cmd ConfirmTrimmingQECommand) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	dims := domain.Dimensions{Length: cmd.Length, Width: cmd.Width, Height: cmd.Height}
	if err := wo.ConfirmTrimmingQE(dims, cmd.Inspector); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	return ToWorkOrderDTO(wo), nil
}

// SubmitSawing records the sawing stage.
func (s *ProductionService) SubmitSawing(ctx context.Context, cmd StageReportCommand) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	report := domain.StageReport{Details: cmd.Details, StartTime: cmd.StartTime, EndTime: cmd.EndTime}
	if err := wo.SubmitSawing(report, cmd.Operator); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	return ToWorkOrderDTO(wo), nil
}

// SplitIntoBundles partitions the sawn block into bundles of slabs.
func (s *ProductionService) SplitIntoBundles(ctx context.Context, cmd SplitIntoBundlesCommand) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	grades := make(map[string]*domain.StoneGrade)
	for _, b := range cmd.Bundles {
		if _, seen := grades[b.GradeID]; seen {
			continue
		}
		grade, err := s.catalog.GradeByID(ctx, b.GradeID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve grade: %w", err)
		}
		if grade != nil {
			grades[b.GradeID] = grade
		}
	}

	split := domain.SplitCommand{
		TotalSlabCount:   cmd.TotalSlabCount,
		TotalBundleCount: cmd.TotalBundleCount,
		Thickness:        cmd.Thickness,
	}
	for _, b := range cmd.Bundles {
		bi := domain.SplitBundleInput{BundleNo: b.BundleNo, GradeID: b.GradeID}
		for _, sl := range b.Slabs {
			bi.Slabs = append(bi.Slabs, domain.SplitSlabInput{
				SequenceNumber:  sl.SequenceNumber,
				Length:          sl.Length,
				Width:           sl.Width,
				DeductedLength:  sl.DeductedLength,
				DeductedWidth:   sl.DeductedWidth,
				Discarded:       sl.Discarded,
				DiscardedReason: sl.DiscardedReason,
				Note:            sl.Note,
			})
		}
		split.Bundles = append(split.Bundles, bi)
	}

	if err := wo.SplitIntoBundles(split, grades, cmd.Inspector); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	s.logger.Info("Split block into bundles", "orderId", wo.ID, "bundleCount", cmd.TotalBundleCount)
	return ToWorkOrderDTO(wo), nil
}

// SubmitFilling records the filling stage.
func (s *ProductionService) SubmitFilling(ctx context.Context, cmd StageReportCommand) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	report := domain.StageReport{Details: cmd.Details, StartTime: cmd.StartTime, EndTime: cmd.EndTime}
	if err := wo.SubmitFilling(report, cmd.Operator); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	return ToWorkOrderDTO(wo), nil
}

// ConfirmFillingQE records the filling quality check of one slab.
func (s *ProductionService) ConfirmFillingQE(ctx context.Context, cmd SlabQECommand) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if err := wo.ConfirmFillingQE(cmd.SlabID, toSlabQEResult(cmd), cmd.Inspector); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	return ToWorkOrderDTO(wo), nil
}

// ConfirmFillingOver closes the filling stage.
func (s *ProductionService) ConfirmFillingOver(ctx context.Context, cmd FillingOverCommand) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if err := wo.ConfirmFillingOver(cmd.Inspector); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	return ToWorkOrderDTO(wo), nil
}

// ConfirmPolishingQE records the polishing quality check of one slab.
func (s *ProductionService) ConfirmPolishingQE(ctx context.Context, cmd SlabQECommand) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if err := wo.ConfirmPolishingQE(cmd.SlabID, toSlabQEResult(cmd), cmd.Inspector); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	return ToWorkOrderDTO(wo), nil
}

// ConfirmBundleGradeQE grades one bundle after polishing.
func (s *ProductionService) ConfirmBundleGradeQE(ctx context.Context, cmd BundleGradeQECommand) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	grade, err := s.catalog.GradeByID(ctx, cmd.GradeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve grade: %w", err)
	}
	if err := wo.ConfirmBundleGradeQE(cmd.BundleID, grade, cmd.Inspector); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	return ToWorkOrderDTO(wo), nil
}

// ConfirmPolishingOver closes the polishing QE stage.
func (s *ProductionService) ConfirmPolishingOver(ctx context.Context, cmd PolishingOverCommand) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if err := wo.ConfirmPolishingOver(cmd.Inspector); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	return ToWorkOrderDTO(wo), nil
}

// ConfirmPolishing completes the work order.
func (s *ProductionService) ConfirmPolishing(ctx context.Context, cmd StageReportCommand) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	report := domain.StageReport{Details: cmd.Details, StartTime: cmd.StartTime, EndTime: cmd.EndTime}
	if err := wo.ConfirmPolishing(report, cmd.Operator); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	s.logger.Info("Completed work order", "orderId", wo.ID, "orderNumber", wo.OrderNumber)
	return ToWorkOrderDTO(wo), nil
}

// CancelWorkOrder cancels an order that has not started cutting.
func (s *ProductionService) CancelWorkOrder(ctx context.Context, cmd CancelWorkOrderCommand) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if err := wo.Cancel(cmd.Reason); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	s.logger.Info("Cancelled work order", "orderId", wo.ID, "reason", cmd.Reason)
	return ToWorkOrderDTO(wo), nil
}

// DiscardBlock scraps the block and terminates the order.
func (s *ProductionService) DiscardBlock(ctx context.Context, cmd DiscardBlockCommand) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if err := wo.DiscardBlock(cmd.Reason); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	s.logger.Info("Discarded block", "orderId", wo.ID, "reason", cmd.Reason)
	return ToWorkOrderDTO(wo), nil
}

// ReworkBundleToFilling sends a bundle back to the filling stage.
func (s *ProductionService) ReworkBundleToFilling(ctx context.Context, cmd ReworkBundleCommand) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if err := wo.ReworkBundleToFilling(cmd.BundleID); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	return ToWorkOrderDTO(wo), nil
}

// ReworkSlabToFilling sends a single slab back to the filling stage.
func (s *ProductionService) ReworkSlabToFilling(ctx context.Context, cmd ReworkSlabCommand) (*WorkOrderDTO, error) {
	wo, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if err := wo.ReworkSlabToFilling(cmd.SlabID); err != nil {
		return nil, err
	}
	if err := s.saveAndDispatch(ctx, wo); err != nil {
		return nil, err
	}
	return ToWorkOrderDTO(wo), nil
}

func toSlabQEResult(cmd SlabQECommand) domain.SlabQEResult {
	return domain.SlabQEResult{
		Length:          cmd.Length,
		Width:           cmd.Width,
		DeductedLength:  cmd.DeductedLength,
		DeductedWidth:   cmd.DeductedWidth,
		Discarded:       cmd.Discarded,
		DiscardedReason: cmd.DiscardedReason,
		Note:            cmd.Note,
	}
}

func (s *ProductionService) loadOrder(ctx context.Context, orderID string) (*domain.WorkOrder, error) {
	wo, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load work order: %w", err)
	}
	if wo == nil {
		return nil, domain.ErrNotFound("work order %s does not exist", orderID)
	}
	return wo, nil
}

// saveAndDispatch persists the aggregate, then hands the accumulated
// notification intents to the dispatcher. Delivery failures are logged and
// never roll back the state change.
func (s *ProductionService) saveAndDispatch(ctx context.Context, wo *domain.WorkOrder) error {
	if err := s.orders.Save(ctx, wo); err != nil {
		s.logger.WithError(err).Error("Failed to save work order", "orderId", wo.ID)
		return fmt.Errorf("failed to save work order: %w", err)
	}
	if wo.StockBundle != nil {
		if err := s.stockBundles.Save(ctx, wo.StockBundle); err != nil {
			s.logger.WithError(err).Error("Failed to save stock bundle", "orderId", wo.ID, "bundleId", wo.StockBundle.ID)
			return fmt.Errorf("failed to save stock bundle: %w", err)
		}
	}

	pending := wo.PendingNotifications()
	if len(pending) == 0 {
		return nil
	}
	if err := s.dispatcher.Dispatch(ctx, pending); err != nil {
		s.logger.WithError(err).Error("Failed to dispatch notifications", "orderId", wo.ID, "count", len(pending))
	}
	wo.ClearNotifications()
	return nil
}
