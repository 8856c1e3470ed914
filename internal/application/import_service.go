package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/smt-platform/production-service/internal/domain"
	"github.com/smt-platform/production-service/pkg/logging"
)

// defaultStockingAreaID is assigned to bundles admitted without an explicit
// stocking area.
const defaultStockingAreaID = "default"

// ImportService reconciles externally measured manifests against the stored
// material hierarchy. Imports are best-effort per row: a bad row is reported
// and skipped, the rest of the manifest still applies.
type ImportService struct {
	orders       domain.WorkOrderRepository
	blocks       domain.BlockRepository
	stockBundles domain.StockBundleRepository
	catalog      domain.CatalogRepository
	dispatcher   domain.NotificationDispatcher
	logger       *logging.Logger
}

// NewImportService creates a new ImportService
func NewImportService(
	orders domain.WorkOrderRepository,
	blocks domain.BlockRepository,
	stockBundles domain.StockBundleRepository,
	catalog domain.CatalogRepository,
	dispatcher domain.NotificationDispatcher,
	logger *logging.Logger,
) *ImportService {
	return &ImportService{
		orders:       orders,
		blocks:       blocks,
		stockBundles: stockBundles,
		catalog:      catalog,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// importReport accumulates per-row outcomes of a manifest import.
type importReport struct {
	infos    []string
	warnings []string
	errors   []string
}

func (r *importReport) infof(format string, args ...any) {
	r.infos = append(r.infos, fmt.Sprintf(format, args...))
}

func (r *importReport) warnf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *importReport) errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *importReport) toDTO() *ImportReportDTO {
	dto := &ImportReportDTO{Infos: []string{}, Warnings: []string{}, Errors: []string{}}
	dto.Infos = append(dto.Infos, r.infos...)
	dto.Warnings = append(dto.Warnings, r.warnings...)
	dto.Errors = append(dto.Errors, r.errors...)
	return dto
}

// ImportStockBundles admits or reconciles stocked polished bundles from a
// manifest. Rows are keyed by block number and bundle number.
func (s *ImportService) ImportStockBundles(ctx context.Context, cmd ImportStockBundlesCommand) (*ImportReportDTO, error) {
	report := &importReport{}
	for _, row := range cmd.Rows {
		s.importStockRow(ctx, row, cmd.Operator, report)
	}
	s.logger.Info("Imported stock bundle manifest",
		"rows", len(cmd.Rows), "errors", len(report.errors), "warnings", len(report.warnings))
	return report.toDTO(), nil
}

func (s *ImportService) importStockRow(ctx context.Context, row StockBundleRow, operator string, report *importReport) {
	label := fmt.Sprintf("bundle %s #%d", row.BlockNumber, row.BundleNo)

	existing, err := s.stockBundles.FindByBlockNumberAndNo(ctx, row.BlockNumber, row.BundleNo)
	if err != nil {
		report.errorf("%s: failed to look up stored bundle: %v", label, err)
		return
	}
	block, err := s.blocks.FindByNumber(ctx, row.BlockNumber)
	if err != nil {
		report.errorf("%s: failed to look up block: %v", label, err)
		return
	}

	if existing == nil {
		s.admitStockBundle(ctx, row, block, operator, label, report)
		return
	}
	s.reconcileStockBundle(ctx, row, existing, label, report)
}

func (s *ImportService) admitStockBundle(ctx context.Context, row StockBundleRow, block *domain.Block, operator, label string, report *importReport) {
	if block != nil && block.Status != domain.BlockStatusInStock && block.Status != domain.BlockStatusProcessed {
		report.errorf("%s: block %s is still in production, cannot admit its bundles from a manifest", label, row.BlockNumber)
		return
	}
	category, err := s.catalog.CategoryByName(ctx, row.CategoryName)
	if err != nil {
		report.errorf("%s: failed to resolve category: %v", label, err)
		return
	}
	if category == nil {
		report.errorf("%s: stone category %q does not exist", label, row.CategoryName)
		return
	}
	grade := s.resolveGrade(ctx, row.GradeName, label, report)
	if grade == nil {
		return
	}

	now := time.Now()
	length, width := row.Length, row.Width
	bundle := &domain.StoneBundle{
		ID:                 uuid.NewString(),
		BlockNumber:        row.BlockNumber,
		BundleNo:           row.BundleNo,
		TotalBundleCount:   row.TotalBundleCount,
		TotalSlabCount:     row.TotalSlabCount,
		CategoryID:         category.ID,
		GradeID:            grade.ID,
		Thickness:          row.Thickness,
		Type:               domain.SlabTypePolished,
		Status:             domain.MaterialStatusInStock,
		ManufacturingState: domain.StateCompleted,
		Area:               row.Area,
		LengthAfterStockIn: &length,
		WidthAfterStockIn:  &width,
		StockInOperator:    operator,
		StockInTime:        &now,
		StockingAreaID:     defaultStockingAreaID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.stockBundles.Save(ctx, bundle); err != nil {
		report.errorf("%s: failed to save bundle: %v", label, err)
		return
	}

	if block != nil && block.Status == domain.BlockStatusInStock {
		block.Status = domain.BlockStatusProcessed
		block.UpdatedAt = now
		if err := s.blocks.Save(ctx, block); err != nil {
			report.errorf("%s: failed to update block status: %v", label, err)
			return
		}
		report.infof("%s: block %s moved to processed", label, row.BlockNumber)
	}
	report.infof("%s: admitted into stock", label)
}

func (s *ImportService) reconcileStockBundle(ctx context.Context, row StockBundleRow, existing *domain.StoneBundle, label string, report *importReport) {
	if !existing.NotVerified || len(existing.Slabs) > 0 {
		report.errorf("%s: stored bundle is already verified, refusing to overwrite", label)
		return
	}
	if existing.Status != domain.MaterialStatusInStock {
		report.errorf("%s: stored bundle is not in stock", label)
		return
	}

	same := existing.TotalBundleCount == row.TotalBundleCount &&
		existing.TotalSlabCount == row.TotalSlabCount &&
		existing.Thickness == row.Thickness &&
		existing.Area == row.Area &&
		f64Equal(existing.LengthAfterStockIn, row.Length) &&
		f64Equal(existing.WidthAfterStockIn, row.Width) &&
		s.categoryNameMatches(ctx, existing.CategoryID, row.CategoryName) &&
		s.gradeNameMatches(ctx, existing.GradeID, row.GradeName)
	if same {
		report.infof("%s: already matches the manifest", label)
		return
	}

	category, err := s.catalog.CategoryByName(ctx, row.CategoryName)
	if err != nil {
		report.errorf("%s: failed to resolve category: %v", label, err)
		return
	}
	if category == nil {
		report.errorf("%s: stone category %q does not exist", label, row.CategoryName)
		return
	}
	grade := s.resolveGrade(ctx, row.GradeName, label, report)
	if grade == nil {
		return
	}

	length, width := row.Length, row.Width
	existing.TotalBundleCount = row.TotalBundleCount
	existing.TotalSlabCount = row.TotalSlabCount
	existing.Thickness = row.Thickness
	existing.Area = row.Area
	existing.LengthAfterStockIn = &length
	existing.WidthAfterStockIn = &width
	existing.CategoryID = category.ID
	existing.GradeID = grade.ID
	existing.UpdatedAt = time.Now()
	if err := s.stockBundles.Save(ctx, existing); err != nil {
		report.errorf("%s: failed to save bundle: %v", label, err)
		return
	}
	report.infof("%s: updated from the manifest", label)
}

// ImportPolishingData reconciles externally measured polishing results
// against manufacturing bundles, completing bundles and orders whose material
// checks out.
func (s *ImportService) ImportPolishingData(ctx context.Context, cmd ImportPolishingDataCommand) (*ImportReportDTO, error) {
	report := &importReport{}
	for _, row := range cmd.Bundles {
		s.importPolishingBundle(ctx, row, cmd.Operator, report)
	}
	s.logger.Info("Imported polishing manifest",
		"bundles", len(cmd.Bundles), "errors", len(report.errors), "warnings", len(report.warnings))
	return report.toDTO(), nil
}

func (s *ImportService) importPolishingBundle(ctx context.Context, row PolishingBundleRow, operator string, report *importReport) {
	label := fmt.Sprintf("bundle %s #%d", row.BlockNumber, row.BundleNo)

	if len(row.Slabs) == 0 {
		report.errorf("%s: manifest bundle has no slabs", label)
		return
	}
	block, err := s.blocks.FindByNumber(ctx, row.BlockNumber)
	if err != nil {
		report.errorf("%s: failed to look up block: %v", label, err)
		return
	}
	if block == nil {
		report.errorf("%s: block %s does not exist", label, row.BlockNumber)
		return
	}
	if block.Status != domain.BlockStatusManufacturing {
		report.errorf("%s: block %s is not in manufacturing", label, row.BlockNumber)
		return
	}
	sb := block.FindBundle(row.BundleNo)
	if sb == nil || len(sb.Slabs) == 0 {
		report.errorf("%s: stored bundle does not exist or has no slabs", label)
		return
	}
	if sb.Status != domain.MaterialStatusManufacturing {
		report.errorf("%s: stored bundle is not in manufacturing", label)
		return
	}
	if sb.ManufacturingState != domain.StateFilled && sb.ManufacturingState != domain.StateCompleted {
		report.errorf("%s: stored bundle has not reached the polishing stage", label)
		return
	}
	if sb.Thickness != row.Thickness {
		report.warnf("%s: manifest thickness %v differs from stored %v", label, row.Thickness, sb.Thickness)
	}

	grade := s.resolveGrade(ctx, row.GradeName, label, report)
	if grade == nil {
		return
	}
	sb.GradeID = grade.ID

	// Orders past PolishingQEFinished or already completed never take
	// late measurements.
	wo, err := s.orders.FindByBlockID(ctx, block.ID, []domain.ManufacturingState{
		domain.StateFilled, domain.StatePolishingQEFinished,
	})
	if err != nil {
		report.errorf("%s: failed to look up work order: %v", label, err)
		return
	}
	if wo == nil {
		report.errorf("%s: no work order in a polishing state holds block %s", label, row.BlockNumber)
		return
	}
	wo.Block = block

	for _, sr := range row.Slabs {
		s.importPolishingSlab(block, sb, wo, sr, label, report)
	}

	sb.Refresh()

	eligible := true
	if row.TotalSlabCount != sb.TotalSlabCount {
		report.warnf("%s: manifest slab count %d differs from stored usable count %d, bundle left open",
			label, row.TotalSlabCount, sb.TotalSlabCount)
		eligible = false
	}
	if !sequenceNumbersMatch(sb, row.Slabs) {
		report.warnf("%s: manifest slab numbers differ from stored slab numbers, bundle left open", label)
		eligible = false
	}
	if eligible && allSlabsCompleted(sb) {
		sb.ManufacturingState = domain.StateCompleted
		report.infof("%s: bundle completed", label)
	}

	area := domain.BlockManufacturingArea(block, domain.StateCompleted)
	wo.AreaAfterPolishing = &area
	wo.PolishingQE = operator

	if wo.ManufacturingState == domain.StateFilled && allBundlesCompleted(block) {
		if err := wo.ConfirmPolishingOver(operator); err != nil {
			report.errorf("%s: failed to finish polishing QE on order %s: %v", label, wo.OrderNumber, err)
		} else {
			report.infof("%s: all bundles of block %s completed, order %s moved to polishing QE finished",
				label, row.BlockNumber, wo.OrderNumber)
		}
	}

	if err := s.orders.Save(ctx, wo); err != nil {
		report.errorf("%s: failed to save work order: %v", label, err)
		return
	}
	if pending := wo.PendingNotifications(); len(pending) > 0 {
		if err := s.dispatcher.Dispatch(ctx, pending); err != nil {
			s.logger.WithError(err).Error("Failed to dispatch notifications", "orderId", wo.ID)
		}
		wo.ClearNotifications()
	}
}

func (s *ImportService) importPolishingSlab(block *domain.Block, sb *domain.StoneBundle, wo *domain.WorkOrder, sr PolishingSlabRow, label string, report *importReport) {
	slabLabel := fmt.Sprintf("%s slab %d", label, sr.SequenceNumber)
	if sr.Length <= 0 || sr.Width <= 0 {
		report.errorf("%s: dimensions must be positive", slabLabel)
		return
	}

	slab := sb.FindSlab(sr.SequenceNumber)
	if slab == nil {
		report.warnf("%s: not found in the stored bundle", slabLabel)
		slab = s.adoptOrMaterializeSlab(block, sb, wo, sr, slabLabel, report)
		if slab == nil {
			return
		}
	} else if slab.Status != domain.MaterialStatusManufacturing ||
		(slab.ManufacturingState != domain.StateFilled && slab.ManufacturingState != domain.StateCompleted) {
		report.errorf("%s: not in a state that accepts polishing data", slabLabel)
		return
	}

	length, width := sr.Length, sr.Width
	slab.LengthAfterPolishing = &length
	slab.WidthAfterPolishing = &width
	slab.DeductedLength = sr.DeductedLength
	slab.DeductedWidth = sr.DeductedWidth
	slab.ManufacturingState = domain.StateCompleted
	slab.GradeID = sb.GradeID
	slab.Type = domain.SlabTypePolished
	slab.UpdatedAt = time.Now()
	report.infof("%s: polishing data recorded", slabLabel)
}

// adoptOrMaterializeSlab handles a manifest slab missing from its stored
// bundle: it is either attached elsewhere under the block (physically
// restacked) and gets moved, or it is unknown and gets materialized as a slab
// discovered at polishing QC.
func (s *ImportService) adoptOrMaterializeSlab(block *domain.Block, sb *domain.StoneBundle, wo *domain.WorkOrder, sr PolishingSlabRow, slabLabel string, report *importReport) *domain.Slab {
	for _, other := range block.Bundles {
		if other == sb {
			continue
		}
		if moved := other.RemoveSlab(sr.SequenceNumber); moved != nil {
			other.Refresh()
			sb.Slabs = append(sb.Slabs, moved)
			report.infof("%s: moved from bundle #%d", slabLabel, other.BundleNo)
			return moved
		}
	}

	now := time.Now()
	created := &domain.Slab{
		ID:                 uuid.NewString(),
		SequenceNumber:     sr.SequenceNumber,
		CategoryID:         sb.CategoryID,
		GradeID:            sb.GradeID,
		Thickness:          sb.Thickness,
		Type:               domain.SlabTypePolished,
		Status:             domain.MaterialStatusManufacturing,
		ManufacturingState: sb.ManufacturingState,
		LengthAfterSawing:  sr.Length,
		WidthAfterSawing:   sr.Width,
		PolishingNote:      "added from polishing QC measurements",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if !wo.SkipFilling {
		length, width := sr.Length, sr.Width
		created.LengthAfterFilling = &length
		created.WidthAfterFilling = &width
	}
	sb.Slabs = append(sb.Slabs, created)
	report.infof("%s: not found under block %s, added as a new slab", slabLabel, block.BlockNumber)
	return created
}

// resolveGrade resolves a manifest grade name, falling back to the Unknown
// grade with a warning when the catalog does not know it.
func (s *ImportService) resolveGrade(ctx context.Context, name, label string, report *importReport) *domain.StoneGrade {
	grade, err := s.catalog.GradeByName(ctx, name)
	if err != nil {
		report.errorf("%s: failed to resolve grade: %v", label, err)
		return nil
	}
	if grade != nil {
		return grade
	}
	report.warnf("%s: stone grade %q does not exist, falling back to %s", label, name, domain.GradeNameUnknown)
	grade, err = s.catalog.GradeByName(ctx, domain.GradeNameUnknown)
	if err != nil || grade == nil {
		report.errorf("%s: fallback grade %s is missing from the catalog", label, domain.GradeNameUnknown)
		return nil
	}
	return grade
}

func (s *ImportService) categoryNameMatches(ctx context.Context, categoryID, name string) bool {
	category, err := s.catalog.CategoryByID(ctx, categoryID)
	if err != nil || category == nil {
		return false
	}
	return category.Name == name
}

func (s *ImportService) gradeNameMatches(ctx context.Context, gradeID, name string) bool {
	grade, err := s.catalog.GradeByID(ctx, gradeID)
	if err != nil || grade == nil {
		return false
	}
	return grade.Name == name
}

func f64Equal(stored *float64, manifest float64) bool {
	return stored != nil && *stored == manifest
}

// sequenceNumbersMatch compares the stored usable slab numbers with the
// manifest's, ignoring order.
func sequenceNumbersMatch(sb *domain.StoneBundle, rows []PolishingSlabRow) bool {
	stored := make([]int, 0, len(sb.Slabs))
	for _, s := range sb.Slabs {
		if s.Status != domain.MaterialStatusDiscarded {
			stored = append(stored, s.SequenceNumber)
		}
	}
	manifest := make([]int, 0, len(rows))
	for _, r := range rows {
		manifest = append(manifest, r.SequenceNumber)
	}
	if len(stored) != len(manifest) {
		return false
	}
	sort.Ints(stored)
	sort.Ints(manifest)
	for i := range stored {
		if stored[i] != manifest[i] {
			return false
		}
	}
	return true
}

func allSlabsCompleted(sb *domain.StoneBundle) bool {
	for _, s := range sb.Slabs {
		if s.Status == domain.MaterialStatusDiscarded {
			continue
		}
		if s.ManufacturingState != domain.StateCompleted {
			return false
		}
	}
	return true
}

func allBundlesCompleted(block *domain.Block) bool {
	for _, sb := range block.Bundles {
		if sb.Status == domain.MaterialStatusDiscarded {
			continue
		}
		if sb.ManufacturingState != domain.StateCompleted {
			return false
		}
	}
	return true
}
