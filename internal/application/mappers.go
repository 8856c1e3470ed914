package application

import "github.com/smt-platform/production-service/internal/domain"

// ToWorkOrderDTO converts a domain WorkOrder to WorkOrderDTO
func ToWorkOrderDTO(wo *domain.WorkOrder) *WorkOrderDTO {
	if wo == nil {
		return nil
	}

	dto := &WorkOrderDTO{
		OrderID:            wo.ID,
		OrderNumber:        wo.OrderNumber,
		OrderType:          string(wo.OrderType),
		ManufacturingState: string(wo.ManufacturingState),
		Priority:           wo.Priority,
		DeliveryDate:       wo.DeliveryDate,
		Notes:              wo.Notes,
		ProductCategoryID:  wo.ProductCategoryID,
		Thickness:          wo.Thickness,
		SkipFilling:        wo.SkipFilling,
		BlockDiscarded:     wo.BlockDiscarded,
		CancelReason:       wo.CancelReason,

		TrimmingOperator:  wo.TrimmingOperator,
		TrimmingQE:        wo.TrimmingQE,
		SawingOperator:    wo.SawingOperator,
		SawingQE:          wo.SawingQE,
		FillingOperator:   wo.FillingOperator,
		FillingQE:         wo.FillingQE,
		PolishingOperator: wo.PolishingOperator,
		PolishingQE:       wo.PolishingQE,

		AreaAfterSawing:    wo.AreaAfterSawing,
		AreaAfterFilling:   wo.AreaAfterFilling,
		AreaAfterPolishing: wo.AreaAfterPolishing,

		BlockOutturnPercentage:        wo.BlockOutturnPercentage,
		RawSlabOutturnPercentage:      wo.RawSlabOutturnPercentage,
		PolishedSlabOutturnPercentage: wo.PolishedSlabOutturnPercentage,

		CreatedAt: wo.CreatedAt,
		UpdatedAt: wo.UpdatedAt,
	}

	if wo.Block != nil {
		dto.Block = ToBlockDTO(wo.Block)
	}

	return dto
}

// ToBlockDTO converts a domain Block to BlockDTO
func ToBlockDTO(b *domain.Block) *BlockDTO {
	if b == nil {
		return nil
	}

	bundles := make([]BundleDTO, 0, len(b.Bundles))
	for _, sb := range b.Bundles {
		bundles = append(bundles, ToBundleDTO(sb))
	}

	return &BlockDTO{
		BlockID:     b.ID,
		BlockNumber: b.BlockNumber,
		CategoryID:  b.CategoryID,
		Status:      string(b.Status),

		QuarryReportedLength: b.QuarryReportedLength,
		QuarryReportedWidth:  b.QuarryReportedWidth,
		QuarryReportedHeight: b.QuarryReportedHeight,

		TrimmedLength: b.TrimmedLength,
		TrimmedWidth:  b.TrimmedWidth,
		TrimmedHeight: b.TrimmedHeight,

		TotalSlabCount:  b.TotalSlabCount,
		DiscardedReason: b.DiscardedReason,

		Bundles: bundles,
	}
}

// ToBundleDTO converts a domain StoneBundle to BundleDTO
func ToBundleDTO(sb *domain.StoneBundle) BundleDTO {
	slabs := make([]SlabDTO, 0, len(sb.Slabs))
	for _, s := range sb.Slabs {
		slabs = append(slabs, ToSlabDTO(s))
	}

	return BundleDTO{
		BundleID:           sb.ID,
		BlockNumber:        sb.BlockNumber,
		BundleNo:           sb.BundleNo,
		TotalBundleCount:   sb.TotalBundleCount,
		TotalSlabCount:     sb.TotalSlabCount,
		CategoryID:         sb.CategoryID,
		GradeID:            sb.GradeID,
		Thickness:          sb.Thickness,
		Type:               string(sb.Type),
		Status:             string(sb.Status),
		ManufacturingState: string(sb.ManufacturingState),
		Area:               sb.Area,
		Slabs:              slabs,
	}
}

// ToSlabDTO converts a domain Slab to SlabDTO
func ToSlabDTO(s *domain.Slab) SlabDTO {
	return SlabDTO{
		SlabID:             s.ID,
		SequenceNumber:     s.SequenceNumber,
		CategoryID:         s.CategoryID,
		GradeID:            s.GradeID,
		Thickness:          s.Thickness,
		Type:               string(s.Type),
		Status:             string(s.Status),
		ManufacturingState: string(s.ManufacturingState),

		LengthAfterSawing:    s.LengthAfterSawing,
		WidthAfterSawing:     s.WidthAfterSawing,
		LengthAfterFilling:   s.LengthAfterFilling,
		WidthAfterFilling:    s.WidthAfterFilling,
		LengthAfterPolishing: s.LengthAfterPolishing,
		WidthAfterPolishing:  s.WidthAfterPolishing,

		DeductedLength: s.DeductedLength,
		DeductedWidth:  s.DeductedWidth,
		NetArea:        domain.SlabNetArea(s),

		DiscardedReason: s.DiscardedReason,
	}
}
