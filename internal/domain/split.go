package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SplitSlabInput describes one slab produced by the sawing stage.
type SplitSlabInput struct {
	SequenceNumber  int
	Length          float64
	Width           float64
	DeductedLength  float64
	DeductedWidth   float64
	Discarded       bool
	DiscardedReason string
	Note            string
}

// SplitBundleInput describes one bundle produced by the sawing stage.
type SplitBundleInput struct {
	BundleNo int
	GradeID  string
	Slabs    []SplitSlabInput
}

// SplitCommand is the full sawing-QE submission partitioning the block into
// bundles of slabs. The whole block is sawn at one thickness; the declared
// slab count bounds the sequence numbering.
type SplitCommand struct {
	TotalSlabCount   int
	TotalBundleCount int
	Thickness        float64
	Bundles          []SplitBundleInput
}

// SplitIntoBundles materializes the sawn slabs as bundles attached to the
// block. The whole submission is validated before anything is created; a
// single bad slab rejects the entire split.
//
// Bundle numbers must be contiguous from 1 and slab sequence numbers must be
// contiguous from 1 across the whole submission, not per bundle. New bundles
// and slabs carry the order's sales category, which may differ from the
// block's native category.
func (wo *WorkOrder) SplitIntoBundles(cmd SplitCommand, grades map[string]*StoneGrade, inspector string) error {
	if err := wo.guard(OpSplitBundle); err != nil {
		return err
	}
	blk, err := wo.block()
	if err != nil {
		return err
	}
	if blk.Status != BlockStatusManufacturing {
		return ErrStateConflict("block %s is not in manufacturing", blk.BlockNumber)
	}
	if len(blk.Bundles) > 0 {
		return ErrStateConflict("block %s has already been split", blk.BlockNumber)
	}
	if cmd.TotalSlabCount <= 0 {
		return ErrValidation("total slab count must be positive")
	}
	if cmd.TotalBundleCount <= 0 {
		return ErrValidation("total bundle count must be positive")
	}
	if cmd.Thickness <= 0 {
		return ErrValidation("slab thickness must be positive")
	}
	if len(cmd.Bundles) != cmd.TotalBundleCount {
		return ErrValidation("expected %d bundles, got %d", cmd.TotalBundleCount, len(cmd.Bundles))
	}

	nextSeq := 1
	for i, bi := range cmd.Bundles {
		if bi.BundleNo != i+1 {
			return ErrValidation("bundle numbers must be contiguous from 1, got %d at position %d", bi.BundleNo, i+1)
		}
		if len(bi.Slabs) == 0 {
			return ErrValidation("bundle %d has no slabs", bi.BundleNo)
		}
		if _, ok := grades[bi.GradeID]; !ok {
			return ErrNotFound("stone grade %q of bundle %d does not exist", bi.GradeID, bi.BundleNo)
		}
		for _, si := range bi.Slabs {
			if si.SequenceNumber != nextSeq {
				return ErrValidation("slab sequence numbers must be contiguous from 1 across bundles, got %d where %d was expected",
					si.SequenceNumber, nextSeq)
			}
			if si.SequenceNumber > cmd.TotalSlabCount {
				return ErrValidation("slab sequence number %d exceeds the declared slab count %d",
					si.SequenceNumber, cmd.TotalSlabCount)
			}
			nextSeq++
			if si.Length <= 0 || si.Width <= 0 {
				return ErrValidation("slab %d dimensions must be positive", si.SequenceNumber)
			}
			if si.DeductedLength < 0 || si.DeductedWidth < 0 || si.DeductedLength >= si.Length || si.DeductedWidth >= si.Width {
				return ErrValidation("slab %d deducted trim must be non-negative and strictly less than the dimension", si.SequenceNumber)
			}
			if si.Discarded && strings.TrimSpace(si.DiscardedReason) == "" {
				return ErrValidation("discarded slab %d requires a discard reason", si.SequenceNumber)
			}
		}
	}

	now := time.Now()
	for _, bi := range cmd.Bundles {
		sb := &StoneBundle{
			ID:               uuid.NewString(),
			BlockNumber:      blk.BlockNumber,
			BundleNo:         bi.BundleNo,
			TotalBundleCount: cmd.TotalBundleCount,
			CategoryID:       wo.ProductCategoryID,
			GradeID:          bi.GradeID,
			Thickness:        cmd.Thickness,
			Type:             SlabTypeRaw,
			Status:           MaterialStatusManufacturing,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		allDiscarded := true
		for _, si := range bi.Slabs {
			s := &Slab{
				ID:                uuid.NewString(),
				SequenceNumber:    si.SequenceNumber,
				CategoryID:        wo.ProductCategoryID,
				GradeID:           bi.GradeID,
				Thickness:         cmd.Thickness,
				Type:              SlabTypeRaw,
				Status:            MaterialStatusManufacturing,
				LengthAfterSawing: si.Length,
				WidthAfterSawing:  si.Width,
				DeductedLength:    si.DeductedLength,
				DeductedWidth:     si.DeductedWidth,
				SawingNote:        si.Note,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if si.Discarded {
				s.Status = MaterialStatusDiscarded
				s.DiscardedReason = strings.TrimSpace(si.DiscardedReason)
			} else {
				allDiscarded = false
			}
			// Discarded slabs stay at Sawed even when the order skips
			// filling; only usable slabs jump ahead.
			if si.Discarded || !wo.SkipFilling {
				s.ManufacturingState = StateSawed
			} else {
				s.ManufacturingState = StateFilled
			}
			sb.Slabs = append(sb.Slabs, s)
		}
		if allDiscarded || !wo.SkipFilling {
			sb.ManufacturingState = StateSawed
		} else {
			sb.ManufacturingState = StateFilled
		}
		sb.Refresh()
		blk.Bundles = append(blk.Bundles, sb)
	}

	blk.TotalSlabCount = cmd.TotalSlabCount
	blk.UpdatedAt = now

	if wo.SkipFilling {
		wo.ManufacturingState = StateFilled
	} else {
		wo.ManufacturingState = StateSawed
	}
	area := BlockManufacturingArea(blk, StateSawed)
	wo.AreaAfterSawing = &area
	if blk.TrimmedLength != nil && blk.TrimmedWidth != nil && blk.TrimmedHeight != nil {
		pct := YieldPercentage(area, Volume(*blk.TrimmedLength, *blk.TrimmedWidth, *blk.TrimmedHeight))
		wo.RawSlabOutturnPercentage = &pct
	}
	wo.SawingQE = inspector
	wo.touch()

	if wo.SkipFilling {
		wo.notify("Sawing stage finished",
			"Sawing for work order "+wo.OrderNumber+" is complete, filling is skipped, please proceed with polishing",
			RolePolishingQE)
	} else {
		wo.notify("Sawing stage finished",
			"Sawing for work order "+wo.OrderNumber+" is complete, please proceed with filling",
			RoleFillingManager)
	}
	return nil
}
