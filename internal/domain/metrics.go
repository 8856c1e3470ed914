package domain

import (
	"github.com/shopspring/decimal"
)

// Pure derived-metric calculations over the material hierarchy. Nothing in
// this file mutates an entity.

// Volume returns l × w × h.
func Volume(length, width, height float64) float64 {
	return length * width * height
}

// SlabNetArea is the slab's billable area: its current-stage dimensions minus
// the deducted trim allowance.
func SlabNetArea(s *Slab) float64 {
	return (s.CurrentLength() - s.DeductedLength) * (s.CurrentWidth() - s.DeductedWidth)
}

// UsableArea sums SlabNetArea over the bundle's non-discarded slabs.
func UsableArea(sb *StoneBundle) float64 {
	var area float64
	for _, s := range sb.Slabs {
		if s.Status == MaterialStatusDiscarded {
			continue
		}
		area += SlabNetArea(s)
	}
	return area
}

// UsableSlabCount counts the bundle's non-discarded slabs.
func UsableSlabCount(sb *StoneBundle) int {
	count := 0
	for _, s := range sb.Slabs {
		if s.Status != MaterialStatusDiscarded {
			count++
		}
	}
	return count
}

// BundleStatus derives a bundle's status from its slabs: a bundle is
// discarded only when every slab in it is discarded. A single discarded slab
// never discards the bundle while usable siblings remain.
func BundleStatus(sb *StoneBundle) MaterialStatus {
	if UsableSlabCount(sb) == 0 {
		return MaterialStatusDiscarded
	}
	return MaterialStatusManufacturing
}

// YieldPercentage divides usable output by raw input and rounds to exactly
// three decimal places, half away from zero. A zero denominator yields 0.
func YieldPercentage(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	ratio := decimal.NewFromFloat(numerator).Div(decimal.NewFromFloat(denominator))
	v, _ := ratio.Round(3).Float64()
	return v
}

// BlockManufacturingArea sums the net area of the block's usable slabs whose
// manufacturing state has reached at least the given stage. Filtering happens
// per slab so the area grows as individual quality checks come in.
func BlockManufacturingArea(b *Block, atStage ManufacturingState) float64 {
	var area float64
	for _, sb := range b.Bundles {
		if sb.Status == MaterialStatusDiscarded {
			continue
		}
		for _, s := range sb.Slabs {
			if s.Status == MaterialStatusDiscarded {
				continue
			}
			if ReachedStage(s.ManufacturingState, atStage) {
				area += SlabNetArea(s)
			}
		}
	}
	return area
}

// MinimumSlabProgress returns the least advanced manufacturing state among
// the bundle's non-discarded slabs. Used when a slab is sent back to filling
// so the bundle reflects its slowest member.
func MinimumSlabProgress(sb *StoneBundle) ManufacturingState {
	min := sb.ManufacturingState
	for _, s := range sb.Slabs {
		if s.Status == MaterialStatusDiscarded {
			continue
		}
		if stageRank[s.ManufacturingState] < stageRank[min] {
			min = s.ManufacturingState
		}
	}
	return min
}
