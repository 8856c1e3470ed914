package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestSlabNetArea(t *testing.T) {
	tests := []struct {
		name string
		slab *Slab
		want float64
	}{
		{
			name: "sawing dimensions only",
			slab: &Slab{LengthAfterSawing: 2.0, WidthAfterSawing: 1.0},
			want: 2.0,
		},
		{
			name: "deductions subtract from each dimension",
			slab: &Slab{LengthAfterSawing: 2.0, WidthAfterSawing: 1.0, DeductedLength: 0.2, DeductedWidth: 0.1},
			want: 1.62,
		},
		{
			name: "filling dimensions shadow sawing",
			slab: &Slab{LengthAfterSawing: 2.0, WidthAfterSawing: 1.0, LengthAfterFilling: f64(1.9), WidthAfterFilling: f64(0.9)},
			want: 1.71,
		},
		{
			name: "polishing dimensions shadow filling",
			slab: &Slab{
				LengthAfterSawing: 2.0, WidthAfterSawing: 1.0,
				LengthAfterFilling: f64(1.9), WidthAfterFilling: f64(0.9),
				LengthAfterPolishing: f64(1.8), WidthAfterPolishing: f64(0.8),
			},
			want: 1.44,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SlabNetArea(tt.slab), 1e-9)
		})
	}
}

func TestUsableAreaSkipsDiscardedSlabs(t *testing.T) {
	sb := &StoneBundle{Slabs: []*Slab{
		{LengthAfterSawing: 2.0, WidthAfterSawing: 1.0, Status: MaterialStatusManufacturing},
		{LengthAfterSawing: 2.0, WidthAfterSawing: 1.0, Status: MaterialStatusDiscarded},
		{LengthAfterSawing: 1.5, WidthAfterSawing: 1.0, Status: MaterialStatusManufacturing},
	}}
	assert.InDelta(t, 3.5, UsableArea(sb), 1e-9)
	assert.Equal(t, 2, UsableSlabCount(sb))
}

func TestBundleStatus(t *testing.T) {
	manufacturing := &StoneBundle{Slabs: []*Slab{
		{Status: MaterialStatusDiscarded},
		{Status: MaterialStatusManufacturing},
	}}
	assert.Equal(t, MaterialStatusManufacturing, BundleStatus(manufacturing))

	discarded := &StoneBundle{Slabs: []*Slab{
		{Status: MaterialStatusDiscarded},
		{Status: MaterialStatusDiscarded},
	}}
	assert.Equal(t, MaterialStatusDiscarded, BundleStatus(discarded))
}

func TestYieldPercentage(t *testing.T) {
	tests := []struct {
		name        string
		num, den    float64
		want        float64
	}{
		{"exact", 1.458, 2.0, 0.729},
		{"rounds half away from zero", 0.8725, 1.0, 0.873},
		{"rounds down", 0.8724, 1.0, 0.872},
		{"zero denominator", 1.0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, YieldPercentage(tt.num, tt.den), 1e-9)
		})
	}
}

func TestBlockManufacturingArea(t *testing.T) {
	blk := &Block{Bundles: []*StoneBundle{
		{
			Status: MaterialStatusManufacturing,
			Slabs: []*Slab{
				{LengthAfterSawing: 2.0, WidthAfterSawing: 1.0, Status: MaterialStatusManufacturing, ManufacturingState: StateFilled},
				{LengthAfterSawing: 2.0, WidthAfterSawing: 1.0, Status: MaterialStatusManufacturing, ManufacturingState: StateSawed},
			},
		},
		{
			Status: MaterialStatusDiscarded,
			Slabs: []*Slab{
				{LengthAfterSawing: 2.0, WidthAfterSawing: 1.0, Status: MaterialStatusDiscarded, ManufacturingState: StateCompleted},
			},
		},
	}}

	assert.InDelta(t, 4.0, BlockManufacturingArea(blk, StateSawed), 1e-9)
	assert.InDelta(t, 2.0, BlockManufacturingArea(blk, StateFilled), 1e-9)
	assert.InDelta(t, 0.0, BlockManufacturingArea(blk, StateCompleted), 1e-9)
}

func TestMinimumSlabProgress(t *testing.T) {
	sb := &StoneBundle{
		ManufacturingState: StateFilled,
		Slabs: []*Slab{
			{Status: MaterialStatusManufacturing, ManufacturingState: StateFilled},
			{Status: MaterialStatusManufacturing, ManufacturingState: StateSawed},
			{Status: MaterialStatusDiscarded, ManufacturingState: StateSawed},
		},
	}
	assert.Equal(t, StateSawed, MinimumSlabProgress(sb))
}

func TestReachedStage(t *testing.T) {
	assert.True(t, ReachedStage(StateFilled, StateSawed))
	assert.True(t, ReachedStage(StateSawed, StateSawed))
	assert.False(t, ReachedStage(StateSawed, StateFilled))
	assert.False(t, ReachedStage(StateCancelled, StateSawed))
}
