package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smt-platform/production-service/internal/domain"
)

type importEnv struct {
	orders     *fakeOrderRepo
	blocks     *fakeBlockRepo
	stock      *fakeStockBundleRepo
	catalog    *fakeCatalog
	dispatcher *fakeDispatcher
	svc        *ImportService
}

func newImportEnv(blocks ...*domain.Block) *importEnv {
	env := &importEnv{
		orders:     newFakeOrderRepo(),
		blocks:     newFakeBlockRepo(blocks...),
		stock:      newFakeStockBundleRepo(),
		catalog:    newFakeCatalog(),
		dispatcher: &fakeDispatcher{},
	}
	env.svc = NewImportService(env.orders, env.blocks, env.stock, env.catalog,
		env.dispatcher, testLogger())
	return env
}

func stockRow() StockBundleRow {
	return StockBundleRow{
		BlockNumber:      "B801",
		BundleNo:         1,
		TotalBundleCount: 2,
		TotalSlabCount:   8,
		Length:           1.9,
		Width:            0.95,
		Thickness:        0.018,
		Area:             14.44,
		CategoryName:     "Azul Macaubas Cross Cut",
		GradeName:        "A",
	}
}

func TestImportStockBundlesAdmitsNewBundle(t *testing.T) {
	blk := stockBlock("blk-1", "B801")
	env := newImportEnv(blk)

	report, err := env.svc.ImportStockBundles(context.Background(), ImportStockBundlesCommand{
		Rows: []StockBundleRow{stockRow()}, Operator: "karl",
	})
	require.NoError(t, err)
	assert.Empty(t, report.Errors)

	sb, err := env.stock.FindByBlockNumberAndNo(context.Background(), "B801", 1)
	require.NoError(t, err)
	require.NotNil(t, sb)
	assert.Equal(t, domain.MaterialStatusInStock, sb.Status)
	assert.Equal(t, domain.SlabTypePolished, sb.Type)
	assert.Equal(t, "cat-cross", sb.CategoryID)
	assert.Equal(t, "grade-a", sb.GradeID)
	assert.Equal(t, "karl", sb.StockInOperator)
	require.NotNil(t, sb.StockInTime)

	// The source block went straight from stock to processed.
	assert.Equal(t, domain.BlockStatusProcessed, blk.Status)
}

func TestImportStockBundlesGradeFallback(t *testing.T) {
	env := newImportEnv()
	row := stockRow()
	row.GradeName = "Premium Plus"

	report, err := env.svc.ImportStockBundles(context.Background(), ImportStockBundlesCommand{
		Rows: []StockBundleRow{row}, Operator: "karl",
	})
	require.NoError(t, err)
	assert.Empty(t, report.Errors)
	require.Len(t, report.Warnings, 1)

	sb, _ := env.stock.FindByBlockNumberAndNo(context.Background(), "B801", 1)
	require.NotNil(t, sb)
	assert.Equal(t, "grade-unknown", sb.GradeID)
}

func TestImportStockBundlesRejections(t *testing.T) {
	t.Run("unknown category", func(t *testing.T) {
		env := newImportEnv()
		row := stockRow()
		row.CategoryName = "Verde Imaginario"
		report, err := env.svc.ImportStockBundles(context.Background(), ImportStockBundlesCommand{
			Rows: []StockBundleRow{row}, Operator: "karl",
		})
		require.NoError(t, err)
		require.Len(t, report.Errors, 1)
		sb, _ := env.stock.FindByBlockNumberAndNo(context.Background(), "B801", 1)
		assert.Nil(t, sb)
	})

	t.Run("block still in production", func(t *testing.T) {
		blk := stockBlock("blk-1", "B801")
		blk.Status = domain.BlockStatusManufacturing
		env := newImportEnv(blk)
		report, err := env.svc.ImportStockBundles(context.Background(), ImportStockBundlesCommand{
			Rows: []StockBundleRow{stockRow()}, Operator: "karl",
		})
		require.NoError(t, err)
		require.Len(t, report.Errors, 1)
	})

	t.Run("verified bundle is not overwritten", func(t *testing.T) {
		env := newImportEnv()
		require.NoError(t, env.stock.Save(context.Background(), &domain.StoneBundle{
			ID: "bdl-1", BlockNumber: "B801", BundleNo: 1,
			Status: domain.MaterialStatusInStock, NotVerified: false,
		}))
		report, err := env.svc.ImportStockBundles(context.Background(), ImportStockBundlesCommand{
			Rows: []StockBundleRow{stockRow()}, Operator: "karl",
		})
		require.NoError(t, err)
		require.Len(t, report.Errors, 1)
	})
}

func TestImportStockBundlesUpdatesPlaceholder(t *testing.T) {
	env := newImportEnv()
	require.NoError(t, env.stock.Save(context.Background(), &domain.StoneBundle{
		ID: "bdl-1", BlockNumber: "B801", BundleNo: 1,
		Status: domain.MaterialStatusInStock, NotVerified: true,
		TotalBundleCount: 1, TotalSlabCount: 5,
		CategoryID: "cat-azul", GradeID: "grade-b",
	}))

	report, err := env.svc.ImportStockBundles(context.Background(), ImportStockBundlesCommand{
		Rows: []StockBundleRow{stockRow()}, Operator: "karl",
	})
	require.NoError(t, err)
	assert.Empty(t, report.Errors)

	sb, _ := env.stock.FindByBlockNumberAndNo(context.Background(), "B801", 1)
	assert.Equal(t, 2, sb.TotalBundleCount)
	assert.Equal(t, 8, sb.TotalSlabCount)
	assert.Equal(t, "cat-cross", sb.CategoryID)
	assert.Equal(t, "grade-a", sb.GradeID)
	require.NotNil(t, sb.LengthAfterStockIn)
	assert.InDelta(t, 1.9, *sb.LengthAfterStockIn, 1e-9)
}

// polishingFixture builds a manufacturing block with two filled bundles of
// two slabs each, held by a work order at Filled.
func polishingFixture(env *importEnv) (*domain.Block, *domain.WorkOrder) {
	newSlab := func(id string, seq int) *domain.Slab {
		l, w := 2.0, 1.0
		return &domain.Slab{
			ID: id, SequenceNumber: seq,
			CategoryID: "cat-cross", GradeID: "grade-a", Thickness: 0.018,
			Type:   domain.SlabTypeRaw,
			Status: domain.MaterialStatusManufacturing, ManufacturingState: domain.StateFilled,
			LengthAfterSawing: 2.0, WidthAfterSawing: 1.0,
			LengthAfterFilling: &l, WidthAfterFilling: &w,
		}
	}
	newBundle := func(id string, no int, slabs ...*domain.Slab) *domain.StoneBundle {
		return &domain.StoneBundle{
			ID: id, BlockNumber: "B801", BundleNo: no, TotalBundleCount: 2,
			TotalSlabCount: len(slabs), CategoryID: "cat-cross", GradeID: "grade-a",
			Thickness: 0.018, Type: domain.SlabTypeRaw,
			Status: domain.MaterialStatusManufacturing, ManufacturingState: domain.StateFilled,
			Slabs:  slabs,
		}
	}
	tl, tw, th := 1.8, 0.9, 0.9
	blk := &domain.Block{
		ID: "blk-1", BlockNumber: "B801", CategoryID: "cat-azul",
		Status:        domain.BlockStatusManufacturing,
		TrimmedLength: &tl, TrimmedWidth: &tw, TrimmedHeight: &th,
		TotalSlabCount: 4,
		Bundles: []*domain.StoneBundle{
			newBundle("bdl-1", 1, newSlab("s-1", 1), newSlab("s-2", 2)),
			newBundle("bdl-2", 2, newSlab("s-3", 3), newSlab("s-4", 4)),
		},
	}
	wo := &domain.WorkOrder{
		ID: "wo-1", OrderNumber: "SMWO20260801-01",
		OrderType:          domain.OrderTypePolishedSlab,
		ManufacturingState: domain.StateFilled,
		Requisition:        &domain.MaterialRequisition{ID: "req-1", BlockID: "blk-1"},
		Block:              blk,
	}
	env.blocks.blocks[blk.ID] = blk
	env.orders.orders[wo.ID] = wo
	return blk, wo
}

func polishingRow(bundleNo int, slabs ...PolishingSlabRow) PolishingBundleRow {
	return PolishingBundleRow{
		BlockNumber: "B801", BundleNo: bundleNo, Thickness: 0.018,
		GradeName: "A", TotalSlabCount: len(slabs), Slabs: slabs,
	}
}

func TestImportPolishingDataCompletesOrder(t *testing.T) {
	env := newImportEnv()
	blk, wo := polishingFixture(env)

	report, err := env.svc.ImportPolishingData(context.Background(), ImportPolishingDataCommand{
		Bundles: []PolishingBundleRow{
			polishingRow(1,
				PolishingSlabRow{SequenceNumber: 1, Length: 1.9, Width: 0.95},
				PolishingSlabRow{SequenceNumber: 2, Length: 1.9, Width: 0.95},
			),
			polishingRow(2,
				PolishingSlabRow{SequenceNumber: 3, Length: 1.9, Width: 0.95},
				PolishingSlabRow{SequenceNumber: 4, Length: 1.9, Width: 0.95},
			),
		},
		Operator: "karl",
	})
	require.NoError(t, err)
	assert.Empty(t, report.Errors)

	for _, sb := range blk.Bundles {
		assert.Equal(t, domain.StateCompleted, sb.ManufacturingState)
		for _, s := range sb.Slabs {
			assert.Equal(t, domain.StateCompleted, s.ManufacturingState)
			assert.Equal(t, domain.SlabTypePolished, s.Type)
			require.NotNil(t, s.LengthAfterPolishing)
			assert.InDelta(t, 1.9, *s.LengthAfterPolishing, 1e-9)
		}
	}

	assert.Equal(t, domain.StatePolishingQEFinished, wo.ManufacturingState)
	assert.Equal(t, "karl", wo.PolishingQE)
	// 4 slabs of 1.9*0.95 over the trimmed volume 1.458.
	require.NotNil(t, wo.AreaAfterPolishing)
	assert.InDelta(t, 7.22, *wo.AreaAfterPolishing, 1e-9)
	require.NotNil(t, wo.PolishedSlabOutturnPercentage)
	assert.InDelta(t, 4.952, *wo.PolishedSlabOutturnPercentage, 1e-9)

	var titles []string
	for _, n := range env.dispatcher.sent {
		titles = append(titles, n.Title)
	}
	assert.Contains(t, titles, "Polishing QE finished")
}

func TestImportPolishingDataMovedSlab(t *testing.T) {
	env := newImportEnv()
	blk, _ := polishingFixture(env)

	// Slab 3 was physically restacked into bundle 1; the manifest reflects
	// reality, the database does not yet.
	report, err := env.svc.ImportPolishingData(context.Background(), ImportPolishingDataCommand{
		Bundles: []PolishingBundleRow{
			polishingRow(1,
				PolishingSlabRow{SequenceNumber: 1, Length: 1.9, Width: 0.95},
				PolishingSlabRow{SequenceNumber: 2, Length: 1.9, Width: 0.95},
				PolishingSlabRow{SequenceNumber: 3, Length: 1.9, Width: 0.95},
			),
		},
		Operator: "karl",
	})
	require.NoError(t, err)
	assert.Empty(t, report.Errors)
	assert.NotEmpty(t, report.Warnings)

	target := blk.FindBundle(1)
	source := blk.FindBundle(2)
	assert.Len(t, target.Slabs, 3)
	assert.Len(t, source.Slabs, 1)
	assert.NotNil(t, target.FindSlab(3))
	assert.Equal(t, domain.StateCompleted, target.ManufacturingState)
}

func TestImportPolishingDataMaterializesUnknownSlab(t *testing.T) {
	env := newImportEnv()
	blk, _ := polishingFixture(env)

	report, err := env.svc.ImportPolishingData(context.Background(), ImportPolishingDataCommand{
		Bundles: []PolishingBundleRow{
			polishingRow(1,
				PolishingSlabRow{SequenceNumber: 1, Length: 1.9, Width: 0.95},
				PolishingSlabRow{SequenceNumber: 2, Length: 1.9, Width: 0.95},
				PolishingSlabRow{SequenceNumber: 9, Length: 1.9, Width: 0.95},
			),
		},
		Operator: "karl",
	})
	require.NoError(t, err)
	assert.Empty(t, report.Errors)

	created := blk.FindBundle(1).FindSlab(9)
	require.NotNil(t, created)
	assert.Equal(t, domain.StateCompleted, created.ManufacturingState)
	assert.Equal(t, domain.SlabTypePolished, created.Type)
	assert.InDelta(t, 1.9, created.LengthAfterSawing, 1e-9)
	require.NotNil(t, created.LengthAfterFilling)
}

func TestImportPolishingDataCountMismatchLeavesBundleOpen(t *testing.T) {
	env := newImportEnv()
	blk, wo := polishingFixture(env)

	row := polishingRow(1,
		PolishingSlabRow{SequenceNumber: 1, Length: 1.9, Width: 0.95},
		PolishingSlabRow{SequenceNumber: 2, Length: 1.9, Width: 0.95},
	)
	row.TotalSlabCount = 3

	report, err := env.svc.ImportPolishingData(context.Background(), ImportPolishingDataCommand{
		Bundles: []PolishingBundleRow{row}, Operator: "karl",
	})
	require.NoError(t, err)
	assert.Empty(t, report.Errors)
	assert.NotEmpty(t, report.Warnings)

	// The slabs took their measurements but the bundle stays open.
	sb := blk.FindBundle(1)
	assert.Equal(t, domain.StateFilled, sb.ManufacturingState)
	assert.Equal(t, domain.StateFilled, wo.ManufacturingState)
}

func TestImportPolishingDataRejectsForeignBlock(t *testing.T) {
	env := newImportEnv()

	report, err := env.svc.ImportPolishingData(context.Background(), ImportPolishingDataCommand{
		Bundles: []PolishingBundleRow{
			polishingRow(1, PolishingSlabRow{SequenceNumber: 1, Length: 1.9, Width: 0.95}),
		},
		Operator: "karl",
	})
	require.NoError(t, err)
	require.Len(t, report.Errors, 1)
}
