package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smt-platform/production-service/internal/domain"
)

// Integration tests run against a real replica-set MongoDB, pointed at by
// MONGODB_TEST_URI. They are skipped otherwise.
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if testing.Short() || uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { client.Disconnect(context.Background()) })

	db := client.Database("smt_production_test")
	t.Cleanup(func() { db.Drop(context.Background()) })
	return db
}

func TestWorkOrderRoundTrip(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()

	orders := NewWorkOrderRepository(db)
	blocks := NewBlockRepository(db)

	block := &domain.Block{
		ID:                   "blk-it-1",
		BlockNumber:          "B901",
		CategoryID:           "cat-1",
		Status:               domain.BlockStatusManufacturing,
		QuarryReportedLength: 2.0,
		QuarryReportedWidth:  1.0,
		QuarryReportedHeight: 1.0,
		Bundles: []*domain.StoneBundle{{
			ID:                 "bdl-it-1",
			BlockNumber:        "B901",
			BundleNo:           1,
			CategoryID:         "cat-1",
			Status:             domain.MaterialStatusManufacturing,
			ManufacturingState: domain.StateSawed,
			Slabs: []*domain.Slab{{
				ID:                 "slab-it-1",
				SequenceNumber:     1,
				CategoryID:         "cat-1",
				Status:             domain.MaterialStatusManufacturing,
				ManufacturingState: domain.StateSawed,
				LengthAfterSawing:  2.0,
				WidthAfterSawing:   1.0,
			}},
		}},
	}
	require.NoError(t, blocks.Save(ctx, block))

	wo := &domain.WorkOrder{
		ID:                 "wo-it-1",
		OrderNumber:        "SMWO20260828-01",
		OrderType:          domain.OrderTypePolishedSlab,
		ManufacturingState: domain.StateSawed,
		Priority:           "normal",
		DeliveryDate:       time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		Requisition:        &domain.MaterialRequisition{ID: "req-it-1", BlockID: block.ID, CreatedBy: "alice"},
		Block:              block,
		CreatedAt:          time.Now().UTC(),
	}
	require.NoError(t, orders.Save(ctx, wo))

	loaded, err := orders.FindByID(ctx, "wo-it-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, wo.OrderNumber, loaded.OrderNumber)
	require.NotNil(t, loaded.Block)
	require.Len(t, loaded.Block.Bundles, 1)
	assert.Equal(t, "slab-it-1", loaded.Block.Bundles[0].Slabs[0].ID)

	held, err := orders.FindByBlockID(ctx, block.ID, []domain.ManufacturingState{domain.StateSawed})
	require.NoError(t, err)
	require.NotNil(t, held)
	assert.Equal(t, "wo-it-1", held.ID)

	missing, err := orders.FindByID(ctx, "wo-nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSerialNumbersIncrementPerKey(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()

	serials := NewSerialNumberRepository(db)

	first, err := serials.Next(ctx, "workorder:20260828")
	require.NoError(t, err)
	second, err := serials.Next(ctx, "workorder:20260828")
	require.NoError(t, err)
	other, err := serials.Next(ctx, "workorder:20260829")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, int64(1), other)
}
