package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smt-platform/production-service/internal/domain"
)

type serviceEnv struct {
	orders     *fakeOrderRepo
	blocks     *fakeBlockRepo
	stock      *fakeStockBundleRepo
	catalog    *fakeCatalog
	serials    *fakeSerials
	dispatcher *fakeDispatcher
	svc        *ProductionService
}

func newServiceEnv(blocks ...*domain.Block) *serviceEnv {
	env := &serviceEnv{
		orders:     newFakeOrderRepo(),
		blocks:     newFakeBlockRepo(blocks...),
		stock:      newFakeStockBundleRepo(),
		catalog:    newFakeCatalog(),
		serials:    newFakeSerials(),
		dispatcher: &fakeDispatcher{},
	}
	env.svc = NewProductionService(env.orders, env.blocks, env.stock, env.catalog,
		env.serials, env.dispatcher, testLogger())
	return env
}

func stockBlock(id, number string) *domain.Block {
	return &domain.Block{
		ID:                   id,
		BlockNumber:          number,
		CategoryID:           "cat-azul",
		Status:               domain.BlockStatusInStock,
		QuarryReportedLength: 2.0,
		QuarryReportedWidth:  1.0,
		QuarryReportedHeight: 1.0,
	}
}

func createCommand() CreateWorkOrderCommand {
	return CreateWorkOrderCommand{
		OrderType:         domain.OrderTypePolishedSlab,
		ProductCategoryID: "cat-cross",
		Thickness:         0.018,
		Priority:          "normal",
		DeliveryDate:      time.Now().UTC().AddDate(0, 1, 0),
	}
}

func reportCommand(orderID, details, operator string) StageReportCommand {
	start := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	return StageReportCommand{
		OrderID:   orderID,
		Details:   details,
		StartTime: start,
		EndTime:   start.Add(4 * time.Hour),
		Operator:  operator,
	}
}

func TestCreateWorkOrder(t *testing.T) {
	env := newServiceEnv()
	ctx := context.Background()

	first, err := env.svc.CreateWorkOrder(ctx, createCommand())
	require.NoError(t, err)
	second, err := env.svc.CreateWorkOrder(ctx, createCommand())
	require.NoError(t, err)

	day := time.Now().UTC().Format("20060102")
	assert.Equal(t, fmt.Sprintf("SMWO%s-01", day), first.OrderNumber)
	assert.Equal(t, fmt.Sprintf("SMWO%s-02", day), second.OrderNumber)
	assert.Equal(t, string(domain.StateNotStarted), first.ManufacturingState)
	assert.NotEmpty(t, env.dispatcher.sent)

	t.Run("unknown category", func(t *testing.T) {
		cmd := createCommand()
		cmd.ProductCategoryID = "cat-nope"
		_, err := env.svc.CreateWorkOrder(ctx, cmd)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("unknown order type", func(t *testing.T) {
		cmd := createCommand()
		cmd.OrderType = "countertop"
		_, err := env.svc.CreateWorkOrder(ctx, cmd)
		assert.True(t, domain.IsValidation(err))
	})
}

func TestUpdateWorkOrder(t *testing.T) {
	env := newServiceEnv()
	ctx := context.Background()

	order, err := env.svc.CreateWorkOrder(ctx, createCommand())
	require.NoError(t, err)

	newDelivery := time.Now().UTC().AddDate(0, 2, 0)
	dto, err := env.svc.UpdateWorkOrder(ctx, UpdateWorkOrderCommand{
		OrderID:      order.OrderID,
		OrderType:    domain.OrderTypeRawSlab,
		Priority:     "urgent",
		DeliveryDate: newDelivery,
		Notes:        "customer moved the date",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.OrderTypeRawSlab), dto.OrderType)
	assert.Equal(t, "urgent", dto.Priority)
	assert.Equal(t, newDelivery, dto.DeliveryDate)

	var titles []string
	for _, n := range env.dispatcher.sent {
		titles = append(titles, n.Title)
	}
	assert.Contains(t, titles, "Work order updated")

	t.Run("unknown order type", func(t *testing.T) {
		_, err := env.svc.UpdateWorkOrder(ctx, UpdateWorkOrderCommand{
			OrderID: order.OrderID, OrderType: "countertop", Priority: "normal", DeliveryDate: newDelivery,
		})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("past delivery date", func(t *testing.T) {
		_, err := env.svc.UpdateWorkOrder(ctx, UpdateWorkOrderCommand{
			OrderID:      order.OrderID,
			OrderType:    domain.OrderTypeRawSlab,
			Priority:     "normal",
			DeliveryDate: time.Now().UTC().AddDate(0, 0, -1),
		})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := env.svc.UpdateWorkOrder(ctx, UpdateWorkOrderCommand{
			OrderID: "wo-missing", OrderType: domain.OrderTypeRawSlab, Priority: "normal", DeliveryDate: newDelivery,
		})
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestSubmitRequisitionRejectsHeldBlock(t *testing.T) {
	env := newServiceEnv(stockBlock("blk-1", "B801"))
	ctx := context.Background()

	first, err := env.svc.CreateWorkOrder(ctx, createCommand())
	require.NoError(t, err)
	second, err := env.svc.CreateWorkOrder(ctx, createCommand())
	require.NoError(t, err)

	_, err = env.svc.SubmitRequisition(ctx, SubmitRequisitionCommand{
		OrderID: first.OrderID, BlockNumber: "B801", Operator: "alice",
	})
	require.NoError(t, err)

	_, err = env.svc.SubmitRequisition(ctx, SubmitRequisitionCommand{
		OrderID: second.OrderID, BlockNumber: "B801", Operator: "alice",
	})
	assert.True(t, domain.IsStateConflict(err))
}

func TestSubmitRequisitionUnknownBlock(t *testing.T) {
	env := newServiceEnv()
	ctx := context.Background()

	order, err := env.svc.CreateWorkOrder(ctx, createCommand())
	require.NoError(t, err)

	_, err = env.svc.SubmitRequisition(ctx, SubmitRequisitionCommand{
		OrderID: order.OrderID, BlockNumber: "B999", Operator: "alice",
	})
	assert.True(t, domain.IsNotFound(err))
}

func TestFullProductionRun(t *testing.T) {
	env := newServiceEnv(stockBlock("blk-1", "B801"))
	ctx := context.Background()

	order, err := env.svc.CreateWorkOrder(ctx, createCommand())
	require.NoError(t, err)
	id := order.OrderID

	_, err = env.svc.SubmitRequisition(ctx, SubmitRequisitionCommand{OrderID: id, BlockNumber: "B801", Operator: "alice"})
	require.NoError(t, err)
	_, err = env.svc.ApproveRequisition(ctx, ApproveRequisitionCommand{OrderID: id, Operator: "bob"})
	require.NoError(t, err)

	_, err = env.svc.SubmitTrimming(ctx, SubmitTrimmingCommand{
		StageReportCommand: reportCommand(id, "wire saw 3", "carol"),
		Length:             1.8, Width: 0.9, Height: 0.9,
	})
	require.NoError(t, err)
	_, err = env.svc.ConfirmTrimmingQE(ctx, ConfirmTrimmingQECommand{
		OrderID: id, Length: 1.8, Width: 0.9, Height: 0.9, Inspector: "dave",
	})
	require.NoError(t, err)

	_, err = env.svc.SubmitSawing(ctx, reportCommand(id, "gang saw 1", "erin"))
	require.NoError(t, err)

	dto, err := env.svc.SplitIntoBundles(ctx, SplitIntoBundlesCommand{
		OrderID:          id,
		TotalSlabCount:   2,
		TotalBundleCount: 1,
		Thickness:        0.018,
		Bundles: []SplitBundleCommand{{
			BundleNo: 1, GradeID: "grade-a",
			Slabs: []SplitSlabCommand{
				{SequenceNumber: 1, Length: 2.0, Width: 1.0},
				{SequenceNumber: 2, Length: 2.0, Width: 1.0},
			},
		}},
		Inspector: "frank",
	})
	require.NoError(t, err)
	require.NotNil(t, dto.Block)
	require.Len(t, dto.Block.Bundles, 1)
	assert.InDelta(t, 4.0, *dto.AreaAfterSawing, 1e-9)

	_, err = env.svc.SubmitFilling(ctx, reportCommand(id, "resin line 2", "grace"))
	require.NoError(t, err)
	_, err = env.svc.ConfirmFillingOver(ctx, FillingOverCommand{OrderID: id, Inspector: "heidi"})
	require.NoError(t, err)

	wo, err := env.orders.FindByID(ctx, id)
	require.NoError(t, err)
	bundle := wo.Block.Bundles[0]
	for _, slab := range bundle.Slabs {
		_, err = env.svc.ConfirmPolishingQE(ctx, SlabQECommand{
			OrderID: id, SlabID: slab.ID, Length: 1.9, Width: 0.95, Inspector: "ivan",
		})
		require.NoError(t, err)
	}
	_, err = env.svc.ConfirmBundleGradeQE(ctx, BundleGradeQECommand{
		OrderID: id, BundleID: bundle.ID, GradeID: "grade-a", Inspector: "ivan",
	})
	require.NoError(t, err)
	_, err = env.svc.ConfirmPolishingOver(ctx, PolishingOverCommand{OrderID: id, Inspector: "ivan"})
	require.NoError(t, err)

	final, err := env.svc.ConfirmPolishing(ctx, reportCommand(id, "polish line 1", "judy"))
	require.NoError(t, err)
	assert.Equal(t, string(domain.StateCompleted), final.ManufacturingState)
	assert.Equal(t, string(domain.BlockStatusProcessed), final.Block.Status)

	var titles []string
	for _, n := range env.dispatcher.sent {
		titles = append(titles, n.Title)
	}
	assert.Contains(t, titles, "Polished slabs ready for stock-in")
}

func TestMyWorkOrders(t *testing.T) {
	env := newServiceEnv(stockBlock("blk-1", "B801"))
	ctx := context.Background()

	order, err := env.svc.CreateWorkOrder(ctx, createCommand())
	require.NoError(t, err)
	_, err = env.svc.SubmitRequisition(ctx, SubmitRequisitionCommand{
		OrderID: order.OrderID, BlockNumber: "B801", Operator: "alice",
	})
	require.NoError(t, err)

	queue, err := env.svc.MyWorkOrders(ctx, MyWorkOrdersQuery{Role: domain.RoleBlockManager})
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, order.OrderID, queue[0].OrderID)

	empty, err := env.svc.MyWorkOrders(ctx, MyWorkOrdersQuery{Role: domain.RoleSawingQE})
	require.NoError(t, err)
	assert.Empty(t, empty)

	unknown, err := env.svc.MyWorkOrders(ctx, MyWorkOrdersQuery{Role: "janitor"})
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestMyWorkOrdersFillingLag(t *testing.T) {
	env := newServiceEnv()
	ctx := context.Background()

	// An order already at Filled whose second slab still waits in Sawed.
	wo := &domain.WorkOrder{
		ID:                 "wo-lag",
		OrderNumber:        "SMWO20260801-09",
		OrderType:          domain.OrderTypePolishedSlab,
		ManufacturingState: domain.StateFilled,
		Requisition:        &domain.MaterialRequisition{ID: "req-1", BlockID: "blk-9"},
		Block: &domain.Block{
			ID: "blk-9", BlockNumber: "B809", Status: domain.BlockStatusManufacturing,
			Bundles: []*domain.StoneBundle{{
				ID: "bdl-1", Status: domain.MaterialStatusManufacturing,
				ManufacturingState: domain.StateFilled,
				Slabs: []*domain.Slab{
					{ID: "s-1", SequenceNumber: 1, Status: domain.MaterialStatusManufacturing, ManufacturingState: domain.StateFilled},
					{ID: "s-2", SequenceNumber: 2, Status: domain.MaterialStatusManufacturing, ManufacturingState: domain.StateSawed},
				},
			}},
		},
	}
	require.NoError(t, env.orders.Save(ctx, wo))

	queue, err := env.svc.MyWorkOrders(ctx, MyWorkOrdersQuery{Role: domain.RoleFillingManager})
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, "wo-lag", queue[0].OrderID)

	// The polishing inspector sees it through the regular Filled queue.
	polishing, err := env.svc.MyWorkOrders(ctx, MyWorkOrdersQuery{Role: domain.RolePolishingQE})
	require.NoError(t, err)
	assert.Len(t, polishing, 1)
}
