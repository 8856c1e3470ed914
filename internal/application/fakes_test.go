package application

import (
	"context"
	"io"

	"github.com/smt-platform/production-service/internal/domain"
	"github.com/smt-platform/production-service/pkg/logging"
)

func testLogger() *logging.Logger {
	cfg := logging.DefaultConfig("production-service-test")
	cfg.Output = io.Discard
	return logging.New(cfg)
}

type fakeOrderRepo struct {
	orders map[string]*domain.WorkOrder
	saves  int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.WorkOrder)}
}

func (r *fakeOrderRepo) Save(_ context.Context, wo *domain.WorkOrder) error {
	r.orders[wo.ID] = wo
	r.saves++
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, orderID string) (*domain.WorkOrder, error) {
	return r.orders[orderID], nil
}

func (r *fakeOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*domain.WorkOrder, error) {
	for _, wo := range r.orders {
		if wo.OrderNumber == orderNumber {
			return wo, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) FindByStates(_ context.Context, states []domain.ManufacturingState) ([]*domain.WorkOrder, error) {
	var out []*domain.WorkOrder
	for _, wo := range r.orders {
		for _, st := range states {
			if wo.ManufacturingState == st {
				out = append(out, wo)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindByBlockID(_ context.Context, blockID string, states []domain.ManufacturingState) (*domain.WorkOrder, error) {
	for _, wo := range r.orders {
		if wo.Requisition == nil || wo.Requisition.BlockID != blockID {
			continue
		}
		for _, st := range states {
			if wo.ManufacturingState == st {
				return wo, nil
			}
		}
	}
	return nil, nil
}

type fakeBlockRepo struct {
	blocks map[string]*domain.Block
}

func newFakeBlockRepo(blocks ...*domain.Block) *fakeBlockRepo {
	r := &fakeBlockRepo{blocks: make(map[string]*domain.Block)}
	for _, b := range blocks {
		r.blocks[b.ID] = b
	}
	return r
}

func (r *fakeBlockRepo) Save(_ context.Context, b *domain.Block) error {
	r.blocks[b.ID] = b
	return nil
}

func (r *fakeBlockRepo) FindByNumber(_ context.Context, blockNumber string) (*domain.Block, error) {
	for _, b := range r.blocks {
		if b.BlockNumber == blockNumber {
			return b, nil
		}
	}
	return nil, nil
}

type fakeStockBundleRepo struct {
	bundles map[string]*domain.StoneBundle
}

func newFakeStockBundleRepo(bundles ...*domain.StoneBundle) *fakeStockBundleRepo {
	r := &fakeStockBundleRepo{bundles: make(map[string]*domain.StoneBundle)}
	for _, sb := range bundles {
		r.bundles[sb.ID] = sb
	}
	return r
}

func (r *fakeStockBundleRepo) Save(_ context.Context, sb *domain.StoneBundle) error {
	r.bundles[sb.ID] = sb
	return nil
}

func (r *fakeStockBundleRepo) FindByID(_ context.Context, bundleID string) (*domain.StoneBundle, error) {
	return r.bundles[bundleID], nil
}

func (r *fakeStockBundleRepo) FindByBlockNumberAndNo(_ context.Context, blockNumber string, bundleNo int) (*domain.StoneBundle, error) {
	for _, sb := range r.bundles {
		if sb.BlockNumber == blockNumber && sb.BundleNo == bundleNo {
			return sb, nil
		}
	}
	return nil, nil
}

type fakeCatalog struct {
	categories []*domain.StoneCategory
	grades     []*domain.StoneGrade
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		categories: []*domain.StoneCategory{
			{ID: "cat-azul", Name: "Azul Macaubas"},
			{ID: "cat-cross", Name: "Azul Macaubas Cross Cut", BaseCategoryID: "cat-azul"},
		},
		grades: []*domain.StoneGrade{
			{ID: "grade-a", Name: "A"},
			{ID: "grade-b", Name: "B"},
			{ID: "grade-unknown", Name: domain.GradeNameUnknown},
		},
	}
}

func (c *fakeCatalog) CategoryByID(_ context.Context, categoryID string) (*domain.StoneCategory, error) {
	for _, cat := range c.categories {
		if cat.ID == categoryID {
			return cat, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) CategoryByName(_ context.Context, name string) (*domain.StoneCategory, error) {
	for _, cat := range c.categories {
		if cat.Name == name {
			return cat, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) GradeByID(_ context.Context, gradeID string) (*domain.StoneGrade, error) {
	for _, g := range c.grades {
		if g.ID == gradeID {
			return g, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) GradeByName(_ context.Context, name string) (*domain.StoneGrade, error) {
	for _, g := range c.grades {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, nil
}

type fakeSerials struct {
	counters map[string]int64
}

func newFakeSerials() *fakeSerials {
	return &fakeSerials{counters: make(map[string]int64)}
}

func (s *fakeSerials) Next(_ context.Context, key string) (int64, error) {
	s.counters[key]++
	return s.counters[key], nil
}

type fakeDispatcher struct {
	sent []domain.Notification
}

func (d *fakeDispatcher) Dispatch(_ context.Context, notifications []domain.Notification) error {
	d.sent = append(d.sent, notifications...)
	return nil
}
