package domain

import (
	"context"
)

// WorkOrderRepository persists the work-order aggregate. Save writes the
// order together with its requisitioned block (and the block's bundle/slab
// tree) as one transactional unit.
type WorkOrderRepository interface {
	Save(ctx context.Context, wo *WorkOrder) error
	FindByID(ctx context.Context, orderID string) (*WorkOrder, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*WorkOrder, error)
	FindByStates(ctx context.Context, states []ManufacturingState) ([]*WorkOrder, error)
	// FindByBlockID returns the single order in one of the given states whose
	// requisition references the block, or nil when none matches.
	FindByBlockID(ctx context.Context, blockID string, states []ManufacturingState) (*WorkOrder, error)
}

// BlockRepository persists raw blocks outside a work-order transaction, used
// by stock admission and catalog queries.
type BlockRepository interface {
	Save(ctx context.Context, block *Block) error
	FindByNumber(ctx context.Context, blockNumber string) (*Block, error)
}

// StockBundleRepository persists bundles held in stock independently of a
// manufacturing block: tile-flow source bundles and polished bundles admitted
// by stock imports.
type StockBundleRepository interface {
	Save(ctx context.Context, bundle *StoneBundle) error
	FindByID(ctx context.Context, bundleID string) (*StoneBundle, error)
	FindByBlockNumberAndNo(ctx context.Context, blockNumber string, bundleNo int) (*StoneBundle, error)
}

// CatalogRepository resolves stone categories and grades. The catalog is
// reference data; this service only reads it.
type CatalogRepository interface {
	CategoryByID(ctx context.Context, categoryID string) (*StoneCategory, error)
	CategoryByName(ctx context.Context, name string) (*StoneCategory, error)
	GradeByID(ctx context.Context, gradeID string) (*StoneGrade, error)
	GradeByName(ctx context.Context, name string) (*StoneGrade, error)
}

// SerialNumberRepository hands out monotonically increasing counters scoped
// by key, used for daily order-number sequences.
type SerialNumberRepository interface {
	Next(ctx context.Context, key string) (int64, error)
}

// NotificationDispatcher delivers role-targeted notifications. Dispatch is
// called after the mutating transaction commits; a delivery failure never
// rolls the state change back.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, notifications []Notification) error
}
