package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smt-platform/production-service/internal/domain"
)

type WorkOrderRepository struct {
	collection  *mongo.Collection
	blocks      *mongo.Collection
	stockBundle *mongo.Collection
	db          *mongo.Database
}

func NewWorkOrderRepository(db *mongo.Database) *WorkOrderRepository {
	repo := &WorkOrderRepository{
		collection:  db.Collection("work_orders"),
		blocks:      db.Collection("blocks"),
		stockBundle: db.Collection("stock_bundles"),
		db:          db,
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *WorkOrderRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "orderId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "manufacturingState", Value: 1}}},
		{Keys: bson.D{{Key: "requisition.blockId", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

// Save writes the order document and its attached material documents in one
// transaction so the block tree never drifts from the order state.
func (r *WorkOrderRepository) Save(ctx context.Context, wo *domain.WorkOrder) error {
	wo.UpdatedAt = time.Now()

	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		opts := options.Update().SetUpsert(true)

		filter := bson.M{"orderId": wo.ID}
		if _, err := r.collection.UpdateOne(sessCtx, filter, bson.M{"$set": wo}, opts); err != nil {
			return nil, fmt.Errorf("failed to save work order: %w", err)
		}

		if wo.Block != nil {
			wo.Block.UpdatedAt = wo.UpdatedAt
			blockFilter := bson.M{"blockId": wo.Block.ID}
			if _, err := r.blocks.UpdateOne(sessCtx, blockFilter, bson.M{"$set": wo.Block}, opts); err != nil {
				return nil, fmt.Errorf("failed to save block: %w", err)
			}
		}

		if wo.StockBundle != nil {
			wo.StockBundle.UpdatedAt = wo.UpdatedAt
			bundleFilter := bson.M{"bundleId": wo.StockBundle.ID}
			if _, err := r.stockBundle.UpdateOne(sessCtx, bundleFilter, bson.M{"$set": wo.StockBundle}, opts); err != nil {
				return nil, fmt.Errorf("failed to save stock bundle: %w", err)
			}
		}

		return nil, nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

func (r *WorkOrderRepository) FindByID(ctx context.Context, orderID string) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	err := r.collection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&wo)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, &wo); err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *WorkOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	err := r.collection.FindOne(ctx, bson.M{"orderNumber": orderNumber}).Decode(&wo)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, &wo); err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *WorkOrderRepository) FindByStates(ctx context.Context, states []domain.ManufacturingState) ([]*domain.WorkOrder, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"manufacturingState": bson.M{"$in": states}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []*domain.WorkOrder
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	for _, wo := range orders {
		if err := r.hydrate(ctx, wo); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *WorkOrderRepository) FindByBlockID(ctx context.Context, blockID string, states []domain.ManufacturingState) (*domain.WorkOrder, error) {
	filter := bson.M{
		"requisition.blockId": blockID,
		"manufacturingState":  bson.M{"$in": states},
	}
	var wo domain.WorkOrder
	err := r.collection.FindOne(ctx, filter).Decode(&wo)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, &wo); err != nil {
		return nil, err
	}
	return &wo, nil
}

// hydrate reattaches the block tree and stock bundle referenced by the
// requisition. They are persisted as separate documents.
func (r *WorkOrderRepository) hydrate(ctx context.Context, wo *domain.WorkOrder) error {
	if wo.Requisition == nil {
		return nil
	}

	if wo.Requisition.BlockID != "" {
		var block domain.Block
		err := r.blocks.FindOne(ctx, bson.M{"blockId": wo.Requisition.BlockID}).Decode(&block)
		if err != nil && err != mongo.ErrNoDocuments {
			return err
		}
		if err == nil {
			wo.Block = &block
		}
	}

	if wo.Requisition.BundleID != "" {
		var bundle domain.StoneBundle
		err := r.stockBundle.FindOne(ctx, bson.M{"bundleId": wo.Requisition.BundleID}).Decode(&bundle)
		if err != nil && err != mongo.ErrNoDocuments {
			return err
		}
		if err == nil {
			wo.StockBundle = &bundle
		}
	}

	return nil
}
