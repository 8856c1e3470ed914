package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smt-platform/production-service/internal/domain"
)

type StockBundleRepository struct {
	collection *mongo.Collection
}

func NewStockBundleRepository(db *mongo.Database) *StockBundleRepository {
	repo := &StockBundleRepository{collection: db.Collection("stock_bundles")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *StockBundleRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "bundleId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "blockNumber", Value: 1}, {Key: "bundleNo", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *StockBundleRepository) Save(ctx context.Context, bundle *domain.StoneBundle) error {
	bundle.UpdatedAt = time.Now()
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"bundleId": bundle.ID}, bson.M{"$set": bundle}, opts)
	return err
}

func (r *StockBundleRepository) FindByID(ctx context.Context, bundleID string) (*domain.StoneBundle, error) {
	var bundle domain.StoneBundle
	err := r.collection.FindOne(ctx, bson.M{"bundleId": bundleID}).Decode(&bundle)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &bundle, err
}

func (r *StockBundleRepository) FindByBlockNumberAndNo(ctx context.Context, blockNumber string, bundleNo int) (*domain.StoneBundle, error) {
	var bundle domain.StoneBundle
	err := r.collection.FindOne(ctx, bson.M{"blockNumber": blockNumber, "bundleNo": bundleNo}).Decode(&bundle)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &bundle, err
}
