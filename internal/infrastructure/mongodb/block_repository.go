package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smt-platform/production-service/internal/domain"
)

type BlockRepository struct {
	collection *mongo.Collection
}

func NewBlockRepository(db *mongo.Database) *BlockRepository {
	repo := &BlockRepository{collection: db.Collection("blocks")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *BlockRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "blockId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "blockNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *BlockRepository) Save(ctx context.Context, block *domain.Block) error {
	block.UpdatedAt = time.Now()
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"blockId": block.ID}, bson.M{"$set": block}, opts)
	return err
}

func (r *BlockRepository) FindByNumber(ctx context.Context, blockNumber string) (*domain.Block, error) {
	var block domain.Block
	err := r.collection.FindOne(ctx, bson.M{"blockNumber": blockNumber}).Decode(&block)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &block, err
}
