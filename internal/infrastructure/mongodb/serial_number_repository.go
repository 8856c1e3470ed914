package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SerialNumberRepository hands out monotonically increasing counters per key.
// Order numbering uses one key per calendar day.
type SerialNumberRepository struct {
	collection *mongo.Collection
}

func NewSerialNumberRepository(db *mongo.Database) *SerialNumberRepository {
	return &SerialNumberRepository{collection: db.Collection("serial_numbers")}
}

func (r *SerialNumberRepository) Next(ctx context.Context, key string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Key   string `bson:"_id"`
		Value int64  `bson:"value"`
	}
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": key},
		bson.M{"$inc": bson.M{"value": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Value, nil
}
