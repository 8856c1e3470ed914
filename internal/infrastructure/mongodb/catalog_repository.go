package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smt-platform/production-service/internal/domain"
)

// CatalogRepository reads the stone category and grade reference data.
// The catalog is maintained by the master-data service; this repository
// only reads it.
type CatalogRepository struct {
	categories *mongo.Collection
	grades     *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	repo := &CatalogRepository{
		categories: db.Collection("stone_categories"),
		grades:     db.Collection("stone_grades"),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *CatalogRepository) ensureIndexes(ctx context.Context) {
	r.categories.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "categoryId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	})
	r.grades.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "gradeId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	})
}

func (r *CatalogRepository) CategoryByID(ctx context.Context, categoryID string) (*domain.StoneCategory, error) {
	var category domain.StoneCategory
	err := r.categories.FindOne(ctx, bson.M{"categoryId": categoryID}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &category, err
}

func (r *CatalogRepository) CategoryByName(ctx context.Context, name string) (*domain.StoneCategory, error) {
	var category domain.StoneCategory
	err := r.categories.FindOne(ctx, bson.M{"name": name}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &category, err
}

func (r *CatalogRepository) GradeByID(ctx context.Context, gradeID string) (*domain.StoneGrade, error) {
	var grade domain.StoneGrade
	err := r.grades.FindOne(ctx, bson.M{"gradeId": gradeID}).Decode(&grade)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &grade, err
}

func (r *CatalogRepository) GradeByName(ctx context.Context, name string) (*domain.StoneGrade, error) {
	var grade domain.StoneGrade
	err := r.grades.FindOne(ctx, bson.M{"name": name}).Decode(&grade)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &grade, err
}
