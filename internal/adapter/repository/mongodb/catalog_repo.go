package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/logger"
)

const propertiesCollection = "properties"

// CatalogRepository loads the property catalog from MongoDB.
type CatalogRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewCatalogRepository(db *mongo.Database, log *logger.Logger) *CatalogRepository {
	return &CatalogRepository{
		collection: db.Collection(propertiesCollection),
		logger:     log,
	}
}

func (r *CatalogRepository) Load(ctx context.Context) ([]domain.Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("CatalogRepository.Load: find failed", "error", err)
		return nil, fmt.Errorf("find properties: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []propertyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("CatalogRepository.Load: decode failed", "error", err)
		return nil, fmt.Errorf("decode properties: %w", err)
	}

	props := make([]domain.Property, 0, len(docs))
	for _, d := range docs {
		props = append(props, toDomainProperty(d))
	}
	r.logger.Info("CatalogRepository.Load: catalog loaded", "count", len(props))
	return props, nil
}

// SeedIfEmpty inserts props when the collection holds no documents and
// reports whether it did.
func (r *CatalogRepository) SeedIfEmpty(ctx context.Context, props []domain.Property) (bool, error) {
	n, err := r.collection.EstimatedDocumentCount(ctx)
	if err != nil {
		return false, fmt.Errorf("count properties: %w", err)
	}
	if n > 0 || len(props) == 0 {
		return false, nil
	}
	docs := make([]interface{}, 0, len(props))
	for i, p := range props {
		docs = append(docs, toPropertyDocument(p, i))
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		r.logger.Error("CatalogRepository.SeedIfEmpty: insert failed", "error", err)
		return false, fmt.Errorf("seed properties: %w", err)
	}
	r.logger.Info("CatalogRepository.SeedIfEmpty: seeded catalog", "count", len(docs))
	return true, nil
}
