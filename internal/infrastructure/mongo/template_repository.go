package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/elkontrol/inspections/api/internal/checklist/application"
	"github.com/elkontrol/inspections/api/internal/checklist/domain"
)

// TemplateRepository is the Mongo implementation of application.TemplateRepository.
type TemplateRepository struct {
	collection *mongo.Collection
}

func NewTemplateRepository(db *mongo.Database, collection string) *TemplateRepository {
	return &TemplateRepository{collection: db.Collection(collection)}
}

func (r *TemplateRepository) FindByOwner(ctx context.Context, ownerID string, filter application.TemplateFilter) ([]domain.Template, error) {
	mongoFilter := bson.M{"ownerId": ownerID}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		mongoFilter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	templates := make([]domain.Template, 0)
	for cursor.Next(ctx) {
		var doc TemplateDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		tpl, err := mapTemplate(doc)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*domain.Template, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, application.ErrNotFound
	}
	var doc TemplateDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrNotFound
		}
		return nil, err
	}
	tpl, err := mapTemplate(doc)
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Create assigns a fresh ObjectID and writes it back to tpl.ID.
func (r *TemplateRepository) Create(ctx context.Context, tpl *domain.Template) error {
	doc, err := buildTemplateDocument(&domain.Template{
		Name:        tpl.Name,
		Description: tpl.Description,
		OwnerID:     tpl.OwnerID,
		Sections:    tpl.Sections,
		CreatedAt:   tpl.CreatedAt,
		UpdatedAt:   tpl.UpdatedAt,
	})
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	tpl.ID = doc.ID.Hex()
	return nil
}

func (r *TemplateRepository) Update(ctx context.Context, tpl *domain.Template) error {
	if _, err := primitive.ObjectIDFromHex(strings.TrimSpace(tpl.ID)); err != nil {
		return application.ErrNotFound
	}
	doc, err := buildTemplateDocument(tpl)
	if err != nil {
		return err
	}
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	return deleteByHex(ctx, r.collection, id, application.ErrNotFound)
}

func deleteByHex(ctx context.Context, collection *mongo.Collection, id string, notFound error) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return notFound
	}
	result, err := collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return notFound
	}
	return nil
}
