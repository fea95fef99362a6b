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

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// InspectionRepository is the Mongo implementation of application.InspectionRepository.
// Update replaces the whole document, so concurrent editors are last-write-wins.
type InspectionRepository struct {
	collection *mongo.Collection
}

func NewInspectionRepository(db *mongo.Database, collection string) *InspectionRepository {
	return &InspectionRepository{collection: db.Collection(collection)}
}

func (r *InspectionRepository) Find(ctx context.Context, filter application.InspectionFilter, paging application.Paging) ([]domain.Inspection, error) {
	cursor, err := r.collection.Find(ctx, inspectionFilter(filter), findOptions(paging, bson.D{{Key: "updatedAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	inspections := make([]domain.Inspection, 0)
	for cursor.Next(ctx) {
		var doc InspectionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		in, err := mapInspection(doc)
		if err != nil {
			return nil, err
		}
		inspections = append(inspections, in)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return inspections, nil
}

func inspectionFilter(filter application.InspectionFilter) bson.M {
	mongoFilter := bson.M{"ownerId": filter.OwnerID}
	if filter.CustomerID != "" {
		mongoFilter["customerId"] = filter.CustomerID
	}
	if filter.AddressID != "" {
		mongoFilter["addressId"] = filter.AddressID
	}
	if filter.InstallationID != "" {
		mongoFilter["installationId"] = filter.InstallationID
	}
	if filter.Status != "" {
		mongoFilter["status"] = filter.Status.String()
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		mongoFilter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
	}
	return mongoFilter
}

func findOptions(paging application.Paging, sort bson.D) *options.FindOptions {
	limit := paging.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	opts := options.Find().SetSort(sort).SetLimit(int64(limit))
	if paging.Page > 1 {
		opts.SetSkip(int64((paging.Page - 1) * limit))
	}
	return opts
}

func (r *InspectionRepository) FindByID(ctx context.Context, id string) (*domain.Inspection, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, application.ErrNotFound
	}
	var doc InspectionDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrNotFound
		}
		return nil, err
	}
	in, err := mapInspection(doc)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// Create assigns a fresh ObjectID and writes it back to in.ID.
func (r *InspectionRepository) Create(ctx context.Context, in *domain.Inspection) error {
	fresh := in.Clone()
	fresh.ID = ""
	doc, err := buildInspectionDocument(&fresh)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	in.ID = doc.ID.Hex()
	return nil
}

func (r *InspectionRepository) Update(ctx context.Context, in *domain.Inspection) error {
	if _, err := primitive.ObjectIDFromHex(strings.TrimSpace(in.ID)); err != nil {
		return application.ErrNotFound
	}
	doc, err := buildInspectionDocument(in)
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

// CountByCustomer, CountByAddress and CountByInstallation count the
// inspections that still reference a directory entry.
func (r *InspectionRepository) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"customerId": customerID})
}

func (r *InspectionRepository) CountByAddress(ctx context.Context, addressID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"addressId": addressID})
}

func (r *InspectionRepository) CountByInstallation(ctx context.Context, installationID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"installationId": installationID})
}

func (r *InspectionRepository) Delete(ctx context.Context, id string) error {
	return deleteByHex(ctx, r.collection, id, application.ErrNotFound)
}
