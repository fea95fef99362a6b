package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections names every collection the API writes to.
type Collections struct {
	Templates     string
	Inspections   string
	Customers     string
	Addresses     string
	Installations string
}

// EnsureIndexes creates the indexes backing owner scoped listings and parent lookups.
func EnsureIndexes(ctx context.Context, db *mongo.Database, c Collections) error {
	plan := map[string][]mongo.IndexModel{
		c.Templates: {
			{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetName("owner_name")},
		},
		c.Inspections: {
			{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "updatedAt", Value: -1}}, Options: options.Index().SetName("owner_updated")},
			{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "status", Value: 1}}, Options: options.Index().SetName("owner_status")},
			{Keys: bson.D{{Key: "customerId", Value: 1}}, Options: options.Index().SetName("customer").SetSparse(true)},
			{Keys: bson.D{{Key: "addressId", Value: 1}}, Options: options.Index().SetName("address").SetSparse(true)},
			{Keys: bson.D{{Key: "installationId", Value: 1}}, Options: options.Index().SetName("installation").SetSparse(true)},
		},
		c.Customers: {
			{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetName("owner_name")},
		},
		c.Addresses: {
			{Keys: bson.D{{Key: "customerId", Value: 1}}, Options: options.Index().SetName("customer")},
		},
		c.Installations: {
			{Keys: bson.D{{Key: "addressId", Value: 1}}, Options: options.Index().SetName("address")},
		},
	}
	for name, models := range plan {
		if name == "" {
			continue
		}
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
