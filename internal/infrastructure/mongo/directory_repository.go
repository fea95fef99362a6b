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

	"github.com/elkontrol/inspections/api/internal/directory/application"
	"github.com/elkontrol/inspections/api/internal/directory/domain"
)

// CustomerRepository persists customers.
type CustomerRepository struct {
	collection *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database, collection string) *CustomerRepository {
	return &CustomerRepository{collection: db.Collection(collection)}
}

func (r *CustomerRepository) Find(ctx context.Context, filter application.CustomerFilter, paging application.Paging) ([]domain.Customer, error) {
	mongoFilter := bson.M{"ownerId": filter.OwnerID}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		regex := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
		mongoFilter["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"email": regex},
			bson.M{"phone": regex},
		}
	}
	limit := paging.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetLimit(int64(limit))
	if paging.Page > 1 {
		opts.SetSkip(int64((paging.Page - 1) * limit))
	}

	var docs []CustomerDocument
	if err := findAll(ctx, r.collection, mongoFilter, opts, &docs); err != nil {
		return nil, err
	}
	customers := make([]domain.Customer, 0, len(docs))
	for _, doc := range docs {
		customers = append(customers, mapCustomer(doc))
	}
	return customers, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	var doc CustomerDocument
	if err := findByHex(ctx, r.collection, id, &doc); err != nil {
		return nil, err
	}
	customer := mapCustomer(doc)
	return &customer, nil
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	doc := CustomerDocument{
		ID:        primitive.NewObjectID(),
		OwnerID:   customer.OwnerID,
		Name:      customer.Name,
		Email:     customer.Email.String(),
		Phone:     customer.Phone,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	customer.ID = doc.ID.Hex()
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	return deleteByHex(ctx, r.collection, id, application.ErrNotFound)
}

func mapCustomer(doc CustomerDocument) domain.Customer {
	return domain.Customer{
		ID:        doc.ID.Hex(),
		OwnerID:   doc.OwnerID,
		Name:      doc.Name,
		Email:     domain.Email(doc.Email),
		Phone:     doc.Phone,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

// AddressRepository persists customer addresses.
type AddressRepository struct {
	collection *mongo.Collection
}

func NewAddressRepository(db *mongo.Database, collection string) *AddressRepository {
	return &AddressRepository{collection: db.Collection(collection)}
}

func (r *AddressRepository) FindByCustomer(ctx context.Context, customerID string) ([]domain.Address, error) {
	parent, err := primitive.ObjectIDFromHex(strings.TrimSpace(customerID))
	if err != nil {
		return []domain.Address{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "street", Value: 1}})
	var docs []AddressDocument
	if err := findAll(ctx, r.collection, bson.M{"customerId": parent}, opts, &docs); err != nil {
		return nil, err
	}
	addresses := make([]domain.Address, 0, len(docs))
	for _, doc := range docs {
		addresses = append(addresses, mapAddress(doc))
	}
	return addresses, nil
}

func (r *AddressRepository) FindByID(ctx context.Context, id string) (*domain.Address, error) {
	var doc AddressDocument
	if err := findByHex(ctx, r.collection, id, &doc); err != nil {
		return nil, err
	}
	address := mapAddress(doc)
	return &address, nil
}

func (r *AddressRepository) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	parent, err := primitive.ObjectIDFromHex(strings.TrimSpace(customerID))
	if err != nil {
		return 0, nil
	}
	return r.collection.CountDocuments(ctx, bson.M{"customerId": parent})
}

func (r *AddressRepository) Create(ctx context.Context, address *domain.Address) error {
	parent, err := primitive.ObjectIDFromHex(strings.TrimSpace(address.CustomerID))
	if err != nil {
		return application.ErrNotFound
	}
	doc := AddressDocument{
		ID:         primitive.NewObjectID(),
		OwnerID:    address.OwnerID,
		CustomerID: parent,
		Street:     address.Street,
		PostalCode: address.PostalCode,
		City:       address.City,
		CreatedAt:  address.CreatedAt,
		UpdatedAt:  address.UpdatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	address.ID = doc.ID.Hex()
	return nil
}

func (r *AddressRepository) Delete(ctx context.Context, id string) error {
	return deleteByHex(ctx, r.collection, id, application.ErrNotFound)
}

func mapAddress(doc AddressDocument) domain.Address {
	return domain.Address{
		ID:         doc.ID.Hex(),
		OwnerID:    doc.OwnerID,
		CustomerID: doc.CustomerID.Hex(),
		Street:     doc.Street,
		PostalCode: doc.PostalCode,
		City:       doc.City,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}

// InstallationRepository persists installations located at an address.
type InstallationRepository struct {
	collection *mongo.Collection
}

func NewInstallationRepository(db *mongo.Database, collection string) *InstallationRepository {
	return &InstallationRepository{collection: db.Collection(collection)}
}

func (r *InstallationRepository) FindByAddress(ctx context.Context, addressID string) ([]domain.Installation, error) {
	parent, err := primitive.ObjectIDFromHex(strings.TrimSpace(addressID))
	if err != nil {
		return []domain.Installation{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	var docs []InstallationDocument
	if err := findAll(ctx, r.collection, bson.M{"addressId": parent}, opts, &docs); err != nil {
		return nil, err
	}
	installations := make([]domain.Installation, 0, len(docs))
	for _, doc := range docs {
		installations = append(installations, mapInstallation(doc))
	}
	return installations, nil
}

func (r *InstallationRepository) FindByID(ctx context.Context, id string) (*domain.Installation, error) {
	var doc InstallationDocument
	if err := findByHex(ctx, r.collection, id, &doc); err != nil {
		return nil, err
	}
	inst := mapInstallation(doc)
	return &inst, nil
}

func (r *InstallationRepository) CountByAddress(ctx context.Context, addressID string) (int64, error) {
	parent, err := primitive.ObjectIDFromHex(strings.TrimSpace(addressID))
	if err != nil {
		return 0, nil
	}
	return r.collection.CountDocuments(ctx, bson.M{"addressId": parent})
}

func (r *InstallationRepository) Create(ctx context.Context, inst *domain.Installation) error {
	parent, err := primitive.ObjectIDFromHex(strings.TrimSpace(inst.AddressID))
	if err != nil {
		return application.ErrNotFound
	}
	doc := InstallationDocument{
		ID:          primitive.NewObjectID(),
		OwnerID:     inst.OwnerID,
		AddressID:   parent,
		Name:        inst.Name,
		Kind:        inst.Kind,
		Description: inst.Description,
		CreatedAt:   inst.CreatedAt,
		UpdatedAt:   inst.UpdatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	inst.ID = doc.ID.Hex()
	return nil
}

func (r *InstallationRepository) Delete(ctx context.Context, id string) error {
	return deleteByHex(ctx, r.collection, id, application.ErrNotFound)
}

func mapInstallation(doc InstallationDocument) domain.Installation {
	return domain.Installation{
		ID:          doc.ID.Hex(),
		OwnerID:     doc.OwnerID,
		AddressID:   doc.AddressID.Hex(),
		Name:        doc.Name,
		Kind:        doc.Kind,
		Description: doc.Description,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func findAll(ctx context.Context, collection *mongo.Collection, filter bson.M, opts *options.FindOptions, out any) error {
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func findByHex(ctx context.Context, collection *mongo.Collection, id string, out any) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return application.ErrNotFound
	}
	if err := collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return application.ErrNotFound
		}
		return err
	}
	return nil
}
