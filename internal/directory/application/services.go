package application

import (
	"context"
	"errors"

	"github.com/elkontrol/inspections/api/internal/directory/domain"
)

// ErrNotFound is returned for missing entries and for entries owned by someone else.
var ErrNotFound = errors.New("directory entry not found")

type CustomerRepository interface {
	Find(ctx context.Context, filter CustomerFilter, paging Paging) ([]domain.Customer, error)
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	Create(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id string) error
}

type AddressRepository interface {
	FindByCustomer(ctx context.Context, customerID string) ([]domain.Address, error)
	FindByID(ctx context.Context, id string) (*domain.Address, error)
	CountByCustomer(ctx context.Context, customerID string) (int64, error)
	Create(ctx context.Context, address *domain.Address) error
	Delete(ctx context.Context, id string) error
}

type InstallationRepository interface {
	FindByAddress(ctx context.Context, addressID string) ([]domain.Installation, error)
	FindByID(ctx context.Context, id string) (*domain.Installation, error)
	CountByAddress(ctx context.Context, addressID string) (int64, error)
	Create(ctx context.Context, installation *domain.Installation) error
	Delete(ctx context.Context, id string) error
}

// InspectionReferences counts the inspections that point at a directory entry.
type InspectionReferences interface {
	CountByCustomer(ctx context.Context, customerID string) (int64, error)
	CountByAddress(ctx context.Context, addressID string) (int64, error)
	CountByInstallation(ctx context.Context, installationID string) (int64, error)
}

// CustomerFilter expresses customer search criteria. OwnerID is mandatory.
type CustomerFilter struct {
	OwnerID string
	Keyword string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

type CustomerService interface {
	List(ctx context.Context, filter CustomerFilter, paging Paging) ([]domain.Customer, error)
	Detail(ctx context.Context, ownerID, id string) (*domain.Customer, error)
	Create(ctx context.Context, cmd CreateCustomerCommand) (*domain.Customer, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type AddressService interface {
	List(ctx context.Context, ownerID, customerID string) ([]domain.Address, error)
	Detail(ctx context.Context, ownerID, id string) (*domain.Address, error)
	Create(ctx context.Context, cmd CreateAddressCommand) (*domain.Address, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type InstallationService interface {
	List(ctx context.Context, ownerID, addressID string) ([]domain.Installation, error)
	Detail(ctx context.Context, ownerID, id string) (*domain.Installation, error)
	Create(ctx context.Context, cmd CreateInstallationCommand) (*domain.Installation, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type CreateCustomerCommand struct {
	OwnerID string
	Name    string
	Email   string
	Phone   string
}

type CreateAddressCommand struct {
	OwnerID    string
	CustomerID string
	Street     string
	PostalCode string
	City       string
}

type CreateInstallationCommand struct {
	OwnerID     string
	AddressID   string
	Name        string
	Kind        string
	Description string
}
