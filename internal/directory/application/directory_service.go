package application

import (
	"context"
	"time"

	"github.com/elkontrol/inspections/api/internal/directory/domain"
)

type customerService struct {
	repo        CustomerRepository
	addresses   AddressRepository
	inspections InspectionReferences
	clock       func() time.Time
}

// NewCustomerService wires customer CRUD. inspections may be nil, in which
// case deletes only look at addresses.
func NewCustomerService(repo CustomerRepository, addresses AddressRepository, inspections InspectionReferences, clock func() time.Time) CustomerService {
	return &customerService{repo: repo, addresses: addresses, inspections: inspections, clock: clock}
}

func (s *customerService) List(ctx context.Context, filter CustomerFilter, paging Paging) ([]domain.Customer, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *customerService) Detail(ctx context.Context, ownerID, id string) (*domain.Customer, error) {
	return loadCustomer(ctx, s.repo, ownerID, id)
}

func (s *customerService) Create(ctx context.Context, cmd CreateCustomerCommand) (*domain.Customer, error) {
	customer, err := domain.NewCustomer(cmd.OwnerID, cmd.Name, cmd.Email, cmd.Phone)
	if err != nil {
		return nil, err
	}
	customer.CreatedAt = s.clock()
	customer.UpdatedAt = customer.CreatedAt
	if err := s.repo.Create(ctx, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *customerService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := loadCustomer(ctx, s.repo, ownerID, id); err != nil {
		return err
	}
	if err := refuseChildren(s.addresses.CountByCustomer(ctx, id)); err != nil {
		return err
	}
	if s.inspections != nil {
		if err := refuseChildren(s.inspections.CountByCustomer(ctx, id)); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, id)
}

type addressService struct {
	repo          AddressRepository
	customers     CustomerRepository
	installations InstallationRepository
	inspections   InspectionReferences
	clock         func() time.Time
}

func NewAddressService(repo AddressRepository, customers CustomerRepository, installations InstallationRepository, inspections InspectionReferences, clock func() time.Time) AddressService {
	return &addressService{repo: repo, customers: customers, installations: installations, inspections: inspections, clock: clock}
}

func (s *addressService) List(ctx context.Context, ownerID, customerID string) ([]domain.Address, error) {
	if _, err := loadCustomer(ctx, s.customers, ownerID, customerID); err != nil {
		return nil, err
	}
	return s.repo.FindByCustomer(ctx, customerID)
}

func (s *addressService) Detail(ctx context.Context, ownerID, id string) (*domain.Address, error) {
	return loadAddress(ctx, s.repo, ownerID, id)
}

func (s *addressService) Create(ctx context.Context, cmd CreateAddressCommand) (*domain.Address, error) {
	if _, err := loadCustomer(ctx, s.customers, cmd.OwnerID, cmd.CustomerID); err != nil {
		return nil, err
	}
	address, err := domain.NewAddress(cmd.OwnerID, cmd.CustomerID, cmd.Street, cmd.PostalCode, cmd.City)
	if err != nil {
		return nil, err
	}
	address.CreatedAt = s.clock()
	address.UpdatedAt = address.CreatedAt
	if err := s.repo.Create(ctx, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

func (s *addressService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := loadAddress(ctx, s.repo, ownerID, id); err != nil {
		return err
	}
	if err := refuseChildren(s.installations.CountByAddress(ctx, id)); err != nil {
		return err
	}
	if s.inspections != nil {
		if err := refuseChildren(s.inspections.CountByAddress(ctx, id)); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, id)
}

type installationService struct {
	repo        InstallationRepository
	addresses   AddressRepository
	inspections InspectionReferences
	clock       func() time.Time
}

func NewInstallationService(repo InstallationRepository, addresses AddressRepository, inspections InspectionReferences, clock func() time.Time) InstallationService {
	return &installationService{repo: repo, addresses: addresses, inspections: inspections, clock: clock}
}

func (s *installationService) List(ctx context.Context, ownerID, addressID string) ([]domain.Installation, error) {
	if _, err := loadAddress(ctx, s.addresses, ownerID, addressID); err != nil {
		return nil, err
	}
	return s.repo.FindByAddress(ctx, addressID)
}

func (s *installationService) Detail(ctx context.Context, ownerID, id string) (*domain.Installation, error) {
	return loadInstallation(ctx, s.repo, ownerID, id)
}

func (s *installationService) Create(ctx context.Context, cmd CreateInstallationCommand) (*domain.Installation, error) {
	if _, err := loadAddress(ctx, s.addresses, cmd.OwnerID, cmd.AddressID); err != nil {
		return nil, err
	}
	inst, err := domain.NewInstallation(cmd.OwnerID, cmd.AddressID, cmd.Name, cmd.Kind, cmd.Description)
	if err != nil {
		return nil, err
	}
	inst.CreatedAt = s.clock()
	inst.UpdatedAt = inst.CreatedAt
	if err := s.repo.Create(ctx, &inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

func (s *installationService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.Detail(ctx, ownerID, id); err != nil {
		return err
	}
	if s.inspections != nil {
		if err := refuseChildren(s.inspections.CountByInstallation(ctx, id)); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, id)
}

// refuseChildren turns a positive child count into ErrHasChildren.
func refuseChildren(n int64, err error) error {
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrHasChildren
	}
	return nil
}

func loadCustomer(ctx context.Context, repo CustomerRepository, ownerID, id string) (*domain.Customer, error) {
	customer, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return customer, nil
}

func loadInstallation(ctx context.Context, repo InstallationRepository, ownerID, id string) (*domain.Installation, error) {
	inst, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inst.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return inst, nil
}

func loadAddress(ctx context.Context, repo AddressRepository, ownerID, id string) (*domain.Address, error) {
	address, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if address.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return address, nil
}
