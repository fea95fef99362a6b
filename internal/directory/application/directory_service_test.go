package application

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checklistapp "github.com/elkontrol/inspections/api/internal/checklist/application"
	checklistdomain "github.com/elkontrol/inspections/api/internal/checklist/domain"
	"github.com/elkontrol/inspections/api/internal/directory/domain"
)

var now = time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

type memDirectory struct {
	customers     map[string]domain.Customer
	addresses     map[string]domain.Address
	installations map[string]domain.Installation
	inspections   []checklistapp.DirectoryRefs
	seq           int
}

func newMemDirectory() *memDirectory {
	return &memDirectory{
		customers:     map[string]domain.Customer{},
		addresses:     map[string]domain.Address{},
		installations: map[string]domain.Installation{},
	}
}

func (m *memDirectory) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

type customerRepo struct{ *memDirectory }

func (r customerRepo) Find(_ context.Context, filter CustomerFilter, _ Paging) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, c := range r.customers {
		if c.OwnerID == filter.OwnerID && strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Keyword)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r customerRepo) FindByID(_ context.Context, id string) (*domain.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r customerRepo) Create(_ context.Context, c *domain.Customer) error {
	c.ID = r.nextID("cus")
	r.customers[c.ID] = *c
	return nil
}

func (r customerRepo) Delete(_ context.Context, id string) error {
	delete(r.customers, id)
	return nil
}

type addressRepo struct{ *memDirectory }

func (r addressRepo) FindByCustomer(_ context.Context, customerID string) ([]domain.Address, error) {
	var out []domain.Address
	for _, a := range r.addresses {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r addressRepo) FindByID(_ context.Context, id string) (*domain.Address, error) {
	a, ok := r.addresses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r addressRepo) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	list, _ := r.FindByCustomer(ctx, customerID)
	return int64(len(list)), nil
}

func (r addressRepo) Create(_ context.Context, a *domain.Address) error {
	a.ID = r.nextID("adr")
	r.addresses[a.ID] = *a
	return nil
}

func (r addressRepo) Delete(_ context.Context, id string) error {
	delete(r.addresses, id)
	return nil
}

type installationRepo struct{ *memDirectory }

func (r installationRepo) FindByAddress(_ context.Context, addressID string) ([]domain.Installation, error) {
	var out []domain.Installation
	for _, i := range r.installations {
		if i.AddressID == addressID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r installationRepo) FindByID(_ context.Context, id string) (*domain.Installation, error) {
	i, ok := r.installations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &i, nil
}

func (r installationRepo) CountByAddress(ctx context.Context, addressID string) (int64, error) {
	list, _ := r.FindByAddress(ctx, addressID)
	return int64(len(list)), nil
}

func (r installationRepo) Create(_ context.Context, i *domain.Installation) error {
	i.ID = r.nextID("ins")
	r.installations[i.ID] = *i
	return nil
}

func (r installationRepo) Delete(_ context.Context, id string) error {
	delete(r.installations, id)
	return nil
}

type inspectionCounts struct{ *memDirectory }

func (r inspectionCounts) count(match func(checklistapp.DirectoryRefs) bool) (int64, error) {
	var n int64
	for _, refs := range r.inspections {
		if match(refs) {
			n++
		}
	}
	return n, nil
}

func (r inspectionCounts) CountByCustomer(_ context.Context, id string) (int64, error) {
	return r.count(func(refs checklistapp.DirectoryRefs) bool { return refs.CustomerID == id })
}

func (r inspectionCounts) CountByAddress(_ context.Context, id string) (int64, error) {
	return r.count(func(refs checklistapp.DirectoryRefs) bool { return refs.AddressID == id })
}

func (r inspectionCounts) CountByInstallation(_ context.Context, id string) (int64, error) {
	return r.count(func(refs checklistapp.DirectoryRefs) bool { return refs.InstallationID == id })
}

type services struct {
	customers     CustomerService
	addresses     AddressService
	installations InstallationService
	mem           *memDirectory
}

func newServices() services {
	mem := newMemDirectory()
	customers, addresses, installations := customerRepo{mem}, addressRepo{mem}, installationRepo{mem}
	inspections := inspectionCounts{mem}
	return services{
		customers:     NewCustomerService(customers, addresses, inspections, clock),
		addresses:     NewAddressService(addresses, customers, installations, inspections, clock),
		installations: NewInstallationService(installations, addresses, inspections, clock),
		mem:           mem,
	}
}

func TestDirectoryHierarchy(t *testing.T) {
	ctx := context.Background()
	svc := newServices()

	customer, err := svc.customers.Create(ctx, CreateCustomerCommand{OwnerID: "u1", Name: "Hansen ApS", Email: "kontor@hansen.dk"})
	require.NoError(t, err)
	assert.Equal(t, now, customer.CreatedAt)

	address, err := svc.addresses.Create(ctx, CreateAddressCommand{OwnerID: "u1", CustomerID: customer.ID, Street: "Vestergade 1", PostalCode: "8000", City: "Aarhus C"})
	require.NoError(t, err)

	inst, err := svc.installations.Create(ctx, CreateInstallationCommand{OwnerID: "u1", AddressID: address.ID, Name: "Hovedtavle"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.customers.Delete(ctx, "u1", customer.ID), domain.ErrHasChildren)
	assert.ErrorIs(t, svc.addresses.Delete(ctx, "u1", address.ID), domain.ErrHasChildren)

	require.NoError(t, svc.installations.Delete(ctx, "u1", inst.ID))
	require.NoError(t, svc.addresses.Delete(ctx, "u1", address.ID))
	require.NoError(t, svc.customers.Delete(ctx, "u1", customer.ID))
	assert.Empty(t, svc.mem.customers)
}

func TestDirectoryOwnerScope(t *testing.T) {
	ctx := context.Background()
	svc := newServices()

	customer, err := svc.customers.Create(ctx, CreateCustomerCommand{OwnerID: "u1", Name: "Hansen"})
	require.NoError(t, err)

	_, err = svc.customers.Detail(ctx, "u2", customer.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.addresses.Create(ctx, CreateAddressCommand{OwnerID: "u2", CustomerID: customer.ID, Street: "Torvet 2"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.addresses.List(ctx, "u2", customer.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.customers.List(ctx, CustomerFilter{OwnerID: "u1", Keyword: "han"}, Paging{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReportHeaders(t *testing.T) {
	ctx := context.Background()
	svc := newServices()
	customer, err := svc.customers.Create(ctx, CreateCustomerCommand{OwnerID: "u1", Name: "Hansen ApS"})
	require.NoError(t, err)
	address, err := svc.addresses.Create(ctx, CreateAddressCommand{OwnerID: "u1", CustomerID: customer.ID, Street: "Vestergade 1", PostalCode: "8000", City: "Aarhus C"})
	require.NoError(t, err)

	headers := NewReportHeaders(customerRepo{svc.mem}, addressRepo{svc.mem}, installationRepo{svc.mem})
	header, err := headers.Resolve(ctx, "u1", checklistdomain.Inspection{
		CustomerID:     customer.ID,
		AddressID:      address.ID,
		InstallationID: "ins-gone",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hansen ApS", header.Customer)
	assert.Equal(t, "Vestergade 1, 8000 Aarhus C", header.Address)
	assert.Empty(t, header.Installation)

	header, err = headers.Resolve(ctx, "u2", checklistdomain.Inspection{CustomerID: customer.ID})
	require.NoError(t, err)
	assert.Empty(t, header.Customer, "foreign entries are never printed")
}

// directoryChain creates one customer, address and installation for u1.
func directoryChain(t *testing.T, svc services, name string) (*domain.Customer, *domain.Address, *domain.Installation) {
	t.Helper()
	ctx := context.Background()
	customer, err := svc.customers.Create(ctx, CreateCustomerCommand{OwnerID: "u1", Name: name})
	require.NoError(t, err)
	address, err := svc.addresses.Create(ctx, CreateAddressCommand{OwnerID: "u1", CustomerID: customer.ID, Street: name + "vej 1"})
	require.NoError(t, err)
	inst, err := svc.installations.Create(ctx, CreateInstallationCommand{OwnerID: "u1", AddressID: address.ID, Name: "Tavle"})
	require.NoError(t, err)
	return customer, address, inst
}

func TestDeleteRefusedWhileInspectionsReferToEntry(t *testing.T) {
	ctx := context.Background()
	svc := newServices()
	customer, address, inst := directoryChain(t, svc, "Hansen")
	svc.mem.inspections = []checklistapp.DirectoryRefs{{CustomerID: customer.ID, AddressID: address.ID, InstallationID: inst.ID}}

	assert.ErrorIs(t, svc.installations.Delete(ctx, "u1", inst.ID), domain.ErrHasChildren)
	assert.Contains(t, svc.mem.installations, inst.ID)

	svc.mem.inspections = []checklistapp.DirectoryRefs{{CustomerID: customer.ID, AddressID: address.ID}}
	require.NoError(t, svc.installations.Delete(ctx, "u1", inst.ID))
	assert.ErrorIs(t, svc.addresses.Delete(ctx, "u1", address.ID), domain.ErrHasChildren)

	svc.mem.inspections = []checklistapp.DirectoryRefs{{CustomerID: customer.ID}}
	require.NoError(t, svc.addresses.Delete(ctx, "u1", address.ID))
	assert.ErrorIs(t, svc.customers.Delete(ctx, "u1", customer.ID), domain.ErrHasChildren)

	svc.mem.inspections = nil
	require.NoError(t, svc.customers.Delete(ctx, "u1", customer.ID))
}

func TestInspectionRefsCheck(t *testing.T) {
	ctx := context.Background()
	svc := newServices()
	customer, address, inst := directoryChain(t, svc, "Hansen")
	otherCustomer, otherAddress, otherInst := directoryChain(t, svc, "Jensen")
	foreign, err := svc.customers.Create(ctx, CreateCustomerCommand{OwnerID: "u2", Name: "Fremmed"})
	require.NoError(t, err)

	refs := NewInspectionRefs(customerRepo{svc.mem}, addressRepo{svc.mem}, installationRepo{svc.mem})

	valid := []checklistapp.DirectoryRefs{
		{},
		{CustomerID: customer.ID},
		{CustomerID: customer.ID, AddressID: address.ID, InstallationID: inst.ID},
		{CustomerID: customer.ID, InstallationID: inst.ID},
		{AddressID: otherAddress.ID, InstallationID: otherInst.ID},
	}
	for _, r := range valid {
		assert.NoError(t, refs.Check(ctx, "u1", r), "%+v", r)
	}

	invalid := map[string]checklistapp.DirectoryRefs{
		"foreign customer":               {CustomerID: foreign.ID},
		"missing address":                {AddressID: "no-such-address"},
		"missing installation":           {InstallationID: "ghost"},
		"address of other customer":      {CustomerID: customer.ID, AddressID: otherAddress.ID},
		"installation elsewhere":         {AddressID: address.ID, InstallationID: otherInst.ID},
		"installation of other customer": {CustomerID: otherCustomer.ID, InstallationID: inst.ID},
	}
	for name, r := range invalid {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, refs.Check(ctx, "u1", r), checklistapp.ErrInvalidReference)
		})
	}

	assert.ErrorIs(t, refs.Check(ctx, "u2", checklistapp.DirectoryRefs{CustomerID: customer.ID}), checklistapp.ErrInvalidReference)
}
