package application

import (
	"context"
	"errors"
	"strings"

	checklistapp "github.com/elkontrol/inspections/api/internal/checklist/application"
	checklistdomain "github.com/elkontrol/inspections/api/internal/checklist/domain"
)

type reportHeaders struct {
	customers     CustomerRepository
	addresses     AddressRepository
	installations InstallationRepository
}

// NewReportHeaders resolves the directory names printed on inspection reports.
// References that no longer resolve are printed blank.
func NewReportHeaders(customers CustomerRepository, addresses AddressRepository, installations InstallationRepository) checklistapp.HeaderResolver {
	return &reportHeaders{customers: customers, addresses: addresses, installations: installations}
}

func (r *reportHeaders) Resolve(ctx context.Context, ownerID string, in checklistdomain.Inspection) (checklistapp.ReportHeader, error) {
	var header checklistapp.ReportHeader
	if id := strings.TrimSpace(in.CustomerID); id != "" {
		customer, err := loadCustomer(ctx, r.customers, ownerID, id)
		if err = ignoreMissing(err); err != nil {
			return header, err
		}
		if customer != nil {
			header.Customer = customer.Name
		}
	}
	if id := strings.TrimSpace(in.AddressID); id != "" {
		address, err := loadAddress(ctx, r.addresses, ownerID, id)
		if err = ignoreMissing(err); err != nil {
			return header, err
		}
		if address != nil {
			header.Address = address.Line()
		}
	}
	if id := strings.TrimSpace(in.InstallationID); id != "" {
		inst, err := r.installations.FindByID(ctx, id)
		if err = ignoreMissing(err); err != nil {
			return header, err
		}
		if inst != nil && inst.OwnerID == ownerID {
			header.Installation = inst.Name
		}
	}
	return header, nil
}

func ignoreMissing(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
