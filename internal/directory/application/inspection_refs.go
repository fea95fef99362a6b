package application

import (
	"context"
	"errors"
	"fmt"

	checklistapp "github.com/elkontrol/inspections/api/internal/checklist/application"
)

type inspectionRefs struct {
	customers     CustomerRepository
	addresses     AddressRepository
	installations InstallationRepository
}

// NewInspectionRefs checks the directory ids of new inspections: each entry
// must exist and belong to the caller, and the ids given must form one
// customer, address and installation chain.
func NewInspectionRefs(customers CustomerRepository, addresses AddressRepository, installations InstallationRepository) checklistapp.DirectoryReferences {
	return &inspectionRefs{customers: customers, addresses: addresses, installations: installations}
}

func (r *inspectionRefs) Check(ctx context.Context, ownerID string, refs checklistapp.DirectoryRefs) error {
	if refs.CustomerID != "" {
		if _, err := loadCustomer(ctx, r.customers, ownerID, refs.CustomerID); err != nil {
			return unknownRef("customerId", err)
		}
	}

	var addressCustomer string
	if refs.AddressID != "" {
		address, err := loadAddress(ctx, r.addresses, ownerID, refs.AddressID)
		if err != nil {
			return unknownRef("addressId", err)
		}
		addressCustomer = address.CustomerID
	}
	if refs.CustomerID != "" && refs.AddressID != "" && addressCustomer != refs.CustomerID {
		return refError("addressId", "belongs to another customer")
	}

	if refs.InstallationID == "" {
		return nil
	}
	inst, err := loadInstallation(ctx, r.installations, ownerID, refs.InstallationID)
	if err != nil {
		return unknownRef("installationId", err)
	}
	if refs.AddressID != "" {
		if inst.AddressID != refs.AddressID {
			return refError("installationId", "belongs to another address")
		}
		return nil
	}
	if refs.CustomerID != "" {
		address, err := loadAddress(ctx, r.addresses, ownerID, inst.AddressID)
		if err != nil {
			return unknownRef("installationId", err)
		}
		if address.CustomerID != refs.CustomerID {
			return refError("installationId", "belongs to another customer")
		}
	}
	return nil
}

// unknownRef reports missing and foreign entries alike.
func unknownRef(field string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return refError(field, "not found")
	}
	return err
}

func refError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", checklistapp.ErrInvalidReference, field, reason)
}
