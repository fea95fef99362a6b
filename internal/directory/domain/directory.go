package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

var (
	// ErrInvalid wraps every validation failure of a directory entry.
	ErrInvalid = errors.New("invalid directory entry")
	// ErrHasChildren refuses deleting an entry something still refers to.
	ErrHasChildren = errors.New("entry still has dependent entries")
)

// Customer is the company or person an installation belongs to.
type Customer struct {
	ID        string
	OwnerID   string
	Name      string
	Email     Email
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Address is a site of a customer.
type Address struct {
	ID         string
	OwnerID    string
	CustomerID string
	Street     string
	PostalCode string
	City       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Line renders the address the way it is printed on reports.
func (a Address) Line() string {
	city := strings.TrimSpace(a.PostalCode + " " + a.City)
	if city == "" {
		return a.Street
	}
	return a.Street + ", " + city
}

// Installation is the electrical installation an inspection is carried out on.
type Installation struct {
	ID          string
	OwnerID     string
	AddressID   string
	Name        string
	Kind        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Email string

// NewEmail accepts an empty value; a non-empty one has to parse as an address.
func NewEmail(value string) (Email, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) > 254 {
		return "", invalidf("email too long")
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", invalidf("invalid email: %v", err)
	}
	return Email(trimmed), nil
}

func (e Email) String() string {
	return string(e)
}

func NewCustomer(ownerID, name, email, phone string) (Customer, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Customer{}, invalidf("owner is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Customer{}, invalidf("customer name is required")
	}
	addr, err := NewEmail(email)
	if err != nil {
		return Customer{}, err
	}
	return Customer{
		OwnerID: strings.TrimSpace(ownerID),
		Name:    name,
		Email:   addr,
		Phone:   strings.TrimSpace(phone),
	}, nil
}

func NewAddress(ownerID, customerID, street, postalCode, city string) (Address, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Address{}, invalidf("owner is required")
	}
	if strings.TrimSpace(customerID) == "" {
		return Address{}, invalidf("customer is required")
	}
	street = strings.TrimSpace(street)
	if street == "" {
		return Address{}, invalidf("street is required")
	}
	return Address{
		OwnerID:    strings.TrimSpace(ownerID),
		CustomerID: strings.TrimSpace(customerID),
		Street:     street,
		PostalCode: strings.TrimSpace(postalCode),
		City:       strings.TrimSpace(city),
	}, nil
}

func NewInstallation(ownerID, addressID, name, kind, description string) (Installation, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Installation{}, invalidf("owner is required")
	}
	if strings.TrimSpace(addressID) == "" {
		return Installation{}, invalidf("address is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Installation{}, invalidf("installation name is required")
	}
	return Installation{
		OwnerID:     strings.TrimSpace(ownerID),
		AddressID:   strings.TrimSpace(addressID),
		Name:        name,
		Kind:        strings.TrimSpace(kind),
		Description: strings.TrimSpace(description),
	}, nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
