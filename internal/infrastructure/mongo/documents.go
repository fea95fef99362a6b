package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateDocument is the stored shape of a checklist template.
type TemplateDocument struct {
	ID          primitive.ObjectID        `bson:"_id"`
	OwnerID     string                    `bson:"ownerId"`
	Name        string                    `bson:"name"`
	Description string                    `bson:"description,omitempty"`
	Sections    []TemplateSectionDocument `bson:"sections"`
	CreatedAt   time.Time                 `bson:"createdAt"`
	UpdatedAt   time.Time                 `bson:"updatedAt"`
}

type TemplateSectionDocument struct {
	ID    string             `bson:"id"`
	Title string             `bson:"title"`
	Items []ItemSpecDocument `bson:"items"`
}

type ItemSpecDocument struct {
	ID          string `bson:"id"`
	Type        string `bson:"type"`
	Label       string `bson:"label"`
	Required    bool   `bson:"required"`
	AllowImages bool   `bson:"allowImages"`
}

// InspectionDocument embeds the whole checklist tree; writes replace the document.
type InspectionDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	OwnerID        string             `bson:"ownerId"`
	Name           string             `bson:"name"`
	CustomerID     string             `bson:"customerId,omitempty"`
	AddressID      string             `bson:"addressId,omitempty"`
	InstallationID string             `bson:"installationId,omitempty"`
	Status         string             `bson:"status"`
	Sections       []SectionDocument  `bson:"sections"`
	CompletedAt    *time.Time         `bson:"completedAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

type SectionDocument struct {
	ID           string         `bson:"id"`
	Title        string         `bson:"title"`
	TemplateID   string         `bson:"templateId,omitempty"`
	TemplateName string         `bson:"templateName,omitempty"`
	Items        []ItemDocument `bson:"items"`
}

// ItemDocument stores the answer untyped: null, "Ja" or "Nej" for yesno,
// a boolean for checkbox, a string for text and null for headers.
type ItemDocument struct {
	ID          string               `bson:"id"`
	Type        string               `bson:"type"`
	Label       string               `bson:"label"`
	Required    bool                 `bson:"required"`
	AllowImages bool                 `bson:"allowImages"`
	Value       any                  `bson:"value"`
	Notes       string               `bson:"notes,omitempty"`
	Images      []AttachmentDocument `bson:"images"`
}

type AttachmentDocument struct {
	ID          string    `bson:"id"`
	URL         string    `bson:"url"`
	Path        string    `bson:"path,omitempty"`
	Name        string    `bson:"name"`
	ContentType string    `bson:"type"`
	Size        int64     `bson:"size"`
	UploadedAt  time.Time `bson:"uploadedAt"`
}

type CustomerDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	OwnerID   string             `bson:"ownerId"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email,omitempty"`
	Phone     string             `bson:"phone,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type AddressDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	OwnerID    string             `bson:"ownerId"`
	CustomerID primitive.ObjectID `bson:"customerId"`
	Street     string             `bson:"street"`
	PostalCode string             `bson:"postalCode,omitempty"`
	City       string             `bson:"city,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

type InstallationDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	OwnerID     string             `bson:"ownerId"`
	AddressID   primitive.ObjectID `bson:"addressId"`
	Name        string             `bson:"name"`
	Kind        string             `bson:"kind,omitempty"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}
