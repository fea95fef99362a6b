package application

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/elkontrol/inspections/api/internal/checklist/domain"
)

var (
	// ErrNotFound is returned for missing documents and for documents owned by someone else.
	ErrNotFound = errors.New("document not found")
	// ErrNotCompleted is returned when a report is requested for a draft.
	ErrNotCompleted = errors.New("inspection is not completed")
	// ErrInvalidReference is returned when an inspection names a customer,
	// address or installation that is missing, foreign or outside the chain.
	ErrInvalidReference = errors.New("invalid directory reference")
)

// TemplateRepository persists checklist templates.
type TemplateRepository interface {
	FindByOwner(ctx context.Context, ownerID string, filter TemplateFilter) ([]domain.Template, error)
	FindByID(ctx context.Context, id string) (*domain.Template, error)
	Create(ctx context.Context, tpl *domain.Template) error
	Update(ctx context.Context, tpl *domain.Template) error
	Delete(ctx context.Context, id string) error
}

// InspectionRepository persists inspections. Update replaces the whole
// document; concurrent writers are last-write-wins.
type InspectionRepository interface {
	Find(ctx context.Context, filter InspectionFilter, paging Paging) ([]domain.Inspection, error)
	FindByID(ctx context.Context, id string) (*domain.Inspection, error)
	Create(ctx context.Context, in *domain.Inspection) error
	Update(ctx context.Context, in *domain.Inspection) error
	Delete(ctx context.Context, id string) error
}

// DirectoryReferences checks the customer, address and installation an
// inspection points at. Empty ids are not checked.
type DirectoryReferences interface {
	Check(ctx context.Context, ownerID string, refs DirectoryRefs) error
}

// DirectoryRefs are the directory ids stored on an inspection.
type DirectoryRefs struct {
	CustomerID     string
	AddressID      string
	InstallationID string
}

// ObjectStore keeps attachment binaries.
type ObjectStore interface {
	Put(ctx context.Context, obj Object) (StoredObject, error)
	Delete(ctx context.Context, path string) error
}

// Object is a binary about to be uploaded under Path.
type Object struct {
	Path        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// StoredObject is the outcome of a successful upload.
type StoredObject struct {
	Path string
	URL  string
}

// Clock returns the current time.
type Clock func() time.Time

// UTCClock is the production clock.
func UTCClock() time.Time {
	return time.Now().UTC()
}

// TemplateFilter expresses template search criteria.
type TemplateFilter struct {
	Keyword string
}

// InspectionFilter expresses inspection search criteria. OwnerID is mandatory.
type InspectionFilter struct {
	OwnerID        string
	CustomerID     string
	AddressID      string
	InstallationID string
	Status         domain.Status
	Keyword        string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// TemplateService describes template authoring use-cases.
type TemplateService interface {
	List(ctx context.Context, ownerID string, filter TemplateFilter) ([]domain.Template, error)
	Detail(ctx context.Context, ownerID, id string) (*domain.Template, error)
	Create(ctx context.Context, input domain.TemplateInput) (*domain.Template, error)
	Update(ctx context.Context, id string, input domain.TemplateInput) (*domain.Template, error)
	Delete(ctx context.Context, ownerID, id string) error
	MoveSection(ctx context.Context, ownerID, id, sectionID string, to int) (*domain.Template, error)
	MoveItem(ctx context.Context, ownerID, id string, ref domain.ItemRef, to int) (*domain.Template, error)
}

// InspectionService describes inspection lifecycle use-cases.
type InspectionService interface {
	List(ctx context.Context, filter InspectionFilter, paging Paging) ([]domain.Inspection, error)
	Detail(ctx context.Context, ownerID, id string) (*domain.Inspection, error)
	Create(ctx context.Context, cmd CreateInspectionCommand) (*domain.Inspection, error)
	Delete(ctx context.Context, ownerID, id string) error
	UpdateItem(ctx context.Context, ownerID, id string, ref domain.ItemRef, cmd UpdateItemCommand) (*domain.Inspection, error)
	AddItem(ctx context.Context, ownerID, id, sectionID string, input domain.ItemSpecInput) (*domain.Inspection, *domain.Item, error)
	RemoveItem(ctx context.Context, ownerID, id string, ref domain.ItemRef) (*domain.Inspection, error)
	Complete(ctx context.Context, ownerID, id string) (*domain.Inspection, error)
	DeriveTemplate(ctx context.Context, ownerID, id, name string) (*domain.Template, error)
}

// AttachmentService describes the two-phase image upload.
type AttachmentService interface {
	Upload(ctx context.Context, ownerID, id string, ref domain.ItemRef, cmd UploadCommand) (*domain.Inspection, *domain.Attachment, error)
	Remove(ctx context.Context, ownerID, id string, ref domain.ItemRef, attachmentID string) (*domain.Inspection, error)
}

// CreateInspectionCommand contains inputs for building an inspection from templates.
type CreateInspectionCommand struct {
	Inspection  domain.NewInspection
	TemplateIDs []string
}

// UpdateItemCommand changes any combination of label, value and notes.
// Nil fields are left alone.
type UpdateItemCommand struct {
	Label *string
	Value domain.Value
	Notes *string
}

// UploadCommand carries one uploaded image.
type UploadCommand struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}
