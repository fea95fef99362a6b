package checklist

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	checklistapp "github.com/elkontrol/inspections/api/internal/checklist/application"
)

// Handler wires template and inspection endpoints to application services.
type Handler struct {
	logger         *zap.Logger
	templates      checklistapp.TemplateService
	inspections    checklistapp.InspectionService
	attachments    checklistapp.AttachmentService
	reports        checklistapp.ReportService
	maxUploadBytes int64
}

// Config provides dependencies for Handler.
type Config struct {
	Logger         *zap.Logger
	Templates      checklistapp.TemplateService
	Inspections    checklistapp.InspectionService
	Attachments    checklistapp.AttachmentService
	Reports        checklistapp.ReportService
	MaxUploadBytes int64
}

// NewHandler constructs the checklist HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &Handler{
		logger:         logger,
		templates:      cfg.Templates,
		inspections:    cfg.Inspections,
		attachments:    cfg.Attachments,
		reports:        cfg.Reports,
		maxUploadBytes: maxUpload,
	}
}

// Register mounts checklist routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/templates", h.templateListHandler())
	r.Post("/templates", h.templateCreateHandler())
	r.Get("/templates/{id}", h.templateDetailHandler())
	r.Put("/templates/{id}", h.templateUpdateHandler())
	r.Delete("/templates/{id}", h.templateDeleteHandler())
	r.Post("/templates/{id}/sections/{sectionId}/move", h.templateSectionMoveHandler())
	r.Post("/templates/{id}/sections/{sectionId}/items/{itemId}/move", h.templateItemMoveHandler())

	r.Get("/inspections", h.inspectionListHandler())
	r.Post("/inspections", h.inspectionCreateHandler())
	r.Get("/inspections/{id}", h.inspectionDetailHandler())
	r.Delete("/inspections/{id}", h.inspectionDeleteHandler())
	r.Post("/inspections/{id}/complete", h.inspectionCompleteHandler())
	r.Post("/inspections/{id}/derive-template", h.deriveTemplateHandler())
	r.Get("/inspections/{id}/report", h.reportHandler())

	r.Post("/inspections/{id}/sections/{sectionId}/items", h.itemAddHandler())
	r.Patch("/inspections/{id}/sections/{sectionId}/items/{itemId}", h.itemUpdateHandler())
	r.Delete("/inspections/{id}/sections/{sectionId}/items/{itemId}", h.itemRemoveHandler())
	r.Post("/inspections/{id}/sections/{sectionId}/items/{itemId}/attachments", h.attachmentUploadHandler())
	r.Delete("/inspections/{id}/sections/{sectionId}/items/{itemId}/attachments/{attachmentId}", h.attachmentRemoveHandler())
}
