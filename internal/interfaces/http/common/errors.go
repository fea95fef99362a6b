package common

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	checklistapp "github.com/elkontrol/inspections/api/internal/checklist/application"
	checklist "github.com/elkontrol/inspections/api/internal/checklist/domain"
	directoryapp "github.com/elkontrol/inspections/api/internal/directory/application"
	directory "github.com/elkontrol/inspections/api/internal/directory/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string        `json:"error"`
	Code      string        `json:"code"`
	Detail    string        `json:"detail,omitempty"`
	SectionID string        `json:"sectionId,omitempty"`
	ItemID    string        `json:"itemId,omitempty"`
	Missing   []ItemRefJSON `json:"missing,omitempty"`
}

// ItemRefJSON addresses an item in responses.
type ItemRefJSON struct {
	SectionID string `json:"sectionId"`
	ItemID    string `json:"itemId"`
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{checklist.ErrIncompleteRequiredFields, http.StatusUnprocessableEntity, "incomplete_required_fields", "Inspektionen mangler obligatoriske felter"},
	{checklist.ErrInvalidTarget, http.StatusNotFound, "invalid_target", "Sektion eller punkt findes ikke"},
	{checklist.ErrNotFound, http.StatusNotFound, "not_found", "Vedhæftningen findes ikke"},
	{checklistapp.ErrNotFound, http.StatusNotFound, "not_found", "Dokumentet findes ikke"},
	{directoryapp.ErrNotFound, http.StatusNotFound, "not_found", "Posten findes ikke"},
	{checklist.ErrFrozen, http.StatusConflict, "frozen", "Inspektionen er afsluttet og kan ikke ændres"},
	{checklist.ErrAlreadyCompleted, http.StatusConflict, "already_completed", "Inspektionen er allerede afsluttet"},
	{checklistapp.ErrNotCompleted, http.StatusConflict, "not_completed", "Rapporten kan først hentes når inspektionen er afsluttet"},
	{directory.ErrHasChildren, http.StatusConflict, "has_children", "Posten kan ikke slettes, da den stadig bruges"},
	{checklist.ErrNotAllowed, http.StatusBadRequest, "not_allowed", "Handlingen er ikke tilladt for dette punkt"},
	{checklist.ErrInvalidValue, http.StatusBadRequest, "invalid_value", "Ugyldig værdi"},
	{checklist.ErrInvalidTemplate, http.StatusBadRequest, "invalid_template", "Ugyldig skabelon"},
	{checklist.ErrNoTemplatesSelected, http.StatusBadRequest, "no_templates_selected", "Vælg mindst én skabelon"},
	{checklist.ErrEmptyInspection, http.StatusBadRequest, "empty_inspection", "De valgte skabeloner indeholder ingen sektioner"},
	{checklistapp.ErrInvalidReference, http.StatusBadRequest, "invalid_reference", "Kunde, adresse eller installation findes ikke eller hænger ikke sammen"},
	{directory.ErrInvalid, http.StatusBadRequest, "invalid", "Ugyldige oplysninger"},
}

// WriteError maps err onto a status and a Danish message. Unknown errors are
// logged and answered with 500 and fallback.
func WriteError(logger *zap.Logger, w http.ResponseWriter, err error, fallback string) {
	status, body := ErrorBody(err, fallback)
	if status == http.StatusInternalServerError && logger != nil {
		logger.Error(fallback, zap.Error(err))
	}
	WriteJSON(logger, w, status, body)
}

// ErrorBody builds the response WriteError would send.
func ErrorBody(err error, fallback string) (int, ErrorResponse) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		body := ErrorResponse{Error: m.message, Code: m.code, Detail: detail(err)}

		var itemErr *checklist.ItemError
		if errors.As(err, &itemErr) {
			body.SectionID = itemErr.Ref.SectionID
			body.ItemID = itemErr.Ref.ItemID
		}
		var incomplete *checklist.IncompleteError
		if errors.As(err, &incomplete) {
			body.Missing = make([]ItemRefJSON, 0, len(incomplete.Missing))
			for _, ref := range incomplete.Missing {
				body.Missing = append(body.Missing, ItemRefJSON{SectionID: ref.SectionID, ItemID: ref.ItemID})
			}
		}
		return m.status, body
	}
	return http.StatusInternalServerError, ErrorResponse{Error: fallback, Code: "internal"}
}

func detail(err error) string {
	var itemErr *checklist.ItemError
	if errors.As(err, &itemErr) {
		return itemErr.Detail
	}
	var tplErr *checklist.TemplateError
	if errors.As(err, &tplErr) {
		return tplErr.Reason
	}
	for _, prefixed := range []error{checklistapp.ErrInvalidReference, directory.ErrInvalid} {
		if errors.Is(err, prefixed) {
			return strings.TrimPrefix(err.Error(), prefixed.Error()+": ")
		}
	}
	return ""
}

// BadRequest answers a malformed request.
func BadRequest(logger *zap.Logger, w http.ResponseWriter, message string) {
	WriteJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: message, Code: "bad_request"})
}
