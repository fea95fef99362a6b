package checklist

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	checklistapp "github.com/elkontrol/inspections/api/internal/checklist/application"
	"github.com/elkontrol/inspections/api/internal/checklist/domain"
	"github.com/elkontrol/inspections/api/internal/interfaces/http/common"
)

func (h *Handler) itemUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}
		var req itemUpdateRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.BadRequest(h.logger, w, "Forespørgslen har et ugyldigt format")
			return
		}
		if req.Label == nil && req.Value == nil && req.Notes == nil {
			common.BadRequest(h.logger, w, "Angiv mindst ét af felterne value, notes eller label")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := idParam(r)
		ref := itemRefParam(r)
		cmd := checklistapp.UpdateItemCommand{Label: req.Label, Notes: req.Notes}
		if req.Value != nil {
			// The wire shape of a value depends on the item type.
			in, err := h.inspections.Detail(ctx, user.ID, id)
			if err != nil {
				common.WriteError(h.logger, w, err, "Punktet kunne ikke gemmes")
				return
			}
			if in.IsCompleted() {
				common.WriteError(h.logger, w, domain.ErrFrozen, "")
				return
			}
			item, found := in.Item(ref)
			if !found {
				common.WriteError(h.logger, w, &domain.ItemError{Err: domain.ErrInvalidTarget, Ref: ref, Detail: "item not found"}, "")
				return
			}
			value, err := valueFromJSON(item.Type, req.Value)
			if err != nil {
				common.WriteError(h.logger, w, &domain.ItemError{Err: domain.ErrInvalidValue, Ref: ref, Detail: err.Error()}, "")
				return
			}
			cmd.Value = value
		}

		in, err := h.inspections.UpdateItem(ctx, user.ID, id, ref, cmd)
		if err != nil {
			common.WriteError(h.logger, w, err, "Punktet kunne ikke gemmes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, inspectionDomainToResponse(*in))
	}
}

func (h *Handler) itemAddHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}
		var req itemSpecRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.BadRequest(h.logger, w, "Forespørgslen har et ugyldigt format")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sectionID := strings.TrimSpace(chi.URLParam(r, "sectionId"))
		in, item, err := h.inspections.AddItem(ctx, user.ID, idParam(r), sectionID, req.input())
		if err != nil {
			common.WriteError(h.logger, w, err, "Punktet kunne ikke tilføjes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, map[string]any{
			"item":       itemDomainToResponse(*item),
			"inspection": inspectionDomainToResponse(*in),
		})
	}
}

func (h *Handler) itemRemoveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		in, err := h.inspections.RemoveItem(ctx, user.ID, idParam(r), itemRefParam(r))
		if err != nil {
			common.WriteError(h.logger, w, err, "Punktet kunne ikke fjernes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, inspectionDomainToResponse(*in))
	}
}

func (h *Handler) attachmentUploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
		file, header, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				common.WriteJSON(h.logger, w, http.StatusRequestEntityTooLarge, common.ErrorResponse{Error: "Billedet er for stort", Code: "too_large"})
				return
			}
			common.BadRequest(h.logger, w, "Vedhæft et billede i feltet \"file\"")
			return
		}
		defer file.Close()

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		in, att, err := h.attachments.Upload(ctx, user.ID, idParam(r), itemRefParam(r), checklistapp.UploadCommand{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		})
		if err != nil {
			common.WriteError(h.logger, w, err, "Billedet kunne ikke gemmes")
			return
		}
		h.logger.Info("attachment uploaded",
			zap.String("inspectionId", in.ID),
			zap.String("attachmentId", att.ID),
			zap.Int64("size", att.Size),
		)
		common.WriteJSON(h.logger, w, http.StatusCreated, map[string]any{
			"attachment": attachmentDomainToResponse(*att),
			"inspection": inspectionDomainToResponse(*in),
		})
	}
}

func (h *Handler) attachmentRemoveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		attachmentID := strings.TrimSpace(chi.URLParam(r, "attachmentId"))
		in, err := h.attachments.Remove(ctx, user.ID, idParam(r), itemRefParam(r), attachmentID)
		if err != nil {
			common.WriteError(h.logger, w, err, "Billedet kunne ikke fjernes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, inspectionDomainToResponse(*in))
	}
}
