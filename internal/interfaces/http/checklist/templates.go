package checklist

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	checklistapp "github.com/elkontrol/inspections/api/internal/checklist/application"
	"github.com/elkontrol/inspections/api/internal/interfaces/http/common"
)

func (h *Handler) templateListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		filter := checklistapp.TemplateFilter{Keyword: strings.TrimSpace(r.URL.Query().Get("keyword"))}
		templates, err := h.templates.List(ctx, user.ID, filter)
		if err != nil {
			common.WriteError(h.logger, w, err, "Skabelonerne kunne ikke hentes")
			return
		}

		items := make([]templateResponse, 0, len(templates))
		for _, tpl := range templates {
			items = append(items, templateDomainToResponse(tpl))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) templateDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		tpl, err := h.templates.Detail(ctx, user.ID, idParam(r))
		if err != nil {
			common.WriteError(h.logger, w, err, "Skabelonen kunne ikke hentes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, templateDomainToResponse(*tpl))
	}
}

func (h *Handler) templateCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}
		var req templateRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.BadRequest(h.logger, w, "Forespørgslen har et ugyldigt format")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		tpl, err := h.templates.Create(ctx, req.input(user.ID))
		if err != nil {
			common.WriteError(h.logger, w, err, "Skabelonen kunne ikke oprettes")
			return
		}
		h.logger.Info("template created", zap.String("templateId", tpl.ID), zap.String("ownerId", user.ID))
		common.WriteJSON(h.logger, w, http.StatusCreated, templateDomainToResponse(*tpl))
	}
}

func (h *Handler) templateUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}
		var req templateRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.BadRequest(h.logger, w, "Forespørgslen har et ugyldigt format")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		tpl, err := h.templates.Update(ctx, idParam(r), req.input(user.ID))
		if err != nil {
			common.WriteError(h.logger, w, err, "Skabelonen kunne ikke gemmes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, templateDomainToResponse(*tpl))
	}
}

func (h *Handler) templateDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.templates.Delete(ctx, user.ID, idParam(r)); err != nil {
			common.WriteError(h.logger, w, err, "Skabelonen kunne ikke slettes")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) templateSectionMoveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}
		to, ok := h.decodeMove(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sectionID := strings.TrimSpace(chi.URLParam(r, "sectionId"))
		tpl, err := h.templates.MoveSection(ctx, user.ID, idParam(r), sectionID, to)
		if err != nil {
			common.WriteError(h.logger, w, err, "Sektionen kunne ikke flyttes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, templateDomainToResponse(*tpl))
	}
}

func (h *Handler) templateItemMoveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}
		to, ok := h.decodeMove(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		tpl, err := h.templates.MoveItem(ctx, user.ID, idParam(r), itemRefParam(r), to)
		if err != nil {
			common.WriteError(h.logger, w, err, "Punktet kunne ikke flyttes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, templateDomainToResponse(*tpl))
	}
}

func (h *Handler) decodeMove(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req moveRequest
	if err := common.DecodeJSON(w, r, &req); err != nil || req.To == nil {
		common.BadRequest(h.logger, w, "Angiv den nye position i feltet \"to\"")
		return 0, false
	}
	return *req.To, true
}
