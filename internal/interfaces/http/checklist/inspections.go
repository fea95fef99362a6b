package checklist

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	checklistapp "github.com/elkontrol/inspections/api/internal/checklist/application"
	"github.com/elkontrol/inspections/api/internal/checklist/domain"
	"github.com/elkontrol/inspections/api/internal/interfaces/http/common"
)

func (h *Handler) inspectionListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}

		query := r.URL.Query()
		filter := checklistapp.InspectionFilter{
			OwnerID:        user.ID,
			CustomerID:     strings.TrimSpace(query.Get("customerId")),
			AddressID:      strings.TrimSpace(query.Get("addressId")),
			InstallationID: strings.TrimSpace(query.Get("installationId")),
			Keyword:        strings.TrimSpace(query.Get("keyword")),
		}
		if raw := strings.TrimSpace(query.Get("status")); raw != "" {
			status, err := domain.NewStatus(raw)
			if err != nil {
				common.BadRequest(h.logger, w, "Ugyldig status: "+raw)
				return
			}
			filter.Status = status
		}
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)
		limit, _ := common.ParsePositiveInt(query.Get("limit"), common.DefaultPageLimit)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		inspections, err := h.inspections.List(ctx, filter, checklistapp.Paging{Page: page, Limit: limit})
		if err != nil {
			common.WriteError(h.logger, w, err, "Inspektionerne kunne ikke hentes")
			return
		}

		items := make([]inspectionResponse, 0, len(inspections))
		for _, in := range inspections {
			items = append(items, inspectionDomainToResponse(in))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items, "page": page, "limit": limit})
	}
}

func (h *Handler) inspectionDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		in, err := h.inspections.Detail(ctx, user.ID, idParam(r))
		if err != nil {
			common.WriteError(h.logger, w, err, "Inspektionen kunne ikke hentes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, inspectionDomainToResponse(*in))
	}
}

func (h *Handler) inspectionCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}
		var req inspectionCreateRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.BadRequest(h.logger, w, "Forespørgslen har et ugyldigt format")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		in, err := h.inspections.Create(ctx, checklistapp.CreateInspectionCommand{
			Inspection: domain.NewInspection{
				Name:           req.Name,
				OwnerID:        user.ID,
				CustomerID:     req.CustomerID,
				AddressID:      req.AddressID,
				InstallationID: req.InstallationID,
			},
			TemplateIDs: req.TemplateIDs,
		})
		if err != nil {
			common.WriteError(h.logger, w, err, "Inspektionen kunne ikke oprettes")
			return
		}
		h.logger.Info("inspection created",
			zap.String("inspectionId", in.ID),
			zap.String("ownerId", user.ID),
			zap.Int("templates", len(req.TemplateIDs)),
		)
		common.WriteJSON(h.logger, w, http.StatusCreated, inspectionDomainToResponse(*in))
	}
}

func (h *Handler) inspectionDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.inspections.Delete(ctx, user.ID, idParam(r)); err != nil {
			common.WriteError(h.logger, w, err, "Inspektionen kunne ikke slettes")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) inspectionCompleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		in, err := h.inspections.Complete(ctx, user.ID, idParam(r))
		if err != nil {
			common.WriteError(h.logger, w, err, "Inspektionen kunne ikke afsluttes")
			return
		}
		h.logger.Info("inspection completed", zap.String("inspectionId", in.ID))
		common.WriteJSON(h.logger, w, http.StatusOK, inspectionDomainToResponse(*in))
	}
}

func (h *Handler) deriveTemplateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}
		var req deriveRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.BadRequest(h.logger, w, "Forespørgslen har et ugyldigt format")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		tpl, err := h.inspections.DeriveTemplate(ctx, user.ID, idParam(r), req.Name)
		if err != nil {
			common.WriteError(h.logger, w, err, "Skabelonen kunne ikke afledes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, templateDomainToResponse(*tpl))
	}
}

func (h *Handler) reportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireOwner(w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		id := idParam(r)
		pdf, err := h.reports.Report(ctx, user.ID, inspectorName(user), id)
		if err != nil {
			common.WriteError(h.logger, w, err, "Rapporten kunne ikke dannes")
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `inline; filename="inspektion-`+id+`.pdf"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(pdf); err != nil {
			h.logger.Warn("failed to write report", zap.String("inspectionId", id), zap.Error(err))
		}
	}
}
