// Package directory exposes customers, their addresses and the installations
// at those addresses.
package directory

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	directoryapp "github.com/elkontrol/inspections/api/internal/directory/application"
	"github.com/elkontrol/inspections/api/internal/directory/domain"
	"github.com/elkontrol/inspections/api/internal/interfaces/http/common"
)

// Handler wires directory endpoints to application services.
type Handler struct {
	logger        *zap.Logger
	customers     directoryapp.CustomerService
	addresses     directoryapp.AddressService
	installations directoryapp.InstallationService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger        *zap.Logger
	Customers     directoryapp.CustomerService
	Addresses     directoryapp.AddressService
	Installations directoryapp.InstallationService
}

func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		logger:        logger,
		customers:     cfg.Customers,
		addresses:     cfg.Addresses,
		installations: cfg.Installations,
	}
}

// Register mounts directory routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/customers", h.customerListHandler())
	r.Post("/customers", h.customerCreateHandler())
	r.Get("/customers/{id}", h.customerDetailHandler())
	r.Delete("/customers/{id}", h.customerDeleteHandler())

	r.Get("/customers/{id}/addresses", h.addressListHandler())
	r.Post("/customers/{id}/addresses", h.addressCreateHandler())
	r.Get("/addresses/{id}", h.addressDetailHandler())
	r.Delete("/addresses/{id}", h.addressDeleteHandler())

	r.Get("/addresses/{id}/installations", h.installationListHandler())
	r.Post("/addresses/{id}/installations", h.installationCreateHandler())
	r.Get("/installations/{id}", h.installationDetailHandler())
	r.Delete("/installations/{id}", h.installationDeleteHandler())
}

type customerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type addressRequest struct {
	Street     string `json:"street"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
}

type installationRequest struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

type customerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type addressResponse struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	Street     string    `json:"street"`
	PostalCode string    `json:"postalCode,omitempty"`
	City       string    `json:"city,omitempty"`
	Line       string    `json:"line"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type installationResponse struct {
	ID          string    `json:"id"`
	AddressID   string    `json:"addressId"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func customerToResponse(c domain.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email.String(),
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func addressToResponse(a domain.Address) addressResponse {
	return addressResponse{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		Street:     a.Street,
		PostalCode: a.PostalCode,
		City:       a.City,
		Line:       a.Line(),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func installationToResponse(i domain.Installation) installationResponse {
	return installationResponse{
		ID:          i.ID,
		AddressID:   i.AddressID,
		Name:        i.Name,
		Kind:        i.Kind,
		Description: i.Description,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func idParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

func (h *Handler) customerListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}
		query := r.URL.Query()
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)
		limit, _ := common.ParsePositiveInt(query.Get("limit"), common.DefaultPageLimit)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		customers, err := h.customers.List(ctx,
			directoryapp.CustomerFilter{OwnerID: user.ID, Keyword: strings.TrimSpace(query.Get("keyword"))},
			directoryapp.Paging{Page: page, Limit: limit},
		)
		if err != nil {
			common.WriteError(h.logger, w, err, "Kunderne kunne ikke hentes")
			return
		}
		items := make([]customerResponse, 0, len(customers))
		for _, c := range customers {
			items = append(items, customerToResponse(c))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) customerCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}
		var req customerRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.BadRequest(h.logger, w, "Forespørgslen har et ugyldigt format")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		customer, err := h.customers.Create(ctx, directoryapp.CreateCustomerCommand{
			OwnerID: user.ID,
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
		})
		if err != nil {
			common.WriteError(h.logger, w, err, "Kunden kunne ikke oprettes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, customerToResponse(*customer))
	}
}

func (h *Handler) customerDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		customer, err := h.customers.Detail(ctx, user.ID, idParam(r))
		if err != nil {
			common.WriteError(h.logger, w, err, "Kunden kunne ikke hentes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, customerToResponse(*customer))
	}
}

func (h *Handler) customerDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.customers.Delete(ctx, user.ID, idParam(r)); err != nil {
			common.WriteError(h.logger, w, err, "Kunden kunne ikke slettes")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) addressListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		addresses, err := h.addresses.List(ctx, user.ID, idParam(r))
		if err != nil {
			common.WriteError(h.logger, w, err, "Adresserne kunne ikke hentes")
			return
		}
		items := make([]addressResponse, 0, len(addresses))
		for _, a := range addresses {
			items = append(items, addressToResponse(a))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) addressCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}
		var req addressRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.BadRequest(h.logger, w, "Forespørgslen har et ugyldigt format")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		address, err := h.addresses.Create(ctx, directoryapp.CreateAddressCommand{
			OwnerID:    user.ID,
			CustomerID: idParam(r),
			Street:     req.Street,
			PostalCode: req.PostalCode,
			City:       req.City,
		})
		if err != nil {
			common.WriteError(h.logger, w, err, "Adressen kunne ikke oprettes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, addressToResponse(*address))
	}
}

func (h *Handler) addressDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		address, err := h.addresses.Detail(ctx, user.ID, idParam(r))
		if err != nil {
			common.WriteError(h.logger, w, err, "Adressen kunne ikke hentes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, addressToResponse(*address))
	}
}

func (h *Handler) addressDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.addresses.Delete(ctx, user.ID, idParam(r)); err != nil {
			common.WriteError(h.logger, w, err, "Adressen kunne ikke slettes")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) installationListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		installations, err := h.installations.List(ctx, user.ID, idParam(r))
		if err != nil {
			common.WriteError(h.logger, w, err, "Installationerne kunne ikke hentes")
			return
		}
		items := make([]installationResponse, 0, len(installations))
		for _, i := range installations {
			items = append(items, installationToResponse(i))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) installationCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}
		var req installationRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.BadRequest(h.logger, w, "Forespørgslen har et ugyldigt format")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		installation, err := h.installations.Create(ctx, directoryapp.CreateInstallationCommand{
			OwnerID:     user.ID,
			AddressID:   idParam(r),
			Name:        req.Name,
			Kind:        req.Kind,
			Description: req.Description,
		})
		if err != nil {
			common.WriteError(h.logger, w, err, "Installationen kunne ikke oprettes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, installationToResponse(*installation))
	}
}

func (h *Handler) installationDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		installation, err := h.installations.Detail(ctx, user.ID, idParam(r))
		if err != nil {
			common.WriteError(h.logger, w, err, "Installationen kunne ikke hentes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, installationToResponse(*installation))
	}
}

func (h *Handler) installationDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.installations.Delete(ctx, user.ID, idParam(r)); err != nil {
			common.WriteError(h.logger, w, err, "Installationen kunne ikke slettes")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
