package checklist

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/elkontrol/inspections/api/internal/checklist/domain"
	"github.com/elkontrol/inspections/api/internal/interfaces/http/common"
)

func (h *Handler) requireOwner(w http.ResponseWriter, r *http.Request) (common.AuthenticatedUser, bool) {
	return common.RequireUser(h.logger, w, r)
}

func idParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

func itemRefParam(r *http.Request) domain.ItemRef {
	return domain.ItemRef{
		SectionID: strings.TrimSpace(chi.URLParam(r, "sectionId")),
		ItemID:    strings.TrimSpace(chi.URLParam(r, "itemId")),
	}
}

// inspectorName picks the most readable name the token carries.
func inspectorName(user common.AuthenticatedUser) string {
	for _, candidate := range []string{user.Name, user.Username, user.ID} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return ""
}
