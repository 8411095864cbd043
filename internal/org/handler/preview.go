package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rinkside/internal/org/fees"
	"rinkside/pkg/dates"
	id "rinkside/pkg/domain"
	dErrors "rinkside/pkg/domain-errors"
	"rinkside/pkg/platform/httputil"
)

// PreviewHandler serves the public resolved-fee preview, so clubs can show
// applicable fees before anyone drafts a registration.
type PreviewHandler struct {
	resolver *fees.Resolver
	logger   *slog.Logger
}

func NewPreview(resolver *fees.Resolver, logger *slog.Logger) *PreviewHandler {
	return &PreviewHandler{resolver: resolver, logger: logger}
}

func (h *PreviewHandler) Register(r chi.Router) {
	r.Get("/clubs/{id}/fees", h.handlePreview)
}

// handlePreview resolves the fee breakdown for a club and member category.
// The effective date defaults to today; an explicit date=YYYY-MM-DD wins.
func (h *PreviewHandler) handlePreview(w http.ResponseWriter, r *http.Request) {
	clubID, err := id.ParseClubID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid club id"))
		return
	}

	category := r.URL.Query().Get("category")
	if category == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "category query parameter is required"))
		return
	}

	effective := dates.FromTime(time.Now())
	if raw := r.URL.Query().Get("date"); raw != "" {
		effective, err = dates.Parse(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid date, expected YYYY-MM-DD"))
			return
		}
	}

	breakdown, err := h.resolver.Resolve(r.Context(), clubID, category, effective)
	if err != nil {
		h.logger.WarnContext(r.Context(), "fee preview failed", "club_id", clubID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, breakdown)
}
