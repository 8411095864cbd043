// Package handler exposes the admin organization endpoints.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rinkside/internal/org/models"
	"rinkside/internal/org/service"
	"rinkside/internal/org/store"
	id "rinkside/pkg/domain"
	dErrors "rinkside/pkg/domain-errors"
	"rinkside/pkg/platform/httputil"
)

// Handler serves the organization admin surface. Route guards (admin auth)
// are applied by the router that mounts it.
type Handler struct {
	org    *service.Service
	logger *slog.Logger
}

func New(org *service.Service, logger *slog.Logger) *Handler {
	return &Handler{org: org, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/associations", h.handleCreateAssociation)
	r.Get("/associations/{id}", h.handleGetAssociation)
	r.Put("/associations/{id}/fees", h.handleSetAssociationFees)
	r.Post("/clubs", h.handleCreateClub)
	r.Get("/clubs/{id}", h.handleGetClub)
	r.Put("/clubs/{id}/fees", h.handleSetClubFees)
}

func (h *Handler) handleCreateAssociation(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[createAssociationRequest](w, r, h.logger)
	if !ok {
		return
	}

	assoc := &models.Association{
		Code:  req.Code,
		Name:  req.Name,
		Level: req.Level,
	}
	if req.ParentID != "" {
		parentID, err := id.ParseAssociationID(req.ParentID)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid parent_id"))
			return
		}
		assoc.ParentID = parentID
	}

	created, err := h.org.CreateAssociation(r.Context(), assoc)
	if err != nil {
		h.logger.WarnContext(r.Context(), "create association failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetAssociation(w http.ResponseWriter, r *http.Request) {
	assocID, err := id.ParseAssociationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid association id"))
		return
	}
	assoc, err := h.org.GetAssociation(r.Context(), assocID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, assoc)
}

func (h *Handler) handleCreateClub(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[createClubRequest](w, r, h.logger)
	if !ok {
		return
	}

	assocID, err := id.ParseAssociationID(req.AssociationID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid association_id"))
		return
	}

	created, err := h.org.CreateClub(r.Context(), &models.Club{
		Slug:          req.Slug,
		Name:          req.Name,
		AssociationID: assocID,
	})
	if err != nil {
		h.logger.WarnContext(r.Context(), "create club failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetClub(w http.ResponseWriter, r *http.Request) {
	clubID, err := id.ParseClubID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid club id"))
		return
	}
	club, err := h.org.GetClub(r.Context(), clubID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, club)
}

func (h *Handler) handleSetAssociationFees(w http.ResponseWriter, r *http.Request) {
	h.handleSetFees(w, r, store.OwnerAssociation)
}

func (h *Handler) handleSetClubFees(w http.ResponseWriter, r *http.Request) {
	h.handleSetFees(w, r, store.OwnerClub)
}

func (h *Handler) handleSetFees(w http.ResponseWriter, r *http.Request, owner store.OwnerType) {
	ownerID := chi.URLParam(r, "id")

	req, ok := httputil.DecodeJSON[setFeesRequest](w, r, h.logger)
	if !ok {
		return
	}

	fees := make([]models.Fee, 0, len(req.Fees))
	for i := range req.Fees {
		fee, err := req.Fees[i].toModel()
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid fee validity date"))
			return
		}
		fees = append(fees, fee)
	}

	if err := h.org.SetFees(r.Context(), owner, ownerID, fees); err != nil {
		h.logger.WarnContext(r.Context(), "set fees failed", "owner", owner, "error", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
