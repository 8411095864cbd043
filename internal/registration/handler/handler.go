// Package handler exposes the registration endpoints: the public
// summary/commit pair and the admin decision surface.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rinkside/internal/registration/models"
	id "rinkside/pkg/domain"
	dErrors "rinkside/pkg/domain-errors"
	"rinkside/pkg/platform/httputil"
	"rinkside/pkg/platform/middleware/request"
)

// Service is the registration workflow surface the handler drives.
type Service interface {
	BuildSummary(ctx context.Context, draft models.Draft) (*models.Summary, error)
	Commit(ctx context.Context, summary *models.Summary) (*models.Registration, error)
	Approve(ctx context.Context, registrationID id.RegistrationID) (*models.Registration, error)
	Reject(ctx context.Context, registrationID id.RegistrationID, reason string) (*models.Registration, error)
	GetRegistration(ctx context.Context, registrationID id.RegistrationID) (*models.Registration, error)
	ListPending(ctx context.Context) ([]models.Registration, error)
}

type Handler struct {
	registration Service
	logger       *slog.Logger
}

func New(registration Service, logger *slog.Logger) *Handler {
	return &Handler{registration: registration, logger: logger}
}

// Register mounts the public endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/summary", h.handleSummary)
	r.Post("/commit", h.handleCommit)
}

// RegisterAdmin mounts the decision endpoints. Admin auth is applied by the
// router that mounts this, not by the state machine.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/", h.handleListPending)
	r.Get("/{id}", h.handleGet)
	r.Post("/{id}/approve", h.handleApprove)
	r.Post("/{id}/reject", h.handleReject)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	draft, ok := httputil.DecodeJSON[models.Draft](w, r, h.logger)
	if !ok {
		return
	}

	summary, err := h.registration.BuildSummary(r.Context(), draft)
	if err != nil {
		h.logFailure(r, "summary build failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleCommit(w http.ResponseWriter, r *http.Request) {
	summary, ok := httputil.DecodeJSON[models.Summary](w, r, h.logger)
	if !ok {
		return
	}

	reg, err := h.registration.Commit(r.Context(), &summary)
	if err != nil {
		h.logFailure(r, "commit failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, reg)
}

func (h *Handler) handleListPending(w http.ResponseWriter, r *http.Request) {
	regs, err := h.registration.ListPending(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"registrations": regs})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	regID, ok := h.registrationID(w, r)
	if !ok {
		return
	}
	reg, err := h.registration.GetRegistration(r.Context(), regID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	regID, ok := h.registrationID(w, r)
	if !ok {
		return
	}
	reg, err := h.registration.Approve(r.Context(), regID)
	if err != nil {
		h.logFailure(r, "approve failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reg)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	regID, ok := h.registrationID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[rejectRequest](w, r, h.logger)
	if !ok {
		return
	}
	reg, err := h.registration.Reject(r.Context(), regID, req.Reason)
	if err != nil {
		h.logFailure(r, "reject failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) registrationID(w http.ResponseWriter, r *http.Request) (id.RegistrationID, bool) {
	regID, err := id.ParseRegistrationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid registration id"))
		return id.RegistrationID{}, false
	}
	return regID, true
}

func (h *Handler) logFailure(r *http.Request, msg string, err error) {
	if h.logger == nil {
		return
	}
	ctx := r.Context()
	h.logger.WarnContext(ctx, msg,
		"request_id", request.GetRequestID(ctx),
		"error", err,
	)
}
