// Package service carries the admin operations on the organization
// hierarchy: creating associations and clubs and maintaining fee schedules.
package service

import (
	"context"
	"errors"
	"log/slog"

	"rinkside/internal/org/models"
	"rinkside/internal/org/store"
	"rinkside/internal/platform/middleware/adminauth"
	id "rinkside/pkg/domain"
	dErrors "rinkside/pkg/domain-errors"
	"rinkside/pkg/platform/audit"
	"rinkside/pkg/platform/sentinel"
)

// ChainInvalidator drops a club's cached ancestor chain after fee edits.
type ChainInvalidator interface {
	Invalidate(ctx context.Context, clubID id.ClubID)
}

// Service orchestrates organization administration.
type Service struct {
	store    store.Store
	chains   ChainInvalidator
	recorder *audit.Recorder
	logger   *slog.Logger
}

func New(s store.Store, chains ChainInvalidator, recorder *audit.Recorder, logger *slog.Logger) *Service {
	return &Service{store: s, chains: chains, recorder: recorder, logger: logger}
}

// CreateAssociation validates hierarchy invariants before persisting: a
// non-root association must attach to an existing parent with a strictly
// smaller level.
func (s *Service) CreateAssociation(ctx context.Context, a *models.Association) (*models.Association, error) {
	if a.ID.IsNil() {
		a.ID = id.NewAssociationID()
	}
	if a.Status == "" {
		a.Status = models.StatusActive
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	if !a.ParentID.IsNil() {
		parent, err := s.store.GetAssociation(ctx, a.ParentID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "parent association not found")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "parent lookup failed")
		}
		if parent.Level >= a.Level {
			return nil, dErrors.New(dErrors.CodeValidation, "parent level must be smaller than the association level")
		}
	}

	if err := s.store.CreateAssociation(ctx, a); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return nil, dErrors.New(dErrors.CodeConflict, "association already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create association")
	}

	s.emit(ctx, audit.Event{Action: audit.EventAssociationCreated, Detail: a.Code})
	return a, nil
}

// CreateClub attaches a club to an existing active association.
func (s *Service) CreateClub(ctx context.Context, c *models.Club) (*models.Club, error) {
	if c.ID.IsNil() {
		c.ID = id.NewClubID()
	}
	if c.Status == "" {
		c.Status = models.StatusActive
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	assoc, err := s.store.GetAssociation(ctx, c.AssociationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "association not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "association lookup failed")
	}
	if !assoc.IsActive() {
		return nil, dErrors.New(dErrors.CodeValidation, "association is inactive")
	}

	if err := s.store.CreateClub(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return nil, dErrors.New(dErrors.CodeConflict, "club already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create club")
	}

	s.emit(ctx, audit.Event{Action: audit.EventClubCreated, ClubID: c.ID.String(), Detail: c.Slug})
	return c, nil
}

func (s *Service) GetAssociation(ctx context.Context, assocID id.AssociationID) (*models.Association, error) {
	a, err := s.store.GetAssociation(ctx, assocID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "association not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "association lookup failed")
	}
	return a, nil
}

func (s *Service) GetClub(ctx context.Context, clubID id.ClubID) (*models.Club, error) {
	c, err := s.store.GetClub(ctx, clubID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "club not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "club lookup failed")
	}
	return c, nil
}

// SetFees replaces an owner's fee schedule. The list order is preserved and
// becomes the breakdown display order. Committed registrations are untouched;
// only future summaries see the new schedule.
func (s *Service) SetFees(ctx context.Context, owner store.OwnerType, ownerID string, fees []models.Fee) error {
	for i := range fees {
		if fees[i].ID.IsNil() {
			fees[i].ID = id.NewFeeID()
		}
		if err := fees[i].Validate(); err != nil {
			return err
		}
	}

	if err := s.store.SetFees(ctx, owner, ownerID, fees); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "fee owner not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update fees")
	}

	event := audit.Event{Action: audit.EventFeesUpdated, Detail: string(owner)}
	if owner == store.OwnerClub {
		event.ClubID = ownerID
		if clubID, err := id.ParseClubID(ownerID); err == nil && s.chains != nil {
			s.chains.Invalidate(ctx, clubID)
		}
	}
	s.emit(ctx, event)
	return nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.recorder == nil {
		return
	}
	event.Actor = adminauth.GetSubject(ctx)
	if err := s.recorder.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}
