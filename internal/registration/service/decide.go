package service

import (
	"context"
	"errors"
	"fmt"

	"rinkside/internal/platform/middleware/adminauth"
	"rinkside/internal/registration/models"
	id "rinkside/pkg/domain"
	dErrors "rinkside/pkg/domain-errors"
	"rinkside/pkg/platform/audit"
	"rinkside/pkg/platform/sentinel"
)

// Approve moves a pending registration to approved. Approved and rejected
// are terminal; deciding an already-decided registration fails with
// InvalidStateTransition.
func (s *Service) Approve(ctx context.Context, registrationID id.RegistrationID) (*models.Registration, error) {
	reg, err := s.decide(ctx, registrationID, models.StatusApproved, "")
	if err != nil {
		return nil, err
	}

	s.emit(ctx, audit.Event{
		Action:         audit.EventRegistrationApproved,
		Actor:          adminauth.GetSubject(ctx),
		RegistrationID: reg.ID.String(),
		MemberID:       reg.MemberID.String(),
		ClubID:         reg.ClubID.String(),
		Season:         reg.Season,
	})
	if s.metrics != nil {
		s.metrics.IncDecision("approved")
	}
	return reg, nil
}

// Reject moves a pending registration to rejected, freeing the duplicate
// slot so the player can register again.
func (s *Service) Reject(ctx context.Context, registrationID id.RegistrationID, reason string) (*models.Registration, error) {
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "rejection reason is required")
	}

	reg, err := s.decide(ctx, registrationID, models.StatusRejected, reason)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, audit.Event{
		Action:         audit.EventRegistrationRejected,
		Actor:          adminauth.GetSubject(ctx),
		RegistrationID: reg.ID.String(),
		MemberID:       reg.MemberID.String(),
		ClubID:         reg.ClubID.String(),
		Season:         reg.Season,
		Detail:         reason,
	})
	if s.metrics != nil {
		s.metrics.IncDecision("rejected")
	}
	return reg, nil
}

// GetRegistration returns a registration for admin review.
func (s *Service) GetRegistration(ctx context.Context, registrationID id.RegistrationID) (*models.Registration, error) {
	reg, err := s.registrations.Get(ctx, registrationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "registration lookup failed")
	}
	return reg, nil
}

// ListPending returns registrations awaiting a decision, oldest first.
func (s *Service) ListPending(ctx context.Context) ([]models.Registration, error) {
	regs, err := s.registrations.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "registration list failed")
	}
	return regs, nil
}

// decide runs the transition under the store's row lock. The validate
// callback sees the current row and the lock holds through the mutation, so
// two concurrent decisions cannot both pass.
func (s *Service) decide(ctx context.Context, registrationID id.RegistrationID, next models.Status, reason string) (*models.Registration, error) {
	reg, err := s.registrations.Execute(ctx, registrationID,
		func(r *models.Registration) error {
			if !r.Status.CanTransitionTo(next) {
				return dErrors.New(dErrors.CodeInvalidStateTransition,
					fmt.Sprintf("cannot move registration from %s to %s", r.Status, next))
			}
			return nil
		},
		func(r *models.Registration) {
			r.Status = next
			r.RejectionReason = reason
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, err
	}
	return reg, nil
}
