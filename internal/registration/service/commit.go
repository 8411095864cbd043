package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	memberModels "rinkside/internal/member/models"
	"rinkside/internal/org/fees"
	paymentModels "rinkside/internal/payment/models"
	"rinkside/internal/registration/models"
	id "rinkside/pkg/domain"
	dErrors "rinkside/pkg/domain-errors"
	"rinkside/pkg/platform/audit"
	"rinkside/pkg/platform/sentinel"
)

// Commit turns an accepted summary into a pending registration. The caller
// sends back the summary it was shown: the breakdown is frozen as-is and
// never recomputed, so the price the user approved is the price stored.
//
// Three writes happen in order: member (create or renew), registration,
// payment placeholder. There is no distributed transaction; failures roll
// back with compensating deletes. A member that existed before the commit is
// never deleted.
func (s *Service) Commit(ctx context.Context, summary *models.Summary) (*models.Registration, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "registration.commit",
		trace.WithAttributes(
			attribute.String("club_id", summary.ClubID.String()),
			attribute.Int("season", summary.Season),
		))
	var retErr error
	defer func() { endSpan(span, retErr) }()

	if retErr = s.validateCommit(summary); retErr != nil {
		return nil, retErr
	}

	key := summary.Candidate.Key()

	// Pre-check before any write. The storage constraint is still the
	// arbiter under concurrency; this check fails closed on store errors.
	exists, err := s.registrations.HasActive(ctx, key, summary.ClubID, summary.Season)
	if err != nil {
		retErr = dErrors.Wrap(err, dErrors.CodeUnavailable, "duplicate check unavailable")
		s.observeCommit(start, "unavailable")
		return nil, retErr
	}
	if exists {
		retErr = s.duplicateErr(ctx, summary.ClubID, summary.Season)
		s.observeCommit(start, "duplicate")
		return nil, retErr
	}

	member, createdMember, err := s.commitMember(ctx, summary)
	if err != nil {
		retErr = err
		s.observeCommit(start, "member_failed")
		return nil, retErr
	}

	reg := &models.Registration{
		ID:           id.NewRegistrationID(),
		MemberID:     member.ID,
		ClubID:       summary.ClubID,
		Season:       summary.Season,
		DivisionCode: summary.DivisionCode,
		CandidateKey: key,
		Items:        summary.Items,
		Total:        summary.Total,
		Currency:     summary.Currency,
		Status:       models.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	if reg.Items == nil {
		reg.Items = []fees.LineItem{}
	}

	if err := s.registrations.Create(ctx, reg); err != nil {
		s.rollback(ctx, nil, member.ID, createdMember)
		if errors.Is(err, sentinel.ErrDuplicate) {
			retErr = s.duplicateErr(ctx, summary.ClubID, summary.Season)
			s.observeCommit(start, "duplicate")
			return nil, retErr
		}
		retErr = dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist registration")
		s.observeCommit(start, "registration_failed")
		return nil, retErr
	}

	payment := &paymentModels.Payment{
		ID:             id.NewPaymentID(),
		RegistrationID: reg.ID,
		Amount:         reg.Total,
		Currency:       reg.Currency,
		Status:         paymentModels.StatusCreated,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		s.rollback(ctx, reg, member.ID, createdMember)
		retErr = dErrors.Wrap(err, dErrors.CodeInternal, "failed to create payment")
		s.observeCommit(start, "payment_failed")
		return nil, retErr
	}

	if createdMember {
		s.emit(ctx, audit.Event{
			Action:   audit.EventMemberCreated,
			MemberID: member.ID.String(),
			ClubID:   summary.ClubID.String(),
			Season:   summary.Season,
		})
	} else {
		s.emit(ctx, audit.Event{
			Action:   audit.EventMemberRenewed,
			MemberID: member.ID.String(),
			ClubID:   summary.ClubID.String(),
			Season:   summary.Season,
		})
	}
	s.emit(ctx, audit.Event{
		Action:         audit.EventRegistrationCommitted,
		RegistrationID: reg.ID.String(),
		MemberID:       member.ID.String(),
		ClubID:         summary.ClubID.String(),
		Season:         summary.Season,
	})

	s.observeCommit(start, "success")
	return reg, nil
}

func (s *Service) validateCommit(summary *models.Summary) error {
	if summary == nil {
		return dErrors.New(dErrors.CodeBadRequest, "summary is required")
	}
	if err := summary.Candidate.Validate(); err != nil {
		return err
	}
	if summary.ClubID.IsNil() || summary.DivisionCode == "" || summary.Season < 1900 {
		return dErrors.New(dErrors.CodeValidation, "summary is missing club, division, or season")
	}
	if !summary.Eligibility.Eligible {
		return dErrors.New(dErrors.CodeValidation, "cannot commit an ineligible registration")
	}
	if summary.Currency == "" {
		return dErrors.New(dErrors.CodeValidation, "summary currency is required")
	}
	return nil
}

// commitMember creates the member, or renews the confirmed returning player.
// The bool reports whether this commit created the member and therefore owns
// its rollback.
func (s *Service) commitMember(ctx context.Context, summary *models.Summary) (*memberModels.Member, bool, error) {
	if summary.Member != nil {
		existing, err := s.members.Get(ctx, summary.Member.MemberID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, false, dErrors.New(dErrors.CodeNotFound, "confirmed member not found")
			}
			return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "member lookup failed")
		}
		if err := s.members.AddRenewalSeason(ctx, existing.ID, summary.Season); err != nil {
			return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to renew member")
		}
		return existing, false, nil
	}

	member := &memberModels.Member{
		ID:             id.NewMemberID(),
		FirstName:      summary.Candidate.FirstName,
		LastName:       summary.Candidate.LastName,
		DOB:            summary.Candidate.DOB,
		Gender:         summary.Candidate.Gender,
		Email:          summary.Candidate.Email,
		ClubID:         summary.ClubID,
		Type:           memberModels.TypePlayer,
		Status:         memberModels.StatusActive,
		JoinedSeason:   summary.Season,
		RenewalSeasons: []int{summary.Season},
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.members.Create(ctx, member); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			// A member with this identity appeared since the summary was
			// built. Renew the existing record instead of failing.
			existing, findErr := s.members.FindByNameDOB(ctx, member.FirstName, member.LastName, member.DOB)
			if findErr != nil {
				return nil, false, dErrors.Wrap(findErr, dErrors.CodeInternal, "member lookup failed")
			}
			if err := s.members.AddRenewalSeason(ctx, existing.ID, summary.Season); err != nil {
				return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to renew member")
			}
			return existing, false, nil
		}
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create member")
	}
	return member, true, nil
}

// rollback undoes partial commit writes: the registration if it was created,
// and the member only when this commit created it. Rollback failures are
// logged, not returned; the original failure is what the caller sees.
func (s *Service) rollback(ctx context.Context, reg *models.Registration, memberID id.MemberID, createdMember bool) {
	if s.metrics != nil {
		s.metrics.IncRollback()
	}

	event := audit.Event{Action: audit.EventCommitRolledBack, MemberID: memberID.String()}
	if reg != nil {
		event.RegistrationID = reg.ID.String()
		if err := s.registrations.Delete(ctx, reg.ID); err != nil && s.logger != nil {
			s.logger.ErrorContext(ctx, "rollback failed to delete registration",
				"registration_id", reg.ID, "error", err)
		}
	}
	if createdMember {
		if err := s.members.Delete(ctx, memberID); err != nil && s.logger != nil {
			s.logger.ErrorContext(ctx, "rollback failed to delete member",
				"member_id", memberID, "error", err)
		}
	}
	s.emit(ctx, event)
}

func (s *Service) duplicateErr(ctx context.Context, clubID id.ClubID, season int) error {
	if s.metrics != nil {
		s.metrics.IncDuplicate()
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "duplicate registration rejected",
			"club_id", clubID, "season", season)
	}
	return dErrors.New(dErrors.CodeDuplicateRegistration, "an active registration already exists for this player, club, and season")
}

func (s *Service) observeCommit(start time.Time, outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveCommit(start, outcome)
	}
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}
