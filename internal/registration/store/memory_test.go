package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rinkside/internal/org/fees"
	"rinkside/internal/registration/models"
	id "rinkside/pkg/domain"
	dErrors "rinkside/pkg/domain-errors"
	"rinkside/pkg/platform/sentinel"
)

func newRegistration(clubID id.ClubID, season int) *models.Registration {
	return &models.Registration{
		ID:           id.NewRegistrationID(),
		MemberID:     id.NewMemberID(),
		ClubID:       clubID,
		Season:       season,
		DivisionCode: "U13",
		CandidateKey: "emma|lindqvist|2014-06-01",
		Items:        []fees.LineItem{},
		Total:        10500,
		Currency:     "EUR",
		Status:       models.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestInMemoryCreateEnforcesActiveUniqueness(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	clubID := id.NewClubID()

	first := newRegistration(clubID, 2026)
	require.NoError(t, s.Create(ctx, first))

	// Same key, club, season: blocked while the first is active.
	assert.ErrorIs(t, s.Create(ctx, newRegistration(clubID, 2026)), sentinel.ErrDuplicate)

	// Different season or club: allowed.
	require.NoError(t, s.Create(ctx, newRegistration(clubID, 2027)))
	require.NoError(t, s.Create(ctx, newRegistration(id.NewClubID(), 2026)))
}

func TestInMemoryHasActive(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	reg := newRegistration(id.NewClubID(), 2026)

	active, err := s.HasActive(ctx, reg.CandidateKey, reg.ClubID, reg.Season)
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, s.Create(ctx, reg))
	active, err = s.HasActive(ctx, reg.CandidateKey, reg.ClubID, reg.Season)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestInMemoryRejectionFreesSlot(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	reg := newRegistration(id.NewClubID(), 2026)
	require.NoError(t, s.Create(ctx, reg))

	_, err := s.Execute(ctx, reg.ID,
		func(r *models.Registration) error { return nil },
		func(r *models.Registration) { r.Status = models.StatusRejected },
	)
	require.NoError(t, err)

	active, err := s.HasActive(ctx, reg.CandidateKey, reg.ClubID, reg.Season)
	require.NoError(t, err)
	assert.False(t, active, "rejected registrations do not block")

	require.NoError(t, s.Create(ctx, newRegistration(reg.ClubID, 2026)))
}

func TestInMemoryApprovalKeepsSlotBlocked(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	reg := newRegistration(id.NewClubID(), 2026)
	require.NoError(t, s.Create(ctx, reg))

	_, err := s.Execute(ctx, reg.ID,
		func(r *models.Registration) error { return nil },
		func(r *models.Registration) { r.Status = models.StatusApproved },
	)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Create(ctx, newRegistration(reg.ClubID, 2026)), sentinel.ErrDuplicate)
}

func TestInMemoryExecuteValidateBlocksMutation(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	reg := newRegistration(id.NewClubID(), 2026)
	require.NoError(t, s.Create(ctx, reg))

	_, err := s.Execute(ctx, reg.ID,
		func(r *models.Registration) error {
			return dErrors.New(dErrors.CodeInvalidStateTransition, "nope")
		},
		func(r *models.Registration) { r.Status = models.StatusApproved },
	)
	require.Error(t, err)

	got, err := s.Get(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status, "failed validation leaves the row untouched")

	_, err = s.Execute(ctx, id.NewRegistrationID(),
		func(r *models.Registration) error { return nil },
		func(r *models.Registration) {},
	)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryDeleteFreesSlot(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	reg := newRegistration(id.NewClubID(), 2026)
	require.NoError(t, s.Create(ctx, reg))

	require.NoError(t, s.Delete(ctx, reg.ID))
	_, err := s.Get(ctx, reg.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, s.Create(ctx, newRegistration(reg.ClubID, 2026)))
}
