package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rinkside/internal/member/models"
	"rinkside/pkg/dates"
	id "rinkside/pkg/domain"
	"rinkside/pkg/platform/sentinel"
)

func newMember() *models.Member {
	return &models.Member{
		ID:             id.NewMemberID(),
		FirstName:      "Emma",
		LastName:       "Lindqvist",
		DOB:            dates.New(2012, time.June, 1),
		Email:          "lindqvist@example.com",
		ClubID:         id.NewClubID(),
		Type:           models.TypePlayer,
		Status:         models.StatusActive,
		JoinedSeason:   2025,
		RenewalSeasons: []int{2025},
		CreatedAt:      time.Now(),
	}
}

func TestInMemoryCreateAndGet(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	m := newMember()

	require.NoError(t, s.Create(ctx, m))
	assert.ErrorIs(t, s.Create(ctx, m), sentinel.ErrDuplicate)

	got, err := s.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.FirstName, got.FirstName)

	_, err = s.Get(ctx, id.NewMemberID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryCreateRejectsDuplicateKey(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newMember()))

	twin := newMember()
	twin.Email = "other@example.com"
	assert.ErrorIs(t, s.Create(ctx, twin), sentinel.ErrDuplicate, "same normalized name+dob")
}

func TestInMemoryFindByNameDOB(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	m := newMember()
	require.NoError(t, s.Create(ctx, m))

	got, err := s.FindByNameDOB(ctx, "EMMA", " lindqvist ", m.DOB)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)

	_, err = s.FindByNameDOB(ctx, "Emma", "Lindqvist", dates.New(2011, time.June, 1))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryAddRenewalSeasonIdempotent(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	m := newMember()
	require.NoError(t, s.Create(ctx, m))

	require.NoError(t, s.AddRenewalSeason(ctx, m.ID, 2026))
	require.NoError(t, s.AddRenewalSeason(ctx, m.ID, 2026))

	got, err := s.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{2025, 2026}, got.RenewalSeasons)

	assert.ErrorIs(t, s.AddRenewalSeason(ctx, id.NewMemberID(), 2026), sentinel.ErrNotFound)
}

func TestInMemoryDelete(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	m := newMember()
	require.NoError(t, s.Create(ctx, m))

	require.NoError(t, s.Delete(ctx, m.ID))
	_, err := s.Get(ctx, m.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	// The key is released for re-use after a rollback delete.
	require.NoError(t, s.Create(ctx, newMember()))

	assert.ErrorIs(t, s.Delete(ctx, id.NewMemberID()), sentinel.ErrNotFound)
}
