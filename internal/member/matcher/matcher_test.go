package matcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rinkside/internal/member/models"
	"rinkside/internal/member/store"
	"rinkside/pkg/dates"
	id "rinkside/pkg/domain"
)

func seedMember(t *testing.T, s *store.InMemory, first, last, email string, dob dates.Date, createdAt time.Time) *models.Member {
	t.Helper()
	m := &models.Member{
		ID:             id.NewMemberID(),
		FirstName:      first,
		LastName:       last,
		DOB:            dob,
		Email:          email,
		ClubID:         id.NewClubID(),
		Type:           models.TypePlayer,
		Status:         models.StatusActive,
		JoinedSeason:   2024,
		RenewalSeasons: []int{2024, 2025},
		CreatedAt:      createdAt,
	}
	require.NoError(t, s.Create(context.Background(), m))
	return m
}

func TestFindHighConfidenceByNameAndDOB(t *testing.T) {
	s := store.NewInMemory()
	dob := dates.New(2012, time.June, 1)
	seeded := seedMember(t, s, "Emma", "Lindqvist", "lindqvist@example.com", dob, time.Now())

	// Case and whitespace in the candidate must not matter.
	match, err := New(s).Find(context.Background(), models.Candidate{
		FirstName: "  emma ",
		LastName:  "LINDQVIST",
		DOB:       dob,
	})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, ConfidenceHigh, match.Confidence)
	assert.Equal(t, seeded.ID, match.Member.ID)
}

func TestFindMediumConfidenceByEmailOnly(t *testing.T) {
	s := store.NewInMemory()
	dob := dates.New(2012, time.June, 1)
	seeded := seedMember(t, s, "Emma", "Lindqvist", "family@example.com", dob, time.Now())

	// Different name, same email: suggestion only.
	match, err := New(s).Find(context.Background(), models.Candidate{
		FirstName: "Oskar",
		LastName:  "Lindqvist",
		DOB:       dates.New(2014, time.March, 9),
		Email:     "Family@Example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, ConfidenceMedium, match.Confidence)
	assert.Equal(t, seeded.ID, match.Member.ID)
}

func TestFindEmailPrefersOldestRecord(t *testing.T) {
	s := store.NewInMemory()
	older := seedMember(t, s, "Emma", "Lindqvist", "family@example.com", dates.New(2012, time.June, 1), time.Now().Add(-time.Hour))
	seedMember(t, s, "Oskar", "Lindqvist", "family@example.com", dates.New(2014, time.March, 9), time.Now())

	match, err := New(s).Find(context.Background(), models.Candidate{
		FirstName: "Astrid",
		LastName:  "Lindqvist",
		DOB:       dates.New(2016, time.January, 20),
		Email:     "family@example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, older.ID, match.Member.ID)
}

func TestFindNoMatch(t *testing.T) {
	s := store.NewInMemory()
	seedMember(t, s, "Emma", "Lindqvist", "lindqvist@example.com", dates.New(2012, time.June, 1), time.Now())

	match, err := New(s).Find(context.Background(), models.Candidate{
		FirstName: "Nils",
		LastName:  "Berg",
		DOB:       dates.New(2013, time.October, 2),
		Email:     "berg@example.com",
	})
	require.NoError(t, err, "no match is not an error")
	assert.Nil(t, match)
}

func TestFindNoEmailSkipsEmailLookup(t *testing.T) {
	s := store.NewInMemory()

	match, err := New(s).Find(context.Background(), models.Candidate{
		FirstName: "Nils",
		LastName:  "Berg",
		DOB:       dates.New(2013, time.October, 2),
	})
	require.NoError(t, err)
	assert.Nil(t, match)
}
