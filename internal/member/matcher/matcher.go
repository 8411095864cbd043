// Package matcher finds returning players for a registration candidate.
package matcher

import (
	"context"
	"errors"

	"rinkside/internal/member/models"
	"rinkside/pkg/dates"
	dErrors "rinkside/pkg/domain-errors"
	"rinkside/pkg/platform/sentinel"
)

// Confidence grades how certain a match is.
type Confidence string

const (
	// ConfidenceHigh means exact normalized name + date of birth. Safe to
	// auto-fill the member onto the registration.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium means only the email lines up. Surfaced as a
	// suggestion, never merged automatically.
	ConfidenceMedium Confidence = "medium"
)

// Match is a located member with the grade of evidence behind it.
type Match struct {
	Member     *models.Member `json:"member"`
	Confidence Confidence     `json:"confidence"`
}

// Store is the read-only member lookup surface the matcher needs.
type Store interface {
	FindByNameDOB(ctx context.Context, first, last string, dob dates.Date) (*models.Member, error)
	FindByEmail(ctx context.Context, email string) ([]models.Member, error)
}

// Matcher performs read-only returning-player lookups.
type Matcher struct {
	members Store
}

func New(members Store) *Matcher {
	return &Matcher{members: members}
}

// Find locates a returning player for the candidate. No match returns
// (nil, nil): absence of a match is a normal outcome, not an error.
func (m *Matcher) Find(ctx context.Context, candidate models.Candidate) (*Match, error) {
	member, err := m.members.FindByNameDOB(ctx, candidate.FirstName, candidate.LastName, candidate.DOB)
	if err == nil {
		return &Match{Member: member, Confidence: ConfidenceHigh}, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "member lookup failed")
	}

	if candidate.Email == "" {
		return nil, nil
	}
	matches, err := m.members.FindByEmail(ctx, candidate.Email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "member lookup failed")
	}
	if len(matches) == 0 {
		return nil, nil
	}
	// Oldest record wins when a family shares an address.
	return &Match{Member: &matches[0], Confidence: ConfidenceMedium}, nil
}
