// Package models holds members and the candidate profile used before a
// member exists.
package models

import (
	"strings"
	"time"

	"rinkside/pkg/dates"
	id "rinkside/pkg/domain"
	dErrors "rinkside/pkg/domain-errors"
)

// MembershipType classifies what the person does at the club.
type MembershipType string

const (
	TypePlayer    MembershipType = "player"
	TypeOfficial  MembershipType = "official"
	TypeVolunteer MembershipType = "volunteer"
)

// Status is the membership lifecycle. Members transition active→inactive
// only and are never deleted once a season has been played.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Member is a person registered with a club.
type Member struct {
	ID        id.MemberID    `json:"id"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	DOB       dates.Date     `json:"dob"`
	Gender    string         `json:"gender,omitempty"`
	Email     string         `json:"email,omitempty"`
	ClubID    id.ClubID      `json:"club_id"`
	Type      MembershipType `json:"type"`
	Status    Status         `json:"status"`
	// JoinedSeason is the first season the member registered for;
	// RenewalSeasons lists every season since, including the first.
	JoinedSeason   int       `json:"joined_season"`
	RenewalSeasons []int     `json:"renewal_seasons"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (m *Member) Validate() error {
	if strings.TrimSpace(m.FirstName) == "" || strings.TrimSpace(m.LastName) == "" {
		return dErrors.New(dErrors.CodeValidation, "member name is required")
	}
	if m.DOB.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "member date of birth is required")
	}
	if m.ClubID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "member requires a club")
	}
	switch m.Type {
	case TypePlayer, TypeOfficial, TypeVolunteer:
	default:
		return dErrors.New(dErrors.CodeValidation, "unknown membership type")
	}
	return nil
}

// Key returns the member's normalized identity key.
func (m *Member) Key() string {
	return NormalizedKey(m.FirstName, m.LastName, m.DOB)
}

// HasRenewedFor reports whether the member already holds the given season.
func (m *Member) HasRenewedFor(season int) bool {
	for _, s := range m.RenewalSeasons {
		if s == season {
			return true
		}
	}
	return false
}

// Candidate is the profile supplied on a registration draft, before any
// member record exists.
type Candidate struct {
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	DOB       dates.Date `json:"dob"`
	Gender    string     `json:"gender,omitempty"`
	Email     string     `json:"email,omitempty"`
}

func (c *Candidate) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.LastName) == "" {
		return dErrors.New(dErrors.CodeValidation, "candidate name is required")
	}
	if c.DOB.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "candidate date of birth is required")
	}
	return nil
}

// Key returns the candidate's normalized identity key.
func (c *Candidate) Key() string {
	return NormalizedKey(c.FirstName, c.LastName, c.DOB)
}

// NormalizedKey builds the identity key used for returning-player matching
// and registration uniqueness: trimmed lowercase first|last|dob.
func NormalizedKey(first, last string, dob dates.Date) string {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return norm(first) + "|" + norm(last) + "|" + dob.String()
}
