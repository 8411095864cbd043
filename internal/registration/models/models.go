// Package models holds registration drafts, summaries, and the committed
// registration with its frozen fee breakdown.
package models

import (
	"time"

	memberModels "rinkside/internal/member/models"
	"rinkside/internal/org/fees"
	id "rinkside/pkg/domain"
	dErrors "rinkside/pkg/domain-errors"
	"rinkside/pkg/money"
)

// Status is the registration workflow state. Pending is the only
// non-terminal state; Approved and Rejected are final.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// CanTransitionTo reports whether the workflow permits the move. Only
// Pending→Approved and Pending→Rejected exist.
func (s Status) CanTransitionTo(next Status) bool {
	if s != StatusPending {
		return false
	}
	return next == StatusApproved || next == StatusRejected
}

// Draft is the registration request before any computation: who wants to
// play where. MemberID is set when a returning player was confirmed.
type Draft struct {
	Candidate    memberModels.Candidate `json:"candidate"`
	MemberID     id.MemberID            `json:"member_id,omitzero"`
	ClubID       id.ClubID              `json:"club_id"`
	DivisionCode string                 `json:"division_code"`
	Season       int                    `json:"season"`
}

func (d *Draft) Validate() error {
	if err := d.Candidate.Validate(); err != nil {
		return err
	}
	if d.ClubID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "club is required")
	}
	if d.DivisionCode == "" {
		return dErrors.New(dErrors.CodeValidation, "division is required")
	}
	if d.Season < 1900 {
		return dErrors.New(dErrors.CodeValidation, "season year is required")
	}
	return nil
}

// CandidateKey is the uniqueness key for the draft when no member id exists
// yet: normalized name + date of birth.
func (d *Draft) CandidateKey() string {
	return d.Candidate.Key()
}

// Verdict is the eligibility outcome for a draft. Ineligibility is a normal
// result carried in the summary, never an error.
type Verdict struct {
	Eligible     bool   `json:"eligible"`
	ComputedAge  int    `json:"computed_age"`
	DivisionCode string `json:"division_code"`
	AllowedMin   int    `json:"allowed_min"`
	AllowedMax   int    `json:"allowed_max"`
	Reason       string `json:"reason,omitempty"`
}

// Suggestion surfaces a possible returning player without merging it.
type Suggestion struct {
	MemberID   id.MemberID `json:"member_id"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Confidence string      `json:"confidence"`
}

// Summary is the priced registration preview. It is a pure function of the
// draft and current fee state: no timestamps, deterministic item order, so
// identical inputs produce byte-identical JSON.
type Summary struct {
	Candidate    memberModels.Candidate `json:"candidate"`
	ClubID       id.ClubID              `json:"club_id"`
	DivisionCode string                 `json:"division_code"`
	Season       int                    `json:"season"`
	Eligibility  Verdict                `json:"eligibility"`
	Member       *Suggestion            `json:"member,omitempty"`
	Suggestion   *Suggestion            `json:"suggestion,omitempty"`
	Items        []fees.LineItem        `json:"items"`
	Total        money.Amount           `json:"total"`
	Currency     string                 `json:"currency"`
}

// Registration is the committed record. Items and Total are the frozen copy
// of the summary breakdown; later fee edits never change them.
type Registration struct {
	ID              id.RegistrationID `json:"id"`
	MemberID        id.MemberID       `json:"member_id"`
	ClubID          id.ClubID         `json:"club_id"`
	Season          int               `json:"season"`
	DivisionCode    string            `json:"division_code"`
	CandidateKey    string            `json:"candidate_key"`
	Items           []fees.LineItem   `json:"items"`
	Total           money.Amount      `json:"total"`
	Currency        string            `json:"currency"`
	Status          Status            `json:"status"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// IsActive reports whether the registration still blocks a duplicate for the
// same candidate, club, and season. Rejected registrations free the slot.
func (r *Registration) IsActive() bool {
	return r.Status != StatusRejected
}
