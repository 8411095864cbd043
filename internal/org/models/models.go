// Package models holds the organization hierarchy: associations, clubs,
// their fee schedules, and age divisions.
package models

import (
	"strings"

	"rinkside/pkg/dates"
	id "rinkside/pkg/domain"
	dErrors "rinkside/pkg/domain-errors"
	"rinkside/pkg/money"
)

// Status is shared by associations and clubs.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// FeeScope declares what a fee applies to.
type FeeScope string

const (
	ScopePlayer FeeScope = "player"
	ScopeTeam   FeeScope = "team"
	ScopeClub   FeeScope = "club"
)

// CategoryAll is the wildcard category marker: the fee applies to every
// member category.
const CategoryAll = "all"

// Association is a node in the national→state→regional hierarchy.
//
// Invariants:
//   - Level 0 is the national root and has no parent
//   - Every other level has a parent whose level is strictly smaller
//   - The parent chain from any node terminates at a level-0 node
type Association struct {
	ID       id.AssociationID `json:"id"`
	Code     string           `json:"code"`
	Name     string           `json:"name"`
	Level    int              `json:"level"`
	ParentID id.AssociationID `json:"parent_id,omitzero"`
	Status   Status           `json:"status"`
	Fees     []Fee            `json:"fees"`
}

func (a *Association) IsActive() bool { return a.Status == StatusActive }

// Validate checks construction invariants before the association is stored.
func (a *Association) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "association name is required")
	}
	if a.Level < 0 {
		return dErrors.New(dErrors.CodeValidation, "association level must not be negative")
	}
	if a.Level == 0 && !a.ParentID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "national association must not have a parent")
	}
	if a.Level > 0 && a.ParentID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "non-national association requires a parent")
	}
	for i := range a.Fees {
		if err := a.Fees[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Club is a leaf organization under exactly one association.
type Club struct {
	ID            id.ClubID        `json:"id"`
	Slug          string           `json:"slug"`
	Name          string           `json:"name"`
	AssociationID id.AssociationID `json:"association_id"`
	Status        Status           `json:"status"`
	Fees          []Fee            `json:"fees"`
}

func (c *Club) IsActive() bool { return c.Status == StatusActive }

func (c *Club) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "club name is required")
	}
	if c.AssociationID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "club requires an association")
	}
	for i := range c.Fees {
		if err := c.Fees[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Fee is a single priced schedule entry owned by an association or club.
//
// SupersedesKey is the normalized business rule for overrides: when set, this
// fee replaces any ancestor fee carrying the same key. When empty the
// normalized name doubles as the key, which preserves the historical
// "same name overrides" convention.
type Fee struct {
	ID            id.FeeID     `json:"id"`
	Name          string       `json:"name"`
	Category      string       `json:"category"`
	Scope         FeeScope     `json:"scope"`
	Amount        money.Amount `json:"amount"`
	Validity      dates.Window `json:"validity"`
	Active        bool         `json:"active"`
	SupersedesKey string       `json:"supersedes_key,omitempty"`
}

func (f *Fee) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "fee name is required")
	}
	if f.Amount.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "fee amount must not be negative")
	}
	switch f.Scope {
	case ScopePlayer, ScopeTeam, ScopeClub:
	default:
		return dErrors.New(dErrors.CodeValidation, "fee scope must be player, team, or club")
	}
	if !f.Validity.From.IsZero() && !f.Validity.To.IsZero() && f.Validity.To.Before(f.Validity.From) {
		return dErrors.New(dErrors.CodeValidation, "fee validity window is inverted")
	}
	return nil
}

// OverrideKey returns the key used for supersede matching.
func (f *Fee) OverrideKey() string {
	if f.SupersedesKey != "" {
		return strings.ToLower(strings.TrimSpace(f.SupersedesKey))
	}
	return strings.ToLower(strings.TrimSpace(f.Name))
}

// AppliesTo reports whether the fee is chargeable for the given member
// category on the effective date.
func (f *Fee) AppliesTo(category string, effective dates.Date) bool {
	if !f.Active {
		return false
	}
	if !strings.EqualFold(f.Category, CategoryAll) && !strings.EqualFold(f.Category, category) {
		return false
	}
	return f.Validity.Contains(effective)
}

// Division is an age-eligibility band for a season, inclusive on both ends.
type Division struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	MinAge int    `json:"min_age"`
	MaxAge int    `json:"max_age"`
}

// DefaultDivisions is the standard age-division catalog. Associations can
// replace it at service construction.
func DefaultDivisions() []Division {
	return []Division{
		{Code: "U8", Name: "Under 8", MinAge: 5, MaxAge: 8},
		{Code: "U10", Name: "Under 10", MinAge: 8, MaxAge: 10},
		{Code: "U13", Name: "Under 13", MinAge: 10, MaxAge: 13},
		{Code: "U15", Name: "Under 15", MinAge: 12, MaxAge: 15},
		{Code: "U18", Name: "Under 18", MinAge: 14, MaxAge: 18},
		{Code: "SEN", Name: "Senior", MinAge: 17, MaxAge: 99},
	}
}
