// Package store persists members. Implementations come as a memory store for
// tests/demo and a PostgreSQL store for production; both return sentinel
// errors that services translate into domain errors.
package store

import (
	"context"

	"rinkside/internal/member/models"
	"rinkside/pkg/dates"
	id "rinkside/pkg/domain"
)

// Store is the member surface the matcher and the registration committer
// consume.
type Store interface {
	Create(ctx context.Context, m *models.Member) error
	Get(ctx context.Context, memberID id.MemberID) (*models.Member, error)

	// FindByNameDOB looks up a member by exact normalized name + date of
	// birth. A miss is sentinel.ErrNotFound, never an error condition.
	FindByNameDOB(ctx context.Context, first, last string, dob dates.Date) (*models.Member, error)

	// FindByEmail returns members sharing the email, oldest first. Emails
	// are not unique (family addresses), so this always returns a slice.
	FindByEmail(ctx context.Context, email string) ([]models.Member, error)

	// AddRenewalSeason records a season on the member, idempotently.
	AddRenewalSeason(ctx context.Context, memberID id.MemberID, season int) error

	// Delete removes a member. Only the commit rollback path may call it,
	// and only for members created inside the failing commit.
	Delete(ctx context.Context, memberID id.MemberID) error
}
