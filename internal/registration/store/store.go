// Package store persists registrations. The duplicate rule lives here: at
// most one non-rejected registration per (candidate key, club, season),
// enforced by a partial unique index in PostgreSQL and by the same check
// under the mutex in the memory store.
package store

import (
	"context"

	"rinkside/internal/registration/models"
	id "rinkside/pkg/domain"
)

// Store is the registration persistence surface.
type Store interface {
	// Create inserts a pending registration. A concurrent or earlier active
	// registration for the same (candidate key, club, season) fails with
	// sentinel.ErrDuplicate; the constraint is the arbiter of the race.
	Create(ctx context.Context, r *models.Registration) error

	Get(ctx context.Context, registrationID id.RegistrationID) (*models.Registration, error)

	// HasActive reports whether a non-rejected registration exists for the
	// key. Lookup failures propagate: the duplicate check fails closed.
	HasActive(ctx context.Context, candidateKey string, clubID id.ClubID, season int) (bool, error)

	// Execute runs validate-then-mutate while holding the row lock (mutex
	// or FOR UPDATE), then persists the mutated registration.
	Execute(ctx context.Context, registrationID id.RegistrationID,
		validate func(*models.Registration) error,
		mutate func(*models.Registration)) (*models.Registration, error)

	// ListByStatus returns registrations in a state, oldest first.
	ListByStatus(ctx context.Context, status models.Status) ([]models.Registration, error)

	// Delete removes a registration. Only the commit rollback path calls it.
	Delete(ctx context.Context, registrationID id.RegistrationID) error
}
