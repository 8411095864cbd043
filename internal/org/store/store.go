// Package store persists the organization hierarchy. Implementations come in
// a memory pair for tests/demo and a PostgreSQL pair for production; both
// return sentinel errors that services translate into domain errors.
package store

import (
	"context"

	"rinkside/internal/org/models"
	id "rinkside/pkg/domain"
	"rinkside/pkg/platform/sentinel"
)

// ErrNotFound keeps store-specific lookup misses consistent across
// implementations.
var ErrNotFound = sentinel.ErrNotFound

// OwnerType identifies which entity owns a fee schedule.
type OwnerType string

const (
	OwnerAssociation OwnerType = "association"
	OwnerClub        OwnerType = "club"
)

// Store is the association/club collaborator surface the registration core
// consumes. The core reads it; administrators write it.
type Store interface {
	CreateAssociation(ctx context.Context, a *models.Association) error
	GetAssociation(ctx context.Context, assocID id.AssociationID) (*models.Association, error)
	CreateClub(ctx context.Context, c *models.Club) error
	GetClub(ctx context.Context, clubID id.ClubID) (*models.Club, error)
	ListFees(ctx context.Context, owner OwnerType, ownerID string) ([]models.Fee, error)
	SetFees(ctx context.Context, owner OwnerType, ownerID string, fees []models.Fee) error

	// CountLevels returns the number of distinct association levels present.
	// The tree walker uses it as the traversal bound for cycle detection.
	CountLevels(ctx context.Context) (int, error)
}
