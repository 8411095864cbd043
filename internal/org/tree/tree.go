// Package tree walks the association hierarchy.
//
// The walk is iterative with a hard bound of one visit per distinct level:
// parent levels must strictly decrease toward the root, so any traversal
// exceeding the bound means corrupt parent pointers. That turns cycle
// detection into a cheap counter check instead of a visited set.
package tree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"rinkside/internal/org/models"
	id "rinkside/pkg/domain"
	dErrors "rinkside/pkg/domain-errors"
	"rinkside/pkg/platform/sentinel"
)

// Store is the subset of the organization store the walker needs.
type Store interface {
	GetClub(ctx context.Context, clubID id.ClubID) (*models.Club, error)
	GetAssociation(ctx context.Context, assocID id.AssociationID) (*models.Association, error)
	CountLevels(ctx context.Context) (int, error)
}

// Walker resolves ancestor chains from the read-only organization store.
type Walker struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Walker {
	return &Walker{store: store, logger: logger}
}

// AncestorChain returns the club's association chain ordered root (level 0)
// first, ending at the club's direct association.
//
// A missing club or association fails with CodeNotFound. A malformed
// hierarchy (non-decreasing levels, walk exceeding the level bound, or a
// dangling root above level 0) fails with CodeCycleDetected; that is a
// data-integrity alarm, never retried.
func (w *Walker) AncestorChain(ctx context.Context, clubID id.ClubID) ([]models.Association, error) {
	club, err := w.store.GetClub(ctx, clubID)
	if err != nil {
		return nil, translateLookupErr(err, fmt.Sprintf("club %s not found", clubID))
	}

	bound, err := w.store.CountLevels(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "organization store unavailable")
	}

	// Collected leaf-to-root, reversed before returning.
	var chain []models.Association
	next := club.AssociationID
	prevLevel := -1

	for !next.IsNil() {
		assoc, err := w.store.GetAssociation(ctx, next)
		if err != nil {
			return nil, translateLookupErr(err, fmt.Sprintf("association %s not found", next))
		}
		if len(chain)+1 > bound {
			return nil, w.integrityFailure(ctx, clubID, "ancestor walk exceeded level bound")
		}
		if prevLevel >= 0 && assoc.Level >= prevLevel {
			return nil, w.integrityFailure(ctx, clubID, "parent level does not decrease")
		}
		if assoc.Level == 0 && !assoc.ParentID.IsNil() {
			return nil, w.integrityFailure(ctx, clubID, "level-0 association has a parent")
		}
		chain = append(chain, *assoc)
		prevLevel = assoc.Level
		next = assoc.ParentID
	}

	if len(chain) == 0 || chain[len(chain)-1].Level != 0 {
		return nil, w.integrityFailure(ctx, clubID, "chain does not terminate at level 0")
	}

	// Reverse to root-first order.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func (w *Walker) integrityFailure(ctx context.Context, clubID id.ClubID, detail string) error {
	if w.logger != nil {
		w.logger.ErrorContext(ctx, "association hierarchy integrity failure",
			"club_id", clubID,
			"detail", detail,
		)
	}
	return dErrors.New(dErrors.CodeCycleDetected, "association hierarchy is corrupt")
}

func translateLookupErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, msg)
	}
	if errors.Is(err, sentinel.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "organization store unavailable")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "organization lookup failed")
}
