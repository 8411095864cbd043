// Package fees aggregates applicable fees along an association chain.
package fees

import (
	"context"
	"time"

	orgmetrics "rinkside/internal/org/metrics"
	"rinkside/internal/org/models"
	"rinkside/pkg/dates"
	id "rinkside/pkg/domain"
	dErrors "rinkside/pkg/domain-errors"
	"rinkside/pkg/money"
)

// OwnerKind tags which hierarchy node contributed a line item.
type OwnerKind string

const (
	OwnerAssociation OwnerKind = "association"
	OwnerClub        OwnerKind = "club"
)

// Provenance records where a line item came from, for display and audit.
type Provenance struct {
	Kind      OwnerKind `json:"kind"`
	OwnerID   string    `json:"owner_id"`
	OwnerName string    `json:"owner_name"`
	// Depth is the node's position in the visited order: 0 is the national
	// root, the club sits one past the deepest association.
	Depth int `json:"depth"`
}

// LineItem is one priced entry in a fee breakdown. Superseded entries stay
// listed for transparency but are excluded from the total.
type LineItem struct {
	FeeID      id.FeeID        `json:"fee_id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Scope      models.FeeScope `json:"scope"`
	Amount     money.Amount    `json:"amount"`
	Source     Provenance      `json:"source"`
	Superseded bool            `json:"superseded"`

	// key is the fee's override key, kept for supersede matching only.
	key string
}

// Breakdown is an ordered fee computation result. Item order is the visit
// order (root fees first, club fees last) and is significant for display.
type Breakdown struct {
	Items []LineItem   `json:"items"`
	Total money.Amount `json:"total"`
}

// ChainProvider yields a club's association chain, root first.
type ChainProvider interface {
	AncestorChain(ctx context.Context, clubID id.ClubID) ([]models.Association, error)
}

// ClubStore is the single lookup the resolver needs beyond the chain.
type ClubStore interface {
	GetClub(ctx context.Context, clubID id.ClubID) (*models.Club, error)
}

// Resolver walks root→leaf and aggregates matching fees.
type Resolver struct {
	chains  ChainProvider
	clubs   ClubStore
	metrics *orgmetrics.Metrics
}

func NewResolver(chains ChainProvider, clubs ClubStore, m *orgmetrics.Metrics) *Resolver {
	return &Resolver{chains: chains, clubs: clubs, metrics: m}
}

// Resolve aggregates the fees applicable to a member category on the
// effective date, visiting the ancestor chain root-first and the club last.
//
// All matching fees are additive unless a deeper node carries a fee with the
// same override key, in which case the more specific fee supersedes the
// ancestor's: the ancestor entry stays in the breakdown flagged superseded
// and drops out of the total. Totals are exact integer minor-unit sums.
func (r *Resolver) Resolve(ctx context.Context, clubID id.ClubID, category string, effective dates.Date) (*Breakdown, error) {
	start := time.Now()
	defer func() {
		if r.metrics != nil {
			r.metrics.ObserveFeeResolve(start)
		}
	}()

	chain, err := r.chains.AncestorChain(ctx, clubID)
	if err != nil {
		return nil, err
	}
	club, err := r.clubs.GetClub(ctx, clubID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "club not found")
	}

	b := &Breakdown{Items: []LineItem{}}
	for depth, assoc := range chain {
		src := Provenance{Kind: OwnerAssociation, OwnerID: assoc.ID.String(), OwnerName: assoc.Name, Depth: depth}
		appendMatching(b, assoc.Fees, category, effective, src)
	}
	clubSrc := Provenance{Kind: OwnerClub, OwnerID: club.ID.String(), OwnerName: club.Name, Depth: len(chain)}
	appendMatching(b, club.Fees, category, effective, clubSrc)

	for i := range b.Items {
		if !b.Items[i].Superseded {
			b.Total = b.Total.Add(b.Items[i].Amount)
		}
	}
	return b, nil
}

func appendMatching(b *Breakdown, schedule []models.Fee, category string, effective dates.Date, src Provenance) {
	for i := range schedule {
		fee := &schedule[i]
		if !fee.AppliesTo(category, effective) {
			continue
		}
		item := LineItem{
			FeeID:    fee.ID,
			Name:     fee.Name,
			Category: fee.Category,
			Scope:    fee.Scope,
			Amount:   fee.Amount,
			Source:   src,
			key:      fee.OverrideKey(),
		}
		// A deeper node's fee supersedes ancestor fees with the same key.
		// Same-depth fees never supersede each other; they are additive.
		for j := range b.Items {
			prior := &b.Items[j]
			if prior.Superseded || prior.Source.Depth >= src.Depth {
				continue
			}
			if prior.key == item.key {
				prior.Superseded = true
			}
		}
		b.Items = append(b.Items, item)
	}
}
