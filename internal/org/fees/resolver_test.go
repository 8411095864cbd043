package fees

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rinkside/internal/org/models"
	"rinkside/internal/org/store"
	"rinkside/internal/org/tree"
	"rinkside/pkg/dates"
	id "rinkside/pkg/domain"
	dErrors "rinkside/pkg/domain-errors"
	"rinkside/pkg/money"
)

func activeFee(name, category string, amount money.Amount) models.Fee {
	return models.Fee{
		ID:       id.NewFeeID(),
		Name:     name,
		Category: category,
		Scope:    models.ScopePlayer,
		Amount:   amount,
		Active:   true,
	}
}

// seedOrg builds national -> state with a club under the state association.
func seedOrg(t *testing.T, s *store.InMemory, national, state, club []models.Fee) id.ClubID {
	t.Helper()
	ctx := context.Background()

	nat := &models.Association{ID: id.NewAssociationID(), Code: "NAT", Name: "National", Level: 0, Status: models.StatusActive, Fees: national}
	st := &models.Association{ID: id.NewAssociationID(), Code: "ST", Name: "State", Level: 1, ParentID: nat.ID, Status: models.StatusActive, Fees: state}
	require.NoError(t, s.CreateAssociation(ctx, nat))
	require.NoError(t, s.CreateAssociation(ctx, st))

	c := &models.Club{ID: id.NewClubID(), Slug: "ice-wolves", Name: "Ice Wolves", AssociationID: st.ID, Status: models.StatusActive, Fees: club}
	require.NoError(t, s.CreateClub(ctx, c))
	return c.ID
}

func newResolver(s *store.InMemory) *Resolver {
	return NewResolver(tree.New(s, nil), s, nil)
}

func TestResolveRootToLeafOrderAndTotal(t *testing.T) {
	s := store.NewInMemory()
	clubID := seedOrg(t, s,
		[]models.Fee{activeFee("National Levy", models.CategoryAll, 1500)},
		[]models.Fee{activeFee("State Levy", models.CategoryAll, 2500)},
		[]models.Fee{activeFee("Club Membership", "U13", 9000)},
	)

	b, err := newResolver(s).Resolve(context.Background(), clubID, "U13", dates.New(2026, time.September, 1))
	require.NoError(t, err)
	require.Len(t, b.Items, 3)

	assert.Equal(t, "National Levy", b.Items[0].Name)
	assert.Equal(t, "State Levy", b.Items[1].Name)
	assert.Equal(t, "Club Membership", b.Items[2].Name)
	assert.Equal(t, OwnerAssociation, b.Items[0].Source.Kind)
	assert.Equal(t, OwnerClub, b.Items[2].Source.Kind)
	assert.Equal(t, money.Amount(13000), b.Total)
}

func TestResolveCategoryFilter(t *testing.T) {
	s := store.NewInMemory()
	clubID := seedOrg(t, s,
		[]models.Fee{activeFee("National Levy", models.CategoryAll, 1500)},
		nil,
		[]models.Fee{
			activeFee("Junior Membership", "U13", 9000),
			activeFee("Senior Membership", "SEN", 12000),
		},
	)

	b, err := newResolver(s).Resolve(context.Background(), clubID, "u13", dates.New(2026, time.September, 1))
	require.NoError(t, err)
	require.Len(t, b.Items, 2, "category match is case-insensitive, wildcard always applies")
	assert.Equal(t, money.Amount(10500), b.Total)
}

func TestResolveValidityWindow(t *testing.T) {
	s := store.NewInMemory()

	expired := activeFee("Early Bird", models.CategoryAll, 5000)
	expired.Validity = dates.Window{To: dates.New(2026, time.June, 30)}
	inactive := activeFee("Suspended Levy", models.CategoryAll, 700)
	inactive.Active = false

	clubID := seedOrg(t, s, nil, nil, []models.Fee{
		expired,
		inactive,
		activeFee("Club Membership", models.CategoryAll, 9000),
	})

	b, err := newResolver(s).Resolve(context.Background(), clubID, "U13", dates.New(2026, time.September, 1))
	require.NoError(t, err)
	require.Len(t, b.Items, 1)
	assert.Equal(t, "Club Membership", b.Items[0].Name)
	assert.Equal(t, money.Amount(9000), b.Total)
}

func TestResolveClubSupersedesAncestorByName(t *testing.T) {
	s := store.NewInMemory()
	clubID := seedOrg(t, s,
		[]models.Fee{activeFee("Insurance", models.CategoryAll, 3000)},
		nil,
		[]models.Fee{activeFee("insurance", models.CategoryAll, 2000)},
	)

	b, err := newResolver(s).Resolve(context.Background(), clubID, "U13", dates.New(2026, time.September, 1))
	require.NoError(t, err)
	require.Len(t, b.Items, 2, "superseded fee stays listed")

	assert.True(t, b.Items[0].Superseded, "ancestor fee with the same name is superseded")
	assert.False(t, b.Items[1].Superseded)
	assert.Equal(t, money.Amount(2000), b.Total, "only the club's fee counts")
}

func TestResolveSupersedesByExplicitKey(t *testing.T) {
	s := store.NewInMemory()

	national := activeFee("Base Insurance Levy", models.CategoryAll, 3000)
	national.SupersedesKey = "insurance"
	club := activeFee("Club Insurance Package", models.CategoryAll, 2500)
	club.SupersedesKey = "Insurance"

	clubID := seedOrg(t, s, []models.Fee{national}, nil, []models.Fee{club})

	b, err := newResolver(s).Resolve(context.Background(), clubID, "U13", dates.New(2026, time.September, 1))
	require.NoError(t, err)
	require.Len(t, b.Items, 2)
	assert.True(t, b.Items[0].Superseded, "explicit keys match despite differing names")
	assert.Equal(t, money.Amount(2500), b.Total)
}

func TestResolveIntermediateSupersededByDeeperAssociation(t *testing.T) {
	s := store.NewInMemory()
	ctx := context.Background()

	nat := &models.Association{ID: id.NewAssociationID(), Code: "NAT", Name: "National", Level: 0, Status: models.StatusActive,
		Fees: []models.Fee{activeFee("Development Fund", models.CategoryAll, 1000)}}
	st := &models.Association{ID: id.NewAssociationID(), Code: "ST", Name: "State", Level: 1, ParentID: nat.ID, Status: models.StatusActive,
		Fees: []models.Fee{activeFee("Development Fund", models.CategoryAll, 800)}}
	reg := &models.Association{ID: id.NewAssociationID(), Code: "REG", Name: "Regional", Level: 2, ParentID: st.ID, Status: models.StatusActive}
	require.NoError(t, s.CreateAssociation(ctx, nat))
	require.NoError(t, s.CreateAssociation(ctx, st))
	require.NoError(t, s.CreateAssociation(ctx, reg))

	c := &models.Club{ID: id.NewClubID(), Slug: "deep", Name: "Deep Club", AssociationID: reg.ID, Status: models.StatusActive}
	require.NoError(t, s.CreateClub(ctx, c))

	b, err := newResolver(s).Resolve(ctx, c.ID, "U13", dates.New(2026, time.September, 1))
	require.NoError(t, err)
	require.Len(t, b.Items, 2)
	assert.True(t, b.Items[0].Superseded, "national fee superseded by state fee")
	assert.False(t, b.Items[1].Superseded)
	assert.Equal(t, money.Amount(800), b.Total)
}

func TestResolveSameNameSameDepthIsAdditive(t *testing.T) {
	s := store.NewInMemory()
	clubID := seedOrg(t, s, nil, nil, []models.Fee{
		activeFee("Tournament Fee", models.CategoryAll, 500),
		activeFee("Tournament Fee", models.CategoryAll, 500),
	})

	b, err := newResolver(s).Resolve(context.Background(), clubID, "U13", dates.New(2026, time.September, 1))
	require.NoError(t, err)
	require.Len(t, b.Items, 2)
	assert.False(t, b.Items[0].Superseded)
	assert.False(t, b.Items[1].Superseded)
	assert.Equal(t, money.Amount(1000), b.Total)
}

func TestResolveNoMatchingFees(t *testing.T) {
	s := store.NewInMemory()
	clubID := seedOrg(t, s, nil, nil, []models.Fee{activeFee("Senior Membership", "SEN", 12000)})

	b, err := newResolver(s).Resolve(context.Background(), clubID, "U13", dates.New(2026, time.September, 1))
	require.NoError(t, err)
	assert.Empty(t, b.Items)
	assert.Equal(t, money.Amount(0), b.Total)
}

func TestResolveUnknownClub(t *testing.T) {
	s := store.NewInMemory()
	seedOrg(t, s, nil, nil, nil)

	_, err := newResolver(s).Resolve(context.Background(), id.NewClubID(), "U13", dates.New(2026, time.September, 1))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
