//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rinkside/internal/org/fees"
	"rinkside/internal/registration/models"
	"rinkside/internal/registration/store"
	id "rinkside/pkg/domain"
	dErrors "rinkside/pkg/domain-errors"
	"rinkside/pkg/money"
	"rinkside/pkg/platform/sentinel"
	"rinkside/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	clubID   id.ClubID
	memberID id.MemberID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateAll(ctx))

	assocID := s.postgres.CreateTestAssociation(ctx, s.T())
	s.clubID = s.postgres.CreateTestClub(ctx, s.T(), assocID)
	s.memberID = s.postgres.CreateTestMember(ctx, s.T(), s.clubID)
}

func (s *PostgresStoreSuite) newRegistration() *models.Registration {
	return &models.Registration{
		ID:           id.NewRegistrationID(),
		MemberID:     s.memberID,
		ClubID:       s.clubID,
		Season:       2026,
		DivisionCode: "U15",
		CandidateKey: "test|member|2012-01-15",
		Items: []fees.LineItem{
			{FeeID: id.NewFeeID(), Name: "Club Membership", Category: "U15", Amount: 9000},
		},
		Total:    money.Amount(9000),
		Currency: "EUR",
		Status:   models.StatusPending,
	}
}

func (s *PostgresStoreSuite) TestCreateAndGetRoundTrip() {
	ctx := context.Background()
	reg := s.newRegistration()
	s.Require().NoError(s.store.Create(ctx, reg))

	got, err := s.store.Get(ctx, reg.ID)
	s.Require().NoError(err)
	s.Equal(reg.CandidateKey, got.CandidateKey)
	s.Equal(reg.Total, got.Total)
	s.Require().Len(got.Items, 1)
	s.Equal("Club Membership", got.Items[0].Name)
}

// TestConcurrentCreateOneWinner verifies that the partial unique index
// arbitrates concurrent inserts for the same candidate, club, and season.
func (s *PostgresStoreSuite) TestConcurrentCreateOneWinner() {
	ctx := context.Background()

	const goroutines = 10
	var wg sync.WaitGroup
	var created, duplicates atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(ctx, s.newRegistration())
			switch err {
			case nil:
				created.Add(1)
			case sentinel.ErrDuplicate:
				duplicates.Add(1)
			default:
				s.T().Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), created.Load(), "exactly one insert wins")
	s.Equal(int32(goroutines-1), duplicates.Load())
}

func (s *PostgresStoreSuite) TestRejectionFreesSlot() {
	ctx := context.Background()
	reg := s.newRegistration()
	s.Require().NoError(s.store.Create(ctx, reg))

	_, err := s.store.Execute(ctx, reg.ID,
		func(r *models.Registration) error { return nil },
		func(r *models.Registration) {
			r.Status = models.StatusRejected
			r.RejectionReason = "withdrew"
		},
	)
	s.Require().NoError(err)

	active, err := s.store.HasActive(ctx, reg.CandidateKey, reg.ClubID, reg.Season)
	s.Require().NoError(err)
	s.False(active)

	s.Require().NoError(s.store.Create(ctx, s.newRegistration()))
}

// TestConcurrentDecisionsSerialize verifies that FOR UPDATE row locking lets
// exactly one of many concurrent approvals through the pending check.
func (s *PostgresStoreSuite) TestConcurrentDecisionsSerialize() {
	ctx := context.Background()
	reg := s.newRegistration()
	s.Require().NoError(s.store.Create(ctx, reg))

	const goroutines = 10
	var wg sync.WaitGroup
	var approved atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(ctx, reg.ID,
				func(r *models.Registration) error {
					if !r.Status.CanTransitionTo(models.StatusApproved) {
						return dErrors.New(dErrors.CodeInvalidStateTransition, "not pending")
					}
					return nil
				},
				func(r *models.Registration) { r.Status = models.StatusApproved },
			)
			if err == nil {
				approved.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), approved.Load(), "only one transition out of pending")

	got, err := s.store.Get(ctx, reg.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, got.Status)
}

func (s *PostgresStoreSuite) TestListByStatusOldestFirst() {
	ctx := context.Background()

	first := s.newRegistration()
	s.Require().NoError(s.store.Create(ctx, first))
	time.Sleep(10 * time.Millisecond)

	second := s.newRegistration()
	second.CandidateKey = "other|candidate|2011-02-02"
	s.Require().NoError(s.store.Create(ctx, second))

	pending, err := s.store.ListByStatus(ctx, models.StatusPending)
	s.Require().NoError(err)
	s.Require().Len(pending, 2)
	s.Equal(first.ID, pending[0].ID)
	s.Equal(second.ID, pending[1].ID)
}

func (s *PostgresStoreSuite) TestDelete() {
	ctx := context.Background()
	reg := s.newRegistration()
	s.Require().NoError(s.store.Create(ctx, reg))

	s.Require().NoError(s.store.Delete(ctx, reg.ID))
	_, err := s.store.Get(ctx, reg.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.ErrorIs(s.store.Delete(ctx, reg.ID), sentinel.ErrNotFound)
}
