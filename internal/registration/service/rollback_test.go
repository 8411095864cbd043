package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	memberModels "rinkside/internal/member/models"
	registrationModels "rinkside/internal/registration/models"
	"rinkside/internal/registration/service/mocks"
	"rinkside/pkg/dates"
	id "rinkside/pkg/domain"
	dErrors "rinkside/pkg/domain-errors"
	"rinkside/pkg/platform/sentinel"
)

type commitMocks struct {
	members *mocks.MockMemberStore
	regs    *mocks.MockRegistrationStore
	pays    *mocks.MockPaymentStore
}

func newMockedService(t *testing.T) (*Service, commitMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := commitMocks{
		members: mocks.NewMockMemberStore(ctrl),
		regs:    mocks.NewMockRegistrationStore(ctrl),
		pays:    mocks.NewMockPaymentStore(ctrl),
	}
	svc := New(Config{
		Members:       m.members,
		Registrations: m.regs,
		Payments:      m.pays,
		Currency:      "EUR",
	})
	return svc, m
}

func eligibleSummary() *registrationModels.Summary {
	return &registrationModels.Summary{
		Candidate: memberModels.Candidate{
			FirstName: "Emma",
			LastName:  "Lindqvist",
			DOB:       dates.New(2014, time.June, 1),
		},
		ClubID:       id.NewClubID(),
		DivisionCode: "U13",
		Season:       2026,
		Eligibility:  registrationModels.Verdict{Eligible: true, ComputedAge: 12, DivisionCode: "U13", AllowedMin: 10, AllowedMax: 13},
		Total:        10500,
		Currency:     "EUR",
	}
}

func TestCommitRegistrationFailureDeletesCreatedMember(t *testing.T) {
	svc, m := newMockedService(t)
	ctx := context.Background()
	summary := eligibleSummary()

	var createdID id.MemberID
	m.regs.EXPECT().HasActive(gomock.Any(), summary.Candidate.Key(), summary.ClubID, 2026).Return(false, nil)
	m.members.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, member *memberModels.Member) error {
			createdID = member.ID
			return nil
		})
	m.regs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
	m.members.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, memberID id.MemberID) error {
			assert.Equal(t, createdID, memberID)
			return nil
		})

	_, err := svc.Commit(ctx, summary)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestCommitPaymentFailureDeletesRegistrationAndCreatedMember(t *testing.T) {
	svc, m := newMockedService(t)
	ctx := context.Background()
	summary := eligibleSummary()

	var regID id.RegistrationID
	m.regs.EXPECT().HasActive(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	m.members.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	m.regs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, reg *registrationModels.Registration) error {
			regID = reg.ID
			return nil
		})
	m.pays.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("payment backend down"))
	m.regs.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, deleted id.RegistrationID) error {
			assert.Equal(t, regID, deleted)
			return nil
		})
	m.members.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.Commit(ctx, summary)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestCommitPaymentFailureNeverDeletesExistingMember(t *testing.T) {
	svc, m := newMockedService(t)
	ctx := context.Background()

	existing := &memberModels.Member{
		ID:             id.NewMemberID(),
		FirstName:      "Emma",
		LastName:       "Lindqvist",
		DOB:            dates.New(2014, time.June, 1),
		ClubID:         id.NewClubID(),
		Type:           memberModels.TypePlayer,
		Status:         memberModels.StatusActive,
		JoinedSeason:   2025,
		RenewalSeasons: []int{2025},
	}
	summary := eligibleSummary()
	summary.Member = &registrationModels.Suggestion{MemberID: existing.ID, Confidence: "high"}

	m.regs.EXPECT().HasActive(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	m.members.EXPECT().Get(gomock.Any(), existing.ID).Return(existing, nil)
	m.members.EXPECT().AddRenewalSeason(gomock.Any(), existing.ID, 2026).Return(nil)
	m.regs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	m.pays.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("payment backend down"))
	m.regs.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
	// No members.Delete expectation: deleting the pre-existing member would
	// fail the test.

	_, err := svc.Commit(ctx, summary)
	require.Error(t, err)
}

func TestCommitDuplicateCheckFailsClosed(t *testing.T) {
	svc, m := newMockedService(t)

	m.regs.EXPECT().HasActive(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(false, errors.New("store timeout"))

	_, err := svc.Commit(context.Background(), eligibleSummary())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable), "no writes on an unverifiable duplicate check")
}

func TestCommitConstraintLossMapsToDuplicate(t *testing.T) {
	svc, m := newMockedService(t)

	m.regs.EXPECT().HasActive(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	m.members.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	m.regs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrDuplicate)
	m.members.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.Commit(context.Background(), eligibleSummary())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeDuplicateRegistration))
}

func TestCommitRollbackFailureStillReturnsOriginalError(t *testing.T) {
	svc, m := newMockedService(t)

	m.regs.EXPECT().HasActive(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	m.members.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	m.regs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
	m.members.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("delete also failed"))

	_, err := svc.Commit(context.Background(), eligibleSummary())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}
