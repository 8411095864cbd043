package service

//go:generate mockgen -source=contracts.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"rinkside/internal/member/matcher"
	memberModels "rinkside/internal/member/models"
	memberStore "rinkside/internal/member/store"
	"rinkside/internal/org/fees"
	paymentStore "rinkside/internal/payment/store"
	registrationStore "rinkside/internal/registration/store"
	"rinkside/pkg/dates"
	id "rinkside/pkg/domain"
)

// FeeResolver computes the priced breakdown for a club and category.
type FeeResolver interface {
	Resolve(ctx context.Context, clubID id.ClubID, category string, effective dates.Date) (*fees.Breakdown, error)
}

// Matcher locates returning players. Read-only; no match is (nil, nil).
type Matcher interface {
	Find(ctx context.Context, candidate memberModels.Candidate) (*matcher.Match, error)
}

// Store aliases keep the constructor signature readable and give mockgen a
// single package to point at.
type (
	MemberStore       = memberStore.Store
	RegistrationStore = registrationStore.Store
	PaymentStore      = paymentStore.Store
)
