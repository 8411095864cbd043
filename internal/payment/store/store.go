// Package store persists payment placeholders.
package store

import (
	"context"

	"rinkside/internal/payment/models"
	id "rinkside/pkg/domain"
)

type Store interface {
	Create(ctx context.Context, p *models.Payment) error
	Get(ctx context.Context, paymentID id.PaymentID) (*models.Payment, error)
	GetByRegistration(ctx context.Context, registrationID id.RegistrationID) (*models.Payment, error)
}
