// Package models holds the payment placeholder created alongside a committed
// registration. Capture and settlement happen outside this service.
package models

import (
	"time"

	id "rinkside/pkg/domain"
	"rinkside/pkg/money"
)

type Status string

const (
	// StatusCreated is the only status this service assigns. Downstream
	// billing moves payments onward.
	StatusCreated Status = "created"
)

type Payment struct {
	ID             id.PaymentID      `json:"id"`
	RegistrationID id.RegistrationID `json:"registration_id"`
	Amount         money.Amount      `json:"amount"`
	Currency       string            `json:"currency"`
	Status         Status            `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
}
