package store

import (
	"context"
	"sync"

	"rinkside/internal/payment/models"
	id "rinkside/pkg/domain"
	"rinkside/pkg/platform/sentinel"
)

// InMemory keeps payments in a map for tests and the demo environment.
type InMemory struct {
	mu       sync.RWMutex
	payments map[string]*models.Payment
}

func NewInMemory() *InMemory {
	return &InMemory{payments: make(map[string]*models.Payment)}
}

func (s *InMemory) Create(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := p.ID.String()
	if _, exists := s.payments[key]; exists {
		return sentinel.ErrDuplicate
	}
	copied := *p
	s.payments[key] = &copied
	return nil
}

func (s *InMemory) Get(_ context.Context, paymentID id.PaymentID) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[paymentID.String()]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *InMemory) GetByRegistration(_ context.Context, registrationID id.RegistrationID) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.payments {
		if p.RegistrationID == registrationID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}
