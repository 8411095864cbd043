package store

import (
	"context"
	"sync"

	"rinkside/internal/org/models"
	id "rinkside/pkg/domain"
	"rinkside/pkg/platform/sentinel"
)

// InMemory stores the hierarchy in maps for tests and the demo environment.
type InMemory struct {
	mu           sync.RWMutex
	associations map[string]*models.Association
	clubs        map[string]*models.Club
}

// NewInMemory creates an in-memory organization store.
func NewInMemory() *InMemory {
	return &InMemory{
		associations: make(map[string]*models.Association),
		clubs:        make(map[string]*models.Club),
	}
}

func (s *InMemory) CreateAssociation(_ context.Context, a *models.Association) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := a.ID.String()
	if _, exists := s.associations[key]; exists {
		return sentinel.ErrDuplicate
	}
	s.associations[key] = cloneAssociation(a)
	return nil
}

func (s *InMemory) GetAssociation(_ context.Context, assocID id.AssociationID) (*models.Association, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.associations[assocID.String()]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneAssociation(a), nil
}

func (s *InMemory) CreateClub(_ context.Context, c *models.Club) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := c.ID.String()
	if _, exists := s.clubs[key]; exists {
		return sentinel.ErrDuplicate
	}
	s.clubs[key] = cloneClub(c)
	return nil
}

func (s *InMemory) GetClub(_ context.Context, clubID id.ClubID) (*models.Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clubs[clubID.String()]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneClub(c), nil
}

func (s *InMemory) ListFees(_ context.Context, owner OwnerType, ownerID string) ([]models.Fee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch owner {
	case OwnerAssociation:
		a, ok := s.associations[ownerID]
		if !ok {
			return nil, ErrNotFound
		}
		return append([]models.Fee{}, a.Fees...), nil
	case OwnerClub:
		c, ok := s.clubs[ownerID]
		if !ok {
			return nil, ErrNotFound
		}
		return append([]models.Fee{}, c.Fees...), nil
	}
	return nil, ErrNotFound
}

func (s *InMemory) SetFees(_ context.Context, owner OwnerType, ownerID string, fees []models.Fee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch owner {
	case OwnerAssociation:
		a, ok := s.associations[ownerID]
		if !ok {
			return ErrNotFound
		}
		a.Fees = append([]models.Fee{}, fees...)
		return nil
	case OwnerClub:
		c, ok := s.clubs[ownerID]
		if !ok {
			return ErrNotFound
		}
		c.Fees = append([]models.Fee{}, fees...)
		return nil
	}
	return ErrNotFound
}

func (s *InMemory) CountLevels(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	levels := make(map[int]struct{})
	for _, a := range s.associations {
		levels[a.Level] = struct{}{}
	}
	return len(levels), nil
}

// Clones keep callers from mutating stored state through returned pointers.
func cloneAssociation(a *models.Association) *models.Association {
	copied := *a
	copied.Fees = append([]models.Fee{}, a.Fees...)
	return &copied
}

func cloneClub(c *models.Club) *models.Club {
	copied := *c
	copied.Fees = append([]models.Fee{}, c.Fees...)
	return &copied
}
