package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"rinkside/internal/member/models"
	"rinkside/pkg/dates"
	id "rinkside/pkg/domain"
	"rinkside/pkg/platform/sentinel"
)

// InMemory keeps members in maps for tests and the demo environment.
type InMemory struct {
	mu      sync.RWMutex
	members map[string]*models.Member
	byKey   map[string]string // normalized key -> member id
}

func NewInMemory() *InMemory {
	return &InMemory{
		members: make(map[string]*models.Member),
		byKey:   make(map[string]string),
	}
}

func (s *InMemory) Create(_ context.Context, m *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	memberID := m.ID.String()
	if _, exists := s.members[memberID]; exists {
		return sentinel.ErrDuplicate
	}
	if _, exists := s.byKey[m.Key()]; exists {
		return sentinel.ErrDuplicate
	}
	s.members[memberID] = cloneMember(m)
	s.byKey[m.Key()] = memberID
	return nil
}

func (s *InMemory) Get(_ context.Context, memberID id.MemberID) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[memberID.String()]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneMember(m), nil
}

func (s *InMemory) FindByNameDOB(_ context.Context, first, last string, dob dates.Date) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	memberID, ok := s.byKey[models.NormalizedKey(first, last, dob)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneMember(s.members[memberID]), nil
}

func (s *InMemory) FindByEmail(_ context.Context, email string) ([]models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	var out []models.Member
	for _, m := range s.members {
		if strings.ToLower(strings.TrimSpace(m.Email)) == email {
			out = append(out, *cloneMember(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) AddRenewalSeason(_ context.Context, memberID id.MemberID, season int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[memberID.String()]
	if !ok {
		return sentinel.ErrNotFound
	}
	if !m.HasRenewedFor(season) {
		m.RenewalSeasons = append(m.RenewalSeasons, season)
		sort.Ints(m.RenewalSeasons)
	}
	return nil
}

func (s *InMemory) Delete(_ context.Context, memberID id.MemberID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[memberID.String()]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byKey, m.Key())
	delete(s.members, memberID.String())
	return nil
}

func cloneMember(m *models.Member) *models.Member {
	copied := *m
	copied.RenewalSeasons = append([]int{}, m.RenewalSeasons...)
	return &copied
}
