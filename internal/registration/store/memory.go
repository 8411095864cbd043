package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"rinkside/internal/org/fees"
	"rinkside/internal/registration/models"
	id "rinkside/pkg/domain"
	"rinkside/pkg/platform/sentinel"
)

// InMemory keeps registrations in maps for tests and the demo environment.
// The active index mirrors the PostgreSQL partial unique index.
type InMemory struct {
	mu            sync.Mutex
	registrations map[string]*models.Registration
	active        map[string]string // activeKey -> registration id
}

func NewInMemory() *InMemory {
	return &InMemory{
		registrations: make(map[string]*models.Registration),
		active:        make(map[string]string),
	}
}

func activeKey(candidateKey string, clubID id.ClubID, season int) string {
	return fmt.Sprintf("%s|%s|%d", candidateKey, clubID, season)
}

func (s *InMemory) Create(_ context.Context, r *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := activeKey(r.CandidateKey, r.ClubID, r.Season)
	if _, exists := s.active[key]; exists {
		return sentinel.ErrDuplicate
	}
	if _, exists := s.registrations[r.ID.String()]; exists {
		return sentinel.ErrDuplicate
	}

	s.registrations[r.ID.String()] = cloneRegistration(r)
	if r.IsActive() {
		s.active[key] = r.ID.String()
	}
	return nil
}

func (s *InMemory) Get(_ context.Context, registrationID id.RegistrationID) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.registrations[registrationID.String()]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneRegistration(r), nil
}

func (s *InMemory) HasActive(_ context.Context, candidateKey string, clubID id.ClubID, season int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.active[activeKey(candidateKey, clubID, season)]
	return exists, nil
}

func (s *InMemory) Execute(_ context.Context, registrationID id.RegistrationID,
	validate func(*models.Registration) error,
	mutate func(*models.Registration)) (*models.Registration, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.registrations[registrationID.String()]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	if err := validate(r); err != nil {
		return nil, err
	}

	wasActive := r.IsActive()
	mutate(r)
	r.UpdatedAt = time.Now().UTC()

	// A rejection frees the duplicate slot.
	if wasActive && !r.IsActive() {
		delete(s.active, activeKey(r.CandidateKey, r.ClubID, r.Season))
	}
	return cloneRegistration(r), nil
}

func (s *InMemory) ListByStatus(_ context.Context, status models.Status) ([]models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Registration
	for _, r := range s.registrations {
		if r.Status == status {
			out = append(out, *cloneRegistration(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) Delete(_ context.Context, registrationID id.RegistrationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.registrations[registrationID.String()]
	if !ok {
		return sentinel.ErrNotFound
	}
	if r.IsActive() {
		delete(s.active, activeKey(r.CandidateKey, r.ClubID, r.Season))
	}
	delete(s.registrations, registrationID.String())
	return nil
}

func cloneRegistration(r *models.Registration) *models.Registration {
	copied := *r
	copied.Items = append([]fees.LineItem{}, r.Items...)
	return &copied
}
