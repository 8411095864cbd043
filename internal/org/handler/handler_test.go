package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"rinkside/internal/org/fees"
	"rinkside/internal/org/models"
	"rinkside/internal/org/service"
	"rinkside/internal/org/store"
	"rinkside/internal/org/tree"
	id "rinkside/pkg/domain"
	"rinkside/pkg/money"
	"rinkside/pkg/platform/audit"
)

// recordingInvalidator captures which club chains fee edits invalidate.
type recordingInvalidator struct {
	clubs []id.ClubID
}

func (r *recordingInvalidator) Invalidate(_ context.Context, clubID id.ClubID) {
	r.clubs = append(r.clubs, clubID)
}

// HandlerSuite drives the org admin routes and the public fee preview
// against a real in-memory store.
type HandlerSuite struct {
	suite.Suite
	router      http.Handler
	invalidated *recordingInvalidator
}

func (s *HandlerSuite) SetupTest() {
	orgStore := store.NewInMemory()
	chains := tree.New(orgStore, nil)
	s.invalidated = &recordingInvalidator{}
	svc := service.New(orgStore, s.invalidated, audit.NewRecorder(audit.NewInMemoryStore(), nil, nil), nil)

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	r := chi.NewRouter()
	r.Route("/admin/org", New(svc, logger).Register)
	r.Route("/api", NewPreview(fees.NewResolver(chains, orgStore, nil), logger).Register)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) doJSON(method, path string, payload any) *httptest.ResponseRecorder {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(s.T(), err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) createAssociation(code string, level int, parentID string) models.Association {
	payload := map[string]any{"code": code, "name": code, "level": level}
	if parentID != "" {
		payload["parent_id"] = parentID
	}
	rec := s.doJSON(http.MethodPost, "/admin/org/associations", payload)
	require.Equal(s.T(), http.StatusCreated, rec.Code, rec.Body.String())

	var assoc models.Association
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&assoc))
	return assoc
}

func (s *HandlerSuite) createClub(associationID string) models.Club {
	rec := s.doJSON(http.MethodPost, "/admin/org/clubs", map[string]any{
		"slug":           "ice-wolves",
		"name":           "Ice Wolves",
		"association_id": associationID,
	})
	require.Equal(s.T(), http.StatusCreated, rec.Code, rec.Body.String())

	var club models.Club
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&club))
	return club
}

func (s *HandlerSuite) TestCreateAndGetAssociation() {
	assoc := s.createAssociation("NAT", 0, "")

	rec := s.doJSON(http.MethodGet, fmt.Sprintf("/admin/org/associations/%s", assoc.ID), nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var got models.Association
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(s.T(), "NAT", got.Code)
}

func (s *HandlerSuite) TestCreateAssociation_InvalidParentID() {
	rec := s.doJSON(http.MethodPost, "/admin/org/associations", map[string]any{
		"code": "REG", "name": "Regional", "level": 1, "parent_id": "not-a-uuid",
	})
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestCreateClub_UnknownAssociation() {
	rec := s.doJSON(http.MethodPost, "/admin/org/clubs", map[string]any{
		"slug": "ghosts", "name": "Ghosts", "association_id": "8f8e6d18-0c0f-43dc-97f4-6ea6a423d43a",
	})
	assert.Equal(s.T(), http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestSetFeesAndPreview() {
	national := s.createAssociation("NAT", 0, "")
	club := s.createClub(national.ID.String())

	rec := s.doJSON(http.MethodPut, fmt.Sprintf("/admin/org/associations/%s/fees", national.ID), map[string]any{
		"fees": []map[string]any{
			{"name": "National Levy", "category": "all", "scope": "player", "amount": 1500, "active": true},
		},
	})
	require.Equal(s.T(), http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.doJSON(http.MethodPut, fmt.Sprintf("/admin/org/clubs/%s/fees", club.ID), map[string]any{
		"fees": []map[string]any{
			{"name": "Club Membership", "category": "U13", "scope": "player", "amount": 9000, "active": true},
		},
	})
	require.Equal(s.T(), http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.doJSON(http.MethodGet, fmt.Sprintf("/api/clubs/%s/fees?category=U13", club.ID), nil)
	require.Equal(s.T(), http.StatusOK, rec.Code, rec.Body.String())

	var breakdown fees.Breakdown
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&breakdown))
	require.Len(s.T(), breakdown.Items, 2)
	assert.Equal(s.T(), "National Levy", breakdown.Items[0].Name)
	assert.Equal(s.T(), money.Amount(10500), breakdown.Total)
}

func (s *HandlerSuite) TestSetFees_InvalidatesClubChainOnly() {
	national := s.createAssociation("NAT", 0, "")
	club := s.createClub(national.ID.String())

	rec := s.doJSON(http.MethodPut, fmt.Sprintf("/admin/org/associations/%s/fees", national.ID), map[string]any{
		"fees": []map[string]any{
			{"name": "National Levy", "category": "all", "scope": "player", "amount": 1500, "active": true},
		},
	})
	require.Equal(s.T(), http.StatusNoContent, rec.Code, rec.Body.String())
	assert.Empty(s.T(), s.invalidated.clubs, "association edits propagate by cache TTL")

	rec = s.doJSON(http.MethodPut, fmt.Sprintf("/admin/org/clubs/%s/fees", club.ID), map[string]any{
		"fees": []map[string]any{
			{"name": "Club Membership", "category": "U13", "scope": "player", "amount": 9000, "active": true},
		},
	})
	require.Equal(s.T(), http.StatusNoContent, rec.Code, rec.Body.String())
	assert.Equal(s.T(), []id.ClubID{club.ID}, s.invalidated.clubs)
}

func (s *HandlerSuite) TestPreview_RequiresCategory() {
	national := s.createAssociation("NAT", 0, "")
	club := s.createClub(national.ID.String())

	rec := s.doJSON(http.MethodGet, fmt.Sprintf("/api/clubs/%s/fees", club.ID), nil)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestPreview_InvalidDate() {
	national := s.createAssociation("NAT", 0, "")
	club := s.createClub(national.ID.String())

	rec := s.doJSON(http.MethodGet, fmt.Sprintf("/api/clubs/%s/fees?category=U13&date=June", club.ID), nil)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestSetFees_InvalidFeeDate() {
	national := s.createAssociation("NAT", 0, "")

	rec := s.doJSON(http.MethodPut, fmt.Sprintf("/admin/org/associations/%s/fees", national.ID), map[string]any{
		"fees": []map[string]any{
			{"name": "Levy", "category": "all", "scope": "player", "amount": 100, "active": true, "valid_from": "soon"},
		},
	})
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestSetFees_UnknownOwner() {
	rec := s.doJSON(http.MethodPut, "/admin/org/clubs/1862d5a7-29da-4d5d-a2cb-b316fa542059/fees", map[string]any{
		"fees": []map[string]any{},
	})
	assert.Equal(s.T(), http.StatusNotFound, rec.Code)
}
