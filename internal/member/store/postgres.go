package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"rinkside/internal/member/models"
	"rinkside/pkg/dates"
	id "rinkside/pkg/domain"
	"rinkside/pkg/platform/sentinel"
)

// PostgresStore persists members in PostgreSQL. Renewal seasons live in an
// integer array column; pq.Array handles the conversion.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const memberColumns = `id, first_name, last_name, dob, gender, email, club_id, type, status, joined_season, renewal_seasons, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, m *models.Member) error {
	if m == nil {
		return fmt.Errorf("member is required")
	}
	query := `
		INSERT INTO members (` + memberColumns + `, normalized_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(m.ID), m.FirstName, m.LastName, m.DOB.Time(),
		nullable(m.Gender), nullable(m.Email),
		uuid.UUID(m.ClubID), string(m.Type), string(m.Status),
		m.JoinedSeason, pq.Array(seasonsToInt64(m.RenewalSeasons)),
		m.CreatedAt, m.UpdatedAt, m.Key(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, memberID id.MemberID) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, uuid.UUID(memberID)))
}

func (s *PostgresStore) FindByNameDOB(ctx context.Context, first, last string, dob dates.Date) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE normalized_key = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, models.NormalizedKey(first, last, dob)))
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) ([]models.Member, error) {
	if email == "" {
		return nil, nil
	}
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE lower(email) = lower($1)
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("find members by email: %w", err)
	}
	defer rows.Close()

	var out []models.Member
	for rows.Next() {
		m, err := scanMember(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find members by email: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) AddRenewalSeason(ctx context.Context, memberID id.MemberID, season int) error {
	query := `
		UPDATE members
		SET renewal_seasons = array_append(renewal_seasons, $2), updated_at = now()
		WHERE id = $1 AND NOT ($2 = ANY(renewal_seasons))
	`
	res, err := s.db.ExecContext(ctx, query, uuid.UUID(memberID), season)
	if err != nil {
		return fmt.Errorf("add renewal season: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add renewal season: %w", err)
	}
	if affected == 0 {
		// Either the member is missing or the season was already recorded.
		var exists bool
		if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM members WHERE id = $1)`, uuid.UUID(memberID)).Scan(&exists); err != nil {
			return fmt.Errorf("add renewal season: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, memberID id.MemberID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, uuid.UUID(memberID))
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type scanFunc func(dest ...any) error

func (s *PostgresStore) scanOne(row *sql.Row) (*models.Member, error) {
	m, err := scanMember(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func scanMember(scan scanFunc) (*models.Member, error) {
	var m models.Member
	var mID, clubID uuid.UUID
	var dob time.Time
	var gender, email sql.NullString
	var mType, status string
	var seasons pq.Int64Array
	if err := scan(
		&mID, &m.FirstName, &m.LastName, &dob, &gender, &email,
		&clubID, &mType, &status, &m.JoinedSeason, &seasons,
		&m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan member: %w", err)
	}
	m.ID = id.MemberID(mID)
	m.ClubID = id.ClubID(clubID)
	m.DOB = dates.FromTime(dob)
	m.Gender = gender.String
	m.Email = email.String
	m.Type = models.MembershipType(mType)
	m.Status = models.Status(status)
	m.RenewalSeasons = make([]int, len(seasons))
	for i, s := range seasons {
		m.RenewalSeasons[i] = int(s)
	}
	return &m, nil
}

func seasonsToInt64(seasons []int) []int64 {
	out := make([]int64, len(seasons))
	for i, s := range seasons {
		out[i] = int64(s)
	}
	return out
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
