package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"rinkside/internal/org/fees"
	"rinkside/internal/registration/models"
	id "rinkside/pkg/domain"
	"rinkside/pkg/money"
	"rinkside/pkg/platform/sentinel"
)

// PostgresStore persists registrations in PostgreSQL. The fee breakdown is a
// frozen JSONB copy, never a join against the live fee tables. The partial
// unique index on (candidate_key, club_id, season) over non-rejected rows
// decides the duplicate race.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const registrationColumns = `id, member_id, club_id, season, division_code, candidate_key, items, total_minor, currency, status, rejection_reason, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, r *models.Registration) error {
	if r == nil {
		return fmt.Errorf("registration is required")
	}
	items, err := json.Marshal(r.Items)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	query := `
		INSERT INTO registrations (` + registrationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(r.ID), uuid.UUID(r.MemberID), uuid.UUID(r.ClubID),
		r.Season, r.DivisionCode, r.CandidateKey,
		items, int64(r.Total), r.Currency, string(r.Status),
		nullableString(r.RejectionReason), r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, registrationID id.RegistrationID) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	r, err := scanRegistration(s.db.QueryRowContext(ctx, query, uuid.UUID(registrationID)).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *PostgresStore) HasActive(ctx context.Context, candidateKey string, clubID id.ClubID, season int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE candidate_key = $1 AND club_id = $2 AND season = $3 AND status <> 'rejected'
		)
	`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, candidateKey, uuid.UUID(clubID), season).Scan(&exists); err != nil {
		return false, fmt.Errorf("check active registration: %w", err)
	}
	return exists, nil
}

// Execute locks the row with FOR UPDATE for the whole validate-then-mutate
// span, so concurrent approvals serialize on the database.
func (s *PostgresStore) Execute(ctx context.Context, registrationID id.RegistrationID,
	validate func(*models.Registration) error,
	mutate func(*models.Registration)) (*models.Registration, error) {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin registration update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1 FOR UPDATE`
	r, err := scanRegistration(tx.QueryRowContext(ctx, query, uuid.UUID(registrationID)).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}

	if err := validate(r); err != nil {
		return nil, err
	}

	mutate(r)
	r.UpdatedAt = time.Now().UTC()

	if _, err := tx.ExecContext(ctx,
		`UPDATE registrations SET status = $2, rejection_reason = $3, updated_at = $4 WHERE id = $1`,
		uuid.UUID(r.ID), string(r.Status), nullableString(r.RejectionReason), r.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("update registration: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit registration update: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) ListByStatus(ctx context.Context, status models.Status) ([]models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE status = $1 ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var out []models.Registration
	for rows.Next() {
		r, err := scanRegistration(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, registrationID id.RegistrationID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, uuid.UUID(registrationID))
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanRegistration(scan func(dest ...any) error) (*models.Registration, error) {
	var r models.Registration
	var rID, memberID, clubID uuid.UUID
	var items []byte
	var total int64
	var status string
	var rejection sql.NullString
	if err := scan(
		&rID, &memberID, &clubID, &r.Season, &r.DivisionCode, &r.CandidateKey,
		&items, &total, &r.Currency, &status, &rejection,
		&r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan registration: %w", err)
	}
	r.ID = id.RegistrationID(rID)
	r.MemberID = id.MemberID(memberID)
	r.ClubID = id.ClubID(clubID)
	r.Total = money.Amount(total)
	r.Status = models.Status(status)
	r.RejectionReason = rejection.String
	if len(items) > 0 {
		if err := json.Unmarshal(items, &r.Items); err != nil {
			return nil, fmt.Errorf("unmarshal breakdown: %w", err)
		}
	}
	if r.Items == nil {
		r.Items = []fees.LineItem{}
	}
	return &r, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
