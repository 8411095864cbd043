package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"rinkside/internal/payment/models"
	id "rinkside/pkg/domain"
	"rinkside/pkg/money"
	"rinkside/pkg/platform/sentinel"
)

// PostgresStore persists payments in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Payment) error {
	if p == nil {
		return fmt.Errorf("payment is required")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO payments (id, registration_id, amount_minor, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(p.ID), uuid.UUID(p.RegistrationID),
		int64(p.Amount), p.Currency, string(p.Status), p.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, paymentID id.PaymentID) (*models.Payment, error) {
	query := `
		SELECT id, registration_id, amount_minor, currency, status, created_at
		FROM payments
		WHERE id = $1
	`
	return scanPayment(s.db.QueryRowContext(ctx, query, uuid.UUID(paymentID)))
}

func (s *PostgresStore) GetByRegistration(ctx context.Context, registrationID id.RegistrationID) (*models.Payment, error) {
	query := `
		SELECT id, registration_id, amount_minor, currency, status, created_at
		FROM payments
		WHERE registration_id = $1
	`
	return scanPayment(s.db.QueryRowContext(ctx, query, uuid.UUID(registrationID)))
}

func scanPayment(row *sql.Row) (*models.Payment, error) {
	var p models.Payment
	var pID, regID uuid.UUID
	var amount int64
	var status string
	if err := row.Scan(&pID, &regID, &amount, &p.Currency, &status, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	p.ID = id.PaymentID(pID)
	p.RegistrationID = id.RegistrationID(regID)
	p.Amount = money.Amount(amount)
	p.Status = models.Status(status)
	return &p, nil
}
