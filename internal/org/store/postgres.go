package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"rinkside/internal/org/models"
	id "rinkside/pkg/domain"
	"rinkside/pkg/dates"
	"rinkside/pkg/money"
	"rinkside/pkg/platform/sentinel"
)

// PostgresStore persists the organization hierarchy in PostgreSQL.
// Fee schedules live in a separate ordered table keyed by owner.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed organization store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateAssociation(ctx context.Context, a *models.Association) error {
	if a == nil {
		return fmt.Errorf("association is required")
	}
	query := `
		INSERT INTO associations (id, code, name, level, parent_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	var parent any
	if !a.ParentID.IsNil() {
		parent = uuid.UUID(a.ParentID)
	}
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(a.ID), a.Code, a.Name, a.Level, parent, string(a.Status),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("create association: %w", err)
	}
	return s.replaceFees(ctx, OwnerAssociation, a.ID.String(), a.Fees)
}

func (s *PostgresStore) GetAssociation(ctx context.Context, assocID id.AssociationID) (*models.Association, error) {
	query := `
		SELECT id, code, name, level, parent_id, status
		FROM associations
		WHERE id = $1
	`
	var a models.Association
	var aID uuid.UUID
	var parent sql.NullString
	var status string
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(assocID)).
		Scan(&aID, &a.Code, &a.Name, &a.Level, &parent, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find association: %w", err)
	}
	a.ID = id.AssociationID(aID)
	a.Status = models.Status(status)
	if parent.Valid {
		parentID, err := id.ParseAssociationID(parent.String)
		if err != nil {
			return nil, fmt.Errorf("parse association parent: %w", err)
		}
		a.ParentID = parentID
	}
	fees, err := s.ListFees(ctx, OwnerAssociation, a.ID.String())
	if err != nil {
		return nil, err
	}
	a.Fees = fees
	return &a, nil
}

func (s *PostgresStore) CreateClub(ctx context.Context, c *models.Club) error {
	if c == nil {
		return fmt.Errorf("club is required")
	}
	query := `
		INSERT INTO clubs (id, slug, name, association_id, status)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(c.ID), c.Slug, c.Name, uuid.UUID(c.AssociationID), string(c.Status),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("create club: %w", err)
	}
	return s.replaceFees(ctx, OwnerClub, c.ID.String(), c.Fees)
}

func (s *PostgresStore) GetClub(ctx context.Context, clubID id.ClubID) (*models.Club, error) {
	query := `
		SELECT id, slug, name, association_id, status
		FROM clubs
		WHERE id = $1
	`
	var c models.Club
	var cID, assocID uuid.UUID
	var status string
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(clubID)).
		Scan(&cID, &c.Slug, &c.Name, &assocID, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find club: %w", err)
	}
	c.ID = id.ClubID(cID)
	c.AssociationID = id.AssociationID(assocID)
	c.Status = models.Status(status)
	fees, err := s.ListFees(ctx, OwnerClub, c.ID.String())
	if err != nil {
		return nil, err
	}
	c.Fees = fees
	return &c, nil
}

func (s *PostgresStore) ListFees(ctx context.Context, owner OwnerType, ownerID string) ([]models.Fee, error) {
	query := `
		SELECT id, name, category, scope, amount_minor, valid_from, valid_to, active, supersedes_key
		FROM fees
		WHERE owner_type = $1 AND owner_id = $2
		ORDER BY position
	`
	rows, err := s.db.QueryContext(ctx, query, string(owner), ownerID)
	if err != nil {
		return nil, fmt.Errorf("list fees: %w", err)
	}
	defer rows.Close()

	var fees []models.Fee
	for rows.Next() {
		var f models.Fee
		var fID uuid.UUID
		var scope string
		var amount int64
		var from, to sql.NullTime
		var supersedes sql.NullString
		if err := rows.Scan(&fID, &f.Name, &f.Category, &scope, &amount, &from, &to, &f.Active, &supersedes); err != nil {
			return nil, fmt.Errorf("scan fee: %w", err)
		}
		f.ID = id.FeeID(fID)
		f.Scope = models.FeeScope(scope)
		f.Amount = money.Amount(amount)
		if from.Valid {
			f.Validity.From = dates.FromTime(from.Time)
		}
		if to.Valid {
			f.Validity.To = dates.FromTime(to.Time)
		}
		if supersedes.Valid {
			f.SupersedesKey = supersedes.String
		}
		fees = append(fees, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list fees: %w", err)
	}
	return fees, nil
}

func (s *PostgresStore) SetFees(ctx context.Context, owner OwnerType, ownerID string, fees []models.Fee) error {
	return s.replaceFees(ctx, owner, ownerID, fees)
}

func (s *PostgresStore) CountLevels(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT level) FROM associations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count levels: %w", err)
	}
	return count, nil
}

// replaceFees swaps an owner's whole schedule in one transaction, preserving
// the caller's ordering in the position column.
func (s *PostgresStore) replaceFees(ctx context.Context, owner OwnerType, ownerID string, fees []models.Fee) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set fees: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM fees WHERE owner_type = $1 AND owner_id = $2`,
		string(owner), ownerID,
	); err != nil {
		return fmt.Errorf("clear fees: %w", err)
	}

	insert := `
		INSERT INTO fees (id, owner_type, owner_id, position, name, category, scope, amount_minor, valid_from, valid_to, active, supersedes_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	for pos, f := range fees {
		var from, to any
		if !f.Validity.From.IsZero() {
			from = f.Validity.From.Time()
		}
		if !f.Validity.To.IsZero() {
			to = f.Validity.To.Time()
		}
		var supersedes any
		if f.SupersedesKey != "" {
			supersedes = f.SupersedesKey
		}
		if _, err := tx.ExecContext(ctx, insert,
			uuid.UUID(f.ID), string(owner), ownerID, pos,
			f.Name, f.Category, string(f.Scope), int64(f.Amount),
			from, to, f.Active, supersedes,
		); err != nil {
			return fmt.Errorf("insert fee: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set fees: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
