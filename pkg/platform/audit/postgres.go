package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// PostgresStore is the durable audit trail. Rows are append-only; there is no
// update or delete path.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events (id, occurred_at, action, actor, registration_id, member_id, club_id, season, request_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New(), event.Timestamp, string(event.Action), event.Actor,
		nullable(event.RegistrationID), nullable(event.MemberID), nullable(event.ClubID),
		event.Season, nullable(event.RequestID), nullable(event.Detail),
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListBySubject returns events touching a registration or member, oldest
// first.
func (s *PostgresStore) ListBySubject(ctx context.Context, subjectID string) ([]Event, error) {
	query := `
		SELECT occurred_at, action, actor, registration_id, member_id, club_id, season, request_id, detail
		FROM audit_events
		WHERE registration_id = $1 OR member_id = $1
		ORDER BY occurred_at
	`
	rows, err := s.db.QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var action string
		var regID, memberID, clubID, requestID, detail sql.NullString
		if err := rows.Scan(&e.Timestamp, &action, &e.Actor, &regID, &memberID, &clubID, &e.Season, &requestID, &detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Action = Action(action)
		e.RegistrationID = regID.String
		e.MemberID = memberID.String
		e.ClubID = clubID.String
		e.RequestID = requestID.String
		e.Detail = detail.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return out, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
