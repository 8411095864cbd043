//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"rinkside/migrations"
	id "rinkside/pkg/domain"
)

// PostgresContainer wraps a testcontainers Postgres instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a new Postgres container with migrations applied.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("rinkside_test"),
		postgres.WithUsername("rinkside"),
		postgres.WithPassword("rinkside_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	pc := &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}

	if err := pc.runMigrations(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to run migrations: %v", err)
	}

	// No t.Cleanup here: Ryuk (the testcontainers cleanup sidecar) removes
	// the container when the test process exits, so suites can share it.

	return pc
}

// runMigrations executes all *.up.sql migrations from the embedded migrations.FS.
func (p *PostgresContainer) runMigrations(ctx context.Context) error {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		if _, err := p.DB.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", file, err)
		}
	}

	return nil
}

// TruncateTables clears all data from the specified tables.
// Use between tests to ensure isolation without restarting the container.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		_, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		if err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// TruncateAll truncates every module table for full test isolation.
// CASCADE handles the foreign key dependencies.
func (p *PostgresContainer) TruncateAll(ctx context.Context) error {
	return p.TruncateTables(ctx,
		"audit_events",
		"payments",
		"registrations",
		"members",
		"fees",
		"clubs",
		"associations",
	)
}

// Exec runs a SQL statement and returns the result.
func (p *PostgresContainer) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return p.DB.ExecContext(ctx, query, args...)
}

// QueryRow runs a SQL query expected to return a single row.
func (p *PostgresContainer) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return p.DB.QueryRowContext(ctx, query, args...)
}

// CreateTestAssociation inserts a root association and returns its ID.
// Fails the test if insertion fails.
func (p *PostgresContainer) CreateTestAssociation(ctx context.Context, t testing.TB) id.AssociationID {
	t.Helper()
	assocID := id.AssociationID(uuid.New())
	_, err := p.Exec(ctx, `
		INSERT INTO associations (id, code, name, level, status)
		VALUES ($1, $2, $3, 0, 'active')
	`, uuid.UUID(assocID), "TST-"+uuid.NewString()[:8], "Test Association")
	if err != nil {
		t.Fatalf("CreateTestAssociation: %v", err)
	}
	return assocID
}

// CreateTestClub inserts a club under the given association and returns its ID.
// Fails the test if insertion fails.
func (p *PostgresContainer) CreateTestClub(ctx context.Context, t testing.TB, assocID id.AssociationID) id.ClubID {
	t.Helper()
	clubID := id.ClubID(uuid.New())
	_, err := p.Exec(ctx, `
		INSERT INTO clubs (id, slug, name, association_id, status)
		VALUES ($1, $2, $3, $4, 'active')
	`, uuid.UUID(clubID), "test-club-"+uuid.NewString()[:8], "Test Club", uuid.UUID(assocID))
	if err != nil {
		t.Fatalf("CreateTestClub: %v", err)
	}
	return clubID
}

// CreateTestMember inserts a member for the given club and returns its ID.
// Fails the test if insertion fails.
func (p *PostgresContainer) CreateTestMember(ctx context.Context, t testing.TB, clubID id.ClubID) id.MemberID {
	t.Helper()
	memberID := id.MemberID(uuid.New())
	suffix := uuid.NewString()[:8]
	_, err := p.Exec(ctx, `
		INSERT INTO members (id, first_name, last_name, dob, club_id, type, status, joined_season, renewal_seasons, normalized_key)
		VALUES ($1, 'Test', $2, '2012-01-15', $3, 'player', 'active', 2025, '{2025}', $4)
	`, uuid.UUID(memberID), "Member-"+suffix, uuid.UUID(clubID), "test|member-"+suffix+"|2012-01-15")
	if err != nil {
		t.Fatalf("CreateTestMember: %v", err)
	}
	return memberID
}
