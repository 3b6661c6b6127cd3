package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a migrated connection to the test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies migrations. The
// calling test is skipped when the variable is not set.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 10, MinConns: 1})
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, postgresql.Migrate(ctx, db))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables clears every table between tests
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"notifications",
		"overtimes",
		"attendance_regularizations",
		"attendances",
		"leave_applications",
		"leave_balances",
		"leave_types",
		"employees",
	}

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// SeedEmployee inserts an employee row and returns its id.
func (t *TestDatabaseSetup) SeedEmployee(ctx context.Context, tb testing.TB, name, role string) string {
	tb.Helper()

	var id string
	err := t.DB.QueryRow(ctx, `
		INSERT INTO employees (user_id, full_name, role, monthly_salary)
		VALUES (uuidv7(), $1, $2, 35200)
		RETURNING id
	`, name, role).Scan(&id)
	require.NoError(tb, err)
	return id
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
