package testutils

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"planbackend/appctx"
	"planbackend/core"
	"planbackend/db"
	"planbackend/models"
)

// TestDB holds a migrated connection for repository tests
type TestDB struct {
	DB     *sqlx.DB
	Schema string
}

// SetupTestDB connects to DB_URL/DB_SCHEMA from .env.test and applies migrations.
// The test is skipped when no database is configured.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	// Try to load environment variables from various possible locations
	_ = godotenv.Load("../.env.test")    // From package directory
	_ = godotenv.Load("../../.env.test") // From nested package directory
	_ = godotenv.Load(".env.test")       // From root directory

	databaseURL := os.Getenv("DB_URL")
	databaseSchema := os.Getenv("DB_SCHEMA")
	if databaseURL == "" || databaseSchema == "" {
		t.Skip("DB_URL and DB_SCHEMA are not set, skipping database test")
	}

	require.NoError(t, db.Migrate(databaseURL, databaseSchema), "Failed to migrate test database")

	conn, err := db.NewConnection(databaseURL)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { _ = conn.Close() })

	return &TestDB{DB: conn, Schema: databaseSchema}
}

// CreateTestUser creates a test user with a unique ID to avoid constraint violations
func CreateTestUser(t *testing.T, usersRepo *db.PostgresUsersRepository) *models.User {
	t.Helper()

	testUser, err := usersRepo.CreateUser(context.Background(), "test", core.NewID("test"))
	require.NoError(t, err, "Failed to create test user")
	return testUser
}

// CreateTestContext creates a context with the given user set for testing
func CreateTestContext(user *models.User) context.Context {
	ctx := context.Background()
	return appctx.SetUser(ctx, user)
}
