package testhelpers

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"opsmanual/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL, applies the schema and truncates
// every table. The test is skipped when no database is configured.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	schema, err := os.ReadFile(migrationPath())
	if err != nil {
		pool.Close()
		t.Fatalf("Failed to read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		pool.Close()
		t.Fatalf("Failed to apply schema: %v", err)
	}

	truncate := func() error {
		_, err := pool.Exec(ctx, `TRUNCATE contacts, contact_groups, contents, sections, chapters, refresh_tokens, users, airlines CASCADE`)
		return err
	}
	if err := truncate(); err != nil {
		pool.Close()
		t.Fatalf("Failed to truncate tables: %v", err)
	}

	db := &TestDB{
		Pool: pool,
		Cleanup: func() error {
			defer pool.Close()
			return truncate()
		},
	}
	t.Cleanup(func() {
		if err := db.Cleanup(); err != nil {
			t.Logf("cleanup failed: %v", err)
		}
	})
	return db
}

func migrationPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "migrations", "001_init.sql")
}

// SetupTestAirline creates an active airline with the given code.
func SetupTestAirline(t *testing.T, db *TestDB, code string) *models.Airline {
	t.Helper()

	airline := &models.Airline{ID: uuid.New(), Code: code, Name: code + " Airways", Branding: map[string]any{}, IsActive: true}
	query := `INSERT INTO airlines (id, code, name, branding, is_active) VALUES ($1, $2, $3, $4, $5)`
	if _, err := db.Pool.Exec(context.Background(), query, airline.ID, airline.Code, airline.Name, airline.Branding, airline.IsActive); err != nil {
		t.Fatalf("Failed to create test airline: %v", err)
	}
	return airline
}

// SetupTestUser creates an active user. airlineID must be nil for SUPER_ADMIN.
func SetupTestUser(t *testing.T, db *TestDB, email string, role models.Role, airlineID *uuid.UUID) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "$2a$04$placeholderplaceholderplaceholderplaceholderpla",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     true,
		AirlineID:    airlineID,
	}
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, is_active, airline_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := db.Pool.Exec(context.Background(), query, user.ID, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, string(user.Role), user.IsActive, user.AirlineID)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// SetupTestChapter creates an active chapter for airlineID.
func SetupTestChapter(t *testing.T, db *TestDB, airlineID uuid.UUID, title string, order int) *models.Chapter {
	t.Helper()

	chapter := &models.Chapter{ID: uuid.New(), AirlineID: airlineID, Title: title, Order: order, IsActive: true}
	query := `INSERT INTO chapters (id, airline_id, title, sort_order, is_active) VALUES ($1, $2, $3, $4, $5)`
	if _, err := db.Pool.Exec(context.Background(), query, chapter.ID, chapter.AirlineID, chapter.Title, chapter.Order, chapter.IsActive); err != nil {
		t.Fatalf("Failed to create test chapter: %v", err)
	}
	return chapter
}
