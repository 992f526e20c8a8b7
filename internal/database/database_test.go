package database

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/ryanlallier24/finnysights-sub000/internal/models"
)

// mustStartPostgresContainer boots a throwaway Postgres and points the
// package connection settings at it.
func mustStartPostgresContainer() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "finnysights"
		dbPwd  = "password"
		dbUser = "finnysights"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, err
	}

	database = dbName
	password = dbPwd
	username = dbUser

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	host = dbHost
	port = dbPort.Port()

	// NewDatabase reads the environment directly
	os.Setenv("DB_HOST", dbHost)
	os.Setenv("DB_PORT", dbPort.Port())
	os.Setenv("DB_USER", dbUser)
	os.Setenv("DB_PASSWORD", dbPwd)
	os.Setenv("DB_NAME", dbName)
	os.Setenv("DB_SSLMODE", "disable")

	return dbContainer.Terminate, err
}

func TestMain(m *testing.M) {
	if os.Getenv("TEST_WITH_DOCKER") == "" {
		log.Println("TEST_WITH_DOCKER not set, skipping database integration tests")
		os.Exit(0)
	}

	teardown, err := mustStartPostgresContainer()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}

	os.Exit(code)
}

func TestNew(t *testing.T) {
	srv := New()
	if srv == nil {
		t.Fatal("New() returned nil")
	}
}

// TestNewDatabase covers the raw *sql.DB path used for plain ping checks.
func TestNewDatabase(t *testing.T) {
	db, err := NewDatabase()
	if err != nil {
		t.Fatalf("NewDatabase() failed: %v", err)
	}
	defer db.Close()

	if err := db.DB.Ping(); err != nil {
		t.Fatalf("raw connection ping failed: %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv := New()

	stats := srv.Health()
	if stats["status"] != "up" {
		t.Fatalf("expected status up, got %s", stats["status"])
	}
	if _, ok := stats["error"]; ok {
		t.Fatalf("unexpected error: %s", stats["error"])
	}
	if stats["message"] != "It's healthy" {
		t.Fatalf("unexpected health message: %s", stats["message"])
	}
}

// TestMigratedSchema verifies the migrated schema accepts the core models.
func TestMigratedSchema(t *testing.T) {
	srv := New()
	db := srv.GetDB()

	user := models.User{
		Username:     "schema-check",
		Email:        "schema-check@example.com",
		Password:     "hashed",
		AuthProvider: "email",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to insert user: %v", err)
	}
	defer db.Delete(&user)

	vote := models.Vote{UserID: user.ID, Symbol: "AAPL", Direction: models.DirectionBullish}
	if err := db.Create(&vote).Error; err != nil {
		t.Fatalf("failed to insert vote: %v", err)
	}
	defer db.Delete(&vote)

	// The unique index rejects a second live vote on the same ticker
	dup := models.Vote{UserID: user.ID, Symbol: "AAPL", Direction: models.DirectionBearish}
	if err := db.Create(&dup).Error; err == nil {
		db.Delete(&dup)
		t.Fatal("expected duplicate (user, symbol) vote to be rejected")
	}
}

func TestClose(t *testing.T) {
	srv := New()
	if srv.Close() != nil {
		t.Fatalf("expected Close() to return nil")
	}

	// Reset the singleton so later runs reconnect
	dbInstance = nil
	time.Sleep(100 * time.Millisecond)
}
