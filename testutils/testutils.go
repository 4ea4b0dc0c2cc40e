package testutils

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"mcpanel/appctx"
	"mcpanel/config"
	"mcpanel/models"
)

// LoadTestConfig loads Postgres configuration for tests from environment variables
func LoadTestConfig() (*config.AppConfig, error) {
	loadTestEnv()

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	databaseSchema := os.Getenv("DB_SCHEMA")
	if databaseSchema == "" {
		return nil, fmt.Errorf("DB_SCHEMA is not set")
	}

	return &config.AppConfig{
		StoreDriver:    config.StoreDriverPostgres,
		DatabaseURL:    databaseURL,
		DatabaseSchema: databaseSchema,
	}, nil
}

// LoadTestMongoConfig loads MongoDB configuration for tests from environment variables
func LoadTestMongoConfig() (*config.AppConfig, error) {
	loadTestEnv()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is not set")
	}

	mongoDatabase := os.Getenv("MONGO_DATABASE")
	if mongoDatabase == "" {
		mongoDatabase = "mcpanel_test"
	}

	return &config.AppConfig{
		StoreDriver:   config.StoreDriverMongo,
		MongoURI:      mongoURI,
		MongoDatabase: mongoDatabase,
	}, nil
}

// RequireTestConfig skips the test when no test database is configured
func RequireTestConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	cfg, err := LoadTestConfig()
	if err != nil {
		t.Skipf("⚠️ Skipping database test: %v", err)
	}
	return cfg
}

// RequireTestMongoConfig skips the test when no test MongoDB is configured
func RequireTestMongoConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	cfg, err := LoadTestMongoConfig()
	if err != nil {
		t.Skipf("⚠️ Skipping mongo test: %v", err)
	}
	return cfg
}

// NewTestGuildID returns a unique guild id so tests never collide on shared databases
func NewTestGuildID() string {
	return "test-guild-" + uuid.New().String()
}

// NewTestIdentity returns an identity with a unique id
func NewTestIdentity() *models.Identity {
	id := "test-user-" + uuid.New().String()
	return &models.Identity{
		ID:             id,
		DisplayName:    "steve-" + id[len(id)-6:],
		AvatarRef:      "avatar-" + id[len(id)-6:],
		DelegatedToken: "token-" + uuid.New().String(),
	}
}

// CreateTestContext creates a context carrying the given identity, as the session middleware does
func CreateTestContext(identity *models.Identity) context.Context {
	return appctx.SetIdentity(context.Background(), identity)
}

func loadTestEnv() {
	// Try to load environment variables from various possible locations
	_ = godotenv.Load("../.env.test")    // From package directories
	_ = godotenv.Load("../../.env.test") // From nested package directories
	_ = godotenv.Load(".env.test")       // From root directory
}
