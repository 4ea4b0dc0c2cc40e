package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "0123456789abcdef0123456789abcdef"

func setDiscordEnv(t *testing.T) {
	t.Setenv("DISCORD_CLIENT_ID", "client-id")
	t.Setenv("DISCORD_CLIENT_SECRET", "client-secret")
	t.Setenv("DISCORD_BOT_TOKEN", "bot-token")
	t.Setenv("DISCORD_REDIRECT_URI", "http://localhost:8080/auth/callback")
}

func TestLoadConfig_PostgresDefaults(t *testing.T) {
	setDiscordEnv(t)
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("DB_URL", "postgres://localhost:5432/mcpanel?sslmode=disable")
	t.Setenv("DB_SCHEMA", "mcpanel_test")
	t.Setenv("SESSION_SECRET", testSessionSecret)
	t.Setenv("SESSION_TTL", "")
	t.Setenv("MC_PROBE_TIMEOUT", "")
	t.Setenv("FRONTEND_URL", "https://panel.example.com/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "mcpanel_test", cfg.DatabaseSchema)
	assert.Equal(t, "https://panel.example.com", cfg.FrontendURL)
	assert.Equal(t, 12*time.Hour, cfg.SessionConfig.TTL)
	assert.Equal(t, MaxProbeTimeout, cfg.MinecraftConfig.ProbeTimeout)
	assert.Equal(t, "play.hypixel.net", cfg.MinecraftConfig.DefaultServerAddress)
	assert.True(t, cfg.DiscordConfig.IsConfigured())
}

func TestLoadConfig_Mongo(t *testing.T) {
	setDiscordEnv(t)
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DATABASE", "")
	t.Setenv("SESSION_SECRET", testSessionSecret)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMongo, cfg.StoreDriver)
	assert.Equal(t, "mcpanel", cfg.MongoDatabase)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name          string
		env           map[string]string
		expectedError string
	}{
		{
			name:          "unknown store driver",
			env:           map[string]string{"STORE_DRIVER": "sqlite"},
			expectedError: "STORE_DRIVER must be",
		},
		{
			name:          "missing postgres url",
			env:           map[string]string{"STORE_DRIVER": "postgres", "DB_URL": ""},
			expectedError: "DB_URL is not set",
		},
		{
			name: "short session secret",
			env: map[string]string{
				"STORE_DRIVER":   "mongo",
				"MONGO_URI":      "mongodb://localhost:27017",
				"SESSION_SECRET": "too-short",
			},
			expectedError: "SESSION_SECRET must be at least 32 bytes",
		},
		{
			name: "invalid probe timeout",
			env: map[string]string{
				"STORE_DRIVER":     "mongo",
				"MONGO_URI":        "mongodb://localhost:27017",
				"SESSION_SECRET":   testSessionSecret,
				"MC_PROBE_TIMEOUT": "soon",
			},
			expectedError: "MC_PROBE_TIMEOUT is not a valid duration",
		},
		{
			name: "strict config without discord",
			env: map[string]string{
				"STORE_DRIVER":      "mongo",
				"MONGO_URI":         "mongodb://localhost:27017",
				"SESSION_SECRET":    testSessionSecret,
				"DISCORD_BOT_TOKEN": "",
				"USE_STRICT_CONFIG": "true",
			},
			expectedError: "discord integration is not fully configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setDiscordEnv(t)
			t.Setenv("SESSION_SECRET", testSessionSecret)
			t.Setenv("MC_PROBE_TIMEOUT", "")
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			cfg, err := LoadConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestClampProbeTimeout(t *testing.T) {
	assert.Equal(t, MaxProbeTimeout, ClampProbeTimeout(0))
	assert.Equal(t, MaxProbeTimeout, ClampProbeTimeout(-time.Second))
	assert.Equal(t, MaxProbeTimeout, ClampProbeTimeout(30*time.Second))
	assert.Equal(t, 2*time.Second, ClampProbeTimeout(2*time.Second))
}
