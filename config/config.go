package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"mcpanel/models"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"

	// MaxProbeTimeout bounds every Minecraft status probe regardless of configuration
	MaxProbeTimeout = 5 * time.Second
)

type DiscordConfig struct {
	ClientID     string
	ClientSecret string
	BotToken     string
	RedirectURI  string
}

// IsConfigured returns true if all required Discord configuration is present
func (c DiscordConfig) IsConfigured() bool {
	return c.ClientID != "" &&
		c.ClientSecret != "" &&
		c.BotToken != "" &&
		c.RedirectURI != ""
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// IsConfigured returns true if the signing secret is long enough for HS256
func (c SessionConfig) IsConfigured() bool {
	return len(c.Secret) >= 32 && c.TTL > 0
}

type MinecraftConfig struct {
	StatusAPIURL         string
	ProbeTimeout         time.Duration
	DefaultServerAddress string
}

type SlackConfig struct {
	AlertWebhookURL  string
	SignupWebhookURL string
}

type AppConfig struct {
	// Core configuration (always required)
	StoreDriver        string
	DatabaseURL        string
	DatabaseSchema     string
	MongoURI           string
	MongoDatabase      string
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	FrontendURL        string
	Environment        string
	ServerLogsURL      string
	UseStrictConfig    bool // If true, error when the Discord integration is not fully configured

	DiscordConfig   DiscordConfig
	SessionConfig   SessionConfig
	MinecraftConfig MinecraftConfig
	SlackConfig     SlackConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	storeDriver := strings.ToLower(getEnvWithDefault("STORE_DRIVER", StoreDriverPostgres))

	config := &AppConfig{
		StoreDriver:        storeDriver,
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		FrontendURL:        strings.TrimRight(getEnvWithDefault("FRONTEND_URL", "http://localhost:5173"), "/"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		ServerLogsURL:      getEnvWithDefault("SERVER_LOGS_URL", ""),
		UseStrictConfig:    getEnvWithDefault("USE_STRICT_CONFIG", "true") == "true",

		DiscordConfig: DiscordConfig{
			ClientID:     os.Getenv("DISCORD_CLIENT_ID"),
			ClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
			BotToken:     os.Getenv("DISCORD_BOT_TOKEN"),
			RedirectURI:  os.Getenv("DISCORD_REDIRECT_URI"),
		},

		SlackConfig: SlackConfig{
			AlertWebhookURL:  os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
			SignupWebhookURL: os.Getenv("SLACK_SIGNUP_WEBHOOK_URL"),
		},
	}

	switch storeDriver {
	case StoreDriverPostgres:
		databaseURL, err := getEnvRequired("DB_URL")
		if err != nil {
			return nil, err
		}
		databaseSchema, err := getEnvRequired("DB_SCHEMA")
		if err != nil {
			return nil, err
		}
		config.DatabaseURL = databaseURL
		config.DatabaseSchema = databaseSchema
	case StoreDriverMongo:
		mongoURI, err := getEnvRequired("MONGO_URI")
		if err != nil {
			return nil, err
		}
		config.MongoURI = mongoURI
		config.MongoDatabase = getEnvWithDefault("MONGO_DATABASE", "mcpanel")
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMongo, storeDriver)
	}

	sessionSecret, err := getEnvRequired("SESSION_SECRET")
	if err != nil {
		return nil, err
	}
	sessionTTL, err := getEnvDuration("SESSION_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	config.SessionConfig = SessionConfig{Secret: sessionSecret, TTL: sessionTTL}
	if !config.SessionConfig.IsConfigured() {
		return nil, fmt.Errorf("SESSION_SECRET must be at least 32 bytes and SESSION_TTL positive")
	}

	probeTimeout, err := getEnvDuration("MC_PROBE_TIMEOUT", MaxProbeTimeout)
	if err != nil {
		return nil, err
	}
	config.MinecraftConfig = MinecraftConfig{
		StatusAPIURL:         getEnvWithDefault("MC_STATUS_API_URL", "https://api.mcstatus.io/v2/status/java"),
		ProbeTimeout:         ClampProbeTimeout(probeTimeout),
		DefaultServerAddress: getEnvWithDefault("DEFAULT_SERVER_ADDRESS", models.DefaultServerAddress),
	}

	if config.DiscordConfig.IsConfigured() {
		log.Printf("✅ Discord integration configured")
	} else {
		log.Printf("⚠️ Discord integration not configured - login and gateway features will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("discord integration is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.SlackConfig.AlertWebhookURL == "" {
		log.Printf("⚠️ Slack alert webhook not configured - error alerts will only be logged")
	}

	return config, nil
}

// ClampProbeTimeout keeps the probe bound within (0, MaxProbeTimeout]
func ClampProbeTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 || timeout > MaxProbeTimeout {
		return MaxProbeTimeout
	}
	return timeout
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid duration: %w", key, err)
	}
	return duration, nil
}
