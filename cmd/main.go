package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	discordclient "mcpanel/clients/discord"
	"mcpanel/clients/mcstatus"
	"mcpanel/config"
	"mcpanel/core"
	"mcpanel/db"
	"mcpanel/db/mongostore"
	"mcpanel/handlers"
	"mcpanel/middleware"
	"mcpanel/models"
	"mcpanel/services"
	"mcpanel/services/guildconfigs"
	"mcpanel/services/identities"
	"mcpanel/services/minecraft"
	"mcpanel/services/sessions"
	"mcpanel/signupnotif"
	"mcpanel/usecases/bot"
)

var (
	_ identities.IdentitiesRepository     = (*db.PostgresIdentitiesRepository)(nil)
	_ guildconfigs.GuildConfigsRepository = (*db.PostgresGuildConfigsRepository)(nil)
	_ identities.IdentitiesRepository     = (*mongostore.MongoIdentitiesRepository)(nil)
	_ guildconfigs.GuildConfigsRepository = (*mongostore.MongoGuildConfigsRepository)(nil)
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackConfig.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "mcpanel",
		LogsURL:     cfg.ServerLogsURL,
	})
	signupnotif.Init(cfg.SlackConfig.SignupWebhookURL, cfg.Environment)

	// Initialize repositories for the configured store
	identitiesRepo, guildConfigsRepo, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	httpClient := &http.Client{Timeout: 15 * time.Second}
	discordClient := discordclient.NewDiscordClient(httpClient)
	statusClient := mcstatus.NewStatusClient(httpClient, cfg.MinecraftConfig.StatusAPIURL)

	identitiesService := identities.NewIdentitiesService(identitiesRepo, discordClient)
	guildConfigsService := guildconfigs.NewGuildConfigsService(guildConfigsRepo, cfg.MinecraftConfig.DefaultServerAddress)
	statusProber := minecraft.NewStatusProber(statusClient, cfg.MinecraftConfig.ProbeTimeout)
	sessionsService, err := sessions.NewSessionsService(
		identitiesService,
		discordClient,
		cfg.DiscordConfig,
		cfg.SessionConfig,
	)
	if err != nil {
		return err
	}

	// Start the gateway listener; HTTP handlers only see it as a GuildBansReader
	var guildBansReader services.GuildBansReader = gatewayDisabled{}
	var discordHandler *handlers.DiscordEventsHandler
	if cfg.DiscordConfig.BotToken != "" {
		botUseCase := bot.NewBotUseCase(guildConfigsService, statusProber, cfg.FrontendURL)
		discordHandler, err = handlers.NewDiscordEventsHandler(cfg.DiscordConfig.BotToken, botUseCase, alertMiddleware, 0)
		if err != nil {
			return err
		}
		if err := discordHandler.StartBot(context.Background()); err != nil {
			return err
		}
		guildBansReader = discordHandler
	} else {
		log.Printf("⚠️ DISCORD_BOT_TOKEN not set - gateway listener disabled")
	}

	dashboardHandler := handlers.NewDashboardAPIHandler(identitiesService, guildConfigsService, statusProber, guildBansReader)
	dashboardHTTPHandler := handlers.NewDashboardHTTPHandler(dashboardHandler)
	authHTTPHandler := handlers.NewAuthHTTPHandler(sessionsService, cfg.FrontendURL)
	authMiddleware := middleware.NewSessionAuthMiddleware(sessionsService, identitiesService)

	// Create a new router
	router := mux.NewRouter()

	// Setup endpoints with the new router
	authHTTPHandler.SetupEndpoints(router, authMiddleware)
	dashboardHTTPHandler.SetupEndpoints(router, authMiddleware)

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server, discordHandler)
}

// openStore connects the configured persistence driver and returns its repositories
func openStore(cfg *config.AppConfig) (identities.IdentitiesRepository, guildconfigs.GuildConfigsRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		client, err := mongostore.NewConnection(context.Background(), cfg.MongoURI)
		if err != nil {
			return nil, nil, nil, err
		}
		database := client.Database(cfg.MongoDatabase)
		log.Printf("✅ Connected to MongoDB database %s", cfg.MongoDatabase)

		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("❌ Failed to disconnect from MongoDB: %v", err)
			}
		}
		return mongostore.NewMongoIdentitiesRepository(database),
			mongostore.NewMongoGuildConfigsRepository(database),
			closeFn,
			nil
	default:
		dbConn, err := db.NewConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := db.EnsureSchema(ctx, dbConn, cfg.DatabaseSchema); err != nil {
			_ = dbConn.Close()
			return nil, nil, nil, err
		}
		log.Printf("✅ Connected to Postgres schema %s", cfg.DatabaseSchema)

		closeFn := func() {
			if err := dbConn.Close(); err != nil {
				log.Printf("❌ Failed to close database connection: %v", err)
			}
		}
		return db.NewPostgresIdentitiesRepository(dbConn, cfg.DatabaseSchema),
			db.NewPostgresGuildConfigsRepository(dbConn, cfg.DatabaseSchema),
			closeFn,
			nil
	}
}

// gatewayDisabled answers ban reads when no bot token is configured
type gatewayDisabled struct{}

func (gatewayDisabled) GetGuildBans(ctx context.Context, guildID string) ([]*models.GuildBan, error) {
	return nil, fmt.Errorf("gateway listener is not configured: %w", core.ErrPermissionDenied)
}

func handleGracefulShutdown(server *http.Server, discordHandler *handlers.DiscordEventsHandler) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	if discordHandler != nil {
		discordHandler.StopBot()
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
