package main

import (
	"fmt"
	"net/http"

	"github.com/gdg-garage/career-fair-api/internal/auth"
	"github.com/gdg-garage/career-fair-api/internal/config"
	"github.com/gdg-garage/career-fair-api/internal/database"
	"github.com/gdg-garage/career-fair-api/internal/form"
	"github.com/gdg-garage/career-fair-api/internal/handlers"
	"github.com/gdg-garage/career-fair-api/internal/logger"
	"github.com/gdg-garage/career-fair-api/internal/metrics"
	"github.com/gdg-garage/career-fair-api/internal/notifier"
	"github.com/gdg-garage/career-fair-api/internal/session"
	"github.com/gdg-garage/career-fair-api/internal/store"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.New("info", "text").Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	catalog, err := form.LoadCatalogFile(cfg.TracksFile)
	if err != nil {
		log.Fatalf("Failed to load tracks: %v", err)
	}

	registrations := store.NewRegistrationStore(db)

	sessions := session.NewManager(catalog, registrations, log, cfg.SessionTTL)
	if err := sessions.Start(cfg.SessionPurgeSchedule); err != nil {
		log.Fatalf("Failed to schedule session purge: %v", err)
	}
	defer sessions.Stop()

	// The announcer stays a nil interface when Discord is not configured.
	var announcer notifier.Notifier
	if cfg.DiscordBotToken != "" && cfg.DiscordNotificationsChannelID != "" {
		discordSession, err := notifier.NewDiscordSession(cfg.DiscordBotToken)
		if err != nil {
			log.Warnf("Discord notifier not initialized: %v", err)
		} else {
			announcer = notifier.NewDiscordNotifier(discordSession, cfg.DiscordNotificationsChannelID, catalog)
		}
	} else {
		log.Info("Discord notifier disabled")
	}

	m := metrics.New(sessions.Len)

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db, log)
	formHandler := handlers.NewFormHandler(sessions, auth.NewFormTokens(cfg.JWTSecret, cfg.SessionTTL), announcer, m, log)
	tracksHandler := handlers.NewTracksHandler(catalog)
	registrationHandler := handlers.NewRegistrationHandler(registrations, catalog, authHandler)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, formHandler, tracksHandler, registrationHandler, m)

	// Start Server
	log.Infof("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
