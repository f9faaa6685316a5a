package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/Marga-Ghale/org-portal-backend/internal/api"
	"github.com/Marga-Ghale/org-portal-backend/internal/api/handlers"
	"github.com/Marga-Ghale/org-portal-backend/internal/auth"
	"github.com/Marga-Ghale/org-portal-backend/internal/config"
	"github.com/Marga-Ghale/org-portal-backend/internal/cron"
	"github.com/Marga-Ghale/org-portal-backend/internal/db"
	"github.com/Marga-Ghale/org-portal-backend/internal/email"
	"github.com/Marga-Ghale/org-portal-backend/internal/logger"
	"github.com/Marga-Ghale/org-portal-backend/internal/metrics"
	"github.com/Marga-Ghale/org-portal-backend/internal/repository"
	"github.com/Marga-Ghale/org-portal-backend/internal/seed"
	"github.com/Marga-Ghale/org-portal-backend/internal/service"
	"github.com/Marga-Ghale/org-portal-backend/internal/socket"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	envErr := godotenv.Load()

	// ============================================
	// Load configuration
	// ============================================
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", false)
		bootLog.Fatal().Err(err).Msg("[Config] Invalid configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.IsProduction())
	if envErr != nil {
		log.Info().Msg("[Config] No .env file found, using environment variables")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// ============================================
	// Verification key
	// ============================================
	pem, err := cfg.PublicKeyPEM()
	if err != nil {
		log.Fatal().Err(err).Msg("[Auth] Verification key not configured")
	}
	verifier, err := auth.NewVerifier(pem)
	if err != nil {
		log.Fatal().Err(err).Msg("[Auth] Invalid verification key")
	}

	// ============================================
	// Run Database Migrations FIRST
	// ============================================
	if err := db.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, &log); err != nil {
		log.Fatal().Err(err).Msg("[DB] Migration failed")
	}

	// ============================================
	// Initialize PostgreSQL
	// ============================================
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.NewPostgresDB(ctx, cfg.DatabaseURL, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("[DB] Failed to connect to PostgreSQL")
	}
	defer pg.Close()

	repos := repository.NewRepositories(pg.Pool)

	// ============================================
	// Initialize Redis (optional)
	// ============================================
	var cache service.Cache
	var redisDB *db.RedisDB
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(ctx, cfg.RedisURL, &log)
		if err != nil {
			log.Warn().Err(err).Msg("[Redis] Failed to connect, continuing without cache")
		} else {
			defer redisDB.Close()
			cache = redisDB
		}
	}

	// ============================================
	// Initialize Email Service (optional)
	// ============================================
	var sender email.Sender
	if cfg.SMTPHost != "" {
		sender = email.NewService(&email.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
			UseTLS:   cfg.SMTPUseTLS,
		}, &log)
		log.Info().Msg("[Email] Email service initialized")
	} else {
		log.Warn().Msg("[Email] Email not configured (SMTP_HOST not set)")
	}

	// ============================================
	// Metrics
	// ============================================
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// ============================================
	// Initialize WebSocket Hub
	// ============================================
	hub := socket.NewHub(&log)
	go hub.Run(ctx)
	broadcaster := socket.NewBroadcaster(hub)

	// ============================================
	// Seed Data (for development)
	// ============================================
	if !cfg.IsProduction() {
		if err := seed.SeedData(ctx, repos, &log); err != nil {
			log.Error().Err(err).Msg("[Seed] Failed to seed development data")
		}
	}

	// ============================================
	// Initialize All Services
	// ============================================
	services := service.NewServices(&service.ServiceDeps{
		Config:    cfg,
		Repos:     repos,
		Cache:     cache,
		Sender:    sender,
		Publisher: broadcaster,
		Metrics:   m,
		Log:       &log,
	})

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	scheduler := cron.NewScheduler(services.Notification, cfg.Location(), &log)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("[Cron] Failed to start scheduler")
	}
	defer scheduler.Stop()

	// ============================================
	// Router
	// ============================================
	router := api.NewRouter(api.RouterDeps{
		Handlers:       handlers.NewHandlers(services, cfg.IsProduction(), &log),
		Verifier:       verifier,
		Roles:          services.Roles,
		WebSocket:      socket.NewHandler(hub, verifier, services.Roles),
		Gatherer:       reg,
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            &log,
		Health: func(ctx context.Context) gin.H {
			status := gin.H{
				"database":   "connected",
				"cache":      getCacheStatus(redisDB),
				"ws_clients": hub.GetConnectedClientsCount(),
				"email":      getEmailStatus(sender),
			}
			if err := pg.Health(ctx); err != nil {
				log.Warn().Err(err).Msg("[Health] Database ping failed")
				status["database"] = "disconnected"
				status["status"] = "degraded"
			}
			return status
		},
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Info().Str("port", cfg.Port).Msg("[Server] Starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("[Server] Failed to start server")
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info().Msg("[Server] Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("[Server] Server forced to shutdown")
		return
	}

	log.Info().Msg("[Server] Server exited")
}

func getCacheStatus(redisDB *db.RedisDB) string {
	if redisDB != nil {
		return "connected"
	}
	return "disabled"
}

func getEmailStatus(sender email.Sender) string {
	if sender != nil {
		return "configured"
	}
	return "disabled"
}
