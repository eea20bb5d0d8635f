package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"showup/config"
	"showup/internal/adapters/auth"
	"showup/internal/adapters/email"
	httpdelivery "showup/internal/delivery/http"
	"showup/internal/delivery/http/controllers"
	"showup/internal/delivery/http/middleware"
	"showup/internal/domain"
	"showup/internal/repository/postgres"
	"showup/internal/services"
)

// @title ShowUp API
// @version 1.0
// @description Stake-to-attend events. Participants stake to join, attendees claim their stake back plus a share of no-show forfeits.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	// Repositories
	eventStore := postgres.NewEventStore(db)
	postingRepo := postgres.NewPostingRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	tokens := auth.NewJWTTokens(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	// Services
	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer())
	userSvc := services.NewUserService(userRepo, hasher, tokens, cfg.JWTExpiry)
	eventSvc := services.NewEventService(eventStore, postingRepo, userRepo, emailSvc, domain.NewSystemClock(), 5*time.Second)

	// Delivery
	eventController := controllers.NewEventController(logger, eventSvc)
	authController := controllers.NewAuthController(logger, userSvc)
	authMW := middleware.RequireAuth(tokens, logger)
	mux := httpdelivery.NewRouter(eventController, authController, authMW)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
