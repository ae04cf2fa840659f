package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/amicuslegal/amicus/internal/auth"
	"github.com/amicuslegal/amicus/internal/cache"
	"github.com/amicuslegal/amicus/internal/config"
	"github.com/amicuslegal/amicus/internal/database"
	"github.com/amicuslegal/amicus/internal/gemini"
	"github.com/amicuslegal/amicus/internal/handlers"
	middlewareCustom "github.com/amicuslegal/amicus/internal/middleware"
	"github.com/amicuslegal/amicus/internal/models"
	"github.com/amicuslegal/amicus/internal/repositories"
	"github.com/amicuslegal/amicus/internal/routes"
	"github.com/amicuslegal/amicus/internal/services"
	pkglogger "github.com/amicuslegal/amicus/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := cache.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer redisClient.Close()

	userRepo := repositories.NewUserRepository(db)
	pendingRepo := repositories.NewPendingSignupRepository(redisClient, cfg.Auth.PasscodeTTL)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionExpiry)
	auditLogger := pkglogger.NewAuditLogger(logger)

	emailSender, err := buildEmailSender(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize email sender", slog.Any("error", err))
		os.Exit(1)
	}

	limiter := services.NewRedisPasscodeRequestLimiter(
		redisClient,
		cfg.Auth.PasscodeTTL,
		cfg.Auth.PasscodeRequestLimit,
		logger,
	)

	signupService := services.NewSignupService(userRepo, pendingRepo, emailSender, limiter, tokenManager, logger, auditLogger)
	authService := services.NewAuthService(userRepo, tokenManager, logger, auditLogger)
	userService := services.NewUserService(userRepo, logger)

	var assistantHandler *handlers.AssistantHandler
	if cfg.Gemini.APIKey != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		geminiClient, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		cancel()
		if err != nil {
			logger.Error("failed to initialize gemini client", slog.Any("error", err))
			os.Exit(1)
		}
		assistantService := services.NewAssistantService(userRepo, geminiClient, logger)
		assistantHandler = handlers.NewAssistantHandler(assistantService)
	} else {
		// Development without a key: assistant endpoints report a
		// configuration error instead of crashing the process.
		logger.Warn("GEMINI_API_KEY not set, assistant endpoints disabled")
		assistantHandler = handlers.NewAssistantHandler(unconfiguredAssistant{})
	}

	devMode := cfg.Server.Env == "development"
	authHandler := handlers.NewAuthHandler(signupService, authService, userService, devMode)
	userHandler := handlers.NewUserHandler(userService)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders())
	router.Use(middlewareCustom.CORS(&middlewareCustom.CORSConfig{AllowedOrigins: cfg.Server.AllowedOrigins}))
	router.Use(middlewareCustom.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, authHandler, userHandler, assistantHandler, tokenManager)

	router.Get("/health", healthHandler(db, redisClient))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

func buildEmailSender(cfg *config.Config, logger *slog.Logger) (services.EmailSender, error) {
	switch cfg.Email.Provider {
	case "ses":
		return services.NewAWSSESEmailSender(cfg.Email.AWSRegion, cfg.Email.FromAddress, cfg.Email.FromName, logger)
	case "smtp":
		return services.NewSMTPEmailSender(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPass,
			cfg.Email.FromAddress,
			cfg.Email.FromName,
			cfg.Email.SMTPUseTLS,
		)
	default:
		return services.NewLogEmailSender(logger), nil
	}
}

func healthHandler(db *database.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")

		if err := db.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","redis":"down"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up","redis":"up"}`))
	}
}

var errAssistantUnconfigured = errors.New("assistant backend is not configured")

// unconfiguredAssistant stands in when no Gemini API key is set
type unconfiguredAssistant struct{}

func (unconfiguredAssistant) Chat(context.Context, string, string, []models.ChatTurn) (string, error) {
	return "", errAssistantUnconfigured
}

func (unconfiguredAssistant) Analyze(context.Context, string, string, []byte, string) (string, error) {
	return "", errAssistantUnconfigured
}

func (unconfiguredAssistant) Forge(context.Context, string, string, string) (string, error) {
	return "", errAssistantUnconfigured
}
