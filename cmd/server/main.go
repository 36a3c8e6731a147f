package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/moodcal/moodcal-api/internal/chat"
	"github.com/moodcal/moodcal-api/internal/config"
	"github.com/moodcal/moodcal-api/internal/database"
	"github.com/moodcal/moodcal-api/internal/handlers"
	"github.com/moodcal/moodcal-api/internal/insight"
	"github.com/moodcal/moodcal-api/internal/logger"
	"github.com/moodcal/moodcal-api/internal/middleware"
	"github.com/moodcal/moodcal-api/internal/recommend"
	"github.com/moodcal/moodcal-api/internal/services/ai"
	"github.com/moodcal/moodcal-api/internal/services/oidc"
	"github.com/moodcal/moodcal-api/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.ServerDebugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", cfg.ServerDebugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	if cfg.OTELEnabled {
		shutdownTracing, err := telemetry.Init(context.Background(), telemetry.Options{
			ServiceName: "moodcal-api",
			Endpoint:    cfg.OTELEndpoint,
		})
		if err != nil {
			zapLogger.Warn("failed_to_initialize_tracer", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownTracing(shutdownCtx); err != nil {
					zapLogger.Error("failed_to_shutdown_tracer", zap.Error(err))
				}
			}()
		}
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("invalid_redis_url", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() {
		if err := redisClient.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
	}
	zapLogger.Info("connected_to_redis")

	calendarRepo := database.NewCalendarRepository(db)
	contentRepo := database.NewContentRepository(db)
	statsRepo := database.NewEmotionStatsRepository(db)

	jwksManager := oidc.NewJWKSManager(cfg.JWKSURL)
	verifier := oidc.NewVerifier(jwksManager, cfg.OIDCIssuer, cfg.OIDCAudience)

	if cfg.OpenAIKey == "" {
		zapLogger.Fatal("openai_api_key_not_configured")
	}
	aiProvider := ai.NewOpenAIProviderWithLogger(
		cfg.OpenAIKey,
		cfg.AIBaseURL,
		cfg.AIModel,
		zapLogger,
		cfg.ServerDebugMode,
	)

	recommendService := recommend.NewService(calendarRepo, statsRepo, aiProvider, zapLogger)
	insightService := insight.NewService(statsRepo, calendarRepo)
	chatService := chat.NewService(aiProvider, chat.NewRedisHistoryStore(redisClient), zapLogger)

	calendarHandler := handlers.NewCalendarHandler(calendarRepo)
	profileHandler := handlers.NewProfileHandler(calendarRepo)
	recommendHandler := handlers.NewRecommendHandler(recommendService, calendarRepo, contentRepo)
	insightHandler := handlers.NewInsightHandler(insightService)
	chatHandler := handlers.NewChatHandler(chatService)
	authHandler := handlers.NewAuthHandler()
	healthChecker := handlers.NewHealthChecker(db, redisClient)

	rateLimitMW, err := middleware.RateLimit(redisClient, cfg.RateLimit)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}
	authMW := middleware.Auth(verifier, zapLogger)

	r := mux.NewRouter()

	// Middleware executes in registration order; outermost first.
	if cfg.OTELEnabled {
		r.Use(otelmux.Middleware("moodcal-api"))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.FrontendURL))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	// Public routes
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")

	apiRouter := r.PathPrefix("/api/v1").Subrouter()

	authRouter := apiRouter.PathPrefix("/auth").Subrouter()
	authRouter.Use(authMW)
	authRouter.Use(rateLimitMW)
	authRouter.HandleFunc("/me", authHandler.Me).Methods("GET")

	calendarRouter := apiRouter.PathPrefix("/calendar").Subrouter()
	calendarRouter.Use(authMW)
	calendarRouter.Use(rateLimitMW)
	calendarHandler.RegisterRoutes(calendarRouter)

	profileRouter := apiRouter.PathPrefix("/profile").Subrouter()
	profileRouter.Use(authMW)
	profileRouter.Use(rateLimitMW)
	profileHandler.RegisterRoutes(profileRouter)

	recommendRouter := apiRouter.PathPrefix("/recommendations").Subrouter()
	recommendRouter.Use(authMW)
	recommendRouter.Use(rateLimitMW)
	recommendHandler.RegisterRoutes(recommendRouter)

	insightRouter := apiRouter.PathPrefix("/insights").Subrouter()
	insightRouter.Use(authMW)
	insightRouter.Use(rateLimitMW)
	insightHandler.RegisterRoutes(insightRouter)

	chatRouter := apiRouter.PathPrefix("/chat").Subrouter()
	chatRouter.Use(authMW)
	chatRouter.Use(rateLimitMW)
	chatHandler.RegisterRoutes(chatRouter)

	// Preflight requests get 204; the CORS middleware has already set headers.
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   90 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}
