package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shop-admin/internal/config"
	"shop-admin/internal/fallback"
	"shop-admin/internal/middleware"
	"shop-admin/internal/service"
	"shop-admin/internal/transport"
	"shop-admin/internal/upstream"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	mode, err := service.ParseMode(cfg.Dashboard.FallbackMode)
	if err != nil {
		return nil, err
	}
	policy, err := service.ParseUserNotFoundPolicy(cfg.Dashboard.UserNotFoundPolicy)
	if err != nil {
		return nil, err
	}

	// Create router
	router := chi.NewRouter()

	router.Use(middleware.DefaultMiddlewareStack()...)
	router.Use(middleware.ErrorHandlingMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.IsDevelopment()))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
			"status":        "ok",
			"fallback_mode": string(mode),
		})
	})

	// Back-office client
	upstreamLogger := logger.Named("upstream")
	client := upstream.NewClient(cfg.Upstream.BaseURL, upstreamLogger,
		upstream.WithTimeout(cfg.Upstream.Timeout),
		upstream.WithUnauthorizedHandler(func(ctx context.Context, auth upstream.AuthContext, path string) {
			upstreamLogger.Warn("Back office rejected token",
				zap.String("path", path),
				zap.String("subject", auth.Subject),
			)
		}),
	)

	// Initialize services
	opts := service.Options{
		Mode:              mode,
		UserNotFound:      policy,
		RevenueFromOrders: cfg.Dashboard.RevenueFromOrders(),
	}
	generator := fallback.NewGenerator()
	statsService := service.NewStatsService(client, generator, opts, logger.Named("stats"))
	shippingService := service.NewShippingService(client, generator, opts, logger.Named("shipping"))

	// Initialize handlers
	dashboardHandler := transport.NewDashboardHandler(statsService, logger)
	shippingHandler := transport.NewShippingHandler(shippingService, logger)

	// Protected route middleware
	protected := []func(http.Handler) http.Handler{
		middleware.AuthMiddleware(logger),
	}

	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		protected = append(protected, middleware.RateLimitMiddleware(redisClient, middleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "dashboard_rate_limit",
		}, logger))
	}

	// Register routes
	dashboardHandler.RegisterRoutes(router, protected...)
	shippingHandler.RegisterRoutes(router, protected...)

	logger.Info("Dashboard services configured",
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.String("fallback_mode", string(mode)),
		zap.String("user_not_found_policy", string(policy)),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
	)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: cfg.Upstream.Timeout + 30*time.Second,
		},
		config: cfg,
		logger: logger,
		redis:  redisClient,
	}

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
