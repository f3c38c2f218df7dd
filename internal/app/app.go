package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/projecthub/api/internal/config"
	"github.com/projecthub/api/internal/database"
	"github.com/projecthub/api/internal/middleware"
	"github.com/projecthub/api/internal/pkg/jwt"
	pkgredis "github.com/projecthub/api/internal/pkg/redis"
	"github.com/projecthub/api/internal/pkg/response"
	"github.com/projecthub/api/internal/pkg/storage"
	"github.com/projecthub/api/internal/pkg/validate"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	mongo  *database.Mongo
	redis  *pkgredis.Client
	logger *zap.Logger
}

// New initializes the application: MongoDB → Redis → storage → routes.
func New(ctx context.Context, logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	response.Configure(logger, !cfg.IsDev())
	validate.Setup()
	jwt.SetSecret(cfg.JWTSecret)

	mongo, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	logger.Info("mongodb connected", zap.String("database", cfg.MongoDB))

	var rc *pkgredis.Client
	if cfg.RedisURL != "" {
		rc, err = pkgredis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			_ = mongo.Close(ctx)
			return nil, fmt.Errorf("redis: %w", err)
		}
	} else {
		logger.Warn("redis_url is empty, rate limiting disabled")
	}

	backend, err := storage.New(ctx, cfg)
	if err != nil {
		_ = mongo.Close(ctx)
		if rc != nil {
			_ = rc.Close()
		}
		return nil, fmt.Errorf("storage: %w", err)
	}

	deps := Deps{
		Store:   database.NewStore(mongo.DB),
		Backend: backend,
	}
	if rc != nil {
		deps.Counter = rc
	}

	return &App{
		cfg:    cfg,
		router: NewRouter(cfg, logger, deps),
		mongo:  mongo,
		redis:  rc,
		logger: logger,
	}, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown closes the database and Redis connections.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.mongo != nil {
		errs = append(errs, a.mongo.Close(ctx))
	}
	return errors.Join(errs...)
}

// Deps are the runtime services the router is built from.
type Deps struct {
	Store   *database.Store
	Backend storage.Backend
	// Counter backs the rate limiter; nil disables it.
	Counter middleware.Counter
}
