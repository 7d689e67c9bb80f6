package routes

import (
	"context"
	"fmt"

	"storefront/config"
	"storefront/database"
	"storefront/middleware"
	"storefront/repositories"
	"storefront/services"
	"storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App is the wired storefront server: its router, the session registry the
// sweeper runs against, and the connections to release on shutdown.
type App struct {
	Router   *gin.Engine
	Registry *services.SessionRegistry

	redis  *redis.Client
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{logger: logger}

	app.redis = config.ConnectRedis(ctx, cfg, logger)

	store, err := app.openStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	var cache repositories.CatalogCache = repositories.NewMemoryCatalogCache()
	if app.redis != nil {
		cache = repositories.NewRedisCatalogCache(app.redis)
	}
	catalog := repositories.NewCachedCatalog(
		repositories.NewCatalogRepository(cfg.CatalogBaseURL, cfg.CatalogTimeout),
		cache,
		cfg.CatalogCacheTTL,
		logger,
	)

	app.Registry = services.NewSessionRegistry(services.StorefrontDeps{
		Store:           store,
		Catalog:         catalog,
		Hasher:          utils.DefaultPasswordHasher(),
		Validate:        services.NewFormValidator(),
		Sleep:           services.SleepContext,
		Logger:          logger,
		LoginDelay:      cfg.LoginDelay,
		SignupDelay:     cfg.SignupDelay,
		PaymentDelay:    cfg.PaymentDelay,
		NotificationTTL: cfg.NotificationTTL,
		FailMode:        cfg.FailMode,
	}, cfg.SessionIdleTimeout)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORSMiddleware(cfg.OriginURL))

	SetupRoutes(router, Dependencies{
		Registry:     app.Registry,
		Tokens:       utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry),
		SecureCookie: cfg.IsProduction(),
		Logger:       logger,
	})
	app.Router = router

	return app, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (repositories.KeyValueStore, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		if err := database.RunMigrations(cfg.DSN()); err != nil {
			return nil, err
		}
		pool, err := config.ConnectDB(ctx, cfg, a.logger)
		if err != nil {
			return nil, err
		}
		a.db = pool
		return repositories.NewPostgresStore(pool), nil
	case config.StorageRedis:
		if a.redis == nil {
			a.logger.Warn("Redis unavailable, falling back to in-memory session storage")
			return repositories.NewMemoryStore(), nil
		}
		return repositories.NewRedisStore(a.redis, cfg.RedisKeyTTL), nil
	case config.StorageMemory, "":
		return repositories.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
