package bootstrap

import (
	"context"
	"fmt"

	"storefront/config"
	"storefront/libs"
	"storefront/logging"
	"storefront/middleware"
	"storefront/models"
	"storefront/repositories"
	"storefront/routes"
	"storefront/services"
	"storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App is the wired storefront: services, router and the connections they own.
type App struct {
	Config   *config.Config
	Log      *zap.Logger
	Catalog  *services.CatalogService
	Sessions *services.SessionService
	Source   libs.CatalogSource
	Router   *gin.Engine

	db    *pgxpool.Pool
	redis *redis.Client
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.Init("storefront", cfg.App.LogFile, cfg.App.LogLevel)
	utils.DefaultCurrency = cfg.App.Currency

	app := &App{Config: cfg, Log: log}

	var repo repositories.CatalogRepository
	switch cfg.Catalog.Source {
	case "postgres":
		if err := config.RunMigrations(cfg, log); err != nil {
			return nil, err
		}
		pool, err := config.ConnectDB(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		app.db = pool
		repo = repositories.NewPostgresCatalogRepository(pool)
	default:
		repo = repositories.NewStaticCatalogRepository(nil)
	}
	app.Catalog = services.NewCatalogService(repo)
	app.Source = NewCatalogSource(cfg, log)

	app.redis = models.InitRedis(log, cfg.Redis.URL, cfg.Redis.Addr, cfg.Redis.Password)
	if app.redis != nil {
		app.Source = libs.NewCachedCatalogSource(
			app.Source.(libs.KeyedCatalogSource),
			libs.NewRedisPageCache(app.redis, cfg.Remote.CacheTTL),
			logging.New("catalog-cache"),
		)
	}

	app.Sessions = services.NewSessionService(services.SessionConfig{
		Secret:       cfg.Session.Secret,
		TTL:          cfg.Session.TTL,
		FetchTimeout: cfg.Remote.Timeout,
		Currency:     cfg.App.Currency,
	}, app.Catalog, app.Source, logging.New("sessions"))

	app.Router = NewRouter(cfg, app.Catalog, app.Sessions)
	return app, nil
}

// NewCatalogSource builds the remote catalog client from config.
func NewCatalogSource(cfg *config.Config, log *zap.Logger) libs.CatalogSource {
	log.Info("remote catalog configured",
		zap.String("base_url", cfg.Remote.BaseURL),
		zap.Int("page_size", cfg.Remote.PageSize),
		zap.Bool("forward_query", cfg.Remote.ForwardQuery),
	)
	return libs.NewRemoteCatalogClient(cfg.Remote.BaseURL, cfg.Remote.PageSize, cfg.Remote.Timeout, cfg.Remote.ForwardQuery)
}

func NewRouter(cfg *config.Config, catalog *services.CatalogService, sessions *services.SessionService) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.MetricsMiddleware())
	router.Use(middleware.Logging(logging.New("http")))
	router.Use(middleware.CORSMiddleware(cfg.HTTP.AllowedOrigins))

	routes.SetupRoutes(router, routes.Deps{
		Catalog:   catalog,
		Sessions:  sessions,
		Currency:  cfg.App.Currency,
		KeepAlive: cfg.HTTP.SSEKeepAlive,
	})
	return router
}

func (a *App) Addr() string {
	return fmt.Sprintf(":%s", a.Config.App.Port)
}

func (a *App) Close() {
	a.Sessions.Close()
	models.CloseRedis(a.redis)
	config.CloseDB(a.db)
	logging.Sync()
}
