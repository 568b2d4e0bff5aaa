package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-vinebar-venice/app/db"
	"github.com/FACorreiaa/go-vinebar-venice/app/observability/metrics"
	"github.com/FACorreiaa/go-vinebar-venice/config"
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/catalog"
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/focus"
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/quiz"
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/saved"
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/selector"
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/share"
	"github.com/FACorreiaa/go-vinebar-venice/internal/kvstore"
	"github.com/FACorreiaa/go-vinebar-venice/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.AppMetrics
	Store   kvstore.Store
	Pool    *pgxpool.Pool

	Catalog     *catalog.Catalog
	Selector    *selector.Selector
	Coordinator *focus.Coordinator

	CatalogService catalog.Service
	QuizService    quiz.Service
	SavedService   saved.Service
	FocusService   focus.Service

	CatalogHandler  *catalog.HandlerImpl
	SelectorHandler *selector.HandlerImpl
	QuizHandler     *quiz.HandlerImpl
	SavedHandler    *saved.HandlerImpl
	FocusHandler    *focus.HandlerImpl
	ShareHandler    *share.HandlerImpl

	closers []func() error
}

// NewContainer opens the configured store and wires every service on top of
// it. Close releases the store.
func NewContainer(ctx context.Context, cfg *config.Config, m *metrics.AppMetrics, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
	}

	if err := c.openStore(ctx); err != nil {
		c.Close()
		return nil, err
	}

	c.Catalog = catalog.Default()
	c.Selector = selector.New(c.Catalog, nil, m, logger)
	c.Coordinator = focus.NewCoordinator(m, logger)

	c.CatalogService = catalog.NewServiceImpl(c.Catalog, logger)
	c.QuizService = quiz.NewServiceImpl(quiz.DefaultQuiz(), c.Selector, m, logger)
	c.SavedService = saved.NewServiceImpl(c.Store, m, logger)
	regions := focus.NewRegionStore(c.Store, cfg.Map.DefaultRegion, logger)
	c.FocusService = focus.NewServiceImpl(c.Catalog, c.Coordinator, regions, logger)

	c.CatalogHandler = catalog.NewHandlerImpl(c.CatalogService, logger)
	c.SelectorHandler = selector.NewHandlerImpl(c.Selector, logger)
	c.QuizHandler = quiz.NewHandlerImpl(c.QuizService, logger)
	c.SavedHandler = saved.NewHandlerImpl(c.SavedService, c.CatalogService, logger)
	c.FocusHandler = focus.NewHandlerImpl(c.FocusService, logger)
	c.ShareHandler = share.NewHandlerImpl(c.CatalogService, logger)

	logger.Info("Container initialized", slog.String("storage_driver", cfg.Storage.Driver))
	return c, nil
}

func (c *Container) openStore(ctx context.Context) error {
	switch c.Config.Storage.Driver {
	case config.DriverPostgres:
		dbConfig, err := database.NewDatabaseConfig(c.Config, c.Logger)
		if err != nil {
			return fmt.Errorf("database config: %w", err)
		}
		if err = database.RunMigrations(dbConfig.ConnectionURL, c.Logger); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		pool, err := database.Init(ctx, dbConfig, c.Logger)
		if err != nil {
			return fmt.Errorf("database pool: %w", err)
		}
		c.Pool = pool
		c.closers = append(c.closers, func() error { pool.Close(); return nil })
		if !database.WaitForDB(ctx, pool, c.Logger) {
			return errors.New("database not ready")
		}
		c.Store = kvstore.NewPostgresStore(pool, c.Metrics, c.Logger)

	case config.DriverSQLite:
		store, err := kvstore.OpenSQLite(c.Config.Repositories.SQLite.Path, c.Metrics, c.Logger)
		if err != nil {
			return fmt.Errorf("sqlite store: %w", err)
		}
		c.closers = append(c.closers, store.Close)
		c.Store = store

	default:
		c.Store = kvstore.NewMemoryStore()
	}
	return nil
}

// RouterConfig exposes the handlers to the HTTP router.
func (c *Container) RouterConfig() *router.Config {
	return &router.Config{
		CatalogHandler:  c.CatalogHandler,
		SelectorHandler: c.SelectorHandler,
		QuizHandler:     c.QuizHandler,
		SavedHandler:    c.SavedHandler,
		FocusHandler:    c.FocusHandler,
		ShareHandler:    c.ShareHandler,
		Logger:          c.Logger,
		Timeout:         c.Config.Server.Timeout,
	}
}

// Close releases the store in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.Logger.Warn("Error releasing resource", slog.Any("error", err))
		}
	}
	c.closers = nil
	c.Logger.Info("Container resources released")
}
