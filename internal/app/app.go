package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/cache"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/config"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/handlers"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/logger"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/middleware"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/migrations"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/models/todo"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/repository/todo/inmemory"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/repository/todo/postgres"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/service"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TodoRepository
	pages      cache.PageCache
	service    handlers.Service
	worker     *worker.RetentionWorker
	shutdowns  []func() // run in reverse order on Close
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// Init wires the store, the page cache, the service, the router and the
// retention worker. On error everything built so far is released.
func (a *App) Init(ctx context.Context) (err error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: flushing logs")
		logger.Sync()
	})

	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if err := a.initRepository(ctx); err != nil {
		return err
	}
	if err := a.initCache(ctx); err != nil {
		return err
	}

	todoService := service.NewTodoService(a.repository, a.pages)
	a.service = todoService

	if a.config.Retention.Enabled {
		if a.worker, err = a.newRetentionWorker(); err != nil {
			return fmt.Errorf("init retention worker: %w", err)
		}
	}

	a.initRouter(handlers.NewTodoHandler(todoService))
	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("App: initialized",
		zap.String("repository", a.config.Repository.Type),
		zap.String("cache", a.config.Cache.Backend),
		zap.Bool("retention", a.config.Retention.Enabled))
	return nil
}

func (a *App) initRepository(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryInMemory:
		a.repository = inmemory.NewTodoStorage()
		logger.Info("App: using in-memory store")
		return nil

	case config.RepositoryPostgres:
		if a.config.Database.MigrateOnStart {
			if err := migrations.Up(a.config.Database.URL); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}

		pool, err := postgres.NewPool(ctx, a.config.Database)
		if err != nil {
			return err
		}
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("App: closing database pool")
			pool.Close()
		})

		a.repository = postgres.New(pool, postgres.WithSlowQueryThreshold(a.config.Database.SlowQueryThreshold))
		return nil

	default:
		return fmt.Errorf("unknown repository type %q", a.config.Repository.Type)
	}
}

func (a *App) initCache(ctx context.Context) error {
	cfg := a.config.Cache
	switch cfg.Backend {
	case config.CacheNone:
		a.pages = cache.Nop{}
		return nil

	case config.CacheMemory:
		memCfg := cache.DefaultMemoryConfig()
		memCfg.Capacity = cfg.Capacity
		memCfg.NumShards = cfg.NumShards
		memCfg.EvictionPercentage = cfg.EvictionPercentage
		if cfg.TTL > 0 {
			memCfg.TTL = cfg.TTL
		}

		pages, err := cache.NewMemory(memCfg)
		if err != nil {
			return fmt.Errorf("init memory cache: %w", err)
		}
		a.pages = pages
		return nil

	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("App: closing redis client")
			if err := client.Close(); err != nil {
				logger.Warn("App: close redis client", zap.Error(err))
			}
		})

		pages := cache.NewRedis(client, cfg.Redis.Namespace, cfg.TTL)
		if err := pages.Ping(ctx); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr(), err)
		}
		a.pages = pages
		logger.Info("App: connected to Redis", zap.String("addr", cfg.Redis.Addr()))
		return nil

	default:
		return fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

func (a *App) initRouter(h *handlers.TodoHandler) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CORS(a.config.Server.CORSOrigins))
	if a.config.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(a.config.Server.RequestTimeout))
	}
	if a.config.Server.RateLimit > 0 {
		r.Use(middleware.RateLimit(a.config.Server.RateLimit))
	}

	h.Mount(r)
	a.router = r
}

func (a *App) Router() http.Handler {
	return a.router
}

// Run serves HTTP and runs the retention worker until ctx is cancelled, then
// shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if a.worker != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.worker.Start(ctx)
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP: server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("HTTP: shutdown requested")
	case err, ok := <-serverErr:
		if ok {
			runErr = fmt.Errorf("serve: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP: graceful shutdown failed", err)
		if runErr == nil {
			runErr = err
		}
	}

	cancel()
	wg.Wait()
	logger.Info("HTTP: server stopped")
	return runErr
}

// Sweep runs one retention pass immediately, regardless of the schedule.
func (a *App) Sweep(ctx context.Context) ([]*todo.Todo, error) {
	w := a.worker
	if w == nil {
		var err error
		if w, err = a.newRetentionWorker(); err != nil {
			return nil, err
		}
	}
	return w.Sweep(ctx, time.Now())
}

// newRetentionWorker falls back to the worker defaults for unset values.
func (a *App) newRetentionWorker() (*worker.RetentionWorker, error) {
	var window *time.Duration
	if a.config.Retention.Window > 0 {
		window = &a.config.Retention.Window
	}
	var schedule *string
	if a.config.Retention.Schedule != "" {
		schedule = &a.config.Retention.Schedule
	}
	return worker.NewRetentionWorker(a.repository, a.pages, window, schedule)
}

func (a *App) Close() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = a.shutdowns[:0]
}
