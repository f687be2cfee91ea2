package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/godilite/ta-grader/internal/config"
	handler "github.com/godilite/ta-grader/internal/grpc"
	httpapi "github.com/godilite/ta-grader/internal/http"
	"github.com/godilite/ta-grader/internal/llm"
	"github.com/godilite/ta-grader/internal/repository"
	"github.com/godilite/ta-grader/internal/service"
	"github.com/godilite/ta-grader/pkg/cache"
	dbbuilder "github.com/godilite/ta-grader/pkg/database"
	grpcsrv "github.com/godilite/ta-grader/pkg/grpc/server"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	httpServer *http.Server
	grpcServer *grpcsrv.Server
}

func newRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.SummaryRepository, *sql.DB, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory, "":
		logger.Info("Using in-memory grade store")
		return repository.NewMemorySummaryRepository(), nil, nil

	case config.StoreSQLite:
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		dbPool, err := dbbuilder.New(ctx,
			dbbuilder.WithDriver(config.StoreSQLite),
			dbbuilder.WithDataSource(cfg.DBPath),
			dbbuilder.WithSchema(repository.Schema),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("database init failed: %w", err)
		}
		logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))
		return repository.NewSQLiteSummaryRepository(dbPool), dbPool, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	repo, dbPool, err := newRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	completer, err := llm.New(ctx, cfg.LLM(), logger)
	if err != nil {
		return nil, fmt.Errorf("language model init failed: %w", err)
	}

	var cacheClient *cache.Cache
	if cfg.RedisAddr != "" {
		cacheClient, err = cache.New(ctx,
			cache.WithAddress(cfg.RedisAddr),
			cache.WithKeyPrefix("ta-grader:"),
		)
		if err != nil {
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
		completer = llm.NewCachedCompleter(completer, cacheClient, cfg.LLM().Namespace(), cfg.LLMCacheTTL, logger)
	}

	store := service.NewGradeSummaryStore(repo, logger)
	reports := service.NewReportService(store, logger)
	grading := service.NewGradingService(store, completer, logger)

	api := httpapi.NewServer(store, reports, grading, completer, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Routes(cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcHandlers := handler.NewGRPCHandlers(store, reports, grading, logger)

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithLogging(true),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	grpcServer.RegisterServiceWithHealth(handler.ServiceName, func(s *grpc.Server) {
		handler.RegisterGradeReportServer(s, grpcHandlers)
	})

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		httpServer: httpServer,
		grpcServer: grpcServer,
	}, nil
}

// Run starts the application and blocks until a shutdown signal is received
// or the HTTP server fails.
func (a *App) Run() error {
	a.logger.Info("application starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.grpcServer.Start()

	httpErr := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErr <- err
		}
		close(httpErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-httpErr:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	a.logger.Info("application shutting down")
	a.shutdown()

	_ = a.logger.Sync()
	return runErr
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP shutdown error", zap.Error(err))
	}
	if err := a.grpcServer.Shutdown(ctx); err != nil {
		a.logger.Error("gRPC shutdown error", zap.Error(err))
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("cache shutdown error", zap.Error(err))
		}
	}
	if a.dbPool != nil {
		if err := a.dbPool.Close(); err != nil {
			a.logger.Error("database shutdown error", zap.Error(err))
		}
	}

	if ctx.Err() == context.DeadlineExceeded {
		a.logger.Warn("shutdown completed but deadline exceeded")
	} else {
		a.logger.Info("graceful shutdown completed successfully")
	}
}
