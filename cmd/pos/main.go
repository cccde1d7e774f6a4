package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/pos-demo/internal/api"
	"github.com/nikolayk812/pos-demo/internal/auth"
	"github.com/nikolayk812/pos-demo/internal/config"
	"github.com/nikolayk812/pos-demo/internal/handler"
	"github.com/nikolayk812/pos-demo/internal/port"
	"github.com/nikolayk812/pos-demo/internal/register"
	"github.com/nikolayk812/pos-demo/internal/repository"
	"github.com/nikolayk812/pos-demo/internal/session"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	sessionKeyPrefix = "pos:session:"
	shutdownTimeout  = 5 * time.Second
	evictionInterval = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logger, err := newLogger(cfg.Level())
	if err != nil {
		log.Fatal("Failed to create logger: ", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store port.SessionStore
	if cfg.RedisAddr != "" {
		client, err := session.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("session.ConnectRedis: %w", err)
		}
		defer client.Close()

		store = session.NewRedis(client, sessionKeyPrefix, cfg.SessionTTL)
		logger.Info("Using redis session store", zap.String("addr", cfg.RedisAddr))
	} else {
		store = session.NewMemory(cfg.SessionTTL)
		logger.Info("Using in-memory session store")
	}

	var journal port.ReceiptRepository
	if cfg.DatabaseURL != "" {
		pool, err := repository.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("repository.ConnectPostgres: %w", err)
		}
		defer pool.Close()

		journal = repository.NewReceipt(pool)
		logger.Info("Receipt journal enabled")
	}

	client, err := api.New(cfg.APIBaseURL, &http.Client{Timeout: cfg.APITimeout}, logger)
	if err != nil {
		return fmt.Errorf("api.New: %w", err)
	}
	// API_TIMEOUT bounds reads only, a dispatched sale waits for its answer.
	client = client.WithSubmitClient(&http.Client{})

	authService := auth.NewService(func(token string) auth.Remote {
		return client.WithToken(token)
	}, store, logger)

	registry := register.NewRegistry(func(token string) register.Remote {
		return client.WithToken(token)
	}, journal, cfg.Currency(), logger)
	go registry.RunEviction(ctx, evictionInterval, cfg.SessionTTL)

	params := handler.RouterParams{
		Auth: handler.NewAuthHandler(authService, registry, func(token string) handler.DashboardSource {
			return client.WithToken(token)
		}, logger),
		Cart:        handler.NewCartHandler(cfg.Currency(), cfg.Language(), logger),
		AuthService: authService,
		Registry:    registry,
		Logger:      logger,
	}
	if journal != nil {
		params.Receipts = handler.NewReceiptHandler(journal, cfg.Language(), logger)
	}

	if cfg.Level() > zapcore.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(params),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("srv.ListenAndServe: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	logger.Info("Server exited")

	return nil
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stdout"}

	return cfg.Build()
}
