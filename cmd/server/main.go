package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/spacelease/internal/config"
	"github.com/rpggio/spacelease/internal/domain/activity"
	"github.com/rpggio/spacelease/internal/domain/contract"
	"github.com/rpggio/spacelease/internal/domain/space"
	"github.com/rpggio/spacelease/internal/domain/user"
	"github.com/rpggio/spacelease/internal/leasing"
	"github.com/rpggio/spacelease/internal/mcp"
	"github.com/rpggio/spacelease/internal/notify"
	"github.com/rpggio/spacelease/internal/store"
	"github.com/rpggio/spacelease/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if logPath := os.Getenv("LEASING_LOG_PATH"); logPath != "" {
		fileWriter, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := newLogger(logWriter, cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	db, err := openStore(ctx, cfg.DB, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	hub := notify.NewHub(cfg.Notify.BufferSize, logger)
	sink, closeSinks := buildSink(ctx, cfg.Notify, hub, logger)
	defer closeSinks()

	dispatcher := notify.NewDispatcher(sink,
		notify.WithBufferSize(cfg.Notify.BufferSize),
		notify.WithLogger(logger),
	)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := dispatcher.Close(closeCtx); err != nil {
			logger.Warn("notification queue not drained", "error", err)
		}
	}()

	userRepo := store.NewUserRepository(db)
	activityRepo := store.NewActivityRepository(db)

	userSvc := user.NewService(userRepo, logger)
	spaceSvc := space.NewService(store.NewSpaceRepository(db), userRepo, activityRepo, dispatcher, logger)
	activitySvc := activity.NewService(activityRepo, logger)
	leasingSvc := leasing.NewService(db, dispatcher, logger,
		leasing.WithInitialStatus(contract.Status(cfg.Leasing.InitialStatus)),
	)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Users:    userSvc,
			Spaces:   spaceSvc,
			Leasing:  leasingSvc,
			Activity: activitySvc,
		},
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	stopSweep := leasingSvc.StartExpirySweep(ctx, cfg.Leasing.ExpirySweepInterval)
	defer stopSweep()

	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(ctx, logger, mcpServer)
	}
	return runHTTPMode(ctx, logger, mcpServer, hub, cfg.Server)
}

func openStore(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (*store.DB, error) {
	dialect := store.Dialect(cfg.Driver)
	dsn := cfg.DSN
	if dialect == store.SQLite {
		if err := ensureDBDir(cfg.Path); err != nil {
			return nil, fmt.Errorf("prepare database path: %w", err)
		}
		dsn = cfg.Path
	}

	db, err := store.Open(dialect, dsn, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database ready", "driver", dialect)
	return db, nil
}

// buildSink fans events out to the in-process hub plus whichever brokers are
// configured. A broker that cannot be reached is logged and skipped.
func buildSink(ctx context.Context, cfg config.NotifyConfig, hub *notify.Hub, logger *slog.Logger) (notify.Sink, func()) {
	sinks := notify.Fanout{hub}
	var closers []io.Closer

	if cfg.RabbitMQ.URL != "" {
		amqpSink, err := notify.DialAMQP(notify.AMQPConfig{URL: cfg.RabbitMQ.URL, Exchange: cfg.RabbitMQ.Exchange}, logger)
		if err != nil {
			logger.Warn("rabbitmq sink disabled", "error", err)
		} else {
			sinks = append(sinks, amqpSink)
			closers = append(closers, amqpSink)
		}
	}
	if cfg.Redis.Addr != "" {
		redisSink, err := notify.DialRedis(ctx, notify.RedisConfig{Addr: cfg.Redis.Addr, Prefix: cfg.Redis.Prefix})
		if err != nil {
			logger.Warn("redis sink disabled", "error", err)
		} else {
			sinks = append(sinks, redisSink)
			closers = append(closers, redisSink)
		}
	}

	return sinks, func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Warn("closing notification sink", "error", err)
			}
		}
	}
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or the context is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, hub *notify.Hub, cfg config.ServerConfig) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           transport.NewServer(transport.Routes{MCP: mcpHandler, Hub: hub, Logger: logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
