package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"trendwatch/internal/adapter/storage"
	"trendwatch/internal/config"
	"trendwatch/internal/domain/monitor"
	"trendwatch/internal/server"
	"trendwatch/internal/service/scoring"
	"trendwatch/internal/service/source"
	"trendwatch/internal/service/watch"
)

func main() {
	// Load .env if present; real deployments set env vars directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	natsConn, err := initNATS(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsConn.Close()

	store := storage.NewMonitorStore(db)

	// Warm the score history so smoothing survives restarts
	history := scoring.NewMemoryHistory()
	if scores, err := store.SmoothedScores(ctx); err != nil {
		log.Printf("Failed to warm score history: %v", err)
	} else {
		history.Warm(scores)
	}

	engine := scoring.NewEngine(scoring.DefaultEngineConfig(), history)

	fetchers := buildFetchers(cfg.Sources)

	runner := watch.NewRunner(store, engine, fetchers, natsConn, watch.RunnerConfig{
		ScanSpec:    cfg.Watch.ScanSpec,
		AlertsTopic: cfg.Watch.AlertsTopic,
		RunTimeout:  cfg.Watch.RunTimeout,
	})

	runner.RegisterAlertHandler(func(alert monitor.Alert) error {
		log.Printf("Alert raised for monitor %s: %s", alert.MonitorID, alert.Summary)
		return nil
	})

	if err := runner.Start(ctx); err != nil {
		log.Fatalf("Failed to start watch runner: %v", err)
	}

	httpServer := server.NewServer(
		cfg.Server,
		store,
		runner,
		natsConn,
		cfg.Watch.AlertsTopic,
	)

	go func() {
		log.Printf("Starting HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-shutdown
	log.Println("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	log.Println("Shutting down services...")

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if err := runner.Stop(shutdownCtx); err != nil {
		log.Printf("Watch runner shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}

// buildFetchers assembles the configured source fetchers. Sources without
// required configuration are left out.
func buildFetchers(cfg config.SourcesConfig) []monitor.Fetcher {
	fetchers := []monitor.Fetcher{
		source.NewTrendsClient(cfg.TrendsBaseURL, cfg.UserAgent, cfg.FetchTimeout),
		source.NewRedditClient(cfg.UserAgent, cfg.FetchTimeout),
		source.NewHackerNewsClient(cfg.FetchTimeout),
	}

	if len(cfg.NewsFeeds) > 0 {
		fetchers = append(fetchers, source.NewNewsFetcher(cfg.NewsFeeds))
	}

	if cfg.TwitterBearerToken != "" {
		fetchers = append(fetchers, source.NewTwitterClient(cfg.TwitterBearerToken, cfg.FetchTimeout))
	}

	return fetchers
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
