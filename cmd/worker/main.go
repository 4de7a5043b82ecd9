package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"otr-data-worker/internal/checks"
	"otr-data-worker/internal/domain"
	"otr-data-worker/internal/materialize"
	"otr-data-worker/internal/observability"
	"otr-data-worker/internal/osuapi"
	"otr-data-worker/internal/storage"
	"otr-data-worker/internal/storage/clickhouse"
	"otr-data-worker/internal/storage/memory"
	"otr-data-worker/internal/storage/migrations"
	pgstore "otr-data-worker/internal/storage/postgres"
	"otr-data-worker/internal/worker"
)

func main() {
	// Load .env if present; explicit environment wins.
	_ = godotenv.Load()

	apiKey := flag.String("osu-api-key", envOr("OSU_API_KEY", ""), "osu! API v1 key")
	apiRate := flag.Float64("osu-api-rate", 1.0, "osu! API requests per second")
	postgresDSN := flag.String("postgres-dsn", envOr("POSTGRES_DSN", ""), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", envOr("CLICKHOUSE_DSN", ""), "ClickHouse DSN for the check audit trail (empty to disable)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	idleInterval := flag.Duration("idle-interval", worker.DefaultIdleInterval, "Sleep duration when no match is pending")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")
	enqueue := flag.String("enqueue", "", "Comma-separated osu! match ids to enqueue before starting")
	tournamentID := flag.Int64("tournament-id", 0, "Tournament id for enqueued matches")
	enqueueVerified := flag.Bool("enqueue-verified", false, "Enqueue matches as externally verified")

	flag.Parse()

	logger := log.New(os.Stdout, "[worker] ", log.LstdFlags|log.Lshortfile)

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	err := run(ctx, logger, options{
		apiKey:          *apiKey,
		apiRate:         *apiRate,
		postgresDSN:     *postgresDSN,
		clickhouseDSN:   *clickhouseDSN,
		useMemory:       *useMemory,
		idleInterval:    *idleInterval,
		enqueue:         *enqueue,
		tournamentID:    *tournamentID,
		enqueueVerified: *enqueueVerified,
	})

	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

type options struct {
	apiKey          string
	apiRate         float64
	postgresDSN     string
	clickhouseDSN   string
	useMemory       bool
	idleInterval    time.Duration
	enqueue         string
	tournamentID    int64
	enqueueVerified bool
}

func run(ctx context.Context, logger *log.Logger, opts options) error {
	if opts.apiKey == "" {
		return fmt.Errorf("--osu-api-key is required (or set OSU_API_KEY)")
	}
	if !opts.useMemory && opts.postgresDSN == "" {
		return fmt.Errorf("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	var matchStore storage.MatchStore = memory.NewMatchStore()
	var beatmapStore storage.BeatmapStore = memory.NewBeatmapStore()
	var playerStore storage.PlayerStore = memory.NewPlayerStore()

	if !opts.useMemory {
		pool, err := pgstore.NewPool(ctx, opts.postgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		matchStore = pgstore.NewMatchStore(pool)
		beatmapStore = pgstore.NewBeatmapStore(pool)
		playerStore = pgstore.NewPlayerStore(pool)
	}

	var auditStore storage.CheckAuditStore
	if opts.clickhouseDSN != "" {
		conn, err := clickhouse.NewConn(ctx, opts.clickhouseDSN)
		if err != nil {
			return fmt.Errorf("connect to clickhouse: %w", err)
		}
		defer conn.Close()

		chStore := clickhouse.NewCheckAuditStore(conn)
		if err := chStore.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure clickhouse schema: %w", err)
		}
		auditStore = chStore
		logger.Println("Check audit trail enabled")
	}

	if opts.enqueue != "" {
		verification := domain.VerificationPending
		if opts.enqueueVerified {
			verification = domain.VerificationVerified
		}
		for _, id := range splitIDs(opts.enqueue) {
			err := matchStore.Enqueue(ctx, id, opts.tournamentID, verification)
			if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
				return fmt.Errorf("enqueue match %d: %w", id, err)
			}
		}
		logger.Printf("Enqueued matches: %s", opts.enqueue)
	}

	client := osuapi.NewClient(opts.apiKey, osuapi.WithRateLimit(opts.apiRate, 2))
	metrics := observability.NewMetrics("")

	resolver := materialize.NewBeatmapResolver(client, beatmapStore, logger, metrics.BeatmapsFetched)
	materializer := materialize.NewMaterializer(matchStore, playerStore, resolver, logger)

	w := worker.New(worker.Options{
		MatchStore:   matchStore,
		BeatmapStore: beatmapStore,
		Source:       client,
		Materializer: materializer,
		Engine:       checks.NewEngine(),
		AuditStore:   auditStore,
		IdleInterval: opts.idleInterval,
		Logger:       logger,
		Metrics:      metrics,
	})

	return w.Run(ctx)
}

// envOr returns the environment variable value, or fallback when unset.
func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// splitIDs parses a comma-separated id list, skipping malformed entries.
func splitIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
