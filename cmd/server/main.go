// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"proofmark/internal/claim"
	claimhandler "proofmark/internal/claim/handler"
	claimmetrics "proofmark/internal/claim/metrics"
	claimservice "proofmark/internal/claim/service"
	"proofmark/internal/platform/config"
	"proofmark/internal/platform/events"
	"proofmark/internal/platform/httpserver"
	"proofmark/internal/platform/kafka"
	"proofmark/internal/platform/logger"
	"proofmark/internal/platform/metrics"
	"proofmark/internal/platform/middleware"
	platformredis "proofmark/internal/platform/redis"
	"proofmark/internal/sequencer"
	httptransport "proofmark/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]httptransport.HealthChecker{}

	// Store: postgres when configured, in-memory otherwise.
	var store claim.Store
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("open postgres", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()

		pgStore := claim.NewPostgresStore(db)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Error("ensure schema", "error", err.Error())
			os.Exit(1)
		}
		store = pgStore
		checks["postgres"] = db.PingContext
		log.Info("using postgres claim store")
	} else {
		store = claim.NewInMemoryStore()
		log.Warn("no postgres DSN configured, claims will not survive restarts")
	}

	// Redis: shared sequencer and read cache when configured.
	var clock sequencer.Clock = sequencer.NewMemoryClock()
	rdb, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err.Error())
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
		clock = sequencer.NewRedisClock(rdb.Client)
		store = claim.NewCachedStore(store, rdb.Client, cfg.CacheTTL)
		checks["redis"] = rdb.Health
		log.Info("using redis sequencer and claim cache")
	}

	// Event sink: kafka when configured, structured log otherwise. The
	// service publishes into a buffered channel; the worker drains it.
	var sink claim.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Error("connect kafka", "error", err.Error())
			os.Exit(1)
		}
		defer producer.Close()
		sink = producer
		log.Info("publishing claim events to kafka", "topic", cfg.KafkaTopic)
	} else {
		sink = events.NewLogPublisher(log)
	}
	channel := events.NewChannel(cfg.EventBuffer, log)
	worker := events.NewWorker(sink, channel.Events(), log)

	svc, err := claimservice.New(store, clock,
		claimservice.WithLogger(log),
		claimservice.WithPublisher(channel),
		claimservice.WithMetrics(claimmetrics.New()),
		claimservice.WithMaxBytesInHash(cfg.MaxBytesInHash),
	)
	if err != nil {
		log.Error("build claim service", "error", err.Error())
		os.Exit(1)
	}

	validator := middleware.NewHMACValidator(cfg.JWTSigningKey)
	handler := claimhandler.New(svc, log, metrics.New(), validator)
	router := httptransport.NewRouter(handler, checks)

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(ctx)
	})
	g.Go(func() error {
		log.Info("starting proofmark", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}
