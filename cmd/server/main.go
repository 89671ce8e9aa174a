package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"refcert/internal/exam/handler"
	exammetrics "refcert/internal/exam/metrics"
	"refcert/internal/exam/questionchoice"
	"refcert/internal/exam/service"
	"refcert/internal/exam/store/active"
	"refcert/internal/exam/store/memory"
	examstore "refcert/internal/exam/store/postgres"
	jwttoken "refcert/internal/jwt_token"
	"refcert/internal/notify"
	"refcert/internal/platform/config"
	"refcert/internal/platform/httpserver"
	"refcert/internal/platform/logger"
	platformmetrics "refcert/internal/platform/metrics"
	platformpostgres "refcert/internal/platform/postgres"
	platformredis "refcert/internal/platform/redis"
	httptransport "refcert/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]httptransport.Pinger{}

	var (
		exams     service.ExamStore
		attempts  service.AttemptStore
		snapshots service.SnapshotProvider
	)
	if cfg.PostgresDSN != "" {
		db, err := platformpostgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()

		store := examstore.New(db)
		exams, attempts, snapshots = store, store, store
		checks["postgres"] = httptransport.PingerFunc(db.PingContext)
	} else {
		log.Warn("postgres not configured, serving from in-memory store")
		store := memory.New()
		exams, attempts, snapshots = store, store, store
	}

	var activeAttempts service.ActiveAttemptStore
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		activeAttempts = active.NewRedisStore(redisClient.Client)
		checks["redis"] = httptransport.PingerFunc(redisClient.Health)
	} else {
		log.Warn("redis not configured, keeping active attempts in memory")
		activeAttempts = active.NewMemoryStore()
	}

	outbox := notify.NewOutbox(notify.WithBuffer(cfg.FeedbackBuffer), notify.WithLogger(log))
	var sender notify.Sender
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSender, err := notify.NewKafkaSender(cfg.KafkaBrokers, cfg.FeedbackTopic)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer kafkaSender.Close()
		sender = notify.NewFallbackSender(kafkaSender, notify.NewLogSender(log), log)
	} else {
		log.Warn("kafka not configured, writing exam feedback to the log")
		sender = notify.NewLogSender(log)
	}
	feedbackWorker := notify.NewWorker(sender, outbox.Inbox(), log)

	examService := service.New(
		exams,
		attempts,
		activeAttempts,
		snapshots,
		questionchoice.NewRandom(),
		service.WithLogger(log),
		service.WithMetrics(exammetrics.New()),
		service.WithFeedback(outbox),
	)

	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, "refcert", "refcert")
	examHandler := handler.New(examService, log, platformmetrics.New(), jwttoken.NewJWTServiceAdapter(tokens))

	router := httptransport.NewRouter([]httptransport.Registrar{examHandler}, checks)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return feedbackWorker.Run(ctx)
	})
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
