package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/config"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/database"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/handler/health"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/i18n"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/migrations"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/persistence"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/questions"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/server"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/session"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(stdout, cfg)
	slog.SetDefault(logger)

	lang, err := farmquest.ParseLanguage(cfg.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("parsing DEFAULT_LANGUAGE: %w", err)
	}

	// --- Storage ---
	kv, closeKV, err := openKV(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeKV()
	logger.Info("storage ready", "backend", cfg.StorageBackend)

	// --- Questions ---
	qs, err := questions.Load(cfg.QuestionDataset)
	if err != nil {
		return fmt.Errorf("loading questions: %w", err)
	}
	source := questions.NewMemorySource(qs, questions.WithLatency(cfg.QuestionLatency))
	logger.Info("questions loaded", "dataset", cfg.QuestionDataset, "count", len(qs))

	// --- Session ---
	levels := farmquest.Levels()
	broker := server.NewBroker()
	repo := persistence.NewSessionRepository(kv, levels, logger)
	store := session.New(repo, source,
		session.WithLogger(logger),
		session.WithNotifier(broker),
		session.WithLevels(levels),
		session.WithLockGuard(cfg.LockGuard),
	)

	setting := i18n.NewSetting(lang)
	stopSync := session.SyncLanguage(setting, store)
	defer stopSync()

	if err := store.LoadSession(ctx); err != nil {
		logger.Warn("could not restore session", "error", err)
	} else if s := store.Session(); s != nil {
		logger.Info("session restored", "player_id", s.PlayerID)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Store:       store,
		Language:    setting,
		Broker:      broker,
		CORSOrigins: cfg.CORSOrigins,
		WebDir:      cfg.WebDir,
	}, func(r chi.Router) {
		r.Mount("/healthz", health.NewHandler(logger, map[string]health.Checker{
			"storage":   kv,
			"questions": questionsChecker(source),
		}).Routes())
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.LogFormat == "text" {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			TimeFormat: time.Kitchen,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
}

// openKV opens the configured storage backend. The returned func releases it.
func openKV(ctx context.Context, cfg *config.Config) (persistence.KV, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return persistence.NewRedisKV(rdb), func() { rdb.Close() }, nil

	case config.BackendMemory:
		return persistence.NewMemoryKV(), func() {}, nil

	default:
		db, err := database.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to sqlite: %w", err)
		}
		if err := migrations.Run(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		return persistence.NewSQLiteKV(db), func() { db.Close() }, nil
	}
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}

// questionsChecker fails when any crop has no questions.
func questionsChecker(src questions.Source) health.Checker {
	return health.CheckerFunc(func(ctx context.Context) error {
		for _, crop := range farmquest.AllCrops() {
			qs, err := src.ForCrop(ctx, crop)
			if err != nil {
				return err
			}
			if len(qs) == 0 {
				return fmt.Errorf("no questions for %s", crop)
			}
		}
		return nil
	})
}
