package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/boardquiz/internal/catalog"
	"github.com/playperu/boardquiz/internal/config"
	"github.com/playperu/boardquiz/internal/game"
	"github.com/playperu/boardquiz/internal/handler/health"
	"github.com/playperu/boardquiz/internal/metrics"
	"github.com/playperu/boardquiz/internal/question"
	"github.com/playperu/boardquiz/internal/server"
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
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Questions ---
	provider, err := newProvider(ctx, logger, cfg)
	if err != nil {
		return err
	}

	// --- Session ---
	rec := metrics.New()
	broker := server.NewBroker()
	cat := catalog.New()
	logger.Info("category catalog ready", "categories", cat.Len())

	sess := game.NewSession(game.Options{
		Logger:          logger,
		Provider:        provider,
		Catalog:         cat,
		Metrics:         rec,
		TurnSeconds:     cfg.TurnSeconds,
		RecentQuestions: cfg.RecentQuestions,
		OnChange:        broker.Publish,
	})
	defer sess.Close()

	checks := map[string]health.Checker{"session": sess}
	if c, ok := provider.(health.Checker); ok {
		checks["questions"] = c
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Session:          sess,
		Broker:           broker,
		Metrics:          rec,
		Checks:           checks,
		HostPasswordHash: cfg.HostPasswordHash,
		QuestionTimeout:  cfg.QuestionTimeout,
		SPADir:           cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr, "session", sess.ID())
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func newProvider(ctx context.Context, logger *slog.Logger, cfg *config.Config) (question.Provider, error) {
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, serving built-in questions")
		return question.NewFixture(), nil
	}

	g, err := question.NewGemini(ctx, logger, question.GeminiOptions{
		APIKey:    cfg.GeminiAPIKey,
		Model:     cfg.GeminiModel,
		PerMinute: cfg.QuestionRatePerMinute,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to gemini: %w", err)
	}
	logger.Info("using gemini question provider", "model", cfg.GeminiModel)
	return g, nil
}
