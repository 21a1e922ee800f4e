package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/N0Z0My/xlsx-data-app/internal/api"
	"github.com/N0Z0My/xlsx-data-app/internal/config"
	"github.com/N0Z0My/xlsx-data-app/internal/grader"
	"github.com/N0Z0My/xlsx-data-app/internal/question"
	"github.com/N0Z0My/xlsx-data-app/internal/quizlog"
	"github.com/N0Z0My/xlsx-data-app/internal/store"
	"github.com/N0Z0My/xlsx-data-app/internal/store/memory"
	"github.com/N0Z0My/xlsx-data-app/internal/store/redisstore"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	questions, err := question.LoadXLSX(cfg.QuestionsPath, cfg.QuestionsSheet)
	if err != nil {
		// A quiz without questions cannot run; fail hard, no retry.
		return fmt.Errorf("failed to load question set: %w", err)
	}
	logger.Info("question set loaded", "path", cfg.QuestionsPath, "count", questions.Len())

	sinks, logReader, closeSinks, err := buildSinks(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	llm := grader.NewOpenAIGrader(grader.Options{
		BaseURL:     cfg.GraderBaseURL,
		APIKey:      cfg.GraderAPIKey,
		Model:       cfg.GraderModel,
		Temperature: cfg.GraderTemperature,
		Timeout:     cfg.GraderTimeout,
	}, logger)

	var sessions store.Repository
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		sessions = redisstore.NewSessionStore(client, cfg.SessionTTL)
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
	} else {
		sessions = memory.NewSessionStore()
	}

	handler := api.NewHandler(sessions, questions, llm, sinks, logReader, cfg.MaxQuestions, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// grading calls run inside request handlers and may take a while
		WriteTimeout: cfg.GraderTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// buildSinks constructs the configured activity log sinks. The first
// readable sink also serves the admin endpoints.
func buildSinks(cfg *config.Config, logger *slog.Logger) ([]quizlog.Sink, quizlog.Reader, func(), error) {
	var (
		sinks  []quizlog.Sink
		reader quizlog.Reader
	)
	for _, name := range cfg.LogSinks {
		switch name {
		case "file":
			sink, err := quizlog.NewFileSink(cfg.LogDir, "quiz")
			if err != nil {
				return nil, nil, nil, fmt.Errorf("failed to open file log sink: %w", err)
			}
			sinks = append(sinks, sink)
			if reader == nil {
				// admin reads must span every log file in the
				// directory, not just this process's own file
				reader = quizlog.NewDirReader(cfg.LogDir)
			}
			logger.Info("activity log file opened", "path", sink.Path())
		case "sqlite":
			sink, err := quizlog.NewSQLiteSink(cfg.LogDBPath)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("failed to open sqlite log sink: %w", err)
			}
			sinks = append(sinks, sink)
			if reader == nil {
				reader = sink
			}
			logger.Info("activity log database opened", "path", cfg.LogDBPath)
		default:
			return nil, nil, nil, fmt.Errorf("unknown log sink %q (want file or sqlite)", name)
		}
	}

	closeAll := func() {
		for _, sink := range sinks {
			if err := sink.Close(); err != nil {
				logger.Warn("failed to close log sink", "error", err)
			}
		}
	}
	return sinks, reader, closeAll, nil
}
