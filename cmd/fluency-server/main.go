package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/wiaanjvr/fluency-next-sub010/internal/bootstrap"
	"github.com/wiaanjvr/fluency-next-sub010/internal/config"
	"github.com/wiaanjvr/fluency-next-sub010/internal/database"
	"github.com/wiaanjvr/fluency-next-sub010/internal/deck"
	"github.com/wiaanjvr/fluency-next-sub010/internal/review"
	"github.com/wiaanjvr/fluency-next-sub010/internal/server"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

var (
	configFile string
	storage    string
)

func main() {
	var debugMode bool
	rootCmd := &cobra.Command{
		Use:           "fluency-server",
		Short:         "Spaced-repetition review HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.Flags().StringVar(&storage, "storage", "yaml", "storage backend: yaml or db")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	if err := rootCmd.Execute(); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	os.Exit(0)
}

func run(ctx context.Context) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	repo, err := newRepository(app, cfg)
	if err != nil {
		return fmt.Errorf("newRepository() > %w", err)
	}

	reviews := review.NewService(repo, srs.NewScheduler(srs.SchedulerConfig{
		LeechThreshold:  cfg.Scheduler.LeechThreshold,
		MaxIntervalDays: cfg.Scheduler.MaxIntervalDays,
	}))

	mux := server.NewHandler(reviews, repo).Routes()
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: corsMiddleware(h2c.NewHandler(mux, &http2.Server{}), cfg.Server.CORS.AllowedOrigins),
	}

	return app.Serve(ctx, srv)
}

func newRepository(app *bootstrap.App, cfg *config.Config) (deck.Repository, error) {
	switch storage {
	case "yaml":
		return deck.NewYAMLRepository(cfg.Decks), nil
	case "db":
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database.Open() > %w", err)
		}
		app.AddShutdownHook(func(ctx context.Context) error {
			return db.Close()
		})
		return deck.NewDBRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", storage)
	}
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

func corsMiddleware(next http.Handler, allowedOrigins []string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// setupLogger configures the default logger based on debug mode
func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}
