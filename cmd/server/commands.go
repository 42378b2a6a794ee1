package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/todmy/crisis-risk/internal/api"
	"github.com/todmy/crisis-risk/internal/assessment"
	"github.com/todmy/crisis-risk/internal/auth"
	"github.com/todmy/crisis-risk/internal/config"
	"github.com/todmy/crisis-risk/internal/crisis"
	"github.com/todmy/crisis-risk/internal/storage"
)

func newRootCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:          "crisis-risk",
		Short:        "Crisis risk scoring engine",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(cfg, logger), newPredictCmd(cfg))
	return root
}

func newServeCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.DB.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if err := storage.EnsureSchema(ctx, db); err != nil {
		return err
	}

	svc := assessment.NewService(assessment.Config{
		Engine:       engine,
		Observations: storage.NewPostgresObservationRepository(db),
		Predictions:  storage.NewPostgresPredictionRepository(db),
		Logger:       logger,
	})

	go purgeLoop(ctx, svc, cfg.Engine.PurgeInterval, logger)

	server := api.NewServer(api.Config{
		Assessment: svc,
		Auth: auth.NewTokenService(auth.Config{
			SecretKey:     cfg.Auth.JWTSecret,
			TokenDuration: cfg.Auth.TokenDuration,
		}),
		Logger: logger,
	})

	logger.Info("starting crisis-risk server",
		slog.String("env", cfg.Env),
		slog.String("algorithm_version", crisis.AlgorithmVersion),
	)
	return server.Run(ctx, ":"+cfg.Server.Port)
}

func purgeLoop(ctx context.Context, svc *assessment.Service, every time.Duration, logger *slog.Logger) {
	if every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.PurgeExpired(ctx); err != nil {
				logger.Warn("failed to purge expired predictions", slog.Any("error", err))
			}
		}
	}
}

func newPredictCmd(cfg *config.Config) *cobra.Command {
	var (
		file          string
		previousScore float64
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score a snapshot read from a JSON file and print the prediction",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cfg)
			if err != nil {
				return err
			}

			in, err := readInput(file)
			if err != nil {
				return err
			}

			var previous *crisis.Prediction
			if cmd.Flags().Changed("previous-score") {
				previous = &crisis.Prediction{RiskScore: previousScore}
			}

			p, err := engine.PredictWithPrevious(in, previous)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "snapshot JSON file, - for stdin")
	cmd.Flags().Float64Var(&previousScore, "previous-score", 0, "risk score of the previous prediction")

	return cmd
}

func readInput(path string) (crisis.Input, error) {
	var in crisis.Input

	r := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return in, fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return in, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return in, nil
}

// newEngine builds the engine from defaults plus any environment overrides
func newEngine(cfg *config.Config) (*crisis.Engine, error) {
	engine, err := crisis.NewEngine(crisis.DefaultConfig())
	if err != nil {
		return nil, err
	}

	var window crisis.WindowDiff
	if cfg.Engine.DefaultDays > 0 {
		window.DefaultDays = &cfg.Engine.DefaultDays
	}
	if cfg.Engine.MinimumDataPoints > 0 {
		window.MinimumDataPoints = &cfg.Engine.MinimumDataPoints
	}

	return engine.WithConfig(crisis.ConfigDiff{AnalysisWindow: &window})
}
