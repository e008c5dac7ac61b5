// Command nflproj fetches, standardizes, stores and serves NFL player
// projections.
//
// Usage:
//
//	nflproj fetch espn --season 2021 --week 8
//	nflproj fetch watson --week 8 --randomize --format json
//	nflproj compare --week 8 --out week8.csv
//	nflproj store espn --week 8
//	nflproj serve
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gridironlab/nflprojections/internal/api"
	"github.com/gridironlab/nflprojections/internal/cache"
	"github.com/gridironlab/nflprojections/internal/config"
	"github.com/gridironlab/nflprojections/internal/espn"
	"github.com/gridironlab/nflprojections/internal/frame"
	"github.com/gridironlab/nflprojections/internal/pipeline"
	"github.com/gridironlab/nflprojections/internal/store"
	"github.com/gridironlab/nflprojections/internal/watson"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "nflproj",
		Short: "NFL player projection pipeline CLI",
	}

	root.AddCommand(fetchCmd())
	root.AddCommand(compareCmd())
	root.AddCommand(storeCmd())
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// fetch command
// --------------------------------------------------------------------------

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch and standardize projections from a provider",
	}
	cmd.AddCommand(fetchESPNCmd())
	cmd.AddCommand(fetchWatsonCmd())
	return cmd
}

func fetchESPNCmd() *cobra.Command {
	var (
		season, week int
		format, out  string
	)
	cmd := &cobra.Command{
		Use:   "espn",
		Short: "Fetch ESPN fantasy projections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				src := newSources(cfg)[espn.SourceName]
				f, err := pipeline.Run(ctx, src, query(cfg, season, week), logger)
				if err != nil {
					return err
				}
				return writeFrame(f, format, out)
			})
		},
	}
	addFetchFlags(cmd, &season, &week, &format, &out)
	return cmd
}

func fetchWatsonCmd() *cobra.Command {
	var (
		season, week int
		format, out  string
		randomize    bool
		pLow, pHigh  float64
	)
	cmd := &cobra.Command{
		Use:   "watson",
		Short: "Fetch Watson prediction service projections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				src := newSources(cfg)[watson.SourceName]
				f, err := pipeline.Run(ctx, src, query(cfg, season, week), logger)
				if err != nil {
					return err
				}
				if randomize {
					rng := rand.New(rand.NewSource(time.Now().UnixNano()))
					f, err = watson.Randomize(f, rng, pLow, pHigh)
					if err != nil {
						return err
					}
				}
				return writeFrame(f, format, out)
			})
		},
	}
	addFetchFlags(cmd, &season, &week, &format, &out)
	cmd.Flags().BoolVar(&randomize, "randomize", false, "Sample projections from each player's score distribution")
	cmd.Flags().Float64Var(&pLow, "plow", watson.DefaultPercentileLow, "Lower percentile of the sampling band")
	cmd.Flags().Float64Var(&pHigh, "phigh", watson.DefaultPercentileHigh, "Upper percentile of the sampling band")
	return cmd
}

// --------------------------------------------------------------------------
// compare command
// --------------------------------------------------------------------------

func compareCmd() *cobra.Command {
	var (
		season, week int
		format, out  string
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Merge projections from all providers into one table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				q := query(cfg, season, week)
				frames := make(map[string]*frame.Frame)
				for name, src := range newSources(cfg) {
					f, err := pipeline.Run(ctx, src, q, logger)
					if err != nil {
						return err
					}
					frames[name] = f
				}
				return writeFrame(pipeline.Merge(frames), format, out)
			})
		},
	}
	addFetchFlags(cmd, &season, &week, &format, &out)
	return cmd
}

// --------------------------------------------------------------------------
// store command
// --------------------------------------------------------------------------

func storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Fetch projections and upsert them into Postgres",
	}
	cmd.AddCommand(storeSourceCmd(espn.SourceName))
	cmd.AddCommand(storeSourceCmd(watson.SourceName))
	return cmd
}

func storeSourceCmd(name string) *cobra.Command {
	var season, week int
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Fetch %s projections and upsert them", name),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				q := query(cfg, season, week)

				pool, err := store.Open(ctx, cfg)
				if err != nil {
					return fmt.Errorf("connect to database: %w", err)
				}
				defer pool.Close()
				if err := pool.EnsureSchema(ctx); err != nil {
					return err
				}

				src := newSources(cfg)[name]
				f, err := pipeline.Run(ctx, src, q, logger)
				if err != nil {
					return err
				}

				start := time.Now()
				result := store.UpsertProjections(ctx, pool, name, q, f)
				logger.Info("Store finished",
					"source", name,
					"query", q.String(),
					"duration", time.Since(start).Round(time.Millisecond),
					"summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("store error", "error", e)
				}

				total, err := pool.Count(ctx, name, q)
				if err != nil {
					return err
				}
				logger.Info("Table state", "source", name, "query", q.String(), "rows", total)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "Season year (defaults to current)")
	cmd.Flags().IntVar(&week, "week", 0, "Week 1-18, or 0 for season totals")
	return cmd
}

// --------------------------------------------------------------------------
// serve command
// --------------------------------------------------------------------------

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the projections API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				slog.SetDefault(logger)

				appCache := cache.New(cfg.CacheEnabled)
				logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

				router := api.NewRouter(newSources(cfg), appCache, cfg, logger)

				addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
				srv := &http.Server{
					Addr:         addr,
					Handler:      router,
					ReadTimeout:  10 * time.Second,
					WriteTimeout: 30 * time.Second,
					IdleTimeout:  60 * time.Second,
				}

				errCh := make(chan error, 1)
				go func() {
					logger.Info("Starting NFL Projections API",
						"addr", addr,
						"environment", cfg.Environment,
						"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						errCh <- err
					}
				}()

				select {
				case err := <-errCh:
					return err
				case <-ctx.Done():
				}
				logger.Info("Shutting down...")

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shutdown: %w", err)
				}
				logger.Info("Server stopped")
				return nil
			})
		},
	}
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// run handles config loading and context cancellation.
func run(fn func(ctx context.Context, cfg *config.Config) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	return fn(ctx, cfg)
}

// newSources builds every registered projection source from config.
func newSources(cfg *config.Config) map[string]pipeline.Source {
	espnClient := espn.NewClient(cfg.ESPNBaseURL, cfg.ProviderRequestsPerMinute, cfg.HTTPTimeout, logger)
	watsonClient := watson.NewClient(cfg.WatsonBaseURL, cfg.ProviderRequestsPerMinute, cfg.HTTPTimeout,
		cache.New(cfg.CacheEnabled), logger)

	return map[string]pipeline.Source{
		espn.SourceName:   espn.NewSource(espnClient),
		watson.SourceName: watson.NewSource(watsonClient, logger),
	}
}

// query applies the config's default season when none is given.
func query(cfg *config.Config, season, week int) pipeline.Query {
	if season == 0 {
		season = cfg.DefaultSeason
	}
	return pipeline.Query{Season: season, Week: week}
}

// addFetchFlags registers the flags shared by the fetch and compare commands.
func addFetchFlags(cmd *cobra.Command, season, week *int, format, out *string) {
	cmd.Flags().IntVar(season, "season", 0, "Season year (defaults to current)")
	cmd.Flags().IntVar(week, "week", 0, "Week 1-18, or 0 for season totals")
	cmd.Flags().StringVar(format, "format", "csv", "Output format (csv or json)")
	cmd.Flags().StringVar(out, "out", "", "Output file (defaults to stdout)")
}

// writeFrame writes a standardized frame as CSV or JSON to stdout or a file.
func writeFrame(f *frame.Frame, format, out string) error {
	var w io.Writer = os.Stdout
	if out != "" {
		file, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer file.Close()
		w = file
	}

	switch format {
	case "csv":
		return f.WriteCSV(w)
	case "json":
		rows := f.Rows()
		if rows == nil {
			rows = []frame.Row{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	default:
		return fmt.Errorf("unknown format %q (want csv or json)", format)
	}
}
