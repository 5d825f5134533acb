// Command hitmaker runs the music-career world simulation.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/engine"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/persistence"
)

func main() {
	rt := config.FromEnv()
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "hitmaker",
		Short:         "Weekly world simulation for a music career",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			setupLogging(verbose)
		},
	}
	rootCmd.PersistentFlags().StringVar(&rt.DBPath, "db", rt.DBPath, "SQLite save file")
	rootCmd.PersistentFlags().StringVar(&rt.BalancePath, "balance", rt.BalancePath, "YAML balance overrides")
	rootCmd.PersistentFlags().Int64Var(&rt.Seed, "seed", rt.Seed, "deterministic seed (0 = production entropy)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newCmd(&rt))
	rootCmd.AddCommand(advanceCmd(&rt))
	rootCmd.AddCommand(chartsCmd(&rt))
	rootCmd.AddCommand(statusCmd(&rt))
	rootCmd.AddCommand(serveCmd(&rt))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setupLogging picks a human handler for terminals and JSON otherwise.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// openSession opens the database and builds a session over it. When
// requireGame is set the current save must load.
func openSession(ctx context.Context, rt *config.Runtime, requireGame bool) (*engine.Session, *persistence.DB, error) {
	cfg, err := config.Load(rt.BalancePath)
	if err != nil {
		return nil, nil, err
	}

	var rng entropy.Source
	if rt.Seed != 0 {
		rng = entropy.NewSeeded(rt.Seed)
	} else {
		rng = entropy.Production(rt.RandomOrgKey)
	}

	if dir := filepath.Dir(rt.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := persistence.Open(rt.DBPath)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("database opened", "path", rt.DBPath)

	sess := engine.NewSession(engine.NewSimulation(cfg, rng), db)
	if err := sess.Load(ctx); err != nil {
		if requireGame || !errors.Is(err, persistence.ErrNoSave) {
			db.Close()
			if errors.Is(err, persistence.ErrNoSave) {
				return nil, nil, errors.New("no saved game; run `hitmaker new` first")
			}
			return nil, nil, err
		}
	}
	return sess, db, nil
}
