// Command sengoku runs the clan conquest engine: autoplay campaigns, the
// HTTP command API, and scenario tooling.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/talgya/sengoku/internal/config"
	"github.com/talgya/sengoku/internal/engine"
	"github.com/talgya/sengoku/internal/entropy"
	"github.com/talgya/sengoku/internal/observe"
	"github.com/talgya/sengoku/internal/persistence"
	"github.com/talgya/sengoku/internal/realm"
	"github.com/talgya/sengoku/internal/scenario"
)

var (
	version    = "0.1.0-dev"
	configPath string
	seedFlag   int64
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sengoku",
		Short:         "Turn-based clan and castle conquest engine",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (SENGOKU_* variables override it)")
	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", 0, "Random seed (overrides config; 0 keeps the configured value)")

	rootCmd.AddCommand(
		newPlayCmd(),
		newServeCmd(),
		newValidateCmd(),
		newGenerateCmd(),
	)

	return rootCmd
}

// loadConfig reads the config and installs the default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if seedFlag != 0 {
		cfg.Seed = seedFlag
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return cfg, nil
}

// loadScenario resolves the configured scenario: a built-in name, a file
// path, or the default when empty.
func loadScenario(cfg *config.Config) (*realm.State, error) {
	var (
		s   *realm.State
		err error
	)
	switch {
	case cfg.Scenario == "":
		s, err = scenario.Default()
	case slices.Contains(scenario.Builtins(), cfg.Scenario):
		s, err = scenario.Builtin(cfg.Scenario)
	default:
		s, err = scenario.Load(cfg.Scenario)
	}
	if err != nil {
		return nil, fmt.Errorf("loading scenario: %w", err)
	}
	if cfg.PlayerClan != "" {
		id := realm.ClanID(cfg.PlayerClan)
		if _, ok := s.Clans[id]; !ok {
			return nil, fmt.Errorf("player clan %q is not in the scenario", cfg.PlayerClan)
		}
		s.PlayerClanID = id
	}
	return s, nil
}

// session is a started game plus the resources it holds.
type session struct {
	game    *engine.Game
	db      *persistence.DB
	metrics *observe.Collector
}

func (s *session) Close(ctx context.Context) {
	if s.metrics != nil {
		if err := s.metrics.Shutdown(ctx); err != nil {
			slog.Warn("metrics shutdown", "error", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Warn("close play log", "error", err)
		}
	}
}

func startSession(ctx context.Context, cfg *config.Config) (*session, error) {
	state, err := loadScenario(cfg)
	if err != nil {
		return nil, err
	}

	metrics, collector, err := observe.NewCollector()
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	sess := &session{metrics: collector}

	opts := []engine.Option{
		engine.WithSource(entropy.FromSeed(cfg.Seed)),
		engine.WithMetrics(metrics),
	}
	if cfg.Database != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o755); err != nil {
			sess.Close(ctx)
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		db, err := persistence.Open(cfg.Database)
		if err != nil {
			sess.Close(ctx)
			return nil, fmt.Errorf("opening play log: %w", err)
		}
		sess.db = db
		opts = append(opts, engine.WithRecorder(db))
		slog.Info("play log opened", "path", cfg.Database)
	}

	sess.game, err = engine.New(ctx, state, opts...)
	if err != nil {
		sess.Close(ctx)
		return nil, err
	}
	slog.Info("game started",
		"game", sess.game.ID(),
		"player", state.PlayerClanID,
		"clans", len(state.Clans),
		"castles", len(state.Castles),
		"seed", cfg.Seed,
	)
	return sess, nil
}
