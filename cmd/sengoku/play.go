package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/sengoku/internal/command"
	"github.com/talgya/sengoku/internal/engine"
	"github.com/talgya/sengoku/internal/planner"
	"github.com/talgya/sengoku/internal/realm"
	"github.com/talgya/sengoku/internal/turn"
	"github.com/talgya/sengoku/internal/victory"
)

func newPlayCmd() *cobra.Command {
	var (
		turns    int
		interval time.Duration
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Autoplay a campaign",
		Long:  "Lets the rule-based planner command every clan until one unifies the land or the turn limit is reached.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, turns, interval, verbose)
		},
	}

	cmd.Flags().IntVarP(&turns, "turns", "t", 0, "Turn limit (overrides config; 0 keeps the configured value)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Pause between turns")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every command result")

	return cmd
}

func runPlay(cmd *cobra.Command, turns int, interval time.Duration, verbose bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if turns > 0 {
		cfg.MaxTurns = turns
	}

	sess, err := startSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close(context.WithoutCancel(ctx))

	c := &engine.Campaign{
		Game:           sess.game,
		Planner:        &planner.Rules{T: cfg.Planner},
		MaxTurns:       cfg.MaxTurns,
		ActionsPerTurn: cfg.Planner.MaxActions,
		Interval:       interval,
		OnTurn:         func(rep turn.Report) { printTurn(out, rep) },
	}
	if verbose {
		c.OnAction = func(clan realm.ClanID, res command.Result) {
			fmt.Fprintf(out, "  %-10s %-20s %-16s %s\n", clan, res.Kind, res.Grade, res.Message)
		}
	}

	verdict, err := c.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		slog.Info("campaign interrupted", "turn", sess.game.Turn())
	case err != nil:
		return err
	}

	printSummary(out, sess.game, verdict)
	if err := printMetrics(ctx, out, sess); err != nil {
		slog.Warn("metrics summary", "error", err)
	}
	return nil
}

func printTurn(w io.Writer, rep turn.Report) {
	var notes []string
	for _, d := range rep.Defections {
		to := string(d.To)
		if to == "" {
			to = "no one"
		}
		notes = append(notes, fmt.Sprintf("%s leaves %s for %s", d.CharacterID, d.From, to))
	}
	for _, id := range rep.Rebellions {
		notes = append(notes, fmt.Sprintf("revolt at %s", id))
	}
	for _, id := range rep.Dissolved {
		notes = append(notes, fmt.Sprintf("%s is destroyed", id))
	}
	if len(rep.Starving) > 0 {
		notes = append(notes, fmt.Sprintf("starving: %v", rep.Starving))
	}
	if len(notes) == 0 {
		fmt.Fprintf(w, "turn %d settled\n", rep.Turn)
		return
	}
	fmt.Fprintf(w, "turn %d settled: %s\n", rep.Turn, strings.Join(notes, "; "))
}

func printSummary(w io.Writer, g *engine.Game, v victory.Verdict) {
	fmt.Fprintln(w)
	if v.GameOver {
		fmt.Fprintf(w, "%s wins by %s in the %s turn.\n", v.Winner, v.Reason, humanize.Ordinal(g.Turn()-1))
	} else {
		fmt.Fprintf(w, "No victor after %d turns.\n", g.Turn()-1)
	}

	fmt.Fprintf(w, "\n%-10s %8s %10s %10s %10s\n", "CLAN", "CASTLES", "SOLDIERS", "GOLD", "FOOD")
	for _, st := range g.Standings() {
		fmt.Fprintf(w, "%-10s %8d %10s %10s %10s\n", st.ClanID, st.Castles,
			humanize.Comma(int64(st.Soldiers)), humanize.Comma(int64(st.Gold)), humanize.Comma(int64(st.Food)))
	}
}

func printMetrics(ctx context.Context, w io.Writer, sess *session) error {
	totals, err := sess.metrics.Totals(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	for _, name := range slices.Sorted(maps.Keys(totals)) {
		fmt.Fprintf(w, "%-28s %s\n", name, humanize.Comma(totals[name]))
	}
	if sess.db != nil {
		fmt.Fprintf(w, "\nplay log: game %s\n", sess.game.ID())
	}
	return nil
}
