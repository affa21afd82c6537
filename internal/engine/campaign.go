package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/talgya/sengoku/internal/command"
	"github.com/talgya/sengoku/internal/realm"
	"github.com/talgya/sengoku/internal/turn"
	"github.com/talgya/sengoku/internal/victory"
)

// DefaultActionsPerTurn is how many commands each clan may issue per turn.
const DefaultActionsPerTurn = 3

// Planner proposes commands for a clan. It sees a copy of the state and
// never mutates the game.
type Planner interface {
	Plan(s *realm.State, clan realm.ClanID) []command.Action
}

// PlannerFunc adapts a function to Planner.
type PlannerFunc func(s *realm.State, clan realm.ClanID) []command.Action

// Plan implements Planner.
func (f PlannerFunc) Plan(s *realm.State, clan realm.ClanID) []command.Action { return f(s, clan) }

// Campaign drives a Game turn by turn: every clan acts in id order, then
// the turn settles.
type Campaign struct {
	Game           *Game
	Planner        Planner
	MaxTurns       int           // 0 plays until a verdict
	ActionsPerTurn int           // defaults to DefaultActionsPerTurn
	Interval       time.Duration // pause between turns, 0 for none

	// Callbacks, all optional.
	OnAction func(clan realm.ClanID, res command.Result)
	OnTurn   func(rep turn.Report)
}

// Run plays until a clan wins, MaxTurns turns have settled, or ctx is done.
// Rejected plans are skipped; an engine defect stops the campaign.
func (c *Campaign) Run(ctx context.Context) (victory.Verdict, error) {
	if c.Game == nil || c.Planner == nil {
		return victory.Verdict{}, errors.New("campaign: game and planner are required")
	}
	limit := c.ActionsPerTurn
	if limit <= 0 {
		limit = DefaultActionsPerTurn
	}

	g := c.Game
	slog.Info("campaign started", "game", g.ID(), "turn", g.Turn(), "max_turns", c.MaxTurns)
	played := 0
	for !g.Verdict().GameOver {
		if c.MaxTurns > 0 && played >= c.MaxTurns {
			break
		}
		if err := ctx.Err(); err != nil {
			return g.Verdict(), err
		}

		if err := c.playTurn(ctx, limit); err != nil {
			return g.Verdict(), err
		}
		played++

		if c.Interval > 0 && !g.Verdict().GameOver {
			select {
			case <-ctx.Done():
				return g.Verdict(), ctx.Err()
			case <-time.After(c.Interval):
			}
		}
	}
	slog.Info("campaign stopped", "game", g.ID(), "turn", g.Turn(), "turns_played", played, "game_over", g.Verdict().GameOver)
	return g.Verdict(), nil
}

func (c *Campaign) playTurn(ctx context.Context, limit int) error {
	g := c.Game
	for _, clan := range g.state.ClanIDs() {
		if _, ok := g.state.Clans[clan]; !ok {
			continue // dissolved earlier this turn
		}
		plan := c.Planner.Plan(g.State(), clan)
		issued := 0
		for _, a := range plan {
			if issued == limit || g.Verdict().GameOver {
				break
			}
			if a.Kind == command.EndTurn {
				continue
			}
			res, err := g.Submit(ctx, clan, a)
			if errors.Is(err, command.ErrDefect) {
				return err
			}
			if err != nil {
				continue
			}
			issued++
			if c.OnAction != nil {
				c.OnAction(clan, res)
			}
		}
		if g.Verdict().GameOver {
			return nil
		}
	}

	rep, err := g.EndTurn(ctx)
	if err != nil {
		return err
	}
	if c.OnTurn != nil {
		c.OnTurn(rep)
	}
	return nil
}
