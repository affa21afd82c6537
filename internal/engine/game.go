// Package engine is the game session: it owns the committed state, runs
// commands on working copies and commits them, settles turns and reports
// everything to the metrics, the event log and an optional recorder.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/sengoku/internal/command"
	"github.com/talgya/sengoku/internal/entropy"
	"github.com/talgya/sengoku/internal/grade"
	"github.com/talgya/sengoku/internal/observe"
	"github.com/talgya/sengoku/internal/realm"
	"github.com/talgya/sengoku/internal/turn"
	"github.com/talgya/sengoku/internal/victory"
)

// Game is a single-threaded session. Callers that share a Game across
// goroutines serialize access themselves.
type Game struct {
	id       string
	state    *realm.State
	src      entropy.Source
	newID    func() string
	log      *slog.Logger
	metrics  *observe.Metrics
	recorder Recorder
	now      func() time.Time
	events   []Event
	verdict  victory.Verdict
}

// Option configures a Game.
type Option func(*Game)

// WithSource sets the randomness source. Defaults to entropy.Crypto().
func WithSource(src entropy.Source) Option { return func(g *Game) { g.src = src } }

// WithIDs sets the id generator for grudges and the game id.
func WithIDs(newID func() string) Option { return func(g *Game) { g.newID = newID } }

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(g *Game) { g.log = l } }

// WithMetrics sets the instruments. Defaults to observe.DefaultMetrics().
func WithMetrics(m *observe.Metrics) Option { return func(g *Game) { g.metrics = m } }

// WithRecorder attaches a play log.
func WithRecorder(r Recorder) Option { return func(g *Game) { g.recorder = r } }

// WithClock overrides time.Now for recorded timestamps.
func WithClock(now func() time.Time) Option { return func(g *Game) { g.now = now } }

// New starts a session on a private copy of initial. The initial state must
// pass its integrity check.
func New(ctx context.Context, initial *realm.State, opts ...Option) (*Game, error) {
	if initial == nil {
		return nil, errors.New("engine: nil state")
	}
	if err := initial.Check(); err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}

	g := &Game{
		state:    initial.Clone(),
		src:      entropy.Crypto(),
		newID:    uuid.NewString,
		log:      slog.Default(),
		metrics:  observe.DefaultMetrics(),
		recorder: nopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.id = g.newID()
	g.log = g.log.With("game", g.id)

	if err := g.recorder.StartGame(ctx, GameRecord{
		ID:         g.id,
		StartedAt:  g.now(),
		PlayerClan: g.state.PlayerClanID,
		Clans:      g.state.ClanIDs(),
		Castles:    len(g.state.Castles),
	}); err != nil {
		return nil, fmt.Errorf("start game record: %w", err)
	}

	g.log.Info("game started",
		"turn", g.state.Turn,
		"clans", len(g.state.Clans),
		"castles", len(g.state.Castles),
		"player", g.state.PlayerClanID,
	)
	g.checkVictory(ctx)
	return g, nil
}

// ID returns the game id used in the play log.
func (g *Game) ID() string { return g.id }

// Turn returns the current turn number.
func (g *Game) Turn() int { return g.state.Turn }

// State returns a deep copy of the committed state.
func (g *Game) State() *realm.State { return g.state.Clone() }

// Verdict returns the latest victory verdict.
func (g *Game) Verdict() victory.Verdict { return g.verdict }

// Execute parses a named command with raw parameters and submits it.
func (g *Game) Execute(ctx context.Context, clan realm.ClanID, name string, params map[string]any) (command.Result, error) {
	a, err := command.Parse(name, params)
	if err != nil {
		g.rejected(ctx, clan, command.Kind(name), err)
		return command.Result{Kind: command.Kind(name), Grade: grade.Failure, Message: err.Error()}, err
	}
	return g.Submit(ctx, clan, a)
}

// Submit executes a parsed action for clan and commits the result. A
// rejection or defect leaves the committed state untouched.
func (g *Game) Submit(ctx context.Context, clan realm.ClanID, a command.Action) (command.Result, error) {
	start := time.Now()
	grudges := len(g.state.Grudges)

	out, err := command.Execute(g.state, clan, a, command.Env{Source: g.src, NewID: g.newID})
	switch {
	case err == nil:
	case command.IsRejection(err):
		g.rejected(ctx, clan, a.Kind, err)
		return out.Result, err
	default:
		g.defect(ctx, clan, a.Kind, err)
		return out.Result, err
	}

	g.state = out.State
	res := out.Result
	g.metrics.RecordCommand(ctx, string(res.Kind), res.Grade.String(), res.Success)
	g.log.Debug("command executed",
		"clan", clan,
		"action", res.Kind,
		"grade", res.Grade,
		"success", res.Success,
		"changes", len(res.Changes),
	)
	g.emit(g.state.Turn, "command", map[string]any{"clan": string(clan), "success": res.Success},
		"%s: %s", clan, res.Message)

	rec := ActionRecord{
		GameID: g.id,
		Turn:   g.turnOf(out),
		Phase:  g.phaseOf(clan),
		ClanID: clan,
		Action: a,
		Result: res,
		After:  Snapshot(g.state, clan),
	}
	if out.Turn == nil {
		rec.Grudges = slices.Clone(g.state.Grudges[grudges:])
	}
	if err := g.recorder.RecordAction(ctx, rec); err != nil {
		g.log.Warn("record action", "action", a.Kind, "error", err)
	}

	if out.Turn != nil {
		g.settled(ctx, *out.Turn, grudges, time.Since(start))
	}
	g.checkVictory(ctx)
	return res, nil
}

// EndTurn settles the current turn without going through a clan's command.
func (g *Game) EndTurn(ctx context.Context) (turn.Report, error) {
	start := time.Now()
	grudges := len(g.state.Grudges)
	work := g.state.Clone()
	rep, err := turn.Resolve(work, g.src, turn.Options{NewID: g.newID})
	if err == nil {
		err = work.Check()
	}
	if err != nil {
		err = fmt.Errorf("%w: end of turn %d: %v", command.ErrDefect, g.state.Turn, err)
		g.defect(ctx, "", command.EndTurn, err)
		return turn.Report{}, err
	}

	g.state = work
	g.settled(ctx, rep, grudges, time.Since(start))
	g.checkVictory(ctx)
	return rep, nil
}

// turnOf is the turn an action was issued in. end_turn has already advanced
// the counter on the committed state.
func (g *Game) turnOf(out command.Outcome) int {
	if out.Turn != nil {
		return out.Turn.Turn
	}
	return g.state.Turn
}

func (g *Game) phaseOf(clan realm.ClanID) string {
	if clan == g.state.PlayerClanID {
		return "player"
	}
	return "ai"
}

func (g *Game) rejected(ctx context.Context, clan realm.ClanID, kind command.Kind, err error) {
	g.metrics.RecordRejection(ctx, string(kind), command.Reason(err))
	g.log.Debug("command rejected", "clan", clan, "action", kind, "error", err)
}

func (g *Game) defect(ctx context.Context, clan realm.ClanID, kind command.Kind, err error) {
	g.metrics.RecordDefect(ctx, string(kind))
	g.log.Error("engine defect", "clan", clan, "action", kind, "turn", g.state.Turn, "error", err)
}

// settled reports a completed settlement. The state is already committed.
// Grudges from index since onward were appended by the settlement.
func (g *Game) settled(ctx context.Context, rep turn.Report, since int, elapsed time.Duration) {
	kinds := make(map[string]int)
	for _, d := range rep.Defections {
		kind := string(d.Kind)
		if kind == "" {
			kind = "left_service"
		}
		kinds[kind]++
	}
	g.metrics.RecordTurn(ctx, elapsed.Seconds(), len(rep.Dissolved), kinds)

	g.log.Info("turn settled",
		"turn", rep.Turn,
		"rebellions", len(rep.Rebellions),
		"defections", len(rep.Defections),
		"dissolved", len(rep.Dissolved),
		"bankrupt", len(rep.Bankrupt),
		"starving", len(rep.Starving),
		"elapsed", elapsed,
	)
	g.emit(rep.Turn, "turn", map[string]any{"changes": len(rep.Changes)},
		"turn %d settled with %d changes", rep.Turn, len(rep.Changes))
	for _, d := range rep.Defections {
		if d.To == "" {
			g.emit(rep.Turn, "defection", nil, "%s left the service of %s", d.CharacterID, d.From)
			continue
		}
		g.emit(rep.Turn, "defection", map[string]any{"kind": string(d.Kind)},
			"%s went over from %s to %s with %s", d.CharacterID, d.From, d.To, d.CastleID)
	}
	for _, id := range rep.Dissolved {
		g.emit(rep.Turn, "dissolution", nil, "clan %s dissolved", id)
	}

	snaps := make([]ClanSnapshot, 0, len(g.state.Clans))
	for _, id := range g.state.ClanIDs() {
		snaps = append(snaps, Snapshot(g.state, id))
	}
	if err := g.recorder.RecordTurn(ctx, TurnRecord{
		GameID:  g.id,
		Report:  rep,
		Clans:   snaps,
		Grudges: slices.Clone(g.state.Grudges[since:]),
	}); err != nil {
		g.log.Warn("record turn", "turn", rep.Turn, "error", err)
	}
}

// checkVictory latches the first game-over verdict.
func (g *Game) checkVictory(ctx context.Context) {
	if g.verdict.GameOver {
		return
	}
	v := victory.Check(g.state)
	if !v.GameOver {
		return
	}
	g.verdict = v
	g.log.Info("game over", "winner", v.Winner, "reason", v.Reason, "turn", g.state.Turn)
	g.emit(g.state.Turn, "victory", map[string]any{"winner": string(v.Winner), "reason": string(v.Reason)},
		"%s wins by %s", v.Winner, v.Reason)
	if err := g.recorder.FinishGame(ctx, g.id, g.state.Turn, v); err != nil {
		g.log.Warn("record game result", "error", err)
	}
}

// Standings returns the scoreboard for the committed state.
func (g *Game) Standings() []victory.Standing { return victory.Standings(g.state) }

// Clans returns a copy of every clan, keyed by id.
func (g *Game) Clans() map[realm.ClanID]realm.Clan {
	out := make(map[realm.ClanID]realm.Clan, len(g.state.Clans))
	for id, c := range g.state.Clans {
		cp := *c
		cp.CastleIDs = slices.Clone(c.CastleIDs)
		out[id] = cp
	}
	return out
}

// Castles returns a copy of every castle ordered by id.
func (g *Game) Castles() []realm.Castle {
	ids := slices.Sorted(maps.Keys(g.state.Castles))
	out := make([]realm.Castle, 0, len(ids))
	for _, id := range ids {
		cp := *g.state.Castles[id]
		cp.Adjacent = slices.Clone(cp.Adjacent)
		out = append(out, cp)
	}
	return out
}
