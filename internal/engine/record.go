package engine

import (
	"context"
	"time"

	"github.com/talgya/sengoku/internal/command"
	"github.com/talgya/sengoku/internal/realm"
	"github.com/talgya/sengoku/internal/turn"
	"github.com/talgya/sengoku/internal/victory"
)

// Recorder receives an append-only log of a game. It never feeds state back.
type Recorder interface {
	StartGame(ctx context.Context, g GameRecord) error
	RecordAction(ctx context.Context, a ActionRecord) error
	RecordTurn(ctx context.Context, t TurnRecord) error
	FinishGame(ctx context.Context, gameID string, turn int, v victory.Verdict) error
}

// GameRecord describes a game at its start.
type GameRecord struct {
	ID         string
	StartedAt  time.Time
	PlayerClan realm.ClanID
	Clans      []realm.ClanID
	Castles    int
}

// ClanSnapshot is a clan's resources at a point in time.
type ClanSnapshot struct {
	ClanID     realm.ClanID `json:"clan_id"`
	Gold       int          `json:"gold"`
	Food       int          `json:"food"`
	Soldiers   int          `json:"soldiers"`
	Castles    int          `json:"castles"`
	Characters int          `json:"characters"`
}

// Snapshot captures one clan from s.
func Snapshot(s *realm.State, clan realm.ClanID) ClanSnapshot {
	snap := ClanSnapshot{ClanID: clan}
	c, ok := s.Clans[clan]
	if !ok {
		return snap
	}
	snap.Gold = c.Gold
	snap.Food = c.Food
	snap.Soldiers = s.ClanSoldiers(clan)
	snap.Castles = len(c.CastleIDs)
	snap.Characters = len(s.Members(clan))
	return snap
}

// ActionRecord is one executed command with the acting clan's resources after it.
type ActionRecord struct {
	GameID  string
	Turn    int
	Phase   string // "player" or "ai"
	ClanID  realm.ClanID
	Action  command.Action
	Result  command.Result
	After   ClanSnapshot
	Grudges []realm.GrudgeEvent // appended by the action itself
}

// TurnRecord is one settlement with every surviving clan's resources after it.
type TurnRecord struct {
	GameID  string
	Report  turn.Report
	Clans   []ClanSnapshot
	Grudges []realm.GrudgeEvent // appended since the previous settlement
}

// nopRecorder discards everything.
type nopRecorder struct{}

func (nopRecorder) StartGame(context.Context, GameRecord) error     { return nil }
func (nopRecorder) RecordAction(context.Context, ActionRecord) error { return nil }
func (nopRecorder) RecordTurn(context.Context, TurnRecord) error     { return nil }
func (nopRecorder) FinishGame(context.Context, string, int, victory.Verdict) error {
	return nil
}
