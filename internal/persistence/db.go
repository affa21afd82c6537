// Package persistence keeps an append-only SQLite play log: games, every
// executed command with the acting clan's resources, per-turn clan
// summaries and the grudge ledger. Nothing is ever read back into a game.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/sengoku/internal/engine"
	"github.com/talgya/sengoku/internal/realm"
	"github.com/talgya/sengoku/internal/victory"
)

// DB wraps a SQLite connection for the play log.
type DB struct {
	conn *sqlx.DB
}

var _ engine.Recorder = (*DB)(nil)

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		ended_at TEXT,
		player_clan TEXT NOT NULL,
		clans_json TEXT NOT NULL,
		castles INTEGER NOT NULL,
		winner TEXT,
		reason TEXT,
		final_turn INTEGER
	);

	CREATE TABLE IF NOT EXISTS actions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL REFERENCES games(id),
		turn INTEGER NOT NULL,
		phase TEXT NOT NULL,
		clan_id TEXT NOT NULL,
		action TEXT NOT NULL,
		params_json TEXT NOT NULL,
		success INTEGER NOT NULL,
		grade TEXT NOT NULL,
		message TEXT NOT NULL,
		changes_json TEXT NOT NULL,
		gold INTEGER NOT NULL,
		food INTEGER NOT NULL,
		soldiers INTEGER NOT NULL,
		castles INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS turn_summaries (
		game_id TEXT NOT NULL REFERENCES games(id),
		turn INTEGER NOT NULL,
		clan_id TEXT NOT NULL,
		gold INTEGER NOT NULL,
		food INTEGER NOT NULL,
		soldiers INTEGER NOT NULL,
		castles INTEGER NOT NULL,
		characters INTEGER NOT NULL,
		PRIMARY KEY (game_id, turn, clan_id)
	);

	CREATE TABLE IF NOT EXISTS turn_reports (
		game_id TEXT NOT NULL REFERENCES games(id),
		turn INTEGER NOT NULL,
		report_json TEXT NOT NULL,
		PRIMARY KEY (game_id, turn)
	);

	CREATE TABLE IF NOT EXISTS grudges (
		id TEXT PRIMARY KEY,
		game_id TEXT NOT NULL REFERENCES games(id),
		turn INTEGER NOT NULL,
		actor_id TEXT NOT NULL,
		target_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		subject TEXT NOT NULL,
		loyalty INTEGER NOT NULL,
		discontent INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_actions_game ON actions(game_id, turn);
	CREATE INDEX IF NOT EXISTS idx_grudges_game ON grudges(game_id, turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// StartGame registers a new game.
func (db *DB) StartGame(ctx context.Context, g engine.GameRecord) error {
	clansJSON, err := json.Marshal(g.Clans)
	if err != nil {
		return fmt.Errorf("marshal clans: %w", err)
	}
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO games (id, started_at, player_clan, clans_json, castles)
		VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.StartedAt.UTC().Format(time.RFC3339), string(g.PlayerClan), string(clansJSON), g.Castles,
	)
	if err != nil {
		return fmt.Errorf("insert game %s: %w", g.ID, err)
	}
	slog.Info("play log started", "game", g.ID, "clans", len(g.Clans))
	return nil
}

// RecordAction appends one executed command and any grudges it produced.
func (db *DB) RecordAction(ctx context.Context, a engine.ActionRecord) error {
	paramsJSON, err := json.Marshal(a.Action)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	changesJSON, err := json.Marshal(a.Result.Changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO actions
		(game_id, turn, phase, clan_id, action, params_json, success, grade,
		 message, changes_json, gold, food, soldiers, castles)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.GameID, a.Turn, a.Phase, string(a.ClanID), string(a.Action.Kind),
		string(paramsJSON), a.Result.Success, a.Result.Grade.String(),
		a.Result.Message, string(changesJSON),
		a.After.Gold, a.After.Food, a.After.Soldiers, a.After.Castles,
	)
	if err != nil {
		return fmt.Errorf("insert action %s: %w", a.Action.Kind, err)
	}
	if err := insertGrudges(ctx, tx, a.GameID, a.Grudges); err != nil {
		return err
	}

	return tx.Commit()
}

// RecordTurn appends the clan summaries, report and grudges of one settlement.
func (db *DB) RecordTurn(ctx context.Context, t engine.TurnRecord) error {
	reportJSON, err := json.Marshal(t.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO turn_reports (game_id, turn, report_json) VALUES (?, ?, ?)",
		t.GameID, t.Report.Turn, string(reportJSON),
	); err != nil {
		return fmt.Errorf("insert turn report %d: %w", t.Report.Turn, err)
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO turn_summaries
		(game_id, turn, clan_id, gold, food, soldiers, castles, characters)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range t.Clans {
		if _, err := stmt.ExecContext(ctx,
			t.GameID, t.Report.Turn, string(c.ClanID),
			c.Gold, c.Food, c.Soldiers, c.Castles, c.Characters,
		); err != nil {
			return fmt.Errorf("insert summary %s: %w", c.ClanID, err)
		}
	}
	if err := insertGrudges(ctx, tx, t.GameID, t.Grudges); err != nil {
		return err
	}

	return tx.Commit()
}

func insertGrudges(ctx context.Context, tx *sqlx.Tx, gameID string, grudges []realm.GrudgeEvent) error {
	for _, g := range grudges {
		_, err := tx.ExecContext(ctx, `INSERT INTO grudges
			(id, game_id, turn, actor_id, target_id, kind, subject, loyalty, discontent)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID, gameID, g.Turn, g.ActorID, g.TargetID, string(g.Kind), g.Subject,
			g.Impact.Loyalty, g.Impact.Discontent,
		)
		if err != nil {
			return fmt.Errorf("insert grudge %s: %w", g.ID, err)
		}
	}
	return nil
}

// FinishGame stores the final verdict.
func (db *DB) FinishGame(ctx context.Context, gameID string, turn int, v victory.Verdict) error {
	res, err := db.conn.ExecContext(ctx,
		"UPDATE games SET ended_at = ?, winner = ?, reason = ?, final_turn = ? WHERE id = ?",
		time.Now().UTC().Format(time.RFC3339), string(v.Winner), string(v.Reason), turn, gameID,
	)
	if err != nil {
		return fmt.Errorf("finish game %s: %w", gameID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish game %s: no such game", gameID)
	}
	slog.Info("play log finished", "game", gameID, "winner", v.Winner, "turn", turn)
	return nil
}

// Game is one row of the games table.
type Game struct {
	ID         string  `db:"id"`
	StartedAt  string  `db:"started_at"`
	EndedAt    *string `db:"ended_at"`
	PlayerClan string  `db:"player_clan"`
	Castles    int     `db:"castles"`
	Winner     *string `db:"winner"`
	Reason     *string `db:"reason"`
	FinalTurn  *int    `db:"final_turn"`
}

// GetGame loads one game row.
func (db *DB) GetGame(ctx context.Context, id string) (Game, error) {
	var g Game
	err := db.conn.GetContext(ctx, &g,
		`SELECT id, started_at, ended_at, player_clan, castles, winner, reason, final_turn
		FROM games WHERE id = ?`, id)
	return g, err
}

// Action is one row of the actions table.
type Action struct {
	ID       int64  `db:"id"`
	Turn     int    `db:"turn"`
	Phase    string `db:"phase"`
	ClanID   string `db:"clan_id"`
	Action   string `db:"action"`
	Params   string `db:"params_json"`
	Success  bool   `db:"success"`
	Grade    string `db:"grade"`
	Message  string `db:"message"`
	Changes  string `db:"changes_json"`
	Gold     int    `db:"gold"`
	Food     int    `db:"food"`
	Soldiers int    `db:"soldiers"`
	Castles  int    `db:"castles"`
}

// RecentActions returns the most recent N actions of a game, newest first.
func (db *DB) RecentActions(ctx context.Context, gameID string, limit int) ([]Action, error) {
	var actions []Action
	err := db.conn.SelectContext(ctx, &actions,
		`SELECT id, turn, phase, clan_id, action, params_json, success, grade,
			message, changes_json, gold, food, soldiers, castles
		FROM actions WHERE game_id = ? ORDER BY id DESC LIMIT ?`,
		gameID, limit,
	)
	return actions, err
}

// TurnSummary is one clan's resources after one settlement.
type TurnSummary struct {
	Turn       int    `db:"turn"`
	ClanID     string `db:"clan_id"`
	Gold       int    `db:"gold"`
	Food       int    `db:"food"`
	Soldiers   int    `db:"soldiers"`
	Castles    int    `db:"castles"`
	Characters int    `db:"characters"`
}

// TurnSummaries returns every clan summary of a game ordered by turn and clan.
func (db *DB) TurnSummaries(ctx context.Context, gameID string) ([]TurnSummary, error) {
	var out []TurnSummary
	err := db.conn.SelectContext(ctx, &out,
		`SELECT turn, clan_id, gold, food, soldiers, castles, characters
		FROM turn_summaries WHERE game_id = ? ORDER BY turn, clan_id`,
		gameID,
	)
	return out, err
}

// Grudges returns the grudge ledger of a game in insertion order.
func (db *DB) Grudges(ctx context.Context, gameID string) ([]realm.GrudgeEvent, error) {
	var rows []struct {
		ID         string `db:"id"`
		Turn       int    `db:"turn"`
		ActorID    string `db:"actor_id"`
		TargetID   string `db:"target_id"`
		Kind       string `db:"kind"`
		Subject    string `db:"subject"`
		Loyalty    int    `db:"loyalty"`
		Discontent int    `db:"discontent"`
	}
	err := db.conn.SelectContext(ctx, &rows,
		`SELECT id, turn, actor_id, target_id, kind, subject, loyalty, discontent
		FROM grudges WHERE game_id = ? ORDER BY rowid`,
		gameID,
	)
	if err != nil {
		return nil, err
	}
	out := make([]realm.GrudgeEvent, 0, len(rows))
	for _, r := range rows {
		out = append(out, realm.GrudgeEvent{
			ID:       r.ID,
			Turn:     r.Turn,
			ActorID:  r.ActorID,
			TargetID: r.TargetID,
			Kind:     realm.EventKind(r.Kind),
			Subject:  r.Subject,
			Impact:   realm.EmotionImpact{Loyalty: r.Loyalty, Discontent: r.Discontent},
		})
	}
	return out, nil
}
