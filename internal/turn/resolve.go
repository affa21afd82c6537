// Package turn settles the end of a turn: castellan delegation, economy,
// unrest, defection and clan dissolution, always in that order.
package turn

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/talgya/sengoku/internal/entropy"
	"github.com/talgya/sengoku/internal/realm"
)

// Defection records one character leaving their clan during settlement.
type Defection struct {
	CharacterID realm.CharacterID   `json:"character_id"`
	From        realm.ClanID        `json:"from"`
	To          realm.ClanID        `json:"to,omitempty"` // empty when the character left service
	CastleID    realm.CastleID      `json:"castle_id,omitempty"`
	Kind        realm.DefectionKind `json:"kind,omitempty"`
}

// Report summarises one turn settlement.
type Report struct {
	Turn       int              `json:"turn"` // the turn that was settled
	Changes    []string         `json:"changes"`
	Bankrupt   []realm.ClanID   `json:"bankrupt,omitempty"`
	Starving   []realm.ClanID   `json:"starving,omitempty"`
	Rebellions []realm.CastleID `json:"rebellions,omitempty"`
	Defections []Defection      `json:"defections,omitempty"`
	Dissolved  []realm.ClanID   `json:"dissolved,omitempty"`
}

// Options tune a settlement.
type Options struct {
	// NewID mints grudge ids. Defaults to uuid.NewString.
	NewID func() string
}

type resolver struct {
	s     *realm.State
	src   entropy.Source
	newID func() string
	rep   *Report
}

// Resolve settles the current turn in place and advances the turn counter.
// Callers pass a working copy; an error means the state broke an invariant
// mid-settlement and the copy must be discarded.
func Resolve(s *realm.State, src entropy.Source, opts Options) (Report, error) {
	rep := Report{Turn: s.Turn}
	r := &resolver{s: s, src: src, newID: opts.NewID, rep: &rep}
	if r.newID == nil {
		r.newID = uuid.NewString
	}

	r.processDelegation()
	r.processEconomy()
	r.processUnrest()
	if err := r.processDefection(); err != nil {
		return rep, fmt.Errorf("defection: %w", err)
	}
	if err := r.processDissolution(); err != nil {
		return rep, fmt.Errorf("dissolution: %w", err)
	}

	s.Turn++
	rep.Changes = append(rep.Changes, fmt.Sprintf("turn %d->%d", rep.Turn, s.Turn))

	slog.Debug("turn settled",
		"turn", rep.Turn,
		"changes", len(rep.Changes),
		"rebellions", len(rep.Rebellions),
		"defections", len(rep.Defections),
		"dissolved", len(rep.Dissolved),
	)
	return rep, nil
}

func (r *resolver) note(change string) {
	r.rep.Changes = append(r.rep.Changes, change)
}
