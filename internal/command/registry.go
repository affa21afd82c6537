package command

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/talgya/sengoku/internal/entropy"
	"github.com/talgya/sengoku/internal/grade"
	"github.com/talgya/sengoku/internal/realm"
	"github.com/talgya/sengoku/internal/turn"
)

// Env carries the collaborators an execution needs.
type Env struct {
	Source entropy.Source
	NewID  func() string // mints grudge ids; defaults to uuid.NewString
}

func (e Env) withDefaults() Env {
	if e.Source == nil {
		e.Source = entropy.Crypto()
	}
	if e.NewID == nil {
		e.NewID = uuid.NewString
	}
	return e
}

// Result is what an executed command reports back to the caller.
type Result struct {
	Kind    Kind        `json:"action"`
	Success bool        `json:"success"`
	Grade   grade.Grade `json:"grade"`
	Message string      `json:"message"`
	Changes []string    `json:"changes"`
}

// Outcome pairs a result with the working copy it produced. The caller
// commits State; it is nil when the command was rejected.
type Outcome struct {
	Result Result
	State  *realm.State
	Turn   *turn.Report // set by end_turn
}

type handler struct {
	validate func(s *realm.State, clan *realm.Clan, a Action) error
	execute  func(x *execution, a Action) error
}

var registry = map[Kind]handler{
	DevelopAgriculture: {validateInvestment, executeDevelopAgriculture},
	DevelopCommerce:    {validateInvestment, executeDevelopCommerce},
	RecruitSoldiers:    {validateRecruit, executeRecruit},
	Fortify:            {validateInvestment, executeFortify},
	Attack:             {validateAttack, executeAttack},
	ProposeAlliance:    {validateAlliance, executeAlliance},
	SendGift:           {validateGift, executeGift},
	Threaten:           {validateThreaten, executeThreaten},
	Bribe:              {validateBribe, executeBribe},
	Assassinate:        {validateAssassinate, executeAssassinate},
	EndTurn:            {validateEndTurn, executeEndTurn},
	Delegate:           {validateDelegate, executeDelegate},
}

// Validate checks an action against the state without touching it.
func Validate(s *realm.State, clanID realm.ClanID, a Action) error {
	h, ok := registry[a.Kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
	clan, ok := s.Clans[clanID]
	if !ok {
		return fmt.Errorf("%w: clan %s", ErrNotFound, clanID)
	}
	return h.validate(s, clan, a)
}

// Execute validates the action and resolves it on a clone of s. The input
// state is never modified.
func Execute(s *realm.State, clanID realm.ClanID, a Action, env Env) (Outcome, error) {
	if err := Validate(s, clanID, a); err != nil {
		return Outcome{Result: Result{Kind: a.Kind, Grade: grade.Failure, Message: err.Error()}}, err
	}

	work := s.Clone()
	x := &execution{
		s:    work,
		clan: work.Clans[clanID],
		env:  env.withDefaults(),
		res:  Result{Kind: a.Kind},
	}
	if err := registry[a.Kind].execute(x, a); err != nil {
		return Outcome{Result: x.res}, fmt.Errorf("%w: %s: %v", ErrDefect, a.Kind, err)
	}
	if err := work.Check(); err != nil {
		return Outcome{Result: x.res}, fmt.Errorf("%w: %s left state inconsistent: %v", ErrDefect, a.Kind, err)
	}
	return Outcome{Result: x.res, State: work, Turn: x.report}, nil
}

// execution is the per-command scratch space over the working copy.
type execution struct {
	s      *realm.State
	clan   *realm.Clan
	env    Env
	res    Result
	report *turn.Report
}

func (x *execution) roll() grade.Grade {
	return grade.Roll(x.env.Source)
}

func (x *execution) note(change string) {
	x.res.Changes = append(x.res.Changes, change)
}

func (x *execution) spend(gold int) {
	x.clan.Gold -= gold
	x.note(realm.ClanChange(x.clan.ID, "gold", -gold))
}

// finish records the verdict. The message is the grade tag plus a short fact line.
func (x *execution) finish(success bool, g grade.Grade, format string, args ...any) {
	x.res.Success = success
	x.res.Grade = g
	x.res.Message = strings.TrimSpace(grade.Tag(g) + " " + fmt.Sprintf(format, args...))
}

// ownedCastle resolves a castle the acting clan must own.
func ownedCastle(s *realm.State, clan *realm.Clan, id realm.CastleID) (*realm.Castle, error) {
	castle, ok := s.Castles[id]
	if !ok {
		return nil, fmt.Errorf("%w: castle %q", ErrNotFound, id)
	}
	if castle.OwnerID != clan.ID {
		return nil, fmt.Errorf("%w: castle %s belongs to %s", ErrNotOwner, id, castle.OwnerID)
	}
	return castle, nil
}

// rivalClan resolves another existing clan.
func rivalClan(s *realm.State, clan *realm.Clan, id realm.ClanID) (*realm.Clan, error) {
	target, ok := s.Clans[id]
	if !ok {
		return nil, fmt.Errorf("%w: clan %q", ErrNotFound, id)
	}
	if target.ID == clan.ID {
		return nil, fmt.Errorf("%w: %s", ErrSelfTarget, id)
	}
	return target, nil
}

func requireGold(clan *realm.Clan, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount %d must be positive", ErrInvalidParams, amount)
	}
	if clan.Gold < amount {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientGold, amount, clan.Gold)
	}
	return nil
}
