package command

import (
	"fmt"

	"github.com/talgya/sengoku/internal/grade"
	"github.com/talgya/sengoku/internal/realm"
	"github.com/talgya/sengoku/internal/turn"
)

func validateDelegate(s *realm.State, clan *realm.Clan, a Action) error {
	if _, err := ownedCastle(s, clan, a.CastleID); err != nil {
		return err
	}
	if _, err := realm.ParsePolicy(string(a.Policy)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

// executeDelegate sets a standing order. Free and never graded.
func executeDelegate(x *execution, a Action) error {
	castle, ok := x.s.Castles[a.CastleID]
	if !ok {
		return fmt.Errorf("castle %s vanished", a.CastleID)
	}
	policy, _ := realm.ParsePolicy(string(a.Policy))
	x.note(fmt.Sprintf("castle:%s.policy %s->%s", castle.ID, castle.Policy, policy))
	castle.Policy = policy
	x.finish(true, grade.Success, "delegate %s %s", castle.ID, policy)
	return nil
}

func validateEndTurn(*realm.State, *realm.Clan, Action) error {
	return nil
}

// executeEndTurn settles the turn on the working copy.
func executeEndTurn(x *execution, _ Action) error {
	rep, err := turn.Resolve(x.s, x.env.Source, turn.Options{NewID: x.env.NewID})
	if err != nil {
		return err
	}
	x.report = &rep
	x.res.Changes = append(x.res.Changes, rep.Changes...)
	x.finish(true, grade.Success, "turn %d settled", rep.Turn)
	return nil
}
