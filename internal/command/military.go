package command

import (
	"fmt"
	"math"

	"github.com/talgya/sengoku/internal/grade"
	"github.com/talgya/sengoku/internal/realm"
)

// Combat tuning.
const (
	garrisonShare     = 0.7 // share of a victorious force left holding the castle
	conqueredLoyalty  = 30
	attackerLossShare = 0.8 // share of a repelled force that falls
	defenderLossShare = 0.3
	defenderLossFloor = 100 // a garrison that holds ends with at least this many
)

func validateAttack(s *realm.State, clan *realm.Clan, a Action) error {
	from, err := ownedCastle(s, clan, a.FromCastleID)
	if err != nil {
		return err
	}
	target, ok := s.Castles[a.TargetCastleID]
	if !ok {
		return fmt.Errorf("%w: castle %q", ErrNotFound, a.TargetCastleID)
	}
	if target.OwnerID == clan.ID {
		return fmt.Errorf("%w: castle %s is already held", ErrSelfTarget, target.ID)
	}
	if !from.IsAdjacent(target.ID) {
		return fmt.Errorf("%w: %s and %s", ErrNotAdjacent, from.ID, target.ID)
	}
	if a.Count <= 0 {
		return fmt.Errorf("%w: soldier count %d must be positive", ErrInvalidParams, a.Count)
	}
	if from.Soldiers < a.Count {
		return fmt.Errorf("%w: %s holds %d, need %d", ErrInsufficientSoldiers, from.ID, from.Soldiers, a.Count)
	}
	return nil
}

// executeAttack resolves a single assault. The force leaves the source
// castle before the battle. Success means the castle fell; a repelled
// attack reports failure, or critical_failure when that was the roll.
func executeAttack(x *execution, a Action) error {
	from, ok := x.s.Castles[a.FromCastleID]
	if !ok {
		return fmt.Errorf("castle %s vanished", a.FromCastleID)
	}
	target, ok := x.s.Castles[a.TargetCastleID]
	if !ok {
		return fmt.Errorf("castle %s vanished", a.TargetCastleID)
	}

	g := x.roll()
	before := from.Soldiers
	from.Soldiers -= a.Count

	attackPower := float64(a.Count) * grade.CombatMultiplier(g)
	defensePower := target.DefensePower()

	if attackPower > defensePower {
		defender := target.OwnerID
		if err := x.s.TransferCastle(target.ID, x.clan.ID); err != nil {
			return err
		}
		x.note(realm.CastleChange(from.ID, "soldiers", before, from.Soldiers))
		x.note(realm.OwnerChange(target.ID, defender, x.clan.ID))

		garrison := target.Soldiers
		target.Soldiers = int(math.Floor(float64(a.Count) * garrisonShare))
		x.note(realm.CastleChange(target.ID, "soldiers", garrison, target.Soldiers))
		if target.CastellanID != "" {
			x.note(realm.CharacterChange(target.CastellanID, "post", target.ID, "none"))
			target.CastellanID = ""
		}
		loyalty := target.Loyalty
		target.Loyalty = conqueredLoyalty
		x.note(realm.CastleChange(target.ID, "loyalty", loyalty, target.Loyalty))

		x.s.AppendGrudge(realm.GrudgeEvent{
			ID:       x.env.NewID(),
			ActorID:  string(x.clan.ID),
			TargetID: string(defender),
			Kind:     realm.EventTerritoryLoss,
			Subject:  string(target.ID),
		})
		x.finish(true, g, "attack %s taken from %s", target.ID, defender)
		return nil
	}

	// Repelled: survivors fall back to the source castle.
	losses := int(math.Floor(float64(a.Count) * attackerLossShare))
	from.Soldiers += a.Count - losses
	x.note(realm.CastleChange(from.ID, "soldiers", before, from.Soldiers))

	garrison := target.Soldiers
	target.Soldiers = max(defenderLossFloor, garrison-int(math.Floor(float64(garrison)*defenderLossShare)))
	x.note(realm.CastleChange(target.ID, "soldiers", garrison, target.Soldiers))

	x.s.AppendGrudge(realm.GrudgeEvent{
		ID:       x.env.NewID(),
		ActorID:  string(x.clan.ID),
		TargetID: string(target.OwnerID),
		Kind:     realm.EventAttack,
		Subject:  string(target.ID),
	})
	if g != grade.CriticalFailure {
		g = grade.Failure
	}
	x.finish(false, g, "attack %s repelled losses=%d", target.ID, losses)
	return nil
}
