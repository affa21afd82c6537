package command

import (
	"fmt"

	"github.com/talgya/sengoku/internal/entropy"
	"github.com/talgya/sengoku/internal/grade"
	"github.com/talgya/sengoku/internal/realm"
)

// Intrigue tuning.
const (
	bribeMaxChance      = 0.9
	bribeSaturation     = 1000.0 // offer at which gold stops improving the odds
	bribedLoyalty       = 50
	bribeRefusalLoyalty = 10 // a refused bribe hardens loyalty

	AssassinationCost  = 500
	assassinBaseChance = 0.2
	assassinMaxChance  = 0.5
)

func validateBribe(s *realm.State, clan *realm.Clan, a Action) error {
	target, ok := s.Characters[a.TargetCharacterID]
	if !ok {
		return fmt.Errorf("%w: character %q", ErrNotFound, a.TargetCharacterID)
	}
	if !target.Affiliated() {
		return fmt.Errorf("%w: %s serves no clan", ErrProtected, target.ID)
	}
	if target.ClanID == clan.ID {
		return fmt.Errorf("%w: %s already serves %s", ErrSelfTarget, target.ID, clan.ID)
	}
	if s.IsLeader(target.ID) {
		return fmt.Errorf("%w: %s leads a clan", ErrProtected, target.ID)
	}
	return requireGold(clan, a.Gold)
}

// executeBribe tries to turn an enemy retainer. A bribed castellan brings
// their castle and its garrison along.
func executeBribe(x *execution, a Action) error {
	target, ok := x.s.Characters[a.TargetCharacterID]
	if !ok {
		return fmt.Errorf("character %s vanished", a.TargetCharacterID)
	}
	quality := x.roll()
	mult := grade.RandomizedMultiplier(quality, x.env.Source)
	chance := float64(100-target.Emotions.Loyalty) / 100 * min(1, float64(a.Gold)/bribeSaturation) * mult
	chance = min(bribeMaxChance, chance)

	x.spend(a.Gold)
	accepted := entropy.Chance(x.env.Source, chance)
	g := grade.RollAnchored(x.env.Source, accepted)

	if !accepted {
		before := target.Emotions.Loyalty
		target.Emotions.Loyalty = realm.ClampScore(before + bribeRefusalLoyalty)
		x.note(realm.CharacterChange(target.ID, "loyalty", before, target.Emotions.Loyalty))
		x.finish(false, g, "bribe %s refused", target.ID)
		return nil
	}

	from := target.ClanID
	// Only a castle carried over is remembered as a betrayal by the old clan.
	if post := x.s.PostOf(target.ID); post != nil && post.OwnerID == from {
		if err := x.s.TransferCastle(post.ID, x.clan.ID); err != nil {
			return err
		}
		x.note(realm.OwnerChange(post.ID, from, x.clan.ID))
		x.s.AppendGrudge(realm.GrudgeEvent{
			ID:       x.env.NewID(),
			ActorID:  string(x.clan.ID),
			TargetID: string(from),
			Kind:     realm.EventBetrayal,
			Subject:  string(post.ID),
		})
	}
	if err := x.s.Reaffiliate(target.ID, x.clan.ID); err != nil {
		return err
	}
	x.note(realm.CharacterChange(target.ID, "clan", from, x.clan.ID))
	target.Emotions.Loyalty = bribedLoyalty
	target.Emotions.Discontent = 0
	x.finish(true, g, "bribe %s joined from %s", target.ID, from)
	return nil
}

func validateAssassinate(s *realm.State, clan *realm.Clan, a Action) error {
	target, ok := s.Characters[a.TargetCharacterID]
	if !ok {
		return fmt.Errorf("%w: character %q", ErrNotFound, a.TargetCharacterID)
	}
	if target.ClanID == clan.ID {
		return fmt.Errorf("%w: %s serves %s", ErrSelfTarget, target.ID, clan.ID)
	}
	return requireGold(clan, AssassinationCost)
}

// executeAssassinate spends the fee up front. A failed attempt poisons
// relations with the target's clan.
func executeAssassinate(x *execution, a Action) error {
	target, ok := x.s.Characters[a.TargetCharacterID]
	if !ok {
		return fmt.Errorf("character %s vanished", a.TargetCharacterID)
	}
	quality := x.roll()
	mult := grade.RandomizedMultiplier(quality, x.env.Source)
	chance := min(assassinMaxChance, assassinBaseChance*mult)

	x.spend(AssassinationCost)
	killed := entropy.Chance(x.env.Source, chance)
	g := grade.RollAnchored(x.env.Source, killed)
	victimClan := target.ClanID

	if !killed {
		if victimClan != "" {
			x.s.SetRelation(x.clan.ID, victimClan, realm.Hostile, 0)
			x.note(realm.RelationChange(x.clan.ID, victimClan, realm.Hostile, 0))
		}
		x.finish(false, g, "assassinate %s failed", target.ID)
		return nil
	}

	heir, err := x.s.RemoveCharacter(target.ID)
	if err != nil {
		return err
	}
	x.note(realm.CharacterChange(target.ID, "status", "alive", "dead"))
	if heir != "" {
		x.note(realm.CharacterChange(heir, "role", "retainer", "leader"))
	}

	grieving := string(victimClan)
	if grieving == "" {
		grieving = string(target.ID)
	}
	x.s.AppendGrudge(realm.GrudgeEvent{
		ID:       x.env.NewID(),
		ActorID:  string(x.clan.ID),
		TargetID: grieving,
		Kind:     realm.EventFamilyKilled,
		Subject:  string(target.ID),
	})
	x.finish(true, g, "assassinate %s succeeded", target.ID)
	return nil
}
