package command

import (
	"fmt"
	"math"

	"github.com/talgya/sengoku/internal/entropy"
	"github.com/talgya/sengoku/internal/grade"
	"github.com/talgya/sengoku/internal/realm"
)

// Diplomacy tuning.
const (
	allianceBaseChance  = 0.5
	allianceGradeWeight = 0.3
	allianceMinChance   = 0.05
	allianceMaxChance   = 0.95
	allianceCritBonus   = 1.5 // duration multiplier on critical success

	giftPacifies = 500 // delivered gold that cools a hostile relation

	threatRatio   = 1.5
	truceDuration = 5
)

func validateAlliance(s *realm.State, clan *realm.Clan, a Action) error {
	target, err := rivalClan(s, clan, a.TargetClanID)
	if err != nil {
		return err
	}
	if a.Duration <= 0 {
		return fmt.Errorf("%w: duration %d must be positive", ErrInvalidParams, a.Duration)
	}
	if r := s.RelationBetween(clan.ID, target.ID); r != nil && r.Type == realm.Alliance && r.Active(s.Turn) {
		return fmt.Errorf("%w: %s and %s", ErrAlreadyAllied, clan.ID, target.ID)
	}
	return nil
}

// executeAlliance draws a quality grade for the multiplier, checks acceptance
// against it, then reports the anchored grade of the accepted outcome.
func executeAlliance(x *execution, a Action) error {
	quality := x.roll()
	chance := allianceBaseChance + (grade.Multiplier(quality)-1)*allianceGradeWeight
	chance = min(allianceMaxChance, max(allianceMinChance, chance))
	accepted := entropy.Chance(x.env.Source, chance)
	g := grade.RollAnchored(x.env.Source, accepted)

	if !accepted {
		x.finish(false, g, "alliance %s declined", a.TargetClanID)
		return nil
	}
	duration := a.Duration
	if g == grade.CriticalSuccess {
		duration = int(math.Floor(float64(duration) * allianceCritBonus))
	}
	expires := x.s.Turn + duration
	x.s.SetRelation(x.clan.ID, a.TargetClanID, realm.Alliance, expires)
	x.note(realm.RelationChange(x.clan.ID, a.TargetClanID, realm.Alliance, expires))
	x.finish(true, g, "alliance %s until turn %d", a.TargetClanID, expires)
	return nil
}

func validateGift(s *realm.State, clan *realm.Clan, a Action) error {
	if _, err := rivalClan(s, clan, a.TargetClanID); err != nil {
		return err
	}
	return requireGold(clan, a.Gold)
}

// executeGift always deducts the full offer; the grade decides how much arrives.
func executeGift(x *execution, a Action) error {
	target, ok := x.s.Clans[a.TargetClanID]
	if !ok {
		return fmt.Errorf("clan %s vanished", a.TargetClanID)
	}
	g := x.roll()
	x.spend(a.Gold)

	delivered := int(math.Floor(float64(a.Gold) * grade.Multiplier(g)))
	target.Gold += delivered
	x.note(realm.ClanChange(target.ID, "gold", delivered))

	if x.s.RelationType(x.clan.ID, target.ID) == realm.Hostile && delivered >= giftPacifies {
		x.s.SetRelation(x.clan.ID, target.ID, realm.Neutral, 0)
		x.note(realm.RelationChange(x.clan.ID, target.ID, realm.Neutral, 0))
	}
	x.finish(g.Succeeded(), g, "gift %s delivered=%d", target.ID, delivered)
	return nil
}

func validateThreaten(s *realm.State, clan *realm.Clan, a Action) error {
	_, err := rivalClan(s, clan, a.TargetClanID)
	return err
}

// executeThreaten compares mobilized strength. Success means the threat held;
// a defied threat always reports failure.
func executeThreaten(x *execution, a Action) error {
	g := x.roll()
	mine := float64(x.s.ClanSoldiers(x.clan.ID)) * grade.Multiplier(g)
	theirs := float64(max(1, x.s.ClanSoldiers(a.TargetClanID)))

	if mine >= threatRatio*theirs {
		expires := x.s.Turn + truceDuration
		x.s.SetRelation(x.clan.ID, a.TargetClanID, realm.Truce, expires)
		x.note(realm.RelationChange(x.clan.ID, a.TargetClanID, realm.Truce, expires))
		x.finish(true, g, "threat %s truce until turn %d", a.TargetClanID, expires)
		return nil
	}
	x.s.SetRelation(x.clan.ID, a.TargetClanID, realm.Hostile, 0)
	x.note(realm.RelationChange(x.clan.ID, a.TargetClanID, realm.Hostile, 0))
	x.finish(false, grade.Failure, "threat %s defied", a.TargetClanID)
	return nil
}
