package command

import (
	"fmt"
	"math"

	"github.com/talgya/sengoku/internal/entropy"
	"github.com/talgya/sengoku/internal/grade"
	"github.com/talgya/sengoku/internal/realm"
)

// Domestic tuning.
const (
	goldPerDevelopPoint = 50  // investment per agriculture/commerce point
	goldPerDefensePoint = 100 // investment per defense point
	goldPerRecruit      = 2
	recruitLoyaltyMin   = 5
	recruitLoyaltyMax   = 9
)

func validateInvestment(s *realm.State, clan *realm.Clan, a Action) error {
	if _, err := ownedCastle(s, clan, a.CastleID); err != nil {
		return err
	}
	return requireGold(clan, a.Investment)
}

func executeDevelopAgriculture(x *execution, a Action) error {
	return x.develop(a, "agriculture", func(c *realm.Castle) *int { return &c.Agriculture })
}

func executeDevelopCommerce(x *execution, a Action) error {
	return x.develop(a, "commerce", func(c *realm.Castle) *int { return &c.Commerce })
}

// develop spends the full investment whatever the grade and raises one score.
func (x *execution) develop(a Action, field string, score func(*realm.Castle) *int) error {
	castle, ok := x.s.Castles[a.CastleID]
	if !ok {
		return fmt.Errorf("castle %s vanished", a.CastleID)
	}
	g := x.roll()
	x.spend(a.Investment)

	gain := int(math.Floor(float64(a.Investment) / goldPerDevelopPoint * grade.Multiplier(g)))
	v := score(castle)
	before := *v
	*v = realm.ClampScore(*v + gain)
	x.note(realm.CastleChange(castle.ID, field, before, *v))

	x.finish(g.Succeeded(), g, "%s %s %+d", field, castle.ID, *v-before)
	return nil
}

func executeFortify(x *execution, a Action) error {
	castle, ok := x.s.Castles[a.CastleID]
	if !ok {
		return fmt.Errorf("castle %s vanished", a.CastleID)
	}
	g := x.roll()
	x.spend(a.Investment)

	gain := int(math.Floor(float64(a.Investment) / goldPerDefensePoint * grade.Multiplier(g)))
	before := castle.Defense
	castle.Defense = realm.ClampScore(castle.Defense + gain)
	x.note(realm.CastleChange(castle.ID, "defense", before, castle.Defense))

	x.finish(g.Succeeded(), g, "defense %s %+d", castle.ID, castle.Defense-before)
	return nil
}

func validateRecruit(s *realm.State, clan *realm.Clan, a Action) error {
	if _, err := ownedCastle(s, clan, a.CastleID); err != nil {
		return err
	}
	if a.Count <= 0 {
		return fmt.Errorf("%w: count %d must be positive", ErrInvalidParams, a.Count)
	}
	return requireGold(clan, a.Count*goldPerRecruit)
}

// executeRecruit always costs loyalty; conscription is unpopular regardless of grade.
func executeRecruit(x *execution, a Action) error {
	castle, ok := x.s.Castles[a.CastleID]
	if !ok {
		return fmt.Errorf("castle %s vanished", a.CastleID)
	}
	g := x.roll()
	x.spend(a.Count * goldPerRecruit)

	recruits := int(math.Floor(float64(a.Count) * grade.Multiplier(g)))
	before := castle.Soldiers
	castle.Soldiers += recruits
	x.note(realm.CastleChange(castle.ID, "soldiers", before, castle.Soldiers))

	drop := entropy.IntRange(x.env.Source, recruitLoyaltyMin, recruitLoyaltyMax)
	loyalty := castle.Loyalty
	castle.Loyalty = realm.ClampScore(castle.Loyalty - drop)
	x.note(realm.CastleChange(castle.ID, "loyalty", loyalty, castle.Loyalty))

	x.finish(g.Succeeded(), g, "recruit %s %+d", castle.ID, recruits)
	return nil
}
