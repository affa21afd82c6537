package turn

import (
	"math"

	"github.com/talgya/sengoku/internal/entropy"
	"github.com/talgya/sengoku/internal/realm"
)

// Economy and unrest tuning.
const (
	goldPerCommerce     = 20
	foodPerAgriculture  = 15
	upkeepPerSoldier    = 0.2
	starvationDesertion = 0.1

	rebellionLoyalty = 20  // below this a castle may rise
	rebellionChance  = 0.3 // per castle per turn
	rebellionLosses  = 0.1 // share of garrison lost
	recoveryCeiling  = 50  // loyalty drifts up to here
	recoveryPerTurn  = 2
)

// loyaltyModifier scales production by castle loyalty: 0.4 at 0, 1.2 at 100.
func loyaltyModifier(loyalty int) float64 {
	return 0.4 + float64(loyalty)*0.008
}

// castellanBonus scales production by the castellan's politics.
func castellanBonus(s *realm.State, castle *realm.Castle) float64 {
	c, ok := s.Characters[castle.CastellanID]
	if !ok {
		return 1.0
	}
	return 0.8 + float64(c.Abilities.Politics)/250
}

// Yield is one clan's production for a turn, before treasury clamping.
type Yield struct {
	Income float64
	Food   float64
	Upkeep float64
}

// ClanYield computes the clan's income, food production and upkeep over its castles.
func ClanYield(s *realm.State, clan realm.ClanID) Yield {
	var y Yield
	for _, castle := range s.OwnedCastles(clan) {
		mod := loyaltyModifier(castle.Loyalty) * castellanBonus(s, castle)
		y.Income += float64(castle.Commerce) * goldPerCommerce * mod
		y.Food += float64(castle.Agriculture) * foodPerAgriculture * mod
		y.Upkeep += float64(castle.Soldiers) * upkeepPerSoldier
	}
	return y
}

// processEconomy settles every clan's treasury. Upkeep is charged against
// both gold and food. Starvation costs each castle a tenth of its garrison.
func (r *resolver) processEconomy() {
	for _, id := range r.s.ClanIDs() {
		clan := r.s.Clans[id]
		y := ClanYield(r.s, id)

		goldDelta := int(math.Floor(y.Income - y.Upkeep))
		foodDelta := int(math.Floor(y.Food - y.Upkeep))
		clan.Gold += goldDelta
		clan.Food += foodDelta
		r.note(realm.ClanChange(id, "gold", goldDelta))
		r.note(realm.ClanChange(id, "food", foodDelta))

		if clan.Gold < 0 {
			clan.Gold = 0
			r.rep.Bankrupt = append(r.rep.Bankrupt, id)
		}
		if clan.Food < 0 {
			clan.Food = 0
			r.rep.Starving = append(r.rep.Starving, id)
			for _, castle := range r.s.OwnedCastles(id) {
				before := castle.Soldiers
				castle.Soldiers -= int(math.Floor(float64(castle.Soldiers) * starvationDesertion))
				r.note(realm.CastleChange(castle.ID, "soldiers", before, castle.Soldiers))
			}
		}
	}
}

// processUnrest rolls rebellions in disloyal castles and lets loyalty recover
// toward the ceiling.
func (r *resolver) processUnrest() {
	for _, id := range r.s.CastleIDs() {
		castle := r.s.Castles[id]
		if castle.Loyalty < rebellionLoyalty && entropy.Chance(r.src, rebellionChance) {
			before := castle.Soldiers
			castle.Soldiers -= int(math.Floor(float64(castle.Soldiers) * rebellionLosses))
			r.rep.Rebellions = append(r.rep.Rebellions, id)
			r.note(realm.CastleChange(id, "soldiers", before, castle.Soldiers))
		}
		if castle.Loyalty < recoveryCeiling {
			before := castle.Loyalty
			castle.Loyalty = min(recoveryCeiling, castle.Loyalty+recoveryPerTurn)
			r.note(realm.CastleChange(id, "loyalty", before, castle.Loyalty))
		}
	}
}
