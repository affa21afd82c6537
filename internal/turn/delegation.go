package turn

import (
	"math"

	"github.com/talgya/sengoku/internal/realm"
)

// militaryDelegationCost is the gold a military castellan spends per turn.
const militaryDelegationCost = 200

// processDelegation applies each castellan's standing order. Growth scales
// with politics/50, so a politics-50 castellan yields the base amount.
func (r *resolver) processDelegation() {
	for _, id := range r.s.CastleIDs() {
		castle := r.s.Castles[id]
		if castle.Policy == realm.PolicyNone || castle.Policy == "" {
			continue
		}
		castellan, ok := r.s.Characters[castle.CastellanID]
		if !ok {
			continue
		}
		bonus := float64(castellan.Abilities.Politics) / 50

		switch castle.Policy {
		case realm.PolicyAgriculture:
			gain := int(math.Floor((3 + r.src.Float64()*3) * bonus))
			r.raise(castle, "agriculture", &castle.Agriculture, gain)

		case realm.PolicyCommerce:
			gain := int(math.Floor((3 + r.src.Float64()*3) * bonus))
			r.raise(castle, "commerce", &castle.Commerce, gain)

		case realm.PolicyMilitary:
			clan, ok := r.s.Clans[castle.OwnerID]
			if !ok || clan.Gold < militaryDelegationCost {
				continue
			}
			recruits := int(math.Floor((50 + r.src.Float64()*50) * bonus))
			clan.Gold -= militaryDelegationCost
			r.note(realm.ClanChange(clan.ID, "gold", -militaryDelegationCost))
			before := castle.Soldiers
			castle.Soldiers += recruits
			r.note(realm.CastleChange(id, "soldiers", before, castle.Soldiers))

		case realm.PolicyDefense:
			gain := int(math.Floor((2 + r.src.Float64()*2) * bonus))
			r.raise(castle, "defense", &castle.Defense, gain)

		case realm.PolicyBalanced:
			growth := int(math.Floor((2 + r.src.Float64()) * bonus))
			r.raise(castle, "agriculture", &castle.Agriculture, growth)
			r.raise(castle, "commerce", &castle.Commerce, growth)
			r.raise(castle, "defense", &castle.Defense, growth)
			before := castle.Soldiers
			castle.Soldiers += growth * 15
			r.note(realm.CastleChange(id, "soldiers", before, castle.Soldiers))
		}
	}
}

// raise adds gain to a bounded castle score, capped at 100.
func (r *resolver) raise(castle *realm.Castle, field string, score *int, gain int) {
	before := *score
	*score = realm.ClampScore(*score + gain)
	if *score != before {
		r.note(realm.CastleChange(castle.ID, field, before, *score))
	}
}
