package realm

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrIntegrity wraps every violation reported by Check.
var ErrIntegrity = errors.New("integrity violation")

// Check verifies the referential and range invariants of the state and
// returns every violation joined into one error.
func (s *State) Check() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrIntegrity}, args...)...))
	}

	for _, id := range s.CastleIDs() {
		c := s.Castles[id]
		if c.ID != id {
			fail("castle key %s holds id %s", id, c.ID)
		}
		owner, ok := s.Clans[c.OwnerID]
		switch {
		case !ok:
			fail("castle %s owned by missing clan %q", id, c.OwnerID)
		case !owner.Owns(id):
			fail("castle %s missing from owner %s castle list", id, c.OwnerID)
		}
		if c.CastellanID != "" {
			if _, ok := s.Characters[c.CastellanID]; !ok {
				fail("castle %s castellan %s does not exist", id, c.CastellanID)
			}
		}
		if c.Soldiers < 0 {
			fail("castle %s has %d soldiers", id, c.Soldiers)
		}
		for name, v := range map[string]int{
			"defense": c.Defense, "agriculture": c.Agriculture,
			"commerce": c.Commerce, "loyalty": c.Loyalty,
		} {
			if v < 0 || v > 100 {
				fail("castle %s %s %d out of range", id, name, v)
			}
		}
		if _, err := ParsePolicy(string(c.Policy)); err != nil {
			fail("castle %s: %v", id, err)
		}
		for _, adj := range c.Adjacent {
			other, ok := s.Castles[adj]
			if !ok {
				fail("castle %s adjacent to missing castle %s", id, adj)
				continue
			}
			if !other.IsAdjacent(id) {
				fail("adjacency %s -> %s is not symmetric", id, adj)
			}
		}
	}

	for _, id := range s.ClanIDs() {
		clan := s.Clans[id]
		if clan.ID != id {
			fail("clan key %s holds id %s", id, clan.ID)
		}
		if clan.Gold < 0 || clan.Food < 0 {
			fail("clan %s has negative treasury gold=%d food=%d", id, clan.Gold, clan.Food)
		}
		seen := make(map[CastleID]bool, len(clan.CastleIDs))
		for _, cid := range clan.CastleIDs {
			castle, ok := s.Castles[cid]
			switch {
			case !ok:
				fail("clan %s lists missing castle %s", id, cid)
			case castle.OwnerID != id:
				fail("clan %s lists castle %s owned by %s", id, cid, castle.OwnerID)
			case seen[cid]:
				fail("clan %s lists castle %s twice", id, cid)
			}
			seen[cid] = true
		}
		if clan.LeaderID != "" {
			leader, ok := s.Characters[clan.LeaderID]
			switch {
			case !ok:
				fail("clan %s leader %s does not exist", id, clan.LeaderID)
			case leader.ClanID != id:
				fail("clan %s leader %s serves %q", id, clan.LeaderID, leader.ClanID)
			}
		}
	}

	for _, id := range s.CharacterIDs() {
		c := s.Characters[id]
		if c.ClanID != "" {
			if _, ok := s.Clans[c.ClanID]; !ok {
				fail("character %s serves missing clan %s", id, c.ClanID)
			}
		}
		for name, v := range map[string]int{
			"loyalty": c.Emotions.Loyalty, "fear": c.Emotions.Fear,
			"respect": c.Emotions.Respect, "discontent": c.Emotions.Discontent,
		} {
			if v < 0 || v > 100 {
				fail("character %s %s %d out of range", id, name, v)
			}
		}
	}

	for _, id := range slices.Sorted(maps.Keys(s.Factions)) {
		f := s.Factions[id]
		if _, ok := s.Clans[f.ClanID]; !ok {
			fail("faction %s belongs to missing clan %s", id, f.ClanID)
		}
		for _, m := range f.MemberIDs {
			c, ok := s.Characters[m]
			switch {
			case !ok:
				fail("faction %s lists missing character %s", id, m)
			case c.FactionID != id:
				fail("faction %s lists %s who belongs to %q", id, m, c.FactionID)
			}
		}
	}
	for _, id := range s.CharacterIDs() {
		c := s.Characters[id]
		if c.FactionID == "" {
			continue
		}
		f, ok := s.Factions[c.FactionID]
		switch {
		case !ok:
			fail("character %s in missing faction %s", id, c.FactionID)
		case !slices.Contains(f.MemberIDs, id):
			fail("character %s missing from faction %s members", id, c.FactionID)
		case f.ClanID != c.ClanID:
			fail("character %s serves %q but faction %s belongs to %s", id, c.ClanID, f.ID, f.ClanID)
		}
	}

	for _, r := range s.Relations {
		if r.A == r.B {
			fail("relation pairs clan %s with itself", r.A)
		}
		for _, side := range []ClanID{r.A, r.B} {
			if _, ok := s.Clans[side]; !ok {
				fail("relation names missing clan %s", side)
			}
		}
	}

	return errors.Join(errs...)
}
