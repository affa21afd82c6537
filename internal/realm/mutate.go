package realm

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDangling marks a mutation that would reference a missing entity.
var ErrDangling = errors.New("dangling reference")

// SetRelation records the standing between two distinct clans, replacing any
// previous record for the pair.
func (s *State) SetRelation(a, b ClanID, typ RelationType, expiresTurn int) {
	if a == b {
		return
	}
	if r := s.RelationBetween(a, b); r != nil {
		r.Type = typ
		r.ExpiresTurn = expiresTurn
		return
	}
	a, b = orderPair(a, b)
	s.Relations = append(s.Relations, Relation{A: a, B: b, Type: typ, ExpiresTurn: expiresTurn})
}

// RemoveRelations deletes every relation naming clan.
func (s *State) RemoveRelations(clan ClanID) {
	s.Relations = slices.DeleteFunc(s.Relations, func(r Relation) bool {
		return r.Involves(clan)
	})
}

// TransferCastle moves a castle into another clan's holdings, keeping the
// owner field and both castle lists in step. Garrison and castellan are left
// to the caller.
func (s *State) TransferCastle(id CastleID, to ClanID) error {
	castle, ok := s.Castles[id]
	if !ok {
		return fmt.Errorf("%w: castle %s", ErrDangling, id)
	}
	dest, ok := s.Clans[to]
	if !ok {
		return fmt.Errorf("%w: clan %s", ErrDangling, to)
	}
	if prev, ok := s.Clans[castle.OwnerID]; ok {
		prev.CastleIDs = slices.DeleteFunc(prev.CastleIDs, func(c CastleID) bool { return c == id })
	}
	castle.OwnerID = to
	if !dest.Owns(id) {
		dest.CastleIDs = append(dest.CastleIDs, id)
	}
	return nil
}

// Reaffiliate moves a character to another clan (or none) and clears their faction.
func (s *State) Reaffiliate(id CharacterID, clan ClanID) error {
	c, ok := s.Characters[id]
	if !ok {
		return fmt.Errorf("%w: character %s", ErrDangling, id)
	}
	if clan != "" {
		if _, ok := s.Clans[clan]; !ok {
			return fmt.Errorf("%w: clan %s", ErrDangling, clan)
		}
	}
	s.leaveFaction(c)
	c.ClanID = clan
	return nil
}

func (s *State) leaveFaction(c *Character) {
	if f, ok := s.Factions[c.FactionID]; ok {
		f.MemberIDs = slices.DeleteFunc(f.MemberIDs, func(m CharacterID) bool { return m == c.ID })
	}
	c.FactionID = ""
}

// RemoveCharacter deletes a character: castellan posts are vacated, faction
// membership dropped and, for a clan leader, leadership passes to the most
// charismatic remaining member. Returns the successor, if any.
func (s *State) RemoveCharacter(id CharacterID) (CharacterID, error) {
	c, ok := s.Characters[id]
	if !ok {
		return "", fmt.Errorf("%w: character %s", ErrDangling, id)
	}
	for _, castle := range s.Castles {
		if castle.CastellanID == id {
			castle.CastellanID = ""
		}
	}
	s.leaveFaction(c)
	delete(s.Characters, id)

	var successor CharacterID
	for _, clanID := range s.ClanIDs() {
		clan := s.Clans[clanID]
		if clan.LeaderID != id {
			continue
		}
		clan.LeaderID = ""
		if heir := s.heirOf(clanID); heir != nil {
			clan.LeaderID = heir.ID
			successor = heir.ID
		}
	}
	return successor, nil
}

// heirOf picks the highest-charisma member, ties broken by id.
func (s *State) heirOf(clan ClanID) *Character {
	var best *Character
	for _, m := range s.Members(clan) {
		if best == nil || m.Abilities.Charisma > best.Abilities.Charisma {
			best = m
		}
	}
	return best
}

// DissolveClan removes a clan, releasing its characters and relations.
// Callers dissolve only clans whose castle list is empty.
func (s *State) DissolveClan(id ClanID) error {
	clan, ok := s.Clans[id]
	if !ok {
		return fmt.Errorf("%w: clan %s", ErrDangling, id)
	}
	if len(clan.CastleIDs) > 0 {
		return fmt.Errorf("clan %s still holds %d castles", id, len(clan.CastleIDs))
	}
	for _, m := range s.Members(id) {
		s.leaveFaction(m)
		m.ClanID = ""
	}
	for fid, f := range s.Factions {
		if f.ClanID == id {
			delete(s.Factions, fid)
		}
	}
	s.RemoveRelations(id)
	delete(s.Clans, id)
	return nil
}

// FoundClan registers a new clan led by an existing character.
func (s *State) FoundClan(clan *Clan) error {
	if _, exists := s.Clans[clan.ID]; exists {
		return fmt.Errorf("clan %s already exists", clan.ID)
	}
	if clan.LeaderID != "" {
		if _, ok := s.Characters[clan.LeaderID]; !ok {
			return fmt.Errorf("%w: leader %s", ErrDangling, clan.LeaderID)
		}
	}
	s.Clans[clan.ID] = clan
	return nil
}

// AppendGrudge records an event, filling the standard impact when unset.
func (s *State) AppendGrudge(ev GrudgeEvent) {
	if ev.Impact == (EmotionImpact{}) {
		ev.Impact = ImpactOf(ev.Kind)
	}
	if ev.Turn == 0 {
		ev.Turn = s.Turn
	}
	s.Grudges = append(s.Grudges, ev)
}

// AppendLetter records correspondence.
func (s *State) AppendLetter(l Letter) {
	if l.Turn == 0 {
		l.Turn = s.Turn
	}
	s.Letters = append(s.Letters, l)
}
