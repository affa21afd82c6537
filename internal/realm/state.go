// Package realm holds the game-state catalogs and the helpers that mutate
// them without breaking the castle/clan/character graph.
package realm

import (
	"maps"
	"slices"
)

// State is the complete, cloneable game state.
type State struct {
	Turn         int                        `json:"turn"`
	PlayerClanID ClanID                     `json:"player_clan_id,omitempty"`
	Characters   map[CharacterID]*Character `json:"characters"`
	Clans        map[ClanID]*Clan           `json:"clans"`
	Castles      map[CastleID]*Castle       `json:"castles"`
	Factions     map[FactionID]*Faction     `json:"factions"`
	Relations    []Relation                 `json:"relations"`
	Grudges      []GrudgeEvent              `json:"grudges"`
	Letters      []Letter                   `json:"letters"`
}

// NewState returns an empty state at turn 1.
func NewState() *State {
	return &State{
		Turn:       1,
		Characters: make(map[CharacterID]*Character),
		Clans:      make(map[ClanID]*Clan),
		Castles:    make(map[CastleID]*Castle),
		Factions:   make(map[FactionID]*Faction),
	}
}

// Clone returns a deep copy sharing no mutable memory with s.
func (s *State) Clone() *State {
	cp := &State{
		Turn:         s.Turn,
		PlayerClanID: s.PlayerClanID,
		Characters:   make(map[CharacterID]*Character, len(s.Characters)),
		Clans:        make(map[ClanID]*Clan, len(s.Clans)),
		Castles:      make(map[CastleID]*Castle, len(s.Castles)),
		Factions:     make(map[FactionID]*Faction, len(s.Factions)),
		Relations:    slices.Clone(s.Relations),
		Grudges:      slices.Clone(s.Grudges),
		Letters:      slices.Clone(s.Letters),
	}
	for id, c := range s.Characters {
		cp.Characters[id] = c.clone()
	}
	for id, c := range s.Clans {
		cp.Clans[id] = c.clone()
	}
	for id, c := range s.Castles {
		cp.Castles[id] = c.clone()
	}
	for id, f := range s.Factions {
		cp.Factions[id] = f.clone()
	}
	for i, l := range cp.Letters {
		if l.Terms != nil {
			t := *l.Terms
			cp.Letters[i].Terms = &t
		}
	}
	return cp
}

// CastleIDs returns every castle id in ascending order.
func (s *State) CastleIDs() []CastleID {
	return slices.Sorted(maps.Keys(s.Castles))
}

// ClanIDs returns every clan id in ascending order.
func (s *State) ClanIDs() []ClanID {
	return slices.Sorted(maps.Keys(s.Clans))
}

// CharacterIDs returns every character id in ascending order.
func (s *State) CharacterIDs() []CharacterID {
	return slices.Sorted(maps.Keys(s.Characters))
}

// Members returns the characters affiliated with clan, ordered by id.
func (s *State) Members(clan ClanID) []*Character {
	var out []*Character
	for _, id := range s.CharacterIDs() {
		if c := s.Characters[id]; c.ClanID == clan {
			out = append(out, c)
		}
	}
	return out
}

// OwnedCastles returns the clan's castles in castle-list order.
func (s *State) OwnedCastles(clan ClanID) []*Castle {
	c, ok := s.Clans[clan]
	if !ok {
		return nil
	}
	out := make([]*Castle, 0, len(c.CastleIDs))
	for _, id := range c.CastleIDs {
		if castle, ok := s.Castles[id]; ok {
			out = append(out, castle)
		}
	}
	return out
}

// ClanSoldiers sums the garrisons of every castle the clan owns.
func (s *State) ClanSoldiers(clan ClanID) int {
	total := 0
	for _, c := range s.OwnedCastles(clan) {
		total += c.Soldiers
	}
	return total
}

// PostOf returns the castle where the character is castellan, or nil.
func (s *State) PostOf(id CharacterID) *Castle {
	for _, cid := range s.CastleIDs() {
		if c := s.Castles[cid]; c.CastellanID == id {
			return c
		}
	}
	return nil
}

// IsLeader reports whether the character leads any clan.
func (s *State) IsLeader(id CharacterID) bool {
	for _, c := range s.Clans {
		if c.LeaderID == id {
			return true
		}
	}
	return false
}

// RelationBetween returns the relation record for the pair, or nil.
// The pointer aliases the state's relation slice.
func (s *State) RelationBetween(a, b ClanID) *Relation {
	a, b = orderPair(a, b)
	for i := range s.Relations {
		if s.Relations[i].A == a && s.Relations[i].B == b {
			return &s.Relations[i]
		}
	}
	return nil
}

// RelationType returns the pair's standing, neutral when unrecorded.
func (s *State) RelationType(a, b ClanID) RelationType {
	if r := s.RelationBetween(a, b); r != nil {
		return r.Type
	}
	return Neutral
}

// HostileTo returns the first clan (in relation order) hostile to clan.
func (s *State) HostileTo(clan ClanID) (ClanID, bool) {
	for _, r := range s.Relations {
		if r.Type != Hostile || !r.Involves(clan) {
			continue
		}
		other := r.Other(clan)
		if _, ok := s.Clans[other]; ok {
			return other, true
		}
	}
	return "", false
}
