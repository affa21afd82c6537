package realm

import "slices"

// ClanID is a stable clan identifier.
type ClanID string

// FactionID identifies an intra-clan faction.
type FactionID string

// Clan is a political house holding castles and a treasury.
type Clan struct {
	ID        ClanID      `json:"id"`
	Name      string      `json:"name"`
	LeaderID  CharacterID `json:"leader_id,omitempty"` // empty only while leaderless
	Gold      int         `json:"gold"`
	Food      int         `json:"food"`
	CastleIDs []CastleID  `json:"castle_ids"`
}

// Owns reports whether the clan's castle list includes id.
func (c *Clan) Owns(id CastleID) bool {
	return slices.Contains(c.CastleIDs, id)
}

func (c *Clan) clone() *Clan {
	cp := *c
	cp.CastleIDs = slices.Clone(c.CastleIDs)
	return &cp
}

// Faction is a named grouping of a clan's retainers.
type Faction struct {
	ID          FactionID     `json:"id"`
	Name        string        `json:"name"`
	ClanID      ClanID        `json:"clan_id"`
	Description string        `json:"description,omitempty"`
	MemberIDs   []CharacterID `json:"member_ids"`
}

func (f *Faction) clone() *Faction {
	cp := *f
	cp.MemberIDs = slices.Clone(f.MemberIDs)
	return &cp
}
