// Characters: generals, castellans and clan leaders.
package realm

import "maps"

// CharacterID is a stable character identifier.
type CharacterID string

// Abilities are fixed 1–100 scores.
type Abilities struct {
	Politics     int `json:"politics"`
	Warfare      int `json:"warfare"`
	Intelligence int `json:"intelligence"`
	Charisma     int `json:"charisma"`
}

// Emotions are mutable 0–100 scores.
type Emotions struct {
	Loyalty    int `json:"loyalty"`
	Fear       int `json:"fear"`
	Respect    int `json:"respect"`
	Discontent int `json:"discontent"`
}

// PersonalityTag is an immutable trait consumed by narrative collaborators.
type PersonalityTag string

const (
	Authoritarian PersonalityTag = "authoritarian"
	Pragmatic     PersonalityTag = "pragmatic"
	Honorable     PersonalityTag = "honorable"
	Suspicious    PersonalityTag = "suspicious"
	Ambitious     PersonalityTag = "ambitious"
	Conservative  PersonalityTag = "conservative"
	Innovative    PersonalityTag = "innovative"
	Ruthless      PersonalityTag = "ruthless"
	Merciful      PersonalityTag = "merciful"
)

// DefectionKind selects what happens when a castellan defects.
type DefectionKind string

const (
	DefectBetray       DefectionKind = "betray"       // castle goes to a hostile clan
	DefectIndependence DefectionKind = "independence" // castle founds a new clan
)

// DefectionTrigger is scenario data describing a castellan's defection.
// For independence, the new clan is described inline.
type DefectionTrigger struct {
	Kind      DefectionKind           `json:"kind"`
	ClanID    ClanID                  `json:"clan_id,omitempty"`
	ClanName  string                  `json:"clan_name,omitempty"`
	Rename    string                  `json:"rename,omitempty"` // character's new name, if any
	Gold      int                     `json:"gold,omitempty"`
	Food      int                     `json:"food,omitempty"`
	Relations map[ClanID]RelationType `json:"relations,omitempty"`
}

// Character is a named person who may serve a clan.
type Character struct {
	ID          CharacterID       `json:"id"`
	Name        string            `json:"name"`
	Abilities   Abilities         `json:"abilities"`
	Personality []PersonalityTag  `json:"personality"`
	Emotions    Emotions          `json:"emotions"`
	ClanID      ClanID            `json:"clan_id,omitempty"` // empty when unaffiliated
	FactionID   FactionID         `json:"faction_id,omitempty"`
	Defection   *DefectionTrigger `json:"defection,omitempty"`
}

// Affiliated reports whether the character serves a clan.
func (c *Character) Affiliated() bool {
	return c.ClanID != ""
}

// HasTrait reports whether the character carries the personality tag.
func (c *Character) HasTrait(tag PersonalityTag) bool {
	for _, p := range c.Personality {
		if p == tag {
			return true
		}
	}
	return false
}

// DefectionKind returns the configured defection behaviour, defaulting to betrayal.
func (c *Character) DefectionKind() DefectionKind {
	if c.Defection == nil || c.Defection.Kind == "" {
		return DefectBetray
	}
	return c.Defection.Kind
}

func (c *Character) clone() *Character {
	cp := *c
	cp.Personality = append([]PersonalityTag(nil), c.Personality...)
	if c.Defection != nil {
		d := *c.Defection
		d.Relations = maps.Clone(c.Defection.Relations)
		cp.Defection = &d
	}
	return &cp
}
