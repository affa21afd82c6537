// Package scenario reads and writes starting states as YAML documents and
// generates fresh ones from simplex terrain.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/talgya/sengoku/internal/realm"
)

// ErrInvalid wraps every problem found while building a state from a document.
var ErrInvalid = errors.New("invalid scenario")

// Document is the on-disk form of a starting state. Clan castle lists are
// derived from castle owners.
type Document struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Turn        int            `yaml:"turn,omitempty"`
	PlayerClan  string         `yaml:"player_clan,omitempty"`
	Clans       []ClanDoc      `yaml:"clans"`
	Castles     []CastleDoc    `yaml:"castles"`
	Characters  []CharacterDoc `yaml:"characters"`
	Factions    []FactionDoc   `yaml:"factions,omitempty"`
	Relations   []RelationDoc  `yaml:"relations,omitempty"`
}

type ClanDoc struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Leader string `yaml:"leader,omitempty"`
	Gold   int    `yaml:"gold"`
	Food   int    `yaml:"food"`
}

type CastleDoc struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Owner       string   `yaml:"owner"`
	Castellan   string   `yaml:"castellan,omitempty"`
	Soldiers    int      `yaml:"soldiers"`
	Defense     int      `yaml:"defense"`
	Agriculture int      `yaml:"agriculture"`
	Commerce    int      `yaml:"commerce"`
	Loyalty     int      `yaml:"loyalty"`
	Policy      string   `yaml:"policy,omitempty"`
	Adjacent    []string `yaml:"adjacent,flow"`
}

type CharacterDoc struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Clan        string        `yaml:"clan,omitempty"`
	Faction     string        `yaml:"faction,omitempty"`
	Abilities   AbilitiesDoc  `yaml:"abilities"`
	Personality []string      `yaml:"personality,omitempty,flow"`
	Emotions    EmotionsDoc   `yaml:"emotions"`
	Defection   *DefectionDoc `yaml:"defection,omitempty"`
}

type AbilitiesDoc struct {
	Politics     int `yaml:"politics"`
	Warfare      int `yaml:"warfare"`
	Intelligence int `yaml:"intelligence"`
	Charisma     int `yaml:"charisma"`
}

type EmotionsDoc struct {
	Loyalty    int `yaml:"loyalty"`
	Fear       int `yaml:"fear,omitempty"`
	Respect    int `yaml:"respect,omitempty"`
	Discontent int `yaml:"discontent,omitempty"`
}

type DefectionDoc struct {
	Kind      string            `yaml:"kind"`
	ClanID    string            `yaml:"clan_id,omitempty"`
	ClanName  string            `yaml:"clan_name,omitempty"`
	Rename    string            `yaml:"rename,omitempty"`
	Gold      int               `yaml:"gold,omitempty"`
	Food      int               `yaml:"food,omitempty"`
	Relations map[string]string `yaml:"relations,omitempty"`
}

type FactionDoc struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Clan        string   `yaml:"clan"`
	Description string   `yaml:"description,omitempty"`
	Members     []string `yaml:"members,flow"`
}

type RelationDoc struct {
	A       string `yaml:"a"`
	B       string `yaml:"b"`
	Type    string `yaml:"type"`
	Expires int    `yaml:"expires,omitempty"`
}

// Load reads a scenario file.
func Load(path string) (*realm.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML document, builds the state and runs its integrity
// check. Unknown keys are rejected.
func Parse(data []byte) (*realm.State, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return doc.State()
}

// State builds a realm state from the document. Every problem is reported,
// joined into one error.
func (d *Document) State() (*realm.State, error) {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	s := realm.NewState()
	if d.Turn > 0 {
		s.Turn = d.Turn
	}
	s.PlayerClanID = realm.ClanID(d.PlayerClan)

	for _, c := range d.Clans {
		id := realm.ClanID(c.ID)
		if id == "" {
			fail("clan with empty id")
			continue
		}
		if _, dup := s.Clans[id]; dup {
			fail("duplicate clan %s", id)
			continue
		}
		s.Clans[id] = &realm.Clan{
			ID:       id,
			Name:     c.Name,
			LeaderID: realm.CharacterID(c.Leader),
			Gold:     c.Gold,
			Food:     c.Food,
		}
	}

	for _, c := range d.Characters {
		id := realm.CharacterID(c.ID)
		if id == "" {
			fail("character with empty id")
			continue
		}
		if _, dup := s.Characters[id]; dup {
			fail("duplicate character %s", id)
			continue
		}
		ch := &realm.Character{
			ID:   id,
			Name: c.Name,
			Abilities: realm.Abilities{
				Politics:     c.Abilities.Politics,
				Warfare:      c.Abilities.Warfare,
				Intelligence: c.Abilities.Intelligence,
				Charisma:     c.Abilities.Charisma,
			},
			Emotions: realm.Emotions{
				Loyalty:    c.Emotions.Loyalty,
				Fear:       c.Emotions.Fear,
				Respect:    c.Emotions.Respect,
				Discontent: c.Emotions.Discontent,
			},
			ClanID:    realm.ClanID(c.Clan),
			FactionID: realm.FactionID(c.Faction),
		}
		for _, p := range c.Personality {
			ch.Personality = append(ch.Personality, realm.PersonalityTag(p))
		}
		if c.Defection != nil {
			trigger, err := c.Defection.trigger()
			if err != nil {
				fail("character %s: %v", id, err)
			}
			ch.Defection = trigger
		}
		s.Characters[id] = ch
	}

	for _, c := range d.Castles {
		id := realm.CastleID(c.ID)
		if id == "" {
			fail("castle with empty id")
			continue
		}
		if _, dup := s.Castles[id]; dup {
			fail("duplicate castle %s", id)
			continue
		}
		policy, err := realm.ParsePolicy(c.Policy)
		if err != nil {
			fail("castle %s: %v", id, err)
		}
		castle := &realm.Castle{
			ID:          id,
			Name:        c.Name,
			OwnerID:     realm.ClanID(c.Owner),
			CastellanID: realm.CharacterID(c.Castellan),
			Soldiers:    c.Soldiers,
			Defense:     c.Defense,
			Agriculture: c.Agriculture,
			Commerce:    c.Commerce,
			Loyalty:     c.Loyalty,
			Policy:      policy,
		}
		for _, adj := range c.Adjacent {
			castle.Adjacent = append(castle.Adjacent, realm.CastleID(adj))
		}
		s.Castles[id] = castle
		if owner, ok := s.Clans[castle.OwnerID]; ok {
			owner.CastleIDs = append(owner.CastleIDs, id)
		}
	}

	for _, f := range d.Factions {
		id := realm.FactionID(f.ID)
		if _, dup := s.Factions[id]; dup || id == "" {
			fail("duplicate or empty faction %q", id)
			continue
		}
		faction := &realm.Faction{
			ID:          id,
			Name:        f.Name,
			ClanID:      realm.ClanID(f.Clan),
			Description: f.Description,
			MemberIDs:   []realm.CharacterID{},
		}
		for _, m := range f.Members {
			faction.MemberIDs = append(faction.MemberIDs, realm.CharacterID(m))
		}
		s.Factions[id] = faction
	}

	for _, r := range d.Relations {
		typ, err := parseRelation(r.Type)
		if err != nil {
			fail("relation %s/%s: %v", r.A, r.B, err)
			continue
		}
		if r.A == r.B {
			fail("relation %s/%s names one clan twice", r.A, r.B)
			continue
		}
		s.SetRelation(realm.ClanID(r.A), realm.ClanID(r.B), typ, r.Expires)
	}

	if s.PlayerClanID != "" {
		if _, ok := s.Clans[s.PlayerClanID]; !ok {
			fail("player clan %s does not exist", s.PlayerClanID)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := s.Check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return s, nil
}

func (d *DefectionDoc) trigger() (*realm.DefectionTrigger, error) {
	t := &realm.DefectionTrigger{
		Kind:     realm.DefectionKind(d.Kind),
		ClanID:   realm.ClanID(d.ClanID),
		ClanName: d.ClanName,
		Rename:   d.Rename,
		Gold:     d.Gold,
		Food:     d.Food,
	}
	switch t.Kind {
	case realm.DefectBetray, realm.DefectIndependence:
	default:
		return nil, fmt.Errorf("unknown defection kind %q", d.Kind)
	}
	if len(d.Relations) > 0 {
		t.Relations = make(map[realm.ClanID]realm.RelationType, len(d.Relations))
		for clan, name := range d.Relations {
			typ, err := parseRelation(name)
			if err != nil {
				return nil, fmt.Errorf("defection relation %s: %w", clan, err)
			}
			t.Relations[realm.ClanID(clan)] = typ
		}
	}
	return t, nil
}

func parseRelation(name string) (realm.RelationType, error) {
	typ := realm.RelationType(name)
	switch typ {
	case realm.Alliance, realm.Truce, realm.Hostile, realm.Neutral:
		return typ, nil
	}
	return "", fmt.Errorf("unknown relation type %q", name)
}

// Marshal encodes s as a scenario document, every list ordered by id.
// Grudges and letters are play history and are not written.
func Marshal(name string, s *realm.State) ([]byte, error) {
	doc := Document{
		Name:       name,
		Turn:       s.Turn,
		PlayerClan: string(s.PlayerClanID),
	}
	for _, id := range s.ClanIDs() {
		c := s.Clans[id]
		doc.Clans = append(doc.Clans, ClanDoc{
			ID: string(c.ID), Name: c.Name, Leader: string(c.LeaderID), Gold: c.Gold, Food: c.Food,
		})
	}
	for _, id := range s.CastleIDs() {
		c := s.Castles[id]
		cd := CastleDoc{
			ID:          string(c.ID),
			Name:        c.Name,
			Owner:       string(c.OwnerID),
			Castellan:   string(c.CastellanID),
			Soldiers:    c.Soldiers,
			Defense:     c.Defense,
			Agriculture: c.Agriculture,
			Commerce:    c.Commerce,
			Loyalty:     c.Loyalty,
			Policy:      string(c.Policy),
		}
		for _, adj := range c.Adjacent {
			cd.Adjacent = append(cd.Adjacent, string(adj))
		}
		doc.Castles = append(doc.Castles, cd)
	}
	for _, id := range s.CharacterIDs() {
		doc.Characters = append(doc.Characters, characterDoc(s.Characters[id]))
	}

	factionIDs := make([]realm.FactionID, 0, len(s.Factions))
	for id := range s.Factions {
		factionIDs = append(factionIDs, id)
	}
	slices.Sort(factionIDs)
	for _, id := range factionIDs {
		f := s.Factions[id]
		fd := FactionDoc{ID: string(f.ID), Name: f.Name, Clan: string(f.ClanID), Description: f.Description}
		for _, m := range f.MemberIDs {
			fd.Members = append(fd.Members, string(m))
		}
		doc.Factions = append(doc.Factions, fd)
	}
	for _, r := range s.Relations {
		doc.Relations = append(doc.Relations, RelationDoc{
			A: string(r.A), B: string(r.B), Type: string(r.Type), Expires: r.ExpiresTurn,
		})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode scenario: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func characterDoc(c *realm.Character) CharacterDoc {
	cd := CharacterDoc{
		ID:      string(c.ID),
		Name:    c.Name,
		Clan:    string(c.ClanID),
		Faction: string(c.FactionID),
		Abilities: AbilitiesDoc{
			Politics:     c.Abilities.Politics,
			Warfare:      c.Abilities.Warfare,
			Intelligence: c.Abilities.Intelligence,
			Charisma:     c.Abilities.Charisma,
		},
		Emotions: EmotionsDoc{
			Loyalty:    c.Emotions.Loyalty,
			Fear:       c.Emotions.Fear,
			Respect:    c.Emotions.Respect,
			Discontent: c.Emotions.Discontent,
		},
	}
	for _, p := range c.Personality {
		cd.Personality = append(cd.Personality, string(p))
	}
	if d := c.Defection; d != nil {
		dd := &DefectionDoc{
			Kind:     string(d.Kind),
			ClanID:   string(d.ClanID),
			ClanName: d.ClanName,
			Rename:   d.Rename,
			Gold:     d.Gold,
			Food:     d.Food,
		}
		if len(d.Relations) > 0 {
			dd.Relations = make(map[string]string, len(d.Relations))
			for clan, typ := range d.Relations {
				dd.Relations[string(clan)] = string(typ)
			}
		}
		cd.Defection = dd
	}
	return cd
}
