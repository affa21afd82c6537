package turn

import (
	"slices"

	"github.com/talgya/sengoku/internal/entropy"
	"github.com/talgya/sengoku/internal/realm"
)

// Loyalty below which retainers may defect; the chance grows linearly to 30% at zero.
const defectionLoyalty = 30

// Emotions a betraying castellan carries into their new clan.
const (
	turncoatLoyalty     = 60
	independenceLoyalty = 100
)

// castellanDefection moves a castellan, with their castle, out of their clan.
// It reports false when the defection had nowhere to go.
type castellanDefection func(r *resolver, c *realm.Character, castle *realm.Castle) (bool, error)

var castellanDefections = map[realm.DefectionKind]castellanDefection{
	realm.DefectBetray:       (*resolver).betray,
	realm.DefectIndependence: (*resolver).declareIndependence,
}

// processDefection rolls defection for disloyal retainers, then drains
// loyalty from the discontented. Clan leaders never defect.
func (r *resolver) processDefection() error {
	for _, id := range r.s.CharacterIDs() {
		c := r.s.Characters[id]
		if !c.Affiliated() {
			continue
		}
		clan, ok := r.s.Clans[c.ClanID]
		if !ok || clan.LeaderID == id {
			continue
		}

		if c.Emotions.Loyalty < defectionLoyalty {
			chance := float64(defectionLoyalty-c.Emotions.Loyalty) / 100
			if entropy.Chance(r.src, chance) {
				if err := r.defect(c); err != nil {
					return err
				}
			}
		}

		if c.Emotions.Discontent > 50 {
			before := c.Emotions.Loyalty
			c.Emotions.Loyalty = realm.ClampScore(c.Emotions.Loyalty - (c.Emotions.Discontent-50)/10)
			if c.Emotions.Loyalty != before {
				r.note(realm.CharacterChange(id, "loyalty", before, c.Emotions.Loyalty))
			}
		}
	}
	return nil
}

func (r *resolver) defect(c *realm.Character) error {
	from := c.ClanID
	castle := r.s.PostOf(c.ID)
	if castle == nil || castle.OwnerID != from {
		if err := r.s.Reaffiliate(c.ID, ""); err != nil {
			return err
		}
		r.rep.Defections = append(r.rep.Defections, Defection{CharacterID: c.ID, From: from})
		r.note(realm.CharacterChange(c.ID, "clan", from, "none"))
		return nil
	}

	handler, ok := castellanDefections[c.DefectionKind()]
	if !ok {
		handler = (*resolver).betray
	}
	_, err := handler(r, c, castle)
	return err
}

// betray hands the castle to the first clan hostile to the castellan's own.
func (r *resolver) betray(c *realm.Character, castle *realm.Castle) (bool, error) {
	from := c.ClanID
	to, ok := r.s.HostileTo(from)
	if !ok {
		return false, nil
	}
	if err := r.switchSides(c, castle, to, realm.DefectBetray); err != nil {
		return false, err
	}
	c.Emotions.Loyalty = turncoatLoyalty
	c.Emotions.Discontent = 0
	return true, nil
}

// declareIndependence founds the clan described by the castellan's trigger.
// A trigger naming an existing clan falls back to betrayal.
func (r *resolver) declareIndependence(c *realm.Character, castle *realm.Castle) (bool, error) {
	trig := c.Defection
	if trig == nil || trig.ClanID == "" {
		return r.betray(c, castle)
	}
	if _, exists := r.s.Clans[trig.ClanID]; exists {
		return r.betray(c, castle)
	}

	name := trig.ClanName
	if name == "" {
		name = string(trig.ClanID)
	}
	if err := r.s.FoundClan(&realm.Clan{
		ID:       trig.ClanID,
		Name:     name,
		LeaderID: c.ID,
		Gold:     trig.Gold,
		Food:     trig.Food,
	}); err != nil {
		return false, err
	}
	r.note("clan:" + string(trig.ClanID) + " founded")

	if err := r.switchSides(c, castle, trig.ClanID, realm.DefectIndependence); err != nil {
		return false, err
	}
	c.Emotions.Loyalty = independenceLoyalty
	c.Emotions.Discontent = 0
	if trig.Rename != "" {
		r.note(realm.CharacterChange(c.ID, "name", c.Name, trig.Rename))
		c.Name = trig.Rename
	}

	others := make([]realm.ClanID, 0, len(trig.Relations))
	for other := range trig.Relations {
		others = append(others, other)
	}
	slices.Sort(others)
	for _, other := range others {
		if _, ok := r.s.Clans[other]; !ok {
			continue
		}
		typ := trig.Relations[other]
		r.s.SetRelation(trig.ClanID, other, typ, 0)
		r.note(realm.RelationChange(trig.ClanID, other, typ, 0))
	}

	c.Defection = nil
	return true, nil
}

// switchSides moves the castellan and their castle to clan to.
func (r *resolver) switchSides(c *realm.Character, castle *realm.Castle, to realm.ClanID, kind realm.DefectionKind) error {
	from := c.ClanID
	if err := r.s.TransferCastle(castle.ID, to); err != nil {
		return err
	}
	if err := r.s.Reaffiliate(c.ID, to); err != nil {
		return err
	}
	r.s.AppendGrudge(realm.GrudgeEvent{
		ID:       r.newID(),
		ActorID:  string(c.ID),
		TargetID: string(from),
		Kind:     realm.EventBetrayal,
		Subject:  string(castle.ID),
	})
	r.rep.Defections = append(r.rep.Defections, Defection{
		CharacterID: c.ID, From: from, To: to, CastleID: castle.ID, Kind: kind,
	})
	r.note(realm.OwnerChange(castle.ID, from, to))
	r.note(realm.CharacterChange(c.ID, "clan", from, to))
	return nil
}
