// Package victory decides whether a game has ended. It only reads state;
// removing defeated clans is the turn settlement's job.
package victory

import "github.com/talgya/sengoku/internal/realm"

// Reason names how a game was won.
type Reason string

const (
	Unification  Reason = "unification"   // one clan owns every castle
	LastStanding Reason = "last_standing" // every rival has lost its castles
)

// Verdict is the result of a victory check.
type Verdict struct {
	GameOver bool         `json:"game_over"`
	Winner   realm.ClanID `json:"winner,omitempty"`
	Reason   Reason       `json:"reason,omitempty"`
}

// Check inspects s without modifying it. Clans with no castles are ignored
// rather than removed, so calling Check before or after settlement agrees.
func Check(s *realm.State) Verdict {
	total := len(s.Castles)
	var holders []realm.ClanID
	for _, id := range s.ClanIDs() {
		n := len(s.Clans[id].CastleIDs)
		if n == 0 {
			continue
		}
		if total > 0 && n == total {
			return Verdict{GameOver: true, Winner: id, Reason: Unification}
		}
		holders = append(holders, id)
	}
	if len(holders) == 1 {
		return Verdict{GameOver: true, Winner: holders[0], Reason: LastStanding}
	}
	return Verdict{}
}

// Standing summarises one clan for scoreboards.
type Standing struct {
	ClanID   realm.ClanID `json:"clan_id"`
	Name     string       `json:"name"`
	Castles  int          `json:"castles"`
	Soldiers int          `json:"soldiers"`
	Gold     int          `json:"gold"`
	Food     int          `json:"food"`
}

// Standings lists every clan, ordered by id.
func Standings(s *realm.State) []Standing {
	out := make([]Standing, 0, len(s.Clans))
	for _, id := range s.ClanIDs() {
		c := s.Clans[id]
		out = append(out, Standing{
			ClanID:   id,
			Name:     c.Name,
			Castles:  len(c.CastleIDs),
			Soldiers: s.ClanSoldiers(id),
			Gold:     c.Gold,
			Food:     c.Food,
		})
	}
	return out
}
