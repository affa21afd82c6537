// Diplomacy records: relations between clans, grudges and letters.
package realm

// RelationType is the standing between two clans.
type RelationType string

const (
	Alliance RelationType = "alliance"
	Truce    RelationType = "truce"
	Hostile  RelationType = "hostile"
	Neutral  RelationType = "neutral"
)

// Relation is an unordered clan pair. A is always the lesser id.
type Relation struct {
	A           ClanID       `json:"a"`
	B           ClanID       `json:"b"`
	Type        RelationType `json:"type"`
	ExpiresTurn int          `json:"expires_turn,omitempty"` // 0 = no expiry
}

// Involves reports whether the relation names clan.
func (r Relation) Involves(clan ClanID) bool {
	return r.A == clan || r.B == clan
}

// Other returns the counterpart of clan in the pair.
func (r Relation) Other(clan ClanID) ClanID {
	if r.A == clan {
		return r.B
	}
	return r.A
}

// Active reports whether the relation is still in force at turn.
func (r Relation) Active(turn int) bool {
	return r.ExpiresTurn == 0 || turn < r.ExpiresTurn
}

func orderPair(a, b ClanID) (ClanID, ClanID) {
	if b < a {
		return b, a
	}
	return a, b
}

// EventKind classifies a grudge event.
type EventKind string

const (
	EventBetrayal      EventKind = "betrayal"
	EventAttack        EventKind = "attack"
	EventAllianceBreak EventKind = "alliance_break"
	EventTerritoryLoss EventKind = "territory_loss"
	EventFamilyKilled  EventKind = "family_killed"
	EventInsult        EventKind = "insult"
	EventAid           EventKind = "aid"
	EventSaved         EventKind = "saved"
)

// EmotionImpact is the emotional weight a grudge carries.
type EmotionImpact struct {
	Loyalty    int `json:"loyalty"`
	Discontent int `json:"discontent"`
}

// ImpactOf returns the standard impact for an event kind.
func ImpactOf(kind EventKind) EmotionImpact {
	switch kind {
	case EventTerritoryLoss:
		return EmotionImpact{Loyalty: -10, Discontent: 20}
	case EventBetrayal:
		return EmotionImpact{Loyalty: -20, Discontent: 30}
	case EventFamilyKilled:
		return EmotionImpact{Loyalty: -30, Discontent: 50}
	case EventAttack, EventAllianceBreak:
		return EmotionImpact{Loyalty: -10, Discontent: 10}
	case EventInsult:
		return EmotionImpact{Loyalty: -5, Discontent: 10}
	case EventAid, EventSaved:
		return EmotionImpact{Loyalty: 10}
	default:
		return EmotionImpact{}
	}
}

// GrudgeEvent is an append-only record of one party wronging (or aiding) another.
// Actor and target may be clan or character ids.
type GrudgeEvent struct {
	ID       string        `json:"id"`
	Turn     int           `json:"turn"`
	ActorID  string        `json:"actor_id"`
	TargetID string        `json:"target_id"`
	Kind     EventKind     `json:"kind"`
	Subject  string        `json:"subject,omitempty"` // castle or character involved
	Impact   EmotionImpact `json:"impact"`
}

// ProposedTerms are the concrete terms a letter puts forward.
type ProposedTerms struct {
	Relation RelationType `json:"relation,omitempty"`
	Duration int          `json:"duration,omitempty"`
	Gold     int          `json:"gold,omitempty"`
}

// Letter is diplomatic correspondence composed by an external collaborator.
type Letter struct {
	ID       string         `json:"id"`
	Turn     int            `json:"turn"`
	FromClan ClanID         `json:"from_clan"`
	ToClan   ClanID         `json:"to_clan"`
	Greeting string         `json:"greeting"`
	Body     string         `json:"body"`
	Closing  string         `json:"closing"`
	Terms    *ProposedTerms `json:"terms,omitempty"`
	Summary  string         `json:"summary"`
}
