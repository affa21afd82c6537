// Package command validates and resolves player and AI orders against the
// realm. Every action is a validate/execute pair in a registry; execution
// always runs on a working copy of the state.
package command

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/talgya/sengoku/internal/realm"
)

// Kind is a canonical action name.
type Kind string

const (
	DevelopAgriculture Kind = "develop_agriculture"
	DevelopCommerce    Kind = "develop_commerce"
	RecruitSoldiers    Kind = "recruit_soldiers"
	Fortify            Kind = "fortify"
	Attack             Kind = "attack"
	ProposeAlliance    Kind = "propose_alliance"
	SendGift           Kind = "send_gift"
	Threaten           Kind = "threaten"
	Bribe              Kind = "bribe"
	Assassinate        Kind = "assassinate"
	EndTurn            Kind = "end_turn"
	Delegate           Kind = "delegate"
)

// Defaults applied when a parameter is omitted.
const (
	DefaultInvestment       = 500
	DefaultRecruitCount     = 100
	DefaultGift             = 300
	DefaultBribe            = 500
	DefaultAllianceDuration = 12
)

// aliases maps loose names onto canonical kinds.
var aliases = map[string]Kind{
	"agriculture":          DevelopAgriculture,
	"farm":                 DevelopAgriculture,
	"improve_agriculture":  DevelopAgriculture,
	"build_agriculture":    DevelopAgriculture,
	"increase_agriculture": DevelopAgriculture,

	"commerce":          DevelopCommerce,
	"trade":             DevelopCommerce,
	"improve_commerce":  DevelopCommerce,
	"build_commerce":    DevelopCommerce,
	"increase_commerce": DevelopCommerce,

	"recruit":        RecruitSoldiers,
	"enlist":         RecruitSoldiers,
	"hire_soldiers":  RecruitSoldiers,
	"train_soldiers": RecruitSoldiers,
	"raise_soldiers": RecruitSoldiers,

	"defense":             Fortify,
	"strengthen_defense":  Fortify,
	"build_fortification": Fortify,

	"siege":   Attack,
	"assault": Attack,
	"invade":  Attack,

	"alliance":      ProposeAlliance,
	"ally":          ProposeAlliance,
	"form_alliance": ProposeAlliance,
	"diplomacy":     ProposeAlliance,

	"gift":      SendGift,
	"give_gift": SendGift,

	"intimidate": Threaten,
	"coerce":     Threaten,

	"corrupt":  Bribe,
	"buy_off":  Bribe,
	"sabotage": Bribe,

	"assassination": Assassinate,
}

// Normalize maps a loose action name to its canonical kind. Unknown names
// are rejected with the closest known name as a suggestion.
func Normalize(name string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(strings.ReplaceAll(key, "-", "_"), " ", "_")
	if k, ok := aliases[key]; ok {
		return k, nil
	}
	if _, ok := registry[Kind(key)]; ok {
		return Kind(key), nil
	}
	if s := suggest(key); s != "" {
		return "", fmt.Errorf("%w: %q (did you mean %s?)", ErrUnknownAction, name, s)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// suggest returns the known name closest to key by Jaro-Winkler similarity.
func suggest(key string) Kind {
	names := make([]string, 0, len(registry)+len(aliases))
	for k := range registry {
		names = append(names, string(k))
	}
	for a := range aliases {
		names = append(names, a)
	}
	sort.Strings(names)

	best, bestScore := "", 0.8
	for _, n := range names {
		if score := matchr.JaroWinkler(key, n, false); score > bestScore {
			best, bestScore = n, score
		}
	}
	if best == "" {
		return ""
	}
	if k, ok := aliases[best]; ok {
		return k
	}
	return Kind(best)
}

// Kinds lists every canonical action.
func Kinds() []Kind {
	out := make([]Kind, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Action is a normalized order with its parameters.
type Action struct {
	Kind              Kind                   `json:"action"`
	CastleID          realm.CastleID         `json:"castle_id,omitempty"`
	FromCastleID      realm.CastleID         `json:"from_castle_id,omitempty"`
	TargetCastleID    realm.CastleID         `json:"target_castle_id,omitempty"`
	TargetClanID      realm.ClanID           `json:"target_clan_id,omitempty"`
	TargetCharacterID realm.CharacterID      `json:"target_character_id,omitempty"`
	Investment        int                    `json:"investment,omitempty"`
	Count             int                    `json:"count,omitempty"`
	Gold              int                    `json:"gold,omitempty"`
	Duration          int                    `json:"duration,omitempty"`
	Policy            realm.DelegationPolicy `json:"policy,omitempty"`
}

// Parse builds an action from a loose name and a parameter bag. Parameter
// keys are matched case-insensitively with underscores ignored, so castleId
// and castle_id are the same key.
func Parse(name string, params map[string]any) (Action, error) {
	kind, err := Normalize(name)
	if err != nil {
		return Action{}, err
	}
	p := bag{}
	for k, v := range params {
		p[strings.ToLower(strings.ReplaceAll(k, "_", ""))] = v
	}

	a := Action{Kind: kind}
	if a.CastleID, err = str[realm.CastleID](p, "castleid"); err != nil {
		return Action{}, err
	}
	if a.FromCastleID, err = str[realm.CastleID](p, "fromcastleid"); err != nil {
		return Action{}, err
	}
	if a.TargetCastleID, err = str[realm.CastleID](p, "targetcastleid"); err != nil {
		return Action{}, err
	}
	if a.TargetClanID, err = str[realm.ClanID](p, "targetclanid"); err != nil {
		return Action{}, err
	}
	if a.TargetCharacterID, err = str[realm.CharacterID](p, "targetcharacterid", "targetbushoid"); err != nil {
		return Action{}, err
	}

	switch kind {
	case DevelopAgriculture, DevelopCommerce, Fortify:
		a.Investment, err = p.num("investment", DefaultInvestment)
	case RecruitSoldiers:
		a.Count, err = p.num("count", DefaultRecruitCount)
	case Attack:
		a.Count, err = p.num("soldiercount", 0)
	case SendGift:
		a.Gold, err = p.num("goldamount", DefaultGift)
	case Bribe:
		a.Gold, err = p.num("goldamount", DefaultBribe)
	case ProposeAlliance:
		a.Duration, err = p.num("duration", DefaultAllianceDuration)
	case Delegate:
		var raw string
		raw, err = str[string](p, "policy")
		if err == nil {
			a.Policy, err = realm.ParsePolicy(raw)
			if err != nil {
				err = fmt.Errorf("%w: %v", ErrInvalidParams, err)
			}
		}
	}
	if err != nil {
		return Action{}, err
	}
	return a, nil
}

type bag map[string]any

func str[T ~string](p bag, keys ...string) (T, error) {
	for _, k := range keys {
		v, ok := p[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			return T(t), nil
		case fmt.Stringer:
			return T(t.String()), nil
		default:
			return "", fmt.Errorf("%w: %s must be a string", ErrInvalidParams, k)
		}
	}
	return "", nil
}

func (p bag) num(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return def, nil
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("%w: %s must be a whole number", ErrInvalidParams, key)
		}
		return int(t), nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidParams, key, err)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidParams, key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidParams, key)
	}
}
