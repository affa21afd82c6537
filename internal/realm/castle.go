package realm

import (
	"errors"
	"fmt"
	"slices"
)

// CastleID is a stable castle identifier.
type CastleID string

// DelegationPolicy is the standing order a castellan follows each turn.
type DelegationPolicy string

const (
	PolicyNone        DelegationPolicy = "none"
	PolicyAgriculture DelegationPolicy = "agriculture"
	PolicyCommerce    DelegationPolicy = "commerce"
	PolicyMilitary    DelegationPolicy = "military"
	PolicyDefense     DelegationPolicy = "defense"
	PolicyBalanced    DelegationPolicy = "balanced"
)

// ErrUnknownPolicy is returned for an unrecognized delegation policy.
var ErrUnknownPolicy = errors.New("unknown delegation policy")

// Policies lists every delegation policy.
var Policies = []DelegationPolicy{
	PolicyNone, PolicyAgriculture, PolicyCommerce, PolicyMilitary, PolicyDefense, PolicyBalanced,
}

// ParsePolicy validates a policy name. The empty string means none.
func ParsePolicy(s string) (DelegationPolicy, error) {
	if s == "" {
		return PolicyNone, nil
	}
	p := DelegationPolicy(s)
	if !slices.Contains(Policies, p) {
		return PolicyNone, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
	return p, nil
}

// Castle is a fortified holding. Bounded scores stay within 0–100.
type Castle struct {
	ID          CastleID         `json:"id"`
	Name        string           `json:"name"`
	OwnerID     ClanID           `json:"owner_id"`
	CastellanID CharacterID      `json:"castellan_id,omitempty"`
	Soldiers    int              `json:"soldiers"`
	Defense     int              `json:"defense"`
	Agriculture int              `json:"agriculture"`
	Commerce    int              `json:"commerce"`
	Loyalty     int              `json:"loyalty"`
	Policy      DelegationPolicy `json:"policy"`
	Adjacent    []CastleID       `json:"adjacent"`
}

// IsAdjacent reports whether other is a neighbour of c.
func (c *Castle) IsAdjacent(other CastleID) bool {
	return slices.Contains(c.Adjacent, other)
}

// DefensePower is the garrison strength scaled by fortification.
func (c *Castle) DefensePower() float64 {
	return float64(c.Soldiers) * (1 + float64(c.Defense)/100)
}

func (c *Castle) clone() *Castle {
	cp := *c
	cp.Adjacent = slices.Clone(c.Adjacent)
	return &cp
}

// ClampScore bounds v to the 0–100 score range.
func ClampScore(v int) int {
	return min(100, max(0, v))
}
