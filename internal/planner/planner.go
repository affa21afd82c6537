// Package planner is the rule-based opponent. It reads a state copy and
// proposes commands; the engine decides what actually happens.
package planner

import (
	"math"
	"slices"

	"github.com/talgya/sengoku/internal/command"
	"github.com/talgya/sengoku/internal/engine"
	"github.com/talgya/sengoku/internal/realm"
)

// Thresholds tune the rules.
type Thresholds struct {
	MinSoldiersForRecruit int     `yaml:"min_soldiers_for_recruit"` // recruit below this garrison
	MinGoldForRecruit     int     `yaml:"min_gold_for_recruit"`
	MaxRecruit            int     `yaml:"max_recruit"`
	MinGoldForDevelop     int     `yaml:"min_gold_for_develop"`
	MinSoldiersForAttack  int     `yaml:"min_soldiers_for_attack"`
	AttackShare           float64 `yaml:"attack_share"` // share of the garrison sent out
	PowerRatioForAttack   float64 `yaml:"power_ratio_for_attack"`
	GiftReserve           int     `yaml:"gift_reserve"` // gold kept back before gifting
	MaxActions            int     `yaml:"max_actions"`
}

// DefaultThresholds returns the stock opponent.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinSoldiersForRecruit: 500,
		MinGoldForRecruit:     300,
		MaxRecruit:            500,
		MinGoldForDevelop:     1000,
		MinSoldiersForAttack:  3000,
		AttackShare:           0.7,
		PowerRatioForAttack:   1.2,
		GiftReserve:           1000,
		MaxActions:            3,
	}
}

// Rules plans with fixed thresholds.
type Rules struct {
	T Thresholds
}

var _ engine.Planner = (*Rules)(nil)

// New returns a planner with the default thresholds.
func New() *Rules {
	return &Rules{T: DefaultThresholds()}
}

// Plan proposes at most MaxActions commands for clan in priority order:
// attack, recruit, develop, gift.
func (r *Rules) Plan(s *realm.State, clanID realm.ClanID) []command.Action {
	clan, ok := s.Clans[clanID]
	if !ok || len(clan.CastleIDs) == 0 {
		return nil
	}
	p := &plan{s: s, clan: clan, gold: clan.Gold, max: r.T.MaxActions}
	if p.max <= 0 {
		p.max = DefaultThresholds().MaxActions
	}

	r.attack(p)
	r.recruit(p)
	r.develop(p)
	r.gift(p)
	return p.actions
}

type plan struct {
	s       *realm.State
	clan    *realm.Clan
	gold    int // treasury left after earlier planned spending
	max     int
	actions []command.Action
}

func (p *plan) full() bool { return len(p.actions) >= p.max }

func (p *plan) add(a command.Action, cost int) {
	p.actions = append(p.actions, a)
	p.gold -= cost
}

func (p *plan) castles() []*realm.Castle {
	ids := slices.Clone(p.clan.CastleIDs)
	slices.Sort(ids)
	out := make([]*realm.Castle, 0, len(ids))
	for _, id := range ids {
		if c, ok := p.s.Castles[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// attack launches one assault from a strong castle against the weakest
// adjacent enemy it clearly overpowers. Allies and truce partners are spared.
func (r *Rules) attack(p *plan) {
	for _, from := range p.castles() {
		if p.full() {
			return
		}
		if from.Soldiers < r.T.MinSoldiersForAttack {
			continue
		}
		force := int(math.Floor(float64(from.Soldiers) * r.T.AttackShare))

		var best *realm.Castle
		for _, id := range from.Adjacent {
			target, ok := p.s.Castles[id]
			if !ok || target.OwnerID == p.clan.ID || r.spared(p.s, p.clan.ID, target.OwnerID) {
				continue
			}
			if float64(force) < target.DefensePower()*r.T.PowerRatioForAttack {
				continue
			}
			if best == nil || target.DefensePower() < best.DefensePower() ||
				(target.DefensePower() == best.DefensePower() && target.ID < best.ID) {
				best = target
			}
		}
		if best != nil {
			p.add(command.Action{
				Kind:           command.Attack,
				FromCastleID:   from.ID,
				TargetCastleID: best.ID,
				Count:          force,
			}, 0)
			return
		}
	}
}

func (r *Rules) spared(s *realm.State, clan, other realm.ClanID) bool {
	rel := s.RelationBetween(clan, other)
	if rel == nil || !rel.Active(s.Turn) {
		return false
	}
	return rel.Type == realm.Alliance || rel.Type == realm.Truce
}

// recruit tops up thin garrisons, spending at most a third of the treasury.
func (r *Rules) recruit(p *plan) {
	for _, c := range p.castles() {
		if p.full() {
			return
		}
		if c.Soldiers >= r.T.MinSoldiersForRecruit || p.gold < r.T.MinGoldForRecruit {
			continue
		}
		count := min(r.T.MaxRecruit, p.gold/3/2)
		if count <= 0 {
			continue
		}
		p.add(command.Action{Kind: command.RecruitSoldiers, CastleID: c.ID, Count: count}, count*2)
	}
}

// develop raises the weaker of agriculture and commerce in the least
// developed castle.
func (r *Rules) develop(p *plan) {
	if p.full() || p.gold < r.T.MinGoldForDevelop {
		return
	}
	var target *realm.Castle
	for _, c := range p.castles() {
		if c.Agriculture >= 100 && c.Commerce >= 100 {
			continue
		}
		if target == nil || c.Agriculture+c.Commerce < target.Agriculture+target.Commerce {
			target = c
		}
	}
	if target == nil {
		return
	}
	kind := command.DevelopAgriculture
	if target.Commerce < target.Agriculture {
		kind = command.DevelopCommerce
	}
	p.add(command.Action{Kind: kind, CastleID: target.ID, Investment: command.DefaultInvestment}, command.DefaultInvestment)
}

// gift courts the first hostile clan when the treasury allows.
// A ruthless leader never courts.
func (r *Rules) gift(p *plan) {
	if p.full() || p.gold < r.T.GiftReserve+command.DefaultGift {
		return
	}
	if leader, ok := p.s.Characters[p.clan.LeaderID]; ok && leader.HasTrait(realm.Ruthless) {
		return
	}
	for _, id := range p.s.ClanIDs() {
		if id == p.clan.ID || p.s.RelationType(p.clan.ID, id) != realm.Hostile {
			continue
		}
		p.add(command.Action{Kind: command.SendGift, TargetClanID: id, Gold: command.DefaultGift}, command.DefaultGift)
		return
	}
}
