package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/sengoku/internal/entropy"
	"github.com/talgya/sengoku/internal/grade"
	"github.com/talgya/sengoku/internal/realm"
	"github.com/talgya/sengoku/internal/realm/realmtest"
)

// Draws that land on each grade of an unconditional roll.
const (
	drawCritFail = 0.0
	drawFail     = 0.1
	drawSuccess  = 0.5
	drawCrit     = 0.9
)

func env(draws ...float64) Env {
	return Env{Source: entropy.NewSequence(draws...), NewID: func() string { return "id-1" }}
}

func run(t *testing.T, s *realm.State, clan realm.ClanID, a Action, e Env) Outcome {
	t.Helper()
	out, err := Execute(s, clan, a, e)
	require.NoError(t, err)
	require.NotNil(t, out.State)
	require.NoError(t, out.State.Check())
	return out
}

func TestExecuteNeverMutatesInput(t *testing.T) {
	s := realmtest.Fixture()
	before := s.Clone()
	out := run(t, s, "oda", Action{Kind: DevelopAgriculture, CastleID: "kiyosu", Investment: 500}, env(drawSuccess))
	assert.Equal(t, before, s)
	assert.Equal(t, 60, out.State.Castles["kiyosu"].Agriculture)
}

func TestDevelop(t *testing.T) {
	tests := []struct {
		name      string
		kind      Kind
		draw      float64
		start     int
		want      int
		wantGrade grade.Grade
		success   bool
	}{
		{"critical success", DevelopAgriculture, drawCrit, 50, 65, grade.CriticalSuccess, true},
		{"critical success capped", DevelopAgriculture, drawCrit, 95, 100, grade.CriticalSuccess, true},
		{"plain failure", DevelopCommerce, drawFail, 50, 55, grade.Failure, false},
		{"critical failure", DevelopCommerce, drawCritFail, 50, 50, grade.CriticalFailure, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := realmtest.Fixture()
			s.Castles["kiyosu"].Agriculture = tt.start
			s.Castles["kiyosu"].Commerce = tt.start

			out := run(t, s, "oda", Action{Kind: tt.kind, CastleID: "kiyosu", Investment: 500}, env(tt.draw))
			k := out.State.Castles["kiyosu"]
			if tt.kind == DevelopAgriculture {
				assert.Equal(t, tt.want, k.Agriculture)
			} else {
				assert.Equal(t, tt.want, k.Commerce)
			}
			// Investment is spent whatever the grade.
			assert.Equal(t, 4500, out.State.Clans["oda"].Gold)
			assert.Equal(t, tt.wantGrade, out.Result.Grade)
			assert.Equal(t, tt.success, out.Result.Success)
		})
	}
}

func TestFortify(t *testing.T) {
	s := realmtest.Fixture()
	out := run(t, s, "oda", Action{Kind: Fortify, CastleID: "kiyosu", Investment: 1000}, env(drawSuccess))
	assert.Equal(t, 50, out.State.Castles["kiyosu"].Defense)
	assert.Equal(t, 4000, out.State.Clans["oda"].Gold)
}

func TestRecruit(t *testing.T) {
	s := realmtest.Fixture()
	out := run(t, s, "oda", Action{Kind: RecruitSoldiers, CastleID: "kiyosu", Count: 100}, env(drawSuccess, 0.0))
	k := out.State.Castles["kiyosu"]
	assert.Equal(t, 1100, k.Soldiers)
	assert.Equal(t, 65, k.Loyalty)
	assert.Equal(t, 4800, out.State.Clans["oda"].Gold)

	// Loyalty falls even on a critical failure.
	out = run(t, s, "oda", Action{Kind: RecruitSoldiers, CastleID: "kiyosu", Count: 100}, env(drawCritFail, 0.999))
	assert.Equal(t, 1000, out.State.Castles["kiyosu"].Soldiers)
	assert.Equal(t, 61, out.State.Castles["kiyosu"].Loyalty)
}

func TestAttackTakesCastle(t *testing.T) {
	s := realmtest.Fixture()
	s.Castles["kiyosu"].Soldiers = 900
	okazaki := s.Castles["okazaki"]
	okazaki.Soldiers = 100
	okazaki.Defense = 0

	out := run(t, s, "oda", Action{Kind: Attack, FromCastleID: "kiyosu", TargetCastleID: "okazaki", Count: 900}, env(drawSuccess))

	taken := out.State.Castles["okazaki"]
	assert.True(t, out.Result.Success)
	assert.Equal(t, realm.ClanID("oda"), taken.OwnerID)
	assert.Equal(t, 630, taken.Soldiers)
	assert.Empty(t, taken.CastellanID)
	assert.Equal(t, 30, taken.Loyalty)
	assert.Equal(t, 0, out.State.Castles["kiyosu"].Soldiers)
	assert.ElementsMatch(t, []realm.CastleID{"kiyosu", "okazaki"}, out.State.Clans["oda"].CastleIDs)
	assert.Equal(t, []realm.CastleID{"sunpu"}, out.State.Clans["imagawa"].CastleIDs)

	require.Len(t, out.State.Grudges, 1)
	g := out.State.Grudges[0]
	assert.Equal(t, realm.EventTerritoryLoss, g.Kind)
	assert.Equal(t, "imagawa", g.TargetID)
	assert.Equal(t, realm.EmotionImpact{Loyalty: -10, Discontent: 20}, g.Impact)
}

func TestAttackRepelled(t *testing.T) {
	s := realmtest.Fixture() // okazaki: 800 soldiers, defense 50 -> 1200 power
	out := run(t, s, "oda", Action{Kind: Attack, FromCastleID: "kiyosu", TargetCastleID: "okazaki", Count: 900}, env(drawSuccess))

	assert.False(t, out.Result.Success)
	assert.Equal(t, grade.Failure, out.Result.Grade)
	assert.Equal(t, realm.ClanID("imagawa"), out.State.Castles["okazaki"].OwnerID)
	assert.Equal(t, 280, out.State.Castles["kiyosu"].Soldiers) // 100 stayed + 180 survivors
	assert.Equal(t, 560, out.State.Castles["okazaki"].Soldiers)
}

func TestAttackRepelledKeepsGarrisonFloor(t *testing.T) {
	tests := []struct {
		name string
		draw float64
		want grade.Grade
	}{
		{"success roll", drawSuccess, grade.Failure},
		{"critical failure roll", drawCritFail, grade.CriticalFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := realmtest.Fixture()
			okazaki := s.Castles["okazaki"]
			okazaki.Soldiers = 90
			okazaki.Defense = 100

			out := run(t, s, "oda", Action{Kind: Attack, FromCastleID: "kiyosu", TargetCastleID: "okazaki", Count: 100}, env(tt.draw))
			assert.False(t, out.Result.Success)
			assert.Equal(t, tt.want, out.Result.Grade)
			assert.Equal(t, 100, out.State.Castles["okazaki"].Soldiers)
			assert.Contains(t, out.Result.Changes, "castle:okazaki.soldiers 90->100")
		})
	}
}

func TestCriticalAttackMultiplier(t *testing.T) {
	s := realmtest.Fixture()
	okazaki := s.Castles["okazaki"]
	okazaki.Soldiers = 500
	okazaki.Defense = 0

	// 400 soldiers at 1.5 beat a 500-strong garrison.
	out := run(t, s, "oda", Action{Kind: Attack, FromCastleID: "kiyosu", TargetCastleID: "okazaki", Count: 400}, env(drawCrit))
	assert.True(t, out.Result.Success)
	assert.Equal(t, 280, out.State.Castles["okazaki"].Soldiers)
}

func TestRejectionsLeaveStateUntouched(t *testing.T) {
	tests := []struct {
		name   string
		clan   realm.ClanID
		action Action
		want   error
	}{
		{"non-adjacent attack", "oda", Action{Kind: Attack, FromCastleID: "kiyosu", TargetCastleID: "sunpu", Count: 100}, ErrNotAdjacent},
		{"attack own castle", "imagawa", Action{Kind: Attack, FromCastleID: "okazaki", TargetCastleID: "sunpu", Count: 100}, ErrSelfTarget},
		{"attack from foreign castle", "oda", Action{Kind: Attack, FromCastleID: "okazaki", TargetCastleID: "kiyosu", Count: 100}, ErrNotOwner},
		{"attack too many", "oda", Action{Kind: Attack, FromCastleID: "kiyosu", TargetCastleID: "okazaki", Count: 5000}, ErrInsufficientSoldiers},
		{"attack nobody", "oda", Action{Kind: Attack, FromCastleID: "kiyosu", TargetCastleID: "okazaki"}, ErrInvalidParams},
		{"develop missing castle", "oda", Action{Kind: DevelopAgriculture, CastleID: "edo", Investment: 500}, ErrNotFound},
		{"develop too expensive", "oda", Action{Kind: DevelopCommerce, CastleID: "kiyosu", Investment: 9000}, ErrInsufficientGold},
		{"recruit foreign", "oda", Action{Kind: RecruitSoldiers, CastleID: "sunpu", Count: 100}, ErrNotOwner},
		{"unknown clan", "takeda", Action{Kind: Fortify, CastleID: "kiyosu", Investment: 100}, ErrNotFound},
		{"ally self", "oda", Action{Kind: ProposeAlliance, TargetClanID: "oda", Duration: 12}, ErrSelfTarget},
		{"gift missing clan", "oda", Action{Kind: SendGift, TargetClanID: "takeda", Gold: 300}, ErrNotFound},
		{"bribe leader", "oda", Action{Kind: Bribe, TargetCharacterID: "yoshimoto", Gold: 500}, ErrProtected},
		{"bribe own retainer", "oda", Action{Kind: Bribe, TargetCharacterID: "shibata", Gold: 500}, ErrSelfTarget},
		{"assassinate own retainer", "oda", Action{Kind: Assassinate, TargetCharacterID: "shibata"}, ErrSelfTarget},
		{"delegate bad policy", "oda", Action{Kind: Delegate, CastleID: "kiyosu", Policy: "plunder"}, ErrInvalidParams},
		{"unknown kind", "oda", Action{Kind: "spread_rumor"}, ErrUnknownAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := realmtest.Fixture()
			before := s.Clone()

			out, err := Execute(s, tt.clan, tt.action, env(drawSuccess))
			require.ErrorIs(t, err, tt.want)
			assert.True(t, IsRejection(err))
			assert.Nil(t, out.State)
			assert.False(t, out.Result.Success)
			assert.Equal(t, before, s)
		})
	}
}

func TestEndTurnDissolvesConqueredClan(t *testing.T) {
	s := realmtest.Fixture()
	inabayama := s.Castles["inabayama"]
	inabayama.Soldiers = 100
	inabayama.Defense = 0

	out := run(t, s, "oda", Action{Kind: Attack, FromCastleID: "kiyosu", TargetCastleID: "inabayama", Count: 900}, env(drawSuccess))
	assert.Empty(t, out.State.Clans["saito"].CastleIDs)

	end := run(t, out.State, "oda", Action{Kind: EndTurn}, env(drawSuccess))
	require.NotNil(t, end.Turn)
	assert.Equal(t, []realm.ClanID{"saito"}, end.Turn.Dissolved)
	assert.NotContains(t, end.State.Clans, realm.ClanID("saito"))
	assert.False(t, end.State.Characters["dosan"].Affiliated())
	assert.Equal(t, 2, end.State.Turn)
	assert.True(t, end.Result.Success)
}

func TestDelegate(t *testing.T) {
	s := realmtest.Fixture()
	out := run(t, s, "oda", Action{Kind: Delegate, CastleID: "kiyosu", Policy: realm.PolicyBalanced}, env())
	assert.Equal(t, realm.PolicyBalanced, out.State.Castles["kiyosu"].Policy)
	assert.Equal(t, grade.Success, out.Result.Grade)
	assert.Equal(t, 5000, out.State.Clans["oda"].Gold)
}
