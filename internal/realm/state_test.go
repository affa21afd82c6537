package realm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/sengoku/internal/realm"
	"github.com/talgya/sengoku/internal/realm/realmtest"
)

func TestFixtureIsConsistent(t *testing.T) {
	require.NoError(t, realmtest.Fixture().Check())
}

func TestCloneSharesNothing(t *testing.T) {
	s := realmtest.Fixture()
	s.SetRelation("oda", "saito", realm.Hostile, 0)
	s.Characters["motoyasu"].Defection = &realm.DefectionTrigger{
		Kind: realm.DefectIndependence, Relations: map[realm.ClanID]realm.RelationType{"oda": realm.Alliance},
	}
	s.AppendLetter(realm.Letter{ID: "l1", Terms: &realm.ProposedTerms{Gold: 100}})

	cp := s.Clone()
	require.Equal(t, s, cp)

	cp.Castles["kiyosu"].Adjacent[0] = "sunpu"
	cp.Clans["oda"].CastleIDs = append(cp.Clans["oda"].CastleIDs, "sunpu")
	cp.Characters["nobunaga"].Personality[0] = realm.Merciful
	cp.Characters["motoyasu"].Defection.Relations["oda"] = realm.Hostile
	cp.Relations[0].Type = realm.Alliance
	cp.Letters[0].Terms.Gold = 0
	cp.Factions["imagawa-elders"].MemberIDs[0] = "x"

	assert.Equal(t, realm.CastleID("okazaki"), s.Castles["kiyosu"].Adjacent[0])
	assert.Len(t, s.Clans["oda"].CastleIDs, 1)
	assert.Equal(t, realm.Ambitious, s.Characters["nobunaga"].Personality[0])
	assert.Equal(t, realm.Alliance, s.Characters["motoyasu"].Defection.Relations["oda"])
	assert.Equal(t, realm.Hostile, s.Relations[0].Type)
	assert.Equal(t, 100, s.Letters[0].Terms.Gold)
	assert.Equal(t, realm.CharacterID("ujizane"), s.Factions["imagawa-elders"].MemberIDs[0])
}

func TestTransferCastleKeepsInverse(t *testing.T) {
	s := realmtest.Fixture()
	require.NoError(t, s.TransferCastle("okazaki", "oda"))

	assert.Equal(t, realm.ClanID("oda"), s.Castles["okazaki"].OwnerID)
	assert.ElementsMatch(t, []realm.CastleID{"kiyosu", "okazaki"}, s.Clans["oda"].CastleIDs)
	assert.Equal(t, []realm.CastleID{"sunpu"}, s.Clans["imagawa"].CastleIDs)
	assert.NoError(t, s.Check())

	assert.ErrorIs(t, s.TransferCastle("nowhere", "oda"), realm.ErrDangling)
	assert.ErrorIs(t, s.TransferCastle("kiyosu", "nobody"), realm.ErrDangling)
}

func TestRemoveCharacterSuccession(t *testing.T) {
	s := realmtest.Fixture()
	heir, err := s.RemoveCharacter("yoshimoto")
	require.NoError(t, err)

	// motoyasu outranks ujizane on charisma.
	assert.Equal(t, realm.CharacterID("motoyasu"), heir)
	assert.Equal(t, realm.CharacterID("motoyasu"), s.Clans["imagawa"].LeaderID)
	assert.Empty(t, s.Castles["sunpu"].CastellanID)
	assert.NotContains(t, s.Characters, realm.CharacterID("yoshimoto"))
	assert.NoError(t, s.Check())
}

func TestRemoveCharacterLeavesClanLeaderless(t *testing.T) {
	s := realmtest.Fixture()
	heir, err := s.RemoveCharacter("dosan")
	require.NoError(t, err)
	assert.Empty(t, heir)
	assert.Empty(t, s.Clans["saito"].LeaderID)
	assert.NoError(t, s.Check())
}

func TestDissolveClan(t *testing.T) {
	s := realmtest.Fixture()
	s.SetRelation("imagawa", "oda", realm.Hostile, 0)
	s.SetRelation("saito", "oda", realm.Alliance, 12)

	require.Error(t, s.DissolveClan("imagawa"), "clan still holds castles")

	require.NoError(t, s.TransferCastle("okazaki", "oda"))
	require.NoError(t, s.TransferCastle("sunpu", "oda"))
	s.Castles["sunpu"].CastellanID = ""
	s.Castles["okazaki"].CastellanID = ""
	require.NoError(t, s.DissolveClan("imagawa"))

	assert.NotContains(t, s.Clans, realm.ClanID("imagawa"))
	assert.Empty(t, s.Characters["yoshimoto"].ClanID)
	assert.Empty(t, s.Characters["ujizane"].FactionID)
	assert.NotContains(t, s.Factions, realm.FactionID("imagawa-elders"))
	require.Len(t, s.Relations, 1)
	assert.Equal(t, realm.Alliance, s.RelationType("oda", "saito"))
	assert.NoError(t, s.Check())
}

func TestRelations(t *testing.T) {
	s := realmtest.Fixture()
	assert.Equal(t, realm.Neutral, s.RelationType("oda", "saito"))

	s.SetRelation("saito", "oda", realm.Truce, 6)
	s.SetRelation("oda", "saito", realm.Hostile, 0)
	require.Len(t, s.Relations, 1)
	assert.Equal(t, realm.ClanID("oda"), s.Relations[0].A)
	assert.Equal(t, realm.Hostile, s.RelationType("saito", "oda"))

	s.SetRelation("oda", "oda", realm.Alliance, 0)
	assert.Len(t, s.Relations, 1)

	hostile, ok := s.HostileTo("saito")
	require.True(t, ok)
	assert.Equal(t, realm.ClanID("oda"), hostile)

	r := realm.Relation{Type: realm.Alliance, ExpiresTurn: 5}
	assert.True(t, r.Active(4))
	assert.False(t, r.Active(5))
}

func TestCheckReportsViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *realm.State)
	}{
		{"asymmetric adjacency", func(s *realm.State) {
			s.Castles["sunpu"].Adjacent = append(s.Castles["sunpu"].Adjacent, "kiyosu")
		}},
		{"owner not inverse", func(s *realm.State) { s.Castles["kiyosu"].OwnerID = "saito" }},
		{"negative gold", func(s *realm.State) { s.Clans["oda"].Gold = -1 }},
		{"score out of range", func(s *realm.State) { s.Castles["kiyosu"].Loyalty = 101 }},
		{"leader in other clan", func(s *realm.State) { s.Characters["dosan"].ClanID = "oda" }},
		{"dangling castellan", func(s *realm.State) { s.Castles["kiyosu"].CastellanID = "ghost" }},
		{"dangling affiliation", func(s *realm.State) { s.Characters["shibata"].ClanID = "takeda" }},
		{"bad policy", func(s *realm.State) { s.Castles["kiyosu"].Policy = "plunder" }},
		{"faction member elsewhere", func(s *realm.State) { s.Characters["ujizane"].FactionID = "" }},
		{"faction of another clan", func(s *realm.State) {
			s.Characters["ujizane"].ClanID = "oda"
		}},
		{"faction of missing clan", func(s *realm.State) { s.Factions["imagawa-elders"].ClanID = "takeda" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := realmtest.Fixture()
			tt.mutate(s)
			assert.ErrorIs(t, s.Check(), realm.ErrIntegrity)
		})
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := realm.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, realm.PolicyNone, p)

	p, err = realm.ParsePolicy("balanced")
	require.NoError(t, err)
	assert.Equal(t, realm.PolicyBalanced, p)

	_, err = realm.ParsePolicy("plunder")
	assert.ErrorIs(t, err, realm.ErrUnknownPolicy)
}
