package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/sengoku/internal/realm"
)

func TestDefault(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)
	require.NoError(t, s.Check())

	assert.Equal(t, 1, s.Turn)
	assert.Equal(t, realm.ClanID("oda"), s.PlayerClanID)
	assert.Len(t, s.Clans, 3)
	assert.Len(t, s.Castles, 9)
	assert.Equal(t, []realm.CastleID{"narumi", "okazaki", "yoshida", "hikuma", "sunpu"}, s.Clans["imagawa"].CastleIDs)
	assert.Equal(t, realm.Hostile, s.RelationType("oda", "imagawa"))
	assert.Equal(t, realm.Neutral, s.RelationType("imagawa", "saito"))

	motoyasu := s.Characters["motoyasu"]
	require.NotNil(t, motoyasu.Defection)
	assert.Equal(t, realm.DefectIndependence, motoyasu.Defection.Kind)
	assert.Equal(t, realm.ClanID("tokugawa"), motoyasu.Defection.ClanID)
	assert.Equal(t, realm.Alliance, motoyasu.Defection.Relations["oda"])
	assert.Equal(t, realm.CharacterID("motoyasu"), s.Castles["okazaki"].CastellanID)
	assert.Equal(t, []realm.CharacterID{"motoyasu"}, s.Factions["mikawa-retainers"].MemberIDs)
}

func TestBuiltins(t *testing.T) {
	assert.Contains(t, Builtins(), DefaultName)
	_, err := Builtin("sekigahara")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestMarshalRoundTrip(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	first, err := Marshal("okehazama", s)
	require.NoError(t, err)
	back, err := Parse(first)
	require.NoError(t, err)
	second, err := Marshal("okehazama", back)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, s.Characters, back.Characters)
	assert.Equal(t, s.Relations, back.Relations)
	assert.ElementsMatch(t, s.Clans["imagawa"].CastleIDs, back.Clans["imagawa"].CastleIDs)
}

func TestLoad(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)
	data, err := Marshal("copy", s)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "copy.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Castles, 9)

	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

const minimal = `
name: test
player_clan: a
clans:
  - {id: a, name: A, leader: la, gold: 100, food: 100}
  - {id: b, name: B, leader: lb, gold: 100, food: 100}
castles:
  - {id: x, name: X, owner: a, castellan: la, soldiers: 10, defense: 10, agriculture: 10, commerce: 10, loyalty: 10, adjacent: [y]}
  - {id: y, name: Y, owner: b, castellan: lb, soldiers: 10, defense: 10, agriculture: 10, commerce: 10, loyalty: 10, adjacent: [x]}
characters:
  - {id: la, name: LA, clan: a, abilities: {politics: 1, warfare: 1, intelligence: 1, charisma: 1}, emotions: {loyalty: 100}}
  - {id: lb, name: LB, clan: b, abilities: {politics: 1, warfare: 1, intelligence: 1, charisma: 1}, emotions: {loyalty: 100}}
`

func TestParseMinimal(t *testing.T) {
	s, err := Parse([]byte(minimal))
	require.NoError(t, err)
	assert.Equal(t, []realm.CastleID{"x"}, s.Clans["a"].CastleIDs)
	assert.Empty(t, s.Relations)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		integrity bool
	}{
		{"unknown key", minimal + "weather: rain\n", false},
		{"bad relation", minimal + "relations:\n  - {a: a, b: b, type: vassal}\n", false},
		{"self relation", minimal + "relations:\n  - {a: a, b: a, type: hostile}\n", false},
		{"missing player clan", "name: t\nplayer_clan: z\nclans: []\ncastles: []\ncharacters: []\n", false},
		{"duplicate character", minimal + "  - {id: la, name: Again, abilities: {politics: 1, warfare: 1, intelligence: 1, charisma: 1}, emotions: {loyalty: 1}}\n", false},
		{"bad defection", `
name: t
clans: []
castles: []
characters:
  - {id: c, name: C, abilities: {politics: 1, warfare: 1, intelligence: 1, charisma: 1}, emotions: {loyalty: 1}, defection: {kind: ronin}}
`, false},
		{"asymmetric adjacency", `
name: t
clans:
  - {id: a, name: A, gold: 1, food: 1}
castles:
  - {id: x, name: X, owner: a, soldiers: 1, defense: 1, agriculture: 1, commerce: 1, loyalty: 1, adjacent: [y]}
  - {id: y, name: Y, owner: a, soldiers: 1, defense: 1, agriculture: 1, commerce: 1, loyalty: 1, adjacent: []}
characters: []
`, true},
		{"score out of range", `
name: t
clans:
  - {id: a, name: A, gold: 1, food: 1}
castles:
  - {id: x, name: X, owner: a, soldiers: 1, defense: 150, agriculture: 1, commerce: 1, loyalty: 1}
characters: []
`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.ErrorIs(t, err, ErrInvalid)
			if tt.integrity {
				assert.ErrorIs(t, err, realm.ErrIntegrity)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 1560

	s, err := Generate(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Check())
	assert.Len(t, s.Clans, cfg.Clans)
	assert.Contains(t, s.Clans, s.PlayerClanID)

	for _, id := range s.ClanIDs() {
		c := s.Clans[id]
		assert.NotEmpty(t, c.CastleIDs, "clan %s", id)
		assert.Equal(t, id, s.Characters[c.LeaderID].ClanID)
		assert.Equal(t, c.LeaderID, s.Castles[c.CastleIDs[0]].CastellanID)
	}

	// Every castle is reachable from every other.
	start := s.CastleIDs()[0]
	seen := map[realm.CastleID]bool{start: true}
	queue := []realm.CastleID{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, adj := range s.Castles[id].Adjacent {
			if !seen[adj] {
				seen[adj] = true
				queue = append(queue, adj)
			}
		}
	}
	assert.Len(t, seen, len(s.Castles))

	again, err := Generate(cfg)
	require.NoError(t, err)
	a, err := Marshal("gen", s)
	require.NoError(t, err)
	b, err := Marshal("gen", again)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Clans = 1
	_, err := Generate(cfg)
	assert.ErrorIs(t, err, ErrInvalid)

	cfg = DefaultGenConfig()
	cfg.Seed = 5
	cfg.Map.Radius = 1
	_, err = Generate(cfg)
	assert.ErrorIs(t, err, ErrInvalid)
}
