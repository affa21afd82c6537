package world

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b HexCoord
		want int
	}{
		{HexCoord{0, 0}, HexCoord{0, 0}, 0},
		{HexCoord{0, 0}, HexCoord{1, 0}, 1},
		{HexCoord{0, 0}, HexCoord{2, -1}, 2},
		{HexCoord{-2, 3}, HexCoord{1, -1}, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Distance(tt.a, tt.b))
		assert.Equal(t, tt.want, Distance(tt.b, tt.a))
	}
	for _, n := range (HexCoord{3, -1}).Neighbors() {
		assert.Equal(t, 1, Distance(HexCoord{3, -1}, n))
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 7

	a, b := Generate(cfg), Generate(cfg)
	require.Equal(t, a.HexCount(), b.HexCount())
	for _, c := range a.Coords() {
		assert.Equal(t, a.Get(c), b.Get(c))
	}
	// Radius R holds 3R(R+1)+1 hexes.
	assert.Equal(t, 3*12*13+1, a.HexCount())
}

func TestCornersAreOcean(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 11
	m := Generate(cfg)
	r := cfg.Radius
	for _, c := range []HexCoord{{r, 0}, {0, r}, {-r, 0}, {0, -r}, {r, -r}, {-r, r}} {
		require.NotNil(t, m.Get(c), "%v", c)
		assert.Equal(t, TerrainOcean, m.Get(c).Terrain, "%v", c)
	}
}

func TestPlaceCastles(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 3
	m := Generate(cfg)

	sites := PlaceCastles(m, 8, 3, cfg.Seed)
	require.NotEmpty(t, sites)
	assert.LessOrEqual(t, len(sites), 8)

	names := map[string]bool{}
	for i, s := range sites {
		assert.NotEqual(t, TerrainOcean, s.Terrain)
		assert.NotEqual(t, TerrainMountain, s.Terrain)
		assert.False(t, names[s.Name], "duplicate name %s", s.Name)
		names[s.Name] = true
		for _, v := range []int{s.Agriculture, s.Commerce, s.Defense} {
			assert.GreaterOrEqual(t, v, 10)
			assert.LessOrEqual(t, v, 90)
		}
		for j := range i {
			assert.GreaterOrEqual(t, Distance(s.Coord, sites[j].Coord), 3)
		}
		if i > 0 {
			assert.LessOrEqual(t, s.Score, sites[i-1].Score)
		}
	}
	assert.Equal(t, sites, PlaceCastles(m, 8, 3, cfg.Seed))
}

func TestLinkConnectsEverySite(t *testing.T) {
	sites := []CastleSite{
		{Coord: HexCoord{0, 0}},
		{Coord: HexCoord{2, 0}},
		{Coord: HexCoord{4, 0}},
		{Coord: HexCoord{10, 0}}, // far away, bridged to its nearest
	}
	links := Link(sites, 2)
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}, {2, 3}}, links)
}

func TestGenerateNamesBeyondSyllables(t *testing.T) {
	names := generateNames(newRand(1), 400)
	seen := map[string]bool{}
	for _, n := range names {
		assert.False(t, seen[n])
		seen[n] = true
	}
}

func newRand(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }
