// Terrain generation using layered simplex noise: an elevation and a
// rainfall field, continental falloff toward the rim, then coast and river
// post-passes.
package world

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds terrain generation parameters.
type GenConfig struct {
	Radius      int     `yaml:"radius"`
	Seed        int64   `yaml:"seed"` // 0 = random
	SeaLevel    float64 `yaml:"sea_level"`
	HillLvl     float64 `yaml:"hill_level"`
	MountainLvl float64 `yaml:"mountain_level"`
	Rivers      int     `yaml:"rivers"`
}

// DefaultGenConfig returns a province-sized map.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:      12,
		SeaLevel:    0.22,
		HillLvl:     0.55,
		MountainLvl: 0.72,
		Rivers:      4,
	}
}

// Generate creates a map with terrain.
func Generate(cfg GenConfig) *Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	elevNoise := opensimplex.NewNormalized(seed)
	rainNoise := opensimplex.NewNormalized(seed + 1)

	m := NewMap(cfg.Radius)
	for q := -cfg.Radius; q <= cfg.Radius; q++ {
		for r := -cfg.Radius; r <= cfg.Radius; r++ {
			coord := HexCoord{Q: q, R: r}
			if !m.InBounds(coord) {
				continue
			}

			// Hex axial -> cartesian: x = q + r*0.5, y = r * sqrt(3)/2
			x := float64(q) + float64(r)*0.5
			y := float64(r) * math.Sqrt(3.0) / 2.0

			elev := octaveNoise(elevNoise, x, y, 4, 0.1, 0.5)
			rain := octaveNoise(rainNoise, x, y, 3, 0.08, 0.5)

			// Continental shaping: the rim sinks into the sea.
			dist := math.Sqrt(x*x+y*y) / float64(max(cfg.Radius, 1))
			elev *= math.Max(0, 1.0-math.Pow(dist, 3.5))

			m.Set(&Hex{
				Coord:     coord,
				Terrain:   deriveTerrain(elev, rain, cfg),
				Elevation: elev,
				Rainfall:  rain,
			})
		}
	}

	markCoastalHexes(m)
	placeRivers(m, seed, cfg.Rivers)
	return m
}

func deriveTerrain(elev, rain float64, cfg GenConfig) Terrain {
	switch {
	case elev < cfg.SeaLevel:
		return TerrainOcean
	case elev > cfg.MountainLvl:
		return TerrainMountain
	case elev > cfg.HillLvl:
		return TerrainHills
	case rain > 0.7 && elev < 0.4:
		return TerrainSwamp
	case rain > 0.5:
		return TerrainForest
	}
	return TerrainPlains
}

// markCoastalHexes converts low land next to the sea into coast.
func markCoastalHexes(m *Map) {
	var toMark []HexCoord
	for _, coord := range m.Coords() {
		hex := m.Get(coord)
		if hex.Terrain != TerrainPlains && hex.Terrain != TerrainForest {
			continue
		}
		for _, n := range coord.Neighbors() {
			if nh := m.Get(n); nh != nil && nh.Terrain == TerrainOcean {
				toMark = append(toMark, coord)
				break
			}
		}
	}
	for _, coord := range toMark {
		m.Get(coord).Terrain = TerrainCoast
	}
}

// placeRivers traces n rivers downhill from randomly chosen highland hexes.
func placeRivers(m *Map, seed int64, n int) {
	rng := rand.New(rand.NewSource(seed + 100))

	var sources []HexCoord
	for _, coord := range m.Coords() {
		if h := m.Get(coord); h.Elevation > 0.6 && h.Terrain != TerrainOcean {
			sources = append(sources, coord)
		}
	}
	rng.Shuffle(len(sources), func(i, j int) {
		sources[i], sources[j] = sources[j], sources[i]
	})
	if len(sources) > n {
		sources = sources[:n]
	}
	for _, start := range sources {
		traceRiver(m, start)
	}
}

// traceRiver follows the steepest descent until it reaches the sea or a pit.
func traceRiver(m *Map, start HexCoord) {
	current := start
	visited := make(map[HexCoord]bool)

	for step := 0; step < 50; step++ {
		visited[current] = true
		hex := m.Get(current)
		if hex == nil || hex.Terrain == TerrainOcean {
			return
		}
		if hex.Terrain != TerrainMountain && hex.Terrain != TerrainCoast {
			hex.Terrain = TerrainRiver
		}

		next, found := current, false
		lowest := hex.Elevation
		for _, nc := range current.Neighbors() {
			nh := m.Get(nc)
			if nh == nil || visited[nc] {
				continue
			}
			if nh.Elevation < lowest {
				lowest, next, found = nh.Elevation, nc, true
			}
		}
		if !found {
			return
		}
		current = next
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// TerrainCounts returns a summary of terrain type distribution.
func TerrainCounts(m *Map) map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, hex := range m.Hexes {
		counts[hex.Terrain]++
	}
	return counts
}
