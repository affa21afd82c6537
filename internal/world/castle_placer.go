// Castle placement: score every land hex, take the best sites subject to a
// minimum spacing, derive starting scores from the terrain around each site,
// and link sites that lie within marching range.
package world

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"
)

// CastleSite is a chosen castle location with its terrain-derived scores.
type CastleSite struct {
	Coord       HexCoord
	Terrain     Terrain
	Score       float64 // desirability
	Name        string
	Agriculture int
	Commerce    int
	Defense     int
}

// PlaceCastles picks up to count sites at least minDist apart, best first.
func PlaceCastles(m *Map, count, minDist int, seed int64) []CastleSite {
	rng := rand.New(rand.NewSource(seed + 200))

	type scored struct {
		coord HexCoord
		score float64
	}
	var candidates []scored
	for _, coord := range m.Coords() {
		if s := castleScore(m, coord); s > 0 {
			candidates = append(candidates, scored{coord, s})
		}
	}
	slices.SortStableFunc(candidates, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	var sites []CastleSite
	for _, c := range candidates {
		if len(sites) >= count {
			break
		}
		if tooClose(c.coord, sites, minDist) {
			continue
		}
		sites = append(sites, siteAt(m, c.coord, c.score))
	}

	names := generateNames(rng, len(sites))
	for i := range sites {
		sites[i].Name = names[i]
	}
	return sites
}

// castleScore prefers fertile, watered lowland with defensible high ground nearby.
func castleScore(m *Map, coord HexCoord) float64 {
	hex := m.Get(coord)
	score := 0.0
	switch hex.Terrain {
	case TerrainRiver:
		score = 3.5
	case TerrainPlains:
		score = 3.0
	case TerrainCoast:
		score = 3.0
	case TerrainHills:
		score = 2.5
	case TerrainForest:
		score = 1.5
	case TerrainSwamp:
		score = 0.5
	default:
		return 0
	}

	kinds := make(map[Terrain]bool)
	for _, nc := range coord.Neighbors() {
		nh := m.Get(nc)
		if nh == nil || nh.Terrain == TerrainOcean {
			continue
		}
		kinds[nh.Terrain] = true
		if nh.Terrain == TerrainHills || nh.Terrain == TerrainMountain {
			score += 0.25
		}
	}
	score += float64(len(kinds)) * 0.3
	return score
}

func siteAt(m *Map, coord HexCoord, score float64) CastleSite {
	hex := m.Get(coord)
	site := CastleSite{Coord: coord, Terrain: hex.Terrain, Score: score}

	agri := map[Terrain]int{TerrainPlains: 55, TerrainRiver: 60, TerrainCoast: 40, TerrainHills: 35, TerrainForest: 30, TerrainSwamp: 25}
	trade := map[Terrain]int{TerrainCoast: 60, TerrainRiver: 55, TerrainPlains: 40}

	site.Agriculture = agri[hex.Terrain] + int(hex.Rainfall*20)
	site.Commerce = cmp.Or(trade[hex.Terrain], 25)
	site.Defense = 30
	if hex.Terrain == TerrainHills {
		site.Defense = 60
	}
	for _, nc := range coord.Neighbors() {
		nh := m.Get(nc)
		if nh == nil {
			continue
		}
		switch nh.Terrain {
		case TerrainHills, TerrainMountain:
			site.Defense += 10
		case TerrainCoast, TerrainRiver:
			site.Commerce += 5
		}
	}
	site.Agriculture = min(max(site.Agriculture, 10), 90)
	site.Commerce = min(max(site.Commerce, 10), 90)
	site.Defense = min(site.Defense, 90)
	return site
}

func tooClose(coord HexCoord, existing []CastleSite, minDist int) bool {
	for _, s := range existing {
		if Distance(coord, s.Coord) < minDist {
			return true
		}
	}
	return false
}

// Link returns index pairs (i < j) of sites within radius of each other,
// plus the shortest extra links needed to make every site reachable.
func Link(sites []CastleSite, radius int) [][2]int {
	parent := make([]int, len(sites))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	join := func(i, j int) { parent[find(i)] = find(j) }

	var links [][2]int
	for i := range sites {
		for j := i + 1; j < len(sites); j++ {
			if Distance(sites[i].Coord, sites[j].Coord) <= radius {
				links = append(links, [2]int{i, j})
				join(i, j)
			}
		}
	}

	// Bridge separate groups with their closest pair until one group remains.
	for {
		best, bestDist := [2]int{-1, -1}, 0
		for i := range sites {
			for j := i + 1; j < len(sites); j++ {
				if find(i) == find(j) {
					continue
				}
				d := Distance(sites[i].Coord, sites[j].Coord)
				if best[0] < 0 || d < bestDist {
					best, bestDist = [2]int{i, j}, d
				}
			}
		}
		if best[0] < 0 {
			break
		}
		links = append(links, best)
		join(best[0], best[1])
	}

	slices.SortFunc(links, func(a, b [2]int) int {
		return cmp.Or(cmp.Compare(a[0], b[0]), cmp.Compare(a[1], b[1]))
	})
	return links
}

// generateNames produces castle names by combining syllables.
func generateNames(rng *rand.Rand, count int) []string {
	prefixes := []string{
		"Kiyo", "Oka", "Taka", "Matsu", "Naga", "Yoshi", "Kuro", "Shira",
		"Hama", "Iwa", "Kane", "Sawa", "Hoshi", "Yama", "Kawa", "Fuji",
		"Tsuru", "Mori", "Ishi", "Aka",
	}
	suffixes := []string{
		"su", "zaki", "yama", "shima", "hara", "saka", "numa", "ta",
		"gawa", "mine", "oka", "mura", "sato", "no", "tsu",
	}

	used := make(map[string]bool)
	names := make([]string, 0, count)
	for len(names) < count {
		name := prefixes[rng.Intn(len(prefixes))] + suffixes[rng.Intn(len(suffixes))]
		if len(used) >= len(prefixes)*len(suffixes) {
			name = fmt.Sprintf("%s%d", name, len(names))
		}
		if !used[name] {
			used[name] = true
			names = append(names, name)
		}
	}
	return names
}
