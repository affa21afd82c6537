package scenario

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/talgya/sengoku/internal/realm"
	"github.com/talgya/sengoku/internal/world"
)

// GenConfig holds scenario generation parameters.
type GenConfig struct {
	Seed           int64           `yaml:"seed"` // 0 = random
	Clans          int             `yaml:"clans"`
	CastlesPerClan int             `yaml:"castles_per_clan"`
	MinSpacing     int             `yaml:"min_spacing"` // minimum hex distance between castles
	LinkRadius     int             `yaml:"link_radius"` // castles this close are adjacent
	Gold           int             `yaml:"gold"`
	Food           int             `yaml:"food"`
	Map            world.GenConfig `yaml:"map"`
}

// DefaultGenConfig returns a four-clan, twelve-castle setup.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Clans:          4,
		CastlesPerClan: 3,
		MinSpacing:     3,
		LinkRadius:     5,
		Gold:           5000,
		Food:           5000,
		Map:            world.DefaultGenConfig(),
	}
}

var clanNames = []string{
	"Oda", "Takeda", "Uesugi", "Mori", "Hojo", "Shimazu",
	"Date", "Chosokabe", "Otomo", "Asakura", "Azai", "Miyoshi",
}

var givenNames = []string{
	"Nobumasa", "Katsuyori", "Kagetora", "Motonari", "Ujiyasu", "Yoshihisa",
	"Terumune", "Motochika", "Sorin", "Yoshikage", "Nagamasa", "Nagayoshi",
	"Masayuki", "Toshiie", "Kazumasu", "Naoie", "Hidenaga", "Tadakatsu",
	"Yasumasa", "Masanobu", "Kanetsugu", "Takakage", "Motoharu", "Tsunamoto",
}

var traits = []realm.PersonalityTag{
	realm.Authoritarian, realm.Pragmatic, realm.Honorable, realm.Suspicious,
	realm.Ambitious, realm.Conservative, realm.Innovative, realm.Ruthless, realm.Merciful,
}

// Generate builds a fresh state on simplex terrain. Castles are dealt to
// clans round-robin in order of site quality, so every clan's first castle
// is among the best; that castle's castellan leads the clan.
func Generate(cfg GenConfig) (*realm.State, error) {
	if cfg.Clans < 2 || cfg.Clans > len(clanNames) {
		return nil, fmt.Errorf("%w: clans must be between 2 and %d, got %d", ErrInvalid, len(clanNames), cfg.Clans)
	}
	if cfg.CastlesPerClan < 1 {
		return nil, fmt.Errorf("%w: castles per clan must be positive", ErrInvalid)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed + 300))

	mapCfg := cfg.Map
	mapCfg.Seed = seed
	m := world.Generate(mapCfg)
	sites := world.PlaceCastles(m, cfg.Clans*cfg.CastlesPerClan, cfg.MinSpacing, seed)
	if len(sites) < cfg.Clans {
		return nil, fmt.Errorf("%w: map radius %d fits only %d castles for %d clans",
			ErrInvalid, mapCfg.Radius, len(sites), cfg.Clans)
	}

	s := realm.NewState()
	order := rng.Perm(len(clanNames))[:cfg.Clans]
	clans := make([]*realm.Clan, cfg.Clans)
	for i, n := range order {
		name := clanNames[n]
		c := &realm.Clan{ID: realm.ClanID(strings.ToLower(name)), Name: name, Gold: cfg.Gold, Food: cfg.Food}
		clans[i] = c
		s.Clans[c.ID] = c
	}
	s.PlayerClanID = clans[0].ID

	ids := make([]realm.CastleID, len(sites))
	for i, site := range sites {
		ids[i] = realm.CastleID(strings.ToLower(site.Name))
	}

	usedNames := make(map[string]bool)
	for i, site := range sites {
		clan := clans[i%len(clans)]
		capital := i < len(clans)

		castellan := newCharacter(rng, clan, usedNames, capital)
		s.Characters[castellan.ID] = castellan
		if capital {
			clan.LeaderID = castellan.ID
		}

		soldiers := 800 + rng.Intn(13)*100
		if capital {
			soldiers += 1000
		}
		castle := &realm.Castle{
			ID:          ids[i],
			Name:        site.Name,
			OwnerID:     clan.ID,
			CastellanID: castellan.ID,
			Soldiers:    soldiers,
			Defense:     site.Defense,
			Agriculture: site.Agriculture,
			Commerce:    site.Commerce,
			Loyalty:     60 + rng.Intn(21),
			Policy:      realm.PolicyNone,
		}
		s.Castles[castle.ID] = castle
		clan.CastleIDs = append(clan.CastleIDs, castle.ID)
	}

	for _, link := range world.Link(sites, cfg.LinkRadius) {
		a, b := s.Castles[ids[link[0]]], s.Castles[ids[link[1]]]
		a.Adjacent = append(a.Adjacent, b.ID)
		b.Adjacent = append(b.Adjacent, a.ID)
	}

	if err := s.Check(); err != nil {
		return nil, fmt.Errorf("%w: generated state: %w", ErrInvalid, err)
	}
	slog.Debug("scenario generated",
		"seed", seed,
		"hexes", m.HexCount(),
		"castles", len(s.Castles),
		"clans", len(s.Clans),
	)
	return s, nil
}

func newCharacter(rng *rand.Rand, clan *realm.Clan, used map[string]bool, leader bool) *realm.Character {
	var given string
	for {
		given = givenNames[rng.Intn(len(givenNames))]
		if !used[string(clan.ID)+"/"+given] {
			break
		}
		if len(used) >= len(givenNames)*len(clanNames) {
			given = fmt.Sprintf("%s %d", given, len(used))
			break
		}
	}
	used[string(clan.ID)+"/"+given] = true

	ability := func() int { return 40 + rng.Intn(56) }
	c := &realm.Character{
		ID:   realm.CharacterID(string(clan.ID) + "-" + strings.ToLower(strings.ReplaceAll(given, " ", "-"))),
		Name: clan.Name + " " + given,
		Abilities: realm.Abilities{
			Politics:     ability(),
			Warfare:      ability(),
			Intelligence: ability(),
			Charisma:     ability(),
		},
		Personality: []realm.PersonalityTag{traits[rng.Intn(len(traits))]},
		Emotions:    realm.Emotions{Loyalty: 60 + rng.Intn(31), Respect: 40 + rng.Intn(41)},
		ClanID:      clan.ID,
	}
	if leader {
		c.Emotions.Loyalty = 100
	}
	return c
}
