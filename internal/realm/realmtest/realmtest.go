// Package realmtest builds small, fully consistent states for tests.
package realmtest

import "github.com/talgya/sengoku/internal/realm"

// Fixture returns a four-castle, three-clan state:
//
//	inabayama(saito) - kiyosu(oda) - okazaki(imagawa) - sunpu(imagawa)
//
// Every clan starts with 5000 gold and 5000 food and no relations.
func Fixture() *realm.State {
	s := realm.NewState()
	s.PlayerClanID = "oda"

	chars := []*realm.Character{
		{ID: "nobunaga", Name: "Oda Nobunaga", ClanID: "oda",
			Abilities:   realm.Abilities{Politics: 90, Warfare: 90, Intelligence: 90, Charisma: 95},
			Personality: []realm.PersonalityTag{realm.Ambitious, realm.Innovative},
			Emotions:    realm.Emotions{Loyalty: 100, Respect: 80}},
		{ID: "shibata", Name: "Shibata Katsuie", ClanID: "oda",
			Abilities: realm.Abilities{Politics: 50, Warfare: 85, Intelligence: 50, Charisma: 60},
			Emotions:  realm.Emotions{Loyalty: 80, Respect: 70}},
		{ID: "yoshimoto", Name: "Imagawa Yoshimoto", ClanID: "imagawa",
			Abilities: realm.Abilities{Politics: 80, Warfare: 70, Intelligence: 75, Charisma: 80},
			Emotions:  realm.Emotions{Loyalty: 100, Respect: 60}},
		{ID: "motoyasu", Name: "Matsudaira Motoyasu", ClanID: "imagawa",
			Abilities:   realm.Abilities{Politics: 85, Warfare: 80, Intelligence: 85, Charisma: 85},
			Personality: []realm.PersonalityTag{realm.Pragmatic},
			Emotions:    realm.Emotions{Loyalty: 60, Respect: 50}},
		{ID: "ujizane", Name: "Imagawa Ujizane", ClanID: "imagawa",
			Abilities: realm.Abilities{Politics: 40, Warfare: 30, Intelligence: 40, Charisma: 30},
			Emotions:  realm.Emotions{Loyalty: 90}},
		{ID: "dosan", Name: "Saito Dosan", ClanID: "saito",
			Abilities:   realm.Abilities{Politics: 85, Warfare: 75, Intelligence: 90, Charisma: 60},
			Personality: []realm.PersonalityTag{realm.Ruthless},
			Emotions:    realm.Emotions{Loyalty: 100}},
	}
	for _, c := range chars {
		s.Characters[c.ID] = c
	}

	s.Clans["oda"] = &realm.Clan{ID: "oda", Name: "Oda", LeaderID: "nobunaga",
		Gold: 5000, Food: 5000, CastleIDs: []realm.CastleID{"kiyosu"}}
	s.Clans["imagawa"] = &realm.Clan{ID: "imagawa", Name: "Imagawa", LeaderID: "yoshimoto",
		Gold: 5000, Food: 5000, CastleIDs: []realm.CastleID{"sunpu", "okazaki"}}
	s.Clans["saito"] = &realm.Clan{ID: "saito", Name: "Saito", LeaderID: "dosan",
		Gold: 5000, Food: 5000, CastleIDs: []realm.CastleID{"inabayama"}}

	castles := []*realm.Castle{
		{ID: "kiyosu", Name: "Kiyosu", OwnerID: "oda", CastellanID: "shibata",
			Soldiers: 1000, Defense: 40, Agriculture: 50, Commerce: 50, Loyalty: 70,
			Policy: realm.PolicyNone, Adjacent: []realm.CastleID{"okazaki", "inabayama"}},
		{ID: "okazaki", Name: "Okazaki", OwnerID: "imagawa", CastellanID: "motoyasu",
			Soldiers: 800, Defense: 50, Agriculture: 40, Commerce: 30, Loyalty: 60,
			Policy: realm.PolicyNone, Adjacent: []realm.CastleID{"kiyosu", "sunpu"}},
		{ID: "sunpu", Name: "Sunpu", OwnerID: "imagawa", CastellanID: "yoshimoto",
			Soldiers: 2000, Defense: 60, Agriculture: 60, Commerce: 70, Loyalty: 80,
			Policy: realm.PolicyNone, Adjacent: []realm.CastleID{"okazaki"}},
		{ID: "inabayama", Name: "Inabayama", OwnerID: "saito", CastellanID: "dosan",
			Soldiers: 1200, Defense: 70, Agriculture: 45, Commerce: 40, Loyalty: 70,
			Policy: realm.PolicyNone, Adjacent: []realm.CastleID{"kiyosu"}},
	}
	for _, c := range castles {
		s.Castles[c.ID] = c
	}

	s.Factions["imagawa-elders"] = &realm.Faction{ID: "imagawa-elders", Name: "Imagawa elders",
		ClanID: "imagawa", MemberIDs: []realm.CharacterID{"ujizane"}}
	s.Characters["ujizane"].FactionID = "imagawa-elders"
	return s
}
