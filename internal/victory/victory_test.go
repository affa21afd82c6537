package victory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/sengoku/internal/realm"
	"github.com/talgya/sengoku/internal/realm/realmtest"
)

func TestNoWinnerAtStart(t *testing.T) {
	assert.Equal(t, Verdict{}, Check(realmtest.Fixture()))
}

func TestUnification(t *testing.T) {
	s := realmtest.Fixture()
	for _, id := range []realm.CastleID{"okazaki", "sunpu", "inabayama"} {
		require.NoError(t, s.TransferCastle(id, "oda"))
	}
	before := s.Clone()

	v := Check(s)
	assert.Equal(t, Verdict{GameOver: true, Winner: "oda", Reason: Unification}, v)
	// Empty clans remain until settlement removes them.
	assert.Equal(t, before, s)
	assert.Contains(t, s.Clans, realm.ClanID("saito"))
}

func TestLastStanding(t *testing.T) {
	s := realmtest.Fixture()
	require.NoError(t, s.TransferCastle("kiyosu", "imagawa"))
	require.NoError(t, s.TransferCastle("inabayama", "imagawa"))

	v := Check(s)
	assert.True(t, v.GameOver)
	assert.Equal(t, realm.ClanID("imagawa"), v.Winner)
}

func TestCheckIsIdempotent(t *testing.T) {
	s := realmtest.Fixture()
	require.NoError(t, s.TransferCastle("inabayama", "oda"))
	first := Check(s)
	assert.Equal(t, first, Check(s))
	assert.False(t, first.GameOver)
}

func TestStandings(t *testing.T) {
	st := Standings(realmtest.Fixture())
	require.Len(t, st, 3)
	assert.Equal(t, Standing{ClanID: "imagawa", Name: "Imagawa", Castles: 2, Soldiers: 2800, Gold: 5000, Food: 5000}, st[0])
}
