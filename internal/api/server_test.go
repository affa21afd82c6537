package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/talgya/sengoku/internal/engine"
	"github.com/talgya/sengoku/internal/entropy"
	"github.com/talgya/sengoku/internal/observe"
	"github.com/talgya/sengoku/internal/realm"
	"github.com/talgya/sengoku/internal/realm/realmtest"
	"github.com/talgya/sengoku/internal/victory"
)

const key = "secret"

func newServer(t *testing.T, s *realm.State) *Server {
	t.Helper()
	metrics, err := observe.NewMetrics(noop.NewMeterProvider())
	require.NoError(t, err)
	g, err := engine.New(context.Background(), s,
		engine.WithSource(entropy.NewSequence(0.5)),
		engine.WithIDs(func() string { return "g" }),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		engine.WithMetrics(metrics),
	)
	require.NoError(t, err)
	return &Server{Game: g, AdminKey: key}
}

func do(t *testing.T, h http.Handler, method, path, body string, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if auth {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatus(t *testing.T) {
	h := newServer(t, realmtest.Fixture()).Handler()
	rec := do(t, h, http.MethodGet, "/api/v1/status", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Game       string `json:"game"`
		PlayerClan string `json:"player_clan"`
		Castles    int    `json:"castles"`
		GameOver   bool   `json:"game_over"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "g", body.Game)
	assert.Equal(t, "oda", body.PlayerClan)
	assert.Equal(t, 4, body.Castles)
	assert.False(t, body.GameOver)
}

func TestCastlesFilterByOwner(t *testing.T) {
	h := newServer(t, realmtest.Fixture()).Handler()
	rec := do(t, h, http.MethodGet, "/api/v1/castles?owner=imagawa", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var castles []realm.Castle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &castles))
	require.Len(t, castles, 2)
	assert.Equal(t, realm.CastleID("okazaki"), castles[0].ID)
	assert.Equal(t, realm.CastleID("sunpu"), castles[1].ID)
}

func TestClans(t *testing.T) {
	h := newServer(t, realmtest.Fixture()).Handler()
	rec := do(t, h, http.MethodGet, "/api/v1/clans", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var clans map[realm.ClanID]realm.Clan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &clans))
	assert.Len(t, clans, 3)
	assert.Equal(t, 5000, clans["oda"].Gold)
}

func TestCommandRequiresToken(t *testing.T) {
	srv := newServer(t, realmtest.Fixture())
	body := `{"clan":"oda","action":"develop_agriculture","params":{"castle_id":"kiyosu"}}`

	rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/command", body, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	srv.AdminKey = ""
	rec = do(t, srv.Handler(), http.MethodPost, "/api/v1/command", body, true)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCommandCommits(t *testing.T) {
	srv := newServer(t, realmtest.Fixture())
	h := srv.Handler()
	body := `{"clan":"oda","action":"develop_agriculture","params":{"castle_id":"kiyosu","investment":500}}`

	rec := do(t, h, http.MethodPost, "/api/v1/command", body, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res CommandResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, []string{"clan:oda.gold -500", "castle:kiyosu.agriculture 50->60"}, res.Changes)
	assert.Equal(t, 4500, srv.Game.Clans()["oda"].Gold)
}

func TestCommandRejected(t *testing.T) {
	srv := newServer(t, realmtest.Fixture())
	h := srv.Handler()
	body := `{"clan":"oda","action":"attack","params":{"from_castle_id":"kiyosu","target_castle_id":"sunpu","soldier_count":100}}`

	rec := do(t, h, http.MethodPost, "/api/v1/command", body, true)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var res CommandResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "not adjacent")
	assert.Equal(t, 1000, srv.Game.Castles()[1].Soldiers) // kiyosu
}

func TestCommandBadRequests(t *testing.T) {
	h := newServer(t, realmtest.Fixture()).Handler()
	tests := []struct {
		name string
		body string
		code int
	}{
		{"invalid json", `{"clan":`, http.StatusBadRequest},
		{"missing action", `{"clan":"oda"}`, http.StatusBadRequest},
		{"unknown clan", `{"clan":"takeda","action":"fortify","params":{"castle_id":"kiyosu"}}`, http.StatusNotFound},
		{"unknown action", `{"clan":"oda","action":"atack"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/command", tt.body, true)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestCommandRateLimited(t *testing.T) {
	srv := newServer(t, realmtest.Fixture())
	srv.Limiter = NewRateLimiter(1, time.Minute)
	h := srv.Handler()
	body := `{"clan":"oda","action":"fortify","params":{"castle_id":"kiyosu"}}`

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/v1/command", body, true).Code)
	rec := do(t, h, http.MethodPost, "/api/v1/command", body, true)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestEndTurn(t *testing.T) {
	srv := newServer(t, realmtest.Fixture())
	before := srv.Game.Turn()

	rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/end-turn", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, before+1, srv.Game.Turn())

	var body struct {
		Turn int `json:"turn"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, before+1, body.Turn)
}

func TestRefusesAfterGameOver(t *testing.T) {
	s := realmtest.Fixture()
	for _, id := range []realm.CastleID{"okazaki", "sunpu", "inabayama"} {
		require.NoError(t, s.TransferCastle(id, "oda"))
	}
	h := newServer(t, s).Handler()

	rec := do(t, h, http.MethodGet, "/api/v1/victory", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var v victory.Verdict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.True(t, v.GameOver)
	assert.Equal(t, realm.ClanID("oda"), v.Winner)

	body := `{"clan":"oda","action":"fortify","params":{"castle_id":"kiyosu"}}`
	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/api/v1/command", body, true).Code)
	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/api/v1/end-turn", "", true).Code)
}

func TestEventsAfterCommand(t *testing.T) {
	srv := newServer(t, realmtest.Fixture())
	h := srv.Handler()
	body := `{"clan":"oda","action":"fortify","params":{"castle_id":"kiyosu"}}`
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/v1/command", body, true).Code)

	rec := do(t, h, http.MethodGet, "/api/v1/events?limit=10", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []engine.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.NotEmpty(t, events)
	assert.Equal(t, "command", events[len(events)-1].Category)
}
