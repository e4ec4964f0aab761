package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rinklog/config"
	"rinklog/internal/auth"
	"rinklog/internal/logs"
	"rinklog/internal/models"
	"rinklog/internal/rbac"
	"rinklog/internal/repo"
)

type testAPI struct {
	srv *httptest.Server
}

func newTestAPI(t *testing.T, allowlist []string) *testAPI {
	t.Helper()
	logs.Init(logs.Options{Level: "error"})

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Team{}, &models.TeamMember{}, &models.TeamInvite{},
		&models.Player{}, &models.Game{}, &models.LineupEntry{},
	))

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = 1
	cfg.Auth.Allowlist = allowlist
	cfg.Invites.TTLDays = 7
	cfg.Invites.BaseURL = "https://rinklog.example"

	users := repo.NewUserStore(db)
	teams := repo.NewTeamStore(db)
	invites := repo.NewInviteStore(db)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Hour)

	h := NewHandler(Deps{
		Cfg:     cfg,
		Auth:    auth.NewService(users, invites, tokens, cfg.Auth.Allowlist),
		Guard:   rbac.NewGuard(teams),
		Users:   users,
		Teams:   teams,
		Invites: invites,
		Players: repo.NewPlayerStore(db),
		Games:   repo.NewGameStore(db),
		Lineups: repo.NewLineupStore(db),
		Stats:   repo.NewStatsStore(db),
	})

	r := mux.NewRouter().StrictSlash(true)
	Register(r, h, tokens)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testAPI{srv: srv}
}

// do sends a JSON request and decodes the JSON response into a map.
func (a *testAPI) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (a *testAPI) register(t *testing.T, email, name string) string {
	t.Helper()
	code, body := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email": email, "password": "password123", "name": name,
	})
	require.Equal(t, http.StatusCreated, code, "register %s: %v", email, body)
	return body["token"].(string)
}

func TestFullSeasonFlow(t *testing.T) {
	a := newTestAPI(t, []string{"coach@x.com"})

	// unauthenticated requests bounce at the middleware
	code, body := a.do(t, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Unauthenticated", body["title"])

	coach := a.register(t, "coach@x.com", "Coach")

	// bootstrap creates the first team once, then keeps returning it
	code, boot := a.do(t, http.MethodPost, "/api/v1/bootstrap", coach, nil)
	require.Equal(t, http.StatusOK, code)
	teamID := boot["team_id"].(string)
	assert.Equal(t, "OWNER", boot["role"])
	assert.Equal(t, true, boot["created"])

	code, again := a.do(t, http.MethodPost, "/api/v1/bootstrap", coach, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, teamID, again["team_id"])
	assert.Equal(t, false, again["created"])

	// roster
	code, player := a.do(t, http.MethodPost, "/api/v1/players", coach, map[string]any{
		"team_id": teamID, "name": "Sidney", "number": 87, "shoot_side": "LEFT",
	})
	require.Equal(t, http.StatusCreated, code)
	playerID := player["id"].(string)

	code, game := a.do(t, http.MethodPost, "/api/v1/games", coach, map[string]any{
		"team_id": teamID, "date": "2026-01-10T18:00:00Z", "opponent": "Ice Hawks",
		"league": "Metro", "result": "WIN", "goals_for": 4, "goals_against": 1,
	})
	require.Equal(t, http.StatusCreated, code)
	gameID := game["id"].(string)

	code, _ = a.do(t, http.MethodPut, "/api/v1/lineups", coach, map[string]any{
		"team_id": teamID, "game_id": gameID,
		"entries": []map[string]any{
			{"player_id": playerID, "position": "C", "line": 1, "goals": 2, "assists": 1},
		},
	})
	require.Equal(t, http.StatusOK, code)

	code, stats := a.do(t, http.MethodGet, "/api/v1/stats/team?teamId="+teamID, coach, nil)
	require.Equal(t, http.StatusOK, code)
	totals := stats["totals"].(map[string]any)
	assert.EqualValues(t, 1, totals["games"])
	assert.EqualValues(t, 1, totals["wins"])
	assert.EqualValues(t, 4, totals["goals_for"])

	code, card := a.do(t, http.MethodGet,
		"/api/v1/stats/player?teamId="+teamID+"&playerId="+playerID, coach, nil)
	require.Equal(t, http.StatusOK, code)
	cardTotals := card["totals"].(map[string]any)
	assert.EqualValues(t, 2, cardTotals["goals"])
	assert.EqualValues(t, 3, cardTotals["points"])

	// invite a viewer; the pending invite also unlocks their registration
	code, inv := a.do(t, http.MethodPost, "/api/v1/invites", coach, map[string]any{
		"team_id": teamID, "email": "parent@x.com", "role": "VIEWER",
	})
	require.Equal(t, http.StatusCreated, code)
	link, err := url.Parse(inv["invite_link"].(string))
	require.NoError(t, err)
	inviteToken := link.Query().Get("token")
	require.Len(t, inviteToken, 48)

	viewer := a.register(t, "parent@x.com", "Parent")

	code, accepted := a.do(t, http.MethodPost, "/api/v1/invites/accept", viewer,
		map[string]any{"token": inviteToken})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, teamID, accepted["team_id"])
	assert.Equal(t, "VIEWER", accepted["role"])

	// a redeemed token is dead
	code, body = a.do(t, http.MethodPost, "/api/v1/invites/accept", viewer,
		map[string]any{"token": inviteToken})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "AlreadyUsed", body["title"])

	// viewers read but never write
	code, _ = a.do(t, http.MethodGet, "/api/v1/players?teamId="+teamID, viewer, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body = a.do(t, http.MethodPost, "/api/v1/players", viewer, map[string]any{
		"team_id": teamID, "name": "Nope",
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Forbidden", body["title"])

	// the member list is admin-only
	code, _ = a.do(t, http.MethodGet, "/api/v1/teams/"+teamID+"/members", viewer, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, members := a.do(t, http.MethodGet, "/api/v1/teams/"+teamID+"/members", coach, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, members["members"], 2)
}

func TestRegisterGate(t *testing.T) {
	a := newTestAPI(t, nil)

	code, body := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email": "stranger@x.com", "password": "password123", "name": "Stranger",
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "NotInvited", body["title"])

	code, body = a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email": "not-an-email", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "ValidationError", body["title"])
}

func TestActiveTeamIsOnlyAHint(t *testing.T) {
	a := newTestAPI(t, []string{"coach@x.com"})
	coach := a.register(t, "coach@x.com", "Coach")

	_, boot := a.do(t, http.MethodPost, "/api/v1/bootstrap", coach, nil)
	teamID := boot["team_id"].(string)

	// pointing the hint at a foreign team is refused
	code, _ := a.do(t, http.MethodPost, "/api/v1/active-team", coach,
		map[string]any{"team_id": uuid.NewString()})
	assert.Equal(t, http.StatusForbidden, code)

	code, body := a.do(t, http.MethodPost, "/api/v1/active-team", coach,
		map[string]any{"team_id": teamID})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, teamID, body["team_id"])
}

func TestInviteEmailMismatch(t *testing.T) {
	a := newTestAPI(t, []string{"coach@x.com", "other@x.com"})
	coach := a.register(t, "coach@x.com", "Coach")
	other := a.register(t, "other@x.com", "Other")

	_, boot := a.do(t, http.MethodPost, "/api/v1/bootstrap", coach, nil)
	teamID := boot["team_id"].(string)

	_, inv := a.do(t, http.MethodPost, "/api/v1/invites", coach, map[string]any{
		"team_id": teamID, "email": "someone-else@x.com",
	})
	link, err := url.Parse(inv["invite_link"].(string))
	require.NoError(t, err)

	code, body := a.do(t, http.MethodPost, "/api/v1/invites/accept", other,
		map[string]any{"token": link.Query().Get("token")})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "EmailMismatch", body["title"])
}

func TestRoleChangeRules(t *testing.T) {
	a := newTestAPI(t, []string{"coach@x.com", "helper@x.com"})
	coach := a.register(t, "coach@x.com", "Coach")
	helper := a.register(t, "helper@x.com", "Helper")

	_, boot := a.do(t, http.MethodPost, "/api/v1/bootstrap", coach, nil)
	teamID := boot["team_id"].(string)

	_, inv := a.do(t, http.MethodPost, "/api/v1/invites", coach, map[string]any{
		"team_id": teamID, "email": "helper@x.com", "role": "ADMIN",
	})
	link, _ := url.Parse(inv["invite_link"].(string))
	code, _ := a.do(t, http.MethodPost, "/api/v1/invites/accept", helper,
		map[string]any{"token": link.Query().Get("token")})
	require.Equal(t, http.StatusOK, code)

	var helperID string
	_, me := a.do(t, http.MethodGet, "/api/v1/me", helper, nil)
	helperID = me["user"].(map[string]any)["id"].(string)

	var coachID string
	_, me = a.do(t, http.MethodGet, "/api/v1/me", coach, nil)
	coachID = me["user"].(map[string]any)["id"].(string)

	// demote the helper
	code, body := a.do(t, http.MethodPatch, "/api/v1/teams/"+teamID+"/members/"+helperID,
		coach, map[string]any{"role": "VIEWER"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "VIEWER", body["role"])

	// nobody is granted OWNER over the API
	code, _ = a.do(t, http.MethodPatch, "/api/v1/teams/"+teamID+"/members/"+helperID,
		coach, map[string]any{"role": "OWNER"})
	assert.Equal(t, http.StatusBadRequest, code)

	// the owner's own row is immutable
	code, _ = a.do(t, http.MethodPatch, "/api/v1/teams/"+teamID+"/members/"+coachID,
		coach, map[string]any{"role": "VIEWER"})
	assert.Equal(t, http.StatusBadRequest, code)
}
