package http

import (
	"bytes"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bingo_webapp/internal/config"
	"bingo_webapp/internal/repository"
	"bingo_webapp/internal/service"
	"bingo_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service.InitJWT("routes-test-secret")

	hub := ws.NewHub()
	svc := service.NewBingoService(repository.NewMemoryStore(), hub, service.NewAutoCaller(nil, time.Second), service.Options{})
	hub.Bind(svc)
	t.Cleanup(func() {
		svc.Close()
		hub.Close()
	})

	cfg := &config.Config{
		AppVersion:      "test",
		APIRateLimit:    10000,
		APIRateWindow:   60,
		ClaimRateLimit:  100,
		ClaimRateWindow: 10,
	}
	r := gin.New()
	RegisterRoutes(r, svc, hub, cfg)
	return &apiClient{t: t, router: r}
}

func (a *apiClient) do(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func (a *apiClient) createGame(limit int) (id, token string) {
	a.t.Helper()
	code, body := a.do(nethttp.MethodPost, "/api/v1/games", "", gin.H{"host_name": "Host", "player_limit": limit})
	require.Equal(a.t, nethttp.StatusCreated, code, body)
	game := body["game"].(map[string]any)
	return game["id"].(string), body["host_token"].(string)
}

func (a *apiClient) join(id, name string) string {
	a.t.Helper()
	code, body := a.do(nethttp.MethodPost, "/api/v1/games/"+id+"/join", "", gin.H{"name": name})
	require.Equal(a.t, nethttp.StatusCreated, code, body)
	return body["player"].(map[string]any)["id"].(string)
}

func TestRoutes_Patterns(t *testing.T) {
	api := newAPI(t)
	code, body := api.do(nethttp.MethodGet, "/api/patterns", "", nil)
	require.Equal(t, nethttp.StatusOK, code)
	assert.NotEmpty(t, body["patterns"])
	assert.NotEmpty(t, body["categories"])
}

func TestRoutes_CreateAndSnapshot(t *testing.T) {
	api := newAPI(t)
	id, token := api.createGame(2)
	assert.Len(t, id, 6)
	assert.NotEmpty(t, token)

	api.join(id, "Alice")
	api.join(id, "Bob")

	code, body := api.do(nethttp.MethodPost, "/api/v1/games/"+id+"/join", "", gin.H{"name": "Carol"})
	assert.Equal(t, nethttp.StatusForbidden, code)
	assert.Equal(t, "session_full", body["code"])

	code, body = api.do(nethttp.MethodGet, "/api/v1/games/"+id, "", nil)
	require.Equal(t, nethttp.StatusOK, code)
	assert.Len(t, body["players"], 2)
	assert.Equal(t, "waiting", body["game"].(map[string]any)["status"])

	code, body = api.do(nethttp.MethodGet, "/api/v1/games/NOPE00", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, code)
	assert.Equal(t, "not_found", body["code"])
}

func TestRoutes_LegacyCreate(t *testing.T) {
	api := newAPI(t)
	code, body := api.do(nethttp.MethodPost, "/api/games/create", "", gin.H{"host_name": "Host", "player_limit": 3})
	require.Equal(t, nethttp.StatusCreated, code, body)
	assert.NotEmpty(t, body["host_token"])

	code, _ = api.do(nethttp.MethodPost, "/api/games", "", gin.H{"host_name": "", "player_limit": 3})
	assert.Equal(t, nethttp.StatusBadRequest, code)
}

func TestRoutes_HostOnly(t *testing.T) {
	api := newAPI(t)
	id, token := api.createGame(4)
	otherID, otherToken := api.createGame(4)
	require.NotEqual(t, id, otherID)

	code, _ := api.do(nethttp.MethodPost, "/api/v1/games/"+id+"/start", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, code)

	code, _ = api.do(nethttp.MethodPost, "/api/v1/games/"+id+"/start", otherToken, nil)
	assert.Equal(t, nethttp.StatusForbidden, code)

	code, body := api.do(nethttp.MethodPost, "/api/v1/games/"+id+"/start", token, nil)
	require.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, "playing", body["status"])
}

func TestRoutes_StageCallAndLogs(t *testing.T) {
	api := newAPI(t)
	id, token := api.createGame(4)
	base := "/api/v1/games/" + id

	code, body := api.do(nethttp.MethodPost, base+"/call", token, nil)
	assert.Equal(t, nethttp.StatusBadRequest, code)
	assert.Equal(t, "game_not_active", body["code"])

	code, _ = api.do(nethttp.MethodPost, base+"/start", token, nil)
	require.Equal(t, nethttp.StatusOK, code)

	code, body = api.do(nethttp.MethodPost, base+"/dev/stage-number", token, gin.H{"number": 0})
	assert.Equal(t, nethttp.StatusBadRequest, code)
	assert.Equal(t, "invalid_number", body["code"])

	code, _ = api.do(nethttp.MethodPost, base+"/dev/stage-number", token, gin.H{"number": 42})
	require.Equal(t, nethttp.StatusOK, code)

	code, body = api.do(nethttp.MethodPost, base+"/call", token, nil)
	require.Equal(t, nethttp.StatusOK, code)
	assert.EqualValues(t, 42, body["number"])

	code, body = api.do(nethttp.MethodPost, base+"/dev/stage-number", token, gin.H{"number": 42})
	assert.Equal(t, nethttp.StatusBadRequest, code)
	assert.Equal(t, "already_called", body["code"])

	code, body = api.do(nethttp.MethodGet, base+"/dev/logs", token, nil)
	require.Equal(t, nethttp.StatusOK, code)
	assert.Len(t, body["logs"], 1)
}

func TestRoutes_PlayerFlow(t *testing.T) {
	api := newAPI(t)
	id, token := api.createGame(4)
	base := "/api/v1/games/" + id
	playerID := api.join(id, "Alice")

	code, body := api.do(nethttp.MethodPost, base+"/cards", "", gin.H{"player_id": playerID, "count": 1})
	require.Equal(t, nethttp.StatusCreated, code, body)

	code, body = api.do(nethttp.MethodGet, base+"/players/"+playerID+"/cards", "", nil)
	require.Equal(t, nethttp.StatusOK, code)
	cards := body["cards"].([]any)
	require.Len(t, cards, 2)
	cardID := cards[0].(map[string]any)["id"].(string)

	// nothing drawn yet: marking is a no-op
	code, body = api.do(nethttp.MethodPost, base+"/cards/"+cardID+"/mark", "", gin.H{"index": 0})
	require.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, []any{float64(12)}, body["marked"])

	code, body = api.do(nethttp.MethodPatch, base+"/cards/"+cardID+"/marked", "", gin.H{"marked": []int{0, 30}})
	assert.Equal(t, nethttp.StatusBadRequest, code)
	assert.Equal(t, "invalid_number", body["code"])

	code, body = api.do(nethttp.MethodPost, base+"/messages", "", gin.H{"player_id": playerID, "text": "hi"})
	require.Equal(t, nethttp.StatusCreated, code)
	assert.Equal(t, "Alice", body["sender"])

	code, _ = api.do(nethttp.MethodPost, base+"/start", token, nil)
	require.Equal(t, nethttp.StatusOK, code)

	code, body = api.do(nethttp.MethodPost, base+"/bingo", "", gin.H{"player_id": playerID})
	assert.Equal(t, nethttp.StatusBadRequest, code)
	assert.Equal(t, "no_winning_pattern", body["code"])

	code, body = api.do(nethttp.MethodPost, base+"/cards", "", gin.H{"player_id": playerID, "count": 1})
	assert.Equal(t, nethttp.StatusForbidden, code)
	assert.Equal(t, "game_already_started", body["code"])
}

func TestRoutes_AutoCall(t *testing.T) {
	api := newAPI(t)
	id, token := api.createGame(4)
	base := "/api/v1/games/" + id

	code, _ := api.do(nethttp.MethodPost, base+"/start", token, nil)
	require.Equal(t, nethttp.StatusOK, code)

	code, body := api.do(nethttp.MethodPost, base+"/auto-call/start", token, gin.H{"interval": 7})
	assert.Equal(t, nethttp.StatusBadRequest, code)
	assert.Equal(t, "invalid_interval", body["code"])

	code, body = api.do(nethttp.MethodPost, base+"/auto-call/start", token, gin.H{"interval": 30})
	require.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, true, body["active"])

	code, body = api.do(nethttp.MethodPatch, base+"/auto-call/interval", token, gin.H{"interval": 15})
	require.Equal(t, nethttp.StatusOK, code)
	assert.EqualValues(t, 15, body["interval"])

	code, body = api.do(nethttp.MethodGet, base+"/auto-call/status", "", nil)
	require.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, true, body["active"])

	code, body = api.do(nethttp.MethodPost, base+"/auto-call/stop", token, nil)
	require.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, false, body["active"])
}

func TestRoutes_Health(t *testing.T) {
	api := newAPI(t)
	code, body := api.do(nethttp.MethodGet, "/health", "", nil)
	assert.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, _ = api.do(nethttp.MethodGet, "/readyz", "", nil)
	assert.Equal(t, nethttp.StatusOK, code)

	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bingo_http_requests_total")
}
