package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noor7086/Obyyo-sub002/internal/auth"
	"github.com/Noor7086/Obyyo-sub002/internal/events"
	"github.com/Noor7086/Obyyo-sub002/internal/generator"
	"github.com/Noor7086/Obyyo-sub002/internal/lottery"
	"github.com/Noor7086/Obyyo-sub002/internal/metrics"
	"github.com/Noor7086/Obyyo-sub002/internal/storage"
)

type testServer struct {
	*Server
	http *httptest.Server
}

func newTestServer(t *testing.T, limiter *auth.LoginLimiter) *testServer {
	t.Helper()

	cfg := storage.DefaultConfig(storage.MemoryPath)
	cfg.AutoMigrate = true
	db, err := storage.Open(cfg)
	require.NoError(t, err)
	store := storage.NewStore(db)
	t.Cleanup(func() { _ = store.Close() })

	m := metrics.NewGeneratorMetrics(metrics.NewCollectors())
	dispatcher := events.NewDispatcher(nil)

	authSvc := auth.NewService(store.Users, store.Sessions, auth.Options{
		Params:     auth.PasswordParams{Time: 1, Memory: 1024, Threads: 1},
		Limiter:    limiter,
		Dispatcher: dispatcher,
		Metrics:    m,
	})
	sampler := lottery.NewSampler(lottery.WithRandomSource(lottery.NewSeededSource(7)))
	genSvc := generator.NewService(lottery.DefaultCatalog(), sampler, generator.Options{
		DefaultCount: 5,
		Preferences:  store.Preferences,
		Dispatcher:   dispatcher,
		Metrics:      m,
	})

	srv := NewServer(&Config{Port: 0, RequestTimeout: 5 * time.Second, AllowedOrigins: []string{"http://localhost:*"}}, Deps{
		Auth:          authSvc,
		Generator:     genSvc,
		Preferences:   store.Preferences,
		Metrics:       m,
		CatalogSource: "static",
	})
	dispatcher.Register(srv.NewWebSocketObserver())

	go srv.WebSocketHub().Run()
	t.Cleanup(srv.WebSocketHub().Stop)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testServer{Server: srv, http: ts}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.http.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if resp.StatusCode != http.StatusNoContent && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp, decoded
}

func (ts *testServer) register(t *testing.T, email string) string {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"name":     "Tester",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	return data["token"].(string)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.NotEmpty(t, cfg.AllowedOrigins)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestGames(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := ts.do(t, http.MethodGet, "/api/v1/games", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	games := body["data"].([]interface{})
	assert.Len(t, games, 5)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/games/pick3", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := body["data"].(map[string]interface{})
	viable := detail["viable"].(map[string]interface{})
	assert.Equal(t, []interface{}{1.0, 3.0, 5.0, 7.0, 9.0}, viable["primary"])

	resp, body = ts.do(t, http.MethodGet, "/api/v1/games/keno", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 404.0, body["code"])
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t, nil)

	token := ts.register(t, "flow@example.com")

	resp, body := ts.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "flow@example.com", body["data"].(map[string]interface{})["email"])
	assert.NotContains(t, body["data"], "passwordHash")

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "flow@example.com", "name": "Dup", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "flow@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "flow@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	loginToken := body["data"].(map[string]interface{})["token"].(string)
	assert.NotEqual(t, token, loginToken)

	var sawCookie bool
	for _, c := range resp.Cookies() {
		if c.Name == "obyyo_session" && c.Value == loginToken {
			sawCookie = true
		}
	}
	assert.True(t, sawCookie)

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/auth/logout", loginToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/api/v1/auth/me", loginToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, _ := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "not-an-email", "name": "X", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginRateLimited(t *testing.T) {
	ts := newTestServer(t, auth.NewLoginLimiter(1, 1))
	ts.register(t, "limit@example.com")

	creds := map[string]string{"email": "limit@example.com", "password": "password123"}
	resp, _ := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", creds)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestGenerate(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, _ := ts.do(t, http.MethodPost, "/api/v1/generator/generate", "", map[string]interface{}{"game": "powerball", "count": 2})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := ts.register(t, "gen@example.com")

	resp, body := ts.do(t, http.MethodPost, "/api/v1/generator/generate", token, map[string]interface{}{"game": "powerball", "count": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	combos := data["combinations"].([]interface{})
	assert.Len(t, combos, 2)
	first := combos[0].(map[string]interface{})
	assert.Len(t, first["primary"], 5)
	assert.NotNil(t, first["secondary"])
	assert.Contains(t, data, "durationMs")
	assert.NotContains(t, data, "duration")

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
	}{
		{"unknown game", map[string]interface{}{"game": "keno", "count": 1}, http.StatusNotFound},
		{"zero count", map[string]interface{}{"game": "pick3", "count": 0}, http.StatusBadRequest},
		{"count too large", map[string]interface{}{"game": "pick3", "count": 101}, http.StatusBadRequest},
		{"negative count", map[string]interface{}{"game": "pick3", "count": -3}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ts.do(t, http.MethodPost, "/api/v1/generator/generate", token, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotContains(t, body, "data")
		})
	}
}

func TestGenerate_UsesPreferences(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.register(t, "prefs@example.com")

	resp, body := ts.do(t, http.MethodPut, "/api/v1/account/preferences", token, map[string]interface{}{
		"generator.default_game":  "pick3",
		"generator.default_count": 3,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pick3", body["data"].(map[string]interface{})["generator.default_game"])

	resp, body = ts.do(t, http.MethodPost, "/api/v1/generator/generate", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "pick3", data["game"].(map[string]interface{})["id"])
	assert.Len(t, data["combinations"], 3)

	resp, _ = ts.do(t, http.MethodPut, "/api/v1/account/preferences/generator.default_count", token, map[string]interface{}{"value": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/account/preferences", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["data"].(map[string]interface{})["generator.default_count"])
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.register(t, "dash@example.com")

	resp, body := ts.do(t, http.MethodGet, "/api/v1/account/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	trial := body["data"].(map[string]interface{})["trial"].(map[string]interface{})
	assert.Equal(t, true, trial["active"])
	assert.Equal(t, 2.0, trial["days"])
}

func TestSystemEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := ts.do(t, http.MethodGet, "/api/v1/system/status", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "static", body["data"].(map[string]interface{})["catalogSource"])

	resp, body = ts.do(t, http.MethodGet, "/api/v1/system/version", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "obyyo", body["data"].(map[string]interface{})["service"])

	resp, body = ts.do(t, http.MethodGet, "/api/v1/system/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["data"], "requests")
}

func TestPrometheusEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.register(t, "prom@example.com")
	ts.do(t, http.MethodPost, "/api/v1/generator/generate", token, map[string]interface{}{"game": "gopher5", "count": 1})

	resp, err := http.Get(ts.http.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `obyyo_generations_total{game="gopher5",outcome="ok"} 1`)
}

func TestJSONContentTypeEnforced(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Post(ts.http.URL+"/api/v1/auth/login", "text/plain", strings.NewReader("email=x"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestWebSocket_ReceivesOwnGenerationEvents(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.register(t, "ws@example.com")
	other := ts.register(t, "other@example.com")

	wsURL := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Authorization": {"Bearer " + token}})
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return ts.WebSocketHub().ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	// Another user's generation must not reach this connection.
	ts.do(t, http.MethodPost, "/api/v1/generator/generate", other, map[string]interface{}{"game": "pick3", "count": 1})
	ts.do(t, http.MethodPost, "/api/v1/generator/generate", token, map[string]interface{}{"game": "gopher5", "count": 2})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame struct {
		Type string                 `json:"type"`
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg, &frame))
	assert.Equal(t, events.TypeGenerationCompleted, frame.Type)
	assert.Equal(t, "gopher5", frame.Data["gameId"])
	assert.Equal(t, 2.0, frame.Data["count"])
}
