package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/phrazzld/tickprobe/internal/api"
	"github.com/phrazzld/tickprobe/internal/config"
	"github.com/phrazzld/tickprobe/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   8080,
			LogLevel:               "info",
			ShutdownTimeoutSeconds: 5,
		},
		Auth: config.AuthConfig{
			JWTSecret:            "server-test-secret-at-least-32-chars",
			TokenLifetimeMinutes: 5,
			LoginDelayMillis:     0,
		},
		Ticker: config.TickerConfig{IntervalMillis: 5},
		Probe: config.ProbeConfig{
			MinLatencyMillis: 10,
			MaxLatencyMillis: 30,
			StepMillis:       1,
			FailureOdds:      0,
			Seed:             3,
			RunsPerMinute:    60,
			RunBurst:         2,
		},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *application {
	t.Helper()
	app, err := newApplication(cfg, testutils.DiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { app.cleanup(context.Background()) })
	return app
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) do(method, path, body string) *http.Response {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (c *client) login() api.AuthResponse {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/api/auth/login", `{"login":"admin","password":"password"}`)
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	auth := decode[api.AuthResponse](c.t, resp)
	c.token = auth.Token
	return auth
}

func TestNewApplication_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Auth.JWTSecret = "short"
	_, err := newApplication(cfg, testutils.DiscardLogger())
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Probe.MaxLatencyMillis = cfg.Probe.MinLatencyMillis
	_, err = newApplication(cfg, testutils.DiscardLogger())
	assert.Error(t, err)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, testConfig())
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	c := &client{t: t, base: srv.URL}

	resp := c.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	c.login()
	resp = c.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "tickprobe_open_sessions 1")
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, testConfig())
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	c := &client{t: t, base: srv.URL}
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/ticker"},
		{http.MethodPost, "/api/ticker/start"},
		{http.MethodPost, "/api/ticker/stop"},
		{http.MethodGet, "/api/probe"},
		{http.MethodPost, "/api/probe/runs"},
		{http.MethodPost, "/api/auth/logout"},
	} {
		resp := c.do(route.method, route.path, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, route.path)
	}
}

func TestRouter_TickerSurvivesLogout(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, testConfig())
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	c := &client{t: t, base: srv.URL}
	c.login()

	resp := c.do(http.MethodPost, "/api/ticker/start", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	time.Sleep(30 * time.Millisecond)

	resp = c.do(http.MethodPost, "/api/auth/logout", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The token is still valid but the session is gone.
	resp = c.do(http.MethodGet, "/api/ticker", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	c.login()
	resp = c.do(http.MethodGet, "/api/ticker", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decode[api.TickerResponse](t, resp)
	assert.True(t, state.Running, "a ticker running at logout resumes at login")
	assert.Positive(t, state.ElapsedMillis)
}

func TestRouter_ProbeRunRateLimited(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, testConfig())
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	c := &client{t: t, base: srv.URL}
	c.login()

	for i := 0; i < 2; i++ {
		resp := c.do(http.MethodPost, "/api/probe/runs", `{"count":2}`)
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	}

	resp := c.do(http.MethodPost, "/api/probe/runs", `{"count":2}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestRouter_ProbeStreamWithQueryToken(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, testConfig())
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	c := &client{t: t, base: srv.URL}
	c.login()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/probe/stream?access_token=" + c.token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var state api.ProbeStateResponse
	require.NoError(t, conn.ReadJSON(&state))
	assert.Equal(t, "idle", string(state.Phase))

	launch := c.do(http.MethodPost, "/api/probe/runs", `{"count":4}`)
	require.Equal(t, http.StatusAccepted, launch.StatusCode)

	for state.Phase != "completed" {
		require.NoError(t, conn.ReadJSON(&state))
	}
	require.NotNil(t, state.Result)
	assert.Equal(t, 4, state.Result.Succeeded)
}

func TestServe_GracefulShutdown(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	app, err := newApplication(testConfig(), slog.New(slog.NewJSONHandler(&logs, nil)))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, ln, app.setupRouter()) }()

	c := &client{t: t, base: "http://" + ln.Addr().String()}
	require.Eventually(t, func() bool {
		resp, err := http.Get(c.base + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	auth := c.login()
	resp := c.do(http.MethodPost, "/api/ticker/start", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	assert.Equal(t, 0, app.sessions.Len())
	snap, err := app.snapshots.Load(context.Background(), auth.UserID)
	require.NoError(t, err, "sessions are saved on shutdown")
	assert.True(t, snap.Running)
	assert.Contains(t, logs.String(), "server shutdown completed")
}
