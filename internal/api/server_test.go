package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/engine"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/persistence"
	"github.com/talgya/hitmaker/internal/world"
)

const adminKey = "letmein"

func newTestServer(t *testing.T, withGame bool) (*Server, *httptest.Server) {
	t.Helper()
	db, err := persistence.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sess := engine.NewSession(engine.NewSimulation(config.Default(), entropy.NewSeeded(7)), db)
	if withGame {
		_, err := sess.NewGame(context.Background(), world.Artist{Name: "Nova", Genre: world.GenrePop})
		require.NoError(t, err)
	}

	s := NewServer(sess, []string{"https://hitmaker.example"})
	s.AdminKey = adminKey
	s.DB = db

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.hub.Run(ctx)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string, auth bool) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if auth {
		req.Header.Set("Authorization", "Bearer "+adminKey)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestStatus_NoGame(t *testing.T) {
	_, ts := newTestServer(t, false)

	resp := do(t, ts, http.MethodGet, "/api/v1/status", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]any](t, resp)
	assert.Equal(t, "Hitmaker", body["name"])
	assert.NotContains(t, body, "artist")

	resp = do(t, ts, http.MethodGet, "/api/v1/state", "", false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminOnly(t *testing.T) {
	s, ts := newTestServer(t, true)

	resp := do(t, ts, http.MethodPost, "/api/v1/advance", "", false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	keyless := NewServer(s.Session, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/advance", nil)
	req.Header.Set("Authorization", "Bearer "+adminKey)
	keyless.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdvanceAndCharts(t *testing.T) {
	_, ts := newTestServer(t, true)

	resp := do(t, ts, http.MethodPost, "/api/v1/advance", "", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[struct {
		Summary engine.Summary `json:"summary"`
	}](t, resp)
	assert.Equal(t, 2, body.Summary.Date.Linear())

	resp = do(t, ts, http.MethodGet, "/api/v1/charts/hot_100", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	chart := decodeBody[struct {
		Key     world.ChartKey     `json:"key"`
		Entries []world.ChartEntry `json:"entries"`
	}](t, resp)
	assert.Equal(t, world.ChartHot100, chart.Key)
	require.NotEmpty(t, chart.Entries)
	assert.Equal(t, 1, chart.Entries[0].Rank)

	resp = do(t, ts, http.MethodGet, "/api/v1/charts?limit=3", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	all := decodeBody[map[world.ChartKey][]world.ChartEntry](t, resp)
	assert.LessOrEqual(t, len(all[world.ChartHot100]), 3)

	resp = do(t, ts, http.MethodGet, "/api/v1/charts/NOPE", "", false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, ts, http.MethodGet, "/api/v1/history", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows := decodeBody[[]persistence.WeekRow](t, resp)
	assert.Len(t, rows, 1)
}

func TestSongLifecycle(t *testing.T) {
	_, ts := newTestServer(t, true)

	resp := do(t, ts, http.MethodPost, "/api/v1/songs", `{"title":"Glass","theme":"love"}`, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	song := decodeBody[world.Song](t, resp)
	require.NotEmpty(t, song.ID)
	assert.False(t, song.IsReleased)

	resp = do(t, ts, http.MethodPost, "/api/v1/songs/"+song.ID+"/payola", `{"streams":1000}`, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, ts, http.MethodPost, "/api/v1/songs/"+song.ID+"/release", "", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	released := decodeBody[world.Song](t, resp)
	assert.True(t, released.IsReleased)

	resp = do(t, ts, http.MethodPost, "/api/v1/songs/"+song.ID+"/release", "", true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, ts, http.MethodPost, "/api/v1/songs/missing/release", "", true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, ts, http.MethodPost, "/api/v1/songs", `{"title":`, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFeed_Paging(t *testing.T) {
	_, ts := newTestServer(t, true)
	for i := 0; i < 2; i++ {
		resp := do(t, ts, http.MethodPost, "/api/v1/advance", "", true)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	type feed struct {
		Total int          `json:"total_posts"`
		Posts []world.Post `json:"posts"`
	}
	resp := do(t, ts, http.MethodGet, "/api/v1/feed?limit=5", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decodeBody[feed](t, resp)
	require.Greater(t, first.Total, 10)
	require.Len(t, first.Posts, 5)

	resp = do(t, ts, http.MethodGet, "/api/v1/feed?limit=5&offset=5", "", false)
	second := decodeBody[feed](t, resp)
	require.Len(t, second.Posts, 5)
	assert.NotEqual(t, first.Posts[0].ID, second.Posts[0].ID)
	assert.Equal(t, first.Total, second.Total)

	resp = do(t, ts, http.MethodGet, fmt.Sprintf("/api/v1/feed?offset=%d", first.Total), "", false)
	past := decodeBody[feed](t, resp)
	assert.Empty(t, past.Posts)
}

func TestOffer_NotFound(t *testing.T) {
	_, ts := newTestServer(t, true)
	resp := do(t, ts, http.MethodPost, "/api/v1/offers/nope/accept", "", true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDigest_CachedPerWeek(t *testing.T) {
	_, ts := newTestServer(t, true)

	resp := do(t, ts, http.MethodGet, "/api/v1/digest", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decodeBody[map[string]any](t, resp)
	assert.Equal(t, false, first["generated"])
	assert.Contains(t, first["content"], "PULSE WEEKLY")

	resp = do(t, ts, http.MethodGet, "/api/v1/digest", "", false)
	second := decodeBody[map[string]any](t, resp)
	assert.Equal(t, first["generated_at"], second["generated_at"])
}

func TestCORS(t *testing.T) {
	_, ts := newTestServer(t, false)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/status", nil)
	req.Header.Set("Origin", "https://hitmaker.example")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://hitmaker.example", resp.Header.Get("Access-Control-Allow-Origin"))

	req, _ = http.NewRequest(http.MethodGet, ts.URL+"/api/v1/status", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Empty(t, resp2.Header.Get("Access-Control-Allow-Origin"))
}

func TestWebSocket_WeekAdvanced(t *testing.T) {
	s, ts := newTestServer(t, true)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.hub.Clients() == 1 }, 5*time.Second, 10*time.Millisecond)

	resp := do(t, ts, http.MethodPost, "/api/v1/advance", "", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg struct {
		Type    string         `json:"type"`
		Payload engine.Summary `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "week_advanced", msg.Type)
	assert.Equal(t, 2, msg.Payload.Date.Linear())
}
