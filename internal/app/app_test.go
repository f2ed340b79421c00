package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/app"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/config"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/handlers/dto"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            "0",
			RequestTimeout:  5 * time.Second,
			ShutdownTimeout: time.Second,
			RateLimit:       1000,
		},
		Cache: config.CacheConfig{
			Backend:            config.CacheMemory,
			TTL:                time.Minute,
			Capacity:           100,
			NumShards:          4,
			EvictionPercentage: 10,
		},
		Logging:    config.LoggingConfig{Development: false},
		Repository: config.RepositoryConfig{Type: config.RepositoryInMemory},
		Retention: config.RetentionConfig{
			Enabled:  true,
			Window:   7 * 24 * time.Hour,
			Schedule: "0 9 * * *",
		},
	}
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func initApp(t *testing.T, cfg *config.Config) *app.App {
	t.Helper()
	a := app.New(cfg)
	require.NoError(t, a.Init(context.Background()))
	t.Cleanup(a.Close)
	return a
}

func TestApp_TodoLifecycle(t *testing.T) {
	a := initApp(t, testConfig())
	router := a.Router()

	w := do(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(t, router, http.MethodPost, "/todos", `{
		"name": "Old errand",
		"subject": "Work",
		"priority": 2,
		"date": "2020-01-01T00:00:00Z",
		"geom": {"type": "Point", "coordinates": [34.78, 32.08]}
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dto.TodoResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

	w = do(t, router, http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page []dto.TodoResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	require.Len(t, page, 1)

	w = do(t, router, http.MethodPost, "/todos/filter",
		`{"filterGeometry":{"type":"Polygon","coordinates":[[[34,32],[35,32],[35,33],[34,33],[34,32]]]}}`)
	require.Equal(t, http.StatusOK, w.Code)
	page = nil
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	assert.Len(t, page, 1)

	w = do(t, router, http.MethodPatch, "/todos/"+created.ID.String()+"/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)

	deleted, err := a.Sweep(context.Background())
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, created.ID, deleted[0].ID)

	// the sweep cleared the cached first page
	w = do(t, router, http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, w.Code)
	page = nil
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	assert.Empty(t, page)

	w = do(t, router, http.MethodGet, "/todos/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApp_RedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig()
	cfg.Cache.Backend = config.CacheRedis
	cfg.Cache.Redis = config.RedisConfig{
		Host:      mr.Host(),
		Port:      mustPort(t, mr.Port()),
		Namespace: "todos",
	}
	a := initApp(t, cfg)

	w := do(t, a.Router(), http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mr.Exists("todos:todos::limit=15::offset=0"))
}

func TestApp_RedisUnreachable(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Backend = config.CacheRedis
	cfg.Cache.Redis = config.RedisConfig{Host: "127.0.0.1", Port: 1, Namespace: "todos"}

	a := app.New(cfg)
	assert.Error(t, a.Init(context.Background()))
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Host = "127.0.0.1"
	a := initApp(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func mustPort(t *testing.T, port string) int {
	t.Helper()
	var p int
	_, err := fmt.Sscanf(port, "%d", &p)
	require.NoError(t, err)
	return p
}
