package handlers

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

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planetgen/internal/planet"
	"planetgen/internal/shared/config"
	apperrors "planetgen/internal/shared/errors"
	"planetgen/internal/shared/redis"
	"planetgen/internal/terrain"
)

type fakeStore struct{}

func (fakeStore) GetPlanetByID(_ context.Context, id int) (*planet.Planet, error) {
	if id != 1 {
		return nil, apperrors.NotFoundf("planet %d not found", id)
	}
	return &planet.Planet{ID: 1, SystemID: 5, Name: "Vega I", TerrainSeed: planet.TerrainSeed(42, 0)}, nil
}

func (fakeStore) GetPlanetsBySystemID(_ context.Context, systemID int) ([]planet.Planet, error) {
	if systemID != 5 {
		return nil, nil
	}
	p, _ := fakeStore{}.GetPlanetByID(context.Background(), 1)
	return []planet.Planet{*p}, nil
}

func newMux(t *testing.T) *http.ServeMux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.TerrainConfig{
		DefaultDepth:    16,
		AltitudeWeight:  terrain.DefaultAltitudeWeight,
		DistanceWeight:  terrain.DefaultDistanceWeight,
		Power:           terrain.DefaultPower,
		InitialAltitude: terrain.DefaultInitialAltitude,
		ShadeAngle:      terrain.DefaultShadeAngle,
		MaxGridCells:    1024,
	}
	svc := planet.NewService(fakeStore{}, redis.NewCache(nil, "heightmap", time.Minute, logger), cfg, logger)
	h := NewPlanetHandler(svc, "http://localhost:3000")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/systems/{id}/planets", h.GetBySystemID)
	mux.HandleFunc("GET /api/planets/{id}", h.GetByID)
	mux.HandleFunc("GET /api/planets/{id}/altitude", h.GetAltitude)
	mux.HandleFunc("GET /api/planets/{id}/heightmap", h.GetHeightmap)
	mux.HandleFunc("GET /api/planets/{id}/heightmap/stream", h.StreamHeightmap)
	return mux
}

func TestPlanetEndpoints(t *testing.T) {
	mux := newMux(t)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"planets of system", "/api/systems/5/planets", http.StatusOK},
		{"empty system", "/api/systems/6/planets", http.StatusOK},
		{"bad system id", "/api/systems/abc/planets", http.StatusBadRequest},
		{"planet", "/api/planets/1", http.StatusOK},
		{"missing planet", "/api/planets/2", http.StatusNotFound},
		{"altitude", "/api/planets/1/altitude?x=0.6&y=0.48&z=0.64", http.StatusOK},
		{"altitude missing z", "/api/planets/1/altitude?x=0.6&y=0.48", http.StatusBadRequest},
		{"altitude bad depth", "/api/planets/1/altitude?x=1&y=0&z=0&depth=-3", http.StatusBadRequest},
		{"heightmap", "/api/planets/1/heightmap?width=16&height=8&depth=12", http.StatusOK},
		{"heightmap too big", "/api/planets/1/heightmap?width=64&height=64", http.StatusBadRequest},
		{"heightmap bad width", "/api/planets/1/heightmap?width=wide", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestEmptySystemReturnsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	newMux(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/systems/6/planets", nil))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAltitudeBody(t *testing.T) {
	rec := httptest.NewRecorder()
	newMux(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/planets/1/altitude?x=1&y=0&z=0&depth=12", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var sample planet.AltitudeSample
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sample))
	assert.Equal(t, 1, sample.PlanetID)
	assert.Equal(t, 12, sample.Depth)
	assert.GreaterOrEqual(t, sample.Shade, uint8(10))
}

func TestStreamHeightmap(t *testing.T) {
	srv := httptest.NewServer(newMux(t))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/planets/1/heightmap/stream?width=8&height=4&depth=12"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	for i := range 4 {
		var row terrain.Row
		require.NoError(t, conn.ReadJSON(&row))
		assert.Equal(t, i, row.Index)
		assert.Len(t, row.Altitudes, 8)
	}

	var done streamDone
	require.NoError(t, conn.ReadJSON(&done))
	assert.True(t, done.Done)
	assert.Equal(t, 4, done.Rows)
	assert.LessOrEqual(t, done.Min, done.Max)
}

func TestStreamHeightmapRejectsForeignOrigin(t *testing.T) {
	srv := httptest.NewServer(newMux(t))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/planets/1/heightmap/stream?width=8&height=4"
	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStreamHeightmapMissingPlanet(t *testing.T) {
	srv := httptest.NewServer(newMux(t))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/planets/7/heightmap/stream?width=8&height=4"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var msg streamError
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "not_found", msg.Error)
}
