package server

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/kosmonet/neon-sub001/internal/domain"
	"github.com/kosmonet/neon-sub001/internal/spatial"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getJSON(t *testing.T, url string, dst interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.Unmarshal(body, dst))
}

func getStatus(t *testing.T, url string) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

type entityDump struct {
	Tick     int          `json:"tick"`
	Area     spatial.Rect `json:"area"`
	Entities []struct {
		ID   string          `json:"id"`
		Name string          `json:"name"`
		Pos  domain.Position `json:"pos"`
	} `json:"entities"`
}

func TestDebug_Worlds(t *testing.T) {
	service, ts := newTestServer(t)

	var worlds []domain.WorldSummary
	getJSON(t, ts.URL+"/debug/worlds", &worlds)

	require.Len(t, worlds, 2)
	for i, inst := range service.List() {
		assert.Equal(t, inst.ID(), worlds[i].ID)
		assert.Equal(t, i, worlds[i].Level)
		assert.Positive(t, worlds[i].Terrain.Leaves)
		assert.Equal(t, worlds[i].EntityCount, worlds[i].Entities.Elements)
	}
}

func TestDebug_Terrain(t *testing.T) {
	service, ts := newTestServer(t)
	inst := service.List()[1]

	var dump TerrainDump
	getJSON(t, ts.URL+"/debug/terrain?world="+inst.ID().String(), &dump)

	assert.Equal(t, inst.ID().String(), dump.WorldID)
	require.NotEmpty(t, dump.Regions)

	// Регионы из дампа восстанавливают ту же карту
	restored := domain.NewGameWorld(1, dump.Width, dump.Height, 0)
	require.NoError(t, restored.LoadTerrain(dump.Regions))
	inst.Read(func(w *domain.GameWorld) {
		for y := 0; y < w.Height; y++ {
			for x := 0; x < w.Width; x++ {
				want, _ := w.TerrainAt(x, y)
				got, _ := restored.TerrainAt(x, y)
				require.Equal(t, want, got, "(%d,%d)", x, y)
			}
		}
	})
}

func TestDebug_Entities(t *testing.T) {
	service, ts := newTestServer(t)
	inst := service.List()[0]
	url := ts.URL + "/debug/entities?world=" + inst.ID().String()

	var all entityDump
	getJSON(t, url, &all)
	assert.Equal(t, spatial.Rect{W: inst.World.Width, H: inst.World.Height}, all.Area)
	assert.Len(t, all.Entities, inst.Summary().EntityCount)

	// Спуск вниз всегда в центре поверхности
	cx, cy := inst.World.Width/2, inst.World.Height/2
	var area entityDump
	getJSON(t, url+"&x="+itoa(cx)+"&y="+itoa(cy)+"&w=1&h=1", &area)
	require.NotEmpty(t, area.Entities)
	for _, e := range area.Entities {
		assert.Equal(t, domain.Position{X: cx, Y: cy}, e.Pos)
	}

	assert.Equal(t, http.StatusBadRequest, getStatus(t, url+"&x=abc"))
	assert.Equal(t, http.StatusBadRequest, getStatus(t, url+"&w=-1&h=2"))
}

func TestDebug_Tile(t *testing.T) {
	service, ts := newTestServer(t)
	inst := service.List()[0]
	url := ts.URL + "/debug/tile?world=" + inst.ID().String()

	var tile struct {
		Terrain   string `json:"terrain"`
		Elevation int    `json:"elevation"`
		Walkable  bool   `json:"walkable"`
		Entities  []struct {
			Name string `json:"name"`
		} `json:"entities"`
	}
	getJSON(t, url+"&x=0&y=0", &tile)
	assert.Equal(t, string(domain.TerrainWall), tile.Terrain)
	assert.False(t, tile.Walkable)
	assert.Empty(t, tile.Entities)

	assert.Equal(t, http.StatusBadRequest, getStatus(t, url+"&x=-1&y=0"))
	assert.Equal(t, http.StatusBadRequest, getStatus(t, url+"&x=1&y=abc"))
}

func TestDebug_Queue(t *testing.T) {
	service, ts := newTestServer(t)
	inst := service.List()[1]

	var queue []struct {
		EntityID string `json:"entity_id"`
		Priority int    `json:"next_tick"`
	}
	getJSON(t, ts.URL+"/debug/queue?world="+inst.ID().String(), &queue)
	assert.Len(t, queue, len(inst.Queue()))
	assert.NotEmpty(t, queue)
}

func TestDebug_WorldErrors(t *testing.T) {
	_, ts := newTestServer(t)

	for _, path := range []string{"/debug/terrain", "/debug/entities", "/debug/tile", "/debug/queue", "/ws"} {
		assert.Equal(t, http.StatusBadRequest, getStatus(t, ts.URL+path+"?world=nope"), path)
		assert.Equal(t, http.StatusNotFound, getStatus(t, ts.URL+path+"?world="+uuid.NewString()), path)
	}
}

func TestServer_HealthVersionMetrics(t *testing.T) {
	service, ts := newTestServer(t)
	service.List()[1].Step()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var info struct {
		Calculated bool `json:"calculated"`
	}
	getJSON(t, ts.URL+"/version", &info)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, strings.Contains(string(body), "neon_world_ticks_total"))
}
