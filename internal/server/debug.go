package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/kosmonet/neon-sub001/internal/domain"
	"github.com/kosmonet/neon-sub001/internal/engine"
	"github.com/kosmonet/neon-sub001/internal/spatial"
	"github.com/kosmonet/neon-sub001/pkg/logger"
	"github.com/segmentio/encoding/json"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.Service
}

func NewDebugHandler(s *engine.Service) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/worlds", h.handleListWorlds)
	mux.HandleFunc("/debug/terrain", h.handleTerrain)
	mux.HandleFunc("/debug/entities", h.handleDumpEntities)
	mux.HandleFunc("/debug/tile", h.handleTile)
	mux.HandleFunc("/debug/queue", h.handleTurnQueue)
}

// /debug/worlds - список активных миров и форма их индексов
func (h *DebugHandler) handleListWorlds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Summaries())
}

// TerrainDump - карта поверхности в виде записей регионов
type TerrainDump struct {
	WorldID string                `json:"worldId"`
	Width   int                   `json:"width"`
	Height  int                   `json:"height"`
	Regions []domain.RegionRecord `json:"regions"`
}

// /debug/terrain?world=ID
func (h *DebugHandler) handleTerrain(w http.ResponseWriter, r *http.Request) {
	inst, err := h.Service.Lookup(r.URL.Query().Get("world"))
	if err != nil {
		writeError(w, err)
		return
	}

	var dump TerrainDump
	inst.Read(func(world *domain.GameWorld) {
		dump = TerrainDump{
			WorldID: world.ID.String(),
			Width:   world.Width,
			Height:  world.Height,
			Regions: world.TerrainRecords(),
		}
	})
	writeJSON(w, dump)
}

// /debug/entities?world=ID&x=0&y=0&w=10&h=10 - дамп сущностей в области (включая AI стейт).
// Без w/h отдается вся карта.
func (h *DebugHandler) handleDumpEntities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	inst, err := h.Service.Lookup(q.Get("world"))
	if err != nil {
		writeError(w, err)
		return
	}

	var area spatial.Rect
	for _, p := range []struct {
		name string
		dst  *int
	}{{"x", &area.X}, {"y", &area.Y}, {"w", &area.W}, {"h", &area.H}} {
		if *p.dst, err = intParam(q.Get(p.name)); err != nil {
			http.Error(w, "bad parameter "+p.name, http.StatusBadRequest)
			return
		}
	}
	if area.W < 0 || area.H < 0 {
		http.Error(w, "negative area size", http.StatusBadRequest)
		return
	}

	writeJSON(w, inst.Snapshot(area))
}

// TileInfo - все, что известно о клетке
type TileInfo struct {
	X         int              `json:"x"`
	Y         int              `json:"y"`
	Terrain   domain.Terrain   `json:"terrain"`
	Elevation int              `json:"elevation"`
	Walkable  bool             `json:"walkable"`
	Entities  []*domain.Entity `json:"entities"`
}

// /debug/tile?world=ID&x=3&y=4
func (h *DebugHandler) handleTile(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	inst, err := h.Service.Lookup(q.Get("world"))
	if err != nil {
		writeError(w, err)
		return
	}

	x, errX := intParam(q.Get("x"))
	y, errY := intParam(q.Get("y"))
	if errX != nil || errY != nil {
		http.Error(w, "bad coordinates", http.StatusBadRequest)
		return
	}

	info := TileInfo{X: x, Y: y}
	inst.Read(func(world *domain.GameWorld) {
		info.Terrain, err = world.TerrainAt(x, y)
		if err != nil {
			return
		}
		info.Elevation = world.ElevationAt(x, y)
		info.Walkable = world.IsWalkable(x, y)
		info.Entities = world.Snapshot(spatial.Rect{X: x, Y: y, W: 1, H: 1}).Entities
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, info)
}

// /debug/queue?world=ID - просмотр очереди ходов.
// Это куча, порядок в слайсе не совпадает с порядком ходов, но для дебага сойдет.
func (h *DebugHandler) handleTurnQueue(w http.ResponseWriter, r *http.Request) {
	inst, err := h.Service.Lookup(r.URL.Query().Get("world"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, inst.Queue())
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// writeError переводит ошибки движка в HTTP статусы
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrBadWorldID), errors.Is(err, spatial.ErrOutOfBounds):
		status = http.StatusBadRequest
	case errors.Is(err, engine.ErrWorldNotFound):
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug_client.html)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	body, err := json.Marshal(data)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to encode debug response")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
