package domain

import (
	"github.com/google/uuid"
	"github.com/kosmonet/neon-sub001/internal/spatial"
)

// WorldSummary - краткая сводка карты для /debug/worlds
type WorldSummary struct {
	ID          uuid.UUID     `json:"id"`
	Level       int           `json:"level"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	Tick        int           `json:"tick"`
	EntityCount int           `json:"entityCount"`
	Terrain     spatial.Stats `json:"terrain"`
	Elevation   spatial.Stats `json:"elevation"`
	Entities    spatial.Stats `json:"entities"`
	Bounds      spatial.Rect  `json:"entityBounds"`
}

func (w *GameWorld) Summary() WorldSummary {
	return WorldSummary{
		ID:          w.ID,
		Level:       w.Level,
		Width:       w.Width,
		Height:      w.Height,
		Tick:        w.GlobalTick,
		EntityCount: len(w.Registry),
		Terrain:     w.Terrain.Stats(),
		Elevation:   w.Elevation.Stats(),
		Entities:    w.Spatial.Stats(),
		Bounds:      w.Spatial.Bounds(),
	}
}

// EntitySnapshot - состояние сущностей в области для /debug/entities и /ws
type EntitySnapshot struct {
	WorldID  uuid.UUID    `json:"worldId"`
	Tick     int          `json:"tick"`
	Area     spatial.Rect `json:"area"`
	Entities []*Entity    `json:"entities"`
}

// Snapshot собирает сущности внутри area. Пустая area означает всю карту.
// Возвращаемые Entity - копии, их можно сериализовать вне блокировки мира.
func (w *GameWorld) Snapshot(area spatial.Rect) EntitySnapshot {
	if area.Empty() {
		area = spatial.Rect{W: w.Width, H: w.Height}
	}
	found := w.GetEntitiesIn(area)
	entities := make([]*Entity, 0, len(found))
	for _, e := range found {
		cp := *e
		if e.AI != nil {
			ai := *e.AI
			cp.AI = &ai
		}
		entities = append(entities, &cp)
	}
	return EntitySnapshot{
		WorldID:  w.ID,
		Tick:     w.GlobalTick,
		Area:     area,
		Entities: entities,
	}
}
