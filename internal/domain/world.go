package domain

import (
	"github.com/google/uuid"
	"github.com/kosmonet/neon-sub001/internal/core/types"
	"github.com/kosmonet/neon-sub001/internal/spatial"
)

// DefaultFill - вместимость листа индекса сущностей по умолчанию
const DefaultFill = 8

// GameWorld - одна карта: поверхность, высоты и позиции сущностей.
//
// Поверхность и высоты хранятся в RegionTree (сжатие одинаковых областей),
// позиции сущностей - в PointTree. Мир не потокобезопасен: владелец
// (engine.Instance) сериализует доступ.
type GameWorld struct {
	ID         uuid.UUID `json:"id"`
	Level      int       `json:"level"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	GlobalTick int       `json:"globalTick"`

	// json:"-": индексы не отправляем клиенту целиком
	Terrain   *spatial.RegionTree[Terrain]       `json:"-"`
	Elevation *spatial.RegionTree[int]           `json:"-"`
	Spatial   *spatial.PointTree[types.EntityID] `json:"-"`
	Registry  map[types.EntityID]*Entity         `json:"-"`
}

// NewGameWorld создаёт пустую карту width×height.
// fill - вместимость листа индекса сущностей (<= 0 означает DefaultFill).
func NewGameWorld(level, width, height, fill int) *GameWorld {
	if fill <= 0 {
		fill = DefaultFill
	}
	return &GameWorld{
		ID:        uuid.New(),
		Level:     level,
		Width:     width,
		Height:    height,
		Terrain:   spatial.NewRegionTree[Terrain](width, height),
		Elevation: spatial.NewRegionTree[int](width, height),
		Spatial:   spatial.NewPointTree[types.EntityID](spatial.Rect{W: width, H: height}, fill),
		Registry:  make(map[types.EntityID]*Entity),
	}
}

// InBounds проверяет, лежит ли клетка внутри карты
func (w *GameWorld) InBounds(x, y int) bool {
	return x >= 0 && x < w.Width && y >= 0 && y < w.Height
}

// GetIndex - линейный индекс клетки (ключ для карт видимости и памяти)
func (w *GameWorld) GetIndex(x, y int) int {
	return y*w.Width + x
}
