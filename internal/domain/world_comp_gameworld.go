package domain

import (
	"fmt"
	"slices"

	"github.com/kosmonet/neon-sub001/internal/core/types"
	"github.com/kosmonet/neon-sub001/internal/spatial"
)

// GetEntity ищет сущность по ID
func (w *GameWorld) GetEntity(id types.EntityID) *Entity {
	return w.Registry[id]
}

// AddEntity регистрирует сущность и кладёт её в индекс позиций.
// Точка вне карты не ошибка: индекс позиций растёт сам.
func (w *GameWorld) AddEntity(e *Entity) error {
	if _, ok := w.Registry[e.ID]; ok {
		return fmt.Errorf("%w: %v", ErrEntityExists, e.ID)
	}
	w.Registry[e.ID] = e
	w.Spatial.Insert(e.ID, e.Pos.X, e.Pos.Y)
	return nil
}

// RemoveEntity убирает сущность из реестра и индекса (смерть, уход с уровня)
func (w *GameWorld) RemoveEntity(id types.EntityID) error {
	if _, ok := w.Registry[id]; !ok {
		return fmt.Errorf("%w: %v", ErrEntityNotFound, id)
	}
	if err := w.Spatial.Remove(id); err != nil {
		return err
	}
	delete(w.Registry, id)
	return nil
}

// UpdateEntityPos перемещает сущность в индексе и обновляет её копию позиции
func (w *GameWorld) UpdateEntityPos(e *Entity, newX, newY int) error {
	if err := w.Spatial.Move(e.ID, newX, newY); err != nil {
		return fmt.Errorf("%w: %w", ErrEntityNotFound, err)
	}
	e.Pos.X = newX
	e.Pos.Y = newY
	return nil
}

// GetEntitiesAt возвращает сущности в конкретной клетке
func (w *GameWorld) GetEntitiesAt(x, y int) []*Entity {
	return w.resolve(w.Spatial.Get(x, y))
}

// GetEntitiesIn возвращает сущности внутри прямоугольника, упорядоченные по ID
func (w *GameWorld) GetEntitiesIn(r spatial.Rect) []*Entity {
	return w.resolve(w.Spatial.GetRect(r))
}

func (w *GameWorld) resolve(ids []types.EntityID) []*Entity {
	if len(ids) == 0 {
		return nil
	}
	slices.Sort(ids)
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := w.Registry[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Entities возвращает все сущности карты, упорядоченные по ID
func (w *GameWorld) Entities() []*Entity {
	return w.resolve(w.Spatial.Elements())
}
