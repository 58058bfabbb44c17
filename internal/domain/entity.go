package domain

import (
	"github.com/kosmonet/neon-sub001/internal/core/types"
	"github.com/kosmonet/neon-sub001/internal/core/types/enums"
)

type Entity struct {
	// Идентификация
	ID   types.EntityID   `json:"id"`
	Type enums.EntityType `json:"type"`
	Name string           `json:"name"`

	// Pos - копия позиции для клиента. Источник правды - GameWorld.Spatial,
	// поэтому менять её можно только через GameWorld.UpdateEntityPos.
	Pos Position `json:"pos"`

	// Компоненты (если nil - свойство отсутствует)
	Render *RenderComponent `json:"render,omitempty"`
	AI     *AIComponent     `json:"ai,omitempty"`
	Vision *VisionComponent `json:"vision,omitempty"`
}

// Blocks сообщает, занимает ли сущность клетку (в неё нельзя войти)
func (e *Entity) Blocks() bool {
	return e.Type.Blocks()
}
