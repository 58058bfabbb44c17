package api

import (
	"github.com/kosmonet/neon-sub001/internal/domain"
	"github.com/kosmonet/neon-sub001/internal/spatial"
)

// Типы кадров потока
const (
	TypeSnapshot = "SNAPSHOT"
	TypeError    = "ERROR"
)

// Действия клиента
const (
	ActionView = "VIEW"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это корневой объект, который сервер отправляет клиенту потока /ws.
// Отправляется при подключении, после каждого тика мира и после смены области просмотра.
type ServerResponse struct {
	// Type тип сообщения: SNAPSHOT или ERROR.
	Type string `json:"type"`

	// WorldID мир, к которому привязан поток.
	WorldID string `json:"worldId"`

	// Tick текущее игровое время мира.
	Tick int `json:"tick"`

	// Grid метаданные о размере всей карты.
	Grid *GridMeta `json:"grid,omitempty"`

	// Area область, по которой собраны сущности.
	Area *AreaPayload `json:"area,omitempty"`

	// Entities сущности внутри Area.
	Entities []EntityView `json:"entities"`

	// Error текст ошибки для кадров ERROR.
	Error string `json:"error,omitempty"`
}

// GridMeta содержит общие размеры карты
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// EntityView это DTO для игровой сущности.
type EntityView struct {
	ID   string `json:"id"`
	Type string `json:"type"` // PLAYER, NPC, MONSTER, ITEM, EXIT
	Name string `json:"name"`

	Pos struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"pos"`

	Render struct {
		Symbol string `json:"symbol"`
		Color  string `json:"color"`
	} `json:"render"`
}

// NewEntityView собирает DTO из сущности
func NewEntityView(e *domain.Entity) EntityView {
	v := EntityView{
		ID:   e.ID.String(),
		Type: e.Type.String(),
		Name: e.Name,
	}
	v.Pos.X, v.Pos.Y = e.Pos.X, e.Pos.Y
	if e.Render != nil {
		v.Render.Symbol = e.Render.Symbol
		v.Render.Color = e.Render.Color
	}
	return v
}

// NewSnapshotResponse собирает кадр SNAPSHOT
func NewSnapshotResponse(snap domain.EntitySnapshot, width, height int) ServerResponse {
	area := AreaFromRect(snap.Area)
	resp := ServerResponse{
		Type:     TypeSnapshot,
		WorldID:  snap.WorldID.String(),
		Tick:     snap.Tick,
		Grid:     &GridMeta{Width: width, Height: height},
		Area:     &area,
		Entities: make([]EntityView, 0, len(snap.Entities)),
	}
	for _, e := range snap.Entities {
		resp.Entities = append(resp.Entities, NewEntityView(e))
	}
	return resp
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Action название действия. Пока поддерживается только VIEW.
	Action string `json:"action"`

	// Area новая область просмотра для VIEW.
	Area *AreaPayload `json:"area,omitempty"`
}

// --- Payloads ---

// AreaPayload - прямоугольная область карты [x, x+w) × [y, y+h)
type AreaPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func (p AreaPayload) Rect() spatial.Rect {
	return spatial.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

func AreaFromRect(r spatial.Rect) AreaPayload {
	return AreaPayload{X: r.X, Y: r.Y, W: r.W, H: r.H}
}
