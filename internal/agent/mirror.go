package agent

import (
	"slices"
	"strings"
	"sync"

	"github.com/kosmonet/neon-sub001/internal/spatial"
	"github.com/kosmonet/neon-sub001/pkg/api"
)

// Mirror - локальная копия того, что клиент видел в потоке.
// Сущности вне последней области просмотра остаются на последних известных местах.
type Mirror struct {
	mu sync.RWMutex

	Tick int
	Grid api.GridMeta

	index    *spatial.PointTree[string]
	entities map[string]api.EntityView
}

func NewMirror(fill int) *Mirror {
	return &Mirror{
		index:    spatial.NewPointTree[string](spatial.Rect{}, fill),
		entities: make(map[string]api.EntityView),
	}
}

// Apply накладывает кадр SNAPSHOT на копию.
// Внутри области кадра копия становится точной: пропавшие сущности удаляются.
func (m *Mirror) Apply(frame api.ServerResponse) {
	if frame.Type != api.TypeSnapshot {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Tick = frame.Tick
	if frame.Grid != nil {
		m.Grid = *frame.Grid
	}

	seen := make(map[string]bool, len(frame.Entities))
	for _, ev := range frame.Entities {
		seen[ev.ID] = true
		m.entities[ev.ID] = ev
		m.index.Insert(ev.ID, ev.Pos.X, ev.Pos.Y)
	}

	if frame.Area == nil {
		return
	}
	for _, id := range m.index.GetRect(frame.Area.Rect()) {
		if seen[id] {
			continue
		}
		if err := m.index.Remove(id); err == nil {
			delete(m.entities, id)
		}
	}
}

func (m *Mirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index.Len()
}

// Get возвращает последнюю известную копию сущности
func (m *Mirror) Get(id string) (api.EntityView, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ev, ok := m.entities[id]
	return ev, ok
}

// In возвращает сущности внутри r, упорядоченные по ID
func (m *Mirror) In(r spatial.Rect) []api.EntityView {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.index.GetRect(r)
	out := make([]api.EntityView, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.entities[id])
	}
	slices.SortFunc(out, func(a, b api.EntityView) int { return strings.Compare(a.ID, b.ID) })
	return out
}

func (m *Mirror) At(x, y int) []api.EntityView {
	return m.In(spatial.Rect{X: x, Y: y, W: 1, H: 1})
}
