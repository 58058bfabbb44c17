package engine

import (
	"container/heap"

	"github.com/kosmonet/neon-sub001/internal/core/types"
	"github.com/kosmonet/neon-sub001/internal/domain"
	"github.com/kosmonet/neon-sub001/pkg/logger"
)

// TurnManager manages the priority queue of entity turns.
type TurnManager struct {
	queue   TurnQueue
	itemMap map[types.EntityID]*TurnItem
}

func NewTurnManager() *TurnManager {
	return &TurnManager{
		queue:   make(TurnQueue, 0),
		itemMap: make(map[types.EntityID]*TurnItem),
	}
}

// AddEntity registers an entity in the turn system. Entities without AI never act.
func (tm *TurnManager) AddEntity(e *domain.Entity) {
	if e.AI == nil {
		return
	}
	if _, ok := tm.itemMap[e.ID]; ok {
		return
	}

	item := &TurnItem{
		Value:    e,
		Priority: e.AI.NextActionTick,
	}

	heap.Push(&tm.queue, item)
	tm.itemMap[e.ID] = item

	logger.Log.WithField("entity_id", e.ID).Debug("Entity added to TurnManager")
}

// UpdatePriority updates an entity's position in the queue (e.g. after they acted).
func (tm *TurnManager) UpdatePriority(entityID types.EntityID, newTick int) {
	if item, ok := tm.itemMap[entityID]; ok {
		tm.queue.Update(item, newTick)
	}
}

// PeekNext returns the entity whose turn is next, without removing them.
func (tm *TurnManager) PeekNext() *TurnItem {
	if tm.queue.Len() == 0 {
		return nil
	}
	return tm.queue[0]
}

// RemoveEntity removes an entity from the turn system.
func (tm *TurnManager) RemoveEntity(entityID types.EntityID) {
	if item, ok := tm.itemMap[entityID]; ok {
		heap.Remove(&tm.queue, item.Index)
		delete(tm.itemMap, entityID)
	}
}

func (tm *TurnManager) Len() int {
	return tm.queue.Len()
}

// QueueEntry - строка дампа очереди для /debug/queue
type QueueEntry struct {
	EntityID types.EntityID `json:"entity_id"`
	Name     string         `json:"name"`
	Priority int            `json:"next_tick"`
	Index    int            `json:"index"`
}

// DebugDump возвращает снимок очереди для отладки (порядок кучи, не порядок ходов)
func (tm *TurnManager) DebugDump() []QueueEntry {
	// Пустой слайс, а не nil: в JSON это будет "[]", а не "null"
	result := make([]QueueEntry, 0, len(tm.queue))
	for _, item := range tm.queue {
		result = append(result, QueueEntry{
			EntityID: item.Value.ID,
			Name:     item.Value.Name,
			Priority: item.Priority,
			Index:    item.Index,
		})
	}
	return result
}
