package network

import (
	"sync"
)

// TickEvent - уведомление о завершенном тике мира.
// Подписчик сам решает, какую область карты перечитать.
type TickEvent struct {
	Tick int
}

// Broadcaster занимается только рассылкой уведомлений подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ID подписчика -> Личный канал
	subscribers map[string]chan TickEvent
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan TickEvent),
	}
}

// Register создает личный канал для подписчика
func (b *Broadcaster) Register(id string) chan TickEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[id]; ok {
		close(old)
	}

	ch := make(chan TickEvent, 16)
	b.subscribers[id] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
}

// Broadcast отправляет всем. Медленный подписчик теряет уведомление, а не тормозит мир.
func (b *Broadcaster) Broadcast(ev TickEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
