package notify

import (
	"sync"
	"time"
)

// Hub раздает уведомления подписчикам (SSE-поток админки).
// Медленный подписчик уведомления теряет: буфер канала ограничен,
// блокировать мутации нельзя.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Notification]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[chan Notification]struct{}),
	}
}

func (h *Hub) Notify(kind Kind, title, description string) {
	n := Notification{
		Kind:        kind,
		Title:       title,
		Description: description,
		At:          time.Now().UTC(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

// Subscribe возвращает канал уведомлений и функцию отписки.
func (h *Hub) Subscribe() (<-chan Notification, func()) {
	ch := make(chan Notification, 16)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}

	return ch, cancel
}

// Fanout отправляет уведомления сразу в несколько приемников
// (например, в журнал и в поток админки).
type Fanout []Notifier

func (f Fanout) Notify(kind Kind, title, description string) {
	for _, n := range f {
		n.Notify(kind, title, description)
	}
}
