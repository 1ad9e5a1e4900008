package stream

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"lpscout/internal/logger"
	"lpscout/internal/models"
)

// Hub fans published pool snapshots out to subscribers.
// Publish never blocks: a full subscriber buffer loses its oldest snapshot.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan models.PoolSnapshot
	nextID uint64

	logger  *zap.Logger
	dropped atomic.Uint64
}

func NewHub(l *zap.Logger) *Hub {
	return &Hub{
		subs:   map[uint64]chan models.PoolSnapshot{},
		logger: logger.OrNop(l),
	}
}

// Subscribe registers a subscriber. The returned cancel func removes it and closes the channel.
func (h *Hub) Subscribe(buf int) (<-chan models.PoolSnapshot, func()) {
	if buf <= 0 {
		buf = 4
	}
	ch := make(chan models.PoolSnapshot, buf)
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Publish(snap models.PoolSnapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		for {
			select {
			case ch <- snap:
			default:
				select {
				case <-ch:
					h.dropped.Add(1)
				default:
				}
				continue
			}
			break
		}
	}
	h.logger.Debug("snapshot published", zap.Int("subscribers", len(h.subs)), zap.Int("pools", len(snap.Pools)))
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped counts snapshots discarded because a subscriber fell behind.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}
