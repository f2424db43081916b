// Package feed fans published records out to live subscribers.
package feed

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"marketevents/internal/event"
)

// Message is one published batch as seen by subscribers.
type Message struct {
	Task        string         `json:"task"`
	PublishedAt time.Time      `json:"published_at"`
	Records     []event.Record `json:"records"`
}

// Hub fans messages out to subscriber channels. Slow subscribers drop
// messages instead of blocking the publisher.
type Hub struct {
	mu      sync.RWMutex
	subs    map[uint64]chan Message
	nextID  uint64
	dropped uint64

	logger *zap.Logger
	now    func() time.Time
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   map[uint64]chan Message{},
		logger: logger,
		now:    time.Now,
	}
}

// Subscribe returns a channel of messages and a func that releases it.
func (h *Hub) Subscribe(buf int) (<-chan Message, func()) {
	if buf <= 0 {
		buf = 16
	}
	ch := make(chan Message, buf)
	h.mu.Lock()
	h.nextID++
	id := h.nextID
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

func (h *Hub) Broadcast(task string, records []event.Record) {
	if h == nil || len(records) == 0 {
		return
	}
	msg := Message{Task: task, PublishedAt: h.now().UTC(), Records: append([]event.Record(nil), records...)}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- msg:
		default:
			atomic.AddUint64(&h.dropped, 1)
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) Dropped() uint64 {
	return atomic.LoadUint64(&h.dropped)
}

// ServeWS upgrades the request and streams messages as JSON text frames
// until the client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("feed accept failed", zap.Error(err))
		}
		return
	}
	defer conn.CloseNow()

	ch, cancel := h.Subscribe(32)
	defer cancel()

	// Reads are discarded; CloseRead cancels ctx once the peer closes.
	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := h.write(ctx, conn, msg); err != nil {
				if h.logger != nil {
					h.logger.Debug("feed write failed", zap.Error(err))
				}
				return
			}
		}
	}
}

func (h *Hub) write(ctx context.Context, conn *websocket.Conn, msg Message) error {
	wctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return wsjson.Write(wctx, conn, msg)
}
