package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"bingo_webapp/internal/domain"
	"bingo_webapp/internal/logger"
)

var ErrRoomClosed = errors.New("room closed")

// Room is the audience of one session
type Room struct {
	ID string

	mu         sync.Mutex
	clients    map[*Client]struct{}
	lastActive time.Time
	closed     bool

	qmu   sync.Mutex // orders seq assignment with queue insertion
	seq   uint64
	queue chan domain.Event
	done  chan struct{}
	once  sync.Once

	sendTimeout time.Duration
}

func newRoom(id string, queueSize int, sendTimeout time.Duration) *Room {
	return &Room{
		ID:          id,
		clients:     make(map[*Client]struct{}),
		lastActive:  time.Now(),
		queue:       make(chan domain.Event, queueSize),
		done:        make(chan struct{}),
		sendTimeout: sendTimeout,
	}
}

func (r *Room) run() {
	for {
		select {
		case ev := <-r.queue:
			r.deliver(ev)
		case <-r.done:
			return
		}
	}
}

func (r *Room) enqueue(ctx context.Context, eventType domain.EventType, payload any) error {
	r.qmu.Lock()
	defer r.qmu.Unlock()

	ev := domain.Event{
		Seq:       r.seq + 1,
		Type:      eventType,
		SessionID: r.ID,
		Payload:   payload,
	}
	select {
	case r.queue <- ev:
		r.seq++
		return nil
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Room) deliver(ev domain.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Error("Room.deliver: marshal failed", "session_id", r.ID, "type", ev.Type, "error", err)
		return
	}

	for _, c := range r.snapshot() {
		if !c.enqueue(data, r.sendTimeout) {
			logger.Warn("Room.deliver: dropping slow observer", "session_id", r.ID, "client_id", c.ID)
			ClientsDropped.Inc()
			r.remove(c)
			c.Close()
		}
	}
}

func (r *Room) snapshot() []*Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		out = append(out, c)
	}
	return out
}

func (r *Room) add(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	if _, ok := r.clients[c]; !ok {
		r.clients[c] = struct{}{}
		Observers.Inc()
	}
	r.lastActive = time.Now()
	return true
}

func (r *Room) remove(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[c]; ok {
		delete(r.clients, c)
		Observers.Dec()
	}
	r.lastActive = time.Now()
}

func (r *Room) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// closeIfIdle closes the room when it has had no observers for ttl.
func (r *Room) closeIfIdle(ttl time.Duration) bool {
	r.mu.Lock()
	idle := len(r.clients) == 0 && time.Since(r.lastActive) > ttl
	if idle {
		r.closed = true
	}
	r.mu.Unlock()

	if idle {
		r.once.Do(func() { close(r.done) })
	}
	return idle
}

func (r *Room) close() {
	r.mu.Lock()
	r.closed = true
	n := len(r.clients)
	r.clients = make(map[*Client]struct{})
	r.mu.Unlock()

	Observers.Sub(float64(n))
	r.once.Do(func() { close(r.done) })
}
