package ws

import (
	"context"
	"sync"
	"time"

	"bingo_webapp/internal/domain"
	"bingo_webapp/internal/logger"
)

const (
	defaultSendTimeout = 2 * time.Second
	defaultQueueSize   = 256
	roomIdleTTL        = time.Hour
)

// SessionService is what the hub needs from the bingo engine for inbound frames
type SessionService interface {
	GameExists(ctx context.Context, id string) bool
	PostMessage(ctx context.Context, sessionID, playerID, sender, text string) (*domain.ChatMessage, error)
}

// Hub fans session events out to the observers of each session. Every
// session has its own Room with a single delivery goroutine, so events of
// one session reach each observer in publish order.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	sessions    SessionService
	sendTimeout time.Duration
	queueSize   int
}

func NewHub() *Hub {
	return &Hub{
		rooms:       make(map[string]*Room),
		sendTimeout: defaultSendTimeout,
		queueSize:   defaultQueueSize,
	}
}

// Bind attaches the engine used for join validation and chat relay.
func (h *Hub) Bind(svc SessionService) {
	h.mu.Lock()
	h.sessions = svc
	h.mu.Unlock()
}

func (h *Hub) service() SessionService {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions
}

// SetSendTimeout bounds how long delivery waits on one observer.
func (h *Hub) SetSendTimeout(d time.Duration) {
	h.mu.Lock()
	h.sendTimeout = d
	h.mu.Unlock()
}

// Publish enqueues an event for the session's current observers. Sessions
// without observers drop the event; there is no history.
func (h *Hub) Publish(ctx context.Context, sessionID string, eventType domain.EventType, payload any) error {
	h.mu.RLock()
	room := h.rooms[sessionID]
	h.mu.RUnlock()

	if room == nil {
		return nil
	}
	if err := room.enqueue(ctx, eventType, payload); err != nil {
		return err
	}
	EventsPublished.WithLabelValues(string(eventType)).Inc()
	return nil
}

// Subscribe adds c to the session audience, creating the room on first use.
func (h *Hub) Subscribe(sessionID string, c *Client) {
	for {
		h.mu.Lock()
		room, ok := h.rooms[sessionID]
		if !ok {
			room = newRoom(sessionID, h.queueSize, h.sendTimeout)
			h.rooms[sessionID] = room
			go room.run()
		}
		h.mu.Unlock()

		if room.add(c) {
			return
		}
		// room was closed by cleanup between lookup and add
		h.mu.Lock()
		if h.rooms[sessionID] == room {
			delete(h.rooms, sessionID)
		}
		h.mu.Unlock()
	}
}

// Unsubscribe is idempotent.
func (h *Hub) Unsubscribe(sessionID string, c *Client) {
	h.mu.RLock()
	room := h.rooms[sessionID]
	h.mu.RUnlock()

	if room != nil {
		room.remove(c)
	}
}

// ObserverCount returns the number of current observers of a session.
func (h *Hub) ObserverCount(sessionID string) int {
	h.mu.RLock()
	room := h.rooms[sessionID]
	h.mu.RUnlock()

	if room == nil {
		return 0
	}
	return room.size()
}

func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

func (h *Hub) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				h.Close()
				return
			case <-ticker.C:
				h.cleanupIdleRooms(roomIdleTTL)
			}
		}
	}()
}

func (h *Hub) cleanupIdleRooms(ttl time.Duration) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	removed := 0
	for id, room := range h.rooms {
		if room.closeIfIdle(ttl) {
			delete(h.rooms, id)
			removed++
			logger.Debug("cleaned up idle room", "session_id", id)
		}
	}
	return removed
}

// Close stops every room goroutine.
func (h *Hub) Close() {
	h.mu.Lock()
	rooms := h.rooms
	h.rooms = make(map[string]*Room)
	h.mu.Unlock()

	for _, room := range rooms {
		room.close()
	}
}
