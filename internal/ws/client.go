package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"bingo_webapp/internal/domain"
	"bingo_webapp/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
	replyWait  = 500 * time.Millisecond

	sendBuffer = 64
)

// Client is one WebSocket observer. Send is never closed; done signals
// shutdown to both pumps and to rooms delivering to it.
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	mu         sync.Mutex
	sessionID  string
	playerID   string
	playerName string
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

// Run starts the pumps, optionally joins a session and blocks until the
// connection ends.
func (c *Client) Run(ctx context.Context, gameID, playerID, playerName string) {
	go c.writePump()

	c.reply(Message{Type: MsgReady, Payload: map[string]string{"client_id": c.ID}})

	if gameID != "" {
		c.join(ctx, gameID, playerID, playerName)
	}

	c.readPump(ctx)

	c.leave(context.Background())
	c.Close()
}

// Close is idempotent.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// SessionID returns the session the client currently observes.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// enqueue waits up to timeout for room in the send buffer.
func (c *Client) enqueue(data []byte, timeout time.Duration) bool {
	select {
	case c.send <- data:
		return true
	case <-c.done:
		return false
	default:
	}

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case c.send <- data:
		return true
	case <-c.done:
		return false
	case <-t.C:
		return false
	}
}

func (c *Client) reply(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if !c.enqueue(data, replyWait) {
		logger.Debug("Client.reply: dropped", "client_id", c.ID, "type", msg.Type)
	}
}

func (c *Client) replyError(text string) {
	c.reply(Message{Type: MsgError, Payload: ErrorPayload{Message: text}})
}

func (c *Client) handle(ctx context.Context, raw []byte) {
	var f inboundFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		c.replyError("invalid message")
		return
	}

	switch f.Type {
	case MsgPing:
		c.reply(Message{Type: MsgPong})
	case MsgJoinGame:
		if f.GameID == "" {
			c.replyError("game_id required")
			return
		}
		c.join(ctx, f.GameID, f.PlayerID, f.PlayerName)
	case MsgLeaveGame:
		c.leave(ctx)
		c.reply(Message{Type: MsgLeft, Payload: JoinedPayload{GameID: f.GameID, ClientID: c.ID}})
	case MsgChat:
		c.chat(ctx, f.Text)
	default:
		c.replyError("unknown message type")
	}
}

func (c *Client) join(ctx context.Context, gameID, playerID, playerName string) {
	if svc := c.hub.service(); svc != nil && !svc.GameExists(ctx, gameID) {
		c.replyError("game not found")
		return
	}

	if c.SessionID() != "" {
		c.leave(ctx)
	}

	c.mu.Lock()
	c.sessionID = gameID
	c.playerID = playerID
	c.playerName = playerName
	c.mu.Unlock()

	c.hub.Subscribe(gameID, c)
	logger.WithSession(gameID).Debug("observer joined", "client_id", c.ID, "player_id", playerID)
	c.reply(Message{Type: MsgJoined, Payload: JoinedPayload{GameID: gameID, ClientID: c.ID}})
}

// leave unsubscribes and announces player-left when the observer is a player.
func (c *Client) leave(ctx context.Context) {
	c.mu.Lock()
	sessionID, playerID, playerName := c.sessionID, c.playerID, c.playerName
	c.sessionID, c.playerID, c.playerName = "", "", ""
	c.mu.Unlock()

	if sessionID == "" {
		return
	}
	c.hub.Unsubscribe(sessionID, c)

	if playerID != "" {
		if err := c.hub.Publish(ctx, sessionID, domain.EventPlayerLeft, domain.PlayerLeftPayload{
			PlayerID:   playerID,
			PlayerName: playerName,
		}); err != nil {
			logger.WithSession(sessionID).Warn("publish player-left failed", "error", err)
		}
	}
}

func (c *Client) chat(ctx context.Context, text string) {
	c.mu.Lock()
	sessionID, playerID, playerName := c.sessionID, c.playerID, c.playerName
	c.mu.Unlock()

	if sessionID == "" {
		c.replyError("join a game first")
		return
	}
	svc := c.hub.service()
	if svc == nil {
		c.replyError("chat unavailable")
		return
	}
	if _, err := svc.PostMessage(ctx, sessionID, playerID, playerName, text); err != nil {
		c.replyError(err.Error())
	}
}

//read
func (c *Client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Client.readPump: read error", "client_id", c.ID, "error", err)
			}
			return
		}
		c.handle(ctx, msg)
	}
}

//write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("Client.writePump: write error", "client_id", c.ID, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
