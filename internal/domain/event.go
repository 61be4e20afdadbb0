package domain

import "time"

// EventType - имя события, рассылаемого наблюдателям сессии
type EventType string

const (
	EventPlayerJoined     EventType = "player-joined"
	EventPlayerLeft       EventType = "player-left"
	EventNumberCalled     EventType = "number-called"
	EventAllNumbersCalled EventType = "all-numbers-called"
	EventGameStarted      EventType = "game-started"
	EventGamePaused       EventType = "game-paused"
	EventGameRestarted    EventType = "game-restarted"
	EventPatternChanged   EventType = "pattern-changed"
	EventBingoInvalid     EventType = "bingo-invalid"
	EventGameEnded        EventType = "game-ended"
	EventChatMessage      EventType = "chat-message"
)

// Event is the envelope delivered to observers. Seq is assigned per session.
type Event struct {
	Seq       uint64    `json:"seq"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Payload   any       `json:"payload"`
}

type PlayerJoinedPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type PlayerLeftPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type NumberCalledPayload struct {
	Number    int   `json:"number"`
	Timestamp int64 `json:"timestamp"`
}

// TimestampPayload is used by all-numbers-called and the status events.
type TimestampPayload struct {
	Timestamp int64 `json:"timestamp"`
}

type PatternChangedPayload struct {
	Pattern   string `json:"pattern"`
	Timestamp int64  `json:"timestamp"`
}

type BingoInvalidPayload struct {
	PlayerID string `json:"playerId"`
	Message  string `json:"message"`
}

type GameEndedPayload struct {
	WinnerName string `json:"winnerName"`
	Pattern    string `json:"pattern"`
	Timestamp  int64  `json:"timestamp"`
}

type ChatMessagePayload struct {
	PlayerID   string `json:"playerId,omitempty"`
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
}

// Millis converts t to the Unix-millisecond timestamps used in payloads.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
