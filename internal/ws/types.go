package ws

const (
	// client - server
	MsgJoinGame  = "join-game"
	MsgLeaveGame = "leave-game"
	MsgChat      = "chat-message"
	MsgPing      = "ping"

	// server - client (events use their own type names)
	MsgReady  = "ready"
	MsgJoined = "joined"
	MsgLeft   = "left"
	MsgPong   = "pong"
	MsgError  = "error"
)

// Message is a control frame that is not a session event
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}
