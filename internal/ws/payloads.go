package ws

// client → server
type inboundFrame struct {
	Type       string `json:"type"`
	GameID     string `json:"game_id"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Text       string `json:"text"`
}

// server → client
type JoinedPayload struct {
	GameID   string `json:"game_id"`
	ClientID string `json:"client_id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
