package domain

import "time"

// DevAction represents a privileged host/developer override recorded for a session
type DevAction struct {
	ID        string                 `db:"id" json:"id"`
	GameID    string                 `db:"game_id" json:"game_id"`
	Actor     string                 `db:"actor" json:"actor"`
	Action    string                 `db:"action" json:"action"`
	Details   map[string]interface{} `db:"details" json:"details"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Dev actions
const (
	DevActionStageNumber = "stage_number"
)

// ChatMessage is one line of a session's chat transcript
type ChatMessage struct {
	ID        string    `db:"id" json:"id"`
	GameID    string    `db:"game_id" json:"game_id"`
	PlayerID  string    `db:"player_id" json:"player_id,omitempty"`
	Sender    string    `db:"sender" json:"sender"`
	Text      string    `db:"text" json:"text"`
	IsSystem  bool      `db:"is_system" json:"is_system"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
