package domain

import "time"

// GameStatus - статус игровой сессии
type GameStatus string

const (
	GameStatusWaiting  GameStatus = "waiting"
	GameStatusPlaying  GameStatus = "playing"
	GameStatusPaused   GameStatus = "paused"
	GameStatusFinished GameStatus = "finished"
)

// Draw and grid constants
const (
	MaxNumber     = 75
	CardSize      = 25
	FreeCellIndex = 12
)

// Game - одна сессия бинго, идентифицируется коротким кодом
type Game struct {
	ID            string     `db:"id" json:"id"`
	HostID        string     `db:"host_id" json:"host_id"`
	HostName      string     `db:"host_name" json:"host_name"`
	Status        GameStatus `db:"status" json:"status"`
	PlayerLimit   int        `db:"player_limit" json:"player_limit"`
	WinPattern    string     `db:"win_pattern" json:"win_pattern"`
	CalledNumbers []int      `db:"called_numbers" json:"called_numbers"`
	StagedNumber  *int       `db:"staged_number" json:"staged_number,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// IsCalled reports whether n is already in the draw.
func (g *Game) IsCalled(n int) bool {
	for _, c := range g.CalledNumbers {
		if c == n {
			return true
		}
	}
	return false
}

// Exhausted reports whether every number has been drawn.
func (g *Game) Exhausted() bool {
	return len(g.CalledNumbers) >= MaxNumber
}

// Clone returns a deep copy so callers never share slices with the store.
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	cp := *g
	cp.CalledNumbers = append([]int(nil), g.CalledNumbers...)
	if g.StagedNumber != nil {
		n := *g.StagedNumber
		cp.StagedNumber = &n
	}
	return &cp
}

// Player - участник сессии
type Player struct {
	ID        string    `db:"id" json:"id"`
	GameID    string    `db:"game_id" json:"game_id"`
	Name      string    `db:"name" json:"name"`
	CardCount int       `db:"card_count" json:"card_count"`
	JoinedAt  time.Time `db:"joined_at" json:"joined_at"`
}

// Card - карточка 5x5, числа хранятся по колонкам (B, I, N, G, O)
type Card struct {
	ID       string `db:"id" json:"id"`
	PlayerID string `db:"player_id" json:"player_id"`
	GameID   string `db:"game_id" json:"game_id"`
	Numbers  []int  `db:"numbers" json:"numbers"`
	Marked   []int  `db:"marked" json:"marked"`
}

// Clone returns a deep copy of the card.
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Numbers = append([]int(nil), c.Numbers...)
	cp.Marked = append([]int(nil), c.Marked...)
	return &cp
}

// Winner - принятая заявка на бинго
type Winner struct {
	ID       string    `db:"id" json:"id"`
	GameID   string    `db:"game_id" json:"game_id"`
	PlayerID string    `db:"player_id" json:"player_id"`
	Name     string    `db:"name" json:"name"`
	Pattern  string    `db:"pattern" json:"pattern"`
	WonAt    time.Time `db:"won_at" json:"won_at"`
}
