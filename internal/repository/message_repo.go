package repository

import (
	"context"

	"bingo_webapp/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository stores session chat transcripts
type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.ChatMessage) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO messages (id, game_id, player_id, sender, text, is_system)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		m.ID, m.GameID, m.PlayerID, m.Sender, m.Text, m.IsSystem,
	).Scan(&m.CreatedAt)
}

// ListByGame returns the latest limit messages, oldest first.
func (r *MessageRepository) ListByGame(ctx context.Context, gameID string, limit int) ([]*domain.ChatMessage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, game_id, player_id, sender, text, is_system, created_at FROM (
		     SELECT * FROM messages WHERE game_id = $1 ORDER BY created_at DESC LIMIT $2
		 ) m ORDER BY created_at`, gameID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.GameID, &m.PlayerID, &m.Sender, &m.Text, &m.IsSystem, &m.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &m)
	}
	return res, rows.Err()
}
