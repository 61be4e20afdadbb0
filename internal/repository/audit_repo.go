package repository

import (
	"context"
	"encoding/json"

	"bingo_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository handles developer action log database operations
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new developer action entry
func (r *AuditRepository) Create(ctx context.Context, a *domain.DevAction) error {
	detailsJSON, err := json.Marshal(a.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO dev_actions (id, game_id, actor, action, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, a.ID, a.GameID, a.Actor, a.Action, detailsJSON).Scan(&a.CreatedAt)
}

// GetByGame returns the most recent developer actions of a session
func (r *AuditRepository) GetByGame(ctx context.Context, gameID string, limit int) ([]*domain.DevAction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, game_id, actor, action, details, created_at
		FROM dev_actions
		WHERE game_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, gameID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDevActions(rows)
}

func scanDevActions(rows pgx.Rows) ([]*domain.DevAction, error) {
	var actions []*domain.DevAction
	for rows.Next() {
		var a domain.DevAction
		var detailsJSON []byte
		if err := rows.Scan(&a.ID, &a.GameID, &a.Actor, &a.Action, &detailsJSON, &a.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(detailsJSON, &a.Details); err != nil {
			a.Details = make(map[string]interface{})
		}
		actions = append(actions, &a)
	}
	return actions, rows.Err()
}
