package repository

import (
	"context"
	"errors"

	"bingo_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlayerRepository stores players and their cards
type PlayerRepository struct {
	db *pgxpool.Pool
}

func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Create inserts the player together with its cards in one transaction.
func (r *PlayerRepository) Create(ctx context.Context, p *domain.Player, cards []*domain.Card) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p.CardCount = len(cards)
	if err := tx.QueryRow(ctx,
		`INSERT INTO players (id, game_id, name, card_count)
		 VALUES ($1, $2, $3, $4)
		 RETURNING joined_at`,
		p.ID, p.GameID, p.Name, p.CardCount,
	).Scan(&p.JoinedAt); err != nil {
		return err
	}

	if err := insertCards(ctx, tx, cards); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// AddCards appends cards to an existing player and bumps its card count.
func (r *PlayerRepository) AddCards(ctx context.Context, playerID string, cards []*domain.Card) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE players SET card_count = card_count + $2 WHERE id = $1`, playerID, len(cards))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if err := insertCards(ctx, tx, cards); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PlayerRepository) GetByID(ctx context.Context, id string) (*domain.Player, error) {
	var p domain.Player
	err := r.db.QueryRow(ctx,
		`SELECT id, game_id, name, card_count, joined_at FROM players WHERE id = $1`, id,
	).Scan(&p.ID, &p.GameID, &p.Name, &p.CardCount, &p.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlayerRepository) ListByGame(ctx context.Context, gameID string) ([]*domain.Player, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, game_id, name, card_count, joined_at
		 FROM players
		 WHERE game_id = $1
		 ORDER BY joined_at, id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Player
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.ID, &p.GameID, &p.Name, &p.CardCount, &p.JoinedAt); err != nil {
			return nil, err
		}
		res = append(res, &p)
	}
	return res, rows.Err()
}

func (r *PlayerRepository) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	var c domain.Card
	err := r.db.QueryRow(ctx,
		`SELECT id, player_id, game_id, numbers, marked FROM cards WHERE id = $1`, id,
	).Scan(&c.ID, &c.PlayerID, &c.GameID, &c.Numbers, &c.Marked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PlayerRepository) ListCards(ctx context.Context, playerID string) ([]*domain.Card, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, player_id, game_id, numbers, marked
		 FROM cards
		 WHERE player_id = $1
		 ORDER BY seq`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Card
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(&c.ID, &c.PlayerID, &c.GameID, &c.Numbers, &c.Marked); err != nil {
			return nil, err
		}
		res = append(res, &c)
	}
	return res, rows.Err()
}

func (r *PlayerRepository) SetMarked(ctx context.Context, cardID string, marked []int) error {
	if marked == nil {
		marked = []int{}
	}
	tag, err := r.db.Exec(ctx, `UPDATE cards SET marked = $2 WHERE id = $1`, cardID, marked)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func insertCards(ctx context.Context, tx pgx.Tx, cards []*domain.Card) error {
	for _, c := range cards {
		if _, err := tx.Exec(ctx,
			`INSERT INTO cards (id, player_id, game_id, numbers, marked) VALUES ($1, $2, $3, $4, $5)`,
			c.ID, c.PlayerID, c.GameID, c.Numbers, c.Marked,
		); err != nil {
			return err
		}
	}
	return nil
}
