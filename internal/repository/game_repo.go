package repository

import (
	"context"
	"errors"

	"bingo_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GameRepository stores bingo sessions and their winners
type GameRepository struct {
	db *pgxpool.Pool
}

func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

const gameColumns = `id, host_id, host_name, status, player_limit, win_pattern, called_numbers, staged_number, created_at, updated_at`

func (r *GameRepository) Create(ctx context.Context, g *domain.Game) error {
	called := g.CalledNumbers
	if called == nil {
		called = []int{}
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO games (id, host_id, host_name, status, player_limit, win_pattern, called_numbers, staged_number)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		g.ID, g.HostID, g.HostName, g.Status, g.PlayerLimit, g.WinPattern, called, g.StagedNumber,
	).Scan(&g.CreatedAt, &g.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (*domain.Game, error) {
	row := r.db.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id)
	g, err := scanGame(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

func (r *GameRepository) SetStatus(ctx context.Context, id string, status domain.GameStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE games SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendCalledNumber appends n only while the draw still has expectedLen
// numbers, the session is playing and n is not drawn yet. Staged number is cleared.
func (r *GameRepository) AppendCalledNumber(ctx context.Context, id string, expectedLen int, n int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE games
		 SET called_numbers = array_append(called_numbers, $3::int), staged_number = NULL, updated_at = now()
		 WHERE id = $1
		   AND cardinality(called_numbers) = $2
		   AND status = 'playing'
		   AND NOT ($3::int = ANY(called_numbers))`,
		id, expectedLen, n)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return r.missingOrRace(ctx, id)
}

func (r *GameRepository) SetStagedNumber(ctx context.Context, id string, n *int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE games SET staged_number = $2, updated_at = now() WHERE id = $1`, id, n)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GameRepository) SetPattern(ctx context.Context, id string, pattern string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE games SET win_pattern = $2, updated_at = now() WHERE id = $1`, id, pattern)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Reset returns the session to waiting: empty draw, no staged number,
// no winners and every card back to the free cell only.
func (r *GameRepository) Reset(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE games
		 SET status = 'waiting', called_numbers = '{}', staged_number = NULL, updated_at = now()
		 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM winners WHERE game_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE cards SET marked = ARRAY[$2::int] WHERE game_id = $1`, id, domain.FreeCellIndex); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// FinishWithWinner records w and flips the session to finished in one
// transaction. Returns ErrRaceLost if the session is no longer playing.
func (r *GameRepository) FinishWithWinner(ctx context.Context, w *domain.Winner) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status domain.GameStatus
	err = tx.QueryRow(ctx, `SELECT status FROM games WHERE id = $1 FOR UPDATE`, w.GameID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if status != domain.GameStatusPlaying {
		return ErrRaceLost
	}

	if err := tx.QueryRow(ctx,
		`INSERT INTO winners (id, game_id, player_id, name, pattern)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING won_at`,
		w.ID, w.GameID, w.PlayerID, w.Name, w.Pattern,
	).Scan(&w.WonAt); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE games SET status = 'finished', updated_at = now() WHERE id = $1`, w.GameID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *GameRepository) ListWinners(ctx context.Context, gameID string) ([]*domain.Winner, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, game_id, player_id, name, pattern, won_at
		 FROM winners
		 WHERE game_id = $1
		 ORDER BY won_at`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Winner
	for rows.Next() {
		var w domain.Winner
		if err := rows.Scan(&w.ID, &w.GameID, &w.PlayerID, &w.Name, &w.Pattern, &w.WonAt); err != nil {
			return nil, err
		}
		res = append(res, &w)
	}
	return res, rows.Err()
}

func (r *GameRepository) missingOrRace(ctx context.Context, id string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM games WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrRaceLost
}

func scanGame(row pgx.Row) (*domain.Game, error) {
	var g domain.Game
	if err := row.Scan(
		&g.ID, &g.HostID, &g.HostName, &g.Status, &g.PlayerLimit, &g.WinPattern,
		&g.CalledNumbers, &g.StagedNumber, &g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if g.CalledNumbers == nil {
		g.CalledNumbers = []int{}
	}
	return &g, nil
}
