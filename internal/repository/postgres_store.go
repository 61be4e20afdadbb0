package repository

import (
	"context"

	"bingo_webapp/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore composes the pgx repositories into the session store used
// by the bingo service.
type PostgresStore struct {
	db       *pgxpool.Pool
	games    *GameRepository
	players  *PlayerRepository
	messages *MessageRepository
	audit    *AuditRepository
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db:       db,
		games:    NewGameRepository(db),
		players:  NewPlayerRepository(db),
		messages: NewMessageRepository(db),
		audit:    NewAuditRepository(db),
	}
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

func (s *PostgresStore) CreateGame(ctx context.Context, g *domain.Game) error {
	return s.games.Create(ctx, g)
}

func (s *PostgresStore) GetGame(ctx context.Context, id string) (*domain.Game, error) {
	return s.games.GetByID(ctx, id)
}

func (s *PostgresStore) SetStatus(ctx context.Context, id string, status domain.GameStatus) error {
	return s.games.SetStatus(ctx, id, status)
}

func (s *PostgresStore) AppendCalledNumber(ctx context.Context, id string, expectedLen int, n int) error {
	return s.games.AppendCalledNumber(ctx, id, expectedLen, n)
}

func (s *PostgresStore) SetStagedNumber(ctx context.Context, id string, n *int) error {
	return s.games.SetStagedNumber(ctx, id, n)
}

func (s *PostgresStore) SetPattern(ctx context.Context, id string, pattern string) error {
	return s.games.SetPattern(ctx, id, pattern)
}

func (s *PostgresStore) ResetGame(ctx context.Context, id string) error {
	return s.games.Reset(ctx, id)
}

func (s *PostgresStore) FinishWithWinner(ctx context.Context, w *domain.Winner) error {
	return s.games.FinishWithWinner(ctx, w)
}

func (s *PostgresStore) ListWinners(ctx context.Context, gameID string) ([]*domain.Winner, error) {
	return s.games.ListWinners(ctx, gameID)
}

func (s *PostgresStore) CreatePlayer(ctx context.Context, p *domain.Player, cards []*domain.Card) error {
	return s.players.Create(ctx, p, cards)
}

func (s *PostgresStore) GetPlayer(ctx context.Context, id string) (*domain.Player, error) {
	return s.players.GetByID(ctx, id)
}

func (s *PostgresStore) ListPlayers(ctx context.Context, gameID string) ([]*domain.Player, error) {
	return s.players.ListByGame(ctx, gameID)
}

func (s *PostgresStore) CreateCards(ctx context.Context, playerID string, cards []*domain.Card) error {
	return s.players.AddCards(ctx, playerID, cards)
}

func (s *PostgresStore) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	return s.players.GetCard(ctx, id)
}

func (s *PostgresStore) ListPlayerCards(ctx context.Context, playerID string) ([]*domain.Card, error) {
	return s.players.ListCards(ctx, playerID)
}

func (s *PostgresStore) SetCardMarked(ctx context.Context, cardID string, marked []int) error {
	return s.players.SetMarked(ctx, cardID, marked)
}

func (s *PostgresStore) CreateMessage(ctx context.Context, m *domain.ChatMessage) error {
	return s.messages.Create(ctx, m)
}

func (s *PostgresStore) ListMessages(ctx context.Context, gameID string, limit int) ([]*domain.ChatMessage, error) {
	return s.messages.ListByGame(ctx, gameID, limit)
}

func (s *PostgresStore) CreateDevAction(ctx context.Context, a *domain.DevAction) error {
	return s.audit.Create(ctx, a)
}

func (s *PostgresStore) ListDevActions(ctx context.Context, gameID string, limit int) ([]*domain.DevAction, error) {
	return s.audit.GetByGame(ctx, gameID, limit)
}
