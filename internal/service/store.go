package service

import (
	"context"

	"bingo_webapp/internal/domain"
)

// Store is the persistence contract of the bingo engine. AppendCalledNumber
// and FinishWithWinner are conditional and return repository.ErrRaceLost
// when the row no longer matches what the caller expects.
type Store interface {
	Ping(ctx context.Context) error

	CreateGame(ctx context.Context, g *domain.Game) error
	GetGame(ctx context.Context, id string) (*domain.Game, error)
	SetStatus(ctx context.Context, id string, status domain.GameStatus) error
	AppendCalledNumber(ctx context.Context, id string, expectedLen int, n int) error
	SetStagedNumber(ctx context.Context, id string, n *int) error
	SetPattern(ctx context.Context, id string, pattern string) error
	ResetGame(ctx context.Context, id string) error
	FinishWithWinner(ctx context.Context, w *domain.Winner) error
	ListWinners(ctx context.Context, gameID string) ([]*domain.Winner, error)

	CreatePlayer(ctx context.Context, p *domain.Player, cards []*domain.Card) error
	GetPlayer(ctx context.Context, id string) (*domain.Player, error)
	ListPlayers(ctx context.Context, gameID string) ([]*domain.Player, error)
	CreateCards(ctx context.Context, playerID string, cards []*domain.Card) error
	GetCard(ctx context.Context, id string) (*domain.Card, error)
	ListPlayerCards(ctx context.Context, playerID string) ([]*domain.Card, error)
	SetCardMarked(ctx context.Context, cardID string, marked []int) error

	CreateMessage(ctx context.Context, m *domain.ChatMessage) error
	ListMessages(ctx context.Context, gameID string, limit int) ([]*domain.ChatMessage, error)
	CreateDevAction(ctx context.Context, a *domain.DevAction) error
	ListDevActions(ctx context.Context, gameID string, limit int) ([]*domain.DevAction, error)
}

// Publisher delivers session events to the session's observers in call order.
type Publisher interface {
	Publish(ctx context.Context, sessionID string, eventType domain.EventType, payload any) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, domain.EventType, any) error { return nil }
