package repository

import (
	"context"
	"testing"

	"bingo_webapp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedGame(t *testing.T, s *MemoryStore, status domain.GameStatus) *domain.Game {
	t.Helper()
	g := &domain.Game{ID: "ABC123", HostID: "h1", HostName: "Host", Status: status, PlayerLimit: 4, WinPattern: "line"}
	require.NoError(t, s.CreateGame(context.Background(), g))
	return g
}

func TestMemoryStore_AppendCalledNumber(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedGame(t, s, domain.GameStatusPlaying)

	staged := 9
	require.NoError(t, s.SetStagedNumber(ctx, "ABC123", &staged))
	require.NoError(t, s.AppendCalledNumber(ctx, "ABC123", 0, 9))

	g, err := s.GetGame(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, []int{9}, g.CalledNumbers)
	assert.Nil(t, g.StagedNumber)

	// stale expected length
	assert.ErrorIs(t, s.AppendCalledNumber(ctx, "ABC123", 0, 10), ErrRaceLost)
	// duplicate number
	assert.ErrorIs(t, s.AppendCalledNumber(ctx, "ABC123", 1, 9), ErrRaceLost)
	assert.ErrorIs(t, s.AppendCalledNumber(ctx, "nope", 0, 1), ErrNotFound)

	require.NoError(t, s.SetStatus(ctx, "ABC123", domain.GameStatusPaused))
	assert.ErrorIs(t, s.AppendCalledNumber(ctx, "ABC123", 1, 10), ErrRaceLost)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedGame(t, s, domain.GameStatusPlaying)
	require.NoError(t, s.AppendCalledNumber(ctx, "ABC123", 0, 5))

	g, err := s.GetGame(ctx, "ABC123")
	require.NoError(t, err)
	g.CalledNumbers[0] = 70

	again, err := s.GetGame(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, []int{5}, again.CalledNumbers)
}

func TestMemoryStore_FinishWithWinnerOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedGame(t, s, domain.GameStatusPlaying)

	require.NoError(t, s.FinishWithWinner(ctx, &domain.Winner{ID: "w1", GameID: "ABC123", PlayerID: "p1", Name: "A", Pattern: "line"}))
	assert.ErrorIs(t, s.FinishWithWinner(ctx, &domain.Winner{ID: "w2", GameID: "ABC123", PlayerID: "p2", Name: "B", Pattern: "line"}), ErrRaceLost)

	winners, err := s.ListWinners(ctx, "ABC123")
	require.NoError(t, err)
	require.Len(t, winners, 1)
	assert.Equal(t, "p1", winners[0].PlayerID)

	g, err := s.GetGame(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, domain.GameStatusFinished, g.Status)
}

func TestMemoryStore_ResetGame(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedGame(t, s, domain.GameStatusPlaying)

	p := &domain.Player{ID: "p1", GameID: "ABC123", Name: "A"}
	card := &domain.Card{ID: "c1", PlayerID: "p1", GameID: "ABC123", Numbers: make([]int, 25), Marked: []int{12}}
	require.NoError(t, s.CreatePlayer(ctx, p, []*domain.Card{card}))
	assert.Equal(t, 1, p.CardCount)

	require.NoError(t, s.AppendCalledNumber(ctx, "ABC123", 0, 3))
	require.NoError(t, s.SetCardMarked(ctx, "c1", []int{0, 12}))
	require.NoError(t, s.FinishWithWinner(ctx, &domain.Winner{ID: "w1", GameID: "ABC123", PlayerID: "p1", Name: "A", Pattern: "line"}))

	require.NoError(t, s.ResetGame(ctx, "ABC123"))

	g, err := s.GetGame(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, domain.GameStatusWaiting, g.Status)
	assert.Empty(t, g.CalledNumbers)

	winners, err := s.ListWinners(ctx, "ABC123")
	require.NoError(t, err)
	assert.Empty(t, winners)

	c, err := s.GetCard(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []int{12}, c.Marked)
}

func TestMemoryStore_PlayersAndCards(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedGame(t, s, domain.GameStatusWaiting)

	assert.ErrorIs(t, s.CreatePlayer(ctx, &domain.Player{ID: "x", GameID: "missing"}, nil), ErrNotFound)

	require.NoError(t, s.CreatePlayer(ctx, &domain.Player{ID: "p1", GameID: "ABC123", Name: "A"},
		[]*domain.Card{{ID: "c1", PlayerID: "p1", GameID: "ABC123"}}))
	require.NoError(t, s.CreateCards(ctx, "p1", []*domain.Card{{ID: "c2", PlayerID: "p1", GameID: "ABC123"}}))

	p, err := s.GetPlayer(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, p.CardCount)

	cards, err := s.ListPlayerCards(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "c1", cards[0].ID)
	assert.Equal(t, "c2", cards[1].ID)

	players, err := s.ListPlayers(ctx, "ABC123")
	require.NoError(t, err)
	assert.Len(t, players, 1)
}

func TestMemoryStore_MessagesAndDevActions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedGame(t, s, domain.GameStatusWaiting)

	for _, text := range []string{"a", "b", "c"} {
		require.NoError(t, s.CreateMessage(ctx, &domain.ChatMessage{ID: text, GameID: "ABC123", Sender: "A", Text: text}))
	}
	msgs, err := s.ListMessages(ctx, "ABC123", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "b", msgs[0].Text)
	assert.Equal(t, "c", msgs[1].Text)

	for _, id := range []string{"d1", "d2"} {
		require.NoError(t, s.CreateDevAction(ctx, &domain.DevAction{ID: id, GameID: "ABC123", Actor: "h1", Action: domain.DevActionStageNumber}))
	}
	actions, err := s.ListDevActions(ctx, "ABC123", 10)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "d2", actions[0].ID)
}
