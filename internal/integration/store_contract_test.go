package integration

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"bingo_webapp/internal/domain"
	"bingo_webapp/internal/game"
	"bingo_webapp/internal/migrations"
	"bingo_webapp/internal/repository"
	"bingo_webapp/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postgresStore(t *testing.T) *repository.PostgresStore {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = migrations.Apply(context.Background(), pool)
	require.NoError(t, err)
	return repository.NewPostgresStore(pool)
}

// uniqueCode keeps reruns against a shared database apart.
func uniqueCode() string {
	return uuid.NewString()[:6]
}

func seed(t *testing.T, s service.Store, status domain.GameStatus) (*domain.Game, *domain.Player, *domain.Card) {
	t.Helper()
	ctx := context.Background()

	g := &domain.Game{
		ID:            uniqueCode(),
		HostID:        uuid.NewString(),
		HostName:      "Host",
		Status:        status,
		PlayerLimit:   4,
		WinPattern:    game.DefaultPattern,
		CalledNumbers: []int{},
	}
	require.NoError(t, s.CreateGame(ctx, g))

	p := &domain.Player{ID: uuid.NewString(), GameID: g.ID, Name: "Alice"}
	c := &domain.Card{ID: uuid.NewString(), PlayerID: p.ID, GameID: g.ID, Numbers: game.GenerateNumbers(), Marked: game.InitialMarks()}
	require.NoError(t, s.CreatePlayer(ctx, p, []*domain.Card{c}))
	return g, p, c
}

func runStoreContract(t *testing.T, s service.Store) {
	ctx := context.Background()

	t.Run("duplicate code", func(t *testing.T) {
		g, _, _ := seed(t, s, domain.GameStatusWaiting)
		err := s.CreateGame(ctx, &domain.Game{ID: g.ID, HostID: "x", HostName: "x", Status: domain.GameStatusWaiting, PlayerLimit: 1, WinPattern: "line"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("conditional append", func(t *testing.T) {
		g, _, _ := seed(t, s, domain.GameStatusPlaying)
		staged := 33
		require.NoError(t, s.SetStagedNumber(ctx, g.ID, &staged))

		require.NoError(t, s.AppendCalledNumber(ctx, g.ID, 0, 33))
		assert.ErrorIs(t, s.AppendCalledNumber(ctx, g.ID, 0, 34), repository.ErrRaceLost)
		assert.ErrorIs(t, s.AppendCalledNumber(ctx, g.ID, 1, 33), repository.ErrRaceLost)
		assert.ErrorIs(t, s.AppendCalledNumber(ctx, "ZZZZZZ", 0, 1), repository.ErrNotFound)

		got, err := s.GetGame(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, []int{33}, got.CalledNumbers)
		assert.Nil(t, got.StagedNumber)
	})

	t.Run("concurrent appends keep one winner per length", func(t *testing.T) {
		g, _, _ := seed(t, s, domain.GameStatusPlaying)

		var ok atomic.Int32
		var wg sync.WaitGroup
		for n := 1; n <= 10; n++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if s.AppendCalledNumber(ctx, g.ID, 0, n) == nil {
					ok.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.EqualValues(t, 1, ok.Load())

		got, err := s.GetGame(ctx, g.ID)
		require.NoError(t, err)
		assert.Len(t, got.CalledNumbers, 1)
	})

	t.Run("single winner", func(t *testing.T) {
		g, p, _ := seed(t, s, domain.GameStatusPlaying)

		var ok atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := &domain.Winner{ID: uuid.NewString(), GameID: g.ID, PlayerID: p.ID, Name: p.Name, Pattern: g.WinPattern}
				if s.FinishWithWinner(ctx, w) == nil {
					ok.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.EqualValues(t, 1, ok.Load())

		winners, err := s.ListWinners(ctx, g.ID)
		require.NoError(t, err)
		assert.Len(t, winners, 1)

		got, err := s.GetGame(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.GameStatusFinished, got.Status)
	})

	t.Run("reset", func(t *testing.T) {
		g, p, c := seed(t, s, domain.GameStatusPlaying)
		require.NoError(t, s.AppendCalledNumber(ctx, g.ID, 0, c.Numbers[0]))
		require.NoError(t, s.SetCardMarked(ctx, c.ID, []int{0, domain.FreeCellIndex}))
		require.NoError(t, s.FinishWithWinner(ctx, &domain.Winner{ID: uuid.NewString(), GameID: g.ID, PlayerID: p.ID, Name: p.Name, Pattern: g.WinPattern}))

		require.NoError(t, s.ResetGame(ctx, g.ID))

		got, err := s.GetGame(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.GameStatusWaiting, got.Status)
		assert.Empty(t, got.CalledNumbers)

		winners, err := s.ListWinners(ctx, g.ID)
		require.NoError(t, err)
		assert.Empty(t, winners)

		card, err := s.GetCard(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, []int{domain.FreeCellIndex}, card.Marked)
	})

	t.Run("cards and chat", func(t *testing.T) {
		g, p, c := seed(t, s, domain.GameStatusWaiting)
		extra := &domain.Card{ID: uuid.NewString(), PlayerID: p.ID, GameID: g.ID, Numbers: game.GenerateNumbers(), Marked: game.InitialMarks()}
		require.NoError(t, s.CreateCards(ctx, p.ID, []*domain.Card{extra}))

		got, err := s.GetPlayer(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.CardCount)

		cards, err := s.ListPlayerCards(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, cards, 2)
		assert.Equal(t, c.ID, cards[0].ID)
		assert.Equal(t, c.Numbers, cards[0].Numbers)

		for _, text := range []string{"one", "two", "three"} {
			require.NoError(t, s.CreateMessage(ctx, &domain.ChatMessage{ID: uuid.NewString(), GameID: g.ID, PlayerID: p.ID, Sender: p.Name, Text: text}))
			// created_at orders the transcript
			time.Sleep(2 * time.Millisecond)
		}
		msgs, err := s.ListMessages(ctx, g.ID, 2)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "two", msgs[0].Text)
		assert.Equal(t, "three", msgs[1].Text)
	})
}

func TestStoreContract_Memory(t *testing.T) {
	runStoreContract(t, repository.NewMemoryStore())
}

func TestStoreContract_Postgres(t *testing.T) {
	runStoreContract(t, postgresStore(t))
}

func TestPostgres_ConcurrentCallNext(t *testing.T) {
	store := postgresStore(t)
	svc := service.NewBingoService(store, nil, nil, service.Options{})
	t.Cleanup(svc.Close)

	ctx := context.Background()
	g, err := svc.CreateGame(ctx, "Host", 4, "")
	require.NoError(t, err)
	require.NoError(t, svc.Start(ctx, g.ID))

	results := make(chan int, 20)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := svc.CallNext(ctx, g.ID)
			if err == nil {
				results <- n
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := map[int]bool{}
	for n := range results {
		assert.False(t, seen[n], "duplicate %d", n)
		seen[n] = true
	}
	assert.Len(t, seen, 20)
}
