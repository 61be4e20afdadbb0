package repository

import (
	"context"
	"sync"
	"time"

	"bingo_webapp/internal/domain"
)

// MemoryStore keeps sessions in process memory. It honours the same
// conditional-write contract as PostgresStore and is used when no
// DATABASE_URL is configured and in tests.
type MemoryStore struct {
	mu sync.RWMutex

	games         map[string]*domain.Game
	players       map[string]*domain.Player
	playersByGame map[string][]string
	cards         map[string]*domain.Card
	cardsByPlayer map[string][]string
	winners       map[string][]*domain.Winner
	messages      map[string][]*domain.ChatMessage
	devActions    map[string][]*domain.DevAction

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games:         make(map[string]*domain.Game),
		players:       make(map[string]*domain.Player),
		playersByGame: make(map[string][]string),
		cards:         make(map[string]*domain.Card),
		cardsByPlayer: make(map[string][]string),
		winners:       make(map[string][]*domain.Winner),
		messages:      make(map[string][]*domain.ChatMessage),
		devActions:    make(map[string][]*domain.DevAction),
		now:           time.Now,
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) CreateGame(_ context.Context, g *domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[g.ID]; ok {
		return ErrDuplicate
	}
	now := s.now()
	g.CreatedAt, g.UpdatedAt = now, now
	if g.CalledNumbers == nil {
		g.CalledNumbers = []int{}
	}
	s.games[g.ID] = g.Clone()
	return nil
}

func (s *MemoryStore) GetGame(_ context.Context, id string) (*domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return g.Clone(), nil
}

func (s *MemoryStore) SetStatus(_ context.Context, id string, status domain.GameStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[id]
	if !ok {
		return ErrNotFound
	}
	g.Status = status
	g.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) AppendCalledNumber(_ context.Context, id string, expectedLen int, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[id]
	if !ok {
		return ErrNotFound
	}
	if len(g.CalledNumbers) != expectedLen || g.Status != domain.GameStatusPlaying || g.IsCalled(n) {
		return ErrRaceLost
	}
	g.CalledNumbers = append(g.CalledNumbers, n)
	g.StagedNumber = nil
	g.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) SetStagedNumber(_ context.Context, id string, n *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[id]
	if !ok {
		return ErrNotFound
	}
	if n == nil {
		g.StagedNumber = nil
	} else {
		v := *n
		g.StagedNumber = &v
	}
	g.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) SetPattern(_ context.Context, id string, pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[id]
	if !ok {
		return ErrNotFound
	}
	g.WinPattern = pattern
	g.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) ResetGame(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[id]
	if !ok {
		return ErrNotFound
	}
	g.Status = domain.GameStatusWaiting
	g.CalledNumbers = []int{}
	g.StagedNumber = nil
	g.UpdatedAt = s.now()
	delete(s.winners, id)

	for _, pid := range s.playersByGame[id] {
		for _, cid := range s.cardsByPlayer[pid] {
			s.cards[cid].Marked = []int{domain.FreeCellIndex}
		}
	}
	return nil
}

func (s *MemoryStore) FinishWithWinner(_ context.Context, w *domain.Winner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[w.GameID]
	if !ok {
		return ErrNotFound
	}
	if g.Status != domain.GameStatusPlaying {
		return ErrRaceLost
	}
	w.WonAt = s.now()
	cp := *w
	s.winners[w.GameID] = append(s.winners[w.GameID], &cp)
	g.Status = domain.GameStatusFinished
	g.UpdatedAt = w.WonAt
	return nil
}

func (s *MemoryStore) ListWinners(_ context.Context, gameID string) ([]*domain.Winner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]*domain.Winner, 0, len(s.winners[gameID]))
	for _, w := range s.winners[gameID] {
		cp := *w
		res = append(res, &cp)
	}
	return res, nil
}

func (s *MemoryStore) CreatePlayer(_ context.Context, p *domain.Player, cards []*domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[p.GameID]; !ok {
		return ErrNotFound
	}
	if _, ok := s.players[p.ID]; ok {
		return ErrDuplicate
	}
	p.CardCount = len(cards)
	p.JoinedAt = s.now()
	cp := *p
	s.players[p.ID] = &cp
	s.playersByGame[p.GameID] = append(s.playersByGame[p.GameID], p.ID)
	s.putCards(p.ID, cards)
	return nil
}

func (s *MemoryStore) GetPlayer(_ context.Context, id string) (*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) ListPlayers(_ context.Context, gameID string) ([]*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.playersByGame[gameID]
	res := make([]*domain.Player, 0, len(ids))
	for _, id := range ids {
		cp := *s.players[id]
		res = append(res, &cp)
	}
	return res, nil
}

func (s *MemoryStore) CreateCards(_ context.Context, playerID string, cards []*domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[playerID]
	if !ok {
		return ErrNotFound
	}
	p.CardCount += len(cards)
	s.putCards(playerID, cards)
	return nil
}

func (s *MemoryStore) GetCard(_ context.Context, id string) (*domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cards[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c.Clone(), nil
}

func (s *MemoryStore) ListPlayerCards(_ context.Context, playerID string) ([]*domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.cardsByPlayer[playerID]
	res := make([]*domain.Card, 0, len(ids))
	for _, id := range ids {
		res = append(res, s.cards[id].Clone())
	}
	return res, nil
}

func (s *MemoryStore) SetCardMarked(_ context.Context, cardID string, marked []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[cardID]
	if !ok {
		return ErrNotFound
	}
	c.Marked = append([]int{}, marked...)
	return nil
}

func (s *MemoryStore) CreateMessage(_ context.Context, m *domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[m.GameID]; !ok {
		return ErrNotFound
	}
	m.CreatedAt = s.now()
	cp := *m
	s.messages[m.GameID] = append(s.messages[m.GameID], &cp)
	return nil
}

// ListMessages returns the latest limit messages, oldest first.
func (s *MemoryStore) ListMessages(_ context.Context, gameID string, limit int) ([]*domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.messages[gameID]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	res := make([]*domain.ChatMessage, 0, len(all))
	for _, m := range all {
		cp := *m
		res = append(res, &cp)
	}
	return res, nil
}

func (s *MemoryStore) CreateDevAction(_ context.Context, a *domain.DevAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[a.GameID]; !ok {
		return ErrNotFound
	}
	a.CreatedAt = s.now()
	cp := *a
	s.devActions[a.GameID] = append(s.devActions[a.GameID], &cp)
	return nil
}

// ListDevActions returns the most recent actions first.
func (s *MemoryStore) ListDevActions(_ context.Context, gameID string, limit int) ([]*domain.DevAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.devActions[gameID]
	res := make([]*domain.DevAction, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(res) == limit {
			break
		}
		cp := *all[i]
		res = append(res, &cp)
	}
	return res, nil
}

// caller holds s.mu
func (s *MemoryStore) putCards(playerID string, cards []*domain.Card) {
	for _, c := range cards {
		s.cards[c.ID] = c.Clone()
		s.cardsByPlayer[playerID] = append(s.cardsByPlayer[playerID], c.ID)
	}
}
