package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"bingo_webapp/internal/domain"
	"bingo_webapp/internal/game"
	"bingo_webapp/internal/logger"
	"bingo_webapp/internal/repository"

	"github.com/google/uuid"
)

const (
	sessionCodeLen      = 6
	sessionCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	createAttempts      = 5
	maxCallAttempts     = 3
	maxChatLen          = 500
	snapshotMessages    = 50

	sourceManual = "manual"
	sourceAuto   = "auto"
)

// Options configures BingoService
type Options struct {
	MaxCardsPerPlayer int
	Catalog           *game.Catalog
}

// BingoService is the session state machine. Every mutation of one session
// runs under that session's lock, and events are published before the lock
// is released so observers see them in commit order.
type BingoService struct {
	store   Store
	pub     Publisher
	audit   *AuditService
	catalog *game.Catalog
	locks   *sessionLocks
	auto    *AutoCaller

	maxCards int
	now      func() time.Time
	intn     func(int) int
}

// NewBingoService wires the engine. auto may be nil, in which case a
// scheduler with the default intervals is created.
func NewBingoService(store Store, pub Publisher, auto *AutoCaller, opts Options) *BingoService {
	if pub == nil {
		pub = NopPublisher{}
	}
	if auto == nil {
		auto = NewAutoCaller(nil, time.Second)
	}
	if opts.MaxCardsPerPlayer <= 0 {
		opts.MaxCardsPerPlayer = 10
	}
	if opts.Catalog == nil {
		opts.Catalog = game.DefaultCatalog()
	}

	s := &BingoService{
		store:    store,
		pub:      pub,
		audit:    NewAuditService(store),
		catalog:  opts.Catalog,
		locks:    newSessionLocks(),
		auto:     auto,
		maxCards: opts.MaxCardsPerPlayer,
		now:      time.Now,
		intn:     rand.IntN,
	}
	auto.tick = s.autoTick
	return s
}

// Catalog returns the pattern catalog used for validation.
func (s *BingoService) Catalog() *game.Catalog { return s.catalog }

// AutoCaller returns the scheduler registry.
func (s *BingoService) AutoCaller() *AutoCaller { return s.auto }

// MaxCardsPerPlayer is the per-player card ceiling.
func (s *BingoService) MaxCardsPerPlayer() int { return s.maxCards }

// Ping checks the store.
func (s *BingoService) Ping(ctx context.Context) error { return s.store.Ping(ctx) }

// Close stops every auto-call timer.
func (s *BingoService) Close() {
	s.auto.StopAll()
}

// ---- sessions ----

func (s *BingoService) CreateGame(ctx context.Context, hostName string, playerLimit int, pattern string) (*domain.Game, error) {
	hostName = strings.TrimSpace(hostName)
	if hostName == "" {
		return nil, fmt.Errorf("host name is required: %w", ErrInvalidConfig)
	}
	if playerLimit < 1 {
		return nil, fmt.Errorf("player limit must be at least 1: %w", ErrInvalidConfig)
	}
	if pattern == "" {
		pattern = game.DefaultPattern
	}
	if !s.catalog.Has(pattern) {
		return nil, fmt.Errorf("pattern %q: %w", pattern, ErrInvalidConfig)
	}

	g := &domain.Game{
		HostID:        uuid.NewString(),
		HostName:      hostName,
		Status:        domain.GameStatusWaiting,
		PlayerLimit:   playerLimit,
		WinPattern:    pattern,
		CalledNumbers: []int{},
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		g.ID = newSessionCode()
		err := s.store.CreateGame(ctx, g)
		if errors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			return nil, err
		}
		logger.WithSession(g.ID).Info("game created", "host", hostName, "player_limit", playerLimit, "pattern", pattern)
		return g, nil
	}
	return nil, errors.New("could not allocate a session code")
}

func (s *BingoService) GetGame(ctx context.Context, id string) (*domain.Game, error) {
	return s.getGame(ctx, id)
}

// GameExists reports whether id names a stored session.
func (s *BingoService) GameExists(ctx context.Context, id string) bool {
	_, err := s.store.GetGame(ctx, id)
	return err == nil
}

// Snapshot is the full polling view of one session.
type Snapshot struct {
	Game     *domain.Game          `json:"game"`
	Players  []*domain.Player      `json:"players"`
	Winners  []*domain.Winner      `json:"winners"`
	Messages []*domain.ChatMessage `json:"messages"`
	AutoCall AutoCallStatus        `json:"auto_call"`
}

func (s *BingoService) Snapshot(ctx context.Context, id string) (*Snapshot, error) {
	g, err := s.getGame(ctx, id)
	if err != nil {
		return nil, err
	}
	players, err := s.store.ListPlayers(ctx, id)
	if err != nil {
		return nil, err
	}
	winners, err := s.store.ListWinners(ctx, id)
	if err != nil {
		return nil, err
	}
	messages, err := s.store.ListMessages(ctx, id, snapshotMessages)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Game:     g,
		Players:  players,
		Winners:  winners,
		Messages: messages,
		AutoCall: s.auto.Status(id),
	}, nil
}

// ---- players & cards ----

// JoinResult is returned by Join
type JoinResult struct {
	Player *domain.Player `json:"player"`
	Cards  []*domain.Card `json:"cards"`
	Game   *domain.Game   `json:"game"`
}

func (s *BingoService) Join(ctx context.Context, sessionID, playerName string, cardCount int) (*JoinResult, error) {
	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	g, err := s.getGame(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return nil, fmt.Errorf("player name is required: %w", ErrInvalidConfig)
	}
	if cardCount < 1 || cardCount > s.maxCards {
		return nil, fmt.Errorf("card count must be between 1 and %d: %w", s.maxCards, ErrInvalidConfig)
	}

	players, err := s.store.ListPlayers(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(players) >= g.PlayerLimit {
		return nil, ErrSessionFull
	}

	p := &domain.Player{
		ID:     uuid.NewString(),
		GameID: sessionID,
		Name:   playerName,
	}
	cards := newCards(sessionID, p.ID, cardCount)
	if err := s.store.CreatePlayer(ctx, p, cards); err != nil {
		return nil, mapStoreErr(err)
	}

	logger.WithSession(sessionID).Info("player joined", "player_id", p.ID, "name", playerName, "cards", cardCount)
	s.publish(ctx, sessionID, domain.EventPlayerJoined, domain.PlayerJoinedPayload{
		PlayerID:   p.ID,
		PlayerName: p.Name,
	})

	return &JoinResult{Player: p, Cards: cards, Game: g}, nil
}

// AddCards deals extra cards to a player before the game starts.
func (s *BingoService) AddCards(ctx context.Context, sessionID, playerID string, count int) ([]*domain.Card, error) {
	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	g, err := s.getGame(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	p, err := s.playerInSession(ctx, sessionID, playerID)
	if err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("card count must be positive: %w", ErrInvalidConfig)
	}
	if g.Status != domain.GameStatusWaiting {
		return nil, ErrGameAlreadyStarted
	}
	if p.CardCount+count > s.maxCards {
		return nil, fmt.Errorf("player has %d of %d cards: %w", p.CardCount, s.maxCards, ErrTooManyCards)
	}

	cards := newCards(sessionID, playerID, count)
	if err := s.store.CreateCards(ctx, playerID, cards); err != nil {
		return nil, mapStoreErr(err)
	}
	return cards, nil
}

func (s *BingoService) PlayerCards(ctx context.Context, sessionID, playerID string) ([]*domain.Card, error) {
	if _, err := s.playerInSession(ctx, sessionID, playerID); err != nil {
		return nil, err
	}
	return s.store.ListPlayerCards(ctx, playerID)
}

// ---- state machine ----

func (s *BingoService) Start(ctx context.Context, sessionID string) error {
	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	g, err := s.getGame(ctx, sessionID)
	if err != nil {
		return err
	}

	switch g.Status {
	case domain.GameStatusPlaying:
		return nil
	case domain.GameStatusFinished:
		return ErrGameNotActive
	}

	if err := s.setStatus(ctx, sessionID, domain.GameStatusPlaying); err != nil {
		return err
	}
	s.publish(ctx, sessionID, domain.EventGameStarted, domain.TimestampPayload{Timestamp: s.millis()})
	return nil
}

// Pause always stops auto-call, even when the status does not change.
func (s *BingoService) Pause(ctx context.Context, sessionID string) error {
	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	g, err := s.getGame(ctx, sessionID)
	if err != nil {
		return err
	}

	s.auto.stop(sessionID)

	switch g.Status {
	case domain.GameStatusPaused:
		return nil
	case domain.GameStatusPlaying:
	default:
		return ErrGameNotActive
	}

	if err := s.setStatus(ctx, sessionID, domain.GameStatusPaused); err != nil {
		return err
	}
	s.publish(ctx, sessionID, domain.EventGamePaused, domain.TimestampPayload{Timestamp: s.millis()})
	return nil
}

func (s *BingoService) Restart(ctx context.Context, sessionID string) error {
	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.getGame(ctx, sessionID); err != nil {
		return err
	}

	s.auto.stop(sessionID)

	if err := s.store.ResetGame(ctx, sessionID); err != nil {
		return mapStoreErr(err)
	}
	Transitions.WithLabelValues(string(domain.GameStatusWaiting)).Inc()
	logger.WithSession(sessionID).Info("game restarted")
	s.publish(ctx, sessionID, domain.EventGameRestarted, domain.TimestampPayload{Timestamp: s.millis()})
	return nil
}

func (s *BingoService) SetPattern(ctx context.Context, sessionID, pattern string) error {
	if !s.catalog.Has(pattern) {
		return fmt.Errorf("pattern %q: %w", pattern, ErrInvalidConfig)
	}

	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	g, err := s.getGame(ctx, sessionID)
	if err != nil {
		return err
	}
	if g.Status != domain.GameStatusWaiting {
		return ErrGameAlreadyStarted
	}

	if err := s.store.SetPattern(ctx, sessionID, pattern); err != nil {
		return mapStoreErr(err)
	}
	s.publish(ctx, sessionID, domain.EventPatternChanged, domain.PatternChangedPayload{
		Pattern:   pattern,
		Timestamp: s.millis(),
	})
	return nil
}

// StageNumber forces the next draw. The number is not broadcast.
func (s *BingoService) StageNumber(ctx context.Context, sessionID string, number int, actor string) error {
	if !game.ValidNumber(number) {
		return fmt.Errorf("number %d out of range: %w", number, ErrInvalidNumber)
	}

	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	g, err := s.getGame(ctx, sessionID)
	if err != nil {
		return err
	}
	if g.IsCalled(number) {
		return ErrAlreadyCalled
	}

	if err := s.store.SetStagedNumber(ctx, sessionID, &number); err != nil {
		return mapStoreErr(err)
	}
	s.audit.LogStageNumber(ctx, sessionID, actor, number)
	logger.WithSession(sessionID).Info("number staged", "actor", actor)
	return nil
}

func (s *BingoService) DevActions(ctx context.Context, sessionID string, limit int) ([]*domain.DevAction, error) {
	if _, err := s.getGame(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.audit.Recent(ctx, sessionID, limit)
}

// ---- draw ----

// CallNext draws the next number. Concurrent callers on one session are
// serialized; every successful call yields a distinct number.
func (s *BingoService) CallNext(ctx context.Context, sessionID string) (int, error) {
	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	defer unlock()

	return s.callNextLocked(ctx, sessionID, sourceManual)
}

// caller holds the session lock
func (s *BingoService) callNextLocked(ctx context.Context, sessionID, source string) (int, error) {
	for attempt := 0; attempt < maxCallAttempts; attempt++ {
		g, err := s.getGame(ctx, sessionID)
		if err != nil {
			return 0, err
		}
		if g.Status != domain.GameStatusPlaying {
			return 0, ErrGameNotActive
		}

		n, staged, err := game.NextNumber(g.CalledNumbers, g.StagedNumber, s.intn)
		if errors.Is(err, game.ErrDrawExhausted) {
			return 0, ErrDrawExhausted
		}
		if err != nil {
			return 0, err
		}

		err = s.store.AppendCalledNumber(ctx, sessionID, len(g.CalledNumbers), n)
		if errors.Is(err, repository.ErrRaceLost) {
			RaceRetries.Inc()
			continue
		}
		if err != nil {
			return 0, mapStoreErr(err)
		}

		NumbersCalled.WithLabelValues(source).Inc()
		logger.WithSession(sessionID).Debug("number called", "number", n, "staged", staged, "source", source, "count", len(g.CalledNumbers)+1)
		s.publish(ctx, sessionID, domain.EventNumberCalled, domain.NumberCalledPayload{
			Number:    n,
			Timestamp: s.millis(),
		})
		return n, nil
	}
	return 0, fmt.Errorf("call next on %s: %w", sessionID, ErrRaceLost)
}

// ---- arbitration ----

// ClaimWin validates the claimant's cards against the current draw and, if
// one of them completes the session pattern, records the single winner and
// finishes the session. Later claims fail with ErrGameNotActive.
func (s *BingoService) ClaimWin(ctx context.Context, sessionID, playerID, claimantName string) (*domain.Winner, error) {
	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	g, err := s.getGame(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	p, err := s.playerInSession(ctx, sessionID, playerID)
	if err != nil {
		return nil, err
	}
	if g.Status != domain.GameStatusPlaying {
		Claims.WithLabelValues("late").Inc()
		return nil, ErrGameNotActive
	}

	cards, err := s.store.ListPlayerCards(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, ErrNoCardsFound
	}

	won := false
	for _, c := range cards {
		ok, err := s.catalog.IsWinningCard(c.Numbers, g.CalledNumbers, g.WinPattern)
		if err != nil {
			return nil, fmt.Errorf("validate card %s: %w", c.ID, err)
		}
		if ok {
			won = true
			break
		}
	}

	if !won {
		Claims.WithLabelValues("invalid").Inc()
		logger.WithSession(sessionID).Info("invalid bingo claim", "player_id", playerID)
		s.publish(ctx, sessionID, domain.EventBingoInvalid, domain.BingoInvalidPayload{
			PlayerID: playerID,
			Message:  "No winning pattern found",
		})
		return nil, ErrNoWinningPattern
	}

	name := strings.TrimSpace(claimantName)
	if name == "" {
		name = p.Name
	}
	w := &domain.Winner{
		ID:       uuid.NewString(),
		GameID:   sessionID,
		PlayerID: playerID,
		Name:     name,
		Pattern:  g.WinPattern,
	}
	if err := s.store.FinishWithWinner(ctx, w); err != nil {
		if errors.Is(err, repository.ErrRaceLost) {
			Claims.WithLabelValues("late").Inc()
			return nil, ErrGameNotActive
		}
		return nil, mapStoreErr(err)
	}

	s.auto.stop(sessionID)
	Claims.WithLabelValues("win").Inc()
	Transitions.WithLabelValues(string(domain.GameStatusFinished)).Inc()
	logger.WithSession(sessionID).Info("bingo", "player_id", playerID, "winner", name, "pattern", g.WinPattern)
	s.publish(ctx, sessionID, domain.EventGameEnded, domain.GameEndedPayload{
		WinnerName: name,
		Pattern:    g.WinPattern,
		Timestamp:  s.millis(),
	})
	return w, nil
}

// ---- marks ----

// MarkCell marks the cell if its number has been drawn; otherwise the card
// is returned unchanged.
func (s *BingoService) MarkCell(ctx context.Context, sessionID, cardID string, index int) (*domain.Card, error) {
	return s.updateMarks(ctx, sessionID, cardID, index, func(c *domain.Card, drawn []int) ([]int, bool) {
		return game.Mark(c.Marked, c.Numbers, drawn, index)
	})
}

// UnmarkCell clears the cell. The free cell stays marked.
func (s *BingoService) UnmarkCell(ctx context.Context, sessionID, cardID string, index int) (*domain.Card, error) {
	return s.updateMarks(ctx, sessionID, cardID, index, func(c *domain.Card, _ []int) ([]int, bool) {
		return game.Unmark(c.Marked, index)
	})
}

// SetMarks replaces a card's marks. Cells whose numbers were not drawn are dropped.
func (s *BingoService) SetMarks(ctx context.Context, sessionID, cardID string, marked []int) (*domain.Card, error) {
	for _, idx := range marked {
		if !game.ValidCell(idx) {
			return nil, fmt.Errorf("cell %d out of range: %w", idx, ErrInvalidNumber)
		}
	}
	return s.updateMarks(ctx, sessionID, cardID, domain.FreeCellIndex, func(c *domain.Card, drawn []int) ([]int, bool) {
		return game.FilterMarks(marked, c.Numbers, drawn), true
	})
}

func (s *BingoService) updateMarks(
	ctx context.Context,
	sessionID, cardID string,
	index int,
	apply func(c *domain.Card, drawn []int) ([]int, bool),
) (*domain.Card, error) {
	if !game.ValidCell(index) {
		return nil, fmt.Errorf("cell %d out of range: %w", index, ErrInvalidNumber)
	}

	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if c.GameID != sessionID {
		return nil, fmt.Errorf("card %s: %w", cardID, ErrNotFound)
	}
	g, err := s.getGame(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	marked, changed := apply(c, g.CalledNumbers)
	if !changed {
		return c, nil
	}
	if err := s.store.SetCardMarked(ctx, cardID, marked); err != nil {
		return nil, mapStoreErr(err)
	}
	c.Marked = marked
	return c, nil
}

// ---- chat ----

// PostMessage stores a chat line and relays it to the session. An empty
// sender falls back to the player's name.
func (s *BingoService) PostMessage(ctx context.Context, sessionID, playerID, sender, text string) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" || len([]rune(text)) > maxChatLen {
		return nil, fmt.Errorf("message must be 1..%d characters: %w", maxChatLen, ErrInvalidConfig)
	}

	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.getGame(ctx, sessionID); err != nil {
		return nil, err
	}

	sender = strings.TrimSpace(sender)
	if playerID != "" {
		p, err := s.playerInSession(ctx, sessionID, playerID)
		if err != nil {
			return nil, err
		}
		if sender == "" {
			sender = p.Name
		}
	}
	if sender == "" {
		sender = "Anonymous"
	}

	m := &domain.ChatMessage{
		ID:       uuid.NewString(),
		GameID:   sessionID,
		PlayerID: playerID,
		Sender:   sender,
		Text:     text,
	}
	if err := s.store.CreateMessage(ctx, m); err != nil {
		return nil, mapStoreErr(err)
	}
	s.publish(ctx, sessionID, domain.EventChatMessage, domain.ChatMessagePayload{
		PlayerID:   playerID,
		PlayerName: sender,
		Text:       text,
		Timestamp:  domain.Millis(m.CreatedAt),
	})
	return m, nil
}

// ---- auto-call ----

func (s *BingoService) StartAutoCall(ctx context.Context, sessionID string, interval int) error {
	if !s.auto.ValidInterval(interval) {
		return fmt.Errorf("interval %d not in %v: %w", interval, s.auto.Intervals(), ErrInvalidInterval)
	}

	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	g, err := s.getGame(ctx, sessionID)
	if err != nil {
		return err
	}
	if g.Status != domain.GameStatusPlaying {
		return ErrGameNotActive
	}

	s.auto.start(sessionID, interval)
	logger.WithSession(sessionID).Info("auto-call started", "interval", interval)
	return nil
}

// UpdateAutoCallInterval atomically replaces the running timer.
func (s *BingoService) UpdateAutoCallInterval(ctx context.Context, sessionID string, interval int) error {
	return s.StartAutoCall(ctx, sessionID, interval)
}

// StopAutoCall is idempotent.
func (s *BingoService) StopAutoCall(ctx context.Context, sessionID string) error {
	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	if s.auto.stop(sessionID) {
		logger.WithSession(sessionID).Info("auto-call stopped")
	}
	return nil
}

func (s *BingoService) AutoCallStatus(sessionID string) AutoCallStatus {
	return s.auto.Status(sessionID)
}

func (s *BingoService) autoTick(ctx context.Context, sessionID string, t *autoCallTask) {
	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return
	}
	defer unlock()

	if t.stopped() {
		return
	}

	log := logger.WithSession(sessionID)

	g, err := s.getGame(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		s.auto.stopTask(sessionID, t)
		return
	}
	if err != nil {
		log.Warn("auto-call tick: load game", "error", err)
		return
	}
	if g.Status != domain.GameStatusPlaying {
		s.auto.stopTask(sessionID, t)
		return
	}
	if g.Exhausted() {
		s.finishAutoCall(ctx, sessionID, t)
		return
	}

	_, err = s.callNextLocked(ctx, sessionID, sourceAuto)
	switch {
	case err == nil:
	case errors.Is(err, ErrDrawExhausted):
		s.finishAutoCall(ctx, sessionID, t)
	case errors.Is(err, ErrGameNotActive), errors.Is(err, ErrNotFound):
		s.auto.stopTask(sessionID, t)
	default:
		log.Warn("auto-call tick failed", "error", err)
	}
}

func (s *BingoService) finishAutoCall(ctx context.Context, sessionID string, t *autoCallTask) {
	s.auto.stopTask(sessionID, t)
	logger.WithSession(sessionID).Info("auto-call finished: all numbers called")
	s.publish(ctx, sessionID, domain.EventAllNumbersCalled, domain.TimestampPayload{Timestamp: s.millis()})
}

// ---- helpers ----

func (s *BingoService) getGame(ctx context.Context, id string) (*domain.Game, error) {
	g, err := s.store.GetGame(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("game %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return g, nil
}

func (s *BingoService) playerInSession(ctx context.Context, sessionID, playerID string) (*domain.Player, error) {
	p, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("player %s: %w", playerID, ErrNotFound)
		}
		return nil, err
	}
	if p.GameID != sessionID {
		return nil, fmt.Errorf("player %s: %w", playerID, ErrNotFound)
	}
	return p, nil
}

func (s *BingoService) setStatus(ctx context.Context, id string, status domain.GameStatus) error {
	if err := s.store.SetStatus(ctx, id, status); err != nil {
		return mapStoreErr(err)
	}
	Transitions.WithLabelValues(string(status)).Inc()
	logger.WithSession(id).Info("status changed", "status", status)
	return nil
}

func (s *BingoService) publish(ctx context.Context, sessionID string, eventType domain.EventType, payload any) {
	if err := s.pub.Publish(ctx, sessionID, eventType, payload); err != nil {
		logger.WithSession(sessionID).Warn("publish failed", "event", eventType, "error", err)
	}
}

func (s *BingoService) millis() int64 {
	return domain.Millis(s.now())
}

func mapStoreErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func newCards(sessionID, playerID string, n int) []*domain.Card {
	cards := make([]*domain.Card, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, &domain.Card{
			ID:       uuid.NewString(),
			PlayerID: playerID,
			GameID:   sessionID,
			Numbers:  game.GenerateNumbers(),
			Marked:   game.InitialMarks(),
		})
	}
	return cards
}

func newSessionCode() string {
	b := make([]byte, sessionCodeLen)
	for i := range b {
		b[i] = sessionCodeAlphabet[rand.IntN(len(sessionCodeAlphabet))]
	}
	return string(b)
}
