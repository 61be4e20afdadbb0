package service

import (
	"context"

	"bingo_webapp/internal/domain"
	"bingo_webapp/internal/logger"

	"github.com/google/uuid"
)

// DevActionStore is the slice of Store the audit log needs
type DevActionStore interface {
	CreateDevAction(ctx context.Context, a *domain.DevAction) error
	ListDevActions(ctx context.Context, gameID string, limit int) ([]*domain.DevAction, error)
}

// AuditService records privileged host overrides
type AuditService struct {
	store DevActionStore
}

// NewAuditService creates a new audit service
func NewAuditService(store DevActionStore) *AuditService {
	return &AuditService{store: store}
}

// Log creates a new developer action entry. Failures are logged, never returned.
func (s *AuditService) Log(ctx context.Context, gameID, actor, action string, details map[string]interface{}) {
	a := &domain.DevAction{
		ID:      uuid.NewString(),
		GameID:  gameID,
		Actor:   actor,
		Action:  action,
		Details: details,
	}

	if err := s.store.CreateDevAction(ctx, a); err != nil {
		logger.Error("failed to create dev action", "error", err, "action", action, "session_id", gameID)
	}
}

// LogStageNumber logs a staged next number
func (s *AuditService) LogStageNumber(ctx context.Context, gameID, actor string, number int) {
	s.Log(ctx, gameID, actor, domain.DevActionStageNumber, map[string]interface{}{
		"number": number,
	})
}

// Recent returns the latest developer actions of a session, newest first
func (s *AuditService) Recent(ctx context.Context, gameID string, limit int) ([]*domain.DevAction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.ListDevActions(ctx, gameID, limit)
}
