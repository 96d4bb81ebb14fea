package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/repository"
)

// ActivityService journals the console's mutations.
type ActivityService struct {
	dispatcher events.Dispatcher
	repo       repository.ActivityRepository
	logger     *zap.Logger
}

// NewActivityService creates the service. A nil repo only logs.
func NewActivityService(dispatcher events.Dispatcher, repo repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		dispatcher: dispatcher,
		repo:       repo,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to every journaled event.
func (s *ActivityService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		s.dispatcher.Subscribe(eventType, s.handle)
	}
}

// Enabled reports whether the journal is persisted.
func (s *ActivityService) Enabled() bool {
	return s != nil && s.repo != nil
}

// Recent returns the newest journal entries.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]domain.Activity, error) {
	if !s.Enabled() {
		return nil, nil
	}
	return s.repo.ListRecent(ctx, limit)
}

// ForEntity returns the journal of one ticket, category, severity or user.
func (s *ActivityService) ForEntity(ctx context.Context, entityID string, limit int) ([]domain.Activity, error) {
	if !s.Enabled() {
		return nil, nil
	}
	return s.repo.ListByEntity(ctx, entityID, limit)
}

func (s *ActivityService) handle(ctx context.Context, event events.Event) error {
	s.logger.Info(string(event.Type),
		zap.String("entity_id", event.EntityID),
		zap.String("session_id", event.Actor.SessionID),
		zap.String("role", event.Actor.Role),
		zap.Any("payload", event.Payload))

	if s.repo == nil {
		return nil
	}
	activity, err := toActivity(event)
	if err != nil {
		s.logger.Warn("activity payload not encodable", zap.String("event_id", event.ID), zap.Error(err))
		return err
	}
	if err := s.repo.Append(context.WithoutCancel(ctx), activity); err != nil {
		s.logger.Error("failed to journal activity", zap.String("event_id", event.ID), zap.Error(err))
		return err
	}
	return nil
}

func toActivity(event events.Event) (*domain.Activity, error) {
	activity := &domain.Activity{
		ID:         event.ID,
		EventType:  string(event.Type),
		EntityID:   event.EntityID,
		SessionID:  event.Actor.SessionID,
		Role:       event.Actor.Role,
		OccurredAt: event.Timestamp,
	}
	if event.Payload != nil {
		payload, err := json.Marshal(event.Payload)
		if err != nil {
			return nil, err
		}
		activity.Payload = payload
	}
	return activity, nil
}
