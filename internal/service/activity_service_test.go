package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
)

type memoryActivityRepo struct {
	appended []domain.Activity
	err      error
}

func (m *memoryActivityRepo) Append(_ context.Context, activity *domain.Activity) error {
	if m.err != nil {
		return m.err
	}
	m.appended = append(m.appended, *activity)
	return nil
}

func (m *memoryActivityRepo) ListRecent(_ context.Context, limit int) ([]domain.Activity, error) {
	if limit < len(m.appended) {
		return m.appended[:limit], nil
	}
	return m.appended, nil
}

func (m *memoryActivityRepo) ListByEntity(_ context.Context, entityID string, _ int) ([]domain.Activity, error) {
	var out []domain.Activity
	for _, a := range m.appended {
		if a.EntityID == entityID {
			out = append(out, a)
		}
	}
	return out, nil
}

func TestActivityService_JournalsEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	repo := &memoryActivityRepo{}
	svc := NewActivityService(dispatcher, repo, zap.NewNop())
	svc.RegisterHandlers()

	actor := events.Actor{SessionID: "s-1", Role: "admin"}
	require.NoError(t, dispatcher.Publish(context.Background(),
		events.NewEvent(events.EventTicketCreated, "t-1", actor, events.TicketPayload{Title: "Mouse", SeverityLevel: 3})))
	require.NoError(t, dispatcher.Publish(context.Background(),
		events.NewEvent(events.EventCategoryDeleted, "c-1", actor, nil)))

	require.Len(t, repo.appended, 2)
	first := repo.appended[0]
	assert.Equal(t, "ticket_created", first.EventType)
	assert.Equal(t, "s-1", first.SessionID)
	assert.JSONEq(t, `{"title":"Mouse","severity_level":3}`, string(first.Payload))
	assert.Nil(t, repo.appended[1].Payload)

	forTicket, err := svc.ForEntity(context.Background(), "t-1", 10)
	require.NoError(t, err)
	assert.Len(t, forTicket, 1)
}

func TestActivityService_WithoutRepoOnlyLogs(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewActivityService(dispatcher, nil, zap.NewNop())
	svc.RegisterHandlers()

	assert.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventUserDeleted, "u-1", events.Actor{}, nil)))
	assert.False(t, svc.Enabled())
	recent, err := svc.Recent(context.Background(), 10)
	assert.NoError(t, err)
	assert.Empty(t, recent)
}

func TestActivityService_RepoFailureSurfacesFromPublish(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	boom := errors.New("db down")
	svc := NewActivityService(dispatcher, &memoryActivityRepo{err: boom}, zap.NewNop())
	svc.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventSeverityUpdated, "s-1", events.Actor{}, nil))
	assert.ErrorIs(t, err, boom)
}
