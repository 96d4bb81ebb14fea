package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-console/internal/domain"
)

// ActivityRepository persists the console's activity journal.
type ActivityRepository interface {
	Append(ctx context.Context, activity *domain.Activity) error
	ListRecent(ctx context.Context, limit int) ([]domain.Activity, error)
	ListByEntity(ctx context.Context, entityID string, limit int) ([]domain.Activity, error)
}

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository instantiates repository.
func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Append(ctx context.Context, activity *domain.Activity) error {
	const query = `
        INSERT INTO console_activity (id, event_type, entity_id, session_id, role, payload, occurred_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	var payload any
	if len(activity.Payload) > 0 {
		payload = activity.Payload
	}
	_, err := r.pool.Exec(ctx, query,
		activity.ID,
		activity.EventType,
		activity.EntityID,
		activity.SessionID,
		activity.Role,
		payload,
		activity.OccurredAt,
	)
	return err
}

func (r *activityRepository) ListRecent(ctx context.Context, limit int) ([]domain.Activity, error) {
	const query = `
        SELECT id, event_type, entity_id, session_id, role, payload, occurred_at
        FROM console_activity ORDER BY occurred_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	return collectActivities(rows)
}

func (r *activityRepository) ListByEntity(ctx context.Context, entityID string, limit int) ([]domain.Activity, error) {
	const query = `
        SELECT id, event_type, entity_id, session_id, role, payload, occurred_at
        FROM console_activity WHERE entity_id=$1 ORDER BY occurred_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, entityID, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	return collectActivities(rows)
}

func collectActivities(rows pgx.Rows) ([]domain.Activity, error) {
	defer rows.Close()
	var activities []domain.Activity
	for rows.Next() {
		var activity domain.Activity
		var payload []byte
		if err := rows.Scan(
			&activity.ID,
			&activity.EventType,
			&activity.EntityID,
			&activity.SessionID,
			&activity.Role,
			&payload,
			&activity.OccurredAt,
		); err != nil {
			return nil, err
		}
		activity.Payload = payload
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 50
	}
	return limit
}
