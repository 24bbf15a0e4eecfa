package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/repository"
	apperrors "github.com/salonsuite/salon-api/pkg/errors"
)

type outboxRepository struct {
	BaseRepository
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{BaseRepository: NewBaseRepository(db)}
}

// insertOutboxEventTx records a lifecycle event inside the caller's
// transaction so the event commits with the write that produced it.
func insertOutboxEventTx(ctx context.Context, tx *sqlx.Tx, eventType string, payload json.RawMessage) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO outbox_events (id, event_type, payload, status, retry_count, created_at)
		 VALUES ($1, $2, $3, $4, 0, $5)`,
		uuid.New(), eventType, payload, model.OutboxStatusPending, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

func (r *outboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := `
		SELECT id, event_type, payload, status, error_message,
		       retry_count, retry_at, created_at, processed_at
		FROM outbox_events
		WHERE status = $1
		  AND (retry_at IS NULL OR retry_at <= $2)
		ORDER BY created_at ASC
		LIMIT $3
	`
	var events []*model.OutboxEvent
	err := r.db.SelectContext(ctx, &events, query, model.OutboxStatusPending, time.Now(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE outbox_events SET status = $1, processed_at = $2, error_message = NULL WHERE id = $3`,
		model.OutboxStatusProcessed, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	return requireOutboxRow(result)
}

func (r *outboxRepository) MarkRetry(ctx context.Context, id uuid.UUID, errMsg string, retryAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE outbox_events
		 SET retry_count = retry_count + 1, error_message = $1, retry_at = $2
		 WHERE id = $3`,
		errMsg, retryAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark event for retry: %w", err)
	}
	return requireOutboxRow(result)
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE outbox_events SET status = $1, error_message = $2 WHERE id = $3`,
		model.OutboxStatusFailed, errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark event failed: %w", err)
	}
	return requireOutboxRow(result)
}

func requireOutboxRow(result interface{ RowsAffected() (int64, error) }) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("outbox event", nil)
	}
	return nil
}
