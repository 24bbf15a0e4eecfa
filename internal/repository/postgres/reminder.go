package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/repository"
	apperrors "github.com/salonsuite/salon-api/pkg/errors"
)

type reminderRepository struct {
	BaseRepository
}

func NewReminderRepository(db *sqlx.DB) repository.ReminderRepository {
	return &reminderRepository{BaseRepository: NewBaseRepository(db)}
}

const reminderColumns = `
	id, type, title, description, frequency, interval_days, next_run,
	priority, status, active, created_at, updated_at
`

func (r *reminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	reminder.ID = uuid.New()
	reminder.CreatedAt = time.Now()
	reminder.UpdatedAt = reminder.CreatedAt
	reminder.Active = true
	if reminder.Status == "" {
		reminder.Status = model.ReminderStatusPending
	}
	if reminder.Priority == "" {
		reminder.Priority = "medium"
	}

	query := `
		INSERT INTO reminders (` + reminderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		reminder.ID,
		reminder.Type,
		reminder.Title,
		reminder.Description,
		reminder.Frequency,
		reminder.IntervalDays,
		reminder.NextRun,
		reminder.Priority,
		reminder.Status,
		reminder.Active,
		reminder.CreatedAt,
		reminder.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (r *reminderRepository) Get(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1`

	var reminder model.Reminder
	err := r.db.GetContext(ctx, &reminder, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("reminder", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return &reminder, nil
}

func (r *reminderRepository) Update(ctx context.Context, reminder *model.Reminder) error {
	reminder.UpdatedAt = time.Now()

	query := `
		UPDATE reminders
		SET title = $1, description = $2, frequency = $3,
		    interval_days = $4, next_run = $5, priority = $6,
		    status = $7, active = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := r.db.ExecContext(ctx, query,
		reminder.Title,
		reminder.Description,
		reminder.Frequency,
		reminder.IntervalDays,
		reminder.NextRun,
		reminder.Priority,
		reminder.Status,
		reminder.Active,
		reminder.UpdatedAt,
		reminder.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("reminder", nil)
	}
	return nil
}

func (r *reminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reminders SET active = false, updated_at = $1 WHERE id = $2`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate reminder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("reminder", nil)
	}
	return nil
}

func (r *reminderRepository) List(ctx context.Context, activeOnly bool) ([]*model.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY next_run ASC`

	var reminders []*model.Reminder
	if err := r.db.SelectContext(ctx, &reminders, query); err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

func (r *reminderRepository) ListDueBetween(ctx context.Context, from, to time.Time, types []model.ReminderType) ([]*model.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE active = true
		  AND status IN ($1, $2)
		  AND next_run >= $3 AND next_run < $4
	`
	args := []interface{}{model.ReminderStatusPending, model.ReminderStatusOverdue, from, to}
	if len(types) > 0 {
		typeNames := make([]string, len(types))
		for i, t := range types {
			typeNames[i] = string(t)
		}
		query += ` AND type = ANY($5)`
		args = append(args, pq.Array(typeNames))
	}
	query += ` ORDER BY next_run ASC`

	var reminders []*model.Reminder
	if err := r.db.SelectContext(ctx, &reminders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}
	return reminders, nil
}
