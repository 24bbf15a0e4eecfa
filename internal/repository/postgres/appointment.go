package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/repository"
	"github.com/salonsuite/salon-api/internal/schedule"
	apperrors "github.com/salonsuite/salon-api/pkg/errors"
)

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{BaseRepository: NewBaseRepository(db)}
}

// appointmentColumns always joins the owning service so every loaded
// appointment carries the duration its interval end derives from.
const appointmentColumns = `
	a.id, a.client_id, a.professional_id, a.service_id,
	a.start_time, a.status, a.total_value, a.notes,
	a.notifications, a.used_products, a.rating,
	a.created_at, a.updated_at,
	s.duration_minutes
`

const appointmentFrom = `
	FROM appointments a
	JOIN services s ON s.id = a.service_id
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		// Serialize bookings per professional: concurrent creates for
		// the same professional queue on this row lock, so the conflict
		// re-check below always sees every committed appointment.
		var lockedID uuid.UUID
		err := tx.GetContext(ctx, &lockedID,
			`SELECT id FROM professionals WHERE id = $1 FOR UPDATE`,
			appointment.ProfessionalID,
		)
		if err == sql.ErrNoRows {
			return apperrors.NotFound("professional", err)
		}
		if err != nil {
			return fmt.Errorf("failed to lock professional: %w", err)
		}

		dayStart, dayEnd := schedule.DayBounds(appointment.StartTime)
		booked, err := r.activeIntervalsTx(ctx, tx, appointment.ProfessionalID, dayStart, dayEnd)
		if err != nil {
			return err
		}

		candidate := schedule.FromStart(
			appointment.StartTime,
			time.Duration(appointment.DurationMinutes)*time.Minute,
		)
		if !schedule.IsFree(candidate, booked) {
			return apperrors.SlotUnavailable("time slot unavailable for the selected professional")
		}

		query := `
			INSERT INTO appointments (
				id, client_id, professional_id, service_id,
				start_time, status, total_value, notes,
				notifications, used_products, rating,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`
		_, err = tx.ExecContext(ctx, query,
			appointment.ID,
			appointment.ClientID,
			appointment.ProfessionalID,
			appointment.ServiceID,
			appointment.StartTime,
			appointment.Status,
			appointment.TotalValue,
			appointment.Notes,
			appointment.Notifications,
			appointment.UsedProducts,
			appointment.Rating,
			appointment.CreatedAt,
			appointment.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE clients SET last_visit = $1, updated_at = $2 WHERE id = $3`,
			appointment.StartTime, time.Now(), appointment.ClientID,
		)
		if err != nil {
			return fmt.Errorf("failed to update client last visit: %w", err)
		}

		return insertOutboxEventTx(ctx, tx, model.EventAppointmentCreated, appointmentEventPayload(appointment))
	})
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + appointmentFrom + ` WHERE a.id = $1`

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	appointment.UpdatedAt = time.Now()

	query := `
		UPDATE appointments
		SET status = $1, notes = $2, notifications = $3,
		    used_products = $4, rating = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		appointment.Status,
		appointment.Notes,
		appointment.Notifications,
		appointment.UsedProducts,
		appointment.Rating,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + appointmentFrom + ` WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.ProfessionalID != uuid.Nil {
			query += fmt.Sprintf(" AND a.professional_id = $%d", argCount)
			args = append(args, filters.ProfessionalID)
			argCount++
		}
		if filters.ClientID != uuid.Nil {
			query += fmt.Sprintf(" AND a.client_id = $%d", argCount)
			args = append(args, filters.ClientID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND a.status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if !filters.StartDate.IsZero() {
			query += fmt.Sprintf(" AND a.start_time >= $%d", argCount)
			args = append(args, filters.StartDate)
			argCount++
		}
		if !filters.EndDate.IsZero() {
			query += fmt.Sprintf(" AND a.start_time < $%d", argCount)
			args = append(args, filters.EndDate)
			argCount++
		}
	}

	query += " ORDER BY a.start_time ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListActiveForProfessionalBetween(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + appointmentFrom + `
		WHERE a.professional_id = $1
		AND a.status IN ('scheduled', 'confirmed')
		AND a.start_time >= $2
		AND a.start_time < $3
		ORDER BY a.start_time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, professionalID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list active appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListActiveStartingBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + appointmentFrom + `
		WHERE a.status IN ('scheduled', 'confirmed')
		AND a.start_time >= $1
		AND a.start_time < $2
		ORDER BY a.start_time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list appointments in range: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) AppendNotification(ctx context.Context, id uuid.UUID, entry model.NotificationEntry) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var log model.NotificationLog
		err := tx.GetContext(ctx, &log,
			`SELECT notifications FROM appointments WHERE id = $1 FOR UPDATE`, id)
		if err == sql.ErrNoRows {
			return apperrors.NotFound("appointment", err)
		}
		if err != nil {
			return fmt.Errorf("failed to read notification log: %w", err)
		}

		log = append(log, entry)
		_, err = tx.ExecContext(ctx,
			`UPDATE appointments SET notifications = $1, updated_at = $2 WHERE id = $3`,
			log, time.Now(), id,
		)
		if err != nil {
			return fmt.Errorf("failed to append notification: %w", err)
		}
		return nil
	})
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, appointment *model.Appointment, eventType string) error {
	appointment.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := updateStatusTx(ctx, tx, appointment); err != nil {
			return err
		}
		return insertOutboxEventTx(ctx, tx, eventType, appointmentEventPayload(appointment))
	})
}

func (r *appointmentRepository) Complete(ctx context.Context, appointment *model.Appointment, visitAt time.Time) error {
	appointment.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := updateStatusTx(ctx, tx, appointment); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`UPDATE clients SET last_visit = $1, updated_at = $2 WHERE id = $3`,
			visitAt, time.Now(), appointment.ClientID,
		)
		if err != nil {
			return fmt.Errorf("failed to update client last visit: %w", err)
		}

		for _, used := range appointment.UsedProducts {
			movement := model.StockMovement{
				Type:          model.MovementTypeExit,
				Quantity:      used.Quantity,
				Reason:        "used in appointment",
				AppointmentID: &appointment.ID,
				At:            visitAt,
			}
			if err := applyMovementTx(ctx, tx, used.ProductID, movement); err != nil {
				return err
			}
		}

		return insertOutboxEventTx(ctx, tx, model.EventAppointmentCompleted, appointmentEventPayload(appointment))
	})
}

func updateStatusTx(ctx context.Context, tx *sqlx.Tx, appointment *model.Appointment) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3`,
		appointment.Status, appointment.UpdatedAt, appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

// activeIntervalsTx loads the professional's scheduled/confirmed
// intervals for the window, each end derived from its own service
// duration.
func (r *appointmentRepository) activeIntervalsTx(ctx context.Context, tx *sqlx.Tx, professionalID uuid.UUID, from, to time.Time) ([]schedule.Booked, error) {
	query := `
		SELECT a.id, a.start_time, s.duration_minutes
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		WHERE a.professional_id = $1
		AND a.status IN ('scheduled', 'confirmed')
		AND a.start_time >= $2
		AND a.start_time < $3
	`
	var rows []struct {
		ID              uuid.UUID `db:"id"`
		StartTime       time.Time `db:"start_time"`
		DurationMinutes int       `db:"duration_minutes"`
	}
	if err := tx.SelectContext(ctx, &rows, query, professionalID, from, to); err != nil {
		return nil, fmt.Errorf("failed to load booked intervals: %w", err)
	}

	booked := make([]schedule.Booked, len(rows))
	for i, row := range rows {
		booked[i] = schedule.Booked{
			ID: row.ID,
			Interval: schedule.FromStart(
				row.StartTime,
				time.Duration(row.DurationMinutes)*time.Minute,
			),
		}
	}
	return booked, nil
}

type appointmentEvent struct {
	AppointmentID  uuid.UUID               `json:"appointment_id"`
	ClientID       uuid.UUID               `json:"client_id"`
	ProfessionalID uuid.UUID               `json:"professional_id"`
	ServiceID      uuid.UUID               `json:"service_id"`
	StartTime      time.Time               `json:"start_time"`
	Status         model.AppointmentStatus `json:"status"`
}

func appointmentEventPayload(a *model.Appointment) json.RawMessage {
	payload, _ := json.Marshal(appointmentEvent{
		AppointmentID:  a.ID,
		ClientID:       a.ClientID,
		ProfessionalID: a.ProfessionalID,
		ServiceID:      a.ServiceID,
		StartTime:      a.StartTime,
		Status:         a.Status,
	})
	return payload
}
