package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository handles appointment persistence. Create,
	// UpdateStatus and Complete are transactional composites: the write
	// and its companion side effects (client last-visit, stock
	// consumption, outbox event) commit or roll back together.
	AppointmentRepository interface {
		// Create books the appointment. It serializes per professional
		// by locking the professional row, re-checks the interval
		// against committed active appointments and fails with
		// SlotUnavailable on overlap. On success it also sets the
		// client's last visit to the appointment start and records the
		// created event.
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		// ListActiveForProfessionalBetween returns scheduled/confirmed
		// appointments for the professional with start in [from, to),
		// each carrying its service duration.
		ListActiveForProfessionalBetween(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]*model.Appointment, error)
		// ListActiveStartingBetween is the cross-professional variant
		// used by the reminder dispatcher.
		ListActiveStartingBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
		AppendNotification(ctx context.Context, id uuid.UUID, entry model.NotificationEntry) error
		// UpdateStatus persists a status change and records the given
		// lifecycle event.
		UpdateStatus(ctx context.Context, appointment *model.Appointment, eventType string) error
		// Complete persists the completed status, stamps the client's
		// last visit, consumes the used products from stock and records
		// the completed event.
		Complete(ctx context.Context, appointment *model.Appointment, visitAt time.Time) error
	}

	ClientRepository interface {
		Create(ctx context.Context, client *model.Client) error
		Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
		GetByPhone(ctx context.Context, phone string) (*model.Client, error)
		Update(ctx context.Context, client *model.Client) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, activeOnly bool) ([]*model.Client, error)
		// ListInactiveSince returns active clients whose last visit is
		// before the cutoff or who never visited.
		ListInactiveSince(ctx context.Context, cutoff time.Time) ([]*model.Client, error)
	}

	ProfessionalRepository interface {
		Create(ctx context.Context, professional *model.Professional) error
		Get(ctx context.Context, id uuid.UUID) (*model.Professional, error)
		Update(ctx context.Context, professional *model.Professional) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, activeOnly bool) ([]*model.Professional, error)
	}

	ServiceRepository interface {
		Create(ctx context.Context, service *model.Service) error
		Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
		Update(ctx context.Context, service *model.Service) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, activeOnly bool) ([]*model.Service, error)
	}

	ProductRepository interface {
		Create(ctx context.Context, product *model.Product) error
		Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
		Update(ctx context.Context, product *model.Product) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, activeOnly bool) ([]*model.Product, error)
		ListLowStock(ctx context.Context) ([]*model.Product, error)
		// ApplyMovement appends a stock movement under a row lock and
		// returns the updated product.
		ApplyMovement(ctx context.Context, id uuid.UUID, movement model.StockMovement) (*model.Product, error)
	}

	ReminderRepository interface {
		Create(ctx context.Context, reminder *model.Reminder) error
		Get(ctx context.Context, id uuid.UUID) (*model.Reminder, error)
		Update(ctx context.Context, reminder *model.Reminder) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, activeOnly bool) ([]*model.Reminder, error)
		// ListDueBetween returns pending/overdue active reminders of the
		// given types with next_run in [from, to).
		ListDueBetween(ctx context.Context, from, to time.Time, types []model.ReminderType) ([]*model.Reminder, error)
	}

	OutboxRepository interface {
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkRetry(ctx context.Context, id uuid.UUID, errMsg string, retryAt time.Time) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	}
)
