package worker

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/model"
	apperrors "github.com/salonsuite/salon-api/pkg/errors"
	"github.com/salonsuite/salon-api/pkg/logger"
	"github.com/salonsuite/salon-api/pkg/metrics"
)

// Shared across all tests in the package: prometheus collectors register
// globally and must only be created once per test binary.
var (
	testMetrics = metrics.New("worker_test")
	testLogger  = logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type stubAppointmentRepo struct {
	appointments []*model.Appointment
	appended     map[uuid.UUID][]model.NotificationEntry
}

func newStubAppointmentRepo(appointments ...*model.Appointment) *stubAppointmentRepo {
	return &stubAppointmentRepo{
		appointments: appointments,
		appended:     make(map[uuid.UUID][]model.NotificationEntry),
	}
}

func (r *stubAppointmentRepo) Create(_ context.Context, _ *model.Appointment) error { return nil }
func (r *stubAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	for _, a := range r.appointments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, apperrors.NotFound("appointment", nil)
}
func (r *stubAppointmentRepo) Update(_ context.Context, _ *model.Appointment) error { return nil }
func (r *stubAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}
func (r *stubAppointmentRepo) ListActiveForProfessionalBetween(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*model.Appointment, error) {
	return nil, nil
}

func (r *stubAppointmentRepo) ListActiveStartingBetween(_ context.Context, from, to time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range r.appointments {
		if a.Status.Active() && !a.StartTime.Before(from) && a.StartTime.Before(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubAppointmentRepo) AppendNotification(_ context.Context, id uuid.UUID, entry model.NotificationEntry) error {
	r.appended[id] = append(r.appended[id], entry)
	return nil
}

func (r *stubAppointmentRepo) UpdateStatus(_ context.Context, _ *model.Appointment, _ string) error {
	return nil
}
func (r *stubAppointmentRepo) Complete(_ context.Context, _ *model.Appointment, _ time.Time) error {
	return nil
}

type stubClientRepo struct {
	clients  map[uuid.UUID]*model.Client
	inactive []*model.Client
}

func (r *stubClientRepo) Create(_ context.Context, _ *model.Client) error { return nil }
func (r *stubClientRepo) Get(_ context.Context, id uuid.UUID) (*model.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, apperrors.NotFound("client", nil)
	}
	return client, nil
}
func (r *stubClientRepo) GetByPhone(_ context.Context, _ string) (*model.Client, error) {
	return nil, apperrors.NotFound("client", nil)
}
func (r *stubClientRepo) Update(_ context.Context, _ *model.Client) error { return nil }
func (r *stubClientRepo) Delete(_ context.Context, _ uuid.UUID) error     { return nil }
func (r *stubClientRepo) List(_ context.Context, _ bool) ([]*model.Client, error) {
	return nil, nil
}
func (r *stubClientRepo) ListInactiveSince(_ context.Context, _ time.Time) ([]*model.Client, error) {
	return r.inactive, nil
}

type stubProfessionalRepo struct {
	professionals map[uuid.UUID]*model.Professional
}

func (r *stubProfessionalRepo) Create(_ context.Context, _ *model.Professional) error { return nil }
func (r *stubProfessionalRepo) Get(_ context.Context, id uuid.UUID) (*model.Professional, error) {
	professional, ok := r.professionals[id]
	if !ok {
		return nil, apperrors.NotFound("professional", nil)
	}
	return professional, nil
}
func (r *stubProfessionalRepo) Update(_ context.Context, _ *model.Professional) error { return nil }
func (r *stubProfessionalRepo) Delete(_ context.Context, _ uuid.UUID) error           { return nil }
func (r *stubProfessionalRepo) List(_ context.Context, _ bool) ([]*model.Professional, error) {
	return nil, nil
}

type stubServiceRepo struct {
	services map[uuid.UUID]*model.Service
}

func (r *stubServiceRepo) Create(_ context.Context, _ *model.Service) error { return nil }
func (r *stubServiceRepo) Get(_ context.Context, id uuid.UUID) (*model.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, apperrors.NotFound("service", nil)
	}
	return svc, nil
}
func (r *stubServiceRepo) Update(_ context.Context, _ *model.Service) error { return nil }
func (r *stubServiceRepo) Delete(_ context.Context, _ uuid.UUID) error      { return nil }
func (r *stubServiceRepo) List(_ context.Context, _ bool) ([]*model.Service, error) {
	return nil, nil
}

type stubProductRepo struct {
	lowStock []*model.Product
}

func (r *stubProductRepo) Create(_ context.Context, _ *model.Product) error { return nil }
func (r *stubProductRepo) Get(_ context.Context, _ uuid.UUID) (*model.Product, error) {
	return nil, apperrors.NotFound("product", nil)
}
func (r *stubProductRepo) Update(_ context.Context, _ *model.Product) error { return nil }
func (r *stubProductRepo) Delete(_ context.Context, _ uuid.UUID) error      { return nil }
func (r *stubProductRepo) List(_ context.Context, _ bool) ([]*model.Product, error) {
	return nil, nil
}
func (r *stubProductRepo) ListLowStock(_ context.Context) ([]*model.Product, error) {
	return r.lowStock, nil
}
func (r *stubProductRepo) ApplyMovement(_ context.Context, _ uuid.UUID, _ model.StockMovement) (*model.Product, error) {
	return nil, errors.New("not implemented")
}

type stubReminderRepo struct {
	due     []*model.Reminder
	updated []*model.Reminder
}

func (r *stubReminderRepo) Create(_ context.Context, _ *model.Reminder) error { return nil }
func (r *stubReminderRepo) Get(_ context.Context, _ uuid.UUID) (*model.Reminder, error) {
	return nil, apperrors.NotFound("reminder", nil)
}
func (r *stubReminderRepo) Update(_ context.Context, reminder *model.Reminder) error {
	r.updated = append(r.updated, reminder)
	return nil
}
func (r *stubReminderRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (r *stubReminderRepo) List(_ context.Context, _ bool) ([]*model.Reminder, error) {
	return nil, nil
}
func (r *stubReminderRepo) ListDueBetween(_ context.Context, _, _ time.Time, _ []model.ReminderType) ([]*model.Reminder, error) {
	return r.due, nil
}

// recordingEmailService captures outgoing mail, optionally failing for
// chosen recipients.
type recordingEmailService struct {
	confirmations []uuid.UUID
	reminders     []uuid.UUID
	reactivations []uuid.UUID
	lowStock      [][]*model.Product
	upkeep        []uuid.UUID
	failFor       map[uuid.UUID]bool
}

func newRecordingEmailService() *recordingEmailService {
	return &recordingEmailService{failFor: make(map[uuid.UUID]bool)}
}

func (s *recordingEmailService) SendConfirmation(_ context.Context, _ *model.Client, appointment *model.Appointment, _, _ string) error {
	if s.failFor[appointment.ID] {
		return errors.New("smtp unavailable")
	}
	s.confirmations = append(s.confirmations, appointment.ID)
	return nil
}

func (s *recordingEmailService) SendReminder(_ context.Context, client *model.Client, appointment *model.Appointment, _, _ string) error {
	if s.failFor[appointment.ID] {
		return errors.New("smtp unavailable")
	}
	s.reminders = append(s.reminders, appointment.ID)
	return nil
}

func (s *recordingEmailService) SendReactivation(_ context.Context, client *model.Client, _ int) error {
	if s.failFor[client.ID] {
		return errors.New("smtp unavailable")
	}
	s.reactivations = append(s.reactivations, client.ID)
	return nil
}

func (s *recordingEmailService) SendLowStockAlert(_ context.Context, products []*model.Product) error {
	s.lowStock = append(s.lowStock, products)
	return nil
}

func (s *recordingEmailService) SendUpkeepNotice(_ context.Context, reminder *model.Reminder) error {
	s.upkeep = append(s.upkeep, reminder.ID)
	return nil
}

func (s *recordingEmailService) SendCustom(_ context.Context, _, _, _ string) error {
	return nil
}
