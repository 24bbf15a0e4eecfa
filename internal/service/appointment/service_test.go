package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/schedule"
	apperrors "github.com/salonsuite/salon-api/pkg/errors"
)

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	lastVisits   map[uuid.UUID]time.Time
	events       []string
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		appointments: make(map[uuid.UUID]*model.Appointment),
		lastVisits:   make(map[uuid.UUID]time.Time),
	}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appointment *model.Appointment) error {
	candidate := schedule.Interval{Start: appointment.StartTime, End: appointment.EndTime()}
	for _, existing := range r.appointments {
		if existing.ProfessionalID != appointment.ProfessionalID || !existing.Status.Active() {
			continue
		}
		if candidate.Overlaps(schedule.Interval{Start: existing.StartTime, End: existing.EndTime()}) {
			return apperrors.SlotUnavailable("time slot unavailable for the selected professional")
		}
	}
	appointment.ID = uuid.New()
	copied := *appointment
	r.appointments[appointment.ID] = &copied
	r.lastVisits[appointment.ClientID] = appointment.StartTime
	r.events = append(r.events, model.EventAppointmentCreated)
	return nil
}

func (r *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, ok := r.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	copied := *appointment
	return &copied, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, appointment *model.Appointment) error {
	if _, ok := r.appointments[appointment.ID]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	copied := *appointment
	r.appointments[appointment.ID] = &copied
	return nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range r.appointments {
		copied := *a
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListActiveForProfessionalBetween(_ context.Context, professionalID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range r.appointments {
		if a.ProfessionalID != professionalID || !a.Status.Active() {
			continue
		}
		if !a.StartTime.Before(from) && a.StartTime.Before(to) {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListActiveStartingBetween(_ context.Context, from, to time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range r.appointments {
		if a.Status.Active() && !a.StartTime.Before(from) && a.StartTime.Before(to) {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) AppendNotification(_ context.Context, id uuid.UUID, entry model.NotificationEntry) error {
	appointment, ok := r.appointments[id]
	if !ok {
		return apperrors.NotFound("appointment", nil)
	}
	appointment.Notifications = append(appointment.Notifications, entry)
	return nil
}

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, appointment *model.Appointment, eventType string) error {
	stored, ok := r.appointments[appointment.ID]
	if !ok {
		return apperrors.NotFound("appointment", nil)
	}
	stored.Status = appointment.Status
	r.events = append(r.events, eventType)
	return nil
}

func (r *fakeAppointmentRepo) Complete(_ context.Context, appointment *model.Appointment, visitAt time.Time) error {
	stored, ok := r.appointments[appointment.ID]
	if !ok {
		return apperrors.NotFound("appointment", nil)
	}
	stored.Status = model.AppointmentStatusCompleted
	r.lastVisits[stored.ClientID] = visitAt
	r.events = append(r.events, model.EventAppointmentCompleted)
	return nil
}

type fakeClientRepo struct {
	clients map[uuid.UUID]*model.Client
}

func (r *fakeClientRepo) Create(_ context.Context, _ *model.Client) error { return nil }
func (r *fakeClientRepo) Get(_ context.Context, id uuid.UUID) (*model.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, apperrors.NotFound("client", nil)
	}
	return client, nil
}
func (r *fakeClientRepo) GetByPhone(_ context.Context, _ string) (*model.Client, error) {
	return nil, apperrors.NotFound("client", nil)
}
func (r *fakeClientRepo) Update(_ context.Context, _ *model.Client) error { return nil }
func (r *fakeClientRepo) Delete(_ context.Context, _ uuid.UUID) error     { return nil }
func (r *fakeClientRepo) List(_ context.Context, _ bool) ([]*model.Client, error) {
	return nil, nil
}
func (r *fakeClientRepo) ListInactiveSince(_ context.Context, _ time.Time) ([]*model.Client, error) {
	return nil, nil
}

type fakeProfessionalRepo struct {
	professionals map[uuid.UUID]*model.Professional
}

func (r *fakeProfessionalRepo) Create(_ context.Context, _ *model.Professional) error { return nil }
func (r *fakeProfessionalRepo) Get(_ context.Context, id uuid.UUID) (*model.Professional, error) {
	professional, ok := r.professionals[id]
	if !ok {
		return nil, apperrors.NotFound("professional", nil)
	}
	return professional, nil
}
func (r *fakeProfessionalRepo) Update(_ context.Context, _ *model.Professional) error { return nil }
func (r *fakeProfessionalRepo) Delete(_ context.Context, _ uuid.UUID) error           { return nil }
func (r *fakeProfessionalRepo) List(_ context.Context, _ bool) ([]*model.Professional, error) {
	return nil, nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*model.Service
}

func (r *fakeServiceRepo) Create(_ context.Context, _ *model.Service) error { return nil }
func (r *fakeServiceRepo) Get(_ context.Context, id uuid.UUID) (*model.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, apperrors.NotFound("service", nil)
	}
	return svc, nil
}
func (r *fakeServiceRepo) Update(_ context.Context, _ *model.Service) error { return nil }
func (r *fakeServiceRepo) Delete(_ context.Context, _ uuid.UUID) error      { return nil }
func (r *fakeServiceRepo) List(_ context.Context, _ bool) ([]*model.Service, error) {
	return nil, nil
}

type fixture struct {
	svc          *Service
	repo         *fakeAppointmentRepo
	client       *model.Client
	professional *model.Professional
	service      *model.Service
	now          time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)

	client := &model.Client{Name: "Ana", Phone: "11999990000", Email: "ana@example.com", Active: true}
	client.ID = uuid.New()

	professional := &model.Professional{
		Name: "Bia",
		WorkingHours: model.WorkingHoursList{
			{Weekday: 1, StartTime: "09:00", EndTime: "18:00"},
		},
		Active: true,
	}
	professional.ID = uuid.New()

	service := &model.Service{
		Name:                 "Haircut",
		DurationMinutes:      60,
		Price:                80,
		EnabledProfessionals: model.UUIDList{professional.ID},
		Active:               true,
	}
	service.ID = uuid.New()

	repo := newFakeAppointmentRepo()
	svc := NewService(
		repo,
		&fakeClientRepo{clients: map[uuid.UUID]*model.Client{client.ID: client}},
		&fakeProfessionalRepo{professionals: map[uuid.UUID]*model.Professional{professional.ID: professional}},
		&fakeServiceRepo{services: map[uuid.UUID]*model.Service{service.ID: service}},
	)
	svc.now = func() time.Time { return now }

	return &fixture{
		svc:          svc,
		repo:         repo,
		client:       client,
		professional: professional,
		service:      service,
		now:          now,
	}
}

// monday 2025-03-03
func (f *fixture) at(hour, minute int) time.Time {
	return time.Date(2025, 3, 3, hour, minute, 0, 0, time.UTC)
}

func (f *fixture) book(t *testing.T, start time.Time) *model.Appointment {
	t.Helper()
	created, err := f.svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		ClientID:       f.client.ID,
		ProfessionalID: f.professional.ID,
		ServiceID:      f.service.ID,
		StartTime:      start,
	})
	require.NoError(t, err)
	return created
}

func TestCreateAppointment(t *testing.T) {
	f := newFixture(t)

	created := f.book(t, f.at(10, 0))

	assert.Equal(t, model.AppointmentStatusScheduled, created.Status)
	assert.Equal(t, 80.0, created.TotalValue)
	assert.Equal(t, 60, created.DurationMinutes)
	assert.Equal(t, f.at(11, 0), created.EndTime())
}

func TestCreateAppointmentCheckOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.CreateAppointmentRequest
		code apperrors.ErrorCode
		msg  string
	}{
		{
			name: "unknown client",
			req: model.CreateAppointmentRequest{
				ClientID:       uuid.New(),
				ProfessionalID: uuid.New(),
				ServiceID:      uuid.New(),
				StartTime:      f.at(10, 0),
			},
			code: apperrors.ErrNotFound,
			msg:  "client not found",
		},
		{
			name: "unknown professional",
			req: model.CreateAppointmentRequest{
				ClientID:       f.client.ID,
				ProfessionalID: uuid.New(),
				ServiceID:      uuid.New(),
				StartTime:      f.at(10, 0),
			},
			code: apperrors.ErrNotFound,
			msg:  "professional not found",
		},
		{
			name: "unknown service",
			req: model.CreateAppointmentRequest{
				ClientID:       f.client.ID,
				ProfessionalID: f.professional.ID,
				ServiceID:      uuid.New(),
				StartTime:      f.at(10, 0),
			},
			code: apperrors.ErrNotFound,
			msg:  "service not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateAppointment(ctx, &tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.code))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestCreateAppointmentDisabledProfessional(t *testing.T) {
	f := newFixture(t)
	f.service.EnabledProfessionals = model.UUIDList{uuid.New()}

	_, err := f.svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		ClientID:       f.client.ID,
		ProfessionalID: f.professional.ID,
		ServiceID:      f.service.ID,
		StartTime:      f.at(10, 0),
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidAssignment))
}

func TestCreateAppointmentRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.at(10, 0))

	overlapping := []time.Time{
		f.at(10, 0),  // identical
		f.at(10, 30), // starts inside
		f.at(9, 30),  // ends inside
	}
	for _, start := range overlapping {
		_, err := f.svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
			ClientID:       f.client.ID,
			ProfessionalID: f.professional.ID,
			ServiceID:      f.service.ID,
			StartTime:      start,
		})
		require.Error(t, err, "start %v should conflict", start)
		assert.True(t, apperrors.Is(err, apperrors.ErrSlotUnavailable))
	}

	// Touching intervals share a boundary but not time.
	f.book(t, f.at(11, 0))
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	f := newFixture(t)
	created := f.book(t, f.at(10, 0))

	_, err := f.svc.Cancel(context.Background(), created.ID)
	require.NoError(t, err)

	f.book(t, f.at(10, 0))
}

func TestPriceSnapshot(t *testing.T) {
	f := newFixture(t)
	created := f.book(t, f.at(10, 0))
	require.Equal(t, 80.0, created.TotalValue)

	f.service.Price = 120

	stored, err := f.svc.GetAppointment(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, stored.TotalValue)

	later := f.book(t, f.at(14, 0))
	assert.Equal(t, 120.0, later.TotalValue)
}

func TestLifecycleTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("scheduled to confirmed to completed", func(t *testing.T) {
		created := f.book(t, f.at(9, 0))

		confirmed, err := f.svc.Confirm(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusConfirmed, confirmed.Status)

		completed, err := f.svc.Complete(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusCompleted, completed.Status)
	})

	t.Run("scheduled cannot complete", func(t *testing.T) {
		created := f.book(t, f.at(11, 0))

		_, err := f.svc.Complete(ctx, created.ID)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidTransition))
	})

	t.Run("completed cannot move", func(t *testing.T) {
		created := f.book(t, f.at(13, 0))
		_, err := f.svc.Confirm(ctx, created.ID)
		require.NoError(t, err)
		_, err = f.svc.Complete(ctx, created.ID)
		require.NoError(t, err)

		_, err = f.svc.Confirm(ctx, created.ID)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidTransition))
		_, err = f.svc.Cancel(ctx, created.ID)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidTransition))
	})

	t.Run("cancel is idempotent", func(t *testing.T) {
		created := f.book(t, f.at(15, 0))

		first, err := f.svc.Cancel(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusCancelled, first.Status)

		again, err := f.svc.Cancel(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusCancelled, again.Status)
	})
}

func TestCompleteStampsLastVisit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.book(t, f.at(9, 0))
	assert.Equal(t, f.at(9, 0), f.repo.lastVisits[f.client.ID])

	_, err := f.svc.Confirm(ctx, created.ID)
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, f.now, f.repo.lastVisits[f.client.ID])
}

func TestRate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.book(t, f.at(9, 0))

	_, err := f.svc.Rate(ctx, created.ID, &model.RateAppointmentRequest{Score: 5})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	_, err = f.svc.Confirm(ctx, created.ID)
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, created.ID)
	require.NoError(t, err)

	rated, err := f.svc.Rate(ctx, created.ID, &model.RateAppointmentRequest{Score: 5, Comment: "great"})
	require.NoError(t, err)
	require.NotNil(t, rated.Rating.Rating)
	assert.Equal(t, 5, rated.Rating.Score)
}

func TestGetAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("full free day", func(t *testing.T) {
		result, err := f.svc.GetAvailability(ctx, &model.AvailabilityRequest{
			ProfessionalID: f.professional.ID,
			ServiceID:      f.service.ID,
			Date:           "2025-03-03",
		})
		require.NoError(t, err)
		assert.Empty(t, result.Message)
		// 09:00 through 17:00 inclusive, every 30 minutes
		assert.Len(t, result.Slots, 17)
		assert.Equal(t, "09:00", result.Slots[0].Formatted)
		assert.Equal(t, "17:00", result.Slots[len(result.Slots)-1].Formatted)
	})

	t.Run("booked slot removed", func(t *testing.T) {
		f.book(t, time.Date(2025, 3, 3, 10, 0, 0, 0, time.Local))

		result, err := f.svc.GetAvailability(ctx, &model.AvailabilityRequest{
			ProfessionalID: f.professional.ID,
			ServiceID:      f.service.ID,
			Date:           "2025-03-03",
		})
		require.NoError(t, err)

		labels := make(map[string]bool)
		for _, slot := range result.Slots {
			labels[slot.Formatted] = true
		}
		assert.False(t, labels["09:30"])
		assert.False(t, labels["10:00"])
		assert.False(t, labels["10:30"])
		assert.True(t, labels["09:00"])
		assert.True(t, labels["11:00"])
	})

	t.Run("non working day", func(t *testing.T) {
		result, err := f.svc.GetAvailability(ctx, &model.AvailabilityRequest{
			ProfessionalID: f.professional.ID,
			ServiceID:      f.service.ID,
			Date:           "2025-03-02", // sunday
		})
		require.NoError(t, err)
		assert.Empty(t, result.Slots)
		assert.Equal(t, "professional does not work on this day", result.Message)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := f.svc.GetAvailability(ctx, &model.AvailabilityRequest{
			ProfessionalID: f.professional.ID,
			ServiceID:      f.service.ID,
			Date:           "03/03/2025",
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	})
}
