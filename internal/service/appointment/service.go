// Package appointment implements the booking workflow: availability
// lookup, conflict-checked creation, the status lifecycle and ratings.
package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/repository"
	"github.com/salonsuite/salon-api/internal/schedule"
	apperrors "github.com/salonsuite/salon-api/pkg/errors"
)

const (
	lookupCacheTTL   = 5 * time.Minute
	lookupCacheSweep = 10 * time.Minute
)

// transitions is the full set of allowed status changes. Anything not
// listed is rejected, so the lifecycle can only move forward.
var transitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusScheduled: {model.AppointmentStatusConfirmed, model.AppointmentStatusCancelled},
	model.AppointmentStatusConfirmed: {model.AppointmentStatusCompleted, model.AppointmentStatusCancelled},
	model.AppointmentStatusCompleted: {},
	model.AppointmentStatusCancelled: {},
}

func canTransition(from, to model.AppointmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Service struct {
	repo        repository.AppointmentRepository
	clientRepo  repository.ClientRepository
	profRepo    repository.ProfessionalRepository
	serviceRepo repository.ServiceRepository
	lookupCache *cache.Cache
	now         func() time.Time
}

func NewService(
	repo repository.AppointmentRepository,
	clientRepo repository.ClientRepository,
	profRepo repository.ProfessionalRepository,
	serviceRepo repository.ServiceRepository,
) *Service {
	return &Service{
		repo:        repo,
		clientRepo:  clientRepo,
		profRepo:    profRepo,
		serviceRepo: serviceRepo,
		lookupCache: cache.New(lookupCacheTTL, lookupCacheSweep),
		now:         time.Now,
	}
}

// CreateAppointment books a new appointment. Referenced entities are
// checked in order (client, professional, service), then the
// professional's enablement for the service, then the slot itself. The
// service price is snapshotted into the appointment so later catalog
// price changes never touch existing bookings.
func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if _, err := s.clientRepo.Get(ctx, req.ClientID); err != nil {
		return nil, err
	}
	professional, err := s.profRepo.Get(ctx, req.ProfessionalID)
	if err != nil {
		return nil, err
	}
	svc, err := s.serviceRepo.Get(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	if !svc.EnabledProfessionals.Contains(professional.ID) {
		return nil, apperrors.InvalidAssignment("professional does not perform this service")
	}

	appointment := &model.Appointment{
		ClientID:        req.ClientID,
		ProfessionalID:  req.ProfessionalID,
		ServiceID:       req.ServiceID,
		StartTime:       req.StartTime,
		Status:          model.AppointmentStatusScheduled,
		TotalValue:      svc.Price,
		Notes:           req.Notes,
		UsedProducts:    append(model.UsedProductList{}, svc.DefaultProducts...),
		DurationMinutes: svc.DurationMinutes,
	}

	// Early conflict check for a fast answer; the repository re-checks
	// under the professional's row lock before committing.
	candidate := schedule.FromStart(req.StartTime, time.Duration(svc.DurationMinutes)*time.Minute)
	booked, err := s.bookedIntervals(ctx, req.ProfessionalID, req.StartTime)
	if err != nil {
		return nil, err
	}
	if conflicts := schedule.Conflicts(candidate, booked); len(conflicts) > 0 {
		return nil, apperrors.SlotUnavailable("time slot unavailable for the selected professional")
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *Service) bookedIntervals(ctx context.Context, professionalID uuid.UUID, at time.Time) ([]schedule.Booked, error) {
	from, to := schedule.DayBounds(at)
	active, err := s.repo.ListActiveForProfessionalBetween(ctx, professionalID, from, to)
	if err != nil {
		return nil, err
	}
	booked := make([]schedule.Booked, len(active))
	for i, a := range active {
		booked[i] = schedule.Booked{
			ID:       a.ID,
			Interval: schedule.Interval{Start: a.StartTime, End: a.EndTime()},
		}
	}
	return booked, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.repo.List(ctx, filters)
}

// UpdateNotes changes the free-text notes without touching the lifecycle.
func (s *Service) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	appointment.Notes = notes
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// Confirm moves a scheduled appointment to confirmed.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusConfirmed, model.EventAppointmentConfirmed)
}

// Complete moves a confirmed appointment to completed, stamps the client's
// last visit and consumes the appointment's used products from stock.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(appointment.Status, model.AppointmentStatusCompleted) {
		return nil, apperrors.InvalidTransition(string(appointment.Status), string(model.AppointmentStatusCompleted))
	}
	appointment.Status = model.AppointmentStatusCompleted
	if err := s.repo.Complete(ctx, appointment, s.now()); err != nil {
		return nil, err
	}
	return appointment, nil
}

// Cancel moves an appointment to cancelled, freeing its slot. Cancelling
// an already cancelled appointment is a no-op.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status == model.AppointmentStatusCancelled {
		return appointment, nil
	}
	if !canTransition(appointment.Status, model.AppointmentStatusCancelled) {
		return nil, apperrors.InvalidTransition(string(appointment.Status), string(model.AppointmentStatusCancelled))
	}
	appointment.Status = model.AppointmentStatusCancelled
	if err := s.repo.UpdateStatus(ctx, appointment, model.EventAppointmentCancelled); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to model.AppointmentStatus, eventType string) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(appointment.Status, to) {
		return nil, apperrors.InvalidTransition(string(appointment.Status), string(to))
	}
	appointment.Status = to
	if err := s.repo.UpdateStatus(ctx, appointment, eventType); err != nil {
		return nil, err
	}
	return appointment, nil
}

// Rate records a post-completion review. Only completed appointments can
// be rated.
func (s *Service) Rate(ctx context.Context, id uuid.UUID, req *model.RateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status != model.AppointmentStatusCompleted {
		return nil, apperrors.Validation("only completed appointments can be rated", nil)
	}
	appointment.Rating = model.RatingColumn{Rating: &model.Rating{
		Score:   req.Score,
		Comment: req.Comment,
		RatedAt: s.now(),
	}}
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// AvailabilityResult is the slot list for one professional, service and
// day, with a human message when the day is not workable.
type AvailabilityResult struct {
	Slots   []model.Slot `json:"slots"`
	Message string       `json:"message,omitempty"`
}

// GetAvailability lists the free slots for the professional, service and
// date, stepping every 30 minutes through the professional's working
// window and skipping starts that would overlap an active appointment.
func (s *Service) GetAvailability(ctx context.Context, req *model.AvailabilityRequest) (*AvailabilityResult, error) {
	professional, err := s.cachedProfessional(ctx, req.ProfessionalID)
	if err != nil {
		return nil, err
	}
	svc, err := s.cachedService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.EnabledProfessionals.Contains(professional.ID) {
		return nil, apperrors.InvalidAssignment("professional does not perform this service")
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, apperrors.Validation("date must be in YYYY-MM-DD format", err)
	}

	entry, ok := professional.WorkingHours.ForWeekday(int(date.Weekday()))
	if !ok {
		return &AvailabilityResult{
			Slots:   []model.Slot{},
			Message: "professional does not work on this day",
		}, nil
	}

	window, err := schedule.DayWindow(date, entry.StartTime, entry.EndTime)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("invalid working hours for professional %s: %w", professional.ID, err))
	}

	booked, err := s.bookedIntervals(ctx, req.ProfessionalID, date)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(svc.DurationMinutes) * time.Minute
	free := schedule.Slots(window, duration, schedule.DefaultStep, booked)

	slots := make([]model.Slot, len(free))
	for i, slot := range free {
		slots[i] = model.Slot{Time: slot.Start, Formatted: slot.Label()}
	}
	return &AvailabilityResult{Slots: slots}, nil
}

func (s *Service) cachedProfessional(ctx context.Context, id uuid.UUID) (*model.Professional, error) {
	key := "professional:" + id.String()
	if cached, ok := s.lookupCache.Get(key); ok {
		return cached.(*model.Professional), nil
	}
	professional, err := s.profRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.lookupCache.Set(key, professional, cache.DefaultExpiration)
	return professional, nil
}

func (s *Service) cachedService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	key := "service:" + id.String()
	if cached, ok := s.lookupCache.Get(key); ok {
		return cached.(*model.Service), nil
	}
	svc, err := s.serviceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.lookupCache.Set(key, svc, cache.DefaultExpiration)
	return svc, nil
}
