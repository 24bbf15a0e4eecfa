package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/repository"
	apperrors "github.com/salonsuite/salon-api/pkg/errors"
)

type Service struct {
	repo repository.ReminderRepository
	now  func() time.Time
}

func NewService(repo repository.ReminderRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) CreateReminder(ctx context.Context, req *model.CreateReminderRequest) (*model.Reminder, error) {
	if req.Frequency == model.ReminderFrequencyCustom && req.IntervalDays < 1 {
		return nil, apperrors.Validation("custom frequency requires interval_days of at least 1", nil)
	}

	reminder := &model.Reminder{
		Type:         req.Type,
		Title:        req.Title,
		Description:  req.Description,
		Frequency:    req.Frequency,
		IntervalDays: req.IntervalDays,
		NextRun:      req.NextRun,
		Priority:     req.Priority,
		Status:       model.ReminderStatusPending,
	}
	if err := s.repo.Create(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *Service) GetReminder(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateReminder(ctx context.Context, id uuid.UUID, req *model.UpdateReminderRequest) (*model.Reminder, error) {
	reminder, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		reminder.Title = *req.Title
	}
	if req.Description != nil {
		reminder.Description = *req.Description
	}
	if req.Frequency != nil {
		reminder.Frequency = *req.Frequency
	}
	if req.IntervalDays != nil {
		reminder.IntervalDays = *req.IntervalDays
	}
	if req.NextRun != nil {
		reminder.NextRun = *req.NextRun
	}
	if req.Priority != nil {
		reminder.Priority = *req.Priority
	}
	if req.Status != nil {
		reminder.Status = *req.Status
	}
	if req.Active != nil {
		reminder.Active = *req.Active
	}

	if reminder.Frequency == model.ReminderFrequencyCustom && reminder.IntervalDays < 1 {
		return nil, apperrors.Validation("custom frequency requires interval_days of at least 1", nil)
	}

	if err := s.repo.Update(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// CompleteReminder marks the reminder done and schedules its next
// occurrence. One-shot reminders stay completed.
func (s *Service) CompleteReminder(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	reminder, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if reminder.Advance(s.now()) {
		reminder.Status = model.ReminderStatusPending
	} else {
		reminder.Status = model.ReminderStatusCompleted
	}

	if err := s.repo.Update(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *Service) DeactivateReminder(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListReminders(ctx context.Context, activeOnly bool) ([]*model.Reminder, error) {
	return s.repo.List(ctx, activeOnly)
}
