package professional

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/repository"
	"github.com/salonsuite/salon-api/internal/schedule"
	apperrors "github.com/salonsuite/salon-api/pkg/errors"
)

type Service struct {
	repo repository.ProfessionalRepository
}

func NewService(repo repository.ProfessionalRepository) *Service {
	return &Service{repo: repo}
}

// validateWorkingHours enforces one window per weekday with a valid
// HH:MM range.
func validateWorkingHours(hours []model.WorkingHoursEntry) error {
	seen := make(map[int]bool, len(hours))
	for _, entry := range hours {
		if entry.Weekday < 0 || entry.Weekday > 6 {
			return apperrors.Validation(fmt.Sprintf("invalid weekday %d", entry.Weekday), nil)
		}
		if seen[entry.Weekday] {
			return apperrors.Validation(fmt.Sprintf("duplicate working hours for weekday %d", entry.Weekday), nil)
		}
		seen[entry.Weekday] = true

		start, err := schedule.ParseHHMM(entry.StartTime)
		if err != nil {
			return apperrors.Validation(fmt.Sprintf("invalid start time %q", entry.StartTime), err)
		}
		end, err := schedule.ParseHHMM(entry.EndTime)
		if err != nil {
			return apperrors.Validation(fmt.Sprintf("invalid end time %q", entry.EndTime), err)
		}
		if end <= start {
			return apperrors.Validation(fmt.Sprintf("working hours for weekday %d must end after they start", entry.Weekday), nil)
		}
	}
	return nil
}

func (s *Service) CreateProfessional(ctx context.Context, req *model.CreateProfessionalRequest) (*model.Professional, error) {
	if err := validateWorkingHours(req.WorkingHours); err != nil {
		return nil, err
	}

	professional := &model.Professional{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Specialties:  model.StringList(req.Specialties),
		WorkingHours: model.WorkingHoursList(req.WorkingHours),
		Commission:   req.Commission,
		Notes:        req.Notes,
	}
	if err := s.repo.Create(ctx, professional); err != nil {
		return nil, err
	}
	return professional, nil
}

func (s *Service) GetProfessional(ctx context.Context, id uuid.UUID) (*model.Professional, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateProfessional(ctx context.Context, id uuid.UUID, req *model.UpdateProfessionalRequest) (*model.Professional, error) {
	professional, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		professional.Name = *req.Name
	}
	if req.Phone != nil {
		professional.Phone = *req.Phone
	}
	if req.Email != nil {
		professional.Email = *req.Email
	}
	if req.Specialties != nil {
		professional.Specialties = model.StringList(req.Specialties)
	}
	if req.WorkingHours != nil {
		if err := validateWorkingHours(req.WorkingHours); err != nil {
			return nil, err
		}
		professional.WorkingHours = model.WorkingHoursList(req.WorkingHours)
	}
	if req.Commission != nil {
		professional.Commission = *req.Commission
	}
	if req.Notes != nil {
		professional.Notes = *req.Notes
	}
	if req.Active != nil {
		professional.Active = *req.Active
	}

	if err := s.repo.Update(ctx, professional); err != nil {
		return nil, err
	}
	return professional, nil
}

func (s *Service) DeactivateProfessional(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListProfessionals(ctx context.Context, activeOnly bool) ([]*model.Professional, error) {
	return s.repo.List(ctx, activeOnly)
}
