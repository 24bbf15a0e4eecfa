// Package catalog manages the salon's service offerings: what can be
// booked, how long it takes and what it costs.
package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/repository"
	apperrors "github.com/salonsuite/salon-api/pkg/errors"
)

type Service struct {
	repo     repository.ServiceRepository
	profRepo repository.ProfessionalRepository
}

func NewService(repo repository.ServiceRepository, profRepo repository.ProfessionalRepository) *Service {
	return &Service{repo: repo, profRepo: profRepo}
}

func (s *Service) validate(ctx context.Context, durationMinutes int, enabledProfessionals []uuid.UUID) error {
	if durationMinutes < model.MinServiceDurationMinutes {
		return apperrors.Validation(
			fmt.Sprintf("service duration must be at least %d minutes", model.MinServiceDurationMinutes), nil)
	}
	for _, id := range enabledProfessionals {
		if _, err := s.profRepo.Get(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) CreateService(ctx context.Context, req *model.CreateServiceRequest) (*model.Service, error) {
	if err := s.validate(ctx, req.DurationMinutes, req.EnabledProfessionals); err != nil {
		return nil, err
	}

	service := &model.Service{
		Name:                 req.Name,
		Description:          req.Description,
		DurationMinutes:      req.DurationMinutes,
		Price:                req.Price,
		Category:             req.Category,
		EnabledProfessionals: model.UUIDList(req.EnabledProfessionals),
		DefaultProducts:      model.UsedProductList(req.DefaultProducts),
		Featured:             req.Featured,
	}
	if err := s.repo.Create(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateService(ctx context.Context, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error) {
	service, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		service.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Category != nil {
		service.Category = *req.Category
	}
	if req.EnabledProfessionals != nil {
		service.EnabledProfessionals = model.UUIDList(req.EnabledProfessionals)
	}
	if req.DefaultProducts != nil {
		service.DefaultProducts = model.UsedProductList(req.DefaultProducts)
	}
	if req.Featured != nil {
		service.Featured = *req.Featured
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := s.validate(ctx, service.DurationMinutes, service.EnabledProfessionals); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *Service) DeactivateService(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListServices(ctx context.Context, activeOnly bool) ([]*model.Service, error) {
	return s.repo.List(ctx, activeOnly)
}
