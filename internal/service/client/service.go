package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/repository"
	apperrors "github.com/salonsuite/salon-api/pkg/errors"
)

type Service struct {
	repo repository.ClientRepository
}

func NewService(repo repository.ClientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateClient(ctx context.Context, req *model.CreateClientRequest) (*model.Client, error) {
	if existing, err := s.repo.GetByPhone(ctx, req.Phone); err == nil && existing != nil {
		return nil, apperrors.Conflict("a client with this phone number already exists")
	} else if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	client := &model.Client{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		BirthDate:   req.BirthDate,
		Notes:       req.Notes,
		Preferences: model.StringList(req.Preferences),
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateClient(ctx context.Context, id uuid.UUID, req *model.UpdateClientRequest) (*model.Client, error) {
	client, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Phone != nil && *req.Phone != client.Phone {
		if existing, err := s.repo.GetByPhone(ctx, *req.Phone); err == nil && existing != nil {
			return nil, apperrors.Conflict("a client with this phone number already exists")
		} else if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		client.Phone = *req.Phone
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.BirthDate != nil {
		client.BirthDate = req.BirthDate
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}
	if req.Preferences != nil {
		client.Preferences = model.StringList(req.Preferences)
	}
	if req.Active != nil {
		client.Active = *req.Active
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeactivateClient soft-deletes so visit history stays intact.
func (s *Service) DeactivateClient(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListClients(ctx context.Context, activeOnly bool) ([]*model.Client, error) {
	return s.repo.List(ctx, activeOnly)
}
