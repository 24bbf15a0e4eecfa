package product

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/repository"
	apperrors "github.com/salonsuite/salon-api/pkg/errors"
)

type Service struct {
	repo repository.ProductRepository
	now  func() time.Time
}

func NewService(repo repository.ProductRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) CreateProduct(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	product := &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Brand:         req.Brand,
		StockQuantity: req.StockQuantity,
		Unit:          req.Unit,
		MinStockLevel: req.MinStockLevel,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		ForSale:       req.ForSale,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.MinStockLevel != nil {
		product.MinStockLevel = *req.MinStockLevel
	}
	if req.PurchasePrice != nil {
		product.PurchasePrice = *req.PurchasePrice
	}
	if req.SalePrice != nil {
		product.SalePrice = *req.SalePrice
	}
	if req.ForSale != nil {
		product.ForSale = *req.ForSale
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, activeOnly bool) ([]*model.Product, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *Service) ListLowStock(ctx context.Context) ([]*model.Product, error) {
	return s.repo.ListLowStock(ctx)
}

// RecordMovement applies a manual stock movement. Adjustments set the
// absolute quantity; entries and exits are deltas.
func (s *Service) RecordMovement(ctx context.Context, id uuid.UUID, req *model.StockMovementRequest) (*model.Product, error) {
	if req.Type != model.MovementTypeAdjust && req.Quantity == 0 {
		return nil, apperrors.Validation("movement quantity must be positive", nil)
	}
	movement := model.StockMovement{
		Type:     req.Type,
		Quantity: req.Quantity,
		Reason:   req.Reason,
		At:       s.now(),
	}
	return s.repo.ApplyMovement(ctx, id, movement)
}
