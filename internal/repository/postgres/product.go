package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/repository"
	apperrors "github.com/salonsuite/salon-api/pkg/errors"
)

type productRepository struct {
	BaseRepository
}

func NewProductRepository(db *sqlx.DB) repository.ProductRepository {
	return &productRepository{BaseRepository: NewBaseRepository(db)}
}

const productColumns = `
	id, name, description, category, brand, stock_quantity, unit,
	min_stock_level, purchase_price, sale_price, for_sale, movements,
	active, created_at, updated_at
`

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	product.Active = true
	if product.Movements == nil {
		product.Movements = model.StockMovementList{}
	}
	if product.StockQuantity > 0 {
		product.Movements = append(product.Movements, model.StockMovement{
			Type:     model.MovementTypeEntry,
			Quantity: product.StockQuantity,
			Reason:   "initial stock",
			At:       product.CreatedAt,
		})
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Category,
		product.Brand,
		product.StockQuantity,
		product.Unit,
		product.MinStockLevel,
		product.PurchasePrice,
		product.SalePrice,
		product.ForSale,
		product.Movements,
		product.Active,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepository) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var product model.Product
	err := r.db.GetContext(ctx, &product, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("product", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	product.UpdatedAt = time.Now()

	query := `
		UPDATE products
		SET name = $1, description = $2, category = $3, brand = $4,
		    unit = $5, min_stock_level = $6, purchase_price = $7,
		    sale_price = $8, for_sale = $9, active = $10, updated_at = $11
		WHERE id = $12
	`
	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.Description,
		product.Category,
		product.Brand,
		product.Unit,
		product.MinStockLevel,
		product.PurchasePrice,
		product.SalePrice,
		product.ForSale,
		product.Active,
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("product", nil)
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET active = false, updated_at = $1 WHERE id = $2`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("product", nil)
	}
	return nil
}

func (r *productRepository) List(ctx context.Context, activeOnly bool) ([]*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name ASC`

	var products []*model.Product
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) ListLowStock(ctx context.Context) ([]*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE active = true AND stock_quantity <= min_stock_level
		ORDER BY stock_quantity ASC
	`
	var products []*model.Product
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return products, nil
}

func (r *productRepository) ApplyMovement(ctx context.Context, id uuid.UUID, movement model.StockMovement) (*model.Product, error) {
	var product *model.Product
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := applyMovementTx(ctx, tx, id, movement); err != nil {
			return err
		}
		var p model.Product
		query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
		if err := tx.GetContext(ctx, &p, query, id); err != nil {
			return fmt.Errorf("failed to reload product: %w", err)
		}
		product = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// applyMovementTx appends a movement and adjusts stock under a row lock.
// Also used by the appointment repository when completing an appointment.
func applyMovementTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, movement model.StockMovement) error {
	var product model.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	err := tx.GetContext(ctx, &product, query, id)
	if err == sql.ErrNoRows {
		return apperrors.NotFound("product", err)
	}
	if err != nil {
		return fmt.Errorf("failed to lock product: %w", err)
	}

	if movement.At.IsZero() {
		movement.At = time.Now()
	}
	product.ApplyMovement(movement)

	_, err = tx.ExecContext(ctx,
		`UPDATE products SET stock_quantity = $1, movements = $2, updated_at = $3 WHERE id = $4`,
		product.StockQuantity, product.Movements, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to apply stock movement: %w", err)
	}
	return nil
}
