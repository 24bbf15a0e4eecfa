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

type professionalRepository struct {
	BaseRepository
}

func NewProfessionalRepository(db *sqlx.DB) repository.ProfessionalRepository {
	return &professionalRepository{BaseRepository: NewBaseRepository(db)}
}

const professionalColumns = `
	id, name, phone, email, specialties, working_hours,
	commission, notes, active, created_at, updated_at
`

func (r *professionalRepository) Create(ctx context.Context, professional *model.Professional) error {
	professional.ID = uuid.New()
	professional.CreatedAt = time.Now()
	professional.UpdatedAt = professional.CreatedAt
	professional.Active = true

	query := `
		INSERT INTO professionals (` + professionalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		professional.ID,
		professional.Name,
		professional.Phone,
		professional.Email,
		professional.Specialties,
		professional.WorkingHours,
		professional.Commission,
		professional.Notes,
		professional.Active,
		professional.CreatedAt,
		professional.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create professional: %w", err)
	}
	return nil
}

func (r *professionalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Professional, error) {
	query := `SELECT ` + professionalColumns + ` FROM professionals WHERE id = $1`

	var professional model.Professional
	err := r.db.GetContext(ctx, &professional, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("professional", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get professional: %w", err)
	}
	return &professional, nil
}

func (r *professionalRepository) Update(ctx context.Context, professional *model.Professional) error {
	professional.UpdatedAt = time.Now()

	query := `
		UPDATE professionals
		SET name = $1, phone = $2, email = $3, specialties = $4,
		    working_hours = $5, commission = $6, notes = $7,
		    active = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := r.db.ExecContext(ctx, query,
		professional.Name,
		professional.Phone,
		professional.Email,
		professional.Specialties,
		professional.WorkingHours,
		professional.Commission,
		professional.Notes,
		professional.Active,
		professional.UpdatedAt,
		professional.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update professional: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("professional", nil)
	}
	return nil
}

func (r *professionalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE professionals SET active = false, updated_at = $1 WHERE id = $2`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate professional: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("professional", nil)
	}
	return nil
}

func (r *professionalRepository) List(ctx context.Context, activeOnly bool) ([]*model.Professional, error) {
	query := `SELECT ` + professionalColumns + ` FROM professionals`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name ASC`

	var professionals []*model.Professional
	if err := r.db.SelectContext(ctx, &professionals, query); err != nil {
		return nil, fmt.Errorf("failed to list professionals: %w", err)
	}
	return professionals, nil
}
