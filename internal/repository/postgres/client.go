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

type clientRepository struct {
	BaseRepository
}

func NewClientRepository(db *sqlx.DB) repository.ClientRepository {
	return &clientRepository{BaseRepository: NewBaseRepository(db)}
}

const clientColumns = `
	id, name, phone, email, birth_date, last_visit,
	preferences, notes, active, created_at, updated_at
`

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	client.ID = uuid.New()
	client.CreatedAt = time.Now()
	client.UpdatedAt = client.CreatedAt
	client.Active = true

	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.Phone,
		client.Email,
		client.BirthDate,
		client.LastVisit,
		client.Preferences,
		client.Notes,
		client.Active,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	var client model.Client
	err := r.db.GetContext(ctx, &client, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("client", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

func (r *clientRepository) GetByPhone(ctx context.Context, phone string) (*model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE phone = $1`

	var client model.Client
	err := r.db.GetContext(ctx, &client, query, phone)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("client", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client by phone: %w", err)
	}
	return &client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *model.Client) error {
	client.UpdatedAt = time.Now()

	query := `
		UPDATE clients
		SET name = $1, phone = $2, email = $3, birth_date = $4,
		    last_visit = $5, preferences = $6, notes = $7,
		    active = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.Phone,
		client.Email,
		client.BirthDate,
		client.LastVisit,
		client.Preferences,
		client.Notes,
		client.Active,
		client.UpdatedAt,
		client.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("client", nil)
	}
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Soft deactivate; appointment history references clients.
	result, err := r.db.ExecContext(ctx,
		`UPDATE clients SET active = false, updated_at = $1 WHERE id = $2`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate client: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("client", nil)
	}
	return nil
}

func (r *clientRepository) List(ctx context.Context, activeOnly bool) ([]*model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name ASC`

	var clients []*model.Client
	if err := r.db.SelectContext(ctx, &clients, query); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (r *clientRepository) ListInactiveSince(ctx context.Context, cutoff time.Time) ([]*model.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE active = true
		AND (last_visit IS NULL OR last_visit < $1)
		ORDER BY last_visit ASC NULLS FIRST
	`
	var clients []*model.Client
	if err := r.db.SelectContext(ctx, &clients, query, cutoff); err != nil {
		return nil, fmt.Errorf("failed to list inactive clients: %w", err)
	}
	return clients, nil
}
