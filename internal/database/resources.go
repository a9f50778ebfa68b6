package database

import (
	"context"
	"fmt"
	"time"

	"roombook/internal/domain"
	"roombook/internal/models"
)

const resourceColumns = `id, name, description, is_active`

func scanResource(row rowScanner) (*models.Resource, error) {
	var r models.Resource
	if err := row.Scan(&r.ID, &r.Name, &r.Description, &r.IsActive); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetActiveResources returns active resources ordered by name.
func (db *DB) GetActiveResources(ctx context.Context) ([]*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE is_active = 1 ORDER BY name ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get active resources: %w", err)
	}
	defer rows.Close()

	var resources []*models.Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resources: %w", err)
	}
	return resources, nil
}

func (db *DB) GetResourceByID(ctx context.Context, id string) (*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = ?`
	r, err := scanResource(db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get resource: %w", translateError(err))
	}
	return r, nil
}

func (db *DB) GetResourceByName(ctx context.Context, name string) (*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE name = ?`
	r, err := scanResource(db.QueryRowContext(ctx, query, name))
	if err != nil {
		return nil, fmt.Errorf("failed to get resource by name: %w", translateError(err))
	}
	return r, nil
}

func (db *DB) CreateResource(ctx context.Context, resource *models.Resource) error {
	query := `INSERT INTO resources (id, name, description, is_active, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	now := formatTime(time.Now())
	_, err := db.ExecContext(ctx, query, resource.ID, resource.Name, resource.Description, resource.IsActive, now, now)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", translateError(err))
	}
	return nil
}

func (db *DB) UpdateResource(ctx context.Context, resource *models.Resource) error {
	query := `UPDATE resources SET name = ?, description = ?, is_active = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		resource.Name, resource.Description, resource.IsActive, formatTime(time.Now()), resource.ID)
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", translateError(err))
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("failed to update resource %s: %w", resource.ID, domain.ErrRecordNotFound)
	}
	return nil
}

func (db *DB) SetResourceActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE resources SET is_active = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, active, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("failed to update resource %s: %w", id, domain.ErrRecordNotFound)
	}
	return nil
}
