package postgres

import (
	"context"
	"fmt"

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

func (s *Store) GetActiveResources(ctx context.Context) ([]*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE is_active ORDER BY name ASC`
	rows, err := s.db.QueryContext(ctx, query)
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

func (s *Store) GetResourceByID(ctx context.Context, id string) (*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`
	r, err := scanResource(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get resource: %w", translateError(err))
	}
	return r, nil
}

func (s *Store) GetResourceByName(ctx context.Context, name string) (*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE name = $1`
	r, err := scanResource(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		return nil, fmt.Errorf("failed to get resource by name: %w", translateError(err))
	}
	return r, nil
}

func (s *Store) CreateResource(ctx context.Context, resource *models.Resource) error {
	query := `INSERT INTO resources (id, name, description, is_active) VALUES ($1, $2, $3, $4)`
	_, err := s.db.ExecContext(ctx, query, resource.ID, resource.Name, resource.Description, resource.IsActive)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", translateError(err))
	}
	return nil
}

func (s *Store) UpdateResource(ctx context.Context, resource *models.Resource) error {
	query := `UPDATE resources SET name = $1, description = $2, is_active = $3, updated_at = now() WHERE id = $4`
	result, err := s.db.ExecContext(ctx, query, resource.Name, resource.Description, resource.IsActive, resource.ID)
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", translateError(err))
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("failed to update resource %s: %w", resource.ID, domain.ErrRecordNotFound)
	}
	return nil
}

func (s *Store) SetResourceActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE resources SET is_active = $1, updated_at = now() WHERE id = $2`
	result, err := s.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("failed to update resource %s: %w", id, domain.ErrRecordNotFound)
	}
	return nil
}
