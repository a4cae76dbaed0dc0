package repository

import (
	"context"
	"time"

	"github.com/TedCarlson/insight-sub002/internal/domain"
)

func (r *Repository) CreatePlanner(planner *domain.Planner) error {
	query := `
		INSERT INTO planners (username, password_hash, full_name, email, role, org_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{planner.Username, planner.PasswordHash, planner.FullName, planner.Email, planner.Role, planner.OrgID}
	dst := []any{&planner.ID, &planner.IsActive, &planner.CreatedAt, &planner.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetPlannerByUsername(username string) (*domain.Planner, error) {
	query := `
		SELECT id, password_hash, full_name, email, role, org_id, is_active, created_at, version
		FROM planners WHERE username = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	planner := &domain.Planner{
		Username: username,
	}

	dst := []any{&planner.ID, &planner.PasswordHash, &planner.FullName, &planner.Email, &planner.Role, &planner.OrgID, &planner.IsActive, &planner.CreatedAt, &planner.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	return planner, nil
}

func (r *Repository) GetPlannerByID(id int64) (*domain.Planner, error) {
	query := `
		SELECT username, password_hash, full_name, email, role, org_id, is_active, created_at, version
		FROM planners WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	planner := &domain.Planner{
		ID: id,
	}

	dst := []any{&planner.Username, &planner.PasswordHash, &planner.FullName, &planner.Email, &planner.Role, &planner.OrgID, &planner.IsActive, &planner.CreatedAt, &planner.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return planner, nil
}
