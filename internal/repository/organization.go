package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/nexus/internal/domain"
)

// OrganizationRepository handles database operations for organizations.
type OrganizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository creates a new OrganizationRepository.
func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

// List returns all organizations ordered by creation time.
func (r *OrganizationRepository) List(ctx context.Context) ([]*domain.Organization, error) {
	query, args, err := psql.
		Select("id", "name", "plan", "created_at").
		From("organizations").
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query organizations: %w", err)
	}
	defer rows.Close()

	orgs := []*domain.Organization{}
	for rows.Next() {
		var org domain.Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.Plan, &org.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, &org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return orgs, nil
}

// Create inserts an organization.
func (r *OrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	query, args, err := psql.
		Insert("organizations").
		Columns("id", "name", "plan", "created_at").
		Values(org.ID, org.Name, org.Plan, org.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrganizationAlreadyExists
		}
		return fmt.Errorf("insert organization %s: %w", org.ID, err)
	}

	return nil
}

// Count returns the number of organizations.
func (r *OrganizationRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM organizations").Scan(&n); err != nil {
		return 0, fmt.Errorf("count organizations: %w", err)
	}
	return n, nil
}
