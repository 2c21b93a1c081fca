package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arthurmateu/throxy-project/internal/domain/models"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

type LeadRepository struct {
	BaseRepository
}

var _ ports.LeadRepository = (*LeadRepository)(nil)

func NewLeadRepository(pool *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{BaseRepository: NewBaseRepository(pool)}
}

// GetAll returns every lead in insertion order. The orchestrator's
// company grouping depends on this ordering being stable.
func (r *LeadRepository) GetAll(ctx context.Context) ([]*models.Lead, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, first_name, last_name, job_title, company_name,
		       employee_range, industry, created_at
		FROM leads
		ORDER BY created_at, id`

	rows, err := r.conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var leads []*models.Lead
	for rows.Next() {
		var lead models.Lead
		var employeeRange, industry sql.NullString
		if err := rows.Scan(
			&lead.ID, &lead.FirstName, &lead.LastName, &lead.JobTitle,
			&lead.CompanyName, &employeeRange, &industry, &lead.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		lead.EmployeeRange = getString(employeeRange)
		lead.Industry = getString(industry)
		leads = append(leads, &lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) CreateMany(ctx context.Context, leads []*models.Lead) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO leads (id, first_name, last_name, job_title, company_name,
		                   employee_range, industry, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, lead := range leads {
		_, err := r.conn(ctx).Exec(ctx, query,
			lead.ID, lead.FirstName, lead.LastName, lead.JobTitle,
			lead.CompanyName, nullString(lead.EmployeeRange), nullString(lead.Industry),
			lead.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert lead %s: %w", lead.ID, err)
		}
	}
	return nil
}
