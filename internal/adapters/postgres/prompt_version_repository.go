package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arthurmateu/throxy-project/internal/domain"
	"github.com/arthurmateu/throxy-project/internal/domain/models"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

type PromptVersionRepository struct {
	BaseRepository
}

var _ ports.PromptVersionRepository = (*PromptVersionRepository)(nil)

func NewPromptVersionRepository(pool *pgxpool.Pool) *PromptVersionRepository {
	return &PromptVersionRepository{BaseRepository: NewBaseRepository(pool)}
}

const promptVersionColumns = `id, version, content, active, fitness, generation,
	parent_version, created_at, activated_at, deactivated_at`

func (r *PromptVersionRepository) scanVersion(row pgx.Row) (*models.PromptVersion, error) {
	var v models.PromptVersion
	var fitness sql.NullFloat64
	var generation, parentVersion sql.NullInt32
	var activatedAt, deactivatedAt sql.NullTime

	err := row.Scan(
		&v.ID, &v.Version, &v.Content, &v.Active, &fitness, &generation,
		&parentVersion, &v.CreatedAt, &activatedAt, &deactivatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.Fitness = getFloatPtr(fitness)
	v.Generation = getIntPtr(generation)
	v.ParentVersion = getIntPtr(parentVersion)
	v.ActivatedAt = getTimePtr(activatedAt)
	v.DeactivatedAt = getTimePtr(deactivatedAt)
	return &v, nil
}

func (r *PromptVersionRepository) GetActive(ctx context.Context) (*models.PromptVersion, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s FROM prompt_versions
		WHERE active = true
		ORDER BY version DESC
		LIMIT 1`, promptVersionColumns)

	v, err := r.scanVersion(r.conn(ctx).QueryRow(ctx, query))
	if err != nil {
		if checkNoRows(err) {
			return nil, domain.ErrPromptNotFound
		}
		return nil, fmt.Errorf("failed to get active prompt: %w", err)
	}
	return v, nil
}

func (r *PromptVersionRepository) GetByVersion(ctx context.Context, version int) (*models.PromptVersion, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM prompt_versions WHERE version = $1`, promptVersionColumns)

	v, err := r.scanVersion(r.conn(ctx).QueryRow(ctx, query, version))
	if err != nil {
		if checkNoRows(err) {
			return nil, domain.ErrPromptNotFound
		}
		return nil, fmt.Errorf("failed to get prompt version %d: %w", version, err)
	}
	return v, nil
}

func (r *PromptVersionRepository) Create(ctx context.Context, v *models.PromptVersion) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO prompt_versions (id, version, content, active, fitness,
		                             generation, parent_version, created_at, activated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.conn(ctx).Exec(ctx, query,
		v.ID, v.Version, v.Content, v.Active, nullFloatPtr(v.Fitness),
		nullIntPtr(v.Generation), nullIntPtr(v.ParentVersion), v.CreatedAt,
		nullTime(v.ActivatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert prompt version %d: %w", v.Version, err)
	}
	return nil
}

func (r *PromptVersionRepository) NextVersion(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var next int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM prompt_versions`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next prompt version: %w", err)
	}
	return next, nil
}

// SetActive deactivates every version, then activates the given one.
// At most one version is active at any time.
func (r *PromptVersionRepository) SetActive(ctx context.Context, version int) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now()

	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE prompt_versions SET active = false, deactivated_at = $1 WHERE active = true`, now)
	if err != nil {
		return fmt.Errorf("failed to deactivate prompt versions: %w", err)
	}

	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE prompt_versions SET active = true, activated_at = $1, deactivated_at = NULL WHERE version = $2`,
		now, version)
	if err != nil {
		return fmt.Errorf("failed to activate prompt version %d: %w", version, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPromptNotFound
	}
	return nil
}

func (r *PromptVersionRepository) List(ctx context.Context, limit int) ([]*models.PromptVersion, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s FROM prompt_versions
		ORDER BY version DESC
		LIMIT $1`, promptVersionColumns)

	rows, err := r.conn(ctx).Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt versions: %w", err)
	}
	defer rows.Close()

	var versions []*models.PromptVersion
	for rows.Next() {
		v, err := r.scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prompt version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}
