package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
)

// PostgresTagRepository implements the TagRepository interface
type PostgresTagRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewTagRepository creates a new tag repository
func NewTagRepository(config *RepositoryConfig) repositories.TagRepository {
	return &PostgresTagRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Get retrieves a tag by ID
func (r *PostgresTagRepository) Get(ctx context.Context, id string) (*models.Tag, error) {
	query := fmt.Sprintf(`
		SELECT id, name, color, owner_id, org_id, usage_count, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Tags)

	var tag models.Tag
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&tag.ID,
		&tag.Name,
		&tag.Color,
		&tag.OwnerID,
		&tag.OrgID,
		&tag.UsageCount,
		&tag.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}

	return &tag, nil
}

// Create stores a new tag
func (r *PostgresTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, color, owner_id, org_id, usage_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Tags)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		tag.ID,
		tag.Name,
		tag.Color,
		tag.OwnerID,
		tag.OrgID,
		tag.UsageCount,
		tag.CreatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a tag named %q already exists", tag.Name),
				ResourceType: "tag",
				ResourceID:   tag.ID,
			}
		}
		return fmt.Errorf("create tag: %w", err)
	}

	return nil
}

// ListByScope returns tags in the personal pool and, when orgID is non-empty,
// the organization pool
func (r *PostgresTagRepository) ListByScope(ctx context.Context, userID, orgID string) ([]models.Tag, error) {
	var query string
	var args []interface{}
	if orgID != "" {
		query = fmt.Sprintf(`
			SELECT id, name, color, owner_id, org_id, usage_count, created_at
			FROM %s
			WHERE (owner_id = $1 AND org_id IS NULL) OR org_id = $2
			ORDER BY name ASC
		`, r.tables.Tags)
		args = []interface{}{userID, orgID}
	} else {
		query = fmt.Sprintf(`
			SELECT id, name, color, owner_id, org_id, usage_count, created_at
			FROM %s
			WHERE owner_id = $1 AND org_id IS NULL
			ORDER BY name ASC
		`, r.tables.Tags)
		args = []interface{}{userID}
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		err := rows.Scan(
			&tag.ID,
			&tag.Name,
			&tag.Color,
			&tag.OwnerID,
			&tag.OrgID,
			&tag.UsageCount,
			&tag.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	// Return empty slice instead of nil
	if tags == nil {
		tags = []models.Tag{}
	}

	return tags, nil
}

// AdjustUsage increments or decrements a tag's usage count.
// GREATEST keeps the count from going negative if adjustments ever race.
func (r *PostgresTagRepository) AdjustUsage(ctx context.Context, id string, delta int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET usage_count = GREATEST(usage_count + $1, 0)
		WHERE id = $2
	`, r.tables.Tags)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, delta, id)
	if err != nil {
		return fmt.Errorf("adjust tag usage: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
