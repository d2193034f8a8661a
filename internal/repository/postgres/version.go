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

// PostgresVersionRepository implements the VersionRepository interface
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(config *RepositoryConfig) repositories.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Insert stores a new snapshot
func (r *PostgresVersionRepository) Insert(ctx context.Context, version *models.DocumentVersion) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, doc_id, major_version, minor_version, version_string,
			title, content, is_major_version, created_at, created_by, created_by_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		version.ID,
		version.DocID,
		version.MajorVersion,
		version.MinorVersion,
		version.VersionString,
		version.Title,
		[]byte(version.Content),
		version.IsMajorVersion,
		version.CreatedAt,
		version.CreatedBy,
		version.CreatedByName,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("version %s of doc %s: %w", version.VersionString, version.DocID, domain.ErrConflict)
		}
		return fmt.Errorf("insert version: %w", err)
	}

	return nil
}

// ListByDoc returns a doc's snapshots newest-first
func (r *PostgresVersionRepository) ListByDoc(ctx context.Context, docID string) ([]models.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT id, doc_id, major_version, minor_version, version_string,
			title, content, is_major_version, created_at, created_by, created_by_name
		FROM %s
		WHERE doc_id = $1
		ORDER BY major_version DESC, minor_version DESC
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, docID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []models.DocumentVersion
	for rows.Next() {
		var v models.DocumentVersion
		var content []byte
		err := rows.Scan(
			&v.ID,
			&v.DocID,
			&v.MajorVersion,
			&v.MinorVersion,
			&v.VersionString,
			&v.Title,
			&content,
			&v.IsMajorVersion,
			&v.CreatedAt,
			&v.CreatedBy,
			&v.CreatedByName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		v.Content = content
		versions = append(versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}

	// Return empty slice instead of nil
	if versions == nil {
		versions = []models.DocumentVersion{}
	}

	return versions, nil
}
