package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
)

// PostgresActivityRepository implements the ActivityRepository interface
type PostgresActivityRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(config *RepositoryConfig) repositories.ActivityRepository {
	return &PostgresActivityRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Record appends one audit trail entry
func (r *PostgresActivityRepository) Record(ctx context.Context, entry *models.ActivityEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, actor_id, actor_name, action, node_id, node_type, node_title, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.Activity)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		entry.ID,
		entry.ActorID,
		entry.ActorName,
		entry.Action,
		entry.NodeID,
		entry.NodeType,
		entry.NodeTitle,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}

	return nil
}

// ListRecent returns the newest entries recorded by the caller or anyone in
// the caller's organization pool
func (r *PostgresActivityRepository) ListRecent(ctx context.Context, userID, orgID string, limit int) ([]models.ActivityEntry, error) {
	// Visibility piggybacks on the nodes table: an entry is visible when its
	// node is (or was) in one of the caller's pools.
	var query string
	var args []interface{}
	if orgID != "" {
		query = fmt.Sprintf(`
			SELECT a.id, a.actor_id, a.actor_name, a.action, a.node_id, a.node_type, a.node_title, a.created_at
			FROM %s a
			JOIN %s n ON n.id = a.node_id
			WHERE (n.owner_id = $1 AND n.org_id IS NULL) OR n.org_id = $2
			ORDER BY a.created_at DESC
			LIMIT $3
		`, r.tables.Activity, r.tables.Nodes)
		args = []interface{}{userID, orgID, limit}
	} else {
		query = fmt.Sprintf(`
			SELECT a.id, a.actor_id, a.actor_name, a.action, a.node_id, a.node_type, a.node_title, a.created_at
			FROM %s a
			JOIN %s n ON n.id = a.node_id
			WHERE n.owner_id = $1 AND n.org_id IS NULL
			ORDER BY a.created_at DESC
			LIMIT $2
		`, r.tables.Activity, r.tables.Nodes)
		args = []interface{}{userID, limit}
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var entries []models.ActivityEntry
	for rows.Next() {
		var e models.ActivityEntry
		err := rows.Scan(
			&e.ID,
			&e.ActorID,
			&e.ActorName,
			&e.Action,
			&e.NodeID,
			&e.NodeType,
			&e.NodeTitle,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan activity entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}

	// Return empty slice instead of nil
	if entries == nil {
		entries = []models.ActivityEntry{}
	}

	return entries, nil
}
