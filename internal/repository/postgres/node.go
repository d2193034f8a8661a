package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
)

// nodeColumns is the full column set in scan order.
const nodeColumns = `id, type, parent_id, title, icon, description, sort_order,
	owner_id, org_id, content, status, tag_ids, source_file,
	current_major_version, current_minor_version, current_version_string, last_version_snapshot_at,
	is_deleted, deleted_at, created_at, created_by, updated_at, updated_by, updated_by_name`

// nodeMetaColumns substitutes NULL for content so listings skip payload I/O.
const nodeMetaColumns = `id, type, parent_id, title, icon, description, sort_order,
	owner_id, org_id, NULL, status, tag_ids, source_file,
	current_major_version, current_minor_version, current_version_string, last_version_snapshot_at,
	is_deleted, deleted_at, created_at, created_by, updated_at, updated_by, updated_by_name`

// PostgresNodeRepository implements the NodeRepository interface
type PostgresNodeRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewNodeRepository creates a new node repository
func NewNodeRepository(config *RepositoryConfig) repositories.NodeRepository {
	return &PostgresNodeRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func scanNode(row pgx.Row) (*models.Node, error) {
	var n models.Node
	var content []byte
	var status *string
	err := row.Scan(
		&n.ID,
		&n.Type,
		&n.ParentID,
		&n.Title,
		&n.Icon,
		&n.Description,
		&n.Order,
		&n.OwnerID,
		&n.OrgID,
		&content,
		&status,
		&n.TagIDs,
		&n.SourceFile,
		&n.CurrentMajorVersion,
		&n.CurrentMinorVersion,
		&n.CurrentVersionString,
		&n.LastVersionSnapshotAt,
		&n.IsDeleted,
		&n.DeletedAt,
		&n.CreatedAt,
		&n.CreatedBy,
		&n.UpdatedAt,
		&n.UpdatedBy,
		&n.UpdatedByName,
	)
	if err != nil {
		return nil, err
	}
	if content != nil {
		n.Content = json.RawMessage(content)
	}
	if status != nil {
		s := models.DocStatus(*status)
		n.Status = &s
	}
	return &n, nil
}

// scopeCondition builds the WHERE fragment selecting a visibility pool.
// Personal nodes are owner_id rows with org_id unset; toggling sharing flips
// the pair exclusively, so the two predicates never overlap.
func scopeCondition(scope models.Scope, argIndex int) (string, interface{}) {
	if scope.IsOrg() {
		return fmt.Sprintf("org_id = $%d", argIndex), scope.OrgID
	}
	return fmt.Sprintf("owner_id = $%d AND org_id IS NULL", argIndex), scope.OwnerID
}

// Get retrieves a node by ID. Soft-deleted nodes are reported as not found.
func (r *PostgresNodeRepository) Get(ctx context.Context, id string) (*models.Node, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND is_deleted = FALSE
	`, nodeColumns, r.tables.Nodes)

	executor := GetExecutor(ctx, r.pool)
	node, err := scanNode(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get node: %w", err)
	}

	return node, nil
}

// Insert stores a new node
func (r *PostgresNodeRepository) Insert(ctx context.Context, node *models.Node) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, type, parent_id, title, icon, description, sort_order,
			owner_id, org_id, content, status, tag_ids, source_file,
			current_major_version, current_minor_version, current_version_string, last_version_snapshot_at,
			is_deleted, created_at, created_by, updated_at, updated_by, updated_by_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, FALSE, $18, $19, $20, $21, $22)
	`, r.tables.Nodes)

	var content []byte
	if node.Content != nil {
		content = node.Content
	}
	var status *string
	if node.Status != nil {
		s := string(*node.Status)
		status = &s
	}

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		node.ID,
		node.Type,
		node.ParentID,
		node.Title,
		node.Icon,
		node.Description,
		node.Order,
		node.OwnerID,
		node.OrgID,
		content,
		status,
		node.TagIDs,
		node.SourceFile,
		node.CurrentMajorVersion,
		node.CurrentMinorVersion,
		node.CurrentVersionString,
		node.LastVersionSnapshotAt,
		node.CreatedAt,
		node.CreatedBy,
		node.UpdatedAt,
		node.UpdatedBy,
		node.UpdatedByName,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("node %s: %w", node.ID, domain.ErrConflict)
		}
		return fmt.Errorf("insert node: %w", err)
	}

	return nil
}

// UpdateMeta applies a partial update of descriptive fields plus audit
func (r *PostgresNodeRepository) UpdateMeta(ctx context.Context, id string, patch repositories.MetaPatch, audit repositories.Audit) error {
	sets := []string{"updated_at = $1", "updated_by = $2", "updated_by_name = $3"}
	args := []interface{}{audit.At, audit.By, audit.ByName}
	argIndex := 4

	if patch.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", argIndex))
		args = append(args, *patch.Title)
		argIndex++
	}
	if patch.Icon != nil {
		sets = append(sets, fmt.Sprintf("icon = $%d", argIndex))
		args = append(args, *patch.Icon)
		argIndex++
	}
	if patch.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", argIndex))
		args = append(args, *patch.Description)
		argIndex++
	}
	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, string(*patch.Status))
		argIndex++
	}
	if patch.TagIDs != nil {
		sets = append(sets, fmt.Sprintf("tag_ids = $%d", argIndex))
		args = append(args, patch.TagIDs)
		argIndex++
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = $%d AND is_deleted = FALSE
	`, r.tables.Nodes, strings.Join(sets, ", "), argIndex)
	args = append(args, id)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update node meta: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UpdateParentOrder reparents a node and assigns its sibling order
func (r *PostgresNodeRepository) UpdateParentOrder(ctx context.Context, id string, parentID *string, order int, audit repositories.Audit) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, sort_order = $2, updated_at = $3, updated_by = $4, updated_by_name = $5
		WHERE id = $6 AND is_deleted = FALSE
	`, r.tables.Nodes)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, parentID, order, audit.At, audit.By, audit.ByName, id)
	if err != nil {
		return fmt.Errorf("update node parent/order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UpdateOrder renumbers a single sibling without touching audit fields
func (r *PostgresNodeRepository) UpdateOrder(ctx context.Context, id string, order int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET sort_order = $1
		WHERE id = $2 AND is_deleted = FALSE
	`, r.tables.Nodes)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, order, id)
	if err != nil {
		return fmt.Errorf("update node order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UpdateContent replaces a doc's content without moving the version cursor
func (r *PostgresNodeRepository) UpdateContent(ctx context.Context, id string, content json.RawMessage, audit repositories.Audit) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $1, updated_at = $2, updated_by = $3, updated_by_name = $4
		WHERE id = $5 AND is_deleted = FALSE
	`, r.tables.Nodes)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, []byte(content), audit.At, audit.By, audit.ByName, id)
	if err != nil {
		return fmt.Errorf("update node content: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// InitVersionCursor applies a doc's first content write and initializes its version cursor
func (r *PostgresNodeRepository) InitVersionCursor(ctx context.Context, id string, content json.RawMessage, major, minor int, versionString string, snapshotAt time.Time, audit repositories.Audit) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $1,
		    current_major_version = $2, current_minor_version = $3,
		    current_version_string = $4, last_version_snapshot_at = $5,
		    updated_at = $6, updated_by = $7, updated_by_name = $8
		WHERE id = $9 AND is_deleted = FALSE
	`, r.tables.Nodes)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, []byte(content), major, minor, versionString, snapshotAt, audit.At, audit.By, audit.ByName, id)
	if err != nil {
		return fmt.Errorf("init version cursor: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// AdvanceVersionCursor applies new content and advances the version cursor.
// The WHERE clause doubles as a compare-and-swap on last_version_snapshot_at:
// a concurrent writer that already advanced the cursor makes this a no-op.
func (r *PostgresNodeRepository) AdvanceVersionCursor(ctx context.Context, id string, content json.RawMessage, expectedSnapshotAt time.Time, minor int, versionString string, snapshotAt time.Time, audit repositories.Audit) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $1,
		    current_minor_version = $2, current_version_string = $3, last_version_snapshot_at = $4,
		    updated_at = $5, updated_by = $6, updated_by_name = $7
		WHERE id = $8 AND is_deleted = FALSE AND last_version_snapshot_at = $9
	`, r.tables.Nodes)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, []byte(content), minor, versionString, snapshotAt, audit.At, audit.By, audit.ByName, id, expectedSnapshotAt)
	if err != nil {
		return false, fmt.Errorf("advance version cursor: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// SetScope flips the node's visibility scope
func (r *PostgresNodeRepository) SetScope(ctx context.Context, id string, ownerID, orgID *string, audit repositories.Audit) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET owner_id = $1, org_id = $2, updated_at = $3, updated_by = $4, updated_by_name = $5
		WHERE id = $6 AND is_deleted = FALSE
	`, r.tables.Nodes)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ownerID, orgID, audit.At, audit.By, audit.ByName, id)
	if err != nil {
		return fmt.Errorf("set node scope: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// MarkDeleted soft-deletes the given nodes
func (r *PostgresNodeRepository) MarkDeleted(ctx context.Context, ids []string, deletedAt time.Time, audit repositories.Audit) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = TRUE, deleted_at = $1, updated_at = $2, updated_by = $3, updated_by_name = $4
		WHERE id = ANY($5) AND is_deleted = FALSE
	`, r.tables.Nodes)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, deletedAt, audit.At, audit.By, audit.ByName, ids); err != nil {
		return fmt.Errorf("mark nodes deleted: %w", err)
	}

	return nil
}

// ListByScope returns all non-deleted nodes in a scope, content included
func (r *PostgresNodeRepository) ListByScope(ctx context.Context, scope models.Scope) ([]models.Node, error) {
	cond, arg := scopeCondition(scope, 1)
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s AND is_deleted = FALSE
		ORDER BY sort_order ASC, created_at ASC
	`, nodeColumns, r.tables.Nodes, cond)

	return r.queryNodes(ctx, query, arg)
}

// ListChildren returns the non-deleted direct children of parentID
func (r *PostgresNodeRepository) ListChildren(ctx context.Context, scope models.Scope, parentID *string) ([]models.Node, error) {
	cond, arg := scopeCondition(scope, 1)

	var query string
	args := []interface{}{arg}
	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE %s AND parent_id IS NULL AND is_deleted = FALSE
			ORDER BY sort_order ASC, created_at ASC
		`, nodeMetaColumns, r.tables.Nodes, cond)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE %s AND parent_id = $2 AND is_deleted = FALSE
			ORDER BY sort_order ASC, created_at ASC
		`, nodeMetaColumns, r.tables.Nodes, cond)
		args = append(args, *parentID)
	}

	return r.queryNodes(ctx, query, args...)
}

// MaxSiblingOrder returns the highest sibling order in a (scope, parent) bucket
func (r *PostgresNodeRepository) MaxSiblingOrder(ctx context.Context, scope models.Scope, parentID *string) (int, bool, error) {
	cond, arg := scopeCondition(scope, 1)

	var query string
	args := []interface{}{arg}
	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT sort_order
			FROM %s
			WHERE %s AND parent_id IS NULL AND is_deleted = FALSE
			ORDER BY sort_order DESC
			LIMIT 1
		`, r.tables.Nodes, cond)
	} else {
		query = fmt.Sprintf(`
			SELECT sort_order
			FROM %s
			WHERE %s AND parent_id = $2 AND is_deleted = FALSE
			ORDER BY sort_order DESC
			LIMIT 1
		`, r.tables.Nodes, cond)
		args = append(args, *parentID)
	}

	var order int
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, args...).Scan(&order)
	if err != nil {
		if IsPgNoRowsError(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("max sibling order: %w", err)
	}

	return order, true, nil
}

// SearchCandidates returns non-deleted docs across the personal pool and,
// when orgID is non-empty, the organization pool
func (r *PostgresNodeRepository) SearchCandidates(ctx context.Context, userID, orgID string) ([]models.Node, error) {
	var query string
	var args []interface{}
	if orgID != "" {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE type = 'doc' AND is_deleted = FALSE
			  AND ((owner_id = $1 AND org_id IS NULL) OR org_id = $2)
			ORDER BY updated_at DESC
		`, nodeMetaColumns, r.tables.Nodes)
		args = []interface{}{userID, orgID}
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE type = 'doc' AND is_deleted = FALSE
			  AND owner_id = $1 AND org_id IS NULL
			ORDER BY updated_at DESC
		`, nodeMetaColumns, r.tables.Nodes)
		args = []interface{}{userID}
	}

	return r.queryNodes(ctx, query, args...)
}

func (r *PostgresNodeRepository) queryNodes(ctx context.Context, query string, args ...interface{}) ([]models.Node, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []models.Node
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		nodes = append(nodes, *node)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}

	// Return empty slice instead of nil
	if nodes == nil {
		nodes = []models.Node{}
	}

	return nodes, nil
}
