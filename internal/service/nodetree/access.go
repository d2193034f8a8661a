package nodetree

import (
	"fmt"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
)

// canAccess decides read/write access for an identity on a node: owner match,
// or the node sits in an organization pool. Organization membership itself is
// asserted by the external identity provider's session claims, not re-checked
// here.
func canAccess(identity models.Identity, node *models.Node) bool {
	if identity.IsAnonymous() {
		return false
	}
	if node.OwnerID != nil && *node.OwnerID == identity.UserID {
		return true
	}
	return node.OrgID != nil && *node.OrgID != ""
}

// requireWrite re-validates access against a freshly loaded node before a
// mutation. Callers must pass the node as loaded in the current call, never a
// cached copy, to avoid stale-permission writes.
func requireWrite(identity models.Identity, node *models.Node) error {
	if identity.IsAnonymous() {
		return fmt.Errorf("authentication required: %w", domain.ErrUnauthorized)
	}
	if !canAccess(identity, node) {
		return fmt.Errorf("access denied to node %s: %w", node.ID, domain.ErrForbidden)
	}
	return nil
}

// scopeFor resolves the visibility pool a caller is addressing: the named
// organization pool, or the caller's personal pool.
func scopeFor(identity models.Identity, orgID string) models.Scope {
	if orgID != "" {
		return models.OrgScope(orgID)
	}
	return models.PersonalScope(identity.UserID)
}
