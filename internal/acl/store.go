// internal/acl/store.go
//
// Small query helpers for role checks.
//
// Context
// -------
// The role model is two tables in the control-plane database:
//
//	role        (id PK, tenant_id, name, enabled)
//	user_role   (user_id, role_id)
//
// The editing surface needs one fast answer: may this user bypass block
// locks?  Locked blocks reject edits from everyone except users holding a
// privileged role (`admin` or `agency`).  These helpers are thin
// parameterised queries; callers may wrap the results in their own
// per-request cache.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package acl

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Privileged role names.  Holding any of them unlocks locked blocks.
var privilegedRoles = map[string]struct{}{
	"admin":  {},
	"agency": {},
}

// UserRoles returns the role names bound to userID within the tenant.
// Disabled roles are filtered out.
func UserRoles(ctx context.Context, db *sqlx.DB, tenantID, userID uint64) ([]string, error) {
	const q = `SELECT r.name
	             FROM user_role ur
	             JOIN role r ON r.id = ur.role_id
	            WHERE ur.user_id = ? AND r.tenant_id = ? AND r.enabled = TRUE`
	roles := make([]string, 0, 4)
	if err := db.SelectContext(ctx, &roles, q, userID, tenantID); err != nil {
		return nil, err
	}
	return roles, nil
}

// IsPrivileged reports whether the user holds a role that bypasses block
// locks.  A query error fails closed.
func IsPrivileged(ctx context.Context, db *sqlx.DB, tenantID, userID uint64) (bool, error) {
	roles, err := UserRoles(ctx, db, tenantID, userID)
	if err != nil {
		return false, err
	}
	for _, name := range roles {
		if _, ok := privilegedRoles[name]; ok {
			return true, nil
		}
	}
	return false, nil
}
