// internal/content/store.go
//
// Store bundles the tenant-scoped CRUD surface over the content tree.
//
// Context
// -------
// Every method takes the owning tenant's ID explicitly; there is no ambient
// "current tenant".  Queries reach pages and blocks only through a JOIN on
// the owning `site` row filtered by tenant_id, so cross-tenant access is
// structurally impossible: a foreign ID simply produces ErrNotFound.
//
// Invariants are validated before the first write of any operation, so a
// rejected mutation leaves zero rows touched.  Persistence failures are
// returned raw: retrying is the caller's policy, and swallowing them here
// would risk silent data loss during a publish or restore.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package content

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Store provides Site, Page, and Block operations over one database pool.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open pool.  The pool is shared with the version and
// publish layers; Store never closes it.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// validate checks tagged input structs (NewSite, NewPage, NewBlock).
var validate = validator.New()

// mysqlDuplicateEntry is the server error for a violated unique index.
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a unique-index violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
