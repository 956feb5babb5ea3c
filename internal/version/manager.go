// internal/version/manager.go
//
// Version history: snapshot, list, get, restore, prune.
//
// Context
// -------
// Snapshots are append-only and pruned oldest-first down to a retention
// count the caller supplies (the plan system owns that number; this package
// never sees a plan).  Pruning runs after the snapshot commits and is
// fire-and-forget: a prune failure is logged, never surfaced, because the
// snapshot the user asked for already exists.
//
// Restore is the one multi-row mutation: a pre-restore snapshot of the
// current list, a wholesale delete, and a verbatim re-insert, all inside a
// single transaction so a failure at any step leaves the page untouched.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package version

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/stanza/internal/content"
	"github.com/yanizio/stanza/internal/metrics"
)

// Manager owns the `page_version` table.  It reads live blocks through the
// content store and writes version rows directly.
type Manager struct {
	db    *sqlx.DB
	store *content.Store
}

// NewManager wires the manager to the shared pool and content store.
func NewManager(db *sqlx.DB, store *content.Store) *Manager {
	return &Manager{db: db, store: store}
}

// Snapshot captures the page's current ordered block list as a new Version,
// then prunes history beyond retain in the background.
func (m *Manager) Snapshot(ctx context.Context, tenantID, pageID uint64, label string, trigger Trigger, savedBy string, retain int) (*Version, error) {
	if _, err := m.store.PageByID(ctx, tenantID, pageID); err != nil {
		return nil, err
	}
	blocks, err := m.store.ListBlocks(ctx, tenantID, pageID)
	if err != nil {
		return nil, err
	}

	doc := snapshotBlocks(blocks)
	res, err := m.db.ExecContext(ctx, `
	    INSERT INTO page_version (page_id, label, `+"`trigger`"+`, saved_by, content_snapshot)
	    VALUES (?, ?, ?, ?, ?)`,
		pageID, label, trigger, savedBy, doc)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	metrics.VersionSnapshotTotal.Inc()

	// Fire-and-forget: the snapshot already committed, so a prune failure
	// must not fail this call.  Fresh context; the request's may be done.
	go func() {
		if err := m.Prune(context.Background(), tenantID, pageID, retain); err != nil {
			zap.S().Errorw("version prune failed", "page", pageID, "err", err)
		}
	}()

	return m.Get(ctx, tenantID, uint64(id))
}

// List returns version metadata newest-first.  Documents are omitted; fetch
// one with Get when the body is needed.
func (m *Manager) List(ctx context.Context, tenantID, pageID uint64) ([]Meta, error) {
	if _, err := m.store.PageByID(ctx, tenantID, pageID); err != nil {
		return nil, err
	}
	const q = `
	    SELECT v.id, v.page_id, v.label, v.` + "`trigger`" + `, v.saved_by, v.saved_at
	    FROM   page_version v
	    JOIN   page p ON p.id = v.page_id
	    JOIN   site s ON s.id = p.site_id
	    WHERE  v.page_id = ? AND s.tenant_id = ?
	    ORDER  BY v.saved_at DESC, v.id DESC`
	var rows []Meta
	if err := m.db.SelectContext(ctx, &rows, q, pageID, tenantID); err != nil {
		return nil, err
	}
	return rows, nil
}

// Get returns one version with its full document, tenant-scoped.
func (m *Manager) Get(ctx context.Context, tenantID, versionID uint64) (*Version, error) {
	const q = `
	    SELECT v.id, v.page_id, v.label, v.` + "`trigger`" + `, v.saved_by, v.saved_at,
	           v.content_snapshot
	    FROM   page_version v
	    JOIN   page p ON p.id = v.page_id
	    JOIN   site s ON s.id = p.site_id
	    WHERE  v.id = ? AND s.tenant_id = ? AND s.archived_at IS NULL`
	var rec Version
	if err := m.db.GetContext(ctx, &rec, q, versionID, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: version %d", content.ErrNotFound, versionID)
		}
		return nil, err
	}
	return &rec, nil
}

// Restore replaces the page's blocks with the target version's document.
// The current list is snapshotted first (trigger pre_restore) inside the
// same transaction, so a bad restore is itself recoverable and a failed one
// leaves the page exactly as it was.
func (m *Manager) Restore(ctx context.Context, tenantID, pageID, versionID uint64, savedBy string, retain int) error {
	target, err := m.Get(ctx, tenantID, versionID)
	if err != nil {
		return err
	}
	if target.PageID != pageID {
		return fmt.Errorf("%w: version %d does not belong to page %d", content.ErrNotFound, versionID, pageID)
	}
	current, err := m.store.ListBlocks(ctx, tenantID, pageID)
	if err != nil {
		return err
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
	    INSERT INTO page_version (page_id, label, `+"`trigger`"+`, saved_by, content_snapshot)
	    VALUES (?, ?, ?, ?, ?)`,
		pageID, fmt.Sprintf("Before restoring %q", target.Label),
		TriggerPreRestore, savedBy, snapshotBlocks(current))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM block WHERE page_id = ?`, pageID); err != nil {
		return err
	}
	// Recorded order keys are re-inserted verbatim: the snapshot's relative
	// order is already encoded in them, so no re-keying happens.
	for _, b := range target.Snapshot {
		_, err := tx.ExecContext(ctx, `
		    INSERT INTO block (page_id, kind, order_key, props, is_visible, is_locked)
		    VALUES (?, ?, ?, ?, ?, ?)`,
			pageID, b.Kind, b.OrderKey, b.Props, b.IsVisible, b.IsLocked)
		if err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	metrics.VersionRestoreTotal.Inc()

	go func() {
		if err := m.Prune(context.Background(), tenantID, pageID, retain); err != nil {
			zap.S().Errorw("version prune failed", "page", pageID, "err", err)
		}
	}()
	return nil
}

// Prune hard-deletes versions beyond the newest retain entries, oldest
// first.  A non-positive retain is a no-op: the plan system always supplies
// a real limit, and deleting a page's entire history on a zero would be an
// unrecoverable way to handle a bad input.
func (m *Manager) Prune(ctx context.Context, tenantID, pageID uint64, retain int) error {
	if retain <= 0 {
		return nil
	}
	const q = `
	    SELECT v.id
	    FROM   page_version v
	    JOIN   page p ON p.id = v.page_id
	    JOIN   site s ON s.id = p.site_id
	    WHERE  v.page_id = ? AND s.tenant_id = ?
	    ORDER  BY v.saved_at DESC, v.id DESC`
	var ids []uint64
	if err := m.db.SelectContext(ctx, &ids, q, pageID, tenantID); err != nil {
		return err
	}
	if len(ids) <= retain {
		return nil
	}

	stale := ids[retain:] // newest-first listing → everything past retain is oldest
	query, args, err := sqlx.In(`DELETE FROM page_version WHERE id IN (?)`, stale)
	if err != nil {
		return err
	}
	if _, err := m.db.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	metrics.VersionPruneTotal.Add(float64(len(stale)))
	return nil
}
