// internal/content/block.go
//
// Block CRUD and ordering.
//
// Context
// -------
// Placement works on "insert after block X" anchors.  The store reads the
// two neighbour keys around the requested position and asks
// internal/ordering for a key strictly between them, so an insert or move
// touches only the affected block's own row.
//
// Two concurrent inserts that observe the same neighbours compute the same
// key; the unique (page_id, order_key) index rejects the loser, which
// re-reads its neighbours and tries again.  Ordering is therefore preserved
// with nothing beyond per-row atomicity.
//
// A nil anchor means "append to the end" on create and "move to the front"
// on move: creation defaults to the tail so blocks land in insertion order,
// while a move with no anchor is the only way to reach position one.
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/yanizio/stanza/internal/ordering"
)

const blockCols = `
        b.id, b.page_id, b.kind, b.order_key, b.props,
        b.is_visible, b.is_locked, b.created_at, b.updated_at`

// keyAttempts bounds the re-read loop under concurrent same-boundary
// inserts.  Each retry observes the winner's key, so two attempts suffice
// unless inserts keep racing on the exact same gap.
const keyAttempts = 3

// NewBlock is the creation payload.
type NewBlock struct {
	Kind    string `validate:"required,max=40"`
	Props   Props
	AfterID *uint64 // nil → append to the end of the page
}

// BlockUpdate carries optional field changes; nil means "leave unchanged".
// Kind is fixed at creation: changing a hero into a footer in place would
// orphan its props, so editors delete and re-create instead.
type BlockUpdate struct {
	Props     *Props
	IsVisible *bool
	IsLocked  *bool
}

// CreateBlock inserts a block at the requested position.
func (s *Store) CreateBlock(ctx context.Context, tenantID, pageID uint64, in NewBlock) (*Block, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if !KnownKind(in.Kind) {
		return nil, fmt.Errorf("%w: unknown block kind %q", ErrInvalidState, in.Kind)
	}
	if _, err := s.PageByID(ctx, tenantID, pageID); err != nil {
		return nil, err
	}
	if in.Props == nil {
		in.Props = Props{}
	}

	var lastErr error
	for attempt := 0; attempt < keyAttempts; attempt++ {
		lower, upper, err := s.insertBounds(ctx, pageID, in.AfterID)
		if err != nil {
			return nil, err
		}
		key, err := ordering.KeyBetween(lower, upper)
		if err != nil {
			return nil, err
		}

		res, err := s.db.ExecContext(ctx, `
		    INSERT INTO block (page_id, kind, order_key, props, is_visible, is_locked)
		    VALUES (?, ?, ?, ?, TRUE, FALSE)`,
			pageID, in.Kind, key, in.Props)
		if err != nil {
			if isDuplicate(err) {
				// A concurrent insert took this key; observe it as the new
				// neighbour and recompute.
				lastErr = err
				continue
			}
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		return s.BlockByID(ctx, tenantID, uint64(id))
	}
	return nil, lastErr
}

// BlockByID fetches one block scoped through its page's site tenant.
func (s *Store) BlockByID(ctx context.Context, tenantID, blockID uint64) (*Block, error) {
	const q = `
	    SELECT ` + blockCols + `
	    FROM   block b
	    JOIN   page p ON p.id = b.page_id
	    JOIN   site s ON s.id = p.site_id
	    WHERE  b.id = ? AND s.tenant_id = ? AND s.archived_at IS NULL`
	var rec Block
	if err := s.db.GetContext(ctx, &rec, q, blockID, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: block %d", ErrNotFound, blockID)
		}
		return nil, err
	}
	return &rec, nil
}

// ListBlocks returns the page's blocks sorted by order key.  The column
// uses a binary collation, so the database's sort agrees with the
// generator's string ordering.
func (s *Store) ListBlocks(ctx context.Context, tenantID, pageID uint64) ([]Block, error) {
	const q = `
	    SELECT ` + blockCols + `
	    FROM   block b
	    JOIN   page p ON p.id = b.page_id
	    JOIN   site s ON s.id = p.site_id
	    WHERE  b.page_id = ? AND s.tenant_id = ? AND s.archived_at IS NULL
	    ORDER  BY b.order_key`
	var rows []Block
	if err := s.db.SelectContext(ctx, &rows, q, pageID, tenantID); err != nil {
		return nil, err
	}
	return rows, nil
}

// MoveBlock re-keys one block to sit after the anchor (or at the front when
// the anchor is nil).  No other block's key changes.
func (s *Store) MoveBlock(ctx context.Context, tenantID, blockID uint64, afterID *uint64) (*Block, error) {
	b, err := s.BlockByID(ctx, tenantID, blockID)
	if err != nil {
		return nil, err
	}
	if afterID != nil && *afterID == blockID {
		return nil, fmt.Errorf("%w: block cannot be moved after itself", ErrInvalidState)
	}

	var lastErr error
	for attempt := 0; attempt < keyAttempts; attempt++ {
		lower, upper, err := s.moveBounds(ctx, b.PageID, blockID, afterID)
		if err != nil {
			return nil, err
		}
		key, err := ordering.KeyBetween(lower, upper)
		if err != nil {
			return nil, err
		}
		if _, err := s.db.ExecContext(ctx,
			`UPDATE block SET order_key = ? WHERE id = ?`, key, blockID); err != nil {
			if isDuplicate(err) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return s.BlockByID(ctx, tenantID, blockID)
	}
	return nil, lastErr
}

// UpdateBlock applies the non-nil fields.  Locked blocks require the
// privileged flag, which the caller obtains from the external RBAC check.
func (s *Store) UpdateBlock(ctx context.Context, tenantID, blockID uint64, upd BlockUpdate, privileged bool) (*Block, error) {
	b, err := s.BlockByID(ctx, tenantID, blockID)
	if err != nil {
		return nil, err
	}
	if b.IsLocked && !privileged {
		return nil, fmt.Errorf("%w: block %d is locked", ErrPermissionDenied, blockID)
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if upd.Props != nil {
		sets = append(sets, "props = ?")
		args = append(args, *upd.Props)
	}
	if upd.IsVisible != nil {
		sets = append(sets, "is_visible = ?")
		args = append(args, *upd.IsVisible)
	}
	if upd.IsLocked != nil {
		sets = append(sets, "is_locked = ?")
		args = append(args, *upd.IsLocked)
	}
	if len(sets) == 0 {
		return b, nil
	}

	args = append(args, blockID)
	q := `UPDATE block SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	return s.BlockByID(ctx, tenantID, blockID)
}

// DeleteBlock hard-deletes one block.  Recovery is only possible through a
// version restore.
func (s *Store) DeleteBlock(ctx context.Context, tenantID, blockID uint64, privileged bool) error {
	b, err := s.BlockByID(ctx, tenantID, blockID)
	if err != nil {
		return err
	}
	if b.IsLocked && !privileged {
		return fmt.Errorf("%w: block %d is locked", ErrPermissionDenied, blockID)
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM block WHERE id = ?`, blockID)
	return err
}

//
// neighbour observation
//

// insertBounds returns the (lower, upper) keys around the insert position.
// Empty strings mean unbounded on that side.
func (s *Store) insertBounds(ctx context.Context, pageID uint64, afterID *uint64) (string, string, error) {
	if afterID == nil {
		// Append: above the current maximum.
		var lower string
		err := s.db.GetContext(ctx, &lower, `
		    SELECT COALESCE(MAX(order_key), '') FROM block WHERE page_id = ?`, pageID)
		if err != nil {
			return "", "", err
		}
		return lower, "", nil
	}
	return s.boundsAfter(ctx, pageID, *afterID, 0)
}

// moveBounds mirrors insertBounds but excludes the moving block from the
// neighbour scan, so moving next to itself still yields sane bounds.
func (s *Store) moveBounds(ctx context.Context, pageID, blockID uint64, afterID *uint64) (string, string, error) {
	if afterID == nil {
		// Front: below the current minimum.
		var upper string
		err := s.db.GetContext(ctx, &upper, `
		    SELECT COALESCE(MIN(order_key), '') FROM block WHERE page_id = ? AND id <> ?`,
			pageID, blockID)
		if err != nil {
			return "", "", err
		}
		return "", upper, nil
	}
	return s.boundsAfter(ctx, pageID, *afterID, blockID)
}

// boundsAfter returns (anchor key, next key after it), skipping excludeID.
func (s *Store) boundsAfter(ctx context.Context, pageID, anchorID, excludeID uint64) (string, string, error) {
	var lower string
	err := s.db.GetContext(ctx, &lower, `
	    SELECT order_key FROM block WHERE id = ? AND page_id = ?`, anchorID, pageID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("%w: anchor block %d on page %d", ErrNotFound, anchorID, pageID)
	}
	if err != nil {
		return "", "", err
	}

	var upper string
	err = s.db.GetContext(ctx, &upper, `
	    SELECT COALESCE(MIN(order_key), '')
	    FROM   block
	    WHERE  page_id = ? AND order_key > ? AND id <> ?`,
		pageID, lower, excludeID)
	if err != nil {
		return "", "", err
	}
	return lower, upper, nil
}
