// internal/content/page.go
//
// Page CRUD.
//
// Two rules are enforced here and nowhere else:
//
//   - The home page is frozen: its slug and is_home flag cannot change, and
//     it cannot be deleted.  Every site gets its home page at creation, so
//     "exactly one home page per site" reduces to "never touch the flag".
//   - Slugs are unique per site (case-sensitive exact match), checked before
//     the write and backed by a unique index for the concurrent case.
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const pageCols = `
        p.id, p.site_id, p.title, p.slug, p.status, p.is_home,
        p.show_in_nav, p.nav_label, p.nav_order,
        p.seo_title, p.seo_description, p.created_at, p.updated_at`

// NewPage is the creation payload.  The home page is never created through
// this path; it exists from site creation.
type NewPage struct {
	Title          string     `validate:"required,max=160"`
	Slug           string     // empty → derived from Title via MakeSlug
	Status         PageStatus `validate:"omitempty,oneof=draft published hidden"`
	ShowInNav      bool
	NavLabel       string `validate:"omitempty,max=80"`
	NavOrder       int
	SEOTitle       string `validate:"omitempty,max=160"`
	SEODescription string `validate:"omitempty,max=300"`
}

// PageUpdate carries optional field changes; nil means "leave unchanged".
type PageUpdate struct {
	Title          *string     `validate:"omitempty,max=160"`
	Slug           *string
	Status         *PageStatus `validate:"omitempty,oneof=draft published hidden"`
	IsHome         *bool
	ShowInNav      *bool
	NavLabel       *string `validate:"omitempty,max=80"`
	NavOrder       *int
	SEOTitle       *string `validate:"omitempty,max=160"`
	SEODescription *string `validate:"omitempty,max=300"`
}

// CreatePage validates, checks slug uniqueness, and inserts.
func (s *Store) CreatePage(ctx context.Context, tenantID, siteID uint64, in NewPage) (*Page, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if _, err := s.SiteByID(ctx, tenantID, siteID); err != nil {
		return nil, err
	}

	if in.Slug == "" {
		in.Slug = MakeSlug(in.Title)
	}
	if err := ValidateSlug(in.Slug); err != nil {
		return nil, err
	}
	if in.Slug == HomeSlug {
		return nil, fmt.Errorf("%w: slug %q is reserved for the home page", ErrInvalidState, HomeSlug)
	}
	if err := s.checkSlugFree(ctx, siteID, in.Slug, 0); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = PageDraft
	}
	if in.NavLabel == "" {
		in.NavLabel = in.Title
	}

	res, err := s.db.ExecContext(ctx, `
	    INSERT INTO page
	           (site_id, title, slug, status, is_home, show_in_nav,
	            nav_label, nav_order, seo_title, seo_description)
	    VALUES (?, ?, ?, ?, FALSE, ?, ?, ?, ?, ?)`,
		siteID, in.Title, in.Slug, in.Status, in.ShowInNav,
		in.NavLabel, in.NavOrder, in.SEOTitle, in.SEODescription)
	if err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("%w: slug %q is already used on this site", ErrInvalidState, in.Slug)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.PageByID(ctx, tenantID, uint64(id))
}

// PageByID fetches one page scoped through its owning site's tenant.
func (s *Store) PageByID(ctx context.Context, tenantID, pageID uint64) (*Page, error) {
	const q = `
	    SELECT ` + pageCols + `
	    FROM   page p
	    JOIN   site s ON s.id = p.site_id
	    WHERE  p.id = ? AND s.tenant_id = ? AND s.archived_at IS NULL`
	var rec Page
	if err := s.db.GetContext(ctx, &rec, q, pageID, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: page %d", ErrNotFound, pageID)
		}
		return nil, err
	}
	return &rec, nil
}

// ListPages returns the site's pages in navigation order.
func (s *Store) ListPages(ctx context.Context, tenantID, siteID uint64) ([]Page, error) {
	const q = `
	    SELECT ` + pageCols + `
	    FROM   page p
	    JOIN   site s ON s.id = p.site_id
	    WHERE  p.site_id = ? AND s.tenant_id = ? AND s.archived_at IS NULL
	    ORDER  BY p.nav_order, p.id`
	var rows []Page
	if err := s.db.SelectContext(ctx, &rows, q, siteID, tenantID); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdatePage applies the non-nil fields.  Home-page slug and is_home
// changes are rejected before any write.
func (s *Store) UpdatePage(ctx context.Context, tenantID, pageID uint64, upd PageUpdate) (*Page, error) {
	if err := validate.Struct(upd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	p, err := s.PageByID(ctx, tenantID, pageID)
	if err != nil {
		return nil, err
	}

	if upd.IsHome != nil && *upd.IsHome != p.IsHome {
		return nil, fmt.Errorf("%w: the home flag is fixed at site creation and cannot be changed", ErrInvalidState)
	}
	if upd.Slug != nil && *upd.Slug != p.Slug {
		if p.IsHome {
			return nil, fmt.Errorf("%w: the home page keeps slug %q; it cannot be renamed", ErrInvalidState, HomeSlug)
		}
		if err := ValidateSlug(*upd.Slug); err != nil {
			return nil, err
		}
		if *upd.Slug == HomeSlug {
			return nil, fmt.Errorf("%w: slug %q is reserved for the home page", ErrInvalidState, HomeSlug)
		}
		if err := s.checkSlugFree(ctx, p.SiteID, *upd.Slug, pageID); err != nil {
			return nil, err
		}
	}

	sets := make([]string, 0, 8)
	args := make([]any, 0, 9)
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.Slug != nil && *upd.Slug != p.Slug {
		set("slug", *upd.Slug)
	}
	if upd.Status != nil {
		set("status", *upd.Status)
	}
	if upd.ShowInNav != nil {
		set("show_in_nav", *upd.ShowInNav)
	}
	if upd.NavLabel != nil {
		set("nav_label", *upd.NavLabel)
	}
	if upd.NavOrder != nil {
		set("nav_order", *upd.NavOrder)
	}
	if upd.SEOTitle != nil {
		set("seo_title", *upd.SEOTitle)
	}
	if upd.SEODescription != nil {
		set("seo_description", *upd.SEODescription)
	}
	if len(sets) == 0 {
		return p, nil
	}

	args = append(args, pageID)
	q := `UPDATE page SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("%w: slug %q is already used on this site", ErrInvalidState, *upd.Slug)
		}
		return nil, err
	}
	return s.PageByID(ctx, tenantID, pageID)
}

// DeletePage removes the page, its blocks, and its version history in one
// transaction.  The home page is never deletable.
func (s *Store) DeletePage(ctx context.Context, tenantID, pageID uint64) error {
	p, err := s.PageByID(ctx, tenantID, pageID)
	if err != nil {
		return err
	}
	if p.IsHome {
		return fmt.Errorf("%w: the home page cannot be deleted", ErrInvalidState)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM block WHERE page_id = ?`, pageID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM page_version WHERE page_id = ?`, pageID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM page WHERE id = ?`, pageID); err != nil {
		return err
	}
	return tx.Commit()
}

// checkSlugFree errors when another page on the site already owns slug.
func (s *Store) checkSlugFree(ctx context.Context, siteID uint64, slug string, excludeID uint64) error {
	var dummy int
	err := s.db.GetContext(ctx, &dummy, `
	    SELECT 1 FROM page WHERE site_id = ? AND slug = ? AND id <> ? LIMIT 1`,
		siteID, slug, excludeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: slug %q is already used on this site", ErrInvalidState, slug)
}
