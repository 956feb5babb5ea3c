// internal/content/site.go
//
// Site CRUD.  A site is created with its home page in one transaction, so
// the one-home-page invariant holds from the first instant.  Sites are
// archived, never hard-deleted; archival hides the site from every scoped
// query in this package.
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const siteCols = `
        id, tenant_id, name, subdomain, custom_domain, domain_verified,
        status, primary_color, secondary_color, accent_color,
        heading_font, body_font, seo_title, seo_description, favicon_url,
        last_deployed_at, archived_at, created_at, updated_at`

// Branding fallbacks for sites created without explicit colors or fonts.
const (
	defaultPrimaryColor   = "#1a1a2e"
	defaultSecondaryColor = "#16213e"
	defaultAccentColor    = "#0f7b6c"
	defaultHeadingFont    = "inter"
	defaultBodyFont       = "inter"
)

// NewSite is the creation payload.  Subdomain is permanent; everything else
// can change later through SiteUpdate.
type NewSite struct {
	Name           string `validate:"required,max=120"`
	Subdomain      string `validate:"required,min=2,max=63"`
	PrimaryColor   string `validate:"omitempty,hexcolor"`
	SecondaryColor string `validate:"omitempty,hexcolor"`
	AccentColor    string `validate:"omitempty,hexcolor"`
	HeadingFont    string `validate:"omitempty,max=60"`
	BodyFont       string `validate:"omitempty,max=60"`
	SEOTitle       string `validate:"omitempty,max=160"`
	SEODescription string `validate:"omitempty,max=300"`
	FaviconURL     string `validate:"omitempty,url"`
}

// SiteUpdate carries optional field changes; nil means "leave unchanged".
// Subdomain is deliberately absent: it is immutable once assigned.
type SiteUpdate struct {
	Name           *string `validate:"omitempty,max=120"`
	CustomDomain   *string `validate:"omitempty,fqdn"`
	DomainVerified *bool
	Status         *SiteStatus
	PrimaryColor   *string `validate:"omitempty,hexcolor"`
	SecondaryColor *string `validate:"omitempty,hexcolor"`
	AccentColor    *string `validate:"omitempty,hexcolor"`
	HeadingFont    *string `validate:"omitempty,max=60"`
	BodyFont       *string `validate:"omitempty,max=60"`
	SEOTitle       *string `validate:"omitempty,max=160"`
	SEODescription *string `validate:"omitempty,max=300"`
	FaviconURL     *string `validate:"omitempty,url"`
}

// CreateSite inserts the site row plus its home page in one transaction and
// returns the stored site.
func (s *Store) CreateSite(ctx context.Context, tenantID uint64, in NewSite) (*Site, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if !validSubdomain(in.Subdomain) {
		return nil, fmt.Errorf("%w: subdomain %q must use lowercase letters, digits, and hyphens", ErrInvalidState, in.Subdomain)
	}

	in = withBrandingDefaults(in)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
	    INSERT INTO site
	           (tenant_id, name, subdomain, status,
	            primary_color, secondary_color, accent_color,
	            heading_font, body_font,
	            seo_title, seo_description, favicon_url)
	    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tenantID, in.Name, in.Subdomain, SiteDraft,
		in.PrimaryColor, in.SecondaryColor, in.AccentColor,
		in.HeadingFont, in.BodyFont,
		in.SEOTitle, in.SEODescription, in.FaviconURL)
	if err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("%w: subdomain %q is already taken", ErrInvalidState, in.Subdomain)
		}
		return nil, err
	}
	siteID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	// Home page: slug "/" and the home flag are frozen from here on.
	_, err = tx.ExecContext(ctx, `
	    INSERT INTO page
	           (site_id, title, slug, status, is_home, show_in_nav, nav_label, nav_order)
	    VALUES (?, 'Home', ?, ?, TRUE, TRUE, 'Home', 0)`,
		siteID, HomeSlug, PagePublished)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.SiteByID(ctx, tenantID, uint64(siteID))
}

// SiteByID fetches one non-archived site scoped to the tenant.
func (s *Store) SiteByID(ctx context.Context, tenantID, siteID uint64) (*Site, error) {
	const q = `
	    SELECT ` + siteCols + `
	    FROM   site
	    WHERE  id = ? AND tenant_id = ? AND archived_at IS NULL`
	var rec Site
	if err := s.db.GetContext(ctx, &rec, q, siteID, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: site %d", ErrNotFound, siteID)
		}
		return nil, err
	}
	return &rec, nil
}

// SitesByTenant lists every non-archived site the tenant owns.
func (s *Store) SitesByTenant(ctx context.Context, tenantID uint64) ([]Site, error) {
	const q = `
	    SELECT ` + siteCols + `
	    FROM   site
	    WHERE  tenant_id = ? AND archived_at IS NULL
	    ORDER  BY id`
	var rows []Site
	if err := s.db.SelectContext(ctx, &rows, q, tenantID); err != nil {
		return nil, err
	}
	return rows, nil
}

// SiteIDByHost resolves a public Host header to a site ID: either
// "<subdomain>.<baseDomain>" or a verified custom domain.  Used by the
// serving path, which has no tenant in hand.
func (s *Store) SiteIDByHost(ctx context.Context, host, baseDomain string) (uint64, error) {
	var (
		q   string
		arg string
	)
	if sub, ok := strings.CutSuffix(host, "."+baseDomain); ok {
		q = `SELECT id FROM site WHERE subdomain = ? AND archived_at IS NULL`
		arg = sub
	} else {
		q = `SELECT id FROM site WHERE custom_domain = ? AND domain_verified = TRUE AND archived_at IS NULL`
		arg = host
	}
	var id uint64
	if err := s.db.GetContext(ctx, &id, q, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: host %q", ErrNotFound, host)
		}
		return 0, err
	}
	return id, nil
}

// UpdateSite applies the non-nil fields and returns the stored row.
func (s *Store) UpdateSite(ctx context.Context, tenantID, siteID uint64, upd SiteUpdate) (*Site, error) {
	if err := validate.Struct(upd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if _, err := s.SiteByID(ctx, tenantID, siteID); err != nil {
		return nil, err
	}

	sets := make([]string, 0, 12)
	args := make([]any, 0, 13)
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.CustomDomain != nil {
		// A new custom domain always starts unverified.
		set("custom_domain", *upd.CustomDomain)
		set("domain_verified", false)
	}
	if upd.DomainVerified != nil {
		set("domain_verified", *upd.DomainVerified)
	}
	if upd.Status != nil {
		set("status", *upd.Status)
	}
	if upd.PrimaryColor != nil {
		set("primary_color", *upd.PrimaryColor)
	}
	if upd.SecondaryColor != nil {
		set("secondary_color", *upd.SecondaryColor)
	}
	if upd.AccentColor != nil {
		set("accent_color", *upd.AccentColor)
	}
	if upd.HeadingFont != nil {
		set("heading_font", *upd.HeadingFont)
	}
	if upd.BodyFont != nil {
		set("body_font", *upd.BodyFont)
	}
	if upd.SEOTitle != nil {
		set("seo_title", *upd.SEOTitle)
	}
	if upd.SEODescription != nil {
		set("seo_description", *upd.SEODescription)
	}
	if upd.FaviconURL != nil {
		set("favicon_url", *upd.FaviconURL)
	}
	if len(sets) == 0 {
		return s.SiteByID(ctx, tenantID, siteID)
	}

	args = append(args, siteID, tenantID)
	q := `UPDATE site SET ` + strings.Join(sets, ", ") +
		` WHERE id = ? AND tenant_id = ? AND archived_at IS NULL`
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	return s.SiteByID(ctx, tenantID, siteID)
}

// ArchiveSite soft-deletes a site.  Pages, blocks, versions, and
// deployments stay on disk, but every scoped query stops seeing them.
func (s *Store) ArchiveSite(ctx context.Context, tenantID, siteID uint64) error {
	res, err := s.db.ExecContext(ctx, `
	    UPDATE site
	    SET    status = ?, archived_at = NOW()
	    WHERE  id = ? AND tenant_id = ? AND archived_at IS NULL`,
		SiteArchived, siteID, tenantID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: site %d", ErrNotFound, siteID)
	}
	return nil
}

// withBrandingDefaults fills empty branding fields.
func withBrandingDefaults(in NewSite) NewSite {
	if in.PrimaryColor == "" {
		in.PrimaryColor = defaultPrimaryColor
	}
	if in.SecondaryColor == "" {
		in.SecondaryColor = defaultSecondaryColor
	}
	if in.AccentColor == "" {
		in.AccentColor = defaultAccentColor
	}
	if in.HeadingFont == "" {
		in.HeadingFont = defaultHeadingFont
	}
	if in.BodyFont == "" {
		in.BodyFont = defaultBodyFont
	}
	return in
}

// validSubdomain checks the DNS-label subset we allow: lowercase
// alphanumerics with interior hyphens.
func validSubdomain(sub string) bool {
	if sub == "" || sub[0] == '-' || sub[len(sub)-1] == '-' {
		return false
	}
	for i := 0; i < len(sub); i++ {
		c := sub[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}
