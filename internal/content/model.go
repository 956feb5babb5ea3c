// internal/content/model.go
//
// Persistent entities of the content tree: Site, Page, and Block.
//
// Context
// -------
// A Site owns Pages, a Page owns ordered Blocks.  Rows mirror the tables in
// conf/schema.sql.  Operational state on Site is a nullable timestamp
// (ArchivedAt), mirroring how the rest of the platform soft-deletes; a
// non-NULL value hides the site from every tenant-scoped query.
//
// Blocks carry an open `props` document so new block kinds never need a
// migration; each kind's renderer owns defaulting and validation at render
// time.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package content

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

//
// Status enumerations
//

type SiteStatus string

const (
	SiteDraft     SiteStatus = "draft"
	SitePublished SiteStatus = "published"
	SiteArchived  SiteStatus = "archived"
)

type PageStatus string

const (
	PageDraft     PageStatus = "draft"
	PagePublished PageStatus = "published"
	PageHidden    PageStatus = "hidden"
)

//
// Rows
//

// Site mirrors one row in `site`.  Subdomain is unique and immutable once
// assigned; CustomDomain is only served after verification.
type Site struct {
	ID             uint64     `db:"id"`
	TenantID       uint64     `db:"tenant_id"`
	Name           string     `db:"name"`
	Subdomain      string     `db:"subdomain"`
	CustomDomain   *string    `db:"custom_domain"`
	DomainVerified bool       `db:"domain_verified"`
	Status         SiteStatus `db:"status"`
	PrimaryColor   string     `db:"primary_color"`
	SecondaryColor string     `db:"secondary_color"`
	AccentColor    string     `db:"accent_color"`
	HeadingFont    string     `db:"heading_font"`
	BodyFont       string     `db:"body_font"`
	SEOTitle       string     `db:"seo_title"`
	SEODescription string     `db:"seo_description"`
	FaviconURL     string     `db:"favicon_url"`
	LastDeployedAt *time.Time `db:"last_deployed_at"`
	ArchivedAt     *time.Time `db:"archived_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// Page mirrors one row in `page`.  Exactly one page per site has IsHome set;
// its slug and home flag are frozen at creation.
type Page struct {
	ID             uint64     `db:"id"`
	SiteID         uint64     `db:"site_id"`
	Title          string     `db:"title"`
	Slug           string     `db:"slug"`
	Status         PageStatus `db:"status"`
	IsHome         bool       `db:"is_home"`
	ShowInNav      bool       `db:"show_in_nav"`
	NavLabel       string     `db:"nav_label"`
	NavOrder       int        `db:"nav_order"`
	SEOTitle       string     `db:"seo_title"`
	SEODescription string     `db:"seo_description"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// Block mirrors one row in `block`.  OrderKey comes from internal/ordering;
// sorting blocks is a plain string sort on that column.  IsLocked restricts
// editing only; a locked, visible block still publishes.
type Block struct {
	ID        uint64    `db:"id"`
	PageID    uint64    `db:"page_id"`
	Kind      string    `db:"kind"`
	OrderKey  string    `db:"order_key"`
	Props     Props     `db:"props"`
	IsVisible bool      `db:"is_visible"`
	IsLocked  bool      `db:"is_locked"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

//
// Props document
//

// Props is the open key-value document attached to a Block.  Values round-
// trip through JSON, so nested maps, arrays, strings, numbers, and booleans
// all survive storage and snapshotting without loss.
type Props map[string]any

// Value implements driver.Valuer, serialising the map for the JSON column.
func (p Props) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner.
func (p *Props) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = Props{}
		return nil
	case []byte:
		if len(v) == 0 {
			*p = Props{}
			return nil
		}
		return json.Unmarshal(v, p)
	case string:
		if v == "" {
			*p = Props{}
			return nil
		}
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("content: cannot scan %T into Props", src)
	}
}

// Clone returns a value copy of the props document via a JSON round-trip,
// so snapshots never alias live rows.
func (p Props) Clone() Props {
	if len(p) == 0 {
		return Props{}
	}
	raw, err := json.Marshal(p)
	if err != nil {
		// Props always originate from JSON, so this cannot fire for stored
		// rows; fall back to a shallow copy for exotic in-memory values.
		out := make(Props, len(p))
		for k, v := range p {
			out[k] = v
		}
		return out
	}
	var out Props
	if err := json.Unmarshal(raw, &out); err != nil {
		return Props{}
	}
	return out
}
