// internal/publish/model.go
//
// Deployment rows and the whole-site snapshot document.
//
// A Deployment freezes everything the public renderer needs: site branding
// and SEO plus, per non-hidden page, the ordered list of visible blocks as
// bare kind+props pairs.  Block rows keep their internal IDs and lock flags
// to themselves; the published document carries none of that.
package publish

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yanizio/stanza/internal/content"
)

// Deployment mirrors one row in `deployment`.  Rows are immutable after
// insert; a republish inserts a new row and moves the live flag.
type Deployment struct {
	ID         uint64       `db:"id"`
	SiteID     uint64       `db:"site_id"`
	Snapshot   SiteSnapshot `db:"snapshot"`
	IsLive     bool         `db:"is_live"`
	DeployedBy string       `db:"deployed_by"`
	DeployedAt time.Time    `db:"deployed_at"`
}

// Meta is the history-listing shape: everything except the document.
type Meta struct {
	ID         uint64    `db:"id"`
	SiteID     uint64    `db:"site_id"`
	IsLive     bool      `db:"is_live"`
	DeployedBy string    `db:"deployed_by"`
	DeployedAt time.Time `db:"deployed_at"`
}

// SiteSnapshot is the published document.
type SiteSnapshot struct {
	SiteID         uint64         `json:"site_id"`
	Name           string         `json:"name"`
	Subdomain      string         `json:"subdomain"`
	Branding       Branding       `json:"branding"`
	SEOTitle       string         `json:"seo_title,omitempty"`
	SEODescription string         `json:"seo_description,omitempty"`
	FaviconURL     string         `json:"favicon_url,omitempty"`
	Pages          []PageSnapshot `json:"pages"`
}

// Branding is the site-level look: colors and font identifiers.
type Branding struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	AccentColor    string `json:"accent_color"`
	HeadingFont    string `json:"heading_font"`
	BodyFont       string `json:"body_font"`
}

// PageSnapshot is one published page.
type PageSnapshot struct {
	PageID         uint64          `json:"page_id"`
	Title          string          `json:"title"`
	Slug           string          `json:"slug"`
	IsHome         bool            `json:"is_home"`
	ShowInNav      bool            `json:"show_in_nav"`
	NavLabel       string          `json:"nav_label,omitempty"`
	NavOrder       int             `json:"nav_order"`
	SEOTitle       string          `json:"seo_title,omitempty"`
	SEODescription string          `json:"seo_description,omitempty"`
	Blocks         []BlockSnapshot `json:"blocks"`
}

// BlockSnapshot is one published block: kind and props, nothing else.
type BlockSnapshot struct {
	Kind  string        `json:"kind"`
	Props content.Props `json:"props"`
}

// Value implements driver.Valuer for the JSON column.
func (s SiteSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *SiteSnapshot) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("publish: cannot scan %T into SiteSnapshot", src)
	}
}
