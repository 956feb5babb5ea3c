// internal/render/render.go
//
// Snapshot-to-HTML rendering for the public serving path.
//
// Context
// -------
// Rendering is a pure function of (snapshot, path): no database access and
// no clock, so the same deployment always renders byte-identically and the
// output can be cached keyed on deployment ID and path.  Path resolution
// is an exact slug match; "/" additionally falls back to the page flagged
// as home, covering documents published before slugs were normalized.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package render

import (
	"errors"
	"html/template"
	"strings"

	"github.com/yanizio/stanza/internal/metrics"
	"github.com/yanizio/stanza/internal/publish"
)

// ErrPageNotFound marks a path with no page in the snapshot.  The serving
// layer turns it into a 404 with NotFoundPage as the body.
var ErrPageNotFound = errors.New("render: page not found")

// Page renders the page at path within the snapshot.
func Page(snap *publish.SiteSnapshot, path string) (string, error) {
	page := resolve(snap, path)
	if page == nil {
		return "", ErrPageNotFound
	}

	var sb strings.Builder
	sb.Grow(4096)
	sb.WriteString(`<!DOCTYPE html><html lang="en">`)
	writeHead(&sb, snap, page)
	sb.WriteString(`<body>`)

	ctx := &blockContext{site: snap, page: page}
	for _, b := range page.Blocks {
		renderBlock(&sb, ctx, b)
	}

	sb.WriteString(`</body></html>`)
	metrics.PagesRenderedTotal.Inc()
	return sb.String(), nil
}

// resolve finds the snapshot page for path.
func resolve(snap *publish.SiteSnapshot, path string) *publish.PageSnapshot {
	if path == "" {
		path = "/"
	}
	for i := range snap.Pages {
		if snap.Pages[i].Slug == path {
			return &snap.Pages[i]
		}
	}
	if path == "/" {
		for i := range snap.Pages {
			if snap.Pages[i].IsHome {
				return &snap.Pages[i]
			}
		}
	}
	return nil
}

// NotFoundPage renders the site-branded 404 body.
func NotFoundPage(snap *publish.SiteSnapshot) string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
	sb.WriteString(`<title>Page not found | ` + template.HTMLEscapeString(snap.Name) + `</title>`)
	writeBrandingCSS(&sb, snap.Branding)
	sb.WriteString(`</head><body><section class="blk blk-404">`)
	sb.WriteString(`<h1>Page not found</h1>`)
	sb.WriteString(`<p>The page you are looking for does not exist.</p>`)
	sb.WriteString(`<a class="btn" href="/">Back to ` + template.HTMLEscapeString(snap.Name) + `</a>`)
	sb.WriteString(`</section></body></html>`)
	return sb.String()
}

// Placeholder renders the holding page for a site that exists but has no
// live deployment yet.
func Placeholder(siteName string) string {
	name := template.HTMLEscapeString(siteName)
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
	sb.WriteString(`<title>` + name + `</title></head><body>`)
	sb.WriteString(`<section class="blk blk-placeholder"><h1>` + name + `</h1>`)
	sb.WriteString(`<p>This site is not published yet.  Check back soon.</p>`)
	sb.WriteString(`</section></body></html>`)
	return sb.String()
}
