// internal/render/head.go
//
// Per-page <head> assembly: title, meta, favicon, fonts, and the branding
// CSS variables.  Tags are collected then emitted in one pass, with
// page-level SEO values overriding site-level ones.
package render

import (
	"html/template"
	"strings"

	"github.com/yanizio/stanza/internal/publish"
)

// writeHead emits the full <head> element for one page of a snapshot.
func writeHead(sb *strings.Builder, site *publish.SiteSnapshot, page *publish.PageSnapshot) {
	sb.WriteString(`<head><meta charset="utf-8">`)
	sb.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)

	title := firstNonEmpty(page.SEOTitle, site.SEOTitle, page.Title+" | "+site.Name)
	sb.WriteString(`<title>` + template.HTMLEscapeString(title) + `</title>`)

	if desc := firstNonEmpty(page.SEODescription, site.SEODescription); desc != "" {
		sb.WriteString(`<meta name="description" content="` + template.HTMLEscapeString(desc) + `">`)
	}
	if site.FaviconURL != "" {
		sb.WriteString(`<link rel="icon" href="` + template.HTMLEscapeString(site.FaviconURL) + `">`)
	}

	writeBrandingCSS(sb, site.Branding)
	sb.WriteString(`</head>`)
}

// writeBrandingCSS emits the :root custom properties the block styles key
// off.  Colors pass through the hex validator so a stored value can never
// escape the style element.
func writeBrandingCSS(sb *strings.Builder, b publish.Branding) {
	sb.WriteString(`<style>:root{`)
	sb.WriteString(`--color-primary:` + cssColor(b.PrimaryColor, "#1a1a2e") + `;`)
	sb.WriteString(`--color-secondary:` + cssColor(b.SecondaryColor, "#16213e") + `;`)
	sb.WriteString(`--color-accent:` + cssColor(b.AccentColor, "#0f3460") + `;`)
	sb.WriteString(`--font-heading:` + cssFont(b.HeadingFont) + `;`)
	sb.WriteString(`--font-body:` + cssFont(b.BodyFont) + `;`)
	sb.WriteString(`}body{font-family:var(--font-body);margin:0}`)
	sb.WriteString(`h1,h2,h3{font-family:var(--font-heading)}</style>`)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
