// internal/render/kinds.go
//
// Per-kind block renderers.
//
// Context
// -------
// Each block kind maps to a renderFunc that emits one HTML section from the
// block's props.  Renderers are pure string builders over already-escaped
// prop accessors; they never touch the database.  An unknown kind (a
// document published by a newer editor) renders through the generic
// fallback instead of failing the page, because a live site must keep
// serving across rolling upgrades.
//
// Notes
// -----
// • custom_html is the single deliberate raw sink.  The API layer only
//   lets privileged editors create such blocks.
// • Oxford commas, two spaces after periods.
package render

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/yanizio/stanza/internal/content"
	"github.com/yanizio/stanza/internal/publish"
)

// renderFunc emits one block.  ctx carries the page and site the block is
// rendered into, for kinds that need them (navbar, footer).
type renderFunc func(sb *strings.Builder, ctx *blockContext, props content.Props)

type blockContext struct {
	site *publish.SiteSnapshot
	page *publish.PageSnapshot
}

var renderers = map[string]renderFunc{
	content.KindNavbar:       renderNavbar,
	content.KindHero:         renderHero,
	content.KindFeatures:     renderFeatures,
	content.KindGallery:      renderGallery,
	content.KindTestimonials: renderTestimonials,
	content.KindPricing:      renderPricing,
	content.KindCTA:          renderCTA,
	content.KindContactForm:  renderContactForm,
	content.KindTeam:         renderTeam,
	content.KindFAQ:          renderFAQ,
	content.KindStats:        renderStats,
	content.KindRichText:     renderRichText,
	content.KindImageText:    renderImageText,
	content.KindFooter:       renderFooter,
	content.KindVideoEmbed:   renderVideoEmbed,
	content.KindCustomHTML:   renderCustomHTML,
}

// renderBlock dispatches to the kind's renderer, or the generic fallback.
func renderBlock(sb *strings.Builder, ctx *blockContext, b publish.BlockSnapshot) {
	fn, ok := renderers[b.Kind]
	if !ok {
		fn = renderGeneric
	}
	sb.WriteString(`<section class="blk blk-` + template.HTMLEscapeString(b.Kind) + `">`)
	fn(sb, ctx, b.Props)
	sb.WriteString(`</section>`)
}

func renderNavbar(sb *strings.Builder, ctx *blockContext, p content.Props) {
	sb.WriteString(`<nav class="nav"><a class="nav-brand" href="/">`)
	sb.WriteString(text(p, "brand", ctx.site.Name))
	sb.WriteString(`</a><ul class="nav-links">`)
	for _, pg := range ctx.site.Pages {
		if !pg.ShowInNav {
			continue
		}
		label := pg.NavLabel
		if label == "" {
			label = pg.Title
		}
		current := ""
		if ctx.page != nil && pg.PageID == ctx.page.PageID {
			current = ` aria-current="page"`
		}
		sb.WriteString(`<li><a href="` + template.HTMLEscapeString(pg.Slug) + `"` + current + `>`)
		sb.WriteString(template.HTMLEscapeString(label))
		sb.WriteString(`</a></li>`)
	}
	sb.WriteString(`</ul>`)
	if href := attr(p, "cta_href", ""); href != "" {
		sb.WriteString(`<a class="nav-cta" href="` + href + `">`)
		sb.WriteString(text(p, "cta_label", "Get started"))
		sb.WriteString(`</a>`)
	}
	sb.WriteString(`</nav>`)
}

func renderHero(sb *strings.Builder, _ *blockContext, p content.Props) {
	sb.WriteString(`<div class="hero">`)
	if img := attr(p, "image_url", ""); img != "" {
		sb.WriteString(`<img class="hero-img" src="` + img + `" alt="` + attr(p, "image_alt", "") + `">`)
	}
	sb.WriteString(`<h1>` + text(p, "heading", "Welcome") + `</h1>`)
	if sub := text(p, "subheading", ""); sub != "" {
		sb.WriteString(`<p class="hero-sub">` + sub + `</p>`)
	}
	if href := attr(p, "cta_href", ""); href != "" {
		sb.WriteString(`<a class="btn btn-primary" href="` + href + `">`)
		sb.WriteString(text(p, "cta_label", "Learn more"))
		sb.WriteString(`</a>`)
	}
	sb.WriteString(`</div>`)
}

func renderFeatures(sb *strings.Builder, _ *blockContext, p content.Props) {
	writeHeading(sb, p, "Features")
	sb.WriteString(`<div class="grid">`)
	for _, item := range list(p, "items") {
		sb.WriteString(`<div class="card">`)
		if icon := text(item, "icon", ""); icon != "" {
			sb.WriteString(`<span class="icon">` + icon + `</span>`)
		}
		sb.WriteString(`<h3>` + text(item, "title", "") + `</h3>`)
		sb.WriteString(`<p>` + text(item, "body", "") + `</p>`)
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
}

func renderGallery(sb *strings.Builder, _ *blockContext, p content.Props) {
	writeHeading(sb, p, "")
	sb.WriteString(`<div class="gallery">`)
	for _, item := range list(p, "images") {
		sb.WriteString(`<figure><img src="` + attr(item, "url", "") + `" alt="` + attr(item, "alt", "") + `" loading="lazy">`)
		if cap := text(item, "caption", ""); cap != "" {
			sb.WriteString(`<figcaption>` + cap + `</figcaption>`)
		}
		sb.WriteString(`</figure>`)
	}
	sb.WriteString(`</div>`)
}

func renderTestimonials(sb *strings.Builder, _ *blockContext, p content.Props) {
	writeHeading(sb, p, "What people say")
	sb.WriteString(`<div class="grid">`)
	for _, item := range list(p, "items") {
		sb.WriteString(`<blockquote class="quote"><p>` + text(item, "quote", "") + `</p>`)
		sb.WriteString(`<footer>` + text(item, "author", ""))
		if role := text(item, "role", ""); role != "" {
			sb.WriteString(`<span class="quote-role">` + role + `</span>`)
		}
		sb.WriteString(`</footer></blockquote>`)
	}
	sb.WriteString(`</div>`)
}

func renderPricing(sb *strings.Builder, _ *blockContext, p content.Props) {
	writeHeading(sb, p, "Pricing")
	sb.WriteString(`<div class="grid pricing">`)
	for _, tier := range list(p, "tiers") {
		cls := "card tier"
		if boolean(tier, "highlighted", false) {
			cls += " tier-highlight"
		}
		sb.WriteString(`<div class="` + cls + `">`)
		sb.WriteString(`<h3>` + text(tier, "name", "") + `</h3>`)
		sb.WriteString(`<p class="tier-price">` + text(tier, "price", ""))
		if per := text(tier, "period", ""); per != "" {
			sb.WriteString(`<span class="tier-period">/` + per + `</span>`)
		}
		sb.WriteString(`</p><ul>`)
		for _, f := range stringList(tier, "features") {
			sb.WriteString(`<li>` + template.HTMLEscapeString(f) + `</li>`)
		}
		sb.WriteString(`</ul>`)
		if href := attr(tier, "cta_href", ""); href != "" {
			sb.WriteString(`<a class="btn" href="` + href + `">` + text(tier, "cta_label", "Choose") + `</a>`)
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
}

func renderCTA(sb *strings.Builder, _ *blockContext, p content.Props) {
	sb.WriteString(`<div class="cta">`)
	sb.WriteString(`<h2>` + text(p, "heading", "Ready to get started?") + `</h2>`)
	if body := text(p, "body", ""); body != "" {
		sb.WriteString(`<p>` + body + `</p>`)
	}
	sb.WriteString(`<a class="btn btn-primary" href="` + attr(p, "cta_href", "#") + `">`)
	sb.WriteString(text(p, "cta_label", "Get started"))
	sb.WriteString(`</a></div>`)
}

func renderContactForm(sb *strings.Builder, _ *blockContext, p content.Props) {
	writeHeading(sb, p, "Contact us")
	sb.WriteString(`<form class="contact" method="post" action="` + attr(p, "action", "/contact") + `">`)
	sb.WriteString(`<label>Name<input type="text" name="name" required></label>`)
	sb.WriteString(`<label>Email<input type="email" name="email" required></label>`)
	if boolean(p, "show_phone", false) {
		sb.WriteString(`<label>Phone<input type="tel" name="phone"></label>`)
	}
	sb.WriteString(`<label>Message<textarea name="message" rows="` + strconv.Itoa(integer(p, "rows", 5)) + `" required></textarea></label>`)
	sb.WriteString(`<button class="btn btn-primary" type="submit">` + text(p, "submit_label", "Send") + `</button>`)
	sb.WriteString(`</form>`)
}

func renderTeam(sb *strings.Builder, _ *blockContext, p content.Props) {
	writeHeading(sb, p, "Our team")
	sb.WriteString(`<div class="grid team">`)
	for _, m := range list(p, "members") {
		sb.WriteString(`<div class="card member">`)
		if photo := attr(m, "photo_url", ""); photo != "" {
			sb.WriteString(`<img src="` + photo + `" alt="` + attr(m, "name", "") + `" loading="lazy">`)
		}
		sb.WriteString(`<h3>` + text(m, "name", "") + `</h3>`)
		sb.WriteString(`<p class="member-role">` + text(m, "role", "") + `</p>`)
		if bio := text(m, "bio", ""); bio != "" {
			sb.WriteString(`<p>` + bio + `</p>`)
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
}

func renderFAQ(sb *strings.Builder, _ *blockContext, p content.Props) {
	writeHeading(sb, p, "Frequently asked questions")
	for _, item := range list(p, "items") {
		sb.WriteString(`<details class="faq"><summary>` + text(item, "question", "") + `</summary>`)
		sb.WriteString(`<p>` + text(item, "answer", "") + `</p></details>`)
	}
}

func renderStats(sb *strings.Builder, _ *blockContext, p content.Props) {
	writeHeading(sb, p, "")
	sb.WriteString(`<div class="stats">`)
	for _, s := range list(p, "items") {
		sb.WriteString(`<div class="stat"><span class="stat-value">` + text(s, "value", "") + `</span>`)
		sb.WriteString(`<span class="stat-label">` + text(s, "label", "") + `</span></div>`)
	}
	sb.WriteString(`</div>`)
}

func renderRichText(sb *strings.Builder, _ *blockContext, p content.Props) {
	// Any editor can create rich_text, so both props are escaped like every
	// other text prop.  custom_html stays the only raw sink.
	sb.WriteString(`<div class="prose">`)
	body := text(p, "body", "")
	if body == "" {
		body = text(p, "html", "")
	}
	sb.WriteString(`<p>` + body + `</p>`)
	sb.WriteString(`</div>`)
}

func renderImageText(sb *strings.Builder, _ *blockContext, p content.Props) {
	cls := "split"
	if raw(p, "image_side", "left") == "right" {
		cls += " split-reverse"
	}
	sb.WriteString(`<div class="` + cls + `">`)
	sb.WriteString(`<img src="` + attr(p, "image_url", "") + `" alt="` + attr(p, "image_alt", "") + `" loading="lazy">`)
	sb.WriteString(`<div><h2>` + text(p, "heading", "") + `</h2>`)
	sb.WriteString(`<p>` + text(p, "body", "") + `</p></div>`)
	sb.WriteString(`</div>`)
}

func renderFooter(sb *strings.Builder, ctx *blockContext, p content.Props) {
	sb.WriteString(`<footer class="footer"><p>`)
	sb.WriteString(text(p, "copyright", "© "+ctx.site.Name))
	sb.WriteString(`</p><ul class="footer-links">`)
	for _, l := range list(p, "links") {
		sb.WriteString(`<li><a href="` + attr(l, "href", "#") + `">` + text(l, "label", "") + `</a></li>`)
	}
	sb.WriteString(`</ul></footer>`)
}

func renderVideoEmbed(sb *strings.Builder, _ *blockContext, p content.Props) {
	writeHeading(sb, p, "")
	sb.WriteString(`<div class="video"><iframe src="` + attr(p, "embed_url", "") + `" `)
	sb.WriteString(`title="` + attr(p, "title", "Video") + `" allowfullscreen loading="lazy"></iframe></div>`)
}

func renderCustomHTML(sb *strings.Builder, _ *blockContext, p content.Props) {
	sb.WriteString(raw(p, "html", ""))
}

// renderGeneric handles kinds this binary does not know: heading and body
// if present, nothing else.
func renderGeneric(sb *strings.Builder, _ *blockContext, p content.Props) {
	writeHeading(sb, p, "")
	if body := text(p, "body", ""); body != "" {
		sb.WriteString(`<p>` + body + `</p>`)
	}
}

// writeHeading emits the optional shared heading/subheading pair.
func writeHeading(sb *strings.Builder, p content.Props, fallback string) {
	if h := text(p, "heading", fallback); h != "" {
		sb.WriteString(`<h2>` + h + `</h2>`)
	}
	if sub := text(p, "subheading", ""); sub != "" {
		sb.WriteString(`<p class="sub">` + sub + `</p>`)
	}
}

// stringList reads a prop holding an array of plain strings.
func stringList(p content.Props, key string) []string {
	v, ok := p[key]
	if !ok || v == nil {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		if s, ok := el.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

