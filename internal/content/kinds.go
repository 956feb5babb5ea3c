// internal/content/kinds.go
//
// The closed enumeration of block kinds.  Storage stays schema-flexible
// (props are an open document), but creation rejects kinds the renderer has
// never heard of; the renderer itself still degrades gracefully if an
// unknown kind reaches it through old snapshot data.
package content

// Block kinds.  The renderer in internal/render owns one template and one
// default prop set per kind.
const (
	KindNavbar       = "navbar"
	KindHero         = "hero"
	KindFeatures     = "features"
	KindGallery      = "gallery"
	KindTestimonials = "testimonials"
	KindPricing      = "pricing"
	KindCTA          = "cta"
	KindContactForm  = "contact_form"
	KindTeam         = "team"
	KindFAQ          = "faq"
	KindStats        = "stats"
	KindRichText     = "rich_text"
	KindImageText    = "image_text"
	KindFooter       = "footer"
	KindVideoEmbed   = "video_embed"
	KindCustomHTML   = "custom_html"
)

var knownKinds = map[string]struct{}{
	KindNavbar:       {},
	KindHero:         {},
	KindFeatures:     {},
	KindGallery:      {},
	KindTestimonials: {},
	KindPricing:      {},
	KindCTA:          {},
	KindContactForm:  {},
	KindTeam:         {},
	KindFAQ:          {},
	KindStats:        {},
	KindRichText:     {},
	KindImageText:    {},
	KindFooter:       {},
	KindVideoEmbed:   {},
	KindCustomHTML:   {},
}

// KnownKind reports whether kind is part of the fixed enumeration.
func KnownKind(kind string) bool {
	_, ok := knownKinds[kind]
	return ok
}
