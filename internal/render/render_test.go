// internal/render/render_test.go
//
// Unit-tests for snapshot rendering: path resolution, escaping, defaults,
// and determinism.  Rendering is pure, so no mocks are involved.
//
// Run: go test ./internal/render -v

package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/yanizio/stanza/internal/content"
	"github.com/yanizio/stanza/internal/publish"
)

func testSnapshot() *publish.SiteSnapshot {
	return &publish.SiteSnapshot{
		SiteID:    5,
		Name:      "Acme",
		Subdomain: "acme",
		Branding: publish.Branding{
			PrimaryColor:   "#1a1a2e",
			SecondaryColor: "#16213e",
			AccentColor:    "#0f7b6c",
			HeadingFont:    "poppins",
			BodyFont:       "lora",
		},
		SEODescription: "Acme builds things.",
		Pages: []publish.PageSnapshot{
			{
				PageID: 1, Title: "Home", Slug: "/", IsHome: true, ShowInNav: true,
				Blocks: []publish.BlockSnapshot{
					{Kind: content.KindHero, Props: content.Props{
						"heading":    "Welcome to Acme",
						"subheading": "We build <things>",
					}},
				},
			},
			{
				PageID: 2, Title: "About", Slug: "/about", ShowInNav: true,
				Blocks: []publish.BlockSnapshot{
					{Kind: content.KindRichText, Props: content.Props{"body": "Our story"}},
				},
			},
		},
	}
}

func TestPageResolvesSlug(t *testing.T) {
	html, err := Page(testSnapshot(), "/about")
	if err != nil {
		t.Fatalf("Page error: %v", err)
	}
	if !strings.Contains(html, "Our story") {
		t.Fatalf("about body missing:\n%s", html)
	}
	if !strings.Contains(html, "<title>About | Acme</title>") {
		t.Fatalf("title missing:\n%s", html)
	}
}

func TestPageRootFallsBackToHome(t *testing.T) {
	snap := testSnapshot()
	snap.Pages[0].Slug = "/welcome" // legacy document, home not at "/"

	html, err := Page(snap, "/")
	if err != nil {
		t.Fatalf("Page error: %v", err)
	}
	if !strings.Contains(html, "Welcome to Acme") {
		t.Fatalf("home fallback failed:\n%s", html)
	}
}

func TestPageEscapesPropText(t *testing.T) {
	snap := testSnapshot()
	snap.Pages[0].Blocks[0].Props["heading"] = `<script>alert(1)</script>`

	html, err := Page(snap, "/")
	if err != nil {
		t.Fatalf("Page error: %v", err)
	}
	if strings.Contains(html, "<script>alert") {
		t.Fatalf("unescaped script tag in output:\n%s", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Fatalf("escaped heading missing:\n%s", html)
	}
}

func TestRichTextEscapesHTMLProp(t *testing.T) {
	snap := testSnapshot()
	snap.Pages[1].Blocks = []publish.BlockSnapshot{
		{Kind: content.KindRichText, Props: content.Props{
			"html": `<script>alert(1)</script>`,
		}},
	}

	html, err := Page(snap, "/about")
	if err != nil {
		t.Fatalf("Page error: %v", err)
	}
	if strings.Contains(html, "<script>alert") {
		t.Fatalf("rich_text served its html prop raw:\n%s", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Fatalf("escaped html prop missing:\n%s", html)
	}
}

func TestCustomHTMLIsTheOnlyRawSink(t *testing.T) {
	snap := testSnapshot()
	snap.Pages[1].Blocks = []publish.BlockSnapshot{
		{Kind: content.KindCustomHTML, Props: content.Props{
			"html": `<div id="embed"></div>`,
		}},
	}

	html, err := Page(snap, "/about")
	if err != nil {
		t.Fatalf("Page error: %v", err)
	}
	if !strings.Contains(html, `<div id="embed"></div>`) {
		t.Fatalf("custom_html should pass through verbatim:\n%s", html)
	}
}

func TestPageUnknownKindFallsBack(t *testing.T) {
	snap := testSnapshot()
	snap.Pages[0].Blocks = append(snap.Pages[0].Blocks, publish.BlockSnapshot{
		Kind:  "hologram",
		Props: content.Props{"heading": "Future block", "body": "From a newer editor"},
	})

	html, err := Page(snap, "/")
	if err != nil {
		t.Fatalf("Page error: %v", err)
	}
	if !strings.Contains(html, "blk-hologram") {
		t.Fatalf("unknown kind should still emit its section:\n%s", html)
	}
	if !strings.Contains(html, "Future block") {
		t.Fatalf("generic fallback lost the heading:\n%s", html)
	}
}

func TestPageNotFound(t *testing.T) {
	_, err := Page(testSnapshot(), "/missing")
	if !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("err = %v, want ErrPageNotFound", err)
	}
}

func TestPageIsDeterministic(t *testing.T) {
	snap := testSnapshot()
	first, err := Page(snap, "/")
	if err != nil {
		t.Fatalf("Page error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Page(snap, "/")
		if err != nil {
			t.Fatalf("Page error: %v", err)
		}
		if again != first {
			t.Fatalf("render %d differs from first", i)
		}
	}
}

func TestBrandingCSSVariables(t *testing.T) {
	html, err := Page(testSnapshot(), "/")
	if err != nil {
		t.Fatalf("Page error: %v", err)
	}
	for _, want := range []string{
		"--color-primary:#1a1a2e",
		"--color-accent:#0f7b6c",
		"--font-heading:'Poppins'",
		"--font-body:'Lora'",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q in head:\n%s", want, html)
		}
	}
}

func TestBrandingRejectsBadColor(t *testing.T) {
	snap := testSnapshot()
	snap.Branding.PrimaryColor = `red;}</style><script>`

	html, err := Page(snap, "/")
	if err != nil {
		t.Fatalf("Page error: %v", err)
	}
	if strings.Contains(html, "</style><script>") {
		t.Fatalf("color value escaped the style element:\n%s", html)
	}
	if !strings.Contains(html, "--color-primary:#1a1a2e") {
		t.Fatalf("fallback color missing:\n%s", html)
	}
}

func TestNavbarListsNavPages(t *testing.T) {
	snap := testSnapshot()
	snap.Pages[0].Blocks = []publish.BlockSnapshot{{Kind: content.KindNavbar, Props: content.Props{}}}
	snap.Pages[1].ShowInNav = false

	html, err := Page(snap, "/")
	if err != nil {
		t.Fatalf("Page error: %v", err)
	}
	if !strings.Contains(html, `href="/"`) {
		t.Fatalf("home link missing:\n%s", html)
	}
	if strings.Contains(html, `href="/about"`) {
		t.Fatalf("nav-hidden page leaked into navbar:\n%s", html)
	}
}

func TestNotFoundPage(t *testing.T) {
	html := NotFoundPage(testSnapshot())
	if !strings.Contains(html, "Page not found") || !strings.Contains(html, "Acme") {
		t.Fatalf("404 body wrong:\n%s", html)
	}
}

func TestPlaceholderEscapesName(t *testing.T) {
	html := Placeholder("<b>Acme</b>")
	if strings.Contains(html, "<b>") {
		t.Fatalf("site name not escaped:\n%s", html)
	}
	if !strings.Contains(html, "not published yet") {
		t.Fatalf("holding copy missing:\n%s", html)
	}
}
