// internal/content/slug.go
//
// Page slug helpers.
//
// • MakeSlug(title)  ─ converts arbitrary text into a URL-safe page slug
//   restricted to ASCII a-z, 0-9, and "-", with a leading "/".
// • ValidateSlug(s)  ─ checks the stored form: leading "/", lowercase
//   alphanumerics and hyphens, no empty or dash-fringed segments.
//
// Rules (MakeSlug)
// ----------------
// 1. Lower-case everything.
// 2. Convert any run of non-[a-z0-9] characters to one "-".  That strips
//    spaces, punctuation, emoji, and non-ASCII.
// 3. Collapse consecutive "-" to a single "-".
// 4. Trim leading / trailing "-".
// 5. If the result is empty, return "/page".
//
// Notes
// -----
// • Slugs are max 100 runes after the slash; callers may truncate earlier.
// • "/" is reserved for the home page and never produced by MakeSlug.

package content

import (
	"fmt"
	"strings"
)

// HomeSlug is the fixed slug of every site's home page.
const HomeSlug = "/"

// MakeSlug converts title → "/" + lower-kebab ASCII.
func MakeSlug(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastWasDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasDash = false
		default:
			// any non-ASCII or punctuation becomes a single dash
			if !lastWasDash {
				b.WriteRune('-')
				lastWasDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "/page"
	}
	if len(slug) > 100 {
		slug = slug[:100]
		slug = strings.TrimRightFunc(slug, func(r rune) bool { return r == '-' })
	}
	return "/" + slug
}

// ValidateSlug checks the stored form.  The home slug "/" is valid; all
// other slugs are one or more "/"-separated lowercase kebab segments.
func ValidateSlug(s string) error {
	if s == HomeSlug {
		return nil
	}
	if !strings.HasPrefix(s, "/") {
		return fmt.Errorf("%w: slug %q must start with '/'", ErrInvalidState, s)
	}
	for _, seg := range strings.Split(s[1:], "/") {
		if !validSegment(seg) {
			return fmt.Errorf("%w: slug %q must use lowercase letters, digits, and single hyphens", ErrInvalidState, s)
		}
	}
	return nil
}

func validSegment(seg string) bool {
	if seg == "" || seg[0] == '-' || seg[len(seg)-1] == '-' {
		return false
	}
	prevDash := false
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			prevDash = false
		case c == '-':
			if prevDash {
				return false
			}
			prevDash = true
		default:
			return false
		}
	}
	return true
}
