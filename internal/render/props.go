// internal/render/props.go
//
// Typed accessors over a block's props map.
//
// Props come from user-edited JSON, so every accessor coerces defensively
// and falls back to a caller-supplied default.  Text values are escaped at
// the point of use, not here; attr escapes for attribute position.
package render

import (
	"html/template"
	"strconv"

	"github.com/yanizio/stanza/internal/content"
)

// text returns the prop as an escaped string, or the fallback when absent
// or not a scalar.
func text(p content.Props, key, fallback string) string {
	return template.HTMLEscapeString(raw(p, key, fallback))
}

// raw returns the prop as an unescaped string.  Only for values that go
// through their own sanitizer (hex colors, numeric CSS) or are emitted
// deliberately raw (custom_html).
func raw(p content.Props, key, fallback string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return fallback
	}
	switch s := v.(type) {
	case string:
		if s == "" {
			return fallback
		}
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fallback
	}
}

// attr escapes the prop for use inside a quoted HTML attribute.
func attr(p content.Props, key, fallback string) string {
	return template.HTMLEscapeString(raw(p, key, fallback))
}

// boolean reads a bool prop.  JSON decoding yields real bools, but string
// forms from older editors are accepted too.
func boolean(p content.Props, key string, fallback bool) bool {
	v, ok := p[key]
	if !ok || v == nil {
		return fallback
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}

// integer reads a numeric prop.  JSON numbers decode as float64.
func integer(p content.Props, key string, fallback int) int {
	v, ok := p[key]
	if !ok || v == nil {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}

// list reads a prop holding an array of objects, the shape repeated
// sub-items (features, FAQ entries, team members) use.  Non-object
// elements are skipped.
func list(p content.Props, key string) []content.Props {
	v, ok := p[key]
	if !ok || v == nil {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]content.Props, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			out = append(out, content.Props(m))
		}
	}
	return out
}

// cssColor passes through 3-, 4-, 6-, or 8-digit hex colors and rejects
// anything else, so a prop can never break out of a style attribute.
func cssColor(s, fallback string) string {
	if !validHexColor(s) {
		if !validHexColor(fallback) {
			return "#000000"
		}
		return fallback
	}
	return s
}

func validHexColor(s string) bool {
	if len(s) < 4 || s[0] != '#' {
		return false
	}
	switch len(s) - 1 {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// cssFont maps a font identifier to a CSS font stack.  Unknown identifiers
// fall back to the system stack rather than echoing user input into CSS.
func cssFont(id string) string {
	if stack, ok := fontStacks[id]; ok {
		return stack
	}
	return fontStacks["inter"]
}

var fontStacks = map[string]string{
	"inter":        `'Inter', system-ui, sans-serif`,
	"lora":         `'Lora', Georgia, serif`,
	"poppins":      `'Poppins', system-ui, sans-serif`,
	"montserrat":   `'Montserrat', system-ui, sans-serif`,
	"merriweather": `'Merriweather', Georgia, serif`,
	"roboto":       `'Roboto', system-ui, sans-serif`,
	"playfair":     `'Playfair Display', Georgia, serif`,
	"open-sans":    `'Open Sans', system-ui, sans-serif`,
}
