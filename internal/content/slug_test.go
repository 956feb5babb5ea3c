// internal/content/slug_test.go
//
// Unit-tests for slug derivation and validation.
//
// Run: go test ./internal/content -v

package content

import "testing"

func TestMakeSlug(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"About Us", "/about-us"},
		{"Pricing", "/pricing"},
		{"  Hello,   World!  ", "/hello-world"},
		{"Café & Bar", "/caf-bar"},
		{"2024 Roadmap", "/2024-roadmap"},
		{"---", "/page"},
		{"", "/page"},
		{"🎉 Launch 🎉", "/launch"},
		{"FAQ / Support", "/faq-support"},
	}
	for _, tc := range cases {
		if got := MakeSlug(tc.title); got != tc.want {
			t.Errorf("MakeSlug(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestValidateSlug(t *testing.T) {
	valid := []string{"/about", "/about-us", "/a/b", "/2024", "/x9-y"}
	for _, s := range valid {
		if err := ValidateSlug(s); err != nil {
			t.Errorf("ValidateSlug(%q) = %v, want nil", s, err)
		}
	}

	invalid := []string{"", "about", "/About", "/about us", "/-about",
		"/about-", "/a//b", "/a/", "/über"}
	for _, s := range invalid {
		if err := ValidateSlug(s); err == nil {
			t.Errorf("ValidateSlug(%q) = nil, want error", s)
		}
	}
}

func TestValidSubdomain(t *testing.T) {
	valid := []string{"acme", "acme-co", "a1", "99designs"}
	for _, s := range valid {
		if !validSubdomain(s) {
			t.Errorf("validSubdomain(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "-acme", "acme-", "Acme", "ac me", "a.b"}
	for _, s := range invalid {
		if validSubdomain(s) {
			t.Errorf("validSubdomain(%q) = true, want false", s)
		}
	}
}
