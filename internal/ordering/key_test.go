// internal/ordering/key_test.go
//
// Unit-tests for the ordering-key generator.
//
// The behaviours that matter:
//
//   • Strictly-between: every generated key sorts between its bounds.
//   • No ties: long runs of inserts at one boundary never collide.
//   • Bounded growth: append and prepend runs grow keys logarithmically,
//     and nested same-gap inserts extend length instead of retrying.
//
// Run: go test ./internal/ordering -v

package ordering

import "testing"

func mustBetween(t *testing.T, lower, upper string) string {
	t.Helper()
	k, err := KeyBetween(lower, upper)
	if err != nil {
		t.Fatalf("KeyBetween(%q, %q): %v", lower, upper, err)
	}
	if lower != "" && k <= lower {
		t.Fatalf("KeyBetween(%q, %q) = %q, not above lower", lower, upper, k)
	}
	if upper != "" && k >= upper {
		t.Fatalf("KeyBetween(%q, %q) = %q, not below upper", lower, upper, k)
	}
	return k
}

func TestSeedKey(t *testing.T) {
	if k := mustBetween(t, "", ""); k != SeedKey {
		t.Fatalf("seed key = %q, want %q", k, SeedKey)
	}
}

func TestSimpleMidpoints(t *testing.T) {
	cases := []struct{ lower, upper string }{
		{"", "a0"},
		{"a0", ""},
		{"a0", "a1"},   // adjacent integers force a fraction
		{"a0", "a0V"},  // upper extends lower
		{"a0V", "a1"},  // lower carries a fraction
		{"Zz", "a0"},   // across the sign boundary
		{"az", "b10"},  // across a length band
		{"a0", "z9"},
	}
	for _, c := range cases {
		mustBetween(t, c.lower, c.upper)
	}
}

func TestIntegerSteps(t *testing.T) {
	steps := []struct{ in, want string }{
		{"a0", "a1"},
		{"a9", "aA"},
		{"aZ", "aa"},
		{"az", "b10"},
		{"bzz", "c100"},
		{"Zz", "a0"},
		{"Yzz", "Z0"},
	}
	for _, s := range steps {
		got, err := incrementInteger(s.in)
		if err != nil {
			t.Fatalf("incrementInteger(%q): %v", s.in, err)
		}
		if got != s.want {
			t.Fatalf("incrementInteger(%q) = %q, want %q", s.in, got, s.want)
		}
	}

	downs := []struct{ in, want string }{
		{"a1", "a0"},
		{"a0", "Zz"},
		{"Z0", "Yzz"},
		{"b10", "b0z"},
		{"b00", "az"},
	}
	for _, s := range downs {
		got, err := decrementInteger(s.in)
		if err != nil {
			t.Fatalf("decrementInteger(%q): %v", s.in, err)
		}
		if got != s.want {
			t.Fatalf("decrementInteger(%q) = %q, want %q", s.in, got, s.want)
		}
	}
}

func TestAppendRun(t *testing.T) {
	// 10 000 appends at the tail: strictly increasing, no duplicates, and
	// the key stays short because appends step the integer part.
	last := ""
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		k := mustBetween(t, last, "")
		if _, dup := seen[k]; dup {
			t.Fatalf("duplicate key %q at iteration %d", k, i)
		}
		seen[k] = struct{}{}
		last = k
	}
	if len(last) > 5 {
		t.Fatalf("append run grew key to %d bytes: %q", len(last), last)
	}
}

func TestPrependRun(t *testing.T) {
	first := ""
	for i := 0; i < 10000; i++ {
		first = mustBetween(t, "", first)
	}
	if len(first) > 5 {
		t.Fatalf("prepend run grew key to %d bytes: %q", len(first), first)
	}
}

func TestSameBoundaryRun(t *testing.T) {
	// Repeated inserts into the same gap, each new key becoming the upper
	// bound of the next insert.  This is the degenerate case: length grows
	// steadily but never collides, and ties extend rather than retry.
	lower := mustBetween(t, "", "")
	upper := mustBetween(t, lower, "")
	seen := map[string]struct{}{lower: {}, upper: {}}
	for i := 0; i < 5000; i++ {
		k := mustBetween(t, lower, upper)
		if _, dup := seen[k]; dup {
			t.Fatalf("duplicate key %q at iteration %d", k, i)
		}
		seen[k] = struct{}{}
		upper = k
	}
	// ~6 bisections per extra digit over base 62.
	if len(upper) > 1024 {
		t.Fatalf("same-boundary run grew key to %d bytes", len(upper))
	}
}

func TestInterleavedInsertsStaySorted(t *testing.T) {
	// Build a list by inserting at pseudo-random positions and confirm the
	// resulting key sequence is strictly increasing.
	keys := []string{mustBetween(t, "", "")}
	for i := 0; i < 500; i++ {
		pos := (i * 7919) % (len(keys) + 1)
		lower, upper := "", ""
		if pos > 0 {
			lower = keys[pos-1]
		}
		if pos < len(keys) {
			upper = keys[pos]
		}
		k := mustBetween(t, lower, upper)
		keys = append(keys[:pos], append([]string{k}, keys[pos:]...)...)
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Fatalf("keys not strictly increasing at %d: %q >= %q",
				i, keys[i-1], keys[i])
		}
	}
}

func TestBadBounds(t *testing.T) {
	if _, err := KeyBetween("a1", "a0"); err == nil {
		t.Fatal("inverted bounds accepted")
	}
	if _, err := KeyBetween("a0", "a0"); err == nil {
		t.Fatal("equal bounds accepted")
	}
	if _, err := KeyBetween("a!", ""); err == nil {
		t.Fatal("byte outside alphabet accepted")
	}
	if _, err := KeyBetween("0V", ""); err == nil {
		t.Fatal("digit head accepted")
	}
	if _, err := KeyBetween("a0V0", ""); err == nil {
		t.Fatal("fraction with trailing minimum digit accepted")
	}
	if _, err := KeyBetween("a", ""); err == nil {
		t.Fatal("truncated integer accepted")
	}
}
