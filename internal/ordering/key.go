// internal/ordering/key.go
//
// Sortable-string ordering keys for block placement.
//
// Context
// -------
// Blocks on a page are sorted by an opaque `order_key` string.  Inserting or
// moving a block must touch only that block's own key, so the generator
// produces a new key that sorts strictly between the two observed neighbour
// keys.  Keys are compared as plain strings (the database column uses a
// binary collation), so the base-62 alphabet is laid out in ASCII order.
//
// Key layout
// ----------
// A key is an integer part followed by an optional fraction:
//
//   - The first byte encodes the integer's digit count: 'a'..'z' for the
//     ascending range (1..26 digits), 'A'..'Z' mirrored for the descending
//     range ('Z' is 1 digit, 'A' is 26).  The seed key is "a0".
//   - Appending after the last block increments the integer, and prepending
//     before the first block decrements it.  Carries move to the next length
//     band ("az" + 1 = "b10"), so a run of n appends or prepends grows the
//     key by O(log62 n) bytes, not O(n).
//   - Inserting between two neighbours bisects the fraction.  A tie between
//     adjacent digits is broken by extending the key, never by retrying.
//
// The fraction never ends with the minimum digit '0'; if it did, no key
// could later be generated directly below it.  Integer-only keys such as
// "a0" are exempt (their trailing digit is integer payload, not fraction).
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package ordering

import (
	"errors"
	"fmt"
	"strings"
)

// digits is the base-62 alphabet in ASCII order: 0-9 < A-Z < a-z.
const digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// SeedKey is the key assigned when a page has no blocks yet.
const SeedKey = "a0"

// ErrBadBounds is returned when lower does not sort strictly before upper.
var ErrBadBounds = errors.New("ordering: bounds out of order")

// ErrKeyRange is returned when the integer range is exhausted.  Reaching it
// takes ~62^26 consecutive appends or prepends.
var ErrKeyRange = errors.New("ordering: integer key range exhausted")

// KeyBetween returns a key that sorts strictly between lower and upper.  An
// empty lower means "unbounded below", an empty upper means "unbounded
// above"; both empty yields the seed key for the first block on a page.
func KeyBetween(lower, upper string) (string, error) {
	if err := checkKey(lower); err != nil {
		return "", err
	}
	if err := checkKey(upper); err != nil {
		return "", err
	}
	if lower != "" && upper != "" && lower >= upper {
		return "", fmt.Errorf("%w: %q >= %q", ErrBadBounds, lower, upper)
	}

	switch {
	case lower == "" && upper == "":
		return SeedKey, nil

	case lower == "":
		// Before the first block.  If upper carries a fraction its bare
		// integer already sorts below it; otherwise step the integer down.
		ib := integerPart(upper)
		if ib != upper {
			return ib, nil
		}
		return decrementInteger(ib)

	case upper == "":
		// After the last block: step the integer up, dropping any fraction.
		return incrementInteger(integerPart(lower))

	default:
		ia, ib := integerPart(lower), integerPart(upper)
		fa, fb := lower[len(ia):], upper[len(ib):]
		if ia == ib {
			return ia + midpoint(fa, fb), nil
		}
		i, err := incrementInteger(ia)
		if err != nil {
			return "", err
		}
		if i < upper {
			return i, nil
		}
		// lower's successor integer would collide with or pass upper, so
		// extend lower's fraction instead.
		return ia + midpoint(fa, ""), nil
	}
}

// integerPart slices the leading integer off a key.  The first byte encodes
// the digit count, so no scanning is needed.
func integerPart(key string) string {
	n := intDigits(key[0])
	return key[:1+n]
}

// intDigits maps a head byte to its integer digit count, or -1 when the byte
// is not a valid head.
func intDigits(head byte) int {
	switch {
	case head >= 'a' && head <= 'z':
		return int(head-'a') + 1
	case head >= 'A' && head <= 'Z':
		return int('Z'-head) + 1
	default:
		return -1
	}
}

// checkKey rejects keys that were not produced by this generator.
func checkKey(key string) error {
	if key == "" {
		return nil
	}
	n := intDigits(key[0])
	if n < 0 || len(key) < 1+n {
		return fmt.Errorf("ordering: malformed key %q", key)
	}
	for i := 1; i < len(key); i++ {
		if strings.IndexByte(digits, key[i]) < 0 {
			return fmt.Errorf("ordering: key %q contains byte outside alphabet", key)
		}
	}
	if frac := key[1+n:]; frac != "" && frac[len(frac)-1] == digits[0] {
		return fmt.Errorf("ordering: key %q fraction ends with minimum digit", key)
	}
	return nil
}

// incrementInteger returns the next integer key above x, carrying into the
// next length band when the digits roll over.
func incrementInteger(x string) (string, error) {
	head, ds := x[0], []byte(x[1:])
	for i := len(ds) - 1; i >= 0; i-- {
		d := strings.IndexByte(digits, ds[i])
		if d < len(digits)-1 {
			ds[i] = digits[d+1]
			return string(head) + string(ds), nil
		}
		ds[i] = digits[0]
	}
	// Carry out of the current band.
	switch {
	case head == 'z':
		return "", ErrKeyRange
	case head >= 'a': // ascending bands widen upward: "az" + 1 = "b10"
		return string(head+1) + "1" + strings.Repeat("0", len(ds)), nil
	default: // 'A'..'Z': mirrored bands narrow upward: "Yzz" + 1 = "Z0"
		if head == 'Z' {
			return SeedKey, nil
		}
		return string(head+1) + strings.Repeat("0", len(ds)-1), nil
	}
}

// decrementInteger returns the next integer key below x, borrowing into the
// previous length band when the digits roll under.
func decrementInteger(x string) (string, error) {
	head, ds := x[0], []byte(x[1:])
	for i := len(ds) - 1; i >= 0; i-- {
		d := strings.IndexByte(digits, ds[i])
		if d > 0 {
			ds[i] = digits[d-1]
			return string(head) + string(ds), nil
		}
		ds[i] = digits[len(digits)-1]
	}
	switch {
	case head == 'A':
		return "", ErrKeyRange
	case head <= 'Z': // descending bands widen downward: "Z0" - 1 = "Yzz"
		return string(head-1) + strings.Repeat("z", len(ds)+1), nil
	default: // 'a'..'z': "b00" - 1 = "az"; "a0" - 1 = "Zz"
		if head == 'a' {
			return "Z" + "z", nil
		}
		return string(head-1) + strings.Repeat("z", len(ds)-1), nil
	}
}

// midpoint returns a fraction strictly between a and b in lexicographic
// order, where empty a is unbounded below and empty b unbounded above.  The
// result never ends with the minimum digit.
func midpoint(a, b string) string {
	if b != "" {
		// Shared prefix stays; recurse on the remainders.
		n := 0
		for n < len(a) && n < len(b) && a[n] == b[n] {
			n++
		}
		if n > 0 {
			return b[:n] + midpoint(a[n:], b[n:])
		}
	}

	da, db := 0, len(digits)
	if a != "" {
		da = strings.IndexByte(digits, a[0])
	}
	if b != "" {
		db = strings.IndexByte(digits, b[0])
	}

	if db-da > 1 {
		// Room at this position: emit the middle digit and stop.
		return string(digits[(da+db)/2])
	}

	// Leading digits are adjacent (or a is exhausted): keep the lower digit
	// and extend, because the next position is unbounded above within this
	// prefix.
	if a != "" {
		return a[:1] + midpoint(a[1:], "")
	}
	return string(digits[da]) + midpoint("", b[1:])
}
