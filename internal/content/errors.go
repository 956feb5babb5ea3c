// internal/content/errors.go
//
// Error taxonomy shared by the content tree, version history, and publish
// pipeline.  Callers match with errors.Is; the wrapped text carries the
// actionable detail (which slug collided, which page is the home page).
//
// PersistenceFailure has no sentinel: raw driver errors propagate unwrapped
// so nothing upstream can mistake a lost write for a clean validation
// failure.
package content

import "errors"

var (
	// ErrNotFound covers absent or tenant-mismatched entities.  Always
	// checked before any mutation.
	ErrNotFound = errors.New("content: not found")

	// ErrInvalidState covers structural violations: home-page edits,
	// duplicate slugs, deleting the home page.
	ErrInvalidState = errors.New("content: invalid state")

	// ErrPermissionDenied is returned for locked-block edits when the
	// caller's privileged flag (computed by the external RBAC check) is
	// false.
	ErrPermissionDenied = errors.New("content: permission denied")
)
