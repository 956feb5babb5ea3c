// internal/httpapi/serve.go
//
// The public serving path: Host → site → live deployment → rendered HTML.
//
// Context
// -------
// Rendering is deterministic per (deployment, path), so rendered pages sit
// in a small LRU keyed "deploymentID:path".  A republish changes the
// deployment ID, which changes every key; stale entries simply age out of
// the LRU, no invalidation pass needed.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/yanizio/stanza/internal/content"
	"github.com/yanizio/stanza/internal/publish"
	"github.com/yanizio/stanza/internal/render"
)

func (a *API) servePublic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	host := hostOnly(r.Host)
	siteID, err := a.store.SiteIDByHost(r.Context(), host, a.baseDomain)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		writeError(w, err)
		return
	}

	dep, err := a.live.Get(r.Context(), siteID)
	if err != nil {
		if errors.Is(err, publish.ErrNoLiveDeployment) {
			writeHTML(w, http.StatusOK, render.Placeholder(host))
			return
		}
		writeError(w, err)
		return
	}

	path := r.URL.Path
	key := strconv.FormatUint(dep.ID, 10) + ":" + path
	if html, ok := a.pages.Get(key); ok {
		writeHTML(w, http.StatusOK, html)
		return
	}

	html, err := render.Page(&dep.Snapshot, path)
	if err != nil {
		if errors.Is(err, render.ErrPageNotFound) {
			writeHTML(w, http.StatusNotFound, render.NotFoundPage(&dep.Snapshot))
			return
		}
		writeError(w, err)
		return
	}
	a.pages.Add(key, html)
	writeHTML(w, http.StatusOK, html)
}

// writePage renders one page of a snapshot for the preview path.
func (a *API) writePage(w http.ResponseWriter, snap *publish.SiteSnapshot, path string) {
	html, err := render.Page(snap, path)
	if err != nil {
		if errors.Is(err, render.ErrPageNotFound) {
			writeHTML(w, http.StatusNotFound, render.NotFoundPage(snap))
			return
		}
		writeError(w, err)
		return
	}
	writeHTML(w, http.StatusOK, html)
}

// KnownHost reports whether any site answers for host.  Wired into the
// HTTPS-redirect middleware so unknown hosts fall through to a plain 404
// instead of a redirect loop.
func (a *API) KnownHost(host string) bool {
	_, err := a.store.SiteIDByHost(context.Background(), host, a.baseDomain)
	return err == nil
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// hostOnly removes the :port suffix from Host when present.
func hostOnly(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
