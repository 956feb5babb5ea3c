// internal/httpapi/sites.go
//
// Site CRUD, publish, preview, and deployment-history handlers.
package httpapi

import (
	"net/http"

	"github.com/yanizio/stanza/internal/content"
)

func (a *API) listSites(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	sites, err := a.store.SitesByTenant(r.Context(), id.TenantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

func (a *API) createSite(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	var in content.NewSite
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	site, err := a.store.CreateSite(r.Context(), id.TenantID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, site)
}

func (a *API) getSite(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	siteID, err := urlID(r, "siteID")
	if err != nil {
		badRequest(w, err)
		return
	}
	site, err := a.store.SiteByID(r.Context(), id.TenantID, siteID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (a *API) updateSite(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	siteID, err := urlID(r, "siteID")
	if err != nil {
		badRequest(w, err)
		return
	}
	var upd content.SiteUpdate
	if err := decode(r, &upd); err != nil {
		badRequest(w, err)
		return
	}
	site, err := a.store.UpdateSite(r.Context(), id.TenantID, siteID, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (a *API) archiveSite(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	siteID, err := urlID(r, "siteID")
	if err != nil {
		badRequest(w, err)
		return
	}
	if err := a.store.ArchiveSite(r.Context(), id.TenantID, siteID); err != nil {
		writeError(w, err)
		return
	}
	a.live.Invalidate(siteID)
	writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) publishSite(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	siteID, err := urlID(r, "siteID")
	if err != nil {
		badRequest(w, err)
		return
	}
	dep, err := a.pipeline.Publish(r.Context(), id.TenantID, siteID, id.actor())
	if err != nil {
		writeError(w, err)
		return
	}
	a.live.Invalidate(siteID)
	writeJSON(w, http.StatusCreated, dep)
}

func (a *API) listDeployments(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	siteID, err := urlID(r, "siteID")
	if err != nil {
		badRequest(w, err)
		return
	}
	deps, err := a.pipeline.History(r.Context(), id.TenantID, siteID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deps)
}

// previewSite assembles the draft tree on the fly and returns the rendered
// HTML for ?path= (default "/").  Nothing is persisted; this is the editor's
// "what would publish look like" view.
func (a *API) previewSite(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	siteID, err := urlID(r, "siteID")
	if err != nil {
		badRequest(w, err)
		return
	}
	site, err := a.store.SiteByID(r.Context(), id.TenantID, siteID)
	if err != nil {
		writeError(w, err)
		return
	}
	snap, err := a.pipeline.Assemble(r.Context(), id.TenantID, site)
	if err != nil {
		writeError(w, err)
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}
	a.writePage(w, snap, path)
}
