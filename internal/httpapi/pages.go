// internal/httpapi/pages.go
//
// Page CRUD handlers.
package httpapi

import (
	"net/http"

	"github.com/yanizio/stanza/internal/content"
)

func (a *API) listPages(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	siteID, err := urlID(r, "siteID")
	if err != nil {
		badRequest(w, err)
		return
	}
	pages, err := a.store.ListPages(r.Context(), id.TenantID, siteID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

func (a *API) createPage(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	siteID, err := urlID(r, "siteID")
	if err != nil {
		badRequest(w, err)
		return
	}
	var in content.NewPage
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	page, err := a.store.CreatePage(r.Context(), id.TenantID, siteID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, page)
}

func (a *API) getPage(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	pageID, err := urlID(r, "pageID")
	if err != nil {
		badRequest(w, err)
		return
	}
	page, err := a.store.PageByID(r.Context(), id.TenantID, pageID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (a *API) updatePage(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	pageID, err := urlID(r, "pageID")
	if err != nil {
		badRequest(w, err)
		return
	}
	var upd content.PageUpdate
	if err := decode(r, &upd); err != nil {
		badRequest(w, err)
		return
	}
	page, err := a.store.UpdatePage(r.Context(), id.TenantID, pageID, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (a *API) deletePage(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	pageID, err := urlID(r, "pageID")
	if err != nil {
		badRequest(w, err)
		return
	}
	if err := a.store.DeletePage(r.Context(), id.TenantID, pageID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
