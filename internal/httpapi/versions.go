// internal/httpapi/versions.go
//
// Version-history handlers: snapshot, list, get, restore.
package httpapi

import (
	"fmt"
	"net/http"

	"github.com/yanizio/stanza/internal/content"
	"github.com/yanizio/stanza/internal/version"
)

type snapshotRequest struct {
	Label   string          `json:"label"`
	Trigger version.Trigger `json:"trigger"`
}

func (a *API) createVersion(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	pageID, err := urlID(r, "pageID")
	if err != nil {
		badRequest(w, err)
		return
	}
	var req snapshotRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if req.Trigger == "" {
		req.Trigger = version.TriggerManual
	}
	if !version.KnownTrigger(req.Trigger) {
		writeError(w, fmt.Errorf("%w: unknown trigger %q", content.ErrInvalidState, req.Trigger))
		return
	}
	v, err := a.versions.Snapshot(r.Context(), id.TenantID, pageID, req.Label, req.Trigger, id.actor(), a.retainDefault)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (a *API) listVersions(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	pageID, err := urlID(r, "pageID")
	if err != nil {
		badRequest(w, err)
		return
	}
	metas, err := a.versions.List(r.Context(), id.TenantID, pageID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metas)
}

func (a *API) getVersion(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	versionID, err := urlID(r, "versionID")
	if err != nil {
		badRequest(w, err)
		return
	}
	v, err := a.versions.Get(r.Context(), id.TenantID, versionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (a *API) restoreVersion(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	pageID, err := urlID(r, "pageID")
	if err != nil {
		badRequest(w, err)
		return
	}
	versionID, err := urlID(r, "versionID")
	if err != nil {
		badRequest(w, err)
		return
	}
	if err := a.versions.Restore(r.Context(), id.TenantID, pageID, versionID, id.actor(), a.retainDefault); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
