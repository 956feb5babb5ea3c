// internal/httpapi/blocks.go
//
// Block CRUD and move handlers.
//
// Lock enforcement happens in the content store; handlers resolve the
// caller's privileged flag once per request through the role helpers.  The
// custom_html kind is additionally restricted at creation and update because
// its props render unescaped.
package httpapi

import (
	"fmt"
	"net/http"

	"github.com/yanizio/stanza/internal/acl"
	"github.com/yanizio/stanza/internal/content"
)

func (a *API) listBlocks(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	pageID, err := urlID(r, "pageID")
	if err != nil {
		badRequest(w, err)
		return
	}
	blocks, err := a.store.ListBlocks(r.Context(), id.TenantID, pageID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blocks)
}

func (a *API) createBlock(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	pageID, err := urlID(r, "pageID")
	if err != nil {
		badRequest(w, err)
		return
	}
	var in content.NewBlock
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	if in.Kind == content.KindCustomHTML {
		privileged, err := acl.IsPrivileged(r.Context(), a.db, id.TenantID, id.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		if !privileged {
			writeError(w, fmt.Errorf("%w: custom_html blocks require a privileged role", content.ErrPermissionDenied))
			return
		}
	}
	block, err := a.store.CreateBlock(r.Context(), id.TenantID, pageID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, block)
}

func (a *API) getBlock(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	blockID, err := urlID(r, "blockID")
	if err != nil {
		badRequest(w, err)
		return
	}
	block, err := a.store.BlockByID(r.Context(), id.TenantID, blockID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

func (a *API) updateBlock(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	blockID, err := urlID(r, "blockID")
	if err != nil {
		badRequest(w, err)
		return
	}
	var upd content.BlockUpdate
	if err := decode(r, &upd); err != nil {
		badRequest(w, err)
		return
	}
	privileged, err := acl.IsPrivileged(r.Context(), a.db, id.TenantID, id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !privileged {
		// The raw sink stays privileged across its whole lifetime, not just
		// at creation.
		existing, err := a.store.BlockByID(r.Context(), id.TenantID, blockID)
		if err != nil {
			writeError(w, err)
			return
		}
		if existing.Kind == content.KindCustomHTML {
			writeError(w, fmt.Errorf("%w: custom_html blocks require a privileged role", content.ErrPermissionDenied))
			return
		}
	}
	block, err := a.store.UpdateBlock(r.Context(), id.TenantID, blockID, upd, privileged)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

func (a *API) deleteBlock(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	blockID, err := urlID(r, "blockID")
	if err != nil {
		badRequest(w, err)
		return
	}
	privileged, err := acl.IsPrivileged(r.Context(), a.db, id.TenantID, id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.store.DeleteBlock(r.Context(), id.TenantID, blockID, privileged); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type moveRequest struct {
	AfterID *uint64 `json:"after_id"` // null → move to the front
}

func (a *API) moveBlock(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)
	blockID, err := urlID(r, "blockID")
	if err != nil {
		badRequest(w, err)
		return
	}
	var req moveRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	block, err := a.store.MoveBlock(r.Context(), id.TenantID, blockID, req.AfterID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}
