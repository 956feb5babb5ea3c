// internal/httpapi/respond.go
//
// JSON response helpers and the error-to-status mapping.
//
// Handlers return domain errors; this file is the single place that turns
// them into HTTP.  Sentinel wrapping in the stores survives fmt.Errorf, so
// errors.Is sees through the added context.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/stanza/internal/content"
	"github.com/yanizio/stanza/internal/publish"
	"github.com/yanizio/stanza/internal/render"
)

type errBody struct {
	Error string `json:"error"`
}

// writeJSON encodes v with the given status.  Encoding failures are logged;
// the status line is already on the wire by then.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("response encode", zap.Error(err))
	}
}

// writeError maps a domain error onto a status code and JSON body.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, content.ErrNotFound),
		errors.Is(err, publish.ErrNoLiveDeployment),
		errors.Is(err, render.ErrPageNotFound):
		writeJSON(w, http.StatusNotFound, errBody{Error: err.Error()})
	case errors.Is(err, content.ErrInvalidState):
		writeJSON(w, http.StatusUnprocessableEntity, errBody{Error: err.Error()})
	case errors.Is(err, content.ErrPermissionDenied):
		writeJSON(w, http.StatusForbidden, errBody{Error: err.Error()})
	default:
		zap.L().Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errBody{Error: "internal error"})
	}
}

// decode reads the request body into dst, rejecting unknown fields so a
// typo'd key fails loudly instead of silently doing nothing.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// badRequest writes a 400 with the decode error message.
func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errBody{Error: err.Error()})
}
