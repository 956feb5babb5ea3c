// internal/httpapi/versions_test.go
//
// Handler tests for the version surface.
//
// Run: go test ./internal/httpapi -v

package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateVersionUnknownTrigger(t *testing.T) {
	h, mock := newTestAPI(t)

	// Rejected before any SQL runs: the trigger column is an ENUM, so an
	// unknown value must come back as invalid input, not a 500.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, apiRequest(http.MethodPost, "/api/pages/10/versions",
		`{"label":"x","trigger":"restore"}`))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected SQL: %v", err)
	}
}
