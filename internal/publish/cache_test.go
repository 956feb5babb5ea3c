// internal/publish/cache_test.go
//
// Unit-tests for the live-deployment cache: load-on-demand, hit path, and
// invalidation after a republish.
//
// Run: go test ./internal/publish -v

package publish

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

const liveDoc = `{"site_id":5,"name":"Acme","subdomain":"acme","pages":[]}`

func liveRow(id uint64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "site_id", "snapshot", "is_live", "deployed_by", "deployed_at",
	}).AddRow(id, 5, []byte(liveDoc), true, "user:1", time.Now())
}

func TestLiveCacheLoadsOnceAndHits(t *testing.T) {
	p, mock := newMock(t)
	c := NewLiveCache(p, time.Minute, 10)
	defer c.Close()

	// One query serves both calls; the second is a cache hit.
	mock.ExpectQuery("SELECT .+ FROM deployment").
		WithArgs(uint64(5)).
		WillReturnRows(liveRow(77))

	first, err := c.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	second, err := c.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if first != second {
		t.Fatal("second Get should return the cached deployment")
	}
	if first.Snapshot.Name != "Acme" {
		t.Fatalf("snapshot name = %q", first.Snapshot.Name)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestLiveCacheInvalidateReloads(t *testing.T) {
	p, mock := newMock(t)
	c := NewLiveCache(p, time.Minute, 10)
	defer c.Close()

	mock.ExpectQuery("SELECT .+ FROM deployment").
		WithArgs(uint64(5)).
		WillReturnRows(liveRow(77))
	mock.ExpectQuery("SELECT .+ FROM deployment").
		WithArgs(uint64(5)).
		WillReturnRows(liveRow(78))

	if _, err := c.Get(context.Background(), 5); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	c.Invalidate(5)
	after, err := c.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("Get after Invalidate error: %v", err)
	}
	if after.ID != 78 {
		t.Fatalf("ID = %d, want the republished deployment 78", after.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestLiveCacheDoesNotCacheAbsence(t *testing.T) {
	p, mock := newMock(t)
	c := NewLiveCache(p, time.Minute, 10)
	defer c.Close()

	// Unpublished site: every Get goes to the database so the first request
	// after the site's first publish sees it.
	mock.ExpectQuery("SELECT .+ FROM deployment").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT .+ FROM deployment").
		WithArgs(uint64(5)).
		WillReturnRows(liveRow(80))

	if _, err := c.Get(context.Background(), 5); !errors.Is(err, ErrNoLiveDeployment) {
		t.Fatalf("err = %v, want ErrNoLiveDeployment", err)
	}
	dep, err := c.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("Get after publish error: %v", err)
	}
	if dep.ID != 80 {
		t.Fatalf("ID = %d, want 80", dep.ID)
	}
}
