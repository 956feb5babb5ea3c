// internal/content/store_test.go
//
// Unit-tests for the tenant-scoped store using sqlmock.  Pure invariants
// (validation, home-page freeze, lock enforcement) are exercised against a
// mocked pool; integration behaviour lives in the schema's constraints.
//
// Run: go test ./internal/content -v

package content

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(sqlx.NewDb(db, "mysql")), mock
}

func blockRow(id uint64, kind, orderKey string, visible, locked bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "page_id", "kind", "order_key", "props",
		"is_visible", "is_locked", "created_at", "updated_at",
	}).AddRow(id, 10, kind, orderKey, []byte(`{}`), visible, locked, now, now)
}

func pageRow(id uint64, slug string, isHome bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "site_id", "title", "slug", "status", "is_home",
		"show_in_nav", "nav_label", "nav_order",
		"seo_title", "seo_description", "created_at", "updated_at",
	}).AddRow(id, 5, "Title", slug, "published", isHome, true, "", 0, "", "", now, now)
}

func TestSiteIDByHostSubdomain(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id FROM site WHERE subdomain = ? AND archived_at IS NULL`,
	)).
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	id, err := store.SiteIDByHost(context.Background(), "acme.sites.example.com", "sites.example.com")
	if err != nil {
		t.Fatalf("SiteIDByHost error: %v", err)
	}
	if id != 5 {
		t.Fatalf("id = %d, want 5", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSiteIDByHostCustomDomain(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id FROM site WHERE custom_domain = ? AND domain_verified = TRUE AND archived_at IS NULL`,
	)).
		WithArgs("www.acme.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	id, err := store.SiteIDByHost(context.Background(), "www.acme.com", "sites.example.com")
	if err != nil {
		t.Fatalf("SiteIDByHost error: %v", err)
	}
	if id != 9 {
		t.Fatalf("id = %d, want 9", id)
	}
}

func TestSiteIDByHostUnknown(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("SELECT id FROM site").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.SiteIDByHost(context.Background(), "nobody.sites.example.com", "sites.example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestArchiveSiteMissing(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec("UPDATE site").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.ArchiveSite(context.Background(), 1, 404)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateSiteRejectsBadInput(t *testing.T) {
	store, _ := newMock(t)
	ctx := context.Background()

	// Missing name fails validation before any SQL runs.
	if _, err := store.CreateSite(ctx, 1, NewSite{Subdomain: "acme"}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("missing name: err = %v, want ErrInvalidState", err)
	}
	// Uppercase subdomain fails the DNS-label check.
	if _, err := store.CreateSite(ctx, 1, NewSite{Name: "Acme", Subdomain: "Acme"}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("bad subdomain: err = %v, want ErrInvalidState", err)
	}
}

func TestCreateBlockRejectsUnknownKind(t *testing.T) {
	store, _ := newMock(t)

	_, err := store.CreateBlock(context.Background(), 1, 10, NewBlock{Kind: "carousel-3000"})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestUpdateBlockLockedDenied(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("SELECT .+ FROM block b").
		WillReturnRows(blockRow(3, KindHero, "a1", true, true))

	vis := false
	_, err := store.UpdateBlock(context.Background(), 1, 3, BlockUpdate{IsVisible: &vis}, false)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestUpdateBlockLockedPrivileged(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("SELECT .+ FROM block b").
		WillReturnRows(blockRow(3, KindHero, "a1", true, true))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE block SET is_visible = ? WHERE id = ?`)).
		WithArgs(false, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT .+ FROM block b").
		WillReturnRows(blockRow(3, KindHero, "a1", false, true))

	vis := false
	got, err := store.UpdateBlock(context.Background(), 1, 3, BlockUpdate{IsVisible: &vis}, true)
	if err != nil {
		t.Fatalf("UpdateBlock error: %v", err)
	}
	if got.IsVisible {
		t.Fatalf("IsVisible = true, want false")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestDeleteBlockLockedDenied(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("SELECT .+ FROM block b").
		WillReturnRows(blockRow(3, KindFooter, "a1", true, true))

	err := store.DeleteBlock(context.Background(), 1, 3, false)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestMoveBlockSelfAnchor(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("SELECT .+ FROM block b").
		WillReturnRows(blockRow(3, KindHero, "a1", true, false))

	self := uint64(3)
	_, err := store.MoveBlock(context.Background(), 1, 3, &self)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestDeletePageHomeForbidden(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("SELECT .+ FROM page p").
		WillReturnRows(pageRow(7, HomeSlug, true))

	err := store.DeletePage(context.Background(), 1, 7)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestUpdatePageHomeFlagFrozen(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("SELECT .+ FROM page p").
		WillReturnRows(pageRow(7, "/about", false))

	home := true
	_, err := store.UpdatePage(context.Background(), 1, 7, PageUpdate{IsHome: &home})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestUpdatePageHomeSlugFrozen(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("SELECT .+ FROM page p").
		WillReturnRows(pageRow(7, HomeSlug, true))

	slug := "/welcome"
	_, err := store.UpdatePage(context.Background(), 1, 7, PageUpdate{Slug: &slug})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}
