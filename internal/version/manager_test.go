// internal/version/manager_test.go
//
// Unit-tests for the version manager: snapshot isolation, pruning, and
// tenant-scoped lookups against sqlmock.
//
// Run: go test ./internal/version -v

package version

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/stanza/internal/content"
)

func newMock(t *testing.T) (*Manager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	sdb := sqlx.NewDb(db, "mysql")
	return NewManager(sdb, content.NewStore(sdb)), mock
}

func TestSnapshotBlocksIsDeepCopy(t *testing.T) {
	blocks := []content.Block{
		{Kind: content.KindHero, OrderKey: "a1", IsVisible: true,
			Props: content.Props{"heading": "Before", "items": []any{map[string]any{"k": "v"}}}},
	}

	doc := snapshotBlocks(blocks)

	// Mutating the live rows must not reach into the document.
	blocks[0].Props["heading"] = "After"
	blocks[0].Props["items"].([]any)[0].(map[string]any)["k"] = "changed"

	if got := doc[0].Props["heading"]; got != "Before" {
		t.Fatalf("heading = %v, want Before", got)
	}
	nested := doc[0].Props["items"].([]any)[0].(map[string]any)["k"]
	if nested != "v" {
		t.Fatalf("nested = %v, want v", nested)
	}
}

func TestSnapshotBlocksKeepsOrderAndFlags(t *testing.T) {
	blocks := []content.Block{
		{Kind: content.KindNavbar, OrderKey: "a1", IsVisible: true, IsLocked: true},
		{Kind: content.KindHero, OrderKey: "a2", IsVisible: false},
		{Kind: content.KindFooter, OrderKey: "a3", IsVisible: true},
	}

	doc := snapshotBlocks(blocks)
	if len(doc) != 3 {
		t.Fatalf("len = %d, want 3 (hidden blocks snapshot too)", len(doc))
	}
	if doc[0].OrderKey != "a1" || doc[1].OrderKey != "a2" || doc[2].OrderKey != "a3" {
		t.Fatalf("order keys not preserved: %+v", doc)
	}
	if !doc[0].IsLocked || doc[1].IsVisible {
		t.Fatalf("flags not preserved: %+v", doc)
	}
}

func TestGetUnknownVersion(t *testing.T) {
	m, mock := newMock(t)

	mock.ExpectQuery("SELECT .+ FROM page_version v").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := m.Get(context.Background(), 1, 999)
	if !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

const restoreDoc = `[` +
	`{"kind":"hero","props":{"heading":"Old"},"order_key":"a1","is_visible":true,"is_locked":false},` +
	`{"kind":"footer","props":{},"order_key":"a2","is_visible":true,"is_locked":true}]`

func versionRow(id, pageID uint64, label string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "page_id", "label", "trigger", "saved_by", "saved_at", "content_snapshot",
	}).AddRow(id, pageID, label, "manual", "user:1", time.Now(), []byte(restoreDoc))
}

func currentBlockRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "page_id", "kind", "order_key", "props",
		"is_visible", "is_locked", "created_at", "updated_at",
	}).AddRow(3, 10, content.KindHero, "a1", []byte(`{"heading":"New"}`), true, false, now, now)
}

func TestRestoreReplacesBlocksInOneTx(t *testing.T) {
	m, mock := newMock(t)

	mock.ExpectQuery("SELECT .+ FROM page_version v").
		WillReturnRows(versionRow(40, 10, "Launch layout"))
	mock.ExpectQuery("SELECT .+ FROM block b").
		WillReturnRows(currentBlockRows())

	// Safety snapshot, wholesale delete, verbatim re-insert, commit.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO page_version").
		WithArgs(uint64(10), `Before restoring "Launch layout"`, TriggerPreRestore,
			"user:1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM block WHERE page_id = ?`)).
		WithArgs(uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO block").
		WithArgs(uint64(10), "hero", "a1", sqlmock.AnyArg(), true, false).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec("INSERT INTO block").
		WithArgs(uint64(10), "footer", "a2", sqlmock.AnyArg(), true, true).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	// retain 0 keeps the async prune away from the mock.
	if err := m.Restore(context.Background(), 1, 10, 40, "user:1", 0); err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestRestoreRollsBackOnFailure(t *testing.T) {
	m, mock := newMock(t)

	mock.ExpectQuery("SELECT .+ FROM page_version v").
		WillReturnRows(versionRow(40, 10, "Launch layout"))
	mock.ExpectQuery("SELECT .+ FROM block b").
		WillReturnRows(currentBlockRows())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO page_version").
		WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectExec("DELETE FROM block").
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	if err := m.Restore(context.Background(), 1, 10, 40, "user:1", 0); err == nil {
		t.Fatal("Restore should fail when the delete fails")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestRestoreWrongPage(t *testing.T) {
	m, mock := newMock(t)

	mock.ExpectQuery("SELECT .+ FROM page_version v").
		WillReturnRows(versionRow(40, 99, "Other page"))

	err := m.Restore(context.Background(), 1, 10, 40, "user:1", 0)
	if !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestKnownTrigger(t *testing.T) {
	for _, tr := range []Trigger{TriggerManual, TriggerAuto, TriggerPreAI, TriggerPreRestore, TriggerPrePublish} {
		if !KnownTrigger(tr) {
			t.Errorf("KnownTrigger(%q) = false, want true", tr)
		}
	}
	for _, tr := range []Trigger{"", "restore", "MANUAL", "pre-publish"} {
		if KnownTrigger(tr) {
			t.Errorf("KnownTrigger(%q) = true, want false", tr)
		}
	}
}

func TestPruneNonPositiveRetainIsNoop(t *testing.T) {
	m, mock := newMock(t)

	// No SQL expectations: a zero or negative retain must touch nothing.
	if err := m.Prune(context.Background(), 1, 10, 0); err != nil {
		t.Fatalf("Prune(0) error: %v", err)
	}
	if err := m.Prune(context.Background(), 1, 10, -3); err != nil {
		t.Fatalf("Prune(-3) error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected SQL: %v", err)
	}
}

func TestPruneDeletesOldest(t *testing.T) {
	m, mock := newMock(t)

	// Five versions newest-first; retain 3 → delete the two oldest.
	mock.ExpectQuery("SELECT v.id FROM page_version v").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(50).AddRow(40).AddRow(30).AddRow(20).AddRow(10))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM page_version WHERE id IN (?, ?)`)).
		WithArgs(uint64(20), uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := m.Prune(context.Background(), 1, 10, 3); err != nil {
		t.Fatalf("Prune error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestPruneUnderRetainTouchesNothing(t *testing.T) {
	m, mock := newMock(t)

	mock.ExpectQuery("SELECT v.id FROM page_version v").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(50).AddRow(40))

	if err := m.Prune(context.Background(), 1, 10, 5); err != nil {
		t.Fatalf("Prune error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
