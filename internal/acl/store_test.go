// internal/acl/store_test.go
//
// Unit-tests for acl helpers using sqlmock.
//
// Run: go test ./internal/acl -v

package acl

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

const rolesQuery = `SELECT r.name FROM user_role ur JOIN role r ON r.id = ur.role_id WHERE ur.user_id = ? AND r.tenant_id = ? AND r.enabled = TRUE`

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func TestUserRoles(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(rolesQuery)).
		WithArgs(uint64(42), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("editor").AddRow("admin"))

	got, err := UserRoles(context.Background(), db, 7, 42)
	if err != nil {
		t.Fatalf("UserRoles error: %v", err)
	}
	if len(got) != 2 || got[0] != "editor" || got[1] != "admin" {
		t.Fatalf("unexpected result: %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestIsPrivileged(t *testing.T) {
	cases := []struct {
		name  string
		roles []string
		want  bool
	}{
		{"admin", []string{"editor", "admin"}, true},
		{"agency", []string{"agency"}, true},
		{"editor only", []string{"editor"}, false},
		{"no roles", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMock(t)

			rows := sqlmock.NewRows([]string{"name"})
			for _, r := range tc.roles {
				rows.AddRow(r)
			}
			mock.ExpectQuery(regexp.QuoteMeta(rolesQuery)).
				WithArgs(uint64(42), uint64(7)).
				WillReturnRows(rows)

			got, err := IsPrivileged(context.Background(), db, 7, 42)
			if err != nil {
				t.Fatalf("IsPrivileged error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("IsPrivileged = %v, want %v", got, tc.want)
			}
		})
	}
}
