package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

func TestStoreCreateAndGet(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "ana@example.com", "Ana", "hash", RoleMember, StateActive).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	store := NewStore(mock)
	u, err := store.Create(context.Background(), User{Email: "ana@example.com", Name: "Ana", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Role != RoleMember || u.State != StateActive {
		t.Fatalf("expected member/active defaults, got %s/%s", u.Role, u.State)
	}

	mock.ExpectQuery(`SELECT id, email, name, password_hash, role, state`).
		WithArgs(u.ID).
		WillReturnRows(userRows().AddRow(u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.State, now, now))

	loaded, err := store.GetByID(context.Background(), u.ID)
	if err != nil || loaded.Email != "ana@example.com" {
		t.Fatalf("get user: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, email, name, password_hash, role, state`).
		WithArgs("missing").
		WillReturnRows(userRows())

	store := NewStore(mock)
	if _, err := store.GetByID(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreUpdateAndPatch(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	store := NewStore(mock)

	mock.ExpectQuery(`SELECT id, email, name, password_hash, role, state`).
		WithArgs("u-1").
		WillReturnRows(userRows().AddRow("u-1", "old@example.com", "Old", "hash", RoleMember, StateActive, now, now))
	mock.ExpectExec(`UPDATE users SET email`).
		WithArgs("u-1", "new@example.com", "New", "hash", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	updated, err := store.Update(context.Background(), "u-1", User{Email: "new@example.com", Name: "New"})
	if err != nil || updated.Name != "New" {
		t.Fatalf("update: %v", err)
	}

	mock.ExpectQuery(`SELECT id, email, name, password_hash, role, state`).
		WithArgs("u-1").
		WillReturnRows(userRows().AddRow("u-1", "new@example.com", "New", "hash", RoleMember, StateActive, now, now))
	mock.ExpectExec(`UPDATE users SET email`).
		WithArgs("u-1", "new@example.com", "Renamed", "hash", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	patched, err := store.Patch(context.Background(), "u-1", User{Name: "Renamed"})
	if err != nil || patched.Name != "Renamed" || patched.Email != "new@example.com" {
		t.Fatalf("patch: %v (%+v)", err, patched)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreGetAllAndDelete(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, email, name, password_hash, role, state`).
		WillReturnRows(userRows().
			AddRow("u-1", "a@example.com", "A", "h", RoleMember, StateActive, now, now).
			AddRow("u-2", "b@example.com", "B", "h", RoleAdmin, StateInactive, now, now))

	store := NewStore(mock)
	users, err := store.GetAll(context.Background())
	if err != nil || len(users) != 2 {
		t.Fatalf("get all: %v (%d)", err, len(users))
	}

	mock.ExpectExec(`DELETE FROM users`).WithArgs("u-1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	if err := store.Delete(context.Background(), "u-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestStoreGetAllRowError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	rows := userRows().
		AddRow("u-1", "a@example.com", "A", "h", RoleMember, StateActive, now, now).
		AddRow("u-2", "b@example.com", "B", "h", RoleMember, StateActive, now, now).
		RowError(1, errors.New("connection reset"))
	mock.ExpectQuery(`SELECT id, email, name, password_hash, role, state`).
		WillReturnRows(rows)

	store := NewStore(mock)
	if _, err := store.GetAll(context.Background()); err == nil {
		t.Fatalf("expected error from interrupted iteration, got short list")
	}
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "email", "name", "password_hash", "role", "state", "created_at", "updated_at"})
}
