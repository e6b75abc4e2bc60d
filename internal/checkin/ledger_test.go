package checkin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
)

func checkInRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "user_id", "gym_id", "created_at", "validated_at"})
}

func TestPGLedgerCreate(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	createdAt := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO check_ins`).
		WithArgs("ci-1", "u-1", "gym-1", createdAt).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	ledger := NewPGLedger(mock)
	ci, err := ledger.Create(context.Background(), CheckIn{ID: "ci-1", UserID: "u-1", GymID: "gym-1", CreatedAt: createdAt})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ci.ValidatedAt != nil {
		t.Fatalf("new check-in must be pending")
	}
}

func TestPGLedgerCreateUniqueViolation(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO check_ins`).
		WithArgs("ci-2", "u-1", "gym-1", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "check_ins_user_day_key"})

	ledger := NewPGLedger(mock)
	_, err = ledger.Create(context.Background(), CheckIn{ID: "ci-2", UserID: "u-1", GymID: "gym-1", CreatedAt: time.Now()})
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded from storage conflict, got %v", err)
	}
}

func TestPGLedgerFindByID(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	createdAt := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, user_id, gym_id, created_at, validated_at`).
		WithArgs("ci-1").
		WillReturnRows(checkInRows().AddRow("ci-1", "u-1", "gym-1", createdAt, nil))

	ledger := NewPGLedger(mock)
	ci, err := ledger.FindByID(context.Background(), "ci-1")
	if err != nil || ci.ID != "ci-1" {
		t.Fatalf("find by id: %v", err)
	}

	mock.ExpectQuery(`SELECT id, user_id, gym_id, created_at, validated_at`).
		WithArgs("missing").
		WillReturnRows(checkInRows())

	if _, err := ledger.FindByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGLedgerFindByUserOnDate(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	day := DayOf(time.Now())
	mock.ExpectQuery(`SELECT id, user_id, gym_id, created_at, validated_at`).
		WithArgs("u-1", day).
		WillReturnRows(checkInRows())

	ledger := NewPGLedger(mock)
	ci, err := ledger.FindByUserOnDate(context.Background(), "u-1", day)
	if err != nil || ci != nil {
		t.Fatalf("expected nil check-in for empty day, got %v %v", ci, err)
	}

	mock.ExpectQuery(`SELECT id, user_id, gym_id, created_at, validated_at`).
		WithArgs("u-1", day).
		WillReturnRows(checkInRows().AddRow("ci-1", "u-1", "gym-1", time.Now().UTC(), nil))

	ci, err = ledger.FindByUserOnDate(context.Background(), "u-1", day)
	if err != nil || ci == nil || ci.ID != "ci-1" {
		t.Fatalf("expected existing check-in, got %v %v", ci, err)
	}
}

func TestPGLedgerPageAndCount(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, user_id, gym_id, created_at, validated_at`).
		WithArgs("u-1", 20, 20).
		WillReturnRows(checkInRows().AddRow("ci-21", "u-1", "gym-1", time.Now().UTC(), nil))

	ledger := NewPGLedger(mock)
	page, err := ledger.PageByUser(context.Background(), "u-1", 2, 20)
	if err != nil || len(page) != 1 {
		t.Fatalf("page by user: %v (%d)", err, len(page))
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM check_ins`).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(21))

	count, err := ledger.CountByUser(context.Background(), "u-1")
	if err != nil || count != 21 {
		t.Fatalf("count by user: %v (%d)", err, count)
	}
}

func TestPGLedgerPageByUserRowError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	rows := checkInRows().
		AddRow("ci-1", "u-1", "gym-1", time.Now().UTC(), nil).
		AddRow("ci-2", "u-1", "gym-1", time.Now().UTC(), nil).
		RowError(1, errors.New("connection reset"))
	mock.ExpectQuery(`SELECT id, user_id, gym_id, created_at, validated_at`).
		WithArgs("u-1", 20, 0).
		WillReturnRows(rows)

	ledger := NewPGLedger(mock)
	if _, err := ledger.PageByUser(context.Background(), "u-1", 1, 20); err == nil {
		t.Fatalf("expected error from interrupted iteration, got short page")
	}
}

func TestPGLedgerSetValidated(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectExec(`UPDATE check_ins SET validated_at`).
		WithArgs("ci-1", now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ledger := NewPGLedger(mock)
	if err := ledger.SetValidated(context.Background(), "ci-1", now); err != nil {
		t.Fatalf("set validated: %v", err)
	}

	// Guarded update: zero rows means the one-way transition already fired.
	mock.ExpectExec(`UPDATE check_ins SET validated_at`).
		WithArgs("ci-1", now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := ledger.SetValidated(context.Background(), "ci-1", now); !errors.Is(err, ErrAlreadyValidated) {
		t.Fatalf("expected ErrAlreadyValidated, got %v", err)
	}
}
