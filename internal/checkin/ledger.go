package checkin

import (
	"context"
	"errors"
	"time"

	"backend-gympass/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ledger is the persistence boundary for check-ins. The service owns the
// invariants; the ledger owns the rows and the daily-uniqueness index.
type Ledger interface {
	Create(ctx context.Context, input CheckIn) (CheckIn, error)
	FindByID(ctx context.Context, id string) (CheckIn, error)
	FindByUserOnDate(ctx context.Context, userID string, day time.Time) (*CheckIn, error)
	PageByUser(ctx context.Context, userID string, page, pageSize int) ([]CheckIn, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	SetValidated(ctx context.Context, id string, at time.Time) error
}

const uniqueViolation = "23505"

type PGLedger struct {
	db db.Querier
}

func NewPGLedger(db db.Querier) *PGLedger {
	return &PGLedger{db: db}
}

// Create inserts the check-in. A same-user same-day race loses against the
// check_ins_user_day_key index and surfaces as ErrLimitExceeded, the same
// rejection the application-level probe produces.
func (l *PGLedger) Create(ctx context.Context, input CheckIn) (CheckIn, error) {
	row := l.db.QueryRow(ctx, `
		INSERT INTO check_ins (id, user_id, gym_id, created_at)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, input.ID, input.UserID, input.GymID, input.CreatedAt)
	if err := row.Scan(&input.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return CheckIn{}, ErrLimitExceeded
		}
		return CheckIn{}, err
	}
	return input, nil
}

func (l *PGLedger) FindByID(ctx context.Context, id string) (CheckIn, error) {
	row := l.db.QueryRow(ctx, `
		SELECT id, user_id, gym_id, created_at, validated_at
		FROM check_ins WHERE id=$1
	`, id)
	var ci CheckIn
	if err := row.Scan(&ci.ID, &ci.UserID, &ci.GymID, &ci.CreatedAt, &ci.ValidatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CheckIn{}, ErrNotFound
		}
		return CheckIn{}, err
	}
	return ci, nil
}

// FindByUserOnDate returns the user's check-in for the given UTC calendar
// date, or nil when none exists.
func (l *PGLedger) FindByUserOnDate(ctx context.Context, userID string, day time.Time) (*CheckIn, error) {
	row := l.db.QueryRow(ctx, `
		SELECT id, user_id, gym_id, created_at, validated_at
		FROM check_ins
		WHERE user_id=$1 AND (created_at AT TIME ZONE 'UTC')::date = $2::date
	`, userID, day)
	var ci CheckIn
	if err := row.Scan(&ci.ID, &ci.UserID, &ci.GymID, &ci.CreatedAt, &ci.ValidatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ci, nil
}

func (l *PGLedger) PageByUser(ctx context.Context, userID string, page, pageSize int) ([]CheckIn, error) {
	rows, err := l.db.Query(ctx, `
		SELECT id, user_id, gym_id, created_at, validated_at
		FROM check_ins
		WHERE user_id=$1
		ORDER BY created_at
		LIMIT $2 OFFSET $3
	`, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checkIns []CheckIn
	for rows.Next() {
		var ci CheckIn
		if err := rows.Scan(&ci.ID, &ci.UserID, &ci.GymID, &ci.CreatedAt, &ci.ValidatedAt); err != nil {
			return nil, err
		}
		checkIns = append(checkIns, ci)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return checkIns, nil
}

func (l *PGLedger) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := l.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM check_ins WHERE user_id=$1
	`, userID).Scan(&count)
	return count, err
}

func (l *PGLedger) SetValidated(ctx context.Context, id string, at time.Time) error {
	tag, err := l.db.Exec(ctx, `
		UPDATE check_ins SET validated_at=$2
		WHERE id=$1 AND validated_at IS NULL
	`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyValidated
	}
	return nil
}
