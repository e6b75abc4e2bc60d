package user

import (
	"context"
	"errors"
	"time"

	"backend-gympass/internal/db"

	"github.com/jackc/pgx/v5"
)

// ArchivingStore wraps a base Directory and enforces soft-delete on top of
// it. Inactive users are invisible through every read, mutations against
// them are refused before the wrapped call is made, and Delete flips the
// lifecycle state instead of delegating to the wrapped delete. The wrapped
// implementation never learns any of this.
type ArchivingStore struct {
	next Directory
	db   db.Querier
}

func NewArchivingStore(next Directory, db db.Querier) *ArchivingStore {
	return &ArchivingStore{next: next, db: db}
}

func (a *ArchivingStore) Create(ctx context.Context, input User) (User, error) {
	return a.next.Create(ctx, input)
}

func (a *ArchivingStore) GetByID(ctx context.Context, id string) (User, error) {
	u, err := a.next.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if u.State == StateInactive {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (a *ArchivingStore) GetByEmail(ctx context.Context, email string) (User, error) {
	u, err := a.next.GetByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if u.State == StateInactive {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (a *ArchivingStore) GetAll(ctx context.Context) ([]User, error) {
	users, err := a.next.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	active := users[:0]
	for _, u := range users {
		if u.State != StateInactive {
			active = append(active, u)
		}
	}
	return active, nil
}

func (a *ArchivingStore) Update(ctx context.Context, id string, input User) (User, error) {
	if err := a.requireActive(ctx, id); err != nil {
		return User{}, err
	}
	return a.next.Update(ctx, id, input)
}

func (a *ArchivingStore) Patch(ctx context.Context, id string, patch User) (User, error) {
	if err := a.requireActive(ctx, id); err != nil {
		return User{}, err
	}
	return a.next.Patch(ctx, id, patch)
}

// Delete archives the user: the row survives with state flipped to
// inactive. The wrapped delete is deliberately never called.
func (a *ArchivingStore) Delete(ctx context.Context, id string) error {
	if err := a.requireActive(ctx, id); err != nil {
		return err
	}
	_, err := a.db.Exec(ctx, `
		UPDATE users SET state=$2, updated_at=$3 WHERE id=$1
	`, id, StateInactive, time.Now())
	return err
}

// requireActive re-resolves the target directly, bypassing the wrapped
// service, so the precondition holds whatever the base implementation does.
func (a *ArchivingStore) requireActive(ctx context.Context, id string) error {
	var state string
	err := a.db.QueryRow(ctx, `SELECT state FROM users WHERE id=$1`, id).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if state == StateInactive {
		return ErrNotFound
	}
	return nil
}
