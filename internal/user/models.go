package user

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

const (
	StateActive   = "active"
	StateInactive = "inactive"

	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	State        string    `json:"state"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Directory is the capability set shared by the base store and the
// archiving decorator, so callers compose either at wiring time.
type Directory interface {
	Create(ctx context.Context, input User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id string, input User) (User, error)
	Patch(ctx context.Context, id string, patch User) (User, error)
	Delete(ctx context.Context, id string) error
}
