package user

import (
	"context"
	"errors"
	"time"

	"backend-gympass/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Store is the base user service. It knows nothing about archiving:
// Delete removes the row, and reads return inactive users as-is.
type Store struct {
	db db.Querier
}

func NewStore(db db.Querier) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, input User) (User, error) {
	input.ID = uuid.NewString()
	if input.Role == "" {
		input.Role = RoleMember
	}
	if input.State == "" {
		input.State = StateActive
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, state)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at
	`, input.ID, input.Email, input.Name, input.PasswordHash, input.Role, input.State)
	if err := row.Scan(&input.CreatedAt, &input.UpdatedAt); err != nil {
		return User{}, err
	}
	return input, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (User, error) {
	return s.getBy(ctx, `WHERE id = $1`, id)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.getBy(ctx, `WHERE email = $1`, email)
}

func (s *Store) getBy(ctx context.Context, where, arg string) (User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, name, password_hash, role, state, created_at, updated_at
		FROM users `+where, arg)

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.State, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *Store) GetAll(ctx context.Context) ([]User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, email, name, password_hash, role, state, created_at, updated_at
		FROM users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.State, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) Update(ctx context.Context, id string, input User) (User, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	current.Email = input.Email
	current.Name = input.Name
	if input.PasswordHash != "" {
		current.PasswordHash = input.PasswordHash
	}
	return s.persist(ctx, current)
}

func (s *Store) Patch(ctx context.Context, id string, patch User) (User, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if patch.Email != "" {
		current.Email = patch.Email
	}
	if patch.Name != "" {
		current.Name = patch.Name
	}
	if patch.PasswordHash != "" {
		current.PasswordHash = patch.PasswordHash
	}
	return s.persist(ctx, current)
}

func (s *Store) persist(ctx context.Context, u User) (User, error) {
	u.UpdatedAt = time.Now()
	_, err := s.db.Exec(ctx, `
		UPDATE users SET email=$2, name=$3, password_hash=$4, updated_at=$5
		WHERE id=$1
	`, u.ID, u.Email, u.Name, u.PasswordHash, u.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	return err
}
