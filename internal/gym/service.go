package gym

import (
	"context"
	"errors"

	"backend-gympass/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const pageSize = 20

const nearbyRadiusKm = 10.0

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) CreateGym(ctx context.Context, input Gym) (Gym, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO gyms (id, name, description, phone, latitude, longitude)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, input.ID, input.Name, input.Description, input.Phone, input.Latitude, input.Longitude)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Gym{}, err
	}
	return input, nil
}

func (s *Service) GetGym(ctx context.Context, id string) (Gym, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, description, phone, latitude::float8, longitude::float8, created_at
		FROM gyms WHERE id=$1
	`, id)
	var g Gym
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Phone, &g.Latitude, &g.Longitude, &g.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Gym{}, ErrNotFound
		}
		return Gym{}, err
	}
	return g, nil
}

// ListGyms returns one page of the directory ordered by name, plus whether
// a further page exists.
func (s *Service) ListGyms(ctx context.Context, page int) ([]Gym, bool, error) {
	if page < 1 {
		page = 1
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, phone, latitude::float8, longitude::float8, created_at
		FROM gyms
		ORDER BY name
		LIMIT $1 OFFSET $2
	`, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, false, err
	}
	gyms, err := collect(rows)
	if err != nil {
		return nil, false, err
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM gyms`).Scan(&total); err != nil {
		return nil, false, err
	}
	return gyms, page*pageSize < total, nil
}

// SearchByName returns a page of gyms whose name matches the query,
// plus whether a further page exists.
func (s *Service) SearchByName(ctx context.Context, query string, page int) ([]Gym, bool, error) {
	if page < 1 {
		page = 1
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, phone, latitude::float8, longitude::float8, created_at
		FROM gyms
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2 OFFSET $3
	`, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, false, err
	}
	gyms, err := collect(rows)
	if err != nil {
		return nil, false, err
	}

	var total int
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM gyms WHERE name ILIKE '%' || $1 || '%'
	`, query).Scan(&total)
	if err != nil {
		return nil, false, err
	}
	return gyms, page*pageSize < total, nil
}

// Nearby returns gyms within the fixed nearby radius of the given point.
func (s *Service) Nearby(ctx context.Context, lat, lng float64) ([]Gym, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, phone, latitude::float8, longitude::float8, created_at
		FROM gyms
		WHERE ST_DWithin(
			ST_SetSRID(ST_MakePoint(longitude::float8, latitude::float8), 4326)::geography,
			ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography,
			$3)
		ORDER BY name
	`, lng, lat, nearbyRadiusKm*1000)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]Gym, error) {
	defer rows.Close()

	var gyms []Gym
	for rows.Next() {
		var g Gym
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.Phone, &g.Latitude, &g.Longitude, &g.CreatedAt); err != nil {
			return nil, err
		}
		gyms = append(gyms, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return gyms, nil
}
