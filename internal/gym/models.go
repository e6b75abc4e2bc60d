package gym

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("gym not found")

// Gym coordinates are stored as NUMERIC(9,6) so values never drift at rest;
// they are cast to float8 only when read for distance math or the API.
type Gym struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	CreatedAt   time.Time `json:"created_at"`
}
