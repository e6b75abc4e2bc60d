package checkin

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("check-in not found")
	ErrDistanceViolation = errors.New("too far from gym to check in")
	ErrLimitExceeded     = errors.New("check-in already exists for this day")
	ErrLateValidation    = errors.New("check-in validation window elapsed")
	ErrAlreadyValidated  = errors.New("check-in already validated")
)

// CheckIn states: a row with a nil ValidatedAt is pending; setting it is a
// one-way transition performed only by Service.Validate.
type CheckIn struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	GymID       string     `json:"gym_id"`
	CreatedAt   time.Time  `json:"created_at"`
	ValidatedAt *time.Time `json:"validated_at,omitempty"`
}
