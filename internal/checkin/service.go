package checkin

import (
	"context"
	"encoding/json"
	"time"

	"backend-gympass/internal/gym"
	"backend-gympass/internal/shared/geo"
	"backend-gympass/internal/stream"
	"backend-gympass/internal/user"

	"github.com/google/uuid"
)

// GymDirectory resolves the target gym. Satisfied by *gym.Service.
type GymDirectory interface {
	GetGym(ctx context.Context, id string) (gym.Gym, error)
}

// UserDirectory resolves the member. In production this is the archiving
// decorator, so archived users fail resolution here.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type Service struct {
	ledger Ledger
	gyms   GymDirectory
	users  UserDirectory
	hub    *stream.Hub
}

func NewService(ledger Ledger, gyms GymDirectory, users UserDirectory, hub *stream.Hub) *Service {
	return &Service{ledger: ledger, gyms: gyms, users: users, hub: hub}
}

// Create runs the acceptance rules in order: gym exists, user resolves,
// user is near the gym, no prior check-in on the same UTC day. Exactly one
// ledger write on success, none on any rejection.
func (s *Service) Create(ctx context.Context, userID, gymID string, lat, lng float64, requestedAt time.Time) (CheckIn, error) {
	g, err := s.gyms.GetGym(ctx, gymID)
	if err != nil {
		return CheckIn{}, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return CheckIn{}, err
	}

	distance := geo.DistanceKm(lat, lng, g.Latitude, g.Longitude)
	if !WithinProximity(distance) {
		return CheckIn{}, ErrDistanceViolation
	}

	if requestedAt.IsZero() {
		requestedAt = time.Now().UTC()
	}

	// Fast path for a friendly rejection; the unique index is the real
	// guard when two same-day requests race past this probe.
	existing, err := s.ledger.FindByUserOnDate(ctx, userID, DayOf(requestedAt))
	if err != nil {
		return CheckIn{}, err
	}
	if existing != nil {
		return CheckIn{}, ErrLimitExceeded
	}

	created, err := s.ledger.Create(ctx, CheckIn{
		ID:        uuid.NewString(),
		UserID:    userID,
		GymID:     gymID,
		CreatedAt: requestedAt,
	})
	if err != nil {
		return CheckIn{}, err
	}

	s.publish("created", created)
	return created, nil
}

// Validate confirms a pending check-in. The transition is one-way: a second
// validation attempt fails with ErrAlreadyValidated, and once the window
// has elapsed the check-in can never be validated.
func (s *Service) Validate(ctx context.Context, id string, now time.Time) (CheckIn, error) {
	ci, err := s.ledger.FindByID(ctx, id)
	if err != nil {
		return CheckIn{}, err
	}
	if ci.ValidatedAt != nil {
		return CheckIn{}, ErrAlreadyValidated
	}
	if !WithinValidationWindow(ci.CreatedAt, now) {
		return CheckIn{}, ErrLateValidation
	}

	if err := s.ledger.SetValidated(ctx, id, now); err != nil {
		return CheckIn{}, err
	}
	ci.ValidatedAt = &now

	s.publish("validated", ci)
	return ci, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (CheckIn, error) {
	return s.ledger.FindByID(ctx, id)
}

// ListByUser returns one page of the user's check-ins in creation order and
// whether a further page exists.
func (s *Service) ListByUser(ctx context.Context, userID string, page int) ([]CheckIn, bool, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, false, err
	}
	if page < 1 {
		page = 1
	}

	checkIns, err := s.ledger.PageByUser(ctx, userID, page, PageSize)
	if err != nil {
		return nil, false, err
	}
	total, err := s.ledger.CountByUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return checkIns, page*PageSize < total, nil
}

// CountForUser is the member's lifetime check-in metric.
func (s *Service) CountForUser(ctx context.Context, userID string) (int, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return 0, err
	}
	return s.ledger.CountByUser(ctx, userID)
}

type feedEvent struct {
	Type    string  `json:"type"`
	CheckIn CheckIn `json:"check_in"`
}

func (s *Service) publish(event string, ci CheckIn) {
	if s.hub == nil {
		return
	}
	payload, _ := json.Marshal(feedEvent{Type: event, CheckIn: ci})
	s.hub.Broadcast(ci.GymID, payload)
}
