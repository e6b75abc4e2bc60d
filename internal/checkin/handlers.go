package checkin

import (
	"errors"
	"strconv"
	"time"

	"backend-gympass/internal/gym"
	"backend-gympass/internal/user"

	"github.com/gofiber/fiber/v2"
)

type createRequest struct {
	UserID    string  `json:"user_id"`
	GymID     string  `json:"gym_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func RegisterRoutes(r fiber.Router, users fiber.Router, svc *Service, authMiddleware, adminOnly fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req createRequest
		if err := c.BodyParser(&req); err != nil || req.UserID == "" || req.GymID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "user_id and gym_id required")
		}
		ci, err := svc.Create(c.Context(), req.UserID, req.GymID, req.Latitude, req.Longitude, time.Now().UTC())
		if err != nil {
			return mapErr(err)
		}
		return c.Status(fiber.StatusCreated).JSON(ci)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		ci, err := svc.GetByID(c.Context(), c.Params("id"))
		if err != nil {
			return mapErr(err)
		}
		return c.JSON(ci)
	})

	r.Patch("/:id/validate", authMiddleware, adminOnly, func(c *fiber.Ctx) error {
		ci, err := svc.Validate(c.Context(), c.Params("id"), time.Now().UTC())
		if err != nil {
			return mapErr(err)
		}
		return c.JSON(ci)
	})

	users.Get("/:id/checkins", authMiddleware, func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		checkIns, hasNext, err := svc.ListByUser(c.Context(), c.Params("id"), page)
		if err != nil {
			return mapErr(err)
		}
		return c.JSON(fiber.Map{"check_ins": checkIns, "has_next_page": hasNext})
	})

	users.Get("/:id/checkins/count", authMiddleware, func(c *fiber.Ctx) error {
		count, err := svc.CountForUser(c.Context(), c.Params("id"))
		if err != nil {
			return mapErr(err)
		}
		return c.JSON(fiber.Map{"count": count})
	})
}

// Not-found conditions map to 404, rule rejections to 403; anything else
// is an opaque 500.
func mapErr(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, gym.ErrNotFound), errors.Is(err, user.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrDistanceViolation),
		errors.Is(err, ErrLimitExceeded),
		errors.Is(err, ErrLateValidation),
		errors.Is(err, ErrAlreadyValidated):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
