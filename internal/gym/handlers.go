package gym

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware, adminOnly fiber.Handler) {
	r.Post("/", authMiddleware, adminOnly, func(c *fiber.Ctx) error {
		var req Gym
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if req.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name required")
		}
		g, err := svc.CreateGym(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(g)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		gyms, hasNext, err := svc.ListGyms(c.Context(), page)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"gyms": gyms, "has_next_page": hasNext})
	})

	r.Get("/search", func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q required")
		}
		page, _ := strconv.Atoi(c.Query("page", "1"))
		gyms, hasNext, err := svc.SearchByName(c.Context(), query, page)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"gyms": gyms, "has_next_page": hasNext})
	})

	r.Get("/nearby", func(c *fiber.Ctx) error {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		if errLat != nil || errLng != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lng required")
		}
		gyms, err := svc.Nearby(c.Context(), lat, lng)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(gyms)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		g, err := svc.GetGym(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "gym not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(g)
	})
}
