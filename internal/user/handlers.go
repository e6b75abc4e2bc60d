package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type createRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type updateRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// RegisterRoutes exposes the user CRUD surface. All operations go through
// the given Directory, which in production is the archiving decorator.
func RegisterRoutes(r fiber.Router, dir Directory, authMiddleware fiber.Handler) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req createRequest
		if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Name == "" || req.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "email, name, password required")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		u, err := dir.Create(c.Context(), User{Email: req.Email, Name: req.Name, PasswordHash: string(hash)})
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		users, err := dir.GetAll(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(users)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		u, err := dir.GetByID(c.Context(), c.Params("id"))
		if err != nil {
			return mapErr(err)
		}
		return c.JSON(u)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req updateRequest
		if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "email and name required")
		}
		input := User{Email: req.Email, Name: req.Name}
		if req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			input.PasswordHash = string(hash)
		}
		u, err := dir.Update(c.Context(), c.Params("id"), input)
		if err != nil {
			return mapErr(err)
		}
		return c.JSON(u)
	})

	r.Patch("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req updateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		patch := User{Email: req.Email, Name: req.Name}
		if req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			patch.PasswordHash = string(hash)
		}
		u, err := dir.Patch(c.Context(), c.Params("id"), patch)
		if err != nil {
			return mapErr(err)
		}
		return c.JSON(u)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := dir.Delete(c.Context(), c.Params("id")); err != nil {
			return mapErr(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func mapErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
