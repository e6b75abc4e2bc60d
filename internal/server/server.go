package server

import (
	"backend-gympass/internal/auth"
	"backend-gympass/internal/checkin"
	"backend-gympass/internal/config"
	"backend-gympass/internal/gym"
	"backend-gympass/internal/stream"
	"backend-gympass/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	adminOnly := auth.RequireAdmin()

	users := user.NewArchivingStore(user.NewStore(s.DB), s.DB)
	gyms := gym.NewService(s.DB)
	checkins := checkin.NewService(checkin.NewPGLedger(s.DB), gyms, users, s.Stream)

	usersGroup := s.App.Group("/users")

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, users, s.DB))
	user.RegisterRoutes(usersGroup, users, jwtMiddleware)
	gym.RegisterRoutes(s.App.Group("/gyms"), gyms, jwtMiddleware, adminOnly)
	checkin.RegisterRoutes(s.App.Group("/checkins"), usersGroup, checkins, jwtMiddleware, adminOnly)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
