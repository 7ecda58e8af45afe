package server

import (
	"fmt"
	"log"

	"staysure-portal-be/internal/bootstrap"
	"staysure-portal-be/internal/config"
	"staysure-portal-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		AppName:   "StaySure Portal API",
		BodyLimit: 10 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	app.Use(otelfiber.Middleware())
	app.Use(serverutils.ErrorHandlerMiddleware())

	app.Static("/uploads", "./uploads")

	s := &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	s.container.AuthController.RegisterRoutes(api)
	s.container.UserController.RegisterRoutes(api)
	s.container.ApplicationController.RegisterRoutes(api)
	s.container.AdminController.RegisterRoutes(api)
	s.container.PaymentController.RegisterRoutes(api)
	s.container.FeedHandler.RegisterRoutes(api)

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.cfg.App.Port)
	log.Printf("Server listening on %s", addr)
	return s.app.Listen(addr)
}
