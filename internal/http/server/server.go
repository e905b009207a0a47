package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"loadplan/internal/access"
	"loadplan/internal/config"
	"loadplan/internal/http/handlers"
	"loadplan/internal/http/middleware"
	log "loadplan/internal/infra/logging"
	"loadplan/internal/infra/stats"
)

// Deps are the collaborators wired into the HTTP app. Tokens, Stats and
// LimiterStorage may be nil.
type Deps struct {
	Config         config.Config
	Renderer       handlers.Renderer
	Tokens         *access.TokenStore
	Stats          *stats.Counter
	LimiterStorage fiber.Storage
}

// New creates the Fiber app with middleware and routes.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork:               d.Config.Server.Prefork,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	middleware.Register(app, d.Tokens)
	registerRoutes(app, d)

	// Ensure all responses, including 404s, return JSON.
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})

	return app
}

func registerRoutes(app *fiber.App, d Deps) {
	store := d.LimiterStorage
	if store == nil {
		store = middleware.NewLimiterStorage(d.Config)
	}
	limiter := middleware.NewRateLimiter(d.Config, store, d.Tokens)

	svc := handlers.NewLoadPlanService(d.Renderer, access.NewGate(d.Config.Access.Password), d.Stats)

	app.Get("/", svc.HandleForm)
	app.Post("/generate", limiter.Handler(), svc.HandleGenerate)

	v1 := app.Group("/v1")
	v1.Post("/loadplan", limiter.Handler(), svc.HandleGenerate)
	v1.Get("/stats", svc.HandleStats)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		msg = e.Message
	}

	log.Warn("Request failed", "path", c.Path(), "status", code, "message", msg)

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": msg,
		},
	})
}
