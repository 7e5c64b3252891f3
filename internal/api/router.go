// Package api exposes the device's local diagnostics and dashboard
// endpoints. The verification pipeline itself never depends on this
// package; the router only observes it.
package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/insighted-labs/presence/internal/api/handler"
	"github.com/insighted-labs/presence/internal/api/middleware"
	"github.com/insighted-labs/presence/internal/database"
	"github.com/insighted-labs/presence/internal/repository"
)

type Dependencies struct {
	Gate           handler.GateStatusSource
	Frames         handler.FramePublisher
	StudentRepo    repository.StudentRepositoryInterface
	AttendanceRepo repository.AttendanceRepositoryInterface
	DB             *pgxpool.Pool
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Presence",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check endpoints
	var check handler.ReadinessChecker
	if r.deps != nil && r.deps.DB != nil {
		pool := r.deps.DB
		check = func(ctx context.Context) error {
			return database.HealthCheck(ctx, pool)
		}
	}
	healthHandler := handler.NewHealthHandler(check)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	v1 := r.app.Group("/v1")

	// Only configure data routes if dependencies were provided
	if r.deps != nil {
		if r.deps.Gate != nil {
			statusHandler := handler.NewStatusHandler(r.deps.Gate, r.logger)
			v1.Get("/status", statusHandler.Status)
			v1.Get("/schedule", statusHandler.Schedule)
		}

		if r.deps.Frames != nil {
			frameHandler := handler.NewFrameHandler(r.deps.Frames, r.logger)
			v1.Post("/frames", frameHandler.Ingest)
		}

		if r.deps.AttendanceRepo != nil && r.deps.StudentRepo != nil {
			attendanceHandler := handler.NewAttendanceHandler(r.deps.AttendanceRepo, r.deps.StudentRepo, r.logger)
			v1.Get("/attendance/:user_id/summary", attendanceHandler.GetSummary)
			v1.Get("/attendance/:user_id/:day", attendanceHandler.GetDay)
			v1.Get("/students/:id", attendanceHandler.GetStudent)
		}
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
