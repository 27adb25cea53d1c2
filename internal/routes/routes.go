package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/authz"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/config"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	enf *authz.Enforcer,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	reportHandler *handlers.ReportHandler,
	registrarHandler *handlers.RegistrarHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth: stricter 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Pilot endpoints
	jwt := middleware.JWTProtected(cfg)
	reports := api.Group("/reports", jwt)
	reports.Get("/mine", middleware.Authorize(enf, authz.ObjReport, authz.ActReadOwn), reportHandler.Mine)
	reports.Get("/position", middleware.Authorize(enf, authz.ObjReport, authz.ActReadOwn), reportHandler.Position)
	reports.Post("/", middleware.Authorize(enf, authz.ObjReport, authz.ActSave), reportHandler.Create)
	reports.Put("/:id", middleware.Authorize(enf, authz.ObjReport, authz.ActSave), reportHandler.Update)
	reports.Delete("/:id", middleware.Authorize(enf, authz.ObjReport, authz.ActDelete), reportHandler.Delete)

	// Registrar endpoints; static paths go before /:id
	registrar := api.Group("/registrar/reports", jwt)
	read := middleware.Authorize(enf, authz.ObjQueue, authz.ActRead)
	decide := middleware.Authorize(enf, authz.ObjQueue, authz.ActDecide)
	registrar.Get("/active", read, registrarHandler.Active)
	registrar.Get("/archive", read, registrarHandler.Archive)
	registrar.Get("/:id", read, registrarHandler.Details)
	registrar.Post("/:id/approve", decide, registrarHandler.Approve)
	registrar.Post("/:id/reject", decide, registrarHandler.Reject)
	registrar.Post("/:id/assign", middleware.Authorize(enf, authz.ObjQueue, authz.ActAssign), registrarHandler.Assign)
}
