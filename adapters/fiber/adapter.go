// Package fiber serves the admin portal over HTTP: it bridges browser
// cookies into per-request portal calls so every gateway replica stays
// stateless.
package fiber

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sensesdx/portalkit"
)

type Adapter struct {
	app    *fiber.App
	portal *portalkit.Portal
	log    *zap.Logger

	loginLimiter *rate.Limiter
}

type Config struct {
	App    *fiber.App
	Portal *portalkit.Portal

	// Optional config
	Logger          *zap.Logger
	LoginRatePerMin int
}

func New(cfg Config) *Adapter {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	perMin := cfg.LoginRatePerMin
	if perMin == 0 {
		perMin = 10
	}

	return &Adapter{
		app:          cfg.App,
		portal:       cfg.Portal,
		log:          log,
		loginLimiter: rate.NewLimiter(rate.Limit(float64(perMin)/60.0), perMin),
	}
}

func (a *Adapter) RegisterRoutes() {
	a.app.Use(a.requestLogger)

	// Public routes
	a.app.Post("/auth/login", a.login, a.limitLogin)
	a.app.Post("/auth/forgot-password", a.forgotPassword, a.limitLogin)

	// Protected routes
	auth := a.app.Group("", a.requireSession)
	auth.Post("/auth/logout", a.logout)

	views := auth.Group("/views")
	views.Get("/navigation", a.navigation)
	views.Get("/dashboard", a.dashboard)
	views.Get("/orders", a.orders)
	views.Get("/users", a.users)
	views.Get("/executives", a.executives)
	views.Get("/reports", a.reports, a.guardView(portalkit.ViewReports))
	views.Get("/reports/export", a.exportReports, a.guardView(portalkit.ViewReports))

	auth.Patch("/orders/:id/assign", a.assignOrder)
	auth.Post("/users", a.createUser)
	auth.Patch("/users/:id/status", a.updateStatus)
	auth.Patch("/users/:id", a.updateUser)
}
