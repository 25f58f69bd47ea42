package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/kitty-tang-hs/killbill-admin-ui/app/repository"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/env"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/middleware"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/session"
)

type HttpRouter struct {
	tenants  repository.TenantRepository
	operator fiber.Handler
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Every page is behind the operator login
	app.Use(h.operator)

	// Apply the tenant context after the operator is known
	app.Use(middleware.TenantContext(h.tenants))

	h.registerPublicRoutes(app)
	h.registerMonitoringRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	// init session
	session.NewSessionStore()

	operator := middleware.RequireOperator(
		env.GetEnv("KAUI_ADMIN_USER", "admin"),
		env.GetEnv("KAUI_ADMIN_PASSWORD_HASH", ""),
		env.IsDev(),
	)

	return &HttpRouter{
		tenants:  repository.GetGlobalFactory().GetTenantRepository(),
		operator: operator,
	}
}

// jsonLimiter throttles the XHR endpoints. DataTables fires one request per
// keystroke so the fiber default of 5 per minute is far too low.
func jsonLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
	})
}
