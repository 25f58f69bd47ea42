package router

import (
	"github.com/gofiber/fiber/v2"
)

// Router registers a set of routes on the app
type Router interface {
	InstallRouter(app *fiber.App)
}

func InstallRouter(app *fiber.App) {
	// Install HttpRouter first, the API routes rely on its global operator
	// and tenant middleware.
	setup(app, NewHttpRouter(), NewApiRouter())
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
