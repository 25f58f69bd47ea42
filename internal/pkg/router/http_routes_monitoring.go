package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h HttpRouter) registerMonitoringRoutes(app *fiber.App) {
	app.Get("/monitor", monitor.New(monitor.Config{Title: "Kaui Monitor"}))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
