package router

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/kitty-tang-hs/killbill-admin-ui/app/controllers"
	apiv1 "github.com/kitty-tang-hs/killbill-admin-ui/internal/api/v1"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/constants"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/env"
)

type ApiRouter struct {
	docPath string
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, jsonLimiter())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1")
	doc, err := apiv1.LoadDocument(context.Background(), h.docPath)
	if err != nil {
		log.Fatalf("Failed to load OpenAPI document: %v", err)
	}
	validator, err := apiv1.RequestValidator(doc)
	if err != nil {
		log.Fatalf("Failed to build OpenAPI request validator: %v", err)
	}
	v1.Use(validator)

	apiServer := apiv1.NewAPIServer(controllers.GetKillBillClient())
	apiv1.RegisterHandlers(v1, apiServer)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{docPath: env.GetEnv("OPENAPI_DOC_PATH", "public/docs/v1/openapi.yml")}
}
