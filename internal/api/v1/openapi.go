package apiv1

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	legacyrouter "github.com/getkin/kin-openapi/routers/legacy"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// LoadDocument reads the OpenAPI document at path and validates it
func LoadDocument(ctx context.Context, path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return doc, nil
}

// RequestValidator rejects requests that do not match an operation of doc.
// Authentication is left to the router middleware.
func RequestValidator(doc *openapi3.T) (fiber.Handler, error) {
	router, err := legacyrouter.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("openapi router: %w", err)
	}

	return func(c *fiber.Ctx) error {
		req, err := adaptor.ConvertRequest(c, false)
		if err != nil {
			return err
		}

		route, pathParams, err := router.FindRoute(req)
		if err != nil {
			status := fiber.StatusNotFound
			var routeErr *routers.RouteError
			if errors.As(err, &routeErr) && routeErr.Reason == routers.ErrMethodNotAllowed.Error() {
				status = fiber.StatusMethodNotAllowed
			}
			return c.Status(status).JSON(Error{Error: errorCode(status), Message: err.Error()})
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err := openapi3filter.ValidateRequest(c.UserContext(), input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(Error{Error: "bad_request", Message: err.Error()})
		}
		return c.Next()
	}, nil
}
