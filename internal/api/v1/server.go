package apiv1

import "github.com/gofiber/fiber/v2"

// ServerInterface lists the operations of public/docs/v1/openapi.yml
type ServerInterface interface {
	// (GET /ping)
	GetPing(c *fiber.Ctx) error
	// (GET /accounts/{account_id})
	GetAccount(c *fiber.Ctx, accountID string) error
	// (GET /accounts/{account_id}/next_invoice_date)
	GetNextInvoiceDate(c *fiber.Ctx, accountID string) error
	// (GET /validate_external_key)
	GetValidateExternalKey(c *fiber.Ctx) error
}

// RegisterHandlers mounts si on router
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	router.Get("/ping", si.GetPing)
	router.Get("/validate_external_key", si.GetValidateExternalKey)
	router.Get("/accounts/:account_id", func(c *fiber.Ctx) error {
		return si.GetAccount(c, c.Params("account_id"))
	})
	router.Get("/accounts/:account_id/next_invoice_date", func(c *fiber.Ctx) error {
		return si.GetNextInvoiceDate(c, c.Params("account_id"))
	})
}

type Pong struct {
	Ping string `json:"ping"`
}

// Error is the body of every non 2xx answer
type Error struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
