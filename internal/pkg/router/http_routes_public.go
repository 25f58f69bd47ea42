package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kitty-tang-hs/killbill-admin-ui/app/controllers"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/constants"
)

// registerPublicRoutes mounts the JSON endpoints used by the account pages.
// They are registered before /accounts/:account_id so the static segments win.
func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	limit := jsonLimiter()
	app.Get(constants.AccountsRoute+"/pagination", limit, controllers.HandleAccountsPagination)
	app.Get(constants.AccountsRoute+"/validate_external_key", limit, controllers.HandleAccountsValidateExternalKey)
	app.Get(constants.AccountsRoute+"/:account_id/next_invoice_date", limit, controllers.HandleAccountsNextInvoiceDate)
}
