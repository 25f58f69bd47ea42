package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/kitty-tang-hs/killbill-admin-ui/app/controllers"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/constants"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/env"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     controllers.CSRFContextKey,
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), constants.APIRoute+"/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get(constants.HomeRoute, controllers.HandleHome)

	// Accounts, static segments before :account_id
	accounts := group.Group(constants.AccountsRoute)
	accounts.Get("/", controllers.HandleAccountsIndex)
	accounts.Get("/new", controllers.HandleAccountsNew)
	accounts.Post("/", controllers.HandleAccountsCreate)
	accounts.Post("/email_notifications", controllers.HandleAccountsEmailNotifications)
	accounts.Get("/:account_id", controllers.HandleAccountsShow)
	accounts.Get("/:account_id/edit", controllers.HandleAccountsEdit)
	accounts.Put("/:account_id", controllers.HandleAccountsUpdate)
	accounts.Put("/:account_id/set_default_payment_method", controllers.HandleAccountsSetDefaultPaymentMethod)
	accounts.Post("/:account_id/pay_all_invoices", controllers.HandleAccountsPayAllInvoices)
	accounts.Post("/:account_id/trigger_invoice", controllers.HandleAccountsTriggerInvoice)
	accounts.Put("/:account_id/link_to_parent", controllers.HandleAccountsLinkToParent)
	accounts.Delete("/:account_id/link_to_parent", controllers.HandleAccountsUnlinkToParent)

	// HTML forms only send GET and POST
	accounts.Post("/:account_id/update", controllers.HandleAccountsUpdate)
	accounts.Post("/:account_id/set_default_payment_method", controllers.HandleAccountsSetDefaultPaymentMethod)
	accounts.Post("/:account_id/link_to_parent", controllers.HandleAccountsLinkToParent)
	accounts.Post("/:account_id/unlink_to_parent", controllers.HandleAccountsUnlinkToParent)

	// Invoices
	group.Get(constants.InvoicesRoute+"/:invoice_id", controllers.HandleInvoicesShow)

	// Tenants
	tenants := group.Group(constants.TenantsRoute)
	tenants.Get("/", controllers.HandleTenantsIndex)
	tenants.Post("/", controllers.HandleTenantsCreate)
	tenants.Post("/select", controllers.HandleTenantsSelect)
}
