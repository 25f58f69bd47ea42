package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kitty-tang-hs/killbill-admin-ui/app/repository"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/killbill"
)

// Global controller instances
var (
	killBillClient     *killbill.Client
	accountsController *AccountsController
	invoicesController *InvoicesController
	tenantsController  *TenantsController
)

// InitializeControllers wires the controllers to the Kill Bill client and repositories
func InitializeControllers(kb *killbill.Client, repos *repository.Repositories) {
	killBillClient = kb
	accountsController = NewAccountsController(kb)
	invoicesController = NewInvoicesController(kb)
	tenantsController = NewTenantsController(kb, repos.Tenant)
}

// GetKillBillClient returns the client shared by the controllers
func GetKillBillClient() *killbill.Client {
	if killBillClient == nil {
		panic("Kill Bill client not initialized. Call InitializeControllers first.")
	}
	return killBillClient
}

// GetAccountsController returns the global accounts controller instance
func GetAccountsController() *AccountsController {
	if accountsController == nil {
		panic("Accounts controller not initialized. Call InitializeControllers first.")
	}
	return accountsController
}

// GetInvoicesController returns the global invoices controller instance
func GetInvoicesController() *InvoicesController {
	if invoicesController == nil {
		panic("Invoices controller not initialized. Call InitializeControllers first.")
	}
	return invoicesController
}

// GetTenantsController returns the global tenants controller instance
func GetTenantsController() *TenantsController {
	if tenantsController == nil {
		panic("Tenants controller not initialized. Call InitializeControllers first.")
	}
	return tenantsController
}

// Adapter functions used by the router

func HandleAccountsIndex(c *fiber.Ctx) error {
	return GetAccountsController().HandleIndex(c)
}

func HandleAccountsPagination(c *fiber.Ctx) error {
	return GetAccountsController().HandlePagination(c)
}

func HandleAccountsShow(c *fiber.Ctx) error {
	return GetAccountsController().HandleShow(c)
}

func HandleAccountsNew(c *fiber.Ctx) error {
	return GetAccountsController().HandleNew(c)
}

func HandleAccountsCreate(c *fiber.Ctx) error {
	return GetAccountsController().HandleCreate(c)
}

func HandleAccountsEdit(c *fiber.Ctx) error {
	return GetAccountsController().HandleEdit(c)
}

func HandleAccountsUpdate(c *fiber.Ctx) error {
	return GetAccountsController().HandleUpdate(c)
}

func HandleAccountsSetDefaultPaymentMethod(c *fiber.Ctx) error {
	return GetAccountsController().HandleSetDefaultPaymentMethod(c)
}

func HandleAccountsPayAllInvoices(c *fiber.Ctx) error {
	return GetAccountsController().HandlePayAllInvoices(c)
}

func HandleAccountsTriggerInvoice(c *fiber.Ctx) error {
	return GetAccountsController().HandleTriggerInvoice(c)
}

func HandleAccountsNextInvoiceDate(c *fiber.Ctx) error {
	return GetAccountsController().HandleNextInvoiceDate(c)
}

func HandleAccountsValidateExternalKey(c *fiber.Ctx) error {
	return GetAccountsController().HandleValidateExternalKey(c)
}

func HandleAccountsLinkToParent(c *fiber.Ctx) error {
	return GetAccountsController().HandleLinkToParent(c)
}

func HandleAccountsUnlinkToParent(c *fiber.Ctx) error {
	return GetAccountsController().HandleUnlinkToParent(c)
}

func HandleAccountsEmailNotifications(c *fiber.Ctx) error {
	return GetAccountsController().HandleSetEmailNotificationsConfiguration(c)
}

func HandleInvoicesShow(c *fiber.Ctx) error {
	return GetInvoicesController().HandleShow(c)
}

func HandleTenantsIndex(c *fiber.Ctx) error {
	return GetTenantsController().HandleIndex(c)
}

func HandleTenantsCreate(c *fiber.Ctx) error {
	return GetTenantsController().HandleCreate(c)
}

func HandleTenantsSelect(c *fiber.Ctx) error {
	return GetTenantsController().HandleSelect(c)
}
