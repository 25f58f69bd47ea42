package constants

// Route prefixes shared by the router, controllers and views
const (
	HomeRoute     = "/"
	AccountsRoute = "/accounts"
	InvoicesRoute = "/invoices"
	TenantsRoute  = "/tenants"
	APIRoute      = "/api"
)
