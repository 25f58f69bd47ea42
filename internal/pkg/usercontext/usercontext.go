package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext represents the operator and the selected tenant for a request
type UserContext struct {
	Username   string `json:"username"`
	IsLoggedIn bool   `json:"is_logged_in"`
	KBTenantID string `json:"kb_tenant_id"`
	TenantName string `json:"tenant_name"`
	APIKey     string `json:"-"`
	APISecret  string `json:"-"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return ctx
	}
	return UserContext{}
}

// SetUserContext stores uc for the rest of the request
func SetUserContext(c *fiber.Ctx, uc UserContext) {
	c.Locals(KeyUserContext, uc)
}

// GetUsername returns the current operator, or empty string if anonymous
func GetUsername(c *fiber.Ctx) string {
	return GetUserContext(c).Username
}

// HasTenant reports whether a tenant other than the default one is selected
func HasTenant(c *fiber.Ctx) bool {
	return GetUserContext(c).KBTenantID != ""
}
