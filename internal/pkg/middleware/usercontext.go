package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/kitty-tang-hs/killbill-admin-ui/app/repository"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/session"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/usercontext"
)

// TenantContext builds the user context for every request: the operator set
// by RequireOperator and the tenant selected in the session. Without a
// selection the Kill Bill client falls back to its configured credentials.
func TenantContext(tenants repository.TenantRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uc := usercontext.UserContext{}
		if username, ok := c.Locals(usercontext.KeyUsername).(string); ok && username != "" {
			uc.Username = username
			uc.IsLoggedIn = true
		}

		if tenantID := session.GetSessionValue(c, usercontext.SessionKeyTenantID); tenantID != "" && tenants != nil {
			tenant, err := tenants.GetByKBTenantID(tenantID)
			switch {
			case err == nil:
				uc.KBTenantID = tenant.KBTenantID
				uc.TenantName = tenant.Name
				uc.APIKey = tenant.APIKey
				uc.APISecret = tenant.APISecret
			case errors.Is(err, gorm.ErrRecordNotFound):
				// Tenant removed since it was selected
				_ = session.SetSessionValue(c, usercontext.SessionKeyTenantID, "")
			default:
				log.Printf("tenant lookup failed for %s: %v", tenantID, err)
			}
		}

		usercontext.SetUserContext(c, uc)
		return c.Next()
	}
}
