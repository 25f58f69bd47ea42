package middleware

import (
	"crypto/subtle"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"golang.org/x/crypto/bcrypt"

	icuser "github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/usercontext"
)

// RequireOperator protects the console with HTTP basic auth. The password is
// checked against a bcrypt hash. An empty hash disables the check, which is
// only allowed in dev.
func RequireOperator(user, passwordHash string, dev bool) fiber.Handler {
	if passwordHash == "" {
		if !dev {
			log.Fatal("KAUI_ADMIN_PASSWORD_HASH must be set outside of dev")
		}
		log.Printf("Warning: console authentication disabled (APP_ENV=dev, no KAUI_ADMIN_PASSWORD_HASH)")
		return func(c *fiber.Ctx) error {
			c.Locals(icuser.KeyUsername, user)
			return c.Next()
		}
	}

	return basicauth.New(basicauth.Config{
		Realm:           "Kaui",
		ContextUsername: icuser.KeyUsername,
		Authorizer: func(u, p string) bool {
			return checkOperator(user, passwordHash, u, p)
		},
	})
}

func checkOperator(wantUser, passwordHash, user, password string) bool {
	if subtle.ConstantTimeCompare([]byte(wantUser), []byte(user)) != 1 {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil
}
