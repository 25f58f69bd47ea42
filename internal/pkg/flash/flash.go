// Package flash holds messages shown on the page rendered by the current
// request. Messages that must survive a redirect use the cookie based
// github.com/sujit-baniya/flash instead.
package flash

import (
	"github.com/gofiber/fiber/v2"
)

// Flash message key in locals
const FlashKey = "flash"

// Set stores a message for the page rendered by this request
func Set(c *fiber.Ctx, message fiber.Map) {
	c.Locals(FlashKey, message)
}

// Error stores an error message for this request
func Error(c *fiber.Ctx, message string) {
	Set(c, fiber.Map{"type": "error", "message": message})
}

// Get retrieves the message set for this request
func Get(c *fiber.Ctx) fiber.Map {
	flashMessage, ok := c.Locals(FlashKey).(fiber.Map)
	if !ok {
		return nil
	}

	return flashMessage
}
