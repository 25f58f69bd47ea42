package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kitty-tang-hs/killbill-admin-ui/views"
)

// HandleHome renders the landing page with the fast account search
func HandleHome(c *fiber.Ctx) error {
	return render(c, "", views.HomeContent())
}
