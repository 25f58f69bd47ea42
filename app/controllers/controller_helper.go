package controllers

import (
	"context"
	"strings"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/sujit-baniya/flash"

	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/constants"
	pageflash "github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/flash"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/killbill"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/usercontext"
	"github.com/kitty-tang-hs/killbill-admin-ui/views"
)

// CSRFContextKey is the locals key the csrf middleware stores its token under.
const CSRFContextKey = "csrf"

func csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals(CSRFContextKey).(string)
	return token
}

// requestOptions builds the Kill Bill call options for the current operator
// and tenant. reason and comment are taken from the submitted form.
func requestOptions(c *fiber.Ctx) killbill.RequestOptions {
	uc := usercontext.GetUserContext(c)
	return killbill.RequestOptions{
		APIKey:    uc.APIKey,
		APISecret: uc.APISecret,
		CreatedBy: uc.Username,
		Reason:    c.FormValue("reason"),
		Comment:   c.FormValue("comment"),
	}
}

func kbErrorMessage(err error) string {
	return "Error while communicating with the Kill Bill server: " + err.Error()
}

func missingParameter(name string) string {
	return "Required parameter missing: " + name
}

func redirectBackWithError(c *fiber.Ctx, message string) error {
	return flash.WithError(c, fiber.Map{"type": "error", "message": message}).RedirectBack(constants.HomeRoute)
}

func redirectWithError(c *fiber.Ctx, path, message string) error {
	return flash.WithError(c, fiber.Map{"type": "error", "message": message}).Redirect(path)
}

func redirectWithNotice(c *fiber.Ctx, path, message string) error {
	if err := flash.WithSuccess(c, fiber.Map{"type": "success", "message": message}).Redirect(path); err != nil {
		return err
	}
	return redirectBody(c, path)
}

// redirectBody links the redirect target for clients that read the body
// instead of the Location header.
func redirectBody(c *fiber.Ctx, path string) error {
	c.Type("html", "utf-8")
	return c.SendString(`<html><body>You are being <a href="` + templ.EscapeString(path) + `">redirected</a>.</body></html>`)
}

// messages returns the message for the page being rendered: one set during
// this request wins over the one carried by the flash cookie.
func messages(c *fiber.Ctx) fiber.Map {
	if msg := pageflash.Get(c); msg != nil {
		return msg
	}
	return flash.Get(c)
}

func render(c *fiber.Ctx, title string, content templ.Component) error {
	home := views.HomeCtx(c, title, messages(c), content)

	handler := adaptor.HTTPHandler(templ.Handler(home))
	return handler(c)
}

// nestedParams collects the prefix[name] and prefix[name][] fields of the
// query string and the body. Values keep the order they were sent in.
func nestedParams(c *fiber.Ctx, prefix string) (map[string][]string, bool) {
	params := map[string][]string{}
	found := false
	add := func(key, value string) {
		name, ok := nestedName(key, prefix)
		if !ok {
			return
		}
		found = true
		params[name] = append(params[name], value)
	}

	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		add(string(k), string(v))
	})
	c.Context().PostArgs().VisitAll(func(k, v []byte) {
		add(string(k), string(v))
	})
	if form, err := c.MultipartForm(); err == nil {
		for k, values := range form.Value {
			for _, v := range values {
				add(k, v)
			}
		}
	}
	return params, found
}

func nestedName(key, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(key, prefix+"[")
	if !ok {
		return "", false
	}
	name, _, ok := strings.Cut(rest, "]")
	return name, ok && name != ""
}

// lastValue mirrors how a form with a hidden "0" before a checkbox is read.
func lastValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

// findByIDOrKey looks value up as an account id when it is a UUID, falling
// back to the external key. The id lookup error is returned when both fail.
func findByIDOrKey(ctx context.Context, kb *killbill.Client, value string, opts killbill.RequestOptions) (*killbill.Account, error) {
	if _, err := uuid.Parse(value); err != nil {
		return kb.GetAccountByExternalKey(ctx, value, opts)
	}

	account, err := kb.GetAccount(ctx, value, opts)
	if err == nil {
		return account, nil
	}
	if byKey, keyErr := kb.GetAccountByExternalKey(ctx, value, opts); keyErr == nil {
		return byKey, nil
	}
	return nil, err
}
