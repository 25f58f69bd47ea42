package session

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionValueRoundTrip(t *testing.T) {
	SetSessionStore(session.New())
	t.Cleanup(func() { SetSessionStore(nil) })

	app := fiber.New()
	app.Post("/set", func(c *fiber.Ctx) error {
		return SetSessionValue(c, "kb_tenant_id", c.Query("v"))
	})
	app.Get("/get", func(c *fiber.Ctx) error {
		return c.SendString(GetSessionValue(c, "kb_tenant_id"))
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/set?v=tenant-1", nil))
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest("GET", "/get", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "tenant-1", string(body))
}

func TestSessionWithoutStore(t *testing.T) {
	SetSessionStore(nil)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Error(t, SetSessionValue(c, "k", "v"))
		assert.Empty(t, GetSessionValue(c, "k"))
		return nil
	})
	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
}
