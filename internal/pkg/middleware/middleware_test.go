package middleware

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kitty-tang-hs/killbill-admin-ui/app/models"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/session"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/usercontext"
)

func basicAuthHeader(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestRequireOperator(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(RequireOperator("admin", string(hash), false))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(usercontext.KeyUsername).(string))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", basicAuthHeader("admin", "wrong"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", basicAuthHeader("admin", "s3cret"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "admin", string(body))
}

func TestRequireOperatorDevWithoutHash(t *testing.T) {
	app := fiber.New()
	app.Use(RequireOperator("dev-user", "", true))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(usercontext.KeyUsername).(string))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "dev-user", string(body))
}

func TestCheckOperatorRejectsOtherUser(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	assert.True(t, checkOperator("admin", string(hash), "admin", "pw"))
	assert.False(t, checkOperator("admin", string(hash), "root", "pw"))
}

type fakeTenants struct {
	byID map[string]models.Tenant
}

func (f *fakeTenants) Create(t *models.Tenant) error { return nil }

func (f *fakeTenants) GetByKBTenantID(id string) (*models.Tenant, error) {
	if t, ok := f.byID[id]; ok {
		return &t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTenants) GetByAPIKey(string) (*models.Tenant, error) { return nil, gorm.ErrRecordNotFound }

func (f *fakeTenants) List() ([]models.Tenant, error) { return nil, nil }

func TestTenantContext(t *testing.T) {
	session.SetSessionStore(fibersession.New())
	t.Cleanup(func() { session.SetSessionStore(nil) })

	tenants := &fakeTenants{byID: map[string]models.Tenant{
		"6c1a6a2e-1b0f-4f5e-8a43-2d7d0f7c0b11": {KBTenantID: "6c1a6a2e-1b0f-4f5e-8a43-2d7d0f7c0b11", Name: "acme", APIKey: "acme", APISecret: "acme-secret"},
	}}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(usercontext.KeyUsername, "alice")
		return c.Next()
	})
	app.Use(TenantContext(tenants))
	app.Post("/select/:id", func(c *fiber.Ctx) error {
		return session.SetSessionValue(c, usercontext.SessionKeyTenantID, c.Params("id"))
	})
	app.Get("/", func(c *fiber.Ctx) error {
		uc := usercontext.GetUserContext(c)
		return c.JSON(fiber.Map{"user": uc.Username, "tenant": uc.TenantName, "key": uc.APIKey, "has": usercontext.HasTenant(c)})
	})

	get := func(cookies ...string) map[string]any {
		req := httptest.NewRequest("GET", "/", nil)
		for _, ck := range cookies {
			req.Header.Add("Cookie", ck)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	anon := get()
	assert.Equal(t, "alice", anon["user"])
	assert.Equal(t, false, anon["has"])

	resp, err := app.Test(httptest.NewRequest("POST", "/select/6c1a6a2e-1b0f-4f5e-8a43-2d7d0f7c0b11", nil))
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	selected := get(cookies[0].Name + "=" + cookies[0].Value)
	assert.Equal(t, "acme", selected["tenant"])
	assert.Equal(t, "acme", selected["key"])
	assert.Equal(t, true, selected["has"])
}
