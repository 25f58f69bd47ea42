package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kitty-tang-hs/killbill-admin-ui/app/models"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/killbill"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/session"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/usercontext"
)

type memoryTenants struct {
	tenants []models.Tenant
}

func (m *memoryTenants) Create(t *models.Tenant) error {
	for _, existing := range m.tenants {
		if existing.APIKey == t.APIKey {
			return errors.New("duplicate api key")
		}
	}
	t.ID = uint(len(m.tenants) + 1)
	m.tenants = append(m.tenants, *t)
	return nil
}

func (m *memoryTenants) GetByKBTenantID(id string) (*models.Tenant, error) {
	for _, t := range m.tenants {
		if t.KBTenantID == id {
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryTenants) GetByAPIKey(key string) (*models.Tenant, error) {
	for _, t := range m.tenants {
		if t.APIKey == key {
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryTenants) List() ([]models.Tenant, error) {
	return m.tenants, nil
}

func newTenantsEnv(t *testing.T) (*testEnv, *memoryTenants) {
	session.SetSessionStore(fibersession.New())
	t.Cleanup(func() { session.SetSessionStore(nil) })

	env := newTestEnv(t)
	repo := &memoryTenants{}
	tc := NewTenantsController(env.kb.Client(), repo)
	env.app.Get("/tenants", tc.HandleIndex)
	env.app.Post("/tenants", tc.HandleCreate)
	env.app.Post("/tenants/select", tc.HandleSelect)
	env.app.Get("/tenants/current", func(c *fiber.Ctx) error {
		return c.SendString(session.GetSessionValue(c, usercontext.SessionKeyTenantID))
	})
	return env, repo
}

func TestTenantsCreate(t *testing.T) {
	env, repo := newTenantsEnv(t)
	kbTenant := env.kb.AddTenant(killbill.Tenant{ExternalKey: "acme", APIKey: "acme"})

	resp := env.post(t, "/tenants", url.Values{"name": {"Acme"}, "api_key": {"acme"}})
	assert.Equal(t, "/tenants", resp.Header.Get("Location"))
	assert.Contains(t, env.flash(t, resp)["message"], "Invalid tenant")
	assert.Empty(t, repo.tenants)

	resp = env.post(t, "/tenants", url.Values{"name": {"Unknown"}, "api_key": {"nope"}, "api_secret": {"s"}})
	assert.Equal(t, "/tenants", resp.Header.Get("Location"))
	assert.Contains(t, env.flash(t, resp)["message"], kbErrorPrefix+"Error 404")
	assert.Empty(t, repo.tenants)

	resp = env.post(t, "/tenants", url.Values{"name": {"Acme"}, "api_key": {"acme"}, "api_secret": {"acme-secret"}})
	assert.Equal(t, "/tenants", resp.Header.Get("Location"))
	assert.Equal(t, "Tenant Acme was successfully registered", env.flash(t, resp)["message"])
	require.Len(t, repo.tenants, 1)
	assert.Equal(t, kbTenant.TenantID, repo.tenants[0].KBTenantID)
	assert.Equal(t, "acme-secret", repo.tenants[0].APISecret)

	calls := env.kb.Requests("GET /1.0/kb/tenants")
	require.NotEmpty(t, calls)
	assert.Equal(t, "acme", calls[len(calls)-1].Header.Get(killbill.HeaderAPIKey))

	resp = env.get(t, "/tenants")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "Acme")
	assert.Contains(t, html, kbTenant.TenantID)
	assert.NotContains(t, html, "acme-secret")
}

func TestTenantsSelect(t *testing.T) {
	env, repo := newTenantsEnv(t)
	require.NoError(t, repo.Create(&models.Tenant{
		KBTenantID: "0f6b4a62-7d0e-4c1a-9a0b-3f2b7c9d1e11",
		Name:       "Acme",
		APIKey:     "acme",
		APISecret:  "acme-secret",
	}))

	resp := env.post(t, "/tenants/select", url.Values{})
	assert.Equal(t, "/tenants", resp.Header.Get("Location"))
	assert.Equal(t, "Required parameter missing: tenant_id", env.flash(t, resp)["message"])

	resp = env.post(t, "/tenants/select", url.Values{"tenant_id": {"missing"}})
	assert.Equal(t, "Tenant not found: missing", env.flash(t, resp)["message"])

	resp = env.post(t, "/tenants/select", url.Values{"tenant_id": {"0f6b4a62-7d0e-4c1a-9a0b-3f2b7c9d1e11"}})
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, "Switched to tenant Acme", env.flash(t, resp)["message"])

	var sessionCookie string
	for _, ck := range resp.Cookies() {
		if ck.Name == "session_id" {
			sessionCookie = ck.Name + "=" + ck.Value
		}
	}
	require.NotEmpty(t, sessionCookie)
	req := httptest.NewRequest(http.MethodGet, "/tenants/current", nil)
	req.Header.Set("Cookie", sessionCookie)
	assert.Equal(t, "0f6b4a62-7d0e-4c1a-9a0b-3f2b7c9d1e11", body(t, env.do(t, req)))
}
