package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kitty-tang-hs/killbill-admin-ui/app/controllers"
	"github.com/kitty-tang-hs/killbill-admin-ui/app/models"
	"github.com/kitty-tang-hs/killbill-admin-ui/app/repository"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/datatables"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/killbill"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/killbill/killbilltest"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/middleware"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/session"
)

type noTenants struct{}

func (noTenants) Create(*models.Tenant) error { return nil }

func (noTenants) GetByKBTenantID(string) (*models.Tenant, error) { return nil, gorm.ErrRecordNotFound }

func (noTenants) GetByAPIKey(string) (*models.Tenant, error) { return nil, gorm.ErrRecordNotFound }

func (noTenants) List() ([]models.Tenant, error) { return nil, nil }

type routerEnv struct {
	app *fiber.App
	kb  *killbilltest.Server
}

// newRouterEnv installs the production route table on a fresh app, backed by
// an in-memory session store and a fake Kill Bill.
func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()
	session.SetSessionStore(fibersession.New())
	t.Cleanup(func() { session.SetSessionStore(nil) })

	kb := killbilltest.NewServer(t)
	controllers.InitializeControllers(kb.Client(), &repository.Repositories{Tenant: noTenants{}})

	app := fiber.New()
	HttpRouter{
		tenants:  noTenants{},
		operator: middleware.RequireOperator("ops", "", true),
	}.InstallRouter(app)

	return &routerEnv{app: app, kb: kb}
}

func (e *routerEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *routerEnv) get(t *testing.T, target string) *http.Response {
	t.Helper()
	return e.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

// send submits form with the csrf cookie attached when one is given.
func (e *routerEnv) send(t *testing.T, method, target string, form url.Values, csrfCookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if csrfCookie != nil {
		req.Header.Set("Cookie", csrfCookie.Name+"="+csrfCookie.Value)
	}
	return e.do(t, req)
}

var csrfInput = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

// csrf loads the new account form and returns the cookie and form token it
// hands out.
func (e *routerEnv) csrf(t *testing.T) (*http.Cookie, string) {
	t.Helper()
	resp := e.get(t, "/accounts/new")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	m := csrfInput.FindStringSubmatch(readBody(t, resp))
	require.Len(t, m, 2)
	for _, ck := range resp.Cookies() {
		if ck.Name == "csrf_" {
			return ck, m[1]
		}
	}
	t.Fatal("csrf_ cookie not set")
	return nil, ""
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestStaticSegmentsBeforeAccountID(t *testing.T) {
	env := newRouterEnv(t)
	env.kb.AddAccount(killbill.Account{Name: "Acme", ExternalKey: "acme"})

	resp := env.get(t, "/accounts/new")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "New account")

	resp = env.get(t, "/accounts/validate_external_key?external_key=acme")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"is_found":true}`, readBody(t, resp))

	resp = env.get(t, "/accounts/pagination?sEcho=7&iDisplayStart=0&iDisplayLength=10")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page datatables.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, "7", page.Echo)
	assert.Equal(t, 1, page.TotalRecords)

	assert.Empty(t, env.kb.Requests("GET /1.0/kb/accounts/{accountId}"))
}

func TestFormsRequireCSRFToken(t *testing.T) {
	env := newRouterEnv(t)
	account := env.kb.AddAccount(killbill.Account{Name: "Acme", ExternalKey: "acme", Currency: "USD"})
	path := "/accounts/" + account.AccountID
	form := url.Values{"account[name]": {"Acme renamed"}}

	resp := env.send(t, http.MethodPost, path+"/update", form, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	cookie, token := env.csrf(t)
	resp = env.send(t, http.MethodPost, path+"/update", form, cookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	unchanged, _ := env.kb.Account(account.AccountID)
	assert.Equal(t, "Acme", unchanged.Name)

	form.Set("_csrf", token)
	resp = env.send(t, http.MethodPost, path+"/update", form, cookie)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, path, resp.Header.Get("Location"))

	updated, _ := env.kb.Account(account.AccountID)
	assert.Equal(t, "Acme renamed", updated.Name)
}

func TestParentLinkRoutes(t *testing.T) {
	env := newRouterEnv(t)
	parent := env.kb.AddAccount(killbill.Account{Name: "Parent", ExternalKey: "parent"})
	child := env.kb.AddAccount(killbill.Account{Name: "Child", ExternalKey: "child", Currency: "USD"})
	path := "/accounts/" + child.AccountID
	cookie, token := env.csrf(t)

	link := func(method string) {
		t.Helper()
		resp := env.send(t, method, path+"/link_to_parent", url.Values{
			"_csrf":                      {token},
			"account[parent_account_id]": {parent.AccountID},
		}, cookie)
		require.Equal(t, http.StatusFound, resp.StatusCode)
		linked, _ := env.kb.Account(child.AccountID)
		require.Equal(t, parent.AccountID, linked.ParentAccountID)
	}
	unlink := func(method, target string) {
		t.Helper()
		resp := env.send(t, method, target, url.Values{"_csrf": {token}}, cookie)
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, path, resp.Header.Get("Location"))
		unlinked, _ := env.kb.Account(child.AccountID)
		assert.Empty(t, unlinked.ParentAccountID)
		assert.Equal(t, "Child", unlinked.Name)
	}

	link(http.MethodPut)
	unlink(http.MethodDelete, path+"/link_to_parent")

	link(http.MethodPost)
	unlink(http.MethodPost, path+"/unlink_to_parent")
}

func TestMonitoringRoutes(t *testing.T) {
	env := newRouterEnv(t)

	resp := env.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "go_goroutines")
}
