package controllers

import (
	"encoding/json"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/sujit-baniya/flash"

	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/killbill/killbilltest"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/usercontext"
)

const flashCookie = "fiber-app-flash"

type testEnv struct {
	app *fiber.App
	kb  *killbilltest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	kb := killbilltest.NewServer(t)
	client := kb.Client()
	ac := NewAccountsController(client)
	ic := NewInvoicesController(client)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		usercontext.SetUserContext(c, usercontext.UserContext{Username: "alice", IsLoggedIn: true})
		return c.Next()
	})
	app.Get("/_flash", func(c *fiber.Ctx) error {
		return c.JSON(flash.Get(c))
	})

	app.Get("/accounts", ac.HandleIndex)
	app.Get("/accounts/pagination", ac.HandlePagination)
	app.Get("/accounts/validate_external_key", ac.HandleValidateExternalKey)
	app.Get("/accounts/new", ac.HandleNew)
	app.Post("/accounts", ac.HandleCreate)
	app.Post("/accounts/email_notifications", ac.HandleSetEmailNotificationsConfiguration)
	app.Get("/accounts/:account_id", ac.HandleShow)
	app.Get("/accounts/:account_id/edit", ac.HandleEdit)
	app.Put("/accounts/:account_id", ac.HandleUpdate)
	app.Post("/accounts/:account_id/update", ac.HandleUpdate)
	app.Post("/accounts/:account_id/set_default_payment_method", ac.HandleSetDefaultPaymentMethod)
	app.Post("/accounts/:account_id/pay_all_invoices", ac.HandlePayAllInvoices)
	app.Post("/accounts/:account_id/trigger_invoice", ac.HandleTriggerInvoice)
	app.Get("/accounts/:account_id/next_invoice_date", ac.HandleNextInvoiceDate)
	app.Put("/accounts/:account_id/link_to_parent", ac.HandleLinkToParent)
	app.Delete("/accounts/:account_id/link_to_parent", ac.HandleUnlinkToParent)
	app.Get("/invoices/:invoice_id", ic.HandleShow)

	return &testEnv{app: app, kb: kb}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) get(t *testing.T, target string) *http.Response {
	t.Helper()
	return e.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func (e *testEnv) send(t *testing.T, method, target string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(t, req)
}

func (e *testEnv) post(t *testing.T, target string, form url.Values) *http.Response {
	t.Helper()
	return e.send(t, http.MethodPost, target, form)
}

// flash replays the flash cookie set by resp and returns its content.
func (e *testEnv) flash(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	out := map[string]any{}
	for _, ck := range resp.Cookies() {
		if ck.Name != flashCookie || ck.Value == "" {
			continue
		}
		req := httptest.NewRequest(http.MethodGet, "/_flash", nil)
		req.Header.Set("Cookie", ck.Name+"="+ck.Value)
		require.NoError(t, json.NewDecoder(e.do(t, req).Body).Decode(&out))
	}
	return out
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

var inputPattern = regexp.MustCompile(`<input type="([a-z]+)" name="([^"]+)" value="([^"]*)"( checked)?`)

// formFields returns what a browser submits for the account[...] inputs of
// a rendered form. Unchecked checkboxes are left out.
func formFields(page string) url.Values {
	form := url.Values{}
	for _, m := range inputPattern.FindAllStringSubmatch(page, -1) {
		if !strings.HasPrefix(m[2], "account[") {
			continue
		}
		if m[1] == "checkbox" && m[4] == "" {
			continue
		}
		form.Add(html.UnescapeString(m[2]), html.UnescapeString(m[3]))
	}
	return form
}
