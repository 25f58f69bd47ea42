// Package killbilltest provides an in-memory Kill Bill server for tests.
package killbilltest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/killbill"
)

// Request is one call received by the server.
type Request struct {
	Pattern string
	Method  string
	Path    string
	Query   map[string][]string
	Header  http.Header
	Body    []byte
}

type failure struct {
	status  int
	message string
}

// Server fakes the subset of the Kill Bill API used by the console.
type Server struct {
	*httptest.Server

	mu             sync.Mutex
	accountOrder   []string
	accounts       map[string]killbill.Account
	tags           map[string][]killbill.Tag
	emails         map[string][]killbill.AccountEmail
	overdue        map[string]killbill.OverdueState
	paymentMethods map[string][]killbill.PaymentMethod
	pending        map[string]killbill.Invoice
	invoices       map[string]killbill.Invoice
	plugins        []killbill.PluginInfo
	notifications  map[string][]string
	tenants        map[string]killbill.Tenant
	failures       map[string]failure
	requests       []Request
	invoiceNumber  int
}

// NewServer starts a fake server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	s := &Server{
		accounts:       map[string]killbill.Account{},
		tags:           map[string][]killbill.Tag{},
		emails:         map[string][]killbill.AccountEmail{},
		overdue:        map[string]killbill.OverdueState{},
		paymentMethods: map[string][]killbill.PaymentMethod{},
		pending:        map[string]killbill.Invoice{},
		invoices:       map[string]killbill.Invoice{},
		notifications:  map[string][]string{},
		tenants:        map[string]killbill.Tenant{},
		failures:       map[string]failure{},
		invoiceNumber:  1000,
	}

	mux := http.NewServeMux()
	s.handle(mux, "GET /1.0/kb/accounts", s.getAccountByKey)
	s.handle(mux, "POST /1.0/kb/accounts", s.createAccount)
	s.handle(mux, "GET /1.0/kb/accounts/pagination", s.listAccounts)
	s.handle(mux, "GET /1.0/kb/accounts/{accountId}", s.getAccount)
	s.handle(mux, "PUT /1.0/kb/accounts/{accountId}", s.updateAccount)
	s.handleAccountResources(mux)
	s.handle(mux, "PUT /1.0/kb/accounts/{accountId}/paymentMethods/{paymentMethodId}/setDefault", s.setDefaultPaymentMethod)
	s.handle(mux, "POST /1.0/kb/accounts/{accountId}/invoicePayments", s.payAllInvoices)
	s.handle(mux, "POST /1.0/kb/invoices", s.createInvoice)
	s.handle(mux, "POST /1.0/kb/invoices/dryRun", s.dryRunInvoice)
	s.handle(mux, "GET /1.0/kb/invoices/{invoiceId}", s.getInvoice)
	s.handle(mux, "GET /1.0/kb/nodesInfo", s.nodesInfo)
	s.handle(mux, "GET /1.0/kb/tenants", s.getTenant)
	s.handle(mux, "GET /plugins/killbill-email-notifications/v1/accounts/{accountId}", s.getNotifications)
	s.handle(mux, "POST /plugins/killbill-email-notifications/v1/accounts/{accountId}", s.setNotifications)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Config points a client at the server with its default credentials.
func (s *Server) Config() killbill.Config {
	return killbill.Config{
		URL:            s.URL,
		Username:       "admin",
		Password:       "password",
		APIKey:         "bob",
		APISecret:      "lazar",
		Timeout:        5 * time.Second,
		PluginCacheTTL: time.Minute,
	}
}

func (s *Server) Client(opts ...killbill.Option) *killbill.Client {
	return killbill.NewClient(s.Config(), opts...)
}

// AddAccount stores a, assigning an id when it has none.
func (s *Server) AddAccount(a killbill.Account) killbill.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.AccountID == "" {
		a.AccountID = uuid.NewString()
	}
	s.putAccount(a)
	return a
}

func (s *Server) Account(id string) (killbill.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	return a, ok
}

func (s *Server) SetTags(accountID string, tags ...killbill.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[accountID] = tags
}

func (s *Server) SetEmails(accountID string, emails ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]killbill.AccountEmail, 0, len(emails))
	for _, e := range emails {
		out = append(out, killbill.AccountEmail{AccountID: accountID, Email: e})
	}
	s.emails[accountID] = out
}

func (s *Server) SetOverdueState(accountID string, state killbill.OverdueState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overdue[accountID] = state
}

func (s *Server) SetPaymentMethods(accountID string, methods ...killbill.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paymentMethods[accountID] = methods
}

func (s *Server) PaymentMethods(accountID string) []killbill.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]killbill.PaymentMethod(nil), s.paymentMethods[accountID]...)
}

// SetPendingInvoice makes the next invoice run for the account produce inv.
func (s *Server) SetPendingInvoice(accountID string, inv killbill.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv.AccountID = accountID
	s.pending[accountID] = inv
}

func (s *Server) AddInvoice(inv killbill.Invoice) killbill.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv.InvoiceID == "" {
		inv.InvoiceID = uuid.NewString()
	}
	s.invoices[inv.InvoiceID] = inv
	return inv
}

// SetPlugins replaces the plugins reported by nodesInfo.
func (s *Server) SetPlugins(plugins ...killbill.PluginInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plugins = plugins
}

func (s *Server) SetNotifications(accountID string, eventTypes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[accountID] = eventTypes
}

func (s *Server) Notifications(accountID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.notifications[accountID]...)
}

func (s *Server) AddTenant(t killbill.Tenant) killbill.Tenant {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.TenantID == "" {
		t.TenantID = uuid.NewString()
	}
	s.tenants[t.APIKey] = t
	return t
}

// Fail makes every call to pattern answer with status and a Kill Bill error body.
func (s *Server) Fail(pattern string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[pattern] = failure{status: status, message: message}
}

// Requests returns the calls received for pattern, or all calls when pattern is empty.
func (s *Server) Requests(pattern string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if pattern == "" || r.Pattern == pattern {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, s.wrap(pattern, h))
}

// handleAccountResources serves search and the account sub resources from a
// single mux pattern, since "search/{searchKey}" and "{accountId}/tags" overlap.
func (s *Server) handleAccountResources(mux *http.ServeMux) {
	search := s.wrap("GET /1.0/kb/accounts/search/{searchKey}", s.searchAccounts)
	resources := map[string]http.HandlerFunc{
		"tags":           s.wrap("GET /1.0/kb/accounts/{accountId}/tags", s.getTags),
		"emails":         s.wrap("GET /1.0/kb/accounts/{accountId}/emails", s.getEmails),
		"overdue":        s.wrap("GET /1.0/kb/accounts/{accountId}/overdue", s.getOverdue),
		"paymentMethods": s.wrap("GET /1.0/kb/accounts/{accountId}/paymentMethods", s.getPaymentMethods),
	}
	mux.HandleFunc("GET /1.0/kb/accounts/{accountId}/{resource}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("accountId") == "search" {
			r.SetPathValue("searchKey", r.PathValue("resource"))
			search(w, r)
			return
		}
		if h, ok := resources[r.PathValue("resource")]; ok {
			h(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

func (s *Server) wrap(pattern string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Pattern: pattern,
			Method:  r.Method,
			Path:    r.URL.Path,
			Query:   r.URL.Query(),
			Header:  r.Header.Clone(),
			Body:    body,
		})
		f, failing := s.failures[pattern]
		s.mu.Unlock()

		if failing {
			writeError(w, f.status, f.message)
			return
		}
		h(w, r)
	}
}

func (s *Server) putAccount(a killbill.Account) {
	if _, ok := s.accounts[a.AccountID]; !ok {
		s.accountOrder = append(s.accountOrder, a.AccountID)
	}
	s.accounts[a.AccountID] = a
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	a, ok := s.accounts[r.PathValue("accountId")]
	s.mu.Unlock()
	if !ok {
		writeAccountNotFound(w, r.PathValue("accountId"))
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) getAccountByKey(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("externalKey")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.accountOrder {
		if a := s.accounts[id]; a.ExternalKey == key {
			writeJSON(w, http.StatusOK, a)
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("Account does not exist for externalKey %s", key))
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]killbill.Account, 0, len(s.accountOrder))
	for _, id := range s.accountOrder {
		all = append(all, s.accounts[id])
	}
	s.writePage(w, r, all)
}

func (s *Server) searchAccounts(w http.ResponseWriter, r *http.Request) {
	key := strings.ToLower(r.PathValue("searchKey"))
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []killbill.Account
	for _, id := range s.accountOrder {
		a := s.accounts[id]
		for _, field := range []string{a.AccountID, a.Name, a.Email, a.ExternalKey, a.Company} {
			if field != "" && strings.Contains(strings.ToLower(field), key) {
				matched = append(matched, a)
				break
			}
		}
	}
	s.writePage(w, r, matched)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, matched []killbill.Account) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	page := []killbill.Account{}
	if offset < len(matched) {
		end := offset + limit
		if end > len(matched) {
			end = len(matched)
		}
		page = matched[offset:end]
	}
	w.Header().Set(killbill.HeaderTotalNbRecords, strconv.Itoa(len(matched)))
	w.Header().Set(killbill.HeaderMaxNbRecords, strconv.Itoa(len(s.accounts)))
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var a killbill.Account
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ExternalKey != "" {
		for _, existing := range s.accounts {
			if existing.ExternalKey == a.ExternalKey {
				writeError(w, http.StatusConflict, fmt.Sprintf("Account already exists for key %s", a.ExternalKey))
				return
			}
		}
	}
	a.AccountID = uuid.NewString()
	if a.ExternalKey == "" {
		a.ExternalKey = a.AccountID
	}
	s.putAccount(a)
	w.Header().Set("Location", s.URL+"/1.0/kb/accounts/"+a.AccountID)
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("accountId")
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.accounts[id]
	if !ok {
		writeAccountNotFound(w, id)
		return
	}

	updated := existing
	if r.URL.Query().Get("treatNullAsReset") == "true" {
		updated = killbill.Account{
			AccountID:      existing.AccountID,
			ExternalKey:    existing.ExternalKey,
			Currency:       existing.Currency,
			AccountBalance: existing.AccountBalance,
			AccountCBA:     existing.AccountCBA,
		}
	}
	if err := json.Unmarshal(body, &updated); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated.AccountID = id
	s.accounts[id] = updated
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getTags(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(s.tags[r.PathValue("accountId")]))
}

func (s *Server) getEmails(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(s.emails[r.PathValue("accountId")]))
}

func (s *Server) getOverdue(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.overdue[r.PathValue("accountId")]
	if !ok {
		state = killbill.OverdueState{Name: "__KILLBILL__CLEAR__OVERDUE_STATE__", IsClearState: true}
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) getPaymentMethods(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(s.paymentMethods[r.PathValue("accountId")]))
}

func (s *Server) setDefaultPaymentMethod(w http.ResponseWriter, r *http.Request) {
	accountID, pmID := r.PathValue("accountId"), r.PathValue("paymentMethodId")
	s.mu.Lock()
	defer s.mu.Unlock()
	methods := s.paymentMethods[accountID]
	found := false
	for _, pm := range methods {
		found = found || pm.PaymentMethodID == pmID
	}
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Object id=%s type=PAYMENT_METHOD doesn't exist!", pmID))
		return
	}
	for i := range methods {
		methods[i].IsDefault = methods[i].PaymentMethodID == pmID
	}
	if a, ok := s.accounts[accountID]; ok {
		a.PaymentMethodID = pmID
		s.accounts[accountID] = a
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) payAllInvoices(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	_, ok := s.accounts[r.PathValue("accountId")]
	s.mu.Unlock()
	if !ok {
		writeAccountNotFound(w, r.PathValue("accountId"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createInvoice(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("accountId")
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.pending[accountID]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No invoice to generate for account %s", accountID))
		return
	}
	delete(s.pending, accountID)

	s.invoiceNumber++
	inv.InvoiceID = uuid.NewString()
	inv.InvoiceNumber = strconv.Itoa(s.invoiceNumber)
	if td := r.URL.Query().Get("targetDate"); td != "" {
		inv.TargetDate = td
	}
	s.invoices[inv.InvoiceID] = inv
	w.Header().Set("Location", s.URL+"/1.0/kb/invoices/"+inv.InvoiceID)
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) dryRunInvoice(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("accountId")
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.pending[accountID]
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if td := r.URL.Query().Get("targetDate"); td != "" {
		inv.TargetDate = td
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) getInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("invoiceId")
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Object id=%s type=INVOICE doesn't exist!", id))
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) nodesInfo(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, []killbill.NodeInfo{{
		NodeName:    "fake-node",
		KBVersion:   "0.24.0",
		PluginsInfo: nonNil(s.plugins),
	}})
}

func (s *Server) getTenant(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("apiKey")
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[key]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("TenantCacheInvalidation not found for apiKey %s", key))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) getNotifications(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("accountId")
	s.mu.Lock()
	defer s.mu.Unlock()
	types := append([]string(nil), s.notifications[id]...)
	sort.Strings(types)
	out := make([]killbill.EmailNotification, 0, len(types))
	for _, et := range types {
		out = append(out, killbill.EmailNotification{KBAccountID: id, EventType: et})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) setNotifications(w http.ResponseWriter, r *http.Request) {
	var types []string
	if err := json.NewDecoder(r.Body).Decode(&types); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	s.notifications[r.PathValue("accountId")] = types
	s.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
}

func writeAccountNotFound(w http.ResponseWriter, id string) {
	writeError(w, http.StatusNotFound, fmt.Sprintf("Object id=%s type=ACCOUNT doesn't exist!", id))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"className": "org.killbill.billing.BillingExceptionBase",
		"code":      status,
		"message":   message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
