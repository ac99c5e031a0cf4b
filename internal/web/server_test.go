package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/crm/internal/cep"
	"github.com/JonMunkholm/crm/internal/config"
	"github.com/JonMunkholm/crm/internal/core"
	"github.com/JonMunkholm/crm/internal/customer"
	"github.com/JonMunkholm/crm/internal/navigation"
	"github.com/JonMunkholm/crm/internal/preferences"
)

type stubLookup struct{}

func (stubLookup) Lookup(_ context.Context, code string) (cep.Address, error) {
	n, _ := cep.Normalize(code)
	switch n {
	case "01001000":
		return cep.Address{CEP: "01001000", Street: "Praça da Sé", Neighborhood: "Sé", City: "São Paulo", State: "SP"}, nil
	case "99999999":
		return cep.Address{}, cep.ErrNotFound
	case "88888888":
		return cep.Address{}, cep.ErrUnavailable
	}
	return cep.Address{}, cep.ErrInvalidCEP
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		Session: config.SessionConfig{
			Secret:       "0123456789abcdef0123456789abcdef",
			CookieName:   "crm_session",
			MaxAge:       time.Hour,
			PendingLimit: 8,
		},
		Browser:  config.BrowserConfig{DefaultPageSize: 10, PageSizes: []int{2, 10, 20}},
		Rate:     config.RateLimitConfig{Enabled: false, RequestsPerMinute: 100, LookupLimit: 30},
		Security: config.SecurityConfig{EnableCSP: true},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	svc, err := core.NewService(customer.NewRepository(customer.Seed()), stubLookup{}, core.Options{
		PageSize:        cfg.Browser.DefaultPageSize,
		IdleTimeout:     time.Hour,
		PendingSessions: cfg.Session.PendingLimit,
	})
	require.NoError(t, err)
	return NewServer(svc, cfg)
}

// client keeps cookies between requests so calls share one session.
type client struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
	htmx    bool
}

func newClient(t *testing.T, s *Server) *client {
	return &client{t: t, h: s.Router(), cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "192.0.2.10:5555"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.htmx {
		req.Header.Set("HX-Request", "true")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) snapshot(rec *httptest.ResponseRecorder) customerSnapshot {
	c.t.Helper()
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	var snap customerSnapshot
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Code
}

func rowIDs(snap customerSnapshot) []string {
	ids := make([]string, len(snap.Rows))
	for i, r := range snap.Rows {
		ids[i] = r.ID
	}
	return ids
}

func TestIndexRedirects(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	rec := c.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard/clientes", rec.Header().Get("Location"))
}

func TestCustomersPage(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	rec := c.do(http.MethodGet, "/dashboard/clientes", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "João Silva")
	assert.Contains(t, body, `id="customer-form"`)
	assert.Contains(t, body, `class="nav-item active"`)
	assert.Contains(t, c.cookies, "crm_session")
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestCustomersPage_SidebarPreferences(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	c.cookies[preferences.SidebarVariant] = &http.Cookie{Name: preferences.SidebarVariant, Value: "floating"}
	c.cookies[preferences.SidebarCollapse] = &http.Cookie{Name: preferences.SidebarCollapse, Value: "bogus"}

	body := c.do(http.MethodGet, "/dashboard/clientes", nil).Body.String()
	assert.Contains(t, body, `class="shell sidebar-floating collapse-icon"`)
}

func TestCustomersPage_HTMXReturnsTableOnly(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	c.htmx = true
	rec := c.do(http.MethodGet, "/dashboard/clientes", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), `<section id="customers-table"`))
}

func TestCustomersPage_AppliesPageSizePreference(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	c.cookies["crm_page_size"] = &http.Cookie{Name: "crm_page_size", Value: "2"}
	c.do(http.MethodGet, "/dashboard/clientes", nil)

	snap := c.snapshot(c.do(http.MethodGet, "/api/clientes", nil))
	assert.Equal(t, 2, snap.Page.Size)
	assert.Equal(t, 2, snap.PageCount)
}

func TestSnapshot(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	snap := c.snapshot(c.do(http.MethodGet, "/api/clientes", nil))

	assert.Equal(t, 4, snap.TotalAll)
	assert.Equal(t, 4, snap.TotalFiltered)
	assert.Equal(t, []string{"001", "002", "003", "004"}, rowIDs(snap))
	assert.Equal(t, 10, snap.Page.Size)
	assert.Len(t, snap.Selected, 4)
}

func TestQueryKeepsSelection(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	c.do(http.MethodPost, "/api/clientes/select/001", nil)

	snap := c.snapshot(c.do(http.MethodPost, "/api/clientes/query", map[string]string{"query": "maria"}))
	assert.Equal(t, []string{"002"}, rowIDs(snap))
	assert.Equal(t, 1, snap.SelectedCount)

	var sel SelectedResponse
	rec := c.do(http.MethodGet, "/api/clientes/selected", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sel))
	assert.Equal(t, []string{"001"}, sel.IDs)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := newTestServer(t, testConfig())
	a, b := newClient(t, s), newClient(t, s)

	a.do(http.MethodPost, "/api/clientes/query", map[string]string{"query": "empresa"})
	assert.Equal(t, 1, a.snapshot(a.do(http.MethodGet, "/api/clientes", nil)).TotalFiltered)
	assert.Equal(t, 4, b.snapshot(b.do(http.MethodGet, "/api/clientes", nil)).TotalFiltered)
}

func TestCookielessRequestsDoNotPileUpSessions(t *testing.T) {
	cfg := testConfig()
	s := newTestServer(t, cfg)

	for range 50 {
		req := httptest.NewRequest(http.MethodGet, "/api/clientes", nil)
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.LessOrEqual(t, s.service.SessionCount(), cfg.Session.PendingLimit)

	// A client that has sent its cookie back keeps its state past the cap.
	c := newClient(t, s)
	c.do(http.MethodGet, "/api/clientes", nil)
	c.do(http.MethodPost, "/api/clientes/select/001", nil)
	for range 50 {
		s.Router().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/clientes", nil))
	}
	assert.Equal(t, 1, c.snapshot(c.do(http.MethodGet, "/api/clientes", nil)).SelectedCount)
}

func TestSetPage(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))

	snap := c.snapshot(c.do(http.MethodPost, "/api/clientes/page", map[string]int{"index": 1, "size": 2}))
	assert.Equal(t, []string{"003", "004"}, rowIDs(snap))
	require.Contains(t, c.cookies, "crm_page_size")
	assert.Equal(t, "2", c.cookies["crm_page_size"].Value)

	snap = c.snapshot(c.do(http.MethodPost, "/api/clientes/page", map[string]int{"index": 9}))
	assert.Equal(t, 1, snap.Page.Index, "index clamps to the last page")
	assert.Equal(t, 2, snap.Page.Size, "size is kept when omitted")

	rec := c.do(http.MethodPost, "/api/clientes/page", map[string]int{"index": 0, "size": 7})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BRW001", errorCode(t, rec))

	rec = c.do(http.MethodPost, "/api/clientes/page", map[string]int{"index": 0, "size": 0})
	assert.Equal(t, "BRW001", errorCode(t, rec))
}

func TestSetSort(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))

	snap := c.snapshot(c.do(http.MethodPost, "/api/clientes/sort", map[string]string{"column": "id", "direction": "desc"}))
	assert.Equal(t, []string{"004", "003", "002", "001"}, rowIDs(snap))
	assert.Equal(t, "id", snap.Sort.ColumnID)

	snap = c.snapshot(c.do(http.MethodPost, "/api/clientes/sort", map[string]string{"column": "id", "direction": ""}))
	assert.Equal(t, []string{"001", "002", "003", "004"}, rowIDs(snap))

	tests := []struct {
		name string
		body map[string]string
		code string
	}{
		{"unknown column", map[string]string{"column": "nope", "direction": "asc"}, "BRW002"},
		{"bad direction", map[string]string{"column": "id", "direction": "up"}, "REQ003"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.do(http.MethodPost, "/api/clientes/sort", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestColumnVisibility(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))

	snap := c.snapshot(c.do(http.MethodPost, "/api/clientes/columns/email", map[string]bool{"visible": false}))
	for _, col := range snap.Columns {
		if col.ID == "email" {
			assert.False(t, col.Visible)
		}
	}

	rec := c.do(http.MethodPost, "/api/clientes/columns/id", map[string]bool{"visible": false})
	assert.Equal(t, "BRW004", errorCode(t, rec))
}

func TestSelectPageAndClear(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	c.do(http.MethodPost, "/api/clientes/page", map[string]int{"index": 0, "size": 2})

	snap := c.snapshot(c.do(http.MethodPost, "/api/clientes/select-page", map[string]bool{"selected": true}))
	assert.Equal(t, 2, snap.SelectedCount)
	assert.Equal(t, []bool{true, true}, snap.Selected)

	snap = c.snapshot(c.do(http.MethodPost, "/api/clientes/clear-selection", nil))
	assert.Zero(t, snap.SelectedCount)
}

func TestMalformedBody(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	rec := c.do(http.MethodPost, "/api/clientes/query", map[string]string{"unexpected": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "REQ003", errorCode(t, rec))
}

func validForm() customer.Form {
	f := customer.NewForm()
	f.Kind = customer.KindIndividual
	f.Document = "123.456.789-09"
	f.Name = "Paula Souza"
	f.ContactName = "Paula Souza"
	f.Email = "paula@email.com"
	f.Phone = "(11) 91234-5678"
	f.CEP = "01310100"
	f.Street = "Avenida Paulista"
	f.Number = "200"
	f.District = "Bela Vista"
	f.City = "São Paulo"
	f.State = "SP"
	return f
}

func TestCreateCustomer_RefreshesEverySession(t *testing.T) {
	s := newTestServer(t, testConfig())
	a, b := newClient(t, s), newClient(t, s)
	b.do(http.MethodGet, "/api/clientes", nil)

	rec := a.do(http.MethodPost, "/api/clientes", validForm())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created customer.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "005", created.ID)

	assert.Equal(t, 5, a.snapshot(a.do(http.MethodGet, "/api/clientes", nil)).TotalAll)
	assert.Equal(t, 5, b.snapshot(b.do(http.MethodGet, "/api/clientes", nil)).TotalAll)
}

func TestCreateCustomer_ValidationErrors(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	f := validForm()
	f.Email = "not-an-email"
	f.Document = "111.111.111-11"

	rec := c.do(http.MethodPost, "/api/clientes", f)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CUS002", resp.Code)
	assert.Contains(t, resp.Fields, "email")
	assert.Contains(t, resp.Fields, "documento")

	c.htmx = true
	rec = c.do(http.MethodPost, "/api/clientes", f)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="field-error"`)
	assert.Contains(t, rec.Body.String(), `id="customer-form"`)
}

func TestUpdateCustomer(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	f := validForm()
	f.Name = "Paula Souza Lima"

	rec := c.do(http.MethodPut, "/api/clientes/002", f)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, "/api/clientes/002", nil)
	var got customer.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Paula Souza Lima", got.Name)

	rec = c.do(http.MethodPut, "/api/clientes/999", f)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "CUS001", errorCode(t, rec))
}

func TestUpdateCustomer_OmittedFieldsKeepStoredValues(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))

	rec := c.do(http.MethodPut, "/api/clientes/001", map[string]string{"telefone": "(11) 90000-0000"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got customer.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Active, "omitted ativo keeps the customer active")
	assert.Equal(t, "(11) 90000-0000", got.Phone)
	assert.Equal(t, "João Silva", got.Name)
}

func TestSelected_EmptyListsAreArrays(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	rec := c.do(http.MethodGet, "/api/clientes/selected", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ids":[],"customers":[]}`, rec.Body.String())
}

func TestDeleteCustomer_PrunesSelection(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	c.do(http.MethodPost, "/api/clientes/select/001", nil)

	rec := c.do(http.MethodDelete, "/api/clientes/001", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	snap := c.snapshot(c.do(http.MethodGet, "/api/clientes", nil))
	assert.Equal(t, 3, snap.TotalAll)
	assert.Zero(t, snap.SelectedCount)

	rec = c.do(http.MethodDelete, "/api/clientes/001", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSelected(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	c.do(http.MethodPost, "/api/clientes/select/002", nil)
	c.do(http.MethodPost, "/api/clientes/select/003", nil)

	rec := c.do(http.MethodPost, "/api/clientes/delete-selected", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp DeleteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Removed)

	snap := c.snapshot(c.do(http.MethodGet, "/api/clientes", nil))
	assert.Equal(t, []string{"001", "004"}, rowIDs(snap))

	c.htmx = true
	rec = c.do(http.MethodPost, "/api/clientes/delete-selected", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="customers-table"`)
}

func TestFillAddress(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	f := customer.NewForm()
	f.CEP = "01001-000"
	f.Number = "5"

	rec := c.do(http.MethodPost, "/api/clientes/form/address", f)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got customer.Form
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Praça da Sé", got.Street)
	assert.Equal(t, "5", got.Number)

	f.CEP = "0100"
	rec = c.do(http.MethodPost, "/api/clientes/form/address", f)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got.Street, "incomplete CEP does not trigger a lookup")
}

func TestLookupCEP(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))

	tests := []struct {
		cep    string
		status int
		code   string
	}{
		{"99999999", http.StatusNotFound, "CEP002"},
		{"88888888", http.StatusBadGateway, "CEP003"},
		{"123", http.StatusBadRequest, "CEP001"},
	}
	for _, tt := range tests {
		t.Run(tt.cep, func(t *testing.T) {
			rec := c.do(http.MethodGet, "/api/cep/"+tt.cep, nil)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}

	rec := c.do(http.MethodGet, "/api/cep/01001000", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var addr cep.Address
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &addr))
	assert.Equal(t, "SP", addr.State)
}

func TestNavigation(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	rec := c.do(http.MethodGet, "/api/navigation?path=/dashboard/clientes", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var groups []navigation.Group
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 8)
	assert.True(t, groups[1].Items[0].Active)
	assert.False(t, groups[0].Items[0].Active)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.RequestsPerMinute = 2
	c := newClient(t, newTestServer(t, cfg))

	c.do(http.MethodGet, "/api/clientes", nil)
	c.do(http.MethodGet, "/api/clientes", nil)
	rec := c.do(http.MethodGet, "/api/clientes", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE001", errorCode(t, rec))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimit_PageGetsPlainText(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.RequestsPerMinute = 1
	c := newClient(t, newTestServer(t, cfg))

	c.do(http.MethodGet, "/dashboard/clientes", nil)
	rec := c.do(http.MethodGet, "/dashboard/clientes", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "Too many requests (Code: RATE001). Please wait")
}

func TestHTMXErrorRendersAlert(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	c.htmx = true
	rec := c.do(http.MethodPost, "/api/clientes/sort", map[string]string{"column": "nope", "direction": "asc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="alert alert-error"`)
	assert.Contains(t, rec.Body.String(), "BRW002")
}

func TestAuditLogEndpoint(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig()))
	c.do(http.MethodDelete, "/api/clientes/004", nil)
	c.do(http.MethodPost, "/api/clientes", validForm())

	rec := c.do(http.MethodGet, "/api/clientes/history?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []core.AuditEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, core.ActionCustomerCreate, entries[0].Action)
	assert.Equal(t, "192.0.2.10", entries[0].IPAddress)
	assert.NotEmpty(t, entries[0].SessionID)

	rec = c.do(http.MethodGet, "/api/clientes/history?action=customer_delete", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"004"}, entries[0].CustomerIDs)

	rec = c.do(http.MethodGet, "/api/clientes/history?limit=x", nil)
	assert.Equal(t, "REQ003", errorCode(t, rec))
}
