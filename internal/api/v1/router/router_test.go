package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gameon/internal/api/v1/dto"
	"gameon/internal/catalog"
	"gameon/internal/model"
	"gameon/internal/service"
	"gameon/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t   *testing.T
	srv *httptest.Server
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()
	h := NewHandler(Deps{
		Store:         store.NewMemoryStore(),
		Catalog:       catalog.Default(),
		Location:      time.UTC,
		Venue:         service.Venue{Name: "Gameon Den", Address: "Avadi"},
		SigningSecret: "test-secret",
		Registry:      prometheus.NewRegistry(),
	}, zerolog.Nop())
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &apiClient{t: t, srv: srv}
}

func (c *apiClient) do(method, path, token string, body any) *http.Response {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.srv.URL+path, r)
	require.NoError(c.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (c *apiClient) login(username, password string) string {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/v1/auth/login", "", dto.LoginRequestDTO{Username: username, Password: password})
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponseDTO
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Token
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func billRequest() map[string]any {
	return map[string]any{
		"customerName":          "John",
		"additionalPlayerNames": []string{"Jane"},
		"contactNumber":         "98400",
		"age":                   24,
		"gameZoneId":            "ps5",
		"tierId":                "dual",
		"durationHours":         2,
		"discount":              50,
		"paymentMethod":         "UPI",
	}
}

func TestLoginFlow(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(http.MethodPost, "/v1/auth/login", "", dto.LoginRequestDTO{Username: "staff", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = api.do(http.MethodPost, "/v1/auth/login", "", map[string]string{"username": "staff"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	token := api.login("staff", "password")

	resp = api.do(http.MethodGet, "/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[dto.SessionUserDTO](t, resp)
	assert.Equal(t, "user-2", me.ID)
	assert.Equal(t, "staff", me.Role)

	resp = api.do(http.MethodPost, "/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = api.do(http.MethodGet, "/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnauthenticatedRequests(t *testing.T) {
	api := newTestAPI(t)
	for _, path := range []string{"/v1/bills", "/v1/catalog", "/v1/users", "/v1/bills/stats"} {
		resp := api.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestBillLifecycle(t *testing.T) {
	api := newTestAPI(t)
	staff := api.login("staff", "password")
	admin := api.login("1111", "1111")

	resp := api.do(http.MethodGet, "/v1/catalog", staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cat := decode[dto.CatalogResponseDTO](t, resp)
	assert.Len(t, cat.Zones, 2)
	assert.Len(t, cat.Durations, 24)

	resp = api.do(http.MethodPost, "/v1/bills", staff, billRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	bill := decode[model.Bill](t, resp)
	assert.Equal(t, "1", bill.ID)
	assert.Equal(t, "270", bill.FinalAmount.String())
	assert.Equal(t, "user-2", bill.CreatedBy)

	bad := billRequest()
	bad["gameZoneId"] = "xbox"
	resp = api.do(http.MethodPost, "/v1/bills", staff, bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	bad = billRequest()
	bad["paymentMethod"] = "Cheque"
	resp = api.do(http.MethodPost, "/v1/bills", staff, bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.do(http.MethodGet, "/v1/bills?search=jane&zone=ps5", staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Bill](t, resp), 1)

	resp = api.do(http.MethodGet, "/v1/bills?date=May-01", staff, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.do(http.MethodGet, "/v1/bills/1", staff, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = api.do(http.MethodGet, "/v1/bills/99", staff, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = api.do(http.MethodGet, "/v1/bills/stats", staff, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = api.do(http.MethodGet, "/v1/bills/stats", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[service.DailyStats](t, resp)
	assert.Equal(t, 1, stats.BillsTodayCount)

	resp = api.do(http.MethodDelete, "/v1/bills/1", staff, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = api.do(http.MethodDelete, "/v1/bills/1", admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = api.do(http.MethodDelete, "/v1/bills/1", admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = api.do(http.MethodGet, "/v1/bills/1", staff, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportsAndReceipts(t *testing.T) {
	api := newTestAPI(t)
	staff := api.login("staff", "password")

	resp := api.do(http.MethodPost, "/v1/bills", staff, billRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = api.do(http.MethodGet, "/v1/bills/export.csv", staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "billing_records_")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(string(body), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Bill ID,Date,"))
	assert.True(t, strings.HasSuffix(lines[1], ",320.00,50.00,270.00,UPI"))

	resp = api.do(http.MethodGet, "/v1/bills/1/receipt", staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	receipt := decode[service.Receipt](t, resp)
	assert.Equal(t, "Gameon Den", receipt.VenueName)
	assert.Equal(t, "98400 (John)", receipt.Contact)

	resp = api.do(http.MethodGet, "/v1/bills/1/receipt.pdf", staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdf, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	resp = api.do(http.MethodPost, "/v1/bills/1/receipt/archive", staff, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp = api.do(http.MethodPost, "/v1/bills/export/archive", staff, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestUserManagement(t *testing.T) {
	api := newTestAPI(t)
	staff := api.login("staff", "password")
	admin := api.login("1111", "1111")

	resp := api.do(http.MethodGet, "/v1/users", staff, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.do(http.MethodGet, "/v1/users", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.UserResponseDTO](t, resp), 2)

	resp = api.do(http.MethodPost, "/v1/users", admin, dto.UserWriteDTO{Username: "desk", Password: "pw", Role: "owner"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.do(http.MethodPost, "/v1/users", admin, dto.UserWriteDTO{Username: "desk", Password: "pw", Role: "staff"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.UserResponseDTO](t, resp)
	assert.True(t, strings.HasPrefix(created.ID, "user-"))

	resp = api.do(http.MethodPut, "/v1/users/user-1", admin, dto.UserWriteDTO{Username: "1111", Password: "1111", Role: "staff"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = api.do(http.MethodDelete, "/v1/users/user-1", admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = api.do(http.MethodPut, "/v1/users/user-404", admin, dto.UserWriteDTO{Username: "a", Password: "b", Role: "staff"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Promoting staff takes effect on the open session.
	resp = api.do(http.MethodPut, "/v1/users/user-2", admin, dto.UserWriteDTO{Username: "staff", Password: "password", Role: "admin"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = api.do(http.MethodGet, "/v1/users", staff, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = api.do(http.MethodDelete, "/v1/users/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = api.do(http.MethodPost, "/v1/auth/login", "", dto.LoginRequestDTO{Username: "desk", Password: "pw"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOperationalEndpoints(t *testing.T) {
	api := newTestAPI(t)
	staff := api.login("staff", "password")
	resp := api.do(http.MethodPost, "/v1/bills", staff, billRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = api.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = api.do(http.MethodGet, "/v1/swagger.json", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	resp = api.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `bills_created_total{payment_method="UPI",zone="ps5"} 1`)
	assert.Contains(t, string(body), `login_attempts_total{result="success"} 1`)

	resp = api.do(http.MethodGet, "/api/bills", "", nil)
	assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
	assert.Equal(t, "/v1/bills", resp.Header.Get("Location"))
}
