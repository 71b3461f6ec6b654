package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bouncecure/config"
	"bouncecure/internal/domain"
	"bouncecure/internal/models"
	"bouncecure/internal/testutil"
)

type apiFixture struct {
	app      *App
	db       *gorm.DB
	payments []models.Payment
}

func newFixture(t *testing.T, opts ...func(*config.Config)) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	payments := testutil.SeedPayments(t, db)
	testutil.SeedUser(t, db, "ops@bouncecure.io", "correct-horse")
	cfg := &config.Config{
		Server: config.ServerConfig{Env: "test", RequestTimeout: 5 * time.Second, LoginRateLimit: 3, LoginWindow: time.Minute},
		JWT:    config.JWTConfig{Secret: "router-secret", Expiry: time.Hour, Issuer: "bouncecure"},
		Display: config.DisplayConfig{
			BaseCurrency: "USD",
			Rates:        map[string]decimal.Decimal{"INR": decimal.NewFromInt(75)},
		},
		CORS: config.CORSConfig{Origins: []string{"http://localhost:5173"}},
	}
	for _, o := range opts {
		o(cfg)
	}
	app := Setup(Deps{Config: cfg, DB: db, Log: zap.NewNop()})
	t.Cleanup(app.Close)
	return &apiFixture{app: app, db: db, payments: payments}
}

func (f *apiFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.app.Engine.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) login(t *testing.T) string {
	t.Helper()
	w := f.do(http.MethodPost, "/api/auth/login", "", `{"email":"ops@bouncecure.io","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

type paymentJSON struct {
	ID       uint   `json:"id"`
	Status   string `json:"status"`
	Currency string `json:"currency"`
	Display  struct {
		Amount      decimal.Decimal `json:"amount"`
		StatusClass string          `json:"statusClass"`
	} `json:"display"`
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/auth/login", "", `{"email":"ops@bouncecure.io","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")

	w = f.do(http.MethodPost, "/api/auth/login", "", `{"email":"ghost@bouncecure.io","password":"correct-horse"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")

	w = f.do(http.MethodPost, "/api/auth/login", "", `{"email":"ops@bouncecure.io"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRateLimited(t *testing.T) {
	f := newFixture(t)
	body := `{"email":"ops@bouncecure.io","password":"nope"}`
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/auth/login", "", body).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, f.do(http.MethodPost, "/api/auth/login", "", body).Code)
}

func loginFrom(f *apiFixture, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"ops@bouncecure.io","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	w := httptest.NewRecorder()
	f.app.Engine.ServeHTTP(w, req)
	return w.Code
}

func TestLoginRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	f := newFixture(t)
	limited := 0
	for i := 0; i < 20; i++ {
		if loginFrom(f, "10.0.0."+strconv.Itoa(i)) == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 17, limited)
}

func TestLoginRateLimitHonorsTrustedProxy(t *testing.T) {
	// httptest requests arrive from 192.0.2.1.
	f := newFixture(t, func(c *config.Config) { c.Server.TrustedProxies = []string{"192.0.2.1"} })
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusUnauthorized, loginFrom(f, "10.0.0."+strconv.Itoa(i)))
	}
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusUnauthorized, loginFrom(f, "10.0.1.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, loginFrom(f, "10.0.1.1"))
}

func TestPaymentsRequireAuth(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/payments", "", "").Code)
}

func TestListPayments(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	w := f.do(http.MethodGet, "/api/payments?search=succ", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Total-Count"))
	var list []paymentJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, f.payments[0].ID, list[0].ID)
	assert.Equal(t, "INR", list[0].Currency)
	assert.True(t, list[0].Display.Amount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, string(domain.StatusSuccess), list[0].Display.StatusClass)

	w = f.do(http.MethodGet, "/api/payments?page=1&limit=2", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3", w.Header().Get("X-Total-Count"))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	w = f.do(http.MethodGet, "/api/payments?page=4611686018427387904&limit=4", token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "3", w.Header().Get("X-Total-Count"))
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestEditPayment(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)
	id := f.payments[1].ID
	path := "/api/payments/" + itoa(id)

	w := f.do(http.MethodPatch, path, token, `{"status":"Succeeded"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got paymentJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Succeeded", got.Status)

	w = f.do(http.MethodPut, path, token, `{"id":999,"status":"failed"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPut, path, token, `{"discount":150}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPatch, "/api/payments/9999", token, `{"status":"failed"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var audits int64
	require.NoError(t, f.db.Model(&models.AuditLog{}).Where("action = ?", domain.AuditActionPaymentEdit).Count(&audits).Error)
	assert.Equal(t, int64(1), audits)
}

func TestDeletePayment(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)
	path := "/api/payments/" + itoa(f.payments[1].ID)

	w := f.do(http.MethodDelete, path, token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"deleted"`)

	w = f.do(http.MethodDelete, path, token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"NOT_FOUND"`)

	w = f.do(http.MethodGet, "/api/payments", token, "")
	assert.Equal(t, "2", w.Header().Get("X-Total-Count"))
}

func TestViewerCannotWrite(t *testing.T) {
	f := newFixture(t)
	_, err := f.app.Auth.CreateOperator(context.Background(), "viewer@bouncecure.io", "viewer-pass", "Viewer", domain.RoleViewer)
	require.NoError(t, err)
	w := f.do(http.MethodPost, "/api/auth/login", "", `{"email":"viewer@bouncecure.io","password":"viewer-pass"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/payments", body.Token, "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, "/api/payments/"+itoa(f.payments[0].ID), body.Token, "").Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/auth/me", token, "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/auth/logout", token, "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/auth/me", token, "").Code)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"up"`)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/payments", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	w := httptest.NewRecorder()
	f.app.Engine.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
