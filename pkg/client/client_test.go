package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bouncecure/config"
	"bouncecure/internal/apperror"
	"bouncecure/internal/directory"
	"bouncecure/internal/models"
	"bouncecure/internal/router"
	"bouncecure/internal/testutil"
)

func newServer(t *testing.T) (*httptest.Server, []models.Payment) {
	t.Helper()
	db := testutil.NewDB(t)
	seeded := testutil.SeedPayments(t, db)
	testutil.SeedUser(t, db, "ops@bouncecure.io", "correct-horse")
	cfg := &config.Config{
		Server: config.ServerConfig{Env: "test", RequestTimeout: 5 * time.Second, LoginRateLimit: 50, LoginWindow: time.Minute},
		JWT:    config.JWTConfig{Secret: "client-secret", Expiry: time.Hour, Issuer: "bouncecure"},
		Display: config.DisplayConfig{
			BaseCurrency: "USD",
			Rates:        map[string]decimal.Decimal{"INR": decimal.NewFromInt(75)},
		},
	}
	app := router.Setup(router.Deps{Config: cfg, DB: db, Log: zap.NewNop()})
	srv := httptest.NewServer(app.Engine)
	t.Cleanup(func() {
		srv.Close()
		app.Close()
	})
	return srv, seeded
}

func TestLoginFailureIsAPIError(t *testing.T) {
	srv, _ := newServer(t)
	c := New(srv.URL)

	s, err := c.Login(context.Background(), "ops@bouncecure.io", "wrong")
	assert.Nil(t, s)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, apperror.KindAuthenticationFailed, apiErr.Code)
	assert.Equal(t, apperror.MsgInvalidCredentials, apiErr.Message)
	assert.False(t, apiErr.Retryable)
}

func TestSessionFlow(t *testing.T) {
	srv, seeded := newServer(t)
	ctx := context.Background()
	s, err := New(srv.URL).Login(ctx, "ops@bouncecure.io", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, "ops@bouncecure.io", s.User.Email)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	succ, err := s.List(ctx, "succ")
	require.NoError(t, err)
	require.Len(t, succ, 1)
	assert.Equal(t, seeded[0].ID, succ[0].ID)
	assert.Equal(t, "$10.00 (750 INR)", succ[0].Display.AmountLabel)

	status := "Succeeded"
	v, err := s.Edit(ctx, seeded[1].ID, directory.Patch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Succeeded", v.Status)

	other := seeded[1].ID + 50
	_, err = s.Edit(ctx, seeded[1].ID, directory.Patch{ID: &other})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	require.NoError(t, s.Delete(ctx, seeded[2].ID))
	err = s.Delete(ctx, seeded[2].ID)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, apperror.KindNotFound, apiErr.Code)

	require.NoError(t, s.Logout(ctx))
	_, err = s.List(ctx, "")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestListFiltersLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"userId":42,"name":"Asha","email":"a@x.io","status":"Succeeded","currency":"INR","amount":"750"},
			{"id":2,"userId":7,"name":"Ben","email":"b@x.io","status":"pending","currency":"USD","amount":"19"}
		]`))
	}))
	defer srv.Close()

	s := &Session{client: New(srv.URL), Token: "t"}
	got, err := s.List(context.Background(), "PEND")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint(2), got[0].ID)
}

func TestNon2xxWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := &Session{client: New(srv.URL), Token: "t"}
	err := s.Delete(context.Background(), 1)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.True(t, apiErr.Retryable)
}
