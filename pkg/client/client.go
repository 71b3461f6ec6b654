// Package client is a Go API client for the payments dashboard backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bouncecure/internal/apperror"
	"bouncecure/internal/directory"
	"bouncecure/internal/models"
)

const DefaultTimeout = 15 * time.Second

// APIError is any non-2xx response. Callers must treat it as failure even
// when a body was returned.
type APIError struct {
	Status    int
	Code      apperror.Kind
	Message   string
	Retryable bool
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to one backend. It holds no credentials; those live on a
// Session.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client, including its timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Session is an authenticated operator. The token is passed explicitly on
// every call.
type Session struct {
	client    *Client
	Token     string
	ExpiresAt time.Time
	User      models.User
}

// Login exchanges credentials for a Session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out struct {
		Token     string      `json:"token"`
		ExpiresAt time.Time   `json:"expiresAt"`
		User      models.User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, errors.New("login response carried no token")
	}
	return &Session{client: c, Token: out.Token, ExpiresAt: out.ExpiresAt, User: out.User}, nil
}

// Logout revokes the session token on the server.
func (s *Session) Logout(ctx context.Context) error {
	return s.client.do(ctx, http.MethodPost, "/api/auth/logout", s.Token, nil, nil)
}

// List fetches every record the server returns and applies the same
// case-insensitive filter locally, so the result is correct whether or not
// the server filtered.
func (s *Session) List(ctx context.Context, search string) ([]directory.PaymentView, error) {
	path := "/api/payments"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var views []directory.PaymentView
	if err := s.client.do(ctx, http.MethodGet, path, s.Token, nil, &views); err != nil {
		return nil, err
	}
	if search == "" {
		return views, nil
	}
	out := make([]directory.PaymentView, 0, len(views))
	for i := range views {
		if directory.Matches(&views[i].Payment, search) {
			out = append(out, views[i])
		}
	}
	return out, nil
}

func (s *Session) Get(ctx context.Context, id uint) (*directory.PaymentView, error) {
	var v directory.PaymentView
	if err := s.client.do(ctx, http.MethodGet, paymentPath(id), s.Token, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Edit sends a partial update and returns the stored record.
func (s *Session) Edit(ctx context.Context, id uint, patch directory.Patch) (*directory.PaymentView, error) {
	var v directory.PaymentView
	if err := s.client.do(ctx, http.MethodPatch, paymentPath(id), s.Token, patch, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Delete removes a record. A missing record comes back as an *APIError with
// status 404.
func (s *Session) Delete(ctx context.Context, id uint) error {
	return s.client.do(ctx, http.MethodDelete, paymentPath(id), s.Token, nil, nil)
}

func paymentPath(id uint) string {
	return "/api/payments/" + strconv.FormatUint(uint64(id), 10)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body struct {
		Error     string        `json:"error"`
		Code      apperror.Kind `json:"code"`
		Retryable bool          `json:"retryable"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
		if body.Error != "" {
			apiErr.Message = body.Error
		}
		apiErr.Code = body.Code
		apiErr.Retryable = body.Retryable
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		apiErr.Retryable = true
	}
	return apiErr
}
