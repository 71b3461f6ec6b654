package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"bouncecure/config"
	"bouncecure/internal/apperror"
	"bouncecure/internal/auth"
	"bouncecure/internal/domain"
	"bouncecure/internal/models"
)

const minPasswordLen = 8

// dummyHash is compared against when the email is unknown so that a miss costs
// the same as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("bouncecure-timing-pad"), bcrypt.DefaultCost)

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

type AuthService struct {
	cfg    *config.JWTConfig
	users  UserStore
	tokens auth.TokenStore
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(cfg *config.JWTConfig, users UserStore, tokens auth.TokenStore, log *zap.Logger) *AuthService {
	return &AuthService{cfg: cfg, users: users, tokens: tokens, log: log.Named("auth"), now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate checks an email/password pair and issues a bearer token. An
// unknown email and a wrong password produce the same AuthenticationFailed
// error; store failures are returned as they are.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.AuthenticationFailed()
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, apperror.AuthenticationFailed()
		}
		s.log.Error("credential lookup failed", zap.Error(err))
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.AuthenticationFailed()
	}

	token, claims, err := auth.GenerateAccessToken(s.cfg, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "issue token")
	}
	now := s.now()
	if err := s.users.TouchLastLogin(ctx, u.ID, now); err != nil {
		s.log.Warn("failed to record last login", zap.Uint("user_id", u.ID), zap.Error(err))
	} else {
		u.LastLoginAt = &now
	}
	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: u}, nil
}

// Logout revokes the token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	until := s.now().Add(s.cfg.Expiry)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.tokens.Revoke(ctx, claims.ID, until); err != nil {
		return apperror.Store("revoke token", err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.New(apperror.KindUnauthorized, "account no longer exists")
		}
		return nil, err
	}
	return u, nil
}

// CreateOperator registers a dashboard operator with a bcrypt-hashed password.
func (s *AuthService) CreateOperator(ctx context.Context, email, password, name, role string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.Validation("a valid email is required")
	}
	if len(password) < minPasswordLen {
		return nil, apperror.Validation("password must be at least %d characters", minPasswordLen)
	}
	if role == "" {
		role = domain.RoleAdmin
	}
	if role != domain.RoleAdmin && role != domain.RoleViewer {
		return nil, apperror.Validation("role must be %s or %s", domain.RoleAdmin, domain.RoleViewer)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "hash password")
	}
	u := &models.User{Email: email, Name: name, PasswordHash: string(hash), Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureOperator creates the operator unless one with that email exists.
func (s *AuthService) EnsureOperator(ctx context.Context, email, password, name string) (bool, error) {
	_, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return false, err
	}
	if _, err := s.CreateOperator(ctx, email, password, name, domain.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}
