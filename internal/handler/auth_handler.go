package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bouncecure/internal/domain"
	"bouncecure/internal/middleware"
	"bouncecure/internal/models"
	"bouncecure/internal/repository"
	"bouncecure/internal/service"
)

type AuthHandler struct {
	svc       *service.AuthService
	auditRepo *repository.AuditLogRepository
	log       *zap.Logger
}

func NewAuthHandler(svc *service.AuthService, auditRepo *repository.AuditLogRepository, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, auditRepo: auditRepo, log: log}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}
	res, err := h.svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.auditLog(c, res.User.ID, domain.AuditActionLogin, "auth", "")
	c.JSON(http.StatusOK, gin.H{
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"user":      res.User,
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.GetClaims(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.auditLog(c, middleware.GetUserID(c), domain.AuditActionLogout, "auth", "")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.svc.Me(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) auditLog(c *gin.Context, userID uint, action, resource, resourceID string) {
	recordAudit(c, h.auditRepo, h.log, userID, action, resource, resourceID)
}

// recordAudit stores an operator action. It runs detached from the request
// deadline and only logs on failure.
func recordAudit(c *gin.Context, repo *repository.AuditLogRepository, log *zap.Logger, userID uint, action, resource, resourceID string) {
	if repo == nil || userID == 0 {
		return
	}
	entry := &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	}
	if err := repo.Create(context.WithoutCancel(c.Request.Context()), entry); err != nil {
		log.Warn("audit log write failed", zap.String("action", action), zap.Error(err))
	}
}
