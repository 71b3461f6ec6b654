package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bouncecure/internal/directory"
	"bouncecure/internal/domain"
	"bouncecure/internal/middleware"
	"bouncecure/internal/repository"
	"bouncecure/internal/service"
)

const (
	maxPageSize = 200
	maxPage     = 1 << 20
)

type PaymentHandler struct {
	svc       *service.DirectoryService
	auditRepo *repository.AuditLogRepository
	log       *zap.Logger
}

func NewPaymentHandler(svc *service.DirectoryService, auditRepo *repository.AuditLogRepository, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, auditRepo: auditRepo, log: log}
}

// List handles GET /api/payments. Without page/limit every match is returned.
func (h *PaymentHandler) List(c *gin.Context) {
	q := service.ListQuery{Search: c.Query("search")}
	if c.Query("limit") != "" || c.Query("page") != "" {
		q.Page, q.Limit = parsePagination(c)
	}
	res, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Header("X-Total-Count", strconv.Itoa(res.Total))
	c.JSON(http.StatusOK, res.Items)
}

// Get handles GET /api/payments/:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := paymentID(c)
	if !ok {
		return
	}
	v, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Update handles PUT and PATCH /api/payments/:id. Both apply the body as a
// partial update.
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := paymentID(c)
	if !ok {
		return
	}
	var patch directory.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid payment body: "+err.Error())
		return
	}
	v, err := h.svc.Edit(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	recordAudit(c, h.auditRepo, h.log, middleware.GetUserID(c), domain.AuditActionPaymentEdit, "payment", c.Param("id"))
	c.JSON(http.StatusOK, v)
}

// Delete handles DELETE /api/payments/:id.
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := paymentID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	recordAudit(c, h.auditRepo, h.log, middleware.GetUserID(c), domain.AuditActionPaymentDelete, "payment", c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
}

func paymentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 || limit > maxPageSize {
		limit = 20
	}
	return page, limit
}
