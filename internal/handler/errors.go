package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bouncecure/internal/apperror"
)

var statusByKind = map[apperror.Kind]int{
	apperror.KindAuthenticationFailed:  http.StatusUnauthorized,
	apperror.KindUnauthorized:          http.StatusUnauthorized,
	apperror.KindForbidden:             http.StatusForbidden,
	apperror.KindNotFound:              http.StatusNotFound,
	apperror.KindValidationFailed:      http.StatusBadRequest,
	apperror.KindTransientStoreFailure: http.StatusServiceUnavailable,
	apperror.KindInternal:              http.StatusInternalServerError,
}

// respondError writes err as {"error","code","retryable"} with the status for
// its kind. Server-side failures are logged with the underlying cause.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	kind := apperror.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("request.route", c.FullPath()),
			zap.String("error.kind", string(kind)),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":     apperror.PublicMessage(err),
		"code":      kind,
		"retryable": apperror.Retryable(err),
	})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg, "code": apperror.KindValidationFailed, "retryable": false})
}
