package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopcart/internal/domain"
)

func success(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"status": "success", "data": data})
}

// fail turns a service error into an error notification.
func fail(c *gin.Context, logger *zap.Logger, err error) {
	var derr *domain.Error
	switch {
	case errors.As(err, &derr):
		body := gin.H{"status": "error", "kind": derr.Kind, "message": derr.Error()}
		if derr.Limit != 0 {
			body["limit"] = derr.Limit
		}
		c.JSON(statusFor(derr.Kind), body)
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "kind": "InvalidInput", "message": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "kind": domain.KindNotFound, "message": err.Error()})
	default:
		requestLogger(c, logger).Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "kind": "Internal", "message": "internal error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"status": "error", "kind": "InvalidInput", "message": message})
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindOutOfStock, domain.KindStockExceeded, domain.KindDuplicateCode:
		return http.StatusConflict
	case domain.KindEmptyCart, domain.KindInvalidRange, domain.KindCouponRejected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func requestLogger(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if v, ok := c.Get("logger"); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return fallback
}
