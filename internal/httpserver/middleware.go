package httpserver

import (
	"context"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopcart/internal/logging"
)

type ctxKey string

const shopCtxKey ctxKey = "shopKey"

var shopKeyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// shopMiddleware validates :shopKey and stores it, with a scoped logger, on
// the request context.
func shopMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("shopKey")
		if !shopKeyPattern.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"kind":    "InvalidInput",
				"message": "shop key must be 1-64 letters, digits, '-' or '_'",
			})
			return
		}
		ctx := context.WithValue(c.Request.Context(), shopCtxKey, key)
		c.Request = c.Request.WithContext(ctx)
		c.Set("logger", logging.WithShop(logger, key))
		c.Next()
	}
}

func shopKeyFrom(c *gin.Context) string {
	if v, ok := c.Request.Context().Value(shopCtxKey).(string); ok {
		return v
	}
	return c.Param("shopKey")
}
