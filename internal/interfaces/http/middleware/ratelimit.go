package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centrex-inc/centrex/internal/infrastructure/ratelimit"
	"github.com/centrex-inc/centrex/internal/shared/logger"
	"github.com/centrex-inc/centrex/internal/shared/utils"
)

// RateLimit enforces a per-IP limit on the wrapped routes. Apply runs are
// the expensive operation here: each one locks the cluster and reloads the
// switch, so the limiter sits in front of them. When the limiter backend is
// unavailable the request passes; an unreachable Redis must not take the
// portal down with it.
func RateLimit(limiter ratelimit.RateLimiter, limit ratelimit.Limit, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP(), limit)
		if err != nil {
			log.Warnw("rate limiter unavailable, allowing request",
				"client_ip", c.ClientIP(), "error", err)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
