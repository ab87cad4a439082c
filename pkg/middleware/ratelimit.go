package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"tickstream.com/pkg/common"
	"tickstream.com/pkg/logger"
	"tickstream.com/pkg/metrics"
	"tickstream.com/pkg/ratelimit"
)

func RateLimit(serviceName string, store *ratelimit.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := c.ClientIP() + ":" + route

		if !store.Allow(key) {
			metrics.RateLimitBlockTotal.WithLabelValues(serviceName, route, "token_bucket").Inc()

			// 限流属于“可控拒绝”，不要打堆栈（压测会炸日志）
			logger.Warn(c, "http rate limited",
				zap.String("request_id", common.RequestIDFromGin(c)),
				zap.String("ip", c.ClientIP()),
				zap.String("route", route),
			)
			common.Fail(c, http.StatusTooManyRequests, http.StatusTooManyRequests, "请求过于频繁")
			c.Abort()
			return
		}
		c.Next()
	}
}
