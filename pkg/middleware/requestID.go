package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"tickstream.com/pkg/common"
)

func ReqId() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(common.HeaderRequestID)
		if rid == "" {
			rid = common.New()
		}
		c.Set(common.CtxKeyRequestID, rid)
		// 将 request id 写入 request context，方便订阅引擎等下游读取
		ctx := context.WithValue(c.Request.Context(), common.CtxKeyRequestID, rid)
		c.Request = c.Request.WithContext(ctx)
		c.Header(common.HeaderRequestID, rid)
		c.Next()
	}
}
