package sse

import (
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"tickstream.com/internal/quotes/sub"
	"tickstream.com/pkg/logger"
)

// 心跳间隔：空集合订阅也要定期发注释帧，避免中间代理掐掉长连接
const heartbeatEvery = 15 * time.Second

// StreamHandler 把订阅引擎绑定到 text/event-stream 上。
// GET /api/stream?symbols=AAPL,MSFT
// 客户端断开（request context 结束）即触发订阅取消。
func StreamHandler(engine *sub.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		symbols := splitSymbols(c.Query("symbols"))

		s := engine.Subscribe(c.Request.Context(), symbols)
		defer s.Cancel()

		logger.Info(c, "sse stream opened",
			zap.String("sub_id", s.ID),
			zap.Strings("symbols", symbols),
		)

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no") // nginx 别缓冲

		hb := time.NewTicker(heartbeatEvery)
		defer hb.Stop()

		c.Stream(func(w io.Writer) bool {
			select {
			case ev, ok := <-s.Events():
				if !ok {
					return false // 序列已终止（订阅被取消）
				}
				c.SSEvent("update", ev)
				return true
			case <-hb.C:
				c.SSEvent("ping", time.Now().UnixMilli())
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}

func splitSymbols(q string) []string {
	if q == "" {
		return nil
	}
	parts := strings.Split(q, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
