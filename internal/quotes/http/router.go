package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprom "github.com/zsais/go-gin-prometheus"
	"golang.org/x/time/rate"
	qconfig "tickstream.com/internal/quotes/config"
	"tickstream.com/internal/quotes/httpapi"
	"tickstream.com/internal/quotes/service"
	"tickstream.com/internal/quotes/sse"
	"tickstream.com/internal/quotes/sub"
	"tickstream.com/internal/quotes/ws"
	"tickstream.com/pkg/middleware"
	"tickstream.com/pkg/ratelimit"
)

func NewRouter(ctx context.Context, cfg *qconfig.QuoteConfig, svc *service.QuoteService, engine *sub.Engine, wsServer *ws.Server) *http.Server {
	// 限流
	rps := cfg.RateLimit.RPS
	if rps <= 0 {
		rps = 100
	}
	burst := cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 200
	}
	store := ratelimit.NewStore(rate.Limit(rps), burst, 10*time.Minute)
	store.StartJanitor(ctx, time.Minute)

	// 监控
	r := gin.New()
	p := ginprom.NewPrometheus("tickstream")
	p.Use(r)

	r.Use(
		middleware.ReqId(),
		cors.Default(),
		middleware.Recover(),
		middleware.RateLimit(cfg.Name, store),
	)

	api := r.Group("/api")
	{
		h := httpapi.NewQuote(svc)
		api.GET("/quote/:symbol", h.GetQuote)
		api.GET("/quotes", h.GetQuotes)
		// 文本事件流绑定（chunked text/event-stream）
		api.GET("/stream", sse.StreamHandler(engine))
	}

	// 持久双向流绑定（websocket）
	r.GET("/ws", gin.WrapF(wsServer.ServeWS))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		// 注意：不能设 WriteTimeout，/api/stream 和 /ws 是长连接
		MaxHeaderBytes: 1 << 20,
	}
}
