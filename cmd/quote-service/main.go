package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	qconfig "tickstream.com/internal/quotes/config"
	"tickstream.com/internal/quotes/gen"
	qhttp "tickstream.com/internal/quotes/http"
	"tickstream.com/internal/quotes/registry"
	"tickstream.com/internal/quotes/service"
	"tickstream.com/internal/quotes/sub"
	"tickstream.com/internal/quotes/ws"
	vipConfig "tickstream.com/pkg/config"
	"tickstream.com/pkg/logger"
	"tickstream.com/pkg/metrics"
	"tickstream.com/pkg/safe"
)

const serviceName = "quote-service"

func main() {
	// 1. 加载配置
	var cfg = &qconfig.QuoteConfig{}
	if _, err := vipConfig.LoadAndWatch(serviceName, cfg); err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}

	// 2. 日志 + 指标
	logger.Init(serviceName, cfg.Log.Level)
	defer logger.Sync()
	metrics.MustRegister()

	// 3. 标的表：配置优先，否则用内置表
	reg := registry.Default()
	if len(cfg.Instruments) > 0 {
		list := make([]registry.Instrument, 0, len(cfg.Instruments))
		for _, it := range cfg.Instruments {
			list = append(list, registry.Instrument{
				Symbol:    it.Symbol,
				Name:      it.Name,
				BasePrice: it.BasePrice,
			})
		}
		reg = registry.New(list)
	}

	// 4. 依赖注入 (Layered Architecture)
	src := gen.NewRandSource()
	svc := service.NewQuoteService(reg, src)
	engine := sub.NewEngine(reg, src, time.Duration(cfg.Stream.CadenceMs)*time.Millisecond)

	// 5. 根 context：收到信号就整体撤下（所有订阅随连接一起取消）
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wsServer := ws.NewServer(ctx, svc, engine)
	httpServer := qhttp.NewRouter(ctx, cfg, svc, engine, wsServer)

	safe.Go(func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve failed: %v", err)
		}
	})
	fmt.Printf("🚀 Quote Service is running on %s (instruments=%d)\n", cfg.HTTP.Addr, reg.Len())

	<-ctx.Done()

	// 6. 优雅退出
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	logger.Info(context.Background(), "quote service stopped")
}
