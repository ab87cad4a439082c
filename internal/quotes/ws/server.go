package ws

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"
	"tickstream.com/internal/quotes/service"
	"tickstream.com/internal/quotes/sub"
	"tickstream.com/internal/quotes/wsmetrics"
	"tickstream.com/pkg/logger"
	"tickstream.com/pkg/safe"
	"tickstream.com/pkg/xerr"
)

// Server 把订阅引擎的抽象发射序列绑定到 websocket 上：
// 核心只产出 Update 序列，这里只做帧编码和取消信号的透传。
type Server struct {
	svc    *service.QuoteService
	engine *sub.Engine

	Upgrader websocket.Upgrader
	ctx      context.Context

	SendBuf int // per-conn send chan size
	// 超时参数（默认值够用）
	PongWait   time.Duration
	PingPeriod time.Duration
	WriteWait  time.Duration
	ReadLimit  int64
}

func NewServer(ctx context.Context, svc *service.QuoteService, engine *sub.Engine) *Server {
	return &Server{
		svc:    svc,
		engine: engine,
		ctx:    ctx,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // 网关层做 Origin 校验
		},
		SendBuf:    256,
		PongWait:   60 * time.Second,
		PingPeriod: 30 * time.Second,
		WriteWait:  5 * time.Second,
		ReadLimit:  4 << 10,
	}
}

func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	wsmetrics.ConnOpenTotal.Inc()
	wsmetrics.Conns.Inc()

	c := newConn(wsConn, s.SendBuf)
	// 连接级 context：连接断开 == 订阅取消
	cctx, cancel := context.WithCancel(s.ctx)
	go s.writePump(cctx, cancel, c)
	go s.readPump(cctx, cancel, c)
}

func (s *Server) readPump(ctx context.Context, cancel context.CancelFunc, c *Conn) {
	defer func() {
		cancel() // 撤掉连接上的订阅循环
		if old := c.swapSub(nil); old != nil {
			old.Cancel()
		}
		c.closed.Store(true)
		_ = c.ws.Close()
		wsmetrics.Conns.Dec()
	}()

	c.ws.SetReadLimit(s.ReadLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(s.PongWait))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(s.PongWait))
		return nil
	})
	c.ws.SetCloseHandler(func(code int, text string) error {
		_ = c.ws.SetReadDeadline(time.Now()) // 让 ReadMessage 立刻返回
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		_, b, err := c.ws.ReadMessage()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				wsmetrics.PongTimeoutTotal.Inc()
			}
			return
		}
		var msg ClientMsg
		if json.Unmarshal(b, &msg) != nil {
			c.Offer(encodeError("", xerr.NewInvalidRequest("malformed frame")))
			continue
		}
		s.dispatch(ctx, c, msg)
	}
}

func (s *Server) dispatch(ctx context.Context, c *Conn, msg ClientMsg) {
	switch msg.Type {
	case "sub":
		// 替换式订阅：旧订阅取消，新订阅全新状态（不可恢复已取消的）
		next := s.engine.Subscribe(ctx, msg.Symbols)
		if old := c.swapSub(next); old != nil {
			old.Cancel()
		}
		safe.GoCtx(ctx, func(ctx context.Context) {
			// 从抽象序列拉事件 → 编码成帧投递；序列关闭即结束
			for ev := range next.Events() {
				c.Offer(encodeUpdate(ev))
			}
		})
		c.Offer(encodeSubscribed(msg.ID, next.ID))

	case "unsub":
		if old := c.swapSub(nil); old != nil {
			old.Cancel()
		}
		c.Offer(encodeUnsubscribed(msg.ID))

	case "quote":
		q, err := s.svc.GetQuote(ctx, msg.Symbol)
		if err != nil {
			// 单标的未知 → 本协议的 not-found 信令（error 帧）
			c.Offer(encodeError(msg.ID, err))
			return
		}
		c.Offer(encodeQuote(msg.ID, q))

	case "quotes":
		// 批量永不回 error 帧：逐项降级
		qs, _ := s.svc.GetQuotes(ctx, msg.Symbols)
		c.Offer(encodeQuotes(msg.ID, qs))

	default:
		c.Offer(encodeError(msg.ID, xerr.NewInvalidRequest("unknown frame type: "+msg.Type)))
	}
}

func (s *Server) writePump(ctx context.Context, cancel context.CancelFunc, c *Conn) {
	ticker := time.NewTicker(s.PingPeriod)
	defer func() {
		cancel()
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(s.WriteWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				wsmetrics.WriteErrorsTotal.Inc()
				logger.Debug(ctx, "ws write error", zap.Error(err))
				return
			}
			wsmetrics.MsgsOutTotal.Inc()
			wsmetrics.BytesOutTotal.Add(float64(len(payload)))

		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(s.WriteWait)); err != nil {
				return
			}
			wsmetrics.PingSentTotal.Inc()

		case <-ctx.Done():
			return
		}
	}
}
