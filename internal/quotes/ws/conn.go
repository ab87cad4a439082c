package ws

import (
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"tickstream.com/internal/quotes/sub"
	"tickstream.com/internal/quotes/wsmetrics"
)

// Conn 一条客户端连接。每条连接最多持有一个活跃订阅；
// 重新 sub 会先取消旧订阅（取消后的订阅不可复用）。
type Conn struct {
	ws     *websocket.Conn
	send   chan []byte
	closed atomic.Bool

	mu  sync.Mutex
	sub *sub.Subscription // 当前订阅，可能为 nil
}

func newConn(ws *websocket.Conn, sendBuf int) *Conn {
	return &Conn{
		ws:   ws,
		send: make(chan []byte, sendBuf),
	}
}

// Offer 非阻塞投递：send 队列满就丢（慢客户端自己承担），内存有界
func (c *Conn) Offer(payload []byte) bool {
	if c.closed.Load() {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		wsmetrics.DroppedTotal.WithLabelValues("send_full").Inc()
		return false
	}
}

// swapSub 替换当前订阅，返回旧的（由调用方取消）
func (c *Conn) swapSub(s *sub.Subscription) *sub.Subscription {
	c.mu.Lock()
	old := c.sub
	c.sub = s
	c.mu.Unlock()
	return old
}
