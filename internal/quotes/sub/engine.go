package sub

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"tickstream.com/internal/quotes/gen"
	"tickstream.com/internal/quotes/model"
	"tickstream.com/internal/quotes/registry"
	"tickstream.com/pkg/safe"
)

// DefaultCadence 默认推送节奏：每秒一个 tick（本设计里不开放给消费者配置）
const DefaultCadence = time.Second

// Engine 订阅引擎：每个订阅一条独立的发射循环。
// 订阅之间不共享任何可变状态，只共享只读注册表和并发安全的生成器。
type Engine struct {
	reg     *registry.Registry
	src     gen.Source
	cadence time.Duration
}

func NewEngine(reg *registry.Registry, src gen.Source, cadence time.Duration) *Engine {
	if cadence <= 0 {
		cadence = DefaultCadence
	}
	return &Engine{reg: reg, src: src, cadence: cadence}
}

// Subscription 一次活跃订阅。生命周期：Active → Cancelled，没有暂停态。
// 取消后不可复用：重订阅必须走一次新的 Subscribe。
type Subscription struct {
	ID      string
	symbols []string // 选择用的去重集合
	events  chan model.Update
	cancel  context.CancelFunc
}

// Events 抽象发射序列：惰性、无限（只因取消而终止）。
// 循环退出时 channel 被关闭，消费者以 channel 关闭感知终止。
func (s *Subscription) Events() <-chan model.Update {
	return s.events
}

// Cancel 幂等：重复调用是 no-op。触发后循环立刻停表退出，
// 最多还有一条已在途的事件可被读到。
func (s *Subscription) Cancel() {
	s.cancel()
}

// Subscribe 建立订阅并启动发射循环。空集合/全无效集合不报错：
// 这样的订阅永远不发事件，直到被取消（见 tick 的静默跳过）。
// ctx 是接入层的连接上下文：连接断开等价于取消。
func (e *Engine) Subscribe(ctx context.Context, symbols []string) *Subscription {
	if ctx == nil {
		ctx = context.Background()
	}
	cctx, cancel := context.WithCancel(ctx)

	s := &Subscription{
		ID:      uuid.NewString(),
		symbols: dedup(symbols),
		// 缓冲固定 1 格：最多一条在途事件，消费者不拉就丢 tick，
		// 内存永远有界
		events: make(chan model.Update, 1),
		cancel: cancel,
	}

	SubsOpenTotal.Inc()
	SubsActive.Inc()
	safe.GoCtx(cctx, func(ctx context.Context) {
		e.run(ctx, s)
	})
	return s
}

func (e *Engine) run(ctx context.Context, s *Subscription) {
	defer func() {
		SubsActive.Dec()
		close(s.events) // 终止信号：取消之后消费者最多再读到一条在途事件
	}()

	ticker := time.NewTicker(e.cadence)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ev, ok := e.nextUpdate(s.symbols)
			if !ok {
				// 未知标的或空集合：本 tick 静默跳过，等下一拍
				TicksSkippedTotal.Inc()
				continue
			}
			select {
			case s.events <- ev:
				EventsTotal.Inc()
			default:
				// 消费者没在拉：丢弃本 tick（at-most-once），绝不无界缓冲
				DroppedTotal.Inc()
			}
		}
	}
}

// nextUpdate 每拍从订阅集合随机挑一个标的发一条（不是每标的一条）
func (e *Engine) nextUpdate(symbols []string) (model.Update, bool) {
	if len(symbols) == 0 {
		return model.Update{}, false
	}
	symbol := symbols[rand.Intn(len(symbols))]
	inst, ok := e.reg.Lookup(symbol)
	if !ok {
		return model.Update{}, false
	}

	price, _ := decimal.NewFromFloat(inst.BasePrice * (1 + e.src.Variation())).Round(2).Float64()
	return model.Update{
		Symbol:   inst.Symbol,
		Price:    price,
		TsUnixMs: time.Now().UnixMilli(),
		Volume:   e.src.Volume(),
	}, true
}

// dedup 保序去重：订阅集合里重复项不影响选择概率
func dedup(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
