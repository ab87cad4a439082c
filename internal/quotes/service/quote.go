package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"tickstream.com/internal/quotes/gen"
	"tickstream.com/internal/quotes/model"
	"tickstream.com/internal/quotes/registry"
	"tickstream.com/pkg/metrics"
	"tickstream.com/pkg/xerr"
)

// Currency 本域固定计价货币
const Currency = "USD"

// QuoteService 同步报价解析：注册表 + 数值生成器的组合。
// 无共享可变状态，可以被任意多个 goroutine 并发调用。
type QuoteService struct {
	reg *registry.Registry
	src gen.Source
}

func NewQuoteService(reg *registry.Registry, src gen.Source) *QuoteService {
	return &QuoteService{reg: reg, src: src}
}

// GetQuote 单标的解析。查不到返回 InstrumentNotFound。
func (s *QuoteService) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	inst, ok := s.reg.Lookup(symbol)
	if !ok {
		metrics.QuoteRequestTotal.WithLabelValues("single", "not_found").Inc()
		return model.Quote{}, xerr.NewNotFound(symbol)
	}
	metrics.QuoteRequestTotal.WithLabelValues("single", "ok").Inc()
	return s.buildQuote(inst), nil
}

// GetQuotes 批量解析。逐项降级：未知标的给零值报价，整批永不失败。
// 结果长度恒等于输入长度，顺序与输入一致（重复项也保留）。
func (s *QuoteService) GetQuotes(ctx context.Context, symbols []string) ([]model.Quote, error) {
	out := make([]model.Quote, len(symbols))
	if len(symbols) == 0 {
		return out, nil // 空输入 → 空输出，不是错误
	}

	// 每个标的独立 fan-out，按下标回填保证结果顺序 == 输入顺序
	g, _ := errgroup.WithContext(ctx)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			inst, ok := s.reg.Lookup(symbol)
			if !ok {
				// 降级：零值报价占位，保证批量长度不变
				out[i] = model.Quote{
					Symbol:   symbol,
					Currency: Currency,
					TsUnixMs: time.Now().UnixMilli(),
				}
				return nil
			}
			out[i] = s.buildQuote(inst)
			return nil
		})
	}
	_ = g.Wait() // 逐项降级语义下没有可传播的错误

	metrics.QuoteRequestTotal.WithLabelValues("batch", "ok").Inc()
	return out, nil
}

func (s *QuoteService) buildQuote(inst registry.Instrument) model.Quote {
	price := round(inst.BasePrice*(1+s.src.Variation()), 2)
	pct := s.src.ChangePercent()
	return model.Quote{
		Symbol:        inst.Symbol,
		Price:         price,
		Currency:      Currency,
		TsUnixMs:      time.Now().UnixMilli(),
		Change:        round(pct, 2),
		ChangePercent: round(pct, 1),
	}
}

// round 金额类字段统一走 decimal，避免 float 直接截断的精度坑
func round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
