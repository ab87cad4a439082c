package service

import (
	"context"
	"testing"

	"tickstream.com/internal/quotes/gen"
	"tickstream.com/internal/quotes/registry"
	"tickstream.com/pkg/xerr"
)

func testRegistry() *registry.Registry {
	return registry.New([]registry.Instrument{
		{Symbol: "AAPL", Name: "Apple Inc.", BasePrice: 180.0},
		{Symbol: "MSFT", Name: "Microsoft", BasePrice: 410.0},
	})
}

func TestGetQuote_PriceWithinBand(t *testing.T) {
	svc := NewQuoteService(testRegistry(), gen.NewRandSource())

	// baseline 180：价格必须落在 [171, 189]，涨跌幅在 [-5, 5]
	for i := 0; i < 1000; i++ {
		q, err := svc.GetQuote(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if q.Price < 171.0 || q.Price > 189.0 {
			t.Fatalf("price out of band: %v", q.Price)
		}
		if q.ChangePercent < -5 || q.ChangePercent > 5 {
			t.Fatalf("changePercent out of band: %v", q.ChangePercent)
		}
		if q.Symbol != "AAPL" || q.Currency != "USD" {
			t.Fatalf("bad quote identity: %+v", q)
		}
		if q.TsUnixMs <= 0 {
			t.Fatalf("timestamp not stamped: %+v", q)
		}
	}
}

func TestGetQuote_Rounding(t *testing.T) {
	// 确定性数值：直接验证舍入位数
	src := gen.FixedSource{Var: 0.031415, Pct: -2.346, Vol: 1}
	svc := NewQuoteService(testRegistry(), src)

	q, err := svc.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// 180 * 1.031415 = 185.6547 → 185.65
	if q.Price != 185.65 {
		t.Fatalf("price rounding want=185.65 got=%v", q.Price)
	}
	// change 保留 2 位，changePercent 保留 1 位
	if q.Change != -2.35 {
		t.Fatalf("change rounding want=-2.35 got=%v", q.Change)
	}
	if q.ChangePercent != -2.3 {
		t.Fatalf("changePercent rounding want=-2.3 got=%v", q.ChangePercent)
	}
}

func TestGetQuote_NotFound(t *testing.T) {
	svc := NewQuoteService(testRegistry(), gen.NewRandSource())

	_, err := svc.GetQuote(context.Background(), "BOGUS")
	if err == nil {
		t.Fatalf("BOGUS should fail")
	}
	if !xerr.IsNotFound(err) {
		t.Fatalf("want not-found error, got %v", err)
	}
	ce, _ := xerr.As(err)
	if ce.Symbol != "BOGUS" {
		t.Fatalf("error should carry the symbol, got %+v", ce)
	}
}

func TestGetQuotes_DegradePerItem(t *testing.T) {
	svc := NewQuoteService(testRegistry(), gen.NewRandSource())

	t.Run("mixed_batch", func(t *testing.T) {
		in := []string{"AAPL", "BOGUS", "AAPL"}
		out, err := svc.GetQuotes(context.Background(), in)
		if err != nil {
			t.Fatalf("batch must never fail outright: %v", err)
		}
		if len(out) != len(in) {
			t.Fatalf("batch length want=%d got=%d", len(in), len(out))
		}
		// 结果顺序 == 输入顺序，重复项保留
		for i := range in {
			if out[i].Symbol != in[i] {
				t.Fatalf("order broken at %d: want=%s got=%s", i, in[i], out[i].Symbol)
			}
		}
		if out[0].Price <= 0 || out[2].Price <= 0 {
			t.Fatalf("valid items must have positive price: %+v", out)
		}
		// 未知标的 → 零值报价占位
		if out[1].Price != 0 || out[1].Change != 0 || out[1].ChangePercent != 0 {
			t.Fatalf("BOGUS should degrade to zero quote: %+v", out[1])
		}
		if out[1].TsUnixMs <= 0 {
			t.Fatalf("zero quote still gets a timestamp: %+v", out[1])
		}
	})

	t.Run("empty_batch", func(t *testing.T) {
		out, err := svc.GetQuotes(context.Background(), nil)
		if err != nil {
			t.Fatalf("empty batch is not an error: %v", err)
		}
		if len(out) != 0 {
			t.Fatalf("empty in → empty out, got %d", len(out))
		}
	})

	t.Run("all_unknown", func(t *testing.T) {
		out, err := svc.GetQuotes(context.Background(), []string{"X", "Y"})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if len(out) != 2 {
			t.Fatalf("want 2 zero quotes, got %d", len(out))
		}
		for _, q := range out {
			if q.Price != 0 {
				t.Fatalf("unknown symbol must yield zero quote: %+v", q)
			}
		}
	})
}

func TestGetQuotes_Concurrent(t *testing.T) {
	svc := NewQuoteService(testRegistry(), gen.NewRandSource())

	// 解析服务无共享可变状态：并发调用不需要协调
	done := make(chan struct{})
	for i := 0; i < 16; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				out, _ := svc.GetQuotes(context.Background(), []string{"AAPL", "MSFT", "BOGUS"})
				if len(out) != 3 {
					panic("batch length broken under concurrency")
				}
			}
		}()
	}
	for i := 0; i < 16; i++ {
		<-done
	}
}
