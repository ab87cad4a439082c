package registry

// Instrument 一个可订阅标的的参考数据，注册表构建后不可变。
type Instrument struct {
	Symbol    string
	Name      string
	BasePrice float64
}

// Registry 静态标的表：进程启动时构建一次，之后只读，无需加锁。
type Registry struct {
	instruments map[string]Instrument
	symbols     []string // 保留插入顺序，方便展示/遍历
}

func New(list []Instrument) *Registry {
	r := &Registry{
		instruments: make(map[string]Instrument, len(list)),
		symbols:     make([]string, 0, len(list)),
	}
	for _, inst := range list {
		if inst.Symbol == "" || inst.BasePrice <= 0 {
			continue // 脏数据直接跳过，注册表只收合法条目
		}
		if _, ok := r.instruments[inst.Symbol]; !ok {
			r.symbols = append(r.symbols, inst.Symbol)
		}
		r.instruments[inst.Symbol] = inst
	}
	return r
}

// Default 内置标的表（参考基准价）。生产上可用配置覆盖。
func Default() *Registry {
	return New([]Instrument{
		{Symbol: "AAPL", Name: "Apple Inc.", BasePrice: 180.0},
		{Symbol: "GOOGL", Name: "Alphabet Inc.", BasePrice: 140.0},
		{Symbol: "MSFT", Name: "Microsoft Corporation", BasePrice: 410.0},
		{Symbol: "AMZN", Name: "Amazon.com Inc.", BasePrice: 175.0},
		{Symbol: "TSLA", Name: "Tesla Inc.", BasePrice: 250.0},
		{Symbol: "META", Name: "Meta Platforms Inc.", BasePrice: 480.0},
		{Symbol: "NVDA", Name: "NVIDIA Corporation", BasePrice: 880.0},
		{Symbol: "NFLX", Name: "Netflix Inc.", BasePrice: 610.0},
	})
}

// Lookup 查标的。唯一的"失败"形态就是查不到，没有其它错误。
func (r *Registry) Lookup(symbol string) (Instrument, bool) {
	inst, ok := r.instruments[symbol]
	return inst, ok
}

// Symbols 返回全部标的代码的副本
func (r *Registry) Symbols() []string {
	out := make([]string, len(r.symbols))
	copy(out, r.symbols)
	return out
}

func (r *Registry) Len() int {
	return len(r.instruments)
}
