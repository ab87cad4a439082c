package gen

import "math/rand"

// MaxVolume 单 tick 成交量上界（不含）
const MaxVolume = 1_000_000

// Source：可插拔的行情数值生成能力。
// 实现必须支持并发调用（纯函数式，或内部自己同步）。
// 上线接真实行情时换一个实现即可，核心逻辑不动。
type Source interface {
	// Variation 价格波动系数，范围 [-0.05, 0.05]
	Variation() float64
	// ChangePercent 涨跌幅（百分比），范围 [-5, 5]
	ChangePercent() float64
	// Volume 成交量，范围 [0, MaxVolume)
	Volume() int64
}

// RandSource 默认实现：均匀随机。
// math/rand 包级函数本身就是并发安全的，这里无需再加锁。
type RandSource struct{}

func NewRandSource() RandSource { return RandSource{} }

func (RandSource) Variation() float64 {
	return rand.Float64()*0.1 - 0.05
}

func (RandSource) ChangePercent() float64 {
	return rand.Float64()*10 - 5
}

func (RandSource) Volume() int64 {
	return rand.Int63n(MaxVolume)
}

// FixedSource 确定性实现，测试注入用。
type FixedSource struct {
	Var float64
	Pct float64
	Vol int64
}

func (f FixedSource) Variation() float64     { return f.Var }
func (f FixedSource) ChangePercent() float64 { return f.Pct }
func (f FixedSource) Volume() int64          { return f.Vol }
