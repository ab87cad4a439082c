package model

// Quote 单次解析出的即时报价。值对象：返回后不再修改。
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`         // 2 位小数
	Currency      string  `json:"currency"`      // 本域固定 "USD"
	TsUnixMs      int64   `json:"tsMs"`          // 解析时刻，epoch 毫秒
	Change        float64 `json:"change"`        // 2 位小数
	ChangePercent float64 `json:"changePercent"` // 1 位小数
}

// Update 订阅流里的一次行情 tick。独立值对象，不从 Quote 派生。
type Update struct {
	Symbol   string  `json:"symbol"`
	Price    float64 `json:"price"` // 2 位小数
	TsUnixMs int64   `json:"tsMs"`
	Volume   int64   `json:"volume"` // [0, 1_000_000)
}
