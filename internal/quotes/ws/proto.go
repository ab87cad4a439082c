package ws

import "tickstream.com/internal/quotes/model"

// 客户端帧。type 决定语义：
//
//	"sub"    订阅：symbols 是标的集合（替换当前订阅）
//	"unsub"  退订当前订阅
//	"quote"  单标的报价（一问一答，id 用于关联应答）
//	"quotes" 批量报价（逐项降级，永不回 error 帧）
type ClientMsg struct {
	Type    string   `json:"type"`
	ID      string   `json:"id,omitempty"`
	Symbol  string   `json:"symbol,omitempty"`
	Symbols []string `json:"symbols,omitempty"`
}

// 服务端帧。type: "update" | "quote" | "quotes" | "subscribed" | "unsubscribed" | "error"
type ServerMsg struct {
	Type    string        `json:"type"`
	ID      string        `json:"id,omitempty"`    // 关联的请求 id
	SubID   string        `json:"subId,omitempty"` // 订阅句柄（不透明）
	Code    int           `json:"code,omitempty"`
	Message string        `json:"message,omitempty"`
	Update  *model.Update `json:"update,omitempty"`
	Quote   *model.Quote  `json:"quote,omitempty"`
	Quotes  []model.Quote `json:"quotes,omitempty"`
}
