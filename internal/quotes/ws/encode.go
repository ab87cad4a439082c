package ws

import (
	"github.com/segmentio/encoding/json"
	"tickstream.com/internal/quotes/model"
	"tickstream.com/pkg/xerr"
)

// 出口帧统一在这里编码（热路径，用 segmentio/encoding）

func encodeUpdate(ev model.Update) []byte {
	b, _ := json.Marshal(ServerMsg{Type: "update", Update: &ev})
	return b
}

func encodeQuote(id string, q model.Quote) []byte {
	b, _ := json.Marshal(ServerMsg{Type: "quote", ID: id, Quote: &q})
	return b
}

func encodeQuotes(id string, qs []model.Quote) []byte {
	b, _ := json.Marshal(ServerMsg{Type: "quotes", ID: id, Quotes: qs})
	return b
}

func encodeSubscribed(id, subID string) []byte {
	b, _ := json.Marshal(ServerMsg{Type: "subscribed", ID: id, SubID: subID})
	return b
}

func encodeUnsubscribed(id string) []byte {
	b, _ := json.Marshal(ServerMsg{Type: "unsubscribed", ID: id})
	return b
}

// encodeError 把核心错误翻译成本协议的 error 帧
func encodeError(id string, err error) []byte {
	code := xerr.ServerCommonError
	msg := "internal error"
	if ce, ok := xerr.As(err); ok {
		code = ce.Code
		msg = ce.Msg
	}
	b, _ := json.Marshal(ServerMsg{Type: "error", ID: id, Code: code, Message: msg})
	return b
}
