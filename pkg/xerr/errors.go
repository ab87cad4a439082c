package xerr

import (
	"errors"
	"fmt"
)

// 常用错误码定义
const (
	OK                 = 200
	ServerCommonError  = 500
	RequestParamsError = 400
	InstrumentNotFound = 404
)

type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Symbol string `json:"symbol,omitempty"` // 标的相关错误时带上 symbol
}

func (e *CodeError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("ErrCode:%d, Msg:%s, Symbol:%s", e.Code, e.Msg, e.Symbol)
	}
	return fmt.Sprintf("ErrCode:%d, Msg:%s", e.Code, e.Msg)
}

func New(code int, msg string) error {
	return &CodeError{Code: code, Msg: msg}
}

func NewErrCode(code int) error {
	return &CodeError{Code: code, Msg: MapErrMsg(code)}
}

// NewNotFound 未知标的：GetQuote 专用，批量接口和订阅不会返回它
func NewNotFound(symbol string) error {
	return &CodeError{Code: InstrumentNotFound, Msg: MapErrMsg(InstrumentNotFound), Symbol: symbol}
}

// NewInvalidRequest 接入层传进来的参数问题（兜底防御）
func NewInvalidRequest(reason string) error {
	return &CodeError{Code: RequestParamsError, Msg: reason}
}

func MapErrMsg(code int) string {
	switch code {
	case ServerCommonError:
		return "服务器开小差了"
	case RequestParamsError:
		return "参数错误"
	case InstrumentNotFound:
		return "标的不存在"
	default:
		return "未知错误"
	}
}

// As 取出 *CodeError（含 errors.Wrap 链上的）
func As(err error) (*CodeError, bool) {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	if ce, ok := As(err); ok {
		return ce.Code == InstrumentNotFound
	}
	return false
}
