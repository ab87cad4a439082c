package common

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"tickstream.com/pkg/logger"
	"tickstream.com/pkg/xerr"
)

// 定义http返回格式
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    data,
	})
}

func Fail(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

func FailLogged(c *gin.Context, httpStatus int, code int, msg string, err error) {
	logger.Warn(c, "http error",
		zap.String("request_id", RequestIDFromGin(c)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("biz_code", code),
		zap.String("message", msg),
		zap.Error(err),
		zap.ByteString("stack", debug.Stack()),
	)
	Fail(c, httpStatus, code, msg)
}

// FailFromErr 对外只回 biz_code + message（data=null），内部错误不透出细节
func FailFromErr(c *gin.Context, err error) {
	if ce, ok := xerr.As(err); ok {
		Fail(c, mapBizToHTTP(ce.Code), ce.Code, ce.Msg)
		return
	}
	FailLogged(c, http.StatusInternalServerError, xerr.ServerCommonError, "internal error", err)
}

func mapBizToHTTP(bizCode int) int {
	switch bizCode {
	case xerr.RequestParamsError:
		return http.StatusBadRequest
	case xerr.InstrumentNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
