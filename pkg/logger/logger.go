package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIdKey 约定 Context 里请求 ID 的 Key（由 HTTP/WS 接入层写入）
const RequestIdKey = "request_id"

// 全局 Logger 实例
var Log *zap.Logger

// Init 初始化日志组件
// serviceName: 当前服务名 (例如 "quote-service")
// level: 日志级别 (debug, info, warn, error)
func Init(serviceName string, level string) {
	// 1. 日志级别
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zap.InfoLevel // 默认 Info
	}

	// 2. 编码器：统一 JSON，方便 ELK 收集
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.MessageKey = "msg"

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout), // 容器化标准：只写 stdout，落盘交给采集侧
		zapLevel,
	)

	// AddCallerSkip(1)：外面包了一层封装函数，否则行号永远指向 logger.go
	Log = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	// 3. 注入全局字段
	Log = Log.With(zap.String("service", serviceName))
}

// ---------------------------------------------------------
// 带 Context 的日志方法：自动追加 request_id
// ---------------------------------------------------------

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	extractRequestID(ctx, &fields)
	Log.Info(msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	extractRequestID(ctx, &fields)
	Log.Warn(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zap.Field) {
	extractRequestID(ctx, &fields)
	Log.Error(msg, fields...)
}

func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	extractRequestID(ctx, &fields)
	Log.Debug(msg, fields...)
}

// Fatal 会调用 os.Exit，只在启动阶段用
func Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	extractRequestID(ctx, &fields)
	Log.Fatal(msg, fields...)
}

func extractRequestID(ctx context.Context, fields *[]zap.Field) {
	if ctx == nil {
		return
	}
	if rid, ok := ctx.Value(RequestIdKey).(string); ok && rid != "" {
		*fields = append(*fields, zap.String("request_id", rid))
	}
}

// Sync 刷新缓冲区 (建议在 main 函数 defer 中调用)
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
