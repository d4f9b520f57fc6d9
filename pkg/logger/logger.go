package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L 全局日志对象
// 设计说明：在main中调用Init初始化一次，其余代码直接使用logger.L
var L *zap.Logger

func init() {
	// Init之前也能安全使用（如单元测试）
	L = zap.NewNop()
}

// Init 根据配置初始化全局日志
// level: debug | info | warn | error
// format: console | json
// output: stdout | stderr | 文件路径
func Init(level, format, output string) error {
	cfg := zap.NewProductionConfig()

	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lv, err := zapcore.ParseLevel(level)
	if err != nil {
		lv = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lv)

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if output != "" {
		cfg.OutputPaths = []string{output}
	}

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	L = l
	return nil
}

// Sync 刷新缓冲区（在main退出前调用）
func Sync() {
	if L != nil {
		_ = L.Sync()
	}
}
