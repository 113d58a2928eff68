package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 全局日志，InitLogger 之前为 no-op，保证测试和库调用不会出现 nil
var Logger = zap.NewNop()

// InitLogger 按运行模式构建日志，component 区分 server / lambda / yolo2json
func InitLogger(mode, component string) error {
	var config zap.Config

	switch mode {
	case "release":
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "time"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	// stdout 留给 CLI 输出
	config.OutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return err
	}

	if component != "" {
		logger = logger.With(zap.String("component", component))
	}
	Logger = logger
	return nil
}

func Sync() {
	_ = Logger.Sync()
}
