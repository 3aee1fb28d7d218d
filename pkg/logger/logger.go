package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// DefaultConfig 默认日志配置
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "console",
	}
}

var (
	log  *zap.SugaredLogger
	once sync.Once
)

// Init 初始化全局日志器
func Init(cfg *Config) {
	once.Do(func() {
		log = build(cfg)
	})
}

func build(cfg *Config) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

func get() *zap.SugaredLogger {
	if log == nil {
		Init(DefaultConfig())
	}
	return log
}

// Debug 记录调试日志
func Debug(msg string, keysAndValues ...interface{}) {
	get().Debugw(msg, keysAndValues...)
}

// Info 记录信息日志
func Info(msg string, keysAndValues ...interface{}) {
	get().Infow(msg, keysAndValues...)
}

// Warn 记录警告日志
func Warn(msg string, keysAndValues ...interface{}) {
	get().Warnw(msg, keysAndValues...)
}

// Error 记录错误日志
func Error(msg string, err error, keysAndValues ...interface{}) {
	kvs := append([]interface{}{"error", err}, keysAndValues...)
	get().Errorw(msg, kvs...)
}

// Sync 刷新缓冲的日志
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
