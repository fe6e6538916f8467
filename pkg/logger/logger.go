package logger

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options 日誌配置
type Options struct {
	Level      string // debug / info / warn / error
	Mode       string // dev 使用 console 編碼，其餘使用 JSON
	File       string // 空字串時不寫檔
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// encoderConfig 基本的 encoder 配置
func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// newEncoder dev 模式輸出彩色 console，其餘輸出 JSON
func newEncoder(mode string) zapcore.Encoder {
	cfg := encoderConfig()
	if mode == "dev" {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(cfg)
	}
	return zapcore.NewJSONEncoder(cfg)
}

// fileWriter 以 lumberjack 輪替日誌檔
func fileWriter(opts Options) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	})
}

// NewLogger 創建日誌記錄器
func NewLogger(opts Options) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if opts.Level == "" {
		opts.Level = "info"
	}
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		return nil, fmt.Errorf("無效的日誌級別 %q: %w", opts.Level, err)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(newEncoder(opts.Mode), zapcore.Lock(os.Stdout), level),
	}
	if opts.File != "" {
		// 檔案一律 JSON，方便收集
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), fileWriter(opts), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// ProvideLogger 提供 Logger 實例，用於 fx
func ProvideLogger(lc fx.Lifecycle, opts Options) (*zap.Logger, error) {
	logger, err := NewLogger(opts)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("日誌初始化完成",
				zap.String("level", opts.Level),
				zap.String("mode", opts.Mode),
				zap.String("file", opts.File))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// stdout 在部分平台 Sync 會回傳 EINVAL，忽略
			_ = logger.Sync()
			return nil
		},
	})

	return logger, nil
}

// Module 創建 fx 模組，需要外部提供 Options
var Module = fx.Module("logger",
	fx.Provide(
		ProvideLogger,
	),
)
