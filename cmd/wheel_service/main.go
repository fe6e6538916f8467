package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wheel_lottery_service/internal/wheel_service/api"
	"wheel_lottery_service/internal/wheel_service/config"
	"wheel_lottery_service/internal/wheel_service/history"
	"wheel_lottery_service/internal/wheel_service/metrics"
	"wheel_lottery_service/internal/wheel_service/table"
	"wheel_lottery_service/pkg/healthcheck"
	"wheel_lottery_service/pkg/logger"
	"wheel_lottery_service/pkg/websocketManager"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// 構建信息，通過 ldflags 在編譯時注入
var (
	BuildTime string
	GitHash   string
)

// provideLoggerOptions 由應用配置產生日誌設定
func provideLoggerOptions(cfg *config.AppConfig) logger.Options {
	return logger.Options{
		Level:      cfg.Log.Level,
		Mode:       cfg.Server.Mode,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}
}

func main() {
	config.InitFlags()

	app := fx.New(
		// 註冊配置模塊
		config.Module,
		fx.Provide(provideLoggerOptions),
		logger.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),

		// 基礎設施
		metrics.Module,
		healthcheck.Module,
		websocketManager.Module,

		// 轉盤與紀錄
		history.Module,
		table.Module,

		// HTTP / WebSocket 服務
		api.Module,

		fx.Invoke(func(cfg *config.AppConfig, log *zap.Logger) {
			log.Info("轉盤服務初始化",
				zap.String("app", cfg.AppName),
				zap.String("version", cfg.Server.Version),
				zap.String("buildTime", BuildTime),
				zap.String("gitHash", GitHash),
				zap.String("historyDriver", cfg.History.Driver))
		}),
	)

	// 啟動應用
	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start application: %v\n", err)
		os.Exit(1)
	}

	// 等待系統信號
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	// 關閉應用
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to stop application gracefully: %v\n", err)
		os.Exit(1)
	}
}
