package websocketManager

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// StartManager 於應用啟動時執行事件迴圈
func StartManager(lc fx.Lifecycle, manager *Manager, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go manager.Start(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("關閉 WebSocket 管理器")
			manager.Shutdown()
			return nil
		},
	})
}

// Module 提供 FX 模塊
var Module = fx.Options(
	fx.Provide(NewManager),
	fx.Provide(NewWebSocketHandler),
	fx.Invoke(StartManager),
)
