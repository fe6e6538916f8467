package table

import (
	"context"

	"wheel_lottery_service/internal/wheel_service/config"
	"wheel_lottery_service/internal/wheel_service/history"
	"wheel_lottery_service/internal/wheel_service/metrics"
	"wheel_lottery_service/internal/wheel_service/wheel"
	"wheel_lottery_service/pkg/utils"
	"wheel_lottery_service/pkg/websocketManager"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// 推送給客戶端的訊息類型
const (
	MessageState  = "state"
	MessageSpin   = "spin"
	MessageFrame  = "frame"
	MessageResult = "result"
	MessageReset  = "reset"
)

// ProvideWheel 以選項目錄與轉盤配置建立轉盤
func ProvideWheel(catalogue *config.Catalogue, cfg *config.AppConfig, logger *zap.Logger) (*wheel.Wheel, error) {
	loc, err := cfg.Wheel.Location()
	if err != nil {
		return nil, err
	}

	logger.Info("載入轉盤選項",
		zap.String("version", catalogue.Metadata.Version),
		zap.Int("options", len(catalogue.Options)))

	random := utils.GetRandomGenerator()
	if cfg.Wheel.RandomSeed != 0 {
		logger.Warn("使用固定隨機種子", zap.Int64("seed", cfg.Wheel.RandomSeed))
		random = utils.NewRandomGenerator(cfg.Wheel.RandomSeed)
	}

	return wheel.NewWheel(catalogue.Options, wheel.Settings{
		Spin:     cfg.Wheel.SpinConfig(),
		Location: loc,
		Random:   random,
	}, logger)
}

// ProvideTable 提供轉盤桌
func ProvideTable(w *wheel.Wheel, cfg *config.AppConfig, logger *zap.Logger) *Table {
	return NewTable(w, Options{FrameInterval: cfg.Wheel.FrameInterval()}, logger)
}

// RegisterSubscribers 將抽獎事件接到紀錄、指標與 WebSocket 推送
func RegisterSubscribers(t *Table, hub *websocketManager.Manager, records *history.Service, collector *metrics.Collector) {
	t.OnSpin(func(ticket *wheel.SpinTicket) {
		collector.SpinStarted(ticket)
		hub.Broadcast(websocketManager.NewMessage(MessageSpin, ticket))
	})
	t.OnFrame(func(frame wheel.Frame) {
		hub.Broadcast(websocketManager.NewMessage(MessageFrame, frame))
	})
	t.OnResult(func(outcome wheel.SpinOutcome) {
		records.Record(outcome)
		collector.SpinCompleted(outcome)
		hub.Broadcast(websocketManager.NewMessage(MessageResult, outcome))
	})
	t.OnReset(func() {
		collector.SpinReset()
		hub.Broadcast(websocketManager.NewMessage(MessageReset, nil))
	})

	// 新連線先補送目前狀態
	hub.OnConnect(func(c *websocketManager.Client) {
		c.SendMessage(websocketManager.NewMessage(MessageState, t.Snapshot()))
	})
	hub.OnClientCount(collector.SetSubscribers)
}

// StartTable 於應用啟動時啟動幀迴圈
func StartTable(lc fx.Lifecycle, t *Table, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("初始化轉盤桌")
			return t.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("關閉轉盤桌")
			return t.Stop(ctx)
		},
	})
}

// Module 提供 FX 模塊
var Module = fx.Options(
	fx.Provide(ProvideWheel),
	fx.Provide(ProvideTable),
	fx.Invoke(RegisterSubscribers),
	fx.Invoke(StartTable),
)
