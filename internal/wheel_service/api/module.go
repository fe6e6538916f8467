package api

import (
	"errors"
	"net/http"

	"wheel_lottery_service/internal/wheel_service/history"
	"wheel_lottery_service/internal/wheel_service/table"
	"wheel_lottery_service/pkg/healthcheck"

	"go.uber.org/fx"
)

// RegisterHealthChecks 註冊轉盤桌與紀錄儲存的健康檢查
func RegisterHealthChecks(health *healthcheck.Manager, t *table.Table, records *history.Service) {
	health.AddLivenessCheck(&healthcheck.CustomChecker{
		Name_: "wheel-table",
		CheckFunc: func(r *http.Request) error {
			if !t.Running() {
				return errors.New("幀迴圈未運行")
			}
			return nil
		},
	})
	health.AddReadinessCheck(&healthcheck.DependencyChecker{
		Name_:    "history-" + records.Repository().Name(),
		PingFunc: records.Ping,
	})
}

// Module 提供 FX 模塊
var Module = fx.Options(
	fx.Provide(
		func(t *table.Table) WheelTable { return t },
		func(s *history.Service) HistoryService { return s },
		NewWheelHandler,
		NewSpinLimiter,
		NewRouter,
	),
	fx.Invoke(RegisterHealthChecks),
	fx.Invoke(StartServer),
)
