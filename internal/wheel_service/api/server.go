package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"wheel_lottery_service/internal/wheel_service/config"
	"wheel_lottery_service/pkg/healthcheck"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// StartServer 註冊 HTTP 服務器生命周期鉤子
func StartServer(lc fx.Lifecycle, cfg *config.AppConfig, router *gin.Engine, health *healthcheck.Manager, logger *zap.Logger) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("啟動轉盤服務器",
					zap.String("addr", addr),
					zap.String("apiPath", "/api/v1/wheel"),
					zap.String("wsPath", "/ws"))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("服務器錯誤", zap.Error(err))
				}
			}()
			health.SetReady(true)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			health.SetReady(false)

			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()

			logger.Info("關閉服務器")
			return server.Shutdown(shutdownCtx)
		},
	})
}
