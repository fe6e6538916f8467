package api

import (
	"wheel_lottery_service/internal/wheel_service/config"
	"wheel_lottery_service/internal/wheel_service/metrics"
	"wheel_lottery_service/pkg/healthcheck"
	"wheel_lottery_service/pkg/middleware"
	"wheel_lottery_service/pkg/websocketManager"

	_ "wheel_lottery_service/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// NewSpinLimiter 抽獎頻率限制
func NewSpinLimiter(cfg *config.AppConfig) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(cfg.Wheel.SpinRate), cfg.Wheel.SpinBurst)
}

func NewRouter(
	cfg *config.AppConfig,
	wheelHandler *WheelHandler,
	wsHandler *websocketManager.WebSocketHandler,
	health *healthcheck.Manager,
	collector *metrics.Collector,
	limiter *rate.Limiter,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Server.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Logger(logger), middleware.Recovery(logger), middleware.Cors())
	r.GET("/api-docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	for _, name := range []string{"health", "liveness", "readiness"} {
		if handler, ok := health.GetHandler(name); ok {
			r.GET("/"+name, gin.WrapF(handler))
		}
	}

	r.GET("/metrics", gin.WrapH(collector.Handler()))
	r.GET("/ws", wsHandler.HandleConnection)

	api := r.Group("/api/v1/wheel")
	{
		api.POST("/spin", middleware.RateLimit(limiter, func(c *gin.Context) {
			collector.SpinRejected(metrics.RejectRateLimited)
		}), wheelHandler.Spin)
		api.POST("/reset", wheelHandler.Reset)
		api.GET("/state", wheelHandler.GetState)
		api.GET("/options", wheelHandler.GetOptions)
		api.GET("/distribution", wheelHandler.GetDistribution)
		api.GET("/history", wheelHandler.GetHistory)
		api.GET("/history/stats", wheelHandler.GetStats)
		api.DELETE("/history", wheelHandler.ClearHistory)
	}

	return r
}
