package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"wheel_lottery_service/internal/wheel_service/history"
	"wheel_lottery_service/internal/wheel_service/metrics"
	"wheel_lottery_service/internal/wheel_service/table"
	"wheel_lottery_service/internal/wheel_service/wheel"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxDistributionIterations = 100000

// WheelTable 轉盤桌操作
type WheelTable interface {
	Spin() (*wheel.SpinTicket, error)
	Reset()
	Snapshot() table.Snapshot
	Options() []table.OptionView
	Distribution(iterations int) ([]wheel.DistributionStat, error)
}

// HistoryService 抽獎紀錄查詢
type HistoryService interface {
	Recent(ctx context.Context, limit int) ([]history.SpinRecord, error)
	Stats(ctx context.Context, now time.Time) (history.Stats, error)
	Clear(ctx context.Context) error
}

type SuccessResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SpinResponse 抽獎回應，動畫由 WebSocket 推送
type SpinResponse struct {
	SpinID         string       `json:"spinId"`
	Index          int          `json:"index"`
	Option         wheel.Option `json:"option"`
	TargetRotation float64      `json:"targetRotation"`
	DurationMs     int64        `json:"durationMs"`
}

// OptionsResponse 選項列表
type OptionsResponse struct {
	Options []table.OptionView `json:"options"`
}

// HistoryResponse 抽獎紀錄
type HistoryResponse struct {
	Records []history.SpinRecord `json:"records"`
}

// WheelHandler 處理轉盤相關請求
type WheelHandler struct {
	table     WheelTable
	history   HistoryService
	collector *metrics.Collector
	logger    *zap.Logger
}

// NewWheelHandler 創建轉盤處理器
func NewWheelHandler(t WheelTable, records HistoryService, collector *metrics.Collector, logger *zap.Logger) *WheelHandler {
	return &WheelHandler{
		table:     t,
		history:   records,
		collector: collector,
		logger:    logger.With(zap.String("component", "wheel_handler")),
	}
}

func wheelErrorResponse(err error) ErrorResponse {
	var we *wheel.WheelError
	if errors.As(err, &we) {
		return ErrorResponse{Error: we.Message, Code: we.Code}
	}
	return ErrorResponse{Error: err.Error()}
}

// Spin 抽獎
// @Summary 抽獎
// @Description 依目前時段權重抽出中獎選項並開始旋轉動畫
// @Tags wheel
// @Produce json
// @Success 200 {object} SpinResponse "抽獎結果"
// @Failure 409 {object} ErrorResponse "轉盤正在旋轉中"
// @Failure 429 {object} ErrorResponse "請求過於頻繁"
// @Failure 500 {object} ErrorResponse "服務器錯誤"
// @Failure 503 {object} ErrorResponse "轉盤桌已停止"
// @Router /api/v1/wheel/spin [post]
func (h *WheelHandler) Spin(c *gin.Context) {
	ticket, err := h.table.Spin()
	if err != nil {
		if errors.Is(err, wheel.ErrSpinInProgress) {
			h.collector.SpinRejected(metrics.RejectSpinning)
			c.JSON(http.StatusConflict, wheelErrorResponse(err))
			return
		}
		if errors.Is(err, table.ErrTableStopped) {
			h.collector.SpinRejected(metrics.RejectError)
			c.JSON(http.StatusServiceUnavailable, wheelErrorResponse(err))
			return
		}
		h.collector.SpinRejected(metrics.RejectError)
		h.logger.Error("抽獎失敗", zap.Error(err))
		c.JSON(http.StatusInternalServerError, wheelErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, SpinResponse{
		SpinID:         ticket.SpinID,
		Index:          ticket.Index,
		Option:         ticket.Option,
		TargetRotation: ticket.TargetRotation,
		DurationMs:     ticket.Duration.Milliseconds(),
	})
}

// Reset 重置轉盤
// @Summary 重置轉盤
// @Tags wheel
// @Produce json
// @Success 200 {object} SuccessResponse "重置成功"
// @Router /api/v1/wheel/reset [post]
func (h *WheelHandler) Reset(c *gin.Context) {
	h.table.Reset()
	c.JSON(http.StatusOK, SuccessResponse{Message: "轉盤已重置"})
}

// GetState 獲取轉盤狀態
// @Summary 獲取轉盤狀態
// @Tags wheel
// @Produce json
// @Success 200 {object} table.Snapshot "目前狀態"
// @Router /api/v1/wheel/state [get]
func (h *WheelHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.table.Snapshot())
}

// GetOptions 獲取選項與目前機率
// @Summary 獲取選項
// @Tags wheel
// @Produce json
// @Success 200 {object} OptionsResponse "選項列表"
// @Router /api/v1/wheel/options [get]
func (h *WheelHandler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, OptionsResponse{Options: h.table.Options()})
}

// GetDistribution 模擬抽選分布
// @Summary 模擬抽選分布
// @Tags wheel
// @Produce json
// @Param iterations query int false "模擬次數" default(10000)
// @Success 200 {array} wheel.DistributionStat "分布統計"
// @Failure 400 {object} ErrorResponse "請求錯誤"
// @Router /api/v1/wheel/distribution [get]
func (h *WheelHandler) GetDistribution(c *gin.Context) {
	iterations, ok := queryInt(c, "iterations", 10000)
	if !ok || iterations <= 0 || iterations > maxDistributionIterations {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "iterations 必須介於 1 到 100000"})
		return
	}

	stats, err := h.table.Distribution(iterations)
	if err != nil {
		c.JSON(http.StatusInternalServerError, wheelErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetHistory 獲取最近的抽獎紀錄
// @Summary 獲取抽獎紀錄
// @Tags history
// @Produce json
// @Param limit query int false "筆數" default(10)
// @Success 200 {object} HistoryResponse "抽獎紀錄"
// @Failure 400 {object} ErrorResponse "請求錯誤"
// @Failure 500 {object} ErrorResponse "服務器錯誤"
// @Router /api/v1/wheel/history [get]
func (h *WheelHandler) GetHistory(c *gin.Context) {
	limit, ok := queryInt(c, "limit", history.DefaultRecentLimit)
	if !ok || limit <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit 必須為正整數"})
		return
	}

	records, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("讀取抽獎紀錄失敗", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "讀取抽獎紀錄失敗"})
		return
	}
	c.JSON(http.StatusOK, HistoryResponse{Records: records})
}

// GetStats 獲取抽獎統計
// @Summary 獲取抽獎統計
// @Tags history
// @Produce json
// @Success 200 {object} history.Stats "今日次數與最近 7 天統計"
// @Failure 500 {object} ErrorResponse "服務器錯誤"
// @Router /api/v1/wheel/history/stats [get]
func (h *WheelHandler) GetStats(c *gin.Context) {
	stats, err := h.history.Stats(c.Request.Context(), time.Now())
	if err != nil {
		h.logger.Error("統計抽獎紀錄失敗", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "統計抽獎紀錄失敗"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ClearHistory 清空抽獎紀錄
// @Summary 清空抽獎紀錄
// @Tags history
// @Produce json
// @Success 200 {object} SuccessResponse "已清空"
// @Failure 500 {object} ErrorResponse "服務器錯誤"
// @Router /api/v1/wheel/history [delete]
func (h *WheelHandler) ClearHistory(c *gin.Context) {
	if err := h.history.Clear(c.Request.Context()); err != nil {
		h.logger.Error("清空抽獎紀錄失敗", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "清空抽獎紀錄失敗"})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "已清空抽獎紀錄"})
}

// queryInt 讀取整數參數，未提供時返回預設值
func queryInt(c *gin.Context, key string, defaultValue int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
