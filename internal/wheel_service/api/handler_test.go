package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wheel_lottery_service/internal/wheel_service/config"
	"wheel_lottery_service/internal/wheel_service/history"
	"wheel_lottery_service/internal/wheel_service/metrics"
	"wheel_lottery_service/internal/wheel_service/table"
	"wheel_lottery_service/internal/wheel_service/wheel"
	"wheel_lottery_service/pkg/healthcheck"
	"wheel_lottery_service/pkg/websocketManager"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// 模擬 WheelTable
type MockWheelTable struct {
	mock.Mock
}

func (m *MockWheelTable) Spin() (*wheel.SpinTicket, error) {
	args := m.Called()
	ticket, _ := args.Get(0).(*wheel.SpinTicket)
	return ticket, args.Error(1)
}

func (m *MockWheelTable) Reset() {
	m.Called()
}

func (m *MockWheelTable) Snapshot() table.Snapshot {
	return m.Called().Get(0).(table.Snapshot)
}

func (m *MockWheelTable) Options() []table.OptionView {
	return m.Called().Get(0).([]table.OptionView)
}

func (m *MockWheelTable) Distribution(iterations int) ([]wheel.DistributionStat, error) {
	args := m.Called(iterations)
	stats, _ := args.Get(0).([]wheel.DistributionStat)
	return stats, args.Error(1)
}

// 模擬 HistoryService
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) Recent(ctx context.Context, limit int) ([]history.SpinRecord, error) {
	args := m.Called(ctx, limit)
	records, _ := args.Get(0).([]history.SpinRecord)
	return records, args.Error(1)
}

func (m *MockHistoryService) Stats(ctx context.Context, now time.Time) (history.Stats, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(history.Stats), args.Error(1)
}

func (m *MockHistoryService) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// WheelHandlerTestSuite 定義測試套件
type WheelHandlerTestSuite struct {
	suite.Suite
	router  *gin.Engine
	table   *MockWheelTable
	history *MockHistoryService
	health  *healthcheck.Manager
}

// SetupTest 在每個測試前初始化環境
func (suite *WheelHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.table = new(MockWheelTable)
	suite.history = new(MockHistoryService)
	suite.health = healthcheck.New(zap.NewNop())

	collector := metrics.NewCollector()
	cfg := &config.AppConfig{Server: config.ServerConfig{Mode: "dev"}}
	handler := NewWheelHandler(suite.table, suite.history, collector, zap.NewNop())
	wsHandler := websocketManager.NewWebSocketHandler(websocketManager.NewManager(zap.NewNop()))

	suite.router = NewRouter(cfg, handler, wsHandler, suite.health, collector,
		rate.NewLimiter(rate.Inf, 1), zap.NewNop())
}

func (suite *WheelHandlerTestSuite) serve(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func (suite *WheelHandlerTestSuite) TestSpinSuccess() {
	ticket := &wheel.SpinTicket{
		SpinID:         "spin-1",
		Index:          2,
		Option:         wheel.Option{ID: 3, Name: "咖哩"},
		TargetRotation: 52.1,
		Duration:       4500 * time.Millisecond,
	}
	suite.table.On("Spin").Return(ticket, nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/wheel/spin")

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var resp SpinResponse
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), "spin-1", resp.SpinID)
	assert.Equal(suite.T(), 2, resp.Index)
	assert.Equal(suite.T(), 3, resp.Option.ID)
	assert.Equal(suite.T(), int64(4500), resp.DurationMs)
	suite.table.AssertExpectations(suite.T())
}

func (suite *WheelHandlerTestSuite) TestSpinInProgress() {
	suite.table.On("Spin").Return(nil, wheel.ErrSpinInProgress).Once()

	w := suite.serve(http.MethodPost, "/api/v1/wheel/spin")

	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	var resp ErrorResponse
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), "SPIN_IN_PROGRESS", resp.Code)
}

func (suite *WheelHandlerTestSuite) TestSpinTableStopped() {
	suite.table.On("Spin").Return(nil, table.ErrTableStopped).Once()

	w := suite.serve(http.MethodPost, "/api/v1/wheel/spin")

	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)

	var resp ErrorResponse
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), "TABLE_STOPPED", resp.Code)
}

func (suite *WheelHandlerTestSuite) TestSpinConfigurationError() {
	suite.table.On("Spin").Return(nil, wheel.ErrConfiguration).Once()

	w := suite.serve(http.MethodPost, "/api/v1/wheel/spin")

	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "CONFIGURATION_ERROR")
}

func (suite *WheelHandlerTestSuite) TestSpinRateLimited() {
	collector := metrics.NewCollector()
	handler := NewWheelHandler(suite.table, suite.history, collector, zap.NewNop())
	wsHandler := websocketManager.NewWebSocketHandler(websocketManager.NewManager(zap.NewNop()))
	router := NewRouter(&config.AppConfig{}, handler, wsHandler, suite.health, collector,
		rate.NewLimiter(rate.Limit(0.001), 1), zap.NewNop())

	suite.table.On("Spin").Return(&wheel.SpinTicket{SpinID: "spin-1"}, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/wheel/spin", nil))
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/wheel/spin", nil))
	assert.Equal(suite.T(), http.StatusTooManyRequests, w.Code)

	suite.table.AssertNumberOfCalls(suite.T(), "Spin", 1)
}

func (suite *WheelHandlerTestSuite) TestReset() {
	suite.table.On("Reset").Return().Once()

	w := suite.serve(http.MethodPost, "/api/v1/wheel/reset")

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	suite.table.AssertExpectations(suite.T())
}

func (suite *WheelHandlerTestSuite) TestGetState() {
	suite.table.On("Snapshot").Return(table.Snapshot{
		Frame:  wheel.Frame{Rotation: 1.5, IsSpinning: true, WinningIndex: wheel.NoWinner, GlowIntensity: 1},
		SpinID: "spin-9",
	})

	w := suite.serve(http.MethodGet, "/api/v1/wheel/state")

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var snapshot table.Snapshot
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(suite.T(), "spin-9", snapshot.SpinID)
	assert.True(suite.T(), snapshot.Frame.IsSpinning)
	assert.Equal(suite.T(), wheel.NoWinner, snapshot.Frame.WinningIndex)
}

func (suite *WheelHandlerTestSuite) TestGetOptions() {
	suite.table.On("Options").Return([]table.OptionView{
		{WeightedOption: wheel.WeightedOption{Option: wheel.Option{ID: 1, Name: "拉麵"}, CurrentWeight: 2}, Probability: 100},
	})

	w := suite.serve(http.MethodGet, "/api/v1/wheel/options")

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var resp OptionsResponse
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(suite.T(), resp.Options, 1)
	assert.Equal(suite.T(), "拉麵", resp.Options[0].Name)
	assert.Equal(suite.T(), 100.0, resp.Options[0].Probability)
}

func (suite *WheelHandlerTestSuite) TestGetDistribution() {
	suite.table.On("Distribution", 500).Return([]wheel.DistributionStat{{OptionID: 1, Count: 500}}, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/wheel/distribution?iterations=500")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.serve(http.MethodGet, "/api/v1/wheel/distribution?iterations=abc")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.serve(http.MethodGet, "/api/v1/wheel/distribution?iterations=100001")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	suite.table.AssertExpectations(suite.T())
}

func (suite *WheelHandlerTestSuite) TestGetHistory() {
	records := []history.SpinRecord{{SpinID: "spin-1", OptionName: "拉麵"}}
	suite.history.On("Recent", mock.Anything, 5).Return(records, nil).Once()
	suite.history.On("Recent", mock.Anything, history.DefaultRecentLimit).Return([]history.SpinRecord{}, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/wheel/history?limit=5")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var resp HistoryResponse
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), records[0].SpinID, resp.Records[0].SpinID)

	w = suite.serve(http.MethodGet, "/api/v1/wheel/history")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.serve(http.MethodGet, "/api/v1/wheel/history?limit=-1")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	suite.history.AssertExpectations(suite.T())
}

func (suite *WheelHandlerTestSuite) TestGetHistoryError() {
	suite.history.On("Recent", mock.Anything, 10).Return(nil, errors.New("redis 連線中斷")).Once()

	w := suite.serve(http.MethodGet, "/api/v1/wheel/history")

	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)
}

func (suite *WheelHandlerTestSuite) TestGetStats() {
	suite.history.On("Stats", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(history.Stats{TodayCount: 3, Weekly: map[string]int{"拉麵": 2}}, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/wheel/history/stats")

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var stats history.Stats
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(suite.T(), 3, stats.TodayCount)
	assert.Equal(suite.T(), 2, stats.Weekly["拉麵"])
}

func (suite *WheelHandlerTestSuite) TestClearHistory() {
	suite.history.On("Clear", mock.Anything).Return(nil).Once()

	w := suite.serve(http.MethodDelete, "/api/v1/wheel/history")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	suite.history.On("Clear", mock.Anything).Return(errors.New("boom")).Once()

	w = suite.serve(http.MethodDelete, "/api/v1/wheel/history")
	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)
}

func (suite *WheelHandlerTestSuite) TestProbeRoutes() {
	w := suite.serve(http.MethodGet, "/liveness")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.serve(http.MethodGet, "/readiness")
	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)

	suite.health.SetReady(true)
	w = suite.serve(http.MethodGet, "/readiness")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.serve(http.MethodGet, "/metrics")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "wheel_spinning")
}

func (suite *WheelHandlerTestSuite) TestWebSocketRequiresRunningHub() {
	w := suite.serve(http.MethodGet, "/ws")
	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
}

// TestWheelHandlerSuite 運行測試套件
func TestWheelHandlerSuite(t *testing.T) {
	suite.Run(t, new(WheelHandlerTestSuite))
}
