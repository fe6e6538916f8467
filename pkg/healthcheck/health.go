package healthcheck

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Checker 定義健康檢查的接口
type Checker interface {
	// Name 返回檢查器的名稱
	Name() string

	// Check 執行健康檢查，如果健康返回 nil，否則返回錯誤
	Check(r *http.Request) error
}

// CheckType 表示檢查類型：活性檢查或就緒檢查
type CheckType int

const (
	// LivenessCheck 表示活性檢查，確認服務是否運行
	LivenessCheck CheckType = iota

	// ReadinessCheck 表示就緒檢查，確認服務是否可以處理請求
	ReadinessCheck
)

// CheckResult 單一檢查器的結果
type CheckResult struct {
	Name     string `json:"name"`
	Healthy  bool   `json:"healthy"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

// Report 健康檢查回應內容
type Report struct {
	Status string        `json:"status"`
	Checks []CheckResult `json:"checks"`
}

// Manager 健康檢查管理器，管理各種健康檢查
type Manager struct {
	readyState atomic.Bool
	checkers   map[CheckType][]Checker
	logger     *zap.Logger
	mu         sync.RWMutex
	handlers   map[string]http.HandlerFunc
}

// New 創建一個新的健康檢查管理器，初始狀態為未就緒
func New(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		checkers: make(map[CheckType][]Checker),
		logger:   logger.With(zap.String("component", "health_manager")),
		handlers: make(map[string]http.HandlerFunc),
	}

	m.AddLivenessCheck(&PingChecker{})
	m.AddReadinessCheck(&ReadinessStateChecker{manager: m})

	m.handlers["liveness"] = m.createCheckHandler(LivenessCheck)
	m.handlers["readiness"] = m.createCheckHandler(ReadinessCheck)
	m.handlers["health"] = m.createCheckHandler(LivenessCheck, ReadinessCheck)

	return m
}

// run 依序執行檢查器，全部執行完畢才返回
func (m *Manager) run(r *http.Request, types ...CheckType) Report {
	m.mu.RLock()
	var checkers []Checker
	for _, t := range types {
		checkers = append(checkers, m.checkers[t]...)
	}
	m.mu.RUnlock()

	report := Report{Status: "ok", Checks: make([]CheckResult, 0, len(checkers))}
	for _, checker := range checkers {
		start := time.Now()
		err := checker.Check(r)
		result := CheckResult{
			Name:     checker.Name(),
			Healthy:  err == nil,
			Duration: time.Since(start).String(),
		}
		if err != nil {
			m.logger.Warn("健康檢查失敗",
				zap.String("checker", checker.Name()),
				zap.Error(err))
			result.Error = err.Error()
			report.Status = "unavailable"
		}
		report.Checks = append(report.Checks, result)
	}
	return report
}

// createCheckHandler 創建指定類型的健康檢查處理程序
func (m *Manager) createCheckHandler(types ...CheckType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := m.run(r, types...)

		status := http.StatusOK
		if report.Status != "ok" {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(report); err != nil {
			m.logger.Error("寫入健康檢查回應失敗", zap.Error(err))
		}
	}
}

// AddChecker 添加一個特定類型的健康檢查器
func (m *Manager) AddChecker(checkType CheckType, checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Debug("添加健康檢查",
		zap.String("checker", checker.Name()),
		zap.Int("type", int(checkType)))

	m.checkers[checkType] = append(m.checkers[checkType], checker)
}

// AddLivenessCheck 添加一個活性檢查
func (m *Manager) AddLivenessCheck(checker Checker) {
	m.AddChecker(LivenessCheck, checker)
}

// AddReadinessCheck 添加一個就緒檢查
func (m *Manager) AddReadinessCheck(checker Checker) {
	m.AddChecker(ReadinessCheck, checker)
}

// SetReady 設置服務的就緒狀態
func (m *Manager) SetReady(ready bool) {
	if old := m.readyState.Swap(ready); old != ready {
		if ready {
			m.logger.Info("服務已標記為就緒")
		} else {
			m.logger.Info("服務已標記為未就緒")
		}
	}
}

// IsReady 返回服務的就緒狀態
func (m *Manager) IsReady() bool {
	return m.readyState.Load()
}

// GetHandler 獲取指定名稱的處理程序：liveness、readiness、health
func (m *Manager) GetHandler(name string) (http.HandlerFunc, bool) {
	handler, exists := m.handlers[name]
	return handler, exists
}

// ReadinessStateChecker 檢查服務的就緒狀態
type ReadinessStateChecker struct {
	manager *Manager
}

// Name 返回檢查器的名稱
func (r *ReadinessStateChecker) Name() string {
	return "readiness-state"
}

// Check 檢查服務是否就緒
func (r *ReadinessStateChecker) Check(req *http.Request) error {
	if !r.manager.IsReady() {
		return fmt.Errorf("服務未就緒")
	}
	return nil
}

// PingChecker 是一個簡單的 ping 檢查器
type PingChecker struct{}

// Name 返回檢查器的名稱
func (p *PingChecker) Name() string {
	return "ping"
}

// Check 總是返回成功
func (p *PingChecker) Check(req *http.Request) error {
	return nil
}
