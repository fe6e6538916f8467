package metrics

import (
	"net/http"

	"wheel_lottery_service/internal/wheel_service/wheel"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "wheel"

// 拒絕抽獎的原因
const (
	RejectSpinning    = "spinning"
	RejectRateLimited = "rate_limited"
	RejectError       = "error"
)

// Collector 轉盤指標，使用獨立的 registry
type Collector struct {
	registry *prometheus.Registry

	spinsStarted  *prometheus.CounterVec
	spinsWon      *prometheus.CounterVec
	spinsRejected *prometheus.CounterVec
	mismatches    prometheus.Counter
	spinDuration  prometheus.Histogram
	spinning      prometheus.Gauge
	optionWeight  *prometheus.GaugeVec
	subscribers   prometheus.Gauge
}

// NewCollector 創建指標收集器
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
	}

	c.spinsStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "spin",
		Name:      "started_total",
		Help:      "抽獎次數，依抽中的選項分類",
	}, []string{"option"})

	c.spinsWon = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "spin",
		Name:      "completed_total",
		Help:      "動畫結束次數，依最終落點的選項分類",
	}, []string{"option"})

	c.spinsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "spin",
		Name:      "rejected_total",
		Help:      "被拒絕的抽獎請求",
	}, []string{"reason"})

	c.mismatches = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "spin",
		Name:      "mismatch_total",
		Help:      "落點與抽選結果不一致的次數",
	})

	c.spinDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "spin",
		Name:      "animation_duration_seconds",
		Help:      "旋轉動畫時間",
		Buckets:   prometheus.LinearBuckets(3.5, 0.25, 8),
	})

	c.spinning = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "spinning",
		Help:      "轉盤是否旋轉中 (0/1)",
	})

	c.optionWeight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "option",
		Name:      "weight",
		Help:      "最近一次抽獎時各選項的實際權重",
	}, []string{"option"})

	c.subscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "stream",
		Name:      "subscribers",
		Help:      "目前的畫面串流訂閱者數量",
	})

	c.registry.MustRegister(
		c.spinsStarted,
		c.spinsWon,
		c.spinsRejected,
		c.mismatches,
		c.spinDuration,
		c.spinning,
		c.optionWeight,
		c.subscribers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry 返回指標 registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler 返回 /metrics 處理程序
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// SpinStarted 記錄一次成功啟動的抽獎
func (c *Collector) SpinStarted(ticket *wheel.SpinTicket) {
	c.spinsStarted.WithLabelValues(ticket.Option.Name).Inc()
	c.spinDuration.Observe(ticket.Duration.Seconds())
	c.spinning.Set(1)
	for _, w := range ticket.Weights {
		c.optionWeight.WithLabelValues(w.Name).Set(w.CurrentWeight)
	}
}

// SpinCompleted 記錄動畫結束
func (c *Collector) SpinCompleted(outcome wheel.SpinOutcome) {
	c.spinsWon.WithLabelValues(outcome.Option.Name).Inc()
	c.spinning.Set(0)
	if outcome.Result.Mismatch {
		c.mismatches.Inc()
	}
}

// SpinRejected 記錄被拒絕的請求
func (c *Collector) SpinRejected(reason string) {
	c.spinsRejected.WithLabelValues(reason).Inc()
}

// SpinReset 轉盤被重置
func (c *Collector) SpinReset() {
	c.spinning.Set(0)
}

// SetSubscribers 更新訂閱者數量
func (c *Collector) SetSubscribers(n int) {
	c.subscribers.Set(float64(n))
}

// Module 提供 FX 模塊
var Module = fx.Options(
	fx.Provide(NewCollector),
)
