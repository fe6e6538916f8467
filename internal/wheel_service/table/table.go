package table

import (
	"context"
	"sync"
	"time"

	"wheel_lottery_service/internal/wheel_service/wheel"

	"go.uber.org/zap"
)

const (
	defaultFrameInterval = time.Second / 60
	// 結束後持續推送發光幀的時間
	defaultGlowHold = 3 * time.Second
)

// ErrTableStopped 幀迴圈已停止，新的旋轉不會被推進
var ErrTableStopped = &wheel.WheelError{
	Code:    "TABLE_STOPPED",
	Message: "轉盤桌已停止",
}

// Options 轉盤桌設定
type Options struct {
	FrameInterval time.Duration
	GlowHold      time.Duration
	Clock         func() time.Time
}

// OptionView 選項與目前權重、機率
type OptionView struct {
	wheel.WeightedOption
	Probability float64 `json:"probability"`
}

// Snapshot 轉盤目前的狀態
type Snapshot struct {
	Frame  wheel.Frame     `json:"frame"`
	State  wheel.SpinState `json:"state"`
	SpinID string          `json:"spinId,omitempty"`
}

// Table 持有唯一的轉盤，以互斥鎖串行化所有操作，並在旋轉期間以固定幀率推進動畫
type Table struct {
	wheel    *wheel.Wheel
	mu       sync.Mutex
	interval time.Duration
	glowHold time.Duration
	clock    func() time.Time
	logger   *zap.Logger

	lastSpinID string

	wake    chan struct{}
	cancel  context.CancelFunc
	stopped bool
	wg     sync.WaitGroup

	// 事件處理回調，在幀迴圈 goroutine 且未持有鎖時呼叫
	onSpin   []func(*wheel.SpinTicket)
	onFrame  []func(wheel.Frame)
	onResult []func(wheel.SpinOutcome)
	onReset  []func()
}

// NewTable 創建轉盤桌
func NewTable(w *wheel.Wheel, opts Options, logger *zap.Logger) *Table {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = defaultFrameInterval
	}
	if opts.GlowHold < 0 {
		opts.GlowHold = 0
	} else if opts.GlowHold == 0 {
		opts.GlowHold = defaultGlowHold
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Table{
		wheel:    w,
		interval: opts.FrameInterval,
		glowHold: opts.GlowHold,
		clock:    opts.Clock,
		logger:   logger.With(zap.String("component", "wheel_table")),
		wake:     make(chan struct{}, 1),
	}
}

// OnSpin 註冊抽獎開始回調
func (t *Table) OnSpin(fn func(*wheel.SpinTicket)) {
	t.onSpin = append(t.onSpin, fn)
}

// OnFrame 註冊每幀回調
func (t *Table) OnFrame(fn func(wheel.Frame)) {
	t.onFrame = append(t.onFrame, fn)
}

// OnResult 註冊結果回調，每次旋轉只呼叫一次
func (t *Table) OnResult(fn func(wheel.SpinOutcome)) {
	t.onResult = append(t.onResult, fn)
}

// OnReset 註冊重置回調
func (t *Table) OnReset(fn func()) {
	t.onReset = append(t.onReset, fn)
}

// Start 啟動幀迴圈
func (t *Table) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		return nil
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.stopped = false

	t.wg.Add(1)
	go t.run(loopCtx)

	// 停止前未完成的旋轉在重新啟動後繼續推進
	if t.wheel.IsSpinning() {
		t.notify()
	}

	t.logger.Info("轉盤桌啟動", zap.Duration("frameInterval", t.interval))
	return nil
}

// Stop 停止幀迴圈並等待結束，ctx 到期時直接返回
func (t *Table) Stop(ctx context.Context) error {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.stopped = true
	t.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("轉盤桌已停止")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Spin 抽出中獎選項並啟動動畫，旋轉中返回 wheel.ErrSpinInProgress，Stop 之後返回 ErrTableStopped
// 從未 Start 的轉盤桌可以接受旋轉，由呼叫端以 Advance 推進
func (t *Table) Spin() (*wheel.SpinTicket, error) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return nil, ErrTableStopped
	}
	ticket, err := t.wheel.Spin(t.clock())
	if err == nil {
		t.lastSpinID = ticket.SpinID
	}
	t.mu.Unlock()

	if err != nil {
		return nil, err
	}

	for _, fn := range t.onSpin {
		fn(ticket)
	}

	t.notify()

	return ticket, nil
}

// Reset 放棄目前的旋轉
func (t *Table) Reset() {
	t.mu.Lock()
	t.wheel.Reset()
	t.lastSpinID = ""
	frame := t.wheel.Frame(t.clock())
	t.mu.Unlock()

	for _, fn := range t.onReset {
		fn()
	}
	t.publishFrame(frame)
}

// Advance 以 now 推進一幀並通知訂閱者，旋轉結束的那一幀返回結果
func (t *Table) Advance(now time.Time) (frame wheel.Frame, outcome *wheel.SpinOutcome) {
	t.mu.Lock()
	frame, outcome = t.wheel.Tick(now)
	t.mu.Unlock()

	t.publishFrame(frame)
	if outcome != nil {
		t.logger.Info("抽獎結束",
			zap.String("spinID", outcome.SpinID),
			zap.String("option", outcome.Option.Name),
			zap.Bool("mismatch", outcome.Result.Mismatch))
		for _, fn := range t.onResult {
			fn(*outcome)
		}
	}
	return frame, outcome
}

// Snapshot 返回目前狀態
func (t *Table) Snapshot() Snapshot {
	now := t.clock()

	t.mu.Lock()
	defer t.mu.Unlock()

	return Snapshot{
		Frame:  t.wheel.Frame(now),
		State:  t.wheel.State(),
		SpinID: t.lastSpinID,
	}
}

// Options 返回選項以及目前時段的權重與機率
func (t *Table) Options() []OptionView {
	now := t.clock()

	t.mu.Lock()
	weights := t.wheel.Weights(now)
	t.mu.Unlock()

	views := make([]OptionView, len(weights))
	for i, w := range weights {
		views[i] = OptionView{
			WeightedOption: w,
			Probability:    wheel.Probability(w, weights),
		}
	}
	return views
}

// Distribution 以目前權重模擬抽選分布
func (t *Table) Distribution(iterations int) ([]wheel.DistributionStat, error) {
	now := t.clock()

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.wheel.Distribution(now, iterations)
}

// IsSpinning 是否旋轉中
func (t *Table) IsSpinning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wheel.IsSpinning()
}

// Running 幀迴圈是否運行中
func (t *Table) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

// notify 非阻塞喚醒幀迴圈
func (t *Table) notify() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

func (t *Table) publishFrame(frame wheel.Frame) {
	for _, fn := range t.onFrame {
		fn(frame)
	}
}

// run 閒置時等待喚醒，旋轉時依幀率推進
func (t *Table) run(ctx context.Context) {
	defer t.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.wake:
			t.animate(ctx)
		}
	}
}

// animate 推進動畫直到旋轉結束且發光時間結束
func (t *Table) animate(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	var glowUntil time.Time
	for {
		now := t.clock()
		frame, outcome := t.Advance(now)
		if outcome != nil {
			glowUntil = now.Add(t.glowHold)
		}
		if !frame.IsSpinning && !now.Before(glowUntil) {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
