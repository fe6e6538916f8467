package wheel

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SpinTicket Spin 成功後返回的抽選資訊，此時動畫剛開始
type SpinTicket struct {
	SpinID         string           `json:"spinId"`
	Index          int              `json:"index"`
	Option         Option           `json:"option"`
	TargetRotation float64          `json:"targetRotation"`
	Duration       time.Duration    `json:"duration"`
	Weights        []WeightedOption `json:"weights"`
}

// SpinOutcome 動畫結束後的最終結果，每次旋轉只產生一次
type SpinOutcome struct {
	SpinID      string    `json:"spinId"`
	Option      Option    `json:"option"`
	Result      Result    `json:"result"`
	CompletedAt time.Time `json:"completedAt"`
}

// Wheel 組合權重計算、抽選、動畫與發光效果的單一轉盤
// 與 Controller 一樣非並發安全
type Wheel struct {
	options    []Option
	calculator *Calculator
	selector   *Selector
	controller *Controller
	glow       GlowPulse
	logger     *zap.Logger

	currentSpinID string
	onResult      []func(SpinOutcome)
}

// Settings 建立轉盤所需的設定
type Settings struct {
	Spin     SpinConfig
	Location *time.Location
	Random   RandomSource
}

// NewWheel 以選項列表建立轉盤，選項為空時返回 ErrConfiguration
func NewWheel(options []Option, settings Settings, logger *zap.Logger) (*Wheel, error) {
	if len(options) == 0 {
		return nil, ErrConfiguration
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := cloneOptions(options)

	selector := NewSelector(settings.Random, logger)

	return &Wheel{
		options:    opts,
		calculator: NewCalculator(logger, settings.Location),
		selector:   selector,
		controller: NewController(len(opts), settings.Spin, selector.rng, logger),
		logger:     logger.With(zap.String("component", "wheel")),
	}, nil
}

// OnResult 訂閱旋轉結果（彩帶、持久化、震動等），每次旋轉只通知一次
func (w *Wheel) OnResult(fn func(SpinOutcome)) {
	w.onResult = append(w.onResult, fn)
}

// Options 返回選項複本
func (w *Wheel) Options() []Option {
	return cloneOptions(w.options)
}

// cloneOption 深拷貝選項，TimeBoosts 不與呼叫端共用底層陣列
func cloneOption(opt Option) Option {
	if opt.TimeBoosts != nil {
		opt.TimeBoosts = append([]TimeBoost(nil), opt.TimeBoosts...)
	}
	return opt
}

func cloneOptions(options []Option) []Option {
	opts := make([]Option, len(options))
	for i, opt := range options {
		opts[i] = cloneOption(opt)
	}
	return opts
}

// Weights 返回 now 時各選項的實際權重，內含的選項為複本
func (w *Wheel) Weights(now time.Time) []WeightedOption {
	return w.calculator.EffectiveWeights(cloneOptions(w.options), now)
}

// Probabilities 返回 now 時各選項的中獎機率百分比
func (w *Wheel) Probabilities(now time.Time) []float64 {
	weighted := w.Weights(now)
	result := make([]float64, len(weighted))
	for i, opt := range weighted {
		result[i] = Probability(opt, weighted)
	}
	return result
}

// Distribution 以目前權重模擬多次抽選，不影響轉盤狀態
func (w *Wheel) Distribution(now time.Time, iterations int) ([]DistributionStat, error) {
	return w.selector.Distribution(w.Weights(now), iterations)
}

// IsSpinning 是否旋轉中
func (w *Wheel) IsSpinning() bool {
	return w.controller.State().IsSpinning
}

// State 返回動畫狀態
func (w *Wheel) State() SpinState {
	return w.controller.State()
}

// Spin 先依權重抽出中獎選項，再啟動動畫轉向該扇形
func (w *Wheel) Spin(now time.Time) (*SpinTicket, error) {
	if w.controller.State().IsSpinning {
		w.logger.Warn("轉盤旋轉中，拒絕新的抽獎")
		return nil, ErrSpinInProgress
	}

	weighted := w.Weights(now)
	index, err := w.selector.Select(weighted)
	if err != nil {
		return nil, err
	}

	w.glow.Stop()
	if !w.controller.Start(index) {
		return nil, NewWheelErrorWithFormat(ErrInvalidIndex.Code, "無法啟動旋轉，索引 %d", index)
	}

	state := w.controller.State()
	w.currentSpinID = uuid.New().String()

	w.logger.Info("抽獎完成，開始動畫",
		zap.String("spinID", w.currentSpinID),
		zap.Int("index", index),
		zap.String("option", w.options[index].Name),
		zap.Float64("weight", weighted[index].CurrentWeight))

	return &SpinTicket{
		SpinID:         w.currentSpinID,
		Index:          index,
		Option:         weighted[index].Option,
		TargetRotation: state.TargetRotation,
		Duration:       state.Duration,
		Weights:        weighted,
	}, nil
}

// Tick 推進一幀；旋轉結束的那一幀返回結果並通知訂閱者
func (w *Wheel) Tick(now time.Time) (Frame, *SpinOutcome) {
	_, completed := w.controller.Tick(now)
	if !completed {
		return w.Frame(now), nil
	}

	state := w.controller.State()
	w.glow.Begin(now)

	outcome := SpinOutcome{
		SpinID: w.currentSpinID,
		Option: cloneOption(w.options[state.WinningIndex]),
		Result: Result{
			RequestedIndex: state.RequestedIndex,
			WinningIndex:   state.WinningIndex,
			Rotation:       state.CurrentRotation,
			Mismatch:       state.RequestedIndex != state.WinningIndex,
		},
		CompletedAt: now,
	}

	for _, fn := range w.onResult {
		fn(outcome)
	}

	return w.Frame(now), &outcome
}

// Frame 返回 now 時提供給渲染端的快照，不推進動畫
func (w *Wheel) Frame(now time.Time) Frame {
	state := w.controller.State()
	return Frame{
		Rotation:      state.CurrentRotation,
		IsSpinning:    state.IsSpinning,
		WinningIndex:  state.WinningIndex,
		GlowIntensity: w.glow.Intensity(now),
	}
}

// Reset 放棄進行中或已完成的旋轉狀態
func (w *Wheel) Reset() {
	w.controller.Reset()
	w.glow.Stop()
	w.currentSpinID = ""
	w.logger.Info("轉盤已重置")
}
