package wheel

import (
	"math"
	"time"

	"wheel_lottery_service/pkg/utils"

	"go.uber.org/zap"
)

// SpinConfig 旋轉動畫參數
type SpinConfig struct {
	MinExtraTurns int           // 最少額外圈數
	MaxExtraTurns int           // 最多額外圈數
	MinDuration   time.Duration // 最短動畫時間
	MaxDuration   time.Duration // 最長動畫時間（不含）
	PointerAngle  float64       // 指針位置
	Easing        Easing        // nil 時使用 EaseOutQuart
}

// DefaultSpinConfig 8-10 圈、4-5 秒、指針在 12 點鐘方向
func DefaultSpinConfig() SpinConfig {
	return SpinConfig{
		MinExtraTurns: 8,
		MaxExtraTurns: 10,
		MinDuration:   4000 * time.Millisecond,
		MaxDuration:   5000 * time.Millisecond,
		PointerAngle:  PointerTop,
		Easing:        EaseOutQuart,
	}
}

// normalized 修正不合理的設定值
func (c SpinConfig) normalized() SpinConfig {
	if c.MinExtraTurns < 0 {
		c.MinExtraTurns = 0
	}
	if c.MaxExtraTurns < c.MinExtraTurns {
		c.MaxExtraTurns = c.MinExtraTurns
	}
	if c.MinDuration < 0 {
		c.MinDuration = 0
	}
	if c.MaxDuration < c.MinDuration {
		c.MaxDuration = c.MinDuration
	}
	if c.Easing == nil {
		c.Easing = EaseOutQuart
	}
	return c
}

// Controller 旋轉動畫狀態機：Idle -> Spinning -> Idle
// 不持有計時器，由外部每幀呼叫 Tick 推進；非並發安全
type Controller struct {
	segments   int
	mapper     Mapper
	config     SpinConfig
	rng        RandomSource
	logger     *zap.Logger
	state      SpinState
	onComplete func(Result)
}

// NewController 創建旋轉控制器
func NewController(segments int, config SpinConfig, rng RandomSource, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rng == nil {
		rng = utils.GetRandomGenerator()
	}
	config = config.normalized()

	return &Controller{
		segments: segments,
		mapper:   NewMapper(config.PointerAngle),
		config:   config,
		rng:      rng,
		logger:   logger.With(zap.String("component", "spin_controller")),
		state:    idleState(),
	}
}

// OnComplete 註冊完成回調，每次旋轉只會在 Tick 中觸發一次
func (c *Controller) OnComplete(fn func(Result)) {
	c.onComplete = fn
}

// State 返回目前狀態的複本
func (c *Controller) State() SpinState {
	return c.state
}

// Segments 返回扇形數量
func (c *Controller) Segments() int {
	return c.segments
}

// Mapper 返回此控制器使用的角度對應器
func (c *Controller) Mapper() Mapper {
	return c.mapper
}

// Start 開始轉向 targetIndex
// 旋轉中或索引超出範圍時不做任何改變並返回 false（使用者連點是預期行為，不視為錯誤）
func (c *Controller) Start(targetIndex int) bool {
	if c.state.IsSpinning {
		c.logger.Warn("動畫進行中，忽略重複啟動",
			zap.Int("targetIndex", targetIndex),
			zap.Int("requestedIndex", c.state.RequestedIndex))
		return false
	}

	if targetIndex < 0 || targetIndex >= c.segments {
		c.logger.Error("目標索引超出範圍",
			zap.Int("targetIndex", targetIndex),
			zap.Int("segments", c.segments))
		return false
	}

	extraTurns := c.config.MinExtraTurns
	if span := c.config.MaxExtraTurns - c.config.MinExtraTurns; span > 0 {
		extraTurns += c.rng.Intn(span + 1)
	}

	duration := c.config.MinDuration
	if span := c.config.MaxDuration - c.config.MinDuration; span >= time.Millisecond {
		duration += time.Duration(c.rng.Intn(int(span/time.Millisecond))) * time.Millisecond
	}

	current := c.state.CurrentRotation
	target := c.mapper.RotationForIndex(targetIndex, c.segments, current, extraTurns)

	c.state = SpinState{
		IsSpinning:      true,
		CurrentRotation: current,
		StartRotation:   current,
		TargetRotation:  target,
		WinningIndex:    NoWinner,
		RequestedIndex:  targetIndex,
		Duration:        duration,
	}

	c.logger.Info("開始旋轉",
		zap.Int("targetIndex", targetIndex),
		zap.Int("extraTurns", extraTurns),
		zap.Float64("startRotation", current),
		zap.Float64("targetRotation", target),
		zap.Duration("duration", duration))

	return true
}

// progress 返回 [0,1] 的動畫進度
func (c *Controller) progress(now time.Time) float64 {
	if c.state.Duration <= 0 {
		return 1
	}
	elapsed := now.Sub(c.state.StartedAt)
	p := float64(elapsed) / float64(c.state.Duration)
	return math.Max(0, math.Min(p, 1))
}

// Tick 依 now 推進動畫，第一次呼叫時記錄起始時間
// completed 只會在旋轉結束的那一幀為 true，之後的 Tick 不會重複觸發
func (c *Controller) Tick(now time.Time) (state SpinState, completed bool) {
	if !c.state.IsSpinning {
		return c.state, false
	}

	if c.state.StartedAt.IsZero() {
		c.state.StartedAt = now
	}

	p := c.progress(now)
	if p < 1 {
		// 緩動值限制在 [0,1]，角度只前進不後退
		eased := math.Max(0, math.Min(c.config.Easing(p), 1))
		rotation := c.state.StartRotation + (c.state.TargetRotation-c.state.StartRotation)*eased
		if rotation > c.state.CurrentRotation {
			c.state.CurrentRotation = rotation
		}
		return c.state, false
	}

	result := c.complete()
	if c.onComplete != nil {
		c.onComplete(result)
	}
	return c.state, true
}

// complete Spinning -> Idle，每次旋轉只走一次
func (c *Controller) complete() Result {
	c.state.IsSpinning = false
	c.state.CurrentRotation = c.state.TargetRotation

	winning := c.mapper.IndexForRotation(c.state.TargetRotation, c.segments)
	c.state.WinningIndex = winning

	result := Result{
		RequestedIndex: c.state.RequestedIndex,
		WinningIndex:   winning,
		Rotation:       c.state.TargetRotation,
		Mismatch:       winning != c.state.RequestedIndex,
	}

	if result.Mismatch {
		c.logger.Error("落點與抽選結果不一致，以落點為準",
			zap.Int("requestedIndex", result.RequestedIndex),
			zap.Int("winningIndex", winning),
			zap.Float64("rotation", result.Rotation))
	} else {
		c.logger.Info("旋轉結束",
			zap.Int("winningIndex", winning),
			zap.Float64("rotation", result.Rotation))
	}

	return result
}

// Reset 從任何狀態強制回到 Idle，角度與中獎索引歸零，未完成的旋轉不會再觸發回調
func (c *Controller) Reset() {
	if c.state.IsSpinning {
		c.logger.Info("取消進行中的旋轉", zap.Int("requestedIndex", c.state.RequestedIndex))
	}
	c.state = idleState()
}
