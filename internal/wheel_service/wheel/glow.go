package wheel

import (
	"math"
	"time"
)

const (
	glowFloor      = 0.6
	glowAmplitude  = 0.4
	glowHalfPeriod = 300 * time.Millisecond
	glowIdle       = 1.0
)

// GlowIntensity 中獎扇形的脈衝強度，範圍 0.6-1.0（避免完全熄滅）
// 每 300ms 完成一次從 0.6 到 1.0 再回到 0.6 的脈衝
func GlowIntensity(elapsed time.Duration) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	phase := math.Pi * float64(elapsed) / float64(glowHalfPeriod)
	return glowFloor + glowAmplitude*math.Abs(math.Sin(phase))
}

// GlowPulse 只記錄「何時開始發光」，強度由經過時間推導
type GlowPulse struct {
	startedAt time.Time
	active    bool
}

// Begin 從 now 開始脈衝，已在發光時重新計時
func (g *GlowPulse) Begin(now time.Time) {
	g.startedAt = now
	g.active = true
}

// Stop 停止脈衝
func (g *GlowPulse) Stop() {
	g.active = false
	g.startedAt = time.Time{}
}

// Active 是否正在發光
func (g *GlowPulse) Active() bool {
	return g.active
}

// Intensity 返回 now 時的強度，未發光時為 1.0
func (g *GlowPulse) Intensity(now time.Time) float64 {
	if !g.active {
		return glowIdle
	}
	return GlowIntensity(now.Sub(g.startedAt))
}
