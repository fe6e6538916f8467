package wheel

import "math"

// Easing 將進度 t ∈ [0,1] 映射為緩動後的進度
type Easing func(t float64) float64

// EaseOutQuart 四次方緩出，轉盤預設使用，停止前明顯減速
func EaseOutQuart(t float64) float64 {
	return 1 - math.Pow(1-t, 4)
}

// EaseOutCubic 三次方緩出
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseOutQuint 五次方緩出
func EaseOutQuint(t float64) float64 {
	return 1 - math.Pow(1-t, 5)
}

// EaseOutQuad 二次方緩出
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseInQuad 二次方緩入
func EaseInQuad(t float64) float64 {
	return t * t
}

// Linear 線性（無緩動）
func Linear(t float64) float64 {
	return t
}

// EaseOutExpo 指數緩出
func EaseOutExpo(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

// EaseOutBack 回彈緩出，中途會略為超過 1
func EaseOutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
}

// EaseOutElastic 彈性緩出
func EaseOutElastic(t float64) float64 {
	const c4 = (2 * math.Pi) / 3
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	}
	return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
}

// EaseOutBounce 彈跳緩出
func EaseOutBounce(t float64) float64 {
	const n1 = 7.5625
	const d1 = 2.75

	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

// easings 可由設定選用的緩動函數，只收錄單調遞增的曲線
// EaseOutBack、EaseOutElastic、EaseOutBounce 會超過 1 或回落，不開放設定
var easings = map[string]Easing{
	"easeOutQuart": EaseOutQuart,
	"easeOutCubic": EaseOutCubic,
	"easeOutQuint": EaseOutQuint,
	"easeOutQuad":  EaseOutQuad,
	"easeInQuad":   EaseInQuad,
	"linear":       Linear,
	"easeOutExpo":  EaseOutExpo,
}

// EasingByName 返回指定名稱的緩動函數，找不到時返回 false
func EasingByName(name string) (Easing, bool) {
	e, ok := easings[name]
	return e, ok
}
