package wheel

import (
	"math"
	"time"

	"go.uber.org/zap"
)

const defaultBaseWeight = 1.0

// Calculator 依照目前時段計算選項實際權重
type Calculator struct {
	logger   *zap.Logger
	location *time.Location
}

// NewCalculator 創建權重計算器，loc 為 nil 時使用 time.Local
func NewCalculator(logger *zap.Logger, loc *time.Location) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Calculator{
		logger:   logger.With(zap.String("component", "weight_calculator")),
		location: loc,
	}
}

// validHour 小時必須落在 0-23
func validHour(h int) bool {
	return h >= 0 && h <= 23
}

// hourInRange 判斷 hour 是否落在 [start, end) 之內，start > end 時跨日
func hourInRange(hour, start, end int) bool {
	if start <= end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}

// boostProblem 返回加成無效的原因，有效時返回空字串
// 倍數必須為正數，倍數 0 會讓正的基礎權重歸零，視同無效
func boostProblem(boost TimeBoost) string {
	if !validHour(boost.StartHour) || !validHour(boost.EndHour) {
		return "時段加成小時無效，略過"
	}
	m := boost.Multiplier
	if math.IsNaN(m) || math.IsInf(m, 0) || m <= 0 {
		return "時段加成倍數無效，略過"
	}
	return ""
}

// boostApplies 判斷加成在指定小時是否生效，無效的加成永遠不生效
func boostApplies(boost TimeBoost, hour int) bool {
	return boostProblem(boost) == "" && hourInRange(hour, boost.StartHour, boost.EndHour)
}

// EffectiveWeight 計算選項在 now 時的實際權重
// 只套用第一個符合的時段加成，不會疊加
func (c *Calculator) EffectiveWeight(opt Option, now time.Time) float64 {
	weight := opt.BaseWeight
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		c.logger.Warn("基礎權重無效，使用預設值",
			zap.Int("optionID", opt.ID),
			zap.String("option", opt.Name),
			zap.Float64("baseWeight", weight),
			zap.Float64("default", defaultBaseWeight))
		weight = defaultBaseWeight
	}

	hour := now.In(c.location).Hour()

	for i, boost := range opt.TimeBoosts {
		if problem := boostProblem(boost); problem != "" {
			c.logger.Warn(problem,
				zap.String("option", opt.Name),
				zap.Int("boostIndex", i),
				zap.String("boost", boost.Name),
				zap.Int("startHour", boost.StartHour),
				zap.Int("endHour", boost.EndHour),
				zap.Float64("multiplier", boost.Multiplier))
			continue
		}

		if boostApplies(boost, hour) {
			weight *= boost.Multiplier
			break
		}
	}

	return weight
}

// EffectiveWeights 為所有選項計算權重，保持輸入順序
func (c *Calculator) EffectiveWeights(opts []Option, now time.Time) []WeightedOption {
	result := make([]WeightedOption, len(opts))
	for i, opt := range opts {
		result[i] = WeightedOption{
			Option:        opt,
			CurrentWeight: c.EffectiveWeight(opt, now),
		}
	}
	return result
}

// Probability 返回選項的中獎機率百分比 (0-100)
// 總權重為 0 時視為均等機率
func Probability(opt WeightedOption, all []WeightedOption) float64 {
	if len(all) == 0 {
		return 0
	}

	total := totalWeight(all)
	if total <= 0 || math.IsInf(total, 0) {
		return 100 / float64(len(all))
	}

	return sanitizeWeight(opt.CurrentWeight) / total * 100
}
