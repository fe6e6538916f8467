package wheel

import (
	"math"

	"wheel_lottery_service/pkg/utils"

	"go.uber.org/zap"
)

// RandomSource 抽選使用的隨機來源，測試時可注入固定值
type RandomSource interface {
	// Float64 返回 [0.0,1.0) 範圍內的隨機浮點數
	Float64() float64
	// Intn 返回 [0,n) 範圍內的隨機整數
	Intn(n int) int
}

// Selector 加權隨機選擇器（輪盤賭演算法）
type Selector struct {
	rng    RandomSource
	logger *zap.Logger
}

// NewSelector 創建選擇器，rng 為 nil 時使用全域隨機數生成器
func NewSelector(rng RandomSource, logger *zap.Logger) *Selector {
	if rng == nil {
		rng = utils.GetRandomGenerator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		rng:    rng,
		logger: logger.With(zap.String("component", "weighted_selector")),
	}
}

// sanitizeWeight 負數、NaN 與無限大的權重一律視為 0
func sanitizeWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

func totalWeight(opts []WeightedOption) float64 {
	total := 0.0
	for _, opt := range opts {
		total += sanitizeWeight(opt.CurrentWeight)
	}
	return total
}

// Select 依權重抽出一個索引
//
// 例如權重 [2, 1, 1]，總和 4，抽到 r = 2.5：
//   - 2.5 - 2 = 0.5 (>0，繼續)
//   - 0.5 - 1 = -0.5 (<=0，選中索引 1)
func (s *Selector) Select(opts []WeightedOption) (int, error) {
	if len(opts) == 0 {
		s.logger.Error("選項列表為空，無法抽選")
		return 0, ErrConfiguration
	}

	if len(opts) == 1 {
		return 0, nil
	}

	total := totalWeight(opts)
	if total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		s.logger.Warn("總權重無效，改用均等隨機",
			zap.Float64("totalWeight", total),
			zap.Int("options", len(opts)))
		return s.rng.Intn(len(opts)), nil
	}

	r := s.rng.Float64() * total
	last := 0
	for i, opt := range opts {
		w := sanitizeWeight(opt.CurrentWeight)
		if w == 0 {
			// 權重為 0 的選項沒有區間，不能被選中
			continue
		}
		last = i

		r -= w
		if r <= 0 {
			return i, nil
		}
	}

	s.logger.Warn("浮點誤差導致未選中，返回最後一個選項",
		zap.Int("index", last),
		zap.Float64("remaining", r))
	return last, nil
}

// DistributionStat 單一選項的抽選分布統計
type DistributionStat struct {
	OptionID           int     `json:"optionId"`
	Name               string  `json:"name"`
	Count              int     `json:"count"`
	Percentage         float64 `json:"percentage"`
	ExpectedPercentage float64 `json:"expectedPercentage"`
}

// Distribution 重複抽選 iterations 次，統計實際分布與預期分布（僅供除錯）
func (s *Selector) Distribution(opts []WeightedOption, iterations int) ([]DistributionStat, error) {
	if len(opts) == 0 {
		return nil, ErrConfiguration
	}
	if iterations <= 0 {
		iterations = 10000
	}

	counts := make([]int, len(opts))
	for i := 0; i < iterations; i++ {
		idx, err := s.Select(opts)
		if err != nil {
			return nil, err
		}
		counts[idx]++
	}

	stats := make([]DistributionStat, len(opts))
	for i, opt := range opts {
		stats[i] = DistributionStat{
			OptionID:           opt.ID,
			Name:               opt.Name,
			Count:              counts[i],
			Percentage:         float64(counts[i]) / float64(iterations) * 100,
			ExpectedPercentage: Probability(opt, opts),
		}
	}
	return stats, nil
}
