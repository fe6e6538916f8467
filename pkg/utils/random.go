package utils

import (
	"math/rand"
	"sync"
	"time"
)

// RandomGenerator 提供線程安全的隨機數生成，轉盤抽選與動畫參數共用同一個來源
type RandomGenerator struct {
	rng  *rand.Rand
	lock sync.Mutex
}

var (
	defaultGenerator *RandomGenerator
	once             sync.Once
)

// GetRandomGenerator 返回以目前時間為種子的預設實例
func GetRandomGenerator() *RandomGenerator {
	once.Do(func() {
		defaultGenerator = NewRandomGenerator(time.Now().UnixNano())
	})
	return defaultGenerator
}

// NewRandomGenerator 以固定種子建立，用於重現抽選序列
func NewRandomGenerator(seed int64) *RandomGenerator {
	return &RandomGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Intn 生成 [0,n) 範圍內的隨機整數，n <= 0 時返回 0
func (r *RandomGenerator) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.rng.Intn(n)
}

// Float64 返回 [0.0,1.0) 範圍內的隨機浮點數
func (r *RandomGenerator) Float64() float64 {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.rng.Float64()
}
