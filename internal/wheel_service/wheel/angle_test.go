package wheel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.InDelta(t, 0, Normalize(0), 1e-12)
	assert.InDelta(t, 0, Normalize(FullTurn), 1e-12)
	assert.InDelta(t, 3*math.Pi/2, Normalize(-math.Pi/2), 1e-12)
	assert.InDelta(t, math.Pi, Normalize(5*math.Pi), 1e-9)

	for _, a := range []float64{-100.5, -1e-15, 0, 3.3, 1000.25} {
		n := Normalize(a)
		assert.GreaterOrEqual(t, n, 0.0)
		assert.Less(t, n, FullTurn)
	}
}

func TestRotationForIndexExample(t *testing.T) {
	m := NewMapper(PointerTop)

	rotation := m.RotationForIndex(2, 8, 0, 0)

	assert.InDelta(t, 7*math.Pi/8, rotation, 1e-9)
	assert.Equal(t, 2, m.IndexForRotation(rotation, 8))
}

func TestRotationIndexRoundTrip(t *testing.T) {
	for _, pointer := range []float64{PointerTop, 0, 1.1} {
		m := NewMapper(pointer)
		for segments := 1; segments <= 12; segments++ {
			for index := 0; index < segments; index++ {
				for _, base := range []float64{0, 1.3, 100.7} {
					for _, turns := range []int{0, 8, 10} {
						rotation := m.RotationForIndex(index, segments, base, turns)

						assert.Equal(t, index, m.IndexForRotation(rotation, segments),
							"pointer=%v segments=%d index=%d base=%v", pointer, segments, index, base)
						assert.GreaterOrEqual(t, rotation, base+float64(turns)*FullTurn)
						assert.Less(t, rotation, base+float64(turns+1)*FullTurn)
					}
				}
			}
		}
	}
}

func TestIndexForRotationBoundaries(t *testing.T) {
	m := NewMapper(PointerTop)

	assert.Equal(t, NoWinner, m.IndexForRotation(1, 0))
	assert.Equal(t, 0, m.IndexForRotation(0, 1))

	// 未旋轉時 12 點鐘方向為轉盤座標 3π/2
	assert.Equal(t, 6, m.IndexForRotation(0, 8))
	assert.Equal(t, 5, m.IndexForRotation(0.01, 8))
	assert.Equal(t, 0, NewMapper(0).IndexForRotation(0, 8))
}

func TestRotationForIndexNegativeTurns(t *testing.T) {
	m := NewMapper(PointerTop)
	assert.Equal(t, m.RotationForIndex(3, 8, 2, 0), m.RotationForIndex(3, 8, 2, -4))
	assert.Equal(t, 2.5, m.RotationForIndex(3, 0, 2.5, 1))
}
