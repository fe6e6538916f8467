package wheel

import "math"

// FullTurn 一整圈的弧度
const FullTurn = 2 * math.Pi

// PointerTop 12 點鐘方向（畫布座標，y 軸向下）
const PointerTop = -math.Pi / 2

// Normalize 將角度正規化到 [0, 2π)，負值以取模繞回而非截斷
func Normalize(angle float64) float64 {
	a := math.Mod(angle, FullTurn)
	if a < 0 {
		a += FullTurn
	}
	// a 極接近 -0 時 a+2π 可能剛好等於 2π
	if a >= FullTurn {
		a -= FullTurn
	}
	return a
}

// SegmentAngle 每個扇形的弧度
func SegmentAngle(segments int) float64 {
	return FullTurn / float64(segments)
}

// Mapper 旋轉角度與扇形索引的雙向對應
//
// 扇形 i 在轉盤自身座標中佔據 [i·2π/N, (i+1)·2π/N)，角度 0 為畫布 3 點鐘方向。
// 正的旋轉角度代表順時針轉動，指針下方的轉盤座標角為 normalize(PointerAngle - rotation)。
type Mapper struct {
	PointerAngle float64
}

// NewMapper 創建對應器
func NewMapper(pointerAngle float64) Mapper {
	return Mapper{PointerAngle: pointerAngle}
}

// IndexForRotation 返回轉盤停在 rotation 時指針所指的扇形索引
func (m Mapper) IndexForRotation(rotation float64, segments int) int {
	if segments <= 0 {
		return NoWinner
	}

	relative := Normalize(m.PointerAngle - rotation)
	idx := int(math.Floor(relative / SegmentAngle(segments)))

	// relative 貼近 2π 時除法可能進位到 segments
	return ((idx % segments) + segments) % segments
}

// RotationForIndex 返回不小於 base 的目標角度，轉到該角度後指針正好指向扇形 index 的中心
// extraTurns 為額外的整圈數，只影響視覺效果，不改變落點
func (m Mapper) RotationForIndex(index, segments int, base float64, extraTurns int) float64 {
	if segments <= 0 {
		return base
	}
	if extraTurns < 0 {
		extraTurns = 0
	}

	center := (float64(index) + 0.5) * SegmentAngle(segments)
	delta := Normalize(m.PointerAngle - center - base)

	return base + float64(extraTurns)*FullTurn + delta
}
