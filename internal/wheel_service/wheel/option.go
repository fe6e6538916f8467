package wheel

import "time"

// TimeBoost 時段權重加成
// 區間包含 StartHour、不包含 EndHour，StartHour > EndHour 時視為跨日（如 22 -> 2）
type TimeBoost struct {
	Name       string  `json:"name" yaml:"name"`
	StartHour  int     `json:"startHour" yaml:"startHour"`
	EndHour    int     `json:"endHour" yaml:"endHour"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// Option 轉盤選項，載入後不可修改
type Option struct {
	ID         int         `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Color      string      `json:"color" yaml:"color"`
	Emoji      string      `json:"emoji" yaml:"emoji"`
	BaseWeight float64     `json:"baseWeight" yaml:"baseWeight"`
	TimeBoosts []TimeBoost `json:"timeBoosts" yaml:"timeBoosts"`
}

// WeightedOption 帶有當次計算權重的選項，每次抽選重新計算，不做持久化
type WeightedOption struct {
	Option
	CurrentWeight float64 `json:"currentWeight"`
}

// NoWinner 表示尚未產生中獎扇形
const NoWinner = -1

// SpinState 單一轉盤的旋轉狀態，只能透過 Controller 的公開方法修改
type SpinState struct {
	IsSpinning      bool          `json:"isSpinning"`
	CurrentRotation float64       `json:"currentRotation"` // 弧度，整個生命週期內單調遞增
	StartRotation   float64       `json:"startRotation"`
	TargetRotation  float64       `json:"targetRotation"`
	WinningIndex    int           `json:"winningIndex"`
	RequestedIndex  int           `json:"requestedIndex"`
	StartedAt       time.Time     `json:"startedAt"` // 第一次 Tick 才記錄
	Duration        time.Duration `json:"duration"`
}

// idleState 返回閒置狀態
func idleState() SpinState {
	return SpinState{
		WinningIndex:   NoWinner,
		RequestedIndex: NoWinner,
	}
}

// Frame 每一幀提供給渲染端的唯讀快照
type Frame struct {
	Rotation      float64 `json:"rotation"`
	IsSpinning    bool    `json:"isSpinning"`
	WinningIndex  int     `json:"winningIndex"`
	GlowIntensity float64 `json:"glowIntensity"`
}

// Result 一次旋轉結束時的結果
type Result struct {
	RequestedIndex int     `json:"requestedIndex"`
	WinningIndex   int     `json:"winningIndex"` // 由最終角度重新計算，以此為準
	Rotation       float64 `json:"rotation"`
	Mismatch       bool    `json:"mismatch"`
}
