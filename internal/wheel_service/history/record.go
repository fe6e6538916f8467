package history

import (
	"context"
	"time"

	"wheel_lottery_service/internal/wheel_service/wheel"
)

// DefaultMaxRecords 最多保留的紀錄數
const DefaultMaxRecords = 100

// DefaultRecentLimit 未指定數量時返回的最近紀錄數
const DefaultRecentLimit = 10

// SpinRecord 一次抽獎的結果紀錄
type SpinRecord struct {
	SpinID     string    `json:"spinId"`
	OptionID   int       `json:"optionId"`
	OptionName string    `json:"optionName"`
	Emoji      string    `json:"emoji"`
	Mismatch   bool      `json:"mismatch,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// RecordFromOutcome 由轉盤結果建立紀錄
func RecordFromOutcome(outcome wheel.SpinOutcome) SpinRecord {
	return SpinRecord{
		SpinID:     outcome.SpinID,
		OptionID:   outcome.Option.ID,
		OptionName: outcome.Option.Name,
		Emoji:      outcome.Option.Emoji,
		Mismatch:   outcome.Result.Mismatch,
		Timestamp:  outcome.CompletedAt,
	}
}

// Repository 抽獎紀錄儲存介面，紀錄由新到舊排列
type Repository interface {
	// Save 新增一筆紀錄，超過上限時丟棄最舊的紀錄
	Save(ctx context.Context, record SpinRecord) error
	// Recent 返回最近 limit 筆紀錄
	Recent(ctx context.Context, limit int) ([]SpinRecord, error)
	// Clear 清空所有紀錄
	Clear(ctx context.Context) error
	// Ping 檢查儲存是否可用
	Ping(ctx context.Context) error
	// Name 儲存名稱
	Name() string
}
