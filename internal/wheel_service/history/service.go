package history

import (
	"context"
	"fmt"
	"sort"
	"time"

	"wheel_lottery_service/internal/wheel_service/wheel"

	"go.uber.org/zap"
)

const weekWindow = 7 * 24 * time.Hour

// OptionCount 單一選項的次數
type OptionCount struct {
	OptionName string `json:"optionName"`
	Count      int    `json:"count"`
}

// Stats 抽獎統計
type Stats struct {
	TodayCount  int            `json:"todayCount"`
	WeeklyTotal int            `json:"weeklyTotal"`
	Weekly      map[string]int `json:"weekly"`
	TopWeekly   []OptionCount  `json:"topWeekly"`
	Total       int            `json:"total"`
}

// Summarize 以 now 所在日期（loc 時區）統計今日次數，並統計最近 7 天各選項次數
func Summarize(records []SpinRecord, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = time.Local
	}

	stats := Stats{
		Weekly: make(map[string]int),
		Total:  len(records),
	}

	y, m, d := now.In(loc).Date()
	weekAgo := now.Add(-weekWindow)

	for _, r := range records {
		ry, rm, rd := r.Timestamp.In(loc).Date()
		if ry == y && rm == m && rd == d {
			stats.TodayCount++
		}
		if r.Timestamp.After(weekAgo) {
			stats.Weekly[r.OptionName]++
			stats.WeeklyTotal++
		}
	}

	stats.TopWeekly = make([]OptionCount, 0, len(stats.Weekly))
	for name, count := range stats.Weekly {
		stats.TopWeekly = append(stats.TopWeekly, OptionCount{OptionName: name, Count: count})
	}
	sort.Slice(stats.TopWeekly, func(i, j int) bool {
		if stats.TopWeekly[i].Count != stats.TopWeekly[j].Count {
			return stats.TopWeekly[i].Count > stats.TopWeekly[j].Count
		}
		return stats.TopWeekly[i].OptionName < stats.TopWeekly[j].OptionName
	})

	return stats
}

// Service 抽獎紀錄服務
type Service struct {
	repo       Repository
	location   *time.Location
	maxRecords int
	timeout    time.Duration
	logger     *zap.Logger
}

// NewService 創建紀錄服務
func NewService(repo Repository, loc *time.Location, maxRecords int, logger *zap.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:       repo,
		location:   loc,
		maxRecords: maxRecords,
		timeout:    3 * time.Second,
		logger:     logger.With(zap.String("component", "history_service"), zap.String("driver", repo.Name())),
	}
}

// Repository 返回底層儲存
func (s *Service) Repository() Repository {
	return s.repo
}

// Record 保存一次轉盤結果，失敗只記錄日誌
func (s *Service) Record(outcome wheel.SpinOutcome) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	record := RecordFromOutcome(outcome)
	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.Error("保存抽獎紀錄失敗",
			zap.String("spinID", record.SpinID),
			zap.String("option", record.OptionName),
			zap.Error(err))
		return
	}
	s.logger.Debug("保存抽獎紀錄", zap.String("spinID", record.SpinID), zap.String("option", record.OptionName))
}

// Recent 返回最近 limit 筆紀錄，limit <= 0 時返回 10 筆
func (s *Service) Recent(ctx context.Context, limit int) ([]SpinRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > s.maxRecords {
		limit = s.maxRecords
	}
	return s.repo.Recent(ctx, limit)
}

// Stats 統計全部保留中的紀錄
func (s *Service) Stats(ctx context.Context, now time.Time) (Stats, error) {
	records, err := s.repo.Recent(ctx, s.maxRecords)
	if err != nil {
		return Stats{}, fmt.Errorf("統計抽獎紀錄失敗: %w", err)
	}
	return Summarize(records, now, s.location), nil
}

// Clear 清空紀錄
func (s *Service) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("已清空抽獎紀錄")
	return nil
}

// Ping 檢查儲存
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
