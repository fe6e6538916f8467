package history

import (
	"context"
	"sync"
)

// MemoryRepository 以記憶體保存紀錄，重啟後遺失
type MemoryRepository struct {
	mu         sync.RWMutex
	records    []SpinRecord
	maxRecords int
}

// NewMemoryRepository 創建記憶體儲存
func NewMemoryRepository(maxRecords int) *MemoryRepository {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	return &MemoryRepository{maxRecords: maxRecords}
}

func (r *MemoryRepository) Save(ctx context.Context, record SpinRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append([]SpinRecord{record}, r.records...)
	if len(r.records) > r.maxRecords {
		r.records = r.records[:r.maxRecords]
	}
	return nil
}

func (r *MemoryRepository) Recent(ctx context.Context, limit int) ([]SpinRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.records) {
		limit = len(r.records)
	}
	result := make([]SpinRecord, limit)
	copy(result, r.records[:limit])
	return result, nil
}

func (r *MemoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
	return nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *MemoryRepository) Name() string {
	return "memory"
}
