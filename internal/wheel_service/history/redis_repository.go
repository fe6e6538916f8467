package history

import (
	"context"
	"fmt"

	"wheel_lottery_service/pkg/redisManager"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisRepository 以 Redis 列表保存紀錄，LPUSH 後 LTRIM
type RedisRepository struct {
	redis      redisManager.RedisManager
	key        string
	maxRecords int
	logger     *zap.Logger
}

// NewRedisRepository 創建 Redis 儲存
func NewRedisRepository(redis redisManager.RedisManager, key string, maxRecords int, logger *zap.Logger) *RedisRepository {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisRepository{
		redis:      redis,
		key:        key,
		maxRecords: maxRecords,
		logger:     logger.With(zap.String("component", "history_redis")),
	}
}

func (r *RedisRepository) Save(ctx context.Context, record SpinRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("序列化抽獎紀錄失敗: %w", err)
	}
	if err := r.redis.PushCapped(ctx, r.key, data, int64(r.maxRecords)); err != nil {
		return fmt.Errorf("寫入抽獎紀錄失敗: %w", err)
	}
	return nil
}

// Recent 無法解析的項目會被略過
func (r *RedisRepository) Recent(ctx context.Context, limit int) ([]SpinRecord, error) {
	if limit <= 0 || limit > r.maxRecords {
		limit = r.maxRecords
	}

	items, err := r.redis.LRange(ctx, r.key, 0, int64(limit-1))
	if err != nil {
		return nil, fmt.Errorf("讀取抽獎紀錄失敗: %w", err)
	}

	records := make([]SpinRecord, 0, len(items))
	for i, item := range items {
		var record SpinRecord
		if err := json.UnmarshalFromString(item, &record); err != nil {
			r.logger.Warn("略過無法解析的抽獎紀錄", zap.Int("position", i), zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *RedisRepository) Clear(ctx context.Context) error {
	if err := r.redis.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("清空抽獎紀錄失敗: %w", err)
	}
	return nil
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.redis.Ping(ctx)
}

func (r *RedisRepository) Name() string {
	return "redis"
}
