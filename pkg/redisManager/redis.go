package redisManager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// 導出 redis.Nil 以便使用者可以處理找不到鍵的情況
var Nil = redis.Nil

// IsKeyNotExist 檢查錯誤是否表示鍵不存在
func IsKeyNotExist(err error) bool {
	return errors.Is(err, redis.Nil)
}

// RedisConfig 存儲 Redis 連接的配置項
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	// 自定義連接超時設定，0 時使用預設值
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
}

// RedisManager 提供 Redis 操作的介面
type RedisManager interface {
	// 列表操作
	PushCapped(ctx context.Context, key string, value interface{}, maxLen int64) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LLen(ctx context.Context, key string) (int64, error)

	// 基本操作
	Delete(ctx context.Context, keys ...string) error

	// 連接管理
	Close() error
	Ping(ctx context.Context) error

	// 獲取原始客戶端
	GetClient() *redis.Client
}

// redisManagerImpl 是 RedisManager 介面的實作
type redisManagerImpl struct {
	client *redis.Client
}

// NewRedisClient 初始化 Redis 客戶端
func NewRedisClient(cfg *RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     20,
	}

	if cfg.DialTimeout > 0 {
		options.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		options.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		options.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.PoolSize > 0 {
		options.PoolSize = cfg.PoolSize
	}

	return redis.NewClient(options)
}

// NewRedisManager 以現有客戶端創建管理器
func NewRedisManager(client *redis.Client) RedisManager {
	return &redisManagerImpl{client: client}
}

// ProvideRedisManager 提供 RedisManager 實例並掛上生命週期，用於 fx
func ProvideRedisManager(lc fx.Lifecycle, cfg *RedisConfig, logger *zap.Logger) RedisManager {
	log := logger.With(zap.String("component", "redis"))
	manager := NewRedisManager(NewRedisClient(cfg))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			if err := manager.Ping(ctx); err != nil {
				return fmt.Errorf("連接 Redis 失敗: %w", err)
			}
			log.Info("Redis 連接成功", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("關閉 Redis 連接")
			return manager.Close()
		},
	})

	return manager
}

// PushCapped 在同一個 MULTI 內 LPUSH 並 LTRIM，列表長度不超過 maxLen
func (r *redisManagerImpl) PushCapped(ctx context.Context, key string, value interface{}, maxLen int64) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, value)
		if maxLen > 0 {
			pipe.LTrim(ctx, key, 0, maxLen-1)
		}
		return nil
	})
	return err
}

func (r *redisManagerImpl) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return r.client.LRange(ctx, key, start, stop).Result()
}

func (r *redisManagerImpl) LLen(ctx context.Context, key string) (int64, error) {
	return r.client.LLen(ctx, key).Result()
}

func (r *redisManagerImpl) Delete(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisManagerImpl) Close() error {
	return r.client.Close()
}

func (r *redisManagerImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisManagerImpl) GetClient() *redis.Client {
	return r.client
}
