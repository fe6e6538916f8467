package history

import (
	"context"
	"fmt"

	"wheel_lottery_service/internal/wheel_service/config"
	"wheel_lottery_service/pkg/databaseManager"
	"wheel_lottery_service/pkg/redisManager"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ProvideRepository 依 HISTORY_DRIVER 建立儲存，只有被選用的後端才會建立連線
func ProvideRepository(lc fx.Lifecycle, cfg *config.AppConfig, logger *zap.Logger) (Repository, error) {
	switch cfg.History.Driver {
	case "redis":
		manager := redisManager.ProvideRedisManager(lc, &redisManager.RedisConfig{
			Addr:     cfg.Redis.RedisAddr(),
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		return NewRedisRepository(manager, cfg.History.RedisKey, cfg.History.MaxRecords, logger), nil

	case "mysql":
		manager, err := databaseManager.ProvideMySQLManager(lc, &databaseManager.MySQLConfig{
			Host:      cfg.Database.Host,
			Port:      cfg.Database.Port,
			User:      cfg.Database.Username,
			Password:  cfg.Database.Password,
			Name:      cfg.Database.DBName,
			ParseTime: true,
		}, logger)
		if err != nil {
			return nil, err
		}
		repo := NewMySQLRepository(manager, cfg.History.MaxRecords, logger)
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return repo.Migrate(ctx)
			},
		})
		return repo, nil

	case "memory", "":
		return NewMemoryRepository(cfg.History.MaxRecords), nil
	}

	return nil, fmt.Errorf("不支援的紀錄儲存: %s", cfg.History.Driver)
}

// ProvideService 提供紀錄服務
func ProvideService(repo Repository, cfg *config.AppConfig, logger *zap.Logger) (*Service, error) {
	loc, err := cfg.Wheel.Location()
	if err != nil {
		return nil, err
	}
	return NewService(repo, loc, cfg.History.MaxRecords, logger), nil
}

// Module 提供 FX 模塊
var Module = fx.Options(
	fx.Provide(ProvideRepository),
	fx.Provide(ProvideService),
)
