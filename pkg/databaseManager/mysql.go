package databaseManager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MySQLConfig 存儲 MySQL 連接的配置項
type MySQLConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	Name      string
	Charset   string
	ParseTime bool
	Loc       string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN 返回 MySQL 連線字串，無效端口使用 3306
func (c *MySQLConfig) DSN() string {
	port := c.Port
	if port <= 0 || port > 65535 {
		port = 3306
	}
	charset := c.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	loc := c.Loc
	if loc == "" {
		loc = "Local"
	}

	auth := c.User
	if c.Password != "" {
		auth = fmt.Sprintf("%s:%s", c.User, c.Password)
	}

	return fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s&allowNativePasswords=true",
		auth, c.Host, port, c.Name, charset, c.ParseTime, loc)
}

// mysqlManagerImpl 是 DatabaseManager 介面的實作
type mysqlManagerImpl struct {
	db *gorm.DB
}

// GetDB 返回 GORM DB 實例
func (m *mysqlManagerImpl) GetDB() *gorm.DB {
	return m.db
}

// Ping 檢查底層連線
func (m *mysqlManagerImpl) Ping(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("取得數據庫實例失敗: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close 關閉數據庫連接
func (m *mysqlManagerImpl) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("取得數據庫實例失敗: %w", err)
	}
	return sqlDB.Close()
}

// NewManagerFromDB 包裝已開啟的 GORM 連線
func NewManagerFromDB(db *gorm.DB) DatabaseManager {
	return &mysqlManagerImpl{db: db}
}

// OpenWithConn 以現有的 *sql.DB 開啟 GORM，不查詢伺服器版本也不自動 ping
func OpenWithConn(conn *sql.DB) (*gorm.DB, error) {
	return gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

// NewMySQLManager 創建一個新的 MySQL 數據庫管理器
func NewMySQLManager(config *MySQLConfig, logger *zap.Logger) (DatabaseManager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.With(zap.String("component", "mysql"))

	log.Info("連接 MySQL",
		zap.String("host", config.Host),
		zap.Int("port", config.Port),
		zap.String("user", config.User),
		zap.String("database", config.Name),
		zap.Bool("passwordSet", config.Password != ""))

	db, err := gorm.Open(mysql.Open(config.DSN()), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Error("數據庫連接失敗", zap.Error(err))
		return nil, fmt.Errorf("連接數據庫失敗: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("取得數據庫實例失敗: %w", err)
	}

	// 設置連接池
	maxOpen, maxIdle, lifetime := config.MaxOpenConns, config.MaxIdleConns, config.ConnMaxLifetime
	if maxOpen <= 0 {
		maxOpen = 10
	}
	if maxIdle <= 0 {
		maxIdle = 5
	}
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(lifetime)

	return &mysqlManagerImpl{db: db}, nil
}

// ProvideMySQLManager 提供 DatabaseManager 並掛上生命週期，用於 fx
func ProvideMySQLManager(lc fx.Lifecycle, config *MySQLConfig, logger *zap.Logger) (DatabaseManager, error) {
	manager, err := NewMySQLManager(config, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := manager.Ping(ctx); err != nil {
				return fmt.Errorf("ping 數據庫失敗: %w", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("關閉數據庫連接")
			return manager.Close()
		},
	})

	return manager, nil
}
