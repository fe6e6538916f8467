package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"wheel_lottery_service/internal/wheel_service/wheel"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ===== 配置結構定義 =====

// AppConfig 應用程式配置結構
type AppConfig struct {
	AppName  string         `json:"appName" validate:"required"`
	Debug    bool           `json:"debug"`
	Server   ServerConfig   `json:"server"`
	Log      LogConfig      `json:"log"`
	Wheel    WheelConfig    `json:"wheel"`
	History  HistoryConfig  `json:"history"`
	Redis    RedisConfig    `json:"redis"`
	Database DatabaseConfig `json:"database"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Host    string `json:"host"`
	Port    int    `json:"port" validate:"min=1,max=65535"`
	Version string `json:"version" validate:"required"`
	Mode    string `json:"mode" validate:"oneof=dev prod"`
}

// LogConfig 日誌配置，File 為空時只輸出到 stdout
type LogConfig struct {
	Level      string `json:"level" validate:"oneof=debug info warn error"`
	File       string `json:"file"`
	MaxSizeMB  int    `json:"maxSizeMb" validate:"min=1"`
	MaxBackups int    `json:"maxBackups" validate:"min=0"`
	MaxAgeDays int    `json:"maxAgeDays" validate:"min=0"`
}

// WheelConfig 轉盤配置
type WheelConfig struct {
	CatalogueFile string        `json:"catalogueFile"`
	FrameRate     int           `json:"frameRate" validate:"min=1,max=240"`
	MinExtraTurns int           `json:"minExtraTurns" validate:"min=0"`
	MaxExtraTurns int           `json:"maxExtraTurns" validate:"gtefield=MinExtraTurns"`
	MinDuration   time.Duration `json:"minDuration" validate:"min=0"`
	MaxDuration   time.Duration `json:"maxDuration" validate:"gtefield=MinDuration"`
	PointerAngle  float64       `json:"pointerAngle"`
	Easing        string        `json:"easing" validate:"required"`
	Timezone      string        `json:"timezone"`
	SpinRate      float64       `json:"spinRate" validate:"gt=0"` // 每秒允許的抽獎次數
	SpinBurst     int           `json:"spinBurst" validate:"min=1"`
	RandomSeed    int64         `json:"randomSeed"` // 0 表示以目前時間為種子
}

// HistoryConfig 抽獎紀錄配置
type HistoryConfig struct {
	Driver     string `json:"driver" validate:"oneof=redis mysql memory"`
	MaxRecords int    `json:"maxRecords" validate:"min=1"`
	RedisKey   string `json:"redisKey" validate:"required"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// DatabaseConfig 數據庫配置
type DatabaseConfig struct {
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

// ===== 環境變量工具函數 =====

// getEnv 從環境變量獲取字符串值，如果不存在則返回默認值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt 從環境變量獲取整數值，如果不存在或無法解析則返回默認值
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat 從環境變量獲取浮點數值，如果不存在或無法解析則返回默認值
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsBool 從環境變量獲取布爾值，如果不存在或無法解析則返回默認值
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration 從環境變量獲取時間間隔，格式如 "4500ms"
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ===== 配置加載主要函數 =====

var validate = validator.New()

// LoadConfig 加載 .env 與環境變量並驗證
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("警告: 找不到 .env 文件: %v", err)
	}

	config := createDefaultConfig()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate 驗證配置
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("配置驗證失敗: %w", err)
	}
	if _, ok := wheel.EasingByName(c.Wheel.Easing); !ok {
		return fmt.Errorf("配置驗證失敗: 未知的緩動函數 %q", c.Wheel.Easing)
	}
	if _, err := c.Wheel.Location(); err != nil {
		return fmt.Errorf("配置驗證失敗: %w", err)
	}
	return nil
}

// createDefaultConfig 從環境變量創建配置
func createDefaultConfig() *AppConfig {
	return &AppConfig{
		AppName: getEnv("APP_NAME", "wheel_lottery_service"),
		Debug:   getEnvAsBool("DEBUG", false),
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvAsInt("SERVICE_PORT", 8080),
			Version: getEnv("SERVER_VERSION", "v1"),
			Mode:    getEnv("SERVER_MODE", "dev"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 7),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 30),
		},
		Wheel: WheelConfig{
			CatalogueFile: getEnv("WHEEL_CATALOGUE_FILE", ""),
			FrameRate:     getEnvAsInt("WHEEL_FRAME_RATE", 60),
			MinExtraTurns: getEnvAsInt("WHEEL_MIN_EXTRA_TURNS", 8),
			MaxExtraTurns: getEnvAsInt("WHEEL_MAX_EXTRA_TURNS", 10),
			MinDuration:   getEnvAsDuration("WHEEL_MIN_DURATION", 4000*time.Millisecond),
			MaxDuration:   getEnvAsDuration("WHEEL_MAX_DURATION", 5000*time.Millisecond),
			PointerAngle:  getEnvAsFloat("WHEEL_POINTER_ANGLE", -math.Pi/2),
			Easing:        getEnv("WHEEL_EASING", "easeOutQuart"),
			Timezone:      getEnv("WHEEL_TIMEZONE", "Local"),
			SpinRate:      getEnvAsFloat("WHEEL_SPIN_RATE", 2),
			SpinBurst:     getEnvAsInt("WHEEL_SPIN_BURST", 1),
			RandomSeed:    int64(getEnvAsInt("WHEEL_RANDOM_SEED", 0)),
		},
		History: HistoryConfig{
			Driver:     getEnv("HISTORY_DRIVER", "memory"),
			MaxRecords: getEnvAsInt("HISTORY_MAX_RECORDS", 100),
			RedisKey:   getEnv("HISTORY_REDIS_KEY", "wheel:history"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "127.0.0.1"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Username: getEnv("REDIS_USERNAME", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "mysql"),
			Host:     getEnv("DB_HOST", "127.0.0.1"),
			Port:     getEnvAsInt("DB_PORT", 3306),
			Username: getEnv("DB_USERNAME", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "wheel"),
		},
	}
}

// Location 解析轉盤使用的時區，"Local" 或空字串為本地時區
func (c WheelConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("無效的時區 %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SpinConfig 轉換為引擎使用的旋轉參數
func (c WheelConfig) SpinConfig() wheel.SpinConfig {
	easing, ok := wheel.EasingByName(c.Easing)
	if !ok {
		easing = wheel.EaseOutQuart
	}
	return wheel.SpinConfig{
		MinExtraTurns: c.MinExtraTurns,
		MaxExtraTurns: c.MaxExtraTurns,
		MinDuration:   c.MinDuration,
		MaxDuration:   c.MaxDuration,
		PointerAngle:  c.PointerAngle,
		Easing:        easing,
	}
}

// FrameInterval 每一幀的間隔
func (c WheelConfig) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.FrameRate)
}

// RedisAddr 返回 host:port
func (c RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DSN 返回 MySQL 連線字串
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.DBName)
}
