package config

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// CommandLineArgs 存儲從命令行解析的參數
type CommandLineArgs struct {
	// 服務設定
	ServiceName string
	ServicePort string
	ServerMode  string
	LogLevel    string
	LogFile     string

	// 轉盤設定
	CatalogueFile string
	HistoryDriver string
	Timezone      string

	// 是否已處理命令行參數
	parsed bool
}

// 全局變量，用於存儲解析後的命令行參數
var Args CommandLineArgs

// InitFlags 初始化並解析命令行參數，結果寫回環境變量供 LoadConfig 讀取
func InitFlags() {
	if Args.parsed {
		return
	}

	// 先載入 .env，讓參數預設值可以讀到
	_ = godotenv.Load()

	fs := flag.CommandLine
	registerFlags(fs)
	flag.Parse()

	setEnvironmentVariables()
	Args.parsed = true

	if Args.ServerMode == "dev" {
		log.Println("已解析的命令行參數:")
		log.Printf("  服務名稱: %s", Args.ServiceName)
		log.Printf("  服務端口: %s", Args.ServicePort)
		log.Printf("  服務器模式: %s", Args.ServerMode)
		log.Printf("  日誌級別: %s", Args.LogLevel)
		log.Printf("  選項檔案: %s", Args.CatalogueFile)
		log.Printf("  紀錄儲存: %s", Args.HistoryDriver)
		log.Printf("  時區: %s", Args.Timezone)
	}
}

// registerFlags 以環境變量為預設值註冊參數
func registerFlags(fs *flag.FlagSet) {
	fs.StringVar(&Args.ServiceName, "service_name", getEnv("APP_NAME", "wheel_lottery_service"), "Service name")
	fs.StringVar(&Args.ServicePort, "service_port", getEnv("SERVICE_PORT", "8080"), "Service port")
	fs.StringVar(&Args.ServerMode, "server_mode", getEnv("SERVER_MODE", "dev"), "Server mode (dev, prod)")
	fs.StringVar(&Args.LogLevel, "log_level", getEnv("LOG_LEVEL", "info"), "Log level")
	fs.StringVar(&Args.LogFile, "log_file", getEnv("LOG_FILE", ""), "Log file path, empty for stdout only")

	fs.StringVar(&Args.CatalogueFile, "catalogue", getEnv("WHEEL_CATALOGUE_FILE", ""), "Wheel option catalogue (YAML)")
	fs.StringVar(&Args.HistoryDriver, "history_driver", getEnv("HISTORY_DRIVER", "memory"), "History backend (redis, mysql, memory)")
	fs.StringVar(&Args.Timezone, "timezone", getEnv("WHEEL_TIMEZONE", "Local"), "Timezone used for time boosts")
}

// setEnvironmentVariables 將解析後的命令行參數設置到環境變量中
func setEnvironmentVariables() {
	os.Setenv("APP_NAME", Args.ServiceName)
	os.Setenv("SERVICE_PORT", Args.ServicePort)
	os.Setenv("SERVER_MODE", Args.ServerMode)
	os.Setenv("LOG_LEVEL", Args.LogLevel)
	os.Setenv("LOG_FILE", Args.LogFile)

	os.Setenv("WHEEL_CATALOGUE_FILE", Args.CatalogueFile)
	os.Setenv("HISTORY_DRIVER", Args.HistoryDriver)
	os.Setenv("WHEEL_TIMEZONE", Args.Timezone)
}
