package config

import "go.uber.org/fx"

// ProvideAppConfig 提供應用配置，用於 fx 依賴注入
func ProvideAppConfig() (*AppConfig, error) {
	return LoadConfig()
}

// ProvideCatalogue 依配置載入轉盤選項
func ProvideCatalogue(cfg *AppConfig) (*Catalogue, error) {
	return LoadCatalogue(cfg.Wheel.CatalogueFile)
}

// Module 提供配置模組
var Module = fx.Options(
	fx.Provide(ProvideAppConfig),
	fx.Provide(ProvideCatalogue),
)
