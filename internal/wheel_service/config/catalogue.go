package config

import (
	"fmt"
	"os"

	"wheel_lottery_service/internal/wheel_service/wheel"

	"gopkg.in/yaml.v3"
)

// CatalogueMetadata 選項檔案的元數據
type CatalogueMetadata struct {
	Version     string `yaml:"version" json:"version" validate:"required"`
	LastUpdated string `yaml:"lastUpdated" json:"lastUpdated"`
	Description string `yaml:"description" json:"description"`
}

// timeBoostEntry 檔案中的時段加成
// 小時與倍數的合法性交給權重計算器處理，無效項目只會被略過
type timeBoostEntry struct {
	Name       string  `yaml:"name"`
	StartHour  int     `yaml:"startHour"`
	EndHour    int     `yaml:"endHour"`
	Multiplier float64 `yaml:"multiplier"`
}

// optionEntry 檔案中的單一選項
type optionEntry struct {
	ID         int              `yaml:"id" validate:"gte=0"`
	Name       string           `yaml:"name" validate:"required"`
	Color      string           `yaml:"color" validate:"omitempty,hexcolor"`
	Emoji      string           `yaml:"emoji"`
	BaseWeight *float64         `yaml:"baseWeight"`
	TimeBoosts []timeBoostEntry `yaml:"timeBoosts"`
}

type catalogueFile struct {
	Metadata CatalogueMetadata `yaml:"metadata"`
	Options  []optionEntry     `yaml:"options" validate:"required,min=1,dive"`
}

// Catalogue 轉盤選項目錄
type Catalogue struct {
	Metadata CatalogueMetadata `json:"metadata"`
	Options  []wheel.Option    `json:"options"`
}

// LoadCatalogue 從 YAML 檔案載入選項，path 為空時使用內建選項
func LoadCatalogue(path string) (*Catalogue, error) {
	if path == "" {
		return DefaultCatalogue(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("讀取選項檔案失敗: %w", err)
	}
	return ParseCatalogue(data)
}

// ParseCatalogue 解析 YAML 內容
func ParseCatalogue(data []byte) (*Catalogue, error) {
	var file catalogueFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("解析選項檔案失敗: %w", err)
	}
	if err := validate.Struct(&file); err != nil {
		return nil, fmt.Errorf("選項檔案驗證失敗: %w", err)
	}

	seen := make(map[int]struct{}, len(file.Options))
	options := make([]wheel.Option, 0, len(file.Options))
	for _, entry := range file.Options {
		if _, dup := seen[entry.ID]; dup {
			return nil, fmt.Errorf("選項檔案驗證失敗: 重複的選項 ID %d", entry.ID)
		}
		seen[entry.ID] = struct{}{}
		options = append(options, entry.toOption())
	}

	return &Catalogue{
		Metadata: file.Metadata,
		Options:  options,
	}, nil
}

// toOption 未填 baseWeight 時視為 1
func (e optionEntry) toOption() wheel.Option {
	weight := 1.0
	if e.BaseWeight != nil {
		weight = *e.BaseWeight
	}

	boosts := make([]wheel.TimeBoost, 0, len(e.TimeBoosts))
	for _, b := range e.TimeBoosts {
		boosts = append(boosts, wheel.TimeBoost{
			Name:       b.Name,
			StartHour:  b.StartHour,
			EndHour:    b.EndHour,
			Multiplier: b.Multiplier,
		})
	}

	return wheel.Option{
		ID:         e.ID,
		Name:       e.Name,
		Color:      e.Color,
		Emoji:      e.Emoji,
		BaseWeight: weight,
		TimeBoosts: boosts,
	}
}

// DefaultCatalogue 內建的午餐選項
func DefaultCatalogue() *Catalogue {
	lunch := wheel.TimeBoost{Name: "午餐時段", StartHour: 11, EndHour: 14, Multiplier: 2}
	dinner := wheel.TimeBoost{Name: "晚餐時段", StartHour: 17, EndHour: 20, Multiplier: 1.5}
	lateNight := wheel.TimeBoost{Name: "宵夜時段", StartHour: 22, EndHour: 2, Multiplier: 2}

	return &Catalogue{
		Metadata: CatalogueMetadata{
			Version:     "1.0.0",
			LastUpdated: "2026-01-01",
			Description: "內建美食轉盤選項",
		},
		Options: []wheel.Option{
			{ID: 1, Name: "西部馬華", Color: "#FF6B6B", Emoji: "🍜", BaseWeight: 1, TimeBoosts: []wheel.TimeBoost{lunch}},
			{ID: 2, Name: "地下美食", Color: "#4ECDC4", Emoji: "🍱", BaseWeight: 1, TimeBoosts: []wheel.TimeBoost{lunch, dinner}},
			{ID: 3, Name: "煲仔飯", Color: "#45B7D1", Emoji: "🍲", BaseWeight: 0.8, TimeBoosts: []wheel.TimeBoost{dinner}},
			{ID: 4, Name: "晉來順", Color: "#FFA07A", Emoji: "🥘", BaseWeight: 1},
			{ID: 5, Name: "陝一哥", Color: "#98D8C8", Emoji: "🍝", BaseWeight: 1.2, TimeBoosts: []wheel.TimeBoost{lunch}},
			{ID: 6, Name: "十街", Color: "#F7B731", Emoji: "🍛", BaseWeight: 1},
			{ID: 7, Name: "品渡", Color: "#5F27CD", Emoji: "🍣", BaseWeight: 0.6, TimeBoosts: []wheel.TimeBoost{dinner}},
			{ID: 8, Name: "冒菜", Color: "#00D2D3", Emoji: "🥗", BaseWeight: 1, TimeBoosts: []wheel.TimeBoost{lateNight}},
		},
	}
}
