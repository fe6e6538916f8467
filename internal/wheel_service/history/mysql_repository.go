package history

import (
	"context"
	"fmt"
	"time"

	"wheel_lottery_service/pkg/databaseManager"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SpinRecordModel 抽獎紀錄資料表
type SpinRecordModel struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	SpinID     string    `gorm:"column:spin_id;type:varchar(36);uniqueIndex;not null"`
	OptionID   int       `gorm:"column:option_id;type:int;not null"`
	OptionName string    `gorm:"column:option_name;type:varchar(100);not null"`
	Emoji      string    `gorm:"column:emoji;type:varchar(16);null"`
	Mismatch   bool      `gorm:"column:mismatch;type:boolean;not null;default:false"`
	SpunAt     time.Time `gorm:"column:spun_at;type:timestamp(3);not null;index"`
}

// 設置表名
func (SpinRecordModel) TableName() string {
	return "wheel_spin_records"
}

func modelFromRecord(record SpinRecord) SpinRecordModel {
	return SpinRecordModel{
		SpinID:     record.SpinID,
		OptionID:   record.OptionID,
		OptionName: record.OptionName,
		Emoji:      record.Emoji,
		Mismatch:   record.Mismatch,
		SpunAt:     record.Timestamp,
	}
}

func (m SpinRecordModel) toRecord() SpinRecord {
	return SpinRecord{
		SpinID:     m.SpinID,
		OptionID:   m.OptionID,
		OptionName: m.OptionName,
		Emoji:      m.Emoji,
		Mismatch:   m.Mismatch,
		Timestamp:  m.SpunAt,
	}
}

// MySQLRepository 以 MySQL 保存紀錄，自增 ID 代表寫入順序
type MySQLRepository struct {
	dbManager  databaseManager.DatabaseManager
	maxRecords int
	logger     *zap.Logger
}

// NewMySQLRepository 創建 MySQL 儲存
func NewMySQLRepository(dbManager databaseManager.DatabaseManager, maxRecords int, logger *zap.Logger) *MySQLRepository {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MySQLRepository{
		dbManager:  dbManager,
		maxRecords: maxRecords,
		logger:     logger.With(zap.String("component", "history_mysql")),
	}
}

func (r *MySQLRepository) db(ctx context.Context) *gorm.DB {
	return r.dbManager.GetDB().WithContext(ctx)
}

// Migrate 建立或更新資料表
func (r *MySQLRepository) Migrate(ctx context.Context) error {
	if err := r.db(ctx).AutoMigrate(&SpinRecordModel{}); err != nil {
		return fmt.Errorf("遷移抽獎紀錄資料表失敗: %w", err)
	}
	return nil
}

func (r *MySQLRepository) Save(ctx context.Context, record SpinRecord) error {
	model := modelFromRecord(record)
	if err := r.db(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("寫入抽獎紀錄失敗: %w", err)
	}
	return r.trim(ctx)
}

// trim 刪除超過上限的舊紀錄
func (r *MySQLRepository) trim(ctx context.Context) error {
	var ids []uint
	err := r.db(ctx).Model(&SpinRecordModel{}).
		Order("id DESC").
		Offset(r.maxRecords).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return fmt.Errorf("查詢過期抽獎紀錄失敗: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	result := r.db(ctx).Where("id <= ?", ids[0]).Delete(&SpinRecordModel{})
	if result.Error != nil {
		return fmt.Errorf("刪除過期抽獎紀錄失敗: %w", result.Error)
	}
	r.logger.Debug("刪除過期抽獎紀錄", zap.Int64("rows", result.RowsAffected))
	return nil
}

func (r *MySQLRepository) Recent(ctx context.Context, limit int) ([]SpinRecord, error) {
	if limit <= 0 || limit > r.maxRecords {
		limit = r.maxRecords
	}

	var models []SpinRecordModel
	if err := r.db(ctx).Order("id DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("讀取抽獎紀錄失敗: %w", err)
	}

	records := make([]SpinRecord, 0, len(models))
	for _, m := range models {
		records = append(records, m.toRecord())
	}
	return records, nil
}

func (r *MySQLRepository) Clear(ctx context.Context) error {
	err := r.db(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&SpinRecordModel{}).Error
	if err != nil {
		return fmt.Errorf("清空抽獎紀錄失敗: %w", err)
	}
	return nil
}

func (r *MySQLRepository) Ping(ctx context.Context) error {
	return r.dbManager.Ping(ctx)
}

func (r *MySQLRepository) Name() string {
	return "mysql"
}
