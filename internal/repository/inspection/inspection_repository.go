package inspection

import (
	"context"
	"errors"

	"feeguard-backend/internal/types"
	"feeguard-backend/pkg/logger"

	"gorm.io/gorm"
)

// Repository 检查历史仓库接口
type Repository interface {
	Create(ctx context.Context, record *types.InspectionRecord) error
	ListRecent(ctx context.Context, limit int) ([]types.InspectionRecord, int64, error)
	ListByTxHash(ctx context.Context, txHash string, limit int) ([]types.InspectionRecord, int64, error)
	GetLatestByTxHash(ctx context.Context, txHash string) (*types.InspectionRecord, error)
}

// repository 检查历史仓库实现
type repository struct {
	db *gorm.DB
}

// NewRepository 创建新的检查历史仓库
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

// Create 写入一条检查历史
func (r *repository) Create(ctx context.Context, record *types.InspectionRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		logger.Error("Create Inspection Error: ", err, "tx_hash", record.TxHash)
		return err
	}
	return nil
}

// ListRecent 按时间倒序返回最近的检查历史
func (r *repository) ListRecent(ctx context.Context, limit int) ([]types.InspectionRecord, int64, error) {
	var records []types.InspectionRecord
	var total int64

	if err := r.db.WithContext(ctx).Model(&types.InspectionRecord{}).Count(&total).Error; err != nil {
		logger.Error("ListRecent Error: ", err)
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		logger.Error("ListRecent Error: ", err)
		return nil, 0, err
	}

	return records, total, nil
}

// ListByTxHash 返回某个交易哈希的检查历史
func (r *repository) ListByTxHash(ctx context.Context, txHash string, limit int) ([]types.InspectionRecord, int64, error) {
	var records []types.InspectionRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&types.InspectionRecord{}).Where("tx_hash = ?", txHash)
	if err := query.Count(&total).Error; err != nil {
		logger.Error("ListByTxHash Error: ", err, "tx_hash", txHash)
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		logger.Error("ListByTxHash Error: ", err, "tx_hash", txHash)
		return nil, 0, err
	}

	return records, total, nil
}

// GetLatestByTxHash 返回某个交易哈希最近的一条检查历史，不存在时返回nil
func (r *repository) GetLatestByTxHash(ctx context.Context, txHash string) (*types.InspectionRecord, error) {
	var record types.InspectionRecord

	err := r.db.WithContext(ctx).
		Where("tx_hash = ?", txHash).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error("GetLatestByTxHash Error: ", err, "tx_hash", txHash)
		return nil, err
	}

	return &record, nil
}
