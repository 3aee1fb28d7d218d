package types

import (
	"math/big"
	"time"
)

// TxStatus 交易检查状态
type TxStatus string

const (
	TxStatusNotFound TxStatus = "not_found" // 链上查无此交易
	TxStatusPending  TxStatus = "pending"   // 已广播未上链
	TxStatusSuccess  TxStatus = "success"   // 已上链且执行成功
	TxStatusFailed   TxStatus = "failed"    // 已上链但执行失败
)

// TxRecord eth_getTransactionByHash 的结果。nil 表示链上不存在。
type TxRecord struct {
	Hash        string
	From        string
	To          *string // nil 表示合约创建
	Gas         uint64
	GasPriceWei *big.Int
	Pending     bool // 尚未被打包进区块
}

// ReceiptRecord eth_getTransactionReceipt 的结果。nil 表示回执尚不可用。
type ReceiptRecord struct {
	GasUsed              uint64
	Success              bool
	EffectiveGasPriceWei *big.Int // 传输层未提供时为nil
	BlockNumber          *big.Int
}

// BlockRecord 区块头信息
type BlockRecord struct {
	Number    *big.Int
	Timestamp uint64 // Unix秒
}

// FeeMetrics 手续费指标。wei 值全部使用大整数精确计算，
// TotalFeeEth 仅用于展示，不参与任何比较。
type FeeMetrics struct {
	GasUsed     uint64
	GasPriceWei *big.Int
	TotalFeeWei *big.Int
	TotalFeeEth float64
}

// TxInspectionReport 单笔交易检查报告，字段与兼容性契约保持一致
type TxInspectionReport struct {
	TxHash          string   `json:"tx_hash"`
	ChainID         *int64   `json:"chain_id"`
	NetworkLabel    string   `json:"network_label"`
	FromAddr        *string  `json:"from_addr"`
	ToAddr          *string  `json:"to_addr"`
	Status          TxStatus `json:"status"`
	BlockNumber     *uint64  `json:"block_number"`
	TimestampUTC    *string  `json:"timestamp_utc"`
	Confirmations   *uint64  `json:"confirmations"`
	GasUsed         *uint64  `json:"gas_used"`
	GasPriceWei     *big.Int `json:"gas_price_wei"`
	TotalFeeWei     *big.Int `json:"total_fee_wei"`
	TotalFeeEth     *float64 `json:"total_fee_eth"`
	FeeThresholdEth float64  `json:"fee_threshold_eth"`
	HighFee         bool     `json:"high_fee"`
	Pending         bool     `json:"pending"`
	Error           *string  `json:"error"`
	ElapsedSeconds  float64  `json:"elapsed_seconds"`
}

// ExitCode 报告到退出码的映射，供CLI层使用
func (r *TxInspectionReport) ExitCode() int {
	switch {
	case r.Status == TxStatusNotFound:
		return ExitNotFound
	case r.HighFee:
		return ExitHighFee
	default:
		return ExitOK
	}
}

// InspectionRecord 检查历史记录模型（仅服务模式落库）
type InspectionRecord struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	TxHash          string    `json:"tx_hash" gorm:"size:66;not null;index"`
	ChainID         *int64    `json:"chain_id" gorm:"index"`
	NetworkLabel    string    `json:"network_label" gorm:"size:100"`
	FromAddr        *string   `json:"from_addr" gorm:"size:42"`
	ToAddr          *string   `json:"to_addr" gorm:"size:42"`
	Status          string    `json:"status" gorm:"size:20;not null;index"`
	BlockNumber     *uint64   `json:"block_number"`
	Confirmations   *uint64   `json:"confirmations"`
	GasUsed         *uint64   `json:"gas_used"`
	GasPriceWei     *string   `json:"gas_price_wei" gorm:"size:100"`   // wei，十进制字符串
	TotalFeeWei     *string   `json:"total_fee_wei" gorm:"size:100"`   // wei，十进制字符串
	TotalFeeEth     *float64  `json:"total_fee_eth"`
	FeeThresholdEth float64   `json:"fee_threshold_eth" gorm:"not null"`
	HighFee         bool      `json:"high_fee" gorm:"not null;index"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName 设置表名
func (InspectionRecord) TableName() string {
	return "inspections"
}

// NewInspectionRecord 由检查报告构造历史记录
func NewInspectionRecord(r *TxInspectionReport) *InspectionRecord {
	record := &InspectionRecord{
		TxHash:          r.TxHash,
		ChainID:         r.ChainID,
		NetworkLabel:    r.NetworkLabel,
		FromAddr:        r.FromAddr,
		ToAddr:          r.ToAddr,
		Status:          string(r.Status),
		BlockNumber:     r.BlockNumber,
		Confirmations:   r.Confirmations,
		GasUsed:         r.GasUsed,
		TotalFeeEth:     r.TotalFeeEth,
		FeeThresholdEth: r.FeeThresholdEth,
		HighFee:         r.HighFee,
	}
	if r.GasPriceWei != nil {
		s := r.GasPriceWei.String()
		record.GasPriceWei = &s
	}
	if r.TotalFeeWei != nil {
		s := r.TotalFeeWei.String()
		record.TotalFeeWei = &s
	}
	return record
}

// GetInspectionsRequest 检查历史查询请求
type GetInspectionsRequest struct {
	Limit  int     `form:"limit"`
	TxHash *string `form:"tx_hash"`
}

// GetInspectionsResponse 检查历史查询响应
type GetInspectionsResponse struct {
	Inspections []InspectionRecord `json:"inspections"`
	Total       int64              `json:"total"`
}
