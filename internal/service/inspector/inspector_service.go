package inspector

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"feeguard-backend/internal/config"
	"feeguard-backend/internal/registry"
	"feeguard-backend/internal/repository/inspection"
	"feeguard-backend/internal/types"
	"feeguard-backend/pkg/blockchain"
	"feeguard-backend/pkg/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// timestampLayout 区块时间的展示格式（UTC）
const timestampLayout = "2006-01-02 15:04:05 UTC"

const (
	errTxNotFound      = "transaction not found"
	errReceiptNotReady = "receipt not yet available"
)

// Service 交易检查服务接口
type Service interface {
	Inspect(ctx context.Context, rawHash string, thresholdEth float64) (*types.TxInspectionReport, error)
}

// service 交易检查服务实现。redisClient和historyRepo可为nil（CLI模式），
// 此时管道退化为纯粹的取数+分类，无缓存无落库。
type service struct {
	cfg         *config.GuardConfig
	client      blockchain.ChainClient
	registry    *registry.Registry
	redisClient *redis.Client
	historyRepo inspection.Repository
}

// NewService 创建新的交易检查服务
func NewService(cfg *config.GuardConfig, client blockchain.ChainClient, reg *registry.Registry, redisClient *redis.Client, historyRepo inspection.Repository) Service {
	return &service{
		cfg:         cfg,
		client:      client,
		registry:    reg,
		redisClient: redisClient,
		historyRepo: historyRepo,
	}
}

// Inspect 对单笔交易执行完整的检查管道：
// 规范化 -> 并发取数 -> 状态判定 -> 手续费计算 -> 分类。
// 每次调用都是独立计算，不持有跨调用状态。
func (s *service) Inspect(ctx context.Context, rawHash string, thresholdEth float64) (*types.TxInspectionReport, error) {
	hash, err := NormalizeTxHash(rawHash)
	if err != nil {
		logger.Error("Inspect Error: ", err, "raw_hash", rawHash)
		return nil, err
	}
	if thresholdEth < 0 {
		logger.Error("Inspect Error: ", types.ErrInvalidThreshold, "threshold_eth", thresholdEth)
		return nil, types.ErrInvalidThreshold
	}

	if cached := s.cacheGet(ctx, hash, thresholdEth); cached != nil {
		logger.Info("Inspect: cache hit", "tx_hash", hash)
		return cached, nil
	}

	start := time.Now()

	// 四路独立读取并发执行，汇合后才进入状态判定
	var (
		txRec   *types.TxRecord
		receipt *types.ReceiptRecord
		latest  uint64
		chainID int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var gerr error
		txRec, gerr = s.client.TransactionByHash(gctx, hash)
		return gerr
	})
	g.Go(func() error {
		var gerr error
		receipt, gerr = s.client.ReceiptByHash(gctx, hash)
		return gerr
	})
	g.Go(func() error {
		var gerr error
		latest, gerr = s.client.LatestBlockNumber(gctx)
		return gerr
	})
	g.Go(func() error {
		var gerr error
		chainID, gerr = s.client.ChainID(gctx)
		return gerr
	})
	if err := g.Wait(); err != nil {
		logger.Error("Inspect Error: ", err, "tx_hash", hash)
		return nil, err
	}

	report := &types.TxInspectionReport{
		TxHash:          hash,
		ChainID:         &chainID,
		NetworkLabel:    s.registry.Label(&chainID),
		FeeThresholdEth: thresholdEth,
	}

	state, success := DetectState(txRec, receipt)
	switch state {
	case StateNotFound:
		report.Status = types.TxStatusNotFound
		errDetail := errTxNotFound
		report.Error = &errDetail

	case StatePending:
		report.Status = types.TxStatusPending
		report.Pending = true
		report.FromAddr = fromAddr(txRec)
		report.ToAddr = txRec.To
		if !txRec.Pending {
			// 罕见竞态：交易已被打包但回执还取不到
			errDetail := errReceiptNotReady
			report.Error = &errDetail
		}

	case StateIncluded:
		if err := s.fillIncluded(ctx, report, txRec, receipt, success, latest, thresholdEth); err != nil {
			return nil, err
		}
	}

	report.ElapsedSeconds = round3(time.Since(start).Seconds())

	logger.Info("Inspect: ", "tx_hash", hash, "status", report.Status, "high_fee", report.HighFee, "elapsed", report.ElapsedSeconds)

	s.persist(ctx, report)
	if state == StateIncluded {
		s.cacheSet(ctx, hash, thresholdEth, report)
	}
	return report, nil
}

// fillIncluded 填充已上链交易的区块、确认数与手续费字段
func (s *service) fillIncluded(ctx context.Context, report *types.TxInspectionReport, txRec *types.TxRecord, receipt *types.ReceiptRecord, success bool, latest uint64, thresholdEth float64) error {
	block, err := s.client.BlockByNumber(ctx, receipt.BlockNumber)
	if err != nil {
		logger.Error("Inspect Error: ", err, "tx_hash", report.TxHash, "block_number", receipt.BlockNumber)
		return err
	}

	if success {
		report.Status = types.TxStatusSuccess
	} else {
		report.Status = types.TxStatusFailed
	}
	report.FromAddr = fromAddr(txRec)
	report.ToAddr = txRec.To

	blockNumber := receipt.BlockNumber.Uint64()
	report.BlockNumber = &blockNumber

	ts := time.Unix(int64(block.Timestamp), 0).UTC().Format(timestampLayout)
	report.TimestampUTC = &ts

	confirmations := uint64(0)
	if latest > blockNumber {
		confirmations = latest - blockNumber
	}
	report.Confirmations = &confirmations

	fee := ComputeFeeMetrics(txRec, receipt)
	report.GasUsed = &fee.GasUsed
	report.GasPriceWei = fee.GasPriceWei
	report.TotalFeeWei = fee.TotalFeeWei
	report.TotalFeeEth = &fee.TotalFeeEth
	report.HighFee = Classify(StateIncluded, fee, thresholdEth) == VerdictHighFee
	return nil
}

func fromAddr(txRec *types.TxRecord) *string {
	if txRec == nil || txRec.From == "" {
		return nil
	}
	from := txRec.From
	return &from
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func (s *service) cacheKey(hash string, thresholdEth float64) string {
	return fmt.Sprintf("%s%s:%s", s.cfg.CachePrefix, hash, ThresholdToWei(thresholdEth).String())
}

// cacheGet 读取已终结报告的缓存，任何缓存故障都只记日志不影响管道
func (s *service) cacheGet(ctx context.Context, hash string, thresholdEth float64) *types.TxInspectionReport {
	if s.redisClient == nil {
		return nil
	}
	result, err := s.redisClient.Get(ctx, s.cacheKey(hash, thresholdEth)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Error("Inspect cache get failed", err, "tx_hash", hash)
		}
		return nil
	}
	var report types.TxInspectionReport
	if err := json.Unmarshal([]byte(result), &report); err != nil {
		logger.Error("Inspect cache unmarshal failed", err, "tx_hash", hash)
		return nil
	}
	return &report
}

// cacheSet 仅缓存已上链（终态）的报告，pending和not_found随时可能变化
func (s *service) cacheSet(ctx context.Context, hash string, thresholdEth float64, report *types.TxInspectionReport) {
	if s.redisClient == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		logger.Error("Inspect cache marshal failed", err, "tx_hash", hash)
		return
	}
	if err := s.redisClient.Set(ctx, s.cacheKey(hash, thresholdEth), data, s.cfg.CacheTTL).Err(); err != nil {
		logger.Error("Inspect cache set failed", err, "tx_hash", hash)
	}
}

// persist 服务模式下落库一条检查历史，失败不影响报告返回
func (s *service) persist(ctx context.Context, report *types.TxInspectionReport) {
	if s.historyRepo == nil {
		return
	}
	if err := s.historyRepo.Create(ctx, types.NewInspectionRecord(report)); err != nil {
		logger.Error("Inspect persist failed", err, "tx_hash", report.TxHash)
	}
}
