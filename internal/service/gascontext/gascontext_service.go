package gascontext

import (
	"context"
	"time"

	"feeguard-backend/internal/config"
	"feeguard-backend/internal/registry"
	"feeguard-backend/internal/service/inspector"
	"feeguard-backend/internal/types"
	"feeguard-backend/pkg/blockchain"
	"feeguard-backend/pkg/logger"
)

// Service 上下文手续费画像服务接口。
// 回答"相比近期网络行情，这笔交易的gas价格有多离谱"。
type Service interface {
	Profile(ctx context.Context, rawHash string) (*types.GasContextReport, error)
}

// service 上下文手续费画像服务实现
type service struct {
	cfg      *config.ContextConfig
	client   blockchain.ChainClient
	registry *registry.Registry
}

// NewService 创建新的上下文手续费画像服务
func NewService(cfg *config.ContextConfig, client blockchain.ChainClient, reg *registry.Registry) Service {
	return &service{
		cfg:      cfg,
		client:   client,
		registry: reg,
	}
}

// Profile 采样近期区块的gas价格并对交易做相对分类
func (s *service) Profile(ctx context.Context, rawHash string) (*types.GasContextReport, error) {
	hash, err := inspector.NormalizeTxHash(rawHash)
	if err != nil {
		logger.Error("Profile Error: ", err, "raw_hash", rawHash)
		return nil, err
	}

	start := time.Now()

	txRec, err := s.client.TransactionByHash(ctx, hash)
	if err != nil {
		logger.Error("Profile Error: ", err, "tx_hash", hash)
		return nil, err
	}
	if txRec == nil {
		logger.Info("Profile: transaction not found", "tx_hash", hash)
		return nil, types.ErrTxNotFound
	}

	chainID, err := s.client.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	head, err := s.client.LatestBlockNumber(ctx)
	if err != nil {
		return nil, err
	}

	samples, sampledBlocks, err := s.sampleGasPrices(ctx, head)
	if err != nil {
		return nil, err
	}

	medianGwei := round3(Median(samples))
	p95Gwei := round3(Percentile(samples, 0.95))

	txGasPriceGwei := 0.0
	if txRec.GasPriceWei != nil {
		txGasPriceGwei = inspector.WeiToGwei(txRec.GasPriceWei)
	}

	report := &types.GasContextReport{
		TxHash:         hash,
		ChainID:        &chainID,
		NetworkLabel:   s.registry.Label(&chainID),
		TxGasPriceGwei: round3(txGasPriceGwei),
		ContextHead:    head,
		SampledBlocks:  sampledBlocks,
		GasPriceGwei: types.GasPriceStats{
			P50:   medianGwei,
			P95:   p95Gwei,
			Min:   round3(minOf(samples)),
			Max:   round3(maxOf(samples)),
			Count: len(samples),
		},
		WarnMultMedian: s.cfg.WarnMultMedian,
		WarnMultP95:    s.cfg.WarnMultP95,
		Classification: ClassifyGasPrice(txGasPriceGwei, medianGwei, p95Gwei, s.cfg.WarnMultMedian, s.cfg.WarnMultP95),
		ElapsedSeconds: round3(time.Since(start).Seconds()),
	}

	// 交易已上链时带上所在区块号
	if receipt, rerr := s.client.ReceiptByHash(ctx, hash); rerr == nil && receipt != nil && receipt.BlockNumber != nil {
		blockNumber := receipt.BlockNumber.Uint64()
		report.TxBlockNumber = &blockNumber
	}

	logger.Info("Profile: ", "tx_hash", hash, "classification", report.Classification, "sampled_blocks", sampledBlocks)
	return report, nil
}

// sampleGasPrices 从链头向回按步长采样区块内的gas价格（gwei）
func (s *service) sampleGasPrices(ctx context.Context, head uint64) ([]float64, int, error) {
	blocks := uint64(s.cfg.Blocks)
	step := uint64(s.cfg.Step)

	start := uint64(0)
	if head+1 > blocks {
		start = head + 1 - blocks
	}

	var samples []float64
	sampledBlocks := 0
	for n := head; ; n -= step {
		prices, err := s.client.GasPricesInBlock(ctx, n)
		if err != nil {
			return nil, 0, err
		}
		sampledBlocks++
		for _, price := range prices {
			samples = append(samples, inspector.WeiToGwei(price))
		}
		if n < start+step {
			break
		}
	}
	return samples, sampledBlocks, nil
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
