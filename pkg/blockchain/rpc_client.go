package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"feeguard-backend/internal/config"
	"feeguard-backend/internal/types"
	"feeguard-backend/pkg/logger"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ChainClient 检查管道消费的链上只读能力。
// "查无此记录"返回 (nil, nil)，传输层失败返回 ConnectionError，二者不混同。
type ChainClient interface {
	TransactionByHash(ctx context.Context, hash string) (*types.TxRecord, error)
	ReceiptByHash(ctx context.Context, hash string) (*types.ReceiptRecord, error)
	BlockByNumber(ctx context.Context, number *big.Int) (*types.BlockRecord, error)
	LatestBlockNumber(ctx context.Context) (uint64, error)
	ChainID(ctx context.Context) (int64, error)
	GasPricesInBlock(ctx context.Context, number uint64) ([]*big.Int, error)
	Close()
}

// ethChainClient 基于go-ethereum ethclient的实现
type ethChainClient struct {
	client  *ethclient.Client
	chainID *big.Int
	signer  ethtypes.Signer
	timeout time.Duration
}

// NewChainClient 连接RPC端点并探测链ID
func NewChainClient(cfg *config.RPCConfig) (ChainClient, error) {
	client, err := ethclient.Dial(cfg.Endpoint)
	if err != nil {
		logger.Error("NewChainClient Error: ", err, "endpoint", maskURL(cfg.Endpoint))
		return nil, types.NewConnectionError("dial", err)
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		logger.Error("NewChainClient Error: ", err, "endpoint", maskURL(cfg.Endpoint))
		return nil, types.NewConnectionError("eth_chainId", err)
	}

	logger.Info("NewChainClient: connected", "chain_id", chainID.Int64(), "endpoint", maskURL(cfg.Endpoint))
	return &ethChainClient{
		client:  client,
		chainID: chainID,
		signer:  ethtypes.LatestSignerForChainID(chainID),
		timeout: cfg.RequestTimeout,
	}, nil
}

// maskURL 遮蔽URL中的API密钥用于日志记录
func maskURL(url string) string {
	parts := strings.Split(url, "/")
	if len(parts) > 0 {
		lastPart := parts[len(parts)-1]
		if len(lastPart) > 8 {
			parts[len(parts)-1] = lastPart[:4] + "****" + lastPart[len(lastPart)-4:]
		}
	}
	return strings.Join(parts, "/")
}

func (c *ethChainClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// TransactionByHash 按哈希获取交易，链上不存在时返回 (nil, nil)
func (c *ethChainClient) TransactionByHash(ctx context.Context, hash string) (*types.TxRecord, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	tx, isPending, err := c.client.TransactionByHash(ctx, common.HexToHash(hash))
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Error("TransactionByHash Error: ", err, "tx_hash", hash)
		return nil, types.NewConnectionError("eth_getTransactionByHash", err)
	}

	record := &types.TxRecord{
		Hash:        hash,
		Gas:         tx.Gas(),
		GasPriceWei: tx.GasPrice(),
		Pending:     isPending,
	}
	if from, serr := ethtypes.Sender(c.signer, tx); serr == nil {
		record.From = from.Hex()
	}
	if to := tx.To(); to != nil {
		s := to.Hex()
		record.To = &s
	}
	return record, nil
}

// ReceiptByHash 按哈希获取回执，回执尚不可用时返回 (nil, nil)
func (c *ethChainClient) ReceiptByHash(ctx context.Context, hash string) (*types.ReceiptRecord, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	receipt, err := c.client.TransactionReceipt(ctx, common.HexToHash(hash))
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Error("ReceiptByHash Error: ", err, "tx_hash", hash)
		return nil, types.NewConnectionError("eth_getTransactionReceipt", err)
	}

	return &types.ReceiptRecord{
		GasUsed:              receipt.GasUsed,
		Success:              receipt.Status == ethtypes.ReceiptStatusSuccessful,
		EffectiveGasPriceWei: receipt.EffectiveGasPrice,
		BlockNumber:          receipt.BlockNumber,
	}, nil
}

// BlockByNumber 获取区块头信息。被交易引用的区块视为必然存在，
// 任何失败都按传输层错误处理。
func (c *ethChainClient) BlockByNumber(ctx context.Context, number *big.Int) (*types.BlockRecord, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	header, err := c.client.HeaderByNumber(ctx, number)
	if err != nil {
		logger.Error("BlockByNumber Error: ", err, "block_number", number)
		return nil, types.NewConnectionError("eth_getBlockByNumber", err)
	}

	return &types.BlockRecord{
		Number:    header.Number,
		Timestamp: header.Time,
	}, nil
}

// LatestBlockNumber 获取最新区块号
func (c *ethChainClient) LatestBlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	number, err := c.client.BlockNumber(ctx)
	if err != nil {
		logger.Error("LatestBlockNumber Error: ", err)
		return 0, types.NewConnectionError("eth_blockNumber", err)
	}
	return number, nil
}

// ChainID 返回连接时探测到的链ID
func (c *ethChainClient) ChainID(ctx context.Context) (int64, error) {
	if c.chainID == nil {
		return 0, types.NewConnectionError("eth_chainId", fmt.Errorf("chain id not available"))
	}
	return c.chainID.Int64(), nil
}

// GasPricesInBlock 获取区块内所有交易的gas价格，用于上下文采样
func (c *ethChainClient) GasPricesInBlock(ctx context.Context, number uint64) ([]*big.Int, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	block, err := c.client.BlockByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		logger.Error("GasPricesInBlock Error: ", err, "block_number", number)
		return nil, types.NewConnectionError("eth_getBlockByNumber", err)
	}

	txs := block.Transactions()
	prices := make([]*big.Int, 0, len(txs))
	for _, tx := range txs {
		prices = append(prices, tx.GasPrice())
	}
	return prices, nil
}

// Close 关闭连接
func (c *ethChainClient) Close() {
	c.client.Close()
	logger.Info("Closed RPC client")
}
