package gascontext

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"feeguard-backend/internal/config"
	"feeguard-backend/internal/registry"
	"feeguard-backend/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChainClient 按区块号返回捏造的gas价格样本
type fakeChainClient struct {
	tx            *types.TxRecord
	receipt       *types.ReceiptRecord
	latest        uint64
	chainID       int64
	pricesByBlock map[uint64][]*big.Int
	sampled       []uint64
}

func (f *fakeChainClient) TransactionByHash(ctx context.Context, hash string) (*types.TxRecord, error) {
	return f.tx, nil
}

func (f *fakeChainClient) ReceiptByHash(ctx context.Context, hash string) (*types.ReceiptRecord, error) {
	return f.receipt, nil
}

func (f *fakeChainClient) BlockByNumber(ctx context.Context, number *big.Int) (*types.BlockRecord, error) {
	return &types.BlockRecord{Number: number}, nil
}

func (f *fakeChainClient) LatestBlockNumber(ctx context.Context) (uint64, error) {
	return f.latest, nil
}

func (f *fakeChainClient) ChainID(ctx context.Context) (int64, error) {
	return f.chainID, nil
}

func (f *fakeChainClient) GasPricesInBlock(ctx context.Context, number uint64) ([]*big.Int, error) {
	f.sampled = append(f.sampled, number)
	return f.pricesByBlock[number], nil
}

func (f *fakeChainClient) Close() {}

var testHash = "0x" + strings.Repeat("cd", 32)

func gwei(v int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), big.NewInt(1000000000))
}

func newTestService(client *fakeChainClient, cfg *config.ContextConfig) Service {
	return NewService(cfg, client, registry.New(nil))
}

func TestProfileClassifiesAgainstRecentPrices(t *testing.T) {
	client := &fakeChainClient{
		tx: &types.TxRecord{
			Hash:        testHash,
			GasPriceWei: gwei(100), // 远高于近期行情
		},
		receipt: &types.ReceiptRecord{BlockNumber: big.NewInt(1000)},
		latest:  1000,
		chainID: 1,
		pricesByBlock: map[uint64][]*big.Int{
			1000: {gwei(20), gwei(22)},
			998:  {gwei(18), gwei(21)},
			996:  {gwei(19)},
		},
	}

	cfg := &config.ContextConfig{
		Blocks:         5,
		Step:           2,
		MaxBlocks:      10000,
		WarnMultMedian: 2.0,
		WarnMultP95:    1.2,
	}

	report, err := newTestService(client, cfg).Profile(context.Background(), testHash)
	require.NoError(t, err)

	assert.Equal(t, []uint64{1000, 998, 996}, client.sampled)
	assert.Equal(t, 3, report.SampledBlocks)
	assert.Equal(t, 5, report.GasPriceGwei.Count)
	assert.Equal(t, uint64(1000), report.ContextHead)
	assert.Equal(t, 100.0, report.TxGasPriceGwei)
	assert.Equal(t, types.GasContextHighVsMedian, report.Classification)
	require.NotNil(t, report.TxBlockNumber)
	assert.Equal(t, uint64(1000), *report.TxBlockNumber)
}

func TestProfileOKWithinBounds(t *testing.T) {
	client := &fakeChainClient{
		tx: &types.TxRecord{
			Hash:        testHash,
			GasPriceWei: gwei(20),
		},
		latest:  100,
		chainID: 137,
		pricesByBlock: map[uint64][]*big.Int{
			100: {gwei(20), gwei(25), gwei(30)},
			97:  {gwei(22)},
			94:  {gwei(28)},
		},
	}

	cfg := &config.ContextConfig{
		Blocks:         7,
		Step:           3,
		MaxBlocks:      10000,
		WarnMultMedian: 2.0,
		WarnMultP95:    1.2,
	}

	report, err := newTestService(client, cfg).Profile(context.Background(), testHash)
	require.NoError(t, err)

	assert.Equal(t, "Polygon", report.NetworkLabel)
	assert.Equal(t, types.GasContextOK, report.Classification)
	assert.Nil(t, report.TxBlockNumber) // 回执不可用时不带区块号
}

// 空样本不做判断，避免把无行情数据误报成高费
func TestProfileDegenerateSamples(t *testing.T) {
	client := &fakeChainClient{
		tx: &types.TxRecord{
			Hash:        testHash,
			GasPriceWei: gwei(500),
		},
		latest:        10,
		chainID:       1,
		pricesByBlock: map[uint64][]*big.Int{},
	}

	cfg := &config.ContextConfig{
		Blocks:         3,
		Step:           1,
		MaxBlocks:      10000,
		WarnMultMedian: 2.0,
		WarnMultP95:    1.2,
	}

	report, err := newTestService(client, cfg).Profile(context.Background(), testHash)
	require.NoError(t, err)
	assert.Equal(t, types.GasContextOK, report.Classification)
	assert.Equal(t, 0, report.GasPriceGwei.Count)
}

func TestProfileTxNotFound(t *testing.T) {
	client := &fakeChainClient{latest: 10, chainID: 1}

	cfg := &config.ContextConfig{Blocks: 3, Step: 1, MaxBlocks: 10000, WarnMultMedian: 2.0, WarnMultP95: 1.2}

	report, err := newTestService(client, cfg).Profile(context.Background(), testHash)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, types.ErrTxNotFound)
	assert.Equal(t, types.ExitNotFound, types.ExitCodeForError(err))
}
