package inspector

import (
	"math/big"

	"feeguard-backend/internal/types"
)

// weiPerEth 1 ETH = 10^18 wei
var weiPerEth = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// ComputeFeeMetrics 由交易和回执派生手续费指标。纯函数，不做任何IO。
// gas价格取值顺序：回执的effectiveGasPrice优先于交易声明的gasPrice，
// 前者反映实际支付的价格（EIP-1559下二者可能不同）。
// 总费用使用大整数相乘，gas价格极端时wei总额会超出64位范围。
func ComputeFeeMetrics(tx *types.TxRecord, receipt *types.ReceiptRecord) *types.FeeMetrics {
	gasPrice := tx.GasPriceWei
	if receipt.EffectiveGasPriceWei != nil {
		gasPrice = receipt.EffectiveGasPriceWei
	}
	if gasPrice == nil {
		gasPrice = new(big.Int)
	}

	totalWei := new(big.Int).Mul(new(big.Int).SetUint64(receipt.GasUsed), gasPrice)

	return &types.FeeMetrics{
		GasUsed:     receipt.GasUsed,
		GasPriceWei: new(big.Int).Set(gasPrice),
		TotalFeeWei: totalWei,
		TotalFeeEth: WeiToEth(totalWei),
	}
}

// WeiToEth wei转ETH浮点值，仅用于展示，绝不用于阈值比较
func WeiToEth(wei *big.Int) float64 {
	f, _ := new(big.Float).Quo(
		new(big.Float).SetInt(wei),
		new(big.Float).SetInt(weiPerEth),
	).Float64()
	return f
}

// WeiToGwei wei转gwei浮点值，仅用于展示
func WeiToGwei(wei *big.Int) float64 {
	f, _ := new(big.Float).Quo(
		new(big.Float).SetInt(wei),
		big.NewFloat(1e9),
	).Float64()
	return f
}
