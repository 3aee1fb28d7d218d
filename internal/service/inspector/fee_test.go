package inspector

import (
	"math"
	"math/big"
	"testing"

	"feeguard-backend/internal/types"
)

func TestComputeFeeMetricsExactProduct(t *testing.T) {
	twoPow63 := new(big.Int).Lsh(big.NewInt(1), 63)

	tests := []struct {
		name         string
		gasUsed      uint64
		gasPrice     *big.Int
		wantTotalWei string
	}{
		{
			name:         "typical transfer",
			gasUsed:      21000,
			gasPrice:     big.NewInt(20000000000),
			wantTotalWei: "420000000000000",
		},
		{
			name:         "zero gas price",
			gasUsed:      21000,
			gasPrice:     big.NewInt(0),
			wantTotalWei: "0",
		},
		{
			name:         "product exceeds 64-bit range",
			gasUsed:      1 << 63,
			gasPrice:     twoPow63,
			wantTotalWei: "85070591730234615865843651857942052864", // 2^126
		},
		{
			name:         "max uint64 gas at high price",
			gasUsed:      math.MaxUint64,
			gasPrice:     big.NewInt(1000000000000),
			wantTotalWei: "18446744073709551615000000000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &types.TxRecord{GasPriceWei: tt.gasPrice}
			receipt := &types.ReceiptRecord{GasUsed: tt.gasUsed}

			fee := ComputeFeeMetrics(tx, receipt)
			if fee.TotalFeeWei.String() != tt.wantTotalWei {
				t.Errorf("TotalFeeWei = %v, want %v", fee.TotalFeeWei, tt.wantTotalWei)
			}
			if fee.GasUsed != tt.gasUsed {
				t.Errorf("GasUsed = %v, want %v", fee.GasUsed, tt.gasUsed)
			}
		})
	}
}

func TestComputeFeeMetricsEffectivePricePrecedence(t *testing.T) {
	tx := &types.TxRecord{GasPriceWei: big.NewInt(50000000000)}
	receipt := &types.ReceiptRecord{
		GasUsed:              21000,
		EffectiveGasPriceWei: big.NewInt(30000000000),
	}

	// 回执的effectiveGasPrice是实际支付价，优先于交易声明价
	fee := ComputeFeeMetrics(tx, receipt)
	if fee.GasPriceWei.Cmp(big.NewInt(30000000000)) != 0 {
		t.Errorf("GasPriceWei = %v, want effective price 30000000000", fee.GasPriceWei)
	}
	if fee.TotalFeeWei.String() != "630000000000000" {
		t.Errorf("TotalFeeWei = %v, want 630000000000000", fee.TotalFeeWei)
	}
}

func TestComputeFeeMetricsFallbackToTxGasPrice(t *testing.T) {
	tx := &types.TxRecord{GasPriceWei: big.NewInt(50000000000)}
	receipt := &types.ReceiptRecord{GasUsed: 21000}

	fee := ComputeFeeMetrics(tx, receipt)
	if fee.GasPriceWei.Cmp(big.NewInt(50000000000)) != 0 {
		t.Errorf("GasPriceWei = %v, want declared price 50000000000", fee.GasPriceWei)
	}
}

func TestComputeFeeMetricsNoPriceAvailable(t *testing.T) {
	tx := &types.TxRecord{}
	receipt := &types.ReceiptRecord{GasUsed: 21000}

	fee := ComputeFeeMetrics(tx, receipt)
	if fee.TotalFeeWei.Sign() != 0 {
		t.Errorf("TotalFeeWei = %v, want 0", fee.TotalFeeWei)
	}
}

func TestWeiToEth(t *testing.T) {
	tests := []struct {
		name string
		wei  *big.Int
		want float64
	}{
		{name: "zero", wei: big.NewInt(0), want: 0},
		{name: "one eth", wei: new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil), want: 1.0},
		{name: "typical fee", wei: big.NewInt(420000000000000), want: 0.00042},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeiToEth(tt.wei); got != tt.want {
				t.Errorf("WeiToEth(%v) = %v, want %v", tt.wei, got, tt.want)
			}
		})
	}
}

func TestWeiToGwei(t *testing.T) {
	if got := WeiToGwei(big.NewInt(20000000000)); got != 20.0 {
		t.Errorf("WeiToGwei(20000000000) = %v, want 20", got)
	}
}
