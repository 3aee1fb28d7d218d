package gascontext

import (
	"math"
	"sort"

	"feeguard-backend/internal/types"
)

// Median 样本中位数，空样本返回0
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Percentile 样本的q分位数（q取0..1），空样本返回0
func Percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	q = math.Max(0, math.Min(1, q))
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	idx := int(math.Round(q * float64(len(sorted)-1)))
	return sorted[idx]
}

// ClassifyGasPrice 交易gas价格相对近期行情的分类：
// 超过中位数×multMedian判为high_vs_median，
// 超过p95×multP95判为high_vs_p95，否则ok。
// 样本退化（中位数或p95为0）时不做判断，返回ok。
func ClassifyGasPrice(txGasPriceGwei, medianGwei, p95Gwei, multMedian, multP95 float64) string {
	if medianGwei <= 0 || p95Gwei <= 0 {
		return types.GasContextOK
	}
	if txGasPriceGwei > medianGwei*multMedian {
		return types.GasContextHighVsMedian
	}
	if txGasPriceGwei > p95Gwei*multP95 {
		return types.GasContextHighVsP95
	}
	return types.GasContextOK
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
