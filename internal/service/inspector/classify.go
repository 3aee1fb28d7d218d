package inspector

import (
	"math/big"

	"feeguard-backend/internal/types"
)

// Verdict 分类结论
type Verdict string

const (
	VerdictOK       Verdict = "ok"
	VerdictHighFee  Verdict = "high_fee"
	VerdictNotFound Verdict = "not_found"
	VerdictPending  Verdict = "pending"
)

// ThresholdToWei 阈值(ETH)换算为wei，向零截断。
// 换算在256位精度下进行，阈值比较因此始终是精确的整数比较，
// 不受float64在边界附近的表示误差影响。
func ThresholdToWei(thresholdEth float64) *big.Int {
	f := new(big.Float).SetPrec(256).SetFloat64(thresholdEth)
	f.Mul(f, new(big.Float).SetPrec(256).SetInt(weiPerEth))
	wei, _ := f.Int(nil)
	return wei
}

// Classify 综合状态与手续费指标得出结论，首条命中即返回：
//
//	NotFound             -> not_found
//	Pending              -> pending
//	fee  > threshold(wei) -> high_fee
//	fee <= threshold(wei) -> ok
//
// 严格大于：总费用恰好等于阈值判为ok。
func Classify(state TxState, fee *types.FeeMetrics, thresholdEth float64) Verdict {
	switch state {
	case StateNotFound:
		return VerdictNotFound
	case StatePending:
		return VerdictPending
	}
	if fee != nil && fee.TotalFeeWei.Cmp(ThresholdToWei(thresholdEth)) > 0 {
		return VerdictHighFee
	}
	return VerdictOK
}
