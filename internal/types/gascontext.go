package types

// GasPriceStats 近期区块gas价格统计（单位gwei）
type GasPriceStats struct {
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// 上下文手续费分类结论
const (
	GasContextOK           = "ok"
	GasContextHighVsMedian = "high_vs_median"
	GasContextHighVsP95    = "high_vs_p95"
)

// GasContextReport 交易gas价格相对近期网络行情的画像报告
type GasContextReport struct {
	TxHash         string        `json:"tx_hash"`
	ChainID        *int64        `json:"chain_id"`
	NetworkLabel   string        `json:"network_label"`
	TxBlockNumber  *uint64       `json:"tx_block_number"`
	TxGasPriceGwei float64       `json:"tx_gas_price_gwei"`
	ContextHead    uint64        `json:"context_head"`
	SampledBlocks  int           `json:"context_sampled_blocks"`
	GasPriceGwei   GasPriceStats `json:"context_gas_price_gwei"`
	WarnMultMedian float64       `json:"warn_mult_median"`
	WarnMultP95    float64       `json:"warn_mult_p95"`
	Classification string        `json:"classification"`
	ElapsedSeconds float64       `json:"elapsed_seconds"`
}

// ExitCode 报告到退出码的映射，供CLI层使用
func (r *GasContextReport) ExitCode() int {
	if r.Classification == GasContextOK {
		return ExitOK
	}
	return ExitHighFee
}
