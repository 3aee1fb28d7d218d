package inspector

import (
	"feeguard-backend/internal/types"
)

// TxState 交易生命周期状态
type TxState int

const (
	StateNotFound TxState = iota // 链上查无此交易
	StatePending                 // 交易存在但回执尚不可用
	StateIncluded                // 交易已上链且回执可用
)

// DetectState 由交易和回执的存在性判定生命周期状态。
// 只看存在性，不看字段内容；success 仅在 StateIncluded 时有意义。
// 传输层失败在取数阶段就以 ConnectionError 返回，绝不会走到这里
// 被误判为 NotFound。
func DetectState(tx *types.TxRecord, receipt *types.ReceiptRecord) (state TxState, success bool) {
	if tx == nil {
		return StateNotFound, false
	}
	if receipt == nil {
		return StatePending, false
	}
	return StateIncluded, receipt.Success
}
