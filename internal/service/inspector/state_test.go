package inspector

import (
	"math/big"
	"testing"

	"feeguard-backend/internal/types"
)

func TestDetectState(t *testing.T) {
	tx := &types.TxRecord{Hash: "0xabc", GasPriceWei: big.NewInt(1)}

	tests := []struct {
		name        string
		tx          *types.TxRecord
		receipt     *types.ReceiptRecord
		wantState   TxState
		wantSuccess bool
	}{
		{
			name:      "both absent",
			wantState: StateNotFound,
		},
		{
			name:      "tx present receipt absent",
			tx:        tx,
			wantState: StatePending,
		},
		{
			name:        "both present successful",
			tx:          tx,
			receipt:     &types.ReceiptRecord{Success: true, BlockNumber: big.NewInt(100)},
			wantState:   StateIncluded,
			wantSuccess: true,
		},
		{
			name:      "both present failed",
			tx:        tx,
			receipt:   &types.ReceiptRecord{Success: false, BlockNumber: big.NewInt(100)},
			wantState: StateIncluded,
		},
		{
			name:      "field contents do not matter",
			tx:        &types.TxRecord{},
			receipt:   &types.ReceiptRecord{},
			wantState: StateIncluded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, success := DetectState(tt.tx, tt.receipt)
			if state != tt.wantState {
				t.Errorf("DetectState() state = %v, want %v", state, tt.wantState)
			}
			if success != tt.wantSuccess {
				t.Errorf("DetectState() success = %v, want %v", success, tt.wantSuccess)
			}
		})
	}
}
