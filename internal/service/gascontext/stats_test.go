package gascontext

import (
	"testing"

	"feeguard-backend/internal/types"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "empty", values: nil, want: 0},
		{name: "single", values: []float64{5}, want: 5},
		{name: "odd count", values: []float64{3, 1, 2}, want: 2},
		{name: "even count", values: []float64{4, 1, 3, 2}, want: 2.5},
		{name: "unsorted input untouched", values: []float64{10, 1, 1}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.values); got != tt.want {
				t.Errorf("Median(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		name string
		q    float64
		want float64
	}{
		{name: "p0", q: 0, want: 1},
		{name: "p50", q: 0.5, want: 6}, // round(0.5*9)=5 -> 6
		{name: "p95", q: 0.95, want: 10},
		{name: "p100", q: 1, want: 10},
		{name: "clamped above", q: 1.5, want: 10},
		{name: "clamped below", q: -0.5, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentile(values, tt.q); got != tt.want {
				t.Errorf("Percentile(%v) = %v, want %v", tt.q, got, tt.want)
			}
		})
	}

	if got := Percentile(nil, 0.95); got != 0 {
		t.Errorf("Percentile(nil) = %v, want 0", got)
	}
}

func TestClassifyGasPrice(t *testing.T) {
	tests := []struct {
		name       string
		txGwei     float64
		medianGwei float64
		p95Gwei    float64
		want       string
	}{
		{
			name:       "within both bounds",
			txGwei:     20,
			medianGwei: 15,
			p95Gwei:    40,
			want:       types.GasContextOK,
		},
		{
			name:       "above median multiple",
			txGwei:     35,
			medianGwei: 15,
			p95Gwei:    40,
			want:       types.GasContextHighVsMedian,
		},
		{
			name:       "above p95 multiple but under median multiple",
			txGwei:     55,
			medianGwei: 30,
			p95Gwei:    40,
			want:       types.GasContextHighVsP95,
		},
		{
			name:       "degenerate median",
			txGwei:     100,
			medianGwei: 0,
			p95Gwei:    40,
			want:       types.GasContextOK,
		},
		{
			name:       "degenerate p95",
			txGwei:     100,
			medianGwei: 15,
			p95Gwei:    0,
			want:       types.GasContextOK,
		},
		{
			name:       "exactly at median bound is ok",
			txGwei:     30,
			medianGwei: 15,
			p95Gwei:    100,
			want:       types.GasContextOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyGasPrice(tt.txGwei, tt.medianGwei, tt.p95Gwei, 2.0, 1.2)
			if got != tt.want {
				t.Errorf("ClassifyGasPrice() = %v, want %v", got, tt.want)
			}
		})
	}
}
