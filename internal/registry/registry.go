package registry

import (
	"fmt"
	"sort"

	"feeguard-backend/internal/types"
)

// Registry 链ID到网络名称的只读映射表。
// 启动时构造一次，之后按引用传递，不可变。
type Registry struct {
	labels map[int64]string
}

// builtinLabels 内置的常见EVM网络名称
func builtinLabels() map[int64]string {
	return map[int64]string{
		1:        "Ethereum Mainnet",
		5:        "Goerli Testnet",
		10:       "Optimism",
		56:       "BNB Chain",
		137:      "Polygon",
		8453:     "Base",
		42161:    "Arbitrum One",
		43114:    "Avalanche C-Chain",
		11155111: "Ethereum Sepolia",
	}
}

// New 创建映射表，overrides 覆盖或补充内置条目（用于私链/自定义链）
func New(overrides map[int64]string) *Registry {
	labels := builtinLabels()
	for chainID, label := range overrides {
		labels[chainID] = label
	}
	return &Registry{labels: labels}
}

// Label 返回链的网络名称。chainID为nil时返回通用占位，
// 未收录的链返回 "Chain <id>"。
func (r *Registry) Label(chainID *int64) string {
	if chainID == nil {
		return "Unknown network"
	}
	if label, ok := r.labels[*chainID]; ok {
		return label
	}
	return fmt.Sprintf("Chain %d", *chainID)
}

// Labels 返回全部条目，按链ID升序
func (r *Registry) Labels() []types.ChainLabel {
	chains := make([]types.ChainLabel, 0, len(r.labels))
	for chainID, label := range r.labels {
		chains = append(chains, types.ChainLabel{ChainID: chainID, Label: label})
	}
	sort.Slice(chains, func(i, j int) bool {
		return chains[i].ChainID < chains[j].ChainID
	})
	return chains
}
