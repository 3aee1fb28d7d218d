package types

// APIResponse 统一API响应格式
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError API错误格式
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ChainLabel 链ID及其网络名称
type ChainLabel struct {
	ChainID int64  `json:"chain_id"`
	Label   string `json:"label"`
}

// GetChainLabelsResponse 链名称映射表响应
type GetChainLabelsResponse struct {
	Chains []ChainLabel `json:"chains"`
	Total  int          `json:"total"`
}
