package types

import (
	"errors"
	"fmt"
)

// 进程退出码约定
const (
	ExitOK           = 0 // 手续费在阈值内
	ExitInvalidInput = 1 // 输入非法或RPC连接失败
	ExitNotFound     = 2 // 链上查无此交易
	ExitHighFee      = 3 // 手续费超过阈值
)

// ErrInvalidTxHash 交易哈希格式非法
var ErrInvalidTxHash = errors.New("invalid transaction hash: expected 0x + 64 hex characters")

// ErrInvalidThreshold 手续费阈值非法
var ErrInvalidThreshold = errors.New("fee threshold must be non-negative")

// ErrTxNotFound 链上查无此交易（作为错误返回的场景，如上下文画像）
var ErrTxNotFound = errors.New("transaction not found")

// ConnectionError RPC传输层失败。与"查无此交易"严格区分：
// 后者是链给出的确定答案，前者不是，二者映射到不同的退出码。
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("rpc %s failed: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NewConnectionError 包装RPC传输层错误
func NewConnectionError(op string, err error) error {
	return &ConnectionError{Op: op, Err: err}
}

// IsConnectionError 判断是否为RPC传输层错误
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// IsInvalidInput 判断是否为输入校验错误
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidTxHash) || errors.Is(err, ErrInvalidThreshold)
}

// ExitCodeForError 错误到退出码的映射，供CLI层使用
func ExitCodeForError(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrTxNotFound):
		return ExitNotFound
	default:
		// 非法输入、连接失败以及其他未预期错误都按1处理
		return ExitInvalidInput
	}
}
