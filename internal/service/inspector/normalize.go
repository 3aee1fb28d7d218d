package inspector

import (
	"strings"

	"feeguard-backend/internal/types"
)

// NormalizeTxHash 校验并规范化交易哈希：去除首尾空白，
// 剥掉可选的 0x/0X 前缀后必须恰好是64位十六进制字符，
// 返回小写的 0x 前缀规范形式。
func NormalizeTxHash(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if len(s) != 64 {
		return "", types.ErrInvalidTxHash
	}
	for _, ch := range s {
		if !isHexDigit(ch) {
			return "", types.ErrInvalidTxHash
		}
	}
	return "0x" + strings.ToLower(s), nil
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
