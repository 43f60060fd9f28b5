package embedding

import (
	"errors"
	"fmt"
)

// 常用错误
var (
	ErrEmptyText       = errors.New("input text cannot be empty")
	ErrEmptyVector     = errors.New("embedding service returned an empty vector")
	ErrUnexpectedShape = errors.New("embedding dimension does not match configuration")
)

// EmbeddingError 嵌入错误类型
type EmbeddingError struct {
	Code    int    // 错误码
	Message string // 错误消息
}

// Error 实现error接口
func (e EmbeddingError) Error() string {
	return fmt.Sprintf("embedding error (code=%d): %s", e.Code, e.Message)
}

// 错误码常量
const (
	ErrCodeInvalidRequest = 1002 // 无效的请求
	ErrCodeNetworkError   = 1003 // 网络连接错误
	ErrCodeServerError    = 1005 // 服务器错误
	ErrCodeEmptyInput     = 1007 // 输入为空
	ErrCodeNotReady       = 1008 // 模型尚未加载完成
)

// NewEmbeddingError 创建新的嵌入错误
func NewEmbeddingError(code int, message string) EmbeddingError {
	return EmbeddingError{
		Code:    code,
		Message: message,
	}
}

// IsNotReady 判断错误是否表示模型仍在加载
func IsNotReady(err error) bool {
	var embErr EmbeddingError
	return errors.As(err, &embErr) && embErr.Code == ErrCodeNotReady
}
