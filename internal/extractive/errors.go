package extractive

import (
	"errors"
	"fmt"
)

// 常用错误
var (
	ErrEmptyQuestion = errors.New("question cannot be empty")
	ErrEmptyContext  = errors.New("context cannot be empty")
)

// QAError 问答调用错误类型
type QAError struct {
	Code    int    // 错误码
	Message string // 错误消息
}

// Error 实现error接口
func (e QAError) Error() string {
	return fmt.Sprintf("qa error (code=%d): %s", e.Code, e.Message)
}

// 错误码常量
const (
	ErrCodeInvalidRequest = 1002 // 无效的请求
	ErrCodeNetworkError   = 1003 // 网络连接错误
	ErrCodeServerError    = 1005 // 服务器错误
	ErrCodeNotReady       = 1008 // 模型尚未加载完成
)

// NewQAError 创建新的问答错误
func NewQAError(code int, message string) QAError {
	return QAError{
		Code:    code,
		Message: message,
	}
}

// IsNotReady 判断错误是否表示模型仍在加载
func IsNotReady(err error) bool {
	var qaErr QAError
	return errors.As(err, &qaErr) && qaErr.Code == ErrCodeNotReady
}
