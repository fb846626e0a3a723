package httpapi

import "github.com/UMEZAWADAN/SD-5/internal/domain"

// Result 页面脚本统一的响应包装
// - code: 2000 成功 / -1 失败
// - type: 'success' | 'error' | 'warning'，脚本据此决定提示方式
// - message: 需要提示给用户的文本（可为空）
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

// WithNotice 把一次性提示带回页面
func WithNotice[T any](n domain.Notice, result T) Result[T] {
	code := ResultSuccess
	if n.Type == domain.NoticeError {
		code = ResultError
	}
	return Result[T]{Code: code, Type: string(n.Type), Message: n.Message, Result: result}
}
