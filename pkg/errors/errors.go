package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code是业务错误码，前三位就是对应的HTTP状态码（40401 → 404）
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus 根据业务错误码推导HTTP状态码
// 规则：code / 100，例如 42200 → 422、40001 → 400
func (e *AppError) HTTPStatus() int {
	status := e.Code / 100
	if status < 400 || status > 599 || http.StatusText(status) == "" {
		return http.StatusInternalServerError
	}
	return status
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、Redis错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：错误码 = HTTP状态码 * 100 + 序号
// - 400xx: 借阅状态冲突
// - 404xx: 资源不存在
// - 409xx: 唯一性冲突
// - 422xx: 参数校验失败
// - 500xx: 服务端错误

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal  = 50000 // 内部错误
	ErrCodeLockError = 50002 // 加锁失败（超时或Redis不可用）

	// 借阅状态错误（40000-40099）
	ErrCodeAlreadyBorrowed = 40001 // 图书已被借出
	ErrCodeNotBorrowed     = 40002 // 图书未被借出

	// 资源错误（40400-40499）
	ErrCodeNotFound     = 40400 // 资源不存在(通用)
	ErrCodeBookNotFound = 40401 // 图书不存在
	ErrCodeUserNotFound = 40402 // 用户不存在

	// 唯一性冲突（40900-40999）
	ErrCodeNameTaken = 40901 // 用户名已存在

	// 参数错误（42200-42299）
	ErrCodeInvalidParams = 42200 // 参数错误
)

// ErrLockTimeout 加锁失败，客户端可重试
var ErrLockTimeout = New(ErrCodeLockError, "资源繁忙，请稍后重试")

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// WrapLock 加锁失败（等待超时、Redis不可用）统一转换为可重试的50002错误
func WrapLock(err error) error {
	if IsAppError(err) {
		return err
	}
	return &AppError{
		Code:    ErrCodeLockError,
		Message: ErrLockTimeout.Message,
		Err:     err,
	}
}

// Invalid 创建参数校验错误
func Invalid(message string) *AppError {
	return New(ErrCodeInvalidParams, message)
}
