package errors

import (
	"errors"
	"fmt"
)

// AppError 应用错误
// Code是业务错误码（不是HTTP状态码），Message是返回给店员的提示，
// Err是内部原因，只写日志不返回客户端。
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`

	base *AppError
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

// Is 按错误码比较，WithMessage派生出的错误仍能匹配原始哨兵错误
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && (e.Message == t.Message || e.base == t)
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装基础设施错误（数据库、Redis、消息队列）
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrap 基于哨兵错误包装内部原因，错误码取哨兵的错误码
//
//	return apperrors.ErrDatabaseError.Wrap(err, "查询库存列表失败")
func (e *AppError) Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     err,
		base:    e,
	}
}

// WithMessage 基于哨兵错误生成带上下文的提示（如具体SKU），errors.Is仍然成立
func (e *AppError) WithMessage(format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
		Err:     e.Err,
		base:    e,
	}
}

// =========================================
// 错误码定义
// =========================================
// 4xxxx: 客户端错误（参数、业务规则）
// 5xxxx: 服务端错误（数据库、缓存、消息队列）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000
	ErrCodeDatabaseError = 50001
	ErrCodeRedisError    = 50002

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100
	ErrCodeInvalidToken    = 40101
	ErrCodeTokenExpired    = 40102
	ErrCodeInvalidPassword = 40103
	ErrCodeSessionExpired  = 40105

	// 资源错误（40400-40499）
	ErrCodeStaffNotFound = 40401
	ErrCodeItemNotFound  = 40402

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError       = 40000
	ErrCodeInsufficientStock   = 40001
	ErrCodeEmailDuplicate      = 40003
	ErrCodeSKUDuplicate        = 40004
	ErrCodeWeakPassword        = 40005
	ErrCodeUnrecognizedCommand = 40006
	ErrCodeCorruptRecord       = 40007
	ErrCodeSessionBusy         = 40008

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900
)

// =========================================
// 预定义错误
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "密码错误")
	ErrSessionExpired  = New(ErrCodeSessionExpired, "会话已过期，请重新登录")

	// 资源不存在
	ErrStaffNotFound = New(ErrCodeStaffNotFound, "店员账号不存在")

	// 业务规则
	ErrEmailDuplicate = New(ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrWeakPassword   = New(ErrCodeWeakPassword, "密码强度不足（需8-20位，包含字母和数字）")
)

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
	return ErrInternal.Wrap(err, ErrInternal.Message)
}
