package command

import (
	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
)

// 命令领域错误
var (
	// ErrUnrecognizedCommand 历史记录中的类型标签无法识别
	ErrUnrecognizedCommand = apperrors.New(apperrors.ErrCodeUnrecognizedCommand, "无法识别的命令类型")

	// ErrCorruptRecord 类型可识别但字段缺失或非法
	ErrCorruptRecord = apperrors.New(apperrors.ErrCodeCorruptRecord, "命令历史记录已损坏")

	// ErrSessionBusy 等待会话锁超时
	ErrSessionBusy = apperrors.New(apperrors.ErrCodeSessionBusy, "当前会话有操作正在处理，请稍后重试")

	// ErrAlreadyExecuted 同一个命令实例不能执行两次
	ErrAlreadyExecuted = apperrors.New(apperrors.ErrCodeBusinessError, "命令已执行，不能重复执行")
)

// 提示信息（不是错误）
const (
	MsgNotExecuted = "无法撤销：命令尚未执行或已撤销"
)
