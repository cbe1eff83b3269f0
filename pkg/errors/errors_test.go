package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
)

func TestWithMessage_KeepsSentinel(t *testing.T) {
	err := apperrors.ErrStaffNotFound.WithMessage("店员%d不存在", 7)

	assert.Equal(t, "店员7不存在", err.Message)
	assert.Equal(t, apperrors.ErrCodeStaffNotFound, err.Code)
	assert.ErrorIs(t, err, apperrors.ErrStaffNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrEmailDuplicate)
}

func TestSentinelWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperrors.ErrRedisError.Wrap(cause, "读取命令历史失败")

	assert.Equal(t, apperrors.ErrCodeRedisError, err.Code)
	assert.ErrorIs(t, err, apperrors.ErrRedisError)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetAppError(t *testing.T) {
	wrapped := fmt.Errorf("步骤失败: %w", apperrors.ErrSessionExpired)
	assert.Same(t, apperrors.ErrSessionExpired, apperrors.GetAppError(wrapped))
	assert.True(t, apperrors.IsAppError(wrapped))

	plain := errors.New("boom")
	appErr := apperrors.GetAppError(plain)
	assert.Equal(t, apperrors.ErrCodeInternal, appErr.Code)
	assert.Equal(t, "系统内部错误", appErr.Message)
	assert.ErrorIs(t, appErr, plain)
	assert.False(t, apperrors.IsAppError(plain))
}
