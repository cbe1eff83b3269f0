package staff

import (
	"context"
)

// Repository 店员仓储接口
type Repository interface {
	// Create 邮箱已存在返回errors.ErrEmailDuplicate
	Create(ctx context.Context, staff *Staff) error

	// FindByID 不存在返回errors.ErrStaffNotFound
	FindByID(ctx context.Context, id uint) (*Staff, error)

	// FindByEmail 不存在返回errors.ErrStaffNotFound
	FindByEmail(ctx context.Context, email string) (*Staff, error)
}
