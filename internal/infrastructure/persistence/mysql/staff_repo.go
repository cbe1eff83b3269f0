package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/cafearoma/internal/domain/staff"
	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
)

// staffRepository 店员仓储（MySQL）
type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository 创建店员仓储
func NewStaffRepository(db *gorm.DB) staff.Repository {
	return &staffRepository{db: db}
}

// Create 邮箱唯一性由uniqueIndex保证
func (r *staffRepository) Create(ctx context.Context, s *staff.Staff) error {
	model := &StaffModel{
		Email:    s.Email,
		Password: s.Password,
		Name:     s.Name,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.ErrDatabaseError.Wrap(err, "创建店员失败")
	}

	s.ID = model.ID
	s.CreatedAt = model.CreatedAt
	s.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *staffRepository) FindByID(ctx context.Context, id uint) (*staff.Staff, error) {
	var model StaffModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStaffNotFound
		}
		return nil, apperrors.ErrDatabaseError.Wrap(err, "查询店员失败")
	}
	return toStaffEntity(&model), nil
}

func (r *staffRepository) FindByEmail(ctx context.Context, email string) (*staff.Staff, error) {
	var model StaffModel
	if err := getDB(ctx, r.db).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStaffNotFound
		}
		return nil, apperrors.ErrDatabaseError.Wrap(err, "查询店员失败")
	}
	return toStaffEntity(&model), nil
}

func toStaffEntity(model *StaffModel) *staff.Staff {
	return &staff.Staff{
		ID:        model.ID,
		Email:     model.Email,
		Password:  model.Password,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
