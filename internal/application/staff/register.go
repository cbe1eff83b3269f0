// Package staff 店员账号用例：注册、登录、登出
package staff

import (
	"context"

	"github.com/xiebiao/cafearoma/internal/domain/staff"
)

// RegisterUseCase 店员注册
type RegisterUseCase struct {
	staffService staff.Service
}

func NewRegisterUseCase(staffService staff.Service) *RegisterUseCase {
	return &RegisterUseCase{staffService: staffService}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Name     string
}

// StaffInfo 店员信息（不含密码）
type StaffInfo struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*StaffInfo, error) {
	st, err := uc.staffService.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, err
	}
	return &StaffInfo{ID: st.ID, Email: st.Email, Name: st.Name}, nil
}
