package staff

import (
	"time"
)

// Staff 店员账号（聚合根）
// Password只保存bcrypt哈希值
type Staff struct {
	ID        uint
	Email     string
	Password  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStaff 创建店员（工厂方法），hashedPassword必须已经加密
func NewStaff(email, hashedPassword, name string) *Staff {
	now := time.Now()
	return &Staff{
		Email:     email,
		Password:  hashedPassword,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rename 修改显示名称
func (s *Staff) Rename(name string) {
	s.Name = name
	s.UpdatedAt = time.Now()
}
