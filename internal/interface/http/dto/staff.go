package dto

// RegisterRequest 店员注册
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"barista@cafearoma.co"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"Cafe2024"`
	Name     string `json:"name" binding:"required,min=2,max=50" example:"Valentina"`
}

// LoginRequest 店员登录
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"barista@cafearoma.co"`
	Password string `json:"password" binding:"required" example:"Cafe2024"`
}

// StaffResponse 店员信息（不包含密码）
type StaffResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginResponse 登录响应
// 后续请求带上 Authorization: Bearer <access_token>，命令历史挂在session_id下
type LoginResponse struct {
	Staff        StaffResponse `json:"staff"`
	SessionID    string        `json:"session_id"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
}

// RefreshRequest 刷新Access Token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshResponse 新的Access Token，会话不变
type RefreshResponse struct {
	SessionID   string `json:"session_id"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
