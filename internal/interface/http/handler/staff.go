package handler

import (
	"github.com/gin-gonic/gin"

	appstaff "github.com/xiebiao/cafearoma/internal/application/staff"
	"github.com/xiebiao/cafearoma/internal/interface/http/dto"
	"github.com/xiebiao/cafearoma/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
	"github.com/xiebiao/cafearoma/pkg/response"
)

// StaffHandler 店员账号HTTP处理器
// Handler只负责解析请求、调用应用层、返回响应
type StaffHandler struct {
	registerUseCase *appstaff.RegisterUseCase
	loginUseCase    *appstaff.LoginUseCase
	refreshUseCase  *appstaff.RefreshUseCase
	logoutUseCase   *appstaff.LogoutUseCase
}

// NewStaffHandler 创建店员处理器
func NewStaffHandler(
	registerUseCase *appstaff.RegisterUseCase,
	loginUseCase *appstaff.LoginUseCase,
	refreshUseCase *appstaff.RefreshUseCase,
	logoutUseCase *appstaff.LogoutUseCase,
) *StaffHandler {
	return &StaffHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		refreshUseCase:  refreshUseCase,
		logoutUseCase:   logoutUseCase,
	}
}

// Register 店员注册
// @Summary      店员注册
// @Description  创建店员账号，密码8-20位且包含字母和数字
// @Tags         店员
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=dto.StaffResponse} "注册成功"
// @Failure      200 {object} response.Response "40900参数错误 / 40003邮箱已注册 / 40005密码强度不足"
// @Router       /api/v1/staff/register [post]
func (h *StaffHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appstaff.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.StaffResponse{
		ID:    result.ID,
		Email: result.Email,
		Name:  result.Name,
	})
}

// Login 店员登录
// @Summary      店员登录
// @Description  验证邮箱密码，创建会话并返回JWT Token
// @Tags         店员
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=dto.LoginResponse} "登录成功"
// @Failure      200 {object} response.Response "40401账号不存在 / 40103密码错误"
// @Router       /api/v1/staff/login [post]
func (h *StaffHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appstaff.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.LoginResponse{
		Staff: dto.StaffResponse{
			ID:    result.Staff.ID,
			Email: result.Staff.Email,
			Name:  result.Staff.Name,
		},
		SessionID:    result.SessionID,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	})
}

// Refresh 刷新Access Token
// @Summary      刷新Token
// @Description  用登录时返回的Refresh Token换取新的Access Token，会话和命令历史保持不变
// @Tags         店员
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshRequest true "Refresh Token"
// @Success      200 {object} response.Response{data=dto.RefreshResponse} "刷新成功"
// @Failure      200 {object} response.Response "40101无效的Token / 40102Token已过期 / 40105会话已过期"
// @Router       /api/v1/staff/refresh [post]
func (h *StaffHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.refreshUseCase.Execute(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.RefreshResponse{
		SessionID:   result.SessionID,
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
	})
}

// Logout 店员登出
// @Summary      店员登出
// @Description  删除会话和命令历史，当前Token加入黑名单
// @Tags         店员
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "登出成功"
// @Failure      200 {object} response.Response "40100未登录"
// @Router       /api/v1/staff/logout [post]
func (h *StaffHandler) Logout(c *gin.Context) {
	err := h.logoutUseCase.Execute(c.Request.Context(), appstaff.LogoutRequest{
		StaffID:     middleware.GetStaffID(c),
		SessionID:   middleware.GetSessionID(c),
		AccessToken: middleware.GetAccessToken(c),
		TokenTTL:    middleware.GetTokenTTL(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "已退出登录", nil)
}
