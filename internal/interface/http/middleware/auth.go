package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/cafearoma/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
	"github.com/xiebiao/cafearoma/pkg/jwt"
	"github.com/xiebiao/cafearoma/pkg/response"
)

// Context键
const (
	ctxStaffID   = "staff_id"
	ctxSessionID = "session_id"
	ctxToken     = "access_token"
	ctxTokenTTL  = "token_ttl"
)

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Token
// 2. 检查Token黑名单
// 3. 验证Token，确认会话仍然存在
// 4. 将店员和会话信息注入Context
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RequireAuth 要求登录
//
//	authorized := v1.Group("/inventory")
//	authorized.Use(authMiddleware.RequireAuth())
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidToken, "Token格式错误")
			c.Abort()
			return
		}
		tokenString := parts[1]

		// 已登出的Token
		isBlacklisted, err := m.sessionStore.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if isBlacklisted {
			response.ErrorWithCode(c, apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录")
			c.Abort()
			return
		}

		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err) // ErrTokenExpired、ErrInvalidToken
			c.Abort()
			return
		}

		// Token未过期但会话已过期：命令历史也已不在，要求重新登录
		if _, err := m.sessionStore.GetSession(c.Request.Context(), claims.SessionID); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ctxStaffID, claims.StaffID)
		c.Set(ctxSessionID, claims.SessionID)
		c.Set(ctxToken, tokenString)
		c.Set(ctxTokenTTL, claims.RemainingTTL(time.Now()))

		c.Next()
	}
}

// GetStaffID 当前登录店员ID，未登录返回0
func GetStaffID(c *gin.Context) uint {
	return c.GetUint(ctxStaffID)
}

// GetSessionID 当前会话ID，命令历史按会话隔离
func GetSessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}

// GetAccessToken 当前请求的Access Token（登出时加入黑名单）
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}

// GetTokenTTL Access Token剩余有效期
func GetTokenTTL(c *gin.Context) time.Duration {
	return c.GetDuration(ctxTokenTTL)
}
