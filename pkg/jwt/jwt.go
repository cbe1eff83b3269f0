package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
)

const issuer = "cafearoma"

// Token类型，写在Claims.TokenType中，两种Token不能互换使用
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Manager JWT管理器
// Access Token短期有效用于鉴权，Refresh Token长期有效只用于换取新的Access Token
type Manager struct {
	secret             string
	accessTokenExpire  time.Duration
	refreshTokenExpire time.Duration
}

// NewManager 创建JWT管理器
func NewManager(secret string, accessTokenExpire, refreshTokenExpire time.Duration) *Manager {
	return &Manager{
		secret:             secret,
		accessTokenExpire:  accessTokenExpire,
		refreshTokenExpire: refreshTokenExpire,
	}
}

// Claims 自定义Claims
// SessionID对应Redis中的店员会话，命令历史也挂在这个会话下
type Claims struct {
	StaffID   uint   `json:"staff_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	SessionID string `json:"session_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair Token对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Access Token有效期（秒）
}

// GenerateToken 为一次登录会话生成Token对
func (m *Manager) GenerateToken(staffID uint, email, name, sessionID string) (*TokenPair, error) {
	now := time.Now()

	access, err := m.signAccess(staffID, email, name, sessionID, now)
	if err != nil {
		return nil, err
	}

	// Refresh Token只带店员ID和会话ID
	refresh, err := m.sign(Claims{
		StaffID:          staffID,
		SessionID:        sessionID,
		TokenType:        TokenTypeRefresh,
		RegisteredClaims: m.registered(staffID, now, m.refreshTokenExpire),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Refresh Token失败")
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTokenExpire.Seconds()),
	}, nil
}

// ParseToken 解析并校验Access Token（签名、exp、nbf、类型）
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	return m.parse(tokenString, TokenTypeAccess)
}

// ParseRefreshToken 解析并校验Refresh Token
func (m *Manager) ParseRefreshToken(tokenString string) (*Claims, error) {
	return m.parse(tokenString, TokenTypeRefresh)
}

// RefreshAccessToken 使用Refresh Token换取新的Access Token
// 新Token沿用原会话ID；会话是否仍然有效由调用方检查
func (m *Manager) RefreshAccessToken(refresh *Claims, email, name string) (*TokenPair, error) {
	if refresh.TokenType != TokenTypeRefresh {
		return nil, apperrors.ErrInvalidToken
	}

	access, err := m.signAccess(refresh.StaffID, email, name, refresh.SessionID, time.Now())
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken: access,
		ExpiresIn:   int64(m.accessTokenExpire.Seconds()),
	}, nil
}

func (m *Manager) parse(tokenString, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != tokenType {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// RemainingTTL Token剩余有效期，用于决定黑名单保留多久
func (c *Claims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	ttl := c.ExpiresAt.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}

func (m *Manager) registered(staffID uint, now time.Time, expire time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   fmt.Sprintf("%d", staffID),
	}
}

func (m *Manager) signAccess(staffID uint, email, name, sessionID string, now time.Time) (string, error) {
	token, err := m.sign(Claims{
		StaffID:          staffID,
		Email:            email,
		Name:             name,
		SessionID:        sessionID,
		TokenType:        TokenTypeAccess,
		RegisteredClaims: m.registered(staffID, now, m.accessTokenExpire),
	})
	if err != nil {
		return "", apperrors.Wrap(err, "生成Access Token失败")
	}
	return token, nil
}

func (m *Manager) sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.secret))
}
