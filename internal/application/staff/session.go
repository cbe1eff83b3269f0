package staff

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/cafearoma/internal/domain/command"
	"github.com/xiebiao/cafearoma/internal/domain/staff"
	"github.com/xiebiao/cafearoma/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
	"github.com/xiebiao/cafearoma/pkg/jwt"
)

// LoginUseCase 店员登录
// 每次登录生成新的会话ID，命令历史挂在会话下，登出或过期后一起消失
type LoginUseCase struct {
	staffService staff.Service
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
	sessionTTL   time.Duration
	logger       *zap.Logger
}

func NewLoginUseCase(
	staffService staff.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		staffService: staffService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		sessionTTL:   sessionTTL,
		logger:       logger,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	IP       string
}

// LoginResponse 登录响应
type LoginResponse struct {
	Staff        StaffInfo `json:"staff"`
	SessionID    string    `json:"session_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
}

// Execute 会话保存失败时登录失败：没有会话就无法保存命令历史
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	st, err := uc.staffService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	tokens, err := uc.jwtManager.GenerateToken(st.ID, st.Email, st.Name, sessionID)
	if err != nil {
		return nil, err
	}

	err = uc.sessionStore.SaveSession(ctx, redis.Session{
		ID:      sessionID,
		StaffID: st.ID,
		Email:   st.Email,
		Name:    st.Name,
		LoginAt: time.Now(),
		IP:      req.IP,
	}, uc.sessionTTL)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("店员登录", zap.Uint("staff_id", st.ID), zap.String("session_id", sessionID), zap.String("ip", req.IP))

	return &LoginResponse{
		Staff:        StaffInfo{ID: st.ID, Email: st.Email, Name: st.Name},
		SessionID:    sessionID,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
	}, nil
}

// RefreshUseCase 用Refresh Token换取新的Access Token
// 会话已登出或过期时拒绝，新Token沿用原会话，命令历史不受影响
type RefreshUseCase struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
	logger       *zap.Logger
}

func NewRefreshUseCase(jwtManager *jwt.Manager, sessionStore *redis.SessionStore, logger *zap.Logger) *RefreshUseCase {
	return &RefreshUseCase{jwtManager: jwtManager, sessionStore: sessionStore, logger: logger}
}

// RefreshResponse 刷新响应
type RefreshResponse struct {
	SessionID   string `json:"session_id"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (uc *RefreshUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	claims, err := uc.jwtManager.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	sess, err := uc.sessionStore.GetSession(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if sess.StaffID != claims.StaffID {
		return nil, apperrors.ErrInvalidToken
	}

	tokens, err := uc.jwtManager.RefreshAccessToken(claims, sess.Email, sess.Name)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Access Token已刷新", zap.Uint("staff_id", sess.StaffID), zap.String("session_id", sess.ID))
	return &RefreshResponse{
		SessionID:   sess.ID,
		AccessToken: tokens.AccessToken,
		ExpiresIn:   tokens.ExpiresIn,
	}, nil
}

// LogoutUseCase 店员登出：删除会话和命令历史，Access Token进黑名单
type LogoutUseCase struct {
	sessionStore *redis.SessionStore
	history      command.HistoryStore
	logger       *zap.Logger
}

func NewLogoutUseCase(sessionStore *redis.SessionStore, history command.HistoryStore, logger *zap.Logger) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore, history: history, logger: logger}
}

// LogoutRequest 登出请求，字段来自认证中间件
type LogoutRequest struct {
	StaffID     uint
	SessionID   string
	AccessToken string
	TokenTTL    time.Duration // Access Token剩余有效期
}

func (uc *LogoutUseCase) Execute(ctx context.Context, req LogoutRequest) error {
	if err := uc.sessionStore.DeleteSession(ctx, req.SessionID); err != nil {
		return err
	}
	if err := uc.history.Clear(ctx, req.SessionID); err != nil {
		return err
	}
	if err := uc.sessionStore.AddToBlacklist(ctx, req.AccessToken, req.TokenTTL); err != nil {
		return err
	}

	uc.logger.Info("店员登出", zap.Uint("staff_id", req.StaffID), zap.String("session_id", req.SessionID))
	return nil
}
