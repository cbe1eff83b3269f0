package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
)

// Session 店员登录会话
type Session struct {
	ID      string
	StaffID uint
	Email   string
	Name    string
	LoginAt time.Time
	IP      string
}

// SessionStore 会话存储
// Key设计：session:{session_id}（Hash，带TTL）、blacklist:{token}
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func blacklistKey(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}

// SaveSession 保存会话，HSET和EXPIRE在同一个事务管道里执行
func (s *SessionStore) SaveSession(ctx context.Context, sess Session, ttl time.Duration) error {
	key := sessionKey(sess.ID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			"staff_id": sess.StaffID,
			"email":    sess.Email,
			"name":     sess.Name,
			"login_at": sess.LoginAt.Unix(),
			"ip":       sess.IP,
		})
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return apperrors.ErrRedisError.Wrap(err, "保存会话失败")
	}
	return nil
}

// GetSession 会话不存在或已过期返回ErrSessionExpired
func (s *SessionStore) GetSession(ctx context.Context, id string) (*Session, error) {
	result, err := s.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, apperrors.ErrRedisError.Wrap(err, "获取会话失败")
	}
	if len(result) == 0 {
		return nil, apperrors.ErrSessionExpired
	}

	staffID, _ := strconv.ParseUint(result["staff_id"], 10, 64)
	loginAt, _ := strconv.ParseInt(result["login_at"], 10, 64)
	return &Session{
		ID:      id,
		StaffID: uint(staffID),
		Email:   result["email"],
		Name:    result["name"],
		LoginAt: time.Unix(loginAt, 0),
		IP:      result["ip"],
	}, nil
}

// DeleteSession 删除会话（登出）
func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return apperrors.ErrRedisError.Wrap(err, "删除会话失败")
	}
	return nil
}

// AddToBlacklist Token加入黑名单，ttl取Token剩余有效期
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.ErrRedisError.Wrap(err, "添加Token到黑名单失败")
	}
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	err := s.client.Get(ctx, blacklistKey(token)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.ErrRedisError.Wrap(err, "检查黑名单失败")
	}
	return true, nil
}
