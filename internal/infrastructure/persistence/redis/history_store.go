package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/cafearoma/internal/domain/command"
	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
)

const (
	// lockTTL 会话锁的最长持有时间，持有者崩溃后自动释放
	lockTTL           = 30 * time.Second
	lockRetryInterval = 10 * time.Millisecond
)

// unlockScript 只删除自己持有的锁
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// HistoryStore 命令历史（Redis List，每个元素是一条JSON记录，最新的在右端）
// Key设计：command_history:{session_id}，TTL与会话一致，每次追加时刷新
// 会话锁：command_history_lock:{session_id}，SET NX PX，多个API实例之间同样互斥
type HistoryStore struct {
	client     *redis.Client
	ttl        time.Duration
	maxEntries int
}

// NewHistoryStore maxEntries<=0表示不限
func NewHistoryStore(client *redis.Client, ttl time.Duration, maxEntries int) *HistoryStore {
	return &HistoryStore{client: client, ttl: ttl, maxEntries: maxEntries}
}

func historyKey(sessionID string) string {
	return fmt.Sprintf("command_history:%s", sessionID)
}

func historyLockKey(sessionID string) string {
	return fmt.Sprintf("command_history_lock:%s", sessionID)
}

// Lock 获取会话锁，锁被占用时每10ms重试一次直到ctx结束
func (s *HistoryStore) Lock(ctx context.Context, sessionID string) (func(), error) {
	key := historyLockKey(sessionID)
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := s.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, command.ErrSessionBusy
			}
			return nil, apperrors.ErrRedisError.Wrap(err, "获取会话锁失败")
		}
		if ok {
			return func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = unlockScript.Run(ctx, s.client, []string{key}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, command.ErrSessionBusy
		case <-ticker.C:
		}
	}
}

// Load 按执行顺序返回历史
// 无法解析的元素以KindUnreadable占位，与PopLast看到的条数一致，撤销到它时丢弃
func (s *HistoryStore) Load(ctx context.Context, sessionID string) (command.History, error) {
	raw, err := s.client.LRange(ctx, historyKey(sessionID), 0, -1).Result()
	if err != nil {
		return command.History{}, apperrors.ErrRedisError.Wrap(err, "读取命令历史失败")
	}

	records := make([]command.Record, 0, len(raw))
	for _, item := range raw {
		var rec command.Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			rec = command.Record{Type: command.KindUnreadable}
		}
		records = append(records, rec)
	}
	return command.NewHistory(records...), nil
}

// Append RPUSH + LTRIM + EXPIRE在一个MULTI中执行，并发请求不会丢记录
func (s *HistoryStore) Append(ctx context.Context, sessionID string, rec command.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return apperrors.ErrRedisError.Wrap(err, "序列化命令记录失败")
	}

	key := historyKey(sessionID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		if s.maxEntries > 0 {
			pipe.LTrim(ctx, key, int64(-s.maxEntries), -1)
		}
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return apperrors.ErrRedisError.Wrap(err, "保存命令历史失败")
	}
	return nil
}

// PopLast 原子地取出最后一条；历史为空时ok=false
// 元素无法解析时仍视为已取出，返回command.ErrCorruptRecord
func (s *HistoryStore) PopLast(ctx context.Context, sessionID string) (command.Record, bool, error) {
	data, err := s.client.RPop(ctx, historyKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return command.Record{}, false, nil
	}
	if err != nil {
		return command.Record{}, false, apperrors.ErrRedisError.Wrap(err, "读取命令历史失败")
	}

	var rec command.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return command.Record{}, true, command.ErrCorruptRecord
	}
	return rec, true, nil
}

// Clear 删除会话的全部历史
func (s *HistoryStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, historyKey(sessionID)).Err(); err != nil {
		return apperrors.ErrRedisError.Wrap(err, "清空命令历史失败")
	}
	return nil
}

var _ command.HistoryStore = (*HistoryStore)(nil)
