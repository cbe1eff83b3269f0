// Package commandtest 内存版命令历史，供用例和handler测试使用
package commandtest

import (
	"context"
	"sync"

	"github.com/xiebiao/cafearoma/internal/domain/command"
)

// HistoryStore 内存实现，每个会话保存一个History值
type HistoryStore struct {
	mu         sync.Mutex
	sessions   map[string]command.History
	locks      map[string]chan struct{}
	waiters    map[string]int
	maxEntries int

	// FailAppend 非nil时下一次Append返回该错误（模拟Redis故障）
	FailAppend error

	// BeforeAppend 非nil时在每次Append写入前调用，不持有内部锁
	BeforeAppend func(sessionID string, rec command.Record)
}

// NewHistoryStore maxEntries<=0表示不限
func NewHistoryStore(maxEntries int) *HistoryStore {
	return &HistoryStore{
		sessions:   make(map[string]command.History),
		locks:      make(map[string]chan struct{}),
		waiters:    make(map[string]int),
		maxEntries: maxEntries,
	}
}

func (s *HistoryStore) Lock(ctx context.Context, sessionID string) (func(), error) {
	s.mu.Lock()
	ch, ok := s.locks[sessionID]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[sessionID] = ch
	}
	s.waiters[sessionID]++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.waiters[sessionID]--
		s.mu.Unlock()
	}()

	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		return nil, command.ErrSessionBusy
	}
}

// Waiters 正在等待会话锁的调用数
func (s *HistoryStore) Waiters(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiters[sessionID]
}

func (s *HistoryStore) Load(ctx context.Context, sessionID string) (command.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sessionID], nil
}

func (s *HistoryStore) Append(ctx context.Context, sessionID string, rec command.Record) error {
	if s.BeforeAppend != nil {
		s.BeforeAppend(sessionID, rec)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.FailAppend; err != nil {
		s.FailAppend = nil
		return err
	}
	s.sessions[sessionID] = s.sessions[sessionID].Append(rec).Limit(s.maxEntries)
	return nil
}

func (s *HistoryStore) PopLast(ctx context.Context, sessionID string) (command.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, rec, ok := s.sessions[sessionID].Pop()
	if !ok {
		return command.Record{}, false, nil
	}
	s.sessions[sessionID] = h
	return rec, true, nil
}

func (s *HistoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Put 测试准备数据：直接写入一条记录
func (s *HistoryStore) Put(sessionID string, rec command.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = s.sessions[sessionID].Append(rec)
}

var _ command.HistoryStore = (*HistoryStore)(nil)
