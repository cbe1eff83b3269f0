// Package saga 把跨资源的操作拆成带补偿的本地步骤
//
// 库存命令同时改动MySQL（库存行）和Redis（命令历史），两边没有共同的事务，
// 某一步失败时按逆序执行已完成步骤的补偿，使两边回到一致状态。
package saga

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Step Saga中的一个步骤
type Step struct {
	Name       string                          // 步骤名称（用于日志）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作，可以为nil
}

// Saga 一次Saga事务，不可复用
type Saga struct {
	steps    []Step
	executed []Step
	timeout  time.Duration
	logger   *zap.Logger
}

// Option Saga可选参数
type Option func(*Saga)

// WithLogger 设置补偿失败时使用的日志
func WithLogger(logger *zap.Logger) Option {
	return func(s *Saga) {
		s.logger = logger
	}
}

// NewSaga 创建Saga
//
// 示例：
//
//	s := saga.NewSaga(5*time.Second, saga.WithLogger(logger))
//	s.AddStep("扣减库存", consume, restore)
//	s.AddStep("记录历史", appendHistory, nil)
//	err := s.Execute(ctx)
func NewSaga(timeout time.Duration, opts ...Option) *Saga {
	s := &Saga{
		steps:   make([]Step, 0, 2),
		timeout: timeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddStep 追加步骤，按添加顺序执行，按逆序补偿
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 依次执行所有步骤
// 任一步骤失败或超时都会触发补偿，返回的错误包装了失败步骤的原始错误（可用errors.Is/As判断）
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		select {
		case <-ctx.Done():
			// 补偿使用独立Context，不受Saga超时影响
			s.compensate(context.WithoutCancel(ctx))
			return fmt.Errorf("saga超时: %w", ctx.Err())
		default:
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate(context.WithoutCancel(ctx))
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}
		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 逆序补偿，单个补偿失败只记日志，继续补偿其余步骤
func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.logger.Error("saga补偿失败，需要人工核对",
				zap.String("step", step.Name),
				zap.Error(err),
			)
		}
	}
	s.executed = nil
}
