package messaging

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/cafearoma/pkg/circuitbreaker"
	"github.com/xiebiao/cafearoma/pkg/metrics"
)

// GuardedPublisher 熔断保护的发布者
// 熔断打开期间直接返回circuitbreaker.ErrOpenState，不再等待Broker超时
type GuardedPublisher struct {
	inner     Publisher
	transport string
	breaker   *circuitbreaker.CircuitBreaker
	logger    *zap.Logger
}

// NewGuardedPublisher 状态变化写日志并更新熔断器指标
func NewGuardedPublisher(inner Publisher, transport string, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *GuardedPublisher {
	name := breaker.Name()
	metrics.SetBreakerState(name, int(breaker.State()))
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		logger.Warn("熔断器状态变化",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		metrics.SetBreakerState(name, int(to))
	})

	return &GuardedPublisher{
		inner:     inner,
		transport: transport,
		breaker:   breaker,
		logger:    logger,
	}
}

func (p *GuardedPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	err := p.breaker.Execute(func() error {
		return p.inner.Publish(ctx, routingKey, message)
	})

	result := metrics.ResultOf(err)
	if errors.Is(err, circuitbreaker.ErrOpenState) {
		result = metrics.ResultRejected
	}
	metrics.RecordBreakerRequest(p.breaker.Name(), result)
	metrics.RecordPublish(p.transport, routingKey, result)
	return err
}

// Breaker 底层熔断器
func (p *GuardedPublisher) Breaker() *circuitbreaker.CircuitBreaker {
	return p.breaker
}

func (p *GuardedPublisher) Close() error {
	return p.inner.Close()
}
