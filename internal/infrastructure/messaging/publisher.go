// Package messaging 领域事件投递
//
// 支持三种驱动：rabbitmq（pkg/mq，topic exchange）、kafka（segmentio/kafka-go）、
// log（只写日志，本地开发使用）。发布端统一包一层熔断器，Broker不可用时快速失败。
package messaging

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiebiao/cafearoma/internal/infrastructure/config"
	"github.com/xiebiao/cafearoma/pkg/circuitbreaker"
	"github.com/xiebiao/cafearoma/pkg/mq"
)

// 驱动名称
const (
	DriverRabbitMQ = "rabbitmq"
	DriverKafka    = "kafka"
	DriverLog      = "log"
)

// Publisher 事件发布者，message序列化为JSON
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
	Close() error
}

// Consumer 事件消费者，阻塞到ctx取消
type Consumer interface {
	Consume(ctx context.Context, handler mq.Handler) error
	Close() error
}

// partitionKeyer 事件可以指定Kafka消息Key
type partitionKeyer interface {
	PartitionKey() string
}

// NewPublisher 按messaging.driver创建发布者，外层带熔断器
func NewPublisher(cfg *config.Config, log *zap.Logger) (Publisher, error) {
	var (
		inner     Publisher
		transport = cfg.Messaging.Driver
		err       error
	)

	switch transport {
	case DriverRabbitMQ:
		rmq := cfg.Messaging.RabbitMQ
		inner, err = mq.NewPublisher(rmq.URL, rmq.Exchange, rmq.ExchangeType, log.Named("rabbitmq"))
		if err != nil {
			return nil, err
		}
	case DriverKafka:
		inner = NewKafkaPublisher(cfg.Messaging.Kafka, log.Named("kafka"))
	case DriverLog, "":
		transport = DriverLog
		inner = NewLogPublisher(log.Named("events"))
	default:
		return nil, fmt.Errorf("不支持的消息驱动: %s", transport)
	}

	b := cfg.Messaging.Breaker
	breakerCfg := circuitbreaker.Config{
		MaxRequests: b.MaxRequests,
		Interval:    b.Interval,
		Timeout:     b.Timeout,
	}
	if b.ConsecutiveFailures > 0 {
		breakerCfg.ReadyToTrip = func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= b.ConsecutiveFailures
		}
	}
	breaker := circuitbreaker.NewCircuitBreaker("publisher-"+transport, breakerCfg)
	return NewGuardedPublisher(inner, transport, breaker, log), nil
}

// NewConsumer 按messaging.driver创建消费者，订阅routingKeys
// log驱动没有可消费的Broker，返回错误
func NewConsumer(cfg *config.Config, routingKeys []string, log *zap.Logger) (Consumer, error) {
	switch cfg.Messaging.Driver {
	case DriverRabbitMQ:
		rmq := cfg.Messaging.RabbitMQ
		consumer, err := mq.NewConsumer(rmq.URL, rmq.Exchange, rmq.ExchangeType, rmq.Queue, routingKeys, log.Named("rabbitmq"))
		if err != nil {
			return nil, err
		}
		return consumer, nil
	case DriverKafka:
		return NewKafkaConsumer(cfg.Messaging.Kafka, routingKeys, log.Named("kafka")), nil
	default:
		return nil, fmt.Errorf("消息驱动%q不支持消费", cfg.Messaging.Driver)
	}
}
