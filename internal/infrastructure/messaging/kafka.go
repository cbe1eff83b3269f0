package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/xiebiao/cafearoma/internal/infrastructure/config"
	"github.com/xiebiao/cafearoma/pkg/mq"
)

const headerRoutingKey = "routing-key"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher 所有路由键写入同一个topic，路由键放在消息头里
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
	logger  *zap.Logger
}

// NewKafkaPublisher 创建Kafka发布者
func NewKafkaPublisher(cfg config.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
	}
	logger.Info("Kafka发布者已创建", zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.Topic))
	return newKafkaPublisher(writer, cfg.WriteTimeout, logger)
}

func newKafkaPublisher(writer messageWriter, timeout time.Duration, logger *zap.Logger) *KafkaPublisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &KafkaPublisher{writer: writer, timeout: timeout, logger: logger}
}

// Publish 事件实现PartitionKey时用作消息Key，否则使用路由键
func (p *KafkaPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("消息序列化失败: %w", err)
	}

	key := routingKey
	if k, ok := message.(partitionKeyer); ok {
		key = k.PartitionKey()
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   body,
		Time:    time.Now(),
		Headers: []kafka.Header{{Key: headerRoutingKey, Value: []byte(routingKey)}},
	})
	if err != nil {
		return fmt.Errorf("写入Kafka失败: %w", err)
	}

	p.logger.Debug("消息已发布", zap.String("routing_key", routingKey), zap.String("key", key))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// KafkaConsumer 消费者组方式读取topic，只处理订阅的路由键
type KafkaConsumer struct {
	reader      messageReader
	routingKeys map[string]struct{}
	logger      *zap.Logger
}

// NewKafkaConsumer 同一个GroupID的多个实例分摊分区
func NewKafkaConsumer(cfg config.KafkaConfig, routingKeys []string, logger *zap.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	logger.Info("Kafka消费者已创建", zap.String("topic", cfg.Topic), zap.String("group", cfg.GroupID))
	return newKafkaConsumer(reader, routingKeys, logger)
}

func newKafkaConsumer(reader messageReader, routingKeys []string, logger *zap.Logger) *KafkaConsumer {
	keys := make(map[string]struct{}, len(routingKeys))
	for _, k := range routingKeys {
		keys[k] = struct{}{}
	}
	return &KafkaConsumer{reader: reader, routingKeys: keys, logger: logger}
}

// Consume 处理成功或需要丢弃时提交offset；其它失败不提交，重启后重新投递
func (c *KafkaConsumer) Consume(ctx context.Context, handler mq.Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("消费者退出")
				return nil
			}
			return fmt.Errorf("读取Kafka消息失败: %w", err)
		}

		routingKey := routingKeyOf(msg)
		if _, ok := c.routingKeys[routingKey]; !ok {
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return fmt.Errorf("提交offset失败: %w", err)
			}
			continue
		}

		err = handler(ctx, routingKey, msg.Value)
		switch {
		case err == nil:
		case errors.Is(err, mq.ErrDiscard):
			c.logger.Warn("消息无法处理，已丢弃", zap.String("routing_key", routingKey), zap.ByteString("body", msg.Value), zap.Error(err))
		default:
			c.logger.Error("消息处理失败", zap.String("routing_key", routingKey), zap.Error(err))
			return fmt.Errorf("处理Kafka消息失败: %w", err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("提交offset失败: %w", err)
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

func routingKeyOf(msg kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == headerRoutingKey {
			return string(h.Value)
		}
	}
	return ""
}
