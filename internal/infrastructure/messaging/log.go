package messaging

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// LogPublisher 把事件写到日志，不依赖Broker
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}
	p.logger.Info("事件", zap.String("routing_key", routingKey), zap.ByteString("body", body))
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
