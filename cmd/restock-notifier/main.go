package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/cafearoma/internal/application/restock"
	"github.com/xiebiao/cafearoma/internal/domain/inventory"
	"github.com/xiebiao/cafearoma/internal/infrastructure/config"
	"github.com/xiebiao/cafearoma/internal/infrastructure/messaging"
	"github.com/xiebiao/cafearoma/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/cafearoma/pkg/logger"
	"github.com/xiebiao/cafearoma/pkg/metrics"
	"github.com/xiebiao/cafearoma/pkg/mq"
)

// main 补货通知进程：消费低库存事件，生成待处理采购单
// messaging.driver为rabbitmq或kafka时可用
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zapLogger, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	zapLogger = zapLogger.Named("restock-notifier")

	consumer, err := messaging.NewConsumer(cfg, []string{inventory.RoutingKeyLowStock}, zapLogger)
	if err != nil {
		zapLogger.Fatal("创建消费者失败", zap.String("driver", cfg.Messaging.Driver), zap.Error(err))
	}
	defer func() { _ = consumer.Close() }()

	db, err := mysql.NewDB(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("连接数据库失败", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	notifier := restock.NewPurchaseNotifier(mysql.NewPurchaseOrderRepository(db), cfg.Inventory.RestockSupplier, zapLogger)
	queue := cfg.Messaging.Driver + ":" + inventory.RoutingKeyLowStock

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zapLogger.Info("补货通知进程启动", zap.String("driver", cfg.Messaging.Driver))
	err = consumer.Consume(ctx, instrument(queue, mq.Handler(notifier.Handle)))
	if err != nil {
		zapLogger.Error("消费中断", zap.Error(err))
		return
	}
	zapLogger.Info("补货通知进程已停止")
}

// instrument 记录每条消息的处理结果和耗时
func instrument(queue string, next mq.Handler) mq.Handler {
	return func(ctx context.Context, routingKey string, body []byte) error {
		start := time.Now()
		err := next(ctx, routingKey, body)
		metrics.RecordConsume(queue, metrics.ResultOf(err), time.Since(start))
		return err
	}
}
