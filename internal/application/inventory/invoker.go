// Package inventory 库存用例：命令执行与撤销、看板、报表、低库存告警
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xiebiao/cafearoma/internal/domain/command"
	"github.com/xiebiao/cafearoma/internal/domain/inventory"
	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
	"github.com/xiebiao/cafearoma/pkg/metrics"
	"github.com/xiebiao/cafearoma/pkg/saga"
	"github.com/xiebiao/cafearoma/pkg/tracing"
)

const tracerName = "cafearoma/inventory"

// 提示信息
const (
	MsgNothingToUndo = "没有可撤销的操作"
)

// Transactor 事务边界，由mysql.TxManager实现
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CommandInvoker 执行库存命令并维护会话的命令历史
//
// 执行：命令在数据库事务中执行，成功后把记录追加到历史；
// 追加失败时在新事务中撤销命令（saga补偿），保证“库存已变更”与“历史中有记录”同时成立。
// 撤销：原子地弹出最后一条记录，重建命令并在事务中撤销；撤销失败时把记录放回。
// 执行和撤销都持有会话锁，同一会话的历史顺序就是提交顺序。
// 库存命令的撤销是反向加减，不同会话交错执行时互不覆盖。
// 库存变化提交后通知观察者。
type CommandInvoker struct {
	repo     inventory.Repository
	history  command.HistoryStore
	tx       Transactor
	notifier *inventory.Notifier
	timeout  time.Duration
	logger   *zap.Logger
}

// NewCommandInvoker timeout是单条命令（事务+历史）的上限，0表示不限
func NewCommandInvoker(
	repo inventory.Repository,
	history command.HistoryStore,
	tx Transactor,
	notifier *inventory.Notifier,
	timeout time.Duration,
	logger *zap.Logger,
) *CommandInvoker {
	return &CommandInvoker{
		repo:     repo,
		history:  history,
		tx:       tx,
		notifier: notifier,
		timeout:  timeout,
		logger:   logger,
	}
}

// Repository 命令使用的库存仓储
func (i *CommandInvoker) Repository() inventory.Repository {
	return i.repo
}

// ExecuteCommand 执行命令并记入历史，返回给店员的提示
// 命令失败时库存和历史都不变
func (i *CommandInvoker) ExecuteCommand(ctx context.Context, sessionID string, cmd command.Command) (msg string, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CommandInvoker.ExecuteCommand", trace.WithAttributes(
		attribute.String("command.kind", string(cmd.Kind())),
		attribute.String("inventory.sku", cmd.SKU()),
	))
	start := time.Now()
	defer func() {
		metrics.RecordCommand(string(cmd.Kind()), metrics.ResultOf(err), time.Since(start))
		tracing.EndSpan(span, err)
	}()

	unlock, err := i.lockSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	defer unlock()

	s := saga.NewSaga(i.timeout, saga.WithLogger(i.logger))
	s.AddStep("执行命令",
		func(ctx context.Context) error {
			return i.tx.Transaction(ctx, func(ctx context.Context) error {
				m, err := cmd.Execute(ctx)
				msg = m
				return err
			})
		},
		func(ctx context.Context) error {
			return i.tx.Transaction(ctx, func(ctx context.Context) error {
				_, err := cmd.Undo(ctx)
				return err
			})
		},
	)
	s.AddStep("记录历史",
		func(ctx context.Context) error {
			return i.history.Append(ctx, sessionID, cmd.Record())
		},
		nil,
	)

	err = s.Execute(ctx)
	metrics.RecordSaga(metrics.ResultOf(err))
	if err != nil {
		i.logger.Info("库存命令失败",
			zap.String("kind", string(cmd.Kind())),
			zap.String("sku", cmd.SKU()),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return "", err
	}

	i.logger.Info("库存命令已执行",
		zap.String("kind", string(cmd.Kind())),
		zap.String("sku", cmd.SKU()),
		zap.String("session_id", sessionID),
	)
	i.notify(ctx, cmd.SKU())
	return msg, nil
}

// UndoLast 撤销会话中最近的一条命令
//
// 历史为空、记录无法识别、商品已不存在时返回提示而不是错误，后两种情况记录被丢弃。
// 其它失败（数据库错误等）把记录放回历史并返回错误，可以重试。
func (i *CommandInvoker) UndoLast(ctx context.Context, sessionID string) (msg string, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CommandInvoker.UndoLast",
		trace.WithAttributes(attribute.String("session_id", sessionID)))
	defer func() { tracing.EndSpan(span, err) }()

	unlock, err := i.lockSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	defer unlock()

	var (
		rec    command.Record
		popped bool
		cmd    command.Command
	)

	s := saga.NewSaga(i.timeout, saga.WithLogger(i.logger))
	s.AddStep("取出历史",
		func(ctx context.Context) error {
			r, ok, err := i.history.PopLast(ctx, sessionID)
			if errors.Is(err, command.ErrCorruptRecord) {
				msg = i.discard(r, err)
				return nil
			}
			if err != nil {
				return err
			}
			if !ok {
				metrics.RecordUndo("", metrics.ResultEmpty)
				msg = MsgNothingToUndo
				return nil
			}
			rec, popped = r, true
			return nil
		},
		func(ctx context.Context) error {
			if !popped {
				return nil
			}
			return i.history.Append(ctx, sessionID, rec)
		},
	)
	s.AddStep("撤销命令",
		func(ctx context.Context) error {
			if !popped {
				return nil
			}
			c, err := command.Decode(i.repo, rec)
			if err != nil {
				popped = false
				msg = i.discard(rec, err)
				return nil
			}
			cmd = c
			span.SetAttributes(
				attribute.String("command.kind", string(c.Kind())),
				attribute.String("inventory.sku", c.SKU()),
			)

			err = i.tx.Transaction(ctx, func(ctx context.Context) error {
				m, err := c.Undo(ctx)
				msg = m
				return err
			})
			if errors.Is(err, inventory.ErrItemNotFound) {
				popped = false
				msg = i.discard(rec, err)
				return nil
			}
			return err
		},
		nil,
	)

	if err = s.Execute(ctx); err != nil {
		metrics.RecordUndo(string(rec.Type), metrics.ResultFailure)
		i.logger.Error("撤销失败，记录已放回历史",
			zap.String("kind", string(rec.Type)),
			zap.String("sku", rec.SKU),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return "", err
	}

	if cmd != nil && popped {
		metrics.RecordUndo(string(cmd.Kind()), metrics.ResultSuccess)
		i.logger.Info("库存命令已撤销",
			zap.String("kind", string(cmd.Kind())),
			zap.String("sku", cmd.SKU()),
			zap.String("session_id", sessionID),
		)
		i.notify(ctx, cmd.SKU())
	}
	return msg, nil
}

// History 会话的命令历史，按执行顺序
func (i *CommandInvoker) History(ctx context.Context, sessionID string) (command.History, error) {
	return i.history.Load(ctx, sessionID)
}

// ClearHistory 清空会话历史，不影响库存
func (i *CommandInvoker) ClearHistory(ctx context.Context, sessionID string) error {
	if err := i.history.Clear(ctx, sessionID); err != nil {
		return err
	}
	i.logger.Info("命令历史已清空", zap.String("session_id", sessionID))
	return nil
}

// lockSession 等待会话锁，最多等待一个命令超时
func (i *CommandInvoker) lockSession(ctx context.Context, sessionID string) (func(), error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}
	return i.history.Lock(ctx, sessionID)
}

// discard 无法撤销的记录直接丢弃，返回给店员的提示
func (i *CommandInvoker) discard(rec command.Record, cause error) string {
	metrics.RecordUndo(string(rec.Type), metrics.ResultDiscarded)
	i.logger.Warn("历史记录无法撤销，已丢弃",
		zap.String("kind", string(rec.Type)),
		zap.String("sku", rec.SKU),
		zap.Error(cause),
	)

	reason := "未知原因"
	var appErr *apperrors.AppError
	if errors.As(cause, &appErr) {
		reason = appErr.Message
	}
	return fmt.Sprintf("无法撤销：%s（该记录已从历史中移除）", reason)
}

// notify 重新读取商品后通知观察者；商品已删除（撤销新增商品）时不通知
func (i *CommandInvoker) notify(ctx context.Context, sku string) {
	if i.notifier == nil {
		return
	}
	item, err := i.repo.FindBySKU(ctx, sku)
	if err != nil {
		if !errors.Is(err, inventory.ErrItemNotFound) {
			i.logger.Warn("读取商品失败，跳过库存通知", zap.String("sku", sku), zap.Error(err))
		}
		return
	}
	i.notifier.Notify(ctx, item)
}
