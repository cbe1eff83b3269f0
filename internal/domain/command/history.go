package command

import (
	"context"
	"encoding/json"
)

// History 会话内已执行命令的有序记录（最近的在最后）
// 值对象：所有修改方法返回新值，不会通过别名修改已有的History
type History struct {
	entries []Record
}

// NewHistory 用给定记录创建History（拷贝）
func NewHistory(records ...Record) History {
	return History{entries: cloneRecords(records)}
}

// Append 追加一条记录
func (h History) Append(rec Record) History {
	entries := make([]Record, 0, len(h.entries)+1)
	entries = append(entries, cloneRecords(h.entries)...)
	return History{entries: append(entries, rec.clone())}
}

// Pop 移除最后一条，空时ok=false
func (h History) Pop() (History, Record, bool) {
	if len(h.entries) == 0 {
		return h, Record{}, false
	}
	last := h.entries[len(h.entries)-1].clone()
	return History{entries: cloneRecords(h.entries[:len(h.entries)-1])}, last, true
}

// Last 最后一条记录
func (h History) Last() (Record, bool) {
	if len(h.entries) == 0 {
		return Record{}, false
	}
	return h.entries[len(h.entries)-1].clone(), true
}

// Limit 只保留最近n条，n<=0表示不限
func (h History) Limit(n int) History {
	if n <= 0 || len(h.entries) <= n {
		return h
	}
	return History{entries: cloneRecords(h.entries[len(h.entries)-n:])}
}

// Len 记录条数
func (h History) Len() int {
	return len(h.entries)
}

// IsEmpty 是否为空
func (h History) IsEmpty() bool {
	return len(h.entries) == 0
}

// Entries 全部记录的拷贝，按执行顺序
func (h History) Entries() []Record {
	return cloneRecords(h.entries)
}

// MarshalJSON 序列化为记录数组（空History为[]）
func (h History) MarshalJSON() ([]byte, error) {
	if h.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h.entries)
}

// UnmarshalJSON 从记录数组反序列化
func (h *History) UnmarshalJSON(data []byte) error {
	var entries []Record
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	h.entries = entries
	return nil
}

func cloneRecords(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = rec.clone()
	}
	return out
}

// HistoryStore 按会话保存命令历史，生命周期与会话一致
// Append和PopLast必须是原子的：同一会话的并发请求不能丢失或重复弹出记录
type HistoryStore interface {
	// Lock 会话级互斥，持有期间同一会话的其它Lock阻塞，ctx结束时返回ErrSessionBusy
	// 执行命令到写入历史、弹出历史到撤销完成都在锁内，历史顺序与提交顺序一致
	Lock(ctx context.Context, sessionID string) (unlock func(), err error)

	// Load 会话的完整历史，不存在时返回空History
	Load(ctx context.Context, sessionID string) (History, error)

	// Append 追加一条记录
	Append(ctx context.Context, sessionID string, rec Record) error

	// PopLast 弹出最后一条记录，历史为空时ok=false
	PopLast(ctx context.Context, sessionID string) (rec Record, ok bool, err error)

	// Clear 清空会话历史
	Clear(ctx context.Context, sessionID string) error
}
