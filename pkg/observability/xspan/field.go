package xspan

import (
	"log/slog"
	"sync"
)

// Field 表示 span 的一个字段。
//
// Recorded 为 false 表示字段已声明但尚未写入值（空字段）。
type Field struct {
	Key      string
	Value    string
	Recorded bool
}

// String 创建已写入值的字段。
func String(key, value string) Field {
	return Field{Key: key, Value: value, Recorded: true}
}

// Empty 创建仅声明、尚未写入的字段。
func Empty(key string) Field {
	return Field{Key: key}
}

// Fields 有序的固定字段表，并发安全。
//
// 字段集合在创建时确定，Record 只能更新已声明的键。
type Fields struct {
	mu     sync.RWMutex
	index  map[string]int
	fields []Field
}

// NewFields 按声明顺序创建字段表。
// 空键被跳过；重复的键保留首次出现的位置，值以后出现的为准。
func NewFields(fields ...Field) *Fields {
	f := &Fields{
		index:  make(map[string]int, len(fields)),
		fields: make([]Field, 0, len(fields)),
	}
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		if i, ok := f.index[field.Key]; ok {
			f.fields[i] = field
			continue
		}
		f.index[field.Key] = len(f.fields)
		f.fields = append(f.fields, field)
	}
	return f
}

// Record 写入字段值，键未声明时返回 false 且不做任何修改。
func (f *Fields) Record(key, value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.index[key]
	if !ok {
		return false
	}
	f.fields[i].Value = value
	f.fields[i].Recorded = true
	return true
}

// Get 返回字段值。未声明或尚未写入时第二个返回值为 false。
func (f *Fields) Get(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	i, ok := f.index[key]
	if !ok || !f.fields[i].Recorded {
		return "", false
	}
	return f.fields[i].Value, true
}

// Declared 报告键是否属于字段表。
func (f *Fields) Declared(key string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.index[key]
	return ok
}

// Len 返回已声明字段数。
func (f *Fields) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.fields)
}

// Snapshot 按声明顺序返回全部字段的副本。
func (f *Fields) Snapshot() []Field {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Field, len(f.fields))
	copy(out, f.fields)
	return out
}

// Attrs 将已写入的字段转换为 slog 属性，空字段不输出。
func (f *Fields) Attrs() []slog.Attr {
	f.mu.RLock()
	defer f.mu.RUnlock()
	attrs := make([]slog.Attr, 0, len(f.fields))
	for _, field := range f.fields {
		if !field.Recorded {
			continue
		}
		attrs = append(attrs, slog.String(field.Key, field.Value))
	}
	return attrs
}
