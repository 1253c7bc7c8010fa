// Package xspantest 提供内存 span 后端，用于测试断言字段值与生命周期。
package xspantest

import (
	"context"
	"sync"

	"github.com/omeyang/xotelkit/pkg/observability/xspan"
)

var _ xspan.Recorder = (*Recorder)(nil)

// Recorder 记录所有创建过的 span。并发安全。
type Recorder struct {
	mu    sync.Mutex
	spans []*Span
}

// NewRecorder 创建内存后端。
func NewRecorder() *Recorder {
	return &Recorder{}
}

// NewSpan 实现 xspan.Recorder。
func (r *Recorder) NewSpan(name string, fields ...xspan.Field) xspan.Span {
	s := &Span{
		name:    name,
		fields:  xspan.NewFields(fields...),
		history: make(map[string][]string),
	}
	r.mu.Lock()
	r.spans = append(r.spans, s)
	r.mu.Unlock()
	return s
}

// Spans 返回已创建的 span（按创建顺序）。
func (r *Recorder) Spans() []*Span {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Span, len(r.spans))
	copy(out, r.spans)
	return out
}

// Last 返回最近创建的 span，没有时返回 nil。
func (r *Recorder) Last() *Span {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.spans) == 0 {
		return nil
	}
	return r.spans[len(r.spans)-1]
}

// Reset 清空记录。
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.spans = nil
	r.mu.Unlock()
}

// Span 内存 span。
type Span struct {
	name   string
	fields *xspan.Fields

	mu       sync.Mutex
	parent   context.Context
	history  map[string][]string
	ended    int
	contexts int
}

// Record 实现 xspan.Span，同时保留每个已声明字段的写入历史。
func (s *Span) Record(key, value string) {
	if !s.fields.Record(key, value) {
		return
	}
	s.mu.Lock()
	s.history[key] = append(s.history[key], value)
	s.mu.Unlock()
}

// SetParent 实现 xspan.Span。
func (s *Span) SetParent(parent context.Context) {
	s.mu.Lock()
	s.parent = parent
	s.mu.Unlock()
}

// Context 实现 xspan.Span。
func (s *Span) Context(ctx context.Context) context.Context {
	s.mu.Lock()
	s.contexts++
	s.mu.Unlock()
	return ctx
}

// End 实现 xspan.Span。
func (s *Span) End() {
	s.mu.Lock()
	s.ended++
	s.mu.Unlock()
}

// Name 返回 span 名称。
func (s *Span) Name() string { return s.name }

// Field 返回字段值；未声明或尚未写入时第二个返回值为 false。
func (s *Span) Field(key string) (string, bool) {
	return s.fields.Get(key)
}

// Value 返回字段值，未写入时返回空字符串。
func (s *Span) Value(key string) string {
	v, _ := s.fields.Get(key)
	return v
}

// Declared 报告字段是否在 schema 中声明。
func (s *Span) Declared(key string) bool {
	return s.fields.Declared(key)
}

// Fields 返回按声明顺序的字段快照。
func (s *Span) Fields() []xspan.Field {
	return s.fields.Snapshot()
}

// History 返回字段在创建之后的写入历史。
func (s *Span) History(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history[key]))
	copy(out, s.history[key])
	return out
}

// Parent 返回 SetParent 设置的父 context。
func (s *Span) Parent() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parent
}

// Ended 报告 End 是否被调用过。
func (s *Span) Ended() bool {
	return s.EndCount() > 0
}

// EndCount 返回 End 调用次数。
func (s *Span) EndCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// ContextCount 返回 Context 调用次数。
func (s *Span) ContextCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contexts
}
