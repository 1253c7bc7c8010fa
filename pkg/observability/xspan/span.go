package xspan

import "context"

// Span 一次请求对应的 span 记录。
type Span interface {
	// Record 更新已声明字段的值，未声明的键被忽略。
	Record(key, value string)

	// SetParent 设置父 context（携带远端或本地的 span context）。
	// 必须在 Context / End 之前调用才会生效。
	SetParent(parent context.Context)

	// Context 返回携带当前 span 的派生 context，供下游创建子 span。
	Context(ctx context.Context) context.Context

	// End 结束 span。重复调用无副作用。
	End()
}

// Recorder span 后端。
type Recorder interface {
	// NewSpan 以给定名称和字段 schema 创建 span。
	NewSpan(name string, fields ...Field) Span
}

// RecorderFunc 函数适配器。
type RecorderFunc func(name string, fields ...Field) Span

// NewSpan 调用 f 本身。
func (f RecorderFunc) NewSpan(name string, fields ...Field) Span {
	return f(name, fields...)
}

// =============================================================================
// Noop
// =============================================================================

type noopRecorder struct{}

func (noopRecorder) NewSpan(string, ...Field) Span { return noopSpan{} }

type noopSpan struct{}

func (noopSpan) Record(string, string)                       {}
func (noopSpan) SetParent(context.Context)                   {}
func (noopSpan) Context(ctx context.Context) context.Context { return ctx }
func (noopSpan) End()                                        {}

// Noop 返回不记录任何内容的后端。
func Noop() Recorder { return noopRecorder{} }

// NoopSpan 返回空 span。
func NoopSpan() Span { return noopSpan{} }

// =============================================================================
// Tee
// =============================================================================

// Tee 返回把每次操作转发给所有后端的组合后端。nil 后端被忽略。
func Tee(recorders ...Recorder) Recorder {
	rs := make([]Recorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			rs = append(rs, r)
		}
	}
	switch len(rs) {
	case 0:
		return Noop()
	case 1:
		return rs[0]
	}
	return teeRecorder(rs)
}

type teeRecorder []Recorder

func (t teeRecorder) NewSpan(name string, fields ...Field) Span {
	spans := make(teeSpan, 0, len(t))
	for _, r := range t {
		if s := r.NewSpan(name, fields...); s != nil {
			spans = append(spans, s)
		}
	}
	return spans
}

type teeSpan []Span

func (t teeSpan) Record(key, value string) {
	for _, s := range t {
		s.Record(key, value)
	}
}

func (t teeSpan) SetParent(parent context.Context) {
	for _, s := range t {
		s.SetParent(parent)
	}
}

func (t teeSpan) Context(ctx context.Context) context.Context {
	for _, s := range t {
		ctx = s.Context(ctx)
	}
	return ctx
}

func (t teeSpan) End() {
	for _, s := range t {
		s.End()
	}
}

// =============================================================================
// Context
// =============================================================================

type spanKey struct{}

// ContextWithSpan 把 span 存入 context。
func ContextWithSpan(ctx context.Context, span Span) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if span == nil {
		return ctx
	}
	return context.WithValue(ctx, spanKey{}, span)
}

// FromContext 返回 context 中的 span，不存在时返回空 span。
func FromContext(ctx context.Context) Span {
	if ctx == nil {
		return noopSpan{}
	}
	if s, ok := ctx.Value(spanKey{}).(Span); ok {
		return s
	}
	return noopSpan{}
}
