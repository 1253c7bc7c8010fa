package xspan

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/omeyang/xotelkit/pkg/observability/xlog"
)

// 日志后端输出的消息与属性名。
const (
	MsgNew   = "new"
	MsgClose = "close"

	KeySpanName = "name"
	KeySpan     = "span"
	KeyElapsed  = "elapsed"
)

// NewLogRecorder 创建基于 xlog 的后端。
//
// 每个 span 输出两条 Info 日志：创建时的 "new" 与结束时的 "close"，
// 已写入的字段位于 "span" 分组下，close 额外携带 elapsed。
// logger 为 nil 时使用 xlog.Default()。
func NewLogRecorder(logger xlog.Logger) Recorder {
	return &logRecorder{logger: logger}
}

type logRecorder struct {
	logger xlog.Logger
}

func (r *logRecorder) NewSpan(name string, fields ...Field) Span {
	logger := r.logger
	if logger == nil {
		logger = xlog.Default()
	}
	s := &logSpan{
		logger:  logger,
		name:    name,
		fields:  NewFields(fields...),
		created: time.Now(),
		parent:  context.Background(),
	}
	logger.Info(context.Background(), MsgNew,
		slog.String(KeySpanName, name),
		slog.Attr{Key: KeySpan, Value: slog.GroupValue(s.fields.Attrs()...)},
	)
	return s
}

type logSpan struct {
	logger  xlog.Logger
	name    string
	fields  *Fields
	created time.Time

	mu     sync.Mutex
	parent context.Context
	ended  bool
}

func (s *logSpan) Record(key, value string) {
	s.fields.Record(key, value)
}

func (s *logSpan) SetParent(parent context.Context) {
	if parent == nil {
		return
	}
	s.mu.Lock()
	s.parent = parent
	s.mu.Unlock()
}

func (s *logSpan) Context(ctx context.Context) context.Context {
	return ctx
}

func (s *logSpan) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	parent := s.parent
	s.mu.Unlock()

	s.logger.Info(parent, MsgClose,
		slog.String(KeySpanName, s.name),
		slog.Duration(KeyElapsed, time.Since(s.created)),
		slog.Attr{Key: KeySpan, Value: slog.GroupValue(s.fields.Attrs()...)},
	)
}
