package xdiag

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
)

// ErrorHandler 返回把 OpenTelemetry 内部错误写入诊断日志的处理器
//
// 每个错误写为一条 LevelError 事件。
func (s *Sender) ErrorHandler() otel.ErrorHandler {
	return otel.ErrorHandlerFunc(func(err error) {
		if err == nil {
			return
		}
		s.Send(TraceEvent{Level: LevelError, Message: err.Error()})
	})
}

// Logger 返回以诊断日志为输出的 logr.Logger
//
// 级别映射：Error 为 LevelError；V(1) 为 LevelWarning（OpenTelemetry 以 V(1) 记录警告）；
// V(0) 与 V(2)..V(4) 为 LevelInformational；更高为 LevelVerbose。
// 键值对渲染为 k=v，WithName 添加 "name: " 前缀。
func (s *Sender) Logger() logr.Logger {
	return logr.New(&logSink{sender: s})
}

// InstallOTel 把 s 注册为 OpenTelemetry 的全局错误处理器与内部日志
func InstallOTel(s *Sender) {
	otel.SetErrorHandler(s.ErrorHandler())
	otel.SetLogger(s.Logger())
}

// verbosityLevel 把 logr 的 V 级别映射为事件级别
func verbosityLevel(v int) Level {
	switch {
	case v == 1:
		return LevelWarning
	case v <= 4:
		return LevelInformational
	default:
		return LevelVerbose
	}
}

type logSink struct {
	sender *Sender
	name   string
	values []any
}

var _ logr.LogSink = (*logSink)(nil)

func (l *logSink) Init(logr.RuntimeInfo) {}

func (l *logSink) Enabled(int) bool {
	return l.sender.IsEnabled()
}

func (l *logSink) Info(level int, msg string, keysAndValues ...any) {
	l.sender.Send(TraceEvent{Level: verbosityLevel(level), Message: l.render(msg, nil, keysAndValues)})
}

func (l *logSink) Error(err error, msg string, keysAndValues ...any) {
	l.sender.Send(TraceEvent{Level: LevelError, Message: l.render(msg, err, keysAndValues)})
}

func (l *logSink) WithValues(keysAndValues ...any) logr.LogSink {
	values := make([]any, 0, len(l.values)+len(keysAndValues))
	values = append(values, l.values...)
	values = append(values, keysAndValues...)
	return &logSink{sender: l.sender, name: l.name, values: values}
}

func (l *logSink) WithName(name string) logr.LogSink {
	if l.name != "" {
		name = l.name + "/" + name
	}
	return &logSink{sender: l.sender, name: name, values: l.values}
}

func (l *logSink) render(msg string, err error, keysAndValues []any) string {
	var b strings.Builder
	if l.name != "" {
		b.WriteString(l.name)
		b.WriteString(": ")
	}
	b.WriteString(msg)
	if err != nil {
		fmt.Fprintf(&b, " error=%v", err)
	}
	writeKV(&b, l.values)
	writeKV(&b, keysAndValues)
	return b.String()
}

func writeKV(b *strings.Builder, kv []any) {
	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) {
			fmt.Fprintf(b, " %v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(b, " %v=<missing>", kv[i])
		}
	}
}
