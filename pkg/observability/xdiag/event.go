package xdiag

import (
	"fmt"
	"strings"
)

// TraceEvent 诊断事件
//
// 由宿主 SDK 的内部埋点构造，Sender 只读取不修改。
type TraceEvent struct {
	// Level 事件级别
	Level Level

	// Message 消息文本；Args 非空时作为 fmt 格式串
	Message string

	// Args 可选的格式化参数
	Args []any
}

// NewEvent 创建诊断事件
//
// 没有 args 时 msg 原样输出，其中的 % 不会被解释。
func NewEvent(level Level, msg string, args ...any) TraceEvent {
	return TraceEvent{Level: level, Message: msg, Args: args}
}

// lineBreakEscaper 把换行符转义为可见字符，保证一个事件只占一行
var lineBreakEscaper = strings.NewReplacer("\r", `\r`, "\n", `\n`)

// Render 渲染事件消息
//
// 结果不包含 CR/LF：换行符被转义为字面量 `\r`、`\n`。
func (e TraceEvent) Render() string {
	msg := e.Message
	if len(e.Args) > 0 {
		msg = fmt.Sprintf(e.Message, e.Args...)
	}
	if strings.ContainsAny(msg, "\r\n") {
		msg = lineBreakEscaper.Replace(msg)
	}
	return msg
}
