package xdiag

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// TimeLayout 事件行的时间戳格式：UTC，7 位小数秒（100ns 精度），以字面量 Z 结尾。
const TimeLayout = "2006-01-02T15:04:05.0000000Z"

// headerPrefix 文件头第一行的前缀
const headerPrefix = "SDK version: "

// fieldSep 事件行字段分隔符
const fieldSep = ": "

// Entry 解析后的事件行
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
}

// Header 诊断日志文件头
type Header struct {
	// Version 写入文件头时的 SDK 版本
	Version string
}

// buildHeader 生成文件头：版本行加一个空行。
func buildHeader(version string) []byte {
	return []byte(headerPrefix + version + "\n\n")
}

// appendLine 把事件按行格式追加到 dst：
//
//	<timestamp>: <Level>: <message>\n
func appendLine(dst []byte, ts time.Time, ev TraceEvent) []byte {
	dst = ts.UTC().AppendFormat(dst, TimeLayout)
	dst = append(dst, fieldSep...)
	dst = append(dst, ev.Level.String()...)
	dst = append(dst, fieldSep...)
	dst = append(dst, ev.Render()...)
	return append(dst, '\n')
}

// FormatLine 返回事件的完整行文本（含结尾换行符）
func FormatLine(ts time.Time, ev TraceEvent) string {
	return string(appendLine(make([]byte, 0, len(TimeLayout)+len(ev.Message)+32), ts, ev))
}

// ParseLine 解析一行事件文本
//
// 结尾的 "\n" 或 "\r\n" 会被忽略。消息按文件中的原样返回，
// 被转义的换行符保持 `\r`、`\n` 形式。
func ParseLine(line string) (Entry, error) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	if len(line) < len(TimeLayout)+len(fieldSep) || line[len(TimeLayout):len(TimeLayout)+len(fieldSep)] != fieldSep {
		return Entry{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	ts, err := time.Parse(TimeLayout, line[:len(TimeLayout)])
	if err != nil {
		return Entry{}, fmt.Errorf("%w: timestamp: %w", ErrMalformedLine, err)
	}

	rest := line[len(TimeLayout)+len(fieldSep):]
	name, msg, ok := strings.Cut(rest, fieldSep)
	if !ok {
		// 空消息时行尾的空格可能已被编辑器去掉
		name, ok = strings.CutSuffix(rest, ":")
		if !ok {
			return Entry{}, fmt.Errorf("%w: missing level: %q", ErrMalformedLine, line)
		}
	}
	level, err := parseLevelName(name)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrMalformedLine, err)
	}
	return Entry{Time: ts, Level: level, Message: msg}, nil
}

// parseLevelName 只接受 Level.String 产生的精确名称。
func parseLevelName(name string) (Level, error) {
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	if strings.HasPrefix(name, "Level(") {
		return ParseLevel(name)
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
}

// ReadFile 读取并解析整个诊断日志文件
func ReadFile(path string) (Header, []Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, err
	}
	defer f.Close()
	return Scan(f)
}

// Scan 从 r 解析诊断日志内容
//
// 第一行必须是文件头，第二行必须为空；其后每个非空行都必须是合法事件行。
// 遇到第一个非法行即返回错误，错误信息包含行号。
func Scan(r io.Reader) (Header, []Entry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return Header{}, nil, err
		}
		return Header{}, nil, ErrMissingHeader
	}
	version, ok := strings.CutPrefix(strings.TrimSuffix(sc.Text(), "\r"), headerPrefix)
	if !ok {
		return Header{}, nil, fmt.Errorf("%w: %q", ErrMissingHeader, sc.Text())
	}
	hdr := Header{Version: version}

	var entries []Entry
	lineNo := 1
	for sc.Scan() {
		lineNo++
		text := sc.Text()
		if lineNo == 2 {
			if strings.TrimSuffix(text, "\r") != "" {
				return hdr, entries, fmt.Errorf("%w: line 2: header must be followed by a blank line", ErrMalformedLine)
			}
			continue
		}
		if text == "" {
			continue
		}
		e, err := ParseLine(text)
		if err != nil {
			return hdr, entries, fmt.Errorf("line %d: %w", lineNo, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return hdr, entries, err
	}
	return hdr, entries, nil
}
