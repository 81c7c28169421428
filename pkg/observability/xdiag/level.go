package xdiag

import (
	"fmt"
	"strconv"
	"strings"
)

// Level 诊断事件级别
//
// 数值与 EventSource 的 EventLevel 一致：数值越小越严重，
// LevelLogAlways 表示不受级别过滤的事件。
type Level int

// 诊断事件级别常量
const (
	LevelLogAlways     Level = 0
	LevelCritical      Level = 1
	LevelError         Level = 2
	LevelWarning       Level = 3
	LevelInformational Level = 4
	LevelVerbose       Level = 5
)

// levelCount 已定义级别的数量，用于按级别预分配的表
const levelCount = int(LevelVerbose) + 1

var levelNames = [levelCount]string{
	LevelLogAlways:     "LogAlways",
	LevelCritical:      "Critical",
	LevelError:         "Error",
	LevelWarning:       "Warning",
	LevelInformational: "Informational",
	LevelVerbose:       "Verbose",
}

// String 返回级别名称
//
// 已定义级别返回固定的 ASCII 名称（如 "Warning"），
// 其他值返回 "Level(n)"，可被 ParseLevel 还原。
func (l Level) String() string {
	if l.IsValid() {
		return levelNames[l]
	}
	return "Level(" + strconv.Itoa(int(l)) + ")"
}

// IsValid 报告级别是否为已定义的常量
func (l Level) IsValid() bool {
	return l >= LevelLogAlways && l <= LevelVerbose
}

// MarshalText 实现 encoding.TextMarshaler 接口
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler 接口
//
// 支持从配置文件直接反序列化级别。
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel 解析字符串为级别
//
// 大小写不敏感，输入会自动 TrimSpace。除标准名称外还接受常见别名：
// fatal→Critical、warn→Warning、info→Informational、debug/trace→Verbose，
// 以及 String 产生的 "Level(n)" 形式。
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "logalways", "always":
		return LevelLogAlways, nil
	case "critical", "fatal":
		return LevelCritical, nil
	case "error":
		return LevelError, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "informational", "info":
		return LevelInformational, nil
	case "verbose", "debug", "trace":
		return LevelVerbose, nil
	}

	if inner, ok := strings.CutPrefix(name, "level("); ok {
		if num, ok := strings.CutSuffix(inner, ")"); ok {
			if n, err := strconv.Atoi(num); err == nil {
				return Level(n), nil
			}
		}
	}
	return LevelInformational, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}
