package xdiag

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// 引导用环境变量
const (
	// EnvLogDirectory 日志目录。设置后 Sender 被锁定，程序内的配置调用全部失效。
	EnvLogDirectory = "XDIAG_LOG_DIRECTORY"

	// EnvEnabled 可选的启用开关，strconv.ParseBool 语法，默认 true。
	EnvEnabled = "XDIAG_ENABLED"
)

// Bootstrap 从进程环境变量引导 Sender
//
// 等价于 BootstrapWith(s, os.LookupEnv)。
func Bootstrap(s *Sender) (locked bool, err error) {
	return BootstrapWith(s, os.LookupEnv)
}

// BootstrapWith 使用自定义查找函数引导 Sender
//
// EnvLogDirectory 未设置或为空白时不做任何事，返回 (false, nil)。
// 否则绕过锁设置目录、设置启用状态并启用环境锁，返回 (true, err)：
// 目录校验失败时 err 包装 ErrInvalidDirectory，但锁依然生效，
// 写入目标保持原值，之后程序内的配置调用全部被忽略。
//
// EnvEnabled 非法时返回 (false, ErrInvalidEnv) 且不改变状态。
// 锁只能启用一次，再次调用返回 (true, ErrAlreadyLocked)。
func BootstrapWith(s *Sender, lookup func(string) (string, bool)) (locked bool, err error) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()

	if s.locked.Load() {
		return true, ErrAlreadyLocked
	}
	if s.closed.Load() {
		return false, ErrClosed
	}

	dir, ok := lookup(EnvLogDirectory)
	if !ok || strings.TrimSpace(dir) == "" {
		return false, nil
	}

	enabled := true
	if raw, ok := lookup(EnvEnabled); ok && strings.TrimSpace(raw) != "" {
		v, perr := strconv.ParseBool(strings.TrimSpace(raw))
		if perr != nil {
			return false, fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvEnabled, raw)
		}
		enabled = v
	}

	err = s.applyDirectory(opBootstrap, dir)
	s.enabled.Store(enabled)
	s.locked.Store(true)
	if err != nil {
		return true, fmt.Errorf("%s=%q: %w", EnvLogDirectory, dir, err)
	}
	return true, nil
}
