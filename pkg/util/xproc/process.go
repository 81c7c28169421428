package xproc

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// executable 可在测试中替换
var executable = os.Executable

var (
	nameOnce sync.Once
	name     string
)

// ProcessID 返回当前进程 ID。
func ProcessID() int {
	return os.Getpid()
}

// ProcessName 返回当前进程的可执行文件名（不含目录）。
//
// 优先取 [os.Executable]，失败时回退到 os.Args[0]；都不可用时返回空字符串。
// 结果在首次调用时缓存。
func ProcessName() string {
	nameOnce.Do(func() {
		name = resolveName()
	})
	return name
}

func resolveName() string {
	if exe, err := executable(); err == nil && exe != "" {
		if n := baseName(exe); n != "" {
			return n
		}
	}
	if len(os.Args) == 0 || os.Args[0] == "" {
		return ""
	}
	return baseName(os.Args[0])
}

func baseName(path string) string {
	n := filepath.Base(path)
	if n == "." || n == ".." || n == string(filepath.Separator) {
		return ""
	}
	return n
}

// FileSafeName 返回可直接用作文件名片段的进程名
//
// 去掉扩展名（如 Windows 的 .exe、测试二进制的 .test），
// [A-Za-z0-9._-] 以外的字符替换为 '_'。结果为空或只剩分隔符时返回 fallback。
func FileSafeName(fallback string) string {
	if n := Sanitize(ProcessName()); n != "" {
		return n
	}
	return fallback
}

// Sanitize 把任意名称转换为文件名安全的形式，无有效字符时返回空字符串。
func Sanitize(s string) string {
	s = strings.TrimSuffix(s, filepath.Ext(s))
	out := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
	if strings.Trim(out, "_.") == "" {
		return ""
	}
	return out
}
