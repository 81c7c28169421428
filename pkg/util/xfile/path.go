package xfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// containsNullByte 检测路径是否包含空字节。
// Linux 内核在 VFS 层会在空字节处截断路径，导致 Go 代码与操作系统看到的路径不一致。
func containsNullByte(path string) bool {
	return strings.ContainsRune(path, 0)
}

// ExpandEnv 展开路径中的环境变量占位符
//
// 支持 $VAR 与 ${VAR}；Windows 平台额外支持 %VAR%。
// 未定义的变量按 os.ExpandEnv 语义替换为空字符串，
// 未闭合的 %VAR 保持原样。
func ExpandEnv(path string) string {
	return os.ExpandEnv(expandPlatform(path))
}

// expandPercent 展开 %VAR% 形式的占位符。
// 变量未定义时保留原文，与 Windows ExpandEnvironmentStrings 行为一致。
func expandPercent(path string, lookup func(string) (string, bool)) string {
	if !strings.Contains(path, "%") {
		return path
	}

	var b strings.Builder
	b.Grow(len(path))
	for {
		start := strings.IndexByte(path, '%')
		if start < 0 {
			break
		}
		end := strings.IndexByte(path[start+1:], '%')
		if end < 0 {
			break
		}
		end += start + 1

		name := path[start+1 : end]
		b.WriteString(path[:start])
		if v, ok := lookup(name); ok && name != "" {
			b.WriteString(v)
		} else {
			b.WriteString(path[start : end+1])
		}
		path = path[end+1:]
	}
	b.WriteString(path)
	return b.String()
}

// SanitizeDir 对目录路径进行检查和规范化
//
// 功能：
//   - 拒绝空路径、纯空白路径和包含空字节的路径
//   - 去除首尾空白
//   - 相对路径基于当前工作目录转换为绝对路径
//   - 规范化（消除 .、.. 和冗余分隔符）
//
// 本函数不访问文件系统中的目录本身，不检查目录是否存在。
func SanitizeDir(dir string) (string, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return "", fmt.Errorf("directory is required: %w", ErrEmptyPath)
	}

	if containsNullByte(trimmed) {
		return "", fmt.Errorf("directory contains null byte: %w", ErrNullByte)
	}

	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("xfile: resolve absolute path %q: %w", trimmed, err)
	}
	return abs, nil
}
