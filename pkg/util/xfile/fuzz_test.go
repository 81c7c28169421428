package xfile

import (
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// 模糊测试（Fuzz）
//
// 运行方式：go test -fuzz=FuzzXxx -fuzztime=30s
// =============================================================================

// FuzzSanitizeDir 模糊测试目录规范化
//
// 测试目标：
//   - 任意字符串输入不会导致 panic
//   - 成功时总是返回规范化的绝对路径
//   - 含空字节的输入总是被拒绝
func FuzzSanitizeDir(f *testing.F) {
	f.Add("/var/log")
	f.Add("")
	f.Add(" ")
	f.Add(".")
	f.Add("..")
	f.Add("relative/dir")
	f.Add("/a/../../b")
	f.Add("日志目录")
	f.Add("a\x00b")

	f.Fuzz(func(t *testing.T, input string) {
		got, err := SanitizeDir(input)
		if strings.ContainsRune(input, 0) && err == nil {
			t.Fatalf("SanitizeDir(%q) accepted null byte", input)
		}
		if err != nil {
			return
		}
		if !filepath.IsAbs(got) {
			t.Fatalf("SanitizeDir(%q) = %q, not absolute", input, got)
		}
		if filepath.Clean(got) != got {
			t.Fatalf("SanitizeDir(%q) = %q, not clean", input, got)
		}
	})
}

// FuzzExpandPercent 模糊测试 %VAR% 展开不会 panic，且无变量定义时保持原样
func FuzzExpandPercent(f *testing.F) {
	f.Add("%TEMP%\\diag")
	f.Add("%%")
	f.Add("%")
	f.Add("a%b%c%d")

	f.Fuzz(func(t *testing.T, input string) {
		got := expandPercent(input, func(string) (string, bool) { return "", false })
		if got != input {
			t.Fatalf("expandPercent(%q) = %q, want unchanged", input, got)
		}
	})
}
