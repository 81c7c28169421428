package xproc

import (
	"sync"
	"testing"
)

// resetName 清空进程名缓存并替换 executable，测试结束后恢复。
func resetName(t *testing.T, exe func() (string, error)) {
	t.Helper()
	orig := executable
	executable = exe
	nameOnce = sync.Once{}
	name = ""
	t.Cleanup(func() {
		executable = orig
		nameOnce = sync.Once{}
		name = ""
	})
}
