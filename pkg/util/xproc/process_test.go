package xproc

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessID(t *testing.T) {
	assert.Equal(t, os.Getpid(), ProcessID())
}

func TestProcessName(t *testing.T) {
	n := ProcessName()
	assert.NotEmpty(t, n)
	assert.NotContains(t, n, string(os.PathSeparator))
}

// 以下测试修改 os.Args 与包级变量，不可并行。

func TestProcessNameFromExecutable(t *testing.T) {
	resetName(t, func() (string, error) { return "/opt/app/bin/collector", nil })
	assert.Equal(t, "collector", ProcessName())
}

func TestProcessNameFallsBackToArgs(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "absolute", args: []string{"/usr/bin/myapp"}, want: "myapp"},
		{name: "relative", args: []string{"./relative/path/app"}, want: "app"},
		{name: "empty arg0", args: []string{""}, want: ""},
		{name: "no args", args: nil, want: ""},
		{name: "root", args: []string{"/"}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetName(t, func() (string, error) { return "", errors.New("unsupported") })
			os.Args = tt.args
			assert.Equal(t, tt.want, ProcessName())
		})
	}
}

func TestProcessNameCached(t *testing.T) {
	calls := 0
	resetName(t, func() (string, error) {
		calls++
		return "/bin/once", nil
	})
	assert.Equal(t, "once", ProcessName())
	assert.Equal(t, "once", ProcessName())
	assert.Equal(t, 1, calls)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"collector", "collector"},
		{"collector.exe", "collector"},
		{"xdiag.test", "xdiag"},
		{"my app", "my_app"},
		{"服务", ""},
		{"a-b_c.d.bin", "a-b_c.d"},
		{"", ""},
		{"...", ""},
		{".hidden", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestFileSafeName(t *testing.T) {
	resetName(t, func() (string, error) { return `C:\Program Files\agent.exe`, nil })
	got := FileSafeName("fallback")
	assert.NotEmpty(t, got)
	assert.NotContains(t, got, " ")

	resetName(t, func() (string, error) { return "", errors.New("unsupported") })
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = nil
	assert.Equal(t, "fallback", FileSafeName("fallback"))
}
