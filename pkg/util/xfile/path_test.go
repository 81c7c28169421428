package xfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SanitizeDir 单元测试
// =============================================================================

func TestSanitizeDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "绝对路径", input: "/var/log/diag", want: filepath.Clean("/var/log/diag")},
		{name: "冗余分隔符", input: "/var//log/./diag/", want: filepath.Clean("/var/log/diag")},
		{name: "父目录段被解析", input: "/var/log/../diag", want: filepath.Clean("/var/diag")},
		{name: "首尾空白", input: "  /var/log  ", want: filepath.Clean("/var/log")},
		{name: "相对路径", input: "diag", want: filepath.Join(wd, "diag")},
		{name: "空路径", input: "", wantErr: ErrEmptyPath},
		{name: "纯空白", input: " \t\n ", wantErr: ErrEmptyPath},
		{name: "空字节", input: "/var/log\x00/evil", wantErr: ErrNullByte},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeDir(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, filepath.IsAbs(got))
		})
	}
}

// =============================================================================
// ExpandEnv 单元测试
// =============================================================================

func TestExpandEnv(t *testing.T) {
	t.Setenv("XFILE_TEST_ROOT", "/data/diag")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "无占位符", input: "/var/log", want: "/var/log"},
		{name: "美元形式", input: "$XFILE_TEST_ROOT/app", want: "/data/diag/app"},
		{name: "花括号形式", input: "${XFILE_TEST_ROOT}/app", want: "/data/diag/app"},
		{name: "未定义变量", input: "/x/$XFILE_TEST_UNDEFINED_VAR/y", want: "/x//y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandEnv(tt.input))
		})
	}
}

func TestExpandPercent(t *testing.T) {
	env := map[string]string{
		"TEMP":    `C:\Temp`,
		"APPDATA": `C:\Users\me\AppData`,
	}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "无百分号", input: `C:\logs`, want: `C:\logs`},
		{name: "单个变量", input: `%TEMP%\diag`, want: `C:\Temp\diag`},
		{name: "多个变量", input: `%APPDATA%\%TEMP%`, want: `C:\Users\me\AppData\C:\Temp`},
		{name: "未定义变量保留", input: `%NOPE%\diag`, want: `%NOPE%\diag`},
		{name: "未闭合保留", input: `%TEMP\diag`, want: `%TEMP\diag`},
		{name: "空变量名保留", input: `a%%b`, want: `a%%b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandPercent(tt.input, lookup))
		})
	}
}

func TestSanitizeDirErrorsAreDistinct(t *testing.T) {
	_, err := SanitizeDir("")
	assert.False(t, errors.Is(err, ErrNullByte))
	_, err = SanitizeDir("\x00")
	assert.False(t, errors.Is(err, ErrEmptyPath))
}
