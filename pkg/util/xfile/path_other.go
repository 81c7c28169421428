//go:build !windows

package xfile

// expandPlatform 非 Windows 平台只支持 $VAR 形式，% 按普通字符处理。
func expandPlatform(path string) string {
	return path
}
