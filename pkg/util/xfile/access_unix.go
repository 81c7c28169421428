//go:build unix

package xfile

import "golang.org/x/sys/unix"

// access 系统调用函数变量，支持测试中替换以覆盖错误路径。
// 注意：替换包级变量的测试不可使用 t.Parallel()。
var access = unix.Access

// checkWritable 使用 access(2) 检查写权限和进入权限，不产生任何文件。
func checkWritable(dir string) error {
	return access(dir, unix.W_OK|unix.X_OK)
}
