//go:build !unix

package xfile

import "os"

// checkWritable 在没有 access(2) 的平台上创建并删除一个探测文件。
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".xdiag-probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	return os.Remove(name)
}
