package xdiag

import "os"

// filePerm 诊断日志文件权限
const filePerm os.FileMode = 0o640

// fileSystem 文件系统抽象，测试中可替换为 mock。
type fileSystem interface {
	OpenFile(name string, flag int, perm os.FileMode) (file, error)
}

// file 单次写入期间持有的文件句柄。
type file interface {
	Write(p []byte) (int, error)
	Stat() (os.FileInfo, error)
	Close() error
}

// osFS 基于 os 包的 fileSystem 实现。
type osFS struct{}

func (osFS) OpenFile(name string, flag int, perm os.FileMode) (file, error) {
	f, err := os.OpenFile(name, flag, perm) //nolint:gosec // 路径来自已校验的目录
	if err != nil {
		return nil, err
	}
	return f, nil
}
