package xfile

import "errors"

var (
	// ErrEmptyPath 表示必需的路径参数为空（或仅包含空白）。
	ErrEmptyPath = errors.New("xfile: path is required")

	// ErrNullByte 表示路径中包含空字节（\x00），Linux 内核会在空字节处截断路径，
	// 导致 Go 代码与操作系统看到的路径不一致。
	ErrNullByte = errors.New("xfile: path contains null byte")

	// ErrNotDirectory 表示路径已存在但不是目录。
	ErrNotDirectory = errors.New("xfile: not a directory")

	// ErrNotWritable 表示目录对当前进程不可写。
	ErrNotWritable = errors.New("xfile: directory is not writable")
)
