package xfile

import (
	"fmt"
	"os"
)

// DefaultDirPerm 默认目录权限
//
// 0750 权限说明：
//   - 所有者：读写执行 (7)
//   - 组：读执行 (5)
//   - 其他：无权限 (0)
//
// 符合 gosec G301 安全建议
const DefaultDirPerm = 0750

// EnsureWritableDir 确保目录存在且当前进程可写
//
// 使用默认权限 0750 创建缺失的目录（包括中间目录）。
// 目录已存在时不修改其权限。
//
// 返回的错误可通过 errors.Is 判断：
//   - ErrEmptyPath / ErrNullByte: 参数非法
//   - ErrNotDirectory: 路径已存在但不是目录
//   - ErrNotWritable: 目录不可写
//   - 其他: os.MkdirAll/os.Stat 的底层错误（如 ENAMETOOLONG、ENOTDIR）
func EnsureWritableDir(dir string) error {
	return EnsureWritableDirWithPerm(dir, DefaultDirPerm)
}

// EnsureWritableDirWithPerm 与 EnsureWritableDir 相同，使用指定权限创建目录
//
// perm 必须包含所有者执行位（0100），否则目录无法遍历。
func EnsureWritableDirWithPerm(dir string, perm os.FileMode) error {
	if dir == "" {
		return fmt.Errorf("directory is required: %w", ErrEmptyPath)
	}
	if containsNullByte(dir) {
		return fmt.Errorf("directory contains null byte: %w", ErrNullByte)
	}
	if perm&0100 == 0 {
		return fmt.Errorf("xfile: directory permission %04o missing owner execute bit", perm)
	}

	if err := os.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("xfile: create directory: %w", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("xfile: stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q: %w", dir, ErrNotDirectory)
	}

	return CheckWritable(dir)
}

// CheckWritable 检查目录对当前进程是否可写
//
// 不创建目录；目录不存在时返回底层错误。
func CheckWritable(dir string) error {
	if err := checkWritable(dir); err != nil {
		return fmt.Errorf("%q: %w: %w", dir, ErrNotWritable, err)
	}
	return nil
}
