package xrotate

// Policy 日志轮转策略接口
//
// 所有实现都必须是并发安全的。扩展新实现时需满足以下约定：
//   - Apply 只在需要时轮转，返回 rotated=true 表示 path 现在是一个新的空文件
//     或不存在
//   - Apply 返回时不得持有 path 的打开句柄
//   - Close 后调用 Apply 返回 [ErrClosed]，重复 Close 返回 nil
type Policy interface {
	// Apply 检查 path 指向的文件，达到轮转条件时执行轮转
	// 文件不存在时不轮转
	Apply(path string) (rotated bool, err error)

	// Close 释放策略持有的资源
	Close() error
}
