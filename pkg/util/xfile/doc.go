// Package xfile 提供诊断日志目录相关的文件系统工具。
//
// 本包是 xdiag 的目录校验协作者：把用户给出的目录字符串变成
// 可以安全写入的绝对目录。
//
// # 处理流程
//
//   - ExpandEnv: 展开环境变量占位符（$VAR、${VAR}；Windows 上另支持 %VAR%）
//   - SanitizeDir: 拒绝空路径和空字节，转换为规范化的绝对路径
//   - EnsureWritableDir: 创建缺失的目录并检查当前进程是否可写
//
// # 可写性检查
//
// unix 平台使用 access(2)（W_OK|X_OK），不产生任何文件；
// 其他平台在目录中创建并删除一个探测文件。
//
// 注意：root 用户调用 access(2) 总是得到"可写"，只读目录在 root 下
// 无法被识别，实际写入仍会失败（由调用方的写入探测兜底）。
//
// # 错误处理
//
// 预定义错误变量支持 [errors.Is] 判断：
//
//	_, err := xfile.SanitizeDir("")
//	if errors.Is(err, xfile.ErrEmptyPath) {
//	    // 处理空路径
//	}
package xfile
