// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xfile: 目录校验与路径处理，环境变量展开、可写检查
//   - xproc: 进程信息查询，PID 和文件名安全的进程名称
//
// 设计原则：
//   - 跨平台兼容
package util
