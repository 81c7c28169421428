// Package observability 提供 SDK 自诊断相关的子包。
//
// 子包列表：
//   - xdiag: 自诊断日志发送器，逐行追加到本地文件，支持环境变量锁定与配置热更新
//   - xrotate: 诊断日志文件轮转策略
//
// 设计原则：
//   - 诊断功能自身的故障不影响宿主程序
//   - 与 OpenTelemetry 的错误处理器和内部日志对接
package observability
