// Package xdiag 提供遥测 SDK 的自诊断日志。
//
// SDK 在自身出问题时（导出失败、配置错误、内部异常）需要一个不依赖
// 常规遥测管道的输出位置。[Sender] 把诊断事件逐行追加到本地文件
// <目录>/<文件名>，供运维人员事后排查。
//
// # 文件格式
//
// 文件第一次被写入时先写文件头（版本行加一个空行），之后每个事件一行：
//
//	SDK version: v1.2.3
//
//	2026-01-02T03:04:05.1234567Z: Warning: exporter queue is full
//
// 时间戳为 UTC，消息中的换行符被转义为 `\r`、`\n`。[ParseLine] 与 [ReadFile]
// 可以把文件解析回来。
//
// # 配置
//
// 目录可以在程序中通过 [Sender.SetLogDirectory] 设置，也可以由运维人员
// 通过环境变量 XDIAG_LOG_DIRECTORY 设置（见 [Bootstrap]）。环境变量优先：
// 引导后 Sender 被锁定，程序内的配置调用全部被忽略。
// 配置文件与热更新见 [LoadConfig]、[WatchConfig]。
//
// # 失败处理
//
//   - 目录配置失败：返回 false 并通过兜底通道（*slog.Logger）报告
//   - 写入失败：事件被静默丢弃，只记录 xdiag.events.dropped 指标
//
// Send 从不返回错误也不 panic，诊断功能自身的故障不会影响宿主程序。
//
// # OpenTelemetry
//
// [InstallOTel] 把 Sender 注册为 OpenTelemetry 的全局错误处理器与内部日志，
// SDK 自身的错误与告警会落入诊断文件。
package xdiag
