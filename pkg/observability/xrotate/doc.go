// Package xrotate 提供诊断日志文件的轮转策略。
//
// Policy 接口定义了"写入前检查并按需轮转"的行为。与常见的轮转 Writer
// 不同，Policy 不持有打开的文件：调用方每次写入自行打开/追加/关闭文件，
// 只在写入前调用 [Policy.Apply] 让策略决定是否轮转。
//
// # 当前实现
//
//   - [NewLumberjack]: 基于 lumberjack v2 的按大小轮转（备份数量、天数、gzip 压缩）
//
// # 并发
//
// Apply 并发安全，但调用方应在自身的写锁内调用，保证检查与随后的写入
// 不被其他写入者打断。
package xrotate
