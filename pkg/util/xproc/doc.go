// Package xproc 提供当前进程的标识信息。
//
// 诊断日志文件名以进程名和 PID 开头，便于在共享目录中区分不同进程写出的文件。
package xproc
