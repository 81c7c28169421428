// xdiagctl 是 xdiag 自诊断日志的命令行工具。
//
// 用法:
//
//	xdiagctl <命令> [命令参数]
//
// 命令:
//
//	probe --dir D     按 Sender 的规则校验目录（创建、可写检查、写入探测）
//	send MESSAGE...   写入一条诊断事件并输出日志文件路径
//	verify FILE       解析诊断日志文件，按级别统计事件数
//	env               查看引导环境变量及其是否会锁定配置
//	help              显示帮助信息
//
// 退出码:
//
//	0: 命令执行成功
//	1: 命令执行失败（目录不可用、文件格式非法等）
//	2: 参数错误（缺少必需参数、无效级别、未知命令等）
//
// 示例:
//
//	xdiagctl probe --dir /var/log/app
//	xdiagctl send --dir /var/log/app --level error "exporter stopped"
//	XDIAG_LOG_DIRECTORY=/tmp/diag xdiagctl send "hello"
//	xdiagctl verify /var/log/app/app_20260102_030405_42_1a2b3c4d.log
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xdiag/pkg/observability/xdiag"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// createApp 创建 CLI 应用。
func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xdiagctl",
		Usage:     "xdiag 自诊断日志命令行工具",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s, sdk: %s)", Version, GitCommit, BuildTime, xdiag.SDKVersion()),
		Writer:    stdout,
		ErrWriter: stderr,
		Commands:  createCommands(),
		Authors: []any{
			"XKit Team",
		},
		// 禁止 urfave/cli 直接调用 os.Exit，由 run() 统一映射退出码
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(stderr, err)
			}
		},
		Description: `xdiagctl 用于在部署环境中检查自诊断日志配置：

  probe    确认目录可被 Sender 使用
  send     手动写入一条事件，验证端到端链路
  verify   校验日志文件格式并统计事件
  env      查看 ` + xdiag.EnvLogDirectory + ` / ` + xdiag.EnvEnabled + ` 的当前取值`,
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := createApp(stdout, stderr)

	if err := app.Run(ctx, args); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		if isCLIUsageError(err) {
			return 2
		}
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
