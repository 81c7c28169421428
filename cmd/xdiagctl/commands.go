package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xdiag/pkg/observability/xdiag"
)

// exitError 表示需要非零退出码但已完成输出的场景。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// usageError 参数错误，退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// isCLIUsageError 判断是否为 CLI 框架产生的参数错误。
func isCLIUsageError(err error) bool {
	if _, ok := err.(cli.ExitCoder); ok {
		return true
	}
	msg := err.Error()
	for _, s := range []string{
		"flag provided but not defined",
		"flag needs an argument",
		"invalid value",
		"Required flag",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createProbeCommand(),
		createSendCommand(),
		createVerifyCommand(),
		createEnvCommand(),
	}
}

func createProbeCommand() *cli.Command {
	return &cli.Command{
		Name:  "probe",
		Usage: "按 Sender 的规则校验目录",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "dir",
				Aliases:  []string{"d"},
				Usage:    "要校验的目录（支持环境变量占位符）",
				Required: true,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdProbe(cmd.Root().Writer, cmd.Root().ErrWriter, cmd.String("dir"))
		},
	}
}

func createSendCommand() *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "写入一条诊断事件",
		ArgsUsage: "MESSAGE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "日志目录（被 " + xdiag.EnvLogDirectory + " 覆盖）",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件（yaml/json，读取 " + xdiag.ConfigKey + " 键）",
			},
			&cli.StringFlag{
				Name:    "level",
				Aliases: []string{"l"},
				Usage:   "事件级别 (critical/error/warning/informational/verbose)",
				Value:   xdiag.LevelInformational.String(),
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdSend(cmd.Root().Writer, cmd.Root().ErrWriter, sendParams{
				dir:     cmd.String("dir"),
				config:  cmd.String("config"),
				level:   cmd.String("level"),
				message: strings.Join(cmd.Args().Slice(), " "),
				lookup:  os.LookupEnv,
			})
		},
	}
}

func createVerifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "解析诊断日志文件并按级别统计",
		ArgsUsage: "FILE",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return &usageError{msg: "verify 命令需要且只需要一个文件参数"}
			}
			return cmdVerify(cmd.Root().Writer, cmd.Root().ErrWriter, cmd.Args().First())
		},
	}
}

func createEnvCommand() *cli.Command {
	return &cli.Command{
		Name:  "env",
		Usage: "查看引导环境变量",
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdEnv(cmd.Root().Writer, os.LookupEnv)
		},
	}
}

// stderrFallback 兜底通道输出到 w，便于用户看到目录被拒绝的原因。
func stderrFallback(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, nil))
}

// =============================================================================
// probe
// =============================================================================

func cmdProbe(stdout, stderr io.Writer, dir string) error {
	if strings.TrimSpace(dir) == "" {
		return &usageError{msg: "probe 命令需要 --dir"}
	}

	name := fmt.Sprintf(".xdiagctl-probe-%d.log", os.Getpid())
	s := xdiag.New(
		xdiag.WithFileNamer(func() string { return name }),
		xdiag.WithFallback(stderrFallback(stderr)),
	)
	defer s.Close()
	defer os.Remove(s.LogFilePath()) //nolint:errcheck // 构造时在默认目录留下的探测文件

	if !s.SetLogDirectory(dir) {
		fmt.Fprintf(stderr, "目录不可用: %s\n", dir)
		return &exitError{code: 1}
	}
	resolved := s.LogDirectory()
	_ = os.Remove(filepath.Join(resolved, name))

	fmt.Fprintf(stdout, "ok: %s\n", resolved)
	return nil
}

// =============================================================================
// send
// =============================================================================

type sendParams struct {
	dir     string
	config  string
	level   string
	message string
	lookup  func(string) (string, bool)
}

func cmdSend(stdout, stderr io.Writer, p sendParams) error {
	if strings.TrimSpace(p.message) == "" {
		return &usageError{msg: "send 命令需要消息内容"}
	}
	level, err := xdiag.ParseLevel(p.level)
	if err != nil {
		return &usageError{msg: err.Error()}
	}

	opts := []xdiag.Option{xdiag.WithFallback(stderrFallback(stderr))}
	if p.config != "" {
		cfg, err := xdiag.LoadConfig(p.config)
		if err != nil {
			return err
		}
		cfgOpts, err := cfg.Options()
		if err != nil {
			return err
		}
		opts = append(opts, cfgOpts...)
	}
	if p.dir != "" {
		opts = append(opts, xdiag.WithDirectory(p.dir))
	}
	// 手动发送总是启用
	opts = append(opts, xdiag.WithEnabled(true))

	s := xdiag.New(opts...)
	defer s.Close()

	// 环境变量优先：锁定后 --dir 被忽略
	locked, err := xdiag.BootstrapWith(s, p.lookup)
	if err != nil {
		fmt.Fprintf(stderr, "环境变量引导失败: %v\n", err)
		return &exitError{code: 1}
	}
	if locked && p.dir != "" {
		fmt.Fprintf(stderr, "%s 已设置，忽略 --dir\n", xdiag.EnvLogDirectory)
	}
	if !s.IsEnabled() {
		fmt.Fprintf(stderr, "%s 禁用了诊断日志\n", xdiag.EnvEnabled)
		return &exitError{code: 1}
	}

	before, _ := os.Stat(s.LogFilePath())
	s.Send(xdiag.NewEvent(level, p.message))
	after, err := os.Stat(s.LogFilePath())
	// Send 不报告失败，通过文件变化确认写入
	if err != nil || (before != nil && os.SameFile(before, after) && after.Size() <= before.Size()) {
		fmt.Fprintf(stderr, "写入失败: %s\n", s.LogFilePath())
		return &exitError{code: 1}
	}

	fmt.Fprintln(stdout, s.LogFilePath())
	return nil
}

// =============================================================================
// verify
// =============================================================================

func cmdVerify(stdout, stderr io.Writer, path string) error {
	hdr, entries, err := xdiag.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "校验失败: %v\n", err)
		return &exitError{code: 1}
	}

	counts := make(map[xdiag.Level]int)
	var other int
	for _, e := range entries {
		if e.Level.IsValid() {
			counts[e.Level]++
		} else {
			other++
		}
	}

	fmt.Fprintf(stdout, "version: %s\n", hdr.Version)
	fmt.Fprintf(stdout, "entries: %d\n", len(entries))
	for l := xdiag.LevelLogAlways; l <= xdiag.LevelVerbose; l++ {
		if counts[l] > 0 {
			fmt.Fprintf(stdout, "  %-14s %d\n", l.String()+":", counts[l])
		}
	}
	if other > 0 {
		fmt.Fprintf(stdout, "  %-14s %d\n", "other:", other)
	}
	if len(entries) > 0 {
		fmt.Fprintf(stdout, "first: %s\n", entries[0].Time.Format(xdiag.TimeLayout))
		fmt.Fprintf(stdout, "last:  %s\n", entries[len(entries)-1].Time.Format(xdiag.TimeLayout))
	}
	return nil
}

// =============================================================================
// env
// =============================================================================

func cmdEnv(stdout io.Writer, lookup func(string) (string, bool)) error {
	show := func(key string) string {
		v, ok := lookup(key)
		if !ok {
			return "<unset>"
		}
		return fmt.Sprintf("%q", v)
	}
	fmt.Fprintf(stdout, "%s=%s\n", xdiag.EnvLogDirectory, show(xdiag.EnvLogDirectory))
	fmt.Fprintf(stdout, "%s=%s\n", xdiag.EnvEnabled, show(xdiag.EnvEnabled))

	dir, ok := lookup(xdiag.EnvLogDirectory)
	if ok && strings.TrimSpace(dir) != "" {
		fmt.Fprintln(stdout, "locked: yes (程序内的目录与启用配置将被忽略)")
	} else {
		fmt.Fprintln(stdout, "locked: no")
	}
	return nil
}
