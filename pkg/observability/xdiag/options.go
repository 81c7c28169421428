package xdiag

import (
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xdiag/pkg/observability/xrotate"
	"github.com/omeyang/xdiag/pkg/util/xfile"
)

// Option 配置 Sender 的函数类型
type Option func(*options)

type options struct {
	directory     string
	enabled       bool
	fileNamer     func() string
	validator     func(dir string) error
	version       string
	fallback      *slog.Logger
	rotation      xrotate.Policy
	meterProvider metric.MeterProvider
	now           func() time.Time
	fs            fileSystem
}

func defaultOptions() *options {
	return &options{
		directory:     os.TempDir(),
		fileNamer:     DefaultFileName,
		validator:     xfile.EnsureWritableDir,
		version:       SDKVersion(),
		fallback:      slog.New(slog.NewTextHandler(os.Stderr, nil)),
		meterProvider: otel.GetMeterProvider(),
		now:           time.Now,
		fs:            osFS{},
	}
}

// WithDirectory 设置构造时的默认目录
//
// 默认为 os.TempDir()。目录不合法时 Sender 仍指向该目录，
// 失败仅通过兜底通道报告。
func WithDirectory(dir string) Option {
	return func(o *options) {
		o.directory = dir
	}
}

// WithEnabled 设置初始启用状态，默认禁用
func WithEnabled(enabled bool) Option {
	return func(o *options) {
		o.enabled = enabled
	}
}

// WithFileNamer 设置文件名生成函数
//
// 只在构造时调用一次；返回空字符串时使用 DefaultFileName。
func WithFileNamer(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.fileNamer = fn
		}
	}
}

// WithDirValidator 设置目录校验函数
//
// 默认为 xfile.EnsureWritableDir（按需创建并检查可写）。
// 校验通过后 Sender 仍会做一次真实的追加写入探测。
func WithDirValidator(fn func(dir string) error) Option {
	return func(o *options) {
		if fn != nil {
			o.validator = fn
		}
	}
}

// WithVersion 设置文件头中的 SDK 版本，默认取构建信息
func WithVersion(version string) Option {
	return func(o *options) {
		if version != "" {
			o.version = version
		}
	}
}

// WithFallback 设置兜底通道
//
// 目录配置失败时通过它报告，默认输出到 stderr。
// 兜底通道从不接收 Send 的写入失败。
func WithFallback(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.fallback = logger
		}
	}
}

// WithRotation 设置文件轮转策略，默认不轮转
//
// Sender.Close 会关闭该策略。
func WithRotation(policy xrotate.Policy) Option {
	return func(o *options) {
		o.rotation = policy
	}
}

// WithMeterProvider 设置自身指标使用的 MeterProvider，默认 otel.GetMeterProvider()
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}
