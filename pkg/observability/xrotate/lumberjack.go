package xrotate

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Lumberjack 默认配置值
const (
	// DefaultMaxSizeMB 默认单个诊断日志文件最大大小（MB）
	DefaultMaxSizeMB = 10

	// DefaultMaxBackups 默认保留的备份文件数量
	DefaultMaxBackups = 3

	// DefaultMaxAgeDays 默认保留备份的天数
	DefaultMaxAgeDays = 7

	// DefaultCompress 默认是否压缩备份
	DefaultCompress = false

	// DefaultLocalTime 默认是否使用本地时间（false 表示 UTC）
	DefaultLocalTime = false

	// maxSizeMB 单个日志文件大小上限（10 GB）
	maxSizeMB = 10240

	// maxBackups 备份文件数量上限
	maxBackups = 1024

	// maxAgeDays 备份保留天数上限（约 10 年）
	maxAgeDays = 3650
)

// lumberjackConfig lumberjack 轮转策略配置
type lumberjackConfig struct {
	// MaxSizeMB 文件达到此大小（MB）时轮转，必须 > 0
	MaxSizeMB int

	// MaxBackups 保留的备份文件数量，0 表示不限制数量（但仍受 MaxAgeDays 约束）
	MaxBackups int

	// MaxAgeDays 保留备份的天数，0 表示不按天数清理（但仍受 MaxBackups 约束）
	MaxAgeDays int

	// Compress 是否 gzip 压缩备份文件
	Compress bool

	// LocalTime 备份文件名是否使用本地时间，false 时使用 UTC
	LocalTime bool
}

// Option lumberjack 配置选项函数
type Option func(*lumberjackConfig)

// WithMaxSize 设置触发轮转的文件大小（MB）
func WithMaxSize(mb int) Option {
	return func(c *lumberjackConfig) {
		c.MaxSizeMB = mb
	}
}

// WithMaxBackups 设置保留的备份文件数量
func WithMaxBackups(n int) Option {
	return func(c *lumberjackConfig) {
		c.MaxBackups = n
	}
}

// WithMaxAge 设置保留备份的天数
func WithMaxAge(days int) Option {
	return func(c *lumberjackConfig) {
		c.MaxAgeDays = days
	}
}

// WithCompress 设置是否压缩备份文件
func WithCompress(compress bool) Option {
	return func(c *lumberjackConfig) {
		c.Compress = compress
	}
}

// WithLocalTime 设置备份文件名是否使用本地时间
func WithLocalTime(local bool) Option {
	return func(c *lumberjackConfig) {
		c.LocalTime = local
	}
}

// lumberjackPolicy 基于 lumberjack 的 Policy 实现
//
// lumberjack.Logger 绑定单个文件名。当诊断日志目录变更导致 path 变化时，
// 旧实例被关闭并按新 path 重建。
//
// 轮转通过 lumberjack.Logger.Rotate 完成：关闭（未打开的）当前文件，
// 把已有文件重命名为带时间戳的备份，创建新的空文件，并在后台清理
// 超出数量/天数的备份。随后立即 Close，不保留打开的句柄。
type lumberjackPolicy struct {
	cfg          lumberjackConfig
	maxSizeBytes int64

	mu     sync.Mutex
	logger *lumberjack.Logger
	path   string
	closed bool

	// 可注入的系统调用（nil 时使用 os 标准库），仅用于测试
	statFn func(string) (os.FileInfo, error)
}

// NewLumberjack 创建基于 lumberjack 的按大小轮转策略
func NewLumberjack(opts ...Option) (Policy, error) {
	cfg := lumberjackConfig{
		MaxSizeMB:  DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAgeDays: DefaultMaxAgeDays,
		Compress:   DefaultCompress,
		LocalTime:  DefaultLocalTime,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := validateLumberjackConfig(&cfg); err != nil {
		return nil, err
	}

	return &lumberjackPolicy{
		cfg:          cfg,
		maxSizeBytes: int64(cfg.MaxSizeMB) * 1024 * 1024,
	}, nil
}

// validateLumberjackConfig 验证 lumberjack 配置
func validateLumberjackConfig(cfg *lumberjackConfig) error {
	if cfg.MaxSizeMB <= 0 || cfg.MaxSizeMB > maxSizeMB {
		return fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidMaxSize, cfg.MaxSizeMB, maxSizeMB)
	}

	if cfg.MaxBackups < 0 || cfg.MaxBackups > maxBackups {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxBackups, cfg.MaxBackups, maxBackups)
	}

	if cfg.MaxAgeDays < 0 || cfg.MaxAgeDays > maxAgeDays {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxAge, cfg.MaxAgeDays, maxAgeDays)
	}

	if cfg.MaxBackups == 0 && cfg.MaxAgeDays == 0 {
		return fmt.Errorf("%w: MaxBackups and MaxAgeDays cannot both be 0", ErrNoCleanupPolicy)
	}

	return nil
}

// Apply 实现 Policy 接口
func (p *lumberjackPolicy) Apply(path string) (bool, error) {
	if path == "" {
		return false, ErrEmptyPath
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false, ErrClosed
	}

	stat := p.statFn
	if stat == nil {
		stat = os.Stat
	}

	info, err := stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.Size() < p.maxSizeBytes {
		return false, nil
	}

	l := p.loggerFor(path)
	if err := l.Rotate(); err != nil {
		return false, fmt.Errorf("xrotate: rotate %s: %w", path, err)
	}
	if err := l.Close(); err != nil {
		return true, fmt.Errorf("xrotate: close %s: %w", path, err)
	}
	return true, nil
}

// loggerFor 返回绑定到 path 的 lumberjack 实例，path 变化时重建。
// 调用方必须持有 p.mu。
func (p *lumberjackPolicy) loggerFor(path string) *lumberjack.Logger {
	if p.logger != nil && p.path == path {
		return p.logger
	}
	if p.logger != nil {
		// 旧实例未持有打开的文件，Close 只会是空操作
		_ = p.logger.Close()
	}
	p.logger = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    p.cfg.MaxSizeMB,
		MaxBackups: p.cfg.MaxBackups,
		MaxAge:     p.cfg.MaxAgeDays,
		Compress:   p.cfg.Compress,
		LocalTime:  p.cfg.LocalTime,
	}
	p.path = path
	return p.logger
}

// Close 实现 Policy 接口，重复调用返回 nil
func (p *lumberjackPolicy) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	if p.logger == nil {
		return nil
	}
	return p.logger.Close()
}
