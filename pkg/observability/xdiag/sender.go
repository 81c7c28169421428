package xdiag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/xdiag/pkg/observability/xrotate"
	"github.com/omeyang/xdiag/pkg/util/xfile"
)

// 兜底通道中使用的操作名
const (
	opNew             = "New"
	opSetLogDirectory = "SetLogDirectory"
	opBootstrap       = "Bootstrap"
)

// target 当前写入目标。目录与文件路径总是一起发布。
type target struct {
	dir  string
	path string
}

// Sender 自诊断日志发送器
//
// 把诊断事件逐行追加到 <目录>/<文件名>。每次写入都独立打开、追加、关闭文件，
// 不持有长期句柄，因此外部工具可以随时移动或删除该文件。
//
// Send 从不返回错误也不 panic：禁用时立即返回，写入失败时丢弃事件。
// 所有方法并发安全。
type Sender struct {
	fileName  string
	header    []byte
	validator func(string) error
	fallback  *slog.Logger
	rotation  xrotate.Policy
	metrics   *senderMetrics
	fs        fileSystem
	now       func() time.Time

	target  atomic.Pointer[target]
	enabled atomic.Bool
	locked  atomic.Bool
	closed  atomic.Bool

	// cfgMu 串行化配置操作，Send 不获取它
	cfgMu sync.Mutex
	// mu 写锁，保证同一进程内的行不交错
	mu sync.Mutex
}

// New 创建 Sender
//
// 文件名在此生成且之后不变。默认目录先被无条件设为当前目标，
// 再按 SetLogDirectory 的规则校验；校验失败只向兜底通道报告，
// 目标保持为该默认目录。新建的 Sender 默认禁用，未被环境锁定。
func New(opts ...Option) *Sender {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	s := &Sender{
		header:    buildHeader(o.version),
		validator: o.validator,
		fallback:  o.fallback,
		rotation:  o.rotation,
		metrics:   newSenderMetrics(o.meterProvider),
		fs:        o.fs,
		now:       o.now,
	}
	s.fileName = generateFileName(o.fileNamer)

	dir := o.directory
	if clean, err := xfile.SanitizeDir(xfile.ExpandEnv(dir)); err == nil {
		dir = clean
	}
	s.target.Store(&target{dir: dir, path: filepath.Join(dir, s.fileName)})

	s.cfgMu.Lock()
	_ = s.applyDirectory(opNew, o.directory) // 失败已报告到兜底通道
	s.cfgMu.Unlock()

	s.enabled.Store(o.enabled)
	return s
}

func generateFileName(namer func() string) (name string) {
	defer func() {
		if r := recover(); r != nil {
			name = DefaultFileName()
		}
	}()
	name = filepath.Base(strings.TrimSpace(namer()))
	if name == "." || name == string(filepath.Separator) {
		return DefaultFileName()
	}
	return name
}

// =============================================================================
// 配置
// =============================================================================

// SetLogDirectory 设置日志目录
//
// 目录中的环境变量占位符（$VAR、${VAR}，Windows 下还有 %VAR%）会被展开。
// 目录不存在时会被创建，然后对 <目录>/<文件名> 做一次追加写入探测
// （文件为空时写入文件头）。全部成功才切换目标并返回 true。
//
// 失败时返回 false 且不改变任何状态。已被环境锁定或已关闭时静默返回；
// 其余失败（包括目录为空或仅含空白）向兜底通道报告一条消息。
func (s *Sender) SetLogDirectory(dir string) bool {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()

	if s.locked.Load() || s.closed.Load() {
		return false
	}
	return s.applyDirectory(opSetLogDirectory, dir) == nil
}

// SetEnabled 启用或禁用写入
//
// 已被环境锁定或已关闭时调用被忽略。
func (s *Sender) SetEnabled(enabled bool) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()

	if s.locked.Load() || s.closed.Load() {
		return
	}
	s.enabled.Store(enabled)
}

// applyDirectory 校验并切换目录，失败时报告到兜底通道。调用方必须持有 cfgMu。
func (s *Sender) applyDirectory(op, dir string) error {
	t, err := s.validate(dir)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidDirectory, err)
		s.reportRejected(op, dir, err)
		return err
	}
	s.target.Store(t)
	return nil
}

func (s *Sender) validate(dir string) (*target, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ErrEmptyDirectory
	}
	clean, err := xfile.SanitizeDir(xfile.ExpandEnv(dir))
	if err != nil {
		return nil, err
	}
	if err := s.runValidator(clean); err != nil {
		return nil, err
	}
	path := filepath.Join(clean, s.fileName)
	if err := s.probe(path); err != nil {
		return nil, err
	}
	return &target{dir: clean, path: path}, nil
}

func (s *Sender) runValidator(dir string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validator panic: %v", r)
		}
	}()
	return s.validator(dir)
}

// probe 以真实的追加写入确认目标文件可用：文件为空时写入文件头。
func (s *Sender) probe(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendTo(path, nil)
}

func (s *Sender) reportRejected(op, dir string, err error) {
	s.metrics.configRejected(op)

	// 兜底通道自身的失败不影响调用方
	defer func() { _ = recover() }()
	s.fallback.LogAttrs(context.Background(), slog.LevelWarn, "xdiag: set log directory failed",
		slog.String("op", op),
		slog.String("directory", dir),
		slog.String("file", s.fileName),
		slog.String("error", err.Error()),
	)
}

// =============================================================================
// 写入
// =============================================================================

// Send 写入一个诊断事件
//
// 禁用或已关闭时立即返回，不接触文件系统。
// 写入失败时事件被丢弃，不重试、不报告、不影响后续调用。
func (s *Sender) Send(ev TraceEvent) {
	if !s.enabled.Load() || s.closed.Load() {
		return
	}
	t := s.target.Load()
	line := appendLine(make([]byte, 0, len(TimeLayout)+len(ev.Message)+32), s.now(), ev)

	if err := s.write(t.path, line); err != nil {
		if !errors.Is(err, ErrClosed) {
			s.metrics.eventDropped(ev.Level)
		}
		return
	}
	s.metrics.eventWritten(ev.Level)
}

// Sendf 以格式串构造事件并写入
func (s *Sender) Sendf(level Level, format string, args ...any) {
	if !s.enabled.Load() {
		return
	}
	s.Send(TraceEvent{Level: level, Message: format, Args: args})
}

func (s *Sender) write(path string, line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Close 可能发生在 Send 检查之后、取得 mu 之前
	if s.closed.Load() {
		return ErrClosed
	}
	if s.rotation != nil {
		// 轮转失败时继续写入当前文件
		_, _ = s.rotation.Apply(path)
	}
	return s.appendTo(path, line)
}

// appendTo 以追加模式打开 path，文件为空时先写文件头，再写 line 后关闭。
// 调用方必须持有 mu。
func (s *Sender) appendTo(path string, line []byte) (err error) {
	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	buf := line
	if info.Size() == 0 {
		buf = append(append(make([]byte, 0, len(s.header)+len(line)), s.header...), line...)
	}
	if len(buf) == 0 {
		return nil
	}
	_, err = f.Write(buf)
	return err
}

// =============================================================================
// 状态与生命周期
// =============================================================================

// LogDirectory 返回当前目录
func (s *Sender) LogDirectory() string {
	return s.target.Load().dir
}

// LogFilePath 返回当前日志文件的完整路径
func (s *Sender) LogFilePath() string {
	return s.target.Load().path
}

// FileName 返回构造时生成的文件名
func (s *Sender) FileName() string {
	return s.fileName
}

// IsEnabled 报告是否启用
func (s *Sender) IsEnabled() bool {
	return s.enabled.Load() && !s.closed.Load()
}

// IsLocked 报告是否已被环境锁定
func (s *Sender) IsLocked() bool {
	return s.locked.Load()
}

// Close 关闭 Sender
//
// 等待进行中的写入结束后返回；返回后不会再有任何写入，配置操作均被忽略。
// 会关闭轮转策略。重复调用返回 nil。
func (s *Sender) Close() error {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()

	if s.closed.Swap(true) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rotation == nil {
		return nil
	}
	return s.rotation.Close()
}
