package xdiag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadCallback 配置重载回调，err 非 nil 表示重载失败
type ReloadCallback func(cfg Config, err error)

// WatchOption 监视器配置选项
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
	callback ReloadCallback
}

func defaultWatchOptions() *watchOptions {
	return &watchOptions{
		debounce: 100 * time.Millisecond,
	}
}

// WithDebounce 设置防抖时间，默认 100ms
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithReloadCallback 设置每次重载后的回调
func WithReloadCallback(fn ReloadCallback) WatchOption {
	return func(o *watchOptions) {
		o.callback = fn
	}
}

// Watcher 配置文件监视器
//
// 配置文件变更时重新加载并通过 Config.Apply 应用到 Sender。
// 加载失败报告到 Sender 的兜底通道，当前配置保持不变。
type Watcher struct {
	path     string
	sender   *Sender
	watcher  *fsnotify.Watcher
	callback ReloadCallback
	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}

	mu      sync.Mutex
	running bool
	stopped bool
	timer   *time.Timer
}

// WatchConfig 创建配置文件监视器
//
// 返回的 Watcher 需要调用 Start 或 StartAsync 开始监视，Stop 停止监视。
// 监视的是文件所在目录，编辑器"写临时文件再 rename"的保存方式也能被捕获。
func WatchConfig(path string, s *Sender, opts ...WatchOption) (*Watcher, error) {
	if path == "" {
		return nil, ErrEmptyConfigPath
	}
	if _, err := detectFormat(path); err != nil {
		return nil, err
	}

	options := defaultWatchOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xdiag: failed to create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fsWatcher.Add(dir); err != nil {
		closeErr := fsWatcher.Close()
		return nil, errors.Join(
			fmt.Errorf("xdiag: failed to watch directory %s: %w", dir, err),
			closeErr,
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     path,
		sender:   s,
		watcher:  fsWatcher,
		callback: options.callback,
		debounce: options.debounce,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}, nil
}

// Start 启动监视，阻塞直到 Stop
func (w *Watcher) Start() {
	if !w.markRunning() {
		return
	}
	w.run()
}

// StartAsync 在后台 goroutine 中启动监视
func (w *Watcher) StartAsync() {
	if !w.markRunning() {
		return
	}
	go w.run()
}

func (w *Watcher) markRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.stopped {
		return false
	}
	w.running = true
	return true
}

// Stop 停止监视并等待监视循环退出，可重复调用
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	running := w.running
	w.mu.Unlock()

	w.cancel()
	err := w.watcher.Close()
	if running {
		<-w.done
	}
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	filename := filepath.Base(w.path)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event, filename)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(fmt.Errorf("xdiag: watch error: %w", err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event, filename string) {
	if filepath.Base(event.Name) != filename {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.ctx.Done():
		return
	default:
	}

	cfg, err := LoadConfig(w.path)
	if err != nil {
		w.report(err)
		return
	}
	cfg.Apply(w.sender)
	if w.callback != nil {
		w.callback(cfg, nil)
	}
}

func (w *Watcher) report(err error) {
	func() {
		defer func() { _ = recover() }()
		w.sender.fallback.LogAttrs(context.Background(), slog.LevelWarn, "xdiag: config reload failed",
			slog.String("path", w.path),
			slog.String("error", err.Error()),
		)
	}()
	if w.callback != nil {
		w.callback(Config{}, err)
	}
}
