package xdiag

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testVersion  = "1.2.3-test"
	testFileName = "diag_test.log"
)

var testTime = time.Date(2026, 3, 4, 5, 6, 7, 123456700, time.UTC)

func withFS(fs fileSystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

func withClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// syncBuffer 并发安全的 bytes.Buffer，用作兜底通道输出。
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTestSender 创建指向临时目录、固定文件名与时钟的 Sender，返回兜底通道输出。
func newTestSender(t *testing.T, opts ...Option) (*Sender, *syncBuffer) {
	t.Helper()
	fallback := &syncBuffer{}
	base := []Option{
		WithDirectory(t.TempDir()),
		WithFileNamer(func() string { return testFileName }),
		WithVersion(testVersion),
		WithFallback(slog.New(slog.NewTextHandler(fallback, nil))),
		withClock(func() time.Time { return testTime }),
	}
	s := New(append(base, opts...)...)
	t.Cleanup(func() { _ = s.Close() })
	return s, fallback
}

// blockedDir 返回一个无法创建的目录路径：其父路径是普通文件。
func blockedDir(t *testing.T) string {
	t.Helper()
	f := filepath.Join(t.TempDir(), "regular-file")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o600))
	return filepath.Join(f, "logs")
}

// readLines 读取文件并按行切分（不含结尾空行）。
func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func isRoot() bool {
	return os.Geteuid() == 0
}
