package xdiag

import "errors"

// 配置与引导相关错误。
//
// 这些错误只在显式返回 error 的 API（Bootstrap、LoadConfig、ParseLine 等）中出现；
// Sender 的 SetLogDirectory/SetEnabled/Send 从不向调用方返回错误。
var (
	// ErrEmptyDirectory 表示目录参数为空或仅包含空白。
	ErrEmptyDirectory = errors.New("xdiag: log directory is required")

	// ErrInvalidDirectory 表示目录未通过校验（不可写、路径非法、写入探测失败等）。
	ErrInvalidDirectory = errors.New("xdiag: invalid log directory")

	// ErrAlreadyLocked 表示环境锁已启用，不能再次引导。
	ErrAlreadyLocked = errors.New("xdiag: already locked by environment")

	// ErrInvalidEnv 表示引导用环境变量的值非法。
	ErrInvalidEnv = errors.New("xdiag: invalid environment variable")

	// ErrClosed 表示 Sender 已关闭。
	ErrClosed = errors.New("xdiag: sender is closed")

	// ErrInvalidLevel 表示无法识别的事件级别。
	ErrInvalidLevel = errors.New("xdiag: invalid level")

	// ErrMalformedLine 表示诊断日志行格式非法。
	ErrMalformedLine = errors.New("xdiag: malformed log line")

	// ErrMissingHeader 表示诊断日志文件缺少文件头。
	ErrMissingHeader = errors.New("xdiag: missing file header")
)

// 配置文件相关错误。
var (
	// ErrEmptyConfigPath 表示配置文件路径为空。
	ErrEmptyConfigPath = errors.New("xdiag: empty config path")

	// ErrUnsupportedFormat 表示不支持的配置格式。
	ErrUnsupportedFormat = errors.New("xdiag: unsupported config format")

	// ErrLoadConfig 表示配置文件读取失败。
	ErrLoadConfig = errors.New("xdiag: failed to load config")

	// ErrParseConfig 表示配置解析或反序列化失败。
	ErrParseConfig = errors.New("xdiag: failed to parse config")
)
