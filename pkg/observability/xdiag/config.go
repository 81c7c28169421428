package xdiag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/omeyang/xdiag/pkg/observability/xrotate"
)

// ConfigKey 配置文件中自诊断配置所在的键
const ConfigKey = "selfdiag"

// Format 配置文件格式
type Format string

// 支持的配置格式
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Config 自诊断配置
//
// 对应配置文件中 selfdiag 键下的内容：
//
//	selfdiag:
//	  enabled: true
//	  directory: ${HOME}/.xdiag
//	  rotation:
//	    max_size_mb: 10
//	    max_backups: 3
//	    max_age_days: 7
//	    compress: false
type Config struct {
	// Enabled 为 nil 表示配置未提及，不改变 Sender 当前的启用状态
	Enabled   *bool          `koanf:"enabled"`
	Directory string         `koanf:"directory"`
	Rotation  RotationConfig `koanf:"rotation"`
}

// RotationConfig 轮转配置，MaxSizeMB 为 0 表示不轮转
type RotationConfig struct {
	MaxSizeMB  int  `koanf:"max_size_mb"`
	MaxBackups int  `koanf:"max_backups"`
	MaxAgeDays int  `koanf:"max_age_days"`
	Compress   bool `koanf:"compress"`
}

// LoadConfig 从文件加载配置，格式由扩展名决定（.yaml/.yml/.json）
//
// 空文件或缺少 selfdiag 键时返回零值配置。
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, ErrEmptyConfigPath
	}
	format, err := detectFormat(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // 路径由调用方提供
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	return LoadConfigBytes(data, format)
}

// LoadConfigBytes 从字节数据加载配置，适用于 ConfigMap 等场景
func LoadConfigBytes(data []byte, format Format) (Config, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	k := koanf.New(".")
	if len(data) > 0 {
		if err := k.Load(rawbytes.Provider(data), parser); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrParseConfig, err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf(ConfigKey, &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrParseConfig, err)
	}
	return cfg, nil
}

func detectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Apply 通过公开的配置操作把配置应用到 Sender
//
// 遵守环境锁：已锁定时不产生任何效果。只应用配置中出现的字段：
// Directory 为空时不改目录，Enabled 为 nil 时不改启用状态。
// 返回目录是否被接受；未配置目录时返回 true。
func (c Config) Apply(s *Sender) bool {
	ok := true
	if strings.TrimSpace(c.Directory) != "" {
		ok = s.SetLogDirectory(c.Directory)
	}
	if c.Enabled != nil {
		s.SetEnabled(*c.Enabled)
	}
	return ok
}

// Options 把配置转换为构造选项
//
// 轮转配置非法时返回错误（包装 xrotate 的校验错误）。
func (c Config) Options() ([]Option, error) {
	var opts []Option
	if c.Enabled != nil {
		opts = append(opts, WithEnabled(*c.Enabled))
	}
	if strings.TrimSpace(c.Directory) != "" {
		opts = append(opts, WithDirectory(c.Directory))
	}
	if c.Rotation.MaxSizeMB > 0 {
		policy, err := c.Rotation.Policy()
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithRotation(policy))
	}
	return opts, nil
}

// Policy 按配置创建 lumberjack 轮转策略
//
// 未设置的备份数量与保留天数使用 xrotate 的默认值。
func (r RotationConfig) Policy() (xrotate.Policy, error) {
	opts := []xrotate.Option{
		xrotate.WithMaxSize(r.MaxSizeMB),
		xrotate.WithCompress(r.Compress),
	}
	if r.MaxBackups > 0 {
		opts = append(opts, xrotate.WithMaxBackups(r.MaxBackups))
	}
	if r.MaxAgeDays > 0 {
		opts = append(opts, xrotate.WithMaxAge(r.MaxAgeDays))
	}
	policy, err := xrotate.NewLumberjack(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: rotation: %w", ErrParseConfig, err)
	}
	return policy, nil
}
