package xdiag

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/omeyang/xdiag/pkg/util/xproc"
)

const (
	// modulePath 本模块路径，用于从构建信息中查找版本
	modulePath = "github.com/omeyang/xdiag"

	// unknownVersion 无法获取构建信息时的版本
	unknownVersion = "(devel)"

	// defaultProcessName 无法获取进程名时使用
	defaultProcessName = "xdiag"

	fileNameTimeLayout = "20060102_150405"
)

// DefaultFileName 生成默认的诊断日志文件名
//
// 格式为 <进程名>_<UTC 启动时间>_<pid>_<随机后缀>.log，
// 随机后缀保证同一秒内启动的同名进程也不会写同一个文件。
func DefaultFileName() string {
	return fmt.Sprintf("%s_%s_%d_%s.log",
		xproc.FileSafeName(defaultProcessName),
		time.Now().UTC().Format(fileNameTimeLayout),
		xproc.ProcessID(),
		uuid.NewString()[:8],
	)
}

// SDKVersion 返回写入文件头的版本
//
// 优先取主模块版本；作为依赖被引入时取依赖版本（考虑 replace）。
func SDKVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return unknownVersion
	}
	if info.Main.Path == modulePath && info.Main.Version != "" {
		return info.Main.Version
	}
	for _, dep := range info.Deps {
		if dep.Path != modulePath {
			continue
		}
		if dep.Replace != nil && dep.Replace.Version != "" {
			return dep.Replace.Version
		}
		if dep.Version != "" {
			return dep.Version
		}
	}
	return unknownVersion
}
