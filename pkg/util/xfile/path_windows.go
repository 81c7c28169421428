//go:build windows

package xfile

import "os"

func expandPlatform(path string) string {
	return expandPercent(path, os.LookupEnv)
}
