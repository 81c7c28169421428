package xrotate_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/omeyang/xdiag/pkg/observability/xrotate"
)

func ExampleNewLumberjack() {
	dir, err := os.MkdirTemp("", "xrotate-example-*")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	policy, err := xrotate.NewLumberjack(
		xrotate.WithMaxSize(1),
		xrotate.WithMaxBackups(2),
		xrotate.WithCompress(false),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer policy.Close()

	path := filepath.Join(dir, "diag.log")
	_ = os.WriteFile(path, []byte("small file\n"), 0o600)

	rotated, err := policy.Apply(path)
	fmt.Println(rotated, err)
	// Output: false <nil>
}
