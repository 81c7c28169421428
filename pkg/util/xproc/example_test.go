package xproc_test

import (
	"fmt"

	"github.com/omeyang/xdiag/pkg/util/xproc"
)

func ExampleSanitize() {
	fmt.Println(xproc.Sanitize("my agent.exe"))
	// Output:
	// my_agent
}

func ExampleFileSafeName() {
	name := xproc.FileSafeName("unknown")
	fmt.Println(name != "")
	// Output:
	// true
}
