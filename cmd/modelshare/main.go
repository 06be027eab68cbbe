// Command modelshare packages 3D model variants into shareable bundles, manages
// view presets and inspects published shares.
package main

import (
	"fmt"
	"os"
)

var exitFunc = os.Exit

func main() {
	exitFunc(execute())
}

func execute() int {
	a := newApp(os.Stdout)
	if err := a.execute(a.rootCmd(os.Stderr)); err != nil {
		fmt.Fprintln(os.Stderr, "modelshare:", err)
		return 1
	}
	return 0
}
