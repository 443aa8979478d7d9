package main

import (
	"os"

	faultllvm "github.com/poppolopoppo/faultllvm"
)

/***************************************
 * Launch Command (program entry point)
 ***************************************/

func main() {
	if err := faultllvm.LaunchCommand("fault-llvm"); err != nil {
		os.Exit(1)
	}
}
