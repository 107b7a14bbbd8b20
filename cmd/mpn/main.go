// Command mpn scores psychometric scenarios as music.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/mpn/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
