// Command unmake is the CLI for the unmake lifecycle engine.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/unmake/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
