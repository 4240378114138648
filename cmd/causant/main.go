package main

import (
	"fmt"
	"os"

	"github.com/roach88/causant/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "causant:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
