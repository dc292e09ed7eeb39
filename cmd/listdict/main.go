package main

import (
	"os"

	"github.com/catatsuy/listdict/internal/cli"
	"github.com/catatsuy/listdict/internal/term"
)

func main() {
	cl := cli.NewCLI(os.Stdout, os.Stderr, os.Stdin, term.IsTerminal(os.Stderr))
	os.Exit(cl.Run(os.Args))
}
