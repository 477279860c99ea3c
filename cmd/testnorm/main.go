// Package main is the entry point for the testnorm CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/testnorm/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
