package main

import (
	"os"

	"flowdo/cmd/flowdo/cmd"
)

func main() {
	os.Exit(cmd.Execute(os.Args[1:], os.Stdout, os.Stderr, nil))
}
