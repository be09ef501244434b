package main

import (
	"os"

	"github.com/docpatch/docpatch/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
