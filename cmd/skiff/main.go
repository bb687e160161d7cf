package main

import (
	"os"

	"github.com/bracken-labs/skiff/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
