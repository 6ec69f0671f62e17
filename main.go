package main

import (
	"os"

	"github.com/SHivit700/InteLect/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
