package main

import (
	"os"

	"github.com/braheezy/goadpcm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
