package main

import (
	"os"

	"github.com/scribelab/mediascribe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
