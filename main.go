package main

import (
	"os"

	"github.com/sepme/sepme/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
