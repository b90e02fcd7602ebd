package main

import (
	"os"

	"github.com/earlybird-app/earlybird/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
