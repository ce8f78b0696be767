package main

import (
	"os"

	"github.com/vogtb/go-spreadsheet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
