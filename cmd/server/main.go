package main

import (
	"fmt"
	"os"

	"github.com/N0Z0My/xlsx-data-app/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
