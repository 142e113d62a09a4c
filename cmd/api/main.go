package main

import (
	"os"
	_ "time/tzdata"

	"github.com/cmlabs-hris/attendance-scan-go/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
