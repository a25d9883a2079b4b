package main

import (
	"os"

	"github.com/jlowzow/gsd-cron/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
