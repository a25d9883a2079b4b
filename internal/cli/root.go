// Package cli implements the gsd-cron command surface: run, install,
// status, and remove, wired to package dispatcher/crontab/schedule.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set via ldflags at build time.
	Version = "dev"
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "gsd-cron",
	Short: "Dispatches GSD roadmap phases to an autonomous code-generation agent",
	Long: `gsd-cron drives a multi-phase software project to completion by reading
its ROADMAP.md and on-disk phase artifacts, computing which phases are
ready to run under a dependency model, and launching an external agent
to plan/execute/verify each one in bounded parallel batches.

Core commands:
  run       Run one dispatch cycle now (reparse, reclassify, dispatch, repeat)
  install   Install a periodic crontab entry that invokes 'run'
  status    Show every phase's roadmap status and computed schedulability
  remove    Remove the installed crontab entry for a project

Typical workflow:
  1. gsd-cron status --project .     # see what's ready
  2. gsd-cron run --project .        # dispatch one convergence loop by hand
  3. gsd-cron install --project .    # hand it off to cron from here on`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .planning/gsd-cron.yaml)")
	rootCmd.SetVersionTemplate(fmt.Sprintf("gsd-cron version %s\n", Version))
}

func exitError(msg string) {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	os.Exit(1)
}
