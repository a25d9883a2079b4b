package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jlowzow/gsd-cron/internal/agent"
	"github.com/jlowzow/gsd-cron/internal/config"
	"github.com/jlowzow/gsd-cron/internal/display"
	"github.com/jlowzow/gsd-cron/internal/dispatcher"
)

var (
	runProject      string
	runMaxParallel  int
	runWindow       string
	runWeeklyBudget float64
	runAgentBinary  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one dispatch convergence loop now",
	Long: `Acquire the project lock, then repeatedly reparse ROADMAP.md, recompute
which phases are ready, and dispatch a bounded-parallel batch of them to
the agent until the project converges (no phase ready) or a batch makes
no forward progress (nothing verifies).

This is what the installed crontab entry invokes; running it by hand is
useful for a one-off dispatch or for testing a roadmap change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectPath, err := resolveProjectPath(runProject)
		if err != nil {
			return err
		}

		cfg, err := config.Load(projectPath, cfgFile)
		if err != nil {
			return err
		}

		maxParallel := cfg.Dispatcher.MaxParallel
		if cmd.Flags().Changed("max-parallel") {
			maxParallel = runMaxParallel
		}
		window := cfg.Dispatcher.Window
		if cmd.Flags().Changed("window") {
			window = runWindow
		}
		weeklyBudget := cfg.Dispatcher.WeeklyBudget
		if cmd.Flags().Changed("weekly-budget") {
			weeklyBudget = runWeeklyBudget
		}
		binary := cfg.Agent.Binary
		if cmd.Flags().Changed("agent-binary") {
			binary = runAgentBinary
		}

		disp := display.New()

		opts := dispatcher.Options{
			ProjectPath:  projectPath,
			MaxParallel:  maxParallel,
			Window:       window,
			WeeklyBudget: weeklyBudget,
			Agent:        agent.New(binary),
			Logger: func(format string, args ...any) {
				disp.Info("dispatcher", fmt.Sprintf(format, args...))
			},
		}

		return dispatcher.Run(context.Background(), opts)
	},
}

// resolveProjectPath defaults to the current directory when --project is
// unset, matching the teacher's os.Getwd()-fallback pattern in its own
// run command.
func resolveProjectPath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	return os.Getwd()
}

func init() {
	runCmd.Flags().StringVar(&runProject, "project", "", "project path (default: current directory)")
	runCmd.Flags().IntVar(&runMaxParallel, "max-parallel", 2, "max phases dispatched per batch")
	runCmd.Flags().StringVar(&runWindow, "window", "", "HH:MM-HH:MM running window; outside it, run is a no-op")
	runCmd.Flags().Float64Var(&runWeeklyBudget, "weekly-budget", 0, "USD weekly spend ceiling; 0 disables the budget gate")
	runCmd.Flags().StringVar(&runAgentBinary, "agent-binary", "", "agent binary name/path (default from config, else \"claude\")")
	rootCmd.AddCommand(runCmd)
}
