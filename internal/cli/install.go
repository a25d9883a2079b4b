package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlowzow/gsd-cron/internal/config"
	"github.com/jlowzow/gsd-cron/internal/crontab"
	"github.com/jlowzow/gsd-cron/internal/display"
	"github.com/jlowzow/gsd-cron/internal/schedule"
	"github.com/jlowzow/gsd-cron/internal/utils"
)

var (
	installProject      string
	installEvery        string
	installMaxParallel  int
	installWindow       string
	installWeeklyBudget float64
	installStatic       bool
	installStart        string
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install a periodic crontab entry for this project",
	Long: `By default, installs a single tagged crontab line that invokes
'gsd-cron run' on an interval (the dynamic dispatcher). With --static, it
instead computes a one-shot, dependency-staggered schedule from the
current roadmap and installs one crontab line per time slot, useful for
a fixed set of phases that won't need reclassification between runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectPath, err := resolveProjectPath(installProject)
		if err != nil {
			return err
		}

		cfg, err := config.Load(projectPath, cfgFile)
		if err != nil {
			return err
		}

		binaryPath, err := utils.ResolveSelfBinary()
		if err != nil {
			return err
		}

		maxParallel := cfg.Dispatcher.MaxParallel
		if cmd.Flags().Changed("max-parallel") {
			maxParallel = installMaxParallel
		}

		disp := display.New()

		if installStatic {
			return installStaticSchedule(projectPath, binaryPath, maxParallel, disp)
		}

		intervalMinutes := cfg.Dispatcher.IntervalMinutes
		if installEvery != "" {
			minutes, ok := schedule.ParseInterval(installEvery)
			if !ok {
				return fmt.Errorf("invalid --every value %q", installEvery)
			}
			intervalMinutes = minutes
		}

		window := cfg.Dispatcher.Window
		if cmd.Flags().Changed("window") {
			window = installWindow
		}
		weeklyBudget := cfg.Dispatcher.WeeklyBudget
		if cmd.Flags().Changed("weekly-budget") {
			weeklyBudget = installWeeklyBudget
		}

		if err := crontab.InstallPeriodic(crontab.InstallOptions{
			ProjectPath:     projectPath,
			BinaryPath:      binaryPath,
			MaxParallel:     maxParallel,
			IntervalMinutes: intervalMinutes,
			Window:          window,
			WeeklyBudget:    weeklyBudget,
		}); err != nil {
			return err
		}

		disp.Success(fmt.Sprintf("installed dispatcher entry, every %d minutes", intervalMinutes))
		return nil
	},
}

func init() {
	installCmd.Flags().StringVar(&installProject, "project", "", "project path (default: current directory)")
	installCmd.Flags().StringVar(&installEvery, "every", "", "dispatch interval, e.g. 30m, 2h (default from config; with --static, the slot spacing, default 2h)")
	installCmd.Flags().IntVar(&installMaxParallel, "max-parallel", 2, "max phases dispatched per batch")
	installCmd.Flags().StringVar(&installWindow, "window", "", "HH:MM-HH:MM running window")
	installCmd.Flags().Float64Var(&installWeeklyBudget, "weekly-budget", 0, "USD weekly spend ceiling")
	installCmd.Flags().BoolVar(&installStatic, "static", false, "install a one-shot staggered schedule instead of the dynamic loop")
	installCmd.Flags().StringVar(&installStart, "start", "09:00", "first slot start time for --static, HH:MM")
	rootCmd.AddCommand(installCmd)
}
