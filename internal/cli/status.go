package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jlowzow/gsd-cron/internal/artifact"
	"github.com/jlowzow/gsd-cron/internal/crontab"
	"github.com/jlowzow/gsd-cron/internal/dependency"
	"github.com/jlowzow/gsd-cron/internal/display"
	"github.com/jlowzow/gsd-cron/internal/ledger"
	"github.com/jlowzow/gsd-cron/internal/readiness"
	"github.com/jlowzow/gsd-cron/internal/roadmap"
	"github.com/jlowzow/gsd-cron/internal/schedulability"
)

var statusProject string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show every phase's roadmap status and computed schedulability",
	RunE: func(cmd *cobra.Command, args []string) error {
		projectPath, err := resolveProjectPath(statusProject)
		if err != nil {
			return err
		}

		planningDir := filepath.Join(projectPath, ".planning")
		content, err := os.ReadFile(filepath.Join(planningDir, "ROADMAP.md"))
		if err != nil {
			return fmt.Errorf("reading ROADMAP.md: %w", err)
		}

		phases := roadmap.ParseRoadmap(string(content))
		dirs := artifact.DiscoverPhaseDirs(planningDir)
		schedulability.ClassifyAll(phases, dirs)

		disp := display.New()
		disp.PhaseTable(phases)

		ready := readiness.FindReady(phases, dirs)
		fmt.Println()
		if len(ready) == 0 {
			disp.Info("ready", "no phases currently ready to dispatch")
		} else {
			for _, e := range ready {
				disp.Info("ready", fmt.Sprintf("%s (%s)", e.Phase.Number.Display(), e.Action))
			}
		}

		for _, p := range phases {
			if p.Schedulability != roadmap.Schedulable {
				continue
			}
			if !dependency.IsMet(p, phases, dirs) {
				disp.Info("blocked", fmt.Sprintf("%s is waiting on its predecessor", p.Number.Display()))
			}
		}

		usage := ledger.Open(planningDir)
		fmt.Println()
		disp.Info("weekly spend", fmt.Sprintf("$%.2f", usage.WeeklySpend(time.Now())))
		disp.UsageEntries(usage.RecentEntries(5))

		if scheduled, err := crontab.ScheduledPhases(projectPath); err == nil {
			if scheduled {
				disp.Info("crontab", "dispatcher entry installed")
			} else {
				disp.Info("crontab", "no dispatcher entry installed")
			}
		}

		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusProject, "project", "", "project path (default: current directory)")
	rootCmd.AddCommand(statusCmd)
}
