package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlowzow/gsd-cron/internal/crontab"
	"github.com/jlowzow/gsd-cron/internal/display"
)

var removeProject string

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the installed crontab entry for a project",
	Long: `Removes every crontab line gsd-cron installed for this project,
whether installed via the default periodic schedule or --static. Safe to
run when nothing is installed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectPath, err := resolveProjectPath(removeProject)
		if err != nil {
			return err
		}

		if err := crontab.RemovePeriodic(projectPath); err != nil {
			return err
		}

		display.New().Success(fmt.Sprintf("removed crontab entries for %s", projectPath))
		return nil
	},
}

func init() {
	removeCmd.Flags().StringVar(&removeProject, "project", "", "project path (default: current directory)")
	rootCmd.AddCommand(removeCmd)
}
