package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jlowzow/gsd-cron/internal/artifact"
	"github.com/jlowzow/gsd-cron/internal/crontab"
	"github.com/jlowzow/gsd-cron/internal/display"
	"github.com/jlowzow/gsd-cron/internal/roadmap"
	"github.com/jlowzow/gsd-cron/internal/schedulability"
	"github.com/jlowzow/gsd-cron/internal/schedule"
)

// installStaticSchedule computes a one-shot dependency-staggered schedule
// from the current roadmap and installs one crontab entry per slot, each
// invoking 'gsd-cron run' with --max-parallel set to the slot's phase count,
// capped at maxParallel. The installed run is not limited to the slot's
// phases: it dispatches whatever phases are ready when it fires.
func installStaticSchedule(projectPath, binaryPath string, maxParallel int, disp *display.Display) error {
	planningDir := filepath.Join(projectPath, ".planning")
	content, err := os.ReadFile(filepath.Join(planningDir, "ROADMAP.md"))
	if err != nil {
		return fmt.Errorf("reading ROADMAP.md: %w", err)
	}

	phases := roadmap.ParseRoadmap(string(content))
	if len(phases) == 0 {
		return fmt.Errorf("no phases found in ROADMAP.md")
	}

	dirs := artifact.DiscoverPhaseDirs(planningDir)
	schedulability.ClassifyAll(phases, dirs)

	start, ok := schedule.ParseStartTime(installStart)
	if !ok {
		return fmt.Errorf("invalid --start value %q, use HH:MM", installStart)
	}

	intervalMinutes, ok := schedule.ParseInterval(installEvery)
	if !ok {
		intervalMinutes = 120
	}

	sched := schedule.BuildSchedule(phases, start, intervalMinutes)

	if err := crontab.RemovePeriodic(projectPath); err != nil {
		return err
	}

	for _, slot := range sched.Slots {
		parallel := len(slot.Phases)
		if maxParallel > 0 && parallel > maxParallel {
			parallel = maxParallel
		}
		if err := crontab.InstallStaticSlot(crontab.StaticSlotOptions{
			ProjectPath: projectPath,
			BinaryPath:  binaryPath,
			SlotTime:    slot.Time.String(),
			MaxParallel: parallel,
		}); err != nil {
			return err
		}
		names := make([]string, 0, len(slot.Phases))
		for _, p := range slot.Phases {
			names = append(names, p.Number.Display())
		}
		disp.Info("slot", fmt.Sprintf("%s -> phase(s) %v", slot.Time, names))
	}

	for _, s := range sched.Skipped {
		disp.Warning(fmt.Sprintf("phase %s skipped: %s", s.Phase.Number.Display(), s.Reason))
	}

	disp.Success(fmt.Sprintf("installed static schedule, %d slot(s)", len(sched.Slots)))
	return nil
}
