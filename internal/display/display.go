// Package display provides unified terminal output for the gsd-cron CLI:
// run banners, timestamped status lines, and the phase status table.
package display

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/jlowzow/gsd-cron/internal/ledger"
	"github.com/jlowzow/gsd-cron/internal/roadmap"
)

// Display handles all CLI output with visual hierarchy.
type Display struct {
	theme     *Theme
	termWidth int
}

// New creates a Display using the default color theme.
func New() *Display {
	return NewWithOptions(false)
}

// NewWithOptions creates a Display with the given no-color setting.
func NewWithOptions(noColor bool) *Display {
	d := &Display{termWidth: getTerminalWidth()}
	if noColor {
		d.theme = NoColorTheme()
	} else {
		d.theme = DefaultTheme()
	}
	return d
}

func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 40 {
		return 80
	}
	if width > 120 {
		return 120
	}
	return width
}

// Box prints a boxed message with a title, e.g. the dispatcher run banner.
func (d *Display) Box(title string, lines ...string) {
	if len(lines) == 0 {
		return
	}

	width := d.termWidth - 2
	titleLen := len(title) + 4
	remainingWidth := width - titleLen
	if remainingWidth < 0 {
		remainingWidth = 0
	}

	topLine := BoxTopLeft + BoxHorizontal + " " + title + " " + strings.Repeat(BoxHorizontal, remainingWidth) + BoxTopRight
	fmt.Println(d.theme.Border(topLine))

	for _, line := range lines {
		padded := d.padRight(line, width-2)
		fmt.Println(d.theme.Border(BoxVertical) + " " + d.theme.Text(padded) + " " + d.theme.Border(BoxVertical))
	}

	bottomLine := BoxBottomLeft + strings.Repeat(BoxHorizontal, width) + BoxBottomRight
	fmt.Println(d.theme.Border(bottomLine))
}

// Status prints a single-line timestamped status message.
func (d *Display) Status(symbol, message string) {
	timestamp := time.Now().Format("[15:04:05]")
	fmt.Printf("%s %s %s\n", d.theme.Dim(timestamp), symbol, d.theme.Text(message))
}

func (d *Display) Success(message string) { d.Status(d.theme.Success(SymbolSuccess), message) }
func (d *Display) Error(message string)   { d.Status(d.theme.Error(SymbolError), message) }
func (d *Display) Warning(message string) { d.Status(d.theme.Warning(SymbolWarning), message) }
func (d *Display) Info(label, message string) {
	d.Status(d.theme.Info(label+":"), message)
}

// SectionBreak prints a horizontal separator.
func (d *Display) SectionBreak() {
	fmt.Println(d.theme.Separator(strings.Repeat(SectionBreak, d.termWidth)))
}

// RunHeader prints the banner for one dispatcher run.
func (d *Display) RunHeader(runID, projectPath string) {
	d.Box("GSD-CRON", fmt.Sprintf("run %s", runID), fmt.Sprintf("project: %s", projectPath))
}

// RunComplete prints the run-finished summary line.
func (d *Display) RunComplete(verifiedCount int) {
	d.Success(fmt.Sprintf("run finished, %d phase(s) verified", verifiedCount))
}

// PhaseTable renders the phase status table used by the "status" command:
// number, name, roadmap status, and computed schedulability, color-coded
// by schedulability so a scrolling terminal can be read at a glance.
func (d *Display) PhaseTable(phases []roadmap.Phase) {
	if len(phases) == 0 {
		fmt.Println(d.theme.Dim("(no phases found)"))
		return
	}

	nameWidth := len("NAME")
	for _, p := range phases {
		if len(p.Name) > nameWidth {
			nameWidth = len(p.Name)
		}
	}

	fmt.Printf("%-6s  %-*s  %-14s  %s\n", "PHASE", nameWidth, "NAME", "STATUS", "SCHEDULABILITY")
	for _, p := range phases {
		line := fmt.Sprintf("%-6s  %-*s  %-14s  %s",
			p.Number.Display(), nameWidth, p.Name, string(p.Status), d.colorizeSchedulability(p.Schedulability))
		fmt.Println(line)
	}
}

func (d *Display) colorizeSchedulability(s roadmap.PhaseSchedulability) string {
	label := string(s)
	switch s {
	case roadmap.AlreadyComplete:
		return d.theme.Success(label)
	case roadmap.Schedulable:
		return d.theme.Info(label)
	case roadmap.NeedsHuman, roadmap.NeedsDiscussion:
		return d.theme.Warning(label)
	case roadmap.NeedsPlanning:
		return d.theme.Dim(label)
	default:
		return label
	}
}

// UsageEntries prints a short list of recent ledger entries, e.g. the
// "status" command's recent-spend tail.
func (d *Display) UsageEntries(entries []ledger.UsageEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Println(d.theme.Dim("recent usage:"))
	for _, e := range entries {
		fmt.Printf("  %s  phase %-6s  %-8s  $%.4f\n", e.Date, e.Phase, e.Action, e.CostUSD)
	}
}

func (d *Display) padRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Truncate truncates text to max length with ellipsis.
func Truncate(s string, max int) string {
	s = CleanText(s)
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// CleanText removes newlines and collapses spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}
