// Package schedule builds a one-shot, time-staggered schedule from a
// roadmap snapshot: a supplement to the dynamic dispatcher for projects
// that prefer a single fixed cron entry per phase level over the
// readiness-loop's continuous reparse/reclassify cycle. Grounded in the
// original implementation's scheduler module, which this package keeps
// the shape of while dropping its float-keyed phase number for the
// project's (Int, Frac) representation.
package schedule

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jlowzow/gsd-cron/internal/roadmap"
)

// Slot is one scheduled time with the phases that become runnable at it.
type Slot struct {
	Time   TimeOfDay
	Phases []roadmap.Phase
}

// TimeOfDay is a wall-clock time within a single day, with wraparound.
type TimeOfDay struct {
	Hour, Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) minutesFromMidnight() int {
	return t.Hour*60 + t.Minute
}

func fromMinutes(total int) TimeOfDay {
	wrapped := ((total % (24 * 60)) + 24*60) % (24 * 60)
	return TimeOfDay{Hour: wrapped / 60, Minute: wrapped % 60}
}

// Skip records one phase the schedule omitted, and why.
type Skip struct {
	Phase  roadmap.Phase
	Reason string
}

// Schedule is the result of BuildSchedule: slots in ascending level order
// (times count up from the start time and wrap past midnight), plus every
// phase that could not be scheduled.
type Schedule struct {
	Slots   []Slot
	Skipped []Skip
}

// BuildSchedule assigns each schedulable phase a dependency level (0 for no
// predecessor, incrementing by one per dependency-chain step) and a slot
// time of start + level*interval: sequential integer phases chain off the
// previous integer phase, decimal phases share a level (run in parallel)
// one after their parent integer, and the next integer phase comes one
// level after those decimals. This is stricter than the dynamic model in
// package dependency, where an integer phase waits only for the previous
// integer phase. Non-schedulable phases are skipped with a reason instead
// of slotted.
func BuildSchedule(phases []roadmap.Phase, start TimeOfDay, intervalMinutes int) Schedule {
	var schedulable []roadmap.Phase
	var skipped []Skip

	for _, p := range phases {
		switch p.Schedulability {
		case roadmap.Schedulable:
			schedulable = append(schedulable, p)
		case roadmap.AlreadyComplete:
			skipped = append(skipped, Skip{p, "Already complete"})
		case roadmap.NeedsHuman:
			skipped = append(skipped, Skip{p, "Has checkpoint requiring human input (autonomous: false)"})
		case roadmap.NeedsPlanning:
			skipped = append(skipped, Skip{p, "Has context but no plans yet (needs planning)"})
		case roadmap.NeedsDiscussion:
			skipped = append(skipped, Skip{p, "No plans or context (needs discussion/planning)"})
		}
	}

	if len(schedulable) == 0 {
		return Schedule{Skipped: skipped}
	}

	levels := assignLevels(schedulable)

	maxLevel := 0
	for _, l := range levels {
		if l.level > maxLevel {
			maxLevel = l.level
		}
	}

	var slots []Slot
	for level := 0; level <= maxLevel; level++ {
		var atLevel []roadmap.Phase
		for _, l := range levels {
			if l.level == level {
				atLevel = append(atLevel, l.phase)
			}
		}
		if len(atLevel) == 0 {
			continue
		}
		slots = append(slots, Slot{
			Time:   fromMinutes(start.minutesFromMidnight() + level*intervalMinutes),
			Phases: atLevel,
		})
	}

	return Schedule{Slots: slots, Skipped: skipped}
}

type leveled struct {
	phase roadmap.Phase
	level int
}

// assignLevels walks the sorted schedulable phases, giving each integer
// phase the next level after the previous one and placing any decimal
// children of an integer phase together in the level right after it
// (so siblings 2.1 and 2.2 run in parallel). Decimals whose parent
// integer isn't itself schedulable are anchored to the closest
// schedulable integer phase at or below the parent, one level after it.
func assignLevels(phases []roadmap.Phase) []leveled {
	sorted := append([]roadmap.Phase(nil), phases...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number.Less(sorted[j].Number) })

	decimalsFor := make(map[int][]roadmap.Phase)
	for _, p := range sorted {
		if p.Number.IsDecimal() {
			parent := p.Number.ParentInteger()
			decimalsFor[parent] = append(decimalsFor[parent], p)
		}
	}

	var result []leveled
	assigned := make(map[roadmap.PhaseNumber]bool)
	currentLevel := 0

	var integers []roadmap.Phase
	for _, p := range sorted {
		if !p.Number.IsDecimal() {
			integers = append(integers, p)
		}
	}

	for i, p := range integers {
		if i > 0 {
			currentLevel++
		}
		result = append(result, leveled{p, currentLevel})
		assigned[p.Number] = true

		if decs, ok := decimalsFor[p.Number.ParentInteger()]; ok {
			currentLevel++
			for _, dp := range decs {
				result = append(result, leveled{dp, currentLevel})
				assigned[dp.Number] = true
			}
		}
	}

	// Orphan decimals: parent integer isn't in the schedulable set.
	for _, p := range sorted {
		if !p.Number.IsDecimal() || assigned[p.Number] {
			continue
		}
		parent := p.Number.ParentInteger()
		level := 0
		found := false
		for _, r := range result {
			if !r.phase.Number.IsDecimal() && r.phase.Number.Int <= parent {
				if r.level+1 > level {
					level = r.level + 1
				}
				found = true
			}
		}
		if !found {
			level = 0
		}
		result = append(result, leveled{p, level})
		assigned[p.Number] = true
	}

	return result
}

var (
	combinedInterval = regexp.MustCompile(`^(\d+)h(\d+)m$`)
	hoursInterval     = regexp.MustCompile(`^(\d+)h$`)
	minutesInterval   = regexp.MustCompile(`^(\d+)m$`)
	bareInterval      = regexp.MustCompile(`^(\d+)$`)
)

// ParseInterval parses an interval string like "2h", "30m", "1h30m", or a
// bare number of minutes ("90") into a minute count.
func ParseInterval(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))

	if m := combinedInterval.FindStringSubmatch(s); m != nil {
		hours, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		return hours*60 + mins, true
	}
	if m := hoursInterval.FindStringSubmatch(s); m != nil {
		hours, _ := strconv.Atoi(m[1])
		return hours * 60, true
	}
	if m := minutesInterval.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.Atoi(m[1])
		return mins, true
	}
	if m := bareInterval.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.Atoi(m[1])
		return mins, true
	}
	return 0, false
}

// ParseStartTime parses a wall-clock time string like "09:00" or "14:30".
func ParseStartTime(s string) (TimeOfDay, bool) {
	s = strings.TrimSpace(s)
	hourStr, minStr, ok := strings.Cut(s, ":")
	if !ok {
		return TimeOfDay{}, false
	}
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, false
	}
	minute, err := strconv.Atoi(minStr)
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, false
	}
	return TimeOfDay{Hour: hour, Minute: minute}, true
}
