// Package dependency resolves a phase's predecessor and whether that
// predecessor is verified-or-complete.
package dependency

import (
	"sort"

	"github.com/jlowzow/gsd-cron/internal/artifact"
	"github.com/jlowzow/gsd-cron/internal/roadmap"
)

// IsMet reports whether phase's predecessor is satisfied: complete in the
// roadmap, or has a passing verification file on disk. Phases is the full
// parsed phase list (needed to find the decimal parent and the sorted
// integer sequence), and dirs is the padded-number→directory map.
func IsMet(phase roadmap.Phase, phases []roadmap.Phase, dirs map[string]string) bool {
	if phase.Number.IsDecimal() {
		parent, ok := findInteger(phases, phase.Number.ParentInteger())
		if !ok {
			// Unresolved parent: treat as blocked.
			return false
		}
		return satisfied(parent, dirs)
	}

	predecessor, ok := nearestLowerInteger(phases, phase.Number.Int)
	if !ok {
		// Smallest integer phase in the project: no predecessor.
		return true
	}
	return satisfied(predecessor, dirs)
}

func findInteger(phases []roadmap.Phase, n int) (roadmap.Phase, bool) {
	for _, p := range phases {
		if !p.Number.IsDecimal() && p.Number.Int == n {
			return p, true
		}
	}
	return roadmap.Phase{}, false
}

// nearestLowerInteger returns the greatest integer phase strictly less than
// n among the project's (deduplicated) integer phase numbers.
func nearestLowerInteger(phases []roadmap.Phase, n int) (roadmap.Phase, bool) {
	ints := make(map[int]roadmap.Phase)
	for _, p := range phases {
		if !p.Number.IsDecimal() {
			ints[p.Number.Int] = p
		}
	}

	var sorted []int
	for k := range ints {
		sorted = append(sorted, k)
	}
	sort.Ints(sorted)

	best, found := -1, false
	for _, k := range sorted {
		if k < n {
			best, found = k, true
		}
	}
	if !found {
		return roadmap.Phase{}, false
	}
	return ints[best], true
}

func satisfied(phase roadmap.Phase, dirs map[string]string) bool {
	if phase.Status == roadmap.StatusComplete {
		return true
	}
	dir, ok := dirs[phase.Number.Padded()]
	if !ok {
		return false
	}
	return artifact.HasPassingVerification(dir, phase.Number)
}
