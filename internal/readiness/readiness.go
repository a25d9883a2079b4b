// Package readiness computes the sorted set of phases ready to dispatch
// right now.
package readiness

import (
	"sort"

	"github.com/jlowzow/gsd-cron/internal/artifact"
	"github.com/jlowzow/gsd-cron/internal/dependency"
	"github.com/jlowzow/gsd-cron/internal/roadmap"
)

// PhaseAction is the work a ready phase still needs before verification.
type PhaseAction string

const (
	Execute        PhaseAction = "execute"
	PlanAndExecute PhaseAction = "plan_and_execute"
)

// Entry pairs a phase with the action its readiness implies.
type Entry struct {
	Phase  roadmap.Phase
	Action PhaseAction
}

// FindReady returns entries for every phase that is ready to dispatch,
// sorted ascending by phase number — lowest numbered phases first.
func FindReady(phases []roadmap.Phase, dirs map[string]string) []Entry {
	var ready []Entry

	for _, p := range phases {
		if p.Schedulability == roadmap.AlreadyComplete {
			continue
		}
		if dir, ok := dirs[p.Number.Padded()]; ok && artifact.HasPassingVerification(dir, p.Number) {
			continue
		}
		if p.Schedulability == roadmap.NeedsHuman || p.Schedulability == roadmap.NeedsDiscussion {
			continue
		}
		if !dependency.IsMet(p, phases, dirs) {
			continue
		}

		var action PhaseAction
		switch p.Schedulability {
		case roadmap.Schedulable:
			action = Execute
		case roadmap.NeedsPlanning:
			action = PlanAndExecute
		default:
			continue
		}

		ready = append(ready, Entry{Phase: p, Action: action})
	}

	sort.SliceStable(ready, func(i, j int) bool {
		return ready[i].Phase.Number.Less(ready[j].Phase.Number)
	})

	return ready
}

// Take returns the first n entries of a sorted ready set (or all of them if
// there are fewer than n) — the batch a dispatcher iteration will execute.
func Take(ready []Entry, n int) []Entry {
	if n <= 0 || n >= len(ready) {
		return ready
	}
	return ready[:n]
}
