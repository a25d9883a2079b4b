// Package schedulability tags each phase with its PhaseSchedulability
// based on roadmap status and the artifact predicates.
package schedulability

import (
	"github.com/jlowzow/gsd-cron/internal/artifact"
	"github.com/jlowzow/gsd-cron/internal/roadmap"
)

// Classify computes the schedulability of phase given the padded-number to
// directory-path map built by the artifact inspector. It mutates phase's
// Schedulability and DirPath fields and is a pure function of its inputs.
func Classify(phase *roadmap.Phase, dirs map[string]string) {
	if phase.Status == roadmap.StatusComplete {
		phase.Schedulability = roadmap.AlreadyComplete
		return
	}

	if phase.Status == roadmap.StatusDeferred {
		phase.Schedulability = roadmap.NeedsDiscussion
		return
	}

	dir, ok := dirs[phase.Number.Padded()]
	if !ok {
		phase.Schedulability = roadmap.NeedsDiscussion
		return
	}
	phase.DirPath = dir

	hasPlans := artifact.HasPlanFiles(dir, phase.Number)
	hasContext := artifact.HasContextFile(dir, phase.Number)

	switch {
	case hasPlans:
		if artifact.HasNonAutonomousPlan(dir, phase.Number) {
			phase.Schedulability = roadmap.NeedsHuman
		} else {
			phase.Schedulability = roadmap.Schedulable
		}
	case hasContext:
		phase.Schedulability = roadmap.NeedsPlanning
	default:
		phase.Schedulability = roadmap.NeedsDiscussion
	}
}

// ClassifyAll classifies every phase in place.
func ClassifyAll(phases []roadmap.Phase, dirs map[string]string) {
	for i := range phases {
		Classify(&phases[i], dirs)
	}
}
