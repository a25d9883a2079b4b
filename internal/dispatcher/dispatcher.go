// Package dispatcher drives the main readiness loop: reparse, reclassify,
// find ready phases, execute a bounded batch in parallel, and repeat until
// the project converges or no further progress is possible.
package dispatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jlowzow/gsd-cron/internal/agent"
	"github.com/jlowzow/gsd-cron/internal/artifact"
	"github.com/jlowzow/gsd-cron/internal/ledger"
	"github.com/jlowzow/gsd-cron/internal/lock"
	"github.com/jlowzow/gsd-cron/internal/readiness"
	"github.com/jlowzow/gsd-cron/internal/roadmap"
	"github.com/jlowzow/gsd-cron/internal/schedulability"
	"github.com/jlowzow/gsd-cron/internal/window"
)

// Options configures one Run invocation.
type Options struct {
	ProjectPath  string
	MaxParallel  int
	Window       string // "" disables the window check
	WeeklyBudget float64 // 0 disables the budget gate
	Agent        agent.Agent
	Logger       func(format string, args ...any) // dispatcher.log sink; nil discards
}

// Outcome is the terminal state of one phase dispatch within a batch.
type Outcome string

const (
	Verified          Outcome = "verified"
	VerificationFailed Outcome = "verification_failed"
	ExecutionFailed    Outcome = "execution_failed"
)

// BatchResult pairs a dispatched phase with its outcome.
type BatchResult struct {
	Phase   roadmap.Phase
	Action  readiness.PhaseAction
	Outcome Outcome
}

func (o Options) logf(format string, args ...any) {
	if o.Logger != nil {
		o.Logger(format, args...)
	}
}

// Run executes the full dispatcher sequence described in spec §4.6: window
// check, budget check, lock acquisition, then the main loop, with the lock
// released on every exit path.
func Run(ctx context.Context, opts Options) error {
	now := time.Now()

	if opts.Window != "" && !window.WithinString(opts.Window, now) {
		opts.logf("outside running window %s, exiting", opts.Window)
		return nil
	}

	planningDir := filepath.Join(opts.ProjectPath, ".planning")
	usage := ledger.Open(planningDir)

	if opts.WeeklyBudget > 0 && usage.IsBudgetExhausted(opts.WeeklyBudget, now) {
		opts.logf("weekly budget exhausted, exiting")
		return nil
	}

	l, err := lock.Acquire(planningDir)
	if err != nil {
		opts.logf("lock unavailable: %v, exiting", err)
		return nil
	}
	defer l.Release()

	if err := os.MkdirAll(filepath.Join(planningDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("creating logs directory: %w", err)
	}

	runID := uuid.New().String()
	opts.logf("[%s] dispatcher run starting for %s", runID, opts.ProjectPath)

	maxParallel := opts.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 2
	}

	for {
		if opts.WeeklyBudget > 0 && usage.IsBudgetExhausted(opts.WeeklyBudget, time.Now()) {
			opts.logf("[%s] weekly budget exhausted mid-loop, halting", runID)
			break
		}

		roadmapPath := filepath.Join(planningDir, "ROADMAP.md")
		content, err := os.ReadFile(roadmapPath)
		if err != nil {
			return fmt.Errorf("reading ROADMAP.md: %w", err)
		}

		phases := roadmap.ParseRoadmap(string(content))
		if len(phases) == 0 {
			return fmt.Errorf("no phases found in ROADMAP.md")
		}

		dirs := artifact.DiscoverPhaseDirs(planningDir)
		schedulability.ClassifyAll(phases, dirs)

		ready := readiness.FindReady(phases, dirs)
		if len(ready) == 0 {
			opts.logf("[%s] no ready phases, project complete or blocked", runID)
			break
		}

		batch := readiness.Take(ready, maxParallel)
		opts.logf("[%s] dispatching batch of %d phase(s)", runID, len(batch))

		results := executeBatch(ctx, opts, runID, planningDir, usage, batch)

		anyVerified := false
		for _, r := range results {
			opts.logf("[%s] phase %s outcome: %s", runID, r.Phase.Number.Display(), r.Outcome)
			if r.Outcome == Verified {
				anyVerified = true
			}
		}

		if !anyVerified {
			opts.logf("[%s] no phase verified in batch, halting (no forward progress)", runID)
			break
		}
	}

	opts.logf("[%s] dispatcher run finished", runID)
	return nil
}

// executeBatch runs one worker per entry, bounded by len(batch) (batch is
// already truncated to max_parallel by readiness.Take before this is
// called), and waits for all of them before returning — the strict
// cross-batch ordering barrier spec §5 requires.
func executeBatch(ctx context.Context, opts Options, runID, planningDir string, usage *ledger.Ledger, batch []readiness.Entry) []BatchResult {
	results := make([]BatchResult, len(batch))
	var wg sync.WaitGroup

	for i, entry := range batch {
		wg.Add(1)
		go func(i int, entry readiness.Entry) {
			defer wg.Done()
			outcome := runLifecycle(ctx, opts, runID, planningDir, usage, entry)
			results[i] = BatchResult{Phase: entry.Phase, Action: entry.Action, Outcome: outcome}
		}(i, entry)
	}

	wg.Wait()
	return results
}
