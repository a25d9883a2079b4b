package dispatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jlowzow/gsd-cron/internal/agent"
	"github.com/jlowzow/gsd-cron/internal/artifact"
	"github.com/jlowzow/gsd-cron/internal/ledger"
	"github.com/jlowzow/gsd-cron/internal/readiness"
)

// runLifecycle runs the plan(optional)/execute/verify sequence for one
// phase, appending output to its per-phase log. It never returns an error:
// agent and filesystem failures are folded into an Outcome per spec §7's
// per-phase (recovered) error class.
func runLifecycle(ctx context.Context, opts Options, runID, planningDir string, usage *ledger.Ledger, entry readiness.Entry) Outcome {
	display := entry.Phase.Number.Display()
	logPath := filepath.Join(planningDir, "logs", fmt.Sprintf("phase-%s.log", display))

	log := func(format string, args ...any) {
		appendLog(logPath, fmt.Sprintf(format, args...))
	}
	log("[%s] phase %s lifecycle starting, action=%s", runID, display, entry.Action)

	if entry.Action == readiness.PlanAndExecute {
		result, err := invoke(ctx, opts, fmt.Sprintf("/gsd:plan-phase %s", display))
		log("[%s] plan: exit=%d cost=$%.4f err=%v\n%s", runID, result.ExitCode, result.CostUSD, err, result.Output)
		usage.RecordCost(display, "plan", result.CostUSD)
		if err != nil || result.ExitCode != 0 {
			return ExecutionFailed
		}
	}

	executeResult, err := invoke(ctx, opts, fmt.Sprintf("/gsd:execute-phase %s", display))
	log("[%s] execute: exit=%d cost=$%.4f err=%v\n%s", runID, executeResult.ExitCode, executeResult.CostUSD, err, executeResult.Output)
	usage.RecordCost(display, "execute", executeResult.CostUSD)
	if err != nil || executeResult.ExitCode != 0 {
		return ExecutionFailed
	}

	verifyResult, err := invoke(ctx, opts, fmt.Sprintf("/gsd:verify-work %s", display))
	log("[%s] verify: exit=%d cost=$%.4f err=%v\n%s", runID, verifyResult.ExitCode, verifyResult.CostUSD, err, verifyResult.Output)
	usage.RecordCost(display, "verify", verifyResult.CostUSD)
	if err != nil || verifyResult.ExitCode != 0 {
		return VerificationFailed
	}

	dirs := artifact.DiscoverPhaseDirs(planningDir)
	if dir, ok := dirs[entry.Phase.Number.Padded()]; ok && artifact.HasPassingVerification(dir, entry.Phase.Number) {
		log("[%s] phase %s verified", runID, display)
		return Verified
	}
	log("[%s] phase %s verification did not pass", runID, display)
	return VerificationFailed
}

func invoke(ctx context.Context, opts Options, prompt string) (agent.Result, error) {
	return opts.Agent.Run(ctx, prompt, opts.ProjectPath)
}

func appendLog(path string, line string) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "[%s] %s\n", time.Now().Format(time.RFC3339), line)
}
