package schedulability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jlowzow/gsd-cron/internal/roadmap"
)

func phaseNum(t *testing.T, s string) roadmap.PhaseNumber {
	t.Helper()
	n, ok := roadmap.ParsePhaseNumber(s)
	if !ok {
		t.Fatalf("bad phase number %q", s)
	}
	return n
}

func TestClassifyAlreadyComplete(t *testing.T) {
	p := roadmap.Phase{Number: phaseNum(t, "1"), Status: roadmap.StatusComplete}
	Classify(&p, nil)
	if p.Schedulability != roadmap.AlreadyComplete {
		t.Errorf("got %v", p.Schedulability)
	}
}

func TestClassifyDeferred(t *testing.T) {
	p := roadmap.Phase{Number: phaseNum(t, "1"), Status: roadmap.StatusDeferred}
	Classify(&p, nil)
	if p.Schedulability != roadmap.NeedsDiscussion {
		t.Errorf("got %v", p.Schedulability)
	}
}

func TestClassifyNoDirectory(t *testing.T) {
	p := roadmap.Phase{Number: phaseNum(t, "1"), Status: roadmap.StatusNotStarted}
	Classify(&p, map[string]string{})
	if p.Schedulability != roadmap.NeedsDiscussion {
		t.Errorf("got %v", p.Schedulability)
	}
}

func TestClassifySchedulable(t *testing.T) {
	dir := t.TempDir()
	n := phaseNum(t, "2")
	content := "---\nphase: 02-auth\nautonomous: true\n---\n"
	if err := os.WriteFile(filepath.Join(dir, "02-a-PLAN.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	p := roadmap.Phase{Number: n, Status: roadmap.StatusNotStarted}
	Classify(&p, map[string]string{"02": dir})
	if p.Schedulability != roadmap.Schedulable {
		t.Errorf("got %v", p.Schedulability)
	}
	if p.DirPath != dir {
		t.Errorf("DirPath not set")
	}
}

func TestClassifyNeedsHuman(t *testing.T) {
	dir := t.TempDir()
	n := phaseNum(t, "2")
	content := "---\nphase: 02-auth\nautonomous: false\n---\n"
	if err := os.WriteFile(filepath.Join(dir, "02-a-PLAN.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	p := roadmap.Phase{Number: n, Status: roadmap.StatusNotStarted}
	Classify(&p, map[string]string{"02": dir})
	if p.Schedulability != roadmap.NeedsHuman {
		t.Errorf("got %v", p.Schedulability)
	}
}

func TestClassifyNeedsPlanning(t *testing.T) {
	dir := t.TempDir()
	n := phaseNum(t, "2")
	if err := os.WriteFile(filepath.Join(dir, "02-CONTEXT.md"), []byte("# context"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := roadmap.Phase{Number: n, Status: roadmap.StatusNotStarted}
	Classify(&p, map[string]string{"02": dir})
	if p.Schedulability != roadmap.NeedsPlanning {
		t.Errorf("got %v", p.Schedulability)
	}
}

func TestClassifyNeedsDiscussionEmptyDir(t *testing.T) {
	dir := t.TempDir()
	n := phaseNum(t, "2")
	p := roadmap.Phase{Number: n, Status: roadmap.StatusNotStarted}
	Classify(&p, map[string]string{"02": dir})
	if p.Schedulability != roadmap.NeedsDiscussion {
		t.Errorf("got %v", p.Schedulability)
	}
}

// Every phase gets exactly one schedulability, never a zero value, for any
// reachable combination of status/directory-presence.
func TestClassifyTotality(t *testing.T) {
	statuses := []roadmap.PhaseStatus{
		roadmap.StatusNotStarted, roadmap.StatusInProgress,
		roadmap.StatusComplete, roadmap.StatusDeferred,
	}
	dirSets := []map[string]string{nil, {}, {"01": t.TempDir()}}

	for _, s := range statuses {
		for _, dirs := range dirSets {
			p := roadmap.Phase{Number: phaseNum(t, "1"), Status: s}
			Classify(&p, dirs)
			if p.Schedulability == "" {
				t.Errorf("status=%v dirs=%v produced empty schedulability", s, dirs)
			}
		}
	}
}
