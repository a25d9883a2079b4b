package schedule

import (
	"testing"

	"github.com/jlowzow/gsd-cron/internal/roadmap"
)

func makePhase(display string, sched roadmap.PhaseSchedulability) roadmap.Phase {
	n, _ := roadmap.ParsePhaseNumber(display)
	return roadmap.Phase{Number: n, Name: display, Schedulability: sched}
}

func TestSimpleSequentialSchedule(t *testing.T) {
	phases := []roadmap.Phase{
		{Number: roadmap.PhaseNumber{Int: 1}, Name: "Foundation", Schedulability: roadmap.Schedulable},
		{Number: roadmap.PhaseNumber{Int: 2}, Name: "Auth", Schedulability: roadmap.Schedulable},
		{Number: roadmap.PhaseNumber{Int: 3}, Name: "API", Schedulability: roadmap.Schedulable},
	}

	start := TimeOfDay{Hour: 9}
	sched := BuildSchedule(phases, start, 120)

	if len(sched.Slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(sched.Slots))
	}
	if sched.Slots[0].Time != (TimeOfDay{Hour: 9}) || sched.Slots[0].Phases[0].Name != "Foundation" {
		t.Errorf("slot 0 mismatch: %+v", sched.Slots[0])
	}
	if sched.Slots[1].Time != (TimeOfDay{Hour: 11}) || sched.Slots[1].Phases[0].Name != "Auth" {
		t.Errorf("slot 1 mismatch: %+v", sched.Slots[1])
	}
	if sched.Slots[2].Time != (TimeOfDay{Hour: 13}) || sched.Slots[2].Phases[0].Name != "API" {
		t.Errorf("slot 2 mismatch: %+v", sched.Slots[2])
	}
}

func TestParallelDecimalPhases(t *testing.T) {
	phases := []roadmap.Phase{
		makePhase("1", roadmap.Schedulable),
		makePhase("2", roadmap.Schedulable),
		makePhase("2.1", roadmap.Schedulable),
		makePhase("2.2", roadmap.Schedulable),
		makePhase("3", roadmap.Schedulable),
	}

	start := TimeOfDay{Hour: 9}
	sched := BuildSchedule(phases, start, 120)

	if len(sched.Slots) != 4 {
		t.Fatalf("expected 4 slots, got %d: %+v", len(sched.Slots), sched.Slots)
	}

	if len(sched.Slots[0].Phases) != 1 || sched.Slots[0].Phases[0].Number.Display() != "1" {
		t.Errorf("slot 0: %+v", sched.Slots[0])
	}
	if len(sched.Slots[1].Phases) != 1 || sched.Slots[1].Phases[0].Number.Display() != "2" {
		t.Errorf("slot 1: %+v", sched.Slots[1])
	}

	if len(sched.Slots[2].Phases) != 2 {
		t.Fatalf("expected 2 parallel phases in slot 2, got %d", len(sched.Slots[2].Phases))
	}
	names := map[string]bool{}
	for _, p := range sched.Slots[2].Phases {
		names[p.Number.Display()] = true
	}
	if !names["2.1"] || !names["2.2"] {
		t.Errorf("expected 2.1 and 2.2 in slot 2, got %+v", sched.Slots[2].Phases)
	}

	if len(sched.Slots[3].Phases) != 1 || sched.Slots[3].Phases[0].Number.Display() != "3" {
		t.Errorf("slot 3: %+v", sched.Slots[3])
	}
}

func TestSkipsCompleteAndHumanPhases(t *testing.T) {
	phases := []roadmap.Phase{
		makePhase("1", roadmap.AlreadyComplete),
		{Number: roadmap.PhaseNumber{Int: 2}, Name: "Auth", Schedulability: roadmap.Schedulable},
		{Number: roadmap.PhaseNumber{Int: 3}, Name: "Manual", Schedulability: roadmap.NeedsHuman},
		{Number: roadmap.PhaseNumber{Int: 4}, Name: "API", Schedulability: roadmap.Schedulable},
	}

	sched := BuildSchedule(phases, TimeOfDay{Hour: 9}, 120)

	if len(sched.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(sched.Slots))
	}
	if sched.Slots[0].Phases[0].Name != "Auth" || sched.Slots[1].Phases[0].Name != "API" {
		t.Errorf("unexpected slot phases: %+v", sched.Slots)
	}
	if len(sched.Skipped) != 2 {
		t.Errorf("expected 2 skipped, got %d", len(sched.Skipped))
	}
}

func TestScheduleWithOnlyCompletePhases(t *testing.T) {
	phases := []roadmap.Phase{makePhase("1", roadmap.AlreadyComplete)}
	sched := BuildSchedule(phases, TimeOfDay{Hour: 9}, 120)

	if len(sched.Slots) != 0 {
		t.Errorf("expected 0 slots, got %d", len(sched.Slots))
	}
	if len(sched.Skipped) != 1 {
		t.Errorf("expected 1 skipped, got %d", len(sched.Skipped))
	}
}

func TestParseIntervalVariants(t *testing.T) {
	cases := map[string]int{"2h": 120, "30m": 30, "1h30m": 90, "90": 90}
	for in, want := range cases {
		got, ok := ParseInterval(in)
		if !ok || got != want {
			t.Errorf("ParseInterval(%q) = (%d, %v), want %d", in, got, ok, want)
		}
	}
	if _, ok := ParseInterval("abc"); ok {
		t.Errorf("expected ParseInterval(%q) to fail", "abc")
	}
}

func TestParseStartTime(t *testing.T) {
	tm, ok := ParseStartTime("09:00")
	if !ok || tm != (TimeOfDay{Hour: 9}) {
		t.Errorf("ParseStartTime(09:00) = %+v, %v", tm, ok)
	}
	tm, ok = ParseStartTime("14:30")
	if !ok || tm != (TimeOfDay{Hour: 14, Minute: 30}) {
		t.Errorf("ParseStartTime(14:30) = %+v, %v", tm, ok)
	}
	if _, ok := ParseStartTime("invalid"); ok {
		t.Errorf("expected ParseStartTime(invalid) to fail")
	}
}

func TestTimeWrapping(t *testing.T) {
	start := TimeOfDay{Hour: 23}
	sched := BuildSchedule([]roadmap.Phase{
		makePhase("1", roadmap.Schedulable),
		makePhase("2", roadmap.Schedulable),
	}, start, 120)

	if len(sched.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(sched.Slots))
	}
	if sched.Slots[1].Time != (TimeOfDay{Hour: 1}) {
		t.Errorf("expected wraparound to 01:00, got %s", sched.Slots[1].Time)
	}
}
