// Package roadmap parses a project's ROADMAP.md progress table into an
// ordered list of phases.
package roadmap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PhaseNumber is a rational phase identifier: an integer major part and an
// optional single fractional digit, e.g. "2" or "2.1".
//
// Represented as an explicit (Int, Frac) pair rather than a float so that
// equality and ordering never need an epsilon comparison.
type PhaseNumber struct {
	Int  int
	Frac int // 0 when the phase has no decimal component
}

// ParsePhaseNumber parses a decimal string like "2" or "2.1" into a PhaseNumber.
func ParsePhaseNumber(s string) (PhaseNumber, bool) {
	s = strings.TrimSpace(s)
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	i, err := strconv.Atoi(intPart)
	if err != nil || i < 0 {
		return PhaseNumber{}, false
	}
	if !hasFrac {
		return PhaseNumber{Int: i}, true
	}
	if len(fracPart) != 1 || fracPart[0] < '0' || fracPart[0] > '9' {
		return PhaseNumber{}, false
	}
	return PhaseNumber{Int: i, Frac: int(fracPart[0] - '0')}, true
}

// IsDecimal reports whether the phase number carries a fractional component.
func (n PhaseNumber) IsDecimal() bool {
	return n.Frac != 0
}

// ParentInteger returns the integer major part.
func (n PhaseNumber) ParentInteger() int {
	return n.Int
}

// Display renders the number the way it appears in roadmap text: "2", "2.1".
func (n PhaseNumber) Display() string {
	if n.IsDecimal() {
		return fmt.Sprintf("%d.%d", n.Int, n.Frac)
	}
	return strconv.Itoa(n.Int)
}

// Padded renders the number for directory/filename matching: integer part
// zero-padded to two digits, decimal preserved with its single digit.
func (n PhaseNumber) Padded() string {
	if n.IsDecimal() {
		return fmt.Sprintf("%02d.%d", n.Int, n.Frac)
	}
	return fmt.Sprintf("%02d", n.Int)
}

func (n PhaseNumber) String() string {
	return n.Display()
}

// Less reports whether n sorts strictly before other: numeric ascending,
// 2 < 2.1 < 2.2 < 3.
func (n PhaseNumber) Less(other PhaseNumber) bool {
	if n.Int != other.Int {
		return n.Int < other.Int
	}
	return n.Frac < other.Frac
}

// Equal reports exact equality of both components.
func (n PhaseNumber) Equal(other PhaseNumber) bool {
	return n.Int == other.Int && n.Frac == other.Frac
}

// PhaseStatus is the roadmap-declared state of a phase.
type PhaseStatus string

const (
	StatusNotStarted PhaseStatus = "not_started"
	StatusInProgress PhaseStatus = "in_progress"
	StatusComplete   PhaseStatus = "complete"
	StatusDeferred   PhaseStatus = "deferred"
)

// PhaseSchedulability is computed by the schedulability classifier; it lives
// here only as the field type on Phase — see package schedulability for the
// classification logic itself.
type PhaseSchedulability string

const (
	AlreadyComplete PhaseSchedulability = "already_complete"
	Schedulable     PhaseSchedulability = "schedulable"
	NeedsPlanning   PhaseSchedulability = "needs_planning"
	NeedsHuman      PhaseSchedulability = "needs_human"
	NeedsDiscussion PhaseSchedulability = "needs_discussion"
)

// Phase is one row of the roadmap progress table, plus classification state
// filled in by later passes. Phases are ephemeral: rebuilt from disk on
// every dispatcher iteration, never mutated in place across iterations.
type Phase struct {
	Number         PhaseNumber
	Name           string
	PlansDone      int
	PlansTotal     int
	Status         PhaseStatus
	CompletedDate  string // YYYY-MM-DD, empty if unknown
	Schedulability PhaseSchedulability
	DirPath        string // empty until schedulability.Classify fills it in
}

// rowPattern matches a progress-table row whose first cell is a phase
// number, in either "N[.k]. Name" or "Phase N[.k]: Name" form. The [.:]
// character class accepts both separators (spec's open question (b)).
var rowPattern = regexp.MustCompile(`(?m)^\|\s*(?:Phase\s+)?(\d+(?:\.\d+)?)[.:]\s+(.+?)\s*\|(.+)\|$`)

var plansCompleteFraction = regexp.MustCompile(`^(\d+)/(\d+)$`)
var plansCompletePercent = regexp.MustCompile(`^(\d+)%$`)
var embeddedDate = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
var bareDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseRoadmap extracts the ordered phase list from ROADMAP.md content. It
// never fails: malformed rows are skipped, malformed tables yield whatever
// parses cleanly.
func ParseRoadmap(content string) []Phase {
	var phases []Phase

	for _, m := range rowPattern.FindAllStringSubmatch(content, -1) {
		numStr, name, rest := m[1], strings.TrimSpace(m[2]), m[3]

		number, ok := ParsePhaseNumber(numStr)
		if !ok {
			continue
		}

		phase := Phase{
			Number: number,
			Name:   name,
			Status: StatusNotStarted,
		}

		for _, col := range strings.Split(rest, "|") {
			col = strings.TrimSpace(col)
			if col == "" {
				continue
			}
			if done, total, ok := parsePlansComplete(col); ok {
				phase.PlansDone, phase.PlansTotal = done, total
				continue
			}
			if status, ok := parseStatus(col); ok {
				phase.Status = status
				if phase.CompletedDate == "" {
					if d := embeddedDate.FindString(col); d != "" {
						phase.CompletedDate = d
					}
				}
				continue
			}
			if bareDate.MatchString(col) {
				phase.CompletedDate = col
			}
		}

		phases = append(phases, phase)
	}

	return phases
}

func parsePlansComplete(s string) (done, total int, ok bool) {
	if m := plansCompleteFraction.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		t, _ := strconv.Atoi(m[2])
		return d, t, true
	}
	if m := plansCompletePercent.FindStringSubmatch(s); m != nil {
		p, _ := strconv.Atoi(m[1])
		return p, 100, true
	}
	return 0, 0, false
}

func parseStatus(s string) (PhaseStatus, bool) {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch lower {
	case "not started", "pending":
		return StatusNotStarted, true
	case "in progress":
		return StatusInProgress, true
	case "complete":
		return StatusComplete, true
	case "deferred":
		return StatusDeferred, true
	}
	if strings.Contains(lower, "complete") {
		return StatusComplete, true
	}
	if strings.Contains(lower, "in progress") {
		return StatusInProgress, true
	}
	return "", false
}
