// Package artifact discovers per-phase directories under .planning/phases/
// and answers the filesystem predicates the schedulability classifier and
// dependency resolver need.
package artifact

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jlowzow/gsd-cron/internal/roadmap"
)

// DiscoverPhaseDirs enumerates planningDir/phases/ once and maps each
// child directory's padded-number prefix (the part before its first "-")
// to its full path.
func DiscoverPhaseDirs(planningDir string) map[string]string {
	dirs := make(map[string]string)
	phasesDir := filepath.Join(planningDir, "phases")

	entries, err := os.ReadDir(phasesDir)
	if err != nil {
		return dirs
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		prefix, _, found := strings.Cut(name, "-")
		if !found {
			prefix = name
		}
		dirs[prefix] = filepath.Join(phasesDir, name)
	}
	return dirs
}

// HasPlanFiles reports whether dir contains any <padded>-*-PLAN.md file.
func HasPlanFiles(dir string, number roadmap.PhaseNumber) bool {
	return planFile(dir, number) != ""
}

// planFile returns the path of the first matching plan file, or "".
func planFile(dir string, number roadmap.PhaseNumber) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	padded := number.Padded()
	for _, e := range entries {
		name := e.Name()
		if matchesPlanPattern(name, padded) {
			return filepath.Join(dir, name)
		}
	}
	return ""
}

func matchesPlanPattern(filename, paddedPhase string) bool {
	return strings.HasPrefix(filename, paddedPhase+"-") && strings.HasSuffix(filename, "-PLAN.md")
}

// allPlanFiles returns every matching plan file path in dir.
func allPlanFiles(dir string, number roadmap.PhaseNumber) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	padded := number.Padded()
	var found []string
	for _, e := range entries {
		if matchesPlanPattern(e.Name(), padded) {
			found = append(found, filepath.Join(dir, e.Name()))
		}
	}
	return found
}

// HasContextFile reports whether dir contains exactly <padded>-CONTEXT.md.
func HasContextFile(dir string, number roadmap.PhaseNumber) bool {
	_, err := os.Stat(filepath.Join(dir, number.Padded()+"-CONTEXT.md"))
	return err == nil
}

// HasNonAutonomousPlan reports whether any plan file in dir declares
// autonomous: false in its frontmatter.
func HasNonAutonomousPlan(dir string, number roadmap.PhaseNumber) bool {
	for _, path := range allPlanFiles(dir, number) {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if isAutonomousFalse(string(content)) {
			return true
		}
	}
	return false
}

// HasPassingVerification reports whether dir's <padded>-VERIFICATION.md
// exists and declares status: passed.
func HasPassingVerification(dir string, number roadmap.PhaseNumber) bool {
	path := filepath.Join(dir, number.Padded()+"-VERIFICATION.md")
	content, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	status, ok := ParseVerificationStatus(string(content))
	return ok && status == "passed"
}

var frontmatterPattern = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---`)

// frontmatterFields is the subset of a plan/verification file's YAML
// frontmatter the classifier and dependency resolver care about.
type frontmatterFields struct {
	Autonomous *bool  `yaml:"autonomous"`
	Status     string `yaml:"status"`
}

// frontmatter extracts and parses the YAML between the opening and closing
// --- delimiters of a markdown frontmatter block. A missing block, or one
// that fails to parse as YAML, is reported as ok=false rather than an
// error: malformed artifacts are treated as if the field were simply
// absent, never as a fatal condition.
func frontmatter(content string) (frontmatterFields, bool) {
	m := frontmatterPattern.FindStringSubmatch(content)
	if m == nil {
		return frontmatterFields{}, false
	}
	var fm frontmatterFields
	if err := yaml.Unmarshal([]byte(m[1]), &fm); err != nil {
		return frontmatterFields{}, false
	}
	return fm, true
}

func isAutonomousFalse(content string) bool {
	fm, ok := frontmatter(content)
	return ok && fm.Autonomous != nil && !*fm.Autonomous
}

// ParseVerificationStatus reads the status: <word> key out of a
// verification file's frontmatter. Missing file, missing frontmatter, or
// missing key are all reported as ok=false — never as an error.
func ParseVerificationStatus(content string) (status string, ok bool) {
	fm, ok := frontmatter(content)
	if !ok || fm.Status == "" {
		return "", false
	}
	return strings.TrimSpace(fm.Status), true
}
