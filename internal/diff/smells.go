package diff

import (
	"regexp"

	"commitforge/internal/models"
)

// SmellDetector is the contract for lint-style detection over the added
// lines of one file. Implementations must be pure: same input, same output.
type SmellDetector func(path string, added []models.LineChange) []models.CodeSmell

type smellRule struct {
	rule        string
	description string
	match       *regexp.Regexp
}

var smellRules = []smellRule{
	{"debug-print", "leftover debug print", regexp.MustCompile(`console\.log\(|fmt\.Println\(|System\.out\.println\(|\bprint\(`)},
	{"todo-marker", "unresolved TODO/FIXME marker", regexp.MustCompile(`\b(TODO|FIXME|XXX)\b`)},
	{"conflict-marker", "merge conflict marker committed", regexp.MustCompile(`^(<{7}|={7}|>{7})`)},
	{"swallowed-error", "error silently discarded", regexp.MustCompile(`catch\s*\(\s*\w*\s*\)\s*\{\s*\}|_\s*=\s*err\b`)},
}

const maxLineLength = 160

// DetectSmells is the default SmellDetector: a fixed rule table over added
// lines only.
func DetectSmells(path string, added []models.LineChange) []models.CodeSmell {
	var out []models.CodeSmell
	for _, line := range added {
		for _, rule := range smellRules {
			if rule.match.MatchString(line.Content) {
				out = append(out, models.CodeSmell{
					File:        path,
					Line:        line.Number,
					Rule:        rule.rule,
					Description: rule.description,
				})
			}
		}
		if len(line.Content) > maxLineLength {
			out = append(out, models.CodeSmell{
				File:        path,
				Line:        line.Number,
				Rule:        "long-line",
				Description: "line exceeds 160 characters",
			})
		}
	}
	return out
}
