package diff

import (
	"fmt"
	"strings"

	"commitforge/internal/models"
)

// RefactorAdvisor is the contract for refactor-suggestion inference over the
// added lines of one file. Implementations must be pure.
type RefactorAdvisor func(path string, added []models.LineChange) []models.RefactorSuggestion

const (
	largeFileAddition = 200
	deepIndentColumns = 24
	duplicateMinCount = 3
)

// SuggestRefactors is the default RefactorAdvisor.
func SuggestRefactors(path string, added []models.LineChange) []models.RefactorSuggestion {
	var out []models.RefactorSuggestion

	if len(added) > largeFileAddition {
		out = append(out, models.RefactorSuggestion{
			File:        path,
			Description: fmt.Sprintf("%d lines added in one file; consider splitting the change", len(added)),
		})
	}

	seen := map[string]int{}
	deep := false
	for _, line := range added {
		trimmed := strings.TrimSpace(line.Content)
		if len(trimmed) > 20 {
			seen[trimmed]++
		}
		if indentWidth(line.Content) >= deepIndentColumns && trimmed != "" {
			deep = true
		}
	}
	for content, count := range seen {
		if count >= duplicateMinCount {
			out = append(out, models.RefactorSuggestion{
				File:        path,
				Description: fmt.Sprintf("line repeated %d times, extract shared helper: %.60s", count, content),
			})
			break
		}
	}
	if deep {
		out = append(out, models.RefactorSuggestion{
			File:        path,
			Description: "deeply nested code added; consider early returns",
		})
	}
	return out
}

func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width
		}
	}
	return width
}
