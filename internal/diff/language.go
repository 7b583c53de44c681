package diff

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// detectLanguage classifies a file by its path and added content. enry covers
// the extension and content heuristics; anything it cannot place is bucketed
// as "Other" so histogram totals still match the file count.
func detectLanguage(path string, added []string) string {
	content := []byte(strings.Join(added, "\n"))
	if lang := enry.GetLanguage(filepath.Base(path), content); lang != "" {
		return lang
	}
	return "Other"
}
