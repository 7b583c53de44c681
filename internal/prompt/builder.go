package prompt

import (
	"fmt"
	"strings"

	"commitforge/internal/models"
)

// DefaultMaxDiffChars bounds the diff body included in a prompt.
const DefaultMaxDiffChars = 32 * 1024

const constraints = `You generate git commit messages from a code diff.
Output only the commit message, no other text or explanation.
Constraints:
- Use the imperative mood (e.g. "Add feature", not "Added feature").
- First line: subject of at most 72 characters, shaped as type(scope): subject when a conventional type fits.
- Blank line, then optional body lines of at most 100 characters each.
- No markdown, code blocks, or quotes.`

// Prompt is a bounded, provider-agnostic generation prompt. Truncated is
// recorded into the eventual generation metadata for reproducibility.
type Prompt struct {
	System    string
	User      string
	Truncated bool
}

// Builder turns a parsed diff plus a persona into a bounded prompt.
type Builder struct {
	maxDiffChars int
}

// NewBuilder creates a Builder. maxDiffChars <= 0 selects the default budget.
func NewBuilder(maxDiffChars int) *Builder {
	if maxDiffChars <= 0 {
		maxDiffChars = DefaultMaxDiffChars
	}
	return &Builder{maxDiffChars: maxDiffChars}
}

// Build renders the diff body from the parsed document, stripping the
// path/index metadata noise of the raw diff, and appends the persona to the
// output constraints. If the body exceeds the budget it is truncated from
// the tail so the earliest context survives.
func (b *Builder) Build(doc *models.DiffDocument, persona string) Prompt {
	system := constraints
	if p := strings.TrimSpace(persona); p != "" {
		system += "\n\nPersona:\n" + p
	}

	body := renderBody(doc)
	truncated := false
	if len(body) > b.maxDiffChars {
		body = body[:b.maxDiffChars] + "\n[diff truncated]"
		truncated = true
	}

	return Prompt{
		System:    system,
		User:      body,
		Truncated: truncated,
	}
}

// renderBody serializes the document without diff --git/index/mode noise
// lines: a header per file, then its classified lines.
func renderBody(doc *models.DiffDocument) string {
	var sb strings.Builder
	for _, file := range doc.Files {
		header := fmt.Sprintf("### %s (%s)", file.Path, file.Status)
		if file.Status == models.FileRenamed && file.OldPath != "" {
			header = fmt.Sprintf("### %s -> %s (renamed)", file.OldPath, file.Path)
		}
		sb.WriteString(header)
		sb.WriteByte('\n')
		for _, line := range file.Lines {
			switch line.Op {
			case models.LineAdd:
				sb.WriteString("+")
			case models.LineDelete:
				sb.WriteString("-")
			default:
				sb.WriteString(" ")
			}
			sb.WriteString(line.Content)
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}
