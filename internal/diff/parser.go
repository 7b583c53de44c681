package diff

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"commitforge/internal/models"
)

// ParseError reports a file-scoped parse problem. It is advisory: the
// affected file is flagged low-confidence and the parse continues.
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Path, e.Reason)
}

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// Fingerprint returns the deterministic hash of raw diff text used as the
// cache and dedup key.
func Fingerprint(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Parse tokenizes unified-diff text into per-file change records. An
// unparsable hunk is skipped and the containing file flagged low-confidence;
// Parse itself never fails for the whole document.
func Parse(raw string) (*models.DiffDocument, []ParseError) {
	doc := &models.DiffDocument{
		Fingerprint: Fingerprint(raw),
		Raw:         raw,
	}
	if strings.TrimSpace(raw) == "" {
		return doc, nil
	}

	var parseErrs []ParseError
	lines := strings.Split(raw, "\n")

	cur := -1
	inHunk := false
	skipHunk := false
	oldLine, newLine := 0, 0

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, "diff --git ") {
			doc.Files = append(doc.Files, models.FileChange{Status: models.FileModified})
			cur = len(doc.Files) - 1
			inHunk = false
			skipHunk = false
			oldPath, newPath := extractPaths(line)
			doc.Files[cur].Path = newPath
			if oldPath != newPath {
				doc.Files[cur].OldPath = oldPath
			}
			continue
		}

		// A ---/+++ pair without a preceding git header opens a file the way
		// plain `diff -u` output does. Inside a git file's own header block
		// (file open, no hunk content yet) the pair belongs to that file.
		if strings.HasPrefix(line, "--- ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+++ ") &&
			(cur < 0 || inHunk || len(doc.Files[cur].Lines) > 0) {
			doc.Files = append(doc.Files, plainHeaderFile(line, lines[i+1]))
			cur = len(doc.Files) - 1
			inHunk = false
			skipHunk = false
			i++
			continue
		}

		if cur < 0 {
			continue
		}
		file := &doc.Files[cur]

		if strings.HasPrefix(line, "@@") {
			m := hunkHeaderRe.FindStringSubmatch(line)
			if m == nil {
				file.LowConfidence = true
				parseErrs = append(parseErrs, ParseError{Path: file.Path, Reason: "malformed hunk header"})
				inHunk = false
				skipHunk = true
				continue
			}
			oldLine = atoiDefault(m[1], 1)
			newLine = atoiDefault(m[3], 1)
			inHunk = true
			skipHunk = false
			continue
		}

		if !inHunk {
			if skipHunk {
				continue
			}
			switch {
			case strings.HasPrefix(line, "new file mode"):
				file.Status = models.FileAdded
			case strings.HasPrefix(line, "deleted file mode"):
				file.Status = models.FileDeleted
			case strings.HasPrefix(line, "rename from "):
				file.Status = models.FileRenamed
				file.OldPath = strings.TrimPrefix(line, "rename from ")
			case strings.HasPrefix(line, "rename to "):
				file.Status = models.FileRenamed
				file.Path = strings.TrimPrefix(line, "rename to ")
			case strings.HasPrefix(line, "+++ b/"):
				file.Path = strings.TrimPrefix(line, "+++ b/")
			case line == "--- /dev/null":
				file.Status = models.FileAdded
			case line == "+++ /dev/null":
				file.Status = models.FileDeleted
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, `\`):
			// "\ No newline at end of file"
		case strings.HasPrefix(line, "+"):
			file.Lines = append(file.Lines, models.LineChange{
				Op:      models.LineAdd,
				Number:  newLine,
				Content: line[1:],
			})
			newLine++
		case strings.HasPrefix(line, "-"):
			file.Lines = append(file.Lines, models.LineChange{
				Op:      models.LineDelete,
				Number:  oldLine,
				Content: line[1:],
			})
			oldLine++
		case line == "" || strings.HasPrefix(line, " "):
			content := line
			if content != "" {
				content = content[1:]
			}
			file.Lines = append(file.Lines, models.LineChange{
				Op:      models.LineUnchanged,
				Number:  newLine,
				Content: content,
			})
			oldLine++
			newLine++
		default:
			// A line that belongs to no known hunk grammar poisons the rest
			// of this hunk, not the file list.
			file.LowConfidence = true
			parseErrs = append(parseErrs, ParseError{Path: file.Path, Reason: "unexpected line in hunk"})
			inHunk = false
			skipHunk = true
		}
	}

	for i := range doc.Files {
		file := &doc.Files[i]
		file.OldFingerprint = contentFingerprint(file, models.LineDelete)
		file.NewFingerprint = contentFingerprint(file, models.LineAdd)
	}
	return doc, parseErrs
}

// contentFingerprint hashes the reconstructed side of a file: kept context
// plus either the deleted (old side) or added (new side) lines.
func contentFingerprint(file *models.FileChange, side models.LineOp) string {
	h := sha256.New()
	for _, line := range file.Lines {
		if line.Op == side || line.Op == models.LineUnchanged {
			h.Write([]byte(line.Content))
			h.Write([]byte{'\n'})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// plainHeaderFile builds a file record from a ---/+++ header pair of a
// non-git unified diff.
func plainHeaderFile(oldHeader, newHeader string) models.FileChange {
	oldTarget := headerPath(strings.TrimPrefix(oldHeader, "--- "), "a/")
	newTarget := headerPath(strings.TrimPrefix(newHeader, "+++ "), "b/")

	file := models.FileChange{Status: models.FileModified, Path: newTarget}
	switch {
	case oldTarget == "/dev/null":
		file.Status = models.FileAdded
	case newTarget == "/dev/null":
		file.Status = models.FileDeleted
		file.Path = oldTarget
	default:
		if oldTarget != newTarget {
			file.OldPath = oldTarget
		}
	}
	return file
}

// headerPath normalizes a ---/+++ header target: trailing timestamps are cut
// and the a/ or b/ prefix stripped.
func headerPath(s, strip string) string {
	if i := strings.IndexByte(s, '\t'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "/dev/null" {
		return s
	}
	return strings.TrimPrefix(s, strip)
}

// extractPaths pulls the a/ and b/ paths from a "diff --git" header line.
func extractPaths(line string) (oldPath, newPath string) {
	rest := strings.TrimPrefix(line, "diff --git ")
	parts := strings.SplitN(rest, " b/", 2)
	if len(parts) != 2 {
		return rest, rest
	}
	return strings.TrimPrefix(parts[0], "a/"), parts[1]
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
