package models

// FileStatus classifies how a file was touched by a diff.
type FileStatus string

const (
	FileAdded    FileStatus = "added"
	FileModified FileStatus = "modified"
	FileDeleted  FileStatus = "deleted"
	FileRenamed  FileStatus = "renamed"
)

// LineOp classifies a single line within a hunk.
type LineOp string

const (
	LineAdd       LineOp = "add"
	LineDelete    LineOp = "delete"
	LineUnchanged LineOp = "unchanged"
)

// LineChange is one classified line of a hunk. Number is the line number in
// the new file for added/unchanged lines and in the old file for deletions.
type LineChange struct {
	Op      LineOp `json:"op"`
	Number  int    `json:"number"`
	Content string `json:"content"`
}

// FileChange holds the parsed change set for a single file.
// LowConfidence marks files whose hunks could not be fully parsed; such a
// file is kept in the document rather than aborting the whole parse.
type FileChange struct {
	Path           string       `json:"path"`
	OldPath        string       `json:"oldPath,omitempty"`
	Status         FileStatus   `json:"status"`
	Lines          []LineChange `json:"lines"`
	LowConfidence  bool         `json:"lowConfidence,omitempty"`
	OldFingerprint string       `json:"oldFingerprint"`
	NewFingerprint string       `json:"newFingerprint"`
}

// DiffDocument is the immutable result of parsing raw diff text. It is
// identified by a content fingerprint of the raw text, which doubles as the
// cache and dedup key everywhere downstream.
type DiffDocument struct {
	Fingerprint string       `json:"fingerprint"`
	Files       []FileChange `json:"files"`
	Raw         string       `json:"-"`
}

// AddedContent returns the added-line contents of a file in order.
func (f *FileChange) AddedContent() []string {
	var out []string
	for _, line := range f.Lines {
		if line.Op == LineAdd {
			out = append(out, line.Content)
		}
	}
	return out
}

// DeletedContent returns the deleted-line contents of a file in order.
func (f *FileChange) DeletedContent() []string {
	var out []string
	for _, line := range f.Lines {
		if line.Op == LineDelete {
			out = append(out, line.Content)
		}
	}
	return out
}

// ChangedLineCount counts added plus deleted lines across the document.
func (d *DiffDocument) ChangedLineCount() int {
	n := 0
	for _, f := range d.Files {
		for _, line := range f.Lines {
			if line.Op == LineAdd || line.Op == LineDelete {
				n++
			}
		}
	}
	return n
}
