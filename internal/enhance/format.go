package enhance

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxSubjectLength  = 72
	maxBodyLineLength = 100
)

// conventionalRe matches the type(scope): subject shape, scope optional.
var conventionalRe = regexp.MustCompile(`^(feat|fix|docs|style|refactor|perf|test|build|ci|chore|revert)(\([\w./-]+\))?!?: \S.*`)

// pastTenseRe catches the most common non-imperative subject openers.
var pastTenseRe = regexp.MustCompile(`(?i)^(\w+(\([\w./-]+\))?!?: )?(added|fixed|updated|changed|removed|refactored|implemented)\b`)

// validateFormat checks the message against the preferred commit format.
// Violations become warnings and clear the validity flag; they never block.
func validateFormat(st *state, preferredFormat string) error {
	lines := strings.Split(st.message, "\n")
	if len(lines) == 0 {
		return nil
	}
	subject := lines[0]
	valid := true

	// Limits are in characters, not bytes: an emoji prefix must not push a
	// short subject over the line.
	if n := utf8.RuneCountInString(subject); n > maxSubjectLength {
		st.warn("subject is %d characters, limit is %d", n, maxSubjectLength)
		valid = false
	}
	if preferredFormat != "plain" && !conventionalRe.MatchString(subject) {
		st.warn("subject does not follow type(scope): subject")
		valid = false
	}
	if pastTenseRe.MatchString(subject) {
		st.warn("subject should use the imperative mood")
		valid = false
	}
	if len(lines) > 1 && strings.TrimSpace(lines[1]) != "" {
		st.warn("second line should be blank")
		valid = false
	}
	for i, line := range lines[1:] {
		if utf8.RuneCountInString(line) > maxBodyLineLength {
			st.warn("body line %d exceeds %d characters", i+2, maxBodyLineLength)
			valid = false
		}
	}

	st.result.FormatValid = valid
	st.markApplied("format")
	return nil
}
