package enhance

import (
	"regexp"
	"strings"
)

// GrammarCorrector rewrites message text. Implementations must be pure; the
// default is a fixed substitution table.
type GrammarCorrector func(text string) string

var grammarFixes = []struct {
	match   *regexp.Regexp
	replace string
}{
	{regexp.MustCompile(`\brecieve\b`), "receive"},
	{regexp.MustCompile(`\bseperate\b`), "separate"},
	{regexp.MustCompile(`\boccured\b`), "occurred"},
	{regexp.MustCompile(`\bteh\b`), "the"},
	{regexp.MustCompile(`\bdont\b`), "don't"},
	{regexp.MustCompile(`\bcant\b`), "can't"},
	{regexp.MustCompile(`\bdoesnt\b`), "doesn't"},
	{regexp.MustCompile(`\bwich\b`), "which"},
	{regexp.MustCompile(`  +`), " "},
}

// CorrectGrammar is the default GrammarCorrector.
func CorrectGrammar(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		for _, fix := range grammarFixes {
			line = fix.match.ReplaceAllString(line, fix.replace)
		}
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// correctGrammar applies the corrector and marks the step applied only when
// the text actually changed.
func correctGrammar(st *state, correct GrammarCorrector) error {
	fixed := correct(st.message)
	if fixed != st.message {
		st.message = fixed
		st.markApplied("grammar")
	}
	return nil
}
