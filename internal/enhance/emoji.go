package enhance

import (
	"strings"
	"unicode"
)

// EmojiSuggester derives candidate emoji from the message and the change's
// domain contexts, best candidate first. Implementations must be pure.
type EmojiSuggester func(message string, contexts []string) []string

var emojiKeywords = []struct {
	emoji    string
	keywords []string
}{
	{"🐛", []string{"fix", "bug", "crash", "regression"}},
	{"✨", []string{"feat", "add", "introduce", "new"}},
	{"📝", []string{"docs", "readme", "document"}},
	{"✅", []string{"test", "coverage", "testing"}},
	{"♻️", []string{"refactor", "restructure", "cleanup", "clean up"}},
	{"⚡", []string{"perf", "performance", "speed", "optimize", "caching"}},
	{"🔒", []string{"security", "auth", "authentication", "vulnerability"}},
	{"🔥", []string{"remove", "delete", "drop"}},
	{"🔧", []string{"config", "configuration", "settings", "build"}},
}

// SuggestEmoji is the default EmojiSuggester.
func SuggestEmoji(message string, contexts []string) []string {
	haystack := strings.ToLower(message + " " + strings.Join(contexts, " "))
	var out []string
	for _, entry := range emojiKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(haystack, kw) {
				out = append(out, entry.emoji)
				break
			}
		}
	}
	return out
}

// suggestEmoji records all candidates as suggestions and auto-prefixes the
// top candidate when the message does not already start with an emoji.
func suggestEmoji(st *state, suggest EmojiSuggester) error {
	var contexts []string
	if st.analysis != nil {
		contexts = st.analysis.DomainContexts
	}
	candidates := suggest(st.message, contexts)
	if len(candidates) == 0 {
		return nil
	}
	for _, emoji := range candidates {
		st.suggest("emoji candidate: %s", emoji)
	}
	if !startsWithEmoji(st.message) {
		st.message = candidates[0] + " " + st.message
		st.markApplied("emoji")
	}
	return nil
}

// startsWithEmoji reports whether the first rune is a non-ASCII symbol,
// which covers every emoji in the suggestion table.
func startsWithEmoji(message string) bool {
	for _, r := range message {
		return r > unicode.MaxASCII && unicode.IsSymbol(r)
	}
	return false
}
