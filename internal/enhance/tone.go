package enhance

import "strings"

var informalMarkers = []string{
	"gonna", "wanna", "kinda", "stuff", "things", "lol", "btw", "!!!",
	"oops", "yeah",
}

var technicalMarkers = []string{
	"refactor", "implement", "deprecate", "api", "endpoint", "regex",
	"nil", "null", "mutex", "goroutine", "migration", "serialize",
}

// classifyTone buckets the message as formal, informal, or technical. A
// mismatch with the preferred commit format raises a warning only.
func classifyTone(st *state, preferredFormat string) error {
	haystack := strings.ToLower(st.message)

	tone := "formal"
	for _, marker := range technicalMarkers {
		if strings.Contains(haystack, marker) {
			tone = "technical"
			break
		}
	}
	for _, marker := range informalMarkers {
		if strings.Contains(haystack, marker) {
			tone = "informal"
			break
		}
	}

	st.result.Tone = tone
	if tone == "informal" && preferredFormat != "plain" {
		st.warn("informal tone clashes with the %s commit format", preferredFormat)
	}
	st.markApplied("tone")
	return nil
}
