package enhance

import "strings"

var negativeWords = []string{
	"hack", "broken", "ugly", "terrible", "awful", "stupid", "horrible",
	"mess", "garbage", "workaround",
}

var positiveWords = []string{
	"improve", "enhance", "clean", "optimize", "simplify", "modernize",
	"streamline", "robust",
}

// classifySentiment buckets the message as positive, neutral, or negative by
// word counts. Negative sentiment raises a warning only; the message itself
// is never changed.
func classifySentiment(st *state) error {
	haystack := strings.ToLower(st.message)
	neg, pos := 0, 0
	for _, w := range negativeWords {
		if strings.Contains(haystack, w) {
			neg++
		}
	}
	for _, w := range positiveWords {
		if strings.Contains(haystack, w) {
			pos++
		}
	}

	switch {
	case neg > pos:
		st.result.Sentiment = "negative"
		st.warn("message reads negatively, consider neutral phrasing")
	case pos > neg:
		st.result.Sentiment = "positive"
	default:
		st.result.Sentiment = "neutral"
	}
	st.markApplied("sentiment")
	return nil
}
