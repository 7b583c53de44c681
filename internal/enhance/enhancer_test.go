package enhance

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnhanceAllDisabledLeavesMessageUntouched(t *testing.T) {
	raw := "fixed teh bug  \n\nsome messy body"
	res := NewEnhancer(Config{}).Enhance(context.Background(), raw, nil)

	assert.Equal(t, raw, res.Message)
	assert.Empty(t, res.AppliedSteps)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "neutral", res.Sentiment)
	assert.Equal(t, "technical", res.Tone)
	assert.True(t, res.FormatValid)
}

func TestEnhanceFormatWarningsNeverBlock(t *testing.T) {
	long := strings.Repeat("x", 80)
	res := NewEnhancer(Config{Format: true, PreferredFormat: "conventional"}).
		Enhance(context.Background(), long, nil)

	assert.Equal(t, long, res.Message)
	assert.False(t, res.FormatValid)
	assert.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.AppliedSteps, "format")
}

func TestEnhanceFormatCountsCharactersNotBytes(t *testing.T) {
	// 70 characters but 76 bytes once the emoji are in.
	subject := "🐛🔥 fix crash on " + strings.Repeat("x", 54)
	res := NewEnhancer(Config{Format: true, PreferredFormat: "plain"}).
		Enhance(context.Background(), subject, nil)
	assert.True(t, res.FormatValid)
	assert.Empty(t, res.Warnings)

	over := strings.Repeat("é", 73)
	res = NewEnhancer(Config{Format: true, PreferredFormat: "plain"}).
		Enhance(context.Background(), over, nil)
	assert.False(t, res.FormatValid)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "73 characters")
}

func TestEnhanceFormatAcceptsConventionalSubject(t *testing.T) {
	msg := "fix(auth): reject empty tokens\n\nReturn a typed error instead of nil."
	res := NewEnhancer(Config{Format: true, PreferredFormat: "conventional"}).
		Enhance(context.Background(), msg, nil)

	assert.True(t, res.FormatValid)
	assert.Empty(t, res.Warnings)
}

func TestEnhanceFormatFlagsPastTense(t *testing.T) {
	res := NewEnhancer(Config{Format: true, PreferredFormat: "plain"}).
		Enhance(context.Background(), "Added retry logic", nil)

	assert.False(t, res.FormatValid)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "imperative")
}

func TestEnhanceGrammarAppliedOnlyOnChange(t *testing.T) {
	res := NewEnhancer(Config{Grammar: true}).
		Enhance(context.Background(), "fix: recieve  events correctly", nil)
	assert.Equal(t, "fix: receive events correctly", res.Message)
	assert.Contains(t, res.AppliedSteps, "grammar")

	clean := NewEnhancer(Config{Grammar: true}).
		Enhance(context.Background(), "fix: receive events correctly", nil)
	assert.NotContains(t, clean.AppliedSteps, "grammar")
}

func TestEnhanceEmojiPrefix(t *testing.T) {
	res := NewEnhancer(Config{Emoji: true}).
		Enhance(context.Background(), "fix: resolve crash on empty input", nil)

	assert.NotEqual(t, "fix: resolve crash on empty input", res.Message)
	assert.True(t, strings.HasSuffix(res.Message, "fix: resolve crash on empty input"))
	assert.Contains(t, res.AppliedSteps, "emoji")
	assert.NotEmpty(t, res.Suggestions)
}

func TestEnhanceSentimentAndTone(t *testing.T) {
	res := NewEnhancer(Config{Sentiment: true, Tone: true, PreferredFormat: "conventional"}).
		Enhance(context.Background(), "fix: this horrible broken mess, gonna redo it", nil)

	assert.Equal(t, "negative", res.Sentiment)
	assert.Equal(t, "informal", res.Tone)
	// Both are advisory: the message text is untouched.
	assert.Equal(t, "fix: this horrible broken mess, gonna redo it", res.Message)
	assert.NotEmpty(t, res.Warnings)
}

func TestEnhanceStageFailureIsSwallowed(t *testing.T) {
	exploding := GrammarCorrector(func(string) string { panic("boom") })
	res := NewEnhancer(
		Config{Grammar: true, Sentiment: true},
		WithGrammarCorrector(exploding),
	).Enhance(context.Background(), "fix: keep calm", nil)

	// The failed stage restores the message and the chain continues.
	assert.Equal(t, "fix: keep calm", res.Message)
	assert.NotContains(t, res.AppliedSteps, "grammar")
	assert.Contains(t, res.AppliedSteps, "sentiment")
}

func TestEnhanceStageOrderIsFixed(t *testing.T) {
	res := NewEnhancer(Config{Format: true, Grammar: true, Emoji: true, Sentiment: true, Tone: true, PreferredFormat: "plain"}).
		Enhance(context.Background(), "fix: recieve crash reports", nil)

	var order []string
	for _, step := range res.AppliedSteps {
		if step == "format" || step == "grammar" || step == "emoji" || step == "sentiment" || step == "tone" {
			order = append(order, step)
		}
	}
	assert.Equal(t, []string{"format", "grammar", "emoji", "sentiment", "tone"}, order)
}
