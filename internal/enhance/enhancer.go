package enhance

import (
	"context"
	"fmt"
	"log"

	"commitforge/internal/models"
)

// Config toggles each enhancement stage independently. The stage order is
// fixed; only participation is configurable.
type Config struct {
	Format          bool
	Grammar         bool
	Emoji           bool
	Sentiment       bool
	Tone            bool
	PreferredFormat string // "conventional" | "plain"
}

// Result carries the final message text, the ordered warning and suggestion
// lists, and the metadata deltas merged into the commit record.
type Result struct {
	Message      string
	Warnings     []string
	Suggestions  []string
	Sentiment    string
	Tone         string
	FormatValid  bool
	AppliedSteps []string
}

type state struct {
	message  string
	analysis *models.DiffAnalysis
	result   *Result
}

// Enhancer applies the fixed-order, fail-soft transformation chain to a raw
// generated message. An internal error in any stage is caught, logged, and
// treated as "no change"; the chain never aborts the pipeline.
type Enhancer struct {
	cfg     Config
	grammar GrammarCorrector
	emoji   EmojiSuggester
}

// EnhancerOption customizes an Enhancer.
type EnhancerOption func(*Enhancer)

// WithGrammarCorrector replaces the default correction rules.
func WithGrammarCorrector(c GrammarCorrector) EnhancerOption {
	return func(e *Enhancer) { e.grammar = c }
}

// WithEmojiSuggester replaces the default emoji keyword table.
func WithEmojiSuggester(s EmojiSuggester) EnhancerOption {
	return func(e *Enhancer) { e.emoji = s }
}

func NewEnhancer(cfg Config, opts ...EnhancerOption) *Enhancer {
	e := &Enhancer{
		cfg:     cfg,
		grammar: CorrectGrammar,
		emoji:   SuggestEmoji,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enhance runs the chain over raw. analysis may be nil; stages that use it
// degrade gracefully. With every stage disabled the returned message is
// byte-identical to raw.
func (e *Enhancer) Enhance(ctx context.Context, raw string, analysis *models.DiffAnalysis) Result {
	st := &state{
		message:  raw,
		analysis: analysis,
		result: &Result{
			Sentiment:   "neutral",
			Tone:        "technical",
			FormatValid: true,
		},
	}

	type chainStage struct {
		name    string
		enabled bool
		apply   func(*state) error
	}
	chain := []chainStage{
		{"format", e.cfg.Format, func(s *state) error { return validateFormat(s, e.cfg.PreferredFormat) }},
		{"grammar", e.cfg.Grammar, func(s *state) error { return correctGrammar(s, e.grammar) }},
		{"emoji", e.cfg.Emoji, func(s *state) error { return suggestEmoji(s, e.emoji) }},
		{"sentiment", e.cfg.Sentiment, classifySentiment},
		{"tone", e.cfg.Tone, func(s *state) error { return classifyTone(s, e.cfg.PreferredFormat) }},
	}

	for _, stage := range chain {
		if ctx.Err() != nil {
			break
		}
		if !stage.enabled {
			continue
		}
		e.runStage(stage.name, stage.apply, st)
	}

	st.result.Message = st.message
	return *st.result
}

// runStage executes one stage fail-soft: a returned error or panic restores
// the pre-stage message and is logged, never propagated.
func (e *Enhancer) runStage(name string, apply func(*state) error, st *state) {
	before := st.message
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return apply(st)
	}()
	if err != nil {
		st.message = before
		log.Printf("enhance: %s stage failed, skipping: %v", name, err)
	}
}

func (st *state) warn(format string, args ...any) {
	st.result.Warnings = append(st.result.Warnings, fmt.Sprintf(format, args...))
}

func (st *state) suggest(format string, args ...any) {
	st.result.Suggestions = append(st.result.Suggestions, fmt.Sprintf(format, args...))
}

func (st *state) markApplied(step string) {
	st.result.AppliedSteps = append(st.result.AppliedSteps, step)
}
