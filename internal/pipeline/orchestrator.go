package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"commitforge/internal/diff"
	"commitforge/internal/enhance"
	"commitforge/internal/events"
	"commitforge/internal/llm/router"
	"commitforge/internal/models"
	"commitforge/internal/prompt"
	"commitforge/internal/store"
)

// ErrSuperseded marks a generation discarded because a newer trigger arrived
// on the same session. It is not a failure of the pipeline itself.
var ErrSuperseded = errors.New("generation superseded by a newer request")

// GenerationStream is the fragment sequence consumed by the orchestrator.
// *router.Stream satisfies it; tests substitute their own.
type GenerationStream interface {
	Fragments() <-chan router.Fragment
	Err() error
	Result() router.Result
	Cancel()
}

// Generator starts streamed generation for a prompt against one model.
type Generator interface {
	Generate(ctx context.Context, p prompt.Prompt, cfg *models.ModelConfig) (GenerationStream, error)
}

// ModelSource resolves a model key to its read-only configuration.
type ModelSource interface {
	Get(key string) (*models.ModelConfig, error)
}

type routerGenerator struct {
	r *router.Router
}

func (g routerGenerator) Generate(ctx context.Context, p prompt.Prompt, cfg *models.ModelConfig) (GenerationStream, error) {
	s, err := g.r.Generate(ctx, p, cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// RouterGenerator adapts a Router to the Generator contract.
func RouterGenerator(r *router.Router) Generator {
	return routerGenerator{r: r}
}

// TriggerRequest identifies one generation attempt.
type TriggerRequest struct {
	Diff      string
	ModelKey  string
	Persona   string
	Narrative string
}

// Options wires an Orchestrator. Zero fields fall back to sane defaults
// where one exists; Analyzer, Builder, Models, Generator, Enhancer, and
// History are required.
type Options struct {
	Analyzer   *diff.Analyzer
	Cache      *store.AnalysisCache
	Builder    *prompt.Builder
	Models     ModelSource
	Generator  Generator
	Enhancer   *enhance.Enhancer
	History    *store.HistoryStore
	Emitter    events.Emitter
	CacheTTL   time.Duration
	SessionKey string
}

// Orchestrator owns one editing session's pipeline: analysis through
// persistence, with staged progress events and last-request-wins
// supersession across concurrent triggers.
type Orchestrator struct {
	analyzer   *diff.Analyzer
	cache      *store.AnalysisCache
	builder    *prompt.Builder
	modelSrc   ModelSource
	generator  Generator
	enhancer   *enhance.Enhancer
	history    *store.HistoryStore
	emitter    events.Emitter
	cacheTTL   time.Duration
	sessionKey string

	seq atomic.Uint64

	mu           sync.Mutex
	cancelActive context.CancelFunc
	lastAnalysis *models.DiffAnalysis
	lastRecord   *models.CommitMessageRecord
}

func New(opts Options) *Orchestrator {
	if opts.Cache == nil {
		opts.Cache = store.NewAnalysisCache()
	}
	if opts.Emitter == nil {
		opts.Emitter = events.NopEmitter()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.SessionKey == "" {
		opts.SessionKey = "session:" + uuid.NewString()
	}
	return &Orchestrator{
		analyzer:   opts.Analyzer,
		cache:      opts.Cache,
		builder:    opts.Builder,
		modelSrc:   opts.Models,
		generator:  opts.Generator,
		enhancer:   opts.Enhancer,
		history:    opts.History,
		emitter:    opts.Emitter,
		cacheTTL:   opts.CacheTTL,
		sessionKey: opts.SessionKey,
	}
}

// SessionKey returns the session identity stamped on emitted events.
func (o *Orchestrator) SessionKey() string { return o.sessionKey }

// Trigger starts a generation asynchronously and returns its sequence
// number. A trigger arriving while another generation is in flight marks the
// prior sequence superseded: its context is cancelled and none of its
// fragments or results reach the consumer afterwards.
func (o *Orchestrator) Trigger(ctx context.Context, req TriggerRequest) uint64 {
	seq, runCtx := o.begin(ctx)
	go func() {
		if _, err := o.run(runCtx, seq, req); err != nil && !errors.Is(err, ErrSuperseded) {
			log.Printf("pipeline: sequence %d failed: %v", seq, err)
		}
	}()
	return seq
}

// Run executes a generation synchronously. It participates in the same
// supersession bookkeeping as Trigger.
func (o *Orchestrator) Run(ctx context.Context, req TriggerRequest) (*models.CommitMessageRecord, error) {
	seq, runCtx := o.begin(ctx)
	return o.run(runCtx, seq, req)
}

func (o *Orchestrator) begin(ctx context.Context) (uint64, context.Context) {
	runCtx, cancel := context.WithCancel(events.WithSession(ctx, o.sessionKey))

	o.mu.Lock()
	defer o.mu.Unlock()
	seq := o.seq.Add(1)
	if o.cancelActive != nil {
		o.cancelActive()
	}
	o.cancelActive = cancel
	return seq, runCtx
}

func (o *Orchestrator) run(ctx context.Context, seq uint64, req TriggerRequest) (*models.CommitMessageRecord, error) {
	o.emitStage(ctx, seq, events.NewProgressEvent(events.StageAnalysisStarted, ""))

	doc, parseErrs := diff.Parse(req.Diff)
	for _, perr := range parseErrs {
		log.Printf("pipeline: %v (file flagged low-confidence)", &perr)
	}

	analysis, err := o.cache.GetOrCompute(ctx, doc.Fingerprint, o.cacheTTL, func(ctx context.Context) (*models.DiffAnalysis, error) {
		return o.analyzer.Analyze(ctx, doc, req.Narrative)
	})
	if err != nil {
		return nil, o.fail(ctx, seq, "analysis", err)
	}

	// The completed analysis stays queryable even if generation fails later.
	o.mu.Lock()
	if o.seq.Load() == seq {
		o.lastAnalysis = analysis
	}
	o.mu.Unlock()

	evt := events.NewProgressEvent(events.StageAnalysisComplete, "")
	evt.Metadata = map[string]string{
		"complexity": string(analysis.Complexity),
		"files":      strconv.Itoa(analysis.TotalFilesChanged),
	}
	if !o.emitStage(ctx, seq, evt) {
		return nil, ErrSuperseded
	}

	cfg, err := o.modelSrc.Get(req.ModelKey)
	if err != nil {
		return nil, o.fail(ctx, seq, "configuration", err)
	}
	persona := req.Persona
	if persona == "" {
		persona = cfg.Persona
	}

	p := o.builder.Build(doc, persona)

	started := time.Now()
	stream, err := o.generator.Generate(ctx, p, cfg)
	if err != nil {
		return nil, o.fail(ctx, seq, stageForError(err), err)
	}

	for frag := range stream.Fragments() {
		fragEvt := events.NewProgressEvent(events.StageGenerationProgress, frag.Text)
		fragEvt.Sequence = seq
		if !o.emitStage(ctx, seq, fragEvt) {
			stream.Cancel()
			for range stream.Fragments() {
			}
			return nil, ErrSuperseded
		}
	}
	if serr := stream.Err(); serr != nil {
		return nil, o.fail(ctx, seq, "generation", serr)
	}

	res := stream.Result()
	if !o.emitStage(ctx, seq, events.NewProgressEvent(events.StageGenerationComplete, res.Text)) {
		return nil, ErrSuperseded
	}

	enhanced := o.enhancer.Enhance(ctx, res.Text, analysis)
	enhEvt := events.NewProgressEvent(events.StageEnhancementComplete, enhanced.Message)
	enhEvt.Metadata = map[string]string{
		"warnings": strconv.Itoa(len(enhanced.Warnings)),
		"steps":    strconv.Itoa(len(enhanced.AppliedSteps)),
	}
	if !o.emitStage(ctx, seq, enhEvt) {
		return nil, ErrSuperseded
	}

	record := &models.CommitMessageRecord{
		ID:               uuid.NewString(),
		RawMessage:       res.Text,
		EnhancedMessage:  enhanced.Message,
		DiffFingerprint:  doc.Fingerprint,
		ModelKey:         cfg.Key,
		LatencyMillis:    time.Since(started).Milliseconds(),
		CostEstimate:     res.Cost,
		AppliedStepsJSON: store.EncodeSteps(enhanced.AppliedSteps),
		Sentiment:        enhanced.Sentiment,
		Tone:             enhanced.Tone,
		FormatValid:      enhanced.FormatValid,
		Truncated:        p.Truncated,
	}

	o.mu.Lock()
	if o.seq.Load() != seq {
		o.mu.Unlock()
		return nil, ErrSuperseded
	}
	o.mu.Unlock()

	appendErr := o.history.Append(record)

	// A newer trigger may have started while the write was in flight. Its
	// result must be the only observable one, so a superseded append is
	// rolled back before this sequence gives up.
	o.mu.Lock()
	if o.seq.Load() != seq {
		o.mu.Unlock()
		if appendErr == nil {
			if derr := o.history.Delete(record.ID); derr != nil {
				log.Printf("pipeline: rollback of superseded record %s: %v", record.ID, derr)
			}
		}
		return nil, ErrSuperseded
	}
	o.lastRecord = record
	o.mu.Unlock()

	if appendErr != nil {
		// The in-memory record survives a persistence failure.
		return record, o.fail(ctx, seq, "persistence", appendErr)
	}

	doneEvt := events.NewProgressEvent(events.StagePersisted, "")
	doneEvt.Metadata = map[string]string{"recordId": record.ID}
	o.emitStage(ctx, seq, doneEvt)
	return record, nil
}

// emitStage delivers an event only while seq is still the active sequence.
// Holding the trigger mutex across the check and the emit guarantees that no
// event from a superseded sequence is delivered after a newer one started.
func (o *Orchestrator) emitStage(ctx context.Context, seq uint64, evt events.ProgressEvent) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.seq.Load() != seq {
		return false
	}
	evt.SessionKey = o.sessionKey
	evt.Sequence = seq
	o.emitter.Emit(ctx, evt)
	return true
}

func (o *Orchestrator) fail(ctx context.Context, seq uint64, stage string, err error) error {
	o.emitStage(ctx, seq, events.NewErrorEvent(stage, err.Error()))
	return fmt.Errorf("%s stage: %w", stage, err)
}

func stageForError(err error) string {
	var cfgErr *router.ConfigurationError
	var unsupErr *router.UnsupportedProviderError
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &unsupErr):
		return "configuration"
	case errors.Is(err, router.ErrRateLimitExceeded):
		return "rate-limit"
	default:
		return "generation"
	}
}

// Analysis returns the most recent completed DiffAnalysis, nil before any.
func (o *Orchestrator) Analysis() *models.DiffAnalysis {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastAnalysis
}

// LatestRecord returns the most recent completed record, nil before any.
func (o *Orchestrator) LatestRecord() *models.CommitMessageRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastRecord
}

// SubmitFeedback records a rating and optional comment against a persisted
// record. The generated text is never touched.
func (o *Orchestrator) SubmitFeedback(recordID string, rating int, comment string) error {
	if err := o.history.UpdateFeedback(recordID, rating, comment, false); err != nil {
		return err
	}
	o.mu.Lock()
	if o.lastRecord != nil && o.lastRecord.ID == recordID {
		o.lastRecord.FeedbackRating = rating
		o.lastRecord.FeedbackComment = comment
	}
	o.mu.Unlock()
	return nil
}
