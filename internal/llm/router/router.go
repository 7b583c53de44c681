package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"commitforge/internal/models"
	"commitforge/internal/prompt"
)

// CredentialSource supplies the opaque provider credential for a provider
// tag. The router passes it through to the provider SDK untouched.
type CredentialSource interface {
	APIKey(provider string) (string, error)
}

// Router drives provider-specific streaming generation behind one
// provider-agnostic contract, with a bounded per-model rate gate and cost
// accounting after stream completion.
type Router struct {
	creds     CredentialSource
	factories map[string]ChatModelFactory

	ratePerMinute int
	rateBurst     int
	rateMaxWait   time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// RouterOption customizes a Router.
type RouterOption func(*Router)

// WithFactory registers or replaces the chat-model factory for a provider.
func WithFactory(provider string, factory ChatModelFactory) RouterOption {
	return func(r *Router) { r.factories[provider] = factory }
}

// WithRateLimit configures the per-model gate: perMinute dispatches with the
// given burst, waiting at most maxWait before failing.
func WithRateLimit(perMinute, burst int, maxWait time.Duration) RouterOption {
	return func(r *Router) {
		r.ratePerMinute = perMinute
		r.rateBurst = burst
		r.rateMaxWait = maxWait
	}
}

func NewRouter(creds CredentialSource, opts ...RouterOption) *Router {
	r := &Router{
		creds:         creds,
		factories:     defaultFactories(),
		ratePerMinute: 20,
		rateBurst:     5,
		rateMaxWait:   10 * time.Second,
		limiters:      make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Generate starts streamed generation for prompt p against cfg. The returned
// stream is finite and not restartable mid-stream: fragments arrive in
// generation order and their concatenation reconstructs the complete message.
// Failure before any output is a ProviderError and nothing partial is
// emitted.
func (r *Router) Generate(ctx context.Context, p prompt.Prompt, cfg *models.ModelConfig) (*Stream, error) {
	if cfg == nil {
		return nil, &ConfigurationError{Reason: "no model selected"}
	}
	if strings.TrimSpace(cfg.APIName) == "" {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("model %s has no API name", cfg.Key)}
	}
	if !cfg.Enabled {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("model %s is disabled", cfg.Key)}
	}

	factory, ok := r.factories[cfg.ProviderID]
	if !ok {
		return nil, &UnsupportedProviderError{Provider: cfg.ProviderID}
	}

	apiKey, err := r.creds.APIKey(cfg.ProviderID)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("credential for %s unavailable: %v", cfg.ProviderID, err)}
	}
	if apiKey == "" {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("credential for %s is not configured", cfg.ProviderID)}
	}

	if err := r.waitForSlot(ctx, cfg.Key); err != nil {
		return nil, err
	}

	chatModel, err := factory(ctx, apiKey, cfg)
	if err != nil {
		return nil, &ProviderError{Provider: cfg.ProviderID, Err: err}
	}

	messages := []*schema.Message{
		schema.SystemMessage(p.System),
		schema.UserMessage(p.User),
	}

	streamCtx, cancel := context.WithCancel(ctx)
	reader, err := chatModel.Stream(streamCtx, messages)
	if err != nil {
		cancel()
		return nil, &ProviderError{Provider: cfg.ProviderID, Err: err}
	}

	s := newStream(cancel)
	started := time.Now()
	inputChars := len(p.System) + len(p.User)

	go func() {
		defer close(s.ch)
		defer cancel()
		defer reader.Close()

		var sb strings.Builder
		index := 0
		for {
			msg, recvErr := reader.Recv()
			if recvErr != nil {
				if errors.Is(recvErr, io.EOF) {
					break
				}
				if index == 0 {
					s.fail(&ProviderError{Provider: cfg.ProviderID, Err: recvErr})
				} else {
					s.fail(fmt.Errorf("stream interrupted after %d fragments: %w", index, recvErr))
				}
				return
			}
			if msg == nil || msg.Content == "" {
				continue
			}
			sb.WriteString(msg.Content)
			frag := Fragment{Index: index, Text: msg.Content}
			index++
			select {
			case s.ch <- frag:
			case <-streamCtx.Done():
				s.fail(streamCtx.Err())
				return
			}
		}

		text := sb.String()
		cost := EstimateCost(cfg, inputChars, len(text))
		s.finish(Result{
			Text:        text,
			InputChars:  inputChars,
			OutputChars: len(text),
			Cost:        cost,
			Latency:     time.Since(started),
		})
		log.Printf("router: %s generated %d chars in %s (est. cost $%.6f)",
			cfg.Key, len(text), time.Since(started).Round(time.Millisecond), cost)
	}()

	return s, nil
}

// waitForSlot applies the per-model-id rate gate. It blocks at most
// rateMaxWait; on timeout the call fails with ErrRateLimitExceeded instead of
// queueing indefinitely.
func (r *Router) waitForSlot(ctx context.Context, modelKey string) error {
	limiter := r.limiterFor(modelKey)

	waitCtx, cancel := context.WithTimeout(ctx, r.rateMaxWait)
	defer cancel()
	if err := limiter.Wait(waitCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: model %s gate did not clear within %s", ErrRateLimitExceeded, modelKey, r.rateMaxWait)
	}
	return nil
}

func (r *Router) limiterFor(modelKey string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	limiter, ok := r.limiters[modelKey]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(r.ratePerMinute)/60.0), r.rateBurst)
		r.limiters[modelKey] = limiter
	}
	return limiter
}
