package router

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commitforge/internal/models"
	"commitforge/internal/prompt"
)

type staticCreds map[string]string

func (c staticCreds) APIKey(provider string) (string, error) {
	key, ok := c[provider]
	if !ok {
		return "", errors.New("no credential")
	}
	return key, nil
}

// stubChatModel replays canned fragments through the eino stream contract.
type stubChatModel struct {
	chunks    []string
	streamErr error
}

func (m *stubChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage(strings.Join(m.chunks, ""), nil), nil
}

func (m *stubChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	if m.streamErr != nil {
		return nil, m.streamErr
	}
	msgs := make([]*schema.Message, 0, len(m.chunks))
	for _, chunk := range m.chunks {
		msgs = append(msgs, schema.AssistantMessage(chunk, nil))
	}
	return schema.StreamReaderFromArray(msgs), nil
}

func stubFactory(stub *stubChatModel) ChatModelFactory {
	return func(ctx context.Context, apiKey string, cfg *models.ModelConfig) (model.BaseChatModel, error) {
		return stub, nil
	}
}

func testConfig() *models.ModelConfig {
	return &models.ModelConfig{
		Key:        "stub|stub-model",
		APIName:    "stub-model",
		ProviderID: "stub",
		Enabled:    true,
		Cost: models.CostCoefficients{
			InputPerKChars:  0.001,
			OutputPerKChars: 0.002,
		},
	}
}

func testPrompt() prompt.Prompt {
	return prompt.Prompt{System: "system text", User: "user text"}
}

func TestGenerateStreamReconstructsMessage(t *testing.T) {
	chunks := []string{"fix(auth): ", "reject ", "empty ", "tokens"}
	r := NewRouter(staticCreds{"stub": "key"},
		WithFactory("stub", stubFactory(&stubChatModel{chunks: chunks})),
	)

	s, err := r.Generate(context.Background(), testPrompt(), testConfig())
	require.NoError(t, err)

	var got strings.Builder
	lastIndex := -1
	for frag := range s.Fragments() {
		assert.Equal(t, lastIndex+1, frag.Index)
		lastIndex = frag.Index
		got.WriteString(frag.Text)
	}
	require.NoError(t, s.Err())

	res := s.Result()
	assert.Equal(t, "fix(auth): reject empty tokens", got.String())
	assert.Equal(t, got.String(), res.Text)
	assert.Equal(t, len("system text")+len("user text"), res.InputChars)
	assert.Equal(t, len(res.Text), res.OutputChars)
	assert.InDelta(t, EstimateCost(testConfig(), res.InputChars, res.OutputChars), res.Cost, 1e-12)
}

func TestGenerateRejectsDisabledModel(t *testing.T) {
	r := NewRouter(staticCreds{"stub": "key"},
		WithFactory("stub", stubFactory(&stubChatModel{})),
	)
	cfg := testConfig()
	cfg.Enabled = false

	_, err := r.Generate(context.Background(), testPrompt(), cfg)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "disabled")
}

func TestGenerateRejectsNilAndIncompleteConfig(t *testing.T) {
	r := NewRouter(staticCreds{})

	_, err := r.Generate(context.Background(), testPrompt(), nil)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	cfg := testConfig()
	cfg.APIName = " "
	_, err = r.Generate(context.Background(), testPrompt(), cfg)
	require.ErrorAs(t, err, &cfgErr)
}

func TestGenerateUnknownProvider(t *testing.T) {
	r := NewRouter(staticCreds{"nowhere": "key"})
	cfg := testConfig()
	cfg.ProviderID = "nowhere"

	_, err := r.Generate(context.Background(), testPrompt(), cfg)
	var unsupported *UnsupportedProviderError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "nowhere", unsupported.Provider)
}

func TestGenerateMissingCredential(t *testing.T) {
	r := NewRouter(staticCreds{},
		WithFactory("stub", stubFactory(&stubChatModel{})),
	)

	_, err := r.Generate(context.Background(), testPrompt(), testConfig())
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestGenerateRateLimitFailsWithinBound(t *testing.T) {
	maxWait := 100 * time.Millisecond
	r := NewRouter(staticCreds{"stub": "key"},
		WithFactory("stub", stubFactory(&stubChatModel{chunks: []string{"ok"}})),
		WithRateLimit(1, 1, maxWait),
	)

	s, err := r.Generate(context.Background(), testPrompt(), testConfig())
	require.NoError(t, err)
	for range s.Fragments() {
	}

	started := time.Now()
	_, err = r.Generate(context.Background(), testPrompt(), testConfig())
	elapsed := time.Since(started)

	require.ErrorIs(t, err, ErrRateLimitExceeded)
	assert.Less(t, elapsed, maxWait+time.Second, "rate gate must fail within the configured bound, not queue")
}

func TestGenerateProviderStreamFailure(t *testing.T) {
	boom := errors.New("upstream unavailable")
	r := NewRouter(staticCreds{"stub": "key"},
		WithFactory("stub", stubFactory(&stubChatModel{streamErr: boom})),
	)

	_, err := r.Generate(context.Background(), testPrompt(), testConfig())
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "stub", provErr.Provider)
	assert.ErrorIs(t, err, boom)
}

func TestEstimateCost(t *testing.T) {
	cfg := testConfig()
	cost := EstimateCost(cfg, 2000, 1000)
	assert.InDelta(t, 2*0.001+1*0.002, cost, 1e-12)
}

func TestStreamCancelStopsProducer(t *testing.T) {
	chunks := make([]string, 200)
	for i := range chunks {
		chunks[i] = "x"
	}
	r := NewRouter(staticCreds{"stub": "key"},
		WithFactory("stub", stubFactory(&stubChatModel{chunks: chunks})),
	)

	s, err := r.Generate(context.Background(), testPrompt(), testConfig())
	require.NoError(t, err)

	count := 0
	for frag := range s.Fragments() {
		_ = frag
		count++
		if count == 3 {
			s.Cancel()
		}
	}
	assert.Less(t, count, len(chunks))
}
