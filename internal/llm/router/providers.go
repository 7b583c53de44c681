package router

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"commitforge/internal/models"
)

// ChatModelFactory builds a provider chat model for one generation. The API
// key is opaque to the router: it is passed straight through to the provider
// SDK and never inspected or logged.
type ChatModelFactory func(ctx context.Context, apiKey string, cfg *models.ModelConfig) (model.BaseChatModel, error)

func defaultFactories() map[string]ChatModelFactory {
	return map[string]ChatModelFactory{
		"anthropic": newClaudeModel,
		"openai":    newOpenAIModel,
		"gemini":    newGeminiModel,
	}
}

func newClaudeModel(ctx context.Context, apiKey string, cfg *models.ModelConfig) (model.BaseChatModel, error) {
	conf := &claude.Config{
		APIKey:    apiKey,
		Model:     cfg.APIName,
		MaxTokens: cfg.Params.MaxOutputTokens,
	}
	if cfg.Params.Temperature > 0 {
		conf.Temperature = ptr(cfg.Params.Temperature)
	}
	if cfg.Params.TopP > 0 {
		conf.TopP = ptr(cfg.Params.TopP)
	}
	if cfg.Params.TopK > 0 {
		conf.TopK = ptr(int32(cfg.Params.TopK))
	}
	if len(cfg.Params.Stop) > 0 {
		conf.StopSequences = cfg.Params.Stop
	}
	return claude.NewChatModel(ctx, conf)
}

func newOpenAIModel(ctx context.Context, apiKey string, cfg *models.ModelConfig) (model.BaseChatModel, error) {
	conf := &openai.ChatModelConfig{
		APIKey: apiKey,
		Model:  cfg.APIName,
	}
	if cfg.Params.Temperature > 0 {
		conf.Temperature = ptr(cfg.Params.Temperature)
	}
	if cfg.Params.TopP > 0 {
		conf.TopP = ptr(cfg.Params.TopP)
	}
	if cfg.Params.MaxOutputTokens > 0 {
		conf.MaxTokens = ptr(cfg.Params.MaxOutputTokens)
	}
	if len(cfg.Params.Stop) > 0 {
		conf.Stop = cfg.Params.Stop
	}
	return openai.NewChatModel(ctx, conf)
}

func newGeminiModel(ctx context.Context, apiKey string, cfg *models.ModelConfig) (model.BaseChatModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	conf := &gemini.Config{
		Client: client,
		Model:  cfg.APIName,
	}
	if cfg.Params.Temperature > 0 {
		conf.Temperature = ptr(cfg.Params.Temperature)
	}
	if cfg.Params.TopP > 0 {
		conf.TopP = ptr(cfg.Params.TopP)
	}
	if cfg.Params.TopK > 0 {
		conf.TopK = ptr(int32(cfg.Params.TopK))
	}
	if cfg.Params.MaxOutputTokens > 0 {
		conf.MaxTokens = ptr(cfg.Params.MaxOutputTokens)
	}
	return gemini.NewChatModel(ctx, conf)
}

func ptr[T any](v T) *T { return &v }
