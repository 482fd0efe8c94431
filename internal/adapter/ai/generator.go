// Package ai generates listing copy with an OpenAI-compatible chat model.
package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/usecase"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/logger"
)

var ErrEmptyCompletion = errors.New("empty completion from model")

type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
}

type DescriptionGenerator struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *logger.Logger
}

func NewDescriptionGenerator(cfg Config, log *logger.Logger) *DescriptionGenerator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &DescriptionGenerator{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     model,
		maxTokens: cfg.MaxTokens,
		logger:    log,
	}
}

func (g *DescriptionGenerator) Generate(ctx context.Context, property domain.Property) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: usecase.BuildDescriptionPrompt(property)},
		},
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		g.logger.Error("DescriptionGenerator.Generate: completion request failed", "property_id", property.ID, "model", g.model, "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	g.logger.Debug("DescriptionGenerator.Generate: description generated", "property_id", property.ID, "total_tokens", resp.Usage.TotalTokens)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
