package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"document-qa/internal/config"
	"document-qa/internal/models"
)

var ErrGeneration = errors.New("generation failed")

// NewEmbedder creates an embedder against an OpenAI-compatible endpoint.
func NewEmbedder(llmConfig *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	llm, err := newLLM(llmConfig)
	if err != nil {
		return nil, err
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, err
	}
	return embedder, nil
}

// Client calls an OpenAI-compatible backend for chat generation.
type Client struct {
	llm *openai.LLM
}

func NewClient(llmConfig *config.LLMConfig) (*Client, error) {
	llm, err := newLLM(llmConfig)
	if err != nil {
		return nil, err
	}
	return &Client{llm: llm}, nil
}

func newLLM(llmConfig *config.LLMConfig) (*openai.LLM, error) {
	return openai.New(
		openai.WithBaseURL(llmConfig.BaseURL),
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithModel(llmConfig.Model),
	)
}

// Generate runs a single-prompt completion.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	return c.generate(ctx, messages)
}

// GenerateWithHistory runs a completion conditioned on prior turns. Turns
// are replayed as alternating human and AI messages in chronological order
// ahead of the new prompt, so the backend resolves follow-up references
// itself.
func (c *Client) GenerateWithHistory(ctx context.Context, turns []models.Turn, prompt string) (string, error) {
	messages := make([]llms.MessageContent, 0, 2*len(turns)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, models.QASystemPrompt))
	for _, turn := range turns {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, turn.Question))
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeAI, turn.Answer))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))
	return c.generate(ctx, messages)
}

func (c *Client) generate(ctx context.Context, messages []llms.MessageContent) (string, error) {
	res, err := c.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrGeneration)
	}
	return res.Choices[0].Content, nil
}
