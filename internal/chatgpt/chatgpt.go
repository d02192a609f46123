// Package chatgpt generates text with OpenAI chat completion models.
package chatgpt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/deusflow/ainews/internal/synth"
)

//go:generate moq -out mock_openai_client.go . OpenAIClient

// OpenAIClient is interface for OpenAI client with the possibility to mock it
type OpenAIClient interface {
	CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ErrNoChoices is returned when the completion holds no choices.
var ErrNoChoices = errors.New("no choices in response")

// ChatGPT is a client to make requests to OpenAI chat completion service.
type ChatGPT struct {
	log       *slog.Logger
	cl        OpenAIClient
	maxTokens int
}

// NewChatGPT creates new ChatGPT client. maxTokens limits the response, zero leaves it to the model.
// Empty baseURL means the public OpenAI api.
func NewChatGPT(lg *slog.Logger, cl *http.Client, token, baseURL string, maxTokens int) *ChatGPT {
	config := openai.DefaultConfig(token)
	if cl != nil {
		config.HTTPClient = cl
	}
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &ChatGPT{
		log:       lg,
		cl:        &loggingClient{log: lg, cl: openai.NewClientWithConfig(config)},
		maxTokens: maxTokens,
	}
}

// Dialer makes a synthesizer dialer backed by the given http client.
func Dialer(lg *slog.Logger, cl *http.Client, baseURL string, maxTokens int) synth.Dialer {
	return func(_ context.Context, apiKey string) (synth.Generator, error) {
		return NewChatGPT(lg, cl, apiKey, baseURL, maxTokens), nil
	}
}

// Generate sends the prompt as a single user message.
func (s *ChatGPT) Generate(ctx context.Context, model, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := s.cl.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}

// Close does nothing, the client holds no connections of its own.
func (s *ChatGPT) Close() error { return nil }

type loggingClient struct {
	log *slog.Logger
	cl  OpenAIClient
}

func (l *loggingClient) CreateChatCompletion(
	ctx context.Context,
	req openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {
	l.log.DebugContext(ctx, "sending request to openai", slog.String("model", req.Model))
	resp, err := l.cl.CreateChatCompletion(ctx, req)
	l.log.DebugContext(ctx, "response received from openai",
		slog.Int("total_tokens", resp.Usage.TotalTokens),
		slog.Any("err", err),
	)
	return resp, err
}
