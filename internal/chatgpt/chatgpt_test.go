package chatgpt

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/ainews/internal/news"
	"github.com/deusflow/ainews/internal/synth"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestChatGPT_Generate(t *testing.T) {
	mock := &OpenAIClientMock{
		CreateChatCompletionFunc: func(
			ctx context.Context,
			req openai.ChatCompletionRequest,
		) (openai.ChatCompletionResponse, error) {
			assert.Equal(t, openai.ChatCompletionRequest{
				Model:     "gpt-4o-mini",
				MaxTokens: 1000,
				Messages: []openai.ChatCompletionMessage{
					{Role: "user", Content: "write a post"},
				},
			}, req)
			return openai.ChatCompletionResponse{
				Choices: []openai.ChatCompletionChoice{
					{Message: openai.ChatCompletionMessage{Content: "# Post"}},
					{Message: openai.ChatCompletionMessage{Content: "ignored"}},
				},
			}, nil
		},
	}
	cl := &ChatGPT{log: testLogger, cl: &loggingClient{log: testLogger, cl: mock}, maxTokens: 1000}

	resp, err := cl.Generate(context.Background(), "gpt-4o-mini", "write a post")
	require.NoError(t, err)
	assert.Equal(t, "# Post", resp)
	assert.Len(t, mock.CreateChatCompletionCalls(), 1)
	assert.NoError(t, cl.Close())
}

func TestChatGPT_Generate_Errors(t *testing.T) {
	t.Run("request failed", func(t *testing.T) {
		cl := &ChatGPT{log: testLogger, cl: &OpenAIClientMock{
			CreateChatCompletionFunc: func(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
				return openai.ChatCompletionResponse{}, errors.New("rate limited")
			},
		}}

		_, err := cl.Generate(context.Background(), "gpt-4o-mini", "p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("no choices", func(t *testing.T) {
		cl := &ChatGPT{log: testLogger, cl: &OpenAIClientMock{
			CreateChatCompletionFunc: func(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
				return openai.ChatCompletionResponse{}, nil
			},
		}}

		_, err := cl.Generate(context.Background(), "gpt-4o-mini", "p")
		assert.ErrorIs(t, err, ErrNoChoices)
	})
}

func TestDialer(t *testing.T) {
	gen, err := Dialer(testLogger, http.DefaultClient, "", 2000)(context.Background(), "sk-test")
	require.NoError(t, err)

	cl, ok := gen.(*ChatGPT)
	require.True(t, ok)
	assert.Equal(t, 2000, cl.maxTokens)
	assert.IsType(t, &loggingClient{}, cl.cl)
}

func newCompletionServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, openai.GPT4oMini, req.Model)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[0].Role)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "hi"}}},
		})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestChatGPT_Generate_HTTP(t *testing.T) {
	var hits int32
	ts := newCompletionServer(t, &hits)

	cl := NewChatGPT(testLogger, ts.Client(), "sk-test", ts.URL+"/v1", 0)

	resp, err := cl.Generate(context.Background(), synth.ModelGPT4oMini, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", resp)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestDialer_Synthesize(t *testing.T) {
	var hits int32
	ts := newCompletionServer(t, &hits)

	s := synth.New(testLogger, map[synth.Provider]synth.Dialer{
		synth.ProviderOpenAI: Dialer(testLogger, ts.Client(), ts.URL+"/v1", 500),
	})

	post, err := s.Synthesize(context.Background(), news.Article{Title: "t", URL: "https://example.com/t"},
		synth.Style{Tone: synth.Casual, Length: synth.Short, Model: synth.ModelGPT4oMini}, "sk-test")
	require.NoError(t, err)
	assert.Equal(t, "hi", post)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "request reaches the server")
}
