package embedder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/goldensql/goldensql/internal/domain/golden"
	"github.com/goldensql/goldensql/internal/infra/llm/chatgpt"
)

const fallbackEncoding = "cl100k_base"

// ChatGPTEmbedder calls an OpenAI-compatible embeddings API. Input is
// token-counted with tiktoken and rejected before calling the provider if
// it exceeds the model's budget.
type ChatGPTEmbedder struct {
	client    *chatgpt.Client
	model     string
	maxTokens int
	encoder   *tiktoken.Tiktoken
	logger    *slog.Logger
}

// NewChatGPTEmbedder constructs the embedder.
func NewChatGPTEmbedder(client *chatgpt.Client, model string, maxTokens int, logger *slog.Logger) *ChatGPTEmbedder {
	if logger == nil {
		logger = slog.Default()
	}
	encoder, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoder, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			encoder = nil
		}
		logger.Warn("no tokenizer for embedding model, using fallback encoding", "model", model)
	}
	return &ChatGPTEmbedder{
		client:    client,
		model:     strings.TrimSpace(model),
		maxTokens: maxTokens,
		encoder:   encoder,
		logger:    logger.With("component", "embedder.chatgpt"),
	}
}

// Embed requests the embedding for a single text.
func (e *ChatGPTEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		return nil, errors.New("embedding input cannot be empty")
	}
	if e.encoder != nil && e.maxTokens > 0 {
		if tokens := len(e.encoder.Encode(input, nil, nil)); tokens > e.maxTokens {
			return nil, fmt.Errorf("embedding input too large: %d tokens exceeds budget of %d", tokens, e.maxTokens)
		}
	}

	resp, err := e.client.CreateEmbedding(ctx, chatgpt.EmbeddingRequest{
		Model: e.model,
		Input: input,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("embedding response empty")
	}
	vector := make([]float32, len(resp.Data[0].Embedding))
	copy(vector, resp.Data[0].Embedding)
	return vector, nil
}

var _ golden.Embedder = (*ChatGPTEmbedder)(nil)
