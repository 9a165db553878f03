package openai

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/llmnexus/nexus/internal/domain"
	"github.com/llmnexus/nexus/internal/ports"
)

const defaultAPIKeyEnv = "OPENAI_API_KEY"

// Client issues chat-completion calls through one configured SDK client
// per catalog entry, so each model can point at its own endpoint. The
// dispatcher owns the deadline; this adapter only honors the context it
// is handed.
type Client struct {
	clients map[domain.ModelID]*openai.Client
	logger  zerolog.Logger
}

var _ ports.ModelClient = (*Client)(nil)

func NewClient(catalog []domain.ModelSpec, logger zerolog.Logger) *Client {
	clients := make(map[domain.ModelID]*openai.Client, len(catalog))
	for _, spec := range catalog {
		config := openai.DefaultConfig(apiKeyFor(spec))
		if spec.BaseURL != "" {
			config.BaseURL = spec.BaseURL
		}
		clients[spec.ID] = openai.NewClientWithConfig(config)
	}

	return &Client{clients: clients, logger: logger}
}

func (c *Client) Call(ctx context.Context, model domain.ModelID, prompt string) (string, error) {
	client, ok := c.clients[model]
	if !ok {
		return "", fmt.Errorf("model %q is not in the catalog", model)
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: string(model),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion for %q: %w", model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion for %q returned no choices", model)
	}

	c.logger.Debug().
		Str("model", string(model)).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("chat completion returned")

	return resp.Choices[0].Message.Content, nil
}

func apiKeyFor(spec domain.ModelSpec) string {
	env := spec.APIKeyEnv
	if env == "" {
		env = defaultAPIKeyEnv
	}
	return os.Getenv(env)
}
