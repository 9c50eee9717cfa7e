package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"quizsolver/internal/retry"
)

// ChatClient calls an OpenAI-compatible chat-completions endpoint.
// Perplexity and Groq both speak this wire format, so one client type
// covers every configured provider; only the base URL and model differ.
type ChatClient struct {
	provider string
	model    string
	client   *openai.Client
	retries  int
}

const (
	defaultQueryTimeout    = 20 * time.Second
	defaultProbeTimeout    = 10 * time.Second
	defaultChatTemperature = 0.2
	defaultAnswerMaxTokens = 100
	retryBackoffBase       = 300 * time.Millisecond
	retryBackoffMax        = 900 * time.Millisecond

	// Short answers keep the voter's clustering meaningful; a paragraph of
	// explanation would never match another model's phrasing.
	answerSystemPrompt = "Output ONLY the direct answer in 2-3 words. No explanation."
)

// NewChatClient builds a client for one model on one provider endpoint.
func NewChatClient(provider, baseURL, apiKey, model string, retries int) (*ChatClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required for %s", provider)
	}
	if model == "" {
		return nil, fmt.Errorf("model required for %s", provider)
	}
	if retries <= 0 {
		retries = 1
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	cli := openai.NewClient(opts...)
	return &ChatClient{
		provider: provider,
		model:    model,
		client:   &cli,
		retries:  retries,
	}, nil
}

func (c *ChatClient) Name() string  { return c.provider }
func (c *ChatClient) Model() string { return c.model }

// Ask sends the question and returns the raw answer text. Transient
// failures are retried with a short capped backoff; the caller's context
// still bounds the whole exchange.
func (c *ChatClient) Ask(ctx context.Context, question string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil chat client")
	}

	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(retry.CappedBackoff(attempt-1, retryBackoffBase, retryBackoffMax)):
			}
		}

		answer, err := c.complete(ctx, question)
		if err == nil {
			return answer, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("%s/%s: %w", c.provider, c.model, lastErr)
}

// Probe sends a minimal completion to verify the model is reachable and
// accepts requests under the configured credentials.
func (c *ChatClient) Probe(ctx context.Context) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("nil chat client")
	}
	reqCtx, cancel := context.WithTimeout(ctx, defaultProbeTimeout)
	defer cancel()

	_, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    buildMessages("", "test"),
		Temperature: openai.Float(defaultChatTemperature),
		MaxTokens:   openai.Int(10),
	})
	return err
}

// ListModels fetches model ids from the provider. Not every endpoint
// implements the listing route (Perplexity does not); callers should treat
// an error here as "use the configured candidates as-is".
func (c *ChatClient) ListModels(ctx context.Context) ([]string, error) {
	page, err := c.client.Models.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func (c *ChatClient) complete(ctx context.Context, question string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    buildMessages(answerSystemPrompt, "Answer: "+question),
		Temperature: openai.Float(defaultChatTemperature),
		MaxTokens:   openai.Int(defaultAnswerMaxTokens),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildMessages(system, user string) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessageParamUnion{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(system),
				},
			},
		})
	}
	return append(messages, openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfString: openai.String(user),
			},
		},
	})
}
