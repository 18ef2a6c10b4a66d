// Package openai adapts the OpenAI chat completions API to the engine's
// AI collaborator interface.
package openai

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/flowcanvas/flowcanvas/internal/infrastructure/ctxlog"
)

// DefaultModel is used when a node does not declare one.
const DefaultModel = "gpt-4o-mini"

// ErrMissingAPIKey is returned by New when no key is configured.
var ErrMissingAPIKey = errors.New("openai api key is not set")

// Client implements usecases.AIClient.
type Client struct {
	api          *goopenai.Client
	defaultModel string
}

// New creates a client. The key comes from configuration (the CLI loads it
// from OPENAI_API_KEY).
func New(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &Client{
		api:          goopenai.NewClient(apiKey),
		defaultModel: DefaultModel,
	}, nil
}

// Invoke sends the prompt plus upstream context and awaits the completion.
// The call is genuinely fallible I/O; retry policy belongs to the caller.
func (c *Client) Invoke(ctx context.Context, prompt string, callCtx map[string]any) (string, error) {
	model := c.defaultModel
	if m, ok := callCtx["model"].(string); ok && m != "" {
		model = m
	}

	content := prompt
	if upstream := renderContext(callCtx); upstream != "" {
		content = prompt + "\n\n" + upstream
	}

	ctxlog.FromContext(ctx).Debug("openai invoke", "model", model)
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: content},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// renderContext flattens upstream values into a deterministic block
// appended to the prompt. The model key is configuration, not data.
func renderContext(callCtx map[string]any) string {
	keys := make([]string, 0, len(callCtx))
	for k := range callCtx {
		if k == "model" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("Context:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, callCtx[k])
	}
	return strings.TrimRight(b.String(), "\n")
}
