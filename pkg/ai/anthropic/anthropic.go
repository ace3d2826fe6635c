package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/planetdetroit/civic/pkg/ai"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultMaxTokens = 1024

// Client implements ai.ChatClient on the Anthropic Messages API.
// Anthropic has no embeddings endpoint; pair it with another ai.Embedder.
type Client struct {
	client *anthropic.Client
	model  string
}

// NewClientParams configures NewClient. BaseURL may be empty.
type NewClientParams struct {
	Model   string
	APIKey  string
	BaseURL string
}

func NewClient(params NewClientParams) *Client {
	options := []option.RequestOption{option.WithAPIKey(params.APIKey)}
	if params.BaseURL != "" {
		options = append(options, option.WithBaseURL(params.BaseURL))
	}
	client := anthropic.NewClient(options...)

	model := params.Model
	if model == "" {
		model = string(anthropic.ModelClaudeHaiku4_5)
	}
	return &Client{client: &client, model: model}
}

func (c *Client) messageParams(prompt string, options ai.GenerateOptions) anthropic.MessageNewParams {
	maxTokens := options.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	system := make([]anthropic.TextBlockParam, 0, len(options.SystemPrompts))
	for _, sp := range options.SystemPrompts {
		system = append(system, anthropic.TextBlockParam{Text: sp})
	}

	return anthropic.MessageNewParams{
		Model:       anthropic.Model(options.Model),
		MaxTokens:   int64(maxTokens),
		System:      system,
		Temperature: anthropic.Float(options.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
}

// GenerateCompletion sends a single-turn prompt and returns the text blocks
// of the reply joined together.
func (c *Client) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.Apply(ai.GenerateOptions{
		Model:       c.model,
		Temperature: 0.3,
	}, opts...)

	resp, err := c.client.Messages.New(ctx, c.messageParams(prompt, options))
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("no text in response from anthropic")
	}
	return b.String(), nil
}

// GenerateCompletionWithFormat appends the JSON schema of out to the system
// prompts and parses the reply leniently. The Messages API has no native
// schema mode.
func (c *Client) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	schema, err := json.Marshal(ai.GenerateSchema(out))
	if err != nil {
		return err
	}

	options := ai.Apply(ai.GenerateOptions{Model: c.model, Temperature: 0.1}, opts...)
	options.SystemPrompts = append(options.SystemPrompts, fmt.Sprintf(
		"Respond with a single JSON object named %q (%s) matching this JSON schema, and nothing else:\n%s",
		name, description, schema,
	))

	resp, err := c.client.Messages.New(ctx, c.messageParams(prompt, options))
	if err != nil {
		return fmt.Errorf("anthropic API error: %w", err)
	}
	if len(resp.Content) == 0 {
		return errors.New("no response from anthropic")
	}

	return ai.UnmarshalFlexible(ai.ExtractJSON(resp.Content[0].Text, '{', '}'), out)
}
