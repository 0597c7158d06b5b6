package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicBackend talks to the Anthropic Messages API. System messages
// are lifted into the top-level system field the API expects.
type anthropicBackend struct {
	client anthropic.Client
	model  string
}

// NewAnthropic creates a Generator backed by the Anthropic API.
func NewAnthropic(apiKey, model string, opts ...GeneratorOption) (*Generator, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic api key missing")
	}
	if model == "" {
		return nil, errors.New("anthropic model is required")
	}
	backend := &anthropicBackend{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
	return newGenerator(backend, opts...), nil
}

func (a *anthropicBackend) complete(ctx context.Context, msgs []Message, temperature float64, maxTokens int) (string, error) {
	var system []string
	params := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			params = append(params, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			params = append(params, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
		System:      []anthropic.TextBlockParam{{Text: strings.Join(system, "\n\n")}},
		Messages:    params,
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("anthropic: empty completion")
	}
	return sb.String(), nil
}
