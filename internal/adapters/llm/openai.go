package llm

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openAIBackend talks to any OpenAI-compatible chat-completion endpoint
// via the official openai-go SDK. A base-URL override serves hosted
// compatible providers (Groq-style gateways) with the same code path.
type openAIBackend struct {
	model string
	opts  []option.RequestOption
}

// NewOpenAI creates a Generator backed by an OpenAI-compatible API.
func NewOpenAI(apiKey, model, baseURL string, opts ...GeneratorOption) (*Generator, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing")
	}
	if model == "" {
		return nil, errors.New("openai model is required")
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	return newGenerator(&openAIBackend{model: model, opts: reqOpts}, opts...), nil
}

func (o *openAIBackend) complete(ctx context.Context, msgs []Message, temperature float64, maxTokens int) (string, error) {
	client := openai.NewClient(o.opts...)

	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case RoleAssistant:
			params = append(params, openai.ChatCompletionMessageParamOfAssistant(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.model),
		Messages:    params,
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
