package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// ollamaBackend runs chat completions against a local Ollama runtime.
// The model handle is loaded lazily on first use behind a mutex so
// concurrent first requests do not trigger duplicate loads; a failed
// load is retried on the next request.
type ollamaBackend struct {
	baseURL string
	model   string
	client  *http.Client

	mu     sync.Mutex
	loaded bool
}

// NewOllama creates a Generator backed by a local Ollama runtime.
func NewOllama(baseURL, model string, opts ...GeneratorOption) *Generator {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	backend := &ollamaBackend{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 300 * time.Second, // on-device inference can be slow
		},
	}
	return newGenerator(backend, opts...)
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Options  ollamaOptions       `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaChatResponse struct {
	Message ollamaChatMessage `json:"message"`
	Done    bool              `json:"done"`
}

// ensureLoaded warms the model exactly once. An empty generate request
// asks Ollama to pull the model into memory without producing output.
func (o *ollamaBackend) ensureLoaded(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.loaded {
		return nil
	}

	body, err := json.Marshal(map[string]any{"model": o.model})
	if err != nil {
		return fmt.Errorf("marshaling warm-up request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating warm-up request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("warming model: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama warm-up returned status %d", resp.StatusCode)
	}

	o.loaded = true
	return nil
}

func (o *ollamaBackend) complete(ctx context.Context, msgs []Message, temperature float64, maxTokens int) (string, error) {
	if err := o.ensureLoaded(ctx); err != nil {
		return "", err
	}

	chatMsgs := make([]ollamaChatMessage, 0, len(msgs))
	for _, m := range msgs {
		chatMsgs = append(chatMsgs, ollamaChatMessage{Role: m.Role, Content: m.Content})
	}

	reqBody := ollamaChatRequest{
		Model:    o.model,
		Messages: chatMsgs,
		Stream:   false,
		Options:  ollamaOptions{Temperature: temperature, NumPredict: maxTokens},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Ollama returned status %d", resp.StatusCode)
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return chatResp.Message.Content, nil
}
