// Package llm provides the generation adapters.
// Clean Architecture: Adapters implementing ports.GenerationService.
// Prompt assembly lives here exactly once; backends differ only in the
// single completion call they make.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/novagate/novagate/internal/domain/dates"
	"github.com/novagate/novagate/internal/domain/entities"
	"github.com/novagate/novagate/internal/domain/grounding"
	"github.com/novagate/novagate/internal/domain/ports"
)

const baseSystemPrompt = `You are Nova, a precise and useful AI assistant.

Behavior rules:
- Be direct and accurate.
- Prefer short structured answers when possible.
- If the user asks for steps, provide ordered steps.`

const contextSystemPrompt = `You are Nova, a context-grounded assistant.

Grounding rules:
- Use the provided context for factual claims.
- If context is insufficient, say you do not have enough context.
- Do not invent facts.
- Prefer the most recent dated items in context.
- For latest/news/current questions, include specific dates found in context.`

const (
	maxHistoryTurns   = 10
	maxTokens         = 900
	baseTemperature   = 0.45
	strictTemperature = 0.25
)

// Message roles, provider-neutral.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one provider-neutral chat message.
type Message struct {
	Role    string
	Content string
}

// completer is the one capability a backend must provide: accept
// messages plus sampling parameters, return completion text.
type completer interface {
	complete(ctx context.Context, msgs []Message, temperature float64, maxTokens int) (string, error)
}

// Generator implements ports.GenerationService on top of a completer.
type Generator struct {
	backend completer
	prompts ports.PromptSource
	now     func() time.Time
}

// GeneratorOption configures optional Generator dependencies.
type GeneratorOption func(*Generator)

// WithPromptSource overrides the compiled-in system prompts, e.g. with a
// hot-reloading file store.
func WithPromptSource(src ports.PromptSource) GeneratorOption {
	return func(g *Generator) { g.prompts = src }
}

func newGenerator(backend completer, opts ...GeneratorOption) *Generator {
	g := &Generator{
		backend: backend,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate assembles the prompt and delegates to the backend.
func (g *Generator) Generate(ctx context.Context, userMessage, contextText string, history []entities.ChatMessage, strictGrounding bool) (string, error) {
	msgs := g.buildMessages(userMessage, contextText, history, strictGrounding)

	temperature := baseTemperature
	if strictGrounding {
		temperature = strictTemperature
	}

	answer, err := g.backend.complete(ctx, msgs, temperature, maxTokens)
	if err != nil {
		return "", fmt.Errorf("completing chat: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

func (g *Generator) buildMessages(userMessage, contextText string, history []entities.ChatMessage, strict bool) []Message {
	msgs := []Message{{Role: RoleSystem, Content: g.systemPrompt(strict)}}

	if trimmed := strings.TrimSpace(contextText); trimmed != "" {
		todayISO, _ := dates.NormalizeTime(g.now())
		msgs = append(msgs, Message{
			Role: RoleSystem,
			Content: fmt.Sprintf(
				"Today is %s (UTC). Use this context as your knowledge base for this turn:\n\n%s",
				todayISO, grounding.Truncate(trimmed, grounding.MaxContextChars),
			),
		})
	}

	msgs = append(msgs, cleanHistory(history)...)
	msgs = append(msgs, Message{Role: RoleUser, Content: strings.TrimSpace(userMessage)})
	return msgs
}

func (g *Generator) systemPrompt(strict bool) string {
	if g.prompts != nil {
		if s := g.prompts.System(strict); s != "" {
			return s
		}
	}
	if strict {
		return contextSystemPrompt
	}
	return baseSystemPrompt
}

// cleanHistory drops turns with unknown roles or empty content and keeps
// the most recent maxHistoryTurns.
func cleanHistory(history []entities.ChatMessage) []Message {
	cleaned := make([]Message, 0, len(history))
	for _, turn := range history {
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		if turn.Role != RoleUser && turn.Role != RoleAssistant {
			continue
		}
		cleaned = append(cleaned, Message{Role: turn.Role, Content: content})
	}
	if len(cleaned) > maxHistoryTurns {
		cleaned = cleaned[len(cleaned)-maxHistoryTurns:]
	}
	return cleaned
}
