// Package usecases - ask.go orchestrates the intent-routing and
// freshness-grounding pipeline for one request.
package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/novagate/novagate/internal/domain/dates"
	"github.com/novagate/novagate/internal/domain/entities"
	"github.com/novagate/novagate/internal/domain/freshness"
	"github.com/novagate/novagate/internal/domain/grounding"
	"github.com/novagate/novagate/internal/domain/intent"
	"github.com/novagate/novagate/internal/domain/ports"
)

const (
	// DefaultTopK applies when the caller does not request a result count.
	DefaultTopK = 5
	// maxRetrievalTopK caps what is passed to the search collaborator,
	// independent of the request-level bound.
	maxRetrievalTopK = 8
)

// ErrEmptyQuestion rejects questions that are empty after trimming.
var ErrEmptyQuestion = errors.New("question cannot be empty")

// AskUseCase wires classification, retrieval, freshness filtering,
// context assembly and generation together per request.
// Single Responsibility: routing and policy only - no transport, no I/O
// of its own beyond the injected collaborators.
type AskUseCase struct {
	search ports.SearchService
	llm    ports.GenerationService
	logger *zap.Logger
	now    func() time.Time
}

// NewAskUseCase creates an AskUseCase with injected dependencies.
func NewAskUseCase(search ports.SearchService, llm ports.GenerationService, logger *zap.Logger) *AskUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AskUseCase{
		search: search,
		llm:    llm,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Ask runs the full pipeline and returns exactly one terminal outcome.
func (uc *AskUseCase) Ask(ctx context.Context, req *entities.AskRequest) (*entities.AnswerResult, error) {
	// 1. Validate input.
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	mode := intent.Mode(req.Mode)
	if mode == "" {
		mode = intent.ModeAuto
	}

	// 2. Classify intent. Freshness is tied to the question's phrasing,
	// not to how retrieval was triggered.
	useWeb := intent.ShouldUseWeb(question, req.UseWeb, mode)
	timeSensitive := intent.IsTimeSensitive(question)

	// 3. Retrieve when required. Search failures degrade to an empty
	// result set; the caller never sees a retrieval error.
	var hits []entities.RetrievalItem
	if useWeb {
		topK := req.TopK
		if topK <= 0 {
			topK = DefaultTopK
		}
		if topK > maxRetrievalTopK {
			topK = maxRetrievalTopK
		}

		var err error
		hits, err = uc.search.Search(ctx, question, topK, timeSensitive)
		if err != nil {
			uc.logger.Warn("web search failed, continuing without results", zap.Error(err))
			hits = nil
		}

		// 4. Time-sensitive questions either produce a live digest or a
		// deliberate refusal. Never fall back to ungrounded generation
		// when the question demanded freshness.
		if timeSensitive {
			today := uc.now()
			hits = freshness.Filter(hits, question, today)
			if len(hits) == 0 {
				todayISO, _ := dates.NormalizeTime(today)
				return &entities.AnswerResult{
					Answer: fmt.Sprintf(
						"I could not fetch sufficiently recent live results right now (as of %s UTC). Please retry in a moment.",
						todayISO,
					),
					Intent:  intent.IntentWeb,
					Sources: []entities.SourceRef{},
				}, nil
			}
			return &entities.AnswerResult{
				Answer:     grounding.LiveDigest(question, hits, today),
				Intent:     intent.IntentWeb,
				Sources:    grounding.Sources(hits, grounding.LiveDigestItems),
				Grounded:   true,
				HasContext: true,
			}, nil
		}
	}

	// 5. Assemble context and delegate generation. The call is shielded
	// from caller cancellation: once generation starts it runs to
	// completion.
	contextText := grounding.Context(hits)
	strict := contextText != ""

	answer, err := uc.llm.Generate(context.WithoutCancel(ctx), question, contextText, req.Messages, strict)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	label := intent.IntentChat
	if useWeb {
		label = intent.IntentWeb
	}
	return &entities.AnswerResult{
		Answer:     answer,
		Intent:     label,
		Sources:    grounding.Sources(hits, 0),
		Grounded:   strict,
		HasContext: strict,
	}, nil
}
