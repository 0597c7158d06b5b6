// Command novagate runs the question-answering gateway.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/novagate/novagate/internal/adapters/llm"
	"github.com/novagate/novagate/internal/adapters/prompts"
	"github.com/novagate/novagate/internal/adapters/websearch"
	"github.com/novagate/novagate/internal/domain/ports"
	"github.com/novagate/novagate/internal/domain/usecases"
	"github.com/novagate/novagate/internal/infrastructure/config"
	httpserver "github.com/novagate/novagate/internal/infrastructure/http"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "novagate",
		Short:         "Question-answering gateway that grounds time-sensitive answers in fresh web results",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var search ports.SearchService = websearch.NewDuckDuckGo(logger)
	if cfg.SearchCachePath != "" {
		cache, err := websearch.NewCache(search, cfg.SearchCachePath, cfg.SearchCacheTTL, logger)
		if err != nil {
			return fmt.Errorf("initializing search cache: %w", err)
		}
		defer cache.Close()
		search = cache
		logger.Info("search cache enabled", zap.String("path", cfg.SearchCachePath))
	}

	var genOpts []llm.GeneratorOption
	if cfg.PromptsDir != "" {
		store, err := prompts.NewStore(cfg.PromptsDir, logger)
		if err != nil {
			return fmt.Errorf("initializing prompt store: %w", err)
		}
		defer store.Stop()
		store.Watch(ctx)
		genOpts = append(genOpts, llm.WithPromptSource(store))
		logger.Info("prompt overrides enabled", zap.String("dir", cfg.PromptsDir))
	}

	generator, err := newGenerator(cfg, genOpts)
	if err != nil {
		return err
	}
	logger.Info("generation backend ready", zap.String("provider", cfg.Provider))

	uc := usecases.NewAskUseCase(search, generator, logger)
	server := httpserver.NewServer(uc, logger, cfg.Addr, cfg.DefaultTopK)

	if err := server.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newGenerator(cfg *config.Config, opts []llm.GeneratorOption) (ports.GenerationService, error) {
	switch cfg.Provider {
	case "openai":
		return llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, opts...)
	case "anthropic":
		return llm.NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel, opts...)
	case "ollama":
		return llm.NewOllama(cfg.OllamaBaseURL, cfg.OllamaModel, opts...), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
