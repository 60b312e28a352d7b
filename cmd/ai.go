package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/proposal-writer/internal/ai"
	"github.com/spigell/proposal-writer/internal/ai/gemini"
	"github.com/spigell/proposal-writer/internal/logger"
	"github.com/spigell/proposal-writer/internal/proposal"
	"github.com/spigell/proposal-writer/internal/secrets"
)

const geminiAPIKeyEnv = "GEMINI_API_KEY"

// newWriter builds the configured text writer. A nil writer means every
// proposal uses the templated fallback.
func newWriter(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Writer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gcfg.APIKey,
		File:  gcfg.APIKeyFile,
		Env:   geminiAPIKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiAPIKeyEnv)
	}

	genLogger := logger.WithAI(log, "gemini", gcfg.Model).With(zap.Int("ai_max_retries", gcfg.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model, gcfg.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewWriter(generator, gcfg.MaxLogLength, logger.WithAI(log, "gemini", generator.Model())), nil
}

// newService wires the proposal service. Writer setup failures degrade to the
// fallback text instead of aborting.
func newService(ctx context.Context, cfg *Config, log *zap.Logger) *proposal.Service {
	opts := []proposal.Option{proposal.WithTimeout(cfg.AI.Timeout)}

	writer, err := newWriter(ctx, cfg.AI, log)
	switch {
	case err != nil:
		log.Warn("text generation disabled, using fallback proposals", zap.Error(err))
	case writer == nil:
		log.Info("text generation is not enabled, using fallback proposals")
	default:
		opts = append(opts, proposal.WithWriter(writer))
	}

	return proposal.New(log, opts...)
}
