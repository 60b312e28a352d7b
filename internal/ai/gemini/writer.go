package gemini

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/proposal-writer/internal/ai"
	"github.com/spigell/proposal-writer/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, sampling ai.Sampling) (string, error)
}

// Writer implements ai.Writer on top of a Gemini content generator.
type Writer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

const defaultMaxLogLength = 200

func NewWriter(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Writer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Writer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (w *Writer) Write(ctx context.Context, prompt string, sampling ai.Sampling) (string, error) {
	w.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, w.maxLogLen)),
		zap.Float32("temperature", sampling.Temperature),
		zap.Int32("max_tokens", sampling.MaxTokens),
	)

	raw, err := w.generator.GenerateContent(ctx, prompt, sampling)
	if err != nil {
		return "", err
	}

	w.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, w.maxLogLen)),
	)

	text := cleanResponse(raw)
	if text == "" {
		return "", errors.New("gemini response has no proposal text")
	}

	return text, nil
}

// cleanResponse strips markdown code fences some models wrap the answer in.
func cleanResponse(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		if idx := strings.Index(raw, "\n"); idx != -1 {
			raw = raw[idx+1:]
		} else {
			raw = strings.TrimPrefix(raw, "```")
		}
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}
