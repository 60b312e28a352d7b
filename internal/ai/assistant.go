package ai

import "context"

// Sampling carries the generation parameters passed to the provider.
type Sampling struct {
	Temperature      float32
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
	MaxTokens        int32
}

// DefaultSampling favours varied, creative output with reduced repetition.
func DefaultSampling() Sampling {
	return Sampling{
		Temperature:      0.9,
		TopP:             0.9,
		FrequencyPenalty: 0.5,
		PresencePenalty:  0.3,
		MaxTokens:        1500,
	}
}

// Writer produces proposal prose for a prompt.
type Writer interface {
	Write(ctx context.Context, prompt string, sampling Sampling) (string, error)
}
