package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 512
	DefaultTimeout     = 30 * time.Second

	minTemperature = 0.0
	maxTemperature = 2.0
	minMaxTokens   = 16
	maxMaxTokens   = 4096
)

// Settings are the per-call knobs applied to every completion.
type Settings struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Normalize fills defaults and clamps out-of-range values, logging a warning
// for each value it changes.
func (s Settings) Normalize() Settings {
	if s.Temperature < minTemperature || s.Temperature > maxTemperature {
		clamped := min(max(s.Temperature, minTemperature), maxTemperature)
		log.Warn().Float64("temperature", s.Temperature).Float64("clamped", clamped).Msg("llm temperature out of range")
		s.Temperature = clamped
	}

	switch {
	case s.MaxTokens == 0:
		s.MaxTokens = DefaultMaxTokens
	case s.MaxTokens < minMaxTokens || s.MaxTokens > maxMaxTokens:
		clamped := min(max(s.MaxTokens, minMaxTokens), maxMaxTokens)
		log.Warn().Int("max_tokens", s.MaxTokens).Int("clamped", clamped).Msg("llm max tokens out of range")
		s.MaxTokens = clamped
	}

	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	return s
}

// Service wraps a Completer with fixed settings and a hard timeout.
type Service struct {
	completer Completer
	settings  Settings
}

func NewService(completer Completer, settings Settings) *Service {
	settings = settings.Normalize()
	log.Info().
		Str("provider", completer.GetProviderName()).
		Str("model", settings.Model).
		Float64("temperature", settings.Temperature).
		Int("max_tokens", settings.MaxTokens).
		Msg("llm service ready")
	return &Service{completer: completer, settings: settings}
}

// Settings returns the normalized settings in use
func (s *Service) Settings() Settings {
	return s.settings
}

// GetProviderName returns current provider name
func (s *Service) GetProviderName() string {
	return s.completer.GetProviderName()
}

// Chat runs one completion bounded by the configured timeout.
func (s *Service) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.settings.Timeout)
	defer cancel()

	out, err := s.completer.Complete(ctx, CompletionRequest{
		Messages:    messages,
		Model:       s.settings.Model,
		Temperature: s.settings.Temperature,
		MaxTokens:   s.settings.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", s.completer.GetProviderName(), err)
	}
	return out, nil
}
